package lsp

import (
	"github.com/treelang/go-tree-lsp/internal/protocol"
	"github.com/treelang/go-tree-lsp/internal/rpc"
)

// handleInitialize answers the client handshake with the server's fixed
// capabilities: full-document sync and hover, nothing else.
func (h *Handler) handleInitialize(payload []byte) ([]byte, error) {
	var req protocol.InitializeRequest
	if err := protocol.Decode(payload, &req); err != nil {
		return nil, err
	}

	if info := req.Params.ClientInfo; info != nil {
		h.log.Infof("initialize from %s %s (process %d, id %d)",
			*info.Name, *info.Version, *req.Params.ProcessID, *req.ID)
	} else {
		h.log.Infof("initialize from unnamed client (process %d, id %d)",
			*req.Params.ProcessID, *req.ID)
	}

	return rpc.Encode(protocol.NewInitializeResponse(*req.ID, h.info))
}
