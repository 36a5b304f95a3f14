package lsp

import (
	"fmt"

	"github.com/treelang/go-tree-lsp/internal/protocol"
	"github.com/treelang/go-tree-lsp/internal/rpc"
)

// handleHover answers position queries against a stored tree.
//
// A position maps to a level-order index: 2^line - 1 nodes precede the
// line, and every node occupies two columns. An odd character offset
// points at the padding between nodes, so the reply falls back to the
// document's character count.
func (h *Handler) handleHover(payload []byte) ([]byte, error) {
	var req protocol.HoverRequest
	if err := protocol.Decode(payload, &req); err != nil {
		return nil, err
	}

	uri := *req.Params.TextDocument.URI
	doc, ok := h.documents.Get(uri)
	if !ok {
		return nil, &protocol.DecodeError{Reason: fmt.Sprintf("could not find document %s", uri)}
	}

	line := *req.Params.Position.Line
	character := *req.Params.Position.Character
	h.log.Debugf("hover %s at %d:%d", uri, line, character)

	var contents string
	if character%2 != 0 {
		contents = fmt.Sprintf("Character count: %d", doc.CharCount())
	} else {
		index := int64(1)<<uint64(line) - 1 + character/2
		if label, ok := doc.Parent(index); ok {
			contents = fmt.Sprintf("Parent: %s", label)
		} else {
			contents = fmt.Sprintf("Could not find parent to %d %d", index, (index-1)/2)
		}
	}

	return rpc.Encode(protocol.NewHoverResponse(*req.ID, contents))
}
