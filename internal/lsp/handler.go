// Package lsp implements the protocol method handlers and their
// dispatch.
package lsp

import (
	"github.com/tliron/commonlog"

	"github.com/treelang/go-tree-lsp/internal/protocol"
	"github.com/treelang/go-tree-lsp/internal/server"
)

// Handler routes decoded messages to the method handlers. One handler
// serves the whole session; the document store it wraps outlives every
// message.
type Handler struct {
	documents *server.DocumentStore
	info      protocol.ServerInfo
	log       commonlog.Logger
}

// NewHandler creates the method dispatcher backed by the given document
// store. info names the server in initialize responses.
func NewHandler(documents *server.DocumentStore, info protocol.ServerInfo) *Handler {
	return &Handler{
		documents: documents,
		info:      info,
		log:       commonlog.GetLogger("go-tree-lsp.lsp"),
	}
}

// Handle interprets one message payload and returns the framed response
// bytes to send back, or nil when the message produces no response.
// Decode failures surface as errors; the caller drops the message and
// the session continues. Methods the server does not know succeed as
// no-ops once their envelope decodes.
func (h *Handler) Handle(payload []byte) ([]byte, error) {
	var envelope protocol.Notification
	if err := protocol.Decode(payload, &envelope); err != nil {
		return nil, err
	}

	h.log.Debugf("received %s: %s", envelope.Method, payload)

	switch envelope.Method {
	case protocol.MethodInitialize:
		return h.handleInitialize(payload)
	case protocol.MethodDidOpen:
		return nil, h.handleDidOpen(payload)
	case protocol.MethodDidChange:
		return nil, h.handleDidChange(payload)
	case protocol.MethodHover:
		return h.handleHover(payload)
	default:
		h.log.Debugf("ignoring unsupported method %q", envelope.Method)
		return nil, nil
	}
}
