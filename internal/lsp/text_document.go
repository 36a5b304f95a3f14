package lsp

import (
	"github.com/treelang/go-tree-lsp/internal/document"
	"github.com/treelang/go-tree-lsp/internal/protocol"
)

// handleDidOpen validates the opened text and stores the document when
// it parses. Invalid text leaves the store untouched.
func (h *Handler) handleDidOpen(payload []byte) error {
	var note protocol.DidOpenNotification
	if err := protocol.Decode(payload, &note); err != nil {
		return err
	}

	item := note.Params.TextDocument
	h.log.Debugf("open %s (version %d, language %s, %d bytes)",
		*item.URI, *item.Version, *item.LanguageID, len(*item.Text))

	if !h.updateDocument(*item.URI, *item.Text) {
		h.log.Warningf("open of %s not successful", *item.URI)
	}

	return nil
}

// handleDidChange applies every change as a full-text replacement, in
// order. The stored document converges to the last change that
// validated; a failed change never rolls back an earlier successful one
// from the same notification.
func (h *Handler) handleDidChange(payload []byte) error {
	var note protocol.DidChangeNotification
	if err := protocol.Decode(payload, &note); err != nil {
		return err
	}

	uri := *note.Params.TextDocument.URI
	h.log.Debugf("change %s (version %d, %d changes)",
		uri, *note.Params.TextDocument.Version, len(note.Params.ContentChanges))

	applied := true
	for _, change := range note.Params.ContentChanges {
		applied = h.updateDocument(uri, *change.Text) && applied
	}
	if !applied {
		h.log.Warningf("change to %s not successful", uri)
	}

	return nil
}

// updateDocument validates text and commits it under uri, reporting
// whether the store changed.
func (h *Handler) updateDocument(uri, text string) bool {
	doc, err := document.FromText(text)
	if err != nil {
		h.log.Errorf("rejected %s: %v", uri, err)
		return false
	}

	h.documents.Set(uri, doc)
	h.log.Debugf("stored %s (%d nodes, %d characters)", uri, doc.Len(), doc.CharCount())

	return true
}
