package server

import (
	"sync"

	"github.com/treelang/go-tree-lsp/internal/document"
)

// DocumentStore manages all open documents, keyed by URI. Documents are
// created or replaced by successful open and change operations and live
// for the rest of the process; nothing removes them.
type DocumentStore struct {
	documents map[string]*document.Document
	mu        sync.RWMutex
}

// NewDocumentStore creates an empty document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]*document.Document),
	}
}

// Set stores or replaces a document. Callers only pass documents that
// validated, so the previous entry is never replaced by a broken one.
func (ds *DocumentStore) Set(uri string, doc *document.Document) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	ds.documents[uri] = doc
}

// Get retrieves a document by URI.
func (ds *DocumentStore) Get(uri string) (*document.Document, bool) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	doc, ok := ds.documents[uri]

	return doc, ok
}

// Len reports the number of open documents.
func (ds *DocumentStore) Len() int {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	return len(ds.documents)
}

// URIs returns all document URIs.
func (ds *DocumentStore) URIs() []string {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	uris := make([]string, 0, len(ds.documents))
	for uri := range ds.documents {
		uris = append(uris, uri)
	}

	return uris
}
