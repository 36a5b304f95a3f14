// Package protocol defines the wire schema of the JSON-RPC messages the
// server understands, with strict decoding of required fields.
package protocol

import "fmt"

// JSONRPCVersion is carried by every message envelope.
const JSONRPCVersion = "2.0"

// Methods dispatched by the server. Anything else decodes as a bare
// notification and is ignored.
const (
	MethodInitialize = "initialize"
	MethodDidOpen    = "textDocument/didOpen"
	MethodDidChange  = "textDocument/didChange"
	MethodHover      = "textDocument/hover"
)

// TextDocumentSyncFull tells clients to resend the whole document text
// on every change.
const TextDocumentSyncFull = 1

// Message is the envelope shared by every JSON-RPC payload.
type Message struct {
	JSONRPC string `json:"jsonrpc"`
}

// Notification extends Message with the method being invoked.
type Notification struct {
	Message
	Method string `json:"method"`
}

// Request extends Notification with the correlation id its response
// must echo.
type Request struct {
	Notification
	ID *int64 `json:"id"`
}

func (m *Message) validate() error {
	if m.JSONRPC == "" {
		return missingField("jsonrpc")
	}

	return nil
}

func (n *Notification) validate() error {
	if err := n.Message.validate(); err != nil {
		return err
	}
	if n.Method == "" {
		return missingField("method")
	}

	return nil
}

func (r *Request) validate() error {
	if err := r.Notification.validate(); err != nil {
		return err
	}
	if r.ID == nil {
		return missingField("id")
	}

	return nil
}

// InitializeRequest starts the client handshake.
type InitializeRequest struct {
	Request
	Params *InitializeParams `json:"params"`
}

// InitializeParams identifies the client process.
type InitializeParams struct {
	ProcessID  *int64      `json:"processId"`
	ClientInfo *ClientInfo `json:"clientInfo,omitempty"`
}

// ClientInfo names the connecting editor. Optional in the handshake,
// but complete when present.
type ClientInfo struct {
	Name    *string `json:"name"`
	Version *string `json:"version"`
}

func (r *InitializeRequest) validate() error {
	if err := r.Request.validate(); err != nil {
		return err
	}
	if r.Params == nil {
		return missingField("params")
	}
	if r.Params.ProcessID == nil {
		return missingField("processId")
	}
	if info := r.Params.ClientInfo; info != nil {
		if info.Name == nil {
			return missingField("clientInfo.name")
		}
		if info.Version == nil {
			return missingField("clientInfo.version")
		}
	}

	return nil
}

// DidOpenNotification announces a newly opened document and its full
// text.
type DidOpenNotification struct {
	Notification
	Params *DidOpenParams `json:"params"`
}

// DidOpenParams carries the opened document.
type DidOpenParams struct {
	TextDocument *TextDocumentItem `json:"textDocument"`
}

// TextDocumentItem is the full description of a document being opened.
type TextDocumentItem struct {
	URI        *string `json:"uri"`
	LanguageID *string `json:"languageId"`
	Version    *int64  `json:"version"`
	Text       *string `json:"text"`
}

func (n *DidOpenNotification) validate() error {
	if err := n.Notification.validate(); err != nil {
		return err
	}
	if n.Params == nil {
		return missingField("params")
	}
	doc := n.Params.TextDocument
	if doc == nil {
		return missingField("textDocument")
	}
	if doc.URI == nil {
		return missingField("textDocument.uri")
	}
	if doc.LanguageID == nil {
		return missingField("textDocument.languageId")
	}
	if doc.Version == nil {
		return missingField("textDocument.version")
	}
	if doc.Text == nil {
		return missingField("textDocument.text")
	}

	return nil
}

// DidChangeNotification carries one or more full-text replacements for
// an open document.
type DidChangeNotification struct {
	Notification
	Params *DidChangeParams `json:"params"`
}

// DidChangeParams names the changed document and lists its new
// contents.
type DidChangeParams struct {
	TextDocument   *VersionedTextDocumentIdentifier `json:"textDocument"`
	ContentChanges []ContentChange                  `json:"contentChanges"`
}

// VersionedTextDocumentIdentifier points at a document revision.
type VersionedTextDocumentIdentifier struct {
	URI     *string `json:"uri"`
	Version *int64  `json:"version"`
}

// ContentChange is a full replacement of the document text.
type ContentChange struct {
	Text *string `json:"text"`
}

func (n *DidChangeNotification) validate() error {
	if err := n.Notification.validate(); err != nil {
		return err
	}
	if n.Params == nil {
		return missingField("params")
	}
	doc := n.Params.TextDocument
	if doc == nil {
		return missingField("textDocument")
	}
	if doc.URI == nil {
		return missingField("textDocument.uri")
	}
	if doc.Version == nil {
		return missingField("textDocument.version")
	}
	if n.Params.ContentChanges == nil {
		return missingField("contentChanges")
	}
	for i, change := range n.Params.ContentChanges {
		if change.Text == nil {
			return missingField(fmt.Sprintf("contentChanges[%d].text", i))
		}
	}

	return nil
}

// HoverRequest asks about the tree node under a cursor position.
type HoverRequest struct {
	Request
	Params *HoverParams `json:"params"`
}

// HoverParams locates the cursor inside a document.
type HoverParams struct {
	TextDocument *TextDocumentIdentifier `json:"textDocument"`
	Position     *Position               `json:"position"`
}

// TextDocumentIdentifier points at a document by URI.
type TextDocumentIdentifier struct {
	URI *string `json:"uri"`
}

// Position is a zero-based line and character offset. Both values must
// be non-negative.
type Position struct {
	Line      *int64 `json:"line"`
	Character *int64 `json:"character"`
}

func (r *HoverRequest) validate() error {
	if err := r.Request.validate(); err != nil {
		return err
	}
	if r.Params == nil {
		return missingField("params")
	}
	if r.Params.TextDocument == nil {
		return missingField("textDocument")
	}
	if r.Params.TextDocument.URI == nil {
		return missingField("textDocument.uri")
	}
	pos := r.Params.Position
	if pos == nil {
		return missingField("position")
	}
	if pos.Line == nil {
		return missingField("position.line")
	}
	if pos.Character == nil {
		return missingField("position.character")
	}
	if *pos.Line < 0 || *pos.Character < 0 {
		return &DecodeError{Reason: fmt.Sprintf("negative position %d:%d", *pos.Line, *pos.Character)}
	}

	return nil
}

// Response is the server half of a request exchange.
type Response struct {
	Message
	ID int64 `json:"id"`
}

// InitializeResponse advertises the server's capabilities.
type InitializeResponse struct {
	Response
	Result InitializeResult `json:"result"`
}

// InitializeResult pairs capabilities with the server identity.
type InitializeResult struct {
	Capabilities ServerCapabilities `json:"capabilities"`
	ServerInfo   ServerInfo         `json:"serverInfo"`
}

// ServerCapabilities lists what the server can do: full-document sync
// and hover, nothing else.
type ServerCapabilities struct {
	TextDocumentSync int  `json:"textDocumentSync"`
	HoverProvider    bool `json:"hoverProvider"`
}

// ServerInfo names the server in the handshake.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// HoverResponse answers a hover request.
type HoverResponse struct {
	Response
	Result HoverResult `json:"result"`
}

// HoverResult carries the hover text shown by the editor.
type HoverResult struct {
	Contents string `json:"contents"`
}

// NewInitializeResponse builds the handshake response for the given
// request id.
func NewInitializeResponse(id int64, info ServerInfo) InitializeResponse {
	return InitializeResponse{
		Response: Response{
			Message: Message{JSONRPC: JSONRPCVersion},
			ID:      id,
		},
		Result: InitializeResult{
			Capabilities: ServerCapabilities{
				TextDocumentSync: TextDocumentSyncFull,
				HoverProvider:    true,
			},
			ServerInfo: info,
		},
	}
}

// NewHoverResponse builds a hover response for the given request id.
func NewHoverResponse(id int64, contents string) HoverResponse {
	return HoverResponse{
		Response: Response{
			Message: Message{JSONRPC: JSONRPCVersion},
			ID:      id,
		},
		Result: HoverResult{Contents: contents},
	}
}
