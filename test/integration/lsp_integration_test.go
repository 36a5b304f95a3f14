//go:build integration
// +build integration

package integration

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/treelang/go-tree-lsp/internal/lsp"
	"github.com/treelang/go-tree-lsp/internal/protocol"
	"github.com/treelang/go-tree-lsp/internal/rpc"
	"github.com/treelang/go-tree-lsp/internal/server"
)

// session wires a server to in-process pipes so a test can play the
// client over the real wire format.
type session struct {
	requests  *io.PipeWriter
	responses *bufio.Reader
	done      chan error
}

func startSession(t *testing.T) *session {
	t.Helper()

	requestReader, requestWriter := io.Pipe()
	responseReader, responseWriter := io.Pipe()

	documents := server.NewDocumentStore()
	handler := lsp.NewHandler(documents, protocol.ServerInfo{
		Name:    "go-tree-lsp",
		Version: "0.1.0",
	})
	srv := server.New(handler, 0)

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(requestReader, responseWriter)
	}()

	return &session{
		requests:  requestWriter,
		responses: bufio.NewReader(responseReader),
		done:      done,
	}
}

// close ends the client side of the stream and waits for the server
// loop to finish.
func (s *session) close(t *testing.T) {
	t.Helper()

	require.NoError(t, s.requests.Close())
	require.NoError(t, <-s.done)
}

func (s *session) write(t *testing.T, payload string) {
	t.Helper()

	_, err := s.requests.Write(rpc.EncodeMessage([]byte(payload)))
	require.NoError(t, err)
}

// read consumes one framed response from the server.
func (s *session) read(t *testing.T) string {
	t.Helper()

	header, err := s.responses.ReadString('\n')
	require.NoError(t, err)
	header = strings.TrimSuffix(header, "\r\n")

	length, err := strconv.Atoi(strings.TrimPrefix(header, "Content-Length: "))
	require.NoError(t, err, "header = %q", header)

	blank, err := s.responses.ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, "\r\n", blank)

	payload := make([]byte, length)
	_, err = io.ReadFull(s.responses, payload)
	require.NoError(t, err)

	return string(payload)
}

func TestSessionLifecycle(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := startSession(t)

	s.write(t, `{"jsonrpc":"2.0","method":"initialize","id":1,"params":{"processId":1234,"clientInfo":{"name":"integration-test","version":"1.0"}}}`)
	assert.JSONEq(t,
		`{"jsonrpc":"2.0","id":1,"result":{"capabilities":{"textDocumentSync":1,"hoverProvider":true},"serverInfo":{"name":"go-tree-lsp","version":"0.1.0"}}}`,
		s.read(t))

	s.write(t, `{"jsonrpc":"2.0","method":"textDocument/didOpen","params":{"textDocument":{"uri":"file:///tree","languageId":"tree","version":1,"text":"A\nB C\nD"}}}`)

	s.write(t, `{"jsonrpc":"2.0","method":"textDocument/hover","id":2,"params":{"textDocument":{"uri":"file:///tree"},"position":{"line":1,"character":0}}}`)
	assert.JSONEq(t,
		`{"jsonrpc":"2.0","id":2,"result":{"contents":"Parent: A"}}`,
		s.read(t))

	s.write(t, `{"jsonrpc":"2.0","method":"textDocument/hover","id":3,"params":{"textDocument":{"uri":"file:///tree"},"position":{"line":0,"character":1}}}`)
	assert.JSONEq(t,
		`{"jsonrpc":"2.0","id":3,"result":{"contents":"Character count: 7"}}`,
		s.read(t))

	s.write(t, `{"jsonrpc":"2.0","method":"textDocument/didChange","params":{"textDocument":{"uri":"file:///tree","version":2},"contentChanges":[{"text":"X"}]}}`)

	s.write(t, `{"jsonrpc":"2.0","method":"textDocument/hover","id":4,"params":{"textDocument":{"uri":"file:///tree"},"position":{"line":0,"character":0}}}`)
	assert.JSONEq(t,
		`{"jsonrpc":"2.0","id":4,"result":{"contents":"Could not find parent to 0 0"}}`,
		s.read(t))

	s.close(t)
}

func TestSessionPipelinedRequests(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := startSession(t)

	// One write carrying three messages; responses come back in order.
	var blob []byte
	blob = append(blob, rpc.EncodeMessage([]byte(`{"jsonrpc":"2.0","method":"initialize","id":1,"params":{"processId":1}}`))...)
	blob = append(blob, rpc.EncodeMessage([]byte(`{"jsonrpc":"2.0","method":"textDocument/didOpen","params":{"textDocument":{"uri":"file:///tree","languageId":"tree","version":1,"text":"A\nB C"}}}`))...)
	blob = append(blob, rpc.EncodeMessage([]byte(`{"jsonrpc":"2.0","method":"textDocument/hover","id":2,"params":{"textDocument":{"uri":"file:///tree"},"position":{"line":1,"character":2}}}`))...)

	_, err := s.requests.Write(blob)
	require.NoError(t, err)

	first := s.read(t)
	assert.Contains(t, first, `"id":1`)

	assert.JSONEq(t,
		`{"jsonrpc":"2.0","id":2,"result":{"contents":"Parent: A"}}`,
		s.read(t))

	s.close(t)
}

func TestSessionRejectedDocumentIsNeverStored(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := startSession(t)

	// The broken layout is rejected; the later open of the same URI works.
	s.write(t, `{"jsonrpc":"2.0","method":"textDocument/didOpen","params":{"textDocument":{"uri":"file:///tree","languageId":"tree","version":1,"text":"A\nB  C"}}}`)
	s.write(t, `{"jsonrpc":"2.0","method":"textDocument/didOpen","params":{"textDocument":{"uri":"file:///tree","languageId":"tree","version":2,"text":"A"}}}`)

	s.write(t, `{"jsonrpc":"2.0","method":"textDocument/hover","id":9,"params":{"textDocument":{"uri":"file:///tree"},"position":{"line":0,"character":1}}}`)
	assert.JSONEq(t,
		`{"jsonrpc":"2.0","id":9,"result":{"contents":"Character count: 1"}}`,
		s.read(t))

	s.close(t)
}
