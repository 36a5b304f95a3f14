// Package server owns the document state and pumps framed messages
// from a byte stream through the protocol handler.
package server

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"

	"github.com/tliron/commonlog"

	"github.com/treelang/go-tree-lsp/internal/rpc"
)

// DefaultReadBufferSize is the chunk size for reads from the client
// stream when the configuration does not say otherwise.
const DefaultReadBufferSize = 512

// Handler interprets one decoded wire payload and returns the framed
// response bytes to write back, if any.
type Handler interface {
	Handle(payload []byte) ([]byte, error)
}

// Server reads framed messages from a single byte stream and dispatches
// them strictly in arrival order.
type Server struct {
	handler        Handler
	log            commonlog.Logger
	readBufferSize int
}

// New creates a server around the given message handler.
func New(handler Handler, readBufferSize int) *Server {
	if readBufferSize <= 0 {
		readBufferSize = DefaultReadBufferSize
	}

	return &Server{
		handler:        handler,
		log:            commonlog.GetLogger("go-tree-lsp.server"),
		readBufferSize: readBufferSize,
	}
}

// Run reads chunks from in until the stream ends, draining every
// complete message to the handler and writing responses to out. A
// message split across reads is dispatched once its last byte arrives;
// several messages in one read are dispatched back to back.
func (s *Server) Run(in io.Reader, out io.Writer) error {
	var buffer rpc.Buffer
	chunk := make([]byte, s.readBufferSize)

	for {
		n, err := in.Read(chunk)
		if n > 0 {
			buffer.Write(chunk[:n])
			if err := s.drain(&buffer, out); err != nil {
				return err
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.log.Info("client stream closed")
				return nil
			}

			return fmt.Errorf("read client stream: %w", err)
		}
	}
}

// drain pops buffered messages until none are left. A framing error
// ends the pass with the buffer intact, so the stream position is kept
// for the next read; a handler error drops that one message.
func (s *Server) drain(buffer *rpc.Buffer, out io.Writer) error {
	for {
		payload, ok, err := buffer.Pop()
		if err != nil {
			s.log.Errorf("waiting on %d buffered bytes: %v", buffer.Len(), err)
			return nil
		}
		if !ok {
			return nil
		}

		response, err := s.handler.Handle(payload)
		if err != nil {
			s.log.Errorf("message dropped: %v", err)
			continue
		}
		if response == nil {
			continue
		}

		if _, err := out.Write(response); err != nil {
			return fmt.Errorf("write response: %w", err)
		}
	}
}

// RunStdio serves a single session over standard input and output.
func (s *Server) RunStdio() error {
	return s.Run(os.Stdin, os.Stdout)
}

// RunTCP serves sessions over TCP, one connection at a time. Every
// connection talks to the same handler and document state, which keeps
// dispatch single-threaded like the stdio transport.
func (s *Server) RunTCP(address string) error {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", address, err)
	}
	defer listener.Close()

	s.log.Noticef("listening on %s", listener.Addr())

	for {
		conn, err := listener.Accept()
		if err != nil {
			return fmt.Errorf("accept connection: %w", err)
		}

		s.log.Infof("client connected: %s", conn.RemoteAddr())
		if err := s.Run(conn, conn); err != nil {
			s.log.Errorf("connection %s: %v", conn.RemoteAddr(), err)
		}
		conn.Close()
		s.log.Infof("client disconnected: %s", conn.RemoteAddr())
	}
}
