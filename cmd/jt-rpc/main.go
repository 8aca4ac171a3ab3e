// jt-rpc serves the document engine's command surface over stdio
// JSON-RPC, for editor and tooling integrations that keep a long-lived
// session.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"go.lsp.dev/jsonrpc2"
)

var sessionFile = pflag.StringP("session", "s", "", "session file to load and save")

func main() {
	pflag.Parse()
	ctx := context.Background()
	stream := jsonrpc2.NewStream(&stdioReadWriteCloser{
		read:  os.Stdin,
		write: os.Stdout,
	})
	srv, err := newServer(*sessionFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "jt-rpc: %v\n", err)
		os.Exit(1)
	}
	conn := jsonrpc2.NewConn(stream)
	conn.Go(ctx, srv.handle)
	<-conn.Done()
	if err := srv.shutdown(); err != nil {
		fmt.Fprintf(os.Stderr, "jt-rpc: %v\n", err)
		os.Exit(1)
	}
}

type stdioReadWriteCloser struct {
	read  io.Reader
	write io.Writer
}

func (s *stdioReadWriteCloser) Read(p []byte) (n int, err error) {
	return s.read.Read(p)
}

func (s *stdioReadWriteCloser) Write(p []byte) (n int, err error) {
	return s.write.Write(p)
}

func (s *stdioReadWriteCloser) Close() error {
	return nil
}
