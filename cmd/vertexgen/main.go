// vertexgen generates the vertex package of a node-kind catalogue.
//
//	vertexgen [flags] <catalogue> [schema]
//
// The schema defaults to the catalogue path with ".config" inserted
// before the extension. Use it from a go:generate directive:
//
//	//go:generate go run github.com/syssam/vertexgen/cmd/vertexgen -o auto/vertex vertex-desc.json
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/scott-cotton/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cli.MainContext(ctx, MainCommand(ctx))
}
