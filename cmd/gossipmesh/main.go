// Command gossipmesh starts one gossip mesh participant.
package main

import (
	"context"

	"github.com/mcastellin/gossipmesh/internal/cli"
	"github.com/mcastellin/gossipmesh/internal/node"
)

func main() {
	cli.Execute(func(cfg node.Config) {
		n, err := node.New(cfg)
		if err != nil {
			panic(err)
		}
		n.Run(context.Background())
	})
}
