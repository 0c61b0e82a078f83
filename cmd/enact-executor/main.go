package main

import (
	"context"
	"os"

	cli "github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:                  "enact-executor",
		Usage:                 "Execute workflow nodes over HTTP or one-off from files",
		EnableShellCompletion: true,
		Commands: []*cli.Command{
			ServeCommand(),
			ExecCommand(),
		},
	}

	err := cmd.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}
