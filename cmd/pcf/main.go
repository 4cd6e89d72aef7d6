// cmd/pcf/main.go
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:   "pcf",
		Usage:  "Inspect, verify and produce parameter collection files",
		Flags:  rootFlags(),
		Before: setup,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			inspectCmd(),
			verifyCmd(),
			showCmd(),
			extractCmd(),
			genCmd(),
			versionCmd(),
		},
	}
}
