package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/pcf/internal/version"
)

func versionCmd() *cli.Command {
	var asJSON bool
	return &cli.Command{
		Name:  "version",
		Usage: "Print version information",
		Flags: []cli.Flag{jsonFlag(&asJSON)},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			info := version.Resolve()
			out := stdout(cmd)
			if asJSON {
				return printJSON(out, info)
			}
			fmt.Fprintf(out, "version:    %s\n", info.Version)
			if info.Commit != "" {
				fmt.Fprintf(out, "commit:     %s\n", info.Commit)
			}
			if info.BuildTime != "" {
				fmt.Fprintf(out, "build time: %s\n", info.BuildTime)
			}
			return nil
		},
	}
}
