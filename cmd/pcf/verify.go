package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/pcf/internal/logger"
)

func verifyCmd() *cli.Command {
	var (
		modelPath string
		asJSON    bool
	)

	return &cli.Command{
		Name:  "verify",
		Usage: "Decode every record and report malformed ones",
		Flags: []cli.Flag{
			modelFlag(&modelPath),
			jsonFlag(&asJSON),
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			sum, err := openLoader(ctx, modelPath).Verify()
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: verify %s: %v", modelPath, err), 1)
			}
			logger.FromContext(ctx).Info("verified", "model", modelPath, "records", sum.Parameters+sum.LookupParameters)

			out := stdout(c)
			if asJSON {
				return printJSON(out, sum)
			}
			fmt.Fprintf(out, "OK: %s\n", modelPath)
			fmt.Fprintf(out, "parameters:        %d\n", sum.Parameters)
			fmt.Fprintf(out, "lookup parameters: %d\n", sum.LookupParameters)
			fmt.Fprintf(out, "elements:          %d\n", sum.Elements)
			fmt.Fprintf(out, "payload:           %s\n", formatBytes(sum.PayloadBytes))
			return nil
		},
	}
}
