package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/pcf/internal/logger"
	"github.com/samcharles93/pcf/pkg/pcf"
)

func extractCmd() *cli.Command {
	var (
		modelPath string
		prefix    string
		key       string
		outPath   string
		appendOut bool
	)

	return &cli.Command{
		Name:  "extract",
		Usage: "Copy the records under a namespace into another file, optionally renaming the namespace",
		Flags: []cli.Flag{
			modelFlag(&modelPath),
			&cli.StringFlag{Name: "prefix", Usage: "namespace to copy (empty = everything)", Destination: &prefix},
			&cli.StringFlag{Name: "key", Usage: "namespace that replaces --prefix in copied keys", Destination: &key},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file", Destination: &outPath},
			&cli.BoolFlag{Name: "append", Usage: "append to the output file instead of truncating it", Destination: &appendOut},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			out := defaultOutput(outPath)
			if out == "" {
				return cli.Exit("error: --out is required unless output is set in the config file", 1)
			}
			if out == modelPath {
				return cli.Exit("error: --out must differ from --model", 1)
			}

			log := logger.FromContext(ctx)
			dst, err := pcf.NewSaver(out, pcf.WithAppend(appendOut), pcf.WithAtomic(!appendOut), pcf.WithLogger(log.With("out", out)))
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			n, err := openLoader(ctx, modelPath).Extract(dst, prefix, key)
			if err != nil {
				_ = dst.Abort()
				return cli.Exit(fmt.Sprintf("error: extract %s: %v", modelPath, err), 1)
			}
			if err := dst.Close(); err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			log.Info("extracted", "records", n, "from", modelPath, "to", out)
			return nil
		},
	}
}
