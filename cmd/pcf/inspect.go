package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/pcf/pkg/pcf"
)

type recordJSON struct {
	Tag        string `json:"tag"`
	Key        string `json:"key"`
	Shape      []int  `json:"shape"`
	Elements   int    `json:"elements"`
	PayloadLen int64  `json:"payload_len"`
}

func inspectCmd() *cli.Command {
	var (
		modelPath string
		prefix    string
		asJSON    bool
	)

	return &cli.Command{
		Name:  "inspect",
		Usage: "List the records of a parameter collection file",
		Flags: []cli.Flag{
			modelFlag(&modelPath),
			&cli.StringFlag{Name: "prefix", Usage: "only list keys under this namespace", Destination: &prefix},
			jsonFlag(&asJSON),
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if !pcf.ValidNamespacedKey(prefix) {
				return cli.Exit(fmt.Sprintf("error: invalid prefix %q", prefix), 1)
			}

			var records []pcf.Header
			err := openLoader(ctx, modelPath).Scan(func(h pcf.Header) error {
				if pcf.InNamespace(h.Key, prefix) {
					records = append(records, h)
				}
				return nil
			})
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: scan %s: %v", modelPath, err), 1)
			}

			out := stdout(c)
			if asJSON {
				rows := make([]recordJSON, len(records))
				for i, h := range records {
					rows[i] = recordJSON{
						Tag:        string(h.Tag),
						Key:        h.Key,
						Shape:      h.Shape,
						Elements:   h.Shape.NumElements(),
						PayloadLen: h.PayloadLen,
					}
				}
				return printJSON(out, rows)
			}

			if len(records) == 0 {
				fmt.Fprintln(out, "No records found")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			defer tw.Flush()
			fmt.Fprintln(tw, "TAG\tKEY\tSHAPE\tELEMENTS\tPAYLOAD")
			for _, h := range records {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", h.Tag, h.Key, h.Shape, h.Shape.NumElements(), formatBytes(h.PayloadLen))
			}
			return nil
		},
	}
}
