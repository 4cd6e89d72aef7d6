package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/pcf/internal/model"
	"github.com/samcharles93/pcf/pkg/pcf"
)

type entityJSON struct {
	Key       string    `json:"key"`
	Shape     []int     `json:"shape"`
	Rows      int       `json:"rows,omitempty"`
	Values    []float32 `json:"values"`
	Gradients []float32 `json:"gradients"`
}

func showCmd() *cli.Command {
	var (
		modelPath string
		key       string
		lookup    bool
		limit     int
		asJSON    bool
	)

	return &cli.Command{
		Name:  "show",
		Usage: "Load one parameter and print its values and gradients",
		Flags: []cli.Flag{
			modelFlag(&modelPath),
			&cli.StringFlag{Name: "key", Aliases: []string{"k"}, Usage: "record key", Destination: &key, Required: true},
			&cli.BoolFlag{Name: "lookup", Usage: "load a lookup parameter instead of a dense one", Destination: &lookup},
			&cli.IntFlag{Name: "limit", Usage: "limit printed values (0 = no limit)", Value: 16, Destination: &limit},
			jsonFlag(&asJSON),
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			ld := openLoader(ctx, modelPath)
			m := model.New()

			var (
				t    pcf.Tensor
				rows int
				err  error
			)
			if lookup {
				var lp pcf.LookupParameter
				lp, err = ld.LoadLookupParameter(m, key)
				if err == nil {
					t, rows = lp, lp.Rows()
				}
			} else {
				t, err = ld.LoadParameter(m, key)
			}
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: load %s from %s: %v", key, modelPath, err), 1)
			}

			out := stdout(c)
			if asJSON {
				return printJSON(out, entityJSON{
					Key:       t.Name(),
					Shape:     t.Shape(),
					Rows:      rows,
					Values:    t.Values(),
					Gradients: t.Gradients(),
				})
			}
			fmt.Fprintf(out, "key:       %s\n", t.Name())
			fmt.Fprintf(out, "shape:     %s\n", t.Shape())
			if lookup {
				fmt.Fprintf(out, "rows:      %d\n", rows)
			}
			fmt.Fprintf(out, "values:    %s\n", formatValues(t.Values(), limit))
			fmt.Fprintf(out, "gradients: %s\n", formatValues(t.Gradients(), limit))
			return nil
		},
	}
}
