package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/pcf/internal/logger"
	"github.com/samcharles93/pcf/internal/model"
	"github.com/samcharles93/pcf/internal/tensor"
	"github.com/samcharles93/pcf/pkg/pcf"
)

func genCmd() *cli.Command {
	var (
		outPath   string
		params    []string
		lookups   []string
		namespace string
		key       string
		seed      int64
		appendOut bool
	)

	return &cli.Command{
		Name:  "gen",
		Usage: "Write a collection of randomly initialised parameters",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file", Destination: &outPath},
			&cli.StringSliceFlag{Name: "param", Usage: "dense parameter as [name=]DxD..., repeatable", Destination: &params},
			&cli.StringSliceFlag{Name: "lookup", Usage: "lookup parameter as [name=]DxD...xROWS, repeatable", Destination: &lookups},
			&cli.StringFlag{Name: "namespace", Usage: "create the parameters in a nested namespace", Destination: &namespace},
			&cli.StringFlag{Name: "key", Usage: "namespace written in place of the model's own", Destination: &key},
			&cli.Int64Flag{Name: "seed", Usage: "random seed", Value: 1, Destination: &seed},
			&cli.BoolFlag{Name: "append", Usage: "append to the output file instead of truncating it", Destination: &appendOut},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			out := defaultOutput(outPath)
			if out == "" {
				return cli.Exit("error: --out is required unless output is set in the config file", 1)
			}
			if len(params) == 0 && len(lookups) == 0 {
				return cli.Exit("error: at least one --param or --lookup is required", 1)
			}

			root, err := buildCollection(namespace, params, lookups, seed)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			log := logger.FromContext(ctx)
			s, err := pcf.NewSaver(out, pcf.WithAppend(appendOut), pcf.WithAtomic(!appendOut), pcf.WithLogger(log.With("out", out)))
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			if err := s.SaveModel(root, key); err != nil {
				_ = s.Abort()
				return cli.Exit(fmt.Sprintf("error: save %s: %v", out, err), 1)
			}
			if err := s.Close(); err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			log.Info("generated", "out", out, "parameters", len(params), "lookup_parameters", len(lookups))
			return nil
		},
	}
}

// buildCollection creates a root collection holding the requested
// parameters, each filled from its own seed.
func buildCollection(namespace string, params, lookups []string, seed int64) (*model.Collection, error) {
	root := model.New()
	target := root
	if namespace != "" {
		sub, err := root.Sub(namespace)
		if err != nil {
			return nil, err
		}
		target = sub
	}

	for _, arg := range params {
		name, shape, err := parseEntity(arg)
		if err != nil {
			return nil, err
		}
		p, err := target.NewParameter(shape, name)
		if err != nil {
			return nil, err
		}
		tensor.FillRand(p.Value(), seed)
		seed++
	}
	for _, arg := range lookups {
		name, shape, err := parseEntity(arg)
		if err != nil {
			return nil, err
		}
		rowShape, rows, err := shape.SplitLast()
		if err != nil {
			return nil, fmt.Errorf("lookup %q: %w", arg, err)
		}
		l, err := target.NewLookupParameter(rows, rowShape, name)
		if err != nil {
			return nil, err
		}
		tensor.FillRand(l.Value(), seed)
		seed++
	}
	return root, nil
}

// parseEntity parses "[name=]DxD...". Dimensions must be positive.
func parseEntity(arg string) (string, pcf.Shape, error) {
	name, dims, ok := strings.Cut(arg, "=")
	if !ok {
		name, dims = "", arg
	}
	shape, err := parseDims(dims)
	if err != nil {
		return "", nil, fmt.Errorf("entity %q: %w", arg, err)
	}
	return strings.TrimSpace(name), shape, nil
}

func parseDims(s string) (pcf.Shape, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty dimensions")
	}
	parts := strings.Split(strings.ToLower(s), "x")
	shape := make(pcf.Shape, len(parts))
	for i, p := range parts {
		d, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("dimension %d: %w", i, err)
		}
		shape[i] = d
	}
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	return shape, nil
}
