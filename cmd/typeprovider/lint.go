package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reoring/typeprovider/internal/config"
)

var errLint = errors.New("one or more schemas failed to compile")

type lintResult struct {
	File  string `json:"file"`
	Error string `json:"error,omitempty"`
}

func newLintCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lint SCHEMA...",
		Short: "Compile schemas and report errors",
		Long: `Compile each schema file the way a route registration would.

In strict mode (the default) keywords outside the JSON Schema vocabulary are
errors; keys starting with "x-" are allowed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results := make([]lintResult, 0, len(args))
			failed := false
			for _, path := range args {
				r := lintResult{File: path}
				s, err := loadSchema(path)
				if err == nil {
					_, err = a.provider.Resolve(s)
				}
				if err != nil {
					r.Error = err.Error()
					failed = true
				}
				results = append(results, r)
			}

			out := cmd.OutOrStdout()
			if a.cfg.Output == config.OutputJSON {
				if err := printJSON(out, results); err != nil {
					return err
				}
			} else {
				for _, r := range results {
					if r.Error == "" {
						fmt.Fprintf(out, "ok   %s\n", r.File)
					} else {
						fmt.Fprintf(out, "FAIL %s: %s\n", r.File, r.Error)
					}
				}
			}
			if failed {
				return errLint
			}
			return nil
		},
	}
}
