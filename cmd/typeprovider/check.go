package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	tp "github.com/reoring/typeprovider"
	"github.com/reoring/typeprovider/internal/config"
)

var errInvalid = errors.New("one or more documents are invalid")

type checkResult struct {
	File   string               `json:"file"`
	Valid  bool                 `json:"valid"`
	Value  any                  `json:"value,omitempty"`
	Errors []tp.ValidationError `json:"errors,omitempty"`
	Error  string               `json:"error,omitempty"`
}

func newCheckCmd(a *app) *cobra.Command {
	var (
		schemaPath string
		partName   string
		rejectDup  bool
	)
	cmd := &cobra.Command{
		Use:   "check --schema FILE DOCUMENT...",
		Short: "Validate documents against a schema",
		Long: `Validate JSON or YAML documents against a JSON Schema file.

Documents are validated as the given request part: every part except body
has its string values coerced to the declared types first, the way query
strings and headers are.

Examples:
  typeprovider check --schema user.yaml user.json
  typeprovider check --schema query.json --part querystring query.yaml
  typeprovider check -o json --schema user.yaml a.json b.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			part, err := tp.ParseHTTPPart(partName)
			if err != nil {
				return err
			}
			schema, err := loadSchema(schemaPath)
			if err != nil {
				return fmt.Errorf("load schema: %w", err)
			}
			validate, err := a.provider.MakeValidator(schema, part)
			if err != nil {
				return err
			}

			results := make([]checkResult, 0, len(args))
			failed := false
			for _, path := range args {
				r := checkResult{File: path}
				doc, err := loadDocument(path, rejectDup)
				if iss, ok := tp.AsIssues(err); ok {
					r.Errors = tp.ValidationErrors(iss)
				} else if err != nil {
					r.Error = err.Error()
				} else {
					res := validate(doc)
					r.Valid = res.OK()
					r.Errors = res.Errors
					if res.OK() && part.Coerces() {
						r.Value = res.Value
					}
				}
				if !r.Valid {
					failed = true
					a.log.Debug("document invalid", slog.String("file", path), slog.Int("errors", len(r.Errors)))
				}
				results = append(results, r)
			}

			if err := writeResults(cmd.OutOrStdout(), a.cfg.Output, part, results); err != nil {
				return err
			}
			if failed {
				return errInvalid
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&schemaPath, "schema", "s", "", "JSON Schema file (.json, .yaml, .yml)")
	cmd.Flags().StringVarP(&partName, "part", "p", string(tp.PartBody), "request part (body, querystring, params, headers)")
	cmd.Flags().BoolVar(&rejectDup, "reject-duplicate-keys", false, "treat repeated JSON object keys as errors")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}

func writeResults(w io.Writer, output string, part tp.HTTPPart, results []checkResult) error {
	if output == config.OutputJSON {
		return printJSON(w, results)
	}
	for _, r := range results {
		switch {
		case r.Valid:
			fmt.Fprintf(w, "ok   %s\n", r.File)
		case r.Error != "":
			fmt.Fprintf(w, "FAIL %s: %s\n", r.File, r.Error)
		default:
			fmt.Fprintf(w, "FAIL %s\n", r.File)
			for _, e := range r.Errors {
				fmt.Fprintf(w, "  %s%s %s\n", part, e.InstancePath, e.Message)
			}
		}
	}
	return nil
}
