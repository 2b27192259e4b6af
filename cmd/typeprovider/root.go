package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	tp "github.com/reoring/typeprovider"
	g "github.com/reoring/typeprovider/dsl"
	"github.com/reoring/typeprovider/internal/config"
	"github.com/reoring/typeprovider/internal/jsonbody"
)

// app is the state shared by subcommands once configuration is loaded.
type app struct {
	cfg      *config.Config
	provider *tp.Provider
	log      *slog.Logger
}

func newRootCmd() *cobra.Command {
	var (
		cfgFile  string
		logLevel string
	)
	a := &app{}
	v := viper.New()

	root := &cobra.Command{
		Use:          "typeprovider",
		Short:        "Validate documents against JSON Schema files",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var lvl slog.Level
			if err := lvl.UnmarshalText([]byte(logLevel)); err != nil {
				return fmt.Errorf("log-level: %w", err)
			}
			a.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: lvl}))

			cfg, err := config.Load(v, cfgFile)
			if err != nil {
				return err
			}
			if used := v.ConfigFileUsed(); used != "" {
				a.log.Debug("using config file", slog.String("path", used))
			}
			a.cfg = cfg
			a.provider = tp.New(cfg.Apply(a.log))
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is ./.typeprovider.yaml)")
	pf.StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.Bool("strict", true, "reject unknown schema keywords")
	pf.StringP("output", "o", config.OutputText, "output format (text, json)")
	pf.String("language", "en", "message language (en, ja)")
	_ = v.BindPFlag("strict", pf.Lookup("strict"))
	_ = v.BindPFlag("output", pf.Lookup("output"))
	_ = v.BindPFlag("language", pf.Lookup("language"))

	root.AddCommand(newCheckCmd(a), newLintCmd(a), newFormatsCmd(a))
	return root
}

// loadSchema reads a JSON Schema file; .yaml and .yml files are parsed as YAML.
func loadSchema(path string) (*g.Schema[any], error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if isYAML(path) {
		return g.RawYAML(b)
	}
	return g.RawJSON(b)
}

// loadDocument reads the instance in path as a wire value.
func loadDocument(path string, rejectDuplicates bool) (any, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if isYAML(path) {
		var v any
		if err := yaml.Unmarshal(b, &v); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return v, nil
	}
	return jsonbody.Decode(b, jsonbody.Options{RejectDuplicateKeys: rejectDuplicates})
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
