package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/cmmoran/headergen/pkg/action/check"
	"github.com/cmmoran/headergen/pkg/action/compare"
	"github.com/cmmoran/headergen/pkg/action/generate"
	"github.com/cmmoran/headergen/pkg/config"
)

func init() {
	rootCmd.AddCommand(NewGenerateCommand(), NewCheckCommand(), NewCompareCommand())
}

// runFlags registers the flags shared by every command. flagKeys binds each
// one to the viper key of the matching Options field.
func runFlags(c *cobra.Command) {
	fs := c.Flags()
	fs.StringSliceP("input", "i", []string{}, "entity dump(s) to translate (.json, .yaml)")
	fs.StringP("translation-config", "c", "", "per-declaration translation config (TOML)")
	fs.StringP("output-directory", "o", "generated", "directory the library package is written under")
	fs.String("manifest", "", "manifest file, defaults to <output-directory>/headergen.yaml")
	fs.String("runtime-path", "", "import path of the runtime package generated code calls")
}

var flagKeys = map[string]string{
	"input":              "inputs",
	"translation-config": "translation_config",
	"output-directory":   "out_dir",
	"manifest":           "manifest_file",
	"runtime-path":       "runtime_path",
	"against":            "against",
}

// options merges flags, config files and environment into Options.
func options(fs *pflag.FlagSet) (*config.Options, error) {
	v := viper.GetViper()
	for flag, key := range flagKeys {
		if f := fs.Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, err
			}
		}
	}
	opts := config.NewOptions()
	if err := v.Unmarshal(opts); err != nil {
		return nil, err
	}
	if err := opts.Normalize(); err != nil {
		return nil, err
	}
	return opts, nil
}

func NewGenerateCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "generate",
		Short: "generate bindings",
		Long:  "Classify entity dumps, build the module tree and write the Go packages of one library",
		RunE: func(c *cobra.Command, args []string) error {
			opts, err := options(c.Flags())
			if err != nil {
				return err
			}
			_, err = generate.Generate(opts, slog.Default())
			return err
		},
	}
	runFlags(c)
	return c
}

func NewCheckCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "check",
		Short: "check generated bindings are current",
		Long:  "Render one library in memory and fail when the files on disk differ",
		RunE: func(c *cobra.Command, args []string) error {
			opts, err := options(c.Flags())
			if err != nil {
				return err
			}
			_, err = check.Check(opts, slog.Default())
			return err
		},
	}
	runFlags(c)
	return c
}

func NewCompareCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "compare",
		Short: "compare two parser runs",
		Long:  "Classify two sets of entity dumps of the same headers and report the first differing statement",
		RunE: func(c *cobra.Command, args []string) error {
			opts, err := options(c.Flags())
			if err != nil {
				return err
			}
			return compare.Compare(opts, slog.Default())
		},
	}
	runFlags(c)
	c.Flags().StringSliceP("against", "a", []string{}, "entity dump(s) of the second run")
	return c
}
