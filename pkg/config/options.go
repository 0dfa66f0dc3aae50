package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Options control a generation run.
//
// Inputs            – entity dumps to translate (.json, .yaml)
// TranslationConfig – per-declaration overrides (TOML)
// OutDir            – directory the library package is written under
// ManifestFile      – manifest recording emitted libraries, defaults to OutDir/headergen.yaml
// RuntimePath       – import path of the runtime package, overrides the translation config
// Against           – second set of dumps, only used by compare
type Options struct {
	Inputs            []string `json:"inputs,omitempty" yaml:"inputs,omitempty" toml:"inputs,omitempty" mapstructure:"inputs,omitempty"`
	TranslationConfig string   `json:"translation_config,omitempty" yaml:"translation_config,omitempty" toml:"translation_config,omitempty" mapstructure:"translation_config,omitempty"`
	OutDir            string   `json:"out_dir,omitempty" yaml:"out_dir,omitempty" toml:"out_dir,omitempty" mapstructure:"out_dir,omitempty"`
	ManifestFile      string   `json:"manifest_file,omitempty" yaml:"manifest_file,omitempty" toml:"manifest_file,omitempty" mapstructure:"manifest_file,omitempty"`
	RuntimePath       string   `json:"runtime_path,omitempty" yaml:"runtime_path,omitempty" toml:"runtime_path,omitempty" mapstructure:"runtime_path,omitempty"`
	Against           []string `json:"against,omitempty" yaml:"against,omitempty" toml:"against,omitempty" mapstructure:"against,omitempty"`
}

func NewOptions() *Options {
	return &Options{
		OutDir: "generated",
	}
}

// Normalize fills defaults and makes paths absolute.
func (o *Options) Normalize() error {
	if len(o.Inputs) == 0 {
		return fmt.Errorf("no entity dumps given")
	}
	if o.TranslationConfig == "" {
		return fmt.Errorf("no translation config given")
	}
	if len(o.OutDir) == 0 {
		o.OutDir = "generated"
	}
	var err error
	for i := range o.Inputs {
		if o.Inputs[i], err = filepath.Abs(strings.TrimSpace(o.Inputs[i])); err != nil {
			return fmt.Errorf("input %q: %w", o.Inputs[i], err)
		}
	}
	for i := range o.Against {
		if o.Against[i], err = filepath.Abs(strings.TrimSpace(o.Against[i])); err != nil {
			return fmt.Errorf("against %q: %w", o.Against[i], err)
		}
	}
	if o.TranslationConfig, err = filepath.Abs(o.TranslationConfig); err != nil {
		return err
	}
	if o.OutDir, err = filepath.Abs(o.OutDir); err != nil {
		return err
	}
	if o.ManifestFile == "" {
		o.ManifestFile = filepath.Join(o.OutDir, "headergen.yaml")
	}
	return nil
}

// functional option pattern ---------------------------------------------------

type Option func(*Options)

func WithInputs(paths ...string) Option {
	return func(o *Options) { o.Inputs = append(o.Inputs, paths...) }
}
func WithTranslationConfig(p string) Option { return func(o *Options) { o.TranslationConfig = p } }
func WithOutDir(d string) Option            { return func(o *Options) { o.OutDir = d } }
func WithManifestFile(f string) Option      { return func(o *Options) { o.ManifestFile = f } }
func WithRuntimePath(p string) Option       { return func(o *Options) { o.RuntimePath = p } }
func WithAgainst(paths ...string) Option {
	return func(o *Options) { o.Against = append(o.Against, paths...) }
}

// Apply builds Options from opts on top of the defaults.
func Apply(opts ...Option) *Options {
	o := NewOptions()
	for _, fn := range opts {
		fn(o)
	}
	return o
}
