// Package config holds the run options and the per-declaration translation
// overrides consulted while classifying and emitting a library.
package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/mod/module"
)

// DefaultRuntimePath is the runtime package generated code calls into.
const DefaultRuntimePath = "github.com/cmmoran/headergen/objc"

// AnonymousEnum is the enum table key used for enums without a name.
const AnonymousEnum = "anonymous"

type LibraryData struct {
	Name       string `toml:"name"`
	ImportPath string `toml:"import-path"`
	// RequiredDependencies are libraries that are always built with this one,
	// so references to them are never gated.
	RequiredDependencies []string `toml:"required-dependencies"`
	RuntimePath          string   `toml:"runtime-path"`
}

type MethodData struct {
	Skipped bool `toml:"skipped"`
	// Name replaces the Go name derived from the selector.
	Name string `toml:"name"`
}

type PropertyData struct {
	Skipped bool `toml:"skipped"`
}

type ClassData struct {
	Skipped        bool                    `toml:"skipped"`
	SuperclassName string                  `toml:"superclass-name"`
	Derives        []string                `toml:"derives"`
	GoName         string                  `toml:"go-name"`
	Methods        map[string]MethodData   `toml:"methods"`
	Properties     map[string]PropertyData `toml:"properties"`
}

type StructData struct {
	Skipped bool `toml:"skipped"`
}

type ConstantData struct {
	Skipped bool `toml:"skipped"`
}

type EnumData struct {
	Skipped   bool                    `toml:"skipped"`
	UseValue  bool                    `toml:"use-value"`
	Constants map[string]ConstantData `toml:"constants"`
}

type FnData struct {
	Skipped bool `toml:"skipped"`
}

type StaticData struct {
	Skipped bool `toml:"skipped"`
}

type TypedefData struct {
	Skipped bool `toml:"skipped"`
}

type ExternalLibrary struct {
	ImportPath string `toml:"import-path"`
}

// Config is the translation config of one library.
type Config struct {
	Library   LibraryData                `toml:"library"`
	Libraries map[string]ExternalLibrary `toml:"libraries"`
	Classes   map[string]ClassData       `toml:"class"`
	Protocols map[string]ClassData       `toml:"protocol"`
	Structs   map[string]StructData      `toml:"struct"`
	Enums     map[string]EnumData        `toml:"enum"`
	Fns       map[string]FnData          `toml:"fn"`
	Statics   map[string]StaticData      `toml:"static"`
	Typedefs  map[string]TypedefData     `toml:"typedef"`
}

// Load decodes the translation config at path. Keys the Config doesn't know
// are rejected so typos don't silently disable an override.
func Load(path string) (*Config, error) {
	var c Config
	md, err := toml.DecodeFile(path, &c)
	if err != nil {
		return nil, fmt.Errorf("failed to parse translation config: %w", err)
	}
	return c.finish(md)
}

// Decode is Load for in-memory TOML.
func Decode(data string) (*Config, error) {
	var c Config
	md, err := toml.Decode(data, &c)
	if err != nil {
		return nil, fmt.Errorf("failed to parse translation config: %w", err)
	}
	return c.finish(md)
}

func (c *Config) finish(md toml.MetaData) (*Config, error) {
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("unknown translation config keys: %s", strings.Join(keys, ", "))
	}
	if c.Library.Name == "" {
		return nil, fmt.Errorf("translation config has no [library] name")
	}
	if c.Library.ImportPath != "" {
		if err := module.CheckImportPath(c.Library.ImportPath); err != nil {
			return nil, fmt.Errorf("library import-path: %w", err)
		}
	}
	for name, lib := range c.Libraries {
		if err := module.CheckImportPath(lib.ImportPath); err != nil {
			return nil, fmt.Errorf("libraries.%s import-path: %w", name, err)
		}
	}
	return c, nil
}

// RuntimePath is the import path of the runtime package.
func (c *Config) RuntimePath() string {
	if c.Library.RuntimePath != "" {
		return c.Library.RuntimePath
	}
	return DefaultRuntimePath
}

// IsRequired reports whether lib is always available to the emitted library.
func (c *Config) IsRequired(lib string) bool {
	for _, d := range c.Library.RequiredDependencies {
		if d == lib {
			return true
		}
	}
	return false
}

// LibraryPath returns the import path of the package generated for another library.
func (c *Config) LibraryPath(lib string) (string, bool) {
	l, ok := c.Libraries[lib]
	if !ok {
		return "", false
	}
	return l.ImportPath, true
}

func (c *Config) Class(name string) ClassData    { return c.Classes[name] }
func (c *Config) Protocol(name string) ClassData { return c.Protocols[name] }
func (c *Config) Struct(name string) StructData  { return c.Structs[name] }
func (c *Config) Enum(name string) EnumData      { return c.Enums[name] }
func (c *Config) Fn(name string) FnData          { return c.Fns[name] }
func (c *Config) Static(name string) StaticData  { return c.Statics[name] }
func (c *Config) Typedef(name string) TypedefData {
	return c.Typedefs[name]
}

// ProtocolGoName is the Go type name of a protocol. Protocols sharing a name
// with a class (NSObject) need a go-name override.
func (c *Config) ProtocolGoName(name string) string {
	if p := c.Protocols[name]; p.GoName != "" {
		return p.GoName
	}
	return name
}

// ClassGoName is the Go type name of a class.
func (c *Config) ClassGoName(name string) string {
	if cl := c.Classes[name]; cl.GoName != "" {
		return cl.GoName
	}
	return name
}
