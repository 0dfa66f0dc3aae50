package module

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/pelletier/go-toml/v2"
)

// featureTable is written next to the library directory so build tooling can
// enable every tag a submodule needs.
type featureTable struct {
	Library   string              `toml:"library"`
	Libraries []string            `toml:"libraries"`
	Features  map[string][]string `toml:"features"`
}

// FeaturesFile is the name of the feature table of library.
func FeaturesFile(library string) string {
	return dirName(library) + ".features.toml"
}

func (t *Tree) features() ([]byte, error) {
	data, err := toml.Marshal(featureTable{
		Library:   t.Library,
		Libraries: t.Libraries(),
		Features:  t.RequiredFeatures(),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal feature table: %w", err)
	}
	return data, nil
}

// Result lists what Write did, as paths relative to the output directory.
type Result struct {
	Written   []string
	Unchanged []string
	Removed   []string
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Write puts plan under outDir. Files whose contents are already current are
// left alone; entries of emitted directories missing from the plan are
// removed.
func Write(outDir string, plan *Plan, log *slog.Logger) (*Result, error) {
	if log == nil {
		log = slog.Default()
	}
	res := &Result{}
	for _, rel := range sortedKeys(plan.Files) {
		want := plan.Files[rel]
		full := filepath.Join(outDir, filepath.FromSlash(rel))
		if have, err := os.ReadFile(full); err == nil && bytes.Equal(have, want) {
			res.Unchanged = append(res.Unchanged, rel)
			continue
		}
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return res, fmt.Errorf("create directory: %w", err)
		}
		if err := os.WriteFile(full, want, 0o644); err != nil {
			return res, fmt.Errorf("write %s: %w", rel, err)
		}
		log.Debug("wrote file", "file", rel)
		res.Written = append(res.Written, rel)
	}

	stale, err := plan.stale(outDir)
	if err != nil {
		return res, err
	}
	for _, rel := range stale {
		log.Warn("removing previous file", "file", rel)
		if err := os.RemoveAll(filepath.Join(outDir, filepath.FromSlash(rel))); err != nil {
			return res, fmt.Errorf("remove %s: %w", rel, err)
		}
		res.Removed = append(res.Removed, rel)
	}
	return res, nil
}

// stale lists the entries of emitted directories that the plan doesn't
// expect. Directories that don't exist yet have none.
func (p *Plan) stale(outDir string) ([]string, error) {
	var out []string
	for _, dir := range sortedKeys(p.Dirs) {
		entries, err := os.ReadDir(filepath.Join(outDir, filepath.FromSlash(dir)))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", dir, err)
		}
		for _, e := range entries {
			if !p.Dirs[dir][e.Name()] {
				out = append(out, path.Join(dir, e.Name()))
			}
		}
	}
	return out, nil
}

// Drift is the difference between a plan and what is on disk.
type Drift struct {
	// Changed maps files whose contents differ to a diff from disk to plan.
	Changed map[string]string
	Missing []string
	Stale   []string
}

func (d *Drift) Empty() bool {
	return len(d.Changed) == 0 && len(d.Missing) == 0 && len(d.Stale) == 0
}

func (d *Drift) String() string {
	var b strings.Builder
	for _, rel := range d.Missing {
		fmt.Fprintf(&b, "missing: %s\n", rel)
	}
	for _, rel := range d.Stale {
		fmt.Fprintf(&b, "stale: %s\n", rel)
	}
	for _, rel := range sortedKeys(d.Changed) {
		fmt.Fprintf(&b, "changed: %s\n%s\n", rel, d.Changed[rel])
	}
	return b.String()
}

// Check compares plan with the contents of outDir without writing anything.
func Check(outDir string, plan *Plan) (*Drift, error) {
	d := &Drift{Changed: make(map[string]string)}
	for _, rel := range sortedKeys(plan.Files) {
		have, err := os.ReadFile(filepath.Join(outDir, filepath.FromSlash(rel)))
		if errors.Is(err, os.ErrNotExist) {
			d.Missing = append(d.Missing, rel)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", rel, err)
		}
		if diff := cmp.Diff(string(have), string(plan.Files[rel])); diff != "" {
			d.Changed[rel] = diff
		}
	}
	stale, err := plan.stale(outDir)
	if err != nil {
		return nil, err
	}
	d.Stale = stale
	return d, nil
}
