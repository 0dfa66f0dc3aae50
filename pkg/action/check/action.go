package check

import (
	"fmt"
	"log/slog"

	"github.com/cmmoran/headergen/internal/module"
	"github.com/cmmoran/headergen/pkg/action/generate"
	"github.com/cmmoran/headergen/pkg/config"
)

// Check renders the library described by opts in memory and compares it
// with what is on disk. Any drift is an error carrying the diff.
func Check(opts *config.Options, log *slog.Logger) (*module.Drift, error) {
	tree, plan, err := generate.Prepare(opts, log)
	if err != nil {
		return nil, err
	}
	drift, err := module.Check(opts.OutDir, plan)
	if err != nil {
		return nil, err
	}
	if !drift.Empty() {
		return drift, fmt.Errorf("generated files for %s are out of date:\n%s", tree.Library, drift)
	}
	log.Info("generated files are current", "library", tree.Library, "files", len(plan.Files))
	return drift, nil
}
