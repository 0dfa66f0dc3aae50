package compare

import (
	"fmt"
	"log/slog"

	"github.com/cmmoran/headergen/internal/module"
	"github.com/cmmoran/headergen/pkg/action/generate"
	"github.com/cmmoran/headergen/pkg/config"
)

// Compare classifies opts.Inputs and opts.Against with the same translation
// config and reports the first statement that differs between them.
func Compare(opts *config.Options, log *slog.Logger) error {
	if len(opts.Against) == 0 {
		return fmt.Errorf("nothing to compare against")
	}
	cfg, err := config.Load(opts.TranslationConfig)
	if err != nil {
		return err
	}
	a, err := generate.Classify(cfg, opts.Inputs, log)
	if err != nil {
		return err
	}
	b, err := generate.Classify(cfg, opts.Against, log)
	if err != nil {
		return err
	}
	library := cfg.Library.Name
	if err := module.Compare(module.Build(library, a, log), module.Build(library, b, log)); err != nil {
		return err
	}
	log.Info("statement trees are equal", "library", library, "statements", len(a))
	return nil
}
