package parser

import (
	"log/slog"
	"strings"

	"github.com/cmmoran/headergen/internal/entity"
	"github.com/cmmoran/headergen/internal/model"
	"github.com/cmmoran/headergen/pkg/config"
)

// Parser classifies the entities of one parser run into statements.
type Parser struct {
	Config *config.Config

	log *slog.Logger
}

type Option func(*Parser)

func WithLogger(l *slog.Logger) Option {
	return func(p *Parser) { p.log = l }
}

// New returns a Parser consulting cfg for overrides.
func New(cfg *config.Config, opts ...Option) *Parser {
	p := &Parser{
		Config: cfg,
		log:    slog.Default(),
	}
	for _, fn := range opts {
		fn(p)
	}
	return p
}

// ParseAll classifies entities in stream order. Skipped entities produce no
// statement; the first structural error aborts.
func (p *Parser) ParseAll(entities []entity.Entity) ([]model.Stmt, error) {
	stmts := make([]model.Stmt, 0, len(entities))
	for _, e := range entities {
		s, err := p.Classify(e)
		if err != nil {
			return nil, err
		}
		if s != nil {
			stmts = append(stmts, s)
		}
	}
	return stmts, nil
}

// Classify converts one top-level entity into a statement. A nil statement
// with a nil error means the entity was skipped.
func (p *Parser) Classify(e entity.Entity) (model.Stmt, error) {
	switch e.Kind() {
	case entity.ClassRef, entity.ProtocolRef:
		// forward declarations; imports are resolved from locations instead
		return nil, nil
	case entity.InterfaceDecl:
		return p.parseInterface(e)
	case entity.CategoryDecl:
		return p.parseCategory(e)
	case entity.ProtocolDecl:
		return p.parseProtocol(e)
	case entity.TypedefDecl:
		return p.parseTypedef(e)
	case entity.StructDecl:
		name, ok := e.Name()
		if !ok {
			return nil, nil
		}
		if p.Config.Struct(name).Skipped {
			p.skipped(e, "config")
			return nil, nil
		}
		if strings.HasPrefix(name, "_") {
			// private structs are emitted through their typedef
			return nil, nil
		}
		return p.parseStruct(e, name, location(e.Location()))
	case entity.EnumDecl:
		return p.parseEnum(e)
	case entity.VarDecl:
		return p.parseVar(e)
	case entity.FunctionDecl:
		return p.parseFunction(e)
	case entity.UnionDecl:
		p.skipped(e, "unions are not supported")
		return nil, nil
	default:
		return nil, model.Errorf(model.ErrUnknownEntity, entity.Describe(e), "unknown top-level entity")
	}
}

func (p *Parser) skipped(e entity.Entity, reason string) {
	p.log.Info("skipping declaration", "name", entity.Describe(e), "reason", reason)
}

func requireName(e entity.Entity) (string, error) {
	name, ok := e.Name()
	if !ok {
		return "", model.Errorf(model.ErrMissingMetadata, entity.Describe(e), "missing name")
	}
	return name, nil
}

func requireAvailability(e entity.Entity) (model.Availability, error) {
	a, ok := e.Availability()
	if !ok {
		return model.Availability{}, model.Errorf(model.ErrMissingMetadata, entity.Describe(e), "missing availability")
	}
	return convertAvailability(a), nil
}

// optionalAvailability is used for members and leaf declarations, where
// headers commonly omit availability.
func optionalAvailability(e entity.Entity) model.Availability {
	a, _ := e.Availability()
	return convertAvailability(a)
}

func convertAvailability(a entity.Availability) model.Availability {
	out := model.Availability{Unavailable: a.Unavailable, Message: a.Message}
	for _, pa := range a.Platforms {
		out.Platforms = append(out.Platforms, model.PlatformAvailability{
			Platform:    pa.Platform,
			Introduced:  pa.Introduced,
			Deprecated:  pa.Deprecated,
			Obsoleted:   pa.Obsoleted,
			Unavailable: pa.Unavailable,
			Message:     pa.Message,
		})
	}
	return out
}

func location(l entity.Location) model.Location {
	return model.Location{Library: l.Library, File: l.File}
}
