// Package entity adapts parsed header declarations into the read-only shape the
// translator consumes. Entities are produced by an external header parser and
// arrive here as JSON or YAML dumps.
package entity

import "fmt"

// VisitResult controls a child walk.
type VisitResult int

const (
	Continue VisitResult = iota
	Break
)

// Location names the header a declaration came from. File is relative to the
// library and has no extension, e.g. "NSString" or "Private/NSFoo".
type Location struct {
	Library string `json:"library,omitempty" yaml:"library,omitempty"`
	File    string `json:"file,omitempty" yaml:"file,omitempty"`
}

func (l Location) IsZero() bool {
	return l.Library == "" && l.File == ""
}

func (l Location) String() string {
	if l.File == "" {
		return l.Library
	}
	return l.Library + "/" + l.File
}

// Reference is a declaration named by an initializer expression, as resolved
// by the header parser.
type Reference struct {
	Name     string   `json:"name" yaml:"name"`
	Location Location `json:"location,omitempty" yaml:"location,omitempty"`
}

// PlatformAvailability is the availability of a declaration on one platform.
type PlatformAvailability struct {
	Platform    string `json:"platform" yaml:"platform"`
	Introduced  string `json:"introduced,omitempty" yaml:"introduced,omitempty"`
	Deprecated  string `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
	Obsoleted   string `json:"obsoleted,omitempty" yaml:"obsoleted,omitempty"`
	Unavailable bool   `json:"unavailable,omitempty" yaml:"unavailable,omitempty"`
	Message     string `json:"message,omitempty" yaml:"message,omitempty"`
}

type Availability struct {
	Platforms []PlatformAvailability `json:"platforms,omitempty" yaml:"platforms,omitempty"`
	// Unavailable marks the declaration unavailable everywhere.
	Unavailable bool   `json:"unavailable,omitempty" yaml:"unavailable,omitempty"`
	Message     string `json:"message,omitempty" yaml:"message,omitempty"`
}

// Entity is a parsed declaration or sub-declaration. Implementations are
// owned by the producer; consumers never mutate them.
type Entity interface {
	Kind() Kind
	Name() (string, bool)
	Type() *TypeRef
	ResultType() *TypeRef
	Location() Location
	Availability() (Availability, bool)
	// Attribute is the macro name carried by an UnexposedAttr.
	Attribute() string
	IsDefinition() bool
	IsVariadic() bool
	IsInline() bool
	IsStatic() bool
	IsBitField() bool
	IsExpression() bool
	EnumValue() (int64, uint64)
	Expression() string
	// References lists what an Expression refers to, when the parser knows.
	References() []Reference
	Getter() string
	Setter() (string, bool)
	IsClassMember() bool
	Visit(fn func(child Entity) VisitResult)
}

// Describe renders a short human readable identification of e for errors and logs.
func Describe(e Entity) string {
	name, ok := e.Name()
	if !ok {
		name = "<anonymous>"
	}
	if loc := e.Location(); !loc.IsZero() {
		return fmt.Sprintf("%s %s (%s)", e.Kind(), name, loc)
	}
	return fmt.Sprintf("%s %s", e.Kind(), name)
}

// Children collects the direct children of e in order.
func Children(e Entity) []Entity {
	var out []Entity
	e.Visit(func(child Entity) VisitResult {
		out = append(out, child)
		return Continue
	})
	return out
}
