package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConstValue is the value of an enum constant in both signednesses.
type ConstValue struct {
	Signed   int64  `json:"signed" yaml:"signed"`
	Unsigned uint64 `json:"unsigned" yaml:"unsigned"`
}

// NodeData is the serialized form of one entity.
type NodeData struct {
	Kind         Kind          `json:"kind" yaml:"kind"`
	Name         string        `json:"name,omitempty" yaml:"name,omitempty"`
	Type         *TypeRef      `json:"type,omitempty" yaml:"type,omitempty"`
	Result       *TypeRef      `json:"result,omitempty" yaml:"result,omitempty"`
	Location     Location      `json:"location,omitempty" yaml:"location,omitempty"`
	Availability *Availability `json:"availability,omitempty" yaml:"availability,omitempty"`
	Attribute    string        `json:"attribute,omitempty" yaml:"attribute,omitempty"`
	Definition   bool          `json:"definition,omitempty" yaml:"definition,omitempty"`
	Variadic     bool          `json:"variadic,omitempty" yaml:"variadic,omitempty"`
	Inline       bool          `json:"inline,omitempty" yaml:"inline,omitempty"`
	Static       bool          `json:"static,omitempty" yaml:"static,omitempty"`
	BitField     bool          `json:"bit_field,omitempty" yaml:"bit_field,omitempty"`
	Value        *ConstValue   `json:"value,omitempty" yaml:"value,omitempty"`
	Expression   string        `json:"expression,omitempty" yaml:"expression,omitempty"`
	References   []Reference   `json:"references,omitempty" yaml:"references,omitempty"`
	Getter       string        `json:"getter,omitempty" yaml:"getter,omitempty"`
	Setter       *string       `json:"setter,omitempty" yaml:"setter,omitempty"`
	ClassMember  bool          `json:"class_member,omitempty" yaml:"class_member,omitempty"`
	Children     []*Node       `json:"children,omitempty" yaml:"children,omitempty"`
}

// Node is the Entity implementation backed by a decoded dump.
type Node struct {
	NodeData `yaml:",inline"`
}

var _ Entity = (*Node)(nil)

func NewNode(d NodeData) *Node {
	return &Node{NodeData: d}
}

func (n *Node) Kind() Kind { return n.NodeData.Kind }

func (n *Node) Name() (string, bool) {
	return n.NodeData.Name, n.NodeData.Name != ""
}

func (n *Node) Type() *TypeRef       { return n.NodeData.Type }
func (n *Node) ResultType() *TypeRef { return n.Result }
func (n *Node) Location() Location   { return n.NodeData.Location }

func (n *Node) Availability() (Availability, bool) {
	if n.NodeData.Availability == nil {
		return Availability{}, false
	}
	return *n.NodeData.Availability, true
}

func (n *Node) Attribute() string  { return n.NodeData.Attribute }
func (n *Node) IsDefinition() bool { return n.Definition }
func (n *Node) IsVariadic() bool   { return n.Variadic }
func (n *Node) IsInline() bool     { return n.Inline }
func (n *Node) IsStatic() bool     { return n.Static }
func (n *Node) IsBitField() bool   { return n.BitField }
func (n *Node) IsExpression() bool { return n.NodeData.Kind == Expression }

func (n *Node) EnumValue() (int64, uint64) {
	if n.Value == nil {
		return 0, 0
	}
	return n.Value.Signed, n.Value.Unsigned
}

func (n *Node) Expression() string      { return n.NodeData.Expression }
func (n *Node) References() []Reference { return n.NodeData.References }

// Getter defaults to the property name.
func (n *Node) Getter() string {
	if n.NodeData.Getter != "" {
		return n.NodeData.Getter
	}
	return n.NodeData.Name
}

func (n *Node) Setter() (string, bool) {
	if n.NodeData.Setter == nil {
		return "", false
	}
	return *n.NodeData.Setter, true
}

func (n *Node) IsClassMember() bool { return n.ClassMember }

func (n *Node) Visit(fn func(child Entity) VisitResult) {
	for _, c := range n.Children {
		if fn(c) == Break {
			return
		}
	}
}

// Dump is one header-parser run over a library.
type Dump struct {
	Library  string  `json:"library" yaml:"library"`
	Entities []*Node `json:"entities" yaml:"entities"`
}

// Top returns the top-level entities in stream order.
func (d *Dump) Top() []Entity {
	out := make([]Entity, len(d.Entities))
	for i, n := range d.Entities {
		out[i] = n
	}
	return out
}

// Load reads a dump from path, choosing the decoder by extension.
func Load(path string) (*Dump, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read entity dump: %w", err)
	}
	return Decode(data, filepath.Ext(path))
}

// Decode decodes a dump. ext is ".json", ".yaml" or ".yml".
func Decode(data []byte, ext string) (*Dump, error) {
	var d Dump
	switch strings.ToLower(ext) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode entity dump: %w", err)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode entity dump: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported entity dump format %q", ext)
	}
	if d.Library == "" {
		return nil, fmt.Errorf("entity dump has no library")
	}
	for _, n := range d.Entities {
		if n.NodeData.Location.Library == "" {
			n.NodeData.Location.Library = d.Library
		}
		defaultLibrary(n, d.Library)
	}
	return &d, nil
}

// defaultLibrary fills in lib for every nested location that names a file
// but no library. Locations without a file stay unknown.
func defaultLibrary(n *Node, lib string) {
	defaultTypeLibrary(n.NodeData.Type, lib)
	defaultTypeLibrary(n.Result, lib)
	for i, ref := range n.NodeData.References {
		if ref.Location.Library == "" && ref.Location.File != "" {
			n.NodeData.References[i].Location.Library = lib
		}
	}
	for _, c := range n.Children {
		if c.NodeData.Location.Library == "" && c.NodeData.Location.File != "" {
			c.NodeData.Location.Library = lib
		}
		defaultLibrary(c, lib)
	}
}

func defaultTypeLibrary(t *TypeRef, lib string) {
	if t == nil {
		return
	}
	if t.Location.Library == "" && t.Location.File != "" {
		t.Location.Library = lib
	}
	defaultTypeLibrary(t.Pointee, lib)
	for _, g := range t.Generics {
		defaultTypeLibrary(g, lib)
	}
}
