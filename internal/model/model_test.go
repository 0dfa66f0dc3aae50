package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

var foundation = Location{Library: "Foundation", File: "NSString"}

func nsObject() GenericType {
	return GenericType{Name: "NSObject", Location: Location{Library: "ObjectiveC", File: "NSObject"}}
}

func TestCompare(ttt *testing.T) {
	base := func() *ClassDecl {
		return &ClassDecl{
			Name:       "NSString",
			Loc:        foundation,
			Superclass: nsObject(),
			Members: []Member{
				&Property{Name: "length", Getter: "length", Ty: Primitive("uint")},
				&Method{Sel: "characterAtIndex:", GoName: "CharacterAtIndex", Params: []Param{{Name: "index", Ty: Primitive("uint")}}, Result: Primitive("uint16")},
			},
			Derives: DefaultDerives(),
		}
	}
	tests := []struct {
		name    string
		mutate  func(c *ClassDecl)
		wantMsg string
	}{
		{name: "equal", mutate: func(*ClassDecl) {}},
		{
			name:    "member result differs",
			mutate:  func(c *ClassDecl) { c.Members[1].(*Method).Result = Primitive("int32") },
			wantMsg: "member 1 (characterAtIndex:) differs",
		},
		{
			name:    "member missing",
			mutate:  func(c *ClassDecl) { c.Members = c.Members[:1] },
			wantMsg: "member count differs: 2 != 1",
		},
		{
			name:    "superclass differs",
			mutate:  func(c *ClassDecl) { c.Superclass.Name = "NSProxy" },
			wantMsg: "statements differ",
		},
	}
	for _, tt := range tests {
		ttt.Run(tt.name, func(t *testing.T) {
			b := base()
			tt.mutate(b)
			err := Compare(base(), b)
			if tt.wantMsg == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, &Error{Code: ErrStatementMismatch})
			require.ErrorContains(t, err, tt.wantMsg)
		})
	}
}

func TestErrorIs(t *testing.T) {
	cause := Errorf(ErrUnknownType, "long double", "unknown primitive")
	err := fmt.Errorf("dump: %w", Wrap(ErrUnknownType, "NSFoo", cause))

	require.ErrorIs(t, err, &Error{Code: ErrUnknownType})
	require.False(t, errors.Is(err, &Error{Code: ErrNoSuperclass}))
	require.Equal(t, ErrUnknownType, Code(err))
	require.Equal(t, ErrorCode(""), Code(errors.New("plain")))
	require.Equal(t, "UNKNOWN_TYPE: NSFoo: UNKNOWN_TYPE: long double: unknown primitive", Wrap(ErrUnknownType, "NSFoo", cause).Error())
}

func TestRequiredItems(t *testing.T) {
	str := ItemIdentifier{Name: "NSString", Location: foundation}
	array := &ClassDecl{
		Name:       "NSMutableArray",
		Generics:   []GenericType{{Name: "ObjectType"}},
		Loc:        Location{Library: "Foundation", File: "NSArray"},
		Superclass: GenericType{Name: "NSArray", Location: Location{Library: "Foundation", File: "NSArray"}, Generics: []GenericType{{Name: "ObjectType"}}},
		Members: []Member{
			&Method{Sel: "addObject:", Params: []Param{{Name: "obj", Ty: Ty{Kind: TyGenericParam, Name: "ObjectType"}}}, Result: Void()},
			&Method{Sel: "componentsJoinedByString:", Params: []Param{{Name: "sep", Ty: Ty{Kind: TyObject, Name: "NSString", Item: &str}}}, Result: Ty{Kind: TyObject, Name: "NSString", Item: &str}},
		},
	}
	want := []ItemIdentifier{
		{Name: "NSArray", Location: Location{Library: "Foundation", File: "NSArray"}},
		str,
	}
	if diff := cmp.Diff(want, RequiredItemsInner(array)); diff != "" {
		t.Errorf("RequiredItemsInner() mismatch (-want +got):\n%s", diff)
	}

	root := &ClassDecl{Name: "NSObject", Loc: Location{Library: "ObjectiveC", File: "NSObject"}, Root: true}
	require.Empty(t, RequiredItemsInner(root))

	anon := &EnumDecl{Loc: foundation, Ty: Primitive("int")}
	_, ok := anon.ProvidedItem()
	require.False(t, ok)

	category := &CategoryDecl{Class: str, Loc: Location{Library: "Foundation", File: "NSPathUtilities"}}
	require.Equal(t, []ItemIdentifier{str}, RequiredItemsInner(category))
}

func TestAvailabilityDoc(t *testing.T) {
	a := Availability{Platforms: []PlatformAvailability{
		{Platform: "macOS", Introduced: "10.0", Deprecated: "10.15"},
		{Platform: "iOS", Introduced: "2.0", Deprecated: "13.0", Message: "Use URLs instead"},
		{Platform: "watchOS", Unavailable: true},
	}}
	want := []string{
		"Available on macOS 10.0+, iOS 2.0+.",
		"Unavailable on watchOS.",
		"",
		"Deprecated: deprecated on macOS 10.15, iOS 13.0. Use URLs instead",
	}
	if diff := cmp.Diff(want, a.Doc()); diff != "" {
		t.Errorf("Doc() mismatch (-want +got):\n%s", diff)
	}
	require.True(t, a.IsDeprecated())
	require.Empty(t, Availability{}.Doc())
}

func TestNames(t *testing.T) {
	require.Equal(t, "NSString", GoName("NSString"))
	require.Equal(t, "Dispatch_once", GoName("dispatch_once"))
	require.Equal(t, "_private", GoName("_private"))
	require.Equal(t, "type_", SafeIdent("type"))
	require.Equal(t, "range_", SafeIdent("range"))
	require.Equal(t, "length", SafeIdent("length"))
}
