package parser

import (
	"io"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/cmmoran/headergen/internal/entity"
	"github.com/cmmoran/headergen/internal/model"
	"github.com/cmmoran/headergen/pkg/config"
)

var (
	foundation = entity.Location{Library: "Foundation", File: "NSString"}
	objcLoc    = entity.Location{Library: "ObjectiveC", File: "NSObject"}
)

func newParser(t *testing.T, translation string) *Parser {
	t.Helper()
	cfg, err := config.Decode("[library]\nname = \"Foundation\"\n" + translation)
	require.NoError(t, err)
	return New(cfg, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func node(kind entity.Kind, name string, children ...*entity.Node) *entity.Node {
	return entity.NewNode(entity.NodeData{Kind: kind, Name: name, Children: children})
}

func with(n *entity.Node, fn func(d *entity.NodeData)) *entity.Node {
	fn(&n.NodeData)
	return n
}

func prim(name string) *entity.TypeRef {
	return &entity.TypeRef{Kind: entity.TypePrimitive, Name: name}
}

func obj(name string, loc entity.Location) *entity.TypeRef {
	return &entity.TypeRef{Kind: entity.TypeObject, Name: name, Location: loc}
}

func param(name string, ty *entity.TypeRef) *entity.Node {
	return with(node(entity.ParmDecl, name), func(d *entity.NodeData) { d.Type = ty })
}

func method(kind entity.Kind, sel string, result *entity.TypeRef, children ...*entity.Node) *entity.Node {
	return with(node(kind, sel, children...), func(d *entity.NodeData) { d.Result = result })
}

func property(name string, ty *entity.TypeRef, setter string) *entity.Node {
	return with(node(entity.PropertyDecl, name), func(d *entity.NodeData) {
		d.Type = ty
		if setter != "" {
			d.Setter = &setter
		}
	})
}

func class(name string, children ...*entity.Node) *entity.Node {
	return with(node(entity.InterfaceDecl, name, children...), func(d *entity.NodeData) {
		d.Location = foundation
		d.Availability = &entity.Availability{}
	})
}

func superclass() *entity.Node {
	return with(node(entity.SuperClassRef, "NSObject"), func(d *entity.NodeData) { d.Location = objcLoc })
}

func expression(text string) *entity.Node {
	return with(node(entity.Expression, ""), func(d *entity.NodeData) { d.Expression = text })
}

func TestClassifyInterface(t *testing.T) {
	p := newParser(t, "")
	e := class("NSString",
		superclass(),
		node(entity.ProtocolRef, "NSCopying"),
		property("length", prim("NSUInteger"), ""),
		method(entity.InstanceMethodDecl, "length", prim("NSUInteger")),
		method(entity.InstanceMethodDecl, "characterAtIndex:", prim("unichar"), param("index", prim("NSUInteger"))),
		with(method(entity.InstanceMethodDecl, "stringByAppendingFormat:", obj("NSString", foundation)), func(d *entity.NodeData) { d.Variadic = true }),
		method(entity.ClassMethodDecl, "string", obj("NSString", foundation)),
	)

	got, err := p.Classify(e)
	require.NoError(t, err)

	str := model.ItemIdentifier{Name: "NSString", Location: model.Location{Library: "Foundation", File: "NSString"}}
	want := &model.ClassDecl{
		Name:       "NSString",
		Loc:        model.Location{Library: "Foundation", File: "NSString"},
		Superclass: model.GenericType{Name: "NSObject", Location: model.Location{Library: "ObjectiveC", File: "NSObject"}},
		Protocols:  []model.ItemIdentifier{{Name: "NSCopying"}},
		Members: []model.Member{
			&model.Property{Name: "length", Getter: "length", Ty: model.Primitive("uint")},
			&model.Method{Sel: "characterAtIndex:", GoName: "CharacterAtIndex", Params: []model.Param{{Name: "index", Ty: model.Primitive("uint")}}, Result: model.Primitive("uint16")},
			&model.Method{Sel: "string", GoName: "String", IsClass: true, Result: model.Ty{Kind: model.TyObject, Name: "NSString", Item: &str}},
		},
		Derives: model.DefaultDerives(),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Classify() mismatch (-want +got):\n%s", diff)
	}
}

func TestClassifyErrors(ttt *testing.T) {
	tests := []struct {
		name   string
		entity *entity.Node
		code   model.ErrorCode
	}{
		{
			name:   "no superclass",
			entity: class("NSFoo"),
			code:   model.ErrNoSuperclass,
		},
		{
			name:   "missing availability",
			entity: with(node(entity.InterfaceDecl, "NSFoo", superclass()), func(d *entity.NodeData) { d.Location = foundation }),
			code:   model.ErrMissingMetadata,
		},
		{
			name: "duplicate property",
			entity: class("NSFoo", superclass(),
				property("name", prim("int"), ""),
				property("name", prim("int"), ""),
			),
			code: model.ErrDuplicateProperty,
		},
		{
			name: "unmatched accessor",
			entity: class("NSFoo", superclass(),
				property("title", obj("NSString", foundation), "setTitle:"),
				method(entity.InstanceMethodDecl, "title", obj("NSString", foundation)),
			),
			code: model.ErrUnmatchedAccessor,
		},
		{
			name:   "unknown child",
			entity: class("NSFoo", superclass(), node(entity.FieldDecl, "x")),
			code:   model.ErrUnknownEntity,
		},
		{
			name: "unknown method type",
			entity: class("NSFoo", superclass(),
				method(entity.InstanceMethodDecl, "value", prim("long double")),
			),
			code: model.ErrUnknownType,
		},
		{
			name:   "category without class",
			entity: with(node(entity.CategoryDecl, "Extras"), func(d *entity.NodeData) { d.Availability = &entity.Availability{} }),
			code:   model.ErrCategoryClass,
		},
		{
			name: "category with two classes",
			entity: with(node(entity.CategoryDecl, "Extras", node(entity.ClassRef, "NSString"), node(entity.ClassRef, "NSArray")), func(d *entity.NodeData) {
				d.Availability = &entity.Availability{}
			}),
			code: model.ErrCategoryClass,
		},
		{
			name: "enum kind mismatch",
			entity: with(node(entity.EnumDecl, "NSFoo",
				with(node(entity.UnexposedAttr, ""), func(d *entity.NodeData) { d.Attribute = "NS_ENUM" }),
				node(entity.FlagEnum, ""),
			), func(d *entity.NodeData) {
				d.Definition = true
				d.Type = prim("NSInteger")
			}),
			code: model.ErrEnumKindMismatch,
		},
		{
			name: "enum macro on struct",
			entity: node(entity.StructDecl, "NSRange",
				with(node(entity.UnexposedAttr, ""), func(d *entity.NodeData) { d.Attribute = "NS_OPTIONS" }),
			),
			code: model.ErrUnexpectedAttribute,
		},
		{
			name: "variable value twice",
			entity: with(node(entity.VarDecl, "kFoo", expression("1"), expression("2")), func(d *entity.NodeData) {
				d.Type = prim("int")
			}),
			code: model.ErrDuplicateValue,
		},
		{
			name:   "unknown top-level",
			entity: node(entity.ParmDecl, "x"),
			code:   model.ErrUnknownEntity,
		},
	}
	for _, tt := range tests {
		ttt.Run(tt.name, func(t *testing.T) {
			_, err := newParser(t, "").Classify(tt.entity)
			require.ErrorIs(t, err, &model.Error{Code: tt.code})
		})
	}
}

func TestClassifySkipped(ttt *testing.T) {
	tests := []struct {
		name        string
		translation string
		entity      *entity.Node
	}{
		{
			name:        "class skipped by config",
			translation: "[class.NSFoo]\nskipped = true\n",
			entity:      class("NSFoo"),
		},
		{
			name:   "forward declaration",
			entity: node(entity.ClassRef, "NSFoo"),
		},
		{
			name:   "enum declaration",
			entity: with(node(entity.EnumDecl, "NSFoo"), func(d *entity.NodeData) { d.Type = prim("int") }),
		},
		{
			name:   "union",
			entity: node(entity.UnionDecl, "NSFoo"),
		},
		{
			name:   "private struct",
			entity: node(entity.StructDecl, "_NSFoo", with(node(entity.FieldDecl, "x"), func(d *entity.NodeData) { d.Type = prim("int") })),
		},
		{
			name: "variadic function",
			entity: with(node(entity.FunctionDecl, "NSLog", param("format", obj("NSString", foundation))), func(d *entity.NodeData) {
				d.Variadic = true
				d.Result = &entity.TypeRef{Kind: entity.TypeVoid}
			}),
		},
		{
			name: "unrepresentable initializer",
			entity: with(node(entity.VarDecl, "NSFooName", expression(`@"foo"`)), func(d *entity.NodeData) {
				d.Type = obj("NSString", foundation)
			}),
		},
		{
			name: "block typedef",
			entity: with(node(entity.TypedefDecl, "NSComparator"), func(d *entity.NodeData) {
				d.Type = &entity.TypeRef{Kind: entity.TypeBlock}
			}),
		},
		{
			name:        "function skipped by config",
			translation: "[fn.NSFoo]\nskipped = true\n",
			entity:      with(node(entity.FunctionDecl, "NSFoo"), func(d *entity.NodeData) { d.Result = prim("int") }),
		},
	}
	for _, tt := range tests {
		ttt.Run(tt.name, func(t *testing.T) {
			s, err := newParser(t, tt.translation).Classify(tt.entity)
			require.NoError(t, err)
			require.Nil(t, s)
		})
	}
}

func TestKnownUnmatchedAccessor(t *testing.T) {
	e := class("NSFoo", superclass(),
		property("displayName", obj("NSString", foundation), "setDisplayName:"),
		method(entity.InstanceMethodDecl, "displayName", obj("NSString", foundation)),
	)
	s, err := newParser(t, "").Classify(e)
	require.NoError(t, err)
	members := s.(*model.ClassDecl).Members
	require.Len(t, members, 1)
	require.True(t, members[0].(*model.Property).HasSetter)
}

func TestRootClass(t *testing.T) {
	e := with(class("NSObject", node(entity.RootClass, "")), func(d *entity.NodeData) { d.Location = objcLoc })
	s, err := newParser(t, "").Classify(e)
	require.NoError(t, err)
	c := s.(*model.ClassDecl)
	require.True(t, c.Root)
	require.Empty(t, c.Superclass.Name)
}

func TestGenericSuperclass(t *testing.T) {
	arrayLoc := entity.Location{Library: "Foundation", File: "NSArray"}
	e := with(class("NSMutableArray",
		node(entity.TemplateTypeParameter, "ObjectType"),
		with(node(entity.SuperClassRef, "NSArray"), func(d *entity.NodeData) { d.Location = arrayLoc }),
		node(entity.TypeRefKind, "ObjectType"),
	), func(d *entity.NodeData) { d.Location = arrayLoc })

	s, err := newParser(t, "").Classify(e)
	require.NoError(t, err)
	c := s.(*model.ClassDecl)
	require.Equal(t, []model.GenericType{{Name: "ObjectType"}}, c.Generics)
	want := model.GenericType{
		Name:     "NSArray",
		Location: model.Location{Library: "Foundation", File: "NSArray"},
		Generics: []model.GenericType{{Name: "ObjectType"}},
	}
	if diff := cmp.Diff(want, c.Superclass); diff != "" {
		t.Errorf("Superclass mismatch (-want +got):\n%s", diff)
	}
}

func TestMethodOverrides(t *testing.T) {
	p := newParser(t, `
[class.NSString.methods."characterAtIndex:"]
name = "At"

[class.NSString.methods."length"]
skipped = true
`)
	e := class("NSString", superclass(),
		method(entity.InstanceMethodDecl, "characterAtIndex:", prim("unichar"), param("index", prim("NSUInteger"))),
		method(entity.InstanceMethodDecl, "length", prim("NSUInteger")),
	)
	s, err := p.Classify(e)
	require.NoError(t, err)
	members := s.(*model.ClassDecl).Members
	require.Len(t, members, 1)
	require.Equal(t, "At", members[0].(*model.Method).GoName)
}

func TestErrorParamLifting(t *testing.T) {
	errorOut := &entity.TypeRef{Kind: entity.TypePointer, Pointee: obj("NSError", entity.Location{Library: "Foundation", File: "NSError"})}
	urlLoc := entity.Location{Library: "Foundation", File: "NSURL"}
	e := class("NSData", superclass(),
		method(entity.InstanceMethodDecl, "writeToURL:error:", prim("BOOL"),
			param("url", obj("NSURL", urlLoc)),
			param("error", errorOut),
		),
		method(entity.InstanceMethodDecl, "setError:", &entity.TypeRef{Kind: entity.TypeVoid},
			param("error", errorOut),
		),
	)
	s, err := newParser(t, "").Classify(e)
	require.NoError(t, err)
	members := s.(*model.ClassDecl).Members

	write := members[0].(*model.Method)
	require.True(t, write.ErrorParam)
	require.Len(t, write.Params, 1)
	require.Equal(t, "url", write.Params[0].Name)
	require.Equal(t, model.Primitive("bool"), write.Result)

	// only selectors ending in error: lift the out parameter
	set := members[1].(*model.Method)
	require.False(t, set.ErrorParam)
	require.Len(t, set.Params, 1)
	require.Equal(t, model.TyPointer, set.Params[0].Ty.Kind)
}

func TestTypedefStructRedirect(t *testing.T) {
	geometry := entity.Location{Library: "Foundation", File: "NSGeometry"}
	field := func(name string) *entity.Node {
		return with(node(entity.FieldDecl, name), func(d *entity.NodeData) { d.Type = prim("CGFloat") })
	}
	e := with(node(entity.TypedefDecl, "NSPoint", node(entity.StructDecl, "", field("x"), field("y"))), func(d *entity.NodeData) {
		d.Location = geometry
		d.Type = &entity.TypeRef{Kind: entity.TypeStruct}
	})
	s, err := newParser(t, "").Classify(e)
	require.NoError(t, err)
	want := &model.StructDecl{
		Name: "NSPoint",
		Loc:  model.Location{Library: "Foundation", File: "NSGeometry"},
		Fields: []model.Field{
			{Name: "x", Ty: model.Primitive("float64")},
			{Name: "y", Ty: model.Primitive("float64")},
		},
	}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Errorf("Classify() mismatch (-want +got):\n%s", diff)
	}
}

func TestEnum(t *testing.T) {
	constant := func(name string, v int64, children ...*entity.Node) *entity.Node {
		return with(node(entity.EnumConstantDecl, name, children...), func(d *entity.NodeData) {
			d.Value = &entity.ConstValue{Signed: v, Unsigned: uint64(v)}
		})
	}
	e := with(node(entity.EnumDecl, "NSComparisonResult",
		with(node(entity.UnexposedAttr, ""), func(d *entity.NodeData) { d.Attribute = "NS_ENUM" }),
		constant("NSOrderedAscending", -1, expression("-1L")),
		constant("NSOrderedSame", 0),
		constant("NSOrderedDescending", 1, expression("NSOrderedSame + 1")),
	), func(d *entity.NodeData) {
		d.Location = foundation
		d.Definition = true
		d.Type = &entity.TypeRef{Kind: entity.TypePrimitive, Name: "NSInteger", Signed: true}
	})

	tests := []struct {
		name        string
		translation string
		want        []model.Variant
	}{
		{
			name: "written values",
			want: []model.Variant{
				{Name: "NSOrderedAscending", Value: model.Expr{Text: "-1"}},
				{Name: "NSOrderedSame", Value: model.Expr{Text: "0"}},
				{Name: "NSOrderedDescending", Value: model.Expr{Text: "NSOrderedSame + 1", Refs: []model.ItemIdentifier{{Name: "NSOrderedSame"}}}},
			},
		},
		{
			name:        "computed values",
			translation: "[enum.NSComparisonResult]\nuse-value = true\n\n[enum.NSComparisonResult.constants.NSOrderedSame]\nskipped = true\n",
			want: []model.Variant{
				{Name: "NSOrderedAscending", Value: model.Expr{Text: "-1"}},
				{Name: "NSOrderedDescending", Value: model.Expr{Text: "1"}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := newParser(t, tt.translation).Classify(e)
			require.NoError(t, err)
			enum := s.(*model.EnumDecl)
			require.Equal(t, model.EnumEnum, enum.Tag)
			require.Equal(t, model.Primitive("int"), enum.Ty)
			if diff := cmp.Diff(tt.want, enum.Variants); diff != "" {
				t.Errorf("Variants mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestUnsignedEnumCast(t *testing.T) {
	allBits := uint64(1<<64 - 1)
	e := with(node(entity.EnumDecl, "NSBinarySearchingOptions",
		with(node(entity.UnexposedAttr, ""), func(d *entity.NodeData) { d.Attribute = "NS_OPTIONS" }),
		with(node(entity.EnumConstantDecl, "NSNotFoundOption", expression("(NSUInteger)-1")), func(d *entity.NodeData) {
			d.Value = &entity.ConstValue{Signed: -1, Unsigned: allBits}
		}),
		with(node(entity.EnumConstantDecl, "NSAllOptions", expression("(unsigned long)~0")), func(d *entity.NodeData) {
			d.Value = &entity.ConstValue{Signed: -1, Unsigned: allBits}
		}),
	), func(d *entity.NodeData) {
		d.Location = foundation
		d.Definition = true
		d.Type = prim("NSUInteger")
	})

	s, err := newParser(t, "").Classify(e)
	require.NoError(t, err)
	enum := s.(*model.EnumDecl)
	require.Equal(t, model.EnumOptions, enum.Tag)
	// casts fall back to the computed value in the enum's signedness
	want := []model.Variant{
		{Name: "NSNotFoundOption", Value: model.Expr{Text: "18446744073709551615"}},
		{Name: "NSAllOptions", Value: model.Expr{Text: "18446744073709551615"}},
	}
	if diff := cmp.Diff(want, enum.Variants); diff != "" {
		t.Errorf("Variants mismatch (-want +got):\n%s", diff)
	}
}

func TestExpressionReferences(t *testing.T) {
	cf := entity.Location{Library: "CoreFoundation", File: "CFPropertyList"}
	e := with(node(entity.VarDecl, "NSPropertyListDefault",
		with(expression("kCFPropertyListImmutable | NSPropertyListMutableContainers"), func(d *entity.NodeData) {
			d.References = []entity.Reference{{Name: "kCFPropertyListImmutable", Location: cf}}
		}),
	), func(d *entity.NodeData) {
		d.Location = foundation
		d.Type = prim("NSUInteger")
	})

	s, err := newParser(t, "").Classify(e)
	require.NoError(t, err)
	want := &model.Expr{
		Text: "KCFPropertyListImmutable | NSPropertyListMutableContainers",
		Refs: []model.ItemIdentifier{
			{Name: "kCFPropertyListImmutable", Location: model.Location{Library: "CoreFoundation", File: "CFPropertyList"}},
			{Name: "NSPropertyListMutableContainers"},
		},
	}
	if diff := cmp.Diff(want, s.(*model.VarDecl).Value); diff != "" {
		t.Errorf("Value mismatch (-want +got):\n%s", diff)
	}
}

func TestParseExpr(ttt *testing.T) {
	tests := []struct {
		src  string
		want string
		refs []string
		ok   bool
	}{
		{src: "42", want: "42", ok: true},
		{src: "1UL << 3", want: "1 << 3", ok: true},
		{src: "0x10ull", want: "0x10", ok: true},
		{src: "1.5f", want: "1.5", ok: true},
		{src: "(NSUInteger)-1"},
		{src: "(NSInteger)0x80000000"},
		{src: "(unsigned int)~0"},
		{src: "~0", want: "^0", ok: true},
		{src: "YES", want: "true", ok: true},
		{src: "NO", want: "false", ok: true},
		{src: "(1 << 2)", want: "(1 << 2)", ok: true},
		{src: "kFooMask | kBarMask | kFooMask", want: "KFooMask | KBarMask | KFooMask", refs: []string{"kFooMask", "kBarMask"}, ok: true},
		{src: "'a'", want: "'a'", ok: true},
		{src: `"abc"`},
		{src: `@"abc"`},
		{src: "foo(1)"},
		{src: "1 ? 2 : 3"},
		{src: "1.5q"},
		{src: ""},
	}
	for _, tt := range tests {
		ttt.Run(tt.src, func(t *testing.T) {
			got, ok := parseExpr(tt.src)
			require.Equal(t, tt.ok, ok)
			if !tt.ok {
				return
			}
			require.Equal(t, tt.want, got.Text)
			var refs []string
			for _, ref := range got.Refs {
				refs = append(refs, ref.Name)
			}
			require.Equal(t, tt.refs, refs)
		})
	}
}

func TestParseType(ttt *testing.T) {
	tests := []struct {
		name    string
		ty      *entity.TypeRef
		mode    TypeMode
		want    string
		wantErr bool
	}{
		{name: "primitive", ty: prim("NSInteger"), mode: Static, want: "int"},
		{name: "object", ty: obj("NSString", foundation), mode: MethodArgument, want: "*NSString"},
		{name: "object field", ty: obj("NSString", foundation), mode: StructField, want: "id"},
		{name: "void return", ty: &entity.TypeRef{Kind: entity.TypeVoid}, mode: MethodReturn, want: "void"},
		{name: "void argument", ty: &entity.TypeRef{Kind: entity.TypeVoid}, mode: MethodArgument, wantErr: true},
		{name: "void pointer", ty: &entity.TypeRef{Kind: entity.TypePointer, Pointee: &entity.TypeRef{Kind: entity.TypeVoid}}, mode: Static, want: "unsafe.Pointer"},
		{name: "array argument decays", ty: &entity.TypeRef{Kind: entity.TypeArray, Pointee: prim("char"), Len: 4}, mode: FunctionArgument, want: "*int8"},
		{name: "array field", ty: &entity.TypeRef{Kind: entity.TypeArray, Pointee: prim("char"), Len: 4}, mode: StructField, want: "[4]int8"},
		{name: "block", ty: &entity.TypeRef{Kind: entity.TypeBlock}, mode: MethodArgument, want: "unsafe.Pointer"},
		{name: "float enum", ty: prim("double"), mode: Enum, wantErr: true},
		{name: "unknown primitive", ty: prim("__int128"), mode: Static, wantErr: true},
		{
			name: "generic object",
			ty:   &entity.TypeRef{Kind: entity.TypeObject, Name: "NSArray", Generics: []*entity.TypeRef{obj("NSString", foundation)}},
			mode: Property,
			want: "*NSArray[*NSString]",
		},
	}
	for _, tt := range tests {
		ttt.Run(tt.name, func(t *testing.T) {
			got, err := parseType(tt.ty, tt.mode)
			if tt.wantErr {
				require.ErrorIs(t, err, &model.Error{Code: model.ErrUnknownType})
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got.String())
		})
	}
}

func TestSelectorGoName(t *testing.T) {
	require.Equal(t, "InitWithStringLength", SelectorGoName("initWithString:length:"))
	require.Equal(t, "Length", SelectorGoName("length"))
	require.Equal(t, "PrivateThing", SelectorGoName("_privateThing"))
}
