package module

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/require"

	"github.com/cmmoran/headergen/internal/model"
	"github.com/cmmoran/headergen/pkg/config"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func loc(file string) model.Location {
	return model.Location{Library: "Foundation", File: file}
}

func fixture() []model.Stmt {
	point := model.Field{Name: "x", Ty: model.Primitive("float64")}
	return []model.Stmt{
		&model.ClassDecl{
			Name:       "NSString",
			Loc:        loc("NSString"),
			Superclass: model.GenericType{Name: "NSObject", Location: model.Location{Library: "ObjectiveC", File: "NSObject"}},
		},
		&model.ClassDecl{
			Name:       "NSFoo",
			Loc:        loc("Private/NSFoo"),
			Superclass: model.GenericType{Name: "NSString", Location: loc("NSString")},
		},
		&model.StructDecl{Name: "NSPoint", Loc: loc("Geometry/NSPoint"), Fields: []model.Field{point}},
		&model.StructDecl{Name: "NSSize", Loc: loc("Geometry/NSSize"), Fields: []model.Field{point}},
		&model.ClassDecl{Name: "NSObject", Loc: model.Location{Library: "ObjectiveC", File: "NSObject"}, Root: true},
	}
}

func newTree(t *testing.T, translation string, stmts []model.Stmt) *Tree {
	t.Helper()
	cfg, err := config.Decode("[library]\nname = \"Foundation\"\nimport-path = \"example.com/gen/foundation\"\n" + translation)
	require.NoError(t, err)
	return NewTree(cfg, "Foundation", Build("Foundation", stmts, discard), WithLogger(discard))
}

func TestBuild(t *testing.T) {
	extras := &model.CategoryDecl{Class: model.ItemIdentifier{Name: "NSString", Location: loc("NSString")}, Loc: loc("NSString+Extras")}
	root := Build("Foundation", append(fixture(), extras), discard)

	require.Equal(t, []string{"Geometry", "NSString", "NSString_Extras", "Private"}, root.Names())
	require.Equal(t, 5, root.Len())
	require.True(t, root.Lookup([]string{"NSString+Extras"}).IsLeaf())
	require.False(t, root.Lookup([]string{"Geometry"}).IsLeaf())
	require.Nil(t, root.Lookup([]string{"Geometry", "NSRect"}))

	var visited []string
	root.Walk(func(p []string, _ *Module) { visited = append(visited, pathKey(p)) })
	want := []string{"", "Geometry", "Geometry/NSPoint", "Geometry/NSSize", "NSString", "NSString_Extras", "Private", "Private/NSFoo"}
	if diff := cmp.Diff(want, visited); diff != "" {
		t.Errorf("Walk() mismatch (-want +got):\n%s", diff)
	}
}

func TestNames(t *testing.T) {
	require.Equal(t, "nsstring_extras", dirName("NSString+Extras"))
	require.Equal(t, "x2d", dirName("2D"))
	require.Equal(t, "x_private", dirName("_Private"))
	require.Equal(t, "core_foundation", dirName("Core Foundation"))
	require.Equal(t, "mod_.go", leafFile("Mod"))
	require.Equal(t, "nsstring.go", leafFile("NSString"))
	require.Equal(t, "nsobject_test_.go", leafFile("NSObject_Test"))
	require.Equal(t, "uidevice_ios_.go", leafFile("UIDevice+iOS"))
	require.Equal(t, "nsprocessinfo_arm64_.go", leafFile("NSProcessInfo_ARM64"))
	require.Equal(t, "linux.go", leafFile("Linux"))
	require.Equal(t, "nstest.go", leafFile("NSTest"))
	require.Equal(t, "geometry_windows_", fileStem("Geometry_Windows"))
}

func TestGates(ttt *testing.T) {
	tests := []struct {
		name        string
		translation string
		want        map[string][]string
	}{
		{
			name: "optional library",
			want: map[string][]string{
				"NSString":         {"foundation_nsstring", "objectivec"},
				"Private/NSFoo":    {"foundation_nsstring", "foundation_private", "foundation_private_nsfoo", "objectivec"},
				"Geometry/NSPoint": {"foundation_geometry", "foundation_geometry_nspoint"},
				"Geometry":         {"foundation_geometry"},
				"":                 {},
			},
		},
		{
			name:        "required library",
			translation: "required-dependencies = [\"ObjectiveC\"]\n",
			want: map[string][]string{
				"NSString":      {"foundation_nsstring"},
				"Private/NSFoo": {"foundation_nsstring", "foundation_private", "foundation_private_nsfoo"},
			},
		},
	}
	for _, tt := range tests {
		ttt.Run(tt.name, func(t *testing.T) {
			tree := newTree(t, tt.translation, fixture())
			got := make(map[string][]string, len(tt.want))
			for key := range tt.want {
				var p []string
				if key != "" {
					p = strings.Split(key, "/")
				}
				got[key] = tree.Gates(p)
			}
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Gates() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExpressionGates(t *testing.T) {
	cf := model.Location{Library: "CoreFoundation", File: "CFPropertyList"}
	stmts := []model.Stmt{
		&model.EnumDecl{
			Name: "NSBase", Loc: loc("NSBase"), Ty: model.Primitive("int"),
			Variants: []model.Variant{{Name: "NSBaseOne", Value: model.Expr{Text: "1"}}},
		},
		&model.EnumDecl{
			Name: "NSDerived", Loc: loc("NSDerived"), Ty: model.Primitive("int"),
			Variants: []model.Variant{
				{Name: "NSDerivedOne", Value: model.Expr{Text: "NSBaseOne + 1", Refs: []model.ItemIdentifier{{Name: "NSBaseOne"}}}},
				{Name: "NSDerivedTwo", Value: model.Expr{Text: "NSDerivedOne + 1", Refs: []model.ItemIdentifier{{Name: "NSDerivedOne"}}}},
			},
		},
		&model.VarDecl{
			Name: "NSPropertyListImmutable", Loc: loc("NSPropertyList"), Ty: model.Primitive("uint"),
			Value: &model.Expr{
				Text: "KCFPropertyListImmutable | 2",
				Refs: []model.ItemIdentifier{{Name: "kCFPropertyListImmutable", Location: cf}},
			},
		},
		&model.VarDecl{
			Name: "NSUnknownValue", Loc: loc("NSUnknown"), Ty: model.Primitive("int"),
			Value: &model.Expr{Text: "KMissing", Refs: []model.ItemIdentifier{{Name: "kMissing"}}},
		},
	}
	tree := newTree(t, "", stmts)

	require.Equal(t, []string{"foundation_nsbase", "foundation_nsderived"}, tree.Gates([]string{"NSDerived"}))
	require.Equal(t, []string{"corefoundation", "foundation_nspropertylist"}, tree.Gates([]string{"NSPropertyList"}))
	require.Equal(t, []string{"foundation_nsunknown"}, tree.Gates([]string{"NSUnknown"}))
	require.Equal(t, []string{"CoreFoundation"}, tree.Libraries())

	plan, err := tree.Plan()
	require.NoError(t, err)
	derived := string(plan.Files["foundation/nsderived.go"])
	require.Contains(t, derived, "//go:build foundation_nsbase && foundation_nsderived")
	require.Contains(t, derived, "NSDerivedOne NSDerived = NSBaseOne + 1")
	require.Contains(t, derived, "NSDerivedTwo NSDerived = NSDerivedOne + 1")

	list := string(plan.Files["foundation/nspropertylist.go"])
	require.Contains(t, list, "\"corefoundation\"")
	require.Contains(t, list, "NSPropertyListImmutable uint = corefoundation.KCFPropertyListImmutable | 2")
}

func TestImportPaths(t *testing.T) {
	tree := newTree(t, "\n[libraries.AppKit]\nimport-path = \"example.com/appkit\"\n", fixture())

	require.Equal(t, "example.com/gen/foundation", tree.ImportPath(model.ItemIdentifier{Name: "NSString", Location: loc("NSString")}))
	require.Equal(t, "example.com/gen/foundation/private", tree.ImportPath(model.ItemIdentifier{Name: "NSFoo", Location: loc("Private/NSFoo")}))
	require.Equal(t, "example.com/appkit", tree.ImportPath(model.ItemIdentifier{Name: "NSView", Location: model.Location{Library: "AppKit", File: "NSView"}}))
	require.Equal(t, "objectivec", tree.ImportPath(model.ItemIdentifier{Name: "NSObject", Location: model.Location{Library: "ObjectiveC", File: "NSObject"}}))
	require.Empty(t, tree.ImportPath(model.ItemIdentifier{Name: "NSCopying"}))

	cfg, err := config.Decode("[library]\nname = \"Foundation\"\n")
	require.NoError(t, err)
	based := NewTree(cfg, "Foundation", New(), WithBasePath("example.com/app/gen"), WithLogger(discard))
	require.Equal(t, "example.com/app/gen/objectivec", based.LibraryPath("ObjectiveC"))
	require.Equal(t, "example.com/app/gen/foundation", based.LibraryPath("Foundation"))
}

func TestBasePath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/app\n\ngo 1.24\n"), 0o644))

	base, err := BasePath(filepath.Join(dir, "internal", "gen"))
	require.NoError(t, err)
	require.Equal(t, "example.com/app/internal/gen", base)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("go 1.24\n"), 0o644))
	_, err = BasePath(dir)
	require.ErrorContains(t, err, "no module directive")
}

func TestPlan(t *testing.T) {
	plan, err := newTree(t, "", fixture()).Plan()
	require.NoError(t, err)

	want := []string{
		"foundation.features.toml",
		"foundation/geometry.nspoint.go",
		"foundation/geometry.nssize.go",
		"foundation/geometry/mod.go",
		"foundation/geometry/nspoint.go",
		"foundation/geometry/nssize.go",
		"foundation/mod.go",
		"foundation/nsstring.go",
		"foundation/private/mod.go",
		"foundation/private/nsfoo.go",
	}
	if diff := cmp.Diff(want, sortedKeys(plan.Files)); diff != "" {
		t.Errorf("Plan() files mismatch (-want +got):\n%s", diff)
	}

	file := func(name string) string { return string(plan.Files[name]) }
	require.True(t, strings.HasPrefix(file("foundation/nsstring.go"), "// "+Banner+"\n"))
	require.Contains(t, file("foundation/nsstring.go"), "//go:build foundation_nsstring && objectivec\n\npackage foundation")
	require.Contains(t, file("foundation/private/nsfoo.go"), "//go:build foundation_nsstring && foundation_private && foundation_private_nsfoo && objectivec")
	require.Contains(t, file("foundation/private/nsfoo.go"), "foundation.NSString")
	require.Contains(t, file("foundation/geometry.nspoint.go"), "//go:build foundation_geometry && foundation_geometry_nspoint")
	require.Contains(t, file("foundation/geometry.nspoint.go"), "type NSPoint = geometry.NSPoint")
	require.Contains(t, file("foundation/mod.go"), "Package foundation binds the Foundation library.")
	require.Contains(t, file("foundation/mod.go"), "Geometry (foundation_geometry): 2 structs")
	require.Contains(t, file("foundation/mod.go"), "Private (foundation_private): 1 class")
	require.NotContains(t, file("foundation/mod.go"), "//go:build")

	var features featureTable
	require.NoError(t, toml.Unmarshal(plan.Files["foundation.features.toml"], &features))
	wantFeatures := featureTable{
		Library:   "Foundation",
		Libraries: []string{"ObjectiveC"},
		Features: map[string][]string{
			"foundation_geometry":         {},
			"foundation_geometry_nspoint": {"foundation_geometry"},
			"foundation_geometry_nssize":  {"foundation_geometry"},
			"foundation_nsstring":         {"objectivec"},
			"foundation_private":          {},
			"foundation_private_nsfoo":    {"foundation_nsstring", "foundation_private", "objectivec"},
		},
	}
	if diff := cmp.Diff(wantFeatures, features, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("feature table mismatch (-want +got):\n%s", diff)
	}
}

func TestCategoryMemberNames(t *testing.T) {
	str := model.ItemIdentifier{Name: "NSString", Location: loc("NSString")}
	stmts := []model.Stmt{
		// NSHashing sorts before NSString, so the category is walked first
		&model.CategoryDecl{
			Class: str,
			Loc:   loc("NSHashing"),
			Members: []model.Member{
				&model.Method{Sel: "hash", GoName: "Hash", Result: model.Primitive("uint")},
			},
		},
		&model.ClassDecl{
			Name:       "NSString",
			Loc:        loc("NSString"),
			Superclass: model.GenericType{Name: "NSObject", Location: model.Location{Library: "ObjectiveC", File: "NSObject"}},
			Derives:    model.DefaultDerives(),
		},
	}
	plan, err := newTree(t, "", stmts).Plan()
	require.NoError(t, err)
	require.Contains(t, string(plan.Files["foundation/nsstring.go"]), "func (self *NSString) Hash() uint {")
	require.Contains(t, string(plan.Files["foundation/nshashing.go"]), "func (self *NSString) Hash_() uint {")
}

func TestWriteAndCheck(t *testing.T) {
	out := t.TempDir()
	plan, err := newTree(t, "", fixture()).Plan()
	require.NoError(t, err)

	res, err := Write(out, plan, discard)
	require.NoError(t, err)
	require.Len(t, res.Written, len(plan.Files))
	require.Empty(t, res.Removed)

	drift, err := Check(out, plan)
	require.NoError(t, err)
	require.True(t, drift.Empty(), drift.String())

	// a second run touches nothing
	res, err = Write(out, plan, discard)
	require.NoError(t, err)
	require.Empty(t, res.Written)
	require.Len(t, res.Unchanged, len(plan.Files))

	stale := filepath.Join(out, "foundation", "z.go")
	require.NoError(t, os.WriteFile(stale, []byte("package foundation\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(out, "foundation", "nsstring.go"), []byte("package foundation\n"), 0o644))
	require.NoError(t, os.Remove(filepath.Join(out, "foundation", "geometry", "nssize.go")))

	drift, err = Check(out, plan)
	require.NoError(t, err)
	require.Equal(t, []string{"foundation/geometry/nssize.go"}, drift.Missing)
	require.Equal(t, []string{"foundation/z.go"}, drift.Stale)
	require.Contains(t, drift.Changed, "foundation/nsstring.go")
	require.Contains(t, drift.String(), "stale: foundation/z.go")

	res, err = Write(out, plan, discard)
	require.NoError(t, err)
	require.Equal(t, []string{"foundation/geometry/nssize.go", "foundation/nsstring.go"}, res.Written)
	require.Equal(t, []string{"foundation/z.go"}, res.Removed)
	require.NoFileExists(t, stale)
}

func TestCompare(t *testing.T) {
	a := Build("Foundation", fixture(), discard)
	require.NoError(t, Compare(a, Build("Foundation", fixture(), discard)))

	changed := fixture()
	changed[2].(*model.StructDecl).Fields[0].Ty = model.Primitive("float32")
	err := Compare(a, Build("Foundation", changed, discard))
	require.ErrorIs(t, err, &model.Error{Code: model.ErrStatementMismatch})
	require.ErrorContains(t, err, "Geometry/NSPoint")

	fewer := fixture()[:3]
	err = Compare(a, Build("Foundation", fewer, discard))
	require.ErrorContains(t, err, "submodules differ")
}
