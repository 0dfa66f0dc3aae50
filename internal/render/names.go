package render

import "github.com/cmmoran/headergen/internal/model"

// memberNames hands out Go names in one namespace, suffixing collisions with
// an underscore.
type memberNames map[string]bool

func newMemberNames(reserved ...string) memberNames {
	n := make(memberNames)
	n.reserve(reserved...)
	return n
}

func (n memberNames) reserve(names ...string) {
	for _, name := range names {
		n[name] = true
	}
}

func (n memberNames) claim(name string) string {
	for n[name] {
		name += "_"
	}
	n[name] = true
	return name
}

// claimAll names cs in order and returns the names.
func claimAll(cs []callable, n memberNames) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = n.claim(c.goName)
	}
	return out
}

// withNames returns cs renamed to names.
func withNames(cs []callable, names []string) []callable {
	for i := range cs {
		cs[i].goName = names[i]
	}
	return cs
}

// declNames are the Go names of the instance and class-level callables of one
// class or category, in callable order.
type declNames struct {
	instance   []string
	classLevel []string
}

// names tracks the Go names declared for a class by the class itself and all
// of its categories. Receiver methods share one namespace per class. Package
// functions prefixed with the class name share one per package.
type names struct {
	methods map[model.ItemIdentifier]memberNames
	funcs   map[string]memberNames
	decls   map[model.Stmt]declNames
}

func newNames() *names {
	return &names{
		methods: make(map[model.ItemIdentifier]memberNames),
		funcs:   make(map[string]memberNames),
		decls:   make(map[model.Stmt]declNames),
	}
}

func (n *names) methodsOf(class model.ItemIdentifier) memberNames {
	m, ok := n.methods[class]
	if !ok {
		m = newMemberNames("Class", "Super")
		n.methods[class] = m
	}
	return m
}

func (n *names) funcsOf(pkgPath, prefix string) memberNames {
	key := pkgPath + "." + prefix
	m, ok := n.funcs[key]
	if !ok {
		m = newMemberNames()
		n.funcs[key] = m
	}
	return m
}

func splitMembers(members []model.Member) (instance, classLevel []model.Member) {
	for _, m := range members {
		if m.ClassLevel() {
			classLevel = append(classLevel, m)
		} else {
			instance = append(instance, m)
		}
	}
	return instance, classLevel
}

// Assign fixes the Go names of the members of a class or category; other
// statements are ignored. A class has to be assigned before its categories
// for its own members to keep their plain names. Statements rendered without
// being assigned are assigned on first use.
func (r *Renderer) Assign(s model.Stmt) {
	if _, ok := r.names.decls[s]; ok {
		return
	}
	switch s := s.(type) {
	case *model.ClassDecl:
		item := model.ItemIdentifier{Name: s.Name, Location: s.Loc}
		goName := model.GoName(r.cfg.ClassGoName(s.Name))
		methods := r.names.methodsOf(item)
		methods.reserve(r.superName(s))
		methods.reserve(s.Derives...)
		funcs := r.names.funcsOf(r.resolver.ImportPath(item), goName)
		if len(s.Generics) > 0 {
			funcs.reserve("Default")
		}
		instance, classLevel := splitMembers(s.Members)
		r.names.decls[s] = declNames{
			instance:   claimAll(callables(instance, s.Name), methods),
			classLevel: claimAll(callables(classLevel, s.Name), funcs),
		}
	case *model.CategoryDecl:
		className := model.GoName(r.cfg.ClassGoName(s.Class.Name))
		pkgPath := r.resolver.ImportPath(model.ItemIdentifier{Location: s.Loc})
		funcs := r.names.funcsOf(pkgPath, className)
		receivers := funcs
		if r.isLocal(s.Class, pkgPath) {
			receivers = r.names.methodsOf(s.Class)
		}
		instance, classLevel := splitMembers(s.Members)
		r.names.decls[s] = declNames{
			instance:   claimAll(callables(instance, s.Class.Name), receivers),
			classLevel: claimAll(callables(classLevel, s.Class.Name), funcs),
		}
	}
}

func (r *Renderer) declNames(s model.Stmt) declNames {
	r.Assign(s)
	return r.names.decls[s]
}

// isLocal reports whether methods can be declared on class from pkgPath.
func (r *Renderer) isLocal(class model.ItemIdentifier, pkgPath string) bool {
	p := r.resolver.ImportPath(class)
	return p == pkgPath || p == ""
}
