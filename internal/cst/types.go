package cst

import "strings"

// SurfaceType is a surface-level type term, as produced by the
// type-checker's type map. It is untyped with respect to MIR; the type
// resolver (internal/mir) maps these to mirtypes.Type.
type SurfaceType interface {
	surfaceType()
	String() string
}

// Con is a nullary type constructor reference, e.g. `Int`, `String`, or a
// user-defined struct/sum name with no type arguments.
type Con struct{ Name string }

func (Con) surfaceType()    {}
func (c Con) String() string { return c.Name }

// App is a type application, e.g. `Box<Int>` or `Map<String, Int>`.
type App struct {
	Head SurfaceType
	Args []SurfaceType
}

func (App) surfaceType() {}
func (a App) String() string {
	parts := make([]string, len(a.Args))
	for i, arg := range a.Args {
		parts[i] = arg.String()
	}
	return a.Head.String() + "<" + strings.Join(parts, ", ") + ">"
}

// Fun is a function type.
type Fun struct {
	Params []SurfaceType
	Result SurfaceType
}

func (Fun) surfaceType() {}
func (f Fun) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.String()
	}
	return "fn(" + strings.Join(parts, ", ") + ") -> " + f.Result.String()
}

// Tuple is a tuple type.
type Tuple struct{ Elems []SurfaceType }

func (Tuple) surfaceType() {}
func (t Tuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Var is an unresolved type variable. A Var reaching MIR lowering with
// no binding in the lowerer's type substitution resolves to Ptr
// (value-at-pointer representation, per spec §4.1).
type Var struct{ ID string }

func (Var) surfaceType()     {}
func (v Var) String() string { return "'" + v.ID }

// TypeMap maps a node's source range to its resolved surface type.
// Keys are Span values (the spec keys by text-range); lookups are
// read-only from the lowerer's point of view.
type TypeMap struct {
	byRange map[Span]SurfaceType
}

func NewTypeMap() *TypeMap {
	return &TypeMap{byRange: make(map[Span]SurfaceType)}
}

func (m *TypeMap) Set(span Span, t SurfaceType) {
	m.byRange[span] = t
}

// Lookup returns the resolved type for a node's span, or nil if absent.
func (m *TypeMap) Lookup(n *Node) SurfaceType {
	if n == nil {
		return nil
	}
	return m.byRange[n.Span]
}

// TypeRegistry records every user-defined struct and sum type declaration.
type TypeRegistry struct {
	Structs map[string]*StructDecl
	Sums    map[string]*SumDecl
}

func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		Structs: make(map[string]*StructDecl),
		Sums:    make(map[string]*SumDecl),
	}
}

func (r *TypeRegistry) AddStruct(d *StructDecl) { r.Structs[d.Name] = d }
func (r *TypeRegistry) AddSum(d *SumDecl)        { r.Sums[d.Name] = d }

// VariantOwner returns the struct/sum name that declares a nullary variant
// with the given name, and whether a unique owner was found. Used by the
// pattern lowerer to distinguish a constructor pattern from a variable
// binding (§4.2).
func (r *TypeRegistry) VariantOwner(variantName string) (string, bool) {
	var owner string
	count := 0
	for _, sum := range r.Sums {
		for _, v := range sum.Variants {
			if v.Name == variantName && len(v.Fields) == 0 {
				owner = sum.Name
				count++
			}
		}
	}
	if count == 1 {
		return owner, true
	}
	return "", false
}

// TraitImpl records one (trait, type) implementation and its method bodies.
type TraitImpl struct {
	Trait      string
	TypeArg    string // for parameterized traits like From<X>; "" otherwise
	ForType    string
	MethodDecl map[string]*FnDecl // method name -> concrete body
}

// TraitDecl records a trait's method signatures and which ones have a
// checker-supplied default body.
type TraitDecl struct {
	Name          string
	Methods       []string
	HasDefaultFor map[string]bool
}

// TraitRegistry is the read-only view of trait declarations and impls the
// lowerer consults for method dispatch (§4.3) and `deriving` synthesis
// (§4.4).
type TraitRegistry struct {
	Traits        map[string]*TraitDecl
	Impls         []*TraitImpl
	DefaultBodies map[[2]string]*Node // (trait, method) -> default body
}

func NewTraitRegistry() *TraitRegistry {
	return &TraitRegistry{
		Traits:        make(map[string]*TraitDecl),
		DefaultBodies: make(map[[2]string]*Node),
	}
}

// FindImpl returns the impl providing `method` on `typeName`, if any.
func (r *TraitRegistry) FindImpl(typeName, method string) (*TraitImpl, bool) {
	for _, impl := range r.Impls {
		if impl.ForType != typeName {
			continue
		}
		if _, ok := impl.MethodDecl[method]; ok {
			return impl, true
		}
		if decl, ok := r.Traits[impl.Trait]; ok && decl.HasDefaultFor[method] {
			return impl, true
		}
	}
	return nil, false
}

// ImportEnv is the per-module-namespace exports, unqualified imported
// function names, and service-module method tables the lowerer uses to
// qualify private symbols and resolve `Service.method` field access.
type ImportEnv struct {
	ModuleName        string
	PublicFunctions   map[string]bool
	ImportedFunctions map[string]string // unqualified name -> qualified name
	ServiceMethods    map[string][]string // service name -> ordered method names
}

func NewImportEnv(moduleName string) *ImportEnv {
	return &ImportEnv{
		ModuleName:        moduleName,
		PublicFunctions:   make(map[string]bool),
		ImportedFunctions: make(map[string]string),
		ServiceMethods:    make(map[string][]string),
	}
}
