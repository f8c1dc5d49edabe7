package mir

import "github.com/malphas-lang/malphas-lang/internal/mirtypes"

// Pattern is the tagged union of MIR patterns (§3). Bindings is the
// flattened list of every variable binding the pattern introduces; it is
// invariant under nesting so the backend can emit direct slot
// extractions without re-walking the sub-pattern tree.
type Pattern interface {
	patternNode()
	Bindings() []Binding
}

// Binding is one (name, type) pair a pattern introduces.
type Binding struct {
	Name string
	Ty   mirtypes.Type
}

type Wildcard struct{}

func (Wildcard) patternNode()        {}
func (Wildcard) Bindings() []Binding { return nil }

// Literal matches a scalar literal value (int/float/bool/string). A
// leading minus in a surface literal pattern is folded numerically
// before reaching this node.
type Literal struct {
	Ty    mirtypes.Type
	Value interface{} // int64, float64, bool, or string
}

func (Literal) patternNode()        {}
func (Literal) Bindings() []Binding { return nil }

// Var binds the scrutinee to a name.
type Var struct {
	Name string
	Ty   mirtypes.Type
}

func (v Var) patternNode()        {}
func (v Var) Bindings() []Binding { return []Binding{{Name: v.Name, Ty: v.Ty}} }

// Constructor matches one variant of a sum type (or a struct pattern,
// represented as the sole "variant" of its type). bindings is
// pre-flattened across all sub-patterns.
type Constructor struct {
	TypeName string // "" if the owning type could not be uniquely resolved
	Variant  string
	Sub      []Pattern
	Binds    []Binding
}

func (c Constructor) patternNode()        {}
func (c Constructor) Bindings() []Binding { return c.Binds }

type TuplePattern struct {
	Elems []Pattern
	Binds []Binding
}

func (t TuplePattern) patternNode()        {}
func (t TuplePattern) Bindings() []Binding { return t.Binds }

// Or is an or-pattern; all alternatives share the first alternative's
// binding set (guaranteed by the checker).
type Or struct {
	Alts  []Pattern
	Binds []Binding
}

func (o Or) patternNode()        {}
func (o Or) Bindings() []Binding { return o.Binds }

// ListCons is a cons pattern `h :: t`.
type ListCons struct {
	Head, Tail Pattern
	ElemTy     mirtypes.Type
	Binds      []Binding
}

func (l ListCons) patternNode()        {}
func (l ListCons) Bindings() []Binding { return l.Binds }

// flattenBindings concatenates the bindings of a set of sub-patterns in
// order, used when constructing Constructor/Tuple/ListCons/Or nodes.
func flattenBindings(pats ...Pattern) []Binding {
	var out []Binding
	for _, p := range pats {
		out = append(out, p.Bindings()...)
	}
	return out
}
