// Package mirtypes defines MirType, the closed set of types a lowered MIR
// expression can carry, and the name-mangling scheme used throughout the
// lowerer for monomorphization and trait-function dispatch.
package mirtypes

import "strings"

// Kind is the tag of a MirType.
type Kind int

const (
	Int Kind = iota
	Float
	Bool
	String
	Unit
	Ptr // opaque GC-managed pointer; runtime layout not tracked at MIR level
	Pid
	Struct
	SumType
	TupleKind
	FnPtr
	Closure
)

// Type is a MIR type. Generic instantiations always resolve to concrete
// leaf types; any residual type variable lowers to Ptr (see ResolveType
// in the mir package).
type Type struct {
	Kind Kind

	// Struct / SumType: mangled type name.
	Name string

	// TupleKind
	Elems []Type

	// FnPtr / Closure
	Params []Type
	Result *Type
}

func (t Type) String() string {
	switch t.Kind {
	case Int:
		return "Int"
	case Float:
		return "Float"
	case Bool:
		return "Bool"
	case String:
		return "String"
	case Unit:
		return "Unit"
	case Ptr:
		return "Ptr"
	case Pid:
		return "Pid"
	case Struct:
		return t.Name
	case SumType:
		return t.Name
	case TupleKind:
		parts := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			parts[i] = e.String()
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case FnPtr:
		return "FnPtr(" + joinTypes(t.Params) + ") -> " + t.Result.String()
	case Closure:
		return "Closure(" + joinTypes(t.Params) + ") -> " + t.Result.String()
	default:
		return "<invalid-type>"
	}
}

func joinTypes(ts []Type) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}

// Equal reports whether two MIR types are structurally identical.
func Equal(a, b Type) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case Struct, SumType:
		return a.Name == b.Name
	case TupleKind:
		if len(a.Elems) != len(b.Elems) {
			return false
		}
		for i := range a.Elems {
			if !Equal(a.Elems[i], b.Elems[i]) {
				return false
			}
		}
		return true
	case FnPtr, Closure:
		if len(a.Params) != len(b.Params) {
			return false
		}
		for i := range a.Params {
			if !Equal(a.Params[i], b.Params[i]) {
				return false
			}
		}
		return Equal(*a.Result, *b.Result)
	default:
		return true
	}
}

// Mangle returns the canonical mangled form of a leaf type for use in
// name mangling (§4.1): primitive mangles are their capitalized names,
// struct/sum mangles are their (already mangled) type name, and compound
// types mangle recursively.
func Mangle(t Type) string {
	switch t.Kind {
	case Int:
		return "Int"
	case Float:
		return "Float"
	case Bool:
		return "Bool"
	case String:
		return "String"
	case Unit:
		return "Unit"
	case Ptr:
		return "Ptr"
	case Pid:
		return "Pid"
	case Struct, SumType:
		return t.Name
	case TupleKind:
		parts := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			parts[i] = Mangle(e)
		}
		return "Tuple_" + strings.Join(parts, "_")
	case FnPtr:
		return "FnPtr"
	case Closure:
		return "Closure"
	default:
		return "Ptr"
	}
}

// MangleGeneric mangles a generic type application `head<arg0, arg1, ...>`
// to `head_arg0_arg1...` per §4.1, e.g. Box<Int> -> Box_Int.
func MangleGeneric(head string, args []Type) string {
	if len(args) == 0 {
		return head
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = Mangle(a)
	}
	return head + "_" + strings.Join(parts, "_")
}

// MangleMethod produces the canonical `Trait__method__Type` mangled name
// (two underscores as separator) per the invariant in spec §3. For
// parameterized traits (e.g. From<X>), pass typeArg to get the
// `Trait_Arg__method__ImplType` scheme.
func MangleMethod(trait, typeArg, method, implType string) string {
	traitPart := trait
	if typeArg != "" {
		traitPart = trait + "_" + typeArg
	}
	return traitPart + "__" + method + "__" + implType
}

// Constructors for convenience.

func NewInt() Type    { return Type{Kind: Int} }
func NewFloat() Type  { return Type{Kind: Float} }
func NewBool() Type   { return Type{Kind: Bool} }
func NewString() Type { return Type{Kind: String} }
func NewUnit() Type   { return Type{Kind: Unit} }
func NewPtr() Type    { return Type{Kind: Ptr} }
func NewPid() Type    { return Type{Kind: Pid} }

func NewStruct(name string) Type  { return Type{Kind: Struct, Name: name} }
func NewSumType(name string) Type { return Type{Kind: SumType, Name: name} }
func NewTuple(elems ...Type) Type { return Type{Kind: TupleKind, Elems: elems} }

func NewFnPtr(params []Type, result Type) Type {
	return Type{Kind: FnPtr, Params: params, Result: &result}
}

func NewClosure(params []Type, result Type) Type {
	return Type{Kind: Closure, Params: params, Result: &result}
}

// IsPrimitive reports whether t is one of Int/Float/Bool/String/Unit —
// the types for which binary/unary operators keep native hardware
// semantics instead of routing through trait dispatch (§4.3).
func (t Type) IsPrimitive() bool {
	switch t.Kind {
	case Int, Float, Bool, String, Unit:
		return true
	default:
		return false
	}
}
