package mir

import (
	"github.com/malphas-lang/malphas-lang/internal/cst"
	"github.com/malphas-lang/malphas-lang/internal/mirtypes"
)

// ResolveType maps a surface type to a MirType (§4.1). It never fails:
// unknown constructors resolve to Ptr, and a bare type variable resolves
// to its binding in the current type substitution, or to Ptr if unbound.
func (l *Lowerer) ResolveType(t cst.SurfaceType) mirtypes.Type {
	switch st := t.(type) {
	case nil:
		return mirtypes.NewUnit()
	case cst.Var:
		if ty, ok := l.typeSubst[st.ID]; ok {
			return ty
		}
		return mirtypes.NewPtr()
	case cst.Con:
		return l.resolveCon(st.Name, nil)
	case cst.App:
		head, ok := st.Head.(cst.Con)
		if !ok {
			return mirtypes.NewPtr()
		}
		args := make([]mirtypes.Type, len(st.Args))
		for i, a := range st.Args {
			args[i] = l.ResolveType(a)
		}
		return l.resolveCon(head.Name, args)
	case cst.Fun:
		params := make([]mirtypes.Type, len(st.Params))
		for i, p := range st.Params {
			params[i] = l.ResolveType(p)
		}
		return mirtypes.NewFnPtr(params, l.ResolveType(st.Result))
	case cst.Tuple:
		elems := make([]mirtypes.Type, len(st.Elems))
		for i, e := range st.Elems {
			elems[i] = l.ResolveType(e)
		}
		return mirtypes.NewTuple(elems...)
	default:
		return mirtypes.NewPtr()
	}
}

// resolveCon resolves a (possibly applied) type constructor by name.
// List/Map/Set always lower to Ptr: their runtime layout is owned by the
// runtime, not tracked at MIR level (§4.1). Option/Result lower to a
// mangled SumType with no MirSumTypeDef of their own (the runtime knows
// their layout). A generic user struct/sum triggers monomorphization
// (monomorphizeStruct/monomorphizeSum), which emits the concrete
// MirStructDef/MirSumTypeDef for this instantiation on first use.
// Unknown names fall back to Ptr.
func (l *Lowerer) resolveCon(name string, args []mirtypes.Type) mirtypes.Type {
	switch name {
	case "Int":
		return mirtypes.NewInt()
	case "Float":
		return mirtypes.NewFloat()
	case "Bool":
		return mirtypes.NewBool()
	case "String":
		return mirtypes.NewString()
	case "Unit":
		return mirtypes.NewUnit()
	case "Pid":
		return mirtypes.NewPid()
	case "List", "Map", "Set":
		return mirtypes.NewPtr()
	case "Option":
		return mirtypes.NewSumType(mirtypes.MangleGeneric("Option", args))
	case "Result":
		return mirtypes.NewSumType(mirtypes.MangleGeneric("Result", args))
	default:
		if sd, ok := l.Types.Structs[name]; ok {
			if isGeneric(sd.TypeParams) {
				return mirtypes.NewStruct(l.monomorphizeStruct(name, args))
			}
			return mirtypes.NewStruct(name)
		}
		if sum, ok := l.Types.Sums[name]; ok {
			if isGeneric(sum.TypeParams) {
				return mirtypes.NewSumType(l.monomorphizeSum(name, args))
			}
			return mirtypes.NewSumType(name)
		}
		// Unresolved surface constructor: the type-checker guarantees
		// well-formedness upstream; here we degrade gracefully to Ptr
		// rather than fail the lowering pass (§7).
		return mirtypes.NewPtr()
	}
}

// typeOfNode looks up a node's resolved type from the type map, falling
// back to Unit when absent (§4.3). When a known-function's declared
// return type is more specific than a Unit fallback, callers should
// prefer the known-function's declared type (§7 "value-loss" note);
// that override happens at the call site in lower_expr_calls.go.
func (l *Lowerer) typeOfNode(n *cst.Node) mirtypes.Type {
	st := l.TypeMap.Lookup(n)
	if st == nil {
		return mirtypes.NewUnit()
	}
	return l.ResolveType(st)
}
