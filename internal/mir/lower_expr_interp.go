package mir

import (
	"github.com/malphas-lang/malphas-lang/internal/cst"
	"github.com/malphas-lang/malphas-lang/internal/mirtypes"
)

// lowerStringInterpolation walks a STRING node as an alternating
// sequence of literal segments and embedded expressions, wrapping each
// embedded expression with the per-type stringifier dispatch (§4.3.4)
// and folding all segments left-to-right with mesh_string_concat
// (§4.3 "String interpolation").
//
// A STRING node with no embedded-expression children is a plain string
// literal and lowers directly to a StringLit.
func (l *Lowerer) lowerStringInterpolation(n *cst.Node) Expr {
	if len(n.Children) == 0 {
		return &StringLit{typed: typed{Ty: mirtypes.NewString()}, Value: n.Token}
	}

	var acc Expr
	for _, seg := range n.Children {
		var piece Expr
		if seg.Kind == cst.KindStringLit && len(seg.Children) == 0 {
			piece = &StringLit{typed: typed{Ty: mirtypes.NewString()}, Value: seg.Token}
		} else {
			embedded := l.LowerExpr(seg)
			piece = l.stringify(embedded)
		}
		if acc == nil {
			acc = piece
			continue
		}
		acc = &Call{
			typed: typed{Ty: mirtypes.NewString()},
			Func:  "mesh_string_concat",
			Args:  []Expr{acc, piece},
		}
	}
	return acc
}

// stringify applies the stringifier-dispatch table of §4.3.4, wrapping
// nested collection element types in a uniquely named, deduplicated
// wrapper function so the runtime helper can be handed a single
// element-stringifying function pointer.
func (l *Lowerer) stringify(e Expr) Expr {
	ty := e.Type()
	switch ty.Kind {
	case mirtypes.String:
		return e
	case mirtypes.Int:
		return &Call{typed: typed{Ty: mirtypes.NewString()}, Func: "mesh_int_to_string", Args: []Expr{e}}
	case mirtypes.Float:
		return &Call{typed: typed{Ty: mirtypes.NewString()}, Func: "mesh_float_to_string", Args: []Expr{e}}
	case mirtypes.Bool:
		return &Call{typed: typed{Ty: mirtypes.NewString()}, Func: "mesh_bool_to_string", Args: []Expr{e}}
	case mirtypes.Struct, mirtypes.SumType:
		fn := l.stringifierFuncForType(ty.Name)
		return &Call{typed: typed{Ty: mirtypes.NewString()}, Func: fn, Args: []Expr{e}}
	default:
		// List/Map/Set are runtime-opaque Ptr at MIR level; without an
		// explicit element-type hint from the caller we fall back to the
		// generic list stringifier, matching the degrade-gracefully
		// policy of §7.
		return &Call{typed: typed{Ty: mirtypes.NewString()}, Func: "mesh_list_to_string", Args: []Expr{e, l.elementStringifierFuncPtr(mirtypes.NewPtr())}}
	}
}

// stringifierFuncForType picks Display__to_string__T when the trait
// registry has an impl, else falls back to Debug__inspect__T (§4.3.4).
func (l *Lowerer) stringifierFuncForType(typeName string) string {
	if _, ok := l.Traits.FindImpl(typeName, "to_string"); ok {
		return mirtypes.MangleMethod("Display", "", "to_string", typeName)
	}
	return mirtypes.MangleMethod("Debug", "", "inspect", typeName)
}

// elementStringifierFuncForType synthesizes (or reuses) a uniquely named
// wrapper function for a collection's element type, deduplicated by a
// structural key derived from the type (§4.3.4 / §4.4 callback wrapper
// synthesis). Returns the wrapper's function name.
func (l *Lowerer) elementStringifierFuncForType(elemTy mirtypes.Type) string {
	key := "stringify:" + mirtypes.Mangle(elemTy)
	if name, ok := l.wrapperCache[key]; ok {
		return name
	}
	switch elemTy.Kind {
	case mirtypes.Int:
		l.wrapperCache[key] = "mesh_int_to_string"
		return "mesh_int_to_string"
	case mirtypes.Float:
		l.wrapperCache[key] = "mesh_float_to_string"
		return "mesh_float_to_string"
	case mirtypes.Bool:
		l.wrapperCache[key] = "mesh_bool_to_string"
		return "mesh_bool_to_string"
	case mirtypes.String:
		l.wrapperCache[key] = "mesh_string_identity"
		return "mesh_string_identity"
	}
	name := l.fresh("__mesh_stringify_wrapper")
	inner := l.stringifierFuncForType(elemTy.Name)
	wrapperParam := Param{Name: "ptr", Ty: mirtypes.NewPtr()}
	body := &Call{typed: typed{Ty: mirtypes.NewString()}, Func: inner, Args: []Expr{
		&VarRef{typed: typed{Ty: elemTy}, Name: "ptr"},
	}}
	l.extraFuncs = append(l.extraFuncs, &Function{
		Name:       name,
		Params:     []Param{wrapperParam},
		ReturnType: mirtypes.NewString(),
		Body:       body,
	})
	l.wrapperCache[key] = name
	return name
}

// elementStringifierFuncPtr returns a VarRef-shaped handle standing in
// for a first-class function pointer to the element stringifier, the
// shape the backend expects as mesh_list_to_string's second argument.
func (l *Lowerer) elementStringifierFuncPtr(elemTy mirtypes.Type) Expr {
	name := l.elementStringifierFuncForType(elemTy)
	return &VarRef{typed: typed{Ty: mirtypes.NewFnPtr([]mirtypes.Type{mirtypes.NewPtr()}, mirtypes.NewString())}, Name: name}
}
