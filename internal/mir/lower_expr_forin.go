package mir

import (
	"strings"

	"github.com/malphas-lang/malphas-lang/internal/cst"
	"github.com/malphas-lang/malphas-lang/internal/mirtypes"
)

// lowerForIn dispatches `for x in iterable { body }` to the list/map/set
// MIR loop form matching the iterable's declared type, or to the generic
// ForInIterator form driving a user `Iterable`/`Iterator` impl pair when
// the type is none of the three built-ins (§4.3 "for-in desugaring").
//
// Token carries the bound name(s): a single identifier for list/set/
// iterator loops, or "key,val" (or just "key" for key-only iteration) for
// a map loop.
func (l *Lowerer) lowerForIn(n *cst.Node, ty mirtypes.Type) Expr {
	iterableNode := n.Children[0]
	bodyNode := n.Children[1]
	iterable := l.LowerExpr(iterableNode)
	surfaceTy := l.TypeMap.Lookup(iterableNode)

	app, ok := surfaceTy.(cst.App)
	headName := ""
	if ok {
		if con, ok := app.Head.(cst.Con); ok {
			headName = con.Name
		}
	}

	switch headName {
	case "Map":
		return l.lowerForInMap(n, iterable, app, bodyNode)
	case "Set":
		elemTy := mirtypes.NewPtr()
		if len(app.Args) == 1 {
			elemTy = l.ResolveType(app.Args[0])
		}
		return l.lowerForInSimple(n.Token, elemTy, iterable, bodyNode, func(v string, e mirtypes.Type, it, b Expr) Expr {
			return &ForInSet{typed: typed{Ty: mirtypes.NewUnit()}, Var: v, ElemTy: e, Iterable: it, Body: b}
		})
	case "List":
		elemTy := mirtypes.NewPtr()
		if len(app.Args) == 1 {
			elemTy = l.ResolveType(app.Args[0])
		}
		return l.lowerForInSimple(n.Token, elemTy, iterable, bodyNode, func(v string, e mirtypes.Type, it, b Expr) Expr {
			return &ForInList{typed: typed{Ty: mirtypes.NewUnit()}, Var: v, ElemTy: e, Iterable: it, Body: b}
		})
	default:
		return l.lowerForInIterator(n, iterable, headName, bodyNode)
	}
}

func (l *Lowerer) lowerForInSimple(varName string, elemTy mirtypes.Type, iterable Expr, bodyNode *cst.Node, build func(string, mirtypes.Type, Expr, Expr) Expr) Expr {
	l.pushScope()
	l.bind(varName, elemTy)
	body := l.LowerExpr(bodyNode)
	l.popScope()
	return build(varName, elemTy, iterable, body)
}

func (l *Lowerer) lowerForInMap(n *cst.Node, iterable Expr, app cst.App, bodyNode *cst.Node) Expr {
	keyTy, valTy := mirtypes.NewPtr(), mirtypes.NewPtr()
	if len(app.Args) == 2 {
		keyTy = l.ResolveType(app.Args[0])
		valTy = l.ResolveType(app.Args[1])
	}
	parts := strings.SplitN(n.Token, ",", 2)
	keyVar := strings.TrimSpace(parts[0])
	valVar := ""
	if len(parts) == 2 {
		valVar = strings.TrimSpace(parts[1])
	}
	l.pushScope()
	l.bind(keyVar, keyTy)
	if valVar != "" {
		l.bind(valVar, valTy)
	}
	body := l.LowerExpr(bodyNode)
	l.popScope()
	return &ForInMap{typed: typed{Ty: mirtypes.NewUnit()}, KeyVar: keyVar, ValVar: valVar, KeyTy: keyTy, ValTy: valTy, Iterable: iterable, Body: body}
}

// lowerForInIterator drives a user-defined Iterable/Iterator impl pair:
// `iterFn(iterable)` produces the iterator state, and `nextFn(state)` is
// polled each turn via mesh_iter_has_next/mesh_iter_next at codegen time
// (§4.3).
func (l *Lowerer) lowerForInIterator(n *cst.Node, iterable Expr, typeName string, bodyNode *cst.Node) Expr {
	iterFn := mirtypes.MangleMethod("Iterable", "", "iter", typeName)
	nextFn := mirtypes.MangleMethod("Iterator", "", "next", typeName)
	elemTy := mirtypes.NewPtr()
	varName := n.Token
	l.pushScope()
	l.bind(varName, elemTy)
	body := l.LowerExpr(bodyNode)
	l.popScope()
	return &ForInIterator{
		typed:        typed{Ty: mirtypes.NewUnit()},
		Var:          varName,
		ElemTy:       elemTy,
		Iterable:     iterable,
		IterFuncName: iterFn,
		NextFuncName: nextFn,
		Body:         body,
	}
}
