package mir

import (
	"sort"

	"github.com/malphas-lang/malphas-lang/internal/cst"
	"github.com/malphas-lang/malphas-lang/internal/mirtypes"
)

// liftClosure implements §4.5: a closure literal becomes a fresh
// top-level function plus a MakeClosure record. The lifted function's
// parameter list is the captured free variables (in deterministic,
// sorted order) followed by the closure's own declared parameters, so
// the body needs no rewriting — every name it references is still in
// scope, whether bound as a capture or as a parameter.
func (l *Lowerer) liftClosure(n *cst.Node, ty mirtypes.Type) Expr {
	paramNodes := n.Children[:len(n.Children)-1]
	bodyNode := n.Children[len(n.Children)-1]

	l.pushScope()
	mirParams := make([]Param, 0, len(paramNodes))
	for _, p := range paramNodes {
		pty := l.typeOfNode(p)
		l.bind(p.Token, pty)
		mirParams = append(mirParams, Param{Name: p.Token, Ty: pty})
	}
	body := l.LowerExpr(bodyNode)
	l.popScope()

	bound := make(map[string]bool, len(mirParams))
	for _, p := range mirParams {
		bound[p.Name] = true
	}
	freeNames := freeVarNames(body, bound)
	sort.Strings(freeNames)

	captures := make([]CapturedVar, 0, len(freeNames))
	for _, name := range freeNames {
		if t, ok := l.lookupVar(name); ok {
			captures = append(captures, CapturedVar{Name: name, Ty: t})
		}
	}

	fnName := l.fresh("__closure")
	liftedParams := make([]Param, 0, len(captures)+len(mirParams))
	for _, c := range captures {
		liftedParams = append(liftedParams, Param{Name: c.Name, Ty: c.Ty})
	}
	liftedParams = append(liftedParams, mirParams...)

	resultTy := body.Type()
	l.extraFuncs = append(l.extraFuncs, &Function{
		Name:        fnName,
		Params:      liftedParams,
		ReturnType:  resultTy,
		Body:        body,
		IsClosureFn: true,
		Captures:    captures,
	})

	paramTys := make([]mirtypes.Type, len(mirParams))
	for i, p := range mirParams {
		paramTys[i] = p.Ty
	}
	closureTy := mirtypes.NewClosure(paramTys, resultTy)
	return &MakeClosure{typed: typed{Ty: closureTy}, FuncName: fnName, Env: captures}
}

// freeVarNames walks a lowered MIR expression and collects every VarRef
// name not already in bound, tracking new bindings Let/Match/For-loops
// introduce as it descends so shadowed names are excluded correctly.
func freeVarNames(e Expr, bound map[string]bool) []string {
	seen := make(map[string]bool)
	var walk func(Expr, map[string]bool)
	walkPattern := func(p Pattern, b map[string]bool) {
		for _, bind := range p.Bindings() {
			b[bind.Name] = true
		}
	}

	walk = func(e Expr, b map[string]bool) {
		if e == nil {
			return
		}
		switch n := e.(type) {
		case *VarRef:
			if !b[n.Name] {
				seen[n.Name] = true
			}
		case *BinOp:
			walk(n.Left, b)
			walk(n.Right, b)
		case *UnaryOp:
			walk(n.Operand, b)
		case *Call:
			for _, a := range n.Args {
				walk(a, b)
			}
		case *ClosureCall:
			walk(n.Closure, b)
			for _, a := range n.Args {
				walk(a, b)
			}
		case *TailCall:
			for _, a := range n.Args {
				walk(a, b)
			}
		case *If:
			walk(n.Cond, b)
			walk(n.Then, b)
			walk(n.Else, b)
		case *Match:
			walk(n.Scrutinee, b)
			for _, arm := range n.Arms {
				child := copyBound(b)
				walkPattern(arm.Pattern, child)
				walk(arm.Guard, child)
				walk(arm.Body, child)
			}
		case *Let:
			walk(n.Value, b)
			child := copyBound(b)
			child[n.Name] = true
			walk(n.Body, child)
		case *Block:
			for _, c := range n.Exprs {
				walk(c, b)
			}
		case *StructLit:
			for _, v := range n.Fields {
				walk(v, b)
			}
		case *StructUpdate:
			walk(n.Base, b)
			for _, v := range n.Overrides {
				walk(v, b)
			}
		case *FieldAccess:
			walk(n.Target, b)
		case *ConstructVariant:
			for _, v := range n.Values {
				walk(v, b)
			}
		case *MakeClosure:
			for _, c := range n.Env {
				if !b[c.Name] {
					seen[c.Name] = true
				}
			}
		case *Return:
			walk(n.Value, b)
		case *While:
			walk(n.Cond, b)
			walk(n.Body, b)
		case *ForInRange:
			walk(n.Start, b)
			walk(n.End, b)
			child := copyBound(b)
			child[n.Var] = true
			walk(n.Body, child)
		case *ForInList:
			walk(n.Iterable, b)
			child := copyBound(b)
			child[n.Var] = true
			walk(n.Body, child)
		case *ForInMap:
			walk(n.Iterable, b)
			child := copyBound(b)
			child[n.KeyVar] = true
			if n.ValVar != "" {
				child[n.ValVar] = true
			}
			walk(n.Body, child)
		case *ForInSet:
			walk(n.Iterable, b)
			child := copyBound(b)
			child[n.Var] = true
			walk(n.Body, child)
		case *ForInIterator:
			walk(n.Iterable, b)
			child := copyBound(b)
			child[n.Var] = true
			walk(n.Body, child)
		case *ActorSpawn:
			for _, a := range n.Args {
				walk(a, b)
			}
		case *ActorSend:
			walk(n.Target, b)
			walk(n.Message, b)
		case *ActorReceive:
			for _, arm := range n.Arms {
				child := copyBound(b)
				walkPattern(arm.Pattern, child)
				walk(arm.Guard, child)
				walk(arm.Body, child)
			}
			walk(n.TimeoutMs, b)
			walk(n.TimeoutBody, b)
		case *ActorLink:
			walk(n.Target, b)
		case *ListLit:
			for _, el := range n.Elems {
				walk(el, b)
			}
		default:
			// Literal leaves (IntLit, FloatLit, BoolLit, StringLit, UnitLit,
			// ActorSelf, Break, Continue, Panic, SupervisorStart) carry no
			// sub-expressions to recurse into.
		}
	}
	walk(e, bound)

	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	return out
}

func copyBound(b map[string]bool) map[string]bool {
	out := make(map[string]bool, len(b)+1)
	for k, v := range b {
		out[k] = v
	}
	return out
}
