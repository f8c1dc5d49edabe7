package mir

import (
	"github.com/malphas-lang/malphas-lang/internal/cst"
	"github.com/malphas-lang/malphas-lang/internal/mirtypes"
)

// lowerCall lowers a plain `f(args)` call. A name that resolves through
// the import environment is rewritten to its fully qualified target;
// anything else — a local function, a runtime primitive, or a name a
// prior desugaring already mangled — passes through unchanged (§4.3
// "Call resolution").
func (l *Lowerer) lowerCall(n *cst.Node, ty mirtypes.Type) Expr {
	funcName := n.Token
	if qualified, ok := l.Imports.ImportedFunctions[funcName]; ok {
		funcName = qualified
	}
	args := make([]Expr, len(n.Children))
	for i, c := range n.Children {
		args[i] = l.LowerExpr(c)
	}
	resultTy := ty
	if kf, ok := l.knownFuncs[funcName]; ok && resultTy.Kind == mirtypes.Unit {
		resultTy = kf.Result
	}
	return &Call{typed: typed{Ty: resultTy}, Func: funcName, Args: args}
}

// lowerMethodCall lowers `recv.method(args)` (§4.3 "Method dispatch").
// A receiver whose type has a registered trait impl for method dispatches
// to the mangled `Trait__method__Type` function with recv prepended as
// the first argument. A bare identifier receiver naming a known service
// instead resolves through l.serviceStubs to the generated
// `__service_S_call_M`/`__service_S_cast_M` client stub (§4.8's last
// sentence), since a service's methods are reached by message, not by a
// direct function call with the receiver as an argument.
func (l *Lowerer) lowerMethodCall(n *cst.Node, ty mirtypes.Type) Expr {
	method := n.Token
	recvNode := n.Children[0]
	argNodes := n.Children[1:]

	if recvNode.Kind == cst.KindIdent {
		if _, ok := l.Imports.ServiceMethods[recvNode.Token]; ok {
			args := make([]Expr, len(argNodes))
			for i, c := range argNodes {
				args[i] = l.LowerExpr(c)
			}
			fn := l.serviceStubs[recvNode.Token+"."+method]
			if fn == "" {
				fn = serviceStubName(recvNode.Token, method, true)
			}
			return &Call{typed: typed{Ty: ty}, Func: fn, Args: args}
		}
	}

	recv := l.LowerExpr(recvNode)
	recvTy := recv.Type()
	args := make([]Expr, 0, len(argNodes)+1)
	args = append(args, recv)
	for _, c := range argNodes {
		args = append(args, l.LowerExpr(c))
	}

	fn := mirtypes.MangleMethod("", "", method, recvTy.Name)
	if impl, ok := l.Traits.FindImpl(recvTy.Name, method); ok {
		fn = mirtypes.MangleMethod(impl.Trait, impl.TypeArg, method, impl.ForType)
	} else {
		// No registered trait impl; assume an inherent method named by
		// the module-qualification convention instead of a trait mangle.
		fn = recvTy.Name + "_" + method
	}
	resultTy := ty
	if kf, ok := l.knownFuncs[fn]; ok && resultTy.Kind == mirtypes.Unit {
		resultTy = kf.Result
	}
	return &Call{typed: typed{Ty: resultTy}, Func: fn, Args: args}
}
