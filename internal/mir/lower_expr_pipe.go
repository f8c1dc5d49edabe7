package mir

import (
	"github.com/malphas-lang/malphas-lang/internal/cst"
	"github.com/malphas-lang/malphas-lang/internal/mirtypes"
)

// lowerPipe desugars `x |> f` to `f(x)` and `x |> f(a, b)` to
// `f(x, a, b)` (§4.3). The left side is always inserted as the first
// positional argument, so this must run before the callee is otherwise
// lowered as a plain call.
//
// Children: [lhs, callee-call-node]. callee-call-node.Token is the
// function name being piped into; its own children are the explicit
// arguments (possibly empty for a bare `x |> f`).
func (l *Lowerer) lowerPipe(n *cst.Node, ty mirtypes.Type) Expr {
	lhs := l.LowerExpr(n.Children[0])
	callee := n.Children[1]

	args := make([]Expr, 0, len(callee.Children)+1)
	args = append(args, lhs)
	for _, c := range callee.Children {
		args = append(args, l.LowerExpr(c))
	}

	funcName := callee.Token
	resultTy := ty
	if kf, ok := l.knownFuncs[funcName]; ok && resultTy.Kind == mirtypes.Unit {
		resultTy = kf.Result
	}
	return &Call{typed: typed{Ty: resultTy}, Func: funcName, Args: args}
}
