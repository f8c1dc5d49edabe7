package mir

import (
	"github.com/malphas-lang/malphas-lang/internal/cst"
	"github.com/malphas-lang/malphas-lang/internal/mirtypes"
)

// LowerExpr recursively rewrites a surface expression node to MIR,
// attaching the result type from the type map (falling back to Unit
// when absent, §4.3). This is the main post-order dispatch; the
// individual desugarings live in the other lower_expr_*.go files.
func (l *Lowerer) LowerExpr(n *cst.Node) Expr {
	if n == nil {
		return &UnitLit{typed: typed{Ty: mirtypes.NewUnit()}}
	}
	ty := l.typeOfNode(n)

	switch n.Kind {
	case cst.KindIntLit:
		return l.lowerIntLit(n, ty)
	case cst.KindFloatLit:
		return l.lowerFloatLit(n, ty)
	case cst.KindBoolLit:
		return &BoolLit{typed: typed{Ty: ty}, Value: n.Token == "true"}
	case cst.KindStringLit:
		return l.lowerStringInterpolation(n)
	case cst.KindUnitLit:
		return &UnitLit{typed: typed{Ty: mirtypes.NewUnit()}}

	case cst.KindIdent:
		varTy, ok := l.lookupVar(n.Token)
		if !ok {
			varTy = ty
		}
		return &VarRef{typed: typed{Ty: varTy}, Name: n.Token}

	case cst.KindBinOp:
		return l.lowerBinOp(n, ty)
	case cst.KindUnaryOp:
		return l.lowerUnaryOp(n, ty)

	case cst.KindPipe:
		return l.lowerPipe(n, ty)

	case cst.KindTry:
		return l.lowerTry(n, ty)

	case cst.KindCall:
		return l.lowerCall(n, ty)
	case cst.KindMethodCall:
		return l.lowerMethodCall(n, ty)

	case cst.KindIf:
		return l.lowerIf(n, ty)
	case cst.KindMatch:
		return l.lowerMatch(n, ty)
	case cst.KindLet:
		return l.lowerLet(n, ty)
	case cst.KindBlock:
		return l.lowerBlock(n, ty)

	case cst.KindStructLit:
		return l.lowerStructLit(n, ty)
	case cst.KindStructUpdate:
		return l.lowerStructUpdate(n, ty)
	case cst.KindFieldAccess:
		return l.lowerFieldAccess(n, ty)

	case cst.KindFnExpr:
		return l.liftClosure(n, ty)

	case cst.KindListLit:
		return l.lowerListLit(n, ty)
	case cst.KindMapLit:
		return l.lowerMapLit(n, ty)
	case cst.KindSetLit:
		return l.lowerSetLit(n, ty)
	case cst.KindTupleLit:
		return l.lowerTupleLit(n, ty)

	case cst.KindWhile:
		return l.lowerWhile(n, ty)
	case cst.KindForIn:
		return l.lowerForIn(n, ty)
	case cst.KindForRange:
		return l.lowerForRange(n, ty)
	case cst.KindBreak:
		return &Break{typed: typed{Ty: mirtypes.NewUnit()}}
	case cst.KindContinue:
		return &Continue{typed: typed{Ty: mirtypes.NewUnit()}}
	case cst.KindReturn:
		var val Expr
		if len(n.Children) > 0 {
			val = l.LowerExpr(n.Children[0])
		} else {
			val = &UnitLit{typed: typed{Ty: mirtypes.NewUnit()}}
		}
		return &Return{typed: typed{Ty: mirtypes.NewUnit()}, Value: val}

	case cst.KindVariantCtor:
		return l.lowerConstructVariant(n, ty)

	case cst.KindActorSpawn:
		return l.lowerActorSpawn(n, ty)
	case cst.KindActorSend:
		args := n.Children
		return &ActorSend{typed: typed{Ty: mirtypes.NewUnit()}, Target: l.LowerExpr(args[0]), Message: l.LowerExpr(args[1])}
	case cst.KindActorReceive:
		return l.lowerActorReceive(n, ty)
	case cst.KindActorSelf:
		return &ActorSelf{typed: typed{Ty: mirtypes.NewPid()}}

	case cst.KindPanic:
		msg := ""
		if len(n.Children) > 0 {
			msg = n.Children[0].Token
		}
		return &Panic{typed: typed{Ty: ty}, Message: msg, File: n.Span.Filename, Line: n.Span.Line}

	default:
		return &UnitLit{typed: typed{Ty: mirtypes.NewUnit()}}
	}
}

func (l *Lowerer) lowerIntLit(n *cst.Node, ty mirtypes.Type) Expr {
	v := parseIntLiteral(n.Token)
	return &IntLit{typed: typed{Ty: ty}, Value: v}
}

func (l *Lowerer) lowerFloatLit(n *cst.Node, ty mirtypes.Type) Expr {
	v := parseFloatLiteral(n.Token)
	return &FloatLit{typed: typed{Ty: ty}, Value: v}
}

func (l *Lowerer) lowerBlock(n *cst.Node, ty mirtypes.Type) Expr {
	l.pushScope()
	defer l.popScope()
	exprs := make([]Expr, len(n.Children))
	for i, c := range n.Children {
		exprs[i] = l.LowerExpr(c)
	}
	return &Block{typed: typed{Ty: ty}, Exprs: exprs}
}

func (l *Lowerer) lowerLet(n *cst.Node, ty mirtypes.Type) Expr {
	// Children: [name-ident, value-expr, body-expr]
	name := n.Children[0].Token
	value := l.LowerExpr(n.Children[1])
	varTy := l.typeOfNode(n.Children[0])
	if varTy.Kind == mirtypes.Unit {
		varTy = value.Type()
	}
	l.bind(name, varTy)
	var body Expr
	if len(n.Children) > 2 {
		body = l.LowerExpr(n.Children[2])
	} else {
		body = &UnitLit{typed: typed{Ty: mirtypes.NewUnit()}}
	}
	resultTy := ty
	if resultTy.Kind == mirtypes.Unit {
		resultTy = body.Type()
	}
	return &Let{typed: typed{Ty: resultTy}, Name: name, VarTy: varTy, Value: value, Body: body}
}

func (l *Lowerer) lowerIf(n *cst.Node, ty mirtypes.Type) Expr {
	cond := l.LowerExpr(n.Children[0])
	then := l.LowerExpr(n.Children[1])
	var els Expr
	if len(n.Children) > 2 {
		els = l.LowerExpr(n.Children[2])
	} else {
		els = &UnitLit{typed: typed{Ty: mirtypes.NewUnit()}}
	}
	return &If{typed: typed{Ty: ty}, Cond: cond, Then: then, Else: els}
}

func (l *Lowerer) lowerFieldAccess(n *cst.Node, ty mirtypes.Type) Expr {
	target := l.LowerExpr(n.Children[0])
	return &FieldAccess{typed: typed{Ty: ty}, Target: target, Field: n.Token}
}
