package mir

import (
	"github.com/malphas-lang/malphas-lang/internal/cst"
	"github.com/malphas-lang/malphas-lang/internal/mirtypes"
)

// operatorTrait maps a surface binary operator to the trait method that
// backs it on non-primitive operands (§4.3 "Operator dispatch"). && and
// || are never dispatched: they keep native short-circuit semantics on
// Bool regardless of operand type.
var operatorTrait = map[BinOpKind]string{
	OpAdd: "add",
	OpSub: "sub",
	OpMul: "mul",
	OpDiv: "div",
	OpMod: "mod",
	OpEq:  "eq",
}

// orderingOps is the subset of comparisons dispatched through the Ord
// primitive `lt` (§4.3, §4.4): `<`/`>` call it directly (swapping
// operands for `>`), `<=`/`>=` negate the opposite strict comparison.
var orderingOps = map[BinOpKind]bool{
	OpLt: true, OpGt: true, OpLe: true, OpGe: true,
}

// lowerBinOp lowers a surface binary operator. Primitive operands keep
// native BinOp semantics; user-defined-type operands rewrite to the
// mangled trait dispatch call per §4.3 and §4.4's Eq/Ord deriving.
func (l *Lowerer) lowerBinOp(n *cst.Node, ty mirtypes.Type) Expr {
	left := l.LowerExpr(n.Children[0])
	right := l.LowerExpr(n.Children[1])
	op := BinOpKind(n.Token)

	if op == OpAnd || op == OpOr {
		return &BinOp{typed: typed{Ty: mirtypes.NewBool()}, Op: op, Left: left, Right: right}
	}

	operandTy := left.Type()
	if operandTy.IsPrimitive() {
		resultTy := ty
		if isComparisonOp(op) {
			resultTy = mirtypes.NewBool()
		}
		return &BinOp{typed: typed{Ty: resultTy}, Op: op, Left: left, Right: right}
	}

	if (op == OpEq || op == OpNe) && operandTy.Kind == mirtypes.Ptr {
		if eq, ok := l.collectionEquality(n.Children[0], left, right); ok {
			if op == OpNe {
				return &UnaryOp{typed: typed{Ty: mirtypes.NewBool()}, Op: UnaryNot, Operand: eq}
			}
			return eq
		}
	}

	if orderingOps[op] {
		return l.lowerOrderingComparison(op, left, right, operandTy)
	}

	if op == OpNe {
		eqCall := l.dispatchBinaryTrait("eq", left, right, operandTy, mirtypes.NewBool())
		return &UnaryOp{typed: typed{Ty: mirtypes.NewBool()}, Op: UnaryNot, Operand: eqCall}
	}

	method, ok := operatorTrait[op]
	if !ok {
		// No trait backs this operator on a non-primitive operand; the
		// type-checker is assumed to have already rejected the program.
		return &BinOp{typed: typed{Ty: ty}, Op: op, Left: left, Right: right}
	}
	resultTy := ty
	if op == OpEq {
		resultTy = mirtypes.NewBool()
	}
	return l.dispatchBinaryTrait(method, left, right, operandTy, resultTy)
}

func isComparisonOp(op BinOpKind) bool {
	switch op {
	case OpEq, OpNe, OpLt, OpGt, OpLe, OpGe:
		return true
	default:
		return false
	}
}

// dispatchBinaryTrait rewrites `left OP right` into a direct call to the
// mangled trait method implemented for the operand type, falling back to
// the derived Eq/Ord mangled name when no explicit impl is registered
// (the deriving synthesizer guarantees one exists, §4.4).
func (l *Lowerer) dispatchBinaryTrait(method string, left, right Expr, operandTy mirtypes.Type, resultTy mirtypes.Type) Expr {
	traitName := traitForMethod(method)
	fn := mirtypes.MangleMethod(traitName, "", method, operandTy.Name)
	if impl, ok := l.Traits.FindImpl(operandTy.Name, method); ok {
		fn = mirtypes.MangleMethod(impl.Trait, impl.TypeArg, method, impl.ForType)
	}
	return &Call{typed: typed{Ty: resultTy}, Func: fn, Args: []Expr{left, right}}
}

func traitForMethod(method string) string {
	switch method {
	case "eq":
		return "Eq"
	case "lt", "compare":
		return "Ord"
	default:
		return "Arith"
	}
}

// lowerOrderingComparison dispatches <, >, <=, >= through the Ord
// primitive `lt` (§4.3, §4.4): `<` calls it directly, `>` swaps the
// operands, and `<=`/`>=` negate the opposite strict comparison. None of
// these go through `compare`/Ordering — that is a convenience built on
// top of `lt`, not the other way around.
func (l *Lowerer) lowerOrderingComparison(op BinOpKind, left, right Expr, operandTy mirtypes.Type) Expr {
	boolTy := mirtypes.NewBool()
	switch op {
	case OpLt:
		return l.dispatchBinaryTrait("lt", left, right, operandTy, boolTy)
	case OpGt:
		return l.dispatchBinaryTrait("lt", right, left, operandTy, boolTy)
	case OpLe:
		gt := l.dispatchBinaryTrait("lt", right, left, operandTy, boolTy)
		return &UnaryOp{typed: typed{Ty: boolTy}, Op: UnaryNot, Operand: gt}
	case OpGe:
		lt := l.dispatchBinaryTrait("lt", left, right, operandTy, boolTy)
		return &UnaryOp{typed: typed{Ty: boolTy}, Op: UnaryNot, Operand: lt}
	default:
		return &BoolLit{typed: typed{Ty: boolTy}, Value: false}
	}
}

// collectionEquality recognizes List/Map/Set equality by consulting the
// left operand's surface type and dispatches to the runtime's
// elementwise-callback equality primitive (§4.4 "List equality/ordering
// via callback wrappers"). Returns ok=false for anything else so the
// caller falls back to struct/sum Eq dispatch.
func (l *Lowerer) collectionEquality(leftNode *cst.Node, left, right Expr) (Expr, bool) {
	surfaceTy := l.TypeMap.Lookup(leftNode)
	app, ok := surfaceTy.(cst.App)
	if !ok {
		return nil, false
	}
	head, ok := app.Head.(cst.Con)
	if !ok {
		return nil, false
	}
	switch head.Name {
	case "List":
		elemTy := mirtypes.NewPtr()
		if len(app.Args) == 1 {
			elemTy = l.ResolveType(app.Args[0])
		}
		cb := l.elementEqualityFuncPtr(elemTy)
		return &Call{typed: typed{Ty: mirtypes.NewBool()}, Func: "mesh_list_equals", Args: []Expr{left, right, cb}}, true
	case "Set":
		elemTy := mirtypes.NewPtr()
		if len(app.Args) == 1 {
			elemTy = l.ResolveType(app.Args[0])
		}
		cb := l.elementEqualityFuncPtr(elemTy)
		return &Call{typed: typed{Ty: mirtypes.NewBool()}, Func: "mesh_set_equals", Args: []Expr{left, right, cb}}, true
	case "Map":
		valTy := mirtypes.NewPtr()
		if len(app.Args) == 2 {
			valTy = l.ResolveType(app.Args[1])
		}
		cb := l.elementEqualityFuncPtr(valTy)
		return &Call{typed: typed{Ty: mirtypes.NewBool()}, Func: "mesh_map_equals", Args: []Expr{left, right, cb}}, true
	default:
		return nil, false
	}
}

// lowerUnaryOp lowers `-x` and `!x`; both keep native semantics (§4.3):
// arithmetic negation and boolean negation are never trait-dispatched.
func (l *Lowerer) lowerUnaryOp(n *cst.Node, ty mirtypes.Type) Expr {
	operand := l.LowerExpr(n.Children[0])
	op := UnaryOpKind(n.Token)
	return &UnaryOp{typed: typed{Ty: ty}, Op: op, Operand: operand}
}
