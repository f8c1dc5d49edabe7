package mir

import (
	"github.com/malphas-lang/malphas-lang/internal/cst"
	"github.com/malphas-lang/malphas-lang/internal/mirtypes"
)

// lowerTry desugars `e?` (§4.3 "Try expression"). When the enclosing
// function's declared return type is Result<_, FnErr>, a successful `e`
// continues with the Ok payload and a failing `e` early-returns
// Err(convert(x)); for Option<_>, Some continues and None early-returns
// None. convert is identity when the operand's and function's error
// types agree, or calls the appropriate From impl when one exists.
func (l *Lowerer) lowerTry(n *cst.Node, ty mirtypes.Type) Expr {
	operand := l.LowerExpr(n.Children[0])
	operandTy := operand.Type()

	isOption := l.currentReturnIsOption()
	okVar := l.fresh("__try_ok")

	if isOption {
		someArm := MatchArm{
			Pattern: Constructor{TypeName: operandTy.Name, Variant: "Some", Sub: []Pattern{Var{Name: okVar, Ty: ty}}, Binds: []Binding{{Name: okVar, Ty: ty}}},
			Body:    &VarRef{typed: typed{Ty: ty}, Name: okVar},
		}
		noneArm := MatchArm{
			Pattern: Constructor{TypeName: operandTy.Name, Variant: "None"},
			Body: &Return{
				typed: typed{Ty: mirtypes.NewUnit()},
				Value: &ConstructVariant{typed: typed{Ty: l.currentReturnType}, TypeName: l.currentReturnType.Name, Variant: "None", Tag: 1},
			},
		}
		return &Match{typed: typed{Ty: ty}, Scrutinee: operand, Arms: []MatchArm{someArm, noneArm}}
	}

	errVar := l.fresh("__try_err")
	fnErrTy := l.currentReturnErrType()
	operandErrTy := l.operandErrType(operandTy)

	var convertedErr Expr = &VarRef{typed: typed{Ty: operandErrTy}, Name: errVar}
	if !mirtypes.Equal(operandErrTy, fnErrTy) {
		if conv, ok := l.findFromConversion(operandErrTy, fnErrTy); ok {
			convertedErr = &Call{typed: typed{Ty: fnErrTy}, Func: conv, Args: []Expr{convertedErr}}
		}
		// If no From impl exists, the type-checker is assumed to have
		// already rejected the program (§4.3); the lowerer proceeds with
		// the unconverted value rather than aborting.
	}

	okArm := MatchArm{
		Pattern: Constructor{TypeName: operandTy.Name, Variant: "Ok", Sub: []Pattern{Var{Name: okVar, Ty: ty}}, Binds: []Binding{{Name: okVar, Ty: ty}}},
		Body:    &VarRef{typed: typed{Ty: ty}, Name: okVar},
	}
	errArm := MatchArm{
		Pattern: Constructor{TypeName: operandTy.Name, Variant: "Err", Sub: []Pattern{Var{Name: errVar, Ty: operandErrTy}}, Binds: []Binding{{Name: errVar, Ty: operandErrTy}}},
		Body: &Return{
			typed: typed{Ty: mirtypes.NewUnit()},
			Value: &ConstructVariant{typed: typed{Ty: l.currentReturnType}, TypeName: l.currentReturnType.Name, Variant: "Err", Tag: 1, Values: []Expr{convertedErr}},
		},
	}
	return &Match{typed: typed{Ty: ty}, Scrutinee: operand, Arms: []MatchArm{okArm, errArm}}
}

func (l *Lowerer) currentReturnIsOption() bool {
	app, ok := l.currentReturnSurfaceType.(cst.App)
	if !ok {
		return false
	}
	head, ok := app.Head.(cst.Con)
	return ok && head.Name == "Option"
}

func (l *Lowerer) currentReturnErrType() mirtypes.Type {
	app, ok := l.currentReturnSurfaceType.(cst.App)
	if !ok || len(app.Args) < 2 {
		return mirtypes.NewPtr()
	}
	return l.ResolveType(app.Args[1])
}

// operandErrType extracts the Err payload type from a Result-shaped
// operand MIR type by cross-referencing the surface type registry;
// falls back to Ptr when it cannot be recovered (degrade gracefully,
// §7).
func (l *Lowerer) operandErrType(operandTy mirtypes.Type) mirtypes.Type {
	if sum, ok := l.Types.Sums[variantBaseName(operandTy.Name)]; ok {
		for _, v := range sum.Variants {
			if v.Name == "Err" && len(v.Fields) == 1 {
				return l.ResolveType(v.Fields[0])
			}
		}
	}
	return mirtypes.NewPtr()
}

// findFromConversion looks for a `From<OperandErr>` impl targeting
// FnErr and returns its mangled function name (§4.3: `Trait_Arg__from__
// ImplType` scheme for parameterized traits).
func (l *Lowerer) findFromConversion(operandErr, fnErr mirtypes.Type) (string, bool) {
	for _, impl := range l.Traits.Impls {
		if impl.Trait == "From" && impl.TypeArg == operandErr.Name && impl.ForType == fnErr.Name {
			return mirtypes.MangleMethod("From", operandErr.Name, "from", fnErr.Name), true
		}
	}
	return "", false
}
