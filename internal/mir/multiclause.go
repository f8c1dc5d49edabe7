package mir

import (
	"github.com/malphas-lang/malphas-lang/internal/cst"
	"github.com/malphas-lang/malphas-lang/internal/mirtypes"
)

// groupClauses collapses consecutive top-level declarations sharing a
// name into one group (§4.6). The surface grammar emits one FnDecl per
// textual clause block when clauses aren't already merged by the parser;
// grouping here makes both shapes uniform before lowering.
func groupClauses(decls []*cst.FnDecl) [][]*cst.FnDecl {
	var groups [][]*cst.FnDecl
	for _, d := range decls {
		if n := len(groups); n > 0 && groups[n-1][0].Name == d.Name {
			groups[n-1] = append(groups[n-1], d)
			continue
		}
		groups = append(groups, []*cst.FnDecl{d})
	}
	return groups
}

// lowerFunctionGroup lowers every clause of one function name into a
// single MIR Function (§4.6 "Multi-clause dispatcher"). A single clause
// lowers directly. Multiple clauses of arity 1 collapse into a Match
// over the sole parameter. Multiple clauses of arity >= 2 collapse into
// a Match over a synthetic tuple of the parameters — functionally an
// if-else chain testing each clause's pattern in order, expressed
// through the same Match node the backend already knows how to bind
// instead of inventing a second binding mechanism for raw conditionals.
func (l *Lowerer) lowerFunctionGroup(group []*cst.FnDecl) (*Function, error) {
	first := group[0]
	name := l.QualifyName(first)

	var clauses []cst.Clause
	for _, d := range group {
		clauses = append(clauses, d.Clauses...)
	}
	arity := len(clauses[0].Params)

	resultTy := l.ResolveType(first.DeclaredReturn)
	prevRetSurface, prevRetTy, prevName := l.currentReturnSurfaceType, l.currentReturnType, l.currentFuncName
	l.currentReturnSurfaceType = first.DeclaredReturn
	l.currentReturnType = resultTy
	l.currentFuncName = name
	defer func() {
		l.currentReturnSurfaceType, l.currentReturnType, l.currentFuncName = prevRetSurface, prevRetTy, prevName
	}()

	l.pushScope()
	defer l.popScope()

	if len(clauses) == 1 && !hasRefutablePatterns(clauses[0].Params) {
		params := make([]Param, arity)
		for i, p := range clauses[0].Params {
			pty := l.typeOfNode(p)
			params[i] = Param{Name: p.Token, Ty: pty}
			l.bind(p.Token, pty)
		}
		body := l.LowerExpr(clauses[0].Body)
		return &Function{Name: name, Params: params, ReturnType: resultTy, Body: body}, nil
	}

	params := make([]Param, arity)
	paramRefs := make([]Expr, arity)
	for i := 0; i < arity; i++ {
		pty := l.typeOfNode(clauses[0].Params[i])
		pname := l.fresh("p")
		if arity == 1 {
			pname = "p0"
		}
		params[i] = Param{Name: pname, Ty: pty}
		l.bind(pname, pty)
		paramRefs[i] = &VarRef{typed: typed{Ty: pty}, Name: pname}
	}

	if arity == 1 {
		arms := l.lowerClausesAsArms(clauses, []mirtypes.Type{params[0].Ty})
		body := &Match{typed: typed{Ty: resultTy}, Scrutinee: paramRefs[0], Arms: arms}
		return &Function{Name: name, Params: params, ReturnType: resultTy, Body: body}, nil
	}

	paramTys := make([]mirtypes.Type, arity)
	for i, p := range params {
		paramTys[i] = p.Ty
	}
	tupleTy := mirtypes.NewTuple(paramTys...)
	scrutinee := &Call{typed: typed{Ty: tupleTy}, Func: "__mesh_make_tuple", Args: paramRefs}
	arms := l.lowerClausesAsArms(clauses, paramTys)
	body := &Match{typed: typed{Ty: resultTy}, Scrutinee: scrutinee, Arms: arms}
	return &Function{Name: name, Params: params, ReturnType: resultTy, Body: body}, nil
}

func hasRefutablePatterns(pats []*cst.Node) bool {
	for _, p := range pats {
		if p.Kind != cst.KindIdent {
			return true
		}
	}
	return false
}

func (l *Lowerer) lowerClausesAsArms(clauses []cst.Clause, paramTys []mirtypes.Type) []MatchArm {
	arms := make([]MatchArm, 0, len(clauses))
	for _, clause := range clauses {
		l.pushScope()
		var pat Pattern
		if len(clause.Params) == 1 {
			pat = l.LowerPattern(clause.Params[0], paramTys[0])
		} else {
			sub := make([]Pattern, len(clause.Params))
			for i, p := range clause.Params {
				sub[i] = l.LowerPattern(p, paramTys[i])
			}
			pat = TuplePattern{Elems: sub, Binds: flattenBindings(sub...)}
		}
		var guard Expr
		if clause.Guard != nil {
			guard = l.LowerExpr(clause.Guard)
		}
		body := l.LowerExpr(clause.Body)
		l.popScope()
		arms = append(arms, MatchArm{Pattern: pat, Guard: guard, Body: body})
	}
	return arms
}
