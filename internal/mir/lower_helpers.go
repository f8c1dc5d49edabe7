package mir

import (
	"strconv"
	"strings"

	"github.com/malphas-lang/malphas-lang/internal/cst"
	"github.com/malphas-lang/malphas-lang/internal/mirtypes"
)

// parseIntLiteral parses surface integer literal text, tolerating the
// underscore digit separators and 0x/0b/0o prefixes a Mesh lexer would
// have already validated.
func parseIntLiteral(text string) int64 {
	clean := strings.ReplaceAll(text, "_", "")
	base := 10
	switch {
	case strings.HasPrefix(clean, "0x"), strings.HasPrefix(clean, "0X"):
		base = 16
		clean = clean[2:]
	case strings.HasPrefix(clean, "0b"), strings.HasPrefix(clean, "0B"):
		base = 2
		clean = clean[2:]
	case strings.HasPrefix(clean, "0o"), strings.HasPrefix(clean, "0O"):
		base = 8
		clean = clean[2:]
	}
	v, _ := strconv.ParseInt(clean, base, 64)
	return v
}

func parseFloatLiteral(text string) float64 {
	clean := strings.ReplaceAll(text, "_", "")
	v, _ := strconv.ParseFloat(clean, 64)
	return v
}

func (l *Lowerer) lowerMatch(n *cst.Node, ty mirtypes.Type) Expr {
	scrutinee := l.LowerExpr(n.Children[0])
	arms := make([]MatchArm, 0, len(n.Children)-1)
	for _, armNode := range n.Children[1:] {
		l.pushScope()
		pat := l.LowerPattern(armNode.Children[0], scrutinee.Type())
		var guard Expr
		bodyIdx := 1
		if len(armNode.Children) == 3 {
			guard = l.LowerExpr(armNode.Children[1])
			bodyIdx = 2
		}
		body := l.LowerExpr(armNode.Children[bodyIdx])
		l.popScope()
		arms = append(arms, MatchArm{Pattern: pat, Guard: guard, Body: body})
	}
	resultTy := ty
	if resultTy.Kind == mirtypes.Unit && len(arms) > 0 {
		resultTy = arms[0].Body.Type()
	}
	return &Match{typed: typed{Ty: resultTy}, Scrutinee: scrutinee, Arms: arms}
}

func (l *Lowerer) lowerStructLit(n *cst.Node, ty mirtypes.Type) Expr {
	fields := make(map[string]Expr, len(n.Children))
	order := make([]string, 0, len(n.Children))
	for _, fieldNode := range n.Children {
		name := fieldNode.Token
		fields[name] = l.LowerExpr(fieldNode.Children[0])
		order = append(order, name)
	}
	return &StructLit{typed: typed{Ty: ty}, TypeName: mirtypes.Mangle(ty), Fields: fields, FieldOrder: order}
}

// lowerStructUpdate lowers `%{base | f: v, ...}` (§4.3). The backend
// copies all non-overridden fields from base at codegen time.
func (l *Lowerer) lowerStructUpdate(n *cst.Node, ty mirtypes.Type) Expr {
	base := l.LowerExpr(n.Children[0])
	overrides := make(map[string]Expr, len(n.Children)-1)
	order := make([]string, 0, len(n.Children)-1)
	for _, fieldNode := range n.Children[1:] {
		name := fieldNode.Token
		overrides[name] = l.LowerExpr(fieldNode.Children[0])
		order = append(order, name)
	}
	return &StructUpdate{typed: typed{Ty: ty}, Base: base, Overrides: overrides, FieldOrder: order}
}

func (l *Lowerer) lowerConstructVariant(n *cst.Node, ty mirtypes.Type) Expr {
	variant := n.Token
	typeName := mirtypes.Mangle(ty)
	tag := 0
	if sum, ok := l.Types.Sums[variantBaseName(typeName)]; ok {
		for i, v := range sum.Variants {
			if v.Name == variant {
				tag = i
				break
			}
		}
	}
	values := make([]Expr, len(n.Children))
	for i, c := range n.Children {
		values[i] = l.LowerExpr(c)
	}
	return &ConstructVariant{typed: typed{Ty: ty}, TypeName: typeName, Variant: variant, Tag: tag, Values: values}
}

// variantBaseName strips a generic mangling suffix to recover the
// declaring sum type's bare registry name (best-effort; exact for
// non-generic sums, which is the common case for this helper).
func variantBaseName(mangled string) string {
	if idx := strings.Index(mangled, "_"); idx >= 0 {
		return mangled[:idx]
	}
	return mangled
}

func (l *Lowerer) lowerActorSpawn(n *cst.Node, ty mirtypes.Type) Expr {
	actorName := n.Token
	args := make([]Expr, len(n.Children))
	for i, c := range n.Children {
		args[i] = l.LowerExpr(c)
	}
	terminateName := ""
	if l.actorTerminates[actorName] {
		terminateName = "__terminate_" + actorName
	}
	return &ActorSpawn{typed: typed{Ty: ty}, ActorName: actorName, Args: args, TerminateFnName: terminateName}
}

func (l *Lowerer) lowerActorReceive(n *cst.Node, ty mirtypes.Type) Expr {
	// Children: arm nodes, with an optional trailing "after" arm marked
	// by Kind == KindMatchArm and Token == "after".
	var arms []MatchArm
	var timeout, timeoutBody Expr
	for _, armNode := range n.Children {
		if armNode.Token == "after" {
			timeout = l.LowerExpr(armNode.Children[0])
			timeoutBody = l.LowerExpr(armNode.Children[1])
			continue
		}
		l.pushScope()
		pat := l.LowerPattern(armNode.Children[0], mirtypes.Type{})
		var guard Expr
		bodyIdx := 1
		if len(armNode.Children) == 3 {
			guard = l.LowerExpr(armNode.Children[1])
			bodyIdx = 2
		}
		body := l.LowerExpr(armNode.Children[bodyIdx])
		l.popScope()
		arms = append(arms, MatchArm{Pattern: pat, Guard: guard, Body: body})
	}
	return &ActorReceive{typed: typed{Ty: ty}, Arms: arms, TimeoutMs: timeout, TimeoutBody: timeoutBody}
}

func (l *Lowerer) lowerWhile(n *cst.Node, ty mirtypes.Type) Expr {
	cond := l.LowerExpr(n.Children[0])
	body := l.LowerExpr(n.Children[1])
	return &While{typed: typed{Ty: mirtypes.NewUnit()}, Cond: cond, Body: body}
}

func (l *Lowerer) lowerForRange(n *cst.Node, ty mirtypes.Type) Expr {
	varName := n.Token
	start := l.LowerExpr(n.Children[0])
	end := l.LowerExpr(n.Children[1])
	l.pushScope()
	l.bind(varName, mirtypes.NewInt())
	body := l.LowerExpr(n.Children[2])
	l.popScope()
	return &ForInRange{typed: typed{Ty: mirtypes.NewUnit()}, Var: varName, Start: start, End: end, Body: body}
}
