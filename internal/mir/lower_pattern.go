package mir

import (
	"strconv"
	"strings"

	"github.com/malphas-lang/malphas-lang/internal/cst"
	"github.com/malphas-lang/malphas-lang/internal/mirtypes"
)

// LowerPattern converts a surface pattern node to a MIR pattern and binds
// its introduced variables into the current scope (§4.2). scrutineeTy is
// the MIR type of the value being matched, used to resolve cons-pattern
// element types and literal defaults.
func (l *Lowerer) LowerPattern(n *cst.Node, scrutineeTy mirtypes.Type) Pattern {
	switch n.Kind {
	case cst.KindIdent:
		return l.lowerIdentPattern(n)

	case cst.KindIntLit:
		return l.lowerLiteralPattern(n, mirtypes.NewInt())
	case cst.KindFloatLit:
		return l.lowerLiteralPattern(n, mirtypes.NewFloat())
	case cst.KindBoolLit:
		return l.lowerLiteralPattern(n, mirtypes.NewBool())
	case cst.KindStringLit:
		return Literal{Ty: mirtypes.NewString(), Value: n.Token}

	case cst.KindVariantCtor:
		return l.lowerConstructorPattern(n)

	case cst.KindTupleLit:
		sub := make([]Pattern, len(n.Children))
		for i, c := range n.Children {
			sub[i] = l.LowerPattern(c, mirtypes.Type{})
		}
		return TuplePattern{Elems: sub, Binds: flattenBindings(sub...)}

	default:
		if n.Token == "_" {
			return Wildcard{}
		}
		return Wildcard{}
	}
}

// lowerIdentPattern distinguishes a nullary-constructor reference from a
// plain variable binding: uppercase name with a registered nullary
// variant is a constructor; otherwise it is a binding (§4.2).
func (l *Lowerer) lowerIdentPattern(n *cst.Node) Pattern {
	name := n.Token
	if name == "_" {
		return Wildcard{}
	}
	if len(name) > 0 && name[0] >= 'A' && name[0] <= 'Z' {
		if owner, ok := l.Types.VariantOwner(name); ok {
			l.bind("", mirtypes.Type{}) // no-op scope touch kept symmetrical with binding path
			return Constructor{
				TypeName: owner,
				Variant:  name,
				Binds:    nil,
			}
		}
	}
	ty := l.typeOfNode(n)
	l.bind(name, ty)
	return Var{Name: name, Ty: ty}
}

func (l *Lowerer) lowerLiteralPattern(n *cst.Node, ty mirtypes.Type) Pattern {
	text := n.Token
	negative := strings.HasPrefix(text, "-")
	if negative {
		text = text[1:]
	}
	var value interface{}
	switch ty.Kind {
	case mirtypes.Int:
		v, _ := strconv.ParseInt(text, 10, 64)
		if negative {
			v = -v
		}
		value = v
	case mirtypes.Float:
		v, _ := strconv.ParseFloat(text, 64)
		if negative {
			v = -v
		}
		value = v
	case mirtypes.Bool:
		value = text == "true"
	}
	return Literal{Ty: ty, Value: value}
}

// lowerConstructorPattern lowers `Name(sub1, sub2, ...)` or a bare
// uppercase nullary reference. If no unique owning type exists in the
// registry, TypeName is left empty (§4.2): the type-checker guarantees
// well-formed patterns, so the backend can still dispatch on Variant
// alone in that degenerate case.
func (l *Lowerer) lowerConstructorPattern(n *cst.Node) Pattern {
	variant := n.Token
	owner, _ := l.Types.VariantOwner(variant)
	if owner == "" {
		owner = l.findVariantOwnerWithFields(variant)
	}
	sub := make([]Pattern, len(n.Children))
	for i, c := range n.Children {
		sub[i] = l.LowerPattern(c, mirtypes.Type{})
	}
	return Constructor{
		TypeName: owner,
		Variant:  variant,
		Sub:      sub,
		Binds:    flattenBindings(sub...),
	}
}

func (l *Lowerer) findVariantOwnerWithFields(variant string) string {
	var owner string
	count := 0
	for _, sum := range l.Types.Sums {
		for _, v := range sum.Variants {
			if v.Name == variant {
				owner = sum.Name
				count++
			}
		}
	}
	if count == 1 {
		return owner
	}
	return ""
}

// LowerConsPattern lowers `h :: t`, resolving the element type from the
// scrutinee's type when known, defaulting to Int only to preserve
// pattern structure when the type-checker left it unnarrowed (§4.2).
func (l *Lowerer) LowerConsPattern(headNode, tailNode *cst.Node, scrutineeTy mirtypes.Type) Pattern {
	elemTy := mirtypes.NewInt()
	if scrutineeTy.Kind != mirtypes.Ptr && scrutineeTy.Kind != 0 {
		elemTy = scrutineeTy
	}
	head := l.LowerPattern(headNode, elemTy)
	tail := l.LowerPattern(tailNode, scrutineeTy)
	return ListCons{
		Head:   head,
		Tail:   tail,
		ElemTy: elemTy,
		Binds:  flattenBindings(head, tail),
	}
}

// LowerOrPattern lowers `p1 | p2 | ...`. All alternatives are lowered
// (so later code generation can use any of them), but the reported
// bindings are always the first alternative's (§4.2 — the checker
// guarantees all alternatives bind the same names/types).
func (l *Lowerer) LowerOrPattern(alts []*cst.Node, scrutineeTy mirtypes.Type) Pattern {
	lowered := make([]Pattern, len(alts))
	for i, a := range alts {
		lowered[i] = l.LowerPattern(a, scrutineeTy)
	}
	var binds []Binding
	if len(lowered) > 0 {
		binds = lowered[0].Bindings()
	}
	return Or{Alts: lowered, Binds: binds}
}

// LowerLayeredPattern lowers `n as p`: registers n's binding, then
// returns p as-is, per §4.2 (layered patterns don't wrap the sub-pattern
// in a dedicated node — the binding is just prepended).
func (l *Lowerer) LowerLayeredPattern(name string, sub *cst.Node, scrutineeTy mirtypes.Type) Pattern {
	l.bind(name, scrutineeTy)
	inner := l.LowerPattern(sub, scrutineeTy)
	switch p := inner.(type) {
	case Constructor:
		p.Binds = append([]Binding{{Name: name, Ty: scrutineeTy}}, p.Binds...)
		return p
	case TuplePattern:
		p.Binds = append([]Binding{{Name: name, Ty: scrutineeTy}}, p.Binds...)
		return p
	case ListCons:
		p.Binds = append([]Binding{{Name: name, Ty: scrutineeTy}}, p.Binds...)
		return p
	case Or:
		p.Binds = append([]Binding{{Name: name, Ty: scrutineeTy}}, p.Binds...)
		return p
	default:
		return Constructor{
			Sub:   []Pattern{inner},
			Binds: append([]Binding{{Name: name, Ty: scrutineeTy}}, inner.Bindings()...),
		}
	}
}
