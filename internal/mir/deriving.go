package mir

import (
	"github.com/malphas-lang/malphas-lang/internal/cst"
	"github.com/malphas-lang/malphas-lang/internal/mirtypes"
)

// DerivingShape is the uniform view of a struct's fields or a sum type's
// variants that the trait-function synthesizer works from, so Eq/Ord/
// Hash/Display/Debug/ToJson/FromJson/FromRow share one code path for
// both declaration forms (§4.4).
type DerivingShape struct {
	TypeName string
	IsSum    bool
	Fields   []cst.FieldDecl
	Variants []cst.VariantDecl
}

func structDerivingShape(sd *cst.StructDecl) DerivingShape {
	return DerivingShape{TypeName: sd.Name, Fields: sd.Fields}
}

func sumDerivingShape(sum *cst.SumDecl) DerivingShape {
	return DerivingShape{TypeName: sum.Name, IsSum: true, Variants: sum.Variants}
}

// synthesizeDeriving generates one trait-method Function per entry in
// derivingNames, deduplicated by mangled name (§3 invariant: a given
// `Trait__method__Type` is emitted at most once per compilation).
func (l *Lowerer) synthesizeDeriving(mod *Module, typeName string, derivingNames []string, shape DerivingShape) {
	for _, trait := range derivingNames {
		switch trait {
		case "Eq":
			l.emitDerived(mod, "Eq", "eq", typeName, l.synthesizeEq(shape))
		case "Ord":
			l.ensureOrderingType(mod)
			l.emitDerived(mod, "Ord", "lt", typeName, l.synthesizeLt(shape))
			l.emitDerived(mod, "Ord", "compare", typeName, l.synthesizeOrd(shape))
		case "Hash":
			l.emitDerived(mod, "Hash", "hash", typeName, l.synthesizeHash(shape))
		case "Display":
			l.emitDerived(mod, "Display", "to_string", typeName, l.synthesizeDisplay(shape))
		case "Debug":
			l.emitDerived(mod, "Debug", "inspect", typeName, l.synthesizeDebug(shape))
		case "ToJson":
			l.emitDerived(mod, "ToJson", "to_json", typeName, l.synthesizeToJson(shape))
		case "FromJson":
			l.emitDerived(mod, "FromJson", "from_json", typeName, l.synthesizeFromJson(shape))
			l.emitJsonDecode(mod, typeName, l.synthesizeJsonDecode(shape))
		case "Json":
			l.emitDerived(mod, "ToJson", "to_json", typeName, l.synthesizeToJson(shape))
			l.emitDerived(mod, "FromJson", "from_json", typeName, l.synthesizeFromJson(shape))
			l.emitJsonDecode(mod, typeName, l.synthesizeJsonDecode(shape))
		case "FromRow", "Row":
			l.emitDerived(mod, "FromRow", "from_row", typeName, l.synthesizeFromRow(shape))
		}
	}
}

func (l *Lowerer) emitDerived(mod *Module, trait, method, typeName string, fn *Function) {
	key := mirtypes.MangleMethod(trait, "", method, typeName)
	if l.generatedTraitFns[key] {
		return
	}
	l.generatedTraitFns[key] = true
	fn.Name = key
	mod.Functions = append(mod.Functions, fn)
}

// emitJsonDecode registers the `__json_decode__T` wrapper, deduplicated
// the same way emitDerived dedupes trait methods but keyed by its own
// naming convention rather than a Trait__method__Type mangle.
func (l *Lowerer) emitJsonDecode(mod *Module, typeName string, fn *Function) {
	name := "__json_decode__" + typeName
	if l.generatedTraitFns[name] {
		return
	}
	l.generatedTraitFns[name] = true
	fn.Name = name
	mod.Functions = append(mod.Functions, fn)
}

func (l *Lowerer) selfType(typeName string, isSum bool) mirtypes.Type {
	if isSum {
		return mirtypes.NewSumType(typeName)
	}
	return mirtypes.NewStruct(typeName)
}

// equalsExpr compares two values of the same MIR type: native == for
// primitives, trait dispatch otherwise (mirrors the operator dispatcher
// of lower_expr_operators.go, reused here since deriving bypasses the
// surface AST entirely).
func (l *Lowerer) equalsExpr(ty mirtypes.Type, a, b Expr) Expr {
	if ty.IsPrimitive() {
		return &BinOp{typed: typed{Ty: mirtypes.NewBool()}, Op: OpEq, Left: a, Right: b}
	}
	return l.dispatchBinaryTrait("eq", a, b, ty, mirtypes.NewBool())
}

func andAll(exprs []Expr) Expr {
	if len(exprs) == 0 {
		return &BoolLit{typed: typed{Ty: mirtypes.NewBool()}, Value: true}
	}
	acc := exprs[0]
	for _, e := range exprs[1:] {
		acc = &BinOp{typed: typed{Ty: mirtypes.NewBool()}, Op: OpAnd, Left: acc, Right: e}
	}
	return acc
}

// synthesizeEq builds `Eq__eq__T(a, b) -> Bool` (§4.4). Structs AND
// every field pairwise; sums match tag-and-fields per variant, with a
// mismatched-variant fallback of false.
func (l *Lowerer) synthesizeEq(shape DerivingShape) *Function {
	selfTy := l.selfType(shape.TypeName, shape.IsSum)
	a := &VarRef{typed: typed{Ty: selfTy}, Name: "a"}
	b := &VarRef{typed: typed{Ty: selfTy}, Name: "b"}
	params := []Param{{Name: "a", Ty: selfTy}, {Name: "b", Ty: selfTy}}

	var body Expr
	if !shape.IsSum {
		checks := make([]Expr, len(shape.Fields))
		for i, f := range shape.Fields {
			fty := l.ResolveType(f.Type)
			checks[i] = l.equalsExpr(fty, &FieldAccess{typed: typed{Ty: fty}, Target: a, Field: f.Name}, &FieldAccess{typed: typed{Ty: fty}, Target: b, Field: f.Name})
		}
		body = andAll(checks)
	} else {
		arms := make([]MatchArm, 0, len(shape.Variants)+1)
		for tag, v := range shape.Variants {
			aBinds := make([]string, len(v.Fields))
			bBinds := make([]string, len(v.Fields))
			aSub := make([]Pattern, len(v.Fields))
			bSub := make([]Pattern, len(v.Fields))
			fieldTys := make([]mirtypes.Type, len(v.Fields))
			for i, ft := range v.Fields {
				fieldTys[i] = l.ResolveType(ft)
				aBinds[i] = l.fresh("__eqa")
				bBinds[i] = l.fresh("__eqb")
				aSub[i] = Var{Name: aBinds[i], Ty: fieldTys[i]}
				bSub[i] = Var{Name: bBinds[i], Ty: fieldTys[i]}
			}
			pat := TuplePattern{
				Elems: []Pattern{
					Constructor{TypeName: shape.TypeName, Variant: v.Name, Sub: aSub, Binds: flattenBindings(aSub...)},
					Constructor{TypeName: shape.TypeName, Variant: v.Name, Sub: bSub, Binds: flattenBindings(bSub...)},
				},
			}
			pat.Binds = flattenBindings(pat.Elems...)
			checks := make([]Expr, len(v.Fields))
			for i := range v.Fields {
				checks[i] = l.equalsExpr(fieldTys[i],
					&VarRef{typed: typed{Ty: fieldTys[i]}, Name: aBinds[i]},
					&VarRef{typed: typed{Ty: fieldTys[i]}, Name: bBinds[i]})
			}
			arms = append(arms, MatchArm{Pattern: pat, Body: andAll(checks)})
			_ = tag
		}
		arms = append(arms, MatchArm{Pattern: Wildcard{}, Body: &BoolLit{typed: typed{Ty: mirtypes.NewBool()}, Value: false}})
		tupleTy := mirtypes.NewTuple(selfTy, selfTy)
		scrutinee := &Call{typed: typed{Ty: tupleTy}, Func: "__mesh_make_tuple", Args: []Expr{a, b}}
		body = &Match{typed: typed{Ty: mirtypes.NewBool()}, Scrutinee: scrutinee, Arms: arms}
	}
	return &Function{Params: params, ReturnType: mirtypes.NewBool(), Body: body}
}

// compareExpr dispatches a 3-way comparison of two values of the same
// type to the Ordering-returning trait method, or a native arithmetic
// comparison folded into an Ordering value for primitives.
func (l *Lowerer) compareExpr(ty mirtypes.Type, a, b Expr) Expr {
	orderingTy := mirtypes.NewSumType("Ordering")
	if ty.IsPrimitive() {
		lt := &BinOp{typed: typed{Ty: mirtypes.NewBool()}, Op: OpLt, Left: a, Right: b}
		gt := &BinOp{typed: typed{Ty: mirtypes.NewBool()}, Op: OpGt, Left: a, Right: b}
		eq := &ConstructVariant{typed: typed{Ty: orderingTy}, TypeName: "Ordering", Variant: "Equal", Tag: 1}
		less := &ConstructVariant{typed: typed{Ty: orderingTy}, TypeName: "Ordering", Variant: "Less", Tag: 0}
		greater := &ConstructVariant{typed: typed{Ty: orderingTy}, TypeName: "Ordering", Variant: "Greater", Tag: 2}
		return &If{typed: typed{Ty: orderingTy}, Cond: lt, Then: less, Else: &If{typed: typed{Ty: orderingTy}, Cond: gt, Then: greater, Else: eq}}
	}
	return l.dispatchBinaryTrait("compare", a, b, ty, orderingTy)
}

// ltExpr is the Ord primitive: native < for primitives, dispatch to the
// mangled `Ord__lt__T` (or a registered impl) otherwise (§4.3, §4.4).
func (l *Lowerer) ltExpr(ty mirtypes.Type, a, b Expr) Expr {
	if ty.IsPrimitive() {
		return &BinOp{typed: typed{Ty: mirtypes.NewBool()}, Op: OpLt, Left: a, Right: b}
	}
	return l.dispatchBinaryTrait("lt", a, b, ty, mirtypes.NewBool())
}

// synthesizeLt builds `Ord__lt__T(a, b) -> Bool` (§4.4, §8 Testable
// Property 5): the primitive Ord operation every `<`/`>`/`<=`/`>=`
// dispatch ultimately calls. Fields compare lexicographically: the
// first field where a and b differ decides the result.
func (l *Lowerer) synthesizeLt(shape DerivingShape) *Function {
	selfTy := l.selfType(shape.TypeName, shape.IsSum)
	boolTy := mirtypes.NewBool()
	a := &VarRef{typed: typed{Ty: selfTy}, Name: "a"}
	b := &VarRef{typed: typed{Ty: selfTy}, Name: "b"}
	params := []Param{{Name: "a", Ty: selfTy}, {Name: "b", Ty: selfTy}}

	falseLit := func() Expr { return &BoolLit{typed: typed{Ty: boolTy}, Value: false} }
	trueLit := func() Expr { return &BoolLit{typed: typed{Ty: boolTy}, Value: true} }

	chainStep := func(lt, eq, rest Expr) Expr {
		return &If{typed: typed{Ty: boolTy}, Cond: lt, Then: trueLit(), Else: &If{typed: typed{Ty: boolTy}, Cond: eq, Then: rest, Else: falseLit()}}
	}

	var chainFields func(fields []cst.FieldDecl, target, other Expr) Expr
	chainFields = func(fields []cst.FieldDecl, target, other Expr) Expr {
		if len(fields) == 0 {
			return falseLit()
		}
		f := fields[0]
		fty := l.ResolveType(f.Type)
		fa := &FieldAccess{typed: typed{Ty: fty}, Target: target, Field: f.Name}
		fb := &FieldAccess{typed: typed{Ty: fty}, Target: other, Field: f.Name}
		return chainStep(l.ltExpr(fty, fa, fb), l.equalsExpr(fty, fa, fb), chainFields(fields[1:], target, other))
	}

	var body Expr
	if !shape.IsSum {
		body = chainFields(shape.Fields, a, b)
	} else {
		tagA := &Call{typed: typed{Ty: mirtypes.NewInt()}, Func: "__mesh_variant_tag", Args: []Expr{a}}
		tagB := &Call{typed: typed{Ty: mirtypes.NewInt()}, Func: "__mesh_variant_tag", Args: []Expr{b}}
		tagLt := &BinOp{typed: typed{Ty: boolTy}, Op: OpLt, Left: tagA, Right: tagB}
		tagEq := &BinOp{typed: typed{Ty: boolTy}, Op: OpEq, Left: tagA, Right: tagB}

		arms := make([]MatchArm, 0, len(shape.Variants)+1)
		for _, v := range shape.Variants {
			aBinds := make([]string, len(v.Fields))
			bBinds := make([]string, len(v.Fields))
			aSub := make([]Pattern, len(v.Fields))
			bSub := make([]Pattern, len(v.Fields))
			fieldTys := make([]mirtypes.Type, len(v.Fields))
			for i, ft := range v.Fields {
				fieldTys[i] = l.ResolveType(ft)
				aBinds[i] = l.fresh("__lta")
				bBinds[i] = l.fresh("__ltb")
				aSub[i] = Var{Name: aBinds[i], Ty: fieldTys[i]}
				bSub[i] = Var{Name: bBinds[i], Ty: fieldTys[i]}
			}
			pat := TuplePattern{Elems: []Pattern{
				Constructor{TypeName: shape.TypeName, Variant: v.Name, Sub: aSub, Binds: flattenBindings(aSub...)},
				Constructor{TypeName: shape.TypeName, Variant: v.Name, Sub: bSub, Binds: flattenBindings(bSub...)},
			}}
			pat.Binds = flattenBindings(pat.Elems...)

			var chain func(i int) Expr
			chain = func(i int) Expr {
				if i >= len(v.Fields) {
					return falseLit()
				}
				fa := &VarRef{typed: typed{Ty: fieldTys[i]}, Name: aBinds[i]}
				fb := &VarRef{typed: typed{Ty: fieldTys[i]}, Name: bBinds[i]}
				return chainStep(l.ltExpr(fieldTys[i], fa, fb), l.equalsExpr(fieldTys[i], fa, fb), chain(i+1))
			}
			arms = append(arms, MatchArm{Pattern: pat, Body: chain(0)})
		}
		arms = append(arms, MatchArm{Pattern: Wildcard{}, Body: falseLit()})
		tupleTy := mirtypes.NewTuple(selfTy, selfTy)
		sameVariantScrutinee := &Call{typed: typed{Ty: tupleTy}, Func: "__mesh_make_tuple", Args: []Expr{a, b}}
		sameVariantLt := &Match{typed: typed{Ty: boolTy}, Scrutinee: sameVariantScrutinee, Arms: arms}

		body = &If{typed: typed{Ty: boolTy}, Cond: tagLt, Then: trueLit(), Else: &If{typed: typed{Ty: boolTy}, Cond: tagEq, Then: sameVariantLt, Else: falseLit()}}
	}
	return &Function{Params: params, ReturnType: boolTy, Body: body}
}

// synthesizeOrd builds `Ord__compare__T(a, b) -> Ordering` (§4.4) as a
// convenience derived from the Ord primitive `lt` plus `Eq::eq`, per the
// documented dispatch hierarchy (§4.3): compare is never itself the
// primitive that operator dispatch calls.
func (l *Lowerer) synthesizeOrd(shape DerivingShape) *Function {
	selfTy := l.selfType(shape.TypeName, shape.IsSum)
	orderingTy := mirtypes.NewSumType("Ordering")
	a := &VarRef{typed: typed{Ty: selfTy}, Name: "a"}
	b := &VarRef{typed: typed{Ty: selfTy}, Name: "b"}
	params := []Param{{Name: "a", Ty: selfTy}, {Name: "b", Ty: selfTy}}

	less := &ConstructVariant{typed: typed{Ty: orderingTy}, TypeName: "Ordering", Variant: "Less", Tag: 0}
	equal := &ConstructVariant{typed: typed{Ty: orderingTy}, TypeName: "Ordering", Variant: "Equal", Tag: 1}
	greater := &ConstructVariant{typed: typed{Ty: orderingTy}, TypeName: "Ordering", Variant: "Greater", Tag: 2}

	ltCall := l.ltExpr(selfTy, a, b)
	eqCall := l.equalsExpr(selfTy, a, b)
	body := &If{typed: typed{Ty: orderingTy}, Cond: ltCall, Then: less, Else: &If{typed: typed{Ty: orderingTy}, Cond: eqCall, Then: equal, Else: greater}}
	return &Function{Params: params, ReturnType: orderingTy, Body: body}
}

// ensureOrderingType registers the built-in Ordering sum type exactly
// once per module (Less=0, Equal=1, Greater=2), shared by every Ord
// deriving's `compare` (§4.4). The <, >, <=, >= operators dispatch to
// `lt` and never use Ordering.
func (l *Lowerer) ensureOrderingType(mod *Module) {
	for _, s := range mod.SumTypes {
		if s.Name == "Ordering" {
			return
		}
	}
	mod.SumTypes = append(mod.SumTypes, &SumTypeDef{
		Name: "Ordering",
		Variants: []VariantDef{
			{Name: "Less", Tag: 0},
			{Name: "Equal", Tag: 1},
			{Name: "Greater", Tag: 2},
		},
	})
}

func (l *Lowerer) hashExpr(ty mirtypes.Type, e Expr) Expr {
	switch ty.Kind {
	case mirtypes.Int:
		return &Call{typed: typed{Ty: mirtypes.NewInt()}, Func: "mesh_hash_int", Args: []Expr{e}}
	case mirtypes.Float:
		return &Call{typed: typed{Ty: mirtypes.NewInt()}, Func: "mesh_hash_float", Args: []Expr{e}}
	case mirtypes.Bool:
		return &Call{typed: typed{Ty: mirtypes.NewInt()}, Func: "mesh_hash_bool", Args: []Expr{e}}
	case mirtypes.String:
		return &Call{typed: typed{Ty: mirtypes.NewInt()}, Func: "mesh_hash_string", Args: []Expr{e}}
	default:
		fn := mirtypes.MangleMethod("Hash", "", "hash", ty.Name)
		if impl, ok := l.Traits.FindImpl(ty.Name, "hash"); ok {
			fn = mirtypes.MangleMethod(impl.Trait, impl.TypeArg, "hash", impl.ForType)
		}
		return &Call{typed: typed{Ty: mirtypes.NewInt()}, Func: fn, Args: []Expr{e}}
	}
}

// synthesizeHash builds `Hash__hash__T(a) -> Int`, combining every
// field's hash left-to-right via mesh_hash_combine (§4.4); sums seed the
// combine chain with the variant tag's hash so distinct variants with
// equal-looking payloads never collide trivially.
func (l *Lowerer) synthesizeHash(shape DerivingShape) *Function {
	selfTy := l.selfType(shape.TypeName, shape.IsSum)
	a := &VarRef{typed: typed{Ty: selfTy}, Name: "a"}
	params := []Param{{Name: "a", Ty: selfTy}}

	combine := func(acc, next Expr) Expr {
		return &Call{typed: typed{Ty: mirtypes.NewInt()}, Func: "mesh_hash_combine", Args: []Expr{acc, next}}
	}

	var body Expr
	if !shape.IsSum {
		acc := Expr(&IntLit{typed: typed{Ty: mirtypes.NewInt()}, Value: 0})
		for _, f := range shape.Fields {
			fty := l.ResolveType(f.Type)
			acc = combine(acc, l.hashExpr(fty, &FieldAccess{typed: typed{Ty: fty}, Target: a, Field: f.Name}))
		}
		body = acc
	} else {
		arms := make([]MatchArm, 0, len(shape.Variants))
		for tag, v := range shape.Variants {
			binds := make([]string, len(v.Fields))
			sub := make([]Pattern, len(v.Fields))
			fieldTys := make([]mirtypes.Type, len(v.Fields))
			for i, ft := range v.Fields {
				fieldTys[i] = l.ResolveType(ft)
				binds[i] = l.fresh("__hf")
				sub[i] = Var{Name: binds[i], Ty: fieldTys[i]}
			}
			acc := l.hashExpr(mirtypes.NewInt(), &IntLit{typed: typed{Ty: mirtypes.NewInt()}, Value: int64(tag)})
			for i := range v.Fields {
				acc = combine(acc, l.hashExpr(fieldTys[i], &VarRef{typed: typed{Ty: fieldTys[i]}, Name: binds[i]}))
			}
			arms = append(arms, MatchArm{Pattern: Constructor{TypeName: shape.TypeName, Variant: v.Name, Sub: sub, Binds: flattenBindings(sub...)}, Body: acc})
		}
		body = &Match{typed: typed{Ty: mirtypes.NewInt()}, Scrutinee: a, Arms: arms}
	}
	return &Function{Params: params, ReturnType: mirtypes.NewInt(), Body: body}
}

// synthesizeDisplay and synthesizeDebug both build a human-readable
// stringification; deriving never distinguishes the two (a custom
// Display impl, when present, always wins at dispatch time — see
// stringifierFuncForType in lower_expr_interp.go).
func (l *Lowerer) synthesizeDisplay(shape DerivingShape) *Function {
	return l.synthesizeDebug(shape)
}

func (l *Lowerer) synthesizeDebug(shape DerivingShape) *Function {
	selfTy := l.selfType(shape.TypeName, shape.IsSum)
	a := &VarRef{typed: typed{Ty: selfTy}, Name: "a"}
	params := []Param{{Name: "a", Ty: selfTy}}

	concat := func(parts ...Expr) Expr {
		acc := parts[0]
		for _, p := range parts[1:] {
			acc = &Call{typed: typed{Ty: mirtypes.NewString()}, Func: "mesh_string_concat", Args: []Expr{acc, p}}
		}
		return acc
	}
	lit := func(s string) Expr { return &StringLit{typed: typed{Ty: mirtypes.NewString()}, Value: s} }

	var body Expr
	if !shape.IsSum {
		parts := []Expr{lit(shape.TypeName + " { ")}
		for i, f := range shape.Fields {
			fty := l.ResolveType(f.Type)
			sep := ", "
			if i == 0 {
				sep = ""
			}
			parts = append(parts, lit(sep+f.Name+": "), l.stringify(&FieldAccess{typed: typed{Ty: fty}, Target: a, Field: f.Name}))
		}
		parts = append(parts, lit(" }"))
		body = concat(parts...)
	} else {
		arms := make([]MatchArm, 0, len(shape.Variants))
		for _, v := range shape.Variants {
			binds := make([]string, len(v.Fields))
			sub := make([]Pattern, len(v.Fields))
			fieldTys := make([]mirtypes.Type, len(v.Fields))
			for i, ft := range v.Fields {
				fieldTys[i] = l.ResolveType(ft)
				binds[i] = l.fresh("__df")
				sub[i] = Var{Name: binds[i], Ty: fieldTys[i]}
			}
			var armBody Expr
			if len(v.Fields) == 0 {
				armBody = lit(v.Name)
			} else {
				parts := []Expr{lit(v.Name + "(")}
				for i := range v.Fields {
					sep := ", "
					if i == 0 {
						sep = ""
					}
					parts = append(parts, lit(sep), l.stringify(&VarRef{typed: typed{Ty: fieldTys[i]}, Name: binds[i]}))
				}
				parts = append(parts, lit(")"))
				armBody = concat(parts...)
			}
			arms = append(arms, MatchArm{Pattern: Constructor{TypeName: shape.TypeName, Variant: v.Name, Sub: sub, Binds: flattenBindings(sub...)}, Body: armBody})
		}
		body = &Match{typed: typed{Ty: mirtypes.NewString()}, Scrutinee: a, Arms: arms}
	}
	return &Function{Params: params, ReturnType: mirtypes.NewString(), Body: body}
}

// jsonOfExpr converts a single field's value to a json Ptr handle.
func (l *Lowerer) jsonOfExpr(ty mirtypes.Type, e Expr) Expr {
	switch ty.Kind {
	case mirtypes.Int:
		return &Call{typed: typed{Ty: mirtypes.NewPtr()}, Func: "mesh_json_of_int", Args: []Expr{e}}
	case mirtypes.Float:
		return &Call{typed: typed{Ty: mirtypes.NewPtr()}, Func: "mesh_json_of_float", Args: []Expr{e}}
	case mirtypes.Bool:
		return &Call{typed: typed{Ty: mirtypes.NewPtr()}, Func: "mesh_json_of_bool", Args: []Expr{e}}
	case mirtypes.String:
		return &Call{typed: typed{Ty: mirtypes.NewPtr()}, Func: "mesh_json_of_string", Args: []Expr{e}}
	default:
		fn := mirtypes.MangleMethod("ToJson", "", "to_json", ty.Name)
		if impl, ok := l.Traits.FindImpl(ty.Name, "to_json"); ok {
			fn = mirtypes.MangleMethod(impl.Trait, impl.TypeArg, "to_json", impl.ForType)
		}
		return &Call{typed: typed{Ty: mirtypes.NewPtr()}, Func: fn, Args: []Expr{e}}
	}
}

// synthesizeToJson builds `ToJson__to_json__T(a) -> Ptr` over an opaque
// json-object handle (§4.4). Sum types wrap the variant name and its
// positional field array under a two-key envelope ("variant",
// "fields"); the derived FromJson does not decode this envelope back.
func (l *Lowerer) synthesizeToJson(shape DerivingShape) *Function {
	selfTy := l.selfType(shape.TypeName, shape.IsSum)
	a := &VarRef{typed: typed{Ty: selfTy}, Name: "a"}
	params := []Param{{Name: "a", Ty: selfTy}}
	objTy := mirtypes.NewPtr()

	if !shape.IsSum {
		acc := Expr(&Call{typed: typed{Ty: objTy}, Func: "mesh_json_object_new"})
		for _, f := range shape.Fields {
			fty := l.ResolveType(f.Type)
			val := l.jsonOfExpr(fty, &FieldAccess{typed: typed{Ty: fty}, Target: a, Field: f.Name})
			acc = &Block{typed: typed{Ty: objTy}, Exprs: []Expr{
				&Call{typed: typed{Ty: mirtypes.NewUnit()}, Func: "mesh_json_object_put", Args: []Expr{acc, &StringLit{typed: typed{Ty: mirtypes.NewString()}, Value: f.Name}, val}},
				acc,
			}}
		}
		return &Function{Params: params, ReturnType: objTy, Body: acc}
	}

	arms := make([]MatchArm, 0, len(shape.Variants))
	for _, v := range shape.Variants {
		binds := make([]string, len(v.Fields))
		sub := make([]Pattern, len(v.Fields))
		fieldTys := make([]mirtypes.Type, len(v.Fields))
		for i, ft := range v.Fields {
			fieldTys[i] = l.ResolveType(ft)
			binds[i] = l.fresh("__jf")
			sub[i] = Var{Name: binds[i], Ty: fieldTys[i]}
		}
		payload := Expr(&Call{typed: typed{Ty: objTy}, Func: "mesh_list_new"})
		fields := make([]Expr, len(v.Fields))
		for i := range v.Fields {
			fields[i] = l.jsonOfExpr(fieldTys[i], &VarRef{typed: typed{Ty: fieldTys[i]}, Name: binds[i]})
		}
		payload = &Call{typed: typed{Ty: objTy}, Func: "mesh_json_from_list", Args: []Expr{&ListLit{typed: typed{Ty: objTy}, Elems: fields}, payload}}

		obj := Expr(&Call{typed: typed{Ty: objTy}, Func: "mesh_json_object_new"})
		obj = &Block{typed: typed{Ty: objTy}, Exprs: []Expr{
			&Call{typed: typed{Ty: mirtypes.NewUnit()}, Func: "mesh_json_object_put", Args: []Expr{obj, &StringLit{typed: typed{Ty: mirtypes.NewString()}, Value: "variant"}, &Call{typed: typed{Ty: objTy}, Func: "mesh_json_of_string", Args: []Expr{&StringLit{typed: typed{Ty: mirtypes.NewString()}, Value: v.Name}}}}},
			&Call{typed: typed{Ty: mirtypes.NewUnit()}, Func: "mesh_json_object_put", Args: []Expr{obj, &StringLit{typed: typed{Ty: mirtypes.NewString()}, Value: "fields"}, payload}},
			obj,
		}}
		arms = append(arms, MatchArm{Pattern: Constructor{TypeName: shape.TypeName, Variant: v.Name, Sub: sub, Binds: flattenBindings(sub...)}, Body: obj})
	}
	body := &Match{typed: typed{Ty: objTy}, Scrutinee: a, Arms: arms}
	return &Function{Params: params, ReturnType: objTy, Body: body}
}

// jsonAsExpr converts a json field Ptr back to a native primitive
// value; only called where the caller has already established the
// target type never fails to decode (plain primitive fields, and the
// element of an Option<T> field, §4.4). Non-primitive targets now
// decode through fromJsonCallFor's Result-returning function instead,
// so the fallback here just passes the raw Ptr through rather than
// misreading a Result as a bare value.
func (l *Lowerer) jsonAsExpr(ty mirtypes.Type, e Expr) Expr {
	switch ty.Kind {
	case mirtypes.Int:
		return &Call{typed: typed{Ty: ty}, Func: "mesh_json_as_int", Args: []Expr{e}}
	case mirtypes.Float:
		return &Call{typed: typed{Ty: ty}, Func: "mesh_json_as_float", Args: []Expr{e}}
	case mirtypes.Bool:
		return &Call{typed: typed{Ty: ty}, Func: "mesh_json_as_bool", Args: []Expr{e}}
	case mirtypes.String:
		return &Call{typed: typed{Ty: ty}, Func: "mesh_json_as_string", Args: []Expr{e}}
	default:
		return e
	}
}

// resultTypeOf builds the MirType of Result<ok, err>, mirroring how
// resolveCon mangles the built-in Option/Result sum types (§4.1).
func resultTypeOf(ok, err mirtypes.Type) mirtypes.Type {
	return mirtypes.NewSumType(mirtypes.MangleGeneric("Result", []mirtypes.Type{ok, err}))
}

func optionTypeOf(elem mirtypes.Type) mirtypes.Type {
	return mirtypes.NewSumType(mirtypes.MangleGeneric("Option", []mirtypes.Type{elem}))
}

// fieldIsOption reports whether a field's surface type is Option<T>,
// and if so its element's resolved MIR type; decided from the
// pre-resolution surface type rather than the mangled MirType, which
// only retains a flattened name for struct/sum kinds (§4.1).
func (l *Lowerer) fieldIsOption(t cst.SurfaceType) (mirtypes.Type, bool) {
	app, ok := t.(cst.App)
	if !ok {
		return mirtypes.Type{}, false
	}
	head, ok := app.Head.(cst.Con)
	if !ok || head.Name != "Option" || len(app.Args) != 1 {
		return mirtypes.Type{}, false
	}
	return l.ResolveType(app.Args[0]), true
}

// fromJsonCallFor resolves the mangled FromJson function name for a
// nested struct/sum field, preferring a registered impl the same way
// jsonOfExpr resolves ToJson for non-primitive fields.
func (l *Lowerer) fromJsonCallFor(ty mirtypes.Type) string {
	fn := mirtypes.MangleMethod("FromJson", "", "from_json", ty.Name)
	if impl, ok := l.Traits.FindImpl(ty.Name, "from_json"); ok {
		fn = mirtypes.MangleMethod(impl.Trait, impl.TypeArg, "from_json", impl.ForType)
	}
	return fn
}

// synthesizeFromJson builds `FromJson__from_json__T(obj: Ptr) ->
// Result<T, String>` (§4.4, §4 supplemented Result/Option-propagating
// decode). Each field decodes in turn: a primitive field is checked for
// presence with mesh_json_object_has and, when absent, the function
// returns Err("missing field: <name>"); a present primitive converts via
// mesh_json_as_*. An Option<T> field is present or absent rather than a
// decode failure, and any other field type is assumed to itself derive
// FromJson and is threaded through a Result match so a nested decode
// failure short-circuits the whole struct with the original error,
// mirroring lowerTry's Ok/Err propagation chain (lower_expr_try.go).
// For a sum type the body is a constant Err; no variant is decoded.
func (l *Lowerer) synthesizeFromJson(shape DerivingShape) *Function {
	selfTy := l.selfType(shape.TypeName, shape.IsSum)
	errTy := mirtypes.NewString()
	resultTy := resultTypeOf(selfTy, errTy)
	objTy := mirtypes.NewPtr()
	obj := &VarRef{typed: typed{Ty: objTy}, Name: "obj"}
	params := []Param{{Name: "obj", Ty: objTy}}

	if shape.IsSum {
		msg := &StringLit{typed: typed{Ty: mirtypes.NewString()}, Value: "FromJson is not derivable for sum types"}
		body := &ConstructVariant{typed: typed{Ty: resultTy}, TypeName: resultTy.Name, Variant: "Err", Tag: 1, Values: []Expr{msg}}
		return &Function{Params: params, ReturnType: resultTy, Body: body}
	}

	fieldVals := make(map[string]Expr, len(shape.Fields))
	order := make([]string, len(shape.Fields))
	for i, f := range shape.Fields {
		order[i] = f.Name
		fieldVals[f.Name] = &VarRef{typed: typed{Ty: l.ResolveType(f.Type)}, Name: "__jv_" + f.Name}
	}
	body := Expr(&ConstructVariant{
		typed: typed{Ty: resultTy}, TypeName: resultTy.Name, Variant: "Ok", Tag: 0,
		Values: []Expr{&StructLit{typed: typed{Ty: selfTy}, TypeName: shape.TypeName, Fields: fieldVals, FieldOrder: order}},
	})

	for i := len(shape.Fields) - 1; i >= 0; i-- {
		f := shape.Fields[i]
		bindName := "__jv_" + f.Name
		raw := &Call{typed: typed{Ty: objTy}, Func: "mesh_json_object_get", Args: []Expr{obj, &StringLit{typed: typed{Ty: mirtypes.NewString()}, Value: f.Name}}}

		if elemTy, isOpt := l.fieldIsOption(f.Type); isOpt {
			has := &Call{typed: typed{Ty: mirtypes.NewBool()}, Func: "mesh_json_object_has", Args: []Expr{obj, &StringLit{typed: typed{Ty: mirtypes.NewString()}, Value: f.Name}}}
			optTy := optionTypeOf(elemTy)
			some := &ConstructVariant{typed: typed{Ty: optTy}, TypeName: optTy.Name, Variant: "Some", Tag: 0, Values: []Expr{l.jsonAsExpr(elemTy, raw)}}
			none := &ConstructVariant{typed: typed{Ty: optTy}, TypeName: optTy.Name, Variant: "None", Tag: 1}
			value := &If{typed: typed{Ty: optTy}, Cond: has, Then: some, Else: none}
			body = &Let{typed: typed{Ty: resultTy}, Name: bindName, VarTy: optTy, Value: value, Body: body}
			continue
		}

		fty := l.ResolveType(f.Type)
		if fty.IsPrimitive() {
			decoded := &Let{typed: typed{Ty: resultTy}, Name: bindName, VarTy: fty, Value: l.jsonAsExpr(fty, raw), Body: body}
			has := &Call{typed: typed{Ty: mirtypes.NewBool()}, Func: "mesh_json_object_has", Args: []Expr{obj, &StringLit{typed: typed{Ty: mirtypes.NewString()}, Value: f.Name}}}
			missing := &Return{
				typed: typed{Ty: mirtypes.NewUnit()},
				Value: &ConstructVariant{typed: typed{Ty: resultTy}, TypeName: resultTy.Name, Variant: "Err", Tag: 1, Values: []Expr{&StringLit{typed: typed{Ty: errTy}, Value: "missing field: " + f.Name}}},
			}
			body = &If{typed: typed{Ty: resultTy}, Cond: has, Then: decoded, Else: missing}
			continue
		}

		errVar := l.fresh("__jerr")
		nestedResultTy := resultTypeOf(fty, errTy)
		okArm := MatchArm{
			Pattern: Constructor{TypeName: nestedResultTy.Name, Variant: "Ok", Sub: []Pattern{Var{Name: bindName, Ty: fty}}, Binds: []Binding{{Name: bindName, Ty: fty}}},
			Body:    body,
		}
		errArm := MatchArm{
			Pattern: Constructor{TypeName: nestedResultTy.Name, Variant: "Err", Sub: []Pattern{Var{Name: errVar, Ty: errTy}}, Binds: []Binding{{Name: errVar, Ty: errTy}}},
			Body: &Return{
				typed: typed{Ty: mirtypes.NewUnit()},
				Value: &ConstructVariant{typed: typed{Ty: resultTy}, TypeName: resultTy.Name, Variant: "Err", Tag: 1, Values: []Expr{&VarRef{typed: typed{Ty: errTy}, Name: errVar}}},
			},
		}
		nestedCall := &Call{typed: typed{Ty: nestedResultTy}, Func: l.fromJsonCallFor(fty), Args: []Expr{raw}}
		body = &Match{typed: typed{Ty: resultTy}, Scrutinee: nestedCall, Arms: []MatchArm{okArm, errArm}}
	}

	return &Function{Params: params, ReturnType: resultTy, Body: body}
}

// synthesizeJsonDecode builds `__json_decode__T(input: String) ->
// Result<T, String>` (§4.4): parses the input with mesh_json_parse,
// then defers to FromJson__from_json__T, matching its Result straight
// through rather than re-wrapping it.
func (l *Lowerer) synthesizeJsonDecode(shape DerivingShape) *Function {
	selfTy := l.selfType(shape.TypeName, shape.IsSum)
	resultTy := resultTypeOf(selfTy, mirtypes.NewString())
	strTy := mirtypes.NewString()
	params := []Param{{Name: "input", Ty: strTy}}
	parsed := &Call{typed: typed{Ty: mirtypes.NewPtr()}, Func: "mesh_json_parse", Args: []Expr{&VarRef{typed: typed{Ty: strTy}, Name: "input"}}}
	decode := &Call{typed: typed{Ty: resultTy}, Func: mirtypes.MangleMethod("FromJson", "", "from_json", shape.TypeName), Args: []Expr{parsed}}
	return &Function{Params: params, ReturnType: resultTy, Body: decode}
}

// synthesizeFromRow builds the `FromRow__from_row__T` struct
// reconstructor reading one field per column name (§4 supplemented
// features). For a sum type the body is a Panic; no variant is decoded.
func (l *Lowerer) synthesizeFromRow(shape DerivingShape) *Function {
	selfTy := l.selfType(shape.TypeName, shape.IsSum)
	rowTy := mirtypes.NewPtr()
	row := &VarRef{typed: typed{Ty: rowTy}, Name: "row"}
	params := []Param{{Name: "row", Ty: rowTy}}

	if shape.IsSum {
		return &Function{Params: params, ReturnType: selfTy, Body: &Panic{typed: typed{Ty: selfTy}, Message: "FromRow is not derivable for sum types"}}
	}

	fields := make(map[string]Expr, len(shape.Fields))
	order := make([]string, len(shape.Fields))
	for i, f := range shape.Fields {
		fty := l.ResolveType(f.Type)
		cell := &Call{typed: typed{Ty: mirtypes.NewString()}, Func: "mesh_row_get_string", Args: []Expr{row, &StringLit{typed: typed{Ty: mirtypes.NewString()}, Value: f.Name}}}
		fields[f.Name] = l.rowParseExpr(fty, cell)
		order[i] = f.Name
	}
	body := &StructLit{typed: typed{Ty: selfTy}, TypeName: shape.TypeName, Fields: fields, FieldOrder: order}
	return &Function{Params: params, ReturnType: selfTy, Body: body}
}

func (l *Lowerer) rowParseExpr(ty mirtypes.Type, cell Expr) Expr {
	switch ty.Kind {
	case mirtypes.Int:
		return &Call{typed: typed{Ty: ty}, Func: "mesh_row_parse_int", Args: []Expr{cell}}
	case mirtypes.Float:
		return &Call{typed: typed{Ty: ty}, Func: "mesh_row_parse_float", Args: []Expr{cell}}
	case mirtypes.Bool:
		return &Call{typed: typed{Ty: ty}, Func: "mesh_row_parse_bool", Args: []Expr{cell}}
	default:
		return cell
	}
}
