package mir

import "github.com/malphas-lang/malphas-lang/internal/mirtypes"

// elementEqualityFuncForType synthesizes (or reuses) a wrapper function
// comparing two element values of elemTy, for handing to mesh_list_equals
// / mesh_set_equals / mesh_map_equals as a callback (§4.4, generalizing
// the same wrapper-synthesis approach lower_expr_interp.go uses for
// stringification).
func (l *Lowerer) elementEqualityFuncForType(elemTy mirtypes.Type) string {
	key := "eq:" + mirtypes.Mangle(elemTy)
	if name, ok := l.wrapperCache[key]; ok {
		return name
	}
	if elemTy.IsPrimitive() {
		name := l.fresh("__mesh_eq_wrapper")
		body := &BinOp{typed: typed{Ty: mirtypes.NewBool()}, Op: OpEq,
			Left:  &VarRef{typed: typed{Ty: elemTy}, Name: "x"},
			Right: &VarRef{typed: typed{Ty: elemTy}, Name: "y"}}
		l.extraFuncs = append(l.extraFuncs, &Function{
			Name:       name,
			Params:     []Param{{Name: "x", Ty: mirtypes.NewPtr()}, {Name: "y", Ty: mirtypes.NewPtr()}},
			ReturnType: mirtypes.NewBool(),
			Body:       body,
		})
		l.wrapperCache[key] = name
		return name
	}
	name := l.fresh("__mesh_eq_wrapper")
	body := l.equalsExpr(elemTy, &VarRef{typed: typed{Ty: elemTy}, Name: "x"}, &VarRef{typed: typed{Ty: elemTy}, Name: "y"})
	l.extraFuncs = append(l.extraFuncs, &Function{
		Name:       name,
		Params:     []Param{{Name: "x", Ty: mirtypes.NewPtr()}, {Name: "y", Ty: mirtypes.NewPtr()}},
		ReturnType: mirtypes.NewBool(),
		Body:       body,
	})
	l.wrapperCache[key] = name
	return name
}

func (l *Lowerer) elementEqualityFuncPtr(elemTy mirtypes.Type) Expr {
	name := l.elementEqualityFuncForType(elemTy)
	fnTy := mirtypes.NewFnPtr([]mirtypes.Type{mirtypes.NewPtr(), mirtypes.NewPtr()}, mirtypes.NewBool())
	return &VarRef{typed: typed{Ty: fnTy}, Name: name}
}

// elementComparatorFuncForType mirrors elementEqualityFuncForType for
// Ord-backed comparisons (used by sorted collection operations the
// backend provides; see SPEC_FULL.md domain stack).
func (l *Lowerer) elementComparatorFuncForType(elemTy mirtypes.Type) string {
	key := "cmp:" + mirtypes.Mangle(elemTy)
	if name, ok := l.wrapperCache[key]; ok {
		return name
	}
	name := l.fresh("__mesh_cmp_wrapper")
	body := l.compareExpr(elemTy, &VarRef{typed: typed{Ty: elemTy}, Name: "x"}, &VarRef{typed: typed{Ty: elemTy}, Name: "y"})
	l.extraFuncs = append(l.extraFuncs, &Function{
		Name:       name,
		Params:     []Param{{Name: "x", Ty: mirtypes.NewPtr()}, {Name: "y", Ty: mirtypes.NewPtr()}},
		ReturnType: mirtypes.NewSumType("Ordering"),
		Body:       body,
	})
	l.wrapperCache[key] = name
	return name
}

func (l *Lowerer) elementComparatorFuncPtr(elemTy mirtypes.Type) Expr {
	name := l.elementComparatorFuncForType(elemTy)
	fnTy := mirtypes.NewFnPtr([]mirtypes.Type{mirtypes.NewPtr(), mirtypes.NewPtr()}, mirtypes.NewSumType("Ordering"))
	return &VarRef{typed: typed{Ty: fnTy}, Name: name}
}

// elementHashFuncForType mirrors the other two wrappers for hashing
// callbacks (used by Map/Set key hashing when the key type is a
// user-defined struct/sum, §4.4 Hash deriving).
func (l *Lowerer) elementHashFuncForType(elemTy mirtypes.Type) string {
	key := "hash:" + mirtypes.Mangle(elemTy)
	if name, ok := l.wrapperCache[key]; ok {
		return name
	}
	name := l.fresh("__mesh_hash_wrapper")
	body := l.hashExpr(elemTy, &VarRef{typed: typed{Ty: elemTy}, Name: "x"})
	l.extraFuncs = append(l.extraFuncs, &Function{
		Name:       name,
		Params:     []Param{{Name: "x", Ty: mirtypes.NewPtr()}},
		ReturnType: mirtypes.NewInt(),
		Body:       body,
	})
	l.wrapperCache[key] = name
	return name
}

func (l *Lowerer) elementHashFuncPtr(elemTy mirtypes.Type) Expr {
	name := l.elementHashFuncForType(elemTy)
	fnTy := mirtypes.NewFnPtr([]mirtypes.Type{mirtypes.NewPtr()}, mirtypes.NewInt())
	return &VarRef{typed: typed{Ty: fnTy}, Name: name}
}
