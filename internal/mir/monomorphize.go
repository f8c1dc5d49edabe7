package mir

import (
	"fmt"

	"github.com/malphas-lang/malphas-lang/internal/diag"
	"github.com/malphas-lang/malphas-lang/internal/mirtypes"
)

// monomorphizeStruct resolves one concrete instantiation of a generic
// struct, emitting exactly one MirStructDef per mangled name (§3
// invariant) with every type-parameter occurrence in field position
// substituted for its concrete argument, not erased to Ptr. Guarded by
// MonoDepthBound against runaway recursive instantiation (§7).
func (l *Lowerer) monomorphizeStruct(name string, args []mirtypes.Type) string {
	mangled := mirtypes.MangleGeneric(name, args)
	if l.monoStructs[mangled] {
		return mangled
	}
	l.monoStructs[mangled] = true

	sd, ok := l.Types.Structs[name]
	if !ok {
		return mangled
	}

	if l.monoDepth >= l.MonoDepthBound {
		l.reportMonoDepthExceeded(mangled)
		l.pendingMonoStructs = append(l.pendingMonoStructs, &StructDef{Name: mangled})
		return mangled
	}

	saved := l.typeSubst
	l.typeSubst = substitutionFor(sd.TypeParams, args)
	l.monoDepth++
	fields := make([]FieldDef, len(sd.Fields))
	for i, f := range sd.Fields {
		fields[i] = FieldDef{Name: f.Name, Ty: l.ResolveType(f.Type)}
	}
	l.monoDepth--
	l.typeSubst = saved

	l.pendingMonoStructs = append(l.pendingMonoStructs, &StructDef{Name: mangled, Fields: fields})
	return mangled
}

// monomorphizeSum is monomorphizeStruct's counterpart for user-declared
// generic sum types (Option/Result are built-in and handled separately
// in resolveCon, with no MirSumTypeDef of their own).
func (l *Lowerer) monomorphizeSum(name string, args []mirtypes.Type) string {
	mangled := mirtypes.MangleGeneric(name, args)
	if l.monoSums[mangled] {
		return mangled
	}
	l.monoSums[mangled] = true

	sum, ok := l.Types.Sums[name]
	if !ok {
		return mangled
	}

	if l.monoDepth >= l.MonoDepthBound {
		l.reportMonoDepthExceeded(mangled)
		l.pendingMonoSums = append(l.pendingMonoSums, &SumTypeDef{Name: mangled})
		return mangled
	}

	saved := l.typeSubst
	l.typeSubst = substitutionFor(sum.TypeParams, args)
	l.monoDepth++
	variants := make([]VariantDef, len(sum.Variants))
	for i, v := range sum.Variants {
		variants[i] = VariantDef{Name: v.Name, Tag: i, Fields: l.resolveTypes(v.Fields)}
	}
	l.monoDepth--
	l.typeSubst = saved

	l.pendingMonoSums = append(l.pendingMonoSums, &SumTypeDef{Name: mangled, Variants: variants})
	return mangled
}

func (l *Lowerer) reportMonoDepthExceeded(mangled string) {
	l.Diags.Add(diag.Diagnostic{
		Stage:    diag.StageLower,
		Severity: diag.SeverityError,
		Code:     diag.CodeLowerMonoDepthExceeded,
		Message:  fmt.Sprintf("monomorphization depth bound (%d) exceeded instantiating %s", l.MonoDepthBound, mangled),
	})
}

func substitutionFor(params []string, args []mirtypes.Type) map[string]mirtypes.Type {
	subst := make(map[string]mirtypes.Type, len(params))
	for i, p := range params {
		if i < len(args) {
			subst[p] = args[i]
		}
	}
	return subst
}
