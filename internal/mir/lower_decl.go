package mir

import (
	"github.com/malphas-lang/malphas-lang/internal/cst"
	"github.com/malphas-lang/malphas-lang/internal/mirtypes"
)

// lowerStructDef converts a non-generic surface struct declaration into
// its MIR definition, resolving every field's declared type (§4.1).
// Generic structs never reach this function directly — LowerModule
// skips them here and instead defers to monomorphizeStruct, which emits
// one MirStructDef per concrete instantiation with type-parameter
// positions substituted for the instantiation's concrete arguments
// (§3, §4.4 "Monomorphization trigger").
func (l *Lowerer) lowerStructDef(sd *cst.StructDecl) (*StructDef, error) {
	fields := make([]FieldDef, len(sd.Fields))
	for i, f := range sd.Fields {
		fields[i] = FieldDef{Name: f.Name, Ty: l.ResolveType(f.Type)}
	}
	return &StructDef{Name: sd.Name, Fields: fields}, nil
}

// lowerSumDef converts a surface sum-type declaration into its MIR
// definition. Variant tags are assigned densely in declaration order
// (§3 invariant), the same order the pattern lowerer and deriving
// synthesizer assume when they build Constructor patterns and tag
// comparisons.
func (l *Lowerer) lowerSumDef(sum *cst.SumDecl) (*SumTypeDef, error) {
	variants := make([]VariantDef, len(sum.Variants))
	for i, v := range sum.Variants {
		variants[i] = VariantDef{Name: v.Name, Tag: i, Fields: l.resolveTypes(v.Fields)}
	}
	return &SumTypeDef{Name: sum.Name, Variants: variants}, nil
}

func (l *Lowerer) resolveTypes(ts []cst.SurfaceType) []mirtypes.Type {
	out := make([]mirtypes.Type, len(ts))
	for i, t := range ts {
		out[i] = l.ResolveType(t)
	}
	return out
}
