package mir

import (
	"testing"

	"github.com/malphas-lang/malphas-lang/internal/cst"
	"github.com/malphas-lang/malphas-lang/internal/diag"
	"github.com/malphas-lang/malphas-lang/internal/mirtypes"
)

func boxStruct() *cst.StructDecl {
	return &cst.StructDecl{
		Name:       "Box",
		TypeParams: []string{"T"},
		Fields:     []cst.FieldDecl{{Name: "value", Type: cst.Var{ID: "T"}}},
	}
}

func TestMonomorphizeStructEmitsOneDefPerInstantiation(t *testing.T) {
	l := newTestLowerer()
	l.Types.AddStruct(boxStruct())

	intMangled := l.monomorphizeStruct("Box", []mirtypes.Type{mirtypes.NewInt()})
	strMangled := l.monomorphizeStruct("Box", []mirtypes.Type{mirtypes.NewString()})

	if intMangled == strMangled {
		t.Fatalf("expected distinct mangled names per instantiation, got %s for both", intMangled)
	}
	if len(l.pendingMonoStructs) != 2 {
		t.Fatalf("expected 2 pending monomorphized structs, got %d", len(l.pendingMonoStructs))
	}

	byName := map[string]*StructDef{}
	for _, sd := range l.pendingMonoStructs {
		byName[sd.Name] = sd
	}
	if byName[intMangled].Fields[0].Ty.Kind != mirtypes.Int {
		t.Errorf("expected Box<Int>'s value field to resolve to Int, got %v", byName[intMangled].Fields[0].Ty.Kind)
	}
	if byName[strMangled].Fields[0].Ty.Kind != mirtypes.String {
		t.Errorf("expected Box<String>'s value field to resolve to String, got %v", byName[strMangled].Fields[0].Ty.Kind)
	}
}

func TestMonomorphizeStructDedupesByMangledName(t *testing.T) {
	l := newTestLowerer()
	l.Types.AddStruct(boxStruct())

	first := l.monomorphizeStruct("Box", []mirtypes.Type{mirtypes.NewInt()})
	second := l.monomorphizeStruct("Box", []mirtypes.Type{mirtypes.NewInt()})

	if first != second {
		t.Fatalf("expected the same mangled name for repeated instantiation, got %s and %s", first, second)
	}
	if len(l.pendingMonoStructs) != 1 {
		t.Fatalf("expected exactly one MirStructDef for one instantiation, got %d", len(l.pendingMonoStructs))
	}
}

func TestResolveConTriggersMonomorphizationForGenericStruct(t *testing.T) {
	l := newTestLowerer()
	l.Types.AddStruct(boxStruct())

	ty := l.resolveCon("Box", []mirtypes.Type{mirtypes.NewBool()})
	if ty.Kind != mirtypes.Struct {
		t.Fatalf("expected a Struct kind, got %v", ty.Kind)
	}
	if ty.Name == "Box" {
		t.Error("expected a mangled instantiation name, not the bare generic name")
	}
}

func TestMonoDepthExceededReportsDiagnosticAndDegrades(t *testing.T) {
	l := newTestLowerer()
	l.Types.AddStruct(boxStruct())
	l.MonoDepthBound = 0

	mangled := l.monomorphizeStruct("Box", []mirtypes.Type{mirtypes.NewInt()})

	diags := l.Diags.All()
	if len(diags) == 0 {
		t.Fatal("expected a diagnostic when the monomorphization depth bound is exceeded")
	}
	if diags[0].Code != diag.CodeLowerMonoDepthExceeded {
		t.Errorf("expected CodeLowerMonoDepthExceeded, got %s", diags[0].Code)
	}
	byName := map[string]*StructDef{}
	for _, sd := range l.pendingMonoStructs {
		byName[sd.Name] = sd
	}
	if sd, ok := byName[mangled]; !ok || len(sd.Fields) != 0 {
		t.Errorf("expected a stub empty StructDef for the over-depth instantiation, got %+v", sd)
	}
}
