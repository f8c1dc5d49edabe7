package mir

import (
	"strings"
	"testing"

	"github.com/malphas-lang/malphas-lang/internal/cst"
	"github.com/malphas-lang/malphas-lang/internal/mirtypes"
)

func newTestLowerer() *Lowerer {
	return NewLowerer(cst.NewTypeMap(), cst.NewTypeRegistry(), cst.NewTraitRegistry(), cst.NewImportEnv("test"))
}

func pointStruct() *cst.StructDecl {
	return &cst.StructDecl{
		Name: "Point",
		Fields: []cst.FieldDecl{
			{Name: "x", Type: cst.Con{Name: "Int"}},
			{Name: "y", Type: cst.Con{Name: "Int"}},
		},
		Deriving: []string{"Ord"},
	}
}

func TestDerivingOrdEmitsLtAsThePrimitive(t *testing.T) {
	l := newTestLowerer()
	mod, err := l.LowerModule(Decls{Structs: []*cst.StructDecl{pointStruct()}})
	if err != nil {
		t.Fatalf("LowerModule: %v", err)
	}

	lt, ok := mod.FindFunction("Ord__lt__Point")
	if !ok {
		t.Fatal("expected Ord__lt__Point to be synthesized")
	}
	if lt.ReturnType.Kind != mirtypes.Bool {
		t.Errorf("expected Ord__lt__Point to return Bool, got %v", lt.ReturnType.Kind)
	}
}

func TestDerivingOrdCompareIsDerivedFromLtAndEq(t *testing.T) {
	l := newTestLowerer()
	mod, err := l.LowerModule(Decls{Structs: []*cst.StructDecl{pointStruct()}})
	if err != nil {
		t.Fatalf("LowerModule: %v", err)
	}

	compare, ok := mod.FindFunction("Ord__compare__Point")
	if !ok {
		t.Fatal("expected Ord__compare__Point to be synthesized")
	}
	out := compare.PrettyPrint()
	if !strings.Contains(out, "Ord__lt__Point") {
		t.Errorf("expected compare's body to call Ord__lt__Point, got:\n%s", out)
	}
	if !strings.Contains(out, "Eq__eq__Point") {
		t.Errorf("expected compare's body to call Eq__eq__Point, got:\n%s", out)
	}
}

func TestOperatorLtDispatchesToLtNotCompare(t *testing.T) {
	l := newTestLowerer()
	l.Types.AddStruct(pointStruct())
	pointTy := mirtypes.NewStruct("Point")
	a := &VarRef{typed: typed{Ty: pointTy}, Name: "a"}
	b := &VarRef{typed: typed{Ty: pointTy}, Name: "b"}

	got := l.lowerOrderingComparison(OpLt, a, b, pointTy)
	call, ok := got.(*Call)
	if !ok {
		t.Fatalf("expected a Call, got %T", got)
	}
	if call.Func != "Ord__lt__Point" {
		t.Errorf("expected OpLt to dispatch to Ord__lt__Point, got %s", call.Func)
	}
}

func TestOperatorGeNegatesLt(t *testing.T) {
	l := newTestLowerer()
	pointTy := mirtypes.NewStruct("Point")
	a := &VarRef{typed: typed{Ty: pointTy}, Name: "a"}
	b := &VarRef{typed: typed{Ty: pointTy}, Name: "b"}

	got := l.lowerOrderingComparison(OpGe, a, b, pointTy)
	not, ok := got.(*UnaryOp)
	if !ok || not.Op != UnaryNot {
		t.Fatalf("expected OpGe to negate a lt call, got %T", got)
	}
	call, ok := not.Operand.(*Call)
	if !ok || call.Func != "Ord__lt__Point" {
		t.Fatalf("expected negated operand to be Ord__lt__Point, got %#v", not.Operand)
	}
}
