package mir

import (
	"strings"
	"testing"

	"github.com/malphas-lang/malphas-lang/internal/mirtypes"
)

func TestPrettyExprBinOp(t *testing.T) {
	x := &VarRef{typed: typed{Ty: mirtypes.NewInt()}, Name: "x"}
	y := &VarRef{typed: typed{Ty: mirtypes.NewInt()}, Name: "y"}
	add := &BinOp{typed: typed{Ty: mirtypes.NewInt()}, Op: OpAdd, Left: x, Right: y}

	if got := prettyExpr(add); got != "(x + y)" {
		t.Errorf("expected (x + y), got %s", got)
	}
}

func TestPrettyExprCall(t *testing.T) {
	call := &Call{
		typed: typed{Ty: mirtypes.NewInt()},
		Func:  "mesh_add",
		Args:  []Expr{&IntLit{typed: typed{Ty: mirtypes.NewInt()}, Value: 1}, &IntLit{typed: typed{Ty: mirtypes.NewInt()}, Value: 2}},
	}
	if got := prettyExpr(call); got != "mesh_add(1, 2)" {
		t.Errorf("expected mesh_add(1, 2), got %s", got)
	}
}

func TestPrettyExprIf(t *testing.T) {
	cond := &BoolLit{typed: typed{Ty: mirtypes.NewBool()}, Value: true}
	then := &IntLit{typed: typed{Ty: mirtypes.NewInt()}, Value: 1}
	els := &IntLit{typed: typed{Ty: mirtypes.NewInt()}, Value: 0}
	n := &If{typed: typed{Ty: mirtypes.NewInt()}, Cond: cond, Then: then, Else: els}

	if got := prettyExpr(n); got != "if true then 1 else 0" {
		t.Errorf("expected if true then 1 else 0, got %s", got)
	}
}

func TestPrettyPatternConstructor(t *testing.T) {
	p := Constructor{TypeName: "Option", Variant: "Some", Sub: []Pattern{Var{Name: "x", Ty: mirtypes.NewInt()}}}
	if got := prettyPattern(p); got != "Some(x)" {
		t.Errorf("expected Some(x), got %s", got)
	}
}

func TestFunctionPrettyPrint(t *testing.T) {
	fn := &Function{
		Name:       "add",
		Params:     []Param{{Name: "a", Ty: mirtypes.NewInt()}, {Name: "b", Ty: mirtypes.NewInt()}},
		ReturnType: mirtypes.NewInt(),
		Body: &BinOp{
			typed: typed{Ty: mirtypes.NewInt()},
			Op:    OpAdd,
			Left:  &VarRef{typed: typed{Ty: mirtypes.NewInt()}, Name: "a"},
			Right: &VarRef{typed: typed{Ty: mirtypes.NewInt()}, Name: "b"},
		},
	}
	out := fn.PrettyPrint()
	if !strings.HasPrefix(out, "fn add(a: Int, b: Int) -> Int {") {
		t.Errorf("unexpected signature rendering: %s", out)
	}
	if !strings.Contains(out, "(a + b)") {
		t.Errorf("expected body to contain (a + b), got %s", out)
	}
}

func TestModulePrettyPrintIncludesStructsAndFunctions(t *testing.T) {
	mod := &Module{
		Structs: []*StructDef{{Name: "Point", Fields: []FieldDef{{Name: "x", Ty: mirtypes.NewInt()}}}},
		Functions: []*Function{{
			Name:       "mesh_main",
			ReturnType: mirtypes.NewUnit(),
			Body:       &UnitLit{typed: typed{Ty: mirtypes.NewUnit()}},
		}},
	}
	out := mod.PrettyPrint()
	if !strings.Contains(out, "struct Point { x: Int }") {
		t.Errorf("expected struct rendering, got %s", out)
	}
	if !strings.Contains(out, "fn mesh_main()") {
		t.Errorf("expected function rendering, got %s", out)
	}
}
