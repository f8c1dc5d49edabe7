package mir

import (
	"strings"
	"testing"

	"github.com/malphas-lang/malphas-lang/internal/cst"
)

func userStruct() *cst.StructDecl {
	return &cst.StructDecl{
		Name: "User",
		Fields: []cst.FieldDecl{
			{Name: "name", Type: cst.Con{Name: "String"}},
			{Name: "nickname", Type: cst.App{Head: cst.Con{Name: "Option"}, Args: []cst.SurfaceType{cst.Con{Name: "String"}}}},
		},
		Deriving: []string{"FromJson"},
	}
}

func TestFromJsonReturnsResultInsteadOfBareStruct(t *testing.T) {
	l := newTestLowerer()
	mod, err := l.LowerModule(Decls{Structs: []*cst.StructDecl{userStruct()}})
	if err != nil {
		t.Fatalf("LowerModule: %v", err)
	}

	fn, ok := mod.FindFunction("FromJson__from_json__User")
	if !ok {
		t.Fatal("expected FromJson__from_json__User to be synthesized")
	}
	if fn.ReturnType.Name != "Result_User_String" {
		t.Errorf("expected Result<User, String> return type, got %s", fn.ReturnType.Name)
	}

	out := fn.PrettyPrint()
	if !strings.Contains(out, "Result_User_String::Ok#0") {
		t.Errorf("expected the success path to wrap the struct in Ok, got:\n%s", out)
	}
	if !strings.Contains(out, "return") || !strings.Contains(out, "Err#1") {
		t.Errorf("expected a Result-propagating Err return somewhere in the body, got:\n%s", out)
	}
}

func TestFromJsonHandlesOptionFieldsWithoutFailing(t *testing.T) {
	l := newTestLowerer()
	mod, err := l.LowerModule(Decls{Structs: []*cst.StructDecl{userStruct()}})
	if err != nil {
		t.Fatalf("LowerModule: %v", err)
	}

	fn, _ := mod.FindFunction("FromJson__from_json__User")
	out := fn.PrettyPrint()
	if !strings.Contains(out, "mesh_json_object_has") {
		t.Errorf("expected an Option field to be null-checked via mesh_json_object_has, got:\n%s", out)
	}
	if !strings.Contains(out, "Some#0") || !strings.Contains(out, "None#1") {
		t.Errorf("expected Some/None construction for the Option field, got:\n%s", out)
	}
}

func TestJsonDecodeWrapperParsesThenDecodes(t *testing.T) {
	l := newTestLowerer()
	mod, err := l.LowerModule(Decls{Structs: []*cst.StructDecl{userStruct()}})
	if err != nil {
		t.Fatalf("LowerModule: %v", err)
	}

	fn, ok := mod.FindFunction("__json_decode__User")
	if !ok {
		t.Fatal("expected __json_decode__User wrapper to be synthesized")
	}
	if len(fn.Params) != 1 || fn.Params[0].Name != "input" {
		t.Fatalf("expected a single `input` parameter, got %+v", fn.Params)
	}
	out := fn.PrettyPrint()
	if !strings.Contains(out, "mesh_json_parse") {
		t.Errorf("expected the wrapper to call mesh_json_parse, got:\n%s", out)
	}
	if !strings.Contains(out, "FromJson__from_json__User") {
		t.Errorf("expected the wrapper to defer to FromJson__from_json__User, got:\n%s", out)
	}
}
