package mir

import (
	"testing"

	"github.com/malphas-lang/malphas-lang/internal/cst"
	"github.com/malphas-lang/malphas-lang/internal/mirtypes"
)

func counterServiceDecl() *ServiceDecl {
	return &ServiceDecl{
		Name:     "Counter",
		InitBody: &cst.Node{Kind: cst.KindIntLit, Token: "0"},
		Methods: []ServiceMethod{
			{
				Name:       "get",
				IsCall:     true,
				Body:       &cst.Node{Kind: cst.KindIdent, Token: "state"},
				ReturnType: cst.Con{Name: "Int"},
			},
			{
				Name: "bump",
				Body: &cst.Node{Kind: cst.KindIdent, Token: "state"},
			},
		},
	}
}

func TestExpandServiceEmitsFullFunctionCluster(t *testing.T) {
	l := newTestLowerer()
	mod := &Module{}
	l.expandService(mod, counterServiceDecl())

	names := map[string]bool{}
	for _, fn := range mod.Functions {
		names[fn.Name] = true
	}

	for _, want := range []string{
		"__service_Counter_init",
		"__service_Counter_handle_get",
		"__service_Counter_handle_bump",
		"__service_Counter_call_get",
		"__service_Counter_cast_bump",
		"__service_Counter_loop",
		"__service_Counter_start",
	} {
		if !names[want] {
			t.Errorf("expected %s to be emitted, got %v", want, names)
		}
	}
}

func TestExpandServiceLoopFunctionIsActuallyEmitted(t *testing.T) {
	l := newTestLowerer()
	mod := &Module{}
	l.expandService(mod, counterServiceDecl())

	fn, ok := mod.FindFunction("__service_Counter_loop")
	if !ok {
		t.Fatal("expected the loop function itself to be present in mod.Functions, not just referenced by name")
	}
	call, ok := fn.Body.(*Call)
	if !ok || call.Func != "mesh_service_run_loop" {
		t.Fatalf("expected the loop body to call mesh_service_run_loop, got %#v", fn.Body)
	}
}

func TestExpandServiceDispatchCarriesServiceName(t *testing.T) {
	l := newTestLowerer()
	mod := &Module{}
	l.expandService(mod, counterServiceDecl())

	if len(mod.ServiceDispatch) != 1 {
		t.Fatalf("expected one ServiceDispatch entry, got %d", len(mod.ServiceDispatch))
	}
	if mod.ServiceDispatch[0].Name != "Counter" {
		t.Errorf("expected ServiceDispatch.Name to be Counter, got %s", mod.ServiceDispatch[0].Name)
	}
}

func TestExpandServiceCallStubRoutesThroughRuntimePrimitive(t *testing.T) {
	l := newTestLowerer()
	mod := &Module{}
	l.expandService(mod, counterServiceDecl())

	fn, ok := mod.FindFunction("__service_Counter_call_get")
	if !ok {
		t.Fatal("expected __service_Counter_call_get to be emitted")
	}
	call, ok := fn.Body.(*Call)
	if !ok || call.Func != "mesh_service_call" {
		t.Fatalf("expected the call stub to invoke mesh_service_call, got %#v", fn.Body)
	}
}

func TestExpandActorTerminateTakesStateAndReason(t *testing.T) {
	l := newTestLowerer()
	mod := &Module{}
	act := &ActorDecl{
		Name:          "Ping",
		InitBody:      &cst.Node{Kind: cst.KindUnitLit},
		ReceiveArms:   []cst.Clause{{Params: []*cst.Node{{Kind: cst.KindIdent, Token: "msg"}}, Body: &cst.Node{Kind: cst.KindUnitLit}}},
		TerminateBody: &cst.Node{Kind: cst.KindUnitLit},
	}
	l.expandActor(mod, act)

	fn, ok := mod.FindFunction("__terminate_Ping")
	if !ok {
		t.Fatal("expected __terminate_Ping to be emitted")
	}
	if len(fn.Params) != 2 {
		t.Fatalf("expected 2 params (state, reason), got %d: %+v", len(fn.Params), fn.Params)
	}
	if fn.Params[0].Name != "state" || fn.Params[1].Name != "reason" {
		t.Errorf("expected params named state, reason, got %+v", fn.Params)
	}
	if fn.Params[1].Ty.Kind != mirtypes.Ptr {
		t.Errorf("expected reason param to be Ptr, got %v", fn.Params[1].Ty.Kind)
	}
}
