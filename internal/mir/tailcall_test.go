package mir

import (
	"testing"

	"github.com/malphas-lang/malphas-lang/internal/mirtypes"
)

func TestRewriteTailCallsRewritesActorReceiveArmBody(t *testing.T) {
	selfCall := &Call{typed: typed{Ty: mirtypes.NewUnit()}, Func: "Loop_loop", Args: []Expr{&VarRef{typed: typed{Ty: mirtypes.NewPtr()}, Name: "state"}}}
	fn := &Function{
		Name:       "Loop_loop",
		Params:     []Param{{Name: "state", Ty: mirtypes.NewPtr()}},
		ReturnType: mirtypes.NewUnit(),
		Body: &ActorReceive{
			typed: typed{Ty: mirtypes.NewUnit()},
			Arms: []MatchArm{
				{Pattern: Wildcard{}, Body: selfCall},
			},
		},
	}

	rewriteTailCalls(fn)

	arm := fn.Body.(*ActorReceive).Arms[0]
	if _, ok := arm.Body.(*TailCall); !ok {
		t.Fatalf("expected ActorReceive arm body to become a TailCall, got %T", arm.Body)
	}
	if !fn.HasTailCalls {
		t.Error("expected fn.HasTailCalls to be set")
	}
}

func TestRewriteTailCallsRewritesActorReceiveTimeoutBody(t *testing.T) {
	selfCall := &Call{typed: typed{Ty: mirtypes.NewUnit()}, Func: "Loop_loop", Args: nil}
	fn := &Function{
		Name: "Loop_loop",
		Body: &ActorReceive{
			typed:       typed{Ty: mirtypes.NewUnit()},
			Arms:        []MatchArm{{Pattern: Wildcard{}, Body: &UnitLit{typed: typed{Ty: mirtypes.NewUnit()}}}},
			TimeoutMs:   &IntLit{typed: typed{Ty: mirtypes.NewInt()}, Value: 100},
			TimeoutBody: selfCall,
		},
	}

	rewriteTailCalls(fn)

	if _, ok := fn.Body.(*ActorReceive).TimeoutBody.(*TailCall); !ok {
		t.Fatalf("expected timeout body to become a TailCall, got %T", fn.Body.(*ActorReceive).TimeoutBody)
	}
}

func TestRewriteTailCallsLeavesNonSelfCallAlone(t *testing.T) {
	otherCall := &Call{typed: typed{Ty: mirtypes.NewUnit()}, Func: "other_fn"}
	fn := &Function{
		Name: "Loop_loop",
		Body: &ActorReceive{
			typed: typed{Ty: mirtypes.NewUnit()},
			Arms:  []MatchArm{{Pattern: Wildcard{}, Body: otherCall}},
		},
	}

	rewriteTailCalls(fn)

	if _, ok := fn.Body.(*ActorReceive).Arms[0].Body.(*Call); !ok {
		t.Error("expected a call to a different function to remain a Call")
	}
	if fn.HasTailCalls {
		t.Error("did not expect HasTailCalls to be set")
	}
}
