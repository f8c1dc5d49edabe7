package diag_test

import (
	"testing"

	"github.com/malphas-lang/malphas-lang/internal/diag"
)

func TestSpanIsValid(t *testing.T) {
	if (diag.Span{}).IsValid() {
		t.Fatal("zero-value span should not be valid")
	}
	span := diag.Span{Line: 3, Column: 5}
	if !span.IsValid() {
		t.Fatal("span with Line > 0 should be valid")
	}
}

func TestSpanString(t *testing.T) {
	span := diag.Span{Filename: "foo.mesh", Line: 3, Column: 5}
	if got, want := span.String(), "foo.mesh:3:5"; got != want {
		t.Fatalf("span.String() = %q, want %q", got, want)
	}
}

func TestDiagnosticBuilders(t *testing.T) {
	base := diag.Diagnostic{
		Stage:    diag.StageLower,
		Severity: diag.SeverityError,
		Code:     diag.CodeLowerMissingTraitImpl,
		Message:  "no Eq impl for Point",
	}
	primary := base.WithPrimarySpan(diag.Span{Line: 10, Column: 2}, "compared here")
	withProof := primary.WithProofStep(diag.ProofStep{Message: "Point derives no traits"})

	if len(base.LabeledSpans) != 0 {
		t.Fatal("WithPrimarySpan must not mutate the receiver")
	}
	if len(primary.LabeledSpans) != 1 || primary.LabeledSpans[0].Style != "primary" {
		t.Fatalf("expected one primary span, got %+v", primary.LabeledSpans)
	}
	if len(withProof.ProofChain) != 1 {
		t.Fatalf("expected one proof step, got %d", len(withProof.ProofChain))
	}
}

func TestBagHasErrors(t *testing.T) {
	bag := diag.NewBag()
	if bag.HasErrors() {
		t.Fatal("empty bag should not report errors")
	}
	bag.Warnf(diag.StageLower, diag.CodeLowerUnsupportedDeriving, diag.Span{Line: 1}, "FromJson skipped for %s", "Shape")
	if bag.HasErrors() {
		t.Fatal("a warning-only bag should not report errors")
	}
	bag.Errorf(diag.StageLower, diag.CodeLowerUnresolvedType, diag.Span{Line: 2}, "unresolved type %s", "T")
	if !bag.HasErrors() {
		t.Fatal("expected HasErrors after an error-severity diagnostic")
	}
	if bag.Len() != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", bag.Len())
	}
}
