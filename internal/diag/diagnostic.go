package diag

import "fmt"

// Stage identifies which compiler phase produced the diagnostic.
type Stage string

const (
	StageLexer     Stage = "lexer"
	StageParser    Stage = "parser"
	StageTypeCheck Stage = "typecheck"
	StageLower     Stage = "lower"
	StageCodegen   Stage = "codegen"
)

// Severity captures how impactful the diagnostic is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityNote    Severity = "note"
)

// Code is a stable identifier for a diagnostic.
type Code string

const (
	CodeLexerUnterminatedString       Code = "LEXER_UNTERMINATED_STRING"
	CodeLexerUnterminatedBlockComment Code = "LEXER_UNTERMINATED_BLOCK_COMMENT"
	CodeLexerIllegalRune              Code = "LEXER_ILLEGAL_RUNE"

	// Lowering-time codes (§4, this pass's own diagnostics rather than
	// ones forwarded from an earlier stage).
	CodeLowerUnresolvedType      Code = "LOWER_UNRESOLVED_TYPE"
	CodeLowerMissingTraitImpl    Code = "LOWER_MISSING_TRAIT_IMPL"
	CodeLowerUnsupportedDeriving Code = "LOWER_UNSUPPORTED_DERIVING"
	CodeLowerMonoDepthExceeded   Code = "LOWER_MONOMORPHIZATION_DEPTH_EXCEEDED"
	CodeLowerBadTryTarget        Code = "LOWER_BAD_TRY_TARGET"
)

// Span represents a location in source code.
type Span struct {
	Filename string
	Line     int
	Column   int
	Start    int
	End      int
}

// IsValid reports whether the span points at a real source location.
func (s Span) IsValid() bool { return s.Line > 0 }

func (s Span) String() string {
	if !s.IsValid() {
		return "<unknown>"
	}
	if s.Filename == "" {
		return fmt.Sprintf("%d:%d", s.Line, s.Column)
	}
	return fmt.Sprintf("%s:%d:%d", s.Filename, s.Line, s.Column)
}

// LabeledSpan is one underlined region in a rendered diagnostic, with an
// optional inline message and a primary/secondary rendering style.
type LabeledSpan struct {
	Span  Span
	Label string
	Style string // "primary" or "secondary"
}

// ProofStep is one entry in a constraint-resolution trail attached to a
// diagnostic, rendered as a chain of "= note:" lines (§4.4 trait-bound
// failures being the main source of these in the lowerer).
type ProofStep struct {
	Message string
	Span    Span
}

// Diagnostic is a compiler diagnostic surfaced to end-users.
type Diagnostic struct {
	Stage        Stage
	Severity     Severity
	Code         Code
	Message      string
	Span         Span
	LabeledSpans []LabeledSpan
	ProofChain   []ProofStep
	Notes        []string
	Help         string
	Suggestion   string
	Related      []Span
}

// WithPrimarySpan returns a copy of d with a primary labeled span added,
// leaving d itself untouched.
func (d Diagnostic) WithPrimarySpan(span Span, label string) Diagnostic {
	d.LabeledSpans = append(append([]LabeledSpan{}, d.LabeledSpans...), LabeledSpan{Span: span, Label: label, Style: "primary"})
	return d
}

// WithSecondarySpan returns a copy of d with a secondary labeled span
// added.
func (d Diagnostic) WithSecondarySpan(span Span, label string) Diagnostic {
	d.LabeledSpans = append(append([]LabeledSpan{}, d.LabeledSpans...), LabeledSpan{Span: span, Label: label, Style: "secondary"})
	return d
}

// WithProofStep returns a copy of d with a proof-chain step appended.
func (d Diagnostic) WithProofStep(step ProofStep) Diagnostic {
	d.ProofChain = append(append([]ProofStep{}, d.ProofChain...), step)
	return d
}

// WithNote returns a copy of d with a trailing note appended.
func (d Diagnostic) WithNote(note string) Diagnostic {
	d.Notes = append(append([]string{}, d.Notes...), note)
	return d
}
