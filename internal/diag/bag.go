package diag

import "fmt"

// Bag accumulates diagnostics over the course of one compiler pass. It
// replaces ad-hoc `[]Diagnostic` slices threaded through every pass with
// one shared, appendable sink (used by the lowerer, §5: "Nothing here is
// process-wide").
type Bag struct {
	diagnostics []Diagnostic
}

// NewBag returns an empty Bag.
func NewBag() *Bag {
	return &Bag{}
}

// Add appends a diagnostic.
func (b *Bag) Add(d Diagnostic) {
	b.diagnostics = append(b.diagnostics, d)
}

// Errorf builds and appends an error-severity diagnostic at the given
// stage, code, and span.
func (b *Bag) Errorf(stage Stage, code Code, span Span, format string, args ...any) {
	b.Add(Diagnostic{
		Stage:    stage,
		Severity: SeverityError,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Span:     span,
	})
}

// Warnf builds and appends a warning-severity diagnostic.
func (b *Bag) Warnf(stage Stage, code Code, span Span, format string, args ...any) {
	b.Add(Diagnostic{
		Stage:    stage,
		Severity: SeverityWarning,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Span:     span,
	})
}

// HasErrors reports whether any error-severity diagnostic was recorded.
func (b *Bag) HasErrors() bool {
	for _, d := range b.diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// All returns every diagnostic recorded so far, in insertion order.
func (b *Bag) All() []Diagnostic {
	return b.diagnostics
}

// Len returns the number of recorded diagnostics.
func (b *Bag) Len() int { return len(b.diagnostics) }
