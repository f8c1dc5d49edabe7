// Package mir implements the AST→MIR lowering pass: type resolution,
// pattern lowering, expression lowering (pipe/interpolation/try/method
// dispatch/operators/for-in/literals), deriving-clause trait-function
// synthesis, closure lifting, multi-clause dispatch, tail-call rewriting,
// and service/actor/supervisor expansion. See SPEC_FULL.md §6 for the
// file layout.
package mir

import "github.com/malphas-lang/malphas-lang/internal/mirtypes"

// Expr is the tagged union of MIR expression nodes (§3). Every node
// carries its own MIR result type via Type().
type Expr interface {
	exprNode()
	Type() mirtypes.Type
}

// typed is embedded by every concrete Expr to carry its result type.
type typed struct{ Ty mirtypes.Type }

func (t typed) Type() mirtypes.Type { return t.Ty }

// BinOpKind enumerates the fixed operator set BinOp may carry. Operators
// on user-defined types never reach BinOp — they are rewritten to trait
// Call nodes by the operator dispatcher (§4.3); BinOp only survives for
// primitive operands.
type BinOpKind string

const (
	OpAdd BinOpKind = "+"
	OpSub BinOpKind = "-"
	OpMul BinOpKind = "*"
	OpDiv BinOpKind = "/"
	OpMod BinOpKind = "%"
	OpEq  BinOpKind = "=="
	OpNe  BinOpKind = "!="
	OpLt  BinOpKind = "<"
	OpGt  BinOpKind = ">"
	OpLe  BinOpKind = "<="
	OpGe  BinOpKind = ">="
	OpAnd BinOpKind = "&&"
	OpOr  BinOpKind = "||"
)

type UnaryOpKind string

const (
	UnaryNeg UnaryOpKind = "-"
	UnaryNot UnaryOpKind = "!"
)

// IntLit, FloatLit, BoolLit, StringLit are literal leaves.
type IntLit struct {
	typed
	Value int64
}

func (*IntLit) exprNode() {}

type FloatLit struct {
	typed
	Value float64
}

func (*FloatLit) exprNode() {}

type BoolLit struct {
	typed
	Value bool
}

func (*BoolLit) exprNode() {}

type StringLit struct {
	typed
	Value string
}

func (*StringLit) exprNode() {}

type UnitLit struct{ typed }

func (*UnitLit) exprNode() {}

// VarRef is a reference to a local variable or parameter.
type VarRef struct {
	typed
	Name string
}

func (*VarRef) exprNode() {}

// BinOp is a binary operator application over the fixed operator set,
// restricted to primitive operands (§4.3).
type BinOp struct {
	typed
	Op          BinOpKind
	Left, Right Expr
}

func (*BinOp) exprNode() {}

// UnaryOp is a unary operator application.
type UnaryOp struct {
	typed
	Op      UnaryOpKind
	Operand Expr
}

func (*UnaryOp) exprNode() {}

// Call is a statically resolved direct call: known function name, or a
// trait-dispatched mangled name, or a runtime primitive.
type Call struct {
	typed
	Func string
	Args []Expr
}

func (*Call) exprNode() {}

// ClosureCall is a dynamic-dispatch call through a first-class closure
// value (the only surviving form of dynamic dispatch per §9).
type ClosureCall struct {
	typed
	Closure Expr
	Args    []Expr
}

func (*ClosureCall) exprNode() {}

// TailCall replaces a self-recursive Call occurring in tail position
// (§4.7). Same argument arity and result type as the Call it replaces.
type TailCall struct {
	typed
	Args []Expr
}

func (*TailCall) exprNode() {}

// If is a conditional expression.
type If struct {
	typed
	Cond        Expr
	Then, Else  Expr
}

func (*If) exprNode() {}

// MatchArm is one arm of a Match.
type MatchArm struct {
	Pattern Pattern
	Guard   Expr // nil if unguarded
	Body    Expr
}

// Match is a pattern match over a scrutinee.
type Match struct {
	typed
	Scrutinee Expr
	Arms      []MatchArm
}

func (*Match) exprNode() {}

// Let binds a single name to a value for the scope of body.
type Let struct {
	typed
	Name  string
	VarTy mirtypes.Type
	Value Expr
	Body  Expr
}

func (*Let) exprNode() {}

// Block sequences expressions; its value is the last expression's value.
type Block struct {
	typed
	Exprs []Expr
}

func (*Block) exprNode() {}

// StructLit constructs a struct value.
type StructLit struct {
	typed
	TypeName string
	Fields   map[string]Expr
	// FieldOrder preserves declaration order for deterministic codegen/pretty-printing.
	FieldOrder []string
}

func (*StructLit) exprNode() {}

// StructUpdate is a functional field override: `%{base | f: v, ...}`.
type StructUpdate struct {
	typed
	Base       Expr
	Overrides  map[string]Expr
	FieldOrder []string
}

func (*StructUpdate) exprNode() {}

// FieldAccess reads one field of a struct value.
type FieldAccess struct {
	typed
	Target Expr
	Field  string
}

func (*FieldAccess) exprNode() {}

// ConstructVariant builds a sum-type value for one variant.
type ConstructVariant struct {
	typed
	TypeName string
	Variant  string
	Tag      int
	Values   []Expr
}

func (*ConstructVariant) exprNode() {}

// MakeClosure builds a closure record: a lifted function name plus its
// captured environment (§4.5).
type MakeClosure struct {
	typed
	FuncName string
	Env      []CapturedVar
}

func (*MakeClosure) exprNode() {}

// CapturedVar is one (name, type) pair captured into a closure's
// environment vector.
type CapturedVar struct {
	Name string
	Ty   mirtypes.Type
}

// Return is an explicit early return (used by try-desugaring and
// function bodies with multiple exit points).
type Return struct {
	typed
	Value Expr
}

func (*Return) exprNode() {}

// Loop constructs.

type While struct {
	typed
	Cond Expr
	Body Expr
}

func (*While) exprNode() {}

type ForInRange struct {
	typed
	Var        string
	Start, End Expr
	Body       Expr
}

func (*ForInRange) exprNode() {}

type ForInList struct {
	typed
	Var      string
	ElemTy   mirtypes.Type
	Iterable Expr
	Body     Expr
}

func (*ForInList) exprNode() {}

type ForInMap struct {
	typed
	KeyVar, ValVar string // ValVar == "" for single-variable iteration
	KeyTy, ValTy   mirtypes.Type
	Iterable       Expr
	Body           Expr
}

func (*ForInMap) exprNode() {}

type ForInSet struct {
	typed
	Var      string
	ElemTy   mirtypes.Type
	Iterable Expr
	Body     Expr
}

func (*ForInSet) exprNode() {}

// ForInIterator drives a user-defined `Iterable`/`Iterator` impl pair,
// parameterized by the mangled iter()/next() function names (§4.3).
type ForInIterator struct {
	typed
	Var          string
	ElemTy       mirtypes.Type
	Iterable     Expr
	IterFuncName string
	NextFuncName string
	Body         Expr
}

func (*ForInIterator) exprNode() {}

type Break struct{ typed }

func (*Break) exprNode() {}

type Continue struct{ typed }

func (*Continue) exprNode() {}

// Actor primitives.

type ActorSpawn struct {
	typed
	ActorName       string
	Args            []Expr
	TerminateFnName string // "" if no terminate clause
}

func (*ActorSpawn) exprNode() {}

type ActorSend struct {
	typed
	Target  Expr
	Message Expr
}

func (*ActorSend) exprNode() {}

// ActorReceive matches on a mailbox message with an optional after-timeout.
type ActorReceive struct {
	typed
	Arms        []MatchArm
	TimeoutMs   Expr // nil if no `after`
	TimeoutBody Expr
}

func (*ActorReceive) exprNode() {}

type ActorSelf struct{ typed }

func (*ActorSelf) exprNode() {}

type ActorLink struct {
	typed
	Target Expr
}

func (*ActorLink) exprNode() {}

// SupervisorStrategy enumerates restart strategies (§4.8).
type SupervisorStrategy string

const (
	OneForOne    SupervisorStrategy = "one_for_one"
	OneForAll    SupervisorStrategy = "one_for_all"
	RestForOne   SupervisorStrategy = "rest_for_one"
	SimpleOneFor SupervisorStrategy = "simple_one_for_one"
)

type RestartPolicy string

const (
	RestartPermanent RestartPolicy = "permanent"
	RestartTransient RestartPolicy = "transient"
	RestartTemporary RestartPolicy = "temporary"
)

type ChildSpec struct {
	ID              string
	StartFuncName   string
	Restart         RestartPolicy
	ShutdownTimeout int // ms
}

type SupervisorStart struct {
	typed
	Strategy        SupervisorStrategy
	MaxRestarts     int
	MaxWindowSecs   int
	Children        []ChildSpec
}

func (*SupervisorStart) exprNode() {}

// ListLit is a list literal (the backend expands it to a stack array
// followed by mesh_list_from_array).
type ListLit struct {
	typed
	Elems []Expr
}

func (*ListLit) exprNode() {}

// Panic aborts with a message; used for explicit surface `panic` calls
// and as the body of a derived FromRow for a sum type.
type Panic struct {
	typed
	Message string
	File    string
	Line    int
}

func (*Panic) exprNode() {}
