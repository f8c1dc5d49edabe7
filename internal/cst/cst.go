// Package cst models the lowerer's input surface: a typed concrete syntax
// tree plus the read-only tables the type-checker hands off (type map, type
// registry, trait registry, import environment). None of this package
// parses or type-checks source; it is the shape the lexer/parser/checker
// are contracted to produce, kept here so the lowering pass has something
// concrete to consume.
package cst

// Span is a source range. Nodes carry one so the lowerer and diagnostics
// formatter can report a location without retaining the node itself.
type Span struct {
	Filename string
	Line     int
	Column   int
	Start    int
	End      int
}

// Kind distinguishes CST node shapes. The lowerer switches on Kind rather
// than on a closed Go interface hierarchy because the surface grammar is
// owned by an external parser this core does not implement.
type Kind string

const (
	KindIdent        Kind = "ident"
	KindIntLit       Kind = "int_lit"
	KindFloatLit     Kind = "float_lit"
	KindBoolLit      Kind = "bool_lit"
	KindStringLit    Kind = "string_lit" // Children alternate literal/embedded segments.
	KindUnitLit      Kind = "unit_lit"
	KindBinOp        Kind = "binop"
	KindUnaryOp      Kind = "unaryop"
	KindCall         Kind = "call"
	KindMethodCall   Kind = "method_call" // recv.m(args)
	KindPipe         Kind = "pipe"        // x |> f(args)
	KindTry          Kind = "try"         // e?
	KindIf           Kind = "if"
	KindMatch        Kind = "match"
	KindMatchArm     Kind = "match_arm"
	KindLet          Kind = "let"
	KindBlock        Kind = "block"
	KindStructLit    Kind = "struct_lit"
	KindStructUpdate Kind = "struct_update"
	KindFieldAccess  Kind = "field_access"
	KindFnExpr       Kind = "fn_expr" // closure literal
	KindListLit      Kind = "list_lit"
	KindMapLit       Kind = "map_lit"
	KindSetLit       Kind = "set_lit"
	KindTupleLit     Kind = "tuple_lit"
	KindWhile        Kind = "while"
	KindForIn        Kind = "for_in"
	KindForRange     Kind = "for_range"
	KindBreak        Kind = "break"
	KindContinue     Kind = "continue"
	KindReturn       Kind = "return"
	KindVariantCtor  Kind = "variant_ctor"
	KindActorSpawn   Kind = "actor_spawn"
	KindActorSend    Kind = "actor_send"
	KindActorReceive Kind = "actor_receive"
	KindActorSelf    Kind = "actor_self"
	KindPanic        Kind = "panic"
)

// Node is a single CST node. Children and Token carry everything the
// lowerer needs; Span supports diagnostics. Nodes are consumed in source
// order and never retained past one lowering pass.
type Node struct {
	Kind     Kind
	Token    string // original source text for literals/identifiers/operators
	Children []*Node
	Span     Span
}

// Clause is one arm of a multi-clause function definition (§4.6) or a
// multi-clause closure. Guard may be nil.
type Clause struct {
	Params  []*Node // patterns, one per parameter
	Guard   *Node
	Body    *Node
	Span    Span
}

// FnDecl is a (possibly multi-clause) surface function declaration.
type FnDecl struct {
	Name       string
	IsPublic   bool
	TypeParams []string
	Clauses    []Clause
	DeclaredReturn SurfaceType
	Module     string // dotted module namespace, "" for top-level
}

// StructDecl is a user struct declaration, optionally generic.
type StructDecl struct {
	Name       string
	TypeParams []string
	Fields     []FieldDecl
	Deriving   []string // trait names from `deriving(...)`
}

type FieldDecl struct {
	Name string
	Type SurfaceType
}

// SumDecl is a user sum-type (enum) declaration, optionally generic.
type SumDecl struct {
	Name       string
	TypeParams []string
	Variants   []VariantDecl
	Deriving   []string
}

type VariantDecl struct {
	Name   string
	Fields []SurfaceType // positional payload types; empty for nullary variants
}
