// Package fixture builds a lowering-ready mir.Decls plus its
// supporting registries from a declarative YAML description, standing
// in for the real lexer/parser/type-checker front-end the lowering
// core does not implement (those remain external collaborators). It
// lets `meshc lower` exercise the full pipeline from the command line
// without a Mesh source parser.
package fixture

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/malphas-lang/malphas-lang/internal/cst"
	"github.com/malphas-lang/malphas-lang/internal/mir"
)

// File is the top-level shape of a fixture YAML document.
type File struct {
	Module      string           `yaml:"module"`
	Functions   []FnFixture      `yaml:"functions,omitempty"`
	Structs     []StructFixture  `yaml:"structs,omitempty"`
	Sums        []SumFixture     `yaml:"sums,omitempty"`
	Services    []ServiceFixture `yaml:"services,omitempty"`
	Actors      []ActorFixture   `yaml:"actors,omitempty"`
	Supervisors []SupervisorFix  `yaml:"supervisors,omitempty"`
}

type FnFixture struct {
	Name       string          `yaml:"name"`
	Public     bool            `yaml:"public,omitempty"`
	TypeParams []string        `yaml:"type_params,omitempty"`
	Clauses    []ClauseFixture `yaml:"clauses"`
	Return     *TypeFixture    `yaml:"return,omitempty"`
}

type ClauseFixture struct {
	Params []NodeFixture `yaml:"params,omitempty"`
	Guard  *NodeFixture  `yaml:"guard,omitempty"`
	Body   NodeFixture   `yaml:"body"`
}

// NodeFixture mirrors cst.Node one field at a time so a fixture author
// writes the same tree shape the lowerer consumes.
type NodeFixture struct {
	Kind     string        `yaml:"kind"`
	Token    string        `yaml:"token,omitempty"`
	Children []NodeFixture `yaml:"children,omitempty"`
}

type TypeFixture struct {
	// Form is one of "con", "app", "fun", "tuple", "var". Defaults to
	// "con" when omitted, the common case.
	Form   string        `yaml:"form,omitempty"`
	Name   string        `yaml:"name,omitempty"`
	Args   []TypeFixture `yaml:"args,omitempty"`
	Params []TypeFixture `yaml:"params,omitempty"`
	Result *TypeFixture  `yaml:"result,omitempty"`
	Elems  []TypeFixture `yaml:"elems,omitempty"`
}

type FieldFixture struct {
	Name string      `yaml:"name"`
	Type TypeFixture `yaml:"type"`
}

type StructFixture struct {
	Name       string         `yaml:"name"`
	TypeParams []string       `yaml:"type_params,omitempty"`
	Fields     []FieldFixture `yaml:"fields,omitempty"`
	Deriving   []string       `yaml:"deriving,omitempty"`
}

type VariantFixture struct {
	Name   string        `yaml:"name"`
	Fields []TypeFixture `yaml:"fields,omitempty"`
}

type SumFixture struct {
	Name       string           `yaml:"name"`
	TypeParams []string         `yaml:"type_params,omitempty"`
	Variants   []VariantFixture `yaml:"variants"`
	Deriving   []string         `yaml:"deriving,omitempty"`
}

type MethodFixture struct {
	Name   string        `yaml:"name"`
	Cast   bool          `yaml:"cast,omitempty"` // false means call
	Params []NodeFixture `yaml:"params,omitempty"`
	Body   NodeFixture   `yaml:"body"`
	Return *TypeFixture  `yaml:"return,omitempty"`
}

type ServiceFixture struct {
	Name       string          `yaml:"name"`
	InitParams []NodeFixture   `yaml:"init_params,omitempty"`
	InitBody   NodeFixture     `yaml:"init_body"`
	Methods    []MethodFixture `yaml:"methods"`
}

type ActorFixture struct {
	Name          string          `yaml:"name"`
	SpawnParams   []NodeFixture   `yaml:"spawn_params,omitempty"`
	InitBody      NodeFixture     `yaml:"init_body"`
	ReceiveArms   []ClauseFixture `yaml:"receive_arms"`
	TerminateBody *NodeFixture    `yaml:"terminate_body,omitempty"`
}

type ChildSpecFixture struct {
	ID              string `yaml:"id"`
	StartFuncName   string `yaml:"start_func_name"`
	Restart         string `yaml:"restart"`
	ShutdownTimeout int    `yaml:"shutdown_timeout_ms"`
}

type SupervisorFix struct {
	Name          string             `yaml:"name"`
	Strategy      string             `yaml:"strategy"`
	MaxRestarts   int                `yaml:"max_restarts"`
	MaxWindowSecs int                `yaml:"max_window_secs"`
	Children      []ChildSpecFixture `yaml:"children"`
}

// Load reads and parses a fixture YAML file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture %s: %w", path, err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing fixture %s: %w", path, err)
	}
	return &f, nil
}

// builder accumulates the registries a fixture populates as it builds
// cst nodes, since struct/sum registration has to happen before
// function bodies are built for forward references to resolve.
type builder struct {
	filename string
	line     int
	types    *cst.TypeRegistry
	traits   *cst.TraitRegistry
	imports  *cst.ImportEnv
}

// Build converts a parsed fixture into the Decls and registries
// mir.Lowerer needs. The filename is attached to every synthesized
// span for diagnostics.
func Build(f *File, filename string) (mir.Decls, *cst.TypeMap, *cst.TypeRegistry, *cst.TraitRegistry, *cst.ImportEnv) {
	b := &builder{
		filename: filename,
		types:    cst.NewTypeRegistry(),
		traits:   cst.NewTraitRegistry(),
		imports:  cst.NewImportEnv(f.Module),
	}

	decls := mir.Decls{}

	for _, s := range f.Structs {
		sd := b.buildStruct(s)
		b.types.AddStruct(sd)
		decls.Structs = append(decls.Structs, sd)
	}
	for _, s := range f.Sums {
		sd := b.buildSum(s)
		b.types.AddSum(sd)
		decls.Sums = append(decls.Sums, sd)
	}
	for _, fn := range f.Functions {
		d := b.buildFn(fn)
		if d.IsPublic {
			b.imports.PublicFunctions[d.Name] = true
		}
		decls.Functions = append(decls.Functions, d)
	}
	for _, svc := range f.Services {
		decls.Services = append(decls.Services, b.buildService(svc))
	}
	for _, act := range f.Actors {
		decls.Actors = append(decls.Actors, b.buildActor(act))
	}
	for _, sup := range f.Supervisors {
		decls.Supervisors = append(decls.Supervisors, b.buildSupervisor(sup))
	}

	// A fixture carries no source text to derive a TypeMap from, so the
	// TypeMap returned is empty; the lowerer types any node without a
	// TypeMap entry as Unit.
	return decls, cst.NewTypeMap(), b.types, b.traits, b.imports
}

func (b *builder) span() cst.Span {
	b.line++
	return cst.Span{Filename: b.filename, Line: b.line, Column: 1, Start: b.line, End: b.line}
}

func (b *builder) buildNode(n NodeFixture) *cst.Node {
	node := &cst.Node{
		Kind:  cst.Kind(n.Kind),
		Token: n.Token,
		Span:  b.span(),
	}
	for _, c := range n.Children {
		node.Children = append(node.Children, b.buildNode(c))
	}
	return node
}

func (b *builder) buildNodes(ns []NodeFixture) []*cst.Node {
	out := make([]*cst.Node, len(ns))
	for i, n := range ns {
		out[i] = b.buildNode(n)
	}
	return out
}

func (b *builder) buildType(t TypeFixture) cst.SurfaceType {
	switch t.Form {
	case "app":
		args := make([]cst.SurfaceType, len(t.Args))
		for i, a := range t.Args {
			args[i] = b.buildType(a)
		}
		return cst.App{Head: cst.Con{Name: t.Name}, Args: args}
	case "fun":
		params := make([]cst.SurfaceType, len(t.Params))
		for i, p := range t.Params {
			params[i] = b.buildType(p)
		}
		result := cst.SurfaceType(cst.Con{Name: "Unit"})
		if t.Result != nil {
			result = b.buildType(*t.Result)
		}
		return cst.Fun{Params: params, Result: result}
	case "tuple":
		elems := make([]cst.SurfaceType, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = b.buildType(e)
		}
		return cst.Tuple{Elems: elems}
	case "var":
		return cst.Var{ID: t.Name}
	default:
		return cst.Con{Name: t.Name}
	}
}

func (b *builder) buildClauses(cs []ClauseFixture) []cst.Clause {
	out := make([]cst.Clause, len(cs))
	for i, c := range cs {
		clause := cst.Clause{
			Params: b.buildNodes(c.Params),
			Body:   b.buildNode(c.Body),
			Span:   b.span(),
		}
		if c.Guard != nil {
			clause.Guard = b.buildNode(*c.Guard)
		}
		out[i] = clause
	}
	return out
}

func (b *builder) buildFn(fn FnFixture) *cst.FnDecl {
	d := &cst.FnDecl{
		Name:       fn.Name,
		IsPublic:   fn.Public,
		TypeParams: fn.TypeParams,
		Clauses:    b.buildClauses(fn.Clauses),
		Module:     b.imports.ModuleName,
	}
	if fn.Return != nil {
		d.DeclaredReturn = b.buildType(*fn.Return)
	} else {
		d.DeclaredReturn = cst.Con{Name: "Unit"}
	}
	return d
}

func (b *builder) buildStruct(s StructFixture) *cst.StructDecl {
	fields := make([]cst.FieldDecl, len(s.Fields))
	for i, f := range s.Fields {
		fields[i] = cst.FieldDecl{Name: f.Name, Type: b.buildType(f.Type)}
	}
	return &cst.StructDecl{
		Name:       s.Name,
		TypeParams: s.TypeParams,
		Fields:     fields,
		Deriving:   s.Deriving,
	}
}

func (b *builder) buildSum(s SumFixture) *cst.SumDecl {
	variants := make([]cst.VariantDecl, len(s.Variants))
	for i, v := range s.Variants {
		fields := make([]cst.SurfaceType, len(v.Fields))
		for j, f := range v.Fields {
			fields[j] = b.buildType(f)
		}
		variants[i] = cst.VariantDecl{Name: v.Name, Fields: fields}
	}
	return &cst.SumDecl{
		Name:       s.Name,
		TypeParams: s.TypeParams,
		Variants:   variants,
		Deriving:   s.Deriving,
	}
}

func (b *builder) buildService(s ServiceFixture) *mir.ServiceDecl {
	methods := make([]mir.ServiceMethod, len(s.Methods))
	for i, m := range s.Methods {
		sm := mir.ServiceMethod{
			Name:   m.Name,
			IsCall: !m.Cast,
			Params: b.buildNodes(m.Params),
			Body:   b.buildNode(m.Body),
		}
		if m.Return != nil {
			sm.ReturnType = b.buildType(*m.Return)
		} else {
			sm.ReturnType = cst.Con{Name: "Unit"}
		}
		methods[i] = sm
	}
	return &mir.ServiceDecl{
		Name:       s.Name,
		InitParams: b.buildNodes(s.InitParams),
		InitBody:   b.buildNode(s.InitBody),
		Methods:    methods,
	}
}

func (b *builder) buildActor(a ActorFixture) *mir.ActorDecl {
	d := &mir.ActorDecl{
		Name:        a.Name,
		SpawnParams: b.buildNodes(a.SpawnParams),
		InitBody:    b.buildNode(a.InitBody),
		ReceiveArms: b.buildClauses(a.ReceiveArms),
	}
	if a.TerminateBody != nil {
		d.TerminateBody = b.buildNode(*a.TerminateBody)
	}
	return d
}

func (b *builder) buildSupervisor(s SupervisorFix) *mir.SupervisorDecl {
	children := make([]mir.ChildSpec, len(s.Children))
	for i, c := range s.Children {
		id := c.ID
		if id == "" {
			// A fixture author naming no explicit child id still needs
			// one unique per process tree; fall back to a generated one
			// rather than leaving children indistinguishable.
			id = uuid.NewString()
		}
		children[i] = mir.ChildSpec{
			ID:              id,
			StartFuncName:   c.StartFuncName,
			Restart:         mir.RestartPolicy(c.Restart),
			ShutdownTimeout: c.ShutdownTimeout,
		}
	}
	return &mir.SupervisorDecl{
		Name:          s.Name,
		Strategy:      mir.SupervisorStrategy(s.Strategy),
		MaxRestarts:   s.MaxRestarts,
		MaxWindowSecs: s.MaxWindowSecs,
		Children:      children,
	}
}
