package mir

import (
	"fmt"

	"github.com/malphas-lang/malphas-lang/internal/cst"
	"github.com/malphas-lang/malphas-lang/internal/diag"
	"github.com/malphas-lang/malphas-lang/internal/mirtypes"
)

// KnownFunc describes a runtime primitive the lowerer can call directly:
// its parameter and result MIR types, seeded into the known-function
// table so the lowerer can (a) distinguish static calls from dynamic
// closure calls and (b) supply accurate result types when the
// type-checker left a call under-specified (§4.3 "Known-function table").
type KnownFunc struct {
	Params []mirtypes.Type
	Result mirtypes.Type
}

// DefaultMonomorphizationDepthBound is the default compile-time safety net
// against runaway generic instantiation (§7). Overridable via config.
const DefaultMonomorphizationDepthBound = 64

// Lowerer holds everything the lowering pass needs for the duration of
// one compilation. It is stateful only within that compilation: scope
// stacks, freshness counters, and monomorphization/wrapper memoization
// sets. Nothing here is process-wide (§5).
type Lowerer struct {
	TypeMap   *cst.TypeMap
	Types     *cst.TypeRegistry
	Traits    *cst.TraitRegistry
	Imports   *cst.ImportEnv

	MonoDepthBound int

	Diags *diag.Bag

	knownFuncs map[string]KnownFunc

	// scope is a stack of lexical scopes mapping variable name to its MIR
	// type; used by the free-variable scan in the closure lifter and by
	// shadowing-aware lookups elsewhere.
	scope []map[string]mirtypes.Type

	freshCounter int

	// generatedTraitFns deduplicates trait-function synthesis by
	// monomorphization key "Trait__method__Type" (§3 invariant).
	generatedTraitFns map[string]bool

	// wrapperCache deduplicates callback wrappers by a structural key
	// derived from the element type (§4.4).
	wrapperCache map[string]string

	// extraFuncs accumulates MIR functions synthesized during lowering
	// (lifted closures, callback and stringify wrappers); merged into the
	// module's function list at the end of LowerModule.
	extraFuncs []*Function

	currentFuncName   string // for self-tail-call detection (§4.7)

	// monoDepth is the current generic-instantiation recursion depth;
	// typeSubst is the type-parameter substitution in effect while
	// resolving the fields of the instantiation at that depth. Both are
	// saved/restored around monomorphizeStruct/monomorphizeSum so nested
	// instantiations (a generic struct field itself a generic struct)
	// nest correctly (§7).
	monoDepth int
	typeSubst map[string]mirtypes.Type

	// monoStructs/monoSums dedupe monomorphized definitions by mangled
	// name (§3 invariant: one MirStructDef per instantiation); pending*
	// accumulate the definitions themselves until LowerModule appends
	// them to the module.
	monoStructs      map[string]bool
	monoSums         map[string]bool
	pendingMonoStructs []*StructDef
	pendingMonoSums    []*SumTypeDef

	// currentReturnSurfaceType and currentReturnType track the enclosing
	// function's declared return type while lowering its body, consulted
	// by try-expression desugaring (§4.3) to pick the Result/Option arm
	// shape and the target error type for From conversion.
	currentReturnSurfaceType cst.SurfaceType
	currentReturnType        mirtypes.Type

	// actorTerminates records which declared actors have a terminate
	// clause, populated from decls.Actors before function bodies are
	// lowered so an ActorSpawn expression (lowered well before actor
	// expansion runs) can still look up whether its target has one
	// (§4.8).
	actorTerminates map[string]bool

	// serviceStubs maps "Service.method" to the generated client-stub
	// function name (`__service_S_call_M`/`__service_S_cast_M`),
	// populated from decls.Services before function bodies are lowered
	// so lowerMethodCall's `S.method(args)` resolution (§4.8) has
	// somewhere to look the name up instead of recomputing it inline.
	serviceStubs map[string]string
}

// NewLowerer constructs a Lowerer over the checker's read-only views.
func NewLowerer(tm *cst.TypeMap, types *cst.TypeRegistry, traits *cst.TraitRegistry, imports *cst.ImportEnv) *Lowerer {
	l := &Lowerer{
		TypeMap:           tm,
		Types:             types,
		Traits:            traits,
		Imports:           imports,
		MonoDepthBound:    DefaultMonomorphizationDepthBound,
		Diags:             diag.NewBag(),
		generatedTraitFns: make(map[string]bool),
		wrapperCache:      make(map[string]string),
		monoStructs:       make(map[string]bool),
		monoSums:          make(map[string]bool),
	}
	l.knownFuncs = defaultKnownFunctions()
	l.pushScope()
	return l
}

func (l *Lowerer) pushScope() { l.scope = append(l.scope, make(map[string]mirtypes.Type)) }
func (l *Lowerer) popScope()  { l.scope = l.scope[:len(l.scope)-1] }

func (l *Lowerer) bind(name string, ty mirtypes.Type) {
	l.scope[len(l.scope)-1][name] = ty
}

// lookupVar searches the scope stack innermost-first.
func (l *Lowerer) lookupVar(name string) (mirtypes.Type, bool) {
	for i := len(l.scope) - 1; i >= 0; i-- {
		if ty, ok := l.scope[i][name]; ok {
			return ty, true
		}
	}
	return mirtypes.Type{}, false
}

func (l *Lowerer) fresh(prefix string) string {
	l.freshCounter++
	return fmt.Sprintf("%s_%d", prefix, l.freshCounter)
}

// QualifyName applies §6's name-qualification rule: private module
// functions get `Module__` (dots replaced by underscores); public
// functions, runtime primitives (`mesh_` prefix), and trait mangles pass
// through unchanged. `main` renames to `mesh_main` exactly once.
func (l *Lowerer) QualifyName(decl *cst.FnDecl) string {
	if decl.Name == "main" {
		return "mesh_main"
	}
	if decl.IsPublic {
		return decl.Name
	}
	module := l.Imports.ModuleName
	if module == "" {
		return decl.Name
	}
	return moduleUnderscored(module) + "__" + decl.Name
}

func moduleUnderscored(module string) string {
	out := make([]byte, len(module))
	for i := 0; i < len(module); i++ {
		if module[i] == '.' {
			out[i] = '_'
		} else {
			out[i] = module[i]
		}
	}
	return string(out)
}

// LowerModule runs the full pipeline over every top-level declaration:
// struct/sum definitions are registered, functions are lowered
// (type resolution → pattern lowering → expression lowering →
// multi-clause collapsing → closure lifting → tail-call rewriting),
// deriving clauses synthesize trait functions, and service/actor/
// supervisor declarations expand into their function clusters.
func (l *Lowerer) LowerModule(decls Decls) (*Module, error) {
	mod := &Module{}

	l.actorTerminates = make(map[string]bool, len(decls.Actors))
	for _, act := range decls.Actors {
		l.actorTerminates[act.Name] = act.TerminateBody != nil
	}

	l.serviceStubs = make(map[string]string)
	for _, svc := range decls.Services {
		for _, m := range svc.Methods {
			l.serviceStubs[svc.Name+"."+m.Name] = serviceStubName(svc.Name, m.Name, m.IsCall)
		}
	}

	for _, sd := range decls.Structs {
		// Generic structs never get a bare, erased MirStructDef: only
		// concrete instantiations do, emitted on demand by
		// monomorphizeStruct as ResolveType encounters them (§3, §4.4).
		if isGeneric(sd.TypeParams) {
			continue
		}
		mirStruct, err := l.lowerStructDef(sd)
		if err != nil {
			return nil, fmt.Errorf("lowering struct %s: %w", sd.Name, err)
		}
		mod.Structs = append(mod.Structs, mirStruct)
	}
	for _, sum := range decls.Sums {
		if isGeneric(sum.TypeParams) {
			continue
		}
		mirSum, err := l.lowerSumDef(sum)
		if err != nil {
			return nil, fmt.Errorf("lowering sum type %s: %w", sum.Name, err)
		}
		mod.SumTypes = append(mod.SumTypes, mirSum)
	}

	grouped := groupClauses(decls.Functions)
	for _, group := range grouped {
		fn, err := l.lowerFunctionGroup(group)
		if err != nil {
			return nil, fmt.Errorf("lowering function %s: %w", group[0].Name, err)
		}
		mod.Functions = append(mod.Functions, fn)
		if fn.Name == "mesh_main" {
			mod.EntryFunction = "mesh_main"
		}
	}

	for _, sd := range decls.Structs {
		if !isGeneric(sd.TypeParams) {
			l.synthesizeDeriving(mod, sd.Name, sd.Deriving, structDerivingShape(sd))
		}
	}
	for _, sum := range decls.Sums {
		if !isGeneric(sum.TypeParams) {
			l.synthesizeDeriving(mod, sum.Name, sum.Deriving, sumDerivingShape(sum))
		}
	}

	for _, svc := range decls.Services {
		l.expandService(mod, svc)
	}
	for _, act := range decls.Actors {
		l.expandActor(mod, act)
	}
	for _, sup := range decls.Supervisors {
		l.expandSupervisor(mod, sup)
	}

	mod.Functions = append(mod.Functions, l.extraFuncs...)
	mod.Structs = append(mod.Structs, l.pendingMonoStructs...)
	mod.SumTypes = append(mod.SumTypes, l.pendingMonoSums...)

	for _, fn := range mod.Functions {
		rewriteTailCalls(fn)
	}

	return mod, nil
}

func isGeneric(typeParams []string) bool { return len(typeParams) > 0 }

// Decls bundles the top-level declarations LowerModule consumes. It
// stands in for the parsed file the real front-end would hand the
// lowerer.
type Decls struct {
	Functions   []*cst.FnDecl
	Structs     []*cst.StructDecl
	Sums        []*cst.SumDecl
	Services    []*ServiceDecl
	Actors      []*ActorDecl
	Supervisors []*SupervisorDecl
}
