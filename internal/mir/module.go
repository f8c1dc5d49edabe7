package mir

import "github.com/malphas-lang/malphas-lang/internal/mirtypes"

// Function is a single lowered function: a name, parameters, return
// type, and a single expression tree body (§3).
type Function struct {
	Name          string
	Params        []Param
	ReturnType    mirtypes.Type
	Body          Expr
	IsClosureFn   bool
	Captures      []CapturedVar
	HasTailCalls  bool
}

type Param struct {
	Name string
	Ty   mirtypes.Type
}

// StructDef is a lowered struct definition.
type StructDef struct {
	Name   string
	Fields []FieldDef
}

type FieldDef struct {
	Name string
	Ty   mirtypes.Type
}

// SumTypeDef is a lowered sum-type definition. Variant tags are dense,
// starting at 0 in declaration order (invariant, §3).
type SumTypeDef struct {
	Name     string
	Variants []VariantDef
}

type VariantDef struct {
	Name   string
	Fields []mirtypes.Type
	Tag    int
}

// MethodEntry is one row of a service dispatch table.
type MethodEntry struct {
	MethodTag int
	Handler   string
	ArgCount  int
}

// ServiceDispatch is the per-service-loop dispatch table (§4.8). Name is
// the service's registered process name, the key the runtime's
// mesh_service_call/mesh_service_cast primitives route client stub
// messages to.
type ServiceDispatch struct {
	Name         string
	LoopFuncName string
	Call         []MethodEntry
	Cast         []MethodEntry
}

// Module is the lowerer's output: functions, struct/sum definitions, an
// optional entry function name, and service dispatch tables.
type Module struct {
	Functions       []*Function
	Structs         []*StructDef
	SumTypes        []*SumTypeDef
	EntryFunction   string // "" if no entry; else always "mesh_main"
	ServiceDispatch []*ServiceDispatch
}

// FindFunction returns the function with the given name, if present.
func (m *Module) FindFunction(name string) (*Function, bool) {
	for _, fn := range m.Functions {
		if fn.Name == name {
			return fn, true
		}
	}
	return nil, false
}
