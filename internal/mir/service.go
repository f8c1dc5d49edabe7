package mir

import (
	"github.com/malphas-lang/malphas-lang/internal/cst"
	"github.com/malphas-lang/malphas-lang/internal/mirtypes"
)

// ServiceMethod is one `call` or `cast` handler declared inside a
// service block (§4.8).
type ServiceMethod struct {
	Name       string
	IsCall     bool // false for cast
	Params     []*cst.Node
	Body       *cst.Node
	ReturnType cst.SurfaceType // only meaningful for call methods
}

// ServiceDecl is a declarative service construct: an init clause plus a
// set of call/cast method clauses dispatched by a generated loop (§4.8).
type ServiceDecl struct {
	Name       string
	InitParams []*cst.Node
	InitBody   *cst.Node
	Methods    []ServiceMethod
}

// ActorDecl is a declarative actor construct: a spawn/init clause, a
// set of receive clauses matching mailbox messages, and an optional
// terminate clause (§4.8).
type ActorDecl struct {
	Name          string
	SpawnParams   []*cst.Node
	InitBody      *cst.Node
	ReceiveArms   []cst.Clause
	TerminateBody *cst.Node
}

// SupervisorDecl is a declarative supervisor construct (§4.8).
type SupervisorDecl struct {
	Name          string
	Strategy      SupervisorStrategy
	MaxRestarts   int
	MaxWindowSecs int
	Children      []ChildSpec
}

// serviceStubName is the single source of truth for the client-stub
// naming convention (§4.8's mandated `__service_S_*` prefix): used both
// to populate Lowerer.serviceStubs up front (lower_expr_calls.go's
// lowerMethodCall resolves `S.method(args)` through that map) and to
// name the stub function expandService actually emits.
func serviceStubName(svcName, method string, isCall bool) string {
	kind := "cast"
	if isCall {
		kind = "call"
	}
	return "__service_" + svcName + "_" + kind + "_" + method
}

// expandService lowers a service declaration into its full §4.8
// function cluster: an init function, one handler per call/cast method,
// a mailbox loop, a start function spawning the service under its
// registered name, and one client stub per method (`__service_S_call_M`
// / `__service_S_cast_M`) that sends to the running process rather than
// calling the handler directly.
func (l *Lowerer) expandService(mod *Module, svc *ServiceDecl) {
	initName := "__service_" + svc.Name + "_init"
	initParams := make([]Param, len(svc.InitParams))
	l.pushScope()
	for i, p := range svc.InitParams {
		pty := l.typeOfNode(p)
		initParams[i] = Param{Name: p.Token, Ty: pty}
		l.bind(p.Token, pty)
	}
	initBody := l.LowerExpr(svc.InitBody)
	l.popScope()
	stateTy := initBody.Type()
	mod.Functions = append(mod.Functions, &Function{Name: initName, Params: initParams, ReturnType: stateTy, Body: initBody})

	loopName := "__service_" + svc.Name + "_loop"
	dispatch := &ServiceDispatch{Name: svc.Name, LoopFuncName: loopName}

	callTag, castTag := 0, 0
	for _, m := range svc.Methods {
		handlerName := "__service_" + svc.Name + "_handle_" + m.Name
		l.pushScope()
		stateParam := Param{Name: "state", Ty: mirtypes.NewPtr()}
		l.bind("state", mirtypes.NewPtr())
		params := []Param{stateParam}
		for _, p := range m.Params {
			pty := l.typeOfNode(p)
			params = append(params, Param{Name: p.Token, Ty: pty})
			l.bind(p.Token, pty)
		}
		resultTy := mirtypes.NewPtr()
		if m.IsCall {
			resultTy = l.ResolveType(m.ReturnType)
		}
		body := l.LowerExpr(m.Body)
		l.popScope()
		mod.Functions = append(mod.Functions, &Function{Name: handlerName, Params: params, ReturnType: resultTy, Body: body})

		entry := MethodEntry{Handler: handlerName, ArgCount: len(m.Params)}
		var tag int
		if m.IsCall {
			tag = callTag
			entry.MethodTag = tag
			callTag++
			dispatch.Call = append(dispatch.Call, entry)
		} else {
			tag = castTag
			entry.MethodTag = tag
			castTag++
			dispatch.Cast = append(dispatch.Cast, entry)
		}
		l.emitServiceStub(mod, svc.Name, m, tag)
	}
	mod.ServiceDispatch = append(mod.ServiceDispatch, dispatch)

	mod.Functions = append(mod.Functions, &Function{
		Name:       loopName,
		Params:     []Param{{Name: "state", Ty: mirtypes.NewPtr()}},
		ReturnType: mirtypes.NewUnit(),
		Body: &Call{
			typed: typed{Ty: mirtypes.NewUnit()},
			Func:  "mesh_service_run_loop",
			Args: []Expr{
				&VarRef{typed: typed{Ty: mirtypes.NewPtr()}, Name: "state"},
				&StringLit{typed: typed{Ty: mirtypes.NewString()}, Value: svc.Name},
			},
		},
	})

	startName := "__service_" + svc.Name + "_start"
	startArgs := make([]Expr, len(initParams))
	for i, p := range initParams {
		startArgs[i] = &VarRef{typed: typed{Ty: p.Ty}, Name: p.Name}
	}
	initParamTys := make([]mirtypes.Type, len(initParams))
	for i, p := range initParams {
		initParamTys[i] = p.Ty
	}
	initFnRef := &VarRef{typed: typed{Ty: mirtypes.NewFnPtr(initParamTys, stateTy)}, Name: initName}
	loopFnRef := &VarRef{typed: typed{Ty: mirtypes.NewFnPtr([]mirtypes.Type{mirtypes.NewPtr()}, mirtypes.NewUnit())}, Name: loopName}
	spawnArgs := append([]Expr{
		&StringLit{typed: typed{Ty: mirtypes.NewString()}, Value: svc.Name},
		initFnRef,
		loopFnRef,
	}, startArgs...)
	mod.Functions = append(mod.Functions, &Function{
		Name:       startName,
		Params:     initParams,
		ReturnType: mirtypes.NewPid(),
		Body:       &Call{typed: typed{Ty: mirtypes.NewPid()}, Func: "mesh_service_spawn", Args: spawnArgs},
	})
}

// emitServiceStub builds the client-facing `__service_S_call_M` /
// `__service_S_cast_M` function a `Service.method(args)` call site
// resolves to (§4.8): it sends to the service's registered name plus
// the method's dispatch tag, rather than invoking the handler directly,
// since the handler only ever runs inside the service's own loop.
func (l *Lowerer) emitServiceStub(mod *Module, svcName string, m ServiceMethod, tag int) {
	stubName := serviceStubName(svcName, m.Name, m.IsCall)
	params := make([]Param, 0, len(m.Params))
	args := []Expr{
		&StringLit{typed: typed{Ty: mirtypes.NewString()}, Value: svcName},
		&IntLit{typed: typed{Ty: mirtypes.NewInt()}, Value: int64(tag)},
	}
	for _, p := range m.Params {
		pty := l.typeOfNode(p)
		params = append(params, Param{Name: p.Token, Ty: pty})
		args = append(args, &VarRef{typed: typed{Ty: pty}, Name: p.Token})
	}

	if m.IsCall {
		resultTy := l.ResolveType(m.ReturnType)
		mod.Functions = append(mod.Functions, &Function{
			Name: stubName, Params: params, ReturnType: resultTy,
			Body: &Call{typed: typed{Ty: resultTy}, Func: "mesh_service_call", Args: args},
		})
		return
	}
	mod.Functions = append(mod.Functions, &Function{
		Name: stubName, Params: params, ReturnType: mirtypes.NewUnit(),
		Body: &Call{typed: typed{Ty: mirtypes.NewUnit()}, Func: "mesh_service_cast", Args: args},
	})
}

// expandActor lowers an actor declaration into a spawn-init function and
// a mailbox loop function built from an ActorReceive over the declared
// clauses, plus a terminate wrapper when one was declared (§4.8).
func (l *Lowerer) expandActor(mod *Module, act *ActorDecl) {
	initName := act.Name + "_spawn_init"
	l.pushScope()
	initParams := make([]Param, len(act.SpawnParams))
	for i, p := range act.SpawnParams {
		pty := l.typeOfNode(p)
		initParams[i] = Param{Name: p.Token, Ty: pty}
		l.bind(p.Token, pty)
	}
	initBody := l.LowerExpr(act.InitBody)
	l.popScope()
	mod.Functions = append(mod.Functions, &Function{Name: initName, Params: initParams, ReturnType: initBody.Type(), Body: initBody})

	loopName := act.Name + "_loop"
	l.pushScope()
	l.bind("state", mirtypes.NewPtr())
	arms := make([]MatchArm, 0, len(act.ReceiveArms))
	for _, c := range act.ReceiveArms {
		l.pushScope()
		pat := l.LowerPattern(c.Params[0], mirtypes.Type{})
		var guard Expr
		if c.Guard != nil {
			guard = l.LowerExpr(c.Guard)
		}
		body := l.LowerExpr(c.Body)
		l.popScope()
		arms = append(arms, MatchArm{Pattern: pat, Guard: guard, Body: body})
	}
	loopBody := &ActorReceive{typed: typed{Ty: mirtypes.NewUnit()}, Arms: arms}
	l.popScope()
	mod.Functions = append(mod.Functions, &Function{
		Name:       loopName,
		Params:     []Param{{Name: "state", Ty: mirtypes.NewPtr()}},
		ReturnType: mirtypes.NewUnit(),
		Body:       loopBody,
	})

	if act.TerminateBody != nil {
		l.pushScope()
		l.bind("state", mirtypes.NewPtr())
		l.bind("reason", mirtypes.NewPtr())
		body := l.LowerExpr(act.TerminateBody)
		l.popScope()
		mod.Functions = append(mod.Functions, &Function{
			Name: "__terminate_" + act.Name,
			Params: []Param{
				{Name: "state", Ty: mirtypes.NewPtr()},
				{Name: "reason", Ty: mirtypes.NewPtr()},
			},
			ReturnType: mirtypes.NewUnit(),
			Body:       body,
		})
	}
}

// expandSupervisor lowers a supervisor declaration into a zero-arg start
// function whose body is a SupervisorStart literal (§4.8); the actor
// runtime reads it to build the initial child set and restart policy.
func (l *Lowerer) expandSupervisor(mod *Module, sup *SupervisorDecl) {
	body := &SupervisorStart{
		typed:         typed{Ty: mirtypes.NewUnit()},
		Strategy:      sup.Strategy,
		MaxRestarts:   sup.MaxRestarts,
		MaxWindowSecs: sup.MaxWindowSecs,
		Children:      sup.Children,
	}
	mod.Functions = append(mod.Functions, &Function{
		Name:       sup.Name + "_start",
		ReturnType: mirtypes.NewUnit(),
		Body:       body,
	})
}
