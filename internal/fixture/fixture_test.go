package fixture

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/malphas-lang/malphas-lang/internal/mir"
)

func addFixture() *File {
	return &File{
		Module: "test",
		Functions: []FnFixture{
			{
				Name:   "add",
				Public: true,
				Return: &TypeFixture{Name: "Int"},
				Clauses: []ClauseFixture{
					{
						Params: []NodeFixture{
							{Kind: "ident", Token: "a"},
							{Kind: "ident", Token: "b"},
						},
						Body: NodeFixture{
							Kind: "binop",
							Token: "+",
							Children: []NodeFixture{
								{Kind: "ident", Token: "a"},
								{Kind: "ident", Token: "b"},
							},
						},
					},
				},
			},
		},
	}
}

func TestBuildProducesFunctionDecl(t *testing.T) {
	f := addFixture()
	decls, typeMap, types, traits, imports := Build(f, "add.yaml")

	require.Len(t, decls.Functions, 1)
	require.Equal(t, "add", decls.Functions[0].Name)
	require.True(t, decls.Functions[0].IsPublic)
	require.NotNil(t, typeMap)
	require.NotNil(t, types)
	require.NotNil(t, traits)
	require.True(t, imports.PublicFunctions["add"])
}

func TestBuildRoundTripsThroughLowerer(t *testing.T) {
	f := addFixture()
	decls, typeMap, types, traits, imports := Build(f, "add.yaml")

	lowerer := mir.NewLowerer(typeMap, types, traits, imports)
	mod, err := lowerer.LowerModule(decls)
	require.NoError(t, err)
	require.Len(t, mod.Functions, 1)
	require.Equal(t, "add", mod.Functions[0].Name)
}

func TestBuildSupervisorGeneratesIDWhenOmitted(t *testing.T) {
	f := &File{
		Module: "test",
		Supervisors: []SupervisorFix{
			{
				Name:     "root_sup",
				Strategy: "one_for_one",
				Children: []ChildSpecFixture{
					{StartFuncName: "start_worker", Restart: "permanent"},
				},
			},
		},
	}
	decls, _, _, _, _ := Build(f, "sup.yaml")
	require.Len(t, decls.Supervisors, 1)
	require.NotEmpty(t, decls.Supervisors[0].Children[0].ID)
}

func TestServiceActorSupervisorExpandThroughLowerer(t *testing.T) {
	f := &File{
		Module: "test",
		Services: []ServiceFixture{
			{
				Name:     "Counter",
				InitBody: NodeFixture{Kind: "int_lit", Token: "0"},
				Methods: []MethodFixture{
					{
						Name: "get",
						Cast: false,
						Body: NodeFixture{Kind: "ident", Token: "state"},
						Return: &TypeFixture{Name: "Int"},
					},
				},
			},
		},
		Actors: []ActorFixture{
			{
				Name:     "Ping",
				InitBody: NodeFixture{Kind: "unit_lit"},
				ReceiveArms: []ClauseFixture{
					{
						Params: []NodeFixture{{Kind: "ident", Token: "msg"}},
						Body:   NodeFixture{Kind: "unit_lit"},
					},
				},
			},
		},
		Supervisors: []SupervisorFix{
			{
				Name:     "RootSup",
				Strategy: "one_for_one",
				Children: []ChildSpecFixture{
					{StartFuncName: "ping_spawn_init", Restart: "permanent"},
				},
			},
		},
	}

	decls, typeMap, types, traits, imports := Build(f, "svc.yaml")
	lowerer := mir.NewLowerer(typeMap, types, traits, imports)
	mod, err := lowerer.LowerModule(decls)
	require.NoError(t, err)

	names := map[string]bool{}
	for _, fn := range mod.Functions {
		names[fn.Name] = true
	}
	require.True(t, names["__service_Counter_init"], "expected generated service init function")
	require.True(t, names["__service_Counter_handle_get"], "expected generated service method handler")
	require.True(t, names["__service_Counter_call_get"], "expected generated service client stub")
	require.True(t, names["__service_Counter_loop"], "expected generated service mailbox loop")
	require.True(t, names["__service_Counter_start"], "expected generated service start function")
	require.True(t, names["Ping_spawn_init"], "expected generated actor init function")
	require.True(t, names["Ping_loop"], "expected generated actor mailbox loop")
	require.True(t, names["RootSup_start"], "expected generated supervisor start function")
}

func TestBuildSupervisorKeepsExplicitID(t *testing.T) {
	f := &File{
		Module: "test",
		Supervisors: []SupervisorFix{
			{
				Name:     "root_sup",
				Strategy: "one_for_one",
				Children: []ChildSpecFixture{
					{ID: "worker_1", StartFuncName: "start_worker", Restart: "permanent"},
				},
			},
		},
	}
	decls, _, _, _, _ := Build(f, "sup.yaml")
	require.Equal(t, "worker_1", decls.Supervisors[0].Children[0].ID)
}
