package mir

import (
	"github.com/malphas-lang/malphas-lang/internal/cst"
	"github.com/malphas-lang/malphas-lang/internal/mirtypes"
)

// lowerListLit lowers `[e0, e1, ...]` to a ListLit; the backend expands
// it to a stack array followed by mesh_list_from_array (§3).
func (l *Lowerer) lowerListLit(n *cst.Node, ty mirtypes.Type) Expr {
	elems := make([]Expr, len(n.Children))
	for i, c := range n.Children {
		elems[i] = l.LowerExpr(c)
	}
	return &ListLit{typed: typed{Ty: ty}, Elems: elems}
}

// lowerMapLit folds `%{k0: v0, k1: v1, ...}` into a left-to-right chain
// of mesh_map_insert calls over a freshly tagged map (§4.3). Each pair
// node carries its key as Token's child expression via two children:
// [keyNode, valueNode].
func (l *Lowerer) lowerMapLit(n *cst.Node, ty mirtypes.Type) Expr {
	keyTag := mapKeyTypeTag(l.typeOfNode(n.Children[0].Children[0]))
	acc := Expr(&Call{
		typed: typed{Ty: mirtypes.NewPtr()},
		Func:  "mesh_map_new_typed",
		Args:  []Expr{&IntLit{typed: typed{Ty: mirtypes.NewInt()}, Value: int64(keyTag)}},
	})
	for _, pair := range n.Children {
		key := l.LowerExpr(pair.Children[0])
		val := l.LowerExpr(pair.Children[1])
		acc = &Call{typed: typed{Ty: mirtypes.NewPtr()}, Func: "mesh_map_insert", Args: []Expr{acc, key, val}}
	}
	return &Call{typed: typed{Ty: ty}, Func: "mesh_map_tag_string", Args: []Expr{acc}}
}

// mapKeyTypeTag assigns the runtime's key-type discriminant, kept
// independent of the value type so the map's hashing/equality strategy
// never depends on what the map stores (§4 supplemented features).
func mapKeyTypeTag(keyTy mirtypes.Type) int {
	switch keyTy.Kind {
	case mirtypes.Int:
		return 0
	case mirtypes.Float:
		return 1
	case mirtypes.Bool:
		return 2
	case mirtypes.String:
		return 3
	default:
		return 4
	}
}

// lowerSetLit folds `#{e0, e1, ...}` into a chain of mesh_set_add calls
// over a freshly created set (§4.3).
func (l *Lowerer) lowerSetLit(n *cst.Node, ty mirtypes.Type) Expr {
	acc := Expr(&Call{typed: typed{Ty: ty}, Func: "mesh_set_new"})
	for _, c := range n.Children {
		elem := l.LowerExpr(c)
		acc = &Call{typed: typed{Ty: ty}, Func: "mesh_set_add", Args: []Expr{acc, elem}}
	}
	return acc
}

// lowerTupleLit lowers `(e0, e1, ...)` to the variadic tuple-construction
// primitive; the backend packs the fixed-arity payload inline (§4.3).
func (l *Lowerer) lowerTupleLit(n *cst.Node, ty mirtypes.Type) Expr {
	elems := make([]Expr, len(n.Children))
	for i, c := range n.Children {
		elems[i] = l.LowerExpr(c)
	}
	return &Call{typed: typed{Ty: ty}, Func: "__mesh_make_tuple", Args: elems}
}
