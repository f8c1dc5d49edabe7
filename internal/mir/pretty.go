package mir

import (
	"fmt"
	"strings"
)

// PrettyPrint returns a human-readable rendering of a MIR module:
// structs, sum types, then functions with their dispatch tables noted.
// Written for this package's tree-shaped Expr (§3) rather than adapted
// from the teacher's block/terminator printer — there are no basic
// blocks or terminators to walk, only nested expressions.
func (m *Module) PrettyPrint() string {
	var b strings.Builder
	for _, sd := range m.Structs {
		b.WriteString(sd.prettyPrint())
		b.WriteString("\n\n")
	}
	for _, sd := range m.SumTypes {
		b.WriteString(sd.prettyPrint())
		b.WriteString("\n\n")
	}
	for i, fn := range m.Functions {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(fn.PrettyPrint())
	}
	for _, disp := range m.ServiceDispatch {
		b.WriteString("\n\n")
		b.WriteString(disp.prettyPrint())
	}
	return b.String()
}

func (sd *StructDef) prettyPrint() string {
	fields := make([]string, len(sd.Fields))
	for i, f := range sd.Fields {
		fields[i] = fmt.Sprintf("%s: %s", f.Name, f.Ty.String())
	}
	return fmt.Sprintf("struct %s { %s }", sd.Name, strings.Join(fields, ", "))
}

func (sumd *SumTypeDef) prettyPrint() string {
	variants := make([]string, len(sumd.Variants))
	for i, v := range sumd.Variants {
		fieldTys := make([]string, len(v.Fields))
		for j, f := range v.Fields {
			fieldTys[j] = f.String()
		}
		if len(fieldTys) == 0 {
			variants[i] = fmt.Sprintf("%s#%d", v.Name, v.Tag)
		} else {
			variants[i] = fmt.Sprintf("%s#%d(%s)", v.Name, v.Tag, strings.Join(fieldTys, ", "))
		}
	}
	return fmt.Sprintf("sum %s { %s }", sumd.Name, strings.Join(variants, " | "))
}

func (disp *ServiceDispatch) prettyPrint() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("dispatch %s {\n", disp.LoopFuncName))
	for _, e := range disp.Call {
		b.WriteString(fmt.Sprintf("  call #%d -> %s/%d\n", e.MethodTag, e.Handler, e.ArgCount))
	}
	for _, e := range disp.Cast {
		b.WriteString(fmt.Sprintf("  cast #%d -> %s/%d\n", e.MethodTag, e.Handler, e.ArgCount))
	}
	b.WriteString("}")
	return b.String()
}

// PrettyPrint renders one function's signature and body.
func (f *Function) PrettyPrint() string {
	var b strings.Builder

	if f.IsClosureFn {
		b.WriteString("closure ")
	}
	b.WriteString(fmt.Sprintf("fn %s(", f.Name))
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = fmt.Sprintf("%s: %s", p.Name, p.Ty.String())
	}
	b.WriteString(strings.Join(params, ", "))
	b.WriteString(") -> ")
	b.WriteString(f.ReturnType.String())
	if len(f.Captures) > 0 {
		caps := make([]string, len(f.Captures))
		for i, c := range f.Captures {
			caps[i] = fmt.Sprintf("%s: %s", c.Name, c.Ty.String())
		}
		b.WriteString(fmt.Sprintf(" [captures: %s]", strings.Join(caps, ", ")))
	}
	b.WriteString(" {\n")
	b.WriteString(indent(prettyExpr(f.Body), 1))
	b.WriteString("\n}")
	return b.String()
}

func indent(s string, depth int) string {
	prefix := strings.Repeat("  ", depth)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

// prettyExpr renders one Expr node, recursing into children. It never
// panics on an unrecognized node — an unknown Expr implementation
// prints its Go type instead, which only happens if this package grows
// a node kind without a matching case here.
func prettyExpr(e Expr) string {
	switch n := e.(type) {
	case *IntLit:
		return fmt.Sprintf("%d", n.Value)
	case *FloatLit:
		return fmt.Sprintf("%g", n.Value)
	case *BoolLit:
		return fmt.Sprintf("%t", n.Value)
	case *StringLit:
		return fmt.Sprintf("%q", n.Value)
	case *UnitLit:
		return "()"
	case *VarRef:
		return n.Name
	case *BinOp:
		return fmt.Sprintf("(%s %s %s)", prettyExpr(n.Left), n.Op, prettyExpr(n.Right))
	case *UnaryOp:
		return fmt.Sprintf("(%s%s)", n.Op, prettyExpr(n.Operand))
	case *Call:
		return fmt.Sprintf("%s(%s)", n.Func, prettyExprList(n.Args))
	case *ClosureCall:
		return fmt.Sprintf("%s(%s)", prettyExpr(n.Closure), prettyExprList(n.Args))
	case *TailCall:
		return fmt.Sprintf("tailcall(%s)", prettyExprList(n.Args))
	case *If:
		return fmt.Sprintf("if %s then %s else %s", prettyExpr(n.Cond), prettyExpr(n.Then), prettyExpr(n.Else))
	case *Match:
		return prettyMatch(n.Scrutinee, n.Arms)
	case *Let:
		return fmt.Sprintf("let %s: %s = %s in\n%s", n.Name, n.VarTy.String(), prettyExpr(n.Value), prettyExpr(n.Body))
	case *Block:
		parts := make([]string, len(n.Exprs))
		for i, e := range n.Exprs {
			parts[i] = prettyExpr(e)
		}
		return strings.Join(parts, ";\n")
	case *StructLit:
		fields := make([]string, len(n.FieldOrder))
		for i, name := range n.FieldOrder {
			fields[i] = fmt.Sprintf("%s: %s", name, prettyExpr(n.Fields[name]))
		}
		return fmt.Sprintf("%s{%s}", n.TypeName, strings.Join(fields, ", "))
	case *StructUpdate:
		fields := make([]string, len(n.FieldOrder))
		for i, name := range n.FieldOrder {
			fields[i] = fmt.Sprintf("%s: %s", name, prettyExpr(n.Overrides[name]))
		}
		return fmt.Sprintf("%%{%s | %s}", prettyExpr(n.Base), strings.Join(fields, ", "))
	case *FieldAccess:
		return fmt.Sprintf("%s.%s", prettyExpr(n.Target), n.Field)
	case *ConstructVariant:
		return fmt.Sprintf("%s::%s#%d(%s)", n.TypeName, n.Variant, n.Tag, prettyExprList(n.Values))
	case *MakeClosure:
		return fmt.Sprintf("make_closure %s", n.FuncName)
	case *Return:
		if n.Value == nil {
			return "return"
		}
		return fmt.Sprintf("return %s", prettyExpr(n.Value))
	case *While:
		return fmt.Sprintf("while %s {\n%s\n}", prettyExpr(n.Cond), indent(prettyExpr(n.Body), 1))
	case *ForInRange:
		return fmt.Sprintf("for %s in %s..%s {\n%s\n}", n.Var, prettyExpr(n.Start), prettyExpr(n.End), indent(prettyExpr(n.Body), 1))
	case *ForInList:
		return fmt.Sprintf("for %s in %s {\n%s\n}", n.Var, prettyExpr(n.Iterable), indent(prettyExpr(n.Body), 1))
	case *ForInMap:
		if n.ValVar == "" {
			return fmt.Sprintf("for %s in %s {\n%s\n}", n.KeyVar, prettyExpr(n.Iterable), indent(prettyExpr(n.Body), 1))
		}
		return fmt.Sprintf("for %s, %s in %s {\n%s\n}", n.KeyVar, n.ValVar, prettyExpr(n.Iterable), indent(prettyExpr(n.Body), 1))
	case *ForInSet:
		return fmt.Sprintf("for %s in %s {\n%s\n}", n.Var, prettyExpr(n.Iterable), indent(prettyExpr(n.Body), 1))
	case *ForInIterator:
		return fmt.Sprintf("for %s in %s (via %s/%s) {\n%s\n}", n.Var, prettyExpr(n.Iterable), n.IterFuncName, n.NextFuncName, indent(prettyExpr(n.Body), 1))
	case *Break:
		return "break"
	case *Continue:
		return "continue"
	case *ActorSpawn:
		return fmt.Sprintf("spawn %s(%s)", n.ActorName, prettyExprList(n.Args))
	case *ActorSend:
		return fmt.Sprintf("%s <- %s", prettyExpr(n.Target), prettyExpr(n.Message))
	case *ActorReceive:
		return prettyReceive(n)
	case *ActorSelf:
		return "self"
	case *ActorLink:
		return fmt.Sprintf("link %s", prettyExpr(n.Target))
	case *SupervisorStart:
		return prettySupervisorStart(n)
	case *ListLit:
		return fmt.Sprintf("[%s]", prettyExprList(n.Elems))
	case *Panic:
		return fmt.Sprintf("panic(%q) at %s:%d", n.Message, n.File, n.Line)
	default:
		return fmt.Sprintf("<?expr:%T>", e)
	}
}

func prettyExprList(es []Expr) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = prettyExpr(e)
	}
	return strings.Join(parts, ", ")
}

func prettyMatch(scrutinee Expr, arms []MatchArm) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("match %s {\n", prettyExpr(scrutinee)))
	for _, arm := range arms {
		b.WriteString("  ")
		b.WriteString(prettyPattern(arm.Pattern))
		if arm.Guard != nil {
			b.WriteString(fmt.Sprintf(" when %s", prettyExpr(arm.Guard)))
		}
		b.WriteString(fmt.Sprintf(" => %s\n", prettyExpr(arm.Body)))
	}
	b.WriteString("}")
	return b.String()
}

func prettyReceive(n *ActorReceive) string {
	var b strings.Builder
	b.WriteString("receive {\n")
	for _, arm := range n.Arms {
		b.WriteString("  ")
		b.WriteString(prettyPattern(arm.Pattern))
		if arm.Guard != nil {
			b.WriteString(fmt.Sprintf(" when %s", prettyExpr(arm.Guard)))
		}
		b.WriteString(fmt.Sprintf(" => %s\n", prettyExpr(arm.Body)))
	}
	if n.TimeoutMs != nil {
		b.WriteString(fmt.Sprintf("  after %s => %s\n", prettyExpr(n.TimeoutMs), prettyExpr(n.TimeoutBody)))
	}
	b.WriteString("}")
	return b.String()
}

func prettySupervisorStart(n *SupervisorStart) string {
	children := make([]string, len(n.Children))
	for i, c := range n.Children {
		children[i] = fmt.Sprintf("%s(%s, restart=%s)", c.ID, c.StartFuncName, c.Restart)
	}
	return fmt.Sprintf("supervisor(strategy=%s, max_restarts=%d, max_window_secs=%d) [%s]",
		n.Strategy, n.MaxRestarts, n.MaxWindowSecs, strings.Join(children, ", "))
}

func prettyPattern(p Pattern) string {
	switch pt := p.(type) {
	case Wildcard:
		return "_"
	case Literal:
		return fmt.Sprintf("%v", pt.Value)
	case Var:
		return pt.Name
	case Constructor:
		if len(pt.Sub) == 0 {
			return pt.Variant
		}
		subs := make([]string, len(pt.Sub))
		for i, s := range pt.Sub {
			subs[i] = prettyPattern(s)
		}
		return fmt.Sprintf("%s(%s)", pt.Variant, strings.Join(subs, ", "))
	case TuplePattern:
		elems := make([]string, len(pt.Elems))
		for i, e := range pt.Elems {
			elems[i] = prettyPattern(e)
		}
		return fmt.Sprintf("(%s)", strings.Join(elems, ", "))
	case Or:
		alts := make([]string, len(pt.Alts))
		for i, a := range pt.Alts {
			alts[i] = prettyPattern(a)
		}
		return strings.Join(alts, " | ")
	case ListCons:
		return fmt.Sprintf("%s :: %s", prettyPattern(pt.Head), prettyPattern(pt.Tail))
	default:
		return fmt.Sprintf("<?pattern:%T>", p)
	}
}
