package ast

// VisitDirection tells a Visitor whether it is being asked to descend into
// a node (VisitEnter) or is leaving it after all children were walked
// (VisitExit).
type VisitDirection bool

const (
	VisitEnter VisitDirection = false
	VisitExit  VisitDirection = true
)

// Visitor is called for every node of an AST during a Walk. Visit is
// called once with VisitEnter before descending into n's children, and
// once more with VisitExit after. If the VisitEnter call returns nil, the
// children are not visited and no matching VisitExit call is made.
type Visitor interface {
	Visit(n Node, dir VisitDirection) (w Visitor)
}

// VisitorFunc adapts a plain function to the Visitor interface, calling it
// only on VisitEnter and always continuing with the same function.
type VisitorFunc func(n Node) bool

func (f VisitorFunc) Visit(n Node, dir VisitDirection) Visitor {
	if dir == VisitExit {
		return nil
	}
	if f(n) {
		return f
	}
	return nil
}

// Walk traverses the AST rooted at node in depth-first order, calling
// v.Visit on enter and (if the enter call did not abort) again on exit.
func Walk(v Visitor, node Node) {
	if node == nil {
		return
	}
	if v = v.Visit(node, VisitEnter); v == nil {
		return
	}
	node.Walk(v)
	v.Visit(node, VisitExit)
}
