package ambiguity

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/eclipse-cdt/cdt-sub043/src/ast"
	"github.com/eclipse-cdt/cdt-sub043/src/semantics"
)

// State is the progress of one ambiguous node.
type State uint8

const (
	Unresolved State = iota
	Resolving
	Resolved
	Failed
)

var stateNames = [...]string{"unresolved", "resolving", "resolved", "failed"}

func (s State) String() string { return stateNames[s] }

// Report summarizes one resolution pass. Failed counts ambiguities that were
// replaced by a best guess.
type Report struct {
	Resolved    int
	Failed      int
	Diagnostics []semantics.Diagnostic
}

// Resolver replaces every ambiguous node of a tree by one of its candidates.
// It is a visitor interested in ambiguous nodes only; the candidates of an
// ambiguous node are resolved before the node itself is judged.
type Resolver struct {
	index        *semantics.Index
	tree         *ast.Tree
	errorTracker *semantics.ErrorTracker
	logger       *slog.Logger

	states map[ast.NodeID]State
	chosen map[ast.NodeID]ast.NodeID
	report Report
}

func NewResolver(idx *semantics.Index, et *semantics.ErrorTracker) *Resolver {
	return &Resolver{
		index:        idx,
		tree:         idx.Tree(),
		errorTracker: et,
		logger:       idx.Logger(),
		states:       map[ast.NodeID]State{},
		chosen:       map[ast.NodeID]ast.NodeID{},
	}
}

// Resolve runs the pass over the subtree rooted at root. Running it again on
// the result finds nothing to do.
func (r *Resolver) Resolve(root ast.NodeID) Report {
	r.report = Report{Diagnostics: []semantics.Diagnostic{}}
	if root != ast.NoNode {
		r.tree.Accept(root, r)
	}
	r.logger.Debug("ambiguities resolved",
		slog.Int("resolved", r.report.Resolved),
		slog.Int("failed", r.report.Failed))
	return r.report
}

// State returns the progress of an ambiguous node, Unresolved for nodes the
// resolver never met.
func (r *Resolver) State(n ast.NodeID) State { return r.states[n] }

// Chosen returns the candidate that replaced the ambiguous node n.
func (r *Resolver) Chosen(n ast.NodeID) (ast.NodeID, bool) {
	c, ok := r.chosen[n]
	return c, ok
}

func (*Resolver) Categories() ast.Category { return ast.CategoryAmbiguous }

func (r *Resolver) Visit(n ast.Node) ast.Action {
	r.resolve(n.ID())
	return ast.Continue
}

func (*Resolver) Leave(ast.Node) ast.Action { return ast.Continue }

// resolve judges the ambiguous node amb and puts the winner in its place.
// It returns the winner, or amb itself when nothing could replace it.
func (r *Resolver) resolve(amb ast.NodeID) ast.NodeID {
	switch r.states[amb] {
	case Resolving:
		return amb
	case Resolved, Failed:
		return r.chosen[amb]
	}
	r.states[amb] = Resolving

	// innermost first; a candidate that is itself ambiguous is replaced in
	// place, so the candidate list is read again afterwards
	for _, c := range r.tree.ChildrenWithRole(amb, ast.RoleCandidate) {
		r.tree.Accept(c, r)
	}
	candidates := r.tree.ChildrenWithRole(amb, ast.RoleCandidate)
	if len(candidates) == 0 {
		r.fail(amb, amb, semantics.UnresolvedAmbiguity, "ambiguity without candidates")
		return amb
	}

	var v verdict
	switch r.tree.Kind(amb) {
	case ast.KindAmbiguousBinaryVsCast:
		v = r.binaryVsCast(candidates)
	case ast.KindAmbiguousCastVsCall:
		v = r.castVsCall(candidates)
	case ast.KindAmbiguousAlignmentSpecifier:
		v = r.alignment(candidates)
	case ast.KindAmbiguousStatement:
		v = r.statement(candidates)
	default:
		v = r.generic(candidates)
	}

	if err := r.substitute(amb, v.winner); err != nil {
		r.fail(amb, amb, semantics.UnresolvedAmbiguity, err.Error())
		return amb
	}
	r.chosen[amb] = v.winner
	if r.tree.Kind(v.winner) == ast.KindDeclarationStatement {
		r.index.DeclarationAdded(v.winner)
	}

	if v.problem != semantics.ProblemNone {
		r.fail(amb, v.winner, v.problem, v.message)
		return v.winner
	}
	r.states[amb] = Resolved
	r.report.Resolved++
	r.logger.Debug("ambiguity resolved",
		slog.String("kind", r.tree.Kind(amb).String()),
		slog.String("chosen", r.tree.Kind(v.winner).String()),
		slog.Int("node", int(v.winner)))
	return v.winner
}

// substitute puts winner in the place of amb, which may be the root.
func (r *Resolver) substitute(amb, winner ast.NodeID) error {
	if parent := r.tree.Parent(amb); parent != ast.NoNode {
		return r.tree.Replace(parent, amb, winner)
	}
	if amb != r.tree.Root() {
		return errors.New("ambiguous node outside of the tree")
	}
	if err := r.tree.SetParent(winner, ast.NoNode); err != nil {
		return err
	}
	if err := r.tree.SetRole(winner, ast.RoleNone); err != nil {
		return err
	}
	return r.tree.SetRoot(winner)
}

// fail records a best guess. The diagnostic is attached to node, which is
// the winner when there is one.
func (r *Resolver) fail(amb, node ast.NodeID, id semantics.ProblemID, msg string) {
	r.states[amb] = Failed
	if node != amb {
		r.chosen[amb] = node
	}
	r.report.Failed++
	d := semantics.Diagnostic{
		ID:       id,
		Severity: semantics.SeverityWarning,
		Node:     node,
		Message:  fmt.Sprintf("%s: %s", r.tree.Kind(amb), msg),
	}
	if ext, ok := r.tree.ExtentBounds(node); ok {
		d.Extent, d.HasExtent = ext, true
	}
	r.report.Diagnostics = append(r.report.Diagnostics, d)
	if r.errorTracker != nil {
		r.errorTracker.Report(d)
	}
}
