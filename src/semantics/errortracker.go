package semantics

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/eclipse-cdt/cdt-sub043/src/ast"
)

type Severity uint8

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Diagnostic describes a problem attached to a node. Extent is only meaningful
// when HasExtent is set.
type Diagnostic struct {
	ID        ProblemID
	Severity  Severity
	Node      ast.NodeID
	Extent    ast.Extent
	HasExtent bool
	Message   string
}

func (d Diagnostic) String() string {
	if d.HasExtent {
		return fmt.Sprintf("%s at %d+%d: %s", d.Severity, d.Extent.Offset, d.Extent.Length, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Severity, d.Message)
}

// ErrorTracker collects diagnostics of a single tree. Every report is also
// logged, errors at warn level and warnings at info level.
type ErrorTracker struct {
	tree        *ast.Tree
	logger      *slog.Logger
	diagnostics []Diagnostic
	errors      int
}

func NewErrorTracker(tree *ast.Tree, logger *slog.Logger) *ErrorTracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &ErrorTracker{
		tree:        tree,
		logger:      logger,
		diagnostics: []Diagnostic{},
	}
}

func (et *ErrorTracker) HasError() bool {
	return et.errors > 0
}

// Diagnostics returns the reports in the order they were made.
func (et *ErrorTracker) Diagnostics() []Diagnostic {
	res := make([]Diagnostic, len(et.diagnostics))
	copy(res, et.diagnostics)
	return res
}

func (et *ErrorTracker) Report(d Diagnostic) {
	if !d.HasExtent && d.Node != ast.NoNode && et.tree != nil {
		d.Extent, d.HasExtent = et.tree.ExtentBounds(d.Node)
	}
	et.diagnostics = append(et.diagnostics, d)

	level := slog.LevelInfo
	if d.Severity == SeverityError {
		et.errors++
		level = slog.LevelWarn
	}
	attrs := []any{slog.String("problem", d.ID.String()), slog.Int("node", int(d.Node))}
	if d.HasExtent {
		attrs = append(attrs, slog.Int("offset", d.Extent.Offset), slog.Int("length", d.Extent.Length))
	}
	et.logger.Log(context.Background(), level, d.Message, attrs...)
}

func (et *ErrorTracker) registerTypeError(msg string, node ast.NodeID) {
	et.Report(Diagnostic{ID: TypeMismatch, Severity: SeverityError, Node: node, Message: msg})
}

func (et *ErrorTracker) registerSemanticError(id ProblemID, msg string, node ast.NodeID) {
	et.Report(Diagnostic{ID: id, Severity: SeverityError, Node: node, Message: msg})
}

func (et *ErrorTracker) registerWarning(id ProblemID, msg string, node ast.NodeID) {
	et.Report(Diagnostic{ID: id, Severity: SeverityWarning, Node: node, Message: msg})
}
