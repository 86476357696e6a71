package compiler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/eclipse-cdt/cdt-sub043/src/ambiguity"
	"github.com/eclipse-cdt/cdt-sub043/src/ast"
	"github.com/eclipse-cdt/cdt-sub043/src/config"
	"github.com/eclipse-cdt/cdt-sub043/src/semantics"
	"github.com/eclipse-cdt/cdt-sub043/src/utils"
)

var (
	ErrSemantic  = errors.New("found semantic or type errors")
	ErrEmptyUnit = errors.New("translation unit has no root")
)

// Unit is one translation unit as handed over by the parser.
type Unit struct {
	Name string
	Tree *ast.Tree
}

type Result struct {
	ID   uuid.UUID
	Name string
	// Report describes the ambiguity resolution pass.
	Report ambiguity.Report
	// Diagnostics holds every report of the unit, resolver warnings included.
	Diagnostics []semantics.Diagnostic
	Frozen      bool
	Err         error
}

type Compiler struct {
	conf      config.Config
	indexConf semantics.Config
	logger    *slog.Logger
}

func New(conf config.Config, logger *slog.Logger) (*Compiler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	indexConf, err := conf.IndexConfig(logger)
	if err != nil {
		return nil, err
	}
	return &Compiler{
		conf:      conf,
		indexConf: indexConf,
		logger:    logger,
	}, nil
}

func (c *Compiler) newIndex(tree *ast.Tree, logger *slog.Logger) *semantics.Index {
	conf := c.indexConf
	conf.Logger = logger
	return semantics.NewIndex(tree, conf)
}

func (c *Compiler) resolveAmbiguities(idx *semantics.Index, et *semantics.ErrorTracker, res *Result) error {
	res.Report = ambiguity.NewResolver(idx, et).Resolve(idx.Tree().Root())
	return nil
}

func (c *Compiler) performSemanticAnalysis(idx *semantics.Index, et *semantics.ErrorTracker) error {
	if !c.conf.Analyze {
		return nil
	}
	semantics.NewAnalyzer(idx, et).Analyze(idx.Tree().Root())
	if et.HasError() {
		return ErrSemantic
	}
	return nil
}

func (c *Compiler) freeze(tree *ast.Tree, res *Result) error {
	if err := tree.FreezeAll(); err != nil {
		return err
	}
	res.Frozen = true
	return nil
}

// Process resolves the ambiguities of one unit, checks it when analysis is
// enabled and freezes the tree. A unit with semantic errors is still frozen;
// the error is returned and kept in the result.
func (c *Compiler) Process(ctx context.Context, unit Unit) (Result, error) {
	res := Result{ID: uuid.New(), Name: unit.Name}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res, err
	}
	if unit.Tree == nil || unit.Tree.Root() == ast.NoNode {
		res.Err = fmt.Errorf("%s: %w", unit.Name, ErrEmptyUnit)
		return res, res.Err
	}

	logger := c.logger.With(slog.String("unit", unit.Name), slog.String("id", res.ID.String()))
	idx := c.newIndex(unit.Tree, logger)
	et := semantics.NewErrorTracker(unit.Tree, logger)

	var semanticErr error
	err := utils.Pipeline().
		Then(func() error { return c.resolveAmbiguities(idx, et, &res) }).
		Then(func() error {
			semanticErr = c.performSemanticAnalysis(idx, et)
			return nil
		}).
		Then(func() error { return c.freeze(unit.Tree, &res) }).
		Error()
	res.Diagnostics = et.Diagnostics()
	if err == nil {
		err = semanticErr
	}
	if err != nil {
		res.Err = fmt.Errorf("%s: %w", unit.Name, err)
		logger.Warn("translation unit failed", slog.Any("err", err), slog.Int("diagnostics", len(res.Diagnostics)))
		return res, res.Err
	}
	logger.Info("translation unit processed",
		slog.Int("resolved", res.Report.Resolved),
		slog.Int("failed", res.Report.Failed),
		slog.Int("diagnostics", len(res.Diagnostics)))
	return res, nil
}

// ProcessAll processes independent units concurrently, at most
// Parallelism at a time. Results keep the order of units. A failing unit
// does not stop the others, its error is joined into the returned one;
// cancelling ctx stops units that have not started yet.
func (c *Compiler) ProcessAll(ctx context.Context, units []Unit) ([]Result, error) {
	results := make([]Result, len(units))
	g, gctx := errgroup.WithContext(ctx)
	if c.conf.Parallelism > 0 {
		g.SetLimit(c.conf.Parallelism)
	}
	for i, unit := range units {
		g.Go(func() error {
			res, err := c.Process(gctx, unit)
			results[i] = res
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}

	errs := make([]error, 0, len(results))
	for _, res := range results {
		errs = append(errs, res.Err)
	}
	return results, errors.Join(errs...)
}
