package pipeline

import (
	"context"

	"github.com/nao1215/workshopgen/internal/model"
	"golang.org/x/sync/singleflight"
)

// Generator runs a pipeline for a collection, sharing one in-flight run
// between concurrent callers asking for the same collection identifier.
// Different identifiers run independently.
type Generator struct {
	pipeline   *Pipeline
	baseURL    string
	outputPath func(collectionID string) string
	group      singleflight.Group
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithOutputPath sets how the output path is derived from a collection
// identifier. The default writes every collection to the same path.
func WithOutputPath(fn func(collectionID string) string) GeneratorOption {
	return func(g *Generator) {
		g.outputPath = fn
	}
}

// NewGenerator creates a Generator running p against baseURL and writing
// to outputPath.
func NewGenerator(p *Pipeline, baseURL, outputPath string, opts ...GeneratorOption) *Generator {
	g := &Generator{
		pipeline: p,
		baseURL:  baseURL,
		outputPath: func(string) string {
			return outputPath
		},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate runs one cycle for collectionID. Callers that join an
// in-flight cycle receive the same *model.Run and error; shared reports
// whether that happened.
//
// The shared cycle does not inherit the cancellation of the caller that
// started it. Each caller stops waiting when its own ctx is done and then
// returns ctx.Err() without a run, while the cycle continues for the others.
func (g *Generator) Generate(ctx context.Context, collectionID string) (run *model.Run, shared bool, err error) {
	cycleCtx := context.WithoutCancel(ctx)
	ch := g.group.DoChan(collectionID, func() (any, error) {
		r := model.NewRun(collectionID, g.baseURL, g.outputPath(collectionID))
		return r, g.pipeline.Execute(cycleCtx, r)
	})

	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case res := <-ch:
		run, _ = res.Val.(*model.Run)
		return run, res.Shared, res.Err
	}
}
