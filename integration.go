package rider

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/tsawler/rider/plan"
)

// PlanConfig configures RunPlan.
type PlanConfig struct {
	// OutputDir is used for contracts without an explicit output when the
	// plan names no output_dir.
	OutputDir string

	// Preview also writes an HTML preview next to each output.
	Preview bool

	// Logger receives progress; nil disables logging.
	Logger *zap.Logger
}

// Result reports what happened to one contract of a plan.
type Result struct {
	Input   string
	Output  string
	Preview string
	Edits   int
	Err     error
}

// RunPlan applies every contract of p in order. A failing contract is
// reported in its Result and does not stop the others; the returned error
// joins all per-contract errors.
func RunPlan(p *plan.Plan, cfg PlanConfig) ([]Result, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	results := make([]Result, 0, len(p.Contracts))
	var errs []error
	for _, pc := range p.Contracts {
		res := Result{
			Input:  p.InputPath(pc),
			Output: p.OutputPath(pc, cfg.OutputDir),
		}
		log := logger.With(zap.String("input", res.Input))

		c := Open(res.Input).WithLogger(log).ApplyAll(pc.Edits)
		res.Edits = c.Edits()
		res.Err = c.SaveAs(res.Output)
		if res.Err == nil && cfg.Preview {
			res.Preview = previewPath(res.Output)
			res.Err = c.SavePreview(res.Preview)
		}

		if res.Err != nil {
			log.Error("contract failed", zap.Error(res.Err))
			errs = append(errs, fmt.Errorf("%s: %w", pc.Input, res.Err))
		} else {
			log.Info("contract updated",
				zap.String("output", res.Output),
				zap.Int("edits", res.Edits))
		}
		results = append(results, res)
	}
	return results, errors.Join(errs...)
}

// previewPath swaps the output's extension for .html.
func previewPath(output string) string {
	if i := strings.LastIndexByte(output, '.'); i > strings.LastIndexAny(output, `/\`) {
		output = output[:i]
	}
	return output + ".html"
}
