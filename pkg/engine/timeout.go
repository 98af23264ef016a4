package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/birktj/cad-kernel-experiments/pkg/brep"
	"github.com/birktj/cad-kernel-experiments/pkg/sketch"
)

// EvalTimeout is the hard limit for a single evaluation.
const EvalTimeout = 5 * time.Second

// ErrSuperseded is returned when a newer evaluation started before the
// current one finished.
var ErrSuperseded = errors.New("evaluation superseded by newer request")

// evalResult is the internal type used to pass evaluation results through channels.
type evalResult struct {
	sketch *sketch.Sketch
	errors []EvalError
	err    error
}

// waitWithTimeout waits for a result from ch, but returns a timeout error
// if the evaluation exceeds EvalTimeout. It uses a generation counter to
// discard stale results from previous evaluations.
//
// On timeout, the goroutine may still be running; the generation check
// ensures its result is discarded when it eventually completes.
func waitWithTimeout(
	ch <-chan evalResult,
	gen uint64,
	mu *sync.Mutex,
	currentGen *uint64,
) (*sketch.Sketch, []EvalError, error) {
	timer := time.NewTimer(EvalTimeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		mu.Lock()
		current := *currentGen
		mu.Unlock()

		if gen != current {
			brep.Logger().Debug("engine: discarding stale result",
				slog.Uint64("generation", gen), slog.Uint64("current", current))
			return nil, nil, ErrSuperseded
		}

		return res.sketch, res.errors, res.err

	case <-timer.C:
		brep.Logger().Warn("engine: evaluation timed out",
			slog.Uint64("generation", gen), slog.Duration("timeout", EvalTimeout))
		return nil, nil, fmt.Errorf("evaluation timed out after %s", EvalTimeout)
	}
}
