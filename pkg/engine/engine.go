// Package engine provides the Lisp evaluation engine for sketches.
// It wraps zygomys in a sandboxed environment and produces a sketch.Sketch
// from user source code.
package engine

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"sync"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/birktj/cad-kernel-experiments/pkg/brep"
	"github.com/birktj/cad-kernel-experiments/pkg/sketch"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// EvalWarning represents a non-fatal warning produced during evaluation.
type EvalWarning struct {
	Region  string
	Message string
}

func (w EvalWarning) String() string {
	if w.Region == "" {
		return w.Message
	}
	return fmt.Sprintf("region %q: %s", w.Region, w.Message)
}

// EvalResult bundles the full output of evaluating and validating a source.
type EvalResult struct {
	Sketch   *sketch.Sketch
	Errors   []EvalError
	Warnings []EvalWarning
}

// OK reports whether the source evaluated and validated without errors.
func (r EvalResult) OK() bool {
	return r.Sketch != nil && len(r.Errors) == 0
}

// Engine wraps the zygomys interpreter for sketch evaluation.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment for determinism.
type Engine struct {
	mu         sync.Mutex
	generation uint64
}

// NewEngine creates a new Engine instance.
func NewEngine() *Engine {
	return &Engine{}
}

// Evaluate takes Lisp source code and produces a new Sketch.
// Each call creates a fresh zygomys sandbox for deterministic evaluation.
//
// Return semantics:
//   - On success: returns sketch + nil errors + nil error
//   - On parse/eval failure: returns nil sketch + eval errors + nil error
//   - On fatal failure (timeout, panic, superseded): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*sketch.Sketch, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	brep.Logger().Debug("engine: evaluate", slog.Uint64("generation", gen), slog.Int("bytes", len(source)))

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		s, evalErrs, err := e.evaluate(source)
		ch <- evalResult{sketch: s, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, &e.mu, &e.generation)
}

// Check evaluates source and validates the resulting sketch. Validation
// errors are reported as EvalErrors without line information and
// validation warnings as EvalWarnings. On a validation error the sketch is
// still returned so callers can inspect it.
func (e *Engine) Check(source string) (EvalResult, error) {
	s, evalErrs, err := e.Evaluate(source)
	if err != nil {
		return EvalResult{}, err
	}
	res := EvalResult{Sketch: s, Errors: evalErrs}
	if s == nil {
		return res, nil
	}
	for _, f := range sketch.Validate(s) {
		if f.Severity == sketch.SeverityError {
			res.Errors = append(res.Errors, EvalError{Message: f.Error()})
			continue
		}
		res.Warnings = append(res.Warnings, EvalWarning{Region: f.Region, Message: f.Message})
	}
	return res, nil
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*sketch.Sketch, []EvalError, error) {
	s := sketch.New()

	// Empty source is a valid program that produces an empty sketch.
	if strings.TrimSpace(source) == "" {
		return s, nil, nil
	}

	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	registerBuiltins(env, s)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}

	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}

	return s, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// It attempts to extract line number information from the error message.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{
				Line:    line,
				Message: strings.TrimSpace(m[2]),
			}}
		}
	}

	// No line info available.
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
