package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/chazu/brickwork/pkg/scene"
)

// EvalTimeout is the default hard limit for a single evaluation.
const EvalTimeout = 5 * time.Second

var (
	// ErrTimeout is returned when a script runs past the engine's limit.
	ErrTimeout = errors.New("evaluation timed out")
	// ErrSuperseded is returned when a newer Evaluate call started before
	// this one finished.
	ErrSuperseded = errors.New("evaluation superseded by newer request")
)

// evalResult carries one evaluation back from its goroutine.
type evalResult struct {
	scene  *scene.Scene
	errors []EvalError
	err    error
}

// await blocks until ch delivers or the limit passes. A result from a
// generation older than the engine's current one is dropped.
//
// A timed out goroutine keeps running; it owns its scene, so nothing is
// shared when it finishes late.
func (e *Engine) await(ch <-chan evalResult, gen uint64, limit time.Duration) evalResult {
	timer := time.NewTimer(limit)
	defer timer.Stop()

	select {
	case res := <-ch:
		if !e.current(gen) {
			return evalResult{err: ErrSuperseded}
		}
		return res
	case <-timer.C:
		return evalResult{err: fmt.Errorf("%w after %s", ErrTimeout, limit)}
	}
}

// begin starts a new generation and returns it.
func (e *Engine) begin() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.generation++
	return e.generation
}

// current reports whether gen is still the latest generation.
func (e *Engine) current(gen uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return gen == e.generation
}
