package extract

import (
	"errors"
)

// ErrExtractionFailed means no strategy produced text that passed the
// quality gate.
var ErrExtractionFailed = errors.New("extraction failed")

// MinMeaningfulLength is the length a strategy result must exceed to be
// considered at all.
const MinMeaningfulLength = 50

// Result is what a single strategy produced for one buffer.
type Result struct {
	Text     string
	Strategy string // "literal-strings" | "text-blocks" | "streams" | "ascii-words" | "phrases" | "pdf-pages"
	Length   int
}

func newResult(strategy, text string) Result {
	return Result{Text: text, Strategy: strategy, Length: len(text)}
}

// Strategy is one way of recovering text from raw document bytes.
// Implementations must not modify data and return an empty Result when they
// find nothing.
type Strategy interface {
	Name() string
	Extract(data []byte) (Result, error)
}

// StrategyFunc adapts a plain function into a Strategy.
type StrategyFunc struct {
	ID string
	Fn func(data []byte) string
}

func (f StrategyFunc) Name() string { return f.ID }

func (f StrategyFunc) Extract(data []byte) (Result, error) {
	return newResult(f.ID, f.Fn(data)), nil
}

// Status classifies a strategy run for the orchestrator.
type Status int

const (
	StatusInsufficient Status = iota
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "insufficient"
	}
}

// Outcome is the uniform result of running one strategy.
type Outcome struct {
	Status Status
	Result Result
	Err    error
}
