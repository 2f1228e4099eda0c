package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joseph-ayodele/doccontext/internal/quality"
	"github.com/joseph-ayodele/doccontext/internal/scan"
)

var errNoPageText = errors.New("no text in pages")

// Orchestrator runs the extraction strategies over one buffer and picks the
// output. It holds no per-call state, so one instance can serve concurrent
// callers.
type Orchestrator struct {
	pages     PageOpener
	primary   []Strategy
	fallbacks []Strategy
	minLength int
	logger    *slog.Logger
}

type Option func(*Orchestrator)

// WithPageOpener sets the structured parser tried first. nil disables it.
func WithPageOpener(p PageOpener) Option {
	return func(o *Orchestrator) { o.pages = p }
}

// WithStrategies replaces the primary strategies. Order only matters for ties.
func WithStrategies(s ...Strategy) Option {
	return func(o *Orchestrator) { o.primary = s }
}

// WithFallbacks replaces the chain tried when no primary result is long enough.
func WithFallbacks(s ...Strategy) Option {
	return func(o *Orchestrator) { o.fallbacks = s }
}

func WithMinLength(n int) Option {
	return func(o *Orchestrator) {
		if n >= 0 {
			o.minLength = n
		}
	}
}

func NewOrchestrator(logger *slog.Logger, opts ...Option) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	o := &Orchestrator{
		pages:     PDFPages{},
		primary:   []Strategy{LiteralStrings(), TextBlocks(), ASCIIWords()},
		fallbacks: []Strategy{Streams(), Phrases()},
		minLength: MinMeaningfulLength,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Extract returns the best text it can recover from data, or an error
// wrapping ErrExtractionFailed when nothing usable was found.
//
// Order: structured pages (returned as soon as they hold any text), then the
// primary strategies ranked by length, then the fallback chain.
func (o *Orchestrator) Extract(ctx context.Context, data []byte) (Result, error) {
	start := time.Now()

	if o.pages != nil {
		res, err := o.fromPages(ctx, data)
		if err == nil {
			o.logger.InfoContext(ctx, "extract.ok",
				"strategy", res.Strategy, "length", res.Length,
				"elapsed_ms", time.Since(start).Milliseconds())
			return res, nil
		}
		o.logger.DebugContext(ctx, "extract.pages.skipped", "error", err)
	}

	var candidates []Result
	for _, s := range o.primary {
		out := o.run(ctx, s, data)
		if out.Status == StatusSuccess {
			candidates = append(candidates, out.Result)
		}
	}

	if len(candidates) == 0 {
		res, err := o.fallback(ctx, data)
		if err != nil {
			o.logger.WarnContext(ctx, "extract.failed",
				"bytes", len(data), "elapsed_ms", time.Since(start).Milliseconds())
			return Result{}, err
		}
		o.logger.InfoContext(ctx, "extract.ok",
			"strategy", res.Strategy, "length", res.Length, "fallback", true,
			"elapsed_ms", time.Since(start).Milliseconds())
		return res, nil
	}

	best := Longest(candidates)
	if v := quality.Classify(best.Text); !v.Meaningful {
		o.logger.WarnContext(ctx, "extract.rejected",
			"strategy", best.Strategy, "length", best.Length,
			"reason", v.Reason, "printable_ratio", v.PrintableRatio)
		return Result{}, fmt.Errorf("%w: %s output rejected: %s", ErrExtractionFailed, best.Strategy, v.Reason)
	}

	o.logger.InfoContext(ctx, "extract.ok",
		"strategy", best.Strategy, "length", best.Length, "candidates", len(candidates),
		"elapsed_ms", time.Since(start).Milliseconds())
	return best, nil
}

// Longest picks the longest result; on equal length the earliest wins.
// It panics on an empty slice.
func Longest(results []Result) Result {
	best := results[0]
	for _, r := range results[1:] {
		if r.Length > best.Length {
			best = r
		}
	}
	return best
}

func (o *Orchestrator) fallback(ctx context.Context, data []byte) (Result, error) {
	for _, s := range o.fallbacks {
		out := o.run(ctx, s, data)
		if out.Status != StatusSuccess {
			continue
		}
		if v := quality.Classify(out.Result.Text); !v.Meaningful {
			o.logger.DebugContext(ctx, "extract.fallback.rejected",
				"strategy", out.Result.Strategy, "reason", v.Reason)
			continue
		}
		return out.Result, nil
	}
	return Result{}, fmt.Errorf("%w: no strategy produced more than %d bytes of readable text", ErrExtractionFailed, o.minLength)
}

// run executes one strategy and folds errors and panics into an Outcome.
func (o *Orchestrator) run(ctx context.Context, s Strategy, data []byte) (out Outcome) {
	name := s.Name()
	defer func() {
		if r := recover(); r != nil {
			out = Outcome{Status: StatusError, Err: fmt.Errorf("%s: panic: %v", name, r)}
		}
		o.logger.DebugContext(ctx, "extract.strategy.outcome",
			"strategy", name, "status", out.Status.String(),
			"length", out.Result.Length, "error", out.Err)
	}()

	res, err := s.Extract(data)
	if res.Strategy == "" {
		res.Strategy = name
	}
	res.Length = len(res.Text)
	if err != nil {
		return Outcome{Status: StatusError, Result: res, Err: err}
	}
	if res.Length > o.minLength {
		return Outcome{Status: StatusSuccess, Result: res}
	}
	return Outcome{Status: StatusInsufficient, Result: res}
}

func (o *Orchestrator) fromPages(ctx context.Context, data []byte) (Result, error) {
	src, err := o.pages.Open(data)
	if err != nil {
		return Result{}, err
	}

	var b strings.Builder
	n := src.NumPages()
	for i := 1; i <= n; i++ {
		items, err := src.PageItems(i)
		if err != nil {
			o.logger.DebugContext(ctx, "extract.pages.page_error", "page", i, "error", err)
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(strings.Join(items, " "))
	}

	text := strings.TrimSpace(scan.StripControl(b.String()))
	if text == "" {
		return Result{}, errNoPageText
	}
	return newResult(NamePDFPages, text), nil
}
