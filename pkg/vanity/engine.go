package vanity

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultWorkers         = 1
	DefaultCancelCheckStep = 4096
	// minShardSize keeps tiny products on a single worker.
	minShardSize = 1024
)

// Result is the outcome of one generation run.
type Result struct {
	Digits       DigitSequence
	Candidates   []Candidate
	Combinations uint64
	Matches      uint64
	Layout       Layout
	Duration     time.Duration
}

// Empty reports whether no dictionary word could be embedded.
func (r *Result) Empty() bool {
	return len(r.Candidates) == 0
}

// Engine generates vanity candidates against a fixed WordSet. It holds no
// per-request state and is safe for concurrent use.
type Engine struct {
	words     WordSet
	workers   int
	layout    Layout
	checkStep uint64
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers splits the combination space into n contiguous shards.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithAreaCodeLocked keeps the area code out of word matching and renders
// candidates as AAA-prefix-WORD-suffix.
func WithAreaCodeLocked() Option {
	return func(e *Engine) {
		e.layout = LayoutAreaCode
	}
}

// WithLayout sets the rendering layout.
func WithLayout(l Layout) Option {
	return func(e *Engine) {
		e.layout = l
	}
}

// WithCancelCheckStep sets how many combinations are enumerated between
// context checks.
func WithCancelCheckStep(n uint64) Option {
	return func(e *Engine) {
		if n > 0 {
			e.checkStep = n
		}
	}
}

// NewEngine returns an Engine matching against words. It fails with
// ErrNilWordSet when words is nil.
func NewEngine(words WordSet, opts ...Option) (*Engine, error) {
	if words == nil {
		return nil, ErrNilWordSet
	}
	e := &Engine{
		words:     words,
		workers:   DefaultWorkers,
		layout:    LayoutFull,
		checkStep: DefaultCancelCheckStep,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Layout returns the layout candidates are rendered with.
func (e *Engine) Layout() Layout {
	return e.layout
}

// Generate normalizes raw and generates its candidates.
func (e *Engine) Generate(ctx context.Context, raw string) (*Result, error) {
	digits, err := Normalize(raw)
	if err != nil {
		return nil, err
	}
	return e.GenerateDigits(ctx, digits)
}

// GenerateDigits enumerates every keypad combination of digits, scans each
// for dictionary words and returns the sorted, deduplicated candidates. An
// empty candidate list is a valid result.
func (e *Engine) GenerateDigits(ctx context.Context, digits DigitSequence) (*Result, error) {
	if !digits.Valid() {
		return nil, ErrInvalidFormat
	}
	start := time.Now()

	sets := Expand(digits)
	if e.layout == LayoutAreaCode {
		sets.Pin(digits, AreaCodeLength)
	}
	scanner := NewScanner(e.words, sets)
	total := CombinationCount(sets)

	shards := e.shardCount(total)
	found := make([]*CandidateSet, shards)
	matches := make([]uint64, shards)
	size := (total + uint64(shards) - 1) / uint64(shards)

	if shards == 1 {
		set, n, err := e.scanRange(ctx, digits, sets, scanner, 0, total)
		if err != nil {
			return nil, err
		}
		found[0], matches[0] = set, n
	} else {
		g, gctx := errgroup.WithContext(ctx)
		for k := 0; k < shards; k++ {
			lo := uint64(k) * size
			hi := min(lo+size, total)
			g.Go(func() error {
				set, n, err := e.scanRange(gctx, digits, sets, scanner, lo, hi)
				if err != nil {
					return err
				}
				found[k], matches[k] = set, n
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	merged := found[0]
	var matched uint64
	for k := range found {
		if k > 0 {
			merged.Merge(found[k])
		}
		matched += matches[k]
	}

	return &Result{
		Digits:       digits,
		Candidates:   merged.Sorted(),
		Combinations: total,
		Matches:      matched,
		Layout:       e.layout,
		Duration:     time.Since(start),
	}, nil
}

func (e *Engine) shardCount(total uint64) int {
	n := e.workers
	if byWork := total / minShardSize; uint64(n) > byWork {
		n = int(byWork)
	}
	return max(n, 1)
}

func (e *Engine) scanRange(ctx context.Context, digits DigitSequence, sets Sets, scanner *Scanner, lo, hi uint64) (*CandidateSet, uint64, error) {
	set := NewCandidateSet()
	var matched uint64
	emit := func(m Match) {
		matched++
		set.Add(e.layout.Format(digits, m))
	}

	it := NewRangeEnumerator(sets, lo, hi)
	for n := uint64(0); ; n++ {
		if n%e.checkStep == 0 {
			if err := ctx.Err(); err != nil {
				return nil, 0, err
			}
		}
		c, ok := it.Next()
		if !ok {
			break
		}
		scanner.Scan(c, emit)
	}
	return set, matched, nil
}
