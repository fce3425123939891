package ranking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vanity/pkg/logger"
)

// MaxSelections is the most candidates an oracle may select.
const MaxSelections = 5

var (
	ErrMalformedResponse = errors.New("malformed ranking response")
	ErrOracleUnavailable = errors.New("ranking oracle unavailable")
)

type Status string

const (
	StatusSelected    Status = "selected"
	StatusNoSelection Status = "no_selection"
	StatusUnavailable Status = "unavailable"
)

// Selection is a chosen candidate and its speech-friendly rendering.
type Selection struct {
	Candidate string `json:"candidate"`
	Phonetic  string `json:"phonetic"`
}

// Result is the validated answer of an oracle.
type Result struct {
	Status   Status      `json:"status"`
	Selected []Selection `json:"selected,omitempty"`
}

// NoSelection is the explicit empty answer.
func NoSelection() Result {
	return Result{Status: StatusNoSelection}
}

func Unavailable() Result {
	return Result{Status: StatusUnavailable}
}

func (r Result) HasSelection() bool {
	return len(r.Selected) > 0
}

// Candidates returns the selected candidates in rank order.
func (r Result) Candidates() []string {
	out := make([]string, len(r.Selected))
	for i, s := range r.Selected {
		out[i] = s.Candidate
	}
	return out
}

// Phonetics returns the phonetic renderings in rank order.
func (r Result) Phonetics() []string {
	out := make([]string, len(r.Selected))
	for i, s := range r.Selected {
		out[i] = s.Phonetic
	}
	return out
}

// Oracle picks the most desirable candidates.
type Oracle interface {
	Rank(ctx context.Context, candidates []string) (Result, error)
	Name() string
}

// Validate builds a Result from the parallel lists an oracle returned.
// Names and phonetics must have the same length. Names the engine did not
// produce and repeated names are dropped, and at most limit selections are
// kept.
func Validate(candidates, names, phonetics []string, limit int) (Result, error) {
	if len(names) != len(phonetics) {
		return Result{}, fmt.Errorf("%w: %d candidates but %d phonetic renderings", ErrMalformedResponse, len(names), len(phonetics))
	}
	if limit <= 0 || limit > MaxSelections {
		limit = MaxSelections
	}

	known := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		known[c] = struct{}{}
	}

	seen := make(map[string]struct{}, len(names))
	var selected []Selection
	for i, name := range names {
		if _, ok := known[name]; !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		selected = append(selected, Selection{Candidate: name, Phonetic: phonetics[i]})
		if len(selected) == limit {
			break
		}
	}

	if len(selected) == 0 {
		return NoSelection(), nil
	}
	return Result{Status: StatusSelected, Selected: selected}, nil
}

// Ranker calls an oracle under a timeout and never fails: any error is
// logged and reported as StatusUnavailable.
type Ranker struct {
	oracle  Oracle
	timeout time.Duration
	limit   int
	log     *logger.Logger
}

func NewRanker(oracle Oracle, timeout time.Duration, limit int, log *logger.Logger) *Ranker {
	if limit <= 0 || limit > MaxSelections {
		limit = MaxSelections
	}
	return &Ranker{
		oracle:  oracle,
		timeout: timeout,
		limit:   limit,
		log:     log,
	}
}

// Name identifies the configured oracle, or "none".
func (r *Ranker) Name() string {
	if r.oracle == nil {
		return "none"
	}
	return r.oracle.Name()
}

func (r *Ranker) Rank(ctx context.Context, candidates []string) Result {
	if r.oracle == nil || len(candidates) == 0 {
		return NoSelection()
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	res, err := r.oracle.Rank(ctx, candidates)
	if err != nil {
		r.log.Warn("Ranking oracle failed, continuing without selection",
			"oracle", r.oracle.Name(),
			"candidates", len(candidates),
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
		return Unavailable()
	}

	res, err = Validate(candidates, res.Candidates(), res.Phonetics(), r.limit)
	if err != nil {
		r.log.Warn("Ranking oracle returned an invalid result", "oracle", r.oracle.Name(), "error", err)
		return Unavailable()
	}

	r.log.Debug("Candidates ranked",
		"oracle", r.oracle.Name(),
		"candidates", len(candidates),
		"selected", len(res.Selected),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return res
}
