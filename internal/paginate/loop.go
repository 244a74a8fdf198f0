package paginate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/miraclx/qparas/internal/query"
)

// ErrShapeChanged reports a non-paginated response arriving after the
// aggregate already committed to array accumulation. That is a server
// contract violation, distinct from transport failures.
var ErrShapeChanged = errors.New("non-paginated response after paged accumulation began")

// Fetcher issues one GET against the target endpoint with the given query
// parameters and returns the decoded body.
type Fetcher interface {
	Fetch(ctx context.Context, params query.Params) (gjson.Result, error)
}

// Progress receives one status tuple after every page and once when the
// session ends.
type Progress interface {
	Page(page, entries int)
	Done(pages, entries int)
}

// Result is the final aggregate of one pagination session.
type Result struct {
	// Value is the unified result as compact JSON: an array of records, or a
	// bare value when the first response was not paginated.
	Value json.RawMessage

	// Pages is the number of requests issued.
	Pages int

	// Entries is the final aggregate entry count.
	Entries int
}

// Session drives one complete pagination run. All state is session-local and
// discarded when Run returns; nothing persists across invocations.
type Session struct {
	fetcher  Fetcher
	progress Progress
	spec     *query.Spec
	logger   zerolog.Logger
}

func NewSession(fetcher Fetcher, progress Progress, spec *query.Spec, logger zerolog.Logger) *Session {
	return &Session{fetcher: fetcher, progress: progress, spec: spec, logger: logger}
}

// Run issues requests one at a time until a termination condition fires.
// Continuation parameters for request N+1 depend on request N's last record,
// so there is nothing to parallelize. Any fetch, decode, or shape error
// aborts the run; no partial result is produced.
func (s *Session) Run(ctx context.Context) (*Result, error) {
	acc := newAccumulator()
	cont := initialContinuation()
	pages := 0

	for {
		extra, ok := cont.next()
		if !ok {
			break
		}
		params := s.spec.Params.With(extra...)

		body, err := s.fetcher.Fetch(ctx, params)
		if err != nil {
			return nil, err
		}
		pages++

		cls := Classify(body)
		s.logger.Debug().
			Int("page", pages).
			Stringer("shape", cls.Shape).
			Int("records", len(cls.Records)).
			Msg("classified response")

		switch cls.Shape {
		case ShapeSingle:
			if pages > 1 {
				return nil, fmt.Errorf("page %d: %w", pages, ErrShapeChanged)
			}
			acc.setSingle(cls.Value)
			cont = stopped()

		case ShapeCursor:
			cont = s.advanceCursor(acc, cls.Records)

		case ShapeWindow:
			cont = s.advanceWindow(acc, cls.Records)
		}

		s.progress.Page(pages, acc.count())
		s.logger.Info().
			Int("page", pages).
			Int("entries", acc.count()).
			Bool("continuing", cont.state == stateContinue).
			Msg("page merged")
	}

	s.progress.Done(pages, acc.count())
	return &Result{Value: acc.value(), Pages: pages, Entries: acc.count()}, nil
}

// advanceCursor merges one cursor page and decides the next step. A page
// that introduces no unseen identity forces a stop even when a continuation
// was derivable, as does a satisfied __min bound.
func (s *Session) advanceCursor(acc *accumulator, records []gjson.Result) continuation {
	next := stopped()
	if len(records) > 0 {
		if params := deriveCursor(records[len(records)-1], s.spec.Sort); len(params) > 0 {
			next = continueWith(params)
		}
	}

	if grew := acc.addCursorPage(records); !grew {
		return stopped()
	}
	if s.minSatisfied(acc) {
		return stopped()
	}
	return next
}

// advanceWindow merges one offset window. Zero growth stops the session
// regardless of an unsatisfied __min; otherwise the next window is requested
// by skipping everything accumulated so far.
func (s *Session) advanceWindow(acc *accumulator, records []gjson.Result) continuation {
	if grew := acc.addWindow(records); !grew {
		return stopped()
	}
	if s.minSatisfied(acc) {
		return stopped()
	}
	skip := query.Param{Key: query.SkipKey, Value: strconv.Itoa(acc.count())}
	return continueWith(query.Params{skip})
}

func (s *Session) minSatisfied(acc *accumulator) bool {
	return s.spec.Min >= 0 && acc.count() >= s.spec.Min
}
