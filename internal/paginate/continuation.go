package paginate

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/miraclx/qparas/internal/query"
)

// continuation is the three-state next-request decision: the first request
// has no token yet, a later request carries derived parameters, and a
// stopped session issues no further requests. The states are kept explicit
// so "not yet computed" and "computed as absent" can never be confused.
type continuation struct {
	state  continuationState
	params query.Params
}

type continuationState int

const (
	stateInitial continuationState = iota
	stateContinue
	stateStopped
)

func initialContinuation() continuation {
	return continuation{state: stateInitial}
}

func continueWith(params query.Params) continuation {
	return continuation{state: stateContinue, params: params}
}

func stopped() continuation {
	return continuation{state: stateStopped}
}

// next returns the parameters to merge into the coming request. ok is false
// once the session has stopped.
func (c continuation) next() (params query.Params, ok bool) {
	switch c.state {
	case stateInitial:
		return nil, true
	case stateContinue:
		return c.params, true
	}
	return nil, false
}

// deriveCursor computes the next page's continuation parameters from the
// last record of a cursor page. The identity path is always attempted so the
// server can break ties; the sort path is attempted additionally when the
// caller configured one. An unresolvable path is skipped, not an error.
// An empty result means pagination cannot continue deterministically.
func deriveCursor(last gjson.Result, sort *query.SortSpec) query.Params {
	paths := [][]string{{"_id"}}
	if sort != nil {
		paths = append(paths, sort.Path)
	}

	var params query.Params
	for _, path := range paths {
		value, ok := resolvePath(last, path)
		if !ok {
			continue
		}
		name := path[len(path)-1] + "_next"
		if params.Has(name) {
			// A sort on the identity field would repeat _id_next.
			continue
		}
		params = append(params, query.Param{Key: name, Value: value})
	}
	return params
}

// resolvePath walks a record following each segment as a key lookup and
// renders the leaf as a continuation value. Strings pass verbatim, numbers
// format as decimal strings, any other type yields nothing.
func resolvePath(record gjson.Result, path []string) (string, bool) {
	current := record
	for _, segment := range path {
		if !current.IsObject() {
			return "", false
		}
		current = current.Get(escapeSegment(segment))
		if !current.Exists() {
			return "", false
		}
	}
	switch current.Type {
	case gjson.String:
		return current.Str, true
	case gjson.Number:
		return strconv.FormatFloat(current.Num, 'f', -1, 64), true
	}
	return "", false
}

// escapeSegment quotes gjson path syntax so a segment is a literal key.
func escapeSegment(segment string) string {
	if !strings.ContainsAny(segment, `\.*?|#@%`) {
		return segment
	}
	var b strings.Builder
	for _, r := range segment {
		if strings.ContainsRune(`\.*?|#@%`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
