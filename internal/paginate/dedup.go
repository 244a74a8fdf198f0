package paginate

import (
	"bytes"
	"encoding/json"

	"github.com/tidwall/gjson"
)

// accumulator merges incoming records into the aggregate result and tracks
// record identity across pages. It is owned by a single session and never
// shared.
type accumulator struct {
	seen    map[string]struct{}
	records []json.RawMessage
	single  gjson.Result
	mode    aggregateMode
}

type aggregateMode int

const (
	modeArray aggregateMode = iota
	modeSingle
)

func newAccumulator() *accumulator {
	return &accumulator{seen: make(map[string]struct{})}
}

// addCursorPage filters a cursor page against the identities seen on earlier
// pages and reports whether the page introduced any new identity. Records
// without a string _id cannot be deduplicated and are always accepted.
// Identities are recorded after filtering, so duplicates within one page do
// not suppress each other.
func (a *accumulator) addCursorPage(records []gjson.Result) (grew bool) {
	var ids []string
	for _, record := range records {
		id := record.Get("_id")
		if id.Type == gjson.String {
			ids = append(ids, id.Str)
			if _, dup := a.seen[id.Str]; dup {
				continue
			}
		}
		a.records = append(a.records, json.RawMessage(record.Raw))
	}

	before := len(a.seen)
	for _, id := range ids {
		a.seen[id] = struct{}{}
	}
	return len(a.seen) > before
}

// addWindow appends offset-window records without identity filtering and
// reports whether the aggregate grew at all.
func (a *accumulator) addWindow(records []gjson.Result) (grew bool) {
	for _, record := range records {
		a.records = append(a.records, json.RawMessage(record.Raw))
	}
	return len(records) > 0
}

// setSingle commits the aggregate to a bare value.
func (a *accumulator) setSingle(value gjson.Result) {
	a.single = value
	a.mode = modeSingle
}

// count is the entry count used for progress reporting and __min checks: the
// record total in array mode; for a bare value, an array counts its length,
// a non-empty object counts 1, anything else 0.
func (a *accumulator) count() int {
	if a.mode == modeSingle {
		if a.single.IsArray() {
			return len(a.single.Array())
		}
		if a.single.IsObject() && len(a.single.Map()) > 0 {
			return 1
		}
		return 0
	}
	return len(a.records)
}

// value assembles the final aggregate as compact JSON.
func (a *accumulator) value() json.RawMessage {
	if a.mode == modeSingle {
		return json.RawMessage(a.single.Raw)
	}
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, record := range a.records {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(record)
	}
	buf.WriteByte(']')
	return buf.Bytes()
}
