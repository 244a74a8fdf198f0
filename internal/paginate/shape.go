// Package paginate implements the adaptive pagination engine: response shape
// classification, cursor derivation, identity deduplication, and the loop
// that drives them across requests.
package paginate

import "github.com/tidwall/gjson"

// Shape identifies the structural form of one decoded response body.
type Shape int

const (
	// ShapeSingle is an opaque, non-paginated payload.
	ShapeSingle Shape = iota

	// ShapeWindow is one page of offset-style pagination: the data field is
	// directly a flat record list with no embedded page descriptor.
	ShapeWindow

	// ShapeCursor is one page of cursor-style pagination: the data field is a
	// page descriptor holding a results record list.
	ShapeCursor
)

func (s Shape) String() string {
	switch s {
	case ShapeWindow:
		return "window"
	case ShapeCursor:
		return "cursor"
	}
	return "single"
}

// Classification is the outcome of probing one response body.
type Classification struct {
	Shape   Shape
	Records []gjson.Result // ShapeWindow, ShapeCursor
	Value   gjson.Result   // ShapeSingle
}

// Classify determines the shape of a decoded response body. The probe is
// purely structural: a nested data.results array wins, then a flat data
// array, and anything else is a single value.
func Classify(body gjson.Result) Classification {
	if body.IsObject() {
		data := body.Get("data")
		if data.IsObject() {
			if results := data.Get("results"); results.IsArray() {
				return Classification{Shape: ShapeCursor, Records: results.Array()}
			}
		}
		if data.IsArray() {
			return Classification{Shape: ShapeWindow, Records: data.Array()}
		}
	}
	return Classification{Shape: ShapeSingle, Value: body}
}
