package paginate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantShape   Shape
		wantRecords int
	}{
		{
			name:        "cursor page",
			body:        `{"status":1,"data":{"results":[{"_id":"a"},{"_id":"b"}],"skip":0,"limit":30}}`,
			wantShape:   ShapeCursor,
			wantRecords: 2,
		},
		{
			name:        "cursor page with empty results",
			body:        `{"data":{"results":[]}}`,
			wantShape:   ShapeCursor,
			wantRecords: 0,
		},
		{
			name:        "window page",
			body:        `{"data":[{"x":1},{"x":2},{"x":3}]}`,
			wantShape:   ShapeWindow,
			wantRecords: 3,
		},
		{
			name:      "bare object",
			body:      `{"a":1}`,
			wantShape: ShapeSingle,
		},
		{
			name:      "data is a scalar",
			body:      `{"data":42}`,
			wantShape: ShapeSingle,
		},
		{
			name:      "data object without results list",
			body:      `{"data":{"volume":"12000"}}`,
			wantShape: ShapeSingle,
		},
		{
			name:      "data object with non-array results",
			body:      `{"data":{"results":{"a":1}}}`,
			wantShape: ShapeSingle,
		},
		{
			name:      "top-level array",
			body:      `[1,2,3]`,
			wantShape: ShapeSingle,
		},
		{
			name:      "bare scalar",
			body:      `"ok"`,
			wantShape: ShapeSingle,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cls := Classify(gjson.Parse(tc.body))
			assert.Equal(t, tc.wantShape, cls.Shape)
			assert.Len(t, cls.Records, tc.wantRecords)
			if tc.wantShape == ShapeSingle {
				assert.Equal(t, tc.body, cls.Value.Raw)
			}
		})
	}
}

func TestClassifyNestedResultsBeatsFlatData(t *testing.T) {
	// The nested page descriptor takes precedence by construction: a data
	// value cannot be both an object and an array, but the probe order is
	// still pinned here.
	cls := Classify(gjson.Parse(`{"data":{"results":[{"_id":"a"}]}}`))
	require.Equal(t, ShapeCursor, cls.Shape)
	assert.Equal(t, "a", cls.Records[0].Get("_id").Str)
}

func TestShapeString(t *testing.T) {
	assert.Equal(t, "single", ShapeSingle.String())
	assert.Equal(t, "window", ShapeWindow.String())
	assert.Equal(t, "cursor", ShapeCursor.String())
}
