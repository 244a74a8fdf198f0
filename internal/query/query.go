// Package query parses the positional key=value arguments into the ordered
// parameter list sent to the API, along with the reserved qualifiers that
// steer pagination (__sort, __min, __limit).
package query

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Reserved parameter names inspected by the pagination engine. They are still
// forwarded to the server as literal query parameters.
const (
	SortKey  = "__sort"
	MinKey   = "__min"
	LimitKey = "__limit"
	SkipKey  = "__skip"
)

// DefaultLimit is the page size injected when the caller supplies no __limit.
const DefaultLimit = 30

// Param is a single query parameter.
type Param struct {
	Key   string
	Value string
}

// Params is an ordered query parameter multimap. Order is part of the wire
// contract: filters are forwarded in the order the caller supplied them, and
// continuation parameters are appended last.
type Params []Param

// Get returns the value of the first parameter with the given key.
func (p Params) Get(key string) (string, bool) {
	for _, param := range p {
		if param.Key == key {
			return param.Value, true
		}
	}
	return "", false
}

// Has reports whether a parameter with the given key exists.
func (p Params) Has(key string) bool {
	_, ok := p.Get(key)
	return ok
}

// With returns a copy of p with extra parameters appended. The receiver is
// never modified, so a base parameter set can be reused across requests.
func (p Params) With(extra ...Param) Params {
	merged := make(Params, 0, len(p)+len(extra))
	merged = append(merged, p...)
	merged = append(merged, extra...)
	return merged
}

// Encode serializes the parameters as a URL query string, preserving order.
func (p Params) Encode() string {
	var b strings.Builder
	for i, param := range p {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(param.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(param.Value))
	}
	return b.String()
}

// Tokens renders the parameters back into key=value argument form.
func (p Params) Tokens() []string {
	tokens := make([]string, len(p))
	for i, param := range p {
		tokens[i] = param.Key + "=" + param.Value
	}
	return tokens
}

// SortSpec is a parsed __sort qualifier: a field path plus an opaque
// direction token that is passed through to the server unmodified.
type SortSpec struct {
	Path      []string
	Direction string
}

// Field returns the final path segment, the field the continuation parameter
// is named after.
func (s SortSpec) Field() string {
	return s.Path[len(s.Path)-1]
}

// Spec is the fully parsed query specification for one run.
type Spec struct {
	// Params holds every parameter forwarded to the server, in caller order,
	// with __limit and __sort defaults injected when absent.
	Params Params

	// Sort is the caller-supplied sort qualifier, nil when the caller gave
	// none (the injected __sort default orders by identity, which the cursor
	// derivation covers on its own).
	Sort *SortSpec

	// Min is the minimum accepted record count before pagination may stop
	// early, or -1 when no __min qualifier was given.
	Min int
}

// Parse turns raw key=value tokens into a Spec. defaultLimit is used for the
// injected __limit parameter; values below one fall back to DefaultLimit.
// All parse failures happen here, before any request is issued.
func Parse(tokens []string, defaultLimit int) (*Spec, error) {
	params := make(Params, 0, len(tokens)+2)
	for _, token := range tokens {
		idx := strings.Index(token, "=")
		if idx < 0 {
			return nil, fmt.Errorf("invalid query argument %q: expected key=value", token)
		}
		params = append(params, Param{Key: token[:idx], Value: token[idx+1:]})
	}

	spec := &Spec{Min: -1}

	if raw, ok := params.Get(SortKey); ok {
		sort, err := parseSort(raw)
		if err != nil {
			return nil, err
		}
		spec.Sort = sort
	}

	if raw, ok := params.Get(MinKey); ok {
		min, err := strconv.Atoi(raw)
		if err != nil || min < 0 {
			return nil, fmt.Errorf("invalid __min value %q: expected a non-negative integer", raw)
		}
		spec.Min = min
	}

	if defaultLimit < 1 {
		defaultLimit = DefaultLimit
	}
	var defaults Params
	if !params.Has(LimitKey) {
		defaults = append(defaults, Param{Key: LimitKey, Value: strconv.Itoa(defaultLimit)})
	}
	if !params.Has(SortKey) {
		// Deterministic server-side ordering for cursor derivation.
		defaults = append(defaults, Param{Key: SortKey, Value: "_id::1"})
	}
	spec.Params = defaults.With(params...)

	return spec, nil
}

// parseSort parses "field.path::direction", e.g. "metadata.score::-1".
func parseSort(raw string) (*SortSpec, error) {
	path, direction, ok := strings.Cut(raw, "::")
	if !ok || path == "" {
		return nil, fmt.Errorf("invalid sort key spec %q: expected <field.path>::<direction>", raw)
	}
	return &SortSpec{Path: strings.Split(path, "."), Direction: direction}, nil
}
