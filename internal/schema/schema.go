// Package schema validates decoded JSON objects against a declarative ruleset.
//
// A Definition lists one Rule per known field. Compile turns it into a Schema
// once at startup; Validate is then a pure check that reports every violation
// instead of stopping at the first one.
package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

type Type string

const (
	TypeString  Type = "string"
	TypeInteger Type = "integer"
)

// Violation kinds, reported in Violation.Rule.
const (
	RuleRequired             = "required"
	RuleType                 = "type"
	RuleFormat               = "format"
	RuleMinLength            = "minLength"
	RuleMinimum              = "minimum"
	RuleMaximum              = "maximum"
	RuleAdditionalProperties = "additionalProperties"
)

// formats maps JSON-schema format names onto validator tags.
var formats = map[string]string{
	"email": "email",
}

var (
	ErrEmptyBody = errors.New("request body is empty")
	ErrNotObject = errors.New("request body must be a JSON object")
)

type Rule struct {
	Field     string
	Type      Type
	Required  bool
	Format    string // JSON-schema format name, string fields only
	MinLength int    // in runes, string fields only
	Minimum   *int   // inclusive, integer fields only
	Maximum   *int   // inclusive, integer fields only
}

// Bound returns a pointer for Rule.Minimum and Rule.Maximum.
func Bound(n int) *int { return &n }

type Definition struct {
	Rules                []Rule
	AdditionalProperties bool
}

type Violation struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

type Schema struct {
	rules      []Rule
	tags       map[string]string // field -> validator tag
	known      map[string]struct{}
	additional bool
	validate   *validator.Validate
}

// Compile checks the definition and prepares it for repeated use.
func Compile(def Definition) (*Schema, error) {
	s := &Schema{
		rules:      def.Rules,
		tags:       make(map[string]string),
		known:      make(map[string]struct{}, len(def.Rules)),
		additional: def.AdditionalProperties,
		validate:   validator.New(),
	}

	for _, r := range def.Rules {
		if r.Field == "" {
			return nil, errors.New("rule without field name")
		}
		if _, dup := s.known[r.Field]; dup {
			return nil, fmt.Errorf("duplicate rule for field %q", r.Field)
		}
		s.known[r.Field] = struct{}{}

		switch r.Type {
		case TypeString:
			if r.Minimum != nil || r.Maximum != nil {
				return nil, fmt.Errorf("field %q: minimum and maximum apply to integers only", r.Field)
			}
		case TypeInteger:
			if r.Format != "" || r.MinLength > 0 {
				return nil, fmt.Errorf("field %q: format and minLength apply to strings only", r.Field)
			}
			if r.Minimum != nil && r.Maximum != nil && *r.Minimum > *r.Maximum {
				return nil, fmt.Errorf("field %q: minimum %d exceeds maximum %d", r.Field, *r.Minimum, *r.Maximum)
			}
		default:
			return nil, fmt.Errorf("field %q: unsupported type %q", r.Field, r.Type)
		}

		if r.Format != "" {
			tag, ok := formats[r.Format]
			if !ok {
				return nil, fmt.Errorf("field %q: unsupported format %q", r.Field, r.Format)
			}
			s.tags[r.Field] = tag
		}
	}

	return s, nil
}

// Validate returns nil when doc satisfies the schema. Violations are ordered
// by rule declaration, followed by unexpected keys in lexical order.
func (s *Schema) Validate(doc map[string]any) []Violation {
	var out []Violation

	for _, r := range s.rules {
		v, present := doc[r.Field]
		if !present {
			if r.Required {
				out = append(out, Violation{
					Field:   r.Field,
					Rule:    RuleRequired,
					Message: fmt.Sprintf("must have required property '%s'", r.Field),
				})
			}
			continue
		}
		out = append(out, s.check(r, v)...)
	}

	if !s.additional {
		var extra []string
		for k := range doc {
			if _, ok := s.known[k]; !ok {
				extra = append(extra, k)
			}
		}
		sort.Strings(extra)
		for _, k := range extra {
			out = append(out, Violation{
				Field:   k,
				Rule:    RuleAdditionalProperties,
				Message: "must NOT have additional properties",
			})
		}
	}

	return out
}

func (s *Schema) check(r Rule, v any) []Violation {
	typeErr := Violation{Field: r.Field, Rule: RuleType, Message: "must be " + string(r.Type)}

	if r.Type == TypeInteger {
		n, ok := AsInt(v)
		if !ok {
			return []Violation{typeErr}
		}
		switch {
		case r.Minimum != nil && n < *r.Minimum:
			return []Violation{{Field: r.Field, Rule: RuleMinimum, Message: fmt.Sprintf("must be >= %d", *r.Minimum)}}
		case r.Maximum != nil && n > *r.Maximum:
			return []Violation{{Field: r.Field, Rule: RuleMaximum, Message: fmt.Sprintf("must be <= %d", *r.Maximum)}}
		}
		return nil
	}

	str, ok := v.(string)
	if !ok {
		return []Violation{typeErr}
	}

	var out []Violation
	if r.MinLength > 0 && utf8.RuneCountInString(str) < r.MinLength {
		out = append(out, Violation{
			Field:   r.Field,
			Rule:    RuleMinLength,
			Message: fmt.Sprintf("must NOT have fewer than %d characters", r.MinLength),
		})
	}
	if tag, ok := s.tags[r.Field]; ok {
		if err := s.validate.Var(str, tag); err != nil {
			out = append(out, Violation{
				Field:   r.Field,
				Rule:    RuleFormat,
				Message: fmt.Sprintf("must match format \"%s\"", r.Format),
			})
		}
	}
	return out
}

// AsInt reports whether v is a JSON integer: a number with no fractional part
// that fits in an int.
func AsInt(v any) (int, bool) {
	var f float64
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return fitInt(i)
		}
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case float64:
		f = n
	case int:
		return n, true
	case int64:
		return fitInt(n)
	default:
		return 0, false
	}

	if math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		return 0, false
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return fitInt(int64(f))
}

func fitInt(i int64) (int, bool) {
	if int64(int(i)) != i {
		return 0, false
	}
	return int(i), true
}

// Decode reads a single JSON object, keeping numbers as json.Number so that
// integer checks are exact.
func Decode(r io.Reader) (map[string]any, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, ErrEmptyBody
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}
	if dec.More() {
		return nil, errors.New("decode body: unexpected data after JSON object")
	}

	doc, ok := v.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	return doc, nil
}
