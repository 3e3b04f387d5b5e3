package schema

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"unicode/utf8"
)

// Kind is the value kind a rule expects.
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindNumber
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	default:
		return "unknown"
	}
}

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9_'+\-]+(?:\.[A-Za-z0-9_'+\-]+)*@[A-Za-z0-9](?:[A-Za-z0-9\-]*[A-Za-z0-9])?(?:\.[A-Za-z0-9](?:[A-Za-z0-9\-]*[A-Za-z0-9])?)*\.[A-Za-z]{2,}$`)

type check struct {
	name    string
	message string
	test    func(value any) bool
}

// Rule is the constraint set for one field. Rules are immutable; every
// builder method returns a copy.
type Rule struct {
	kind            Kind
	optional        bool
	requiredMessage string
	checks          []check
}

// String starts a rule for text values.
func String() Rule { return Rule{kind: KindString} }

// Bool starts a rule for checkbox values.
func Bool() Rule { return Rule{kind: KindBool} }

// Number starts a rule for numeric values. Infinities are always rejected;
// Finite only changes the message.
func Number() Rule {
	return Rule{kind: KindNumber, checks: []check{finiteCheck(defaultFiniteMessage)}}
}

// Kind reports the value kind the rule expects.
func (r Rule) Kind() Kind { return r.kind }

// IsOptional reports whether absent or empty values skip the checks.
func (r Rule) IsOptional() bool { return r.optional }

// Optional lets absent values (and empty strings) pass without running checks.
func (r Rule) Optional() Rule {
	out := r.clone()
	out.optional = true
	return out
}

// Required overrides the message reported when a number is absent.
func (r Rule) Required(message string) Rule {
	out := r.clone()
	out.requiredMessage = message
	return out
}

// MinLength requires at least n characters.
func (r Rule) MinLength(n int, message string) Rule {
	if message == "" {
		message = fmt.Sprintf("String must contain at least %d character(s)", n)
	}
	return r.with("minLength", message, func(v any) bool {
		s, _ := v.(string)
		return utf8.RuneCountInString(s) >= n
	})
}

// MaxLength allows at most n characters.
func (r Rule) MaxLength(n int, message string) Rule {
	if message == "" {
		message = fmt.Sprintf("String must contain at most %d character(s)", n)
	}
	return r.with("maxLength", message, func(v any) bool {
		s, _ := v.(string)
		return utf8.RuneCountInString(s) <= n
	})
}

// Email requires a syntactically valid address.
func (r Rule) Email(message string) Rule {
	if message == "" {
		message = "Invalid email"
	}
	return r.with("email", message, func(v any) bool {
		s, _ := v.(string)
		return emailPattern.MatchString(s)
	})
}

// Pattern requires the value to match re.
func (r Rule) Pattern(re *regexp.Regexp, message string) Rule {
	if message == "" {
		message = "Invalid"
	}
	return r.with("pattern", message, func(v any) bool {
		s, _ := v.(string)
		return re != nil && re.MatchString(s)
	})
}

// Accepted requires a checkbox to be ticked.
func (r Rule) Accepted(message string) Rule {
	if message == "" {
		message = "Invalid input"
	}
	return r.with("accepted", message, func(v any) bool {
		b, _ := v.(bool)
		return b
	})
}

// Min requires a number greater than or equal to n.
func (r Rule) Min(n float64, message string) Rule {
	if message == "" {
		message = fmt.Sprintf("Number must be greater than or equal to %s", formatNumber(n))
	}
	return r.with("min", message, func(v any) bool {
		f, _ := v.(float64)
		return f >= n
	})
}

// Max requires a number less than or equal to n.
func (r Rule) Max(n float64, message string) Rule {
	if message == "" {
		message = fmt.Sprintf("Number must be less than or equal to %s", formatNumber(n))
	}
	return r.with("max", message, func(v any) bool {
		f, _ := v.(float64)
		return f <= n
	})
}

const defaultFiniteMessage = "Number must be finite"

// Finite sets the message reported for infinities.
func (r Rule) Finite(message string) Rule {
	if message == "" {
		message = defaultFiniteMessage
	}
	out := r.clone()
	for idx := range out.checks {
		if out.checks[idx].name == "finite" {
			out.checks[idx].message = message
			return out
		}
	}
	out.checks = append(out.checks, finiteCheck(message))
	return out
}

func finiteCheck(message string) check {
	return check{name: "finite", message: message, test: func(v any) bool {
		f, _ := v.(float64)
		return !math.IsInf(f, 0)
	}}
}

func (r Rule) with(name, message string, test func(any) bool) Rule {
	out := r.clone()
	out.checks = append(out.checks, check{name: name, message: message, test: test})
	return out
}

func (r Rule) clone() Rule {
	out := r
	out.checks = append([]check(nil), r.checks...)
	return out
}

// Check validates one value. present is false when the field key is missing.
func (r Rule) Check(value any, present bool) []string {
	if !present || value == nil {
		switch r.kind {
		case KindString:
			value = ""
		case KindBool:
			value = false
		case KindNumber:
			if r.optional {
				return nil
			}
			msg := r.requiredMessage
			if msg == "" {
				msg = "Required"
			}
			return []string{msg}
		}
		if r.optional {
			return nil
		}
	}

	normalized, ok := normalize(r.kind, value)
	if !ok {
		return []string{fmt.Sprintf("Expected %s, received %s", r.kind, typeName(value))}
	}
	if r.optional && r.kind == KindString && normalized == "" {
		return nil
	}

	var messages []string
	for _, c := range r.checks {
		if !c.test(normalized) {
			messages = append(messages, c.message)
		}
	}
	return messages
}

func normalize(kind Kind, value any) (any, bool) {
	switch kind {
	case KindString:
		s, ok := value.(string)
		return s, ok
	case KindBool:
		b, ok := value.(bool)
		return b, ok
	case KindNumber:
		f, ok := toFloat(value)
		if !ok || math.IsNaN(f) {
			return nil, false
		}
		return f, true
	default:
		return nil, false
	}
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}

func typeName(value any) string {
	switch v := value.(type) {
	case nil:
		return "undefined"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64:
		if math.IsNaN(v) {
			return "nan"
		}
		return "number"
	case float32:
		if math.IsNaN(float64(v)) {
			return "nan"
		}
		return "number"
	case int, int32, int64, uint, uint64:
		return "number"
	case []any:
		return "array"
	default:
		return "object"
	}
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
