package binding

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/goliatone/go-stepform/pkg/model"
)

// RawInput is the representation an input widget reports on change. Checked
// is only meaningful for checkboxes.
type RawInput struct {
	Value   string
	Checked bool
}

// Text wraps a plain text value.
func Text(value string) RawInput { return RawInput{Value: value} }

// Checkbox wraps a checkbox state.
func Checkbox(checked bool) RawInput { return RawInput{Checked: checked} }

var decimalPattern = regexp.MustCompile(`^[+-]?(?:[0-9]+\.?[0-9]*|\.[0-9]+)(?:[eE][+-]?[0-9]+)?$`)

// Coerce converts raw into the semantic type of input: checkboxes become
// bool, numeric inputs become float64 and everything else stays a string.
// Numeric text that is not a plain finite decimal becomes NaN so validation
// reports it as present but invalid.
func Coerce(raw RawInput, input model.InputType) any {
	switch input {
	case model.InputCheckbox:
		return raw.Checked
	case model.InputNumber:
		return parseDecimal(raw.Value)
	default:
		return raw.Value
	}
}

// parseDecimal accepts digits with an optional sign, fraction and exponent.
// Infinity, hex, underscores and overflowing values are NaN.
func parseDecimal(text string) float64 {
	text = strings.TrimSpace(text)
	if !decimalPattern.MatchString(text) {
		return math.NaN()
	}
	value, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsInf(value, 0) {
		return math.NaN()
	}
	return value
}

// Display formats a stored value for an input. Missing and NaN values render
// as an empty string.
func Display(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		if math.IsNaN(v) {
			return ""
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return ""
	}
}
