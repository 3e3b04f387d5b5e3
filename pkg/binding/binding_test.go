package binding_test

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-stepform/pkg/binding"
	"github.com/goliatone/go-stepform/pkg/model"
	"github.com/goliatone/go-stepform/pkg/schema"
	"github.com/goliatone/go-stepform/pkg/stepper"
)

func TestCoerce(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		raw   binding.RawInput
		input model.InputType
		want  any
	}{
		{name: "checkbox checked", raw: binding.Checkbox(true), input: model.InputCheckbox, want: true},
		{name: "checkbox ignores value", raw: binding.RawInput{Value: "on"}, input: model.InputCheckbox, want: false},
		{name: "number", raw: binding.Text(" 42.5 "), input: model.InputNumber, want: 42.5},
		{name: "number exponent", raw: binding.Text("-1.5e3"), input: model.InputNumber, want: -1500.0},
		{name: "number leading dot", raw: binding.Text(".5"), input: model.InputNumber, want: 0.5},
		{name: "text stays string", raw: binding.Text("42"), input: model.InputText, want: "42"},
		{name: "password stays string", raw: binding.Text(" secret "), input: model.InputPassword, want: " secret "},
		{name: "email stays string", raw: binding.Text("a@b.co"), input: model.InputEmail, want: "a@b.co"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if diff := cmp.Diff(tc.want, binding.Coerce(tc.raw, tc.input)); diff != "" {
				t.Fatalf("coerce mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCoerceInvalidNumberIsNaN(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "12abc", "one", "inf", "-Infinity", "NaN", "1_000", "0x1p3", "1e999", "."} {
		value, ok := binding.Coerce(binding.Text(raw), model.InputNumber).(float64)
		if !ok || !math.IsNaN(value) {
			t.Fatalf("Coerce(%q) = %v, want NaN", raw, value)
		}
	}
}

func TestDisplay(t *testing.T) {
	t.Parallel()

	got := []string{
		binding.Display(nil),
		binding.Display("x"),
		binding.Display(true),
		binding.Display(3.0),
		binding.Display(math.NaN()),
	}
	want := []string{"", "x", "true", "3", ""}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("display mismatch (-want +got):\n%s", diff)
	}
}

func newEngine(t *testing.T) *stepper.Engine {
	t.Helper()
	engine, err := stepper.New(2, stepper.WithTabSchemas(
		schema.Object(schema.Field("stock", schema.Number().Min(0, ""))),
		schema.Object(schema.Field("agreeTerms", schema.Bool().Accepted("You must agree to the terms and conditions"))),
	))
	if err != nil {
		t.Fatalf("stepper.New: %v", err)
	}
	return engine
}

func TestBindingWritesCoercedValues(t *testing.T) {
	t.Parallel()

	engine := newEngine(t)
	bindings, err := binding.Bind(engine, []binding.Spec{
		{Tab: 0, Field: "stock", Input: model.InputNumber},
		{Tab: 1, Field: "agreeTerms", Input: model.InputCheckbox},
	})
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	stock, terms := bindings[0], bindings[1]

	if terms.Checked() || terms.Value() != false {
		t.Fatalf("untouched checkbox must read false, got %v", terms.Value())
	}
	if stock.Value() != "" || stock.Display() != "" {
		t.Fatalf("untouched number must read empty, got %v", stock.Value())
	}
	if _, err := stock.Set(binding.Text("7")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	state, err := terms.Set(binding.Checkbox(true))
	if err != nil {
		t.Fatalf("Set: %v", err)
	}

	if stock.Value() != 7.0 || stock.Display() != "7" {
		t.Fatalf("unexpected stock value %v (%q)", stock.Value(), stock.Display())
	}
	if !terms.Checked() || !state[1].IsValid {
		t.Fatalf("expected checked and valid tab, got %+v", state[1])
	}
}

func TestBindingInvalidNumberIsPresentButInvalid(t *testing.T) {
	t.Parallel()

	engine := newEngine(t)
	stock, err := binding.New(engine, binding.Spec{Tab: 0, Field: "stock", Input: model.InputNumber})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := stock.Set(binding.Text("lots")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok := engine.Lookup(0, "stock"); !ok {
		t.Fatalf("expected NaN to be stored")
	}
	result := engine.ValidateTab(0)
	if result.Valid || result.Errors["stock"] != "Expected number, received nan" {
		t.Fatalf("expected NaN to fail validation, got %+v", result)
	}
	if stock.Display() != "" {
		t.Fatalf("NaN should display empty, got %q", stock.Display())
	}
}

func TestBindingRejectsInfinity(t *testing.T) {
	t.Parallel()

	engine := newEngine(t)
	stock, err := binding.New(engine, binding.Spec{Tab: 0, Field: "stock", Input: model.InputNumber})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, raw := range []string{"inf", "Infinity", "1e999"} {
		if _, err := stock.Set(binding.Text(raw)); err != nil {
			t.Fatalf("Set(%q): %v", raw, err)
		}
		if result := engine.ValidateTab(0); result.Valid {
			t.Fatalf("Set(%q) stored %v and passed validation", raw, stock.Value())
		}
	}
}

func TestBindingSanitizesFreeText(t *testing.T) {
	t.Parallel()

	engine, err := stepper.New(1)
	if err != nil {
		t.Fatalf("stepper.New: %v", err)
	}
	store, err := binding.New(engine, binding.Spec{Field: "storeName"}, binding.WithStrictSanitizer())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	password, err := binding.New(engine, binding.Spec{Field: "password", Input: model.InputPassword}, binding.WithStrictSanitizer())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, _ = store.Set(binding.Text("<b>Tom & Jerry</b>"))
	_, _ = password.Set(binding.Text("<b>pw</b>"))

	if got := store.Value(); got != "Tom & Jerry" {
		t.Fatalf("expected markup stripped, got %q", got)
	}
	if got := password.Value(); got != "<b>pw</b>" {
		t.Fatalf("password must be stored verbatim, got %q", got)
	}
}

func TestNewRejectsInvalidSpec(t *testing.T) {
	t.Parallel()

	engine := newEngine(t)
	if _, err := binding.New(engine, binding.Spec{Tab: -1, Field: "x"}); err == nil {
		t.Fatalf("expected error for negative tab")
	}
	if _, err := binding.New(engine, binding.Spec{Field: " "}); err == nil {
		t.Fatalf("expected error for empty field")
	}
	if _, err := binding.New(nil, binding.Spec{Field: "x"}); err == nil {
		t.Fatalf("expected error for nil target")
	}
}
