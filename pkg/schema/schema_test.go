package schema_test

import (
	"math"
	"regexp"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-stepform/pkg/schema"
)

func passwordSchema(t *testing.T) *schema.ObjectSchema {
	t.Helper()
	obj, err := schema.Object(
		schema.Field("password", schema.String().MinLength(8, "Password must be at least 8 characters")),
		schema.Field("confirmPassword", schema.String()),
	).RefineExpr("password == confirmPassword", "Passwords do not match", "confirmPassword")
	if err != nil {
		t.Fatalf("RefineExpr: %v", err)
	}
	return obj
}

func TestObjectCrossFieldRefinementAttachesToDependentField(t *testing.T) {
	t.Parallel()

	result := passwordSchema(t).Validate(map[string]any{
		"password": "abcdef12",
	})
	if result.Valid {
		t.Fatalf("expected mismatch to be invalid")
	}
	want := map[string]string{"confirmPassword": "Passwords do not match"}
	if diff := cmp.Diff(want, result.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestObjectRefinementSkippedWhileFieldRulesFail(t *testing.T) {
	t.Parallel()

	result := passwordSchema(t).Validate(map[string]any{
		"password":        "short",
		"confirmPassword": "other",
	})
	want := []schema.Issue{{Field: "password", Message: "Password must be at least 8 characters"}}
	if diff := cmp.Diff(want, result.Issues); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}
}

func TestObjectMatchingPasswordsPass(t *testing.T) {
	t.Parallel()

	result := passwordSchema(t).Validate(map[string]any{
		"password":        "abcdef12",
		"confirmPassword": "abcdef12",
	})
	if !result.Valid {
		t.Fatalf("expected valid, got %v", result.Issues)
	}
}

func TestBoolAcceptedDefaultsToFalse(t *testing.T) {
	t.Parallel()

	obj := schema.Object(
		schema.Field("agreeTerms", schema.Bool().Accepted("You must agree to the terms and conditions")),
	)
	result := obj.Validate(map[string]any{})
	want := map[string]string{"agreeTerms": "You must agree to the terms and conditions"}
	if diff := cmp.Diff(want, result.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}

	if got := obj.Validate(map[string]any{"agreeTerms": true}); !got.Valid {
		t.Fatalf("expected ticked checkbox to pass, got %v", got.Issues)
	}
}

func TestNumberRejectsInfinity(t *testing.T) {
	t.Parallel()

	obj := schema.Object(
		schema.Field("quantity", schema.Number()),
		schema.Field("stock", schema.Number().Optional().Finite("Stock must be a real number")),
	)
	result := obj.Validate(map[string]any{"quantity": math.Inf(1), "stock": math.Inf(-1)})
	want := map[string]string{
		"quantity": "Number must be finite",
		"stock":    "Stock must be a real number",
	}
	if diff := cmp.Diff(want, result.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if got := obj.Validate(map[string]any{"quantity": 3.0}); !got.Valid {
		t.Fatalf("expected finite number to pass, got %v", got.Issues)
	}
}

func TestNumberNaNIsPresentButInvalid(t *testing.T) {
	t.Parallel()

	obj := schema.Object(schema.Field("quantity", schema.Number().Min(1, "")))

	result := obj.Validate(map[string]any{"quantity": math.NaN()})
	want := map[string]string{"quantity": "Expected number, received nan"}
	if diff := cmp.Diff(want, result.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}

	result = obj.Validate(map[string]any{})
	if diff := cmp.Diff(map[string]string{"quantity": "Required"}, result.Errors()); diff != "" {
		t.Fatalf("absent number mismatch (-want +got):\n%s", diff)
	}

	result = obj.Validate(map[string]any{"quantity": 0.5})
	if diff := cmp.Diff(map[string]string{"quantity": "Number must be greater than or equal to 1"}, result.Errors()); diff != "" {
		t.Fatalf("min mismatch (-want +got):\n%s", diff)
	}

	optional := schema.Object(schema.Field("quantity", schema.Number().Optional()))
	if got := optional.Validate(map[string]any{"quantity": math.NaN()}); got.Valid {
		t.Fatalf("expected NaN to fail even when optional")
	}
	if got := optional.Validate(map[string]any{}); !got.Valid {
		t.Fatalf("expected absent optional number to pass, got %v", got.Issues)
	}
}

func TestStringRules(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		rule  schema.Rule
		value any
		want  []string
	}{
		{name: "min length", rule: schema.String().MinLength(2, "too short"), value: "a", want: []string{"too short"}},
		{name: "min length absent", rule: schema.String().MinLength(2, "too short"), value: nil, want: []string{"too short"}},
		{name: "max length", rule: schema.String().MaxLength(3, ""), value: "abcd", want: []string{"String must contain at most 3 character(s)"}},
		{name: "email ok", rule: schema.String().Email(""), value: "seller@example.com"},
		{name: "email bad", rule: schema.String().Email(""), value: "seller@", want: []string{"Invalid email"}},
		{name: "pattern", rule: schema.String().Pattern(regexp.MustCompile(`^[A-Z]{4}0`), "bad ifsc"), value: "abcd0", want: []string{"bad ifsc"}},
		{name: "optional empty", rule: schema.String().MinLength(2, "too short").Optional(), value: ""},
		{name: "wrong kind", rule: schema.String(), value: true, want: []string{"Expected string, received boolean"}},
		{name: "collects all", rule: schema.String().MinLength(5, "short").Email("email"), value: "ab", want: []string{"short", "email"}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := tc.rule.Check(tc.value, tc.value != nil)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("messages mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMergeUnionsFieldsWithoutRefinements(t *testing.T) {
	t.Parallel()

	account := schema.Object(
		schema.Field("fullName", schema.String().MinLength(2, "")),
		schema.Field("agreeTerms", schema.Bool().Accepted("")),
	)
	merged := schema.Merge(account, passwordSchema(t))

	if diff := cmp.Diff([]string{"fullName", "agreeTerms", "password", "confirmPassword"}, merged.Fields()); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}

	result := merged.Validate(map[string]any{
		"fullName":        "Jo",
		"agreeTerms":      true,
		"password":        "abcdef12",
		"confirmPassword": "different",
	})
	if !result.Valid {
		t.Fatalf("expected merged schema to skip refinements, got %v", result.Issues)
	}
}

func TestWhenSkipsInactiveFields(t *testing.T) {
	t.Parallel()

	obj := schema.Object(
		schema.Field("accountType", schema.String().Optional()),
		schema.Field("companyName", schema.String().MinLength(2, "Company name is required")),
	).When("companyName", func(values map[string]any) bool {
		return values["accountType"] == "Current"
	})

	if got := obj.Validate(map[string]any{"accountType": "Savings"}); !got.Valid {
		t.Fatalf("expected inactive field to be skipped, got %v", got.Issues)
	}
	got := obj.Validate(map[string]any{"accountType": "Current"})
	if diff := cmp.Diff(map[string]string{"companyName": "Company name is required"}, got.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestCompileExprRejectsInvalidSyntax(t *testing.T) {
	t.Parallel()

	if _, err := schema.CompileExpr("password ==="); err == nil {
		t.Fatalf("expected compile error")
	}
	if _, err := schema.CompileExpr("   "); err == nil {
		t.Fatalf("expected error for empty expression")
	}
}

func TestResultHelpers(t *testing.T) {
	t.Parallel()

	result := schema.Result{Issues: []schema.Issue{
		{Field: "email", Message: "first"},
		{Field: "email", Message: "second"},
		{Field: "gstn", Message: "third"},
	}}
	if diff := cmp.Diff([]string{"email", "gstn"}, result.Fields()); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	wantAll := map[string][]string{"email": {"first", "second"}, "gstn": {"third"}}
	if diff := cmp.Diff(wantAll, result.FieldErrors()); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]string{"email": "first", "gstn": "third"}, result.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}
