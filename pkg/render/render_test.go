package render_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-stepform/pkg/definition"
	"github.com/goliatone/go-stepform/pkg/render"
	"github.com/goliatone/go-stepform/pkg/schema"
	"github.com/goliatone/go-stepform/pkg/stepper"
	"github.com/goliatone/go-stepform/pkg/testsupport"
)

const formYAML = `
id: seller
title: Become a seller
tabs:
  - name: account
    label: Account Information
    fields:
      - name: fullName
        validations:
          - {kind: minLength, params: {value: "2"}, message: Full name must be at least 2 characters}
      - name: agreeTerms
        input: checkbox
        metadata: {labelKey: terms.label}
  - name: password
    label: Password
    fields:
      - name: password
        input: password
      - name: confirmPassword
        input: password
      - name: promo
        visibleWhen: agreeTerms
`

func compiled(t *testing.T, options ...definition.Option) *definition.Compiled {
	t.Helper()
	return testsupport.MustCompile(t, []byte(formYAML), options...)
}

func TestMapValidationGroupsByTabInDeclarationOrder(t *testing.T) {
	t.Parallel()

	result := stepper.ValidationResult{
		Tabs: []stepper.TabResult{
			{Tab: 0, Issues: []schema.Issue{
				{Field: "agreeTerms", Message: "You must agree to the terms and conditions"},
				{Field: "fullName", Message: "Full name must be at least 2 characters"},
			}},
			{Tab: 1, Valid: true},
		},
		Form: []schema.Issue{{Message: "Something went wrong"}},
	}

	got := render.MapValidation(compiled(t), result)
	want := render.ErrorMapping{
		Tabs: []render.TabErrors{{
			Tab:   0,
			Name:  "account",
			Label: "Account Information",
			Fields: []render.FieldError{
				{Field: "fullName", Label: "Full Name", Messages: []string{"Full name must be at least 2 characters"}},
				{Field: "agreeTerms", Label: "Agree Terms", Messages: []string{"You must agree to the terms and conditions"}},
			},
		}},
		Form: []string{"Something went wrong"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mapping mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeFormErrors(t *testing.T) {
	t.Parallel()

	merged := render.MergeFormErrors([]string{" First ", "Second"}, "Second", "third", "  ")
	if diff := cmp.Diff([]string{"First", "Second", "third"}, merged); diff != "" {
		t.Fatalf("merged mismatch (-want +got):\n%s", diff)
	}
}

func TestSummaryFieldsMasksSecretsAndHidesInactive(t *testing.T) {
	t.Parallel()

	payload := map[string]any{
		"fullName":        "Asha Rao",
		"agreeTerms":      false,
		"password":        "abcdef12",
		"confirmPassword": "abcdef12",
		"promo":           "WELCOME",
		"referrer":        "newsletter",
	}
	got := render.SummaryFields(compiled(t), payload)

	var lines []string
	for _, field := range got {
		lines = append(lines, field.Label+"="+field.Value)
	}
	want := []string{
		"Full Name=Asha Rao",
		"Agree Terms=No",
		"Password=********",
		"Confirm Password=********",
		"Referrer=newsletter",
	}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
	if got[len(got)-1].Tab != -1 {
		t.Fatalf("unknown keys should not claim a tab")
	}
}

func TestSummaryTemplates(t *testing.T) {
	t.Parallel()

	summary, err := render.NewSummary()
	if err != nil {
		t.Fatalf("NewSummary: %v", err)
	}
	c := compiled(t)

	review, err := summary.Review(c, map[string]any{"fullName": "Asha Rao", "agreeTerms": true, "password": "abcdef12"})
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	for _, want := range []string{"Become a seller", "[Account Information]", "Full Name: Asha Rao", "Agree Terms: Yes", "Password: ********"} {
		if !strings.Contains(review, want) {
			t.Fatalf("review missing %q:\n%s", want, review)
		}
	}
	if strings.Contains(review, "abcdef12") {
		t.Fatalf("review leaked a secret:\n%s", review)
	}

	rendered, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return summary.Errors(render.ErrorMapping{
			Tabs: []render.TabErrors{{Label: "Password", Fields: []render.FieldError{
				{Field: "confirmPassword", Label: "Confirm Password", Messages: []string{"Passwords do not match"}},
			}}},
			Form: []string{"Session expired"},
		}, w)
	})
	if rendered != written {
		t.Fatalf("writer output differs from returned string")
	}
	for _, want := range []string{"! Session expired", "[Password]", "Confirm Password: Passwords do not match"} {
		if !strings.Contains(rendered, want) {
			t.Fatalf("errors view missing %q:\n%s", want, rendered)
		}
	}
}

func TestLocalizerTranslatesHints(t *testing.T) {
	t.Parallel()

	translator := render.TranslatorFunc(func(locale, key string, _ ...any) (string, error) {
		if locale == "hi" && key == "terms.label" {
			return "Shartein sweekar karein", nil
		}
		return "", errors.New("missing")
	})
	c := compiled(t, definition.WithDecorators(render.Localizer("hi", translator, nil)))
	if got := c.Labels["agreeTerms"]; got != "Shartein sweekar karein" {
		t.Fatalf("unexpected translated label %q", got)
	}

	fallback := compiled(t, definition.WithDecorators(render.Localizer("fr", nil, nil)))
	if got := fallback.Labels["agreeTerms"]; got != "Agree Terms" {
		t.Fatalf("expected generated label as fallback, got %q", got)
	}
}
