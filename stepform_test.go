package stepform_test

import (
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"

	stepform "github.com/goliatone/go-stepform"
	"github.com/goliatone/go-stepform/pkg/stepper"
)

const quickYAML = `
id: quick
tabs:
  - name: profile
    fields:
      - name: nickname
        validations:
          - kind: minLength
            params: {value: "3"}
            message: Nickname is too short
  - name: terms
    fields:
      - name: agreeTerms
        input: checkbox
        validations:
          - kind: accepted
`

func TestNewFromFS(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{"forms/quick.yaml": {Data: []byte(quickYAML)}}
	var submitted map[string]any
	engine, compiled, err := stepform.NewFromFS(fsys, "forms/quick.yaml",
		stepper.OnSubmit(func(fields map[string]any) { submitted = fields }))
	if err != nil {
		t.Fatalf("NewFromFS: %v", err)
	}
	if compiled.Definition.Title != "Quick" {
		t.Fatalf("unexpected title %q", compiled.Definition.Title)
	}

	if _, err := engine.SetField(0, "nickname", "ab"); err != nil {
		t.Fatalf("SetField: %v", err)
	}
	if _, err := engine.Next(); !errors.Is(err, stepper.ErrTabInvalid) {
		t.Fatalf("expected ErrTabInvalid, got %v", err)
	}
	if got := engine.Errors(0)["nickname"]; got != "Nickname is too short" {
		t.Fatalf("unexpected error %q", got)
	}

	if _, err := engine.SetField(0, "nickname", "abc"); err != nil {
		t.Fatalf("SetField: %v", err)
	}
	if _, err := engine.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if _, err := engine.SetField(1, "agreeTerms", true); err != nil {
		t.Fatalf("SetField: %v", err)
	}
	if _, err := engine.Submit(); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if submitted["nickname"] != "abc" || submitted["agreeTerms"] != true {
		t.Fatalf("unexpected payload %v", submitted)
	}
}

func TestNewSeller(t *testing.T) {
	t.Parallel()

	engine, compiled, err := stepform.NewSeller()
	if err != nil {
		t.Fatalf("NewSeller: %v", err)
	}
	if engine.Tabs() != len(compiled.Definition.Tabs) || engine.Tabs() != 4 {
		t.Fatalf("unexpected tab count %d", engine.Tabs())
	}
}

func TestNewRejectsEmptyDefinition(t *testing.T) {
	t.Parallel()

	if _, _, err := stepform.New(stepform.FormDefinition{ID: "empty"}); err == nil {
		t.Fatalf("expected error for a definition without tabs")
	}
}

func TestEmbeddedTemplates(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"review.tpl", "errors.tpl"} {
		if _, err := fs.Stat(stepform.EmbeddedTemplates(), name); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}
}
