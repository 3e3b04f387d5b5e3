// Package testsupport holds helpers shared by the package tests.
package testsupport

import (
	"bytes"
	"io"
	"testing"

	"github.com/goliatone/go-stepform/pkg/definition"
	pkgmodel "github.com/goliatone/go-stepform/pkg/model"
	"github.com/goliatone/go-stepform/pkg/stepper"
)

// MustLoadDefinition reads a JSON or YAML definition fixture from disk.
func MustLoadDefinition(t *testing.T, path string) pkgmodel.FormDefinition {
	t.Helper()

	def, err := definition.LoadFile(path)
	if err != nil {
		t.Fatalf("load definition: %v", err)
	}
	return def
}

// MustCompile parses and compiles an inline definition.
func MustCompile(t *testing.T, data []byte, options ...definition.Option) *definition.Compiled {
	t.Helper()

	def, err := definition.Load(data)
	if err != nil {
		t.Fatalf("load definition: %v", err)
	}
	compiled, err := definition.Compile(def, options...)
	if err != nil {
		t.Fatalf("compile definition: %v", err)
	}
	return compiled
}

// MustEngine builds an engine for compiled.
func MustEngine(t *testing.T, compiled *definition.Compiled, options ...stepper.Option) *stepper.Engine {
	t.Helper()

	engine, err := compiled.NewEngine(options...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents. Tests can assert
// the renderer returns and writes the same payload without duplicating buffer
// setup.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
