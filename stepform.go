// Package stepform builds multi-step forms: declarative tab definitions are
// compiled into schemas and driven by a navigation engine that keeps per-tab
// state, validates tabs and submits one merged payload.
package stepform

import (
	"fmt"
	"io/fs"

	"github.com/goliatone/go-stepform/pkg/definition"
	"github.com/goliatone/go-stepform/pkg/forms/seller"
	"github.com/goliatone/go-stepform/pkg/model"
	"github.com/goliatone/go-stepform/pkg/stepper"
)

// Engine aliases stepper.Engine for callers using the top-level package.
type Engine = stepper.Engine

// Option aliases stepper.Option.
type Option = stepper.Option

// Compiled aliases definition.Compiled.
type Compiled = definition.Compiled

// FormDefinition aliases model.FormDefinition.
type FormDefinition = model.FormDefinition

// New compiles def and returns an engine wired with its schemas.
func New(def FormDefinition, options ...Option) (*Engine, *Compiled, error) {
	compiled, err := definition.Compile(def)
	if err != nil {
		return nil, nil, err
	}
	engine, err := compiled.NewEngine(options...)
	if err != nil {
		return nil, nil, fmt.Errorf("stepform: %w", err)
	}
	return engine, compiled, nil
}

// NewFromFile loads a JSON or YAML definition from disk and builds its engine.
func NewFromFile(path string, options ...Option) (*Engine, *Compiled, error) {
	def, err := definition.LoadFile(path)
	if err != nil {
		return nil, nil, err
	}
	return New(def, options...)
}

// NewFromFS loads a definition from fsys and builds its engine.
func NewFromFS(fsys fs.FS, path string, options ...Option) (*Engine, *Compiled, error) {
	def, err := definition.LoadFS(fsys, path)
	if err != nil {
		return nil, nil, err
	}
	return New(def, options...)
}

// NewSeller builds an engine for the built-in seller onboarding form.
func NewSeller(options ...Option) (*Engine, *Compiled, error) {
	return seller.NewEngine(options...)
}
