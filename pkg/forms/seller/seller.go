// Package seller ships the seller onboarding form: a login gate followed by
// account information, bank details and password creation.
package seller

import (
	_ "embed"
	"fmt"

	"github.com/goliatone/go-stepform/pkg/definition"
	"github.com/goliatone/go-stepform/pkg/model"
	"github.com/goliatone/go-stepform/pkg/stepper"
)

//go:embed seller.yaml
var source []byte

// Tab indexes of the onboarding flow.
const (
	TabLogin = iota
	TabAccount
	TabBank
	TabPassword
)

// Source returns the raw YAML definition.
func Source() []byte {
	return append([]byte(nil), source...)
}

// Definition parses the embedded definition.
func Definition() (model.FormDefinition, error) {
	def, err := definition.Load(source)
	if err != nil {
		return model.FormDefinition{}, fmt.Errorf("seller: %w", err)
	}
	return def, nil
}

// Compile parses and compiles the embedded definition. Extra options are
// applied after the defaults.
func Compile(options ...definition.Option) (*definition.Compiled, error) {
	def, err := Definition()
	if err != nil {
		return nil, err
	}
	opts := append([]definition.Option{definition.WithAcronyms("gstn", "ifsc", "upi")}, options...)
	compiled, err := definition.Compile(def, opts...)
	if err != nil {
		return nil, fmt.Errorf("seller: %w", err)
	}
	return compiled, nil
}

// SessionBinding is the binding the embedded session block resolves to: the
// login flag on the login tab and the display name in the account tab.
var SessionBinding = stepper.SessionBinding{
	LoginTab:   TabLogin,
	LoginField: "loginStatus",
	NameTab:    TabAccount,
	NameField:  "fullName",
}

// NewEngine compiles the form and builds an engine for it.
func NewEngine(options ...stepper.Option) (*stepper.Engine, *definition.Compiled, error) {
	compiled, err := Compile()
	if err != nil {
		return nil, nil, err
	}
	engine, err := compiled.NewEngine(options...)
	if err != nil {
		return nil, nil, fmt.Errorf("seller: %w", err)
	}
	return engine, compiled, nil
}
