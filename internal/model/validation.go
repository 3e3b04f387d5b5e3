package model

import (
	"errors"
	"fmt"
	"strconv"

	pkgmodel "github.com/goliatone/go-stepform/pkg/model"
)

var (
	errFormIDMissing = errors.New("model builder: form id is required")
	errTabsMissing   = errors.New("model builder: form declares no tabs")
)

func validateDefinition(def pkgmodel.FormDefinition) error {
	if def.ID == "" {
		return errFormIDMissing
	}
	if len(def.Tabs) == 0 {
		return errTabsMissing
	}

	tabs := make(map[string]struct{}, len(def.Tabs))
	for idx, tab := range def.Tabs {
		if tab.Name == "" {
			return fmt.Errorf("model builder: tab %d has no name", idx)
		}
		if _, dup := tabs[tab.Name]; dup {
			return fmt.Errorf("model builder: duplicate tab %q", tab.Name)
		}
		tabs[tab.Name] = struct{}{}

		if err := validateTab(tab); err != nil {
			return fmt.Errorf("model builder: tab %q: %w", tab.Name, err)
		}
	}
	if def.Session != nil {
		if err := validateSession(def); err != nil {
			return fmt.Errorf("model builder: session: %w", err)
		}
	}
	return nil
}

func validateSession(def pkgmodel.FormDefinition) error {
	login, ok := findField(def, def.Session.LoginField)
	if !ok {
		return fieldNotFound(def, "login field", def.Session.LoginField)
	}
	if login.Input != pkgmodel.InputCheckbox {
		return fmt.Errorf("login field %q must be a checkbox, got %s", login.Name, login.Input)
	}
	if def.Session.NameField == "" {
		return nil
	}
	if _, ok := findField(def, def.Session.NameField); !ok {
		return fieldNotFound(def, "name field", def.Session.NameField)
	}
	return nil
}

func findField(def pkgmodel.FormDefinition, name string) (pkgmodel.Field, bool) {
	for _, tab := range def.Tabs {
		if field, ok := tab.Field(name); ok {
			return field, true
		}
	}
	return pkgmodel.Field{}, false
}

func fieldNotFound(def pkgmodel.FormDefinition, role, name string) error {
	if name == "" {
		return fmt.Errorf("%s is required", role)
	}
	var names []string
	for _, tab := range def.Tabs {
		for _, field := range tab.Fields {
			names = append(names, field.Name)
		}
	}
	if hint := Suggest(name, names); hint != "" {
		return fmt.Errorf("%s %q is not declared (did you mean %q?)", role, name, hint)
	}
	return fmt.Errorf("%s %q is not declared", role, name)
}

func validateTab(tab pkgmodel.Tab) error {
	names := make([]string, 0, len(tab.Fields))
	seen := make(map[string]struct{}, len(tab.Fields))
	for idx, field := range tab.Fields {
		if field.Name == "" {
			return fmt.Errorf("field %d has no name", idx)
		}
		if _, dup := seen[field.Name]; dup {
			return fmt.Errorf("duplicate field %q", field.Name)
		}
		seen[field.Name] = struct{}{}
		names = append(names, field.Name)

		if !field.Input.Known() {
			return fmt.Errorf("field %q: unknown input type %q", field.Name, field.Input)
		}
		for _, rule := range field.Validations {
			if err := validateRule(field, rule); err != nil {
				return fmt.Errorf("field %q: %w", field.Name, err)
			}
		}
	}

	for _, ref := range tab.Refinements {
		if ref.Expr == "" {
			return errors.New("refinement without expression")
		}
		if ref.Path == "" {
			continue
		}
		if _, ok := seen[ref.Path]; ok {
			continue
		}
		if hint := Suggest(ref.Path, names); hint != "" {
			return fmt.Errorf("refinement path %q is not a field of this tab (did you mean %q?)", ref.Path, hint)
		}
		return fmt.Errorf("refinement path %q is not a field of this tab", ref.Path)
	}
	return nil
}

var ruleKinds = []string{
	pkgmodel.ValidationRuleMin,
	pkgmodel.ValidationRuleMax,
	pkgmodel.ValidationRuleMinLength,
	pkgmodel.ValidationRuleMaxLength,
	pkgmodel.ValidationRulePattern,
	pkgmodel.ValidationRuleEmail,
	pkgmodel.ValidationRuleAccepted,
	pkgmodel.ValidationRuleNumber,
}

func validateRule(field pkgmodel.Field, rule pkgmodel.ValidationRule) error {
	switch rule.Kind {
	case pkgmodel.ValidationRuleMinLength, pkgmodel.ValidationRuleMaxLength:
		if _, err := strconv.Atoi(rule.Params["value"]); err != nil {
			return fmt.Errorf("rule %s needs an integer value, got %q", rule.Kind, rule.Params["value"])
		}
		return requireInput(field, rule, pkgmodel.InputText, pkgmodel.InputEmail, pkgmodel.InputPassword, pkgmodel.InputTextArea)
	case pkgmodel.ValidationRuleMin, pkgmodel.ValidationRuleMax:
		if _, err := strconv.ParseFloat(rule.Params["value"], 64); err != nil {
			return fmt.Errorf("rule %s needs a numeric value, got %q", rule.Kind, rule.Params["value"])
		}
		return requireInput(field, rule, pkgmodel.InputNumber)
	case pkgmodel.ValidationRulePattern:
		if rule.Params["pattern"] == "" {
			return errors.New("rule pattern needs a pattern param")
		}
		return requireInput(field, rule, pkgmodel.InputText, pkgmodel.InputEmail, pkgmodel.InputPassword, pkgmodel.InputTextArea)
	case pkgmodel.ValidationRuleEmail:
		return requireInput(field, rule, pkgmodel.InputText, pkgmodel.InputEmail)
	case pkgmodel.ValidationRuleAccepted:
		return requireInput(field, rule, pkgmodel.InputCheckbox)
	case pkgmodel.ValidationRuleNumber:
		return requireInput(field, rule, pkgmodel.InputNumber)
	default:
		if hint := Suggest(rule.Kind, ruleKinds); hint != "" {
			return fmt.Errorf("unknown rule %q (did you mean %q?)", rule.Kind, hint)
		}
		return fmt.Errorf("unknown rule %q", rule.Kind)
	}
}

func requireInput(field pkgmodel.Field, rule pkgmodel.ValidationRule, allowed ...pkgmodel.InputType) error {
	for _, input := range allowed {
		if field.Input == input {
			return nil
		}
	}
	return fmt.Errorf("rule %s does not apply to %s inputs", rule.Kind, field.Input)
}
