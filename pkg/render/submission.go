package render

import (
	"sort"
	"strconv"

	"github.com/goliatone/go-stepform/internal/model"
	"github.com/goliatone/go-stepform/pkg/binding"
	"github.com/goliatone/go-stepform/pkg/definition"
)

// SecretMask replaces the value of secret fields in summaries.
const SecretMask = "********"

// SummaryField is one line of a payload summary.
type SummaryField struct {
	Tab      int    `json:"tab"`
	TabLabel string `json:"tabLabel,omitempty"`
	Name     string `json:"name"`
	Label    string `json:"label"`
	Value    string `json:"value"`
	Secret   bool   `json:"secret,omitempty"`
}

// SummaryFields lists payload values in declaration order; keys the
// definition does not know follow, sorted by name. Secret fields are masked
// and fields hidden by their visibility rule are left out.
func SummaryFields(compiled *definition.Compiled, payload map[string]any) []SummaryField {
	out := make([]SummaryField, 0, len(payload))
	known := make(map[string]struct{})

	if compiled != nil {
		secrets := compiled.Secrets()
		for idx, tab := range compiled.Definition.Tabs {
			for _, field := range tab.Fields {
				known[field.Name] = struct{}{}
				value, ok := payload[field.Name]
				if !ok || !compiled.Visible(field.Name, payload) {
					continue
				}
				entry := SummaryField{
					Tab:      idx,
					TabLabel: tab.Label,
					Name:     field.Name,
					Label:    field.Label,
					Value:    formatValue(value),
				}
				if secrets[field.Name] {
					entry.Value, entry.Secret = SecretMask, true
				}
				out = append(out, entry)
			}
		}
	}

	var extra []string
	for name := range payload {
		if _, ok := known[name]; !ok {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		out = append(out, SummaryField{
			Tab:   -1,
			Name:  name,
			Label: model.DefaultLabeler(name),
			Value: formatValue(payload[name]),
		})
	}
	return out
}

func formatValue(value any) string {
	switch v := value.(type) {
	case bool:
		if v {
			return "Yes"
		}
		return "No"
	case float64:
		if formatted := binding.Display(v); formatted != "" {
			return formatted
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return binding.Display(value)
	}
}
