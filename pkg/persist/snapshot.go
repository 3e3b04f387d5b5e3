package persist

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/goliatone/go-stepform/pkg/stepper"
)

// Snapshot is everything needed to resume a draft.
type Snapshot struct {
	Tabs           stepper.FormState
	CurrentTab     int
	HighestReached int
	Locked         []bool
	Submitted      bool
	UpdatedAt      time.Time
}

// Options returns the engine options that resume from the snapshot.
func (s Snapshot) Options() []stepper.Option {
	var locked []int
	for idx, value := range s.Locked {
		if value {
			locked = append(locked, idx)
		}
	}
	return []stepper.Option{
		stepper.WithInitialState(s.Tabs.Clone()),
		stepper.WithCurrentTab(s.CurrentTab),
		stepper.WithHighestReached(s.HighestReached),
		stepper.WithSubmitted(s.Submitted),
		stepper.WithClickDisabled(locked...),
	}
}

const (
	kindString = "string"
	kindBool   = "bool"
	kindNumber = "number"
)

type wireSnapshot struct {
	Tabs           []wireTab `json:"tabs"`
	CurrentTab     int       `json:"currentTab"`
	HighestReached int       `json:"highestReached"`
	Locked         []bool    `json:"locked,omitempty"`
	Submitted      bool      `json:"submitted"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type wireTab struct {
	Fields    map[string]wireValue `json:"fields"`
	IsValid   bool                 `json:"isValid"`
	IsVisited bool                 `json:"isVisited"`
}

type wireValue struct {
	Kind   string `json:"kind"`
	Text   string `json:"text,omitempty"`
	Bool   bool   `json:"bool,omitempty"`
	Number string `json:"number,omitempty"`
}

// MarshalJSON encodes the snapshot with typed field values.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	wire := wireSnapshot{
		Tabs:           make([]wireTab, len(s.Tabs)),
		CurrentTab:     s.CurrentTab,
		HighestReached: s.HighestReached,
		Locked:         s.Locked,
		Submitted:      s.Submitted,
		UpdatedAt:      s.UpdatedAt,
	}
	for idx, tab := range s.Tabs {
		fields := make(map[string]wireValue, len(tab.Fields))
		for name, value := range tab.Fields {
			encoded, err := encodeValue(value)
			if err != nil {
				return nil, fmt.Errorf("persist: tab %d field %q: %w", idx, name, err)
			}
			fields[name] = encoded
		}
		wire.Tabs[idx] = wireTab{Fields: fields, IsValid: tab.IsValid, IsVisited: tab.IsVisited}
	}
	return json.Marshal(wire)
}

// UnmarshalJSON decodes a snapshot written by MarshalJSON.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var wire wireSnapshot
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	tabs := stepper.NewFormState(len(wire.Tabs))
	for idx, tab := range wire.Tabs {
		for name, encoded := range tab.Fields {
			value, err := decodeValue(encoded)
			if err != nil {
				return fmt.Errorf("persist: tab %d field %q: %w", idx, name, err)
			}
			tabs[idx].Fields[name] = value
		}
		tabs[idx].IsValid = tab.IsValid
		tabs[idx].IsVisited = tab.IsVisited
	}
	*s = Snapshot{
		Tabs:           tabs,
		CurrentTab:     wire.CurrentTab,
		HighestReached: wire.HighestReached,
		Locked:         wire.Locked,
		Submitted:      wire.Submitted,
		UpdatedAt:      wire.UpdatedAt,
	}
	return nil
}

func encodeValue(value any) (wireValue, error) {
	switch v := value.(type) {
	case string:
		return wireValue{Kind: kindString, Text: v}, nil
	case bool:
		return wireValue{Kind: kindBool, Bool: v}, nil
	case float64:
		return wireValue{Kind: kindNumber, Number: strconv.FormatFloat(v, 'g', -1, 64)}, nil
	case int:
		return wireValue{Kind: kindNumber, Number: strconv.Itoa(v)}, nil
	default:
		return wireValue{}, fmt.Errorf("unsupported value type %T", value)
	}
}

func decodeValue(value wireValue) (any, error) {
	switch value.Kind {
	case kindString:
		return value.Text, nil
	case kindBool:
		return value.Bool, nil
	case kindNumber:
		n, err := strconv.ParseFloat(value.Number, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", value.Number)
		}
		return n, nil
	default:
		return nil, fmt.Errorf("unknown value kind %q", value.Kind)
	}
}
