package core

import "errors"

// ErrUnknownControl is returned when a control identifier does not match any
// scorecard currently published by the stream.
var ErrUnknownControl = errors.New("unknown control")

// Scorecard is a single-row summary of one monitored control.
type Scorecard struct {
	ControlID string `yaml:"control_id" json:"control_id"`
	// Value is the display value of the indicator, e.g. "98.5%".
	Value  string `yaml:"value" json:"value"`
	Grade  string `yaml:"grade" json:"grade"`
	Status string `yaml:"status" json:"status"`
}

// Critical reports whether the scorecard status is "Critical".
// Only used for visual emphasis.
func (s Scorecard) Critical() bool {
	return s.Status == "Critical"
}

// DefaultScorecards returns the fixed records shown when no stream data
// source is configured.
func DefaultScorecards() []Scorecard {
	return []Scorecard{
		{ControlID: "ACCESS-01", Value: "98.5%", Grade: "A+", Status: "Compliant"},
		{ControlID: "DATA-DL-03", Value: "45.2%", Grade: "C-", Status: "Critical"},
	}
}

// FindScorecard returns the scorecard with the given control identifier.
func FindScorecard(records []Scorecard, controlID string) (Scorecard, bool) {
	for _, rec := range records {
		if rec.ControlID == controlID {
			return rec, true
		}
	}
	return Scorecard{}, false
}

// CloneScorecards returns a copy of records so callers cannot mutate a
// stream's internal slice.
func CloneScorecards(records []Scorecard) []Scorecard {
	if records == nil {
		return nil
	}
	out := make([]Scorecard, len(records))
	copy(out, records)
	return out
}
