package menu

import (
	"encoding/json"
	"fmt"
	"strings"
)

var dayKeys = []string{"monday", "tuesday", "wednesday", "thursday", "friday"}

// ExtractWeekMenu pulls a WeekMenu out of raw generator output. The generator
// is asked to return bare JSON but routinely wraps it in prose or markdown
// fences, so the parser takes the widest brace-delimited substring and decodes
// that. Structural checks only: all five weekday keys present (matched
// case-insensitively) and every value an array of strings. Empty arrays pass.
// The numeric quotas are advisory to the generator and are not enforced here.
func ExtractWeekMenu(raw string) (*WeekMenu, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON object found in generator output")
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw[start:end+1]), &payload); err != nil {
		return nil, fmt.Errorf("failed to decode generator output: %w", err)
	}

	normalized := make(map[string]json.RawMessage, len(payload))
	for k, v := range payload {
		normalized[strings.ToLower(strings.TrimSpace(k))] = v
	}

	var m WeekMenu
	slots := map[string]*[]string{
		"monday":    &m.Monday,
		"tuesday":   &m.Tuesday,
		"wednesday": &m.Wednesday,
		"thursday":  &m.Thursday,
		"friday":    &m.Friday,
	}

	for _, day := range dayKeys {
		value, ok := normalized[day]
		if !ok {
			return nil, fmt.Errorf("generator output is missing day %q", day)
		}
		var dishes []string
		if err := json.Unmarshal(value, &dishes); err != nil {
			return nil, fmt.Errorf("day %q is not an array of dish labels: %w", day, err)
		}
		if dishes == nil {
			dishes = []string{}
		}
		*slots[day] = dishes
	}

	return &m, nil
}
