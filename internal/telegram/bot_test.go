package telegram

import (
	"strings"
	"testing"

	"canteen-menu-planner/internal/menu"
)

func TestFormatMenuMarkdown(t *testing.T) {
	m := &menu.WeekMenu{
		Monday:    []string{"Braised pork belly (main) (classic)", "Cucumber salad (cold)"},
		Tuesday:   []string{"Kung pao chicken (main)"},
		Wednesday: []string{},
		Thursday:  []string{"Mapo tofu (half)"},
		Friday:    []string{"Stir-fried greens (veg)"},
	}

	out := formatMenuMarkdown(m)

	for _, day := range weekdayNames {
		if !strings.Contains(out, "*"+day+"*") {
			t.Errorf("Expected day header for %s in output", day)
		}
	}
	if !strings.Contains(out, "• Braised pork belly (main) (classic)") {
		t.Error("Expected dishes rendered as bullet items")
	}
	if strings.Count(out, "• ") != 5 {
		t.Errorf("Expected 5 dish bullets, got %d", strings.Count(out, "• "))
	}
}
