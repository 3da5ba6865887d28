package menu

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownOption signals a constraint value outside the enumerated domain.
// It means the caller skipped validation, so generation must not proceed: a
// silently dropped constraint would leave the instruction text inconsistent
// with what the user asked for.
var ErrUnknownOption = errors.New("unknown constraint option")

const equipmentJoinSeparator = "; "

// ConstraintFragments is the natural-language rendering of one request's
// constraint categories, ready to be embedded in the instruction.
type ConstraintFragments struct {
	Staffing            string
	Spicy               string
	Equipment           string
	FlavorDiversity     string
	WorkRatio           string
	IngredientDiversity string
}

// Mapper translates enumerated constraint values into fixed requirement
// fragments. The lookup tables are immutable after construction.
type Mapper struct {
	staffing    map[StaffSituation]string
	spicy       map[SpicyLevel]string
	equipment   map[Equipment]string
	workRatio   map[string]string
	ingredients map[string]string
}

// NewMapper builds a Mapper with the default fragment tables.
func NewMapper() *Mapper {
	return &Mapper{
		staffing: map[StaffSituation]string{
			StaffScarce:   "Kitchen staffing is tight this week: favor simple, low-labor dishes that hold well and avoid anything requiring last-minute plating.",
			StaffAbundant: "Kitchen staffing is ample this week: more elaborate, labor-intensive dishes are welcome.",
		},
		spicy: map[SpicyLevel]string{
			SpicyNone:   "No spicy dishes at all; every dish must be suitable for diners who avoid chili entirely.",
			SpicyMild:   "At most a gentle background heat: one or two mildly spicy dishes per day is acceptable.",
			SpicyMedium: "A moderate level of heat is welcome: include some noticeably spicy dishes, but keep the majority mild.",
		},
		equipment: map[Equipment]string{
			EquipmentSteamer: "avoid dishes that depend on the steamer",
			EquipmentOven:    "avoid dishes that depend on the oven",
			EquipmentWok:     "avoid dishes that depend on high-heat wok work",
			EquipmentStewpot: "avoid long-braised dishes that tie up the stewpots",
			EquipmentGrill:   "avoid grilled dishes",
		},
		workRatio: map[string]string{
			NoRequirement:         "No particular preference for the prep-work profile of the week.",
			"mostly quick dishes": "Favor quick dishes that go from prep to service in under thirty minutes.",
			"balanced prep load":  "Balance quick dishes against slower braises so the daily prep load stays even.",
			"batch-prep friendly": "Favor dishes whose prep can be batched ahead of service.",
		},
		ingredients: map[string]string{
			NoRequirement:                 "No particular preference for ingredient spread.",
			"maximize ingredient variety": "Maximize ingredient variety: avoid repeating a main ingredient on consecutive days.",
			"reuse base ingredients across days": "Reuse base ingredients across days to simplify purchasing, while keeping the finished dishes distinct.",
		},
	}
}

// MapRequest renders every constraint category of the request. A value outside
// the enumerated domain fails fast with ErrUnknownOption.
func (m *Mapper) MapRequest(req GenerationRequest) (ConstraintFragments, error) {
	var out ConstraintFragments
	var err error

	if out.Staffing, err = m.MapStaffing(req.StaffSituation); err != nil {
		return ConstraintFragments{}, err
	}
	if out.Spicy, err = m.MapSpicy(req.SpicyLevel); err != nil {
		return ConstraintFragments{}, err
	}
	if out.Equipment, err = m.MapEquipment(req.EquipmentShortage); err != nil {
		return ConstraintFragments{}, err
	}
	if out.WorkRatio, err = m.MapWorkRatio(req.WorkRatio); err != nil {
		return ConstraintFragments{}, err
	}
	if out.IngredientDiversity, err = m.MapIngredientDiversity(req.IngredientDiversity); err != nil {
		return ConstraintFragments{}, err
	}

	if req.FlavorDiversity {
		out.FlavorDiversity = "Vary the dominant flavor profiles across the week: no two days should taste alike."
	} else {
		out.FlavorDiversity = "Flavor repetition across days is acceptable."
	}

	return out, nil
}

// MapStaffing maps the staffing situation to its fragment.
func (m *Mapper) MapStaffing(s StaffSituation) (string, error) {
	frag, ok := m.staffing[s]
	if !ok {
		return "", fmt.Errorf("%w: staff situation %q", ErrUnknownOption, s)
	}
	return frag, nil
}

// MapSpicy maps the spice level to its fragment.
func (m *Mapper) MapSpicy(level SpicyLevel) (string, error) {
	frag, ok := m.spicy[level]
	if !ok {
		return "", fmt.Errorf("%w: spicy level %q", ErrUnknownOption, level)
	}
	return frag, nil
}

// MapEquipment joins the fragment of every listed shortage with a fixed
// separator. An empty set yields the fixed no-shortage fragment.
func (m *Mapper) MapEquipment(shortage []Equipment) (string, error) {
	if len(shortage) == 0 {
		return "All kitchen equipment is available; no equipment constraints apply.", nil
	}

	frags := make([]string, 0, len(shortage))
	for _, eq := range shortage {
		frag, ok := m.equipment[eq]
		if !ok {
			return "", fmt.Errorf("%w: equipment %q", ErrUnknownOption, eq)
		}
		frags = append(frags, frag)
	}
	return "Equipment is short this week: " + strings.Join(frags, equipmentJoinSeparator) + ".", nil
}

// MapWorkRatio maps the prep-work preference to its fragment.
func (m *Mapper) MapWorkRatio(v string) (string, error) {
	frag, ok := m.workRatio[v]
	if !ok {
		return "", fmt.Errorf("%w: work ratio %q", ErrUnknownOption, v)
	}
	return frag, nil
}

// MapIngredientDiversity maps the ingredient-spread preference to its fragment.
func (m *Mapper) MapIngredientDiversity(v string) (string, error) {
	frag, ok := m.ingredients[v]
	if !ok {
		return "", fmt.Errorf("%w: ingredient diversity %q", ErrUnknownOption, v)
	}
	return frag, nil
}
