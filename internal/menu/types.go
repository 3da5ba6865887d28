package menu

// StaffSituation describes how much kitchen labor is available for the week.
type StaffSituation string

const (
	StaffScarce   StaffSituation = "scarce"
	StaffAbundant StaffSituation = "abundant"
)

// SpicyLevel is the requested overall heat of the menu.
type SpicyLevel string

const (
	SpicyNone   SpicyLevel = "none"
	SpicyMild   SpicyLevel = "mild"
	SpicyMedium SpicyLevel = "medium"
)

// Equipment identifies a piece of kitchen equipment that may be short this week.
type Equipment string

const (
	EquipmentSteamer Equipment = "steamer"
	EquipmentOven    Equipment = "oven"
	EquipmentWok     Equipment = "wok"
	EquipmentStewpot Equipment = "stewpot"
	EquipmentGrill   Equipment = "grill"
)

// NoRequirement is the neutral value for the free-form constraint categories.
const NoRequirement = "no requirement"

// GenerationRequest carries the user-chosen constraints for one generation run.
type GenerationRequest struct {
	MainMeatCount   int `json:"main_meat_count"`
	HalfMeatCount   int `json:"half_meat_count"`
	VegetarianCount int `json:"vegetarian_count"`

	StaffSituation      StaffSituation `json:"staff_situation"`
	HistoricalRatioPct  int            `json:"historical_ratio_pct"`
	EquipmentShortage   []Equipment    `json:"equipment_shortage"`
	SpicyLevel          SpicyLevel     `json:"spicy_level"`
	FlavorDiversity     bool           `json:"flavor_diversity"`
	WorkRatio           string         `json:"work_ratio"`
	IngredientDiversity string         `json:"ingredient_diversity"`
}

// WeekMenu is the validated result of one generation: five weekday slots, each
// an ordered list of dish labels. Labels carry a category tag and, for dishes
// drawn from the historical pools, an extra "(classic)" tag.
type WeekMenu struct {
	Monday    []string `json:"monday"`
	Tuesday   []string `json:"tuesday"`
	Wednesday []string `json:"wednesday"`
	Thursday  []string `json:"thursday"`
	Friday    []string `json:"friday"`
}

// Days returns the day slots in weekday order.
func (m *WeekMenu) Days() [][]string {
	return [][]string{m.Monday, m.Tuesday, m.Wednesday, m.Thursday, m.Friday}
}

// DishCount returns the total number of dish labels across the week.
func (m *WeekMenu) DishCount() int {
	n := 0
	for _, day := range m.Days() {
		n += len(day)
	}
	return n
}
