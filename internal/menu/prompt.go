package menu

import (
	"bytes"
	_ "embed"
	"text/template"
)

//go:embed menu_prompt.md
var menuPrompt string

// historicalSampleSlack is how many dish names beyond the historical quota are
// offered to the generator. Enough room to choose, small enough to keep the
// instruction from bloating.
const historicalSampleSlack = 10

// ComposeInput gathers everything the instruction needs: the profile's dish
// counts, the request, the computed quota, the mapped constraint fragments and
// the account's historical dish pools.
type ComposeInput struct {
	HotCount  int
	ColdCount int
	Request   GenerationRequest
	Plan      QuotaPlan
	Fragments ConstraintFragments
	Pools     [][]string
}

type promptData struct {
	HotCount   int
	ColdCount  int
	MainMeat   int
	HalfMeat   int
	Vegetarian int

	Total      int
	Historical int
	Original   int
	DailyHist  int

	Staffing            string
	Spicy               string
	Equipment           string
	FlavorDiversity     string
	WorkRatio           string
	IngredientDiversity string

	Ingredients string
	Methods     string
	Flavors     string

	HistoricalSample []string
}

// ComposeInstruction renders the full instruction payload for the generator.
// The numeric targets appear twice on purpose, once in the narrative and once
// in the closing checklist: restating hard constraints measurably reduces
// quota drift in the returned menu.
func ComposeInstruction(in ComposeInput) (string, error) {
	tmpl, err := template.New("menu").Parse(menuPrompt)
	if err != nil {
		return "", err
	}

	data := promptData{
		HotCount:   in.HotCount,
		ColdCount:  in.ColdCount,
		MainMeat:   in.Request.MainMeatCount,
		HalfMeat:   in.Request.HalfMeatCount,
		Vegetarian: in.Request.VegetarianCount,

		Total:      in.Plan.TotalDishes,
		Historical: in.Plan.HistoricalDishes,
		Original:   in.Plan.OriginalDishes,
		DailyHist:  in.Plan.SuggestedDailyHist,

		Staffing:            in.Fragments.Staffing,
		Spicy:               in.Fragments.Spicy,
		Equipment:           in.Fragments.Equipment,
		FlavorDiversity:     in.Fragments.FlavorDiversity,
		WorkRatio:           in.Fragments.WorkRatio,
		IngredientDiversity: in.Fragments.IngredientDiversity,

		Ingredients: vocabLine(ingredientVocab),
		Methods:     vocabLine(cookingMethodVocab),
		Flavors:     vocabLine(flavorVocab),

		HistoricalSample: historicalSample(in.Pools, in.Plan.HistoricalDishes),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// historicalSample flattens the pools in order and takes a bounded prefix:
// the historical quota plus a fixed slack, or everything if the pools are
// smaller than that.
func historicalSample(pools [][]string, historicalQuota int) []string {
	limit := historicalQuota + historicalSampleSlack
	sample := make([]string, 0, limit)
	for _, pool := range pools {
		for _, dish := range pool {
			sample = append(sample, dish)
			if len(sample) == limit {
				return sample
			}
		}
	}
	return sample
}
