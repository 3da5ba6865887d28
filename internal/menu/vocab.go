package menu

import "strings"

// Reference vocabularies embedded in every instruction. These are static
// domain data for the generator to draw on, not derived from the request.
var (
	ingredientVocab = []string{
		"pork belly", "pork loin", "chicken thigh", "chicken breast", "beef shank",
		"beef brisket", "lamb shoulder", "duck", "white fish", "shrimp",
		"tofu", "firm tofu", "egg", "potato", "lotus root",
		"eggplant", "green beans", "bok choy", "cabbage", "winter melon",
		"carrot", "celery", "bell pepper", "mushroom", "bamboo shoots",
		"cucumber", "tomato", "spinach", "bean sprouts", "seaweed",
	}

	cookingMethodVocab = []string{
		"stir-fried", "braised", "steamed", "deep-fried", "pan-fried",
		"stewed", "roasted", "blanched", "cold-dressed", "smoked",
		"marinated", "dry-fried", "red-cooked", "quick-pickled",
	}

	flavorVocab = []string{
		"savory", "garlic", "ginger-scallion", "sweet and sour", "five-spice",
		"black bean", "soy-braised", "mild chili", "numbing-spicy", "vinegar-dressed",
		"sesame", "cumin", "honey-glazed", "light broth",
	}
)

// vocabLine renders one vocabulary as a comma-joined line for the template.
func vocabLine(words []string) string {
	return strings.Join(words, ", ")
}
