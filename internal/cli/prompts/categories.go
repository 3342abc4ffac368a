package prompts

import (
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/asteroid-belt/learnpath/internal/models"
)

// BuildCategoryOptions creates huh options for every category. Categories in
// current are preselected.
func BuildCategoryOptions(current []models.Category) []huh.Option[string] {
	have := make(map[models.Category]bool, len(current))
	for _, c := range current {
		have[c] = true
	}

	options := make([]huh.Option[string], 0, len(models.Categories()))
	for _, c := range models.Categories() {
		options = append(options, huh.NewOption(CategoryLabel(c), string(c)).Selected(have[c]))
	}
	return options
}

// CategoryLabel turns DATA_SCIENCE into "Data Science".
func CategoryLabel(c models.Category) string {
	words := strings.Split(strings.ToLower(string(c)), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// RunCategorySelector shows interactive interest selection and returns the
// selected category names.
func RunCategorySelector(current []models.Category) ([]string, error) {
	var selected []string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Select your interests").
				Description("Space to toggle, Enter to confirm").
				Options(BuildCategoryOptions(current)...).
				Value(&selected),
		),
	)

	if err := form.Run(); err != nil {
		return nil, err
	}
	return selected, nil
}
