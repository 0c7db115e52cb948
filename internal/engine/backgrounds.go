package engine

import "strings"

var backgroundSkills = map[string][]string{
	"acolyte":       {"insight", "religion"},
	"charlatan":     {"deception", "sleight_of_hand"},
	"criminal":      {"deception", "stealth"},
	"entertainer":   {"acrobatics", "performance"},
	"folk hero":     {"animal_handling", "survival"},
	"guild artisan": {"insight", "persuasion"},
	"hermit":        {"medicine", "religion"},
	"noble":         {"history", "persuasion"},
	"outlander":     {"athletics", "survival"},
	"sage":          {"arcana", "history"},
	"sailor":        {"athletics", "perception"},
	"soldier":       {"athletics", "intimidation"},
	"urchin":        {"sleight_of_hand", "stealth"},
}

// BackgroundSkills returns the skill proficiencies granted by an SRD
// background. Unknown backgrounds grant none.
func BackgroundSkills(background string) []string {
	key := strings.ToLower(strings.TrimSpace(background))
	key = strings.ReplaceAll(key, "_", " ")
	return append([]string(nil), backgroundSkills[key]...)
}
