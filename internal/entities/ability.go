package entities

import "strings"

// Ability is one of the six ability score keys
type Ability string

// Abilities
const (
	AbilityStrength     Ability = "str"
	AbilityDexterity    Ability = "dex"
	AbilityConstitution Ability = "con"
	AbilityIntelligence Ability = "int"
	AbilityWisdom       Ability = "wis"
	AbilityCharisma     Ability = "cha"
)

// Abilities lists the six abilities in sheet order
var Abilities = []Ability{
	AbilityStrength, AbilityDexterity, AbilityConstitution,
	AbilityIntelligence, AbilityWisdom, AbilityCharisma,
}

var abilityAliases = map[string]Ability{
	"str": AbilityStrength, "strength": AbilityStrength,
	"dex": AbilityDexterity, "dexterity": AbilityDexterity,
	"con": AbilityConstitution, "constitution": AbilityConstitution,
	"int": AbilityIntelligence, "intelligence": AbilityIntelligence,
	"wis": AbilityWisdom, "wisdom": AbilityWisdom,
	"cha": AbilityCharisma, "charisma": AbilityCharisma,
}

// ParseAbility accepts short or long ability names, any case
func ParseAbility(s string) (Ability, bool) {
	a, ok := abilityAliases[strings.ToLower(strings.TrimSpace(s))]
	return a, ok
}

// AbilityScores holds the six core ability scores
type AbilityScores struct {
	Strength     int `json:"str"`
	Dexterity    int `json:"dex"`
	Constitution int `json:"con"`
	Intelligence int `json:"int"`
	Wisdom       int `json:"wis"`
	Charisma     int `json:"cha"`
}

// Get returns the score for a
func (s AbilityScores) Get(a Ability) int {
	switch a {
	case AbilityStrength:
		return s.Strength
	case AbilityDexterity:
		return s.Dexterity
	case AbilityConstitution:
		return s.Constitution
	case AbilityIntelligence:
		return s.Intelligence
	case AbilityWisdom:
		return s.Wisdom
	case AbilityCharisma:
		return s.Charisma
	}
	return 0
}

// Set assigns the score for a
func (s *AbilityScores) Set(a Ability, v int) {
	switch a {
	case AbilityStrength:
		s.Strength = v
	case AbilityDexterity:
		s.Dexterity = v
	case AbilityConstitution:
		s.Constitution = v
	case AbilityIntelligence:
		s.Intelligence = v
	case AbilityWisdom:
		s.Wisdom = v
	case AbilityCharisma:
		s.Charisma = v
	}
}

// Skills maps each skill to its governing ability
var Skills = map[string]Ability{
	"athletics":       AbilityStrength,
	"acrobatics":      AbilityDexterity,
	"sleight_of_hand": AbilityDexterity,
	"stealth":         AbilityDexterity,
	"arcana":          AbilityIntelligence,
	"history":         AbilityIntelligence,
	"investigation":   AbilityIntelligence,
	"nature":          AbilityIntelligence,
	"religion":        AbilityIntelligence,
	"animal_handling": AbilityWisdom,
	"insight":         AbilityWisdom,
	"medicine":        AbilityWisdom,
	"perception":      AbilityWisdom,
	"survival":        AbilityWisdom,
	"deception":       AbilityCharisma,
	"intimidation":    AbilityCharisma,
	"performance":     AbilityCharisma,
	"persuasion":      AbilityCharisma,
}

// NormalizeSkill lowercases and snake-cases a skill name
func NormalizeSkill(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}
