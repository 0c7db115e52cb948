package engine

import (
	"strings"

	"github.com/KirkDiggler/dnd-mcp/internal/entities"
	"github.com/KirkDiggler/dnd-mcp/internal/errors"
)

// UseFeature spends one use of a named class feature
func UseFeature(c *entities.Character, name string) (*entities.Feature, error) {
	for i := range c.Features {
		f := &c.Features[i]
		if !strings.EqualFold(f.Name, strings.TrimSpace(name)) {
			continue
		}
		if f.Uses <= 0 {
			return nil, errors.InvalidStatef(errors.ReasonFeatureExhausted, "%s has no uses remaining", f.Name).
				WithMeta("feature", f.Name)
		}
		f.Uses--
		return f, nil
	}
	return nil, errors.NotFoundf("feature %q not found", name).WithMeta("feature", name)
}

// StartingFeatures returns the level-appropriate limited-use features of a class
func StartingFeatures(class string, level int, scores entities.AbilityScores) []entities.Feature {
	switch strings.ToLower(class) {
	case "fighter":
		return []entities.Feature{{Name: "Second Wind", Uses: 1, Max: 1, ResetsOn: entities.RestShort}}
	case "barbarian":
		rages := 2
		switch {
		case level >= 17:
			rages = 6
		case level >= 12:
			rages = 5
		case level >= 6:
			rages = 4
		case level >= 3:
			rages = 3
		}
		return []entities.Feature{{Name: "Rage", Uses: rages, Max: rages, ResetsOn: entities.RestLong}}
	case "bard":
		uses := max(1, Modifier(scores.Charisma))
		resets := entities.RestLong
		if level >= 5 {
			resets = entities.RestShort
		}
		return []entities.Feature{{Name: "Bardic Inspiration", Uses: uses, Max: uses, ResetsOn: resets}}
	case "monk":
		if level < 2 {
			return nil
		}
		return []entities.Feature{{Name: "Ki", Uses: level, Max: level, ResetsOn: entities.RestShort}}
	case "cleric":
		if level < 2 {
			return nil
		}
		return []entities.Feature{{Name: "Channel Divinity", Uses: 1, Max: 1, ResetsOn: entities.RestShort}}
	case "paladin":
		pool := level * 5
		return []entities.Feature{{Name: "Lay on Hands", Uses: pool, Max: pool, ResetsOn: entities.RestLong}}
	}
	return nil
}
