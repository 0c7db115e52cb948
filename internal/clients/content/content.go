// Package content answers read-only SRD lookups for monsters, spells and items
package content

//go:generate mockgen -destination=mock/mock_client.go -package=contentmock github.com/KirkDiggler/dnd-mcp/internal/clients/content Client

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/fadedpez/dnd5e-api/clients/dnd5e"
	dndentities "github.com/fadedpez/dnd5e-api/entities"

	"github.com/KirkDiggler/dnd-mcp/internal/config"
	"github.com/KirkDiggler/dnd-mcp/internal/engine"
	"github.com/KirkDiggler/dnd-mcp/internal/entities"
	"github.com/KirkDiggler/dnd-mcp/internal/errors"
)

// Source values reported on lookups
const (
	SourceAPI     = "dnd5eapi"
	SourceCatalog = "catalog"
)

// Client defines the content lookups consumed by the orchestrators
type Client interface {
	// LookupMonster finds a monster stat block. crRange is "min-max", a single
	// CR, or empty for any.
	LookupMonster(ctx context.Context, name, crRange string) (*StatBlock, error)

	// LookupSpell finds a spell. A nil level or empty class skips that filter.
	LookupSpell(ctx context.Context, name string, level *int, class string) (*SpellInfo, error)

	// LookupItem finds weapon, armor or gear data for an item name
	LookupItem(ctx context.Context, name string) (*ItemInfo, error)
}

// Action is a monster attack
type Action struct {
	Name        string `json:"name" yaml:"name"`
	AttackBonus int    `json:"attack_bonus" yaml:"attack_bonus"`
	Damage      string `json:"damage" yaml:"damage"`
	DamageType  string `json:"damage_type" yaml:"damage_type"`
}

// StatBlock is an SRD monster
type StatBlock struct {
	Name    string                 `json:"name"`
	Type    string                 `json:"type"`
	Size    string                 `json:"size"`
	CR      float64                `json:"cr"`
	XP      int                    `json:"xp"`
	AC      int                    `json:"ac"`
	HP      int                    `json:"hp"`
	HitDice string                 `json:"hit_dice"`
	Speed   int                    `json:"speed"`
	Scores  entities.AbilityScores `json:"scores"`
	Actions []Action               `json:"actions"`
}

// DexMod is the initiative modifier of the monster
func (s *StatBlock) DexMod() int {
	return engine.Modifier(s.Scores.Dexterity)
}

// PrimaryAction returns the first listed attack
func (s *StatBlock) PrimaryAction() (Action, bool) {
	if len(s.Actions) == 0 {
		return Action{}, false
	}
	return s.Actions[0], true
}

// SpellInfo is the lookup result for a spell
type SpellInfo struct {
	Key           string   `json:"key"`
	Name          string   `json:"name"`
	Level         int      `json:"level"`
	School        string   `json:"school,omitempty"`
	CastingTime   string   `json:"casting_time,omitempty"`
	Range         string   `json:"range,omitempty"`
	Duration      string   `json:"duration,omitempty"`
	Concentration bool     `json:"concentration"`
	Ritual        bool     `json:"ritual"`
	Classes       []string `json:"classes,omitempty"`
	Source        string   `json:"source"`
}

// AvailableTo reports whether class can learn the spell
func (s *SpellInfo) AvailableTo(class string) bool {
	for _, c := range s.Classes {
		if strings.EqualFold(c, class) {
			return true
		}
	}
	return false
}

// ItemInfo is the lookup result for an item
type ItemInfo struct {
	Key    string                `json:"key"`
	Name   string                `json:"name"`
	Kind   entities.ItemKind     `json:"kind"`
	Cost   string                `json:"cost,omitempty"`
	Weapon *entities.WeaponStats `json:"weapon,omitempty"`
	Armor  *entities.ArmorStats  `json:"armor,omitempty"`
	Source string                `json:"source"`
}

// ToItem converts the lookup into an inventory stack
func (i *ItemInfo) ToItem(quantity int) entities.Item {
	return entities.Item{
		ID:       entities.ItemID(i.Name),
		Name:     i.Name,
		Quantity: quantity,
		Kind:     i.Kind,
		Weapon:   i.Weapon,
		Armor:    i.Armor,
	}
}

// SRDAPI is the part of the dnd5e-api client used here
type SRDAPI interface {
	GetSpell(key string) (*dndentities.Spell, error)
	GetEquipment(key string) (dnd5e.EquipmentInterface, error)
}

// Config holds the dependencies of the content client
type Config struct {
	Content config.Content
	// API overrides the dnd5e-api client built from Content
	API    SRDAPI
	Logger *slog.Logger
}

// Validate validates the config
func (cfg *Config) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config is required")
	}
	vb := errors.NewValidationBuilder()
	if cfg.Content.APIEnabled && cfg.API == nil {
		errors.ValidateRequired("Content.APIBaseURL", cfg.Content.APIBaseURL, vb)
	}
	if cfg.Content.HTTPTimeout < 0 {
		vb.InvalidField("Content.HTTPTimeout", "must not be negative")
	}
	return vb.Build()
}

type client struct {
	api     SRDAPI
	catalog *Catalog
	logger  *slog.Logger
}

// New creates a content client. The dnd5e-api client is only built when the
// API is enabled; the embedded catalog is always loaded.
func New(cfg *Config) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	catalog, err := LoadCatalog()
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := &client{catalog: catalog, logger: logger}

	switch {
	case cfg.API != nil:
		c.api = cfg.API
	case cfg.Content.APIEnabled:
		timeout := cfg.Content.HTTPTimeout
		if timeout == 0 {
			timeout = 10 * time.Second
		}
		ttl := cfg.Content.CacheTTL
		if ttl == 0 {
			ttl = 24 * time.Hour
		}

		baseClient, err := dnd5e.NewDND5eAPI(&dnd5e.DND5eAPIConfig{
			Client:  &http.Client{Timeout: timeout},
			BaseURL: cfg.Content.APIBaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create D&D 5e API client: %w", err)
		}
		c.api = dnd5e.NewCachedClient(baseClient, ttl)
	}

	return c, nil
}

func (c *client) LookupMonster(ctx context.Context, name, crRange string) (*StatBlock, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "lookup cancelled")
	}
	if strings.TrimSpace(name) == "" {
		return nil, errors.InvalidArgument("monster name is required").WithMeta("field", "name")
	}

	lo, hi, err := ParseCRRange(crRange)
	if err != nil {
		return nil, err
	}

	block, ok := c.catalog.Monster(name, lo, hi)
	if !ok {
		return nil, errors.NotFoundf("monster %q not found", name).
			WithMeta("name", name).
			WithMeta("cr_range", crRange)
	}
	return block, nil
}

func (c *client) LookupSpell(ctx context.Context, name string, level *int, class string) (*SpellInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "lookup cancelled")
	}
	if strings.TrimSpace(name) == "" {
		return nil, errors.InvalidArgument("spell name is required").WithMeta("field", "name")
	}

	info := c.spellFromAPI(ctx, name)
	if info == nil {
		var ok bool
		if info, ok = c.catalog.Spell(name); !ok {
			return nil, errors.NotFoundf("spell %q not found", name).WithMeta("name", name)
		}
	}

	if level != nil && info.Level != *level {
		return nil, errors.NotFoundf("spell %q is level %d, not %d", info.Name, info.Level, *level).
			WithMeta("name", name).
			WithMeta("level", *level)
	}
	if class != "" && !info.AvailableTo(class) {
		return nil, errors.NotFoundf("spell %q is not on the %s list", info.Name, class).
			WithMeta("name", name).
			WithMeta("class", class)
	}
	return info, nil
}

func (c *client) LookupItem(ctx context.Context, name string) (*ItemInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "lookup cancelled")
	}
	if strings.TrimSpace(name) == "" {
		return nil, errors.InvalidArgument("item name is required").WithMeta("field", "name")
	}

	if info := c.itemFromAPI(ctx, name); info != nil {
		return info, nil
	}
	if info, ok := c.catalog.Item(name); ok {
		return info, nil
	}
	return nil, errors.NotFoundf("item %q not found", name).WithMeta("name", name)
}

// spellFromAPI returns nil when the API is off or has no answer
func (c *client) spellFromAPI(ctx context.Context, name string) *SpellInfo {
	if c.api == nil {
		return nil
	}
	key := generateSlug(name)
	spell, err := c.api.GetSpell(key)
	if err != nil || spell == nil {
		c.logger.DebugContext(ctx, "Spell lookup fell back to catalog",
			"key", key,
			"error", err)
		return nil
	}
	return convertSpell(spell)
}

func (c *client) itemFromAPI(ctx context.Context, name string) *ItemInfo {
	if c.api == nil {
		return nil
	}
	key := generateSlug(name)
	equipment, err := c.api.GetEquipment(key)
	if err != nil || equipment == nil {
		c.logger.DebugContext(ctx, "Item lookup fell back to catalog",
			"key", key,
			"error", err)
		return nil
	}
	return convertEquipment(equipment)
}
