package content

import (
	_ "embed"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/dnd-mcp/internal/entities"
	"github.com/KirkDiggler/dnd-mcp/internal/errors"
)

//go:embed data/srd.yaml
var srdYAML []byte

type catalogFile struct {
	Monsters []monsterRecord `yaml:"monsters"`
	Spells   []spellRecord   `yaml:"spells"`
	Items    []itemRecord    `yaml:"items"`
}

type scoreRecord struct {
	Str int `yaml:"str"`
	Dex int `yaml:"dex"`
	Con int `yaml:"con"`
	Int int `yaml:"int"`
	Wis int `yaml:"wis"`
	Cha int `yaml:"cha"`
}

type monsterRecord struct {
	Name    string      `yaml:"name"`
	Type    string      `yaml:"type"`
	Size    string      `yaml:"size"`
	CR      float64     `yaml:"cr"`
	XP      int         `yaml:"xp"`
	AC      int         `yaml:"ac"`
	HP      int         `yaml:"hp"`
	HitDice string      `yaml:"hit_dice"`
	Speed   int         `yaml:"speed"`
	Scores  scoreRecord `yaml:"scores"`
	Actions []Action    `yaml:"actions"`
}

type spellRecord struct {
	Name          string   `yaml:"name"`
	Level         int      `yaml:"level"`
	School        string   `yaml:"school"`
	CastingTime   string   `yaml:"casting_time"`
	Range         string   `yaml:"range"`
	Duration      string   `yaml:"duration"`
	Concentration bool     `yaml:"concentration"`
	Ritual        bool     `yaml:"ritual"`
	Classes       []string `yaml:"classes"`
}

type itemRecord struct {
	Name          string   `yaml:"name"`
	Kind          string   `yaml:"kind"`
	Category      string   `yaml:"category"`
	Damage        string   `yaml:"damage"`
	DamageType    string   `yaml:"damage_type"`
	Properties    []string `yaml:"properties"`
	ArmorCategory string   `yaml:"armor_category"`
	BaseAC        int      `yaml:"base_ac"`
	Cost          string   `yaml:"cost"`
}

// Catalog is the embedded SRD content, indexed by lowercase name
type Catalog struct {
	monsters []*StatBlock
	spells   map[string]*SpellInfo
	items    map[string]*ItemInfo
}

// LoadCatalog parses the embedded SRD catalog
func LoadCatalog() (*Catalog, error) {
	return parseCatalog(srdYAML)
}

func parseCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeDataLoss, "failed to parse SRD catalog")
	}

	c := &Catalog{
		spells: make(map[string]*SpellInfo, len(file.Spells)),
		items:  make(map[string]*ItemInfo, len(file.Items)),
	}

	for _, m := range file.Monsters {
		c.monsters = append(c.monsters, &StatBlock{
			Name:    m.Name,
			Type:    m.Type,
			Size:    m.Size,
			CR:      m.CR,
			XP:      m.XP,
			AC:      m.AC,
			HP:      m.HP,
			HitDice: m.HitDice,
			Speed:   m.Speed,
			Scores: entities.AbilityScores{
				Strength:     m.Scores.Str,
				Dexterity:    m.Scores.Dex,
				Constitution: m.Scores.Con,
				Intelligence: m.Scores.Int,
				Wisdom:       m.Scores.Wis,
				Charisma:     m.Scores.Cha,
			},
			Actions: m.Actions,
		})
	}

	for _, s := range file.Spells {
		c.spells[strings.ToLower(s.Name)] = &SpellInfo{
			Key:           generateSlug(s.Name),
			Name:          s.Name,
			Level:         s.Level,
			School:        s.School,
			CastingTime:   s.CastingTime,
			Range:         s.Range,
			Duration:      s.Duration,
			Concentration: s.Concentration,
			Ritual:        s.Ritual,
			Classes:       s.Classes,
			Source:        SourceCatalog,
		}
	}

	for _, it := range file.Items {
		info := &ItemInfo{
			Key:    generateSlug(it.Name),
			Name:   it.Name,
			Kind:   entities.ItemKind(it.Kind),
			Cost:   it.Cost,
			Source: SourceCatalog,
		}
		switch info.Kind {
		case entities.ItemKindWeapon:
			info.Weapon = &entities.WeaponStats{
				DamageDice: it.Damage,
				DamageType: it.DamageType,
				Category:   it.Category,
				Properties: it.Properties,
			}
		case entities.ItemKindArmor, entities.ItemKindShield:
			info.Armor = &entities.ArmorStats{
				Category: entities.ArmorCategory(it.ArmorCategory),
				BaseAC:   it.BaseAC,
			}
		default:
			info.Kind = entities.ItemKindGear
		}
		c.items[strings.ToLower(it.Name)] = info
	}

	return c, nil
}

// Monster finds a monster whose CR is within [lo, hi]. Matching prefers an
// exact name, then the singular of a plural name, then a substring match
// in either direction.
func (c *Catalog) Monster(name string, lo, hi float64) (*StatBlock, bool) {
	want := strings.ToLower(strings.TrimSpace(name))

	var candidates []*StatBlock
	for _, m := range c.monsters {
		if m.CR >= lo && m.CR <= hi {
			candidates = append(candidates, m)
		}
	}

	match := func(pred func(string) bool) (*StatBlock, bool) {
		for _, m := range candidates {
			if pred(strings.ToLower(m.Name)) {
				return copyStatBlock(m), true
			}
		}
		return nil, false
	}

	if m, ok := match(func(n string) bool { return n == want }); ok {
		return m, true
	}
	for _, singular := range singularForms(want) {
		if m, ok := match(func(n string) bool { return n == singular }); ok {
			return m, true
		}
	}
	return match(func(n string) bool {
		return strings.Contains(n, want) || strings.Contains(want, n)
	})
}

// Spell returns the catalog spell with name
func (c *Catalog) Spell(name string) (*SpellInfo, bool) {
	s, ok := c.spells[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, false
	}
	out := *s
	out.Classes = append([]string(nil), s.Classes...)
	return &out, true
}

// Item returns the catalog item with name
func (c *Catalog) Item(name string) (*ItemInfo, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	it, ok := c.items[key]
	if !ok {
		for _, singular := range singularForms(key) {
			if it, ok = c.items[singular]; ok {
				break
			}
		}
	}
	if !ok {
		return nil, false
	}
	out := *it
	if it.Weapon != nil {
		w := *it.Weapon
		w.Properties = append([]string(nil), it.Weapon.Properties...)
		out.Weapon = &w
	}
	if it.Armor != nil {
		a := *it.Armor
		out.Armor = &a
	}
	return &out, true
}

// MonsterNames lists the catalog monsters in file order
func (c *Catalog) MonsterNames() []string {
	names := make([]string, 0, len(c.monsters))
	for _, m := range c.monsters {
		names = append(names, m.Name)
	}
	return names
}

func copyStatBlock(m *StatBlock) *StatBlock {
	out := *m
	out.Actions = append([]Action(nil), m.Actions...)
	return &out
}

// singularForms returns candidate singulars of a plural english noun
func singularForms(name string) []string {
	if len(name) <= 3 || !strings.HasSuffix(name, "s") {
		return nil
	}
	forms := []string{strings.TrimSuffix(name, "s")}
	if strings.HasSuffix(name, "ves") {
		forms = append(forms, strings.TrimSuffix(name, "ves")+"f")
	}
	if strings.HasSuffix(name, "es") {
		forms = append(forms, strings.TrimSuffix(name, "es"))
	}
	return forms
}

// ParseCRRange parses "min-max" or a single CR. Fractions like "1/4" are
// accepted. An empty range matches every CR.
func ParseCRRange(s string) (lo, hi float64, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, math.MaxFloat64, nil
	}

	invalid := func() error {
		return errors.InvalidArgumentf("invalid CR range %q", s).WithMeta("field", "cr_range")
	}

	if i := strings.Index(s, "-"); i > 0 {
		if lo, err = parseCR(s[:i]); err != nil {
			return 0, 0, invalid()
		}
		if hi, err = parseCR(s[i+1:]); err != nil {
			return 0, 0, invalid()
		}
		if lo > hi {
			return 0, 0, invalid()
		}
		return lo, hi, nil
	}

	cr, err := parseCR(s)
	if err != nil {
		return 0, 0, invalid()
	}
	return cr, cr, nil
}

func parseCR(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return 0, err
		}
		d, err := strconv.ParseFloat(den, 64)
		if err != nil || d == 0 {
			return 0, strconv.ErrSyntax
		}
		return n / d, nil
	}
	cr, err := strconv.ParseFloat(s, 64)
	if err != nil || cr < 0 {
		return 0, strconv.ErrSyntax
	}
	return cr, nil
}
