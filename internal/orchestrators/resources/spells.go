package resources

import (
	"context"
	"log/slog"
	"strings"

	"github.com/KirkDiggler/dnd-mcp/internal/clients/content"
	"github.com/KirkDiggler/dnd-mcp/internal/engine"
	"github.com/KirkDiggler/dnd-mcp/internal/errors"
)

// CastSpell resolves the spell through content when possible, then spends a
// slot at or above the cast level
func (o *orchestrator) CastSpell(ctx context.Context, input *CastSpellInput) (*CastSpellOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	name := strings.TrimSpace(input.Name)
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("spell_name", name, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	c, err := o.loadCharacter(ctx, input.Ref)
	if err != nil {
		return nil, err
	}

	info, err := o.content.LookupSpell(ctx, name, nil, "")
	switch {
	case err == nil:
		name = info.Name
	case errors.IsNotFound(err):
		info = nil
	default:
		return nil, errors.Wrapf(err, "failed to look up spell %q", name)
	}

	level, err := castLevel(input.Level, info)
	if err != nil {
		return nil, err
	}

	concentration := false
	switch {
	case input.Concentration != nil:
		concentration = *input.Concentration
	case info != nil:
		concentration = info.Concentration
	}

	result, err := engine.CastSpell(c, name, level, concentration)
	if err != nil {
		return nil, err
	}
	if err := o.saveCharacter(ctx, input.Ref, c); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Spell cast",
		"campaign_id", input.Ref.CampaignID,
		"spell", result.Spell,
		"slot_level", result.SlotLevel,
		"slots_remaining", result.SlotsRemaining,
		"concentration", result.Concentration,
	)

	return &CastSpellOutput{Result: result, Spell: info, Slots: c.Spellcasting.Slots}, nil
}

// castLevel picks the requested level, falling back to the spell's own; a
// spell cannot be cast below its level
func castLevel(requested *int, info *content.SpellInfo) (int, error) {
	vb := errors.NewValidationBuilder()
	switch {
	case requested == nil && info == nil:
		vb.Field("spell_level", "is required for spells not in the content catalog")
		return 0, vb.Build()
	case requested == nil:
		return info.Level, nil
	case info != nil && *requested < info.Level:
		vb.Fieldf("spell_level", "%s cannot be cast below level %d", info.Name, info.Level)
		return 0, vb.Build()
	}
	return *requested, nil
}

// PrepareSpells replaces the prepared list; names content does not know are
// kept but reported
func (o *orchestrator) PrepareSpells(ctx context.Context, input *PrepareSpellsInput) (*PrepareSpellsOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	c, err := o.loadCharacter(ctx, input.Ref)
	if err != nil {
		return nil, err
	}

	out := &PrepareSpellsOutput{}
	for _, name := range input.Names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		if _, err := o.content.LookupSpell(ctx, name, nil, ""); err != nil {
			if !errors.IsNotFound(err) {
				return nil, errors.Wrapf(err, "failed to look up spell %q", name)
			}
			out.Unknown = append(out.Unknown, name)
		}
	}

	prepared, err := engine.PrepareSpells(c, input.Names)
	if err != nil {
		return nil, err
	}
	if err := o.saveCharacter(ctx, input.Ref, c); err != nil {
		return nil, err
	}
	out.Prepared = prepared

	slog.InfoContext(ctx, "Spells prepared",
		"campaign_id", input.Ref.CampaignID,
		"count", len(prepared),
		"unknown", len(out.Unknown),
	)

	return out, nil
}

// GetSpellSlots reports the spellcasting state; non-casters get Caster false
func (o *orchestrator) GetSpellSlots(ctx context.Context, input *GetSpellSlotsInput) (*GetSpellSlotsOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	c, err := o.loadCharacter(ctx, input.Ref)
	if err != nil {
		return nil, err
	}

	sc := c.Spellcasting
	if sc == nil {
		return &GetSpellSlotsOutput{}, nil
	}
	return &GetSpellSlotsOutput{
		Caster:        true,
		Ability:       sc.Ability,
		Slots:         sc.Slots,
		Prepared:      sc.Prepared,
		Concentration: sc.Concentration,
		PactMagic:     sc.PactMagic,
	}, nil
}
