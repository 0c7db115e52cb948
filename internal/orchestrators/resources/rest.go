package resources

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/dnd-mcp/internal/engine"
	"github.com/KirkDiggler/dnd-mcp/internal/entities"
	"github.com/KirkDiggler/dnd-mcp/internal/errors"
)

// Rest applies a short or long rest and mirrors the result into combat
func (o *orchestrator) Rest(ctx context.Context, input *RestInput) (*RestOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	kind, err := engine.ParseRestKind(input.Kind)
	if err != nil {
		return nil, err
	}

	c, err := o.loadCharacter(ctx, input.Ref)
	if err != nil {
		return nil, err
	}

	summary := engine.Rest(c, kind)
	if err := o.saveCharacter(ctx, input.Ref, c); err != nil {
		return nil, err
	}
	if err := o.syncEncounter(ctx, input.Ref, c); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Rest taken",
		"campaign_id", input.Ref.CampaignID,
		"kind", kind,
		"hp_restored", summary.HPRestored,
		"hit_dice_restored", summary.HitDiceRestored,
		"slots_restored", summary.SlotsRestored,
	)

	return &RestOutput{Summary: summary, Character: c}, nil
}

// UseHitDice spends count hit dice (default 1) to heal
func (o *orchestrator) UseHitDice(ctx context.Context, input *UseHitDiceInput) (*UseHitDiceOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	vb := errors.NewValidationBuilder()
	errors.ValidateNonNegative("count", input.Count, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	c, err := o.loadCharacter(ctx, input.Ref)
	if err != nil {
		return nil, err
	}

	rolls, healed, err := engine.SpendHitDice(c, o.dice, max(1, input.Count))
	if err != nil {
		return nil, err
	}
	if err := o.saveCharacter(ctx, input.Ref, c); err != nil {
		return nil, err
	}
	if err := o.syncEncounter(ctx, input.Ref, c); err != nil {
		return nil, err
	}

	return &UseHitDiceOutput{
		Rolls:     rolls,
		Healed:    healed,
		CurrentHP: c.CurrentHP,
		MaxHP:     c.MaxHP,
		Remaining: c.HitDice.Current,
	}, nil
}

// ManageConditions applies, removes or checks a condition on the player or,
// with TargetID, on a roster member of the active encounter
func (o *orchestrator) ManageConditions(ctx context.Context, input *ManageConditionsInput) (*ManageConditionsOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	vb := errors.NewValidationBuilder()
	errors.ValidateEnum("action", input.Action, []string{ConditionApply, ConditionRemove, ConditionCheck}, vb)
	errors.ValidateNonNegative("levels", input.Levels, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	name := ""
	if input.Action != ConditionCheck || input.Condition != "" {
		normalized, err := engine.NormalizeCondition(input.Condition)
		if err != nil {
			return nil, err
		}
		name = normalized
	}

	c, err := o.loadCharacter(ctx, input.Ref)
	if err != nil {
		return nil, err
	}

	out := &ManageConditionsOutput{TargetID: c.ID, Action: input.Action, Condition: name}

	if input.TargetID != "" && input.TargetID != c.ID {
		return o.manageCombatantConditions(ctx, input, name, out)
	}

	switch input.Action {
	case ConditionApply:
		c.Conditions = engine.ApplyCondition(c.Conditions, name, input.Duration, input.Levels)
		out.Changed = true
	case ConditionRemove:
		if name == engine.ConditionConcentrating {
			out.EndedConcentration = engine.EndConcentration(c)
		}
		c.Conditions, out.Changed = engine.RemoveCondition(c.Conditions, name, input.Levels)
		out.Changed = out.Changed || out.EndedConcentration != ""
	}

	if out.Changed {
		if err := o.saveCharacter(ctx, input.Ref, c); err != nil {
			return nil, err
		}
		if err := o.syncEncounter(ctx, input.Ref, c); err != nil {
			return nil, err
		}
	}

	out.Conditions = c.Conditions
	out.Present = hasCondition(c.Conditions, name)

	slog.DebugContext(ctx, "Conditions managed",
		"campaign_id", input.Ref.CampaignID,
		"target_id", out.TargetID,
		"action", input.Action,
		"condition", name,
		"changed", out.Changed,
	)

	return out, nil
}

func (o *orchestrator) manageCombatantConditions(ctx context.Context, input *ManageConditionsInput, name string, out *ManageConditionsOutput) (*ManageConditionsOutput, error) {
	enc, err := o.activeEncounter(ctx, input.Ref)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return nil, errors.InvalidState(errors.ReasonNotInEncounter, "conditions on other participants require an active encounter")
	}
	cb, ok := enc.Find(input.TargetID)
	if !ok {
		return nil, errors.NotFoundf("participant %q is not in the encounter", input.TargetID).
			WithReason(errors.ReasonUnknownParticipant).
			WithMeta("participant_id", input.TargetID)
	}

	switch input.Action {
	case ConditionApply:
		cb.Conditions = engine.ApplyCondition(cb.Conditions, name, input.Duration, input.Levels)
		out.Changed = true
	case ConditionRemove:
		cb.Conditions, out.Changed = engine.RemoveCondition(cb.Conditions, name, input.Levels)
	}
	if out.Changed {
		if err := o.saveEncounter(ctx, input.Ref, enc); err != nil {
			return nil, err
		}
	}

	out.TargetID = cb.ID
	out.Conditions = cb.Conditions
	out.Present = hasCondition(cb.Conditions, name)
	return out, nil
}

// hasCondition reports whether name is present; an empty name means any
func hasCondition(conds []entities.Condition, name string) bool {
	if name == "" {
		return len(conds) > 0
	}
	for _, c := range conds {
		if c.Name == name {
			return true
		}
	}
	return false
}

// UseFeature spends one use of a class feature
func (o *orchestrator) UseFeature(ctx context.Context, input *UseFeatureInput) (*UseFeatureOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("feature_name", input.Name, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	c, err := o.loadCharacter(ctx, input.Ref)
	if err != nil {
		return nil, err
	}

	feature, err := engine.UseFeature(c, input.Name)
	if err != nil {
		return nil, err
	}
	if err := o.saveCharacter(ctx, input.Ref, c); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Feature used",
		"campaign_id", input.Ref.CampaignID,
		"feature", feature.Name,
		"uses", feature.Uses,
	)

	return &UseFeatureOutput{Feature: *feature}, nil
}
