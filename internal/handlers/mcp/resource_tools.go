package mcp

import (
	"context"

	"github.com/KirkDiggler/dnd-mcp/internal/clients/content"
	"github.com/KirkDiggler/dnd-mcp/internal/engine"
	"github.com/KirkDiggler/dnd-mcp/internal/entities"
	"github.com/KirkDiggler/dnd-mcp/internal/orchestrators/resources"
)

// GetInventoryResult is the output of get_inventory
type GetInventoryResult struct {
	Inventory InventoryView `json:"inventory"`
}

// ItemInput is the input of add_item and remove_item
type ItemInput struct {
	UserID     string `json:"user_id,omitempty" jsonschema:"owner of the campaign; defaults to default"`
	CampaignID string `json:"campaign_id" jsonschema:"campaign identifier (letters, digits, underscore)"`
	ItemName   string `json:"item_name" jsonschema:"item name"`
	Quantity   int    `json:"quantity,omitempty" jsonschema:"how many; defaults to 1"`
}

// AddItemResult is the output of add_item
type AddItemResult struct {
	Item      ItemView      `json:"item"`
	Source    string        `json:"source"`
	Inventory InventoryView `json:"inventory"`
}

// RemoveItemResult is the output of remove_item
type RemoveItemResult struct {
	ItemID     string        `json:"item_id"`
	Removed    int           `json:"removed"`
	Remaining  int           `json:"remaining"`
	Unequipped string        `json:"unequipped,omitempty"`
	AC         int           `json:"ac"`
	Inventory  InventoryView `json:"inventory"`
}

// EquipItemInput is the input of equip_item
type EquipItemInput struct {
	UserID     string `json:"user_id,omitempty" jsonschema:"owner of the campaign; defaults to default"`
	CampaignID string `json:"campaign_id" jsonschema:"campaign identifier (letters, digits, underscore)"`
	ItemName   string `json:"item_name" jsonschema:"name or id of an owned item"`
	Slot       string `json:"slot" jsonschema:"main_hand, off_hand or armor"`
	Replace    bool   `json:"replace,omitempty" jsonschema:"swap out whatever occupies the slot"`
}

// EquipItemResult is the output of equip_item
type EquipItemResult struct {
	Slot     string `json:"slot"`
	ItemID   string `json:"item_id"`
	Replaced string `json:"replaced,omitempty"`
	AC       int    `json:"ac"`
}

// UnequipItemInput is the input of unequip_item
type UnequipItemInput struct {
	UserID     string `json:"user_id,omitempty" jsonschema:"owner of the campaign; defaults to default"`
	CampaignID string `json:"campaign_id" jsonschema:"campaign identifier (letters, digits, underscore)"`
	Slot       string `json:"slot" jsonschema:"main_hand, off_hand or armor"`
}

// UnequipItemResult is the output of unequip_item
type UnequipItemResult struct {
	Slot   string `json:"slot"`
	ItemID string `json:"item_id"`
	AC     int    `json:"ac"`
}

// GoldInput is the input of add_gold and remove_gold
type GoldInput struct {
	UserID     string `json:"user_id,omitempty" jsonschema:"owner of the campaign; defaults to default"`
	CampaignID string `json:"campaign_id" jsonschema:"campaign identifier (letters, digits, underscore)"`
	Amount     int    `json:"amount" jsonschema:"positive number of gold pieces"`
}

// GoldResult is the output of add_gold and remove_gold
type GoldResult struct {
	Previous int `json:"previous"`
	Balance  int `json:"balance"`
}

// CastSpellInput is the input of cast_spell
type CastSpellInput struct {
	UserID        string `json:"user_id,omitempty" jsonschema:"owner of the campaign; defaults to default"`
	CampaignID    string `json:"campaign_id" jsonschema:"campaign identifier (letters, digits, underscore)"`
	SpellName     string `json:"spell_name" jsonschema:"spell name"`
	SpellLevel    *int   `json:"spell_level,omitempty" jsonschema:"slot level to cast at; defaults to the spell's level"`
	Concentration *bool  `json:"concentration,omitempty" jsonschema:"overrides whether the spell needs concentration"`
}

// CastSpellResult is the output of cast_spell
type CastSpellResult struct {
	Result engine.CastResult  `json:"result"`
	Spell  *content.SpellInfo `json:"spell,omitempty"`
	Slots  []SpellSlotView    `json:"slots"`
}

// PrepareSpellsInput is the input of prepare_spells
type PrepareSpellsInput struct {
	UserID     string   `json:"user_id,omitempty" jsonschema:"owner of the campaign; defaults to default"`
	CampaignID string   `json:"campaign_id" jsonschema:"campaign identifier (letters, digits, underscore)"`
	Spells     []string `json:"spells" jsonschema:"the new prepared list; replaces the old one"`
}

// PrepareSpellsResult is the output of prepare_spells
type PrepareSpellsResult struct {
	Prepared []string `json:"prepared"`
	Unknown  []string `json:"unknown,omitempty"`
}

// SpellSlotsResult is the output of get_spell_slots
type SpellSlotsResult struct {
	Caster        bool            `json:"caster"`
	Ability       string          `json:"ability,omitempty"`
	Slots         []SpellSlotView `json:"slots"`
	Prepared      []string        `json:"prepared,omitempty"`
	Concentration string          `json:"concentration,omitempty"`
	PactMagic     bool            `json:"pact_magic,omitempty"`
}

// RestInput is the input of rest
type RestInput struct {
	UserID     string `json:"user_id,omitempty" jsonschema:"owner of the campaign; defaults to default"`
	CampaignID string `json:"campaign_id" jsonschema:"campaign identifier (letters, digits, underscore)"`
	RestType   string `json:"rest_type" jsonschema:"short or long"`
}

// RestResult is the output of rest
type RestResult struct {
	Summary   engine.RestSummary `json:"summary"`
	Character CharacterView      `json:"character"`
}

// UseHitDiceInput is the input of use_hit_dice
type UseHitDiceInput struct {
	UserID     string `json:"user_id,omitempty" jsonschema:"owner of the campaign; defaults to default"`
	CampaignID string `json:"campaign_id" jsonschema:"campaign identifier (letters, digits, underscore)"`
	Count      int    `json:"count,omitempty" jsonschema:"hit dice to spend; defaults to 1"`
}

// UseHitDiceResult is the output of use_hit_dice
type UseHitDiceResult struct {
	Rolls     []int `json:"rolls"`
	Healed    int   `json:"healed"`
	CurrentHP int   `json:"current_hp"`
	MaxHP     int   `json:"max_hp"`
	Remaining int   `json:"remaining"`
}

// ManageConditionsInput is the input of manage_conditions
type ManageConditionsInput struct {
	UserID     string `json:"user_id,omitempty" jsonschema:"owner of the campaign; defaults to default"`
	CampaignID string `json:"campaign_id" jsonschema:"campaign identifier (letters, digits, underscore)"`
	Action     string `json:"action" jsonschema:"apply, remove or check"`
	Condition  string `json:"condition,omitempty" jsonschema:"condition name; may be empty for check"`
	Duration   int    `json:"duration,omitempty" jsonschema:"rounds until it expires; 0 never expires"`
	Levels     int    `json:"levels,omitempty" jsonschema:"exhaustion levels to add or remove"`
	TargetID   string `json:"target_id,omitempty" jsonschema:"encounter participant id; empty means the player character"`
}

// ManageConditionsResult is the output of manage_conditions
type ManageConditionsResult struct {
	TargetID           string               `json:"target_id"`
	Action             string               `json:"action"`
	Condition          string               `json:"condition,omitempty"`
	Present            bool                 `json:"present"`
	Changed            bool                 `json:"changed"`
	Conditions         []entities.Condition `json:"conditions"`
	EndedConcentration string               `json:"ended_concentration,omitempty"`
}

// UseFeatureInput is the input of use_feature
type UseFeatureInput struct {
	UserID      string `json:"user_id,omitempty" jsonschema:"owner of the campaign; defaults to default"`
	CampaignID  string `json:"campaign_id" jsonschema:"campaign identifier (letters, digits, underscore)"`
	FeatureName string `json:"feature_name" jsonschema:"class feature name, e.g. Second Wind"`
}

// UseFeatureResult is the output of use_feature
type UseFeatureResult struct {
	Feature entities.Feature `json:"feature"`
}

func (s *Server) registerResourceTools() {
	addTool(s.server, "get_inventory",
		"Returns items, equipped slots, gold and carry capacity without changing them",
		s.getInventory)
	addTool(s.server, "add_item",
		"Adds items to the inventory, stacking onto existing ones",
		s.addItem)
	addTool(s.server, "remove_item",
		"Removes items from the inventory, unequipping the last copy",
		s.removeItem)
	addTool(s.server, "equip_item",
		"Equips an owned item into a slot and recomputes armor class",
		s.equipItem)
	addTool(s.server, "unequip_item",
		"Empties an equipment slot and recomputes armor class",
		s.unequipItem)
	addTool(s.server, "add_gold",
		"Adds gold pieces",
		s.addGold)
	addTool(s.server, "remove_gold",
		"Spends gold pieces; fails when the balance is too low",
		s.removeGold)
	addTool(s.server, "cast_spell",
		"Casts a spell, spending the lowest available slot at or above the cast level",
		s.castSpell)
	addTool(s.server, "prepare_spells",
		"Replaces the prepared spell list",
		s.prepareSpells)
	addTool(s.server, "get_spell_slots",
		"Returns spell slots, prepared spells and concentration",
		s.getSpellSlots)
	addTool(s.server, "rest",
		"Takes a short or long rest",
		s.rest)
	addTool(s.server, "use_hit_dice",
		"Spends hit dice to heal during a short rest",
		s.useHitDice)
	addTool(s.server, "manage_conditions",
		"Applies, removes or checks a condition on the character or an encounter participant",
		s.manageConditions)
	addTool(s.server, "use_feature",
		"Spends one use of a limited class feature",
		s.useFeature)
}

func (s *Server) getInventory(ctx context.Context, in CampaignInput) (GetInventoryResult, error) {
	out, err := s.resources.GetInventory(ctx, &resources.GetInventoryInput{Ref: campaignRef(in.UserID, in.CampaignID)})
	if err != nil {
		return GetInventoryResult{}, err
	}
	return GetInventoryResult{Inventory: inventoryView(out.Inventory)}, nil
}

func (s *Server) addItem(ctx context.Context, in ItemInput) (AddItemResult, error) {
	out, err := s.resources.AddItem(ctx, &resources.AddItemInput{
		Ref:      campaignRef(in.UserID, in.CampaignID),
		Name:     in.ItemName,
		Quantity: in.Quantity,
	})
	if err != nil {
		return AddItemResult{}, err
	}

	inv := inventoryView(out.Inventory)
	item := ItemView{ID: out.Item.ID, Name: out.Item.Name, Quantity: out.Item.Quantity, Kind: string(out.Item.Kind)}
	for _, iv := range inv.Items {
		if iv.ID == out.Item.ID {
			item = iv
			break
		}
	}
	return AddItemResult{Item: item, Source: out.Source, Inventory: inv}, nil
}

func (s *Server) removeItem(ctx context.Context, in ItemInput) (RemoveItemResult, error) {
	out, err := s.resources.RemoveItem(ctx, &resources.RemoveItemInput{
		Ref:      campaignRef(in.UserID, in.CampaignID),
		Name:     in.ItemName,
		Quantity: in.Quantity,
	})
	if err != nil {
		return RemoveItemResult{}, err
	}
	return RemoveItemResult{
		ItemID:     out.ItemID,
		Removed:    out.Removed,
		Remaining:  out.Remaining,
		Unequipped: string(out.Unequipped),
		AC:         out.AC,
		Inventory:  inventoryView(out.Inventory),
	}, nil
}

func (s *Server) equipItem(ctx context.Context, in EquipItemInput) (EquipItemResult, error) {
	out, err := s.resources.Equip(ctx, &resources.EquipInput{
		Ref:     campaignRef(in.UserID, in.CampaignID),
		Item:    in.ItemName,
		Slot:    in.Slot,
		Replace: in.Replace,
	})
	if err != nil {
		return EquipItemResult{}, err
	}
	return EquipItemResult{
		Slot:     string(out.Slot),
		ItemID:   out.ItemID,
		Replaced: out.Replaced,
		AC:       out.AC,
	}, nil
}

func (s *Server) unequipItem(ctx context.Context, in UnequipItemInput) (UnequipItemResult, error) {
	out, err := s.resources.Unequip(ctx, &resources.UnequipInput{
		Ref:  campaignRef(in.UserID, in.CampaignID),
		Slot: in.Slot,
	})
	if err != nil {
		return UnequipItemResult{}, err
	}
	return UnequipItemResult{Slot: string(out.Slot), ItemID: out.ItemID, AC: out.AC}, nil
}

func (s *Server) addGold(ctx context.Context, in GoldInput) (GoldResult, error) {
	out, err := s.resources.AddGold(ctx, &resources.GoldInput{
		Ref:    campaignRef(in.UserID, in.CampaignID),
		Amount: in.Amount,
	})
	if err != nil {
		return GoldResult{}, err
	}
	return GoldResult{Previous: out.Previous, Balance: out.Balance}, nil
}

func (s *Server) removeGold(ctx context.Context, in GoldInput) (GoldResult, error) {
	out, err := s.resources.RemoveGold(ctx, &resources.GoldInput{
		Ref:    campaignRef(in.UserID, in.CampaignID),
		Amount: in.Amount,
	})
	if err != nil {
		return GoldResult{}, err
	}
	return GoldResult{Previous: out.Previous, Balance: out.Balance}, nil
}

func (s *Server) castSpell(ctx context.Context, in CastSpellInput) (CastSpellResult, error) {
	out, err := s.resources.CastSpell(ctx, &resources.CastSpellInput{
		Ref:           campaignRef(in.UserID, in.CampaignID),
		Name:          in.SpellName,
		Level:         in.SpellLevel,
		Concentration: in.Concentration,
	})
	if err != nil {
		return CastSpellResult{}, err
	}

	res := CastSpellResult{Spell: out.Spell, Slots: slotViews(out.Slots)}
	if out.Result != nil {
		res.Result = *out.Result
	}
	return res, nil
}

func (s *Server) prepareSpells(ctx context.Context, in PrepareSpellsInput) (PrepareSpellsResult, error) {
	out, err := s.resources.PrepareSpells(ctx, &resources.PrepareSpellsInput{
		Ref:   campaignRef(in.UserID, in.CampaignID),
		Names: in.Spells,
	})
	if err != nil {
		return PrepareSpellsResult{}, err
	}
	return PrepareSpellsResult{Prepared: out.Prepared, Unknown: out.Unknown}, nil
}

func (s *Server) getSpellSlots(ctx context.Context, in CampaignInput) (SpellSlotsResult, error) {
	out, err := s.resources.GetSpellSlots(ctx, &resources.GetSpellSlotsInput{Ref: campaignRef(in.UserID, in.CampaignID)})
	if err != nil {
		return SpellSlotsResult{}, err
	}
	return SpellSlotsResult{
		Caster:        out.Caster,
		Ability:       string(out.Ability),
		Slots:         slotViews(out.Slots),
		Prepared:      out.Prepared,
		Concentration: out.Concentration,
		PactMagic:     out.PactMagic,
	}, nil
}

func (s *Server) rest(ctx context.Context, in RestInput) (RestResult, error) {
	out, err := s.resources.Rest(ctx, &resources.RestInput{
		Ref:  campaignRef(in.UserID, in.CampaignID),
		Kind: in.RestType,
	})
	if err != nil {
		return RestResult{}, err
	}

	res := RestResult{Character: characterView(out.Character)}
	if out.Summary != nil {
		res.Summary = *out.Summary
	}
	return res, nil
}

func (s *Server) useHitDice(ctx context.Context, in UseHitDiceInput) (UseHitDiceResult, error) {
	out, err := s.resources.UseHitDice(ctx, &resources.UseHitDiceInput{
		Ref:   campaignRef(in.UserID, in.CampaignID),
		Count: in.Count,
	})
	if err != nil {
		return UseHitDiceResult{}, err
	}
	return UseHitDiceResult{
		Rolls:     out.Rolls,
		Healed:    out.Healed,
		CurrentHP: out.CurrentHP,
		MaxHP:     out.MaxHP,
		Remaining: out.Remaining,
	}, nil
}

func (s *Server) manageConditions(ctx context.Context, in ManageConditionsInput) (ManageConditionsResult, error) {
	out, err := s.resources.ManageConditions(ctx, &resources.ManageConditionsInput{
		Ref:       campaignRef(in.UserID, in.CampaignID),
		Action:    in.Action,
		Condition: in.Condition,
		Duration:  in.Duration,
		Levels:    in.Levels,
		TargetID:  in.TargetID,
	})
	if err != nil {
		return ManageConditionsResult{}, err
	}

	conditions := out.Conditions
	if conditions == nil {
		conditions = []entities.Condition{}
	}
	return ManageConditionsResult{
		TargetID:           out.TargetID,
		Action:             out.Action,
		Condition:          out.Condition,
		Present:            out.Present,
		Changed:            out.Changed,
		Conditions:         conditions,
		EndedConcentration: out.EndedConcentration,
	}, nil
}

func (s *Server) useFeature(ctx context.Context, in UseFeatureInput) (UseFeatureResult, error) {
	out, err := s.resources.UseFeature(ctx, &resources.UseFeatureInput{
		Ref:  campaignRef(in.UserID, in.CampaignID),
		Name: in.FeatureName,
	})
	if err != nil {
		return UseFeatureResult{}, err
	}
	return UseFeatureResult{Feature: out.Feature}, nil
}
