package resources

import (
	"context"
	"log/slog"
	"strings"

	"github.com/KirkDiggler/dnd-mcp/internal/engine"
	"github.com/KirkDiggler/dnd-mcp/internal/entities"
	"github.com/KirkDiggler/dnd-mcp/internal/errors"
	"github.com/KirkDiggler/dnd-mcp/internal/keyspace"
	"github.com/KirkDiggler/dnd-mcp/internal/repositories/inventory"
)

const sourceCustom = "custom"

func validateQuantity(name string, quantity int) error {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("item_name", name, vb)
	if strings.TrimSpace(name) != "" && entities.ItemID(name) == "" {
		vb.InvalidField("item_name", "must contain a letter or digit")
	}
	errors.ValidateNonNegative("quantity", quantity, vb)
	return vb.Build()
}

// GetInventory never writes; a missing inventory reads as an empty one
// sized to the character's strength
func (o *orchestrator) GetInventory(ctx context.Context, input *GetInventoryInput) (*GetInventoryOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	c, err := o.loadCharacter(ctx, input.Ref)
	if err != nil {
		return nil, err
	}

	out, err := o.inventoryRepo.Get(ctx, inventory.GetInput{Ref: input.Ref})
	switch {
	case err == nil:
		return &GetInventoryOutput{Inventory: out.Inventory, Stored: true}, nil
	case errors.IsNotFound(err):
		return &GetInventoryOutput{Inventory: entities.NewInventory(engine.CarryCapacity(c.Scores.Strength))}, nil
	default:
		return nil, errors.Wrap(err, "failed to load inventory")
	}
}

// AddItem stacks onto an existing entry or adds a new one
func (o *orchestrator) AddItem(ctx context.Context, input *AddItemInput) (*AddItemOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := validateQuantity(input.Name, input.Quantity); err != nil {
		return nil, err
	}
	quantity := max(1, input.Quantity)

	c, err := o.loadCharacter(ctx, input.Ref)
	if err != nil {
		return nil, err
	}
	inv, err := o.loadInventory(ctx, input.Ref, c)
	if err != nil {
		return nil, err
	}

	source := sourceCustom
	item := entities.Item{
		ID:       entities.ItemID(input.Name),
		Name:     strings.TrimSpace(input.Name),
		Quantity: quantity,
		Kind:     entities.ItemKindGear,
	}
	info, err := o.content.LookupItem(ctx, input.Name)
	switch {
	case err == nil:
		item = info.ToItem(quantity)
		source = info.Source
	case errors.IsNotFound(err):
		slog.DebugContext(ctx, "Item not in content, adding as gear", "item", input.Name)
	default:
		return nil, errors.Wrapf(err, "failed to look up item %q", input.Name)
	}

	if existing, ok := inv.Find(item.ID); ok {
		existing.Quantity += quantity
		item = *existing
	} else {
		inv.Items = append(inv.Items, item)
	}

	if err := o.saveInventory(ctx, input.Ref, inv); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Item added",
		"campaign_id", input.Ref.CampaignID,
		"item_id", item.ID,
		"quantity", quantity,
		"total", item.Quantity,
		"source", source,
	)

	return &AddItemOutput{Item: item, Inventory: inv, Source: source}, nil
}

// RemoveItem drops copies of an item; removing the last equipped copy also
// empties its slot
func (o *orchestrator) RemoveItem(ctx context.Context, input *RemoveItemInput) (*RemoveItemOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := validateQuantity(input.Name, input.Quantity); err != nil {
		return nil, err
	}

	c, err := o.loadCharacter(ctx, input.Ref)
	if err != nil {
		return nil, err
	}
	inv, err := o.loadInventory(ctx, input.Ref, c)
	if err != nil {
		return nil, err
	}

	item, ok := inv.Find(input.Name)
	if !ok {
		return nil, errors.NotFoundf("item %q is not in the inventory", input.Name).
			WithMeta("item", input.Name)
	}

	removed := min(max(1, input.Quantity), item.Quantity)
	item.Quantity -= removed
	out := &RemoveItemOutput{
		ItemID:    item.ID,
		Removed:   removed,
		Remaining: item.Quantity,
		AC:        c.AC,
		Inventory: inv,
	}

	if item.Quantity == 0 {
		slot, equipped := inv.SlotOf(item.ID)
		inv.Remove(item.ID)
		if equipped {
			out.Unequipped = slot
			if err := o.applyDefense(ctx, input.Ref, c, inv, slot); err != nil {
				return nil, err
			}
			out.AC = c.AC
		}
	}

	if err := o.saveInventory(ctx, input.Ref, inv); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Item removed",
		"campaign_id", input.Ref.CampaignID,
		"item_id", out.ItemID,
		"removed", removed,
		"remaining", out.Remaining,
	)

	return out, nil
}

// Equip places an owned item into slot
func (o *orchestrator) Equip(ctx context.Context, input *EquipInput) (*EquipOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	slot, err := parseSlot(input.Slot)
	if err != nil {
		return nil, err
	}

	c, err := o.loadCharacter(ctx, input.Ref)
	if err != nil {
		return nil, err
	}
	inv, err := o.loadInventory(ctx, input.Ref, c)
	if err != nil {
		return nil, err
	}

	item, ok := inv.Find(input.Item)
	if !ok {
		return nil, errors.NotFoundf("item %q is not in the inventory", input.Item).
			WithMeta("item", input.Item)
	}
	if slot == entities.SlotArmor && item.Kind != entities.ItemKindArmor {
		vb := errors.NewValidationBuilder()
		vb.Fieldf("slot", "%s is not armor", item.Name)
		return nil, vb.Build()
	}

	out := &EquipOutput{Slot: slot, ItemID: item.ID, AC: c.AC}
	if current, occupied := inv.Equipped[slot]; occupied && current != item.ID {
		if !input.Replace {
			return nil, errors.InvalidStatef(errors.ReasonSlotOccupied, "%s is already holding %s", slot, current).
				WithMeta("slot", string(slot)).
				WithMeta("item_id", current)
		}
		out.Replaced = current
	}

	defense := slot.AffectsDefense()
	// one copy cannot sit in two slots
	if other, ok := inv.SlotOf(item.ID); ok && other != slot {
		delete(inv.Equipped, other)
		defense = defense || other.AffectsDefense()
	}
	inv.Equipped[slot] = item.ID

	if defense {
		if err := o.applyDefense(ctx, input.Ref, c, inv, entities.SlotArmor); err != nil {
			return nil, err
		}
		out.AC = c.AC
	}

	if err := o.saveInventory(ctx, input.Ref, inv); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Item equipped",
		"campaign_id", input.Ref.CampaignID,
		"item_id", item.ID,
		"slot", out.Slot,
		"replaced", out.Replaced,
		"ac", out.AC,
	)

	return out, nil
}

// Unequip empties slot; the item stays in the inventory
func (o *orchestrator) Unequip(ctx context.Context, input *UnequipInput) (*UnequipOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	slot, err := parseSlot(input.Slot)
	if err != nil {
		return nil, err
	}

	c, err := o.loadCharacter(ctx, input.Ref)
	if err != nil {
		return nil, err
	}
	inv, err := o.loadInventory(ctx, input.Ref, c)
	if err != nil {
		return nil, err
	}

	itemID, ok := inv.Equipped[slot]
	if !ok {
		return nil, errors.NotFoundf("nothing is equipped in %s", slot).
			WithMeta("slot", string(slot))
	}
	delete(inv.Equipped, slot)

	if err := o.applyDefense(ctx, input.Ref, c, inv, slot); err != nil {
		return nil, err
	}
	if err := o.saveInventory(ctx, input.Ref, inv); err != nil {
		return nil, err
	}

	return &UnequipOutput{Slot: slot, ItemID: itemID, AC: c.AC}, nil
}

func parseSlot(s string) (entities.Slot, error) {
	slot, ok := entities.ParseSlot(s)
	if !ok {
		vb := errors.NewValidationBuilder()
		vb.InvalidField("slot", "must be one of main_hand, off_hand, armor")
		return "", vb.Build()
	}
	return slot, nil
}

// applyDefense recalculates AC after slot changed and persists the
// character when the value moved
func (o *orchestrator) applyDefense(ctx context.Context, ref keyspace.Ref, c *entities.Character, inv *entities.Inventory, slot entities.Slot) error {
	if !slot.AffectsDefense() {
		return nil
	}
	previous := c.AC
	if engine.RecalculateAC(c, inv) == previous {
		return nil
	}
	if err := o.saveCharacter(ctx, ref, c); err != nil {
		return err
	}
	return o.syncEncounter(ctx, ref, c)
}

// AddGold increases the balance by a positive amount
func (o *orchestrator) AddGold(ctx context.Context, input *GoldInput) (*GoldOutput, error) {
	return o.changeGold(ctx, input, 1)
}

// RemoveGold decreases the balance, never below zero
func (o *orchestrator) RemoveGold(ctx context.Context, input *GoldInput) (*GoldOutput, error) {
	return o.changeGold(ctx, input, -1)
}

func (o *orchestrator) changeGold(ctx context.Context, input *GoldInput, sign int) (*GoldOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	vb := errors.NewValidationBuilder()
	errors.ValidatePositive("amount", input.Amount, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	c, err := o.loadCharacter(ctx, input.Ref)
	if err != nil {
		return nil, err
	}
	inv, err := o.loadInventory(ctx, input.Ref, c)
	if err != nil {
		return nil, err
	}

	out := &GoldOutput{Previous: inv.Gold}
	if sign < 0 && input.Amount > inv.Gold {
		return nil, errors.InvalidStatef(errors.ReasonInsufficientFunds,
			"cannot remove %d gold from a balance of %d", input.Amount, inv.Gold).
			WithMeta("balance", inv.Gold).
			WithMeta("requested", input.Amount)
	}
	inv.Gold += sign * input.Amount
	out.Balance = inv.Gold

	if err := o.saveInventory(ctx, input.Ref, inv); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Gold updated",
		"campaign_id", input.Ref.CampaignID,
		"previous", out.Previous,
		"balance", out.Balance,
	)

	return out, nil
}
