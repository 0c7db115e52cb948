package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	mcphandler "github.com/KirkDiggler/dnd-mcp/internal/handlers/mcp"
)

var (
	rollAdvantage    bool
	rollDisadvantage bool
)

var rollDiceCmd = &cobra.Command{
	Use:   "roll-dice [notation] [description]",
	Short: "Roll dice using dice notation",
	Long: `Roll dice and see individual results. Examples:

  roll-dice 4d6 ability-scores
  roll-dice 1d20+5 attack --advantage
  roll-dice 2d8 damage`,
	Args: cobra.RangeArgs(1, 2),
	RunE: rollDice,
}

func init() {
	rollDiceCmd.Flags().BoolVar(&rollAdvantage, "advantage", false, "roll a d20 with advantage")
	rollDiceCmd.Flags().BoolVar(&rollDisadvantage, "disadvantage", false, "roll a d20 with disadvantage")
}

func rollDice(_ *cobra.Command, args []string) error {
	arguments := map[string]any{
		"notation":     args[0],
		"advantage":    rollAdvantage,
		"disadvantage": rollDisadvantage,
	}
	if len(args) == 2 {
		arguments["description"] = args[1]
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	session, cleanup, err := connect(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	fmt.Printf("Rolling %s...\n", args[0])

	out, err := callTool(ctx, session, "roll_dice", arguments)
	if err != nil {
		return fmt.Errorf("failed to roll dice: %w", err)
	}

	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("failed to decode roll: %w", err)
	}
	var result mcphandler.RollDiceResult
	if err := json.Unmarshal(data, &result); err != nil {
		return fmt.Errorf("failed to decode roll: %w", err)
	}
	if result.Roll == nil || result.Roll.Result == nil {
		return fmt.Errorf("server returned no roll")
	}

	roll := result.Roll
	fmt.Printf("\n🎲 Dice Roll Results:\n")
	fmt.Printf("===================\n")
	fmt.Printf("  Roll ID: %s\n", roll.RollID)
	fmt.Printf("  Notation: %s\n", roll.Result.Notation)
	fmt.Printf("  Individual Dice: %v\n", roll.Result.Rolls)
	if len(roll.Result.Dropped) > 0 {
		fmt.Printf("  Dropped: %v\n", roll.Result.Dropped)
	}
	fmt.Printf("  Total: %d\n", roll.Result.Total)
	if roll.Description != "" {
		fmt.Printf("  Description: %s\n", roll.Description)
	}
	return nil
}
