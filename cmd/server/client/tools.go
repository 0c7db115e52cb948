package client

import (
	"context"
	"encoding/json"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/KirkDiggler/dnd-mcp/internal/errors"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools the server exposes",
	RunE:  listTools,
}

var callCmd = &cobra.Command{
	Use:   "call [tool] [json-arguments]",
	Short: "Call one tool with JSON arguments",
	Long: `Call a tool and print its structured result. Examples:

  call get_character '{"campaign_id":"lost_mine"}'
  call lookup_monster '{"name":"Goblin"}'`,
	Args: cobra.RangeArgs(1, 2),
	RunE: callToolCmd,
}

func listTools(_ *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	session, cleanup, err := connect(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	res, err := session.ListTools(ctx, &mcpsdk.ListToolsParams{})
	if err != nil {
		return errors.Wrap(err, "failed to list tools")
	}

	fmt.Printf("Available tools (%d):\n", len(res.Tools))
	fmt.Printf("=====================\n")
	for _, tool := range res.Tools {
		fmt.Printf("  %-26s %s\n", tool.Name, tool.Description)
	}
	return nil
}

func callToolCmd(_ *cobra.Command, args []string) error {
	name := args[0]
	arguments := map[string]any{}
	if len(args) == 2 {
		if err := json.Unmarshal([]byte(args[1]), &arguments); err != nil {
			return errors.InvalidArgumentf("arguments are not a JSON object: %v", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	session, cleanup, err := connect(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	out, err := callTool(ctx, session, name, arguments)
	if err != nil {
		return err
	}
	return printJSON(out)
}
