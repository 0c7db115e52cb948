// Package client provides commands that drive the MCP tools from a shell
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/KirkDiggler/dnd-mcp/internal/errors"
	mcphandler "github.com/KirkDiggler/dnd-mcp/internal/handlers/mcp"
)

var (
	// Connection flags
	serverCommand string
	timeout       time.Duration
)

// ClientCmd is the root command for all client commands
var ClientCmd = &cobra.Command{
	Use:   "client",
	Short: "Call the MCP tools from the command line",
	Long: `Client commands start "serve" as a child process and talk MCP to it over
stdio, the same way an assistant would. The child inherits the environment, so
point STORAGE_BACKEND at disk, sqlite or redis to keep state between calls.`,
}

func init() {
	ClientCmd.PersistentFlags().StringVar(&serverCommand, "server-command", "", "server binary; defaults to this executable")
	ClientCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")

	ClientCmd.AddCommand(toolsCmd)
	ClientCmd.AddCommand(callCmd)
	ClientCmd.AddCommand(rollDiceCmd)
}

// connect starts the server and opens a client session to it
func connect(ctx context.Context) (*mcpsdk.ClientSession, func(), error) {
	bin := serverCommand
	if bin == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to locate server binary")
		}
		bin = exe
	}

	cmd := exec.Command(bin, "serve")
	cmd.Stderr = os.Stderr

	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "dnd-mcp-cli", Version: "dev"}, nil)
	session, err := client.Connect(ctx, &mcpsdk.CommandTransport{Command: cmd}, nil)
	if err != nil {
		return nil, nil, errors.Unavailablef("failed to start server: %v", err)
	}

	cleanup := func() {
		_ = session.Close() // nolint:errcheck // safe to ignore in cleanup
	}
	return session, cleanup, nil
}

// callTool runs one tool and returns its structured output. Tool failures
// come back as the structured error they carry.
func callTool(ctx context.Context, session *mcpsdk.ClientSession, name string, args map[string]any) (any, error) {
	res, err := session.CallTool(ctx, &mcpsdk.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to call %s", name)
	}
	if res.IsError {
		return nil, toolFailure(name, res)
	}
	return res.StructuredContent, nil
}

func toolFailure(name string, res *mcpsdk.CallToolResult) error {
	for _, c := range res.Content {
		tc, ok := c.(*mcpsdk.TextContent)
		if !ok {
			continue
		}
		payload, err := mcphandler.ParseToolError(tc.Text)
		if err != nil {
			return errors.Internalf("%s failed: %s", name, tc.Text)
		}
		return errors.New(errors.Code(payload.Code), payload.Message).WithMetaMap(payload.Meta)
	}
	return errors.Internalf("%s failed without a message", name)
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
