package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/dnd-mcp/internal/entities"
	"github.com/KirkDiggler/dnd-mcp/internal/errors"
	"github.com/KirkDiggler/dnd-mcp/internal/keyspace"
	"github.com/KirkDiggler/dnd-mcp/internal/pkg/clock"
	"github.com/KirkDiggler/dnd-mcp/internal/storage"
)

const legacySessionPrefix = "sessions:"

var (
	keysCampaign string
	keysUser     string
	keysDelete   bool
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Inspect and repair stored campaign data",
}

var keysListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored keys, optionally for one campaign",
	RunE:  runKeysList,
}

var keysCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Find records that no longer decode",
	Long: `Scan every key in the namespace and decode it as its record kind.
Records that fail are reported; --delete removes them.`,
	RunE: runKeysCheck,
}

func init() {
	keysListCmd.Flags().StringVar(&keysCampaign, "campaign", "", "only list keys of this campaign")
	keysListCmd.Flags().StringVar(&keysUser, "user", "", "user owning --campaign")
	keysCheckCmd.Flags().BoolVar(&keysDelete, "delete", false, "delete corrupted records")

	keysCmd.AddCommand(keysListCmd)
	keysCmd.AddCommand(keysCheckCmd)
}

func openScanner(cmd *cobra.Command) (*storeDeps, storage.Scanner, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	setupLogging(cfg)

	deps, err := openStore(cmd.Context(), cfg, clock.New())
	if err != nil {
		return nil, nil, err
	}
	scanner, ok := deps.store.(storage.Scanner)
	if !ok {
		_ = deps.store.Close()
		return nil, nil, errors.Unimplemented("backend cannot list keys").WithMeta("backend", cfg.Storage.Backend)
	}
	return deps, scanner, nil
}

func runKeysList(cmd *cobra.Command, _ []string) error {
	deps, scanner, err := openScanner(cmd)
	if err != nil {
		return err
	}
	defer deps.store.Close()

	prefix := deps.resolver.NamespacePrefix()
	if keysCampaign != "" {
		ref, err := deps.resolver.Normalize(keyspace.Ref{UserID: keysUser, CampaignID: keysCampaign})
		if err != nil {
			return err
		}
		prefix = deps.resolver.CampaignPrefix(ref)
	}

	keys, err := scanner.Keys(cmd.Context(), prefix)
	if err != nil {
		return err
	}
	sort.Strings(keys)

	out := cmd.OutOrStdout()
	for _, key := range keys {
		fmt.Fprintln(out, key)
	}
	fmt.Fprintf(out, "%d keys\n", len(keys))
	return nil
}

func runKeysCheck(cmd *cobra.Command, _ []string) error {
	deps, scanner, err := openScanner(cmd)
	if err != nil {
		return err
	}
	defer deps.store.Close()

	ctx := cmd.Context()
	report, err := checkKeys(ctx, deps.store, scanner, deps.resolver)
	if err != nil {
		return err
	}
	report.print(cmd.OutOrStdout())

	if !keysDelete || len(report.Corrupted) == 0 {
		return nil
	}
	for _, key := range report.Corrupted {
		if err := deps.store.Delete(ctx, key); err != nil {
			return errors.Wrapf(err, "failed to delete %s", key)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", key)
	}
	return nil
}

// keyReport is the outcome of a namespace scan
type keyReport struct {
	Checked   int
	Corrupted []string
	// Foreign keys sit in the namespace but are not campaign records
	Foreign []string
	// Legacy session histories are migrated on their next read
	Legacy []string
}

func (r *keyReport) print(w io.Writer) {
	for _, key := range r.Corrupted {
		fmt.Fprintf(w, "corrupted: %s\n", key)
	}
	for _, key := range r.Foreign {
		fmt.Fprintf(w, "unrecognized: %s\n", key)
	}
	for _, key := range r.Legacy {
		fmt.Fprintf(w, "legacy: %s\n", key)
	}
	fmt.Fprintf(w, "checked %d keys, %d corrupted\n", r.Checked, len(r.Corrupted))
}

func checkKeys(ctx context.Context, store storage.Store, scanner storage.Scanner, resolver *keyspace.Resolver) (*keyReport, error) {
	keys, err := scanner.Keys(ctx, resolver.NamespacePrefix())
	if err != nil {
		return nil, errors.Wrap(err, "failed to scan namespace")
	}
	sort.Strings(keys)

	report := &keyReport{}
	for _, key := range keys {
		_, kind, err := resolver.Parse(key)
		if err != nil {
			report.Foreign = append(report.Foreign, key)
			continue
		}
		report.Checked++

		data, err := store.Get(ctx, key)
		if err != nil {
			if errors.IsNotFound(err) {
				// expired between scan and read
				continue
			}
			if errors.IsDataLoss(err) {
				report.Corrupted = append(report.Corrupted, key)
				continue
			}
			return nil, err
		}
		if !decodes(kind, data) {
			report.Corrupted = append(report.Corrupted, key)
		}
	}

	legacy, err := scanner.Keys(ctx, legacySessionPrefix)
	if err != nil {
		return nil, errors.Wrap(err, "failed to scan legacy keys")
	}
	for _, key := range legacy {
		if !strings.HasPrefix(key, resolver.NamespacePrefix()) {
			report.Legacy = append(report.Legacy, key)
		}
	}
	sort.Strings(report.Legacy)

	return report, nil
}

// decodes reports whether data unmarshals into the record type of kind
func decodes(kind keyspace.Kind, data []byte) bool {
	var target any
	switch kind {
	case keyspace.KindCharacter:
		target = &entities.Character{}
	case keyspace.KindEncounter:
		target = &entities.Encounter{}
	case keyspace.KindInventory:
		target = &entities.Inventory{}
	case keyspace.KindSessionLog:
		target = &entities.SessionLog{}
	default:
		return false
	}
	return json.Unmarshal(data, target) == nil
}
