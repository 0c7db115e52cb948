// Package keyspace derives the canonical storage key for every campaign
// record: {prefix}:user:{user_id}:campaign:{campaign_id}:{kind}.
package keyspace

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/KirkDiggler/dnd-mcp/internal/errors"
)

// Kind names one of the records owned by a campaign
type Kind string

// Record kinds
const (
	KindCharacter  Kind = "character"
	KindEncounter  Kind = "encounter"
	KindSessionLog Kind = "session_log"
	KindInventory  Kind = "inventory"
)

// AllKinds lists every record a campaign can own
var AllKinds = []Kind{KindCharacter, KindEncounter, KindSessionLog, KindInventory}

const (
	// DefaultUserID is used when the caller omits user_id
	DefaultUserID = "default"
	// ReservedCampaignID may not be used against a shared backend
	ReservedCampaignID = "default"
)

var safeID = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Ref identifies a campaign
type Ref struct {
	UserID     string `json:"user_id,omitempty"`
	CampaignID string `json:"campaign_id"`
}

// String renders the ref for logs
func (r Ref) String() string {
	return fmt.Sprintf("%s/%s", r.userOrDefault(), r.CampaignID)
}

func (r Ref) userOrDefault() string {
	if strings.TrimSpace(r.UserID) == "" {
		return DefaultUserID
	}
	return r.UserID
}

// Config configures a Resolver
type Config struct {
	Prefix string
	// Distributed is set when the backend is shared between processes
	Distributed bool
}

// Validate validates the config
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("Prefix", c.Prefix, vb)
	if strings.Contains(c.Prefix, "*") {
		vb.InvalidField("Prefix", "must not contain wildcards")
	}
	return vb.Build()
}

// Resolver maps campaign refs to storage keys
type Resolver struct {
	prefix      string
	distributed bool
}

// NewResolver creates a resolver
func NewResolver(cfg *Config) (*Resolver, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &Resolver{prefix: cfg.Prefix, distributed: cfg.Distributed}, nil
}

// Normalize validates ref and fills in the default user id.
func (r *Resolver) Normalize(ref Ref) (Ref, error) {
	out := Ref{UserID: ref.userOrDefault(), CampaignID: strings.TrimSpace(ref.CampaignID)}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("campaign_id", out.CampaignID, vb)
	errors.ValidatePattern("campaign_id", out.CampaignID, safeID, vb)
	errors.ValidatePattern("user_id", out.UserID, safeID, vb)
	if err := vb.Build(); err != nil {
		return Ref{}, err
	}

	if r.distributed && out.CampaignID == ReservedCampaignID {
		return Ref{}, errors.InvalidArgumentf("campaign_id %q is reserved on a shared backend; supply a unique id", ReservedCampaignID).
			WithReason(errors.ReasonReservedCampaignID).
			WithMeta("field", "campaign_id")
	}
	return out, nil
}

// Resolve returns the canonical key for kind within ref's campaign.
func (r *Resolver) Resolve(ref Ref, kind Kind) (string, error) {
	if !validKind(kind) {
		return "", errors.InvalidArgumentf("unknown record kind %q", kind).WithMeta("field", "kind")
	}
	norm, err := r.Normalize(ref)
	if err != nil {
		return "", err
	}
	return r.CampaignPrefix(norm) + string(kind), nil
}

// CampaignPrefix returns the shared prefix of every key of a normalized ref,
// including the trailing separator.
func (r *Resolver) CampaignPrefix(ref Ref) string {
	return fmt.Sprintf("%s:user:%s:campaign:%s:", r.prefix, ref.userOrDefault(), ref.CampaignID)
}

// NamespacePrefix returns the prefix shared by all keys of this deployment.
func (r *Resolver) NamespacePrefix() string {
	return r.prefix + ":"
}

// LegacySessionKey is where older releases kept session history, outside
// any namespace.
func (r *Resolver) LegacySessionKey(campaignID string) string {
	return "sessions:" + campaignID
}

// Parse splits a canonical key back into its ref and kind.
func (r *Resolver) Parse(key string) (Ref, Kind, error) {
	rest, ok := strings.CutPrefix(key, r.NamespacePrefix())
	if !ok {
		return Ref{}, "", errors.InvalidArgumentf("key %q is outside namespace %q", key, r.prefix)
	}
	parts := strings.Split(rest, ":")
	if len(parts) != 5 || parts[0] != "user" || parts[2] != "campaign" || !validKind(Kind(parts[4])) {
		return Ref{}, "", errors.InvalidArgumentf("key %q is not a campaign key", key)
	}
	return Ref{UserID: parts[1], CampaignID: parts[3]}, Kind(parts[4]), nil
}

func validKind(kind Kind) bool {
	for _, k := range AllKinds {
		if k == kind {
			return true
		}
	}
	return false
}
