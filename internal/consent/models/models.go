package models

import (
	"strings"
	"time"
)

// Status enumerates the lifecycle states of a consent record.
//
// Invariant: a persisted status is always one of these four values; unknown
// input defaults to StatusNotGiven at trust boundaries.
type Status string

const (
	StatusGiven    Status = "given"
	StatusRefused  Status = "refused"
	StatusNotGiven Status = "notgiven"
	StatusExpired  Status = "expired"
)

var validStatuses = map[Status]bool{
	StatusGiven:    true,
	StatusRefused:  true,
	StatusNotGiven: true,
	StatusExpired:  true,
}

// IsValid checks if the status is one of the supported enum values.
func (s Status) IsValid() bool {
	return validStatuses[s]
}

// ParseStatus constructs a Status from external input. Unknown or empty input
// yields (StatusNotGiven, false) so callers can decide between defaulting and
// preserving a prior value.
func ParseStatus(s string) (Status, bool) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if st.IsValid() {
		return st, true
	}
	return StatusNotGiven, false
}

// CanonicalPurpose normalizes a purpose key so "Marketing Email",
// "marketing-email" and "MARKETING_EMAIL" all resolve to the same record.
// Purposes are stored under their canonical form.
func CanonicalPurpose(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}

// Consent is a single purpose-scoped permission record.
type Consent struct {
	// Purpose is the canonical key identifying what this decision governs,
	// unique within its owning context.
	Purpose     string `json:"purpose"`
	Description string `json:"description,omitempty"`
	Datatype    string `json:"datatype,omitempty"`
	Status      Status `json:"status"`
	// ExpiryDate is zero when the consent never expires.
	ExpiryDate time.Time `json:"expiry_date,omitzero"`
	Issuer     string    `json:"issuer,omitempty"`
	// Identifier is the session/user identifier current when the record was
	// last declared or reloaded. Not trusted from storage.
	Identifier string `json:"identifier,omitempty"`
	// ContextID back-references the owning Context; it always equals the key
	// of the registry entry that contains this record.
	ContextID string `json:"context_id"`

	// Updated tracks whether the record changed since the last sync round.
	// Transient: never persisted, cleared after the changed subset ships.
	Updated bool `json:"-"`
}

// ExpiredAt reports whether the consent is logically expired at the given
// instant: either already flipped, or still "given" past its expiry date.
func (c Consent) ExpiredAt(now time.Time) bool {
	if c.Status == StatusExpired {
		return true
	}
	return c.Status == StatusGiven && !c.ExpiryDate.IsZero() && c.ExpiryDate.Before(now)
}

// Context is a named collection scope to which consent decisions attach.
type Context struct {
	ID                string `json:"context_id"`
	Brand             string `json:"brand,omitempty"`
	DomainName        string `json:"domain_name,omitempty"`
	CollectionType    string `json:"collection_type,omitempty"`
	CollectionPointID string `json:"collection_point_id,omitempty"`
	// Consents maps canonical purpose to the record for that purpose.
	Consents map[string]*Consent `json:"consents"`
}

// Clone deep-copies the context and its consents.
func (c *Context) Clone() *Context {
	out := *c
	out.Consents = make(map[string]*Consent, len(c.Consents))
	for purpose, consent := range c.Consents {
		cp := *consent
		out.Consents[purpose] = &cp
	}
	return &out
}
