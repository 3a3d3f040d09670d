// Package store holds the in-memory consent record store and context
// registry. It is the source of truth during a session; the service layer
// seeds it from durable storage and persists snapshots back.
package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"consentd/internal/consent/models"
	"consentd/pkg/dates"
)

// Registry maps context id to context metadata plus consents-by-purpose.
// Context ids are never reused: once generated, an id is stable for the
// lifetime of the record. Records are mutated in place and never deleted.
type Registry struct {
	mu         sync.RWMutex
	contexts   map[string]*models.Context
	dateLayout string

	// defaultContextID is minted at construction; the context itself is
	// created lazily on the first consent declared without a context.
	defaultContextID string

	idGen func() string
}

// Option configures a Registry.
type Option func(*Registry)

// WithIDGenerator overrides the context id generator (tests use this to get
// deterministic ids).
func WithIDGenerator(gen func() string) Option {
	return func(r *Registry) {
		if gen != nil {
			r.idGen = gen
		}
	}
}

// New constructs an empty Registry using the given date layout for expiry
// input parsing.
func New(dateLayout string, opts ...Option) *Registry {
	r := &Registry{
		contexts:   make(map[string]*models.Context),
		dateLayout: dateLayout,
		idGen:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.defaultContextID = r.idGen()
	return r
}

// DefaultContextID returns the id reserved for consents declared without an
// explicit context.
func (r *Registry) DefaultContextID() string {
	return r.defaultContextID
}

// AddContext registers a collection context. When fields carry a context id
// that already exists, the new fields are shallow-merged over the existing
// record and its consents map is preserved. A missing id is generated.
// Returns the resolved id.
func (r *Registry) AddContext(fields models.ContextFields) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := fields.ContextID
	if id == "" {
		id = r.idGen()
	}
	existing, ok := r.contexts[id]
	if !ok {
		existing = &models.Context{ID: id, Consents: make(map[string]*models.Consent)}
		r.contexts[id] = existing
	}
	mergeContextFields(existing, fields)
	return id
}

// UpdateContext shallow-merges fields into an existing context, excluding the
// consents sub-map. No-op when the context does not exist or fields is empty.
func (r *Registry) UpdateContext(id string, fields models.ContextFields) {
	if fields.Empty() {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.contexts[id]
	if !ok {
		return
	}
	mergeContextFields(existing, fields)
}

func mergeContextFields(dst *models.Context, fields models.ContextFields) {
	if fields.Brand != "" {
		dst.Brand = fields.Brand
	}
	if fields.DomainName != "" {
		dst.DomainName = fields.DomainName
	}
	if fields.CollectionType != "" {
		dst.CollectionType = fields.CollectionType
	}
	if fields.CollectionPointID != "" {
		dst.CollectionPointID = fields.CollectionPointID
	}
}

// AddConsents declares consent records. Each entry resolves its target context
// from the fields, falling back to the default context. Existing records are
// merged over (unspecified fields preserved, status kept unless a valid one is
// supplied); new records get a validated status defaulting to notgiven, the
// canonical purpose key, and the caller identifier. Declaration does not mark
// records as updated: it is an initial statement, not a change requiring
// re-sync priority.
func (r *Registry) AddConsents(batch map[string]models.ConsentFields, identifier, defaultIssuer string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for purpose, fields := range batch {
		key := models.CanonicalPurpose(purpose)
		if key == "" {
			continue
		}
		ctx := r.resolveContextLocked(fields.ContextID)

		if existing, ok := ctx.Consents[key]; ok {
			mergeConsentFields(existing, fields, r.dateLayout)
			continue
		}

		status, _ := models.ParseStatus(fields.Status)
		expiry, err := dates.Parse(fields.ExpiryDate, r.dateLayout)
		if err != nil {
			expiry = time.Time{}
		}
		issuer := fields.Issuer
		if issuer == "" {
			issuer = defaultIssuer
		}
		ctx.Consents[key] = &models.Consent{
			Purpose:     key,
			Description: fields.Description,
			Datatype:    fields.Datatype,
			Status:      status,
			ExpiryDate:  expiry,
			Issuer:      issuer,
			Identifier:  identifier,
			ContextID:   ctx.ID,
		}
	}
}

// UpdateConsent mutates existing consent records in the given context and
// marks them as updated for the next sync round. No-op when the context does
// not exist; entries with empty fields or no matching purpose are skipped.
func (r *Registry) UpdateConsent(contextID string, batch map[string]models.ConsentFields, identifier string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ctx, ok := r.contexts[contextID]
	if !ok {
		return
	}
	for purpose, fields := range batch {
		if fields.Empty() {
			continue
		}
		existing, ok := ctx.Consents[models.CanonicalPurpose(purpose)]
		if !ok {
			continue
		}
		mergeConsentFields(existing, fields, r.dateLayout)
		if identifier != "" {
			existing.Identifier = identifier
		}
		existing.Updated = true
	}
}

// mergeConsentFields overlays specified fields onto an existing record.
// Invalid status falls back to the current status; invalid or empty expiry
// input falls back to the current expiry.
func mergeConsentFields(dst *models.Consent, fields models.ConsentFields, layout string) {
	if fields.Description != "" {
		dst.Description = fields.Description
	}
	if fields.Datatype != "" {
		dst.Datatype = fields.Datatype
	}
	if fields.Issuer != "" {
		dst.Issuer = fields.Issuer
	}
	if status, ok := models.ParseStatus(fields.Status); ok {
		dst.Status = status
	}
	if expiry, err := dates.Parse(fields.ExpiryDate, layout); err == nil {
		dst.ExpiryDate = expiry
	}
}

// resolveContextLocked returns the context for the given id, creating it (or
// the default context) on first reference. Callers hold the write lock.
func (r *Registry) resolveContextLocked(id string) *models.Context {
	if id == "" {
		id = r.defaultContextID
	}
	ctx, ok := r.contexts[id]
	if !ok {
		ctx = &models.Context{ID: id, Consents: make(map[string]*models.Consent)}
		r.contexts[id] = ctx
	}
	return ctx
}

// Consents returns all records flattened by canonical purpose across contexts.
func (r *Registry) Consents() map[string]models.Consent {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]models.Consent)
	for _, ctx := range r.contexts {
		for purpose, consent := range ctx.Consents {
			out[purpose] = *consent
		}
	}
	return out
}

// Contexts returns copies of all registered contexts.
func (r *Registry) Contexts() []models.Context {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Context, 0, len(r.contexts))
	for _, ctx := range r.contexts {
		out = append(out, *ctx.Clone())
	}
	return out
}

// Expired returns records that are logically expired at the given instant.
func (r *Registry) Expired(now time.Time) map[string]models.Consent {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]models.Consent)
	for _, ctx := range r.contexts {
		for purpose, consent := range ctx.Consents {
			if consent.ExpiredAt(now) {
				out[purpose] = *consent
			}
		}
	}
	return out
}

// ExpiryDate looks up the expiry of the first record matching the canonical
// purpose across contexts. The boolean reports whether a record was found.
func (r *Registry) ExpiryDate(purpose string) (time.Time, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := models.CanonicalPurpose(purpose)
	for _, ctx := range r.contexts {
		if consent, ok := ctx.Consents[key]; ok {
			return consent.ExpiryDate, true
		}
	}
	return time.Time{}, false
}

// ExpireDue flips records with status given and an expiry strictly in the
// past to expired, marking them updated. Returns how many records flipped.
func (r *Registry) ExpireDue(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	flipped := 0
	for _, ctx := range r.contexts {
		for _, consent := range ctx.Consents {
			if consent.Status == models.StatusGiven && !consent.ExpiryDate.IsZero() && consent.ExpiryDate.Before(now) {
				consent.Status = models.StatusExpired
				consent.Updated = true
				flipped++
			}
		}
	}
	return flipped
}

// Snapshot deep-copies the full registry state for persistence and dispatch.
// One snapshot per sync round keeps the persisted blob and the dispatched
// partition coherent.
func (r *Registry) Snapshot() map[string]*models.Context {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]*models.Context, len(r.contexts))
	for id, ctx := range r.contexts {
		out[id] = ctx.Clone()
	}
	return out
}

// Restore replaces the registry contents, seeding from durable storage.
func (r *Registry) Restore(contexts map[string]*models.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.contexts = make(map[string]*models.Context, len(contexts))
	for id, ctx := range contexts {
		r.contexts[id] = ctx.Clone()
	}
}

// Empty reports whether no context holds any record.
func (r *Registry) Empty() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.contexts) == 0
}

// ClearUpdated resets every change-tracking flag. Called after a sync round
// that dispatched the changed partition, regardless of outcome.
func (r *Registry) ClearUpdated() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ctx := range r.contexts {
		for _, consent := range ctx.Consents {
			consent.Updated = false
		}
	}
}
