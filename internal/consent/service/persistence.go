package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"consentd/internal/consent/models"
	"consentd/pkg/dates"
	"consentd/pkg/platform/sentinel"
)

// Only caller-visible fields are persisted. The transient change-tracking
// flag is stripped, expiry dates are rendered under the configured layout for
// stability across readers, and identifiers are re-attached on load because a
// session identifier can change between launches.
type storedConsent struct {
	Purpose     string        `json:"purpose"`
	Description string        `json:"description,omitempty"`
	Datatype    string        `json:"datatype,omitempty"`
	Status      models.Status `json:"status"`
	ExpiryDate  string        `json:"expiry_date,omitempty"`
	Issuer      string        `json:"issuer,omitempty"`
	ContextID   string        `json:"context_id"`
}

type storedContext struct {
	ID                string                   `json:"context_id"`
	Brand             string                   `json:"brand,omitempty"`
	DomainName        string                   `json:"domain_name,omitempty"`
	CollectionType    string                   `json:"collection_type,omitempty"`
	CollectionPointID string                   `json:"collection_point_id,omitempty"`
	Consents          map[string]storedConsent `json:"consents"`
}

func marshalPreferences(snap map[string]*models.Context, layout string) (string, error) {
	out := make(map[string]storedContext, len(snap))
	for id, ctx := range snap {
		sc := storedContext{
			ID:                ctx.ID,
			Brand:             ctx.Brand,
			DomainName:        ctx.DomainName,
			CollectionType:    ctx.CollectionType,
			CollectionPointID: ctx.CollectionPointID,
			Consents:          make(map[string]storedConsent, len(ctx.Consents)),
		}
		for purpose, consent := range ctx.Consents {
			sc.Consents[purpose] = storedConsent{
				Purpose:     consent.Purpose,
				Description: consent.Description,
				Datatype:    consent.Datatype,
				Status:      consent.Status,
				ExpiryDate:  dates.Format(consent.ExpiryDate, layout),
				Issuer:      consent.Issuer,
				ContextID:   consent.ContextID,
			}
		}
		out[id] = sc
	}
	blob, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("encode preferences: %w", err)
	}
	return string(blob), nil
}

func unmarshalPreferences(blob, layout, identifier string) (map[string]*models.Context, error) {
	var stored map[string]storedContext
	if err := json.Unmarshal([]byte(blob), &stored); err != nil {
		return nil, fmt.Errorf("decode preferences: %w", err)
	}

	out := make(map[string]*models.Context, len(stored))
	for id, sc := range stored {
		ctx := &models.Context{
			ID:                sc.ID,
			Brand:             sc.Brand,
			DomainName:        sc.DomainName,
			CollectionType:    sc.CollectionType,
			CollectionPointID: sc.CollectionPointID,
			Consents:          make(map[string]*models.Consent, len(sc.Consents)),
		}
		if ctx.ID == "" {
			ctx.ID = id
		}
		for purpose, c := range sc.Consents {
			status := c.Status
			if !status.IsValid() {
				status = models.StatusNotGiven
			}
			consent := &models.Consent{
				Purpose:     c.Purpose,
				Description: c.Description,
				Datatype:    c.Datatype,
				Status:      status,
				Issuer:      c.Issuer,
				Identifier:  identifier,
				ContextID:   ctx.ID,
			}
			if expiry, err := dates.Parse(c.ExpiryDate, layout); err == nil {
				consent.ExpiryDate = expiry
			}
			if consent.Purpose == "" {
				consent.Purpose = purpose
			}
			ctx.Consents[purpose] = consent
		}
		out[id] = ctx
	}
	return out, nil
}

// persist writes the snapshot to durable storage. Unavailable storage is a
// skip, not an error: the manager degrades to in-memory-only operation.
func (m *Manager) persist(ctx context.Context, snap map[string]*models.Context) {
	if !m.storage.Available(ctx) {
		m.logger.DebugContext(ctx, "storage unavailable, skipping persist")
		return
	}
	blob, err := marshalPreferences(snap, m.cfg.DateLayout)
	if err != nil {
		m.logger.WarnContext(ctx, "could not serialize preferences", "error", err)
		return
	}
	if err := m.storage.Set(ctx, m.cfg.StorageKey, blob); err != nil {
		m.logger.WarnContext(ctx, "could not persist preferences", "error", err)
	}
}

// load seeds the registry from the durable blob. Missing blobs and
// unavailable storage mean "no prior preferences".
func (m *Manager) load(ctx context.Context) error {
	if !m.storage.Available(ctx) {
		return nil
	}
	blob, err := m.storage.Get(ctx, m.cfg.StorageKey)
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return nil
	case errors.Is(err, sentinel.ErrUnavailable):
		m.logger.DebugContext(ctx, "storage unavailable during load")
		return nil
	case err != nil:
		return err
	}
	if blob == "" {
		return nil
	}
	contexts, err := unmarshalPreferences(blob, m.cfg.DateLayout, m.sessionID)
	if err != nil {
		return err
	}
	m.registry.Restore(contexts)
	return nil
}

// reloadIfEmpty covers queries that arrive before any mutation: an empty
// registry falls back to whatever storage holds.
func (m *Manager) reloadIfEmpty(ctx context.Context) {
	if !m.registry.Empty() {
		return
	}
	if err := m.load(ctx); err != nil {
		m.logger.WarnContext(ctx, "could not reload preferences", "error", err)
	}
}
