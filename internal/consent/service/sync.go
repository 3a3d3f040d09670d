package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"consentd/internal/consent/models"
	"consentd/pkg/dates"
)

// SaveConsents persists the full preference set, then relays exactly one
// partition to the collector: the changed subset when any record was updated
// since the last round, otherwise the full unchanged set. The returned view is
// the dispatched partition keyed by purpose.
//
// Change-tracking flags are cleared after a round that dispatched the changed
// partition even when dispatch failed: the next round starts from a clean
// baseline and a retry resends nothing unless new updates occur.
func (m *Manager) SaveConsents(ctx context.Context) (map[string]models.Consent, error) {
	return m.syncConsents(ctx, false)
}

func (m *Manager) syncConsents(ctx context.Context, silent bool) (map[string]models.Consent, error) {
	snap := m.registry.Snapshot()

	// Best-effort persistence; a storage failure never aborts the remote sync.
	m.persist(ctx, snap)

	changed, unchanged := partition(snap)
	outbound := changed
	if len(outbound) == 0 {
		outbound = unchanged
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, consent := range outbound {
		g.Go(func() error {
			return m.dispatcher.Dispatch(gctx, m.cfg.ConsentTable, m.consentRecord(consent, snap))
		})
	}
	err := g.Wait()

	if len(changed) > 0 {
		m.registry.ClearUpdated()
	}

	if err != nil {
		m.logger.ErrorContext(ctx, "consent sync failed",
			"dispatched", len(outbound),
			"error", err,
		)
		if m.metrics != nil {
			m.metrics.ObserveSyncRound("failure")
		}
		if !silent && m.onSyncFailure != nil {
			m.onSyncFailure(models.SyncFailure{Success: false, Message: err.Error()})
		}
		return nil, err
	}

	view := make(map[string]models.Consent, len(outbound))
	for _, consent := range outbound {
		view[consent.Purpose] = consent
	}

	m.logger.InfoContext(ctx, "consent sync complete",
		"dispatched", len(outbound),
		"delta", len(changed) > 0,
	)
	if m.metrics != nil {
		m.metrics.ObserveSyncRound("success")
	}
	if !silent && m.onSyncSuccess != nil {
		m.onSyncSuccess(view)
	}
	return view, nil
}

// SaveContexts persists preferences, then relays every context's non-consent
// metadata as one record per context. Succeeds only when all dispatches do.
func (m *Manager) SaveContexts(ctx context.Context) error {
	snap := m.registry.Snapshot()
	m.persist(ctx, snap)

	g, gctx := errgroup.WithContext(ctx)
	for _, c := range snap {
		g.Go(func() error {
			return m.dispatcher.Dispatch(gctx, m.cfg.ContextTable, contextRecord(c))
		})
	}
	if err := g.Wait(); err != nil {
		m.logger.ErrorContext(ctx, "context sync failed", "error", err)
		return err
	}
	return nil
}

// partition splits a snapshot's records into changed-since-last-sync and
// unchanged. No relative ordering is guaranteed; only the aggregate outcome
// of a round matters.
func partition(snap map[string]*models.Context) (changed, unchanged []models.Consent) {
	for _, ctx := range snap {
		for _, consent := range ctx.Consents {
			if consent.Updated {
				changed = append(changed, *consent)
			} else {
				unchanged = append(unchanged, *consent)
			}
		}
	}
	return changed, unchanged
}

// consentRecord builds the outbound envelope: the record's own fields plus
// linkage metadata resolved from the owning context.
func (m *Manager) consentRecord(c models.Consent, snap map[string]*models.Context) map[string]any {
	record := map[string]any{
		"purpose":     c.Purpose,
		"status":      string(c.Status),
		"expiry_date": dates.Format(c.ExpiryDate, m.cfg.DateLayout),
		"description": c.Description,
		"datatype":    c.Datatype,
		"issuer":      c.Issuer,
		"identifier":  c.Identifier,
		"context_id":  c.ContextID,
	}
	if owner, ok := snap[c.ContextID]; ok {
		record["brand"] = owner.Brand
		record["domain_name"] = owner.DomainName
		record["collection_type"] = owner.CollectionType
		record["collection_point_id"] = owner.CollectionPointID
	}
	return record
}

func contextRecord(c *models.Context) map[string]any {
	return map[string]any{
		"context_id":          c.ID,
		"brand":               c.Brand,
		"domain_name":         c.DomainName,
		"collection_type":     c.CollectionType,
		"collection_point_id": c.CollectionPointID,
	}
}
