// Package service orchestrates the consent manager: it seeds the in-memory
// registry from durable storage, reconciles expiry at configure time, applies
// caller mutations, and syncs changed-vs-unchanged record subsets to the
// remote collector.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"consentd/internal/consent/models"
	"consentd/internal/consent/store"
	"consentd/internal/dispatch"
	"consentd/internal/platform/metrics"
	"consentd/internal/storage"
	"consentd/pkg/requestcontext"
)

// Config carries the manager's operating parameters.
type Config struct {
	// StorageKey is the durable storage key holding the preference blob.
	StorageKey string
	// ConsentTable and ContextTable name the remote collector stores.
	ConsentTable string
	ContextTable string
	// Issuer labels records declared without an explicit issuer.
	Issuer string
	// DateLayout renders and parses expiry dates in blobs and records.
	DateLayout string
}

// Manager owns the consent state machine. Construct once at initialization;
// all public operations report failures through return values or the
// configured hooks, never by panicking past the API.
type Manager struct {
	cfg        Config
	registry   *store.Registry
	storage    storage.Adapter
	dispatcher dispatch.Dispatcher
	logger     *slog.Logger
	metrics    *metrics.Metrics

	// sessionID identifies this installation; it is re-attached to records
	// loaded from storage, since persisted identifiers are not trusted.
	sessionID string
	clock     func() time.Time

	onSyncSuccess func(map[string]models.Consent)
	onSyncFailure func(models.SyncFailure)
	onExpired     func(map[string]models.Consent)
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock sets the clock function for testability.
func WithClock(clock func() time.Time) Option {
	return func(m *Manager) {
		if clock != nil {
			m.clock = clock
		}
	}
}

// WithSessionID overrides the generated installation identifier.
func WithSessionID(id string) Option {
	return func(m *Manager) {
		if id != "" {
			m.sessionID = id
		}
	}
}

// OnSyncSuccess registers a hook invoked with the dispatched view after every
// successful consent sync round.
func OnSyncSuccess(fn func(map[string]models.Consent)) Option {
	return func(m *Manager) { m.onSyncSuccess = fn }
}

// OnSyncFailure registers a hook invoked with the structured failure payload
// when a consent sync round fails.
func OnSyncFailure(fn func(models.SyncFailure)) Option {
	return func(m *Manager) { m.onSyncFailure = fn }
}

// OnExpiredConsents registers a hook invoked once after configure-time
// reconciliation with the expired-set snapshot (possibly empty).
func OnExpiredConsents(fn func(map[string]models.Consent)) Option {
	return func(m *Manager) { m.onExpired = fn }
}

// New builds the manager, seeds the registry from storage, and runs expiry
// reconciliation synchronously before returning.
func New(
	cfg Config,
	registry *store.Registry,
	stor storage.Adapter,
	dispatcher dispatch.Dispatcher,
	logger *slog.Logger,
	m *metrics.Metrics,
	opts ...Option,
) *Manager {
	mgr := &Manager{
		cfg:        cfg,
		registry:   registry,
		storage:    stor,
		dispatcher: dispatcher,
		logger:     logger,
		metrics:    m,
		sessionID:  uuid.NewString(),
		clock:      time.Now,
	}
	for _, opt := range opts {
		opt(mgr)
	}

	ctx := context.Background()
	if err := mgr.load(ctx); err != nil {
		mgr.logger.WarnContext(ctx, "could not seed registry from storage", "error", err)
	}
	mgr.reconcileExpiry(ctx)

	return mgr
}

// reconcileExpiry flips given-but-past-expiry records, silently re-syncs when
// anything changed so the durable and remote copies do not drift from memory,
// and notifies the expired-consents hook once.
func (m *Manager) reconcileExpiry(ctx context.Context) {
	now := m.clock()
	flipped := m.registry.ExpireDue(now)
	if flipped > 0 {
		m.logger.InfoContext(ctx, "expired consents reconciled", "count", flipped)
		if m.metrics != nil {
			m.metrics.ConsentsExpired.Add(float64(flipped))
		}
		// Outcome discarded: reconciliation must not fail initialization.
		if _, err := m.syncConsents(ctx, true); err != nil {
			m.logger.WarnContext(ctx, "silent sync after reconciliation failed", "error", err)
		}
	}
	if m.onExpired != nil {
		m.onExpired(m.registry.Expired(now))
	}
}

// AddContext registers (or merges into) a collection context and returns the
// resolved id.
func (m *Manager) AddContext(ctx context.Context, fields models.ContextFields) (string, error) {
	id := m.registry.AddContext(fields)
	m.logger.DebugContext(ctx, "context registered", "context_id", id)
	return id, nil
}

// UpdateContext shallow-merges fields into an existing context. Missing
// contexts and empty fields are silently ignored: preference edits are not
// fatal actions.
func (m *Manager) UpdateContext(ctx context.Context, id string, fields models.ContextFields) error {
	m.registry.UpdateContext(id, fields)
	return nil
}

// AddConsents declares consent records on behalf of the identified caller.
func (m *Manager) AddConsents(ctx context.Context, batch map[string]models.ConsentFields, identifier string) error {
	if identifier == "" {
		identifier = m.sessionID
	}
	m.registry.AddConsents(batch, identifier, m.cfg.Issuer)
	if m.metrics != nil {
		m.metrics.ConsentsRecorded.Add(float64(len(batch)))
	}
	return nil
}

// UpdateConsent mutates existing records in the given context, marking them
// for the next delta sync.
func (m *Manager) UpdateConsent(ctx context.Context, contextID string, batch map[string]models.ConsentFields, identifier string) error {
	if identifier == "" {
		identifier = m.sessionID
	}
	m.registry.UpdateConsent(contextID, batch, identifier)
	if m.metrics != nil {
		m.metrics.ConsentsUpdated.Add(float64(len(batch)))
	}
	return nil
}

// Consents returns all records keyed by canonical purpose.
func (m *Manager) Consents(ctx context.Context) (map[string]models.Consent, error) {
	m.reloadIfEmpty(ctx)
	return m.registry.Consents(), nil
}

// Contexts returns all registered contexts.
func (m *Manager) Contexts(ctx context.Context) ([]models.Context, error) {
	m.reloadIfEmpty(ctx)
	return m.registry.Contexts(), nil
}

// ExpiredConsents returns records logically expired at query time.
func (m *Manager) ExpiredConsents(ctx context.Context) (map[string]models.Consent, error) {
	m.reloadIfEmpty(ctx)
	return m.registry.Expired(m.now(ctx)), nil
}

// ConsentExpiryDate returns the expiry of the record matching the purpose.
// The boolean reports whether such a record exists; a zero time on an
// existing record means it never expires.
func (m *Manager) ConsentExpiryDate(ctx context.Context, purpose string) (time.Time, bool, error) {
	m.reloadIfEmpty(ctx)
	expiry, ok := m.registry.ExpiryDate(purpose)
	return expiry, ok, nil
}

// now prefers the request-scoped time so expiry checks within one request
// agree; outside a request the manager's clock applies.
func (m *Manager) now(ctx context.Context) time.Time {
	if t := requestcontext.Now(ctx); !t.IsZero() {
		return t
	}
	return m.clock()
}
