package dispatch

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

// tableNamePattern guards the dynamic table identifier; table names come from
// configuration, not user input, but identifiers cannot be parameterized.
var tableNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Postgres appends dispatched records as rows in the configured tables.
// Expected schema per table: (record_id uuid primary key, payload jsonb,
// recorded_at timestamptz).
type Postgres struct {
	db    *sql.DB
	clock func() time.Time
}

// PostgresOption configures a Postgres dispatcher.
type PostgresOption func(*Postgres)

// WithPostgresClock sets the clock function for testability.
func WithPostgresClock(clock func() time.Time) PostgresOption {
	return func(d *Postgres) {
		if clock != nil {
			d.clock = clock
		}
	}
}

func NewPostgres(db *sql.DB, opts ...PostgresOption) *Postgres {
	d := &Postgres{db: db, clock: time.Now}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// OpenPostgres connects to the collector database.
func OpenPostgres(url string) (*sql.DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("open collector database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping collector database: %w", err)
	}
	return db, nil
}

func (d *Postgres) Dispatch(ctx context.Context, table string, record map[string]any) error {
	start := time.Now()
	defer func() {
		dispatchDurationMs.WithLabelValues("postgres").Observe(float64(time.Since(start).Microseconds()) / 1000.0)
	}()

	if !tableNamePattern.MatchString(table) {
		return fmt.Errorf("invalid collector table name %q", table)
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	query := fmt.Sprintf(`INSERT INTO %s (record_id, payload, recorded_at) VALUES ($1, $2, $3)`, table)
	if _, err := d.db.ExecContext(ctx, query, uuid.NewString(), payload, d.clock()); err != nil {
		return fmt.Errorf("insert collector record: %w", err)
	}
	return nil
}
