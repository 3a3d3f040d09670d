package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Kafka publishes dispatched records to a topic named after the collector
// table. Downstream consumers feed the hosted collection store.
type Kafka struct {
	client *kgo.Client
}

func NewKafka(brokers []string) (*Kafka, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.AllowAutoTopicCreation(),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &Kafka{client: client}, nil
}

func (d *Kafka) Dispatch(ctx context.Context, table string, record map[string]any) error {
	start := time.Now()
	defer func() {
		dispatchDurationMs.WithLabelValues("kafka").Observe(float64(time.Since(start).Microseconds()) / 1000.0)
	}()

	value, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	rec := &kgo.Record{Topic: table, Value: value}
	if key, ok := record["context_id"].(string); ok {
		// Key by context so records for one context land in one partition.
		rec.Key = []byte(key)
	}

	if err := d.client.ProduceSync(ctx, rec).FirstErr(); err != nil {
		return fmt.Errorf("produce collector record: %w", err)
	}
	return nil
}

// Close flushes and releases the underlying client.
func (d *Kafka) Close() {
	d.client.Close()
}
