package stats

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

const DefaultInterval = 5 * time.Minute

// RowCounter reports the number of stored rows per table.
type RowCounter interface {
	CountRows(ctx context.Context) (map[string]int64, error)
}

// Collector periodically publishes table sizes as a gauge.
type Collector struct {
	counter RowCounter
	rows    *prometheus.GaugeVec
	log     logrus.FieldLogger
}

func NewCollector(counter RowCounter, reg prometheus.Registerer, log logrus.FieldLogger) *Collector {
	rows := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "guild_dashboard",
		Subsystem: "store",
		Name:      "rows",
		Help:      "Number of stored rows per table.",
	}, []string{"table"})
	reg.MustRegister(rows)
	return &Collector{counter: counter, rows: rows, log: log}
}

// Start collects once immediately and then every interval until ctx ends.
func (c *Collector) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		c.Collect(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.Collect(ctx)
			}
		}
	}()
}

func (c *Collector) Collect(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	counts, err := c.counter.CountRows(ctx)
	if err != nil {
		c.log.WithError(err).Warn("Collector: failed to count rows")
		return
	}
	for table, n := range counts {
		c.rows.WithLabelValues(table).Set(float64(n))
	}
}
