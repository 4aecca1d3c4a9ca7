package receipt

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tallyweave/tally"
	"github.com/tallyweave/tally/errors"
)

// Metrics counts the outcome of every delivered receipt command.
type Metrics struct {
	operations *prometheus.CounterVec
	invariants *prometheus.CounterVec
}

// NewMetrics creates the receipt collectors and registers them with reg,
// unless reg is nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tally",
			Subsystem: "receipt",
			Name:      "operations_total",
			Help:      "Number of delivered receipt commands by outcome.",
		}, []string{"op", "outcome"}),
		invariants: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tally",
			Subsystem: "receipt",
			Name:      "invariant_violations_total",
			Help:      "Number of receipt commands aborted by a broken arithmetic invariant.",
		}, []string{"op"}),
	}
	if reg != nil {
		reg.MustRegister(m.operations, m.invariants)
	}
	return m
}

func (m *Metrics) observe(ctx tally.Context, op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	if errors.IsInvariant(err) {
		tally.GetLogger(ctx).Error("ledger invariant violated",
			"op", op, "invariant", true, "err", err)
		if m != nil {
			m.invariants.WithLabelValues(op).Inc()
		}
	}
	if m != nil {
		m.operations.WithLabelValues(op, outcome).Inc()
	}
}

// instrumented reports the outcome of every Deliver call.
type instrumented struct {
	op      string
	next    tally.Handler
	metrics *Metrics
}

var _ tally.Handler = instrumented{}

func (i instrumented) Check(ctx tally.Context, db tally.KVStore, tx tally.Tx) (*tally.CheckResult, error) {
	return i.next.Check(ctx, db, tx)
}

func (i instrumented) Deliver(ctx tally.Context, db tally.KVStore, tx tally.Tx) (*tally.DeliverResult, error) {
	res, err := i.next.Deliver(ctx, db, tx)
	i.metrics.observe(ctx, i.op, err)
	return res, err
}
