package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"

	"github.com/Spok95/poolscreen/internal/domain/inventory"
	"github.com/Spok95/poolscreen/internal/session"
)

const namespace = "poolscreen"

// Designer метрики редактора. Реализует session.Listener.
type Designer struct {
	placed   *prometheus.CounterVec
	removed  *prometheus.CounterVec
	changed  prometheus.Counter
	lengths  prometheus.Histogram
	lastCost prometheus.Gauge
	sessions prometheus.Gauge
}

func NewDesigner(reg prometheus.Registerer) *Designer {
	f := promauto.With(reg)
	return &Designer{
		placed: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "bars_placed_total",
			Help: "Bars placed, by material.",
		}, []string{"type"}),
		removed: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "bars_removed_total",
			Help: "Bars removed, by material.",
		}, []string{"type"}),
		changed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "bars_changed_total",
			Help: "In-place edits: length, material, move.",
		}),
		lengths: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "bar_length_feet",
			Help:    "Length of placed bars.",
			Buckets: []float64{1, 2, 4, 8, 12, 16, 24, 32},
		}),
		lastCost: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "last_total_cost_dollars",
			Help: "Total cost reported by the most recent inventory change.",
		}),
		sessions: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "active_sessions",
			Help: "Open chat editing sessions.",
		}),
	}
}

func (d *Designer) BarPlaced(p session.Placed) {
	d.placed.WithLabelValues(p.Material.Name).Inc()
	d.lengths.Observe(p.Length)
}

func (d *Designer) BarRemoved(p session.Placed) {
	d.removed.WithLabelValues(p.Material.Name).Inc()
}

func (d *Designer) BarChanged(session.Placed) { d.changed.Inc() }

func (d *Designer) InventoryChanged(_ []inventory.TypeCount, total decimal.Decimal) {
	d.lastCost.Set(total.InexactFloat64())
}

func (d *Designer) SessionOpened() { d.sessions.Inc() }
func (d *Designer) SessionClosed() { d.sessions.Dec() }

// Forwarder исходы доставки событий. Реализует forwarder.Observer.
type Forwarder struct {
	outcomes *prometheus.CounterVec
}

func NewForwarder(reg prometheus.Registerer) *Forwarder {
	return &Forwarder{
		outcomes: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "forwarder", Name: "events_total",
			Help: "Forwarded bar events by outcome.",
		}, []string{"outcome"}),
	}
}

func (f *Forwarder) Delivered() { f.outcomes.WithLabelValues("delivered").Inc() }
func (f *Forwarder) Dropped()   { f.outcomes.WithLabelValues("dropped").Inc() }
func (f *Forwarder) Failed()    { f.outcomes.WithLabelValues("failed").Inc() }

// Store метрики удалённого хранилища брусьев.
type Store struct {
	added   prometheus.Counter
	cleared prometheus.Counter
	stored  prometheus.Gauge
}

func NewStore(reg prometheus.Registerer) *Store {
	f := promauto.With(reg)
	return &Store{
		added: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "barstore", Name: "added_total",
			Help: "Bars accepted by the store.",
		}),
		cleared: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "barstore", Name: "cleared_total",
			Help: "Clear requests.",
		}),
		stored: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "barstore", Name: "bars",
			Help: "Bars currently stored.",
		}),
	}
}

func (s *Store) Added(total int) {
	s.added.Inc()
	s.stored.Set(float64(total))
}

func (s *Store) Cleared() {
	s.cleared.Inc()
	s.stored.Set(0)
}
