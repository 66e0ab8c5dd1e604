// Package metrics provides Prometheus metrics for the calcio simulation service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus metric exposed by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Simulation metrics
	matchesSimulated prometheus.Counter
	goalsScored      prometheus.Counter
	cardsIssued      prometheus.Counter
	injuriesRolled   prometheus.Counter
	matchSimLatency  prometheus.Histogram

	// Season metrics
	seasonIndex     prometheus.Gauge
	currentMatchday prometheus.Gauge
	seasonsSettled  prometheus.Counter

	// Transfer market metrics
	listingsOpened    prometheus.Counter
	bidsPlaced        prometheus.Counter
	transfersResolved prometheus.Counter
	loansCreated      prometheus.Counter
	activeListings    prometheus.Gauge
	escrowedFunds     prometheus.Gauge

	// Scouting metrics
	scoutingReports *prometheus.CounterVec

	// Fixture pipeline metrics
	fixtureQueueSize prometheus.Gauge
	fixtureWorkers   prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Stream metrics
	streamClients prometheus.Gauge
}

// Global manager registered on a custom registry so default Go collectors
// do not pollute the scrape output.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "calcio",
		subsystem:        "league",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.matchesSimulated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "matches_simulated_total",
		Help:      "Total number of fixtures resolved by the match engine",
	})
	m.goalsScored = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "goals_total",
		Help:      "Total goals produced across all simulated fixtures",
	})
	m.cardsIssued = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cards_total",
		Help:      "Total yellow and red cards issued",
	})
	m.injuriesRolled = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "injuries_total",
		Help:      "Total injuries rolled during match simulation",
	})
	m.matchSimLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "match_sim_latency_milliseconds",
		Help:      "Histogram of single-fixture simulation latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.seasonIndex = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "season_index",
		Help:      "Current season index",
	})
	m.currentMatchday = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "current_matchday",
		Help:      "Matchdays completed in the active season",
	})
	m.seasonsSettled = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "seasons_settled_total",
		Help:      "Total seasons that reached settlement",
	})

	m.listingsOpened = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "market_listings_total",
		Help:      "Total transfer listings opened",
	})
	m.bidsPlaced = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "market_bids_total",
		Help:      "Total bids accepted by the transfer market",
	})
	m.transfersResolved = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "market_transfers_total",
		Help:      "Total listings resolved into an ownership transfer",
	})
	m.loansCreated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "market_loans_total",
		Help:      "Total loans created",
	})
	m.activeListings = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "market_active_listings",
		Help:      "Listings currently open for bids",
	})
	m.escrowedFunds = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "market_escrowed_funds",
		Help:      "Sum of funds currently held in bid escrow",
	})

	m.scoutingReports = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scouting_reports_total",
		Help:      "Scouting reports generated, labelled by tier",
	}, []string{"tier"})

	m.fixtureQueueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fixture_queue_size",
		Help:      "Fixture jobs waiting in the simulation queue",
	})
	m.fixtureWorkers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fixture_workers",
		Help:      "Workers configured in the fixture simulation pool",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "HTTP requests by endpoint, method and status code",
	}, []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration by endpoint and method",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method"})

	m.streamClients = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stream_clients",
		Help:      "Connected websocket stream clients",
	})
}

// Package-level helpers delegating to the global manager.

func RecordMatchSimulated(goals, cards, injuries int) {
	globalManager.matchesSimulated.Inc()
	globalManager.goalsScored.Add(float64(goals))
	globalManager.cardsIssued.Add(float64(cards))
	globalManager.injuriesRolled.Add(float64(injuries))
}

func RecordMatchSimLatency(latencyMs float64) {
	globalManager.matchSimLatency.Observe(latencyMs)
}

func UpdateSeason(index, matchday int) {
	globalManager.seasonIndex.Set(float64(index))
	globalManager.currentMatchday.Set(float64(matchday))
}

func RecordSeasonSettled() {
	globalManager.seasonsSettled.Inc()
}

func RecordListingOpened() {
	globalManager.listingsOpened.Inc()
}

func RecordBidPlaced() {
	globalManager.bidsPlaced.Inc()
}

func RecordTransferResolved() {
	globalManager.transfersResolved.Inc()
}

func RecordLoanCreated() {
	globalManager.loansCreated.Inc()
}

func UpdateActiveListings(n int) {
	globalManager.activeListings.Set(float64(n))
}

func UpdateEscrowedFunds(total int64) {
	globalManager.escrowedFunds.Set(float64(total))
}

func RecordScoutingReport(tier string) {
	globalManager.scoutingReports.WithLabelValues(tier).Inc()
}

func UpdateFixtureQueueSize(n int) {
	globalManager.fixtureQueueSize.Set(float64(n))
}

func UpdateFixtureWorkers(n int) {
	globalManager.fixtureWorkers.Set(float64(n))
}

func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

func RecordHTTPRequestDuration(endpoint, method string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method).Observe(durationMs)
}

func UpdateStreamClients(n int) {
	globalManager.streamClients.Set(float64(n))
}

// GetRegistry returns the custom registry backing the /metrics endpoint.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
