package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/enginewatch/snmp-engine-monitor/internal/mib"
	"github.com/enginewatch/snmp-engine-monitor/internal/models"
	"github.com/enginewatch/snmp-engine-monitor/internal/simulator"
)

// Querier is the real-query stage of the acquisition pipeline. The SNMP
// client implements it; tests substitute their own.
type Querier interface {
	Get(host string, port uint16, community, oid string) (float64, error)
}

// PollerConfig holds configuration for the polling service
type PollerConfig struct {
	Interval time.Duration // Time between poll cycles (default: 2s)
	Backoff  time.Duration // Delay before the next cycle after a cycle error (default: 5s)
}

// PollerService owns the telemetry cache for the whole fleet. A background
// loop refreshes every engine on a fixed interval; each refresh first
// attempts a real SNMP query per variable and silently synthesizes a local
// reading when the query fails.
type PollerService struct {
	fleet   *Fleet
	querier Querier

	interval time.Duration
	backoff  time.Duration

	cacheMu sync.RWMutex
	cache   map[string]*models.EngineTelemetry

	// One mutex per engine so a manual poll overlapping a cycle cannot
	// interleave writes to that engine's cache slot or message log.
	pollLocks map[string]*sync.Mutex

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	broadcastMu   sync.RWMutex
	broadcastFunc func(channel, event string, data interface{})

	statusMu          sync.RWMutex
	lastCycleTime     time.Time
	lastCycleDuration time.Duration
	totalCycles       int64
	totalCycleErrors  int64
	realReadings      int64
	syntheticReadings int64
}

// NewPollerService creates a poller for the given fleet. The cache starts
// with one placeholder entry per engine (health unknown, never updated).
func NewPollerService(fleet *Fleet, querier Querier, config *PollerConfig) *PollerService {
	if config == nil {
		config = &PollerConfig{}
	}
	if config.Interval <= 0 {
		config.Interval = 2 * time.Second
	}
	if config.Backoff <= 0 {
		config.Backoff = 5 * time.Second
	}

	s := &PollerService{
		fleet:     fleet,
		querier:   querier,
		interval:  config.Interval,
		backoff:   config.Backoff,
		cache:     make(map[string]*models.EngineTelemetry, fleet.Len()),
		pollLocks: make(map[string]*sync.Mutex, fleet.Len()),
	}

	for _, id := range fleet.IDs() {
		eng, _ := fleet.Get(id)
		s.cache[id] = &models.EngineTelemetry{
			EngineID:     id,
			Port:         eng.Port(),
			HealthStatus: models.HealthUnknown,
		}
		s.pollLocks[id] = &sync.Mutex{}
	}

	return s
}

// SetBroadcastFunc sets the WebSocket broadcast function
func (s *PollerService) SetBroadcastFunc(fn func(channel, event string, data interface{})) {
	s.broadcastMu.Lock()
	defer s.broadcastMu.Unlock()
	s.broadcastFunc = fn
}

// Start begins the periodic poll loop. Starting an already running poller
// is an error; the loop state is restartable after Stop.
func (s *PollerService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("poller is already running")
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.running = true

	s.wg.Add(1)
	go s.run(ctx)

	log.Printf("[Poller] Started polling %d engines every %v", s.fleet.Len(), s.interval)
	return nil
}

// Stop prevents the next scheduled cycle. A cycle already in progress runs
// to completion before the loop exits.
func (s *PollerService) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return fmt.Errorf("poller is not running")
	}

	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Printf("[Poller] Stopped")
	case <-time.After(10 * time.Second):
		return fmt.Errorf("timeout waiting for poll loop to stop")
	}

	s.running = false
	return nil
}

// IsRunning reports whether the poll loop is active
func (s *PollerService) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// run drives the poll cycles until the context is cancelled. A failed cycle
// widens the delay before the next one; the loop itself never terminates on
// cycle errors.
func (s *PollerService) run(ctx context.Context) {
	defer s.wg.Done()

	next := s.cycleDelay(s.runCycle())

	timer := time.NewTimer(next)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("[Poller] Poll loop stopped")
			return
		case <-timer.C:
			timer.Reset(s.cycleDelay(s.runCycle()))
		}
	}
}

func (s *PollerService) cycleDelay(err error) time.Duration {
	if err != nil {
		log.Printf("[Poller] Cycle error: %v (next cycle in %v)", err, s.backoff)
		return s.backoff
	}
	return s.interval
}

// runCycle executes one full PollAll, converting a panic into a cycle error
// so a bad cycle can never kill the loop.
func (s *PollerService) runCycle() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("poll cycle panic: %v", r)
		}
		s.statusMu.Lock()
		s.totalCycles++
		if err != nil {
			s.totalCycleErrors++
		}
		s.statusMu.Unlock()
		if err != nil {
			pollCycleErrorsTotal.Inc()
		}
	}()

	start := time.Now()
	err = s.PollAll()
	duration := time.Since(start)

	s.statusMu.Lock()
	s.lastCycleTime = start
	s.lastCycleDuration = duration
	s.statusMu.Unlock()

	pollCyclesTotal.Inc()
	pollCycleDurationSeconds.Set(duration.Seconds())
	return err
}

// PollAll refreshes every engine in the fleet. Engines are independent, so
// a failure on one does not skip the rest.
func (s *PollerService) PollAll() error {
	var firstErr error
	for _, id := range s.fleet.IDs() {
		if err := s.PollEngine(id); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// PollEngine refreshes the cache entry for one engine: every catalog
// variable is resolved (real query, else synthesis), then health is
// reclassified from the fresh temperature and the entry is swapped in as a
// whole.
func (s *PollerService) PollEngine(id string) error {
	eng, ok := s.fleet.Get(id)
	if !ok {
		return models.NewNotFoundError("engine")
	}

	lock := s.pollLocks[id]
	lock.Lock()
	defer lock.Unlock()

	fresh := &models.EngineTelemetry{
		EngineID: id,
		Port:     eng.Port(),
	}

	for _, oid := range eng.Catalog().OIDs() {
		value, real, err := s.resolve(eng, oid)
		if err != nil {
			// Unknown OID inside the fixed catalog cannot happen; an error
			// here means the catalog and resolver disagree.
			return fmt.Errorf("engine %s: %w", id, err)
		}
		s.countReading(id, real)

		switch oid {
		case mib.OIDTemperature:
			fresh.Temperature = value
		case mib.OIDRPM:
			fresh.RPM = int(value)
		case mib.OIDCurrent:
			fresh.Current = value
		case mib.OIDPower:
			fresh.Power = int(value)
		case mib.OIDStatus:
			fresh.RunState = models.RunState(int(value))
		case mib.OIDUptime:
			fresh.UptimeSeconds = int64(value)
		}
	}

	fresh.HealthStatus = models.ClassifyTemperature(fresh.Temperature)
	now := time.Now()
	fresh.LastUpdated = &now

	s.cacheMu.Lock()
	s.cache[id] = fresh
	s.cacheMu.Unlock()

	s.broadcastTelemetry(fresh)
	return nil
}

// resolve runs the two-stage acquisition pipeline for one variable: attempt
// the real query, and on any failure ask the engine to synthesize the value
// through its logged request path. The second return reports whether the
// value came from a real agent.
func (s *PollerService) resolve(eng *simulator.Engine, oid string) (float64, bool, error) {
	if s.querier != nil {
		value, err := s.querier.Get(eng.Host(), eng.Port(), eng.Community(), oid)
		if err == nil {
			return value, true, nil
		}
	}

	reading, ok := eng.HandleRequest(oid)
	if !ok {
		return 0, false, fmt.Errorf("variable %s not in catalog", oid)
	}
	return reading.Value, false, nil
}

func (s *PollerService) countReading(engineID string, real bool) {
	s.statusMu.Lock()
	if real {
		s.realReadings++
	} else {
		s.syntheticReadings++
	}
	s.statusMu.Unlock()

	if real {
		realReadingsTotal.WithLabelValues(engineID).Inc()
	} else {
		syntheticReadingsTotal.WithLabelValues(engineID).Inc()
	}
}

func (s *PollerService) broadcastTelemetry(entry *models.EngineTelemetry) {
	s.broadcastMu.RLock()
	fn := s.broadcastFunc
	s.broadcastMu.RUnlock()

	if fn != nil {
		fn("telemetry", "engine_updated", entry)
	}
}

// GetAll returns the current cache snapshot for every engine
func (s *PollerService) GetAll() map[string]*models.EngineTelemetry {
	s.cacheMu.RLock()
	defer s.cacheMu.RUnlock()

	out := make(map[string]*models.EngineTelemetry, len(s.cache))
	for id, entry := range s.cache {
		out[id] = entry
	}
	return out
}

// GetOne returns the cache snapshot for one engine
func (s *PollerService) GetOne(id string) (*models.EngineTelemetry, bool) {
	s.cacheMu.RLock()
	defer s.cacheMu.RUnlock()

	entry, ok := s.cache[id]
	return entry, ok
}

// GetSummary computes fleet-wide statistics from the current cache
func (s *PollerService) GetSummary() *models.FleetSummary {
	entries := s.GetAll()

	summary := &models.FleetSummary{
		TotalEngines:       len(entries),
		HealthDistribution: make(map[models.HealthStatus]int),
		LastComputed:       time.Now(),
	}

	if len(entries) == 0 {
		return summary
	}

	var tempSum, powerSum float64
	for _, entry := range entries {
		if entry.RunState == models.RunStateRunning {
			summary.RunningEngines++
		}
		tempSum += entry.Temperature
		powerSum += float64(entry.Power)
		summary.HealthDistribution[entry.HealthStatus]++
	}

	summary.AvgTemperature = round1(tempSum / float64(len(entries)))
	summary.AvgPower = round1(powerSum / float64(len(entries)))
	return summary
}

// PollerStatus reports the operational state of the poll loop
type PollerStatus struct {
	Running           bool       `json:"running"`
	IntervalSeconds   float64    `json:"interval_seconds"`
	BackoffSeconds    float64    `json:"backoff_seconds"`
	LastCycleTime     *time.Time `json:"last_cycle_time,omitempty"`
	LastCycleDuration string     `json:"last_cycle_duration,omitempty"`
	TotalCycles       int64      `json:"total_cycles"`
	TotalCycleErrors  int64      `json:"total_cycle_errors"`
	RealReadings      int64      `json:"real_readings"`
	SyntheticReadings int64      `json:"synthetic_readings"`
}

// GetStatus returns detailed status for the poll loop
func (s *PollerService) GetStatus() *PollerStatus {
	status := &PollerStatus{
		Running:         s.IsRunning(),
		IntervalSeconds: s.interval.Seconds(),
		BackoffSeconds:  s.backoff.Seconds(),
	}

	s.statusMu.RLock()
	defer s.statusMu.RUnlock()

	status.TotalCycles = s.totalCycles
	status.TotalCycleErrors = s.totalCycleErrors
	status.RealReadings = s.realReadings
	status.SyntheticReadings = s.syntheticReadings

	if !s.lastCycleTime.IsZero() {
		t := s.lastCycleTime
		status.LastCycleTime = &t
		status.LastCycleDuration = s.lastCycleDuration.String()
	}

	return status
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
