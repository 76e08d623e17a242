// Package simulator models the engine side of the system: each Engine
// produces bounded, time-varying readings for the six MIB variables and
// keeps a capped log of the request/response exchanges it serves.
package simulator

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/enginewatch/snmp-engine-monitor/internal/mib"
	"github.com/enginewatch/snmp-engine-monitor/internal/models"
	"github.com/google/uuid"
)

// Rated operating point used by the power law
const (
	ratedRPM     = 3000.0
	ratedCurrent = 20.0
	maxPower     = 3000.0
)

// Reading is one evaluated variable of one engine. Produced fresh on every
// evaluation and never mutated afterwards.
type Reading struct {
	EngineID  string    `json:"engine_id"`
	OID       string    `json:"oid"`
	Name      string    `json:"name"`
	Value     float64   `json:"value"`
	Unit      string    `json:"units"`
	Kind      mib.Kind  `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

// Engine simulates one physical engine. Base parameters and startTime are
// fixed at construction; every reading is derived from elapsed time plus
// bounded noise.
type Engine struct {
	id        string
	host      string
	port      uint16
	community string

	baseTemperature float64
	baseRPM         float64
	baseCurrent     float64
	basePower       float64

	startTime time.Time
	catalog   *mib.Catalog
	log       *MessageLog
}

// NewEngine builds a simulated engine from a registry row
func NewEngine(cfg models.Engine) *Engine {
	return &Engine{
		id:              cfg.ID,
		host:            cfg.Host,
		port:            cfg.Port,
		community:       cfg.Community,
		baseTemperature: cfg.BaseTemperature,
		baseRPM:         cfg.BaseRPM,
		baseCurrent:     cfg.BaseCurrent,
		basePower:       cfg.BasePower,
		startTime:       time.Now(),
		catalog:         mib.NewCatalog(),
		log:             NewMessageLog(DefaultLogCapacity),
	}
}

// ID returns the engine identifier
func (e *Engine) ID() string { return e.id }

// Host returns the engine's agent host
func (e *Engine) Host() string { return e.host }

// Port returns the engine's agent port
func (e *Engine) Port() uint16 { return e.port }

// Community returns the engine's community string
func (e *Engine) Community() string { return e.community }

// Catalog returns the engine's variable catalog
func (e *Engine) Catalog() *mib.Catalog { return e.catalog }

// Log returns the engine's message log for snapshot reads
func (e *Engine) Log() *MessageLog { return e.log }

// Evaluate computes the current reading for one OID. It consumes randomness
// but has no other side effects; unknown OIDs return false.
func (e *Engine) Evaluate(oid string) (Reading, bool) {
	entry, ok := e.catalog.Lookup(oid)
	if !ok {
		return Reading{}, false
	}

	value := e.evaluateAt(entry.Generator, time.Since(e.startTime))
	return Reading{
		EngineID:  e.id,
		OID:       entry.OID,
		Name:      entry.Name,
		Value:     value,
		Unit:      entry.Unit,
		Kind:      entry.Kind,
		Timestamp: time.Now(),
	}, true
}

// HandleRequest serves one GET exchange: it evaluates the OID and records
// the request/response pair (or a single error record for unknown OIDs) in
// the message log. This is the only path that writes log records.
func (e *Engine) HandleRequest(oid string) (Reading, bool) {
	entry, ok := e.catalog.Lookup(oid)
	if !ok {
		e.log.Append(LogRecord{
			ID:        uuid.New(),
			Timestamp: time.Now(),
			EngineID:  e.id,
			Kind:      RecordError,
			OID:       oid,
			Error:     fmt.Sprintf("OID %s not found", oid),
			Port:      e.port,
			Community: e.community,
		})
		return Reading{}, false
	}

	e.log.Append(LogRecord{
		ID:           uuid.New(),
		Timestamp:    time.Now(),
		EngineID:     e.id,
		Kind:         RecordRequest,
		OID:          entry.OID,
		VariableName: entry.Name,
		Port:         e.port,
		Community:    e.community,
		DataKind:     entry.Kind,
		Access:       entry.Access,
	})

	reading, _ := e.Evaluate(oid)

	value := reading.Value
	e.log.Append(LogRecord{
		ID:           uuid.New(),
		Timestamp:    time.Now(),
		EngineID:     e.id,
		Kind:         RecordResponse,
		OID:          entry.OID,
		VariableName: entry.Name,
		Value:        &value,
		Port:         e.port,
		Community:    e.community,
		DataKind:     entry.Kind,
		Access:       entry.Access,
	})

	return reading, true
}

// evaluateAt dispatches on the generator tag for a given elapsed time
func (e *Engine) evaluateAt(gen mib.Generator, elapsed time.Duration) float64 {
	t := elapsed.Seconds()

	switch gen {
	case mib.GeneratorTemperature:
		return e.temperatureAt(t)
	case mib.GeneratorRPM:
		return e.rpmAt(t)
	case mib.GeneratorCurrent:
		return e.currentAt(t)
	case mib.GeneratorPower:
		return e.powerOutput(e.rpmAt(t), e.currentAt(t))
	case mib.GeneratorStatus:
		return float64(models.RunStateRunning)
	case mib.GeneratorUptime:
		return math.Floor(t)
	default:
		return 0
	}
}

// temperatureAt models a slow hourly drift plus a sub-minute load component
// and bounded noise, clamped to the sensor's physical range.
func (e *Engine) temperatureAt(t float64) float64 {
	drift := 5 * math.Sin(2*math.Pi*t/3600)
	load := 0.3 * math.Sin(t/60)
	noise := uniform(-2, 2)
	return round1(clamp(e.baseTemperature+drift+load+noise, 20, 120))
}

func (e *Engine) rpmAt(t float64) float64 {
	load := 200 * math.Sin(t/30)
	noise := uniform(-50, 50)
	return math.Trunc(clamp(e.baseRPM+load+noise, 500, 3500))
}

func (e *Engine) currentAt(t float64) float64 {
	load := 2.5 * math.Sin(t/45)
	noise := uniform(-1, 1)
	return round2(clamp(e.baseCurrent+load+noise, 0, 30))
}

// powerOutput derives power from the simultaneous rpm and current readings:
// basePower scaled by both ratios against the rated operating point.
func (e *Engine) powerOutput(rpm, current float64) float64 {
	factor := (rpm / ratedRPM) * (current / ratedCurrent)
	return math.Trunc(clamp(e.basePower*factor, 0, maxPower))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func uniform(lo, hi float64) float64 {
	return lo + rand.Float64()*(hi-lo)
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func round2(v float64) float64 { return math.Round(v*100) / 100 }
