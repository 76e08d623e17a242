package models

import "time"

// HealthStatus is the derived health classification of an engine
type HealthStatus string

const (
	HealthNormal   HealthStatus = "normal"
	HealthWarning  HealthStatus = "warning"
	HealthCritical HealthStatus = "critical"
	HealthUnknown  HealthStatus = "unknown"
)

// RunState mirrors the engineStatus MIB variable
type RunState int

const (
	RunStateStopped     RunState = 0
	RunStateRunning     RunState = 1
	RunStateMaintenance RunState = 2
)

// ClassifyTemperature maps a temperature reading to a health status.
// Boundaries are inclusive on the low side: exactly 80 is still normal,
// exactly 100 is still warning.
func ClassifyTemperature(temperature float64) HealthStatus {
	switch {
	case temperature > 100:
		return HealthCritical
	case temperature > 80:
		return HealthWarning
	default:
		return HealthNormal
	}
}

// EngineTelemetry is the cached reading set for one engine, refreshed as a
// whole by each poll cycle. Instances are replaced, never mutated in place,
// so a snapshot handed to a reader stays consistent.
type EngineTelemetry struct {
	EngineID      string       `json:"engine_id"`
	Port          uint16       `json:"port"`
	Temperature   float64      `json:"temperature"`
	RPM           int          `json:"rpm"`
	Current       float64      `json:"current"`
	Power         int          `json:"power"`
	RunState      RunState     `json:"status"`
	UptimeSeconds int64        `json:"uptime"`
	HealthStatus  HealthStatus `json:"health_status"`
	LastUpdated   *time.Time   `json:"last_updated,omitempty"`
}

// FleetSummary aggregates the current cache across all engines
type FleetSummary struct {
	TotalEngines       int                  `json:"total_engines"`
	RunningEngines     int                  `json:"running_engines"`
	AvgTemperature     float64              `json:"avg_temperature"`
	AvgPower           float64              `json:"avg_power"`
	HealthDistribution map[HealthStatus]int `json:"health_distribution"`
	LastComputed       time.Time            `json:"last_computed"`
}
