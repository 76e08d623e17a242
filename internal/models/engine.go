package models

import (
	"time"

	"gorm.io/gorm"
)

// Engine represents one simulated industrial engine in the fleet registry.
// Rows hold configuration only; live telemetry is kept in memory by the
// poller and never written back to the database.
type Engine struct {
	ID              string    `gorm:"primaryKey" json:"id"`
	Port            uint16    `gorm:"not null;uniqueIndex" json:"port"`
	Host            string    `gorm:"default:127.0.0.1" json:"host"`
	Community       string    `gorm:"default:public" json:"community"`
	BaseTemperature float64   `gorm:"not null" json:"base_temperature"`
	BaseRPM         float64   `gorm:"not null" json:"base_rpm"`
	BaseCurrent     float64   `gorm:"not null" json:"base_current"`
	BasePower       float64   `gorm:"not null" json:"base_power"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// BeforeCreate fills in defaults for rows created without them
func (e *Engine) BeforeCreate(tx *gorm.DB) error {
	if e.Host == "" {
		e.Host = "127.0.0.1"
	}
	if e.Community == "" {
		e.Community = "public"
	}
	return nil
}

// TableName overrides the default table name
func (Engine) TableName() string {
	return "engines"
}

// DefaultFleet returns the built-in three-engine fleet used to seed an empty
// registry. Each engine has a distinct port and operating profile.
func DefaultFleet() []Engine {
	return []Engine{
		{ID: "Engine-1", Host: "127.0.0.1", Port: 1611, Community: "public", BaseTemperature: 45, BaseRPM: 1800, BaseCurrent: 12.5, BasePower: 1500},
		{ID: "Engine-2", Host: "127.0.0.1", Port: 1612, Community: "public", BaseTemperature: 50, BaseRPM: 2000, BaseCurrent: 15.0, BasePower: 1800},
		{ID: "Engine-3", Host: "127.0.0.1", Port: 1613, Community: "public", BaseTemperature: 40, BaseRPM: 1600, BaseCurrent: 10.0, BasePower: 1200},
	}
}
