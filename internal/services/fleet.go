package services

import (
	"fmt"
	"log"
	"sort"

	"github.com/enginewatch/snmp-engine-monitor/internal/models"
	"github.com/enginewatch/snmp-engine-monitor/internal/simulator"
	"gorm.io/gorm"
)

// Fleet is the explicit aggregate of simulated engines, keyed by engine id.
// It is constructed once at startup and only ever read afterwards; the
// poller owns it and hands read access to collaborators.
type Fleet struct {
	engines map[string]*simulator.Engine
	order   []string
}

// NewFleet builds a fleet from engine registry rows
func NewFleet(rows []models.Engine) *Fleet {
	f := &Fleet{
		engines: make(map[string]*simulator.Engine, len(rows)),
		order:   make([]string, 0, len(rows)),
	}
	for _, row := range rows {
		f.engines[row.ID] = simulator.NewEngine(row)
		f.order = append(f.order, row.ID)
	}
	sort.Strings(f.order)
	return f
}

// LoadFleet reads the engine registry from the database, seeding the
// default three-engine fleet when the registry is empty.
func LoadFleet(db *gorm.DB) (*Fleet, error) {
	var rows []models.Engine
	if err := db.Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load engine registry: %w", err)
	}

	if len(rows) == 0 {
		rows = models.DefaultFleet()
		if err := db.Create(&rows).Error; err != nil {
			return nil, fmt.Errorf("failed to seed engine registry: %w", err)
		}
		log.Printf("[Fleet] Seeded engine registry with %d default engines", len(rows))
	}

	return NewFleet(rows), nil
}

// SeedFleet upserts configured engine rows into the registry. Used when the
// config file declares its own fleet instead of the built-in one.
func SeedFleet(db *gorm.DB, rows []models.Engine) error {
	for i := range rows {
		if err := db.Save(&rows[i]).Error; err != nil {
			return fmt.Errorf("failed to upsert engine %s: %w", rows[i].ID, err)
		}
	}
	return nil
}

// Get returns the engine for an id
func (f *Fleet) Get(id string) (*simulator.Engine, bool) {
	eng, ok := f.engines[id]
	return eng, ok
}

// IDs returns all engine ids in sorted order
func (f *Fleet) IDs() []string {
	out := make([]string, len(f.order))
	copy(out, f.order)
	return out
}

// Len returns the fleet size
func (f *Fleet) Len() int {
	return len(f.engines)
}
