package services

import (
	"errors"
	"sync"
	"testing"

	"github.com/enginewatch/snmp-engine-monitor/internal/mib"
	"github.com/enginewatch/snmp-engine-monitor/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing.
// This is a shared helper used by all test files in the services package.
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to open in-memory database")

	err = db.AutoMigrate(&models.Engine{})
	require.NoError(t, err, "Failed to run migrations")

	return db
}

// errAgentDown simulates an unreachable agent endpoint
var errAgentDown = errors.New("no response from agent")

// failingQuerier fails every query, forcing the synthesis fallback
type failingQuerier struct {
	mu    sync.Mutex
	calls int
}

func (q *failingQuerier) Get(host string, port uint16, community, oid string) (float64, error) {
	q.mu.Lock()
	q.calls++
	q.mu.Unlock()
	return 0, errAgentDown
}

// stubQuerier answers like a live agent, with a fixed temperature per port
// and steady values for the remaining variables.
type stubQuerier struct {
	temps map[uint16]float64
}

func (q *stubQuerier) Get(host string, port uint16, community, oid string) (float64, error) {
	temp, ok := q.temps[port]
	if !ok {
		return 0, errAgentDown
	}

	switch oid {
	case mib.OIDTemperature:
		return temp, nil
	case mib.OIDRPM:
		return 1800, nil
	case mib.OIDCurrent:
		return 12.5, nil
	case mib.OIDPower:
		return 1500, nil
	case mib.OIDStatus:
		return 1, nil
	case mib.OIDUptime:
		return 3600, nil
	default:
		return 0, errAgentDown
	}
}

// testFleet builds the default three-engine fleet without a database
func testFleet() *Fleet {
	return NewFleet(models.DefaultFleet())
}
