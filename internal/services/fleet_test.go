package services

import (
	"testing"

	"github.com/enginewatch/snmp-engine-monitor/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFleet_SeedsDefaultsWhenEmpty(t *testing.T) {
	db := setupTestDB(t)

	fleet, err := LoadFleet(db)
	require.NoError(t, err)

	assert.Equal(t, 3, fleet.Len())
	assert.Equal(t, []string{"Engine-1", "Engine-2", "Engine-3"}, fleet.IDs())

	eng, ok := fleet.Get("Engine-2")
	require.True(t, ok)
	assert.Equal(t, uint16(1612), eng.Port())
	assert.Equal(t, "public", eng.Community())
	assert.Equal(t, "127.0.0.1", eng.Host())

	// Seeding is persistent
	var count int64
	require.NoError(t, db.Model(&models.Engine{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)
}

func TestLoadFleet_DoesNotReseedExistingRegistry(t *testing.T) {
	db := setupTestDB(t)

	custom := models.Engine{
		ID:              "Engine-A",
		Port:            1699,
		BaseTemperature: 55,
		BaseRPM:         2200,
		BaseCurrent:     18,
		BasePower:       2100,
	}
	require.NoError(t, db.Create(&custom).Error)

	fleet, err := LoadFleet(db)
	require.NoError(t, err)

	assert.Equal(t, 1, fleet.Len())
	_, ok := fleet.Get("Engine-A")
	assert.True(t, ok)
	_, ok = fleet.Get("Engine-1")
	assert.False(t, ok, "defaults must not be seeded over an existing registry")
}

func TestFleet_GetUnknown(t *testing.T) {
	fleet := testFleet()
	_, ok := fleet.Get("Engine-99")
	assert.False(t, ok)
}
