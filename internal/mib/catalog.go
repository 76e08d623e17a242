// Package mib defines the fixed variable catalog exposed by every simulated
// engine: six scalar objects under a private enterprise prefix. The catalog
// is pure data; value generation is dispatched on the Generator tag by the
// simulator so entries stay serializable.
package mib

// EnterprisePrefix is the private enterprise subtree all engine variables
// live under.
const EnterprisePrefix = "1.3.6.1.4.1.9999.1.1"

// Well-known OIDs for the six engine variables
const (
	OIDTemperature = EnterprisePrefix + ".1.0"
	OIDRPM         = EnterprisePrefix + ".2.0"
	OIDCurrent     = EnterprisePrefix + ".3.0"
	OIDPower       = EnterprisePrefix + ".4.0"
	OIDStatus      = EnterprisePrefix + ".5.0"
	OIDUptime      = EnterprisePrefix + ".6.0"
)

// Kind is the SNMP data type of a variable
type Kind string

const (
	KindGauge32   Kind = "Gauge32"
	KindInteger32 Kind = "Integer32"
	KindTimeTicks Kind = "TimeTicks"
)

// Access is the access mode of a variable. Every engine variable is
// read-only; the constant exists so log records and metadata responses can
// name it explicitly.
type Access string

const AccessReadOnly Access = "read-only"

// Generator names the synthesis law the simulator applies for a variable
type Generator int

const (
	GeneratorTemperature Generator = iota
	GeneratorRPM
	GeneratorCurrent
	GeneratorPower
	GeneratorStatus
	GeneratorUptime
)

// VariableEntry describes one queryable object of the engine MIB
type VariableEntry struct {
	OID         string    `json:"oid"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Kind        Kind      `json:"type"`
	Unit        string    `json:"units"`
	Access      Access    `json:"access"`
	Generator   Generator `json:"-"`
}

// Catalog is the immutable OID to variable mapping of one engine
type Catalog struct {
	entries map[string]VariableEntry
	order   []string
}

// NewCatalog builds the fixed six-entry engine catalog
func NewCatalog() *Catalog {
	entries := []VariableEntry{
		{
			OID:         OIDTemperature,
			Name:        "engineTemperature",
			Description: "Engine Temperature in Celsius",
			Kind:        KindGauge32,
			Unit:        "°C",
			Access:      AccessReadOnly,
			Generator:   GeneratorTemperature,
		},
		{
			OID:         OIDRPM,
			Name:        "engineRPM",
			Description: "Engine RPM (Revolutions Per Minute)",
			Kind:        KindGauge32,
			Unit:        "RPM",
			Access:      AccessReadOnly,
			Generator:   GeneratorRPM,
		},
		{
			OID:         OIDCurrent,
			Name:        "engineCurrent",
			Description: "Engine Electrical Current",
			Kind:        KindGauge32,
			Unit:        "Amperes",
			Access:      AccessReadOnly,
			Generator:   GeneratorCurrent,
		},
		{
			OID:         OIDPower,
			Name:        "enginePowerOutput",
			Description: "Engine Power Output",
			Kind:        KindGauge32,
			Unit:        "Watts",
			Access:      AccessReadOnly,
			Generator:   GeneratorPower,
		},
		{
			OID:         OIDStatus,
			Name:        "engineStatus",
			Description: "Engine Operational Status",
			Kind:        KindInteger32,
			Unit:        "Status",
			Access:      AccessReadOnly,
			Generator:   GeneratorStatus,
		},
		{
			OID:         OIDUptime,
			Name:        "engineUptime",
			Description: "Engine Uptime in seconds",
			Kind:        KindTimeTicks,
			Unit:        "seconds",
			Access:      AccessReadOnly,
			Generator:   GeneratorUptime,
		},
	}

	c := &Catalog{
		entries: make(map[string]VariableEntry, len(entries)),
		order:   make([]string, 0, len(entries)),
	}
	for _, e := range entries {
		c.entries[e.OID] = e
		c.order = append(c.order, e.OID)
	}
	return c
}

// Lookup returns the entry for an OID, or false if the OID is not part of
// the engine MIB.
func (c *Catalog) Lookup(oid string) (VariableEntry, bool) {
	e, ok := c.entries[oid]
	return e, ok
}

// OIDs returns all catalog OIDs in MIB order
func (c *Catalog) OIDs() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Entries returns all catalog entries in MIB order
func (c *Catalog) Entries() []VariableEntry {
	out := make([]VariableEntry, 0, len(c.order))
	for _, oid := range c.order {
		out = append(out, c.entries[oid])
	}
	return out
}

// Len returns the number of variables in the catalog
func (c *Catalog) Len() int {
	return len(c.entries)
}
