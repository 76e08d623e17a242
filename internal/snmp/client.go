// Package snmp wraps the gosnmp client into the single-shot GET the poller
// needs: one OID, one attempt, hard timeout. Any failure is reported to the
// caller, which decides whether to fall back to synthesis.
package snmp

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gosnmp/gosnmp"
)

// DefaultTimeout bounds a single query so one dead endpoint cannot stall a
// whole poll cycle.
const DefaultTimeout = 500 * time.Millisecond

// Client performs SNMPv2c GET queries against engine agent endpoints
type Client struct {
	timeout time.Duration
}

// NewClient creates a client with the given per-query timeout
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{timeout: timeout}
}

// Get queries a single OID and returns its value as a float64. There are no
// retries: the poller's fallback path handles failure.
func (c *Client) Get(host string, port uint16, community, oid string) (float64, error) {
	params := &gosnmp.GoSNMP{
		Target:    host,
		Port:      port,
		Community: community,
		Version:   gosnmp.Version2c,
		Timeout:   c.timeout,
		Retries:   0,
		MaxOids:   1,
	}

	if err := params.Connect(); err != nil {
		return 0, fmt.Errorf("failed to reach %s:%d: %w", host, port, err)
	}
	defer params.Conn.Close()

	packet, err := params.Get([]string{oid})
	if err != nil {
		return 0, fmt.Errorf("GET %s on %s:%d failed: %w", oid, host, port, err)
	}
	if packet.Error != gosnmp.NoError {
		return 0, fmt.Errorf("GET %s returned error status %v", oid, packet.Error)
	}
	if len(packet.Variables) == 0 {
		return 0, fmt.Errorf("GET %s returned no varbinds", oid)
	}

	pdu := packet.Variables[0]
	switch pdu.Type {
	case gosnmp.NoSuchObject, gosnmp.NoSuchInstance, gosnmp.Null:
		return 0, fmt.Errorf("agent has no object %s", oid)
	}

	return pduToFloat(pdu)
}

// pduToFloat converts the decoded varbind value to a float64 reading
func pduToFloat(pdu gosnmp.SnmpPDU) (float64, error) {
	switch v := pdu.Value.(type) {
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case float64:
		return v, nil
	case string:
		return strconv.ParseFloat(v, 64)
	case []byte:
		return strconv.ParseFloat(string(v), 64)
	default:
		return 0, fmt.Errorf("unsupported varbind type %T for %s", pdu.Value, pdu.Name)
	}
}
