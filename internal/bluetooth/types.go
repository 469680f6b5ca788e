// Package bluetooth owns the Bluetooth worker and the plain-data message
// types exchanged between it and the UI loop. No D-Bus handle ever crosses
// the channel boundary: commands and events are the only traffic, so the UI
// can never block on the Bluetooth IPC mechanism.
package bluetooth

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Address is a 48-bit Bluetooth device address. It is comparable, totally
// ordered, and used as the join key across all device records.
type Address [6]byte

// ParseAddress parses a colon-separated hex address such as
// "AA:BB:CC:DD:EE:FF".
func ParseAddress(s string) (Address, error) {
	var addr Address
	parts := strings.Split(s, ":")
	if len(parts) != 6 {
		return addr, fmt.Errorf("invalid bluetooth address %q", s)
	}
	for i, part := range parts {
		b, err := strconv.ParseUint(part, 16, 8)
		if err != nil {
			return addr, fmt.Errorf("invalid bluetooth address %q: %w", s, err)
		}
		addr[i] = byte(b)
	}
	return addr, nil
}

// String formats the address as uppercase colon-separated hex.
func (a Address) String() string {
	return fmt.Sprintf("%02X:%02X:%02X:%02X:%02X:%02X", a[0], a[1], a[2], a[3], a[4], a[5])
}

// Less reports whether a orders before b lexicographically.
func (a Address) Less(b Address) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// AdapterInfo is a point-in-time snapshot of the host adapter. It is
// replaced wholesale on every adapter-state event; there are no partial
// updates.
type AdapterInfo struct {
	Name         string
	Address      *Address
	Powered      bool
	Discovering  bool
	Discoverable bool
}

// DeviceInfo is a point-in-time snapshot of a remote device, built by
// reading every property exactly once. Optional properties are pointers;
// a nil value means the service did not report the property.
type DeviceInfo struct {
	Address   Address
	Name      string // empty when the device reports no name
	Alias     string
	Icon      string
	RSSI      *int16
	TxPower   *int16
	Battery   *uint8
	Paired    bool
	Trusted   bool
	Connected bool
	Class     uint32
}

// DisplayName returns the best available name: the reported name when
// present, otherwise the alias.
func (d DeviceInfo) DisplayName() string {
	if d.Name != "" {
		return d.Name
	}
	return d.Alias
}

// SortKey returns the default ordering key: tier first (0 connected,
// 1 paired or trusted, 2 everything else), then RSSI descending within the
// tier. Devices without an RSSI sink to the bottom of their tier.
func (d DeviceInfo) SortKey() (int, int) {
	tier := 2
	if d.Connected {
		tier = 0
	} else if d.Paired || d.Trusted {
		tier = 1
	}
	rssi := int16(math.MinInt16 + 1)
	if d.RSSI != nil {
		rssi = *d.RSSI
	}
	return tier, int(-rssi)
}

func (d DeviceInfo) String() string {
	return fmt.Sprintf("%s [%s]", d.DisplayName(), d.Address)
}

// Command is a UI→worker instruction. The set is closed: every variant is
// declared in this file and the worker switches over all of them.
type Command interface{ isCommand() }

// EnableAdapter powers the default adapter on.
type EnableAdapter struct{}

// DisableAdapter powers the default adapter off.
type DisableAdapter struct{}

// StartScan begins active device discovery.
type StartScan struct{}

// StopScan stops active device discovery.
type StopScan struct{}

// Connect runs the full pair → trust → connect lifecycle.
type Connect struct{ Address Address }

// Disconnect gracefully disconnects a device.
type Disconnect struct{ Address Address }

// Pair initiates pairing only.
type Pair struct{ Address Address }

// Trust toggles the trusted flag on a device.
type Trust struct{ Address Address }

// RemoveDevice removes a cached/paired device from the service.
type RemoveDevice struct{ Address Address }

// RefreshDevice re-snapshots a single device's properties.
type RefreshDevice struct{ Address Address }

// SetAlias writes a custom alias (friendly name) to a device.
type SetAlias struct {
	Address Address
	Alias   string
}

func (EnableAdapter) isCommand()  {}
func (DisableAdapter) isCommand() {}
func (StartScan) isCommand()      {}
func (StopScan) isCommand()       {}
func (Connect) isCommand()        {}
func (Disconnect) isCommand()     {}
func (Pair) isCommand()           {}
func (Trust) isCommand()          {}
func (RemoveDevice) isCommand()   {}
func (RefreshDevice) isCommand()  {}
func (SetAlias) isCommand()       {}

// Event is a worker→UI notification. Like Command, the set is closed.
type Event interface{ isEvent() }

// AdapterState carries a full adapter snapshot.
type AdapterState struct{ Adapter AdapterInfo }

// DeviceFound reports the first sighting of a device.
type DeviceFound struct{ Device DeviceInfo }

// DeviceUpdated reports a fresh snapshot of an already-known device.
type DeviceUpdated struct{ Device DeviceInfo }

// DeviceRemoved reports that the service dropped a device.
type DeviceRemoved struct{ Address Address }

// ConnectionResult reports the outcome of a connect attempt.
type ConnectionResult struct {
	Address Address
	Success bool
	Err     string
}

// PairResult reports the outcome of a pairing attempt.
type PairResult struct {
	Address Address
	Success bool
	Err     string
}

// PinRequest asks the user to confirm or view a PIN during pairing.
type PinRequest struct {
	Address Address
	Pin     string
}

// ScanningChanged reports a discovery start or stop.
type ScanningChanged struct{ Scanning bool }

// Error surfaces a service failure that has no more specific event.
type Error struct{ Message string }

func (AdapterState) isEvent()     {}
func (DeviceFound) isEvent()      {}
func (DeviceUpdated) isEvent()    {}
func (DeviceRemoved) isEvent()    {}
func (ConnectionResult) isEvent() {}
func (PairResult) isEvent()       {}
func (PinRequest) isEvent()       {}
func (ScanningChanged) isEvent()  {}
func (Error) isEvent()            {}
