package bluetooth

import (
	"fmt"
	"strings"

	"github.com/godbus/dbus/v5"
	"github.com/muka/go-bluetooth/bluez/profile/agent"

	"github.com/CPT-Dawn/VoidLink/internal/logging/events"
)

const agentPath = "/com/cptdawn/voidlink/agent"

// pairingAgent answers BlueZ pairing prompts on behalf of the UI. Prompts
// that would normally block on user interaction are translated into
// PinRequest events and acknowledged immediately; there is no approval
// round-trip, so the worker never stalls waiting on the UI.
type pairingAgent struct {
	events chan<- Event
}

func newPairingAgent(evts chan<- Event) *pairingAgent {
	return &pairingAgent{events: evts}
}

// registerAgent exports the agent on the bus and installs it as the default
// pairing agent for the session.
func registerAgent(conn *dbus.Conn, evts chan<- Event) (func(), error) {
	ag := newPairingAgent(evts)
	if err := agent.ExposeAgent(conn, ag, agent.CapKeyboardDisplay, true); err != nil {
		return nil, fmt.Errorf("expose agent: %w", err)
	}
	return func() { _ = agent.RemoveAgent(ag) }, nil
}

// addressFromPath extracts the device address from a BlueZ object path such
// as /org/bluez/hci0/dev_AA_BB_CC_DD_EE_FF.
func addressFromPath(path dbus.ObjectPath) Address {
	s := string(path)
	idx := strings.LastIndex(s, "/dev_")
	if idx < 0 {
		return Address{}
	}
	addr, err := ParseAddress(strings.ReplaceAll(s[idx+len("/dev_"):], "_", ":"))
	if err != nil {
		return Address{}
	}
	return addr
}

func (a *pairingAgent) forwardPin(device dbus.ObjectPath, pin string) {
	a.events <- PinRequest{Address: addressFromPath(device), Pin: pin}
}

// RequestConfirmation asks the user to confirm a passkey. The passkey is
// forwarded for display and then auto-confirmed.
func (a *pairingAgent) RequestConfirmation(device dbus.ObjectPath, passkey uint32) *dbus.Error {
	pin := fmt.Sprintf("%06d", passkey)
	events.Bt.PairingPrompt("confirmation", string(device), pin)
	a.forwardPin(device, pin)
	return nil
}

// DisplayPasskey shows a passkey the remote device expects to be entered.
func (a *pairingAgent) DisplayPasskey(device dbus.ObjectPath, passkey uint32, entered uint16) *dbus.Error {
	pin := fmt.Sprintf("%06d", passkey)
	events.Bt.PairingPrompt("display-passkey", string(device), pin)
	a.forwardPin(device, pin)
	return nil
}

// DisplayPinCode shows a PIN code the remote device expects to be entered.
func (a *pairingAgent) DisplayPinCode(device dbus.ObjectPath, pincode string) *dbus.Error {
	events.Bt.PairingPrompt("display-pin", string(device), pincode)
	a.forwardPin(device, pincode)
	return nil
}

// RequestPasskey answers with a fixed default; devices needing a real
// passkey entry are not prompted through the UI.
func (a *pairingAgent) RequestPasskey(device dbus.ObjectPath) (uint32, *dbus.Error) {
	events.Bt.PairingPrompt("request-passkey", string(device), "")
	return 0, nil
}

// RequestPinCode answers with a fixed default PIN.
func (a *pairingAgent) RequestPinCode(device dbus.ObjectPath) (string, *dbus.Error) {
	events.Bt.PairingPrompt("request-pin", string(device), "")
	return "0000", nil
}

// RequestAuthorization accepts unconditionally.
func (a *pairingAgent) RequestAuthorization(device dbus.ObjectPath) *dbus.Error {
	events.Bt.PairingPrompt("authorize", string(device), "")
	return nil
}

// AuthorizeService accepts unconditionally.
func (a *pairingAgent) AuthorizeService(device dbus.ObjectPath, uuid string) *dbus.Error {
	return nil
}

func (a *pairingAgent) Release() *dbus.Error { return nil }
func (a *pairingAgent) Cancel() *dbus.Error  { return nil }

func (a *pairingAgent) Interface() string     { return agent.Agent1Interface }
func (a *pairingAgent) Path() dbus.ObjectPath { return agentPath }
