package bluetooth

// Session is the worker's handle to the host Bluetooth service. The worker
// is the only component that touches a Session; everything it learns is
// forwarded to the UI as plain Event values.
type Session interface {
	// Adapter resolves the default adapter. Workers treat a failure here
	// as fatal: there is nothing to manage without an adapter.
	Adapter() (Adapter, error)

	// RegisterAgent installs the pairing agent so service-initiated
	// pairing prompts are forwarded to events. The returned func
	// unregisters the agent. Registration failure is non-fatal: pairing
	// that needs interactive confirmation will fail at the service level,
	// but everything else keeps working.
	RegisterAgent(events chan<- Event) (func(), error)

	Close() error
}

// Adapter models the local radio. Property reads degrade to zero values on
// failure rather than returning errors; a single flaky property must not
// hide an otherwise healthy adapter or device.
type Adapter interface {
	Name() string
	Info() AdapterInfo
	SetPowered(on bool) error

	// Discover starts device discovery and returns the event stream.
	// Callers own the returned Discovery and must Close it to stop
	// scanning.
	Discover() (Discovery, error)

	// Addresses lists devices already known to the service.
	Addresses() []Address
	Device(addr Address) (Device, error)
	RemoveDevice(addr Address) error
}

// Discovery is a live scanning subscription.
type Discovery interface {
	Events() <-chan DiscoveryEvent
	Close()
}

// DiscoveryEventKind discriminates discovery stream entries.
type DiscoveryEventKind int

const (
	// DeviceAdded reports a device appearing in the service's object tree.
	DeviceAdded DiscoveryEventKind = iota
	// DeviceGone reports a device leaving the object tree.
	DeviceGone
	// AdapterChanged reports an adapter-level property change.
	AdapterChanged
)

// DiscoveryEvent is a single discovery stream entry. Address is unset for
// AdapterChanged.
type DiscoveryEvent struct {
	Kind    DiscoveryEventKind
	Address Address
}

// Device models one remote device handle.
type Device interface {
	// Snapshot reads every interesting property once. Failed reads become
	// absent/zero fields, never errors.
	Snapshot() DeviceInfo

	Paired() bool
	Trusted() bool

	Pair() error
	Connect() error
	Disconnect() error
	SetTrusted(trusted bool) error
	SetAlias(alias string) error
}
