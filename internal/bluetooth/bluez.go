package bluetooth

import (
	"fmt"
	"strings"

	"github.com/godbus/dbus/v5"
	"github.com/muka/go-bluetooth/api"
	"github.com/muka/go-bluetooth/bluez"
	"github.com/muka/go-bluetooth/bluez/profile/adapter"
	"github.com/muka/go-bluetooth/bluez/profile/battery"
	"github.com/muka/go-bluetooth/bluez/profile/device"
)

const bluezBusName = "org.bluez"

// bluezSession implements Session over the BlueZ D-Bus service.
type bluezSession struct {
	conn *dbus.Conn
}

// NewSession connects to the system bus and verifies BlueZ is present.
func NewSession() (Session, error) {
	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, fmt.Errorf("connect to system bus: %w", err)
	}
	var names []string
	if err := conn.BusObject().Call("org.freedesktop.DBus.ListNames", 0).Store(&names); err != nil {
		return nil, fmt.Errorf("list bus names: %w", err)
	}
	for _, n := range names {
		if n == bluezBusName {
			return &bluezSession{conn: conn}, nil
		}
	}
	return nil, fmt.Errorf("%s not found on system bus; is bluetooth.service running?", bluezBusName)
}

func (s *bluezSession) Adapter() (Adapter, error) {
	a, err := api.GetDefaultAdapter()
	if err != nil {
		return nil, fmt.Errorf("default adapter: %w", err)
	}
	id, err := a.GetAdapterID()
	if err != nil {
		return nil, fmt.Errorf("adapter id: %w", err)
	}
	return &bluezAdapter{adapter: a, id: id}, nil
}

func (s *bluezSession) RegisterAgent(evts chan<- Event) (func(), error) {
	return registerAgent(s.conn, evts)
}

func (s *bluezSession) Close() error {
	// The shared api connection is owned by the library; only the session's
	// own bus handle is closed here.
	return s.conn.Close()
}

// bluezAdapter implements Adapter over org.bluez.Adapter1.
type bluezAdapter struct {
	adapter *adapter.Adapter1
	id      string
}

func (a *bluezAdapter) Name() string { return a.id }

func (a *bluezAdapter) Info() AdapterInfo {
	info := AdapterInfo{Name: a.id}
	if addr, err := ParseAddress(a.adapter.Properties.Address); err == nil {
		info.Address = &addr
	}
	info.Powered, _ = a.adapter.GetPowered()
	info.Discovering, _ = a.adapter.GetDiscovering()
	info.Discoverable, _ = a.adapter.GetDiscoverable()
	return info
}

func (a *bluezAdapter) SetPowered(on bool) error {
	return a.adapter.SetPowered(on)
}

func (a *bluezAdapter) Discover() (Discovery, error) {
	if err := a.adapter.StartDiscovery(); err != nil {
		return nil, fmt.Errorf("start discovery: %w", err)
	}
	discovered, cancel, err := a.adapter.OnDeviceDiscovered()
	if err != nil {
		_ = a.adapter.StopDiscovery()
		return nil, fmt.Errorf("watch discovery: %w", err)
	}
	props, err := a.adapter.WatchProperties()
	if err != nil {
		// Adapter-level property changes are best effort; discovery still
		// works without them.
		props = nil
	}

	d := &bluezDiscovery{
		adapter: a,
		cancel:  cancel,
		events:  make(chan DiscoveryEvent, 16),
		stop:    make(chan struct{}),
	}
	go d.pump(discovered, props)
	return d, nil
}

func (a *bluezAdapter) Addresses() []Address {
	devices, err := a.adapter.GetDevices()
	if err != nil {
		return nil
	}
	addrs := make([]Address, 0, len(devices))
	for _, dev := range devices {
		if addr, err := ParseAddress(dev.Properties.Address); err == nil {
			addrs = append(addrs, addr)
		}
	}
	return addrs
}

func (a *bluezAdapter) devicePath(addr Address) dbus.ObjectPath {
	escaped := strings.ReplaceAll(addr.String(), ":", "_")
	return dbus.ObjectPath("/org/bluez/" + a.id + "/dev_" + escaped)
}

func (a *bluezAdapter) Device(addr Address) (Device, error) {
	dev, err := device.NewDevice1(a.devicePath(addr))
	if err != nil || dev == nil {
		return nil, fmt.Errorf("device %s: %w", addr, err)
	}
	return &bluezDevice{dev: dev, path: a.devicePath(addr), addr: addr}, nil
}

func (a *bluezAdapter) RemoveDevice(addr Address) error {
	return a.adapter.RemoveDevice(a.devicePath(addr))
}

// bluezDiscovery adapts the library's discovery and property-change
// channels into one DiscoveryEvent stream.
type bluezDiscovery struct {
	adapter *bluezAdapter
	cancel  func()
	events  chan DiscoveryEvent
	stop    chan struct{}
}

func (d *bluezDiscovery) pump(discovered chan *adapter.DeviceDiscovered, props chan *bluez.PropertyChanged) {
	defer close(d.events)
	for {
		select {
		case <-d.stop:
			return
		case ev, ok := <-discovered:
			if !ok {
				return
			}
			kind := DeviceAdded
			if ev.Type == adapter.DeviceRemoved {
				kind = DeviceGone
			}
			select {
			case d.events <- DiscoveryEvent{Kind: kind, Address: addressFromPath(ev.Path)}:
			case <-d.stop:
				return
			}
		case _, ok := <-props:
			if !ok {
				props = nil
				continue
			}
			select {
			case d.events <- DiscoveryEvent{Kind: AdapterChanged}:
			case <-d.stop:
				return
			}
		}
	}
}

func (d *bluezDiscovery) Events() <-chan DiscoveryEvent { return d.events }

func (d *bluezDiscovery) Close() {
	close(d.stop)
	d.cancel()
	_ = d.adapter.adapter.StopDiscovery()
}

// bluezDevice implements Device over org.bluez.Device1.
type bluezDevice struct {
	dev  *device.Device1
	path dbus.ObjectPath
	addr Address
}

func (d *bluezDevice) Snapshot() DeviceInfo {
	// Every read is a D-Bus call that can fail; failures become absent or
	// zero fields so one flaky property cannot hide the device.
	info := DeviceInfo{Address: d.addr}
	info.Name, _ = d.dev.GetName()
	if alias, err := d.dev.GetAlias(); err == nil && alias != "" {
		info.Alias = alias
	} else {
		info.Alias = d.addr.String()
	}
	info.Icon, _ = d.dev.GetIcon()
	if rssi, err := d.dev.GetRSSI(); err == nil && rssi != 0 {
		v := rssi
		info.RSSI = &v
	}
	if tx, err := d.dev.GetTxPower(); err == nil && tx != 0 {
		v := tx
		info.TxPower = &v
	}
	info.Paired, _ = d.dev.GetPaired()
	info.Trusted, _ = d.dev.GetTrusted()
	info.Connected, _ = d.dev.GetConnected()
	info.Class, _ = d.dev.GetClass()
	if batt, err := battery.NewBattery1(d.path); err == nil && batt != nil {
		if pct, err := batt.GetPercentage(); err == nil {
			v := pct
			info.Battery = &v
		}
	}
	return info
}

func (d *bluezDevice) Paired() bool {
	paired, _ := d.dev.GetPaired()
	return paired
}

func (d *bluezDevice) Trusted() bool {
	trusted, _ := d.dev.GetTrusted()
	return trusted
}

func (d *bluezDevice) Pair() error       { return d.dev.Pair() }
func (d *bluezDevice) Connect() error    { return d.dev.Connect() }
func (d *bluezDevice) Disconnect() error { return d.dev.Disconnect() }

func (d *bluezDevice) SetTrusted(trusted bool) error { return d.dev.SetTrusted(trusted) }
func (d *bluezDevice) SetAlias(alias string) error   { return d.dev.SetAlias(alias) }
