package bluetooth

import (
	"context"
	"fmt"

	"github.com/CPT-Dawn/VoidLink/internal/config"
	"github.com/CPT-Dawn/VoidLink/internal/logging"
	"github.com/CPT-Dawn/VoidLink/internal/logging/events"
)

// Worker owns the live Bluetooth session. It executes commands strictly in
// arrival order, one at a time, and emits events back
// to the UI. It terminates when the command channel is closed; no explicit
// stop command exists.
type Worker struct {
	cfg      *config.Config
	session  Session
	commands <-chan Command
	events   chan<- Event

	adapter   Adapter
	discovery Discovery
	known     map[Address]struct{}
}

// NewWorker wires a worker to its session and channels. Run starts it.
func NewWorker(cfg *config.Config, session Session, commands <-chan Command, evts chan<- Event) *Worker {
	return &Worker{
		cfg:      cfg,
		session:  session,
		commands: commands,
		events:   evts,
		known:    make(map[Address]struct{}),
	}
}

// Run executes the worker until the command channel closes. Fatal startup
// failures (no adapter) emit a single Error event and return; the UI keeps
// running against a visibly non-functional adapter.
func (w *Worker) Run() {
	defer w.shutdown()

	if _, err := w.session.RegisterAgent(w.events); err != nil {
		// Non-fatal: pairing prompts that need confirmation will fail at
		// the service level, everything else still works.
		logging.Error(fmt.Errorf("register pairing agent: %w", err))
	}

	adapter, err := w.session.Adapter()
	if err != nil {
		w.emit(Error{Message: fmt.Sprintf("No Bluetooth adapter found: %v", err)})
		return
	}
	w.adapter = adapter
	events.Bt.AdapterResolved(adapter.Name())

	w.emitAdapterState()

	// Seed the known-address set from devices the service already tracks,
	// so later discovery sightings are classified as updates.
	for _, addr := range adapter.Addresses() {
		dev, err := adapter.Device(addr)
		if err != nil {
			continue
		}
		w.known[addr] = struct{}{}
		w.emit(DeviceFound{Device: dev.Snapshot()})
	}

	for {
		var discoveryCh <-chan DiscoveryEvent
		if w.discovery != nil {
			discoveryCh = w.discovery.Events()
		}
		select {
		case cmd, ok := <-w.commands:
			if !ok {
				return
			}
			w.handleCommand(cmd)
		case ev, ok := <-discoveryCh:
			if !ok {
				w.discovery = nil
				continue
			}
			w.handleDiscovery(ev)
		}
	}
}

func (w *Worker) shutdown() {
	if w.discovery != nil {
		w.discovery.Close()
	}
	if err := w.session.Close(); err != nil {
		logging.Error(fmt.Errorf("close bluetooth session: %w", err))
	}
	events.Bt.WorkerStopped()
}

func (w *Worker) emit(ev Event) {
	w.events <- ev
}

func (w *Worker) emitAdapterState() {
	w.emit(AdapterState{Adapter: w.adapter.Info()})
}

func (w *Worker) handleCommand(cmd Command) {
	switch c := cmd.(type) {
	case EnableAdapter:
		if err := w.adapter.SetPowered(true); err != nil {
			w.emit(Error{Message: fmt.Sprintf("Failed to enable adapter: %v", err)})
		}
		// Always re-emit so the UI reflects the real state even on failure.
		w.emitAdapterState()

	case DisableAdapter:
		if err := w.adapter.SetPowered(false); err != nil {
			w.emit(Error{Message: fmt.Sprintf("Failed to disable adapter: %v", err)})
		}
		w.emitAdapterState()

	case StartScan:
		discovery, err := w.adapter.Discover()
		if err != nil {
			w.emit(Error{Message: fmt.Sprintf("Failed to start scanning: %v", err)})
		} else {
			if w.discovery != nil {
				w.discovery.Close()
			}
			w.discovery = discovery
			w.emit(ScanningChanged{Scanning: true})
			events.Bt.DiscoveryStarted()
		}
		w.emitAdapterState()

	case StopScan:
		if w.discovery != nil {
			w.discovery.Close()
			w.discovery = nil
		}
		w.emit(ScanningChanged{Scanning: false})
		w.emitAdapterState()
		events.Bt.DiscoveryStopped()

	case Connect:
		dev, err := w.adapter.Device(c.Address)
		if err != nil {
			w.emit(ConnectionResult{
				Address: c.Address,
				Err:     fmt.Sprintf("Device not found on %s: %v", w.adapter.Name(), err),
			})
			return
		}
		if err := w.connectLifecycle(dev); err != nil {
			w.emit(ConnectionResult{Address: c.Address, Err: err.Error()})
			return
		}
		w.emit(DeviceUpdated{Device: dev.Snapshot()})
		w.emit(ConnectionResult{Address: c.Address, Success: true})

	case Disconnect:
		dev, err := w.adapter.Device(c.Address)
		if err != nil {
			w.emit(Error{Message: fmt.Sprintf("Device not found: %v", err)})
			return
		}
		if err := dev.Disconnect(); err != nil {
			w.emit(Error{Message: fmt.Sprintf("Disconnect failed: %v", err)})
		}
		// Re-emit regardless of success so the UI cannot desync.
		w.emit(DeviceUpdated{Device: dev.Snapshot()})

	case Pair:
		dev, err := w.adapter.Device(c.Address)
		if err != nil {
			w.emit(PairResult{Address: c.Address, Err: fmt.Sprintf("Device not found: %v", err)})
			return
		}
		if err := dev.Pair(); err != nil {
			w.emit(PairResult{Address: c.Address, Err: err.Error()})
			return
		}
		w.emit(DeviceUpdated{Device: dev.Snapshot()})
		w.emit(PairResult{Address: c.Address, Success: true})

	case Trust:
		dev, err := w.adapter.Device(c.Address)
		if err != nil {
			w.emit(Error{Message: fmt.Sprintf("Device not found: %v", err)})
			return
		}
		if err := dev.SetTrusted(!dev.Trusted()); err != nil {
			w.emit(Error{Message: fmt.Sprintf("Failed to toggle trust: %v", err)})
		}
		w.emit(DeviceUpdated{Device: dev.Snapshot()})

	case RemoveDevice:
		if err := w.adapter.RemoveDevice(c.Address); err != nil {
			w.emit(Error{Message: fmt.Sprintf("Failed to remove device: %v", err)})
			return
		}
		delete(w.known, c.Address)
		w.emit(DeviceRemoved{Address: c.Address})

	case RefreshDevice:
		dev, err := w.adapter.Device(c.Address)
		if err != nil {
			w.emit(Error{Message: fmt.Sprintf("Device not found: %v", err)})
			return
		}
		w.emit(DeviceUpdated{Device: dev.Snapshot()})

	case SetAlias:
		dev, err := w.adapter.Device(c.Address)
		if err != nil {
			w.emit(Error{Message: fmt.Sprintf("Device not found: %v", err)})
			return
		}
		// Fire-and-forget: success is not separately confirmed.
		if err := dev.SetAlias(c.Alias); err != nil {
			w.emit(Error{Message: fmt.Sprintf("Failed to set alias: %v", err)})
		}
	}
}

func (w *Worker) handleDiscovery(ev DiscoveryEvent) {
	switch ev.Kind {
	case DeviceAdded:
		dev, err := w.adapter.Device(ev.Address)
		if err != nil {
			return
		}
		info := dev.Snapshot()
		if _, seen := w.known[ev.Address]; seen {
			w.emit(DeviceUpdated{Device: info})
		} else {
			w.known[ev.Address] = struct{}{}
			w.emit(DeviceFound{Device: info})
		}
	case DeviceGone:
		delete(w.known, ev.Address)
		w.emit(DeviceRemoved{Address: ev.Address})
	case AdapterChanged:
		// No diffing: re-emit the full snapshot.
		w.emitAdapterState()
	}
}

// connectLifecycle runs pair → trust → connect under a single deadline.
// A step already satisfied is skipped; the trust step additionally requires
// the auto-trust policy. Any step failure short-circuits the rest.
func (w *Worker) connectLifecycle(dev Device) error {
	timeout := w.cfg.Bluetooth.ConnectionTimeout
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// BlueZ method calls are not context-aware, so the deadline is
	// enforced around the whole sequence; a timed-out step finishes in
	// the background.
	done := make(chan error, 1)
	go func() { done <- w.runConnectSteps(dev) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("connection timed out after %s", timeout)
	}
}

func (w *Worker) runConnectSteps(dev Device) error {
	if !dev.Paired() {
		if err := dev.Pair(); err != nil {
			return err
		}
	}
	if w.cfg.Bluetooth.AutoTrustOnPair && !dev.Trusted() {
		if err := dev.SetTrusted(true); err != nil {
			return err
		}
	}
	return dev.Connect()
}
