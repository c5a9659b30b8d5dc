package ibus

import (
	"fmt"

	"github.com/godbus/dbus/v5"

	"voz/log"
)

const ifaceFactory = "org.freedesktop.IBus.Factory"

// Factory creates engine instances on demand from the daemon. Each
// CreateEngine call corresponds to a (re)activation of the input method;
// the newest engine is always the one commands should reach.
type Factory struct {
	bus      *Bus
	capsPath string
	hooks    Hooks
	created  func(*Engine)

	count int
}

// NewFactory exports the factory object on the bus. created fires for
// every engine the daemon asks for, before the daemon learns its path.
func NewFactory(bus *Bus, capsPath string, hooks Hooks, created func(*Engine)) (*Factory, error) {
	f := &Factory{bus: bus, capsPath: capsPath, hooks: hooks, created: created}
	if err := bus.conn.Export(f, PathFactory, ifaceFactory); err != nil {
		return nil, fmt.Errorf("export factory: %w", err)
	}
	return f, nil
}

// CreateEngine is called by the daemon when the user switches to this
// input method.
func (f *Factory) CreateEngine(name string) (dbus.ObjectPath, *dbus.Error) {
	f.count++
	path := dbus.ObjectPath(fmt.Sprintf("/org/freedesktop/IBus/Engine/%d", f.count))

	engine := &Engine{
		conn:     f.bus.conn,
		path:     path,
		capsPath: f.capsPath,
		hooks:    f.hooks,
	}
	if err := f.bus.conn.Export(engine, path, ifaceEngine); err != nil {
		log.Errorf("export engine: %v", err)
		return "", dbus.MakeFailedError(err)
	}

	log.Infof("created engine %s at %s", name, path)
	if f.created != nil {
		f.created(engine)
	}
	return path, nil
}
