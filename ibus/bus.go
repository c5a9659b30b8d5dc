package ibus

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/godbus/dbus/v5"
)

// IBus runs its own private bus, not the session bus. The daemon
// publishes its address either in IBUS_ADDRESS or in a per-display file
// under the user's config directory.

const (
	ServiceIBus = "org.freedesktop.IBus"
	PathIBus    = dbus.ObjectPath("/org/freedesktop/IBus")
	PathFactory = dbus.ObjectPath("/org/freedesktop/IBus/Factory")
	ifaceIBus   = "org.freedesktop.IBus"
	BusName     = "org.freedesktop.IBus.Voz"
	EngineName  = "voz"
)

// Bus is a connection to the IBus daemon.
type Bus struct {
	conn *dbus.Conn
}

// Connect dials the IBus daemon. An unreachable daemon is a startup
// failure for the engine process; there is nothing useful to do without it.
func Connect() (*Bus, error) {
	addr, err := busAddress()
	if err != nil {
		return nil, err
	}
	conn, err := dbus.Dial(addr)
	if err != nil {
		return nil, fmt.Errorf("dial ibus at %s: %w", addr, err)
	}
	if err := conn.Auth(nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ibus auth: %w", err)
	}
	if err := conn.Hello(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ibus hello: %w", err)
	}
	return &Bus{conn: conn}, nil
}

func (b *Bus) Conn() *dbus.Conn { return b.conn }

func (b *Bus) Close() error { return b.conn.Close() }

// RegisterComponent announces the component and its engine to the daemon,
// then claims the component's well-known name so the daemon can route
// CreateEngine calls to us.
func (b *Bus) RegisterComponent() error {
	comp := newComponent()
	obj := b.conn.Object(ServiceIBus, PathIBus)
	if call := obj.Call(ifaceIBus+".RegisterComponent", 0, dbus.MakeVariant(comp)); call.Err != nil {
		return fmt.Errorf("register component: %w", call.Err)
	}
	reply, err := b.conn.RequestName(BusName, 0)
	if err != nil {
		return fmt.Errorf("request name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("request name: not primary owner (reply %d)", reply)
	}
	return nil
}

func busAddress() (string, error) {
	if addr := os.Getenv("IBUS_ADDRESS"); addr != "" {
		return addr, nil
	}

	path, err := addressFilePath()
	if err != nil {
		return "", err
	}
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("ibus address file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if v, ok := strings.CutPrefix(line, "IBUS_ADDRESS="); ok {
			return v, nil
		}
	}
	return "", fmt.Errorf("no IBUS_ADDRESS in %s", path)
}

// addressFilePath builds the per-display address file path:
// $XDG_CONFIG_HOME/ibus/bus/<machine-id>-unix-<display>.
func addressFilePath() (string, error) {
	id, err := machineID()
	if err != nil {
		return "", err
	}

	display := os.Getenv("DISPLAY")
	if display == "" {
		display = ":0"
	}
	if i := strings.IndexByte(display, ':'); i >= 0 {
		display = display[i+1:]
	}
	if i := strings.IndexByte(display, '.'); i >= 0 {
		display = display[:i]
	}

	cfg := os.Getenv("XDG_CONFIG_HOME")
	if cfg == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		cfg = filepath.Join(home, ".config")
	}
	return filepath.Join(cfg, "ibus", "bus", fmt.Sprintf("%s-unix-%s", id, display)), nil
}

func machineID() (string, error) {
	for _, p := range []string{"/var/lib/dbus/machine-id", "/etc/machine-id"} {
		data, err := os.ReadFile(p)
		if err == nil {
			return strings.TrimSpace(string(data)), nil
		}
	}
	return "", fmt.Errorf("no machine-id file")
}
