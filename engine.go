package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"voz/bridge"
	"voz/ibus"
	"voz/log"
	"voz/shutdown"
)

// runEngine is the `voz engine` process: it registers the input-method
// engine with the IBus daemon and relays producer commands from the
// rendezvous socket into the focused application. IBus spawns it from the
// component definition, but it can also be run by hand for debugging.
func runEngine(args []string) {
	fs := flag.NewFlagSet("voz engine", flag.ExitOnError)
	socketFlag := fs.String("socket", bridge.SocketPath(), "rendezvous socket path")
	capsFlag := fs.String("caps", bridge.CapsPath(), "capability file path")
	logPathFlag := fs.String("logpath", "", "log directory path (default: OS-specific location)")
	debugFlag := fs.Bool("debug", false, "log per-command diagnostics")
	fs.Parse(args)

	logPath, err := log.ResolveDir(*logPathFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to resolve log directory: %v\n", err)
		os.Exit(1)
	}
	log.SetDir(logPath)
	log.SetDebug(*debugFlag)
	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}
	defer log.Close()

	bus, err := ibus.Connect()
	if err != nil {
		log.Errorf("ibus connect: %v", err)
		fmt.Fprintf(os.Stderr, "Error: cannot reach the IBus daemon: %v\n", err)
		os.Exit(1)
	}
	defer bus.Close()

	disp := bridge.NewDispatcher()

	hooks := ibus.Hooks{
		FocusIn: func(e *ibus.Engine) {
			disp.SetTarget(e)
		},
		FocusOut: func(e *ibus.Engine) {
			// Focus moved away mid-utterance; drop the preview rather than
			// leave it dangling in the old window.
			disp.Dispatch(bridge.Command{Op: bridge.OpPreview, Text: ""})
		},
		Released: func(e *ibus.Engine) {
			disp.ClearTarget(e)
		},
	}
	_, err = ibus.NewFactory(bus, *capsFlag, hooks, func(e *ibus.Engine) {
		disp.SetTarget(e)
	})
	if err != nil {
		log.Errorf("ibus factory: %v", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := bus.RegisterComponent(); err != nil {
		log.Errorf("ibus register: %v", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	listener, err := bridge.Listen(*socketFlag, disp.Dispatch)
	if err != nil {
		log.Errorf("listen: %v", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	go listener.Serve()

	log.Infof("engine ready, socket %s", *socketFlag)

	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	shutdown.Notify(sigChan)
	go func() {
		<-sigChan
		cancel()
	}()

	disp.Run(ctx)

	log.Info("engine shutting down")
	listener.Close()
	os.Remove(*capsFlag)
}
