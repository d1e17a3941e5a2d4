// Package debugger provides the stateful client for the ecgc cartridge's
// uart_debug core.
//
// # Overview
//
// A Debugger owns the serial transport for its entire lifetime and walks a
// two-state machine, Disabled and Enabled. All addressed operations
// (SetAddress, auto-increment control, Read, Write) require the core to be
// enabled and fail locally with a *StateError before any wire I/O
// otherwise.
//
// # Basic Usage
//
//	t, err := transport.Open("/dev/ttyUSB0", 0)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	dbg, err := debugger.New(t)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer dbg.Close()
//
//	err = dbg.Session(func() error {
//	    if err := dbg.EnableAutoIncrement(); err != nil {
//	        return err
//	    }
//	    if err := dbg.SetAddress(0x4000); err != nil {
//	        return err
//	    }
//	    return dbg.Write(image)
//	})
//
// Session pairs EnableCore with a guaranteed DisableCore on every exit
// path, so the cartridge is never left with the core enabled after an
// error.
//
// # Configuration Options
//
// Customize behavior with functional options:
//
//	dbg, err := debugger.New(t,
//	    debugger.WithLogger(myLogger),
//	    debugger.WithByteDelay(time.Millisecond),
//	    debugger.WithProgressCallback(progressFunc),
//	)
//
// # Concurrency
//
// The protocol's strict request/response alternation makes concurrent use
// corrupt framing immediately; a Debugger must be driven from one goroutine
// at a time.
package debugger
