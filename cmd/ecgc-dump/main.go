// Command ecgc-dump reads a window of the cartridge's memory map into a
// file through the debug core.
//
// Usage:
//
//	ecgc-dump -n SIZE [-s OFFSET] [-v N] <serial-port> <output-file>
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/ecgc-project/ecgc-util/debugger"
	"github.com/ecgc-project/ecgc-util/transport"
	"github.com/ecgc-project/ecgc-util/util"
)

const readBufferSize = 1024

func main() {
	dumpSizeArg := flag.String("n", "", "number of bytes to dump (required)")
	offsetArg := flag.String("s", "0", "number of bytes to skip from the start")
	verbosity := flag.Int("v", 0, "verbosity of program output (0-2)")
	flag.Parse()

	if flag.NArg() != 2 || *dumpSizeArg == "" {
		fmt.Fprintln(os.Stderr, "usage: ecgc-dump -n SIZE [-s OFFSET] [-v N] <serial-port> <output-file>")
		os.Exit(2)
	}
	portPath, outPath := flag.Arg(0), flag.Arg(1)

	logger := util.NewLogger(*verbosity)

	dumpSize, err := util.ParseSize(*dumpSizeArg)
	if err != nil {
		logger.Error("error while parsing dump size", "err", err)
		os.Exit(1)
	}
	offset, err := util.ParseSize(*offsetArg)
	if err != nil {
		logger.Error("error while parsing start offset", "err", err)
		os.Exit(1)
	}

	// Clip the dump so it never runs off the end of the 64k memory map.
	if offset+dumpSize > 0x10000 {
		logger.Info("dump exceeds cartridge memory map, clipping to address 0xFFFF")
		dumpSize = 0x10000 - offset
	}
	if offset > 0xFFFF || dumpSize < 1 {
		logger.Error("start offset is outside the cartridge memory map")
		os.Exit(1)
	}

	start := time.Now()
	if err := dump(portPath, outPath, uint16(offset), dumpSize, logger); err != nil {
		logger.Error(err.Error())
		if hint := util.DiagnosticHint(err); hint != "" {
			logger.Error(hint)
		}
		os.Exit(1)
	}

	composed, _ := util.ComposeSize(dumpSize)
	fmt.Printf("dumped %sB successfully in %.2f seconds\n", composed, time.Since(start).Seconds())
}

func dump(portPath, outPath string, offset uint16, dumpSize int64, logger *util.StdLogger) error {
	t, err := transport.Open(portPath, 0)
	if err != nil {
		return err
	}
	defer t.Close()

	dbg, err := debugger.New(t, debugger.WithLogger(logger))
	if err != nil {
		return err
	}

	out, err := os.Create(outPath)
	if err != nil {
		return errors.Wrap(err, "create output file")
	}
	defer out.Close()

	return dbg.Session(func() error {
		if err := dbg.EnableAutoIncrement(); err != nil {
			return err
		}
		if err := dbg.SetAddress(offset); err != nil {
			return err
		}

		for left := dumpSize; left > 0; {
			amount := left
			if amount > readBufferSize {
				amount = readBufferSize
			}
			chunk, err := dbg.Read(int(amount))
			if err != nil {
				return err
			}
			if _, err := out.Write(chunk); err != nil {
				return errors.Wrap(err, "write output file")
			}
			left -= amount
		}
		return nil
	})
}
