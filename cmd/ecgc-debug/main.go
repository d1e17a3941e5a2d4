// Command ecgc-debug opens an interactive prompt for peeking and poking at
// the cartridge's memory map, the SPI bus and the SD card.
//
// Usage:
//
//	ecgc-debug [-v N] <serial-port>
//
// Integers are accepted in RGBDS notation: decimal, $-prefixed hexadecimal
// or %-prefixed binary.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/ecgc-project/ecgc-util/debugger"
	"github.com/ecgc-project/ecgc-util/sd"
	"github.com/ecgc-project/ecgc-util/spi"
	"github.com/ecgc-project/ecgc-util/transport"
	"github.com/ecgc-project/ecgc-util/util"
)

const helpText = `available commands:
  read ADDR [-f] [-s SIZE]          read SIZE bytes from ADDR (hexdump)
  write ADDR [-f] [-r TIMES] DATA.. write bytes to ADDR
  spi {flash,rtc,sd,none} [-k] [-r TIMES] DATA..
                                    exchange bytes over the SPI bus
  sd CMD ARG [-k] [-a]              send an SD (-a: application) command
  help                              show this help
  quit                              leave the prompt`

type shell struct {
	dbg    *debugger.Debugger
	bridge *spi.Bridge
	card   *sd.Card
}

func main() {
	verbosity := flag.Int("v", 0, "verbosity of program output (0-2)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: ecgc-debug [-v N] <serial-port>")
		os.Exit(2)
	}

	logger := util.NewLogger(*verbosity)

	t, err := transport.Open(flag.Arg(0), 0)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
	defer t.Close()

	dbg, err := debugger.New(t, debugger.WithLogger(logger))
	if err != nil {
		logger.Error(err.Error())
		if hint := util.DiagnosticHint(err); hint != "" {
			logger.Error(hint)
		}
		os.Exit(1)
	}

	err = dbg.Session(func() error {
		bridge := spi.New(dbg, logger)
		if err := bridge.Reset(); err != nil {
			return err
		}

		card := sd.New(bridge, logger)
		if err := card.PowerOn(); err != nil {
			return err
		}

		sh := &shell{dbg: dbg, bridge: bridge, card: card}
		return sh.run()
	})
	if err != nil {
		logger.Error(err.Error())
		if hint := util.DiagnosticHint(err); hint != "" {
			logger.Error(hint)
		}
		os.Exit(1)
	}
}

func (s *shell) run() error {
	fmt.Println("ecgc-debug")
	fmt.Println("type help or ? to list commands")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		var err error
		switch fields[0] {
		case "quit", "exit":
			return nil
		case "help", "?":
			fmt.Println(helpText)
		case "read":
			err = s.doRead(fields[1:])
		case "write":
			err = s.doWrite(fields[1:])
		case "spi":
			err = s.doSPI(fields[1:])
		case "sd":
			err = s.doSD(fields[1:])
		default:
			err = fmt.Errorf("unknown command %q", fields[0])
		}

		if err != nil {
			fmt.Printf("*** %v\n", err)
		}
	}
}

func (s *shell) doRead(args []string) error {
	var positional []string
	fixed := false
	sizeArg := "1"

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-f", "--fixed":
			fixed = true
		case "-s", "--size":
			i++
			if i == len(args) {
				return fmt.Errorf("-s requires a value")
			}
			sizeArg = args[i]
		default:
			positional = append(positional, args[i])
		}
	}
	if len(positional) != 1 {
		return fmt.Errorf("usage: read ADDR [-f] [-s SIZE]")
	}

	addr, err := parseUint16(positional[0], "address")
	if err != nil {
		return err
	}
	size, err := util.ParseRGBDSInt(sizeArg)
	if err != nil {
		return err
	}
	if size < 1 || size > 0xFFFF {
		return fmt.Errorf("size must be a 16-bit unsigned integer")
	}
	if !fixed && int64(addr)+size > 0x10000 {
		return fmt.Errorf("read would run outside the cartridge's memory map")
	}

	if err := s.dbg.SetAutoIncrement(!fixed); err != nil {
		return err
	}
	if err := s.dbg.SetAddress(addr); err != nil {
		return err
	}
	data, err := s.dbg.Read(int(size))
	if err != nil {
		return err
	}

	dumpBase := addr
	if fixed {
		dumpBase = 0
	}
	for _, line := range util.Hexdump(dumpBase, data) {
		fmt.Println(line)
	}
	return nil
}

func (s *shell) doWrite(args []string) error {
	positional, fixed, _, repeat, err := parseDataArgs(args)
	if err != nil {
		return err
	}
	if len(positional) < 2 {
		return fmt.Errorf("usage: write ADDR [-f] [-r TIMES] DATA ...")
	}

	addr, err := parseUint16(positional[0], "address")
	if err != nil {
		return err
	}
	data, err := parseDataBytes(positional[1:], repeat)
	if err != nil {
		return err
	}
	if !fixed && int(addr)+len(data) > 0x10000 {
		return fmt.Errorf("write would run outside the cartridge's memory map")
	}

	if err := s.dbg.SetAutoIncrement(!fixed); err != nil {
		return err
	}
	if err := s.dbg.SetAddress(addr); err != nil {
		return err
	}
	return s.dbg.Write(data)
}

func (s *shell) doSPI(args []string) error {
	positional, _, keep, repeat, err := parseDataArgs(args)
	if err != nil {
		return err
	}
	if len(positional) < 2 {
		return fmt.Errorf("usage: spi {flash,rtc,sd,none} [-k] [-r TIMES] DATA ...")
	}

	var target spi.ChipSelect
	switch positional[0] {
	case "flash":
		target = spi.SelectFlash
	case "rtc":
		target = spi.SelectRTC
	case "sd":
		target = spi.SelectSD
	case "none":
		target = spi.SelectNone
	default:
		return fmt.Errorf("unknown SPI peripheral %q", positional[0])
	}

	data, err := parseDataBytes(positional[1:], repeat)
	if err != nil {
		return err
	}

	if err := s.bridge.Select(target); err != nil {
		return err
	}
	read, err := s.bridge.WriteRead(data)
	if !keep || err != nil {
		if derr := s.bridge.Deselect(); derr != nil && err == nil {
			err = derr
		}
	}
	if err != nil {
		return err
	}

	for _, line := range util.Hexdump(0, read) {
		fmt.Println(line)
	}
	return nil
}

func (s *shell) doSD(args []string) error {
	var positional []string
	keep, app := false, false

	for _, arg := range args {
		switch arg {
		case "-k", "--keep-selected":
			keep = true
		case "-a", "--app-command":
			app = true
		default:
			positional = append(positional, arg)
		}
	}
	if len(positional) != 2 {
		return fmt.Errorf("usage: sd CMD ARG [-k] [-a]")
	}

	cmd, err := util.ParseRGBDSInt(positional[0])
	if err != nil {
		return err
	}
	arg, err := util.ParseRGBDSInt(positional[1])
	if err != nil {
		return err
	}
	if cmd < 0 || cmd > 0x3F {
		return fmt.Errorf("cmd must be a 6-bit unsigned integer")
	}
	if arg < 0 || arg > 0xFFFFFFFF {
		return fmt.Errorf("arg must be a 32-bit unsigned integer")
	}

	var resp *sd.Response
	if app {
		resp, err = s.card.SendACmd(uint8(cmd), uint32(arg), keep)
	} else {
		resp, err = s.card.SendCmd(uint8(cmd), uint32(arg), keep)
	}
	if err != nil {
		return err
	}

	fmt.Printf("%s response: %+v\n", resp.Kind, *resp)
	return nil
}

func parseDataArgs(args []string) (positional []string, fixed, keep bool, repeat int64, err error) {
	repeat = 1
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-f", "--fixed":
			fixed = true
		case "-k", "--keep-selected":
			keep = true
		case "-r", "--repeat":
			i++
			if i == len(args) {
				return nil, false, false, 0, fmt.Errorf("-r requires a value")
			}
			repeat, err = util.ParseRGBDSInt(args[i])
			if err != nil {
				return nil, false, false, 0, err
			}
			if repeat < 1 {
				return nil, false, false, 0, fmt.Errorf("repeat must be at least 1")
			}
		default:
			positional = append(positional, args[i])
		}
	}
	return positional, fixed, keep, repeat, nil
}

func parseDataBytes(fields []string, repeat int64) ([]byte, error) {
	pattern := make([]byte, 0, len(fields))
	for _, f := range fields {
		v, err := util.ParseRGBDSInt(f)
		if err != nil {
			return nil, err
		}
		if v < 0 || v > 0xFF {
			return nil, fmt.Errorf("value %q is not a valid 8-bit unsigned integer", f)
		}
		pattern = append(pattern, byte(v))
	}

	data := make([]byte, 0, len(pattern)*int(repeat))
	for i := int64(0); i < repeat; i++ {
		data = append(data, pattern...)
	}
	return data, nil
}

func parseUint16(s, what string) (uint16, error) {
	v, err := util.ParseRGBDSInt(s)
	if err != nil {
		return 0, err
	}
	if v < 0 || v > 0xFFFF {
		return 0, fmt.Errorf("%s must be a 16-bit unsigned integer", what)
	}
	return uint16(v), nil
}
