// Command ecgc-upload streams a binary or Intel HEX image into the ecgc
// cartridge through the debug core.
//
// Usage:
//
//	ecgc-upload -t boot [-s SIZE] [-v N] <serial-port> <image-file>
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/marcinbor85/gohex"
	"github.com/pkg/errors"

	"github.com/ecgc-project/ecgc-util/debugger"
	"github.com/ecgc-project/ecgc-util/transport"
	"github.com/ecgc-project/ecgc-util/util"
)

const readBufferSize = 1024

type targetConfig struct {
	maxSize      int64
	defaultSize  int64
	startAddress uint16
}

var targetConfigs = map[string]*targetConfig{
	"boot":  {maxSize: 4096, defaultSize: 4096, startAddress: 0x0000},
	"dram":  nil, // upload target not implemented in the cartridge firmware
	"flash": nil,
}

func main() {
	target := flag.String("t", "", "destination target of the image upload (boot, dram, flash)")
	sizeArg := flag.String("s", "0", "number of bytes to upload; 0 uploads the whole file up to the target size")
	verbosity := flag.Int("v", 0, "verbosity of program output (0-2)")
	flag.Parse()

	if flag.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "usage: ecgc-upload -t TARGET [-s SIZE] [-v N] <serial-port> <image-file>")
		os.Exit(2)
	}
	portPath, imagePath := flag.Arg(0), flag.Arg(1)

	logger := util.NewLogger(*verbosity)

	cfg, ok := targetConfigs[*target]
	if !ok {
		logger.Error("unknown target", "target", *target)
		os.Exit(1)
	}
	if cfg == nil {
		logger.Error("target is not yet implemented", "target", *target)
		os.Exit(1)
	}

	size, err := util.ParseSize(*sizeArg)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}

	image, err := loadImage(imagePath, cfg)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}

	if size == 0 {
		size = cfg.defaultSize
		composed, _ := util.ComposeSize(size)
		logger.Info("no size given, assuming default size based on target", "size", composed)
	}
	if size > cfg.maxSize {
		size = cfg.maxSize
		composed, _ := util.ComposeSize(size)
		logger.Info("given size is larger than allowed, clipping based on target", "size", composed)
	}
	size, left := clipToImage(size, int64(len(image)))
	if left > 0 {
		logger.Info("given size argument expects more bytes to be written, clipping to image size", "left", left)
	}

	start := time.Now()
	if err := upload(portPath, image[:size], cfg.startAddress, logger); err != nil {
		logger.Error(err.Error())
		if hint := util.DiagnosticHint(err); hint != "" {
			logger.Error(hint)
		}
		os.Exit(1)
	}

	fmt.Printf("upload finished successfully in %.2f seconds\n", time.Since(start).Seconds())
}

// loadImage reads the image file, expanding Intel HEX inputs into the flat
// window the target occupies.
func loadImage(path string, cfg *targetConfig) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open image file")
	}
	defer f.Close()

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".hex" || ext == ".ihx" {
		mem := gohex.NewMemory()
		if err := mem.ParseIntelHex(f); err != nil {
			return nil, errors.Wrap(err, "parse Intel HEX image")
		}

		image := make([]byte, cfg.maxSize)
		for _, seg := range mem.GetDataSegments() {
			end := int64(seg.Address) + int64(len(seg.Data))
			if end > cfg.maxSize {
				return nil, errors.Errorf("HEX segment at 0x%04X overruns the %s-byte target window",
					seg.Address, composeOrRaw(cfg.maxSize))
			}
			copy(image[seg.Address:end], seg.Data)
		}
		return image, nil
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.Wrap(err, "read image file")
	}
	return data, nil
}

func upload(portPath string, image []byte, startAddress uint16, logger *util.StdLogger) error {
	t, err := transport.Open(portPath, 0)
	if err != nil {
		return err
	}
	defer t.Close()

	dbg, err := debugger.New(t,
		debugger.WithLogger(logger),
		debugger.WithProgressCallback(func(p debugger.Progress) {
			logger.Info("upload progress", "done", p.BytesDone, "total", p.BytesTotal)
		}),
	)
	if err != nil {
		return err
	}

	return dbg.Session(func() error {
		if err := dbg.EnableAutoIncrement(); err != nil {
			return err
		}
		if err := dbg.SetAddress(startAddress); err != nil {
			return err
		}

		for off := 0; off < len(image); off += readBufferSize {
			end := off + readBufferSize
			if end > len(image) {
				end = len(image)
			}
			if err := dbg.Write(image[off:end]); err != nil {
				return err
			}
		}
		return nil
	})
}

// clipToImage bounds size to what the image actually provides and returns
// the number of requested bytes the image is short of.
func clipToImage(size, imageLen int64) (clipped, left int64) {
	if size > imageLen {
		return imageLen, size - imageLen
	}
	return size, 0
}

func composeOrRaw(size int64) string {
	s, err := util.ComposeSize(size)
	if err != nil {
		return fmt.Sprintf("%d", size)
	}
	return s
}
