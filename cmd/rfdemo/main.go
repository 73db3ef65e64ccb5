// Command rfdemo runs the cooperative runtime on a host: a goroutine stands
// in for the tick interrupt, an I2C worker goroutine stands in for the bus
// peripheral, and the super loop drives one protothread per configured
// device against simulated targets.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/golang/glog"
	"golang.org/x/sync/errgroup"

	"coopdev-go/clock"
	"coopdev-go/config"
	"coopdev-go/x/conv"
)

var (
	boardName = flag.String("board", "sim", "embedded board description")
	cfgPath   = flag.String("config", "", "board description file (overrides -board)")
	runFor    = flag.Duration("for", 0, "stop after this long (0 runs until interrupted)")
)

func main() {
	flag.Parse()
	defer glog.Flush()

	b, err := loadBoard(*cfgPath, *boardName)
	if err != nil {
		glog.Exitf("%+v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if *runFor > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *runFor)
		defer cancel()
	}

	if err := run(ctx, b); err != nil {
		glog.Exitf("%+v", err)
	}
}

func loadBoard(path, name string) (*config.Board, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.Default(name)
}

// run wires the board and blocks until ctx is done, a task faults or every
// task has exited.
func run(ctx context.Context, b *config.Board) error {
	sys, err := build(b)
	if err != nil {
		return err
	}
	defer sys.Close()

	glog.Infof("board %s: %d devices, %d Hz tick, %s controller",
		b.Name, len(b.Devices), b.TickHz, b.I2C.Controller)

	// The drive stops with the loop: once every task has exited there is
	// nothing left to tick for.
	grp, gctx := errgroup.WithContext(ctx)
	dctx, stopDrive := context.WithCancel(gctx)
	defer stopDrive()
	grp.Go(func() error {
		err := clock.Drive(dctx, sys.Clock, b.TickHz)
		if gctx.Err() == nil {
			return nil
		}
		return err
	})
	grp.Go(func() error {
		defer stopDrive()
		return sys.Loop.Run(gctx)
	})

	err = grp.Wait()
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		glog.Infof("stopped after %d passes", sys.Loop.Passes())
		return nil
	}
	if err != nil {
		return fmt.Errorf("rfdemo: %w", err)
	}
	return nil
}

func deci(v int32) string {
	var buf [22]byte
	return string(conv.Deci(buf[:], int64(v)))
}
