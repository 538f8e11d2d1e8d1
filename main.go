package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-gol/model"
	"github.com/sheikhrachel/go-gol/utils"
)

func main() {
	config, err := utils.ParseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err = start(config); err != nil {
		utils.Logf("%+v", err)
		os.Exit(1)
	}
}

// start runs the simulation. In console mode the terminal is put in raw mode
// for the arrow keys and restored before start returns.
func start(config utils.Config) error {
	// Handle Ctrl+C gracefully
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	screen := display{out: os.Stdout}
	if config.Console {
		c, err := openConsole(os.Stdin)
		if err != nil {
			return err
		}
		defer func() {
			if err := c.Close(); err != nil {
				utils.Logf("%v", err)
			}
		}()

		width, height := terminalSize(os.Stdout)
		screen.view = model.Viewport{Width: width, Height: height}
		screen.keys = c.Keys()
		if config.Width == 0 || config.Height == 0 {
			config.Width, config.Height = width, height
		}
	}

	_, err := run(config, screen, sigChan)
	return err
}
