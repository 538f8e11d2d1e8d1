package main

import (
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-gol/model"
	"github.com/sheikhrachel/go-gol/rle"
	"github.com/sheikhrachel/go-gol/utils"
)

// exportName is written into the #N line of exported patterns
const exportName = "go-gol generated pattern"

// initialGrid builds the first generation from the input pattern, or from a
// fill of the configured box when no input is given.
func initialGrid(config utils.Config) (*model.Grid, error) {
	if config.InputFile != "" {
		f, err := os.Open(config.InputFile)
		if err != nil {
			return nil, errors.Wrapf(err, "[initialGrid] failed to open pattern: %+v", config.InputFile)
		}
		defer f.Close()

		cells, err := rle.Decode(f)
		if err != nil {
			return nil, errors.Wrapf(err, "[initialGrid] failed to decode pattern: %+v", config.InputFile)
		}
		return model.NewGrid(cells)
	}

	kind, err := model.ParseFillKind(config.Fill)
	if err != nil {
		return nil, errors.Wrap(err, "[initialGrid]")
	}
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	return model.NewGrid(model.Fill(config.Width, config.Height, kind, config.RandomDensity, rng))
}

// display is where a console run draws its frames and reads key presses.
// A zero view covers the fill box; keys, when set, come from a raw-mode
// terminal.
type display struct {
	out  io.Writer
	view model.Viewport
	keys <-chan keyCommand
}

// newRenderer returns the console renderer for screen, or nil outside
// console mode.
func newRenderer(config utils.Config, screen display) *model.TerminalRenderer {
	if !config.Console {
		return nil
	}
	view := screen.view
	if view.Width == 0 || view.Height == 0 {
		view = model.Viewport{Width: config.Width, Height: config.Height}
	}
	renderer := &model.TerminalRenderer{Out: screen.out, View: view}
	if screen.keys != nil {
		renderer.LineEnd = "\r\n"
	}
	return renderer
}

// displayFrame clears the terminal and draws the current generation
func displayFrame(renderer *model.TerminalRenderer, grid *model.Grid, footer string) error {
	if err := renderer.Clear(); err != nil {
		// keep drawing, the frame is just appended below the previous one
		utils.Logf("%v", err)
	}
	return renderer.Display(grid, footer)
}

// exportGrid writes the grid to filename as RLE
func exportGrid(filename string, grid *model.Grid) error {
	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "[exportGrid] failed to create file: %+v", filename)
	}
	defer f.Close()

	if err = rle.Encode(f, grid, exportName); err != nil {
		return errors.Wrapf(err, "[exportGrid] failed to encode grid: %+v", filename)
	}
	return errors.Wrapf(f.Close(), "[exportGrid] failed to close file: %+v", filename)
}

// saveStats writes the requested statistics files
func saveStats(config utils.Config, stats *utils.Stats) error {
	if config.StatsCSV != "" {
		if err := stats.SaveCSV(config.StatsCSV); err != nil {
			return err
		}
		utils.Logf("statistics written to %s", config.StatsCSV)
	}
	if config.StatsChart != "" {
		if err := stats.SaveChart(config.StatsChart); err != nil {
			return err
		}
		utils.Logf("chart written to %s", config.StatsChart)
	}
	return nil
}

// status describes the current generation for the console footer
func status(grid *model.Grid, stagnant bool) string {
	switch {
	case grid.IsEmpty():
		return "Extinct"
	case stagnant:
		return "Stagnant"
	}
	return "Active"
}

// run advances the configured number of generations, stopping early on a
// signal, an exit key or, when requested, once the pattern repeats. Arrow
// keys pan the console viewport. It returns the last generation it computed.
func run(config utils.Config, screen display, sigChan <-chan os.Signal) (*model.Grid, error) {
	grid, err := initialGrid(config)
	if err != nil {
		return nil, err
	}

	var (
		stats     = utils.NewStats(grid.Population(), config.StatsCSV != "" || config.StatsChart != "")
		renderer  = newRenderer(config, screen)
		history   model.History
		trackHist = config.StopOnStagnation || renderer != nil
		stagnant  bool
		report    string
	)
	utils.Logf("alive: %d, workers: %d", grid.Population(), model.ResolveWorkers(config.Workers))

loop:
	for generation := 0; config.Generations == 0 || generation < config.Generations; generation++ {
		select {
		case <-sigChan:
			utils.Logf("interrupted after %d generations", generation)
			break loop
		default:
		}

		if stats.HasReport() || renderer != nil {
			report = stats.Report()
			if renderer == nil {
				utils.Logf("%s", report)
			}
		}
		if renderer != nil {
			if !applyKeys(screen.keys, &renderer.View) {
				utils.Logf("exit requested after %d generations", generation)
				break loop
			}
			if err = displayFrame(renderer, grid, report+" | "+status(grid, stagnant)); err != nil {
				return grid, err
			}
		}

		if trackHist {
			history.Update(grid)
		}
		next, err := model.Advance(grid, config.Workers)
		if err != nil {
			return grid, errors.Wrapf(err, "[run] generation %d", generation+1)
		}
		grid = next
		stats.Record(grid.Population())

		if trackHist {
			stagnant = history.Stagnant(grid)
			if stagnant && config.StopOnStagnation {
				utils.Logf("pattern repeats after %d generations, stopping", generation+1)
				break
			}
		}

		if config.FrameRate > 0 {
			time.Sleep(config.FrameRate)
		}
	}

	utils.Logf("%s", stats.Report())
	if config.OutputFile != "" {
		if err = exportGrid(config.OutputFile, grid); err != nil {
			return grid, err
		}
		utils.Logf("final generation written to %s", config.OutputFile)
	}
	return grid, saveStats(config, stats)
}
