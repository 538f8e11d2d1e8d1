package utils

import (
	"encoding/json"
	"flag"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-gol/model"
)

// ErrInvalidConfig is returned by Validate
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the configuration for a simulation run
type Config struct {
	InputFile        string        `json:"input_file"`
	OutputFile       string        `json:"output_file"`
	Generations      int           `json:"generations"` // 0 runs until interrupted
	Workers          int           `json:"workers"`     // 0 selects a count from the hardware
	Width            int           `json:"width"`
	Height           int           `json:"height"`
	Fill             string        `json:"fill"`
	RandomDensity    float64       `json:"random_density"`
	Seed             int64         `json:"seed"` // 0 seeds from the clock
	Console          bool          `json:"console"`
	FrameRate        time.Duration `json:"frame_rate"` // sleep between generations
	StatsCSV         string        `json:"stats_csv"`
	StatsChart       string        `json:"stats_chart"`
	StopOnStagnation bool          `json:"stop_on_stagnation"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Workers:       1,
		Width:         500,
		Height:        500,
		Fill:          string(model.FillRandom),
		RandomDensity: 0.5,
	}
}

// LoadConfig loads configuration from JSON file
func LoadConfig(filename string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to read file: %+v", filename)
	}

	if err = json.Unmarshal(data, &config); err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to unmarshal data from file: %+v", filename)
	}

	return config, nil
}

// ParseFlags parses command-line arguments. A -config file, when given, is
// loaded first and flags set on the command line override it. A single
// positional argument names the input pattern. Console mode without an
// explicit -sleep pauses 100ms per generation, and without a size from the
// command line or a config file it leaves Width and Height zero so the fill
// box takes the size of the terminal.
func ParseFlags(args []string, output io.Writer) (Config, error) {
	config := DefaultConfig()
	fs := newFlagSet(&config, output)
	if err := fs.Parse(args); err != nil {
		return config, errors.Wrap(err, "[ParseFlags] failed to parse arguments")
	}

	path := fs.Lookup("config").Value.String()
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return loaded, err
		}
		config = loaded
		fs = newFlagSet(&config, io.Discard)
		if err := fs.Parse(args); err != nil {
			return config, errors.Wrap(err, "[ParseFlags] failed to parse arguments")
		}
	}

	switch fs.NArg() {
	case 0:
	case 1:
		if config.InputFile == "" {
			config.InputFile = fs.Arg(0)
		}
	default:
		return config, errors.Wrapf(ErrInvalidConfig, "[ParseFlags] unexpected arguments %v", fs.Args())
	}

	sleepSet, sizeSet := false, false
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "sleep":
			sleepSet = true
		case "width", "w", "height", "h":
			sizeSet = true
		}
	})
	if config.Console && !sleepSet && config.FrameRate == 0 {
		config.FrameRate = 100 * time.Millisecond
	}
	if config.Console && !sizeSet && path == "" {
		config.Width, config.Height = 0, 0
	}

	return config, config.Validate()
}

func newFlagSet(c *Config, output io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("go-gol", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.String("config", "", "JSON configuration file")
	bindFlags(fs, c)
	return fs
}

func bindFlags(fs *flag.FlagSet, c *Config) {
	fs.StringVar(&c.InputFile, "input", c.InputFile, "RLE pattern to start from")
	fs.StringVar(&c.InputFile, "i", c.InputFile, "shorthand for -input")
	fs.StringVar(&c.OutputFile, "output", c.OutputFile, "write the final generation as RLE")
	fs.StringVar(&c.OutputFile, "o", c.OutputFile, "shorthand for -output")
	fs.IntVar(&c.Generations, "gens", c.Generations, "generations to run, 0 for unbounded")
	fs.IntVar(&c.Generations, "g", c.Generations, "shorthand for -gens")
	fs.IntVar(&c.Workers, "threads", c.Workers, "worker count, 0 for auto")
	fs.IntVar(&c.Workers, "t", c.Workers, "shorthand for -threads")
	fs.IntVar(&c.Width, "width", c.Width, "fill width")
	fs.IntVar(&c.Width, "w", c.Width, "shorthand for -width")
	fs.IntVar(&c.Height, "height", c.Height, "fill height")
	fs.IntVar(&c.Height, "h", c.Height, "shorthand for -height")
	fs.StringVar(&c.Fill, "fill", c.Fill, "fill kind: random, alternating, all, empty")
	fs.Float64Var(&c.RandomDensity, "density", c.RandomDensity, "live fraction for random fill")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "random seed, 0 for time based")
	fs.BoolVar(&c.Console, "console", c.Console, "render to the terminal")
	fs.BoolVar(&c.Console, "c", c.Console, "shorthand for -console")
	fs.DurationVar(&c.FrameRate, "sleep", c.FrameRate, "pause between generations")
	fs.StringVar(&c.StatsCSV, "stats-csv", c.StatsCSV, "write per-generation timings as CSV")
	fs.StringVar(&c.StatsChart, "stats-chart", c.StatsChart, "write per-generation timings as an HTML chart")
	fs.BoolVar(&c.StopOnStagnation, "stop-on-stagnation", c.StopOnStagnation, "stop once the pattern repeats")
}

// Validate reports the first field that cannot be used
func (c Config) Validate() error {
	switch {
	case c.Generations < 0:
		return errors.Wrapf(ErrInvalidConfig, "generations %d is negative", c.Generations)
	case c.Workers < 0:
		return errors.Wrapf(ErrInvalidConfig, "workers %d is negative", c.Workers)
	case c.Width < 0 || c.Height < 0:
		return errors.Wrapf(ErrInvalidConfig, "size %dx%d is negative", c.Width, c.Height)
	case c.RandomDensity < 0 || c.RandomDensity > 1:
		return errors.Wrapf(ErrInvalidConfig, "random density %v is outside [0, 1]", c.RandomDensity)
	case c.FrameRate < 0:
		return errors.Wrapf(ErrInvalidConfig, "frame rate %v is negative", c.FrameRate)
	}
	if _, err := model.ParseFillKind(c.Fill); err != nil {
		return errors.Wrapf(ErrInvalidConfig, "%v", err)
	}
	return nil
}
