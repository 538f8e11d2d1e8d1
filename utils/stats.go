package utils

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/pkg/errors"
)

// reportInterval is how often HasReport turns true
const reportInterval = 500 * time.Millisecond

// Sample is one recorded generation
type Sample struct {
	Delta      time.Duration
	Population int
}

// Stats for performance monitoring
type Stats struct {
	GenerationsPerSecond float64
	AveragePopulation    float64
	TotalGenerations     int
	Population           int
	StartTime            time.Time

	reportGens int
	lastReport time.Time
	lastRecord time.Time

	keepSamples bool
	samples     []Sample
}

// NewStats starts a recorder for a run whose first generation has the given
// population. keepSamples retains every generation for SaveCSV and SaveChart.
func NewStats(population int, keepSamples bool) *Stats {
	now := time.Now()
	return &Stats{
		StartTime:         now,
		Population:        population,
		AveragePopulation: float64(population),
		lastReport:        now,
		lastRecord:        now,
		keepSamples:       keepSamples,
	}
}

// Record notes that one more generation has been computed
func (s *Stats) Record(population int) {
	now := time.Now()
	delta := now.Sub(s.lastRecord)
	s.lastRecord = now

	s.TotalGenerations++
	s.reportGens++
	s.Population = population

	// Simple moving average for population
	s.AveragePopulation = (s.AveragePopulation * 0.9) + (float64(population) * 0.1)

	if s.keepSamples {
		s.samples = append(s.samples, Sample{Delta: delta, Population: population})
	}
}

// HasReport reports whether a report interval has elapsed
func (s *Stats) HasReport() bool {
	return time.Since(s.lastReport) >= reportInterval
}

// Report summarises the generations since the previous report and starts a
// new interval.
func (s *Stats) Report() string {
	elapsed := time.Since(s.lastReport)
	if elapsed > 0 {
		s.GenerationsPerSecond = float64(s.reportGens) / elapsed.Seconds()
	}
	s.lastReport = time.Now()
	s.reportGens = 0

	return fmt.Sprintf("%.02fgen/s gens:%d, alive:%d", s.GenerationsPerSecond, s.TotalGenerations, s.Population)
}

// Samples returns the retained per-generation samples
func (s *Stats) Samples() []Sample {
	return s.samples
}

// SaveCSV writes the retained samples as gen,delta_t,alive rows with
// delta_t in microseconds.
func (s *Stats) SaveCSV(filename string) error {
	if !s.keepSamples {
		return errors.New("[SaveCSV] samples were not retained")
	}
	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "[SaveCSV] failed to create file: %+v", filename)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	records := [][]string{{"gen", "delta_t", "alive"}}
	for i, sample := range s.samples {
		records = append(records, []string{
			strconv.Itoa(i),
			strconv.FormatInt(sample.Delta.Microseconds(), 10),
			strconv.Itoa(sample.Population),
		})
	}
	if err = w.WriteAll(records); err != nil {
		return errors.Wrapf(err, "[SaveCSV] failed to write file: %+v", filename)
	}
	return errors.Wrapf(f.Close(), "[SaveCSV] failed to close file: %+v", filename)
}

// SaveChart renders the retained samples as an HTML line chart of
// population and step time per generation.
func (s *Stats) SaveChart(filename string) error {
	if !s.keepSamples {
		return errors.New("[SaveChart] samples were not retained")
	}

	var (
		gens       = make([]int, len(s.samples))
		population = make([]opts.LineData, len(s.samples))
		stepTime   = make([]opts.LineData, len(s.samples))
	)
	for i, sample := range s.samples {
		gens[i] = i
		population[i] = opts.LineData{Value: sample.Population}
		stepTime[i] = opts.LineData{Value: sample.Delta.Microseconds()}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "go-gol run", Width: "1200px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Generations",
			Subtitle: fmt.Sprintf("gens=%d started=%s", s.TotalGenerations, s.StartTime.Format(time.RFC3339)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "generation"}),
	)
	line.SetXAxis(gens).
		AddSeries("alive", population).
		AddSeries("delta_t (µs)", stepTime)

	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "[SaveChart] failed to create file: %+v", filename)
	}
	defer f.Close()

	if err = line.Render(f); err != nil {
		return errors.Wrapf(err, "[SaveChart] failed to render chart: %+v", filename)
	}
	return errors.Wrapf(f.Close(), "[SaveChart] failed to close file: %+v", filename)
}
