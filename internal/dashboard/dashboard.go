// Package dashboard renders a live terminal view of an ingestion run.
package dashboard

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	ui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"

	"github.com/apdexgauge/apdexgauge/internal/apdex"
	"github.com/apdexgauge/apdexgauge/internal/runner"
)

// RunConfig holds run parameters for display.
type RunConfig struct {
	Inputs     []string // Input files or stream URLs
	Format     string   // Resolved input format
	Threshold  float64  // Apdex T in seconds
	Workers    int      // Number of scoring workers
	MaxRate    float64  // Samples per second cap (0 = unlimited)
	HitRate    float64  // Assumed cache hit rate (0 = none)
	ConfigFile string   // Path to config file if used
}

// Dashboard renders a live terminal UI for run progress.
type Dashboard struct {
	tracker      *runner.Tracker
	ctx          context.Context
	cancel       context.CancelFunc
	shutdownFunc func()
	wg           sync.WaitGroup
	mu           sync.Mutex
	stopOnce     sync.Once

	// Widgets
	grid         *ui.Grid
	scoreGauge   *widgets.Gauge
	scoreSparkle *widgets.SparklineGroup
	zonePara     *widgets.Paragraph
	summaryPara  *widgets.Paragraph
	scoreHistory []float64
	startTime    time.Time
	runConfig    RunConfig
}

// New creates a new Dashboard.
func New(tracker *runner.Tracker, cfg RunConfig, shutdownFunc func()) (*Dashboard, error) {
	if err := ui.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize termui: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	d := &Dashboard{
		tracker:      tracker,
		ctx:          ctx,
		cancel:       cancel,
		shutdownFunc: shutdownFunc,
		scoreHistory: make([]float64, 0, 100),
		startTime:    time.Now(),
		runConfig:    cfg,
	}

	d.initWidgets()
	d.setupGrid()

	return d, nil
}

// initWidgets initializes all dashboard widgets.
func (d *Dashboard) initWidgets() {
	sparkline := widgets.NewSparkline()
	sparkline.Title = "Score"
	sparkline.LineColor = ui.ColorGreen
	sparkline.Data = []float64{0}
	sparkline.MaxVal = 1.0

	d.scoreSparkle = widgets.NewSparklineGroup(sparkline)
	d.scoreSparkle.Title = "Apdex Over Time"
	d.scoreSparkle.BorderStyle.Fg = ui.ColorCyan

	d.scoreGauge = widgets.NewGauge()
	d.scoreGauge.Title = "Apdex Score"
	d.scoreGauge.Percent = 0
	d.scoreGauge.Label = "NS"
	d.scoreGauge.BarColor = ui.ColorBlue
	d.scoreGauge.BorderStyle.Fg = ui.ColorCyan
	d.scoreGauge.LabelStyle = ui.NewStyle(ui.ColorWhite)

	d.zonePara = widgets.NewParagraph()
	d.zonePara.Title = "Zones"
	d.zonePara.Text = "Waiting for data..."
	d.zonePara.BorderStyle.Fg = ui.ColorCyan

	d.summaryPara = widgets.NewParagraph()
	d.summaryPara.Title = "Run Summary"
	d.summaryPara.Text = "Initializing..."
	d.summaryPara.BorderStyle.Fg = ui.ColorCyan
}

// setupGrid configures the layout grid.
func (d *Dashboard) setupGrid() {
	termWidth, termHeight := ui.TerminalDimensions()

	d.grid = ui.NewGrid()
	d.grid.SetRect(0, 0, termWidth, termHeight)

	d.grid.Set(
		ui.NewRow(0.2,
			ui.NewCol(1.0, d.summaryPara),
		),
		ui.NewRow(0.25,
			ui.NewCol(1.0, d.scoreGauge),
		),
		ui.NewRow(0.3,
			ui.NewCol(1.0, d.scoreSparkle),
		),
		ui.NewRow(0.25,
			ui.NewCol(1.0, d.zonePara),
		),
	)
}

// Start begins the dashboard update loop.
func (d *Dashboard) Start() {
	d.wg.Add(1)
	go d.run()
}

// Stop stops the dashboard and restores the terminal. Safe to call more
// than once.
func (d *Dashboard) Stop() {
	d.stopOnce.Do(func() {
		d.cancel()
		d.wg.Wait()
		ui.Close()
		// Give terminal time to restore
		time.Sleep(100 * time.Millisecond)
	})
}

// run is the main dashboard update loop.
func (d *Dashboard) run() {
	defer d.wg.Done()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	uiEvents := ui.PollEvents()

	d.render()

	for {
		select {
		case <-d.ctx.Done():
			// Drain any remaining events
			for len(uiEvents) > 0 {
				<-uiEvents
			}
			return
		case e := <-uiEvents:
			select {
			case <-d.ctx.Done():
				return
			default:
			}

			switch e.ID {
			case "q", "<C-c>":
				if d.shutdownFunc != nil {
					d.shutdownFunc()
				}
				// Do not return here; wait for Stop() to cancel context
			case "<Resize>":
				payload := e.Payload.(ui.Resize)
				d.grid.SetRect(0, 0, payload.Width, payload.Height)
				ui.Clear()
				d.render()
			}
		case <-ticker.C:
			d.update()
			d.render()
		}
	}
}

// update refreshes all widget data from the tracker.
func (d *Dashboard) update() {
	d.mu.Lock()
	defer d.mu.Unlock()

	elapsed := time.Since(d.startTime)
	snap := d.tracker.Snapshot()
	score, ok := snap.Score()

	if ok {
		d.scoreHistory = append(d.scoreHistory, score)
		if len(d.scoreHistory) > 100 {
			d.scoreHistory = d.scoreHistory[1:]
		}
		d.scoreSparkle.Sparklines[0].Data = d.scoreHistory
		d.scoreSparkle.Title = fmt.Sprintf("Apdex Over Time | Current: %.2f", score)

		d.scoreGauge.Percent = scorePercent(score)
		d.scoreGauge.Label = fmt.Sprintf("%.2f (%s)", score, apdex.RatingFromScore(score))
		d.scoreGauge.BarColor = scoreColor(score)
	} else {
		d.scoreGauge.Percent = 0
		d.scoreGauge.Label = "NS"
	}

	perSec := 0.0
	if elapsed > 0 {
		perSec = float64(snap.Total()) / elapsed.Seconds()
	}

	d.summaryPara.Text = fmt.Sprintf(
		"Inputs: %s\n%s\nElapsed: %s | Samples: %d | Rate: %.1f/s",
		strings.Join(d.runConfig.Inputs, ", "),
		d.formatRunParams(),
		elapsed.Round(time.Second),
		snap.Total(),
		perSec,
	)

	d.zonePara.Text = formatZones(snap)
}

// render draws all widgets to the screen.
func (d *Dashboard) render() {
	d.mu.Lock()
	defer d.mu.Unlock()

	ui.Render(d.grid)
}

// scorePercent converts an apdex score to a gauge percentage.
func scorePercent(score float64) int {
	p := int(score * 100)
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	return p
}

// scoreColor picks the gauge color from the rating bands.
func scoreColor(score float64) ui.Color {
	switch {
	case score >= 0.85:
		return ui.ColorGreen
	case score >= 0.70:
		return ui.ColorYellow
	default:
		return ui.ColorRed
	}
}

func formatZones(snap runner.Snapshot) string {
	total := snap.Total()
	pct := func(n uint64) float64 {
		if total == 0 {
			return 0
		}
		return float64(n) / float64(total) * 100
	}
	lines := []string{
		fmt.Sprintf("[Satisfied:](fg:green)   %6d (%5.1f%%)", snap.Satisfied, pct(snap.Satisfied)),
		fmt.Sprintf("[Tolerated:](fg:yellow)  %6d (%5.1f%%)", snap.Tolerated, pct(snap.Tolerated)),
		fmt.Sprintf("[Frustrated:](fg:red) %6d (%5.1f%%)", snap.Frustrated, pct(snap.Frustrated)),
	}
	if snap.Invalid > 0 {
		lines = append(lines, fmt.Sprintf("Invalid:    %6d", snap.Invalid))
	}
	return strings.Join(lines, "\n")
}

// formatRunParams formats the run configuration parameters for display.
func (d *Dashboard) formatRunParams() string {
	var parts []string

	if d.runConfig.Format != "" {
		parts = append(parts, fmt.Sprintf("Format: %s", d.runConfig.Format))
	}

	parts = append(parts, fmt.Sprintf("T: %gs", d.runConfig.Threshold))

	if d.runConfig.Workers > 0 {
		parts = append(parts, fmt.Sprintf("Workers: %d", d.runConfig.Workers))
	}

	if d.runConfig.MaxRate > 0 {
		parts = append(parts, fmt.Sprintf("Rate cap: %g/s", d.runConfig.MaxRate))
	}

	if d.runConfig.HitRate > 0 {
		parts = append(parts, fmt.Sprintf("Hit rate: %.0f%%", d.runConfig.HitRate*100))
	}

	if d.runConfig.ConfigFile != "" {
		parts = append(parts, fmt.Sprintf("Config: %s", d.runConfig.ConfigFile))
	}

	return strings.Join(parts, " | ")
}
