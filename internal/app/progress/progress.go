// Package progress renders pipeline progress on a terminal.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/aken1023/care-sch/internal/app/pipeline"
)

type ProgressConfig struct {
	Enabled bool
	Writer  io.Writer
}

type ProgressManager struct {
	container *mpb.Progress
	enabled   bool
	mu        sync.Mutex
}

type ProgressBar struct {
	bar     *mpb.Bar
	enabled bool
	stage   string
	mu      sync.Mutex
}

func NewProgressManager(config ProgressConfig) *ProgressManager {
	if !config.Enabled {
		return &ProgressManager{enabled: false}
	}

	writer := config.Writer
	if writer == nil {
		writer = os.Stderr
	}

	container := mpb.New(
		mpb.WithOutput(writer),
		mpb.WithRefreshRate(120*time.Millisecond),
		mpb.WithWaitGroup(&sync.WaitGroup{}),
	)

	return &ProgressManager{
		container: container,
		enabled:   true,
	}
}

// CreateBar adds a bar whose trailing decorator shows the current stage name.
func (pm *ProgressManager) CreateBar(total int, description string) *ProgressBar {
	if !pm.enabled || pm.container == nil {
		return &ProgressBar{enabled: false}
	}

	pm.mu.Lock()
	defer pm.mu.Unlock()

	pb := &ProgressBar{enabled: true}
	pb.bar = pm.container.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name(description+" ", decor.WC{W: len(description) + 1, C: decor.DindentRight}),
			decor.CountersNoUnit("(%d/%d)", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.Any(func(decor.Statistics) string { return pb.Stage() }, decor.WCSyncSpaceR),
			decor.OnComplete(decor.Elapsed(decor.ET_STYLE_GO, decor.WCSyncSpace), " ✓ "),
		),
	)
	return pb
}

func (pb *ProgressBar) Stage() string {
	pb.mu.Lock()
	defer pb.mu.Unlock()
	return pb.stage
}

func (pb *ProgressBar) SetStage(stage string) {
	pb.mu.Lock()
	pb.stage = stage
	pb.mu.Unlock()
}

func (pb *ProgressBar) Increment() {
	if pb.enabled && pb.bar != nil {
		pb.bar.Increment()
	}
}

func (pb *ProgressBar) Complete() {
	if pb.enabled && pb.bar != nil {
		pb.bar.SetTotal(pb.bar.Current(), true)
	}
}

// Abort stops the bar and leaves it on screen.
func (pb *ProgressBar) Abort() {
	if pb.enabled && pb.bar != nil {
		pb.bar.Abort(false)
	}
}

func (pm *ProgressManager) Wait() {
	if pm.enabled && pm.container != nil {
		pm.container.Wait()
	}
}

func (pm *ProgressManager) Shutdown() {
	if pm.enabled && pm.container != nil {
		pm.container.Shutdown()
	}
}

func IsTTY(writer io.Writer) bool {
	if writer == nil {
		return false
	}

	if file, ok := writer.(*os.File); ok {
		stat, err := file.Stat()
		if err != nil {
			return false
		}
		return (stat.Mode() & os.ModeCharDevice) != 0
	}
	return false
}

func ShouldShowProgress(forced bool) bool {
	if forced {
		return true
	}

	return IsTTY(os.Stderr) || IsTTY(os.Stdout)
}

// RunReporter turns pipeline events into bar updates: one step per stage.
type RunReporter struct {
	bar *ProgressBar

	mu      sync.Mutex
	entered int
	failed  bool
}

func NewRunReporter(pm *ProgressManager, description string) *RunReporter {
	return &RunReporter{bar: pm.CreateBar(len(pipeline.Stages), description)}
}

// Observe is a pipeline.ProgressFunc.
func (r *RunReporter) Observe(e pipeline.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch e.State {
	case pipeline.StateFailed:
		r.failed = true
		r.bar.SetStage(fmt.Sprintf("failed while %s", e.From))
		r.bar.Abort()
	default:
		if r.entered > 0 {
			r.bar.Increment()
		}
		r.entered++
		r.bar.SetStage(string(e.State))
	}
}

// Finish completes the bar after a successful run.
func (r *RunReporter) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failed {
		return
	}
	r.bar.Increment()
	r.bar.SetStage("done")
	r.bar.Complete()
}

// Steps returns how many stages have been entered.
func (r *RunReporter) Steps() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entered
}

func (r *RunReporter) Failed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.failed
}
