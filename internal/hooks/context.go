package hooks

import (
	"log/slog"

	"git.home.luguber.info/inful/assetstage/internal/metrics"
)

// Context carries the explicit inputs of a hook invocation. Paths are passed
// here rather than resolved against the process working directory so hooks
// stay testable and free of hidden state.
type Context struct {
	// RunID uniquely identifies this invocation across logs, metrics and the
	// run history.
	RunID string

	// BaseDir is the root against which relative source paths resolve.
	BaseDir string

	// SiteDir is the generator's output directory.
	SiteDir string

	// Logger for hook-scoped structured logging. Never nil after NewContext.
	Logger *slog.Logger

	// Recorder receives hook metrics. Never nil after NewContext.
	Recorder metrics.Recorder

	// Data is a map for hooks to share results during execution. This allows
	// the runner to collect hook outcomes without direct dependencies.
	Data map[string]any
}

// NewContext creates a hook context, substituting safe defaults for nil
// logger and recorder.
func NewContext(runID, baseDir, siteDir string, logger *slog.Logger, recorder metrics.Recorder) *Context {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Context{
		RunID:    runID,
		BaseDir:  baseDir,
		SiteDir:  siteDir,
		Logger:   logger,
		Recorder: recorder,
		Data:     make(map[string]any),
	}
}

// SetValue stores a key-value pair in the context data map.
func (c *Context) SetValue(key string, value any) {
	if c.Data == nil {
		c.Data = make(map[string]any)
	}
	c.Data[key] = value
}

// GetValue retrieves a value from the context data map.
// Returns nil if the key doesn't exist.
func (c *Context) GetValue(key string) any {
	return c.Data[key]
}
