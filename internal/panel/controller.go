package panel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"sync/atomic"
	"time"

	"github.com/starford/notecover/internal/apperr"
	"github.com/starford/notecover/internal/coverservice"
	"github.com/starford/notecover/internal/models"
)

// Covers is the subset of coverservice.Service the panel drives.
type Covers interface {
	Cover(ctx context.Context, notePath string) (*models.View, error)
	Import(ctx context.Context, notePath, fileName string, data []byte) (*coverservice.ImportResult, error)
}

// Publisher receives every view the panel shows.
type Publisher interface {
	PublishView(v models.View)
}

// Options tune the controller's timing.
type Options struct {
	// SettleDelay is waited after an import before re-resolving, so that the
	// watcher's own notifications for the write land first.
	SettleDelay time.Duration
	// MessageTimeout is how long an error message stays before the panel
	// reverts to the note's cover.
	MessageTimeout time.Duration
	// QueueSize bounds the number of pending events.
	QueueSize int
}

// Controller owns the panel state. Only the Run loop mutates it; Current
// may be called from any goroutine.
type Controller struct {
	covers Covers
	pub    Publisher
	logger *slog.Logger
	opts   Options

	events chan Event
	done   chan struct{}

	// Loop-owned state.
	active  string
	lastRef string // state, reference and file of the last rendered view
	view    models.View
	gen     uint64

	current atomic.Pointer[models.View]
}

// New creates a controller. pub may be nil.
func New(covers Covers, pub Publisher, logger *slog.Logger, opts Options) *Controller {
	if opts.QueueSize <= 0 {
		opts.QueueSize = 64
	}
	if opts.MessageTimeout <= 0 {
		opts.MessageTimeout = 3 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := &Controller{
		covers: covers,
		pub:    pub,
		logger: logger,
		opts:   opts,
		events: make(chan Event, opts.QueueSize),
		done:   make(chan struct{}),
		view:   models.View{State: models.ViewEmpty},
	}
	c.current.Store(&models.View{State: models.ViewEmpty})
	return c
}

// Current returns the view most recently published.
func (c *Controller) Current() models.View {
	return *c.current.Load()
}

// Submit queues ev for the loop. It blocks while the queue is full.
func (c *Controller) Submit(ctx context.Context, ev Event) error {
	select {
	case c.events <- ev:
		return nil
	case <-c.done:
		return errors.New("panel: stopped")
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run processes events one at a time until ctx is cancelled.
func (c *Controller) Run(ctx context.Context) error {
	defer close(c.done)
	c.logger.Info("panel: started")
	for {
		select {
		case <-ctx.Done():
			c.logger.Info("panel: stopped")
			return nil
		case ev := <-c.events:
			c.Handle(ctx, ev)
		}
	}
}

// Handle applies a single event. It must not be called concurrently with
// itself or with Run.
func (c *Controller) Handle(ctx context.Context, ev Event) {
	switch e := ev.(type) {
	case DocumentSwitched:
		c.active = e.Path
		c.render(ctx, true)

	case MetadataChanged:
		switch {
		case c.active == "":
		case e.Path == c.active:
			c.render(ctx, false)
		case c.view.File != nil && e.Path == c.view.File.Path:
			// The image on display was rewritten, moved or deleted.
			c.render(ctx, false)
		case c.view.State == models.ViewNotFound && path.Ext(e.Path) != ".md":
			// A missing image may just have appeared.
			c.render(ctx, false)
		}

	case FileDropped:
		c.drop(ctx, e)

	case refresh:
		if e.gen == c.gen {
			c.render(ctx, true)
		}
	}
}

func (c *Controller) drop(ctx context.Context, e FileDropped) {
	if c.active == "" {
		c.showError(apperr.ErrNoActiveNote, e.Name)
		return
	}
	note := c.active
	c.publish(models.View{
		State:   models.ViewImporting,
		Note:    note,
		Message: fmt.Sprintf("Importing %s…", e.Name),
	})

	res, err := c.covers.Import(ctx, note, e.Name, e.Data)
	if err != nil {
		c.showError(err, e.Name)
		return
	}
	c.logger.Debug("panel: imported", slog.String("note", note), slog.String("path", res.File.Path))

	if c.opts.SettleDelay > 0 {
		select {
		case <-time.After(c.opts.SettleDelay):
		case <-ctx.Done():
			return
		}
	}
	c.render(ctx, true)
}

// render resolves the active note's cover and publishes it. Unless force
// is set, an unchanged resolution is not republished.
func (c *Controller) render(ctx context.Context, force bool) {
	if c.active == "" {
		c.lastRef = ""
		c.publish(models.View{State: models.ViewEmpty})
		return
	}

	v, err := c.covers.Cover(ctx, c.active)
	if err != nil {
		msg := "Cannot read note"
		if errors.Is(err, apperr.ErrNotFound) {
			msg = "Note not found"
		} else {
			c.logger.Warn("panel: render failed", slog.String("note", c.active), slog.String("error", err.Error()))
		}
		v = &models.View{State: models.ViewError, Note: c.active, Message: msg}
	}

	ref := memoKey(v)
	if !force && ref == c.lastRef {
		return
	}
	c.lastRef = ref
	c.publish(*v)
}

func memoKey(v *models.View) string {
	key := string(v.State) + "\x00" + v.Reference
	if v.File != nil {
		key += "\x00" + v.File.Path
	}
	return key
}

// showError publishes a transient error and schedules the revert.
func (c *Controller) showError(err error, name string) {
	c.publish(models.View{
		State:   models.ViewError,
		Note:    c.active,
		Message: describe(err, name),
	})
	c.lastRef = ""
	c.gen++
	gen := c.gen
	time.AfterFunc(c.opts.MessageTimeout, func() {
		select {
		case c.events <- refresh{gen: gen}:
		case <-c.done:
		}
	})
}

func describe(err error, name string) string {
	switch {
	case errors.Is(err, apperr.ErrNoActiveNote):
		return "Open a note before dropping an image"
	case errors.Is(err, apperr.ErrMalformedDrop):
		return fmt.Sprintf("%s is not an image", name)
	case errors.Is(err, apperr.ErrImportFailure):
		return fmt.Sprintf("Could not import %s: %v", name, err)
	default:
		return err.Error()
	}
}

func (c *Controller) publish(v models.View) {
	c.view = v
	c.current.Store(&v)
	if c.pub != nil {
		c.pub.PublishView(v)
	}
}
