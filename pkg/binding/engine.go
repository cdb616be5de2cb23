package binding

import (
	"context"
	"log/slog"
	"time"

	"github.com/vango-dev/bindery/internal/errors"
	"github.com/vango-dev/bindery/pkg/dom"
	"github.com/vango-dev/bindery/pkg/model"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// RebindPolicy decides what Bind does with a model that is already bound.
type RebindPolicy uint8

const (
	// RebindTeardown releases every binding of the previous entry and
	// binds again from scratch.
	RebindTeardown RebindPolicy = iota
	// RebindError rejects the call with ErrAlreadyBound.
	RebindError
)

func (p RebindPolicy) String() string {
	if p == RebindError {
		return "error"
	}
	return "teardown"
}

// ParseRebindPolicy parses "teardown" or "error". The empty string is
// teardown.
func ParseRebindPolicy(s string) (RebindPolicy, error) {
	switch s {
	case "", "teardown":
		return RebindTeardown, nil
	case "error":
		return RebindError, nil
	}
	return 0, errors.New("E222").WithDetailf("rebind policy %q (want teardown or error)", s)
}

// MarkerPolicy decides what happens to a binding whose marker is removed
// from an element that stays attached.
type MarkerPolicy uint8

const (
	// MarkerRelease releases the binding, as if the element had been
	// removed, for that binding id only.
	MarkerRelease MarkerPolicy = iota
	// MarkerKeep leaves the binding installed until the element is removed.
	MarkerKeep
)

func (p MarkerPolicy) String() string {
	if p == MarkerKeep {
		return "keep"
	}
	return "release"
}

// ParseMarkerPolicy parses "release" or "keep". The empty string is
// release.
func ParseMarkerPolicy(s string) (MarkerPolicy, error) {
	switch s {
	case "", "release":
		return MarkerRelease, nil
	case "keep":
		return MarkerKeep, nil
	}
	return 0, errors.New("E222").WithDetailf("marker removal policy %q (want release or keep)", s)
}

// Activity ops.
const (
	OpBind    = "bind"
	OpUnbind  = "unbind"
	OpInstall = "install"
	OpRelease = "release"
	OpError   = "error"
)

// Activity is a lifecycle event reported to WithActivity observers.
type Activity struct {
	Op      string    `json:"op"`
	Model   string    `json:"model"`
	Element string    `json:"element,omitempty"`
	ID      ID        `json:"id,omitempty"`
	Error   string    `json:"error,omitempty"`
	At      time.Time `json:"at"`
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics records engine metrics into m.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithTracer sets the tracer for Bind and mutation batch spans.
func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) {
		if t != nil {
			e.tracer = t
		}
	}
}

// WithRebindPolicy sets the rebind policy. Default: RebindTeardown.
func WithRebindPolicy(p RebindPolicy) Option {
	return func(e *Engine) {
		e.rebind = p
	}
}

// WithMarkerRemoval sets the marker removal policy. Default: MarkerRelease.
func WithMarkerRemoval(p MarkerPolicy) Option {
	return func(e *Engine) {
		e.markers = p
	}
}

// WithErrorHandler receives every per-element failure as it happens.
func WithErrorHandler(fn func(error)) Option {
	return func(e *Engine) {
		e.onError = fn
	}
}

// WithActivity adds an activity observer. Observers run synchronously on
// the goroutine driving the document.
func WithActivity(fn func(Activity)) Option {
	return func(e *Engine) {
		if fn != nil {
			e.activity = append(e.activity, fn)
		}
	}
}

// WithRegistry makes the engine use r instead of a private registry.
func WithRegistry(r *Registry) Option {
	return func(e *Engine) {
		if r != nil {
			e.registry = r
		}
	}
}

// Engine binds models to element subtrees.
//
// An Engine, its registry, and the documents it observes are driven from
// one goroutine. Snapshot and Bound may be called from any goroutine.
type Engine struct {
	registry *Registry
	logger   *slog.Logger
	metrics  *Metrics
	tracer   trace.Tracer
	rebind   RebindPolicy
	markers  MarkerPolicy
	onError  func(error)
	activity []func(Activity)
}

// New creates an engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		registry: NewRegistry(),
		logger:   slog.Default(),
		tracer:   otel.Tracer(defaultTracerName),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Options are the per-model arguments of Bind.
type Options struct {
	// Root is the subtree to observe. It is usually a shadow root; when its
	// host is an element, the model becomes that element's property host.
	Root *dom.Node

	// OnError receives this model's per-element failures.
	OnError func(error)
}

// Bind registers m, scans Root, and observes Root for changes. The
// returned error joins the failures of the initial scan; elements that
// failed are skipped and every other element is bound.
func (e *Engine) Bind(ctx context.Context, m *model.Object, opts Options) (err error) {
	_, span := e.tracer.Start(ctx, "bindery.Bind", trace.WithAttributes(
		attribute.String("bindery.model", m.Name()),
	))
	defer func() { endSpan(span, err) }()

	if opts.Root == nil {
		return errors.New("E207").WithDetail(m.String())
	}
	if prev, ok := e.registry.Lookup(m); ok {
		if e.rebind == RebindError {
			return errors.New("E205").WithDetail(m.String())
		}
		e.logger.Debug("rebinding model", "model", m.Name())
		e.teardown(prev)
		e.metrics.unbound()
	}

	ent, _ := e.registry.Create(m, opts.Root)
	ent.rootDesc = describe(opts.Root)
	ent.onError = opts.OnError
	if host := opts.Root.Host(); host != nil {
		host.SetPropertyHost(m)
	}
	ent.observer = opts.Root.Document().Observe(opts.Root, dom.ObserveOptions{
		ChildList:  true,
		Attributes: true,
		Subtree:    true,
	}, func(records []dom.MutationRecord, _ *dom.Observer) error {
		return e.process(ent, records)
	})

	e.metrics.bound()
	e.logger.Info("model bound", "model", m.Name(), "root", ent.rootDesc)
	e.emit(Activity{Op: OpBind, Model: m.Name(), Element: ent.rootDesc})

	err = e.scan(ent, opts.Root)
	span.SetAttributes(attribute.Int("bindery.bindings", ent.Len()))
	return err
}

// Unbind stops observing m's root and releases all of its bindings.
// Model properties that were bound two-way keep their last value.
func (e *Engine) Unbind(m *model.Object) error {
	ent, ok := e.registry.Release(m)
	if !ok {
		return errors.New("E206").WithDetail(m.String())
	}
	e.teardown(ent)
	e.metrics.unbound()
	e.logger.Info("model unbound", "model", m.Name())
	e.emit(Activity{Op: OpUnbind, Model: m.Name(), Element: ent.rootDesc})
	return nil
}

// Bound reports whether m is bound.
func (e *Engine) Bound(m *model.Object) bool {
	_, ok := e.registry.Lookup(m)
	return ok
}

// Entry returns the registry entry of m.
func (e *Engine) Entry(m *model.Object) (*Entry, bool) {
	return e.registry.Lookup(m)
}

// Registry returns the engine's registry.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Snapshot describes every bound model.
func (e *Engine) Snapshot() []EntryInfo {
	return e.registry.Snapshot()
}

func (e *Engine) teardown(ent *Entry) {
	if ent.observer != nil {
		ent.observer.Disconnect()
	}
	for _, b := range ent.removeAll() {
		e.releaseBinding(ent, b)
	}
	for _, g := range ent.groups {
		g.detach()
	}
	if host := ent.Root.Host(); host != nil && host.PropertyHost() == dom.PropertyHost(ent.Model) {
		host.SetPropertyHost(nil)
	}
}

func (e *Engine) emit(a Activity) {
	if len(e.activity) == 0 {
		return
	}
	a.At = time.Now()
	for _, fn := range e.activity {
		fn(a)
	}
}
