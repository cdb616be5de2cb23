package binding

import (
	"context"
	"strings"
	"time"

	"github.com/vango-dev/bindery/internal/errors"
	"github.com/vango-dev/bindery/pkg/dom"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// process handles one batch of mutation records in detection order.
// Within a record, added nodes are handled before removed ones. Nodes that
// are no longer under the root when the batch runs are not installed, and
// removed nodes that are back under the root are not released.
func (e *Engine) process(ent *Entry, records []dom.MutationRecord) (err error) {
	_, span := e.tracer.Start(context.Background(), "bindery.Batch", trace.WithAttributes(
		attribute.String("bindery.model", ent.Model.Name()),
		attribute.Int("bindery.records", len(records)),
	))
	start := time.Now()
	defer func() {
		e.metrics.batch(time.Since(start))
		endSpan(span, err)
	}()

	var errs []error
	for _, rec := range records {
		e.metrics.record(rec.Type)
		switch rec.Type {
		case dom.ChildList:
			for _, n := range rec.AddedNodes {
				if n.IsConnectedTo(ent.Root) {
					errs = append(errs, e.scan(ent, n))
				}
			}
			for _, n := range rec.RemovedNodes {
				if !n.IsConnectedTo(ent.Root) {
					e.release(ent, n)
				}
			}
		case dom.Attributes:
			if isMarker(rec.AttributeName) && rec.Target.IsConnectedTo(ent.Root) {
				errs = append(errs, e.reparse(ent, rec.Target))
			}
		}
	}
	return errors.Join(errs...)
}

// isMarker reports whether an attribute change can change an element's
// directives.
func isMarker(name string) bool {
	return strings.HasPrefix(name, "data-") || name == "type"
}

// scan installs the directives of n and its descendants. A failing
// element does not stop the scan.
func (e *Engine) scan(ent *Entry, n *dom.Node) error {
	var errs []error
	for el := range n.Descendants() {
		if !el.IsElement() {
			continue
		}
		for d, err := range Parse(el) {
			if err == nil {
				_, err = e.install(ent, el, d)
			}
			if err != nil {
				e.report(ent, err)
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// release drops the bindings of n and its descendants.
func (e *Engine) release(ent *Entry, n *dom.Node) {
	for el := range n.Descendants() {
		if el.IsElement() {
			e.releaseElement(ent, el)
		}
	}
}

// reparse installs directives that appeared on el and, under MarkerRelease,
// releases the ones that disappeared.
func (e *Engine) reparse(ent *Entry, el *dom.Node) error {
	e.logger.Debug("reparsing element", "model", ent.Model.Name(), "element", describe(el))

	var errs []error
	seen := make(map[ID]bool)
	for d, err := range Parse(el) {
		if err == nil {
			seen[d.ID()] = true
			_, err = e.install(ent, el, d)
		}
		if err != nil {
			e.report(ent, err)
			errs = append(errs, err)
		}
	}

	if e.markers == MarkerRelease {
		for _, id := range ent.IDs(el) {
			if seen[id] {
				continue
			}
			if b, ok := ent.lookup(el, id); ok && b.parent == nil {
				e.releaseOne(ent, b)
			}
		}
	}
	return errors.Join(errs...)
}

// report records a per-element failure. Invalid binding kinds are engine
// bugs and are not recovered.
func (e *Engine) report(ent *Entry, err error) {
	if errors.Is(err, ErrInvalidBindingKind) {
		panic(err)
	}
	code := errors.CodeOf(err)
	e.metrics.failed(code)
	e.logger.Warn("binding failed", "model", ent.Model.Name(), "code", code, "error", err)
	e.emit(Activity{Op: OpError, Model: ent.Model.Name(), Error: err.Error()})
	if e.onError != nil {
		e.onError(err)
	}
	if ent.onError != nil {
		ent.onError(err)
	}
}
