package binding_test

import (
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/vango-dev/bindery/pkg/binding"
	"github.com/vango-dev/bindery/pkg/bindtest"
	"github.com/vango-dev/bindery/pkg/model"
)

func TestSpans(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	h := bindtest.New(t, binding.WithTracer(tp.Tracer("test")))

	m := model.New("traced")
	root := h.Component("x-traced", m)
	root.SetInnerHTML(`<input type="file" data-model="upload">`)
	if err := h.Flush(); err == nil {
		t.Fatal("expected the batch to fail")
	}

	spans := sr.Ended()
	if len(spans) != 2 {
		t.Fatalf("spans = %d, want 2", len(spans))
	}

	bind, batch := spans[0], spans[1]
	if bind.Name() != "bindery.Bind" || bind.Status().Code != codes.Ok {
		t.Errorf("bind span = %s %v", bind.Name(), bind.Status())
	}
	if batch.Name() != "bindery.Batch" || batch.Status().Code != codes.Error {
		t.Errorf("batch span = %s %v", batch.Name(), batch.Status())
	}
	want := attribute.String("bindery.model", "traced")
	found := false
	for _, kv := range batch.Attributes() {
		if kv == want {
			found = true
		}
	}
	if !found {
		t.Errorf("batch attributes = %v, want %v", batch.Attributes(), want)
	}
}
