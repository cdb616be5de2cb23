package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newRouter(mw ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(mw...)
	r.Get("/bindings/{model}", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "model") == "missing" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("ok"))
	})
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	return r
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestPrometheus(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := newRouter(Prometheus(WithRegistry(reg), WithConstLabels(prometheus.Labels{"app": "test"})))

	get(r, "/bindings/signup")
	get(r, "/bindings/login")
	get(r, "/bindings/missing")

	want := `
# HELP bindery_inspect_requests_total Total number of inspector requests
# TYPE bindery_inspect_requests_total counter
bindery_inspect_requests_total{app="test",route="/bindings/{model}",status="200"} 2
bindery_inspect_requests_total{app="test",route="/bindings/{model}",status="404"} 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(want), "bindery_inspect_requests_total"); err != nil {
		t.Error(err)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range families {
		if f.GetName() == "bindery_inspect_requests_in_flight" {
			if v := f.GetMetric()[0].GetGauge().GetValue(); v != 0 {
				t.Errorf("in-flight = %v after requests finished", v)
			}
		}
	}
}

func TestPrometheusNamespace(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := newRouter(Prometheus(WithRegistry(reg), WithNamespace("forms"), WithSubsystem(""), WithBuckets([]float64{0.1, 1})))
	get(r, "/boom")

	if n, err := testutil.GatherAndCount(reg, "forms_requests_total", "forms_request_duration_seconds"); err != nil || n != 2 {
		t.Errorf("GatherAndCount = %d, %v; want 2", n, err)
	}
}

func TestOpenTelemetry(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	r := newRouter(OpenTelemetry(
		WithTracerProvider(tp),
		WithRequestFilter(func(r *http.Request) bool { return r.URL.Path != "/boom" || r.URL.Query().Has("trace") }),
		WithAttributeExtractor(func(*http.Request) []attribute.KeyValue {
			return []attribute.KeyValue{attribute.String("test.attr", "ok")}
		}),
	))

	get(r, "/bindings/signup")
	get(r, "/boom")
	get(r, "/boom?trace")

	spans := sr.Ended()
	if len(spans) != 2 {
		t.Fatalf("ended spans = %d, want 2", len(spans))
	}
	if got := spans[0].Name(); got != "GET /bindings/{model}" {
		t.Errorf("span name = %q", got)
	}
	if spans[0].Status().Code != codes.Ok {
		t.Errorf("status = %v, want Ok", spans[0].Status())
	}
	if spans[1].Status().Code != codes.Error {
		t.Errorf("status = %v, want Error", spans[1].Status())
	}

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range spans[0].Attributes() {
		attrs[kv.Key] = kv.Value
	}
	if attrs["test.attr"].AsString() != "ok" || attrs["http.route"].AsString() != "/bindings/{model}" {
		t.Errorf("attributes = %v", spans[0].Attributes())
	}
	if attrs["http.status_code"].AsInt64() != http.StatusOK {
		t.Errorf("status code attribute = %v", attrs["http.status_code"])
	}
}
