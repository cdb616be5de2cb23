package inspect

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/bindery/pkg/binding"
	"github.com/vango-dev/bindery/pkg/bindtest"
	"github.com/vango-dev/bindery/pkg/model"
)

type fixture struct {
	h   *bindtest.Harness
	hub *Hub
	srv *httptest.Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	hub := NewHub(nil)
	h := bindtest.New(t, binding.WithActivity(hub.Publish))

	m := model.New("signup")
	m.Set("email", "a@b.c")
	root := h.Component("x-signup", m)
	h.MountHTML(root, `<form><input data-testid="email" data-model="email"></form>`)

	srv := httptest.NewServer(New(h.Engine, hub, WithRegistry(h.Registry)).Handler())
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return &fixture{h: h, hub: hub, srv: srv}
}

func (f *fixture) get(t *testing.T, path string) (int, string) {
	t.Helper()
	resp, err := http.Get(f.srv.URL + path)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode, string(body)
}

func TestBindingsEndpoint(t *testing.T) {
	f := newFixture(t)

	code, body := f.get(t, "/bindings")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	var entries []binding.EntryInfo
	if err := json.Unmarshal([]byte(body), &entries); err != nil {
		t.Fatalf("decode: %v\n%s", err, body)
	}
	if len(entries) != 1 || entries[0].Model != "signup" || len(entries[0].Elements) != 1 {
		t.Fatalf("entries = %+v", entries)
	}
	if b := entries[0].Elements[0].Bindings[0]; b.ID != "model:value=email" || b.Value != "a@b.c" {
		t.Errorf("binding = %+v", b)
	}

	code, body = f.get(t, "/bindings/signup")
	if code != http.StatusOK || !strings.Contains(body, `"model": "signup"`) {
		t.Errorf("GET /bindings/signup = %d %s", code, body)
	}
	if code, _ := f.get(t, "/bindings/login"); code != http.StatusNotFound {
		t.Errorf("GET /bindings/login = %d, want 404", code)
	}
	if code, body := f.get(t, "/healthz"); code != http.StatusOK || body != "ok" {
		t.Errorf("GET /healthz = %d %q", code, body)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t)
	f.get(t, "/bindings")

	code, body := f.get(t, "/metrics")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	for _, want := range []string{
		`bindery_installs_total{kind="model"} 1`,
		`bindery_bound_models 1`,
		`bindery_inspect_requests_total{route="/bindings",status="200"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestActivityStream(t *testing.T) {
	f := newFixture(t)

	url := "ws" + strings.TrimPrefix(f.srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var msg Message
	if err := conn.ReadJSON(&msg); err != nil || msg.Type != MessageHello {
		t.Fatalf("first message = %+v, %v", msg, err)
	}
	if f.hub.ClientCount() != 1 {
		t.Errorf("ClientCount() = %d", f.hub.ClientCount())
	}

	m := model.New("late")
	f.h.Component("x-late", m)

	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatal(err)
	}
	if msg.Type != MessageActivity || msg.Activity == nil || msg.Activity.Op != binding.OpBind || msg.Activity.Model != "late" {
		t.Errorf("activity message = %+v", msg)
	}
}

func TestServeShutsDown(t *testing.T) {
	hub := NewHub(nil)
	srv := New(binding.New(), hub, WithRegistry(prometheus.NewRegistry()))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
