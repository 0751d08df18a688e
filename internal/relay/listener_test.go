package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/ytget/credential-mapper/internal/events"
)

// recordingBus captures published events synchronously.
type recordingBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *recordingBus) Publish(_ context.Context, e events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
}

func (b *recordingBus) PublishSync(ctx context.Context, e events.Event) error {
	b.Publish(ctx, e)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

func (b *recordingBus) named(name string) []events.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []events.Event
	for _, e := range b.events {
		if e.EventName() == name {
			out = append(out, e)
		}
	}
	return out
}

func doRequest(t *testing.T, h http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) mapResponse {
	t.Helper()
	var resp mapResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Invalid JSON response %q: %v", rec.Body.String(), err)
	}
	return resp
}

func TestHandleMap_Success(t *testing.T) {
	bus := &recordingBus{}
	l := NewListener(bus, nil)

	rec := doRequest(t, l.Handler(), http.MethodPost, MapPath, `{"id":"c1","name":"Cred One"}`, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeResponse(t, rec)
	if !resp.Success || resp.Message != msgReceived {
		t.Errorf("Unexpected response: %+v", resp)
	}

	received := bus.named(events.NameIncomingMappingReceived)
	if len(received) != 1 {
		t.Fatalf("Expected exactly one notification, got %d", len(received))
	}
	req := received[0].(events.IncomingMappingReceived).Request
	if req.ID != "c1" || req.Name != "Cred One" {
		t.Errorf("Unexpected payload: %+v", req)
	}
}

func TestHandleMap_MissingFields(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty object", `{}`},
		{"missing name", `{"id":"c1"}`},
		{"missing id", `{"name":"Cred"}`},
		{"empty strings", `{"id":"","name":""}`},
		{"no body", ``},
		{"invalid json", `{"id":`},
		{"wrong types", `{"id":1,"name":2}`},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			bus := &recordingBus{}
			l := NewListener(bus, nil)

			rec := doRequest(t, l.Handler(), http.MethodPost, MapPath, test.body, nil)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("Expected 400, got %d", rec.Code)
			}
			resp := decodeResponse(t, rec)
			if resp.Success || resp.Message != "Missing id or name" {
				t.Errorf("Unexpected response: %+v", resp)
			}
			if n := len(bus.named(events.NameIncomingMappingReceived)); n != 0 {
				t.Errorf("Expected no notification, got %d", n)
			}
		})
	}
}

func TestCORSHeaders(t *testing.T) {
	l := NewListener(&recordingBus{}, nil)

	rec := doRequest(t, l.Handler(), http.MethodPost, MapPath, `{"id":"c1","name":"n"}`,
		map[string]string{"Origin": "https://app.example.com"})

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Expected wildcard origin, got %q", got)
	}
}

func TestPreflight(t *testing.T) {
	l := NewListener(&recordingBus{}, nil)

	rec := doRequest(t, l.Handler(), http.MethodOptions, MapPath, "", map[string]string{
		"Origin":                         "https://app.example.com",
		"Access-Control-Request-Method":  http.MethodPost,
		"Access-Control-Request-Headers": "Content-Type",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 for preflight, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Expected wildcard origin, got %q", got)
	}
	methods := rec.Header().Get("Access-Control-Allow-Methods")
	for _, m := range []string{"GET", "POST", "OPTIONS"} {
		if !strings.Contains(methods, m) {
			t.Errorf("Expected %s in allowed methods %q", m, methods)
		}
	}
	if got := rec.Header().Get("Access-Control-Allow-Headers"); !strings.Contains(strings.ToLower(got), "content-type") {
		t.Errorf("Expected Content-Type in allowed headers, got %q", got)
	}
}

func TestOptionsWithoutOrigin(t *testing.T) {
	l := NewListener(&recordingBus{}, nil)

	for _, path := range []string{MapPath, "/", "/anything/else"} {
		rec := doRequest(t, l.Handler(), http.MethodOptions, path, "", nil)
		if rec.Code != http.StatusOK {
			t.Errorf("OPTIONS %s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestRateLimit(t *testing.T) {
	bus := &recordingBus{}
	l := NewListener(bus, nil, WithRateLimit(rate.Limit(0.001), 2))

	body := `{"id":"c1","name":"Cred One"}`
	for i := 0; i < 2; i++ {
		if rec := doRequest(t, l.Handler(), http.MethodPost, MapPath, body, nil); rec.Code != http.StatusOK {
			t.Fatalf("Request %d: expected 200, got %d", i, rec.Code)
		}
	}

	rec := doRequest(t, l.Handler(), http.MethodPost, MapPath, body, nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("Expected 429, got %d", rec.Code)
	}
	if resp := decodeResponse(t, rec); resp.Success {
		t.Error("Rate limited response should not report success")
	}
	if n := len(bus.named(events.NameIncomingMappingReceived)); n != 2 {
		t.Errorf("Expected 2 notifications, got %d", n)
	}
}

func TestListener_StartStop(t *testing.T) {
	bus := &recordingBus{}
	l := NewListener(bus, nil, WithAddr("127.0.0.1:0"))

	if l.Running() {
		t.Fatal("Listener should not run before Start")
	}
	if err := l.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(func() { _ = l.Stop() })

	if !l.Running() || l.Addr() == "" {
		t.Fatal("Listener should be running with a bound address")
	}

	resp := postMap(t, l.Addr(), `{"id":"c1","name":"Cred One"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 from live listener, got %d", resp.StatusCode)
	}

	if err := l.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if l.Running() || l.Addr() != "" {
		t.Error("Listener should be stopped")
	}

	statuses := bus.named(events.NameServerStatusChanged)
	if len(statuses) != 2 {
		t.Fatalf("Expected 2 status events, got %d", len(statuses))
	}
	if !statuses[0].(events.ServerStatusChanged).Running || statuses[1].(events.ServerStatusChanged).Running {
		t.Error("Expected running=true then running=false")
	}
}

func TestListener_StartTwice(t *testing.T) {
	bus := &recordingBus{}
	l := NewListener(bus, nil, WithAddr("127.0.0.1:0"))

	if err := l.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(func() { _ = l.Stop() })
	addr := l.Addr()

	if err := l.Start(); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("Expected ErrAlreadyRunning, got %v", err)
	}
	if l.Addr() != addr {
		t.Errorf("Second Start should not rebind: %s != %s", l.Addr(), addr)
	}

	// The first listener still serves
	resp := postMap(t, addr, `{"id":"c2","name":"Cred Two"}`)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200 after failed second start, got %d", resp.StatusCode)
	}
	if n := len(bus.named(events.NameServerStatusChanged)); n != 1 {
		t.Errorf("Failed start should not publish status, got %d events", n)
	}
}

func TestListener_StopNotRunning(t *testing.T) {
	bus := &recordingBus{}
	l := NewListener(bus, nil, WithAddr("127.0.0.1:0"))

	if err := l.Stop(); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("Expected ErrNotRunning, got %v", err)
	}
	if n := len(bus.events); n != 0 {
		t.Errorf("Stop on idle listener should not publish, got %d events", n)
	}
}

func TestListener_Restart(t *testing.T) {
	l := NewListener(&recordingBus{}, nil, WithAddr("127.0.0.1:0"))

	for i := 0; i < 2; i++ {
		if err := l.Start(); err != nil {
			t.Fatalf("Start %d failed: %v", i, err)
		}
		if err := l.Stop(); err != nil {
			t.Fatalf("Stop %d failed: %v", i, err)
		}
	}
}

func TestListener_StartBindError(t *testing.T) {
	first := NewListener(&recordingBus{}, nil, WithAddr("127.0.0.1:0"))
	if err := first.Start(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = first.Stop() })

	second := NewListener(&recordingBus{}, nil, WithAddr(first.Addr()))
	if err := second.Start(); err == nil {
		_ = second.Stop()
		t.Fatal("Expected bind error for an address in use")
	}
	if second.Running() {
		t.Error("Listener should not report running after a bind error")
	}
}

func TestListener_StopAsync(t *testing.T) {
	l := NewListener(&recordingBus{}, nil, WithAddr("127.0.0.1:0"))
	if err := l.Start(); err != nil {
		t.Fatal(err)
	}

	result := make(chan error, 1)
	l.StopAsync(func(err error) { result <- err })

	if err := <-result; err != nil {
		t.Errorf("StopAsync reported %v", err)
	}
	if l.Running() {
		t.Error("Listener should be stopped once the callback runs")
	}
}

func TestListener_ConcurrentStop(t *testing.T) {
	bus := &recordingBus{}
	l := NewListener(bus, nil, WithAddr("127.0.0.1:0"))
	if err := l.Start(); err != nil {
		t.Fatal(err)
	}

	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() { results <- l.Stop() }()
	}

	var stopped, notRunning int
	for i := 0; i < 2; i++ {
		select {
		case err := <-results:
			switch {
			case err == nil:
				stopped++
			case errors.Is(err, ErrNotRunning):
				notRunning++
			default:
				t.Errorf("Unexpected Stop error %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("Stop did not return")
		}
	}
	if stopped != 1 || notRunning != 1 {
		t.Errorf("Expected one stop and one ErrNotRunning, got %d and %d", stopped, notRunning)
	}
	if n := len(bus.named(events.NameServerStatusChanged)); n != 2 {
		t.Errorf("Expected 2 status events, got %d", n)
	}
}

func TestListener_StateReleasedWhileDraining(t *testing.T) {
	l := NewListener(&recordingBus{}, nil, WithAddr("127.0.0.1:0"), WithShutdownTimeout(2*time.Second))
	if err := l.Start(); err != nil {
		t.Fatal(err)
	}

	// A half-sent request keeps the connection active so Shutdown waits
	conn, err := net.Dial("tcp", l.Addr())
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	if _, err := conn.Write([]byte("POST /map HTTP/1.1\r\nHost: localhost\r\n")); err != nil {
		t.Fatal(err)
	}
	// Accept is ordered, so a served request means conn was accepted too
	if resp := postMap(t, l.Addr(), `{"id":"c1","name":"Cred One"}`); resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	stopped := make(chan error, 1)
	go func() { stopped <- l.Stop() }()

	start := time.Now()
	for l.Running() && time.Since(start) < time.Second {
		time.Sleep(10 * time.Millisecond)
	}
	if elapsed := time.Since(start); elapsed >= time.Second {
		t.Fatalf("Listener still reported running %v into Stop", elapsed)
	}
	if l.Addr() != "" {
		t.Error("Address should clear as soon as Stop begins")
	}

	select {
	case err := <-stopped:
		if err != nil {
			t.Errorf("Stop failed: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return")
	}
}

func TestDefaultAddr(t *testing.T) {
	if got := DefaultAddr(); got != fmt.Sprintf("127.0.0.1:%d", DefaultPort) {
		t.Errorf("Unexpected default address %s", got)
	}
}

func postMap(t *testing.T, addr, body string) *http.Response {
	t.Helper()
	resp, err := http.Post("http://"+addr+MapPath, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}
