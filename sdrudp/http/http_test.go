package http

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chzchzchz/rtludp/radio"
	"github.com/chzchzchz/rtludp/sdrudp"
)

func init() { gin.SetMode(gin.TestMode) }

type fakeSource struct{ st sdrudp.Status }

func (f *fakeSource) Status() sdrudp.Status { return f.st }
func (f *fakeSource) Stats() sdrudp.Stats   { return f.st.Stats }

func newFake() *fakeSource {
	return &fakeSource{sdrudp.Status{
		ID:          "rx-1",
		Driver:      "mock",
		DataPort:    1234,
		ControlPort: 1235,
		Settings:    radio.Settings{CenterHz: 100000000, SampleRate: 2048000, GainTenthsDB: 197},
		Stats:       sdrudp.Stats{BlocksSent: 7, UnknownCommands: 2},
	}}
}

func TestStatus(t *testing.T) {
	h := NewHandler(newFake())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	var st sdrudp.Status
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil {
		t.Fatal(err)
	}
	if st.ID != "rx-1" || st.ControlPort != 1235 || st.Settings.GainTenthsDB != 197 {
		t.Fatalf("got %+v", st)
	}
}

func TestStats(t *testing.T) {
	h := NewHandler(newFake())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	var st sdrudp.Stats
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil {
		t.Fatal(err)
	}
	if st.BlocksSent != 7 || st.UnknownCommands != 2 {
		t.Fatalf("got %+v", st)
	}
}

func TestReadOnly(t *testing.T) {
	h := NewHandler(newFake())
	for _, path := range []string{"/api/status", "/api/stats"} {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, nil))
		if w.Code == http.StatusOK {
			t.Errorf("POST %s accepted", path)
		}
	}
}

func TestServeHttpShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	ln.Close()

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- ServeHttp(ctx, newFake(), addr) }()

	var resp *http.Response
	for i := 0; i < 50; i++ {
		if resp, err = http.Get("http://" + addr + "/api/stats"); err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	cancel()
	select {
	case err := <-errc:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}
