package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mvolkova/plateful/pkg/realtime"
)

func wsDial(t *testing.T, tsURL, rawQuery string) (*websocket.Conn, firehoseInit) {
	t.Helper()

	u, _ := url.Parse(tsURL)
	u.Scheme = "ws"
	u.Path = "/api/firehose/ws"
	u.RawQuery = rawQuery

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		t.Fatalf("dial ws: %v", err)
	}

	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read init: %v", err)
	}

	var init firehoseInit
	if err := json.Unmarshal(data, &init); err != nil {
		t.Fatalf("unmarshal init: %v", err)
	}
	if init.Type != "init" {
		t.Fatalf("expected init message, got %q", init.Type)
	}
	return conn, init
}

func TestFirehoseInitSnapshot(t *testing.T) {
	_, ts, store := newTestServer(t)
	saveTestRecipes(t, store)

	conn, init := wsDial(t, ts.URL, "")
	defer func() { _ = conn.Close() }()

	if init.Count != 2 {
		t.Fatalf("snapshot count = %d, want 2", init.Count)
	}
	// Newest first.
	if init.Recipes[0].ID != "r2" {
		t.Errorf("first snapshot recipe = %s, want r2", init.Recipes[0].ID)
	}
}

func TestFirehoseSinceParameter(t *testing.T) {
	_, ts, store := newTestServer(t)
	saveTestRecipes(t, store)

	since := time.Now().UTC().Add(time.Hour).Format(time.RFC3339)
	conn, init := wsDial(t, ts.URL, "since="+url.QueryEscape(since))
	defer func() { _ = conn.Close() }()

	if init.Count != 0 {
		t.Fatalf("snapshot count = %d, want 0 for future since", init.Count)
	}
}

func TestFirehosePushesCreatedRecipes(t *testing.T) {
	_, ts, _ := newTestServer(t)

	conn, _ := wsDial(t, ts.URL, "")
	defer func() { _ = conn.Close() }()

	body := []byte(`{
		"title": "Ramen",
		"tags": ["dinner"],
		"ingredients": [{"name": "noodles", "amount": 200, "unit": "g"}],
		"steps": [{"position": 1, "instruction": "Boil"}]
	}`)
	resp, err := http.Post(ts.URL+"/api/recipes", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /api/recipes: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	if err := conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
		t.Fatalf("setting read deadline: %v", err)
	}
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("reading pushed event: %v", err)
	}

	var ev realtime.Event
	if err := json.Unmarshal(data, &ev); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}
	if ev.Type != realtime.EventRecipeCreated {
		t.Errorf("event type = %q, want %q", ev.Type, realtime.EventRecipeCreated)
	}
	if ev.Recipe.Title != "Ramen" {
		t.Errorf("event recipe title = %q, want Ramen", ev.Recipe.Title)
	}
}
