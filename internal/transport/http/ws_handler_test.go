package http

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialFeed(t *testing.T, s *testServer, as func(*http.Request)) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	req, _ := http.NewRequest(http.MethodGet, s.URL, nil)
	if as != nil {
		as(req)
	}
	u := "ws" + strings.TrimPrefix(s.URL, "http") + "/ws/reviews"
	return websocket.DefaultDialer.Dial(u, req.Header)
}

func TestReviewFeedStreamsSubmissions(t *testing.T) {
	s := newTestServer(t, nil)

	conn, _, err := dialFeed(t, s, teacher)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	readNext(conn, t, "subscribed")
	waitForSubscribers(t, s, 1)

	id := submit(t, s)

	typ, payload := readNext(conn, t, "submitted")
	if typ != "submitted" || payload["submissionId"] != id {
		t.Fatalf("unexpected event %s %+v", typ, payload)
	}
	if payload["status"] != "pending_review" {
		t.Fatalf("expected pending_review status, got %v", payload["status"])
	}
}

func TestReviewFeedPingPong(t *testing.T) {
	s := newTestServer(t, nil)

	conn, _, err := dialFeed(t, s, teacher)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	readNext(conn, t, "subscribed")

	if err := conn.WriteJSON(map[string]any{"type": "ping"}); err != nil {
		t.Fatalf("write ping: %v", err)
	}
	readNext(conn, t, "pong")

	if err := conn.WriteJSON(map[string]any{"type": "shout"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	readNext(conn, t, "error")
}

func TestReviewFeedRejectsStudents(t *testing.T) {
	s := newTestServer(t, nil)

	_, resp, err := dialFeed(t, s, student)
	if err == nil {
		t.Fatal("expected dial to fail for a student")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %+v", resp)
	}
}

func TestReviewFeedUnsubscribesOnClose(t *testing.T) {
	s := newTestServer(t, nil)

	conn, _, err := dialFeed(t, s, teacher)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	readNext(conn, t, "subscribed")
	waitForSubscribers(t, s, 1)

	conn.Close()
	waitForSubscribers(t, s, 0)
}

func waitForSubscribers(t *testing.T, s *testServer, want int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if s.feed.Subscribers() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected %d subscribers, got %d", want, s.feed.Subscribers())
}

func readNext(conn *websocket.Conn, t *testing.T, expect string) (string, map[string]any) {
	t.Helper()
	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if expect != "" && msg.Type != expect {
		t.Fatalf("expected type %s, got %s", expect, msg.Type)
	}
	return msg.Type, msg.Payload
}

func TestEnqueueStopsWhenWriterExits(t *testing.T) {
	send := make(chan outboundMessage[any], 1)
	writerDone := make(chan struct{})

	if !enqueue(send, writerDone, outboundMessage[any]{Type: "pong"}) {
		t.Fatalf("expected enqueue to succeed while the writer runs")
	}

	close(writerDone)
	result := make(chan bool, 1)
	go func() {
		result <- enqueue(send, writerDone, outboundMessage[any]{Type: "pong"})
	}()
	select {
	case ok := <-result:
		if ok {
			t.Fatalf("expected enqueue to report a stopped writer")
		}
	case <-time.After(time.Second):
		t.Fatalf("enqueue blocked on a full queue after the writer exited")
	}
}
