package publishers

import (
	"context"
	"errors"
	"testing"
)

type stubPublisher struct {
	id       string
	typ      string
	err      error
	closeErr error
	calls    int
	closed   bool
	events   []Event
}

func (s *stubPublisher) ID() string   { return s.id }
func (s *stubPublisher) Type() string { return s.typ }
func (s *stubPublisher) Publish(_ context.Context, evt Event) error {
	s.calls++
	s.events = append(s.events, evt)
	return s.err
}
func (s *stubPublisher) Close() error {
	s.closed = true
	return s.closeErr
}

func TestFanoutPublishAggregatesErrors(t *testing.T) {
	ok := &stubPublisher{id: "ok", typ: "http"}
	bad := &stubPublisher{id: "bad", typ: "http", err: errors.New("failed")}
	fanout := NewFanout([]Publisher{ok, nil, bad})

	if fanout.Size() != 2 {
		t.Fatalf("expected nil publishers to be skipped, size=%d", fanout.Size())
	}
	count, err := fanout.Publish(context.Background(), NewEvent(EventOpenTodos, 1))
	if count != 1 {
		t.Fatalf("expected 1 success, got %d", count)
	}
	if err == nil {
		t.Fatalf("expected aggregated error")
	}
	if ok.calls != 1 || bad.calls != 1 {
		t.Fatalf("expected every publisher to be called once")
	}
}

func TestFanoutEmptyAndNil(t *testing.T) {
	var nilFanout *Fanout
	if n, err := nilFanout.Publish(context.Background(), Event{}); n != 0 || err != nil {
		t.Fatalf("nil fanout Publish = %d, %v", n, err)
	}
	if nilFanout.Size() != 0 || nilFanout.Close() != nil {
		t.Fatalf("nil fanout should be inert")
	}
}

func TestFanoutCloseClosesPublishers(t *testing.T) {
	a := &stubPublisher{id: "a", typ: "sqs"}
	b := &stubPublisher{id: "b", typ: "sns", closeErr: errors.New("nope")}
	err := NewFanout([]Publisher{a, b}).Close()
	if !a.closed || !b.closed {
		t.Fatalf("expected all publishers closed")
	}
	if err == nil {
		t.Fatalf("expected close error to surface")
	}
}

func TestEventAttributes(t *testing.T) {
	attrs := NewEvent(EventCommentsSaved, 7).Attributes()
	if attrs["kind"] != EventCommentsSaved || attrs["user_id"] != "7" {
		t.Fatalf("unexpected attributes %#v", attrs)
	}
}
