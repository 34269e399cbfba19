package feed

import (
	"testing"

	"github.com/schoolconnect/schoolconnect/internal/queue"
)

func TestPublishReachesOnlySameSchool(t *testing.T) {
	h := NewHub()

	spring, cancelSpring := h.Subscribe("SPRING24")
	defer cancelSpring()
	river, cancelRiver := h.Subscribe("RIVER99")
	defer cancelRiver()

	h.Publish(queue.NoticePostedEvent{NoticeID: 1, SchoolCode: "SPRING24", Title: "Exam"})

	select {
	case ev := <-spring:
		if ev.Title != "Exam" {
			t.Fatalf("got %+v", ev)
		}
	default:
		t.Fatal("subscriber of the posting school received nothing")
	}
	select {
	case ev := <-river:
		t.Fatalf("foreign school received %+v", ev)
	default:
	}
}

func TestCancelRemovesSubscription(t *testing.T) {
	h := NewHub()
	_, cancel := h.Subscribe("SPRING24")
	if n := h.Subscribers("SPRING24"); n != 1 {
		t.Fatalf("subscribers = %d", n)
	}
	cancel()
	cancel() // idempotent
	if n := h.Subscribers("SPRING24"); n != 0 {
		t.Fatalf("subscribers after cancel = %d", n)
	}
	// Publishing into an empty school must not panic or block.
	h.Publish(queue.NoticePostedEvent{SchoolCode: "SPRING24"})
}

func TestSlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	h := NewHub()
	ch, cancel := h.Subscribe("SPRING24")
	defer cancel()

	// Overflow the buffer; Publish must never block.
	for i := 0; i < 100; i++ {
		h.Publish(queue.NoticePostedEvent{NoticeID: uint64(i), SchoolCode: "SPRING24"})
	}
	if got := len(ch); got != cap(ch) {
		t.Fatalf("buffered = %d, want full buffer %d", got, cap(ch))
	}
}
