package lifecycle

import "testing"

func TestPublishReachesSubscribersInOrder(t *testing.T) {
	h := NewHub()
	var got []string
	h.Subscribe(func(ev Event) { got = append(got, "a:"+string(ev.Kind)) })
	h.Subscribe(func(ev Event) { got = append(got, "b:"+string(ev.Kind)) })
	h.Publish(Event{Kind: Background})
	if len(got) != 2 || got[0] != "a:background" || got[1] != "b:background" {
		t.Fatalf("unexpected delivery: %v", got)
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	h := NewHub()
	n := 0
	off := h.Subscribe(func(Event) { n++ })
	h.Publish(Event{Kind: Background})
	off()
	off() // second call is harmless
	h.Publish(Event{Kind: Background})
	if n != 1 {
		t.Fatalf("expected 1 delivery, got %d", n)
	}
	if h.Len() != 0 {
		t.Fatalf("expected no subscribers, got %d", h.Len())
	}
}

func TestUnsubscribeDuringPublish(t *testing.T) {
	h := NewHub()
	var off func()
	n := 0
	off = h.Subscribe(func(Event) {
		n++
		off()
	})
	h.Publish(Event{Kind: Background})
	h.Publish(Event{Kind: Background})
	if n != 1 {
		t.Fatalf("expected handler to run once, got %d", n)
	}
}
