package bus

import (
	"testing"
	"time"
)

func TestPublishSubscribe(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("inbox.", 10)
	defer unsub()

	b.Publish(Event{Kind: KindInboxUpdated, Timestamp: time.Now(), Payload: "test"})

	select {
	case evt := <-ch:
		if evt.Kind != KindInboxUpdated {
			t.Errorf("got kind %q, want %q", evt.Kind, KindInboxUpdated)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
}

func TestNamespaceFiltering(t *testing.T) {
	b := New()
	inboxCh, unsub1 := b.Subscribe("inbox.", 10)
	defer unsub1()
	sessionCh, unsub2 := b.Subscribe("session.", 10)
	defer unsub2()

	b.Publish(Event{Kind: KindSessionChanged, Timestamp: time.Now()})

	select {
	case <-sessionCh:
	case <-time.After(time.Second):
		t.Fatal("session subscriber did not receive event")
	}

	select {
	case evt := <-inboxCh:
		t.Errorf("inbox subscriber received %q, want nothing", evt.Kind)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnsubscribe(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("inbox.", 10)
	unsub()

	b.Publish(Event{Kind: KindInboxUpdated, Timestamp: time.Now()})

	select {
	case evt := <-ch:
		t.Errorf("unsubscribed channel received %q", evt.Kind)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestFullSubscriberDoesNotBlock(t *testing.T) {
	b := New()
	_, unsub := b.Subscribe("inbox.", 1)
	defer unsub()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			b.Publish(Event{Kind: KindInboxUpdated, Timestamp: time.Now()})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full subscriber")
	}
}
