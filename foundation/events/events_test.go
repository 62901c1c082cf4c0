package events_test

import (
	"testing"

	"github.com/ardanlabs/powchain/foundation/events"
	"github.com/google/uuid"
)

func Test_Events(t *testing.T) {
	evts := events.New()

	id1 := uuid.NewString()
	id2 := uuid.NewString()

	ch1 := evts.Acquire(id1)
	ch2 := evts.Acquire(id2)

	if evts.Acquire(id1) != ch1 {
		t.Fatalf("Should get the same channel for the same id.")
	}

	evts.Sendf("mined blk[%d]", 1)

	for _, ch := range []<-chan string{ch1, ch2} {
		if msg := <-ch; msg != "mined blk[1]" {
			t.Fatalf("Should receive the message, got %q", msg)
		}
	}

	if err := evts.Release(id1); err != nil {
		t.Fatalf("Should be able to release: %s", err)
	}

	if _, open := <-ch1; open {
		t.Fatalf("Should close the channel on release.")
	}

	if err := evts.Release(id1); err == nil {
		t.Fatalf("Should not be able to release twice.")
	}

	evts.Shutdown()
	if _, open := <-ch2; open {
		t.Fatalf("Should close the channel on shutdown.")
	}

	// Sending with nobody registered must not block.
	evts.Send("nobody listening")
}

func Test_EventsSlowReceiver(t *testing.T) {
	evts := events.New()
	ch := evts.Acquire("slow")

	for i := 0; i < 1000; i++ {
		evts.Sendf("event %d", i)
	}

	if len(ch) != cap(ch) {
		t.Fatalf("Should fill the buffer and drop the rest, got %d of %d", len(ch), cap(ch))
	}
}
