package events

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroker_DeliversOnlyToOwner(t *testing.T) {
	b := NewBroker(4)
	defer b.Close()

	alice := b.Subscribe("1")
	bob := b.Subscribe("2")

	n := b.Publish(Event{Type: RecordCreated, UserID: "1", RecordID: 7})
	assert.Equal(t, 1, n)

	select {
	case ev := <-alice.C:
		assert.Equal(t, RecordCreated, ev.Type)
		assert.Equal(t, int64(7), ev.RecordID)
		assert.False(t, ev.At.IsZero())
	case <-time.After(time.Second):
		t.Fatal("alice did not receive the event")
	}

	select {
	case ev := <-bob.C:
		t.Fatalf("bob received %+v", ev)
	default:
	}
}

func TestBroker_PublishDoesNotBlock(t *testing.T) {
	b := NewBroker(1)
	defer b.Close()
	sub := b.Subscribe("1")

	assert.Equal(t, 1, b.Publish(Event{Type: RecordCreated, UserID: "1"}))
	assert.Equal(t, 0, b.Publish(Event{Type: RecordUpdated, UserID: "1"}), "full buffer drops")

	ev := <-sub.C
	assert.Equal(t, RecordCreated, ev.Type)
}

func TestSubscription_CloseIsIdempotent(t *testing.T) {
	b := NewBroker(1)
	sub := b.Subscribe("1")
	require.Equal(t, 1, b.Subscribers("1"))

	sub.Close()
	sub.Close()
	assert.Equal(t, 0, b.Subscribers("1"))

	_, open := <-sub.C
	assert.False(t, open)

	b.Close()
	sub.Close()
}

func TestBroker_CloseEndsSubscriptions(t *testing.T) {
	b := NewBroker(1)
	sub := b.Subscribe("1")
	b.Close()

	_, open := <-sub.C
	assert.False(t, open)
	assert.Equal(t, 0, b.Publish(Event{UserID: "1"}))

	late := b.Subscribe("1")
	_, open = <-late.C
	assert.False(t, open)
}

func TestBroker_ConcurrentUse(t *testing.T) {
	b := NewBroker(8)
	defer b.Close()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s := b.Subscribe("1")
			s.Close()
		}()
		go func() {
			defer wg.Done()
			b.Publish(Event{Type: RecordDeleted, UserID: "1"})
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, b.Subscribers("1"))
}
