package eventbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusPublishSubscribe(t *testing.T) {
	bus := New()
	ch := bus.Subscribe()
	bus.Publish("hello")
	assert.Equal(t, "hello", <-ch)
	bus.Unsubscribe(ch)
	_, ok := <-ch
	assert.False(t, ok, "unsubscribed channel must be closed")
}

func TestBusClose(t *testing.T) {
	bus := New()
	ch1 := bus.Subscribe()
	ch2 := bus.Subscribe()
	bus.Close()
	_, ok := <-ch1
	assert.False(t, ok)
	_, ok = <-ch2
	assert.False(t, ok)

	// subscribing after close yields a closed channel
	_, ok = <-bus.Subscribe()
	assert.False(t, ok)
	bus.Publish("ignored")
	bus.Close()
}

func TestBusUnsubscribeAfterClose(t *testing.T) {
	bus := New()
	ch := bus.Subscribe()
	bus.Close()
	assert.NotPanics(t, func() { bus.Unsubscribe(ch) })
}

func TestBusDropsWhenFull(t *testing.T) {
	bus := NewWithBuffer(2)
	ch := bus.Subscribe()
	for i := 0; i < 5; i++ {
		bus.Publish(i)
	}
	assert.Equal(t, uint64(3), bus.Dropped())
	require.Len(t, ch, 2)
	assert.Equal(t, 0, <-ch)
	assert.Equal(t, 1, <-ch)
}

type recorder struct{ got []Event }

func (r *recorder) Publish(e Event) { r.got = append(r.got, e) }

func TestFanoutDeliversToEveryPublisher(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	bus := NewWithBuffer(1)
	sub := bus.Subscribe()
	f := Fanout{a, nil, b, bus}
	f.Publish(1)
	f.Publish(2)

	assert.Equal(t, []Event{1, 2}, a.got)
	assert.Equal(t, []Event{1, 2}, b.got)
	assert.Equal(t, 1, <-sub)
	assert.Equal(t, uint64(1), bus.Dropped())
}
