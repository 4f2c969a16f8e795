package depgraph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventBus_RegistrationOrder(t *testing.T) {
	var bus EventBus
	var order []string

	bus.OnTraced(func(TracedEvent) { order = append(order, "first") })
	bus.OnTraced(func(TracedEvent) { order = append(order, "second") })

	bus.emitTraced(TracedEvent{Node: "a"})

	assert.Equal(t, []string{"first", "second"}, order)
}

func TestEventBus_DispatchesToAllKinds(t *testing.T) {
	var bus EventBus
	var traced TracedEvent
	var pruned PrunedEvent
	var errEv ErrorEvent
	completed := false

	bus.OnTraced(func(ev TracedEvent) { traced = ev })
	bus.OnPruned(func(ev PrunedEvent) { pruned = ev })
	bus.OnError(func(ev ErrorEvent) { errEv = ev })
	bus.OnComplete(func() { completed = true })

	bus.emitTraced(TracedEvent{Node: "a", Dependencies: []NodeID{"b"}})
	bus.emitPruned(PrunedEvent{Node: "c"})
	bus.emitError(ErrorEvent{Node: "d", Error: errors.New("boom")})
	bus.emitComplete()

	assert.Equal(t, NodeID("a"), traced.Node)
	assert.Equal(t, []NodeID{"b"}, traced.Dependencies)
	assert.Equal(t, NodeID("c"), pruned.Node)
	assert.Equal(t, NodeID("d"), errEv.Node)
	assert.EqualError(t, errEv.Error, "boom")
	assert.True(t, completed)
}

func TestEventBus_ReentrantHandler(t *testing.T) {
	var bus EventBus
	var order []string

	bus.OnTraced(func(ev TracedEvent) {
		order = append(order, "outer:"+string(ev.Node))
		if ev.Node == "a" {
			bus.emitTraced(TracedEvent{Node: "b"})
		}
	})

	bus.emitTraced(TracedEvent{Node: "a"})

	assert.Equal(t, []string{"outer:a", "outer:b"}, order)
}

func TestEventBus_NoHandlersIsSafe(t *testing.T) {
	var bus EventBus
	assert.NotPanics(t, func() {
		bus.emitTraced(TracedEvent{Node: "a"})
		bus.emitPruned(PrunedEvent{Node: "a"})
		bus.emitError(ErrorEvent{Node: "a", Error: errors.New("x")})
		bus.emitComplete()
	})
}
