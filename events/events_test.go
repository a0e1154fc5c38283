package events

import (
	"sync"
	"testing"

	"github.com/lixenwraith/gridflood/parameter"
	"github.com/lixenwraith/gridflood/tile"
)

// TestQueueFIFO verifies consume order and emptiness after consume
func TestQueueFIFO(t *testing.T) {
	q := NewEventQueue()
	q.Push(GridMoved(1, 10))
	q.Push(GridRemoved(1, 11))
	q.Push(TileChanged(12, tile.Index{X: 1, Y: 2}, true))

	if q.Len() != 3 {
		t.Errorf("Expected 3 pending, got %d", q.Len())
	}

	got := q.Consume()
	if len(got) != 3 {
		t.Fatalf("Expected 3 events, got %d", len(got))
	}
	if got[0].Type != EventGridMoved || got[1].Type != EventGridRemoved || got[2].Type != EventTileChanged {
		t.Errorf("Unexpected order: %v %v %v", got[0].Type, got[1].Type, got[2].Type)
	}
	if p := got[2].Payload.(*TileChangedPayload); p.Grid != 12 || p.Index.Y != 2 || !p.Empty {
		t.Errorf("Unexpected payload %+v", p)
	}
	if q.Consume() != nil {
		t.Error("Expected nil after draining")
	}
}

// TestQueueOverflow verifies oldest events are dropped and counted
func TestQueueOverflow(t *testing.T) {
	q := NewEventQueue()
	for i := 0; i < parameter.EventQueueSize+5; i++ {
		q.Push(GridMoved(1, tile.GridID(i+1)))
	}
	if q.Dropped() == 0 {
		t.Error("Expected dropped count after overflow")
	}
	got := q.Consume()
	if len(got) != parameter.EventQueueSize {
		t.Fatalf("Expected %d events, got %d", parameter.EventQueueSize, len(got))
	}
	first := got[0].Payload.(*GridPayload)
	if first.Grid != 6 {
		t.Errorf("Expected oldest surviving grid 6, got %d", first.Grid)
	}
}

// TestQueueConcurrentPush verifies no events are lost below capacity
func TestQueueConcurrentPush(t *testing.T) {
	q := NewEventQueue()
	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				q.Push(GridMoved(1, tile.GridID(w*100+i)))
			}
		}(w)
	}
	wg.Wait()
	if got := len(q.Consume()); got != 200 {
		t.Errorf("Expected 200 events, got %d", got)
	}
}

type countingHandler struct {
	seen []EventType
}

func (h *countingHandler) HandleEvent(ctx *int, ev GridEvent) {
	*ctx++
	h.seen = append(h.seen, ev.Type)
}

func (h *countingHandler) EventTypes() []EventType {
	return []EventType{EventGridMoved, EventGridRemoved}
}

// TestRouterDispatch verifies routing by type and registration order
func TestRouterDispatch(t *testing.T) {
	q := NewEventQueue()
	r := NewRouter[*int](q)
	h := &countingHandler{}
	r.Register(h)

	var tileEvents int
	r.Register(HandlerFunc[*int]{
		Types: []EventType{EventTileChanged},
		Fn:    func(_ *int, _ GridEvent) { tileEvents++ },
	})

	q.Push(GridMoved(1, 1))
	q.Push(TileChanged(1, tile.Index{}, false))
	q.Push(GridRemoved(1, 1))
	q.Push(GridAdded(1, 2))

	calls := 0
	if n := r.DispatchAll(&calls); n != 4 {
		t.Errorf("Expected 4 consumed, got %d", n)
	}
	if calls != 2 || len(h.seen) != 2 {
		t.Errorf("Expected 2 handled grid events, got %d", calls)
	}
	if tileEvents != 1 {
		t.Errorf("Expected 1 tile event, got %d", tileEvents)
	}
	if r.HandlerCount(EventGridAdded) != 0 {
		t.Error("Expected no handlers for grid added")
	}
}

// TestRouterOverflow verifies the overflow callback fires once per drop burst
func TestRouterOverflow(t *testing.T) {
	q := NewEventQueue()
	r := NewRouter[*int](q)
	overflows := 0
	r.OnOverflow(func(*int) { overflows++ })

	for i := 0; i < parameter.EventQueueSize+1; i++ {
		q.Push(GridMoved(1, 1))
	}
	var ctx int
	r.DispatchAll(&ctx)
	r.DispatchAll(&ctx)
	if overflows != 1 {
		t.Errorf("Expected 1 overflow callback, got %d", overflows)
	}
}

// TestEventTypeString verifies names
func TestEventTypeString(t *testing.T) {
	if EventTileChanged.String() != "tile_changed" {
		t.Errorf("Unexpected name %s", EventTileChanged)
	}
	if EventType(99).String() != "unknown" {
		t.Error("Expected unknown for out of range type")
	}
}
