package toast

import (
	"container/list"

	"github.com/jmylchreest/toastui/internal/model"
)

// Queue is a strict FIFO of pending descriptors.
// It is not safe for concurrent use; the Presenter guards it.
type Queue struct {
	items *list.List               // of model.Descriptor
	index map[string]*list.Element // by descriptor ID
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{
		items: list.New(),
		index: make(map[string]*list.Element),
	}
}

// Enqueue appends d to the tail.
func (q *Queue) Enqueue(d model.Descriptor) {
	elem := q.items.PushBack(d)
	if d.ID != "" {
		q.index[d.ID] = elem
	}
}

// Dequeue removes and returns the head.
func (q *Queue) Dequeue() (model.Descriptor, bool) {
	elem := q.items.Front()
	if elem == nil {
		return model.Descriptor{}, false
	}
	q.items.Remove(elem)
	d := elem.Value.(model.Descriptor)
	if q.index[d.ID] == elem {
		delete(q.index, d.ID)
	}
	return d, true
}

// Len returns the number of pending descriptors.
func (q *Queue) Len() int {
	return q.items.Len()
}

// Get returns the queued descriptor with the given ID.
func (q *Queue) Get(id string) (model.Descriptor, bool) {
	elem, ok := q.index[id]
	if !ok {
		return model.Descriptor{}, false
	}
	return elem.Value.(model.Descriptor), true
}

// Snapshot returns the pending descriptors in presentation order.
func (q *Queue) Snapshot() []model.Descriptor {
	out := make([]model.Descriptor, 0, q.items.Len())
	for e := q.items.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(model.Descriptor))
	}
	return out
}
