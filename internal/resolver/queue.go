package resolver

// PendingRef is a reference waiting to be resolved
type PendingRef struct {
	// Path is the reference string
	Path string
	// Parent is the reference whose manifest declared Path, empty at entry level
	Parent string
}

// Queue is the FIFO work list of one entry resolution. Resolving a reference
// may push the references its own manifest declares; resolution is done when
// the queue is empty.
type Queue struct {
	items []PendingRef
	head  int
}

// NewQueue creates a queue holding refs
func NewQueue(refs ...PendingRef) *Queue {
	q := &Queue{}
	for _, ref := range refs {
		q.Push(ref)
	}
	return q
}

// Push appends a reference
func (q *Queue) Push(ref PendingRef) {
	q.items = append(q.items, ref)
}

// Pop removes and returns the oldest reference
func (q *Queue) Pop() (PendingRef, bool) {
	if q.head >= len(q.items) {
		return PendingRef{}, false
	}
	ref := q.items[q.head]
	q.items[q.head] = PendingRef{}
	q.head++
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	}
	return ref, true
}

// Len returns the number of pending references
func (q *Queue) Len() int {
	return len(q.items) - q.head
}
