// Package queue holds the ephemeral play queue: an ordered list of song
// ids plus the current position. It is rebuilt on every play action and
// never persisted.
package queue

// Queue wraps an ordered id list with a current index (-1 if nothing
// selected).
type Queue struct {
	ids   []string
	index int
}

// New creates an empty queue.
func New() *Queue {
	return &Queue{index: -1}
}

// Set replaces the queue contents and current index.
func (q *Queue) Set(ids []string, index int) {
	q.ids = make([]string, len(ids))
	copy(q.ids, ids)
	if index < 0 || index >= len(q.ids) {
		index = -1
	}
	q.index = index
}

// Clear empties the queue and resets the index.
func (q *Queue) Clear() {
	q.ids = nil
	q.index = -1
}

// IDs returns a copy of the queued ids.
func (q *Queue) IDs() []string {
	out := make([]string, len(q.ids))
	copy(out, q.ids)
	return out
}

// Index returns the current position (-1 if none).
func (q *Queue) Index() int {
	return q.index
}

// Len returns the number of queued ids.
func (q *Queue) Len() int {
	return len(q.ids)
}

// IsEmpty returns true if nothing is queued.
func (q *Queue) IsEmpty() bool {
	return len(q.ids) == 0
}

// Current returns the id at the current position.
func (q *Queue) Current() (string, bool) {
	if q.index < 0 || q.index >= len(q.ids) {
		return "", false
	}
	return q.ids[q.index], true
}

// IndexOf returns the position of id in the queue, or -1.
func (q *Queue) IndexOf(id string) int {
	for i, v := range q.ids {
		if v == id {
			return i
		}
	}
	return -1
}

// Advance moves to the next id, wrapping past the end back to the start.
// Returns false if the queue is empty.
func (q *Queue) Advance() (string, bool) {
	if len(q.ids) == 0 {
		return "", false
	}
	q.index = (q.index + 1) % len(q.ids)
	return q.ids[q.index], true
}

// Retreat moves to the previous id, wrapping before the start to the end.
// Returns false if the queue is empty.
func (q *Queue) Retreat() (string, bool) {
	if len(q.ids) == 0 {
		return "", false
	}
	q.index = (q.index - 1 + len(q.ids)) % len(q.ids)
	return q.ids[q.index], true
}

// Remove deletes id from the queue, adjusting the current index so the
// same logical current entry stays selected. If the removed id was the
// current one, the index resets to -1 and wasCurrent is true.
func (q *Queue) Remove(id string) (wasCurrent bool) {
	pos := q.IndexOf(id)
	if pos == -1 {
		return false
	}

	if pos == q.index {
		wasCurrent = true
		q.index = -1
	} else if pos < q.index {
		q.index--
	}

	q.ids = append(q.ids[:pos], q.ids[pos+1:]...)
	return wasCurrent
}
