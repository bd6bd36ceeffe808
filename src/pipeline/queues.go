package pipeline

// windowEntry is one tweet's contribution to the rolling graph.
type windowEntry struct {
	Unix     int64
	Hashtags []string
}

// WindowQueue is a ring buffer of window entries kept in timestamp order.
// Uses a circular buffer to avoid memory allocation on dequeue operations
type WindowQueue struct {
	items    []windowEntry
	head     int // Index of next item to dequeue
	tail     int // Index of next position to enqueue
	size     int // Current number of items
	capacity int // Maximum number of items before growing
}

// NewWindowQueue creates a new empty WindowQueue with initial capacity
func NewWindowQueue() *WindowQueue {
	return &WindowQueue{
		items:    make([]windowEntry, 1000), // Start with 1000 slots
		capacity: 1000,
	}
}

// Insert adds an entry, keeping the queue ordered by timestamp.
// Entries with equal timestamps keep arrival order. In-order arrivals cost
// O(1); a late arrival is shifted back past the newer entries.
func (wq *WindowQueue) Insert(e windowEntry) {
	if wq.size >= wq.capacity {
		wq.grow()
	}

	pos := wq.tail
	wq.items[pos] = e
	wq.tail = (wq.tail + 1) % wq.capacity
	wq.size++

	for i := wq.size - 1; i > 0; i-- {
		prev := (pos - 1 + wq.capacity) % wq.capacity
		if wq.items[prev].Unix <= e.Unix {
			break
		}
		wq.items[pos], wq.items[prev] = wq.items[prev], wq.items[pos]
		pos = prev
	}
}

// Front returns the oldest entry without removing it.
func (wq *WindowQueue) Front() (windowEntry, bool) {
	if wq.size == 0 {
		return windowEntry{}, false
	}
	return wq.items[wq.head], true
}

// PopFront removes and returns the oldest entry.
func (wq *WindowQueue) PopFront() (windowEntry, bool) {
	if wq.size == 0 {
		return windowEntry{}, false
	}

	e := wq.items[wq.head]
	wq.items[wq.head] = windowEntry{} // Clear the slot to help GC

	wq.head = (wq.head + 1) % wq.capacity
	wq.size--

	return e, true
}

// Len returns the number of entries in the queue
func (wq *WindowQueue) Len() int {
	return wq.size
}

// Clear removes all items from the queue
func (wq *WindowQueue) Clear() {
	for i := range wq.items {
		wq.items[i] = windowEntry{}
	}
	wq.head = 0
	wq.tail = 0
	wq.size = 0
}

// grow doubles the capacity of the queue
func (wq *WindowQueue) grow() {
	newCapacity := wq.capacity * 2
	newItems := make([]windowEntry, newCapacity)

	for i := 0; i < wq.size; i++ {
		newItems[i] = wq.items[(wq.head+i)%wq.capacity]
	}

	wq.items = newItems
	wq.head = 0
	wq.tail = wq.size
	wq.capacity = newCapacity
}
