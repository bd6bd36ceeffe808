package pipeline

import (
	"testing"
)

func TestWindowQueueRingBuffer(t *testing.T) {
	queue := NewWindowQueue()

	if length := queue.Len(); length != 0 {
		t.Errorf("Expected empty queue, got length %d", length)
	}

	queue.Insert(windowEntry{Unix: 10, Hashtags: []string{"apache", "spark"}})
	queue.Insert(windowEntry{Unix: 20, Hashtags: []string{"hadoop", "storm"}})

	if length := queue.Len(); length != 2 {
		t.Errorf("Expected queue length 2, got %d", length)
	}

	front, ok := queue.Front()
	if !ok || front.Unix != 10 {
		t.Errorf("Expected front at 10, got %+v (ok=%v)", front, ok)
	}

	first, _ := queue.PopFront()
	second, _ := queue.PopFront()
	if first.Unix != 10 || second.Unix != 20 {
		t.Errorf("Expected 10 then 20, got %d then %d", first.Unix, second.Unix)
	}

	if _, ok := queue.PopFront(); ok {
		t.Error("Expected PopFront on an empty queue to report false")
	}
	if _, ok := queue.Front(); ok {
		t.Error("Expected Front on an empty queue to report false")
	}
}

func TestWindowQueueWraparoundAndGrowth(t *testing.T) {
	queue := NewWindowQueue()

	// Move head away from slot zero so growth has to unwrap the ring.
	for i := 0; i < 600; i++ {
		queue.Insert(windowEntry{Unix: int64(i)})
	}
	for i := 0; i < 600; i++ {
		queue.PopFront()
	}

	for i := 0; i < 1500; i++ {
		queue.Insert(windowEntry{Unix: int64(1000 + i)})
	}
	for i := 0; i < 1500; i++ {
		e, ok := queue.PopFront()
		if !ok || e.Unix != int64(1000+i) {
			t.Fatalf("Expected entry %d, got %+v (ok=%v)", 1000+i, e, ok)
		}
	}

	if length := queue.Len(); length != 0 {
		t.Errorf("Expected empty queue, got length %d", length)
	}
}

func TestWindowQueueOutOfOrderInsert(t *testing.T) {
	queue := NewWindowQueue()
	for _, ts := range []int64{5, 9, 7, 9, 1, 8} {
		queue.Insert(windowEntry{Unix: ts})
	}

	want := []int64{1, 5, 7, 8, 9, 9}
	for _, ts := range want {
		e, ok := queue.PopFront()
		if !ok || e.Unix != ts {
			t.Fatalf("Expected %d, got %+v (ok=%v)", ts, e, ok)
		}
	}
}

func TestWindowQueueEqualTimestampsKeepArrivalOrder(t *testing.T) {
	queue := NewWindowQueue()
	queue.Insert(windowEntry{Unix: 3, Hashtags: []string{"first"}})
	queue.Insert(windowEntry{Unix: 3, Hashtags: []string{"second"}})
	queue.Insert(windowEntry{Unix: 2, Hashtags: []string{"early"}})

	for _, tag := range []string{"early", "first", "second"} {
		e, _ := queue.PopFront()
		if e.Hashtags[0] != tag {
			t.Errorf("Expected %s, got %v", tag, e.Hashtags)
		}
	}
}

func TestWindowQueueClear(t *testing.T) {
	queue := NewWindowQueue()
	for i := 0; i < 10; i++ {
		queue.Insert(windowEntry{Unix: int64(i)})
	}
	queue.Clear()
	if queue.Len() != 0 {
		t.Errorf("Expected empty queue after Clear, got %d", queue.Len())
	}
	queue.Insert(windowEntry{Unix: 42})
	if e, _ := queue.Front(); e.Unix != 42 {
		t.Errorf("Expected 42 after reuse, got %d", e.Unix)
	}
}
