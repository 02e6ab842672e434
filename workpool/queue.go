package workpool

// item is one queued unit of work. run executes the task; drop, when set, is
// invoked instead of run if the task is discarded by a drain=false shutdown
// (Submit uses it to fail the task's future instead of leaving it pending).
type item struct {
	run  Task
	drop func()
}

// taskQueue is a slice-backed FIFO. Not safe for concurrent use; the pool
// guards it with its mutex.
type taskQueue struct {
	items []item
	head  int
}

func (q *taskQueue) len() int {
	return len(q.items) - q.head
}

func (q *taskQueue) push(it item) {
	q.items = append(q.items, it)
}

func (q *taskQueue) pop() item {
	it := q.items[q.head]
	q.items[q.head] = item{} // release references
	q.head++
	// Reclaim the dead prefix once it dominates the backing array.
	if q.head > 32 && q.head*2 >= len(q.items) {
		n := copy(q.items, q.items[q.head:])
		q.items = q.items[:n]
		q.head = 0
	}
	return it
}

// clear discards all pending items, firing their drop hooks, and returns how
// many were dropped.
func (q *taskQueue) clear() int {
	n := q.len()
	for i := q.head; i < len(q.items); i++ {
		if q.items[i].drop != nil {
			q.items[i].drop()
		}
	}
	q.items = nil
	q.head = 0
	return n
}
