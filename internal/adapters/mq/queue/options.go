package queue

// Option applies a configuration option to the InMemoryQueue.
type Option func(*InMemoryQueue)

// WithCapacity sets the maximum number of queued jobs.
func WithCapacity(capacity int) Option {
	return func(q *InMemoryQueue) {
		if capacity > 0 {
			q.capacity = capacity
		}
	}
}

// WithReleaser frees the dataset of a job that was taken off the queue but
// could neither be delivered nor handed back.
func WithReleaser(r Releaser) Option {
	return func(q *InMemoryQueue) {
		q.releaser = r
	}
}
