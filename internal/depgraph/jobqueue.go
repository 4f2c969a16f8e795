package depgraph

// Job is a marker that a getDependencies call is outstanding (or about to
// be made) for Node. Valid flips to false when the job is invalidated by a
// prune or consumed by its resolver callback returning.
type Job struct {
	Node  NodeID
	Valid bool
}

// PendingJobs is an ordered FIFO of Jobs. Invalidation is done by flag,
// never by deletion: this lets an in-flight resolver callback discover it
// is obsolete without the resolver needing any cancellation support.
//
// Jobs are matched by node-id, not by a handle. Multiple jobs may exist
// for the same id; invalidation flips all of them.
type PendingJobs struct {
	jobs []Job
}

// Push appends a fresh valid job for id.
func (q *PendingJobs) Push(id NodeID) {
	q.jobs = append(q.jobs, Job{Node: id, Valid: true})
}

// InvalidateFor sets Valid=false on every job matching id.
func (q *PendingJobs) InvalidateFor(id NodeID) {
	for i := range q.jobs {
		if q.jobs[i].Node == id {
			q.jobs[i].Valid = false
		}
	}
}

// consumeFirstValid finds the first valid job for id and invalidates it,
// reporting whether one was found. Used to consume a resolver callback's
// own job once its successful result has been folded into the store.
func (q *PendingJobs) consumeFirstValid(id NodeID) bool {
	for i := range q.jobs {
		if q.jobs[i].Node == id && q.jobs[i].Valid {
			q.jobs[i].Valid = false
			return true
		}
	}
	return false
}

// IsPending reports whether any valid job exists for id.
func (q *PendingJobs) IsPending(id NodeID) bool {
	for _, j := range q.jobs {
		if j.Node == id && j.Valid {
			return true
		}
	}
	return false
}

// AnyValid reports whether any job in the queue is still valid.
func (q *PendingJobs) AnyValid() bool {
	for _, j := range q.jobs {
		if j.Valid {
			return true
		}
	}
	return false
}

// Snapshot returns a copy of the queue's jobs for inspection.
func (q *PendingJobs) Snapshot() []Job {
	out := make([]Job, len(q.jobs))
	copy(out, q.jobs)
	return out
}
