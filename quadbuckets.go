// Package quadbuckets is a mutable region quadtree for bounding-box queries
// over geographic primitives.
//
// Members are stored at the shallowest node whose region fully contains their
// bounding box. The node each member was stored in is tracked, so members can
// be removed even after their geometry changed.
//
// Nothing in this package is safe for concurrent use.
package quadbuckets

import (
	"iter"
	"time"
)

// Member is what a QuadBuckets indexes.
// Identity is the comparable value itself, so it must not depend on geometry.
// Pointer types satisfy this naturally.
type Member interface {
	comparable

	// BBox returns the current bounding box. It may be invalid.
	BBox() BBox

	// Incomplete reports whether this is a placeholder whose content is not yet known.
	// Incomplete members are never returned by Search.
	Incomplete() bool
}

// QuadBuckets is a spatial set of members.
type QuadBuckets[T Member] struct {
	opts  options
	root  *quadNode[T]
	where map[T]location[T]
	size  int
}

// New creates an empty QuadBuckets
func New[T Member](opts ...Option) *QuadBuckets[T] {
	q := &QuadBuckets[T]{
		opts: applyOptions(opts),
	}
	q.reset()
	return q
}

func (q *QuadBuckets[T]) reset() {
	q.root = newQuadNode[T](q.opts.world, 0)
	q.where = make(map[T]location[T])
	q.size = 0
}

// Add inserts x. Adding a member that is already present does nothing and
// returns false.
func (q *QuadBuckets[T]) Add(x T) bool {
	if _, ok := q.where[x]; ok {
		q.opts.metrics.RecordAdd(false)
		return false
	}
	bb := x.BBox()
	if q.root.region.Contains(bb) {
		q.place(q.root, x, bb)
	} else {
		// invalid, or outside the world
		q.store(q.root, inOverflow, x)
	}
	q.size++
	q.opts.metrics.RecordAdd(true)
	return true
}

// AddAll adds every element of xs, and returns the number that were not already present.
func (q *QuadBuckets[T]) AddAll(xs []T) int {
	n := 0
	for _, x := range xs {
		if q.Add(x) {
			n++
		}
	}
	return n
}

// Remove deletes x, and reports whether it was present.
// This works even if the geometry of x changed since it was added.
func (q *QuadBuckets[T]) Remove(x T) bool {
	loc, ok := q.where[x]
	if !ok {
		q.opts.metrics.RecordRemove(false)
		return false
	}
	q.unlink(loc)
	delete(q.where, x)
	q.size--
	q.opts.metrics.RecordRemove(true)
	return true
}

// RemoveAll removes every element of xs, and returns the number that were present.
func (q *QuadBuckets[T]) RemoveAll(xs []T) int {
	n := 0
	for _, x := range xs {
		if q.Remove(x) {
			n++
		}
	}
	return n
}

// Reindex moves x to the node that matches its current geometry.
// Call this after changing the geometry of a member, otherwise Search may miss it.
// Returns false if x is not a member.
func (q *QuadBuckets[T]) Reindex(x T) bool {
	if !q.Remove(x) {
		return false
	}
	q.Add(x)
	return true
}

// Contains reports whether x is a member. The check is by identity, not by geometry.
func (q *QuadBuckets[T]) Contains(x T) bool {
	_, ok := q.where[x]
	return ok
}

// Size is the number of members, including incomplete ones.
func (q *QuadBuckets[T]) Size() int {
	return q.size
}

// IsEmpty reports whether Size is 0.
func (q *QuadBuckets[T]) IsEmpty() bool {
	return q.size == 0
}

// Clear discards the whole tree.
func (q *QuadBuckets[T]) Clear() {
	q.opts.logger.LogClear(q.size)
	q.reset()
}

// Search for all complete members whose bounding box intersects bb.
func (q *QuadBuckets[T]) Search(bb BBox) []T {
	results := []T{}
	return q.SearchFast(bb, results)
}

// SearchFast accepts a 'results' as input. If you are performing millions of queries,
// then reusing a 'results' slice will reduce the number of allocations.
func (q *QuadBuckets[T]) SearchFast(bb BBox, results []T) []T {
	results = results[:0]
	if !bb.Valid() || q.size == 0 {
		return results
	}
	start := time.Now()
	results = q.search(bb, results)
	q.opts.metrics.RecordSearch(len(results), time.Since(start))
	return results
}

// All iterates over every member, including incomplete ones and those without geometry.
// The set must not be modified during iteration; use Iterator for removal.
func (q *QuadBuckets[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		it := q.Iterator()
		for it.HasNext() {
			x, _ := it.Next()
			if !yield(x) {
				return
			}
		}
	}
}

// Members returns all members as a slice.
func (q *QuadBuckets[T]) Members() []T {
	out := make([]T, 0, q.size)
	for x := range q.All() {
		out = append(out, x)
	}
	return out
}

// Pack builds a static snapshot of the complete members that have valid
// geometry. The snapshot does not follow later changes.
func (q *QuadBuckets[T]) Pack(nodeSize int) *Packed[T] {
	p := NewPacked[T]()
	p.NodeSize = nodeSize
	p.Reserve(q.size)
	for x := range q.All() {
		p.Add(x)
	}
	p.Finish()
	return p
}

// Stats describes the shape of the tree.
type Stats struct {
	Nodes    int // Total nodes, including the root
	Leaves   int
	Depth    int // Depth of the deepest node; the root is 0
	Bucketed int // Members held in leaf buckets
	Overflow int // Members held in overflow lists
}

func (q *QuadBuckets[T]) Stats() Stats {
	var s Stats
	stack := []*quadNode[T]{q.root}
	for len(stack) != 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		s.Nodes++
		s.Depth = max(s.Depth, n.depth)
		s.Bucketed += len(n.bucket)
		s.Overflow += len(n.overflow)
		if n.isLeaf() {
			s.Leaves++
			continue
		}
		stack = append(stack, n.children[:]...)
	}
	return s
}
