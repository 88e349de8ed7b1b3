package quadbuckets

import (
	"iter"
)

// KindCollector is implemented by metrics collectors that label metrics by
// primitive kind. PrimitiveStore asks it for one collector per kind.
type KindCollector interface {
	ForKind(kind string) MetricsCollector
}

// Primitive kind names, used in logs and metric labels.
const (
	KindNode     = "node"
	KindWay      = "way"
	KindRelation = "relation"
)

// PrimitiveStore holds the primitives of a document.
// Nodes (N) and ways (W) are spatially indexed. Relations (R) have no usable
// geometry and are kept in a plain set.
type PrimitiveStore[N, W Member, R comparable] struct {
	nodes     *QuadBuckets[N]
	ways      *QuadBuckets[W]
	relations *Set[R]
	logger    *Logger
}

// NewPrimitiveStore creates an empty store. The options apply to both spatial indexes.
func NewPrimitiveStore[N, W Member, R comparable](opts ...Option) *PrimitiveStore[N, W, R] {
	o := applyOptions(opts)
	return &PrimitiveStore[N, W, R]{
		nodes:     New[N](kindOptions(o, opts, KindNode)...),
		ways:      New[W](kindOptions(o, opts, KindWay)...),
		relations: NewSet[R](),
		logger:    o.logger,
	}
}

// kindOptions tags the logger and metrics of one kind's index.
func kindOptions(o options, opts []Option, kind string) []Option {
	out := make([]Option, 0, len(opts)+2)
	out = append(out, opts...)
	out = append(out, WithLogger(o.logger.WithKind(kind)))
	if kc, ok := o.metrics.(KindCollector); ok {
		out = append(out, WithMetrics(kc.ForKind(kind)))
	}
	return out
}

func (s *PrimitiveStore[N, W, R]) Nodes() *QuadBuckets[N] {
	return s.nodes
}

func (s *PrimitiveStore[N, W, R]) Ways() *QuadBuckets[W] {
	return s.ways
}

func (s *PrimitiveStore[N, W, R]) Relations() *Set[R] {
	return s.relations
}

func (s *PrimitiveStore[N, W, R]) AddNode(n N) bool     { return s.nodes.Add(n) }
func (s *PrimitiveStore[N, W, R]) AddWay(w W) bool      { return s.ways.Add(w) }
func (s *PrimitiveStore[N, W, R]) AddRelation(r R) bool { return s.relations.Add(r) }

func (s *PrimitiveStore[N, W, R]) RemoveNode(n N) bool     { return s.nodes.Remove(n) }
func (s *PrimitiveStore[N, W, R]) RemoveWay(w W) bool      { return s.ways.Remove(w) }
func (s *PrimitiveStore[N, W, R]) RemoveRelation(r R) bool { return s.relations.Remove(r) }

// ReindexNode must be called after a node's coordinate changed.
func (s *PrimitiveStore[N, W, R]) ReindexNode(n N) bool { return s.nodes.Reindex(n) }

// ReindexWay must be called after a way's nodes changed, or one of its nodes moved.
func (s *PrimitiveStore[N, W, R]) ReindexWay(w W) bool { return s.ways.Reindex(w) }

// Add routes p to the collection for its kind.
// It returns false if p was already present, and a *KindError if p is not an N, W or R.
func (s *PrimitiveStore[N, W, R]) Add(p any) (bool, error) {
	switch v := p.(type) {
	case N:
		return s.nodes.Add(v), nil
	case W:
		return s.ways.Add(v), nil
	case R:
		return s.relations.Add(v), nil
	}
	return false, s.kindError(p)
}

// Remove routes p to the collection for its kind. Removing an absent primitive returns false.
func (s *PrimitiveStore[N, W, R]) Remove(p any) (bool, error) {
	switch v := p.(type) {
	case N:
		return s.nodes.Remove(v), nil
	case W:
		return s.ways.Remove(v), nil
	case R:
		return s.relations.Remove(v), nil
	}
	return false, s.kindError(p)
}

// Contains reports whether p is present. Values of other kinds are never present.
func (s *PrimitiveStore[N, W, R]) Contains(p any) bool {
	switch v := p.(type) {
	case N:
		return s.nodes.Contains(v)
	case W:
		return s.ways.Contains(v)
	case R:
		return s.relations.Contains(v)
	}
	return false
}

func (s *PrimitiveStore[N, W, R]) kindError(p any) error {
	err := &KindError{Value: p}
	s.logger.Warn("cannot route primitive", "error", err)
	return err
}

// SearchNodes returns the complete nodes inside bb.
func (s *PrimitiveStore[N, W, R]) SearchNodes(bb BBox) []N {
	return s.nodes.Search(bb)
}

// SearchWays returns the complete ways whose bounding box intersects bb.
func (s *PrimitiveStore[N, W, R]) SearchWays(bb BBox) []W {
	return s.ways.Search(bb)
}

// Size is the total number of primitives of all kinds.
func (s *PrimitiveStore[N, W, R]) Size() int {
	return s.nodes.Size() + s.ways.Size() + s.relations.Size()
}

func (s *PrimitiveStore[N, W, R]) Clear() {
	s.nodes.Clear()
	s.ways.Clear()
	s.relations.Clear()
}

// Snapshot is a read-only copy of the spatial part of a store.
type Snapshot[N, W Member] struct {
	Nodes *Packed[N]
	Ways  *Packed[W]
}

// Snapshot packs the complete nodes and ways into static indexes.
func (s *PrimitiveStore[N, W, R]) Snapshot(nodeSize int) *Snapshot[N, W] {
	return &Snapshot[N, W]{
		Nodes: s.nodes.Pack(nodeSize),
		Ways:  s.ways.Pack(nodeSize),
	}
}

// Set is an insertion-ordered set of comparable values.
type Set[T comparable] struct {
	items []T
	index map[T]int
}

func NewSet[T comparable]() *Set[T] {
	return &Set[T]{
		index: make(map[T]int),
	}
}

// Add returns false if x is already present
func (s *Set[T]) Add(x T) bool {
	if _, ok := s.index[x]; ok {
		return false
	}
	s.index[x] = len(s.items)
	s.items = append(s.items, x)
	return true
}

// Remove returns false if x is not present.
// The last element takes the place of the removed one.
func (s *Set[T]) Remove(x T) bool {
	i, ok := s.index[x]
	if !ok {
		return false
	}
	last := len(s.items) - 1
	if i != last {
		s.items[i] = s.items[last]
		s.index[s.items[i]] = i
	}
	var zero T
	s.items[last] = zero
	s.items = s.items[:last]
	delete(s.index, x)
	return true
}

func (s *Set[T]) Contains(x T) bool {
	_, ok := s.index[x]
	return ok
}

func (s *Set[T]) Size() int {
	return len(s.items)
}

func (s *Set[T]) IsEmpty() bool {
	return len(s.items) == 0
}

func (s *Set[T]) Clear() {
	s.items = nil
	s.index = make(map[T]int)
}

func (s *Set[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, x := range s.items {
			if !yield(x) {
				return
			}
		}
	}
}
