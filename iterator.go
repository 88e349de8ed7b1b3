package quadbuckets

// Iterator walks every member of a QuadBuckets exactly once, and can remove
// the member it returned last.
//
// Each node's bucket is visited before its overflow, and nodes are visited
// depth first. Modifying the QuadBuckets other than through Remove while an
// Iterator is active has undefined results.
type Iterator[T Member] struct {
	q     *QuadBuckets[T]
	stack []*quadNode[T]

	// cursor
	node *quadNode[T]
	list slotList
	pos  int

	// the member returned by the last call to Next
	last    location[T]
	lastVal T
	canDrop bool
}

// Iterator returns a new iterator positioned before the first member.
func (q *QuadBuckets[T]) Iterator() *Iterator[T] {
	return &Iterator[T]{
		q:    q,
		node: q.root,
		list: inBucket,
	}
}

// seek moves the cursor to the next unvisited member, and reports whether there is one.
func (it *Iterator[T]) seek() bool {
	for {
		if it.node == nil {
			if len(it.stack) == 0 {
				return false
			}
			it.node = it.stack[len(it.stack)-1]
			it.stack = it.stack[:len(it.stack)-1]
			it.list = inBucket
			it.pos = 0
		}
		if it.pos < len(*it.node.members(it.list)) {
			return true
		}
		if it.list == inBucket {
			it.list = inOverflow
			it.pos = 0
			continue
		}
		if !it.node.isLeaf() {
			// reversed, so that children are visited SW, SE, NW, NE
			for i := len(it.node.children) - 1; i >= 0; i-- {
				it.stack = append(it.stack, it.node.children[i])
			}
		}
		it.node = nil
	}
}

func (it *Iterator[T]) HasNext() bool {
	return it.seek()
}

// Next returns the next member, or ErrIteratorExhausted.
func (it *Iterator[T]) Next() (T, error) {
	if !it.seek() {
		var zero T
		return zero, ErrIteratorExhausted
	}
	x := (*it.node.members(it.list))[it.pos]
	it.last = location[T]{node: it.node, list: it.list, index: it.pos}
	it.lastVal = x
	it.canDrop = true
	it.pos++
	return x, nil
}

// Remove deletes the member returned by the last call to Next.
// It returns ErrIllegalIteratorState if Next has not been called, or if the
// member was already removed.
func (it *Iterator[T]) Remove() error {
	if !it.canDrop {
		return ErrIllegalIteratorState
	}
	it.canDrop = false
	it.q.unlink(it.last)
	delete(it.q.where, it.lastVal)
	it.q.size--
	it.q.opts.metrics.RecordRemove(true)

	// The last member of the list was swapped into the freed slot and has not
	// been visited yet, so step back onto it. If the cursor already left this
	// list, the removed member was the last one and nothing was swapped.
	if it.node == it.last.node && it.list == it.last.list {
		it.pos = it.last.index
	}
	var zero T
	it.lastVal = zero
	return nil
}
