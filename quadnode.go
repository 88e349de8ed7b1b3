package quadbuckets

// Child order of a split node.
const (
	quadSW = iota
	quadSE
	quadNW
	quadNE
)

type slotList uint8

const (
	inBucket slotList = iota
	inOverflow
)

// quadNode covers a rectangular region. It is either a leaf holding up to
// capacity members in its bucket, or a branch with four children. Both kinds
// hold members that fit no single child in overflow.
type quadNode[T Member] struct {
	region   BBox
	depth    int
	children *[4]*quadNode[T]
	bucket   []T
	overflow []T

	// set once a node at max depth has been logged as over capacity
	saturated bool
}

// location is the slot a member was stored in.
// It stays correct regardless of later changes to the member's geometry.
type location[T Member] struct {
	node  *quadNode[T]
	list  slotList
	index int
}

func newQuadNode[T Member](region BBox, depth int) *quadNode[T] {
	return &quadNode[T]{
		region: region,
		depth:  depth,
	}
}

func (n *quadNode[T]) isLeaf() bool {
	return n.children == nil
}

func (n *quadNode[T]) members(l slotList) *[]T {
	if l == inOverflow {
		return &n.overflow
	}
	return &n.bucket
}

// quadrant returns the child index whose region fully contains bb, or -1 if
// bb straddles a mid line. A box touching a mid line from the west or south
// straddles it. A box starting on a mid line belongs east or north.
func (n *quadNode[T]) quadrant(bb BBox) int {
	if !bb.Valid() {
		return -1
	}
	mid := n.region.Center()
	q := 0
	switch {
	case bb.MaxX < mid.X():
	case bb.MinX >= mid.X():
		q |= 1
	default:
		return -1
	}
	switch {
	case bb.MaxY < mid.Y():
	case bb.MinY >= mid.Y():
		q |= 2
	default:
		return -1
	}
	return q
}

// subdivide allocates the four children. Members are not moved.
func (n *quadNode[T]) subdivide() {
	r := n.region
	mid := r.Center()
	d := n.depth + 1
	n.children = &[4]*quadNode[T]{
		quadSW: newQuadNode[T](NewBBox(r.MinX, r.MinY, mid.X(), mid.Y()), d),
		quadSE: newQuadNode[T](NewBBox(mid.X(), r.MinY, r.MaxX, mid.Y()), d),
		quadNW: newQuadNode[T](NewBBox(r.MinX, mid.Y(), mid.X(), r.MaxY), d),
		quadNE: newQuadNode[T](NewBBox(mid.X(), mid.Y(), r.MaxX, r.MaxY), d),
	}
}

// collect appends the members of one list that are complete and intersect bb.
func collect[T Member](list []T, bb BBox, results []T) []T {
	for _, x := range list {
		if x.Incomplete() {
			continue
		}
		if bb.Intersects(x.BBox()) {
			results = append(results, x)
		}
	}
	return results
}

// store appends x to one of n's lists and records where it went.
func (q *QuadBuckets[T]) store(n *quadNode[T], l slotList, x T) {
	list := n.members(l)
	*list = append(*list, x)
	q.where[x] = location[T]{node: n, list: l, index: len(*list) - 1}
}

// unlink removes the member at loc by swapping the last member of the same
// list into its slot.
func (q *QuadBuckets[T]) unlink(loc location[T]) {
	list := loc.node.members(loc.list)
	last := len(*list) - 1
	moved := (*list)[last]
	(*list)[loc.index] = moved
	var zero T
	(*list)[last] = zero
	*list = (*list)[:last]
	if loc.index != last {
		q.where[moved] = location[T]{node: loc.node, list: loc.list, index: loc.index}
	}
}

// place stores x at the shallowest node below n whose region contains bb,
// splitting full leaves on the way.
func (q *QuadBuckets[T]) place(n *quadNode[T], x T, bb BBox) {
	for {
		if !n.isLeaf() {
			c := n.quadrant(bb)
			if c < 0 {
				q.store(n, inOverflow, x)
				return
			}
			n = n.children[c]
			continue
		}
		if len(n.bucket) < q.opts.capacity {
			q.store(n, inBucket, x)
			return
		}
		if n.depth >= q.opts.maxDepth {
			if !n.saturated {
				n.saturated = true
				q.opts.logger.LogSaturated(n.depth, n.region, len(n.bucket)+1)
			}
			q.store(n, inBucket, x)
			return
		}
		q.split(n)
	}
}

// split turns a full leaf into a branch and redistributes its bucket.
// Members are placed by their current geometry.
func (q *QuadBuckets[T]) split(n *quadNode[T]) {
	n.subdivide()
	old := n.bucket
	n.bucket = nil
	kept := 0
	for _, x := range old {
		bb := x.BBox()
		c := -1
		if n.region.Contains(bb) {
			c = n.quadrant(bb)
		}
		if c < 0 {
			q.store(n, inOverflow, x)
			kept++
			continue
		}
		q.place(n.children[c], x, bb)
	}
	q.opts.metrics.RecordSplit(n.depth)
	q.opts.logger.LogSplit(n.depth, n.region, len(old)-kept, kept)
}

// search appends the complete members intersecting bb, visiting only nodes
// whose region intersects bb. The root is always visited because its
// overflow holds members outside the world region.
func (q *QuadBuckets[T]) search(bb BBox, results []T) []T {
	stack := make([]*quadNode[T], 0, 32)
	stack = append(stack, q.root)
	for len(stack) != 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		results = collect(n.overflow, bb, results)
		results = collect(n.bucket, bb, results)
		if n.isLeaf() {
			continue
		}
		for _, c := range n.children {
			if c.region.Intersects(bb) {
				stack = append(stack, c)
			}
		}
	}
	return results
}
