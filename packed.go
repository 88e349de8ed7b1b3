package quadbuckets

import (
	"cmp"
	"slices"
)

// Packed is a static spatial index over members, built once and then only queried.
// It is a packed Hilbert R-tree, after https://github.com/mourner/flatbush.
// Use QuadBuckets.Pack to snapshot a live index.
type Packed[T Member] struct {
	NodeSize int // Minimum 2. Default 16

	items       []T
	boxes       []packedBox
	bounds      BBox
	levelBounds []int
	numItems    int
}

// packedBox is a leaf item (Index into items) or an internal node (Index into boxes).
type packedBox struct {
	MinX  float64
	MinY  float64
	MaxX  float64
	MaxY  float64
	Index int

	hilbert uint32 // leaves only
}

// hilbertOrder is the number of bits per axis of the Hilbert grid.
const hilbertOrder = 16

// hilbertIndex returns the distance of cell (x, y) along the Hilbert curve
// filling a 2^order square grid.
func hilbertIndex(order uint, x, y uint32) uint32 {
	n := uint32(1) << order
	var d uint32
	for s := n / 2; s > 0; s /= 2 {
		var rx, ry uint32
		if x&s != 0 {
			rx = 1
		}
		if y&s != 0 {
			ry = 1
		}
		d += s * s * ((3 * rx) ^ ry)
		if ry == 0 {
			if rx == 1 {
				x = n - 1 - x
				y = n - 1 - y
			}
			x, y = y, x
		}
	}
	return d
}

// hilbertOf maps the center of bb, relative to bounds, onto the Hilbert curve.
func hilbertOf(bb, bounds BBox) uint32 {
	// all items may share one coordinate
	width := max(bounds.Width(), 1e-12)
	height := max(bounds.Height(), 1e-12)
	cellMax := float64((uint32(1) << hilbertOrder) - 1)

	c := bb.Center()
	x := uint32(cellMax * min(max((c.X()-bounds.MinX)/width, 0), 1))
	y := uint32(cellMax * min(max((c.Y()-bounds.MinY)/height, 0), 1))
	return hilbertIndex(hilbertOrder, x, y)
}

func NewPacked[T Member]() *Packed[T] {
	return &Packed[T]{
		NodeSize: 16,
	}
}

// Reserve enough boxes for the given number of items
func (p *Packed[T]) Reserve(size int) {
	nodeSize := max(p.NodeSize, 2)
	n := size
	numNodes := n
	for n > 1 {
		n = (n + nodeSize - 1) / nodeSize
		numNodes += n
	}
	p.items = make([]T, 0, size)
	p.boxes = make([]packedBox, 0, numNodes)
}

// Add a member, and return its index.
// Incomplete members and members without geometry are not added, and -1 is returned.
// You must add all members before calling Finish().
func (p *Packed[T]) Add(x T) int {
	bb := x.BBox()
	if x.Incomplete() || !bb.Valid() {
		return -1
	}
	index := len(p.items)
	p.items = append(p.items, x)
	p.boxes = append(p.boxes, packedBox{
		MinX:  bb.MinX,
		MinY:  bb.MinY,
		MaxX:  bb.MaxX,
		MaxY:  bb.MaxY,
		Index: index,
	})
	p.bounds = p.bounds.Union(bb)
	return index
}

// Len returns the number of indexed members.
func (p *Packed[T]) Len() int {
	return len(p.items)
}

// Finish builds the spatial index, so that it can be queried.
func (p *Packed[T]) Finish() {
	if p.NodeSize < 2 {
		p.NodeSize = 2
	}

	p.numItems = len(p.boxes)

	// calculate the total number of nodes in the R-tree to allocate space for
	// and the index of each tree level (used in search later)
	n := p.numItems
	numNodes := n
	p.levelBounds = append(p.levelBounds[:0], n)
	for {
		n = (n + p.NodeSize - 1) / p.NodeSize
		numNodes += n
		p.levelBounds = append(p.levelBounds, numNodes)
		if n <= 1 {
			break
		}
	}

	// sort items by their position on the Hilbert curve (for packing later)
	for i := range p.boxes {
		b := &p.boxes[i]
		b.hilbert = hilbertOf(NewBBox(b.MinX, b.MinY, b.MaxX, b.MaxY), p.bounds)
	}
	slices.SortFunc(p.boxes, func(a, b packedBox) int {
		return cmp.Compare(a.hilbert, b.hilbert)
	})

	// generate nodes at each tree level, bottom-up
	pos := 0
	for i := 0; i < len(p.levelBounds)-1; i++ {
		end := p.levelBounds[i]

		// generate a parent node for each block of consecutive <nodeSize> nodes
		for pos < end {
			nodeBox := InvalidBBox()
			index := pos

			// calculate bbox for the new node
			for j := 0; j < p.NodeSize && pos < end; j++ {
				b := p.boxes[pos]
				pos++
				nodeBox = nodeBox.Union(NewBBox(b.MinX, b.MinY, b.MaxX, b.MaxY))
			}

			// add the new node to the tree data
			p.boxes = append(p.boxes, packedBox{
				MinX:  nodeBox.MinX,
				MinY:  nodeBox.MinY,
				MaxX:  nodeBox.MaxX,
				MaxY:  nodeBox.MaxY,
				Index: index,
			})
		}
	}
}

// Search for all members whose box intersects bb.
func (p *Packed[T]) Search(bb BBox) []T {
	results := []T{}
	return p.SearchFast(bb, results)
}

// SearchFast accepts a 'results' as input. If you are performing millions of queries,
// then reusing a 'results' slice will reduce the number of allocations.
func (p *Packed[T]) SearchFast(bb BBox, results []T) []T {
	results = results[:0]
	if len(p.levelBounds) == 0 {
		// Must call Finish()
		return results
	}
	if p.numItems == 0 || !bb.Valid() {
		return results
	}

	queue := make([]int, 0, 32)
	queue = append(queue, len(p.boxes)-1)       // nodeIndex
	queue = append(queue, len(p.levelBounds)-1) // level

	for len(queue) != 0 {
		nodeIndex := queue[len(queue)-2]
		level := queue[len(queue)-1]
		queue = queue[:len(queue)-2]

		// find the end index of the node
		end := min(nodeIndex+p.NodeSize, p.levelBounds[level])

		// search through child nodes
		for pos := nodeIndex; pos < end; pos++ {
			b := &p.boxes[pos]
			// check if node bbox intersects with query bbox
			if bb.MaxX < b.MinX ||
				bb.MaxY < b.MinY ||
				bb.MinX > b.MaxX ||
				bb.MinY > b.MaxY {
				continue
			}
			if nodeIndex < p.numItems {
				// leaf item
				results = append(results, p.items[b.Index])
			} else {
				// node; add it to the search queue
				queue = append(queue, b.Index)
				queue = append(queue, level-1)
			}
		}
	}
	return results
}
