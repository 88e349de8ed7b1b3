package quadbuckets

import (
	"slices"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
)

// Node is an OSM node: a point that may not have a coordinate yet.
type Node struct {
	ID osm.NodeID

	coord      orb.Point
	hasCoord   bool
	incomplete bool
	referrers  []*Way
}

// NewNode creates a node without a coordinate
func NewNode(id osm.NodeID) *Node {
	return &Node{ID: id}
}

func NewNodeAt(id osm.NodeID, p orb.Point) *Node {
	return &Node{ID: id, coord: p, hasCoord: true}
}

// NodeFromOSM converts a decoded node.
func NodeFromOSM(n *osm.Node) *Node {
	return NewNodeAt(n.ID, n.Point())
}

// Coord returns the lon/lat of the node, and false if it has none.
func (n *Node) Coord() (orb.Point, bool) {
	return n.coord, n.hasCoord
}

// SetCoord moves the node. An index holding the node, or any of its ways, must be reindexed.
func (n *Node) SetCoord(p orb.Point) {
	n.coord = p
	n.hasCoord = true
	n.moved()
}

func (n *Node) ClearCoord() {
	n.coord = orb.Point{}
	n.hasCoord = false
	n.moved()
}

// Referrers returns the ways that list this node.
func (n *Node) Referrers() []*Way {
	return n.referrers
}

func (n *Node) moved() {
	for _, w := range n.referrers {
		w.bboxOK = false
	}
}

func (n *Node) removeReferrer(w *Way) {
	for i, r := range n.referrers {
		if r == w {
			last := len(n.referrers) - 1
			n.referrers[i] = n.referrers[last]
			n.referrers[last] = nil
			n.referrers = n.referrers[:last]
			return
		}
	}
}

func (n *Node) Incomplete() bool     { return n.incomplete }
func (n *Node) SetIncomplete(v bool) { n.incomplete = v }

func (n *Node) BBox() BBox {
	if !n.hasCoord {
		return InvalidBBox()
	}
	return PointBBox(n.coord)
}

func (n *Node) FeatureID() osm.FeatureID {
	return n.ID.FeatureID()
}

// Way is an OSM way: an ordered list of nodes.
type Way struct {
	ID osm.WayID

	nodes      []*Node
	incomplete bool

	bbox   BBox
	bboxOK bool
}

func NewWay(id osm.WayID) *Way {
	return &Way{ID: id}
}

func (w *Way) Nodes() []*Node {
	return w.nodes
}

// SetNodes replaces the node list. An index holding the way must be reindexed.
func (w *Way) SetNodes(nodes []*Node) {
	for _, n := range w.nodes {
		n.removeReferrer(w)
	}
	w.nodes = append([]*Node(nil), nodes...)
	w.bboxOK = false
	for _, n := range w.nodes {
		// closed ways list their first node twice
		if !slices.Contains(n.referrers, w) {
			n.referrers = append(n.referrers, w)
		}
	}
}

func (w *Way) Incomplete() bool     { return w.incomplete }
func (w *Way) SetIncomplete(v bool) { w.incomplete = v }

// BBox is the union of the node coordinates. Nodes without a coordinate are
// skipped. A way with a single located node has a zero-area box.
// The box is cached until the node list changes or one of the nodes moves.
func (w *Way) BBox() BBox {
	if w.bboxOK {
		return w.bbox
	}
	b := InvalidBBox()
	for _, n := range w.nodes {
		b = b.Union(n.BBox())
	}
	w.bbox = b
	w.bboxOK = true
	return b
}

// LineString returns the coordinates of the located nodes.
func (w *Way) LineString() orb.LineString {
	ls := make(orb.LineString, 0, len(w.nodes))
	for _, n := range w.nodes {
		if p, ok := n.Coord(); ok {
			ls = append(ls, p)
		}
	}
	return ls
}

func (w *Way) FeatureID() osm.FeatureID {
	return w.ID.FeatureID()
}

// Relation is an OSM relation. It has no geometry of its own.
type Relation struct {
	ID      osm.RelationID
	Members osm.Members

	incomplete bool
}

func NewRelation(id osm.RelationID) *Relation {
	return &Relation{ID: id}
}

func (r *Relation) Incomplete() bool     { return r.incomplete }
func (r *Relation) SetIncomplete(v bool) { r.incomplete = v }

func (r *Relation) FeatureID() osm.FeatureID {
	return r.ID.FeatureID()
}

// OSMStore is a PrimitiveStore of this package's OSM types.
type OSMStore = PrimitiveStore[*Node, *Way, *Relation]

func NewOSMStore(opts ...Option) *OSMStore {
	return NewPrimitiveStore[*Node, *Way, *Relation](opts...)
}

// LoadResult lists what LoadOSM created.
type LoadResult struct {
	Nodes     map[osm.NodeID]*Node
	Ways      map[osm.WayID]*Way
	Relations map[osm.RelationID]*Relation

	// Placeholders is the number of incomplete primitives created for references
	// to nodes, ways and relations that were not part of the input.
	Placeholders int
}

// LoadOSM adds the contents of a decoded OSM document to s.
// Ways and relations that reference primitives absent from o get incomplete
// placeholders, which are added to s as well. A relation may reference a
// relation that appears later in o.
// References are resolved within o only. Repeated ids keep the first copy.
func LoadOSM(s *OSMStore, o *osm.OSM) *LoadResult {
	res := &LoadResult{
		Nodes:     make(map[osm.NodeID]*Node, len(o.Nodes)),
		Ways:      make(map[osm.WayID]*Way, len(o.Ways)),
		Relations: make(map[osm.RelationID]*Relation, len(o.Relations)),
	}

	node := func(id osm.NodeID) *Node {
		if n, ok := res.Nodes[id]; ok {
			return n
		}
		n := NewNode(id)
		n.SetIncomplete(true)
		res.Nodes[id] = n
		res.Placeholders++
		s.AddNode(n)
		return n
	}
	way := func(id osm.WayID) *Way {
		if w, ok := res.Ways[id]; ok {
			return w
		}
		w := NewWay(id)
		w.SetIncomplete(true)
		res.Ways[id] = w
		res.Placeholders++
		s.AddWay(w)
		return w
	}
	relation := func(id osm.RelationID) *Relation {
		if r, ok := res.Relations[id]; ok {
			return r
		}
		r := NewRelation(id)
		r.SetIncomplete(true)
		res.Relations[id] = r
		res.Placeholders++
		s.AddRelation(r)
		return r
	}

	for _, on := range o.Nodes {
		if _, ok := res.Nodes[on.ID]; ok {
			continue
		}
		n := NodeFromOSM(on)
		res.Nodes[n.ID] = n
		s.AddNode(n)
	}
	for _, ow := range o.Ways {
		if _, ok := res.Ways[ow.ID]; ok {
			continue
		}
		w := NewWay(ow.ID)
		nodes := make([]*Node, 0, len(ow.Nodes))
		for _, wn := range ow.Nodes {
			nodes = append(nodes, node(wn.ID))
		}
		w.SetNodes(nodes)
		res.Ways[w.ID] = w
		s.AddWay(w)
	}
	for _, or := range o.Relations {
		r, ok := res.Relations[or.ID]
		switch {
		case !ok:
			r = NewRelation(or.ID)
			res.Relations[r.ID] = r
			s.AddRelation(r)
		case r.Incomplete() && r.Members == nil:
			// a placeholder from an earlier member reference
			r.SetIncomplete(false)
			res.Placeholders--
		default:
			continue
		}
		r.Members = append(osm.Members{}, or.Members...)
		for _, m := range or.Members {
			switch m.Type {
			case osm.TypeNode:
				node(osm.NodeID(m.Ref))
			case osm.TypeWay:
				way(osm.WayID(m.Ref))
			case osm.TypeRelation:
				relation(osm.RelationID(m.Ref))
			}
		}
	}
	return res
}
