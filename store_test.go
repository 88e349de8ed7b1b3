package quadbuckets

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"
)

func TestStoreDispatch(t *testing.T) {
	s := NewOSMStore()
	n := NewNodeAt(1, orb.Point{1, 2})
	w := NewWay(1)
	w.SetNodes([]*Node{n})
	r := NewRelation(1)

	for _, p := range []any{n, w, r} {
		added, err := s.Add(p)
		require.NoError(t, err)
		require.True(t, added)
		require.True(t, s.Contains(p))
	}
	require.Equal(t, 1, s.Nodes().Size())
	require.Equal(t, 1, s.Ways().Size())
	require.Equal(t, 1, s.Relations().Size())
	require.Equal(t, 3, s.Size())

	added, err := s.Add(n)
	require.NoError(t, err)
	require.False(t, added)

	require.Equal(t, []*Node{n}, s.SearchNodes(World))
	require.Equal(t, []*Way{w}, s.SearchWays(World))

	for _, p := range []any{n, w, r} {
		removed, err := s.Remove(p)
		require.NoError(t, err)
		require.True(t, removed)
		require.False(t, s.Contains(p))

		removed, err = s.Remove(p)
		require.NoError(t, err)
		require.False(t, removed)
	}
	require.Equal(t, 0, s.Size())
}

func TestStoreUnsupportedKind(t *testing.T) {
	var buf bytes.Buffer
	s := NewOSMStore(WithLogger(NewLogger(slog.NewTextHandler(&buf, nil))))

	_, err := s.Add("not a primitive")
	require.ErrorIs(t, err, ErrUnsupportedKind)
	var kerr *KindError
	require.ErrorAs(t, err, &kerr)
	require.Equal(t, "not a primitive", kerr.Value)
	require.Contains(t, err.Error(), "string")
	require.Contains(t, buf.String(), "cannot route primitive")

	_, err = s.Remove(42)
	require.ErrorIs(t, err, ErrUnsupportedKind)
	require.False(t, s.Contains(42))
}

func TestStoreIncompleteRouting(t *testing.T) {
	s := NewOSMStore()
	n := NewNodeAt(1, orb.Point{3, 3})
	n.SetIncomplete(true)
	w := NewWay(1)
	w.SetNodes([]*Node{NewNodeAt(2, orb.Point{4, 4})})
	w.SetIncomplete(true)
	s.AddNode(n)
	s.AddWay(w)

	require.Equal(t, 1, s.Nodes().Size())
	require.Equal(t, 1, s.Ways().Size())
	require.Empty(t, s.SearchNodes(World))
	require.Empty(t, s.SearchWays(World))
	require.Equal(t, []*Node{n}, s.Nodes().Members())
	require.Equal(t, []*Way{w}, s.Ways().Members())
}

func TestStoreReindexAndClear(t *testing.T) {
	s := NewOSMStore(WithCapacity(2))
	a := NewNodeAt(1, orb.Point{-10, -10})
	b := NewNodeAt(2, orb.Point{10, 10})
	c := NewNodeAt(3, orb.Point{-10, 10})
	w := NewWay(1)
	w.SetNodes([]*Node{a, c})
	for _, n := range []*Node{a, b, c} {
		s.AddNode(n)
	}
	s.AddWay(w)
	s.AddRelation(NewRelation(1))

	a.SetCoord(orb.Point{20, 20})
	require.True(t, s.ReindexNode(a))
	require.True(t, s.ReindexWay(w))
	q := NewBBox(15, 15, 25, 25)
	require.Equal(t, []*Node{a}, s.SearchNodes(q))
	require.Equal(t, []*Way{w}, s.SearchWays(q))

	s.Clear()
	require.Equal(t, 0, s.Size())
	require.True(t, s.Relations().IsEmpty())
	require.False(t, s.ReindexNode(a))
}

func TestStoreSnapshot(t *testing.T) {
	s := NewOSMStore()
	located := NewNodeAt(1, orb.Point{5, 5})
	s.AddNode(located)
	s.AddNode(NewNode(2))
	w := NewWay(1)
	w.SetNodes([]*Node{located})
	s.AddWay(w)

	snap := s.Snapshot(4)
	require.Equal(t, 1, snap.Nodes.Len())
	require.Equal(t, 1, snap.Ways.Len())
	require.Equal(t, []*Node{located}, snap.Nodes.Search(NewBBox(4, 4, 6, 6)))
	require.Equal(t, []*Way{w}, snap.Ways.Search(World))

	// the snapshot does not follow the store
	s.RemoveNode(located)
	require.Len(t, snap.Nodes.Search(World), 1)
}

type countingCollector struct {
	NoopMetricsCollector
	kinds []string
}

func (c *countingCollector) ForKind(kind string) MetricsCollector {
	c.kinds = append(c.kinds, kind)
	return NoopMetricsCollector{}
}

func TestStoreMetricsPerKind(t *testing.T) {
	c := &countingCollector{}
	NewOSMStore(WithMetrics(c))
	require.Equal(t, []string{KindNode, KindWay}, c.kinds)
}

func TestSet(t *testing.T) {
	s := NewSet[int]()
	require.True(t, s.Add(1))
	require.True(t, s.Add(2))
	require.True(t, s.Add(3))
	require.False(t, s.Add(2))
	require.Equal(t, 3, s.Size())

	require.True(t, s.Remove(1))
	require.False(t, s.Remove(1))
	require.False(t, s.Contains(1))
	require.True(t, s.Contains(3))

	got := []int{}
	for x := range s.All() {
		got = append(got, x)
	}
	require.Equal(t, []int{3, 2}, got)

	s.Clear()
	require.True(t, s.IsEmpty())
	require.False(t, s.Contains(2))
}
