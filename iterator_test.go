package quadbuckets

import (
	"math/rand"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/stretchr/testify/require"
)

func randomTree(t *testing.T, seed int64, count int) (*QuadBuckets[*Node], []*Node) {
	rng := rand.New(rand.NewSource(seed))
	q := New[*Node](WithCapacity(3))
	nodes := make([]*Node, 0, count)
	for i := 0; i < count; i++ {
		n := NewNode(osm.NodeID(i))
		if i%10 != 0 {
			n.SetCoord(orb.Point{rng.Float64()*360 - 180, rng.Float64()*180 - 90})
		}
		nodes = append(nodes, n)
		require.True(t, q.Add(n))
	}
	return q, nodes
}

func TestIteratorEmpty(t *testing.T) {
	q := New[*Node]()
	it := q.Iterator()
	require.False(t, it.HasNext())
	_, err := it.Next()
	require.ErrorIs(t, err, ErrIteratorExhausted)
	require.ErrorIs(t, it.Remove(), ErrIllegalIteratorState)
}

func TestIteratorVisitsEverything(t *testing.T) {
	q, nodes := randomTree(t, 0, 300)
	require.Greater(t, q.Stats().Depth, 1)

	seen := []*Node{}
	it := q.Iterator()
	for it.HasNext() {
		n, err := it.Next()
		require.NoError(t, err)
		seen = append(seen, n)
	}
	require.ElementsMatch(t, nodes, seen)

	_, err := it.Next()
	require.ErrorIs(t, err, ErrIteratorExhausted)
}

func TestIteratorIllegalRemove(t *testing.T) {
	q, _ := randomTree(t, 1, 20)
	it := q.Iterator()
	require.ErrorIs(t, it.Remove(), ErrIllegalIteratorState)

	_, err := it.Next()
	require.NoError(t, err)
	require.NoError(t, it.Remove())
	require.ErrorIs(t, it.Remove(), ErrIllegalIteratorState)
	require.Equal(t, 19, q.Size())
}

func TestIteratorRemoveAll(t *testing.T) {
	q, nodes := randomTree(t, 2, 500)
	count := q.Size()
	removed := map[*Node]bool{}
	it := q.Iterator()
	for it.HasNext() {
		n, err := it.Next()
		require.NoError(t, err)
		require.False(t, removed[n], "member visited after removal")
		require.NoError(t, it.Remove())
		removed[n] = true
		count--
		require.Equal(t, count, q.Size())
		require.False(t, q.Contains(n))
	}
	require.Len(t, removed, len(nodes))
	require.True(t, q.IsEmpty())
	st := q.Stats()
	require.Equal(t, 0, st.Bucketed+st.Overflow)
}

func TestIteratorRemoveSome(t *testing.T) {
	q, nodes := randomTree(t, 3, 400)
	rng := rand.New(rand.NewSource(3))

	kept := []*Node{}
	visited := 0
	it := q.Iterator()
	for it.HasNext() {
		n, err := it.Next()
		require.NoError(t, err)
		visited++
		if rng.Intn(2) == 0 {
			require.NoError(t, it.Remove())
		} else {
			kept = append(kept, n)
		}
	}
	require.Equal(t, len(nodes), visited)
	require.Equal(t, len(kept), q.Size())
	require.ElementsMatch(t, kept, q.Members())
	for _, n := range kept {
		require.True(t, q.Contains(n))
	}
}

// HasNext between Next and Remove may move the cursor onto the next list or node.
func TestIteratorHasNextBeforeRemove(t *testing.T) {
	q, nodes := randomTree(t, 4, 250)
	seen := map[*Node]bool{}
	it := q.Iterator()
	for it.HasNext() {
		n, err := it.Next()
		require.NoError(t, err)
		require.False(t, seen[n])
		seen[n] = true
		it.HasNext()
		require.NoError(t, it.Remove())
	}
	require.Len(t, seen, len(nodes))
	require.Equal(t, 0, q.Size())
}

func TestAllStopsEarly(t *testing.T) {
	q, _ := randomTree(t, 5, 50)
	n := 0
	for range q.All() {
		n++
		if n == 10 {
			break
		}
	}
	require.Equal(t, 10, n)
}
