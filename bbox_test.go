package quadbuckets

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"
)

func TestBBoxValidity(t *testing.T) {
	require.False(t, BBox{}.Valid())
	require.False(t, InvalidBBox().Valid())
	require.False(t, BBoxOf().Valid())
	require.True(t, World.Valid())

	// a single vertex is a valid, zero-area box
	b := BBoxOf(orb.Point{10, 20})
	require.True(t, b.Valid())
	require.Equal(t, 0.0, b.Width())
	require.Equal(t, 0.0, b.Height())
	require.True(t, b.Intersects(b))
	require.True(t, b.Contains(b))
}

func TestBBoxNormalizes(t *testing.T) {
	b := NewBBox(5, 6, 1, 2)
	require.Equal(t, 1.0, b.MinX)
	require.Equal(t, 2.0, b.MinY)
	require.Equal(t, 5.0, b.MaxX)
	require.Equal(t, 6.0, b.MaxY)
	require.Equal(t, orb.Point{3, 4}, b.Center())
}

func TestBBoxUnion(t *testing.T) {
	a := NewBBox(0, 0, 1, 1)
	b := NewBBox(2, -1, 3, 0.5)
	u := a.Union(b)
	require.Equal(t, NewBBox(0, -1, 3, 1), u)

	require.Equal(t, a, a.Union(InvalidBBox()))
	require.Equal(t, a, InvalidBBox().Union(a))
	require.False(t, InvalidBBox().Union(InvalidBBox()).Valid())

	require.Equal(t, NewBBox(-1, 0, 4, 2), BBoxOf(orb.Point{4, 0}, orb.Point{-1, 2}, orb.Point{0, 1}))
}

func TestBBoxPredicates(t *testing.T) {
	a := NewBBox(0, 0, 10, 10)
	require.True(t, a.Intersects(NewBBox(5, 5, 15, 15)))
	require.True(t, a.Intersects(NewBBox(10, 10, 11, 11)), "touching corners intersect")
	require.False(t, a.Intersects(NewBBox(10.1, 0, 11, 10)))
	require.False(t, a.Intersects(InvalidBBox()))
	require.False(t, InvalidBBox().Intersects(a))

	require.True(t, a.Contains(NewBBox(0, 0, 10, 10)))
	require.True(t, a.Contains(NewBBox(1, 1, 2, 2)))
	require.False(t, a.Contains(NewBBox(5, 5, 15, 15)))
	require.False(t, a.Contains(InvalidBBox()))
	require.False(t, InvalidBBox().Contains(a))
}

func TestBBoxBound(t *testing.T) {
	bound := orb.Bound{Min: orb.Point{-3, -2}, Max: orb.Point{4, 5}}
	b := BoundBBox(bound)
	require.Equal(t, bound, b.Bound())
	require.Equal(t, orb.Bound{}, InvalidBBox().Bound())
	require.Equal(t, "BBox(invalid)", InvalidBBox().String())
}
