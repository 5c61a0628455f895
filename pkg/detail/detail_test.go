package detail

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/brickwork/pkg/geom"
)

func TestRegisterAndWithin(t *testing.T) {
	r := NewRegistry()
	r.Register("a", geom.Vec3{X: 1})
	r.Register("b", geom.Vec3{X: 5})
	r.Register("c", geom.Vec3{Z: -20})

	assert.Equal(t, 3, r.Len())
	assert.Equal(t, []string{"a"}, r.Within(geom.Vec3{}, 2))
	assert.Equal(t, []string{"a", "b"}, r.Within(geom.Vec3{}, 5))
	assert.Equal(t, []string{"a", "b", "c"}, r.Within(geom.Vec3{}, 25))
	assert.Empty(t, r.Within(geom.Vec3{}, 0))

	// The box corner at (4,4,4) is inside the search box but not the sphere.
	r.Register("corner", geom.Vec3{X: 4, Y: 4, Z: 4})
	assert.NotContains(t, r.Within(geom.Vec3{}, 5), "corner")
}

func TestReRegisterMoves(t *testing.T) {
	r := NewRegistry()
	r.Register("a", geom.Vec3{X: 1})
	r.Register("a", geom.Vec3{X: 100})

	assert.Equal(t, 1, r.Len())
	assert.Empty(t, r.Within(geom.Vec3{}, 10))
	pos, ok := r.Position("a")
	require.True(t, ok)
	assert.Equal(t, 100.0, pos.X)
}

func TestUnregister(t *testing.T) {
	r := NewRegistry()
	r.Register("a", geom.Vec3{})
	assert.True(t, r.Unregister("a"))
	assert.False(t, r.Unregister("a"))
	assert.Empty(t, r.Within(geom.Vec3{}, 1))
	_, ok := r.Position("a")
	assert.False(t, ok)
}

func TestClassifyHysteresisBand(t *testing.T) {
	r := NewRegistry()
	r.Register("close", geom.Vec3{X: 10})
	r.Register("band", geom.Vec3{X: 90})
	r.Register("distant", geom.Vec3{X: 200})

	near, far := r.Classify(geom.Vec3{}, 80, 95)
	assert.Equal(t, []string{"close"}, near)
	assert.Equal(t, []string{"distant"}, far)
}

func TestManyEntries(t *testing.T) {
	r := NewRegistry()
	for i := 0; i < 200; i++ {
		r.Register(fmt.Sprintf("p%03d", i), geom.Vec3{X: float64(i)})
	}
	got := r.Within(geom.Vec3{X: 100}, 2.5)
	assert.Equal(t, []string{"p098", "p099", "p100", "p101", "p102"}, got)

	for i := 0; i < 200; i += 2 {
		require.True(t, r.Unregister(fmt.Sprintf("p%03d", i)))
	}
	assert.Equal(t, 100, r.Len())
	assert.Equal(t, []string{"p099", "p101"}, r.Within(geom.Vec3{X: 100}, 2.5))
}

func TestNearest(t *testing.T) {
	r := NewRegistry()
	r.Register("a", geom.Vec3{X: 1})
	r.Register("b", geom.Vec3{X: 3})
	r.Register("c", geom.Vec3{X: 7})

	assert.Equal(t, []string{"b", "a"}, r.Nearest(geom.Vec3{X: 3.5}, 2))
	assert.Len(t, r.Nearest(geom.Vec3{}, 10), 3)
	assert.Empty(t, r.Nearest(geom.Vec3{}, 0))

	r.Clear()
	assert.Empty(t, r.Nearest(geom.Vec3{}, 1))
	assert.Equal(t, 0, r.Len())
}
