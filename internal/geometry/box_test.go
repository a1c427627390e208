package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r2"
)

func box(x, y, l, w, h float64) Box2D {
	return Box2D{Center: r2.Vec{X: x, Y: y}, Length: l, Width: w, Heading: h}
}

func box3(x, y, z, l, w, ht, h float64) Box3D {
	return Box3D{Box2D: box(x, y, l, w, h), CenterZ: z, Height: ht}
}

func TestBox2D_Corners(t *testing.T) {
	t.Parallel()

	c := box(1, 2, 4, 2, 0).Corners()
	assert.InDelta(t, 3.0, c[0].X, 1e-12)
	assert.InDelta(t, 1.0, c[0].Y, 1e-12)
	assert.InDelta(t, 3.0, c[1].X, 1e-12)
	assert.InDelta(t, 3.0, c[1].Y, 1e-12)
	assert.InDelta(t, -1.0, c[2].X, 1e-12)
	assert.InDelta(t, -1.0, c[3].X, 1e-12)
	assert.InDelta(t, 1.0, c[3].Y, 1e-12)

	rot := box(0, 0, 4, 2, math.Pi/2).Corners()
	// Front-right of a north-facing box is east of the centerline.
	assert.InDelta(t, 1.0, rot[0].X, 1e-12)
	assert.InDelta(t, 2.0, rot[0].Y, 1e-12)

	assert.Greater(t, box(0, 0, 4, 2, 0.3).Polygon().Area(), 7.999)
}

func TestBox2D_ToLocal(t *testing.T) {
	t.Parallel()

	b := box(10, 10, 4, 2, math.Pi/2)
	p := b.ToLocal(r2.Vec{X: 9, Y: 13})
	assert.InDelta(t, 3.0, p.X, 1e-12)
	assert.InDelta(t, 1.0, p.Y, 1e-12)
}

func TestIoU2D(t *testing.T) {
	t.Parallel()

	b1 := box(0, 0, 1, 2, 0)
	tests := []struct {
		name string
		b    Box2D
		want float64
	}{
		{"identical", b1, 1},
		{"disjoint", box(5, 5, 1, 2, 0), 0},
		{"partial overlap", box(0.5, 0, 4, 1, 0), 1.0 / (2 + 4 - 1)},
		{"rotated quarter turn", box(0.5, 0, 1, 4, math.Pi/2), 1.0 / (2 + 4 - 1)},
		{"rotated 45 degrees", box(0.5, 0, 1, 4, math.Pi/4), 0.24074958176697656},
		{"zero size", box(0, 0, 0, 0, 0), 0},
		{"tiny", box(0, 0, 1e-12, 1e-12, 0), 0},
		{"thin but legal", box(0, 0, 1, 1.01e-2, 0), 1.01e-2 / 2},
		{"thin below minimum", box(0, 0, 1, 0.99e-2, 0), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, IoU2D(b1, tt.b), 1e-9)
			assert.InDelta(t, tt.want, IoU2D(tt.b, b1), 1e-9)
		})
	}
}

func TestIoU3D(t *testing.T) {
	t.Parallel()

	b1 := box3(0, 0, 0, 1, 2, 2, 0)
	assert.InDelta(t, 1.0, IoU3D(b1, b1), 1e-12)
	assert.InDelta(t, 2.0/(4+16-2), IoU3D(b1, box3(0.5, 0, 0, 4, 1, 4, 0)), 1e-12)
	assert.Zero(t, IoU3D(b1, box3(0, 0, 5, 1, 2, 2, 0)))
	assert.Zero(t, IoU3D(b1, box3(0, 0, 0, 1, 2, 0, 0)))
}

func TestSignedBoxDistance(t *testing.T) {
	t.Parallel()

	a := box(0, 0, 2, 2, 0)
	tests := []struct {
		name string
		b    Box2D
		want float64
	}{
		{"separated", box(5, 0, 2, 2, 0), 3},
		{"touching", box(2, 0, 2, 2, 0), 0},
		{"overlapping", box(1, 0, 2, 2, 0), -1},
		{"diagonal", box(5, 6, 2, 2, 0), 5},
		{"coincident", a, -2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, SignedBoxDistance(a, tt.b), 1e-9)
		})
	}
}

func TestWrapAngle(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0.0, WrapAngle(2*math.Pi), 1e-12)
	assert.InDelta(t, -math.Pi/2, WrapAngle(3*math.Pi/2), 1e-12)
	assert.InDelta(t, math.Pi/2, WrapAngle(-3*math.Pi/2), 1e-12)
	assert.InDelta(t, -math.Pi, WrapAngle(math.Pi), 1e-12)
	assert.InDelta(t, 0.1, WrapAngle(0.1), 1e-12)
}
