package orient

import (
	"testing"

	"github.com/chazu/brickwork/pkg/geom"
)

func TestRotationMapsUpAxis(t *testing.T) {
	for _, o := range All {
		for turns := -4; turns <= 7; turns++ {
			r := Rotation(o, turns)
			if got := r.Apply(geom.UnitY); got != o.UpVector() {
				t.Errorf("Rotation(%s, %d) * Y = %v, want %v", o, turns, got, o.UpVector())
			}
		}
	}
}

func TestRotationIsExact(t *testing.T) {
	for _, o := range All {
		for turns := 0; turns < 4; turns++ {
			r := Rotation(o, turns)
			for i := 0; i < 3; i++ {
				for j := 0; j < 3; j++ {
					v := r[i][j]
					if v != 0 && v != 1 && v != -1 {
						t.Fatalf("Rotation(%s, %d)[%d][%d] = %v", o, turns, i, j, v)
					}
				}
			}
		}
	}
}

func TestRotationTurnsAreDistinct(t *testing.T) {
	for _, o := range All {
		seen := make(map[geom.Vec3]int)
		for turns := 0; turns < 4; turns++ {
			x := Rotation(o, turns).Apply(geom.UnitX)
			if prev, dup := seen[x]; dup {
				t.Errorf("%s: turns %d and %d map X to the same %v", o, prev, turns, x)
			}
			seen[x] = turns
		}
	}
}

func TestRotationNormalizesTurns(t *testing.T) {
	if Rotation(PosZ, 5) != Rotation(PosZ, 1) {
		t.Error("5 quarter turns should equal 1")
	}
	if Rotation(Down, -1) != Rotation(Down, 3) {
		t.Error("-1 quarter turns should equal 3")
	}
}

func TestFromNormal(t *testing.T) {
	tests := []struct {
		name string
		n    geom.Vec3
		want Orientation
	}{
		{"straight up", geom.Vec3{X: 0, Y: 1, Z: 0}, Up},
		{"straight down", geom.Vec3{X: 0, Y: -1, Z: 0}, Down},
		{"mostly +x", geom.Vec3{X: 0.9, Y: 0.1, Z: 0.2}, PosX},
		{"mostly -x", geom.Vec3{X: -0.9, Y: 0.1, Z: 0.2}, NegX},
		{"mostly +z", geom.Vec3{X: 0.1, Y: 0.1, Z: 0.8}, PosZ},
		{"mostly -z", geom.Vec3{X: 0.1, Y: 0.1, Z: -0.8}, NegZ},
		{"tie y and x prefers y", geom.Vec3{X: 0.5, Y: -0.5, Z: 0}, Down},
		{"tie x and z prefers x", geom.Vec3{X: -0.5, Y: 0, Z: 0.5}, NegX},
		{"zero vector", geom.Vec3{}, Up},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromNormal(tt.n); got != tt.want {
				t.Errorf("FromNormal(%v) = %s, want %s", tt.n, got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	for _, o := range All {
		got, err := Parse(o.String())
		if err != nil {
			t.Fatalf("Parse(%q): %v", o.String(), err)
		}
		if got != o {
			t.Errorf("Parse(%q) = %s", o.String(), got)
		}
	}
	if _, err := Parse("sideways"); err == nil {
		t.Error("expected error for unknown orientation")
	}
}
