package overlay

import (
	"math"
	"testing"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestCirclePositions(t *testing.T) {
	pts := CirclePositions(100, 200, 4, 1000, 100)
	want := []Point{{1500, 200}, {100, 1600}, {-1300, 200}, {100, -1200}}
	if len(pts) != len(want) {
		t.Fatalf("got %d points, want %d", len(pts), len(want))
	}
	for i := range want {
		if !near(pts[i].X, want[i].X) || !near(pts[i].Y, want[i].Y) {
			t.Errorf("point %d = %v, want %v", i, pts[i], want[i])
		}
	}
}

func TestCirclePositionsRadiusGrowsWithCount(t *testing.T) {
	for _, n := range []int{1, 3, 7, 12} {
		pts := CirclePositions(0, 0, n, 500, 50)
		r := 500 + 50*float64(n)
		for i, p := range pts {
			if d := math.Hypot(p.X, p.Y); !near(d, r) {
				t.Errorf("n=%d point %d at distance %v, want %v", n, i, d, r)
			}
		}
	}
}

func TestCirclePositionsEmpty(t *testing.T) {
	if pts := CirclePositions(0, 0, 0, 100, 10); pts != nil {
		t.Errorf("expected nil for n=0, got %v", pts)
	}
	if pts := CirclePositions(0, 0, -2, 100, 10); pts != nil {
		t.Errorf("expected nil for negative n, got %v", pts)
	}
}
