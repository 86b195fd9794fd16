package arena

import (
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/pthm-cable/dots/geometry"
)

// WithGoal returns a copy of the arena with another goal position.
func (a *Arena) WithGoal(goal geometry.Vec) *Arena {
	b := *a
	b.goal = goal
	return &b
}

// CellCenter returns the center of cell (col, row) of a cols×rows grid laid
// over the allowed area.
func (a *Arena) CellCenter(col, row, cols, rows int) geometry.Vec {
	r := a.allowed
	return geometry.Vec{
		X: r.Left() + (float64(col)+0.5)*r.Width()/float64(cols),
		Y: r.Top() + (float64(row)+0.5)*r.Height()/float64(rows),
	}
}

// DistanceField samples DistanceToGoal at the center of every cell of a
// cols×rows grid over the allowed area, row-major. Cells whose center lies
// inside an obstacle or cannot reach the goal are +Inf. Rows are computed
// in parallel.
func (a *Arena) DistanceField(cols, rows int) []float64 {
	field := make([]float64, cols*rows)

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for row := 0; row < rows; row++ {
		g.Go(func() error {
			for col := 0; col < cols; col++ {
				field[row*cols+col] = a.distanceAt(a.CellCenter(col, row, cols, rows))
			}
			return nil
		})
	}
	_ = g.Wait()
	return field
}

func (a *Arena) distanceAt(p geometry.Vec) float64 {
	for _, o := range a.obstacles {
		if o.Contains(p) {
			return math.Inf(1)
		}
	}
	d, err := a.DistanceToGoal(p)
	if err != nil {
		return math.Inf(1)
	}
	return d
}
