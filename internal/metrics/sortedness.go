package metrics

import "github.com/san-kum/sortviz/internal/engine"

// Sortedness is the fraction of adjacent pairs already in order in the latest frame.
type Sortedness struct {
	name  string
	value float64
}

func NewSortedness() *Sortedness {
	return &Sortedness{name: "sortedness"}
}

func (s *Sortedness) Name() string { return s.name }

func (s *Sortedness) Observe(f engine.Frame) { s.value = AdjacentOrder(f.Values) }

func (s *Sortedness) Value() float64 { return s.value }

func (s *Sortedness) Reset() { s.value = 0 }

// AdjacentOrder returns the share of pairs (v[i], v[i+1]) with v[i] <= v[i+1].
// Sequences shorter than two elements count as fully ordered.
func AdjacentOrder(v []int) float64 {
	if len(v) < 2 {
		return 1
	}
	ordered := 0
	for i := 1; i < len(v); i++ {
		if v[i-1] <= v[i] {
			ordered++
		}
	}
	return float64(ordered) / float64(len(v)-1)
}
