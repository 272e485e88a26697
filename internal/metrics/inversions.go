package metrics

import "github.com/san-kum/sortviz/internal/engine"

// Inversions tracks how many out-of-order pairs remain in the latest frame.
type Inversions struct {
	name  string
	value int
}

func NewInversions() *Inversions {
	return &Inversions{name: "inversions"}
}

func (m *Inversions) Name() string { return m.name }

func (m *Inversions) Observe(f engine.Frame) { m.value = CountInversions(f.Values) }

func (m *Inversions) Value() float64 { return float64(m.value) }

func (m *Inversions) Reset() { m.value = 0 }

// CountInversions counts pairs i < j with v[i] > v[j] in O(n log n). v is not modified.
func CountInversions(v []int) int {
	if len(v) < 2 {
		return 0
	}
	buf := append([]int(nil), v...)
	tmp := make([]int, len(v))
	return countSplit(buf, tmp)
}

func countSplit(a, tmp []int) int {
	if len(a) < 2 {
		return 0
	}
	mid := len(a) / 2
	n := countSplit(a[:mid], tmp[:mid]) + countSplit(a[mid:], tmp[mid:])

	i, j, k := 0, mid, 0
	for i < mid && j < len(a) {
		if a[i] <= a[j] {
			tmp[k] = a[i]
			i++
		} else {
			tmp[k] = a[j]
			j++
			n += mid - i
		}
		k++
	}
	k += copy(tmp[k:], a[i:mid])
	copy(tmp[k:], a[j:])
	copy(a, tmp[:len(a)])
	return n
}
