package engine

// quick is Lomuto quicksort with the last element as pivot.
func (s *stepper) quick(low, high int) {
	if !s.alive() || low >= high {
		return
	}

	p, ok := s.partition(low, high)
	if !ok || !s.alive() {
		return
	}

	s.quick(low, p-1)
	s.quick(p+1, high)
}

func (s *stepper) partition(low, high int) (int, bool) {
	pivot := s.seq[high]
	i := low - 1

	for j := low; j < high; j++ {
		if !s.alive() {
			return 0, false
		}

		s.tr.AddComparison()
		colors := s.overlay()
		colors[high] = Pivot
		colors[j] = Candidate
		if i >= low {
			colors[i] = Swapped
		}

		if !s.show(colors, "Quick Sort - Pivot: %d, Comparing: %d", pivot, s.seq[j]) {
			return 0, false
		}

		if s.seq[j] <= pivot {
			i++
			if i != j {
				s.swap(i, j)
				s.tr.AddSwap()
			}
		}
	}

	// The placement swap is counted even when the pivot is already in place.
	s.swap(i+1, high)
	s.tr.AddSwap()

	colors := s.overlay()
	colors[i+1] = Sorted
	s.show(colors, "Quick Sort - Pivot %d placed at position %d", pivot, i+1)
	return i + 1, true
}
