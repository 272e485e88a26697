package engine

func (s *stepper) selection() {
	n := len(s.seq)
	for i := 0; i < n; i++ {
		if !s.alive() {
			return
		}

		minIdx := i
		for j := i + 1; j < n; j++ {
			if !s.alive() {
				return
			}

			s.tr.AddComparison()
			colors := s.overlay()
			paint(colors, 0, i-1, Sorted)
			colors[i] = Comparing
			colors[minIdx] = Swapped
			colors[j] = Candidate

			if !s.show(colors, "Selection Sort - Finding minimum, current: %d", s.seq[j]) {
				return
			}

			if s.seq[j] < s.seq[minIdx] {
				minIdx = j
			}
		}

		if minIdx != i {
			s.swap(i, minIdx)
			s.tr.AddSwap()

			colors := s.overlay()
			colors[i] = Sorted
			colors[minIdx] = Swapped
			if !s.show(colors, "Selection Sort - Swapped %d with %d", s.seq[minIdx], s.seq[i]) {
				return
			}
		}
	}
}
