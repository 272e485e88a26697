package engine

func (s *stepper) bubble() {
	n := len(s.seq)
	for i := 0; i < n; i++ {
		if !s.alive() {
			return
		}

		swapped := false
		for j := 0; j < n-i-1; j++ {
			if !s.alive() {
				return
			}

			s.tr.AddComparison()
			colors := s.overlay()
			colors[j], colors[j+1] = Comparing, Comparing
			paint(colors, n-i, n-1, Sorted)

			if !s.show(colors, "Bubble Sort - Pass %d, Comparing %d and %d", i+1, s.seq[j], s.seq[j+1]) {
				return
			}

			if s.seq[j] > s.seq[j+1] {
				s.swap(j, j+1)
				s.tr.AddSwap()
				swapped = true

				colors[j], colors[j+1] = Swapped, Swapped
				if !s.show(colors, "Bubble Sort - Swapped %d and %d", s.seq[j+1], s.seq[j]) {
					return
				}
			}
		}

		if !swapped {
			return
		}
	}
}
