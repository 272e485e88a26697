package engine

func (s *stepper) insertion() {
	n := len(s.seq)
	for i := 1; i < n; i++ {
		if !s.alive() {
			return
		}

		key := s.seq[i]
		j := i - 1

		colors := s.overlay()
		paint(colors, 0, i-1, Sorted)
		colors[i] = Comparing
		if !s.show(colors, "Insertion Sort - Inserting %d", key) {
			return
		}

		// Each shift counts as one comparison and one swap.
		for j >= 0 && s.seq[j] > key {
			if !s.alive() {
				break
			}

			s.tr.AddComparison()
			s.tr.AddSwap()
			s.seq[j+1] = s.seq[j]

			colors := s.overlay()
			paint(colors, 0, j, Sorted)
			colors[j+1] = Swapped
			colors[i] = Comparing
			s.show(colors, "Insertion Sort - Moving %d right", s.seq[j])

			j--
		}

		// key is the only copy of the value the shifts overwrote.
		s.seq[j+1] = key
	}
}
