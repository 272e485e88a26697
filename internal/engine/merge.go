package engine

func (s *stepper) mergeSort(left, right int) {
	if !s.alive() || left >= right {
		return
	}

	mid := (left + right) / 2

	colors := s.overlay()
	paint(colors, left, right, Comparing)
	if !s.show(colors, "Merge Sort - Dividing: [%d..%d]", left, right) {
		return
	}

	s.mergeSort(left, mid)
	s.mergeSort(mid+1, right)
	s.merge(left, mid, right)
}

func (s *stepper) merge(left, mid, right int) {
	if !s.alive() {
		return
	}

	lhs := append([]int(nil), s.seq[left:mid+1]...)
	rhs := append([]int(nil), s.seq[mid+1:right+1]...)

	i, j, k := 0, 0, left
	for i < len(lhs) && j < len(rhs) {
		if !s.alive() {
			break
		}

		s.tr.AddComparison()
		colors := s.overlay()
		paint(colors, left, mid, Swapped)
		paint(colors, mid+1, right, Candidate)
		colors[k] = Sorted

		if !s.show(colors, "Merge Sort - Merging: %d vs %d", lhs[i], rhs[j]) {
			break
		}

		if lhs[i] <= rhs[j] {
			s.seq[k] = lhs[i]
			i++
		} else {
			s.seq[k] = rhs[j]
			j++
		}
		k++
	}

	// Tails are copied even after a stop: the values in lhs/rhs are the only
	// copies of what the interleave has overwritten.
	k += copy(s.seq[k:], lhs[i:])
	copy(s.seq[k:], rhs[j:])

	if !s.alive() {
		return
	}

	colors := s.overlay()
	paint(colors, left, right, Sorted)
	s.show(colors, "Merge Sort - Merged [%d..%d]", left, right)
}
