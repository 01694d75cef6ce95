package render

// SampleIndices returns the row indices plotted for n rows at the given
// stride: 0, stride, 2*stride, ... A stride below 1 plots every row.
func SampleIndices(n, stride int) []int {
	if stride < 1 {
		stride = 1
	}
	if n <= 0 {
		return []int{}
	}
	out := make([]int, 0, (n+stride-1)/stride)
	for i := 0; i < n; i += stride {
		out = append(out, i)
	}
	return out
}

// GridLayout returns the rows and columns of a grid holding n cells with a
// fixed number of columns per row.
func GridLayout(n, columns int) (rows, cols int) {
	if columns < 1 {
		columns = 1
	}
	if n <= 0 {
		return 0, columns
	}
	return (n + columns - 1) / columns, columns
}

// Intersect splits requested into the names present in available and the
// names that are not, keeping the requested order and dropping duplicates.
func Intersect(requested, available []string) (present, missing []string) {
	have := make(map[string]bool, len(available))
	for _, name := range available {
		have[name] = true
	}

	seen := make(map[string]bool, len(requested))
	for _, name := range requested {
		if seen[name] {
			continue
		}
		seen[name] = true
		if have[name] {
			present = append(present, name)
		} else {
			missing = append(missing, name)
		}
	}
	return present, missing
}
