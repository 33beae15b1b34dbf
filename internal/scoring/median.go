package scoring

import "sort"

// Median returns the statistical median of the values: the central element
// of the sorted sequence for odd lengths, the mean of the two central
// elements for even lengths, and 0 for an empty sequence.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}

	return (sorted[mid-1] + sorted[mid]) / 2
}

// MedianOfCounts converts a per-key count distribution to its median.
// Only keys present in the map participate, matching the population of
// tutors with at least one event in the window.
func MedianOfCounts(counts map[string]int) float64 {
	values := make([]float64, 0, len(counts))
	for _, c := range counts {
		values = append(values, float64(c))
	}

	return Median(values)
}
