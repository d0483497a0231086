package column

import "sort"

// Mode returns the most frequent value; ties go to the value seen first.
func Mode(values []int64) (int64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	counts := map[int64]int{}
	order := make([]int64, 0)
	for _, v := range values {
		if _, ok := counts[v]; !ok {
			order = append(order, v)
		}
		counts[v]++
	}
	best, bestCount := order[0], counts[order[0]]
	for _, v := range order[1:] {
		if counts[v] > bestCount {
			best, bestCount = v, counts[v]
		}
	}
	return best, true
}

func Median(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid], true
	}
	return (sorted[mid-1] + sorted[mid]) / 2, true
}

func Mean(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)), true
}

func Max(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m, true
}

// GroupMeans averages values per key. Empty keys are not grouped.
func GroupMeans(keys []string, values []*float64) map[string]float64 {
	sums := map[string]float64{}
	counts := map[string]int{}
	for i, k := range keys {
		if k == "" || values[i] == nil {
			continue
		}
		sums[k] += *values[i]
		counts[k]++
	}
	out := make(map[string]float64, len(sums))
	for k, s := range sums {
		out[k] = s / float64(counts[k])
	}
	return out
}
