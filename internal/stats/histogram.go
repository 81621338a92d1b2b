// Package stats provides the small statistical primitives the pitch pipeline
// is built on: a dense bucketed histogram over an integer range with
// smoothing, percentile lookup and greedy one-dimensional clustering.
package stats

import "math"

// Histogram is a dense bucketed histogram over the half-open integer range
// [Min, Max). Values outside the range are dropped on insertion.
type Histogram struct {
	min     int
	buckets []float64
	total   float64
}

// NewHistogram creates an empty histogram over [min, max). A degenerate
// range (max <= min) yields a histogram that drops every sample.
func NewHistogram(min, max int) *Histogram {
	n := max - min
	if n < 0 {
		n = 0
	}
	return &Histogram{min: min, buckets: make([]float64, n)}
}

// Add records a sample value with the given weight. Samples outside the
// histogram range are silently discarded.
func (h *Histogram) Add(value int, weight float64) {
	idx := value - h.min
	if idx < 0 || idx >= len(h.buckets) {
		return
	}
	h.buckets[idx] += weight
	h.total += weight
}

// Count returns the total weight recorded
func (h *Histogram) Count() float64 {
	return h.total
}

// Min returns the lower bound of the histogram range
func (h *Histogram) Min() int {
	return h.min
}

// Max returns the upper bound of the histogram range
func (h *Histogram) Max() int {
	return h.min + len(h.buckets)
}

// Smooth applies a box filter of the given half-width in place. A half-width
// of zero or less leaves the histogram unchanged. Total weight is preserved
// up to edge truncation.
func (h *Histogram) Smooth(halfWidth int) {
	if halfWidth <= 0 || len(h.buckets) == 0 {
		return
	}
	smoothed := make([]float64, len(h.buckets))
	for i := range h.buckets {
		sum := 0.0
		n := 0
		for j := i - halfWidth; j <= i+halfWidth; j++ {
			if j < 0 || j >= len(h.buckets) {
				continue
			}
			sum += h.buckets[j]
			n++
		}
		smoothed[i] = sum / float64(n)
	}
	total := 0.0
	for _, v := range smoothed {
		total += v
	}
	h.buckets = smoothed
	h.total = total
}

// Percentile returns the value below which the given fraction of the total
// weight lies, linearly interpolated within the crossing bucket. The
// fraction is clamped to [0, 1]. An empty histogram returns the range lower
// bound.
func (h *Histogram) Percentile(frac float64) float64 {
	if h.total <= 0 {
		return float64(h.min)
	}
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	target := frac * h.total
	cum := 0.0
	for i, w := range h.buckets {
		if cum+w >= target {
			within := 0.0
			if w > 0 {
				within = (target - cum) / w
			}
			return float64(h.min+i) + within
		}
		cum += w
	}
	return float64(h.Max())
}

// Median returns the 50th percentile
func (h *Histogram) Median() float64 {
	return h.Percentile(0.5)
}

// IQR returns the inter-quartile range, the spread between the 75th and
// 25th percentiles
func (h *Histogram) IQR() float64 {
	return h.Percentile(0.75) - h.Percentile(0.25)
}

// Cluster is one group of adjacent histogram buckets produced by Clusters.
type Cluster struct {
	// Mean is the weighted mean sample value of the cluster
	Mean float64

	// Median is the weighted median sample value of the cluster
	Median float64

	// Weight is the total weight inside the cluster
	Weight float64

	// Lo and Hi bound the cluster's value range, inclusive
	Lo int
	Hi int
}

// Clusters groups the histogram's non-empty buckets into clusters by a
// greedy ascending walk: a bucket joins the current cluster while its value
// stays within ratio times the cluster's running mean, otherwise it starts a
// new cluster. Ratio must be greater than 1; wider ratios produce fewer
// clusters.
func (h *Histogram) Clusters(ratio float64) []Cluster {
	if ratio <= 1 {
		ratio = 1 + 1e-9
	}
	var out []Cluster
	var cur *Cluster
	var weighted float64
	for i, w := range h.buckets {
		if w <= 0 {
			continue
		}
		v := h.min + i
		// Cluster means near zero make the ratio test meaningless, so the
		// comparison uses a one-bucket floor.
		if cur != nil && float64(v) <= math.Max(cur.Mean, 1)*ratio {
			cur.Weight += w
			cur.Hi = v
			weighted += float64(v) * w
			cur.Mean = weighted / cur.Weight
			continue
		}
		if cur != nil {
			out = append(out, *cur)
		}
		cur = &Cluster{Mean: float64(v), Weight: w, Lo: v, Hi: v}
		weighted = float64(v) * w
	}
	if cur != nil {
		out = append(out, *cur)
	}
	for i := range out {
		out[i].Median = h.rangeMedian(out[i].Lo, out[i].Hi)
	}
	return out
}

// rangeMedian returns the weighted median of the buckets in [lo, hi]
func (h *Histogram) rangeMedian(lo, hi int) float64 {
	total := 0.0
	for v := lo; v <= hi; v++ {
		total += h.buckets[v-h.min]
	}
	if total <= 0 {
		return float64(lo)
	}
	target := total / 2
	cum := 0.0
	for v := lo; v <= hi; v++ {
		w := h.buckets[v-h.min]
		if cum+w >= target {
			within := 0.0
			if w > 0 {
				within = (target - cum) / w
			}
			return float64(v) + within
		}
		cum += w
	}
	return float64(hi)
}
