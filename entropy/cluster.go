package entropy

import "container/heap"

// mergePair is a candidate merge between two still-live histograms, scored
// by the entropy cost the merge would add over keeping them separate.
type mergePair struct {
	a, b     int // indices into the live histogram slice
	costDiff float64
}

// mergeQueue is a min-heap of mergePair ordered by costDiff: the cheapest
// (most negative, i.e. most beneficial) merge is always at the root.
type mergeQueue []mergePair

func (q mergeQueue) Len() int            { return len(q) }
func (q mergeQueue) Less(i, j int) bool  { return q[i].costDiff < q[j].costDiff }
func (q mergeQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *mergeQueue) Push(x interface{}) { *q = append(*q, x.(mergePair)) }
func (q *mergeQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// ClusterHistograms greedily merges a set of per-context histograms down to
// at most limit clusters, always merging the pair whose combined cost adds
// the least entropy over keeping them apart. It returns the resulting
// cluster histograms and a context map from original index to cluster
// index in [0, len(clusters)).
//
// Reference: github.com/deepteams/webp internal/lossless histogramCombineGreedy,
// generalized from a fixed 5-channel pixel histogram set to an arbitrary
// number of per-context histograms, and re-expressed over container/heap
// (the pack's idiom for this shape, per the Huffman tree builder) since the
// live set here can be far larger than VP8L's handful of tiles.
func ClusterHistograms(histos []*Histogram, limit int) (clusters []*Histogram, contextMap []uint32) {
	n := len(histos)
	if n == 0 {
		return nil, nil
	}

	live := make([]*Histogram, n)
	// origins[i] lists which original context indices have been folded
	// into live[i] so far.
	origins := make([][]int, n)
	for i, h := range histos {
		live[i] = h.Clone()
		origins[i] = []int{i}
	}

	if n <= limit {
		contextMap = make([]uint32, n)
		for i := range contextMap {
			contextMap[i] = uint32(i)
		}
		return live, contextMap
	}

	q := make(mergeQueue, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			q = append(q, mergePair{a: i, b: j, costDiff: mergeScore(live[i], live[j])})
		}
	}
	heap.Init(&q)

	alive := n
	for alive > limit && q.Len() > 0 {
		top := heap.Pop(&q).(mergePair)
		if live[top.a] == nil || live[top.b] == nil {
			continue // one side was already folded into another merge
		}
		live[top.a].MergeFrom(live[top.b])
		origins[top.a] = append(origins[top.a], origins[top.b]...)
		live[top.b] = nil
		origins[top.b] = nil
		alive--

		for j := range live {
			if j == top.a || live[j] == nil {
				continue
			}
			heap.Push(&q, mergePair{a: top.a, b: j, costDiff: mergeScore(live[top.a], live[j])})
		}
	}

	contextMap = make([]uint32, n)
	clusterIdx := 0
	for i := range live {
		if live[i] == nil {
			continue
		}
		for _, origCtx := range origins[i] {
			contextMap[origCtx] = uint32(clusterIdx)
		}
		clusters = append(clusters, live[i])
		clusterIdx++
	}
	return clusters, contextMap
}

// mergeScore is the entropy-merge cost of combining a and b: the Shannon
// entropy of the merged population minus the sum of the components' own
// entropies. A negative score means merging loses less than the per-symbol
// overhead of keeping two separate code tables would cost.
func mergeScore(a, b *Histogram) float64 {
	return mergedCost(a, b) - a.Cost() - b.Cost()
}
