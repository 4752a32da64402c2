package forecast

import "sort"

// Gradient-boosted regression trees used by the BoostedTrees adapter. This is
// a deliberately small trainer: squared-error loss, greedy depth-limited CART
// splits, shrinkage. No mainstream Go library offers GBM training (the
// available ones are inference-only or cgo bindings), so the adapter carries
// its own.

type treeNode struct {
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
	value     float64
}

func (n *treeNode) predict(row []float64) float64 {
	for n.left != nil {
		if row[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.value
}

type boostedModel struct {
	base  float64
	lr    float64
	trees []*treeNode
}

func (b *boostedModel) predict(row []float64) float64 {
	v := b.base
	for _, t := range b.trees {
		v += b.lr * t.predict(row)
	}
	return v
}

const minLeafSize = 5

// trainBoosted fits `rounds` trees of depth `depth` to the residuals of the
// running prediction, starting from the mean of y.
func trainBoosted(x [][]float64, y []float64, rounds, depth int, lr float64) *boostedModel {
	n := len(y)
	base := 0.0
	for _, v := range y {
		base += v
	}
	base /= float64(n)

	m := &boostedModel{base: base, lr: lr}
	pred := make([]float64, n)
	for i := range pred {
		pred[i] = base
	}
	resid := make([]float64, n)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}

	for r := 0; r < rounds; r++ {
		for i := range resid {
			resid[i] = y[i] - pred[i]
		}
		tree := buildTree(x, resid, idx, depth)
		m.trees = append(m.trees, tree)
		for i := range pred {
			pred[i] += lr * tree.predict(x[i])
		}
	}
	return m
}

func buildTree(x [][]float64, resid []float64, idx []int, depth int) *treeNode {
	if depth == 0 || len(idx) < 2*minLeafSize {
		return &treeNode{value: meanAt(resid, idx)}
	}
	feature, threshold, ok := bestSplit(x, resid, idx)
	if !ok {
		return &treeNode{value: meanAt(resid, idx)}
	}

	var leftIdx, rightIdx []int
	for _, i := range idx {
		if x[i][feature] <= threshold {
			leftIdx = append(leftIdx, i)
		} else {
			rightIdx = append(rightIdx, i)
		}
	}
	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      buildTree(x, resid, leftIdx, depth-1),
		right:     buildTree(x, resid, rightIdx, depth-1),
	}
}

// bestSplit scans every feature with a sorted prefix-sum sweep and returns
// the split with the largest squared-error reduction.
func bestSplit(x [][]float64, resid []float64, idx []int) (feature int, threshold float64, ok bool) {
	nFeatures := len(x[idx[0]])
	n := len(idx)

	var totalSum, totalSq float64
	for _, i := range idx {
		totalSum += resid[i]
		totalSq += resid[i] * resid[i]
	}
	parentCost := totalSq - totalSum*totalSum/float64(n)
	bestGain := 1e-12

	order := make([]int, n)
	for f := 0; f < nFeatures; f++ {
		copy(order, idx)
		sort.Slice(order, func(a, b int) bool { return x[order[a]][f] < x[order[b]][f] })

		leftSum, leftSq := 0.0, 0.0
		for k := 0; k < n-1; k++ {
			i := order[k]
			leftSum += resid[i]
			leftSq += resid[i] * resid[i]
			if x[order[k+1]][f] == x[i][f] {
				continue
			}
			nl, nr := k+1, n-k-1
			if nl < minLeafSize || nr < minLeafSize {
				continue
			}
			rightSum := totalSum - leftSum
			rightSq := totalSq - leftSq
			cost := (leftSq - leftSum*leftSum/float64(nl)) + (rightSq - rightSum*rightSum/float64(nr))
			if gain := parentCost - cost; gain > bestGain {
				bestGain = gain
				feature = f
				threshold = (x[i][f] + x[order[k+1]][f]) / 2
				ok = true
			}
		}
	}
	return feature, threshold, ok
}

func meanAt(values []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	sum := 0.0
	for _, i := range idx {
		sum += values[i]
	}
	return sum / float64(len(idx))
}
