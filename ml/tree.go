package ml

import (
	"fmt"
	"sort"
)

type TreeNode struct {
	IsLeaf    bool
	Value     float64
	Feature   int
	Threshold float64
	Left      *TreeNode
	Right     *TreeNode
	Samples   int
}

// TreeRegressor is a CART regression tree: splits minimize the weighted
// variance of the target, leaves predict the mean target of their samples.
type TreeRegressor struct {
	Root            *TreeNode
	MaxDepth        int
	MinSamplesSplit int
	// FeatureImportance accumulates sample-weighted variance reduction per
	// feature over every chosen split.
	FeatureImportance []float64

	totalSamples int
}

const minImpurityDecrease = 1e-7

func NewTreeRegressor(maxDepth, minSamplesSplit int) *TreeRegressor {
	if maxDepth <= 0 {
		maxDepth = 10
	}
	if minSamplesSplit <= 0 {
		minSamplesSplit = 2
	}
	return &TreeRegressor{
		MaxDepth:        maxDepth,
		MinSamplesSplit: minSamplesSplit,
	}
}

func (t *TreeRegressor) Fit(X [][]float64, y []float64) error {
	if len(X) == 0 {
		return fmt.Errorf("empty dataset")
	}
	if len(X) != len(y) {
		return fmt.Errorf("feature rows (%d) and targets (%d) differ", len(X), len(y))
	}

	t.totalSamples = len(y)
	t.FeatureImportance = make([]float64, len(X[0]))
	t.Root = t.buildTree(X, y, 0)
	return nil
}

func (t *TreeRegressor) Predict(x []float64) float64 {
	return t.predictNode(x, t.Root)
}

func (t *TreeRegressor) predictNode(x []float64, node *TreeNode) float64 {
	if node.IsLeaf {
		return node.Value
	}
	if x[node.Feature] < node.Threshold {
		return t.predictNode(x, node.Left)
	}
	return t.predictNode(x, node.Right)
}

func (t *TreeRegressor) buildTree(X [][]float64, y []float64, depth int) *TreeNode {
	node := &TreeNode{Samples: len(y)}

	impurity := variance(y)
	if depth >= t.MaxDepth || len(y) < t.MinSamplesSplit || impurity < minImpurityDecrease {
		node.IsLeaf = true
		node.Value = mean(y)
		return node
	}

	feature, threshold, decrease := t.findBestSplit(X, y, impurity)
	if decrease < minImpurityDecrease {
		node.IsLeaf = true
		node.Value = mean(y)
		return node
	}

	leftIdx, rightIdx := splitIndices(X, feature, threshold)
	if len(leftIdx) == 0 || len(rightIdx) == 0 {
		node.IsLeaf = true
		node.Value = mean(y)
		return node
	}

	t.FeatureImportance[feature] += float64(len(y)) / float64(t.totalSamples) * decrease

	node.Feature = feature
	node.Threshold = threshold

	XLeft, yLeft := selectRows(X, y, leftIdx)
	XRight, yRight := selectRows(X, y, rightIdx)
	node.Left = t.buildTree(XLeft, yLeft, depth+1)
	node.Right = t.buildTree(XRight, yRight, depth+1)

	return node
}

func (t *TreeRegressor) findBestSplit(X [][]float64, y []float64, parentImpurity float64) (int, float64, float64) {
	bestFeature := 0
	bestThreshold := 0.0
	bestDecrease := 0.0
	n := float64(len(y))

	for feature := range X[0] {
		for _, threshold := range candidateThresholds(X, feature) {
			leftIdx, rightIdx := splitIndices(X, feature, threshold)
			if len(leftIdx) == 0 || len(rightIdx) == 0 {
				continue
			}

			yLeft := make([]float64, len(leftIdx))
			for i, idx := range leftIdx {
				yLeft[i] = y[idx]
			}
			yRight := make([]float64, len(rightIdx))
			for i, idx := range rightIdx {
				yRight[i] = y[idx]
			}

			weighted := float64(len(yLeft))/n*variance(yLeft) +
				float64(len(yRight))/n*variance(yRight)
			decrease := parentImpurity - weighted

			if decrease > bestDecrease {
				bestDecrease = decrease
				bestFeature = feature
				bestThreshold = threshold
			}
		}
	}

	return bestFeature, bestThreshold, bestDecrease
}

// candidateThresholds returns the sorted unique values of one feature.
// Splitting on x < threshold at each unique value covers every distinct
// partition of the node.
func candidateThresholds(X [][]float64, feature int) []float64 {
	seen := make(map[float64]struct{}, len(X))
	for _, row := range X {
		seen[row[feature]] = struct{}{}
	}
	values := make([]float64, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Float64s(values)
	return values
}

func splitIndices(X [][]float64, feature int, threshold float64) ([]int, []int) {
	var left, right []int
	for i, row := range X {
		if row[feature] < threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	return left, right
}

func selectRows(X [][]float64, y []float64, idx []int) ([][]float64, []float64) {
	Xs := make([][]float64, len(idx))
	ys := make([]float64, len(idx))
	for i, j := range idx {
		Xs[i] = X[j]
		ys[i] = y[j]
	}
	return Xs, ys
}

func mean(y []float64) float64 {
	if len(y) == 0 {
		return 0
	}
	var sum float64
	for _, v := range y {
		sum += v
	}
	return sum / float64(len(y))
}

func variance(y []float64) float64 {
	if len(y) == 0 {
		return 0
	}
	m := mean(y)
	var ss float64
	for _, v := range y {
		d := v - m
		ss += d * d
	}
	return ss / float64(len(y))
}
