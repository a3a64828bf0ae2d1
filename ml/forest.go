package ml

import (
	"fmt"
	"math/rand"
	"sync"
)

// ForestRegressor is a bagged ensemble of regression trees. Every tree
// bootstraps its own sample with an rng seeded Seed+treeIndex, so a fit over
// the same dataset always reproduces the same ensemble, regardless of how
// the worker pool schedules the trees.
type ForestRegressor struct {
	NTrees          int
	MaxDepth        int
	MinSamplesSplit int
	Seed            int64
	Trees           []*TreeRegressor

	MaxWorkers int
}

func NewForestRegressor(nTrees int, seed int64) *ForestRegressor {
	if nTrees <= 0 {
		nTrees = 100
	}
	return &ForestRegressor{
		NTrees:          nTrees,
		MaxDepth:        10,
		MinSamplesSplit: 2,
		Seed:            seed,
		MaxWorkers:      4,
	}
}

func (f *ForestRegressor) Fit(X [][]float64, y []float64) error {
	if len(X) == 0 {
		return fmt.Errorf("empty dataset")
	}
	if len(X) != len(y) {
		return fmt.Errorf("feature rows (%d) and targets (%d) differ", len(X), len(y))
	}

	f.Trees = make([]*TreeRegressor, f.NTrees)
	errs := make([]error, f.NTrees)

	workers := f.MaxWorkers
	if workers < 1 {
		workers = 1
	}
	if workers > f.NTrees {
		workers = f.NTrees
	}

	jobs := make(chan int, f.NTrees)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				f.Trees[i], errs[i] = f.fitSingleTree(X, y, f.Seed+int64(i))
			}
		}()
	}
	for i := 0; i < f.NTrees; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return fmt.Errorf("tree %d training failed: %w", i, err)
		}
	}
	return nil
}

func (f *ForestRegressor) fitSingleTree(X [][]float64, y []float64, seed int64) (*TreeRegressor, error) {
	r := rand.New(rand.NewSource(seed))

	n := len(X)
	XBoot := make([][]float64, n)
	yBoot := make([]float64, n)
	for i := 0; i < n; i++ {
		idx := r.Intn(n)
		XBoot[i] = X[idx]
		yBoot[i] = y[idx]
	}

	tree := NewTreeRegressor(f.MaxDepth, f.MinSamplesSplit)
	if err := tree.Fit(XBoot, yBoot); err != nil {
		return nil, err
	}
	return tree, nil
}

func (f *ForestRegressor) Fitted() bool {
	return len(f.Trees) > 0
}

// Predict averages the individual tree predictions. The output is not
// bounded; callers apply their own clipping policy.
func (f *ForestRegressor) Predict(x []float64) float64 {
	if !f.Fitted() {
		return 0
	}
	var sum float64
	for _, tree := range f.Trees {
		sum += tree.Predict(x)
	}
	return sum / float64(len(f.Trees))
}

// Importances returns per-feature relative contribution to the ensemble's
// splits, normalized to sum to 1. Nil when the forest is unfitted.
func (f *ForestRegressor) Importances() []float64 {
	if !f.Fitted() {
		return nil
	}

	nFeatures := len(f.Trees[0].FeatureImportance)
	totals := make([]float64, nFeatures)
	for _, tree := range f.Trees {
		for j, v := range tree.FeatureImportance {
			totals[j] += v
		}
	}

	var sum float64
	for _, v := range totals {
		sum += v
	}
	if sum > 0 {
		for j := range totals {
			totals[j] /= sum
		}
	}
	return totals
}
