package ml

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// StandardScaler centers each feature to zero mean and unit variance.
// Parameters come from the training set only; a zero-variance feature keeps
// a std of 1 so transforms stay finite.
type StandardScaler struct {
	Mean []float64
	Std  []float64
}

func NewStandardScaler() *StandardScaler {
	return &StandardScaler{}
}

func (s *StandardScaler) Fitted() bool {
	return len(s.Mean) > 0
}

func (s *StandardScaler) Fit(X [][]float64) error {
	if len(X) == 0 {
		return fmt.Errorf("empty dataset")
	}

	nFeatures := len(X[0])
	s.Mean = make([]float64, nFeatures)
	s.Std = make([]float64, nFeatures)

	column := make([]float64, len(X))
	for j := 0; j < nFeatures; j++ {
		for i := range X {
			column[i] = X[i][j]
		}
		s.Mean[j] = stat.Mean(column, nil)

		// Population variance, matching how the artifact was defined.
		var ss float64
		for _, v := range column {
			d := v - s.Mean[j]
			ss += d * d
		}
		s.Std[j] = math.Sqrt(ss / float64(len(column)))
		if s.Std[j] == 0 {
			s.Std[j] = 1
		}
	}

	return nil
}

func (s *StandardScaler) Transform(X [][]float64) ([][]float64, error) {
	if !s.Fitted() {
		return nil, fmt.Errorf("scaler must be fitted before transform")
	}

	result := make([][]float64, len(X))
	for i := range X {
		row, err := s.TransformOne(X[i])
		if err != nil {
			return nil, err
		}
		result[i] = row
	}
	return result, nil
}

func (s *StandardScaler) TransformOne(x []float64) ([]float64, error) {
	if !s.Fitted() {
		return nil, fmt.Errorf("scaler must be fitted before transform")
	}
	if len(x) != len(s.Mean) {
		return nil, fmt.Errorf("feature vector has %d values, scaler fitted on %d", len(x), len(s.Mean))
	}

	out := make([]float64, len(x))
	for j, v := range x {
		out[j] = (v - s.Mean[j]) / s.Std[j]
	}
	return out, nil
}

func (s *StandardScaler) FitTransform(X [][]float64) ([][]float64, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}
