package ml

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
)

// Artifact filenames inside the configured artifact directory. Scaler and
// forest are persisted separately so either can be inspected on its own.
const (
	ScalerFile = "scaler.gob"
	ForestFile = "forest.gob"
)

// SaveArtifacts persists a fitted scaler and forest, replacing any previous
// artifacts. Each file is written to a temp path and renamed so a crashed
// write never leaves a torn artifact behind.
func SaveArtifacts(dir string, scaler *StandardScaler, forest *ForestRegressor) error {
	if err := writeGob(filepath.Join(dir, ScalerFile), scaler); err != nil {
		return fmt.Errorf("save scaler: %w", err)
	}
	if err := writeGob(filepath.Join(dir, ForestFile), forest); err != nil {
		return fmt.Errorf("save forest: %w", err)
	}
	return nil
}

// LoadArtifacts reloads persisted artifacts. A missing file is not an error:
// it simply means the service starts untrained.
func LoadArtifacts(dir string) (*StandardScaler, *ForestRegressor, error) {
	scalerPath := filepath.Join(dir, ScalerFile)
	forestPath := filepath.Join(dir, ForestFile)

	if !fileExists(scalerPath) || !fileExists(forestPath) {
		return nil, nil, nil
	}

	var scaler StandardScaler
	if err := readGob(scalerPath, &scaler); err != nil {
		return nil, nil, fmt.Errorf("load scaler: %w", err)
	}
	var forest ForestRegressor
	if err := readGob(forestPath, &forest); err != nil {
		return nil, nil, fmt.Errorf("load forest: %w", err)
	}
	return &scaler, &forest, nil
}

func writeGob(path string, value interface{}) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := gob.NewEncoder(tmp).Encode(value); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func readGob(path string, value interface{}) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return gob.NewDecoder(file).Decode(value)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
