// Package clustering assigns job embeddings to role clusters by cosine
// similarity against a fixed set of centroids.
package clustering

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/job-enricher/internal/embedding"
)

// DefaultSimilarityThreshold is the minimum similarity for an assignment;
// jobs farther from every centroid stay unassigned
const DefaultSimilarityThreshold = 0.75

// Centroid is one cluster center in embedding space
type Centroid struct {
	ID     string    `json:"id"`
	Label  string    `json:"label"`
	Vector []float32 `json:"vector"`
}

// Assignment is the chosen cluster for one job embedding
type Assignment struct {
	ClusterID  string
	Label      string
	Similarity float64
}

// Assigner maps embeddings to their nearest centroid
type Assigner struct {
	centroids []Centroid
	threshold float32
}

// NewAssigner creates an assigner. Centroid vectors are normalized on load so
// stored centroids may come from any scale.
func NewAssigner(centroids []Centroid, threshold float32) *Assigner {
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}
	normalized := make([]Centroid, len(centroids))
	for i, c := range centroids {
		c.Vector = embedding.NormalizeVector(c.Vector)
		normalized[i] = c
	}
	return &Assigner{centroids: normalized, threshold: threshold}
}

// Assign finds the nearest centroid for a job embedding. Returns false when
// no centroid clears the similarity threshold or no centroids are loaded.
func (a *Assigner) Assign(vector []float32) (*Assignment, bool) {
	if len(vector) == 0 || len(a.centroids) == 0 {
		return nil, false
	}

	bestIdx := -1
	var bestSim float32
	for i, c := range a.centroids {
		sim := embedding.CosineSimilarity(vector, c.Vector)
		if bestIdx < 0 || sim > bestSim {
			bestSim = sim
			bestIdx = i
		}
	}
	if bestSim < a.threshold {
		return nil, false
	}

	best := a.centroids[bestIdx]
	return &Assignment{
		ClusterID:  best.ID,
		Label:      best.Label,
		Similarity: float64(bestSim),
	}, true
}

// Len returns the number of loaded centroids
func (a *Assigner) Len() int { return len(a.centroids) }

// LoadCentroids reads a centroid set from a JSON file
func LoadCentroids(path string) ([]Centroid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read centroids %s: %w", path, err)
	}

	var centroids []Centroid
	if err := json.Unmarshal(data, &centroids); err != nil {
		return nil, fmt.Errorf("failed to parse centroids %s: %w", path, err)
	}

	for i, c := range centroids {
		if c.ID == "" {
			return nil, fmt.Errorf("centroids %s: entry %d missing id", path, i)
		}
		if len(c.Vector) == 0 {
			return nil, fmt.Errorf("centroids %s: entry %d has empty vector", path, i)
		}
	}
	return centroids, nil
}
