package application

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/agentboard/agentboard/internal/domain/model"
)

// AnalysisCache keeps the most recent analysis per repository full name so
// the dashboard can serve it without re-running the pipeline.
type AnalysisCache struct {
	cache *lru.Cache[string, model.Analysis]
}

// NewAnalysisCache creates a cache holding up to size analyses.
func NewAnalysisCache(size int) (*AnalysisCache, error) {
	c, err := lru.New[string, model.Analysis](size)
	if err != nil {
		return nil, err
	}
	return &AnalysisCache{cache: c}, nil
}

// Put stores the latest analysis for a repository.
func (c *AnalysisCache) Put(repoFullName string, analysis model.Analysis) {
	c.cache.Add(repoFullName, analysis)
}

// Get returns the cached analysis for a repository, if any.
func (c *AnalysisCache) Get(repoFullName string) (model.Analysis, bool) {
	return c.cache.Get(repoFullName)
}
