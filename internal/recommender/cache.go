package recommender

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/coocood/freecache"

	"github.com/2beens/weightrec/internal/features"
)

const (
	defaultCacheSizeMB = 16
	// freecache refuses anything below 512KB
	minCacheSize = 512 * 1024
)

// PredictionCache holds final (second pass) predictions keyed by model version and the
// prescription inputs, so a refit invalidates every entry without an explicit purge.
type PredictionCache struct {
	cache      *freecache.Cache
	ttlSeconds int
}

func NewPredictionCache(sizeMB, ttlSeconds int) *PredictionCache {
	if sizeMB <= 0 {
		sizeMB = defaultCacheSizeMB
	}
	size := sizeMB * 1024 * 1024
	if size < minCacheSize {
		size = minCacheSize
	}
	return &PredictionCache{
		cache:      freecache.NewCache(size),
		ttlSeconds: ttlSeconds,
	}
}

func (pc *PredictionCache) Get(version uint64, v features.FeatureVector) (float64, bool) {
	val, err := pc.cache.Get(cacheKey(version, v))
	if err != nil || len(val) != 8 {
		return 0, false
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(val)), true
}

func (pc *PredictionCache) Set(version uint64, v features.FeatureVector, weight float64) {
	val := make([]byte, 8)
	binary.LittleEndian.PutUint64(val, math.Float64bits(weight))
	// only fails for oversized entries
	_ = pc.cache.Set(cacheKey(version, v), val, pc.ttlSeconds)
}

func (pc *PredictionCache) Clear() {
	pc.cache.Clear()
}

func (pc *PredictionCache) EntryCount() int64 {
	return pc.cache.EntryCount()
}

// the weight derived features are excluded, they are filled in by the bootstrap
func cacheKey(version uint64, v features.FeatureVector) []byte {
	return fmt.Appendf(nil, "%d|%s|%d|%d|%s|%t",
		version, v.WorkoutType, v.Sets, v.Reps, v.ExperienceLevel, v.PreviousSuccess)
}
