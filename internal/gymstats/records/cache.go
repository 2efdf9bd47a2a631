package records

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const recordCacheExpireSeconds = 60 * 60 // one hour

type backingRepo interface {
	Get(ctx context.Context, userID, exerciseName string) (*BestPerformance, error)
	List(ctx context.Context, userID string) ([]BestPerformance, error)
	Save(ctx context.Context, bp *BestPerformance) error
}

// CachedRepo is a read-through cache in front of the records repo.
// Only found records are cached; a save replaces the cached entry.
type CachedRepo struct {
	repo  backingRepo
	cache *freecache.Cache
}

func NewCachedRepo(repo backingRepo, cacheSizeMB int) *CachedRepo {
	megabyte := 1024 * 1024
	return &CachedRepo{
		repo:  repo,
		cache: freecache.NewCache(cacheSizeMB * megabyte),
	}
}

func cacheKey(userID, exerciseName string) []byte {
	return []byte("bp::" + userID + "::" + exerciseName)
}

func (r *CachedRepo) Get(ctx context.Context, userID, exerciseName string) (*BestPerformance, error) {
	key := cacheKey(userID, exerciseName)
	if cached, err := r.cache.Get(key); err == nil {
		bp := &BestPerformance{}
		if err := json.Unmarshal(cached, bp); err == nil {
			return bp, nil
		}
		log.Warnf("records cache: drop corrupt entry [%s]", key)
		r.cache.Del(key)
	} else if !errors.Is(err, freecache.ErrNotFound) {
		log.Warnf("records cache get [%s]: %s", key, err)
	}

	bp, err := r.repo.Get(ctx, userID, exerciseName)
	if err != nil {
		return nil, err
	}
	r.store(key, bp)
	return bp, nil
}

func (r *CachedRepo) List(ctx context.Context, userID string) ([]BestPerformance, error) {
	return r.repo.List(ctx, userID)
}

func (r *CachedRepo) Save(ctx context.Context, bp *BestPerformance) error {
	key := cacheKey(bp.UserID, bp.ExerciseName)
	if err := r.repo.Save(ctx, bp); err != nil {
		r.cache.Del(key)
		return err
	}
	r.store(key, bp)
	return nil
}

func (r *CachedRepo) store(key []byte, bp *BestPerformance) {
	bpJson, err := json.Marshal(bp)
	if err != nil {
		log.Errorf("records cache marshal [%s]: %s", key, err)
		return
	}
	if err := r.cache.Set(key, bpJson, recordCacheExpireSeconds); err != nil {
		log.Warnf("records cache set [%s]: %s", key, err)
	}
}
