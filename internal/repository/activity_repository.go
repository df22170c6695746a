package repository

import (
	"context"
	"encoding/json"
	"time"

	"kidlearn_backend/internal/model"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const activityCacheTTL = 5 * time.Minute

// ActivityRepository reads activities with a small read-through redis
// cache: activity metadata is immutable during a session and every
// progress validation needs it.
type ActivityRepository struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewActivityRepository(db *gorm.DB, rdb *redis.Client) *ActivityRepository {
	return &ActivityRepository{DB: db, Redis: rdb}
}

func (r *ActivityRepository) GetActivity(ctx context.Context, activityID string) (*model.Activity, error) {
	cacheKey := "activity:" + activityID

	if r.Redis != nil {
		if raw, err := r.Redis.Get(ctx, cacheKey).Result(); err == nil {
			var cached model.Activity
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return &cached, nil
			}
		}
	}

	var activity model.Activity
	err := r.DB.WithContext(ctx).Where("id = ?", activityID).First(&activity).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if r.Redis != nil {
		if raw, err := json.Marshal(&activity); err == nil {
			// Cache write failures are invisible to callers.
			r.Redis.Set(ctx, cacheKey, raw, activityCacheTTL)
		}
	}
	return &activity, nil
}

func (r *ActivityRepository) FindByChild(ctx context.Context, childID string) ([]model.Activity, error) {
	var activities []model.Activity
	err := r.DB.WithContext(ctx).Where("child_id = ?", childID).Order("`order`").Find(&activities).Error
	return activities, err
}

func (r *ActivityRepository) Create(ctx context.Context, activity *model.Activity) error {
	return r.DB.WithContext(ctx).Create(activity).Error
}
