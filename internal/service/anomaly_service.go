package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"kidlearn_backend/internal/model"
	"kidlearn_backend/internal/validation"
	"kidlearn_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

const anomalyQueueKey = "anomaly:review_queue"

// AnomalyService feeds heuristic warnings into the fraud review
// pipeline: a redis queue for the reviewer dashboard and a MinIO archive
// of the raw submission. Both are best effort; a dead review pipeline
// must never affect the child-facing request.
type AnomalyService struct {
	Redis  *redis.Client
	Minio  *minio.Client
	Bucket string
}

func NewAnomalyService(rdb *redis.Client, mc *minio.Client, bucket string) *AnomalyService {
	return &AnomalyService{Redis: rdb, Minio: mc, Bucket: bucket}
}

type flaggedSubmission struct {
	ChildID    string                        `json:"childId"`
	ActivityID string                        `json:"activityId"`
	FlaggedAt  time.Time                     `json:"flaggedAt"`
	Warnings   []validation.ValidationWarning `json:"warnings"`
	Payload    *model.ProgressUpdatePayload  `json:"payload"`
	ArchiveKey string                        `json:"archiveKey"`
}

func (s *AnomalyService) ReportFlagged(childID string, payload *model.ProgressUpdatePayload, result *validation.ValidationResult) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	entry := flaggedSubmission{
		ChildID:    childID,
		ActivityID: payload.ActivityID,
		FlaggedAt:  time.Now().UTC(),
		Warnings:   result.Warnings,
		Payload:    payload,
		ArchiveKey: fmt.Sprintf("flagged/%s/%s/%s.json", childID, payload.ActivityID, model.GenerateUUID()),
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		logger.Log.Error("failed to encode flagged submission", zap.Error(err))
		return
	}

	if s.Minio != nil {
		_, err = s.Minio.PutObject(ctx, s.Bucket, entry.ArchiveKey,
			bytes.NewReader(raw), int64(len(raw)),
			minio.PutObjectOptions{ContentType: "application/json"})
		if err != nil {
			logger.Log.Error("failed to archive flagged submission",
				zap.String("key", entry.ArchiveKey), zap.Error(err))
		}
	}

	if s.Redis != nil {
		if err := s.Redis.LPush(ctx, anomalyQueueKey, raw).Err(); err != nil {
			logger.Log.Error("failed to enqueue flagged submission", zap.Error(err))
		}
	}

	logger.Log.Warn("progress submission flagged for review",
		zap.String("childId", childID),
		zap.String("activityId", payload.ActivityID),
		zap.Int("warnings", len(result.Warnings)))
}

// PendingReviewCount exposes the queue depth for the reviewer dashboard.
func (s *AnomalyService) PendingReviewCount(ctx context.Context) (int64, error) {
	if s.Redis == nil {
		return 0, nil
	}
	return s.Redis.LLen(ctx, anomalyQueueKey).Result()
}
