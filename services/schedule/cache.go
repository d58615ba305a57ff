package schedule

import (
	"context"
	"encoding/json"
	"time"

	"studiofit/models"
	"studiofit/utils"

	"go.uber.org/zap"
)

// Day views are the hot read path (every kiosk tap lists the location's day),
// so they are cached briefly in Redis. Exception writes invalidate the
// affected day; the short TTL covers everything else.
const dayCacheTTL = 30 * time.Second

func dayCacheKey(locationID, date string) string {
	return "occ:" + locationID + ":" + date
}

func (s *DefaultScheduleService) cachedDay(ctx context.Context, locationID, date string) ([]models.ClassOccurrence, bool) {
	if s.Cache == nil {
		return nil, false
	}
	raw, err := s.Cache.Get(ctx, dayCacheKey(locationID, date)).Bytes()
	if err != nil {
		return nil, false
	}
	var occurrences []models.ClassOccurrence
	if err := json.Unmarshal(raw, &occurrences); err != nil {
		utils.GetLogger().Warn("corrupt day-view cache entry",
			zap.String("locationID", locationID), zap.String("date", date))
		return nil, false
	}
	return occurrences, true
}

func (s *DefaultScheduleService) storeDay(ctx context.Context, locationID, date string, occurrences []models.ClassOccurrence) {
	if s.Cache == nil {
		return
	}
	raw, err := json.Marshal(occurrences)
	if err != nil {
		return
	}
	if err := s.Cache.Set(ctx, dayCacheKey(locationID, date), raw, dayCacheTTL).Err(); err != nil {
		utils.GetLogger().Debug("day-view cache write failed", zap.Error(err))
	}
}

func (s *DefaultScheduleService) invalidateDay(ctx context.Context, locationID string, dates ...string) {
	if s.Cache == nil {
		return
	}
	for _, date := range dates {
		if err := s.Cache.Del(ctx, dayCacheKey(locationID, date)).Err(); err != nil {
			utils.GetLogger().Debug("day-view cache invalidation failed", zap.Error(err))
		}
	}
}
