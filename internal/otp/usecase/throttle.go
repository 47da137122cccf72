package usecase

import (
	"context"
	"time"
)

// isThrottled counts the records created for identifier inside the sliding
// window ending at now. It only reads, so a refused request leaves the count
// unchanged.
func (s *Usecase) isThrottled(ctx context.Context, identifier string, now time.Time) (bool, error) {
	window := s.cfg.GetHour("otp.throttle.window_hours")
	limit := s.cfg.GetInt64("otp.throttle.max")

	count, err := s.repoStore.CountCreatedSince(ctx, identifier, now.Add(-window))
	if err != nil {
		return false, err
	}

	return count >= limit, nil
}
