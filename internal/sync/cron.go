package sync

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Schedule registers the nightly sync on the given cron expression (SYNC_CRON
// env, e.g. "0 3 * * *"). Returns the started scheduler so the caller can
// Stop it on shutdown.
func (s *Service) Schedule(spec string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		now := time.Now()
		if _, err := s.RunBitrix(ctx, now.Year(), int(now.Month())); err != nil {
			s.log.Error("scheduled bitrix sync failed", zap.Error(err))
		}
		if s.adesk != nil {
			if _, err := s.RunAdesk(ctx); err != nil {
				s.log.Error("scheduled adesk sync failed", zap.Error(err))
			}
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
