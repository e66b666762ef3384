package services

import (
	"context"
	"sync"

	"github.com/roylee0704/gron"

	"seenkeeper/internal/providers"
	"seenkeeper/internal/structures"
)

type MirrorSchedulerInterface interface {
	Init()
	Stop()
	Persist() error
}

// MirrorScheduler periodically folds fallback writes back into the
// structured store and repairs the legacy mirror after failed writes.
type MirrorScheduler struct {
	config   *structures.Config
	logger   providers.Logger
	resolver *FallbackResolver
	cron     *gron.Cron
	opsMu    sync.Mutex
}

func (s *MirrorScheduler) Init() {
	interval := s.config.Legacy.SyncInterval
	if interval <= 0 || s.cron != nil {
		return
	}
	s.cron = gron.New()

	s.cron.AddFunc(gron.Every(interval), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		synced, err := s.resolver.SyncMirror(context.Background())
		if err != nil {
			s.logger.Errorf(providers.TypeStorage, "Error while syncing legacy mirror: %s", err)
			return
		}
		if synced {
			s.logger.Infof(providers.TypeStorage, "Legacy mirror resynced")
		}
	})

	s.cron.Start()
}

func (s *MirrorScheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
		s.cron = nil
	}
}

// Persist runs one final sync, used when the app closes.
func (s *MirrorScheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	_, err := s.resolver.SyncMirror(context.Background())
	return err
}

func NewMirrorScheduler(config *structures.Config, logger providers.Logger, resolver *FallbackResolver) *MirrorScheduler {
	return &MirrorScheduler{
		config:   config,
		logger:   logger,
		resolver: resolver,
	}
}
