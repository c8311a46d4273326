package token

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Sweeper runs CleanupExpired on a fixed interval until stopped.
type Sweeper struct {
	manager  *Manager
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

func NewSweeper(manager *Manager, interval time.Duration) *Sweeper {
	return &Sweeper{
		manager:  manager,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start launches the background sweep loop.
func (s *Sweeper) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run()
	}()
}

// Stop halts the loop and waits for an in-flight sweep to finish.
func (s *Sweeper) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}

func (s *Sweeper) run() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			removed, err := s.manager.CleanupExpired(context.Background())
			if err != nil {
				log.Warn().Err(err).Int64("removed", removed).Msg("cleanup sweep failed")
				continue
			}
			log.Info().Int64("removed", removed).Msg("cleanup sweep completed")
		case <-s.stopCh:
			return
		}
	}
}
