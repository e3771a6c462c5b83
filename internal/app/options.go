package service

import (
	"github.com/okian/kickrate/internal/domain/chemistry"
	"github.com/okian/kickrate/internal/domain/rating"
	"github.com/okian/kickrate/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of rating workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum number of queued rating jobs.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithMaxBatchSize caps the number of matches accepted by RateBatch.
func WithMaxBatchSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.maxBatchSize = size
		}
	}
}

// WithDedupeSize sets how many settled match ids are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithParams sets the engine coefficients. Invalid parameters are ignored.
func WithParams(p rating.Params) Option {
	return func(s *Service) {
		if p.Validate() == nil {
			s.params = p
		}
	}
}

// WithLedger replaces the default in-memory chemistry ledger.
func WithLedger(l chemistry.Ledger) Option {
	return func(s *Service) {
		if l != nil {
			s.ledger = l
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
