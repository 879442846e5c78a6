// Package workerpool wraps ants with a bounded pool sized for polite
// upstream usage: keyword research fans out one task per keyword, and the
// pool cap is what keeps the search providers from being hammered.
package workerpool

import (
	"errors"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

var ErrPoolClosed = errors.New("worker pool is closed")

// Config holds worker pool configuration
type Config struct {
	// Workers bounds concurrent task execution
	Workers int `mapstructure:"workers"`
}

// DefaultConfig returns a conservative pool size
func DefaultConfig() *Config {
	return &Config{Workers: 5}
}

// Statistics tracks task counters
type Statistics struct {
	mu sync.RWMutex

	Submitted int64
	Completed int64
	Failed    int64
}

func (s *Statistics) incSubmitted() {
	s.mu.Lock()
	s.Submitted++
	s.mu.Unlock()
}

func (s *Statistics) incCompleted() {
	s.mu.Lock()
	s.Completed++
	s.mu.Unlock()
}

func (s *Statistics) incFailed() {
	s.mu.Lock()
	s.Failed++
	s.mu.Unlock()
}

// Get returns a copy of the current counters
func (s *Statistics) Get() Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Statistics{
		Submitted: s.Submitted,
		Completed: s.Completed,
		Failed:    s.Failed,
	}
}

// Pool is a bounded worker pool backed by ants
type Pool struct {
	pool   *ants.Pool
	stats  *Statistics
	logger *zap.Logger

	closeOnce sync.Once
	closed    bool
	mu        sync.RWMutex
}

// New creates a pool with the configured number of workers
func New(config *Config, logger *zap.Logger) (*Pool, error) {
	if config == nil {
		config = DefaultConfig()
	}

	antsPool, err := ants.NewPool(config.Workers,
		ants.WithPanicHandler(func(err interface{}) {
			logger.Error("worker panic", zap.Any("error", err))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ants pool: %w", err)
	}

	return &Pool{
		pool:   antsPool,
		stats:  &Statistics{},
		logger: logger,
	}, nil
}

// Submit schedules a task; it blocks when all workers are busy
func (p *Pool) Submit(task func()) error {
	p.mu.RLock()
	closed := p.closed
	p.mu.RUnlock()
	if closed {
		return ErrPoolClosed
	}

	p.stats.incSubmitted()
	err := p.pool.Submit(func() {
		defer func() {
			if r := recover(); r != nil {
				p.stats.incFailed()
				panic(r) // handled by the ants panic handler
			}
			p.stats.incCompleted()
		}()
		task()
	})
	if err != nil {
		p.stats.incFailed()
		return fmt.Errorf("failed to submit task: %w", err)
	}
	return nil
}

// Stats returns a snapshot of the task counters
func (p *Pool) Stats() Statistics {
	return p.stats.Get()
}

// Running returns the number of currently executing workers
func (p *Pool) Running() int {
	return p.pool.Running()
}

// Release stops the pool; queued tasks finish, new submissions fail
func (p *Pool) Release() {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		p.mu.Unlock()
		p.pool.Release()
	})
}
