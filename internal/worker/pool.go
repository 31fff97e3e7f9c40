// Package worker provides background persistence for finished analyses.
package worker

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/ewilliams-labs/lyricmood/internal/core/domain"
	"github.com/ewilliams-labs/lyricmood/internal/core/ports"
)

const saveTimeout = 5 * time.Second

// Pool manages background workers that write analysis results to the
// history repository, so request handlers never block on storage.
type Pool struct {
	repo ports.AnalysisRepository
	jobs chan domain.AnalysisResult
	wg   sync.WaitGroup
}

// NewPool creates a worker pool with the given queue size.
func NewPool(repo ports.AnalysisRepository, queueSize int) *Pool {
	if queueSize < 1 {
		queueSize = 1
	}
	return &Pool{repo: repo, jobs: make(chan domain.AnalysisResult, queueSize)}
}

// Start launches the worker goroutines.
func (p *Pool) Start(workers int) {
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for result := range p.jobs {
				p.processJob(result)
			}
		}()
	}
}

// Stop waits for workers to drain the queue after closing it.
func (p *Pool) Stop() {
	close(p.jobs)
	p.wg.Wait()
}

// Submit queues a result without blocking. Results are dropped when the
// queue is full; history is best-effort.
func (p *Pool) Submit(result domain.AnalysisResult) {
	select {
	case p.jobs <- result:
	default:
		log.Printf("WARN worker: queue full, dropping result %s", result.ID)
	}
}

func (p *Pool) processJob(result domain.AnalysisResult) {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	if err := p.repo.Save(ctx, result); err != nil {
		log.Printf("WARN worker: failed to save result %s: %v", result.ID, err)
		return
	}
	log.Printf("DEBUG worker: saved result %s (%s)", result.ID, result.Status)
}
