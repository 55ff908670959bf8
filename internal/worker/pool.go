// Package worker provides background feature analysis so preview download
// and DSP work stay off the request path.
package worker

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/soundprint-labs/soundprint/internal/core/domain"
	"github.com/soundprint-labs/soundprint/internal/core/ports"
)

// Job is one queued analysis request.
type Job struct {
	ID    string
	Track domain.Track
}

// Pool manages background workers that resolve a track's preview, compute
// its feature vector, and persist it. Submissions never block; when the
// queue is full the job is dropped and will be retried the next time the
// track surfaces.
type Pool struct {
	repo      ports.TrackRepository
	resolver  ports.PreviewResolver
	extractor ports.FeatureExtractor
	jobs      chan Job
	wg        sync.WaitGroup
}

// NewPool creates a worker pool with the given queue size.
func NewPool(repo ports.TrackRepository, resolver ports.PreviewResolver, extractor ports.FeatureExtractor, queueSize int) *Pool {
	if queueSize < 1 {
		queueSize = 1
	}
	return &Pool{
		repo:      repo,
		resolver:  resolver,
		extractor: extractor,
		jobs:      make(chan Job, queueSize),
	}
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
			for job := range p.jobs {
				p.processJob(job)
			}
		}()
	}
}

// Stop waits for workers to finish after closing the queue.
func (p *Pool) Stop() {
	close(p.jobs)
	p.wg.Wait()
}

// Submit queues a track for analysis without blocking.
func (p *Pool) Submit(track domain.Track) {
	job := Job{ID: uuid.NewString(), Track: track}
	select {
	case p.jobs <- job:
	default:
		log.Printf("WARN worker: queue full, dropping job for track %s", track.ID)
	}
}

func (p *Pool) processJob(job Job) {
	ctx := context.Background()
	track := job.Track

	stored, err := p.repo.GetByID(ctx, track.ID)
	switch {
	case err == nil:
		if len(stored.Features) > 0 {
			log.Printf("DEBUG worker: job %s: track %s already analyzed", job.ID, track.ID)
			return
		}
	case errors.Is(err, domain.ErrNotFound):
		if err := p.repo.Save(ctx, track); err != nil {
			log.Printf("WARN worker: job %s: failed to save track %s: %v", job.ID, track.ID, err)
			return
		}
	default:
		log.Printf("WARN worker: job %s: lookup for track %s failed: %v", job.ID, track.ID, err)
		return
	}

	path, err := p.resolver.ResolvePreview(ctx, track.Title, track.Artist, track.ID)
	if err != nil {
		log.Printf("DEBUG worker: job %s: no preview for track %s: %v", job.ID, track.ID, err)
		return
	}

	features, err := p.extractor.Extract(path)
	if err != nil {
		log.Printf("WARN worker: job %s: extraction failed for track %s: %v", job.ID, track.ID, err)
		return
	}

	if err := p.repo.UpdateTrackFeatures(ctx, track.ID, features); err != nil {
		log.Printf("WARN worker: job %s: failed to persist features for track %s: %v", job.ID, track.ID, err)
		return
	}
	log.Printf("DEBUG worker: job %s: analyzed track %s", job.ID, track.ID)
}
