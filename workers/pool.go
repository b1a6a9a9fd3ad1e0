package workers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/camden-git/familymapbackend/logger"
	"github.com/camden-git/familymapbackend/metrics"
	"github.com/google/uuid"
)

// Job names used as metric labels
const (
	JobFilter = "filter"
	JobSearch = "search"
	JobLines  = "lines"
)

var (
	ErrQueueFull   = errors.New("compute queue full")
	ErrPoolStopped = errors.New("compute pool stopped")
)

type result struct {
	value any
	err   error
}

type computeJob struct {
	ID   string
	Name string
	ctx  context.Context
	run  func(ctx context.Context) (any, error)
	done chan result
}

// Pool runs engine computations on a fixed set of workers fed by a bounded queue
type Pool struct {
	JobQueue chan *computeJob
	Wg       sync.WaitGroup
	StopChan chan struct{}
	log      *logger.Logger

	mu      sync.RWMutex
	stopped bool
}

func NewPool(queueSize, numWorkers int, log *logger.Logger) *Pool {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	if log == nil {
		log = logger.NewNop()
	}
	p := &Pool{
		JobQueue: make(chan *computeJob, queueSize),
		StopChan: make(chan struct{}),
		log:      log,
	}
	p.Wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go p.worker(i)
	}
	log.Info("Started compute workers", "workers", numWorkers, "queue_size", queueSize)
	return p
}

func (p *Pool) worker(id int) {
	defer p.Wg.Done()
	for {
		select {
		case job := <-p.JobQueue:
			p.process(id, job)
		case <-p.StopChan:
			p.log.Debug("Compute worker stopping", "worker", id)
			return
		}
	}
}

func (p *Pool) process(id int, job *computeJob) {
	// the submitter already gave up
	if err := job.ctx.Err(); err != nil {
		job.done <- result{err: err}
		return
	}
	started := time.Now()
	value, err := safeRun(job)
	metrics.ObserveJob(job.Name, started)
	if err != nil && !errors.Is(err, context.Canceled) {
		p.log.Debug("Compute job failed", "worker", id, "job", job.Name, "job_id", job.ID, "error", err)
	}
	job.done <- result{value: value, err: err}
}

func safeRun(job *computeJob) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("compute job %s panicked: %v", job.Name, r)
		}
	}()
	return job.run(job.ctx)
}

// submit queues fn and waits for its result or for ctx to end
func (p *Pool) submit(ctx context.Context, name string, fn func(ctx context.Context) (any, error)) (any, error) {
	job := &computeJob{
		ID:   uuid.NewString(),
		Name: name,
		ctx:  ctx,
		run:  fn,
		done: make(chan result, 1),
	}

	p.mu.RLock()
	if p.stopped {
		p.mu.RUnlock()
		metrics.QueueRejected(name)
		return nil, ErrPoolStopped
	}
	select {
	case p.JobQueue <- job:
		p.mu.RUnlock()
	default:
		p.mu.RUnlock()
		metrics.QueueRejected(name)
		p.log.Warn("Compute queue full, rejecting job", "job", name)
		return nil, ErrQueueFull
	}

	select {
	case r := <-job.done:
		return r.value, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-p.StopChan:
		return nil, ErrPoolStopped
	}
}

// Run executes fn on the pool and returns its typed result
func Run[T any](ctx context.Context, p *Pool, name string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if p == nil {
		return fn(ctx)
	}
	v, err := p.submit(ctx, name, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil {
		return zero, err
	}
	typed, _ := v.(T)
	return typed, nil
}

func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	p.mu.Unlock()

	p.log.Info("Stopping compute workers...")
	close(p.StopChan)
	p.Wg.Wait()
	p.log.Info("All compute workers stopped")
}
