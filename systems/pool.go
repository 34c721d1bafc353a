package systems

import (
	"runtime"
	"sync"
)

// ParallelThreshold is the minimum body count to use the worker pool.
// Below this, single-threaded is faster due to goroutine overhead.
const ParallelThreshold = 64

// workChunk represents a range of bodies for a worker to process.
type workChunk struct {
	start, end int
}

// WorkerPool runs a chunked function over [0, n) with persistent workers.
// Run must only be called from one goroutine at a time.
type WorkerPool struct {
	numWorkers int
	fn         func(start, end int)

	workChan chan workChunk
	doneChan chan struct{}
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
}

// NewWorkerPool creates a pool with the given worker count (0 = GOMAXPROCS).
// Workers are started lazily on the first parallel Run.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &WorkerPool{numWorkers: workers}
}

// Workers returns the configured worker count.
func (p *WorkerPool) Workers() int {
	return p.numWorkers
}

func (p *WorkerPool) start() {
	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *WorkerPool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			p.fn(chunk.start, chunk.end)
			p.doneChan <- struct{}{}
		}
	}
}

// Run calls fn over [0, n) split into contiguous chunks, one per worker, and
// returns when every chunk is done. Small n runs inline.
func (p *WorkerPool) Run(n int, fn func(start, end int)) {
	if n == 0 {
		return
	}
	if n < ParallelThreshold || p.numWorkers == 1 {
		fn(0, n)
		return
	}
	if !p.running {
		p.start()
	}

	p.fn = fn
	chunkSize := (n + p.numWorkers - 1) / p.numWorkers
	dispatched := 0
	for w := 0; w < p.numWorkers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			continue
		}
		p.workChan <- workChunk{start: start, end: end}
		dispatched++
	}
	for i := 0; i < dispatched; i++ {
		<-p.doneChan
	}
	p.fn = nil
}

// Stop signals all workers to exit and waits for them.
func (p *WorkerPool) Stop() {
	if !p.running {
		return
	}
	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}
