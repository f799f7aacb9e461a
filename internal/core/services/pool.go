package services

import (
	"sync"
)

// DefaultPoolWorkers is the number of concurrent ingestion workers.
const DefaultPoolWorkers = 2

// Pool is a bounded worker pool for ingestion work. Workers are
// started lazily on first use and never torn down; the pool lives for
// the process lifetime.
type Pool struct {
	size  int
	once  sync.Once
	tasks chan func()
}

// NewPool creates a pool with the given number of workers.
// Sizes below one fall back to DefaultPoolWorkers.
func NewPool(size int) *Pool {
	if size < 1 {
		size = DefaultPoolWorkers
	}
	return &Pool{size: size}
}

// Submit enqueues a task and returns once it is accepted.
// The first submission starts the workers.
func (p *Pool) Submit(task func()) {
	p.once.Do(p.start)
	p.tasks <- task
}

// Run executes all tasks on the pool and blocks until every one has
// finished.
func (p *Pool) Run(tasks []func()) {
	var wg sync.WaitGroup
	wg.Add(len(tasks))
	for _, task := range tasks {
		task := task
		p.Submit(func() {
			defer wg.Done()
			task()
		})
	}
	wg.Wait()
}

func (p *Pool) start() {
	p.tasks = make(chan func())
	for i := 0; i < p.size; i++ {
		go func() {
			for task := range p.tasks {
				task()
			}
		}()
	}
}
