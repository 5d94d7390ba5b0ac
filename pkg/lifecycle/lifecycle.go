// Package lifecycle coordinates concurrent startup and shutdown hooks and
// aggregates subsystem readiness for the server's probes.
package lifecycle

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"sync/atomic"
	"time"
)

// ReadinessChecker reports whether a subsystem is ready to serve traffic.
type ReadinessChecker interface {
	Ready() bool
}

// Coordinator manages startup and shutdown hooks for the application lifecycle.
type Coordinator struct {
	ctx        context.Context
	cancel     context.CancelFunc
	startupWg  sync.WaitGroup
	shutdownWg sync.WaitGroup
	started    atomic.Bool

	checksMu sync.RWMutex
	checks   map[string]ReadinessChecker
}

// New creates a Coordinator with a cancellable context.
func New() *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		ctx:    ctx,
		cancel: cancel,
		checks: make(map[string]ReadinessChecker),
	}
}

// Context returns the coordinator's context, cancelled on shutdown.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// OnStartup registers a function to run concurrently during startup.
func (c *Coordinator) OnStartup(fn func()) {
	c.startupWg.Go(fn)
}

// OnShutdown registers a function to run concurrently during shutdown.
// Shutdown hooks should block on <-c.Context().Done() before executing cleanup.
func (c *Coordinator) OnShutdown(fn func()) {
	c.shutdownWg.Go(fn)
}

// AddCheck registers a named readiness check reported by Status.
// A later registration under the same name replaces the earlier one.
func (c *Coordinator) AddCheck(name string, rc ReadinessChecker) {
	c.checksMu.Lock()
	defer c.checksMu.Unlock()
	c.checks[name] = rc
}

// Ready returns true after all startup hooks have completed.
func (c *Coordinator) Ready() bool {
	return c.started.Load()
}

// Status reports each registered check and whether startup has completed
// with every check passing.
func (c *Coordinator) Status() (bool, map[string]bool) {
	c.checksMu.RLock()
	checks := maps.Clone(c.checks)
	c.checksMu.RUnlock()

	ready := c.Ready()
	status := make(map[string]bool, len(checks))
	for name, rc := range checks {
		ok := rc.Ready()
		status[name] = ok
		ready = ready && ok
	}
	return ready, status
}

// WaitForStartup blocks until all startup hooks have completed and sets the ready flag.
func (c *Coordinator) WaitForStartup() {
	c.startupWg.Wait()
	c.started.Store(true)
}

// Shutdown cancels the context and waits for shutdown hooks to complete
// within the given timeout.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.started.Store(false)
	c.cancel()

	done := make(chan struct{})
	go func() {
		c.shutdownWg.Wait()
		close(done)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
		return nil
	case <-timer.C:
		return fmt.Errorf("shutdown timeout after %v", timeout)
	}
}
