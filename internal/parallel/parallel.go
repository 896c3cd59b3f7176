// Package parallel splits independent per-item work across goroutines.
//
// The trainer uses it for work whose items never share memory: gradient
// post-processing per layer and optimizer updates per parameter tensor.
// Results do not depend on the split, so a run is reproducible for any
// worker count.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls how For splits work.
type Config struct {
	Workers  int // goroutines to use; 0 or 1 runs inline
	MinChunk int // fewest items handed to one goroutine
}

// Sequential runs every item on the calling goroutine.
func Sequential() Config {
	return Config{Workers: 1, MinChunk: 1}
}

// Auto uses one worker per available CPU.
func Auto() Config {
	return Config{Workers: runtime.GOMAXPROCS(0), MinChunk: 1}
}

// Inline reports whether For runs n items on the calling goroutine.
func (c Config) Inline(n int) bool {
	return c.Workers <= 1 || n < 2*max(c.MinChunk, 1)
}

// For calls f(i) for every i in [0, n) and returns once all calls finished.
func For(n int, cfg Config, f func(i int)) {
	if n <= 0 {
		return
	}
	if cfg.Inline(n) {
		for i := range n {
			f(i)
		}
		return
	}

	chunk := max((n+cfg.Workers-1)/cfg.Workers, cfg.MinChunk, 1)
	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				f(i)
			}
		}()
	}
	wg.Wait()
}
