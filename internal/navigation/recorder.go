package navigation

import (
	"context"
	"sync"
)

// Recorder is a Navigator that only remembers what it was asked to do. The
// web UI installs one per HTTP request and turns the last command into a
// redirect.
type Recorder struct {
	mu    sync.Mutex
	paths []string
}

func (r *Recorder) Navigate(_ context.Context, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
	return nil
}

// Last returns the most recent navigation target.
func (r *Recorder) Last() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.paths) == 0 {
		return "", false
	}
	return r.paths[len(r.paths)-1], true
}

// Count returns how many navigation commands were issued.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.paths)
}

// Paths returns every recorded target, oldest first.
func (r *Recorder) Paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}
