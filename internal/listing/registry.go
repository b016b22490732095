package listing

import "sync"

// Registry keeps one Controller per viewer.
type Registry struct {
	fetcher Fetcher

	mu          sync.Mutex
	controllers map[string]*Controller
}

func NewRegistry(fetcher Fetcher) *Registry {
	return &Registry{fetcher: fetcher, controllers: make(map[string]*Controller)}
}

func (r *Registry) Get(viewer string) *Controller {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.controllers[viewer]
	if !ok {
		c = NewController(r.fetcher)
		r.controllers[viewer] = c
	}
	return c
}

func (r *Registry) Drop(viewer string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.controllers, viewer)
}
