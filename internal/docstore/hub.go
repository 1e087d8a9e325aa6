package docstore

import (
	"context"
	"sync"
	"time"

	"github.com/luckyfood/stockpilot/pkg/logger"
)

// Loader fetches the current full contents of a collection path.
type Loader func(ctx context.Context, path string) ([]Document, error)

// Hub fans live collection snapshots out to subscribers. Every invalidation
// reloads the whole path and delivers the complete document list, never a
// delta. A failed load degrades to an empty snapshot rather than a fault or
// a stale list. Reload and delivery run under a per-path lock, so within
// one subscription every snapshot reflects a state at least as new as the
// previous one even when writes race.
type Hub struct {
	loader Loader

	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]*subscriber
	loads  map[string]*sync.Mutex
}

type subscriber struct {
	queue chan []Document
	done  chan struct{}
	stop  sync.Once
}

// push queues a snapshot, replacing any undelivered one so a slow consumer
// always observes the newest state.
func (s *subscriber) push(snapshot []Document) {
	for {
		select {
		case <-s.done:
			return
		case s.queue <- snapshot:
			return
		default:
		}
		select {
		case <-s.queue:
		default:
		}
	}
}

func NewHub(loader Loader) *Hub {
	return &Hub{
		loader: loader,
		subs:   make(map[string]map[int]*subscriber),
		loads:  make(map[string]*sync.Mutex),
	}
}

// pathLock returns the lock serializing load+deliver cycles for path.
func (h *Hub) pathLock(path string) *sync.Mutex {
	h.mu.Lock()
	defer h.mu.Unlock()
	lock := h.loads[path]
	if lock == nil {
		lock = &sync.Mutex{}
		h.loads[path] = lock
	}
	return lock
}

// Subscribe registers onUpdate for full snapshots of path. The initial
// snapshot is delivered asynchronously; the returned cancel is idempotent
// and stops further deliveries, though one already in flight may still land.
func (h *Hub) Subscribe(path string, onUpdate func([]Document)) (cancel func()) {
	sub := &subscriber{
		queue: make(chan []Document, 1),
		done:  make(chan struct{}),
	}

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	if h.subs[path] == nil {
		h.subs[path] = make(map[int]*subscriber)
	}
	h.subs[path][id] = sub
	h.mu.Unlock()

	go func() {
		for {
			select {
			case <-sub.done:
				return
			case snapshot := <-sub.queue:
				onUpdate(snapshot)
			}
		}
	}()

	go func() {
		lock := h.pathLock(path)
		lock.Lock()
		defer lock.Unlock()
		sub.push(h.load(path))
	}()

	return func() {
		sub.stop.Do(func() {
			close(sub.done)
			h.mu.Lock()
			delete(h.subs[path], id)
			if len(h.subs[path]) == 0 {
				delete(h.subs, path)
			}
			h.mu.Unlock()
		})
	}
}

// Invalidate reloads path and pushes the fresh snapshot to every
// subscriber. Called after local writes and on change-feed messages.
// Holding the path lock across load and push keeps concurrent
// invalidations from queueing a stale snapshot over a fresher one.
func (h *Hub) Invalidate(path string) {
	lock := h.pathLock(path)
	lock.Lock()
	defer lock.Unlock()

	h.mu.Lock()
	if len(h.subs[path]) == 0 {
		h.mu.Unlock()
		return
	}
	targets := make([]*subscriber, 0, len(h.subs[path]))
	for _, sub := range h.subs[path] {
		targets = append(targets, sub)
	}
	h.mu.Unlock()

	snapshot := h.load(path)
	for _, sub := range targets {
		sub.push(snapshot)
	}
}

func (h *Hub) load(path string) []Document {
	ctx, cancelLoad := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelLoad()

	docs, err := h.loader(ctx, path)
	if err != nil {
		logger.Logger.Error().
			Err(err).
			Str("path", path).
			Msg("Failed to load collection snapshot, delivering empty list")
		return []Document{}
	}
	if docs == nil {
		docs = []Document{}
	}
	return docs
}
