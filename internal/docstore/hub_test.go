package docstore

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLoader serves canned snapshots per path and can be flipped into a
// failing state.
type fakeLoader struct {
	mu   sync.Mutex
	docs map[string][]Document
	err  error
}

func newFakeLoader() *fakeLoader {
	return &fakeLoader{docs: make(map[string][]Document)}
}

func (f *fakeLoader) set(path string, docs []Document) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[path] = docs
}

func (f *fakeLoader) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeLoader) load(_ context.Context, path string) ([]Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.docs[path], nil
}

func collect() (func([]Document), chan []Document) {
	ch := make(chan []Document, 16)
	return func(docs []Document) { ch <- docs }, ch
}

func waitSnapshot(t *testing.T, ch chan []Document) []Document {
	t.Helper()
	select {
	case snapshot := <-ch:
		return snapshot
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot delivery")
		return nil
	}
}

func TestSubscribeDeliversInitialSnapshot(t *testing.T) {
	loader := newFakeLoader()
	loader.set("companies/acme/products", []Document{
		{ID: "p1", Data: map[string]any{"name": "Frozen Peas"}},
	})
	hub := NewHub(loader.load)

	onUpdate, ch := collect()
	cancel := hub.Subscribe("companies/acme/products", onUpdate)
	defer cancel()

	snapshot := waitSnapshot(t, ch)
	require.Len(t, snapshot, 1)
	assert.Equal(t, "p1", snapshot[0].ID)
}

func TestInvalidateDeliversFullCurrentList(t *testing.T) {
	loader := newFakeLoader()
	loader.set("companies/acme/inventory", []Document{{ID: "i1", Data: map[string]any{}}})
	hub := NewHub(loader.load)

	onUpdate, ch := collect()
	cancel := hub.Subscribe("companies/acme/inventory", onUpdate)
	defer cancel()

	waitSnapshot(t, ch)

	loader.set("companies/acme/inventory", []Document{
		{ID: "i1", Data: map[string]any{}},
		{ID: "i2", Data: map[string]any{}},
	})
	hub.Invalidate("companies/acme/inventory")

	snapshot := waitSnapshot(t, ch)
	assert.Len(t, snapshot, 2)
}

func TestLoadFailureDeliversEmptyListNotStale(t *testing.T) {
	loader := newFakeLoader()
	loader.set("companies/acme/products", []Document{{ID: "p1", Data: map[string]any{}}})
	hub := NewHub(loader.load)

	onUpdate, ch := collect()
	cancel := hub.Subscribe("companies/acme/products", onUpdate)
	defer cancel()

	require.Len(t, waitSnapshot(t, ch), 1)

	loader.fail(errors.New("connection reset"))
	hub.Invalidate("companies/acme/products")

	snapshot := waitSnapshot(t, ch)
	assert.NotNil(t, snapshot)
	assert.Empty(t, snapshot)
}

func TestCancelStopsDeliveriesAndIsIdempotent(t *testing.T) {
	loader := newFakeLoader()
	loader.set("companies/acme/products", nil)
	hub := NewHub(loader.load)

	onUpdate, ch := collect()
	cancel := hub.Subscribe("companies/acme/products", onUpdate)
	waitSnapshot(t, ch)

	cancel()
	cancel()

	loader.set("companies/acme/products", []Document{{ID: "p1", Data: map[string]any{}}})
	hub.Invalidate("companies/acme/products")

	select {
	case snapshot := <-ch:
		t.Fatalf("unexpected delivery after cancel: %v", snapshot)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSubscriptionsArePerPath(t *testing.T) {
	loader := newFakeLoader()
	loader.set("companies/acme/products", []Document{{ID: "p1", Data: map[string]any{}}})
	loader.set("companies/acme/inventory", []Document{{ID: "i1", Data: map[string]any{}}})
	hub := NewHub(loader.load)

	onProducts, productsCh := collect()
	onInventory, inventoryCh := collect()
	cancelProducts := hub.Subscribe("companies/acme/products", onProducts)
	defer cancelProducts()
	cancelInventory := hub.Subscribe("companies/acme/inventory", onInventory)
	defer cancelInventory()

	assert.Equal(t, "p1", waitSnapshot(t, productsCh)[0].ID)
	assert.Equal(t, "i1", waitSnapshot(t, inventoryCh)[0].ID)

	loader.set("companies/acme/products", []Document{
		{ID: "p1", Data: map[string]any{}},
		{ID: "p2", Data: map[string]any{}},
	})
	hub.Invalidate("companies/acme/products")

	assert.Len(t, waitSnapshot(t, productsCh), 2)
	select {
	case snapshot := <-inventoryCh:
		t.Fatalf("inventory subscriber received products invalidation: %v", snapshot)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestConcurrentInvalidatesKeepSnapshotsOrdered(t *testing.T) {
	const path = "companies/acme/inventory"

	// Versioned loader: every load returns a strictly newer state. The
	// second load (the first racing invalidation) stalls until released,
	// so a slower reload finishes after a faster concurrent one.
	var version int32
	release := make(chan struct{})
	loader := func(_ context.Context, _ string) ([]Document, error) {
		n := atomic.AddInt32(&version, 1)
		if n == 2 {
			<-release
		}
		return []Document{{ID: "i1", Data: map[string]any{"version": int(n)}}}, nil
	}
	hub := NewHub(loader)

	onUpdate, ch := collect()
	cancel := hub.Subscribe(path, onUpdate)
	defer cancel()
	waitSnapshot(t, ch)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); hub.Invalidate(path) }()
	go func() { defer wg.Done(); hub.Invalidate(path) }()

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	last := 1
	for {
		select {
		case snapshot := <-ch:
			require.Len(t, snapshot, 1)
			observed := snapshot[0].Data["version"].(int)
			assert.GreaterOrEqual(t, observed, last,
				"snapshot went backwards: saw version %d after %d", observed, last)
			last = observed
		case <-time.After(300 * time.Millisecond):
			assert.Equal(t, 3, last, "freshest snapshot never delivered")
			return
		}
	}
}

func TestCollectionPath(t *testing.T) {
	assert.Equal(t, "companies/acme/products", CollectionPath("acme", CollectionProducts))
	assert.Equal(t, "companies/acme/inventory", CollectionPath("acme", CollectionInventory))
}
