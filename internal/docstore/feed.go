package docstore

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/luckyfood/stockpilot/pkg/logger"
)

// ChangeFeed propagates "path changed" signals to every hub that should
// re-deliver snapshots. Feed failures never fail the originating write.
type ChangeFeed interface {
	Publish(ctx context.Context, path string)
}

// LocalFeed invalidates an in-process hub directly. Used when no redis is
// configured, or as the delivery end of the redis feed.
type LocalFeed struct {
	hub *Hub
}

func NewLocalFeed(hub *Hub) *LocalFeed {
	return &LocalFeed{hub: hub}
}

func (f *LocalFeed) Publish(_ context.Context, path string) {
	f.hub.Invalidate(path)
}

const changeChannel = "stockpilot:docstore:changed"

// RedisFeed broadcasts changed paths over redis pub/sub so every replica's
// hub pushes fresh snapshots, and invalidates the local hub directly so a
// single instance does not depend on the redis round-trip.
type RedisFeed struct {
	client *redis.Client
	hub    *Hub
}

func NewRedisFeed(client *redis.Client, hub *Hub) *RedisFeed {
	return &RedisFeed{client: client, hub: hub}
}

func (f *RedisFeed) Publish(ctx context.Context, path string) {
	f.hub.Invalidate(path)

	if err := f.client.Publish(ctx, changeChannel, path).Err(); err != nil {
		logger.Logger.Error().
			Err(err).
			Str("path", path).
			Msg("Failed to publish change notification")
	}
}

// Start consumes remote change notifications until ctx is done.
func (f *RedisFeed) Start(ctx context.Context) {
	pubsub := f.client.Subscribe(ctx, changeChannel)

	go func() {
		defer pubsub.Close()
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				f.hub.Invalidate(msg.Payload)
			}
		}
	}()

	logger.Logger.Info().
		Str("channel", changeChannel).
		Msg("Docstore change feed started")
}

// NotifyingStore decorates a Store so every successful write announces the
// touched path on the change feed.
type NotifyingStore struct {
	Store
	feed ChangeFeed
}

func NewNotifyingStore(store Store, feed ChangeFeed) *NotifyingStore {
	return &NotifyingStore{Store: store, feed: feed}
}

func (s *NotifyingStore) Create(ctx context.Context, path string, fields map[string]any) (string, error) {
	id, err := s.Store.Create(ctx, path, fields)
	if err == nil {
		s.feed.Publish(ctx, path)
	}
	return id, err
}

func (s *NotifyingStore) BatchCreate(ctx context.Context, path string, docs []map[string]any) error {
	err := s.Store.BatchCreate(ctx, path, docs)
	if err == nil {
		s.feed.Publish(ctx, path)
	}
	return err
}

func (s *NotifyingStore) Update(ctx context.Context, path, docID string, fields map[string]any) error {
	err := s.Store.Update(ctx, path, docID, fields)
	if err == nil {
		s.feed.Publish(ctx, path)
	}
	return err
}

func (s *NotifyingStore) BatchUpdate(ctx context.Context, path string, updates []DocumentUpdate) error {
	err := s.Store.BatchUpdate(ctx, path, updates)
	if err == nil {
		s.feed.Publish(ctx, path)
	}
	return err
}

func (s *NotifyingStore) Increment(ctx context.Context, path, docID, field string, delta int) error {
	err := s.Store.Increment(ctx, path, docID, field, delta)
	if err == nil {
		s.feed.Publish(ctx, path)
	}
	return err
}

func (s *NotifyingStore) Delete(ctx context.Context, path, docID string) error {
	err := s.Store.Delete(ctx, path, docID)
	if err == nil {
		s.feed.Publish(ctx, path)
	}
	return err
}
