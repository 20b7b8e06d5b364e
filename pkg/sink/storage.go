package sink

import (
	"bytes"
	"context"
	"io"

	"github.com/dmitrymomot/errorkit/pkg/report"
	"github.com/dmitrymomot/errorkit/pkg/storage"
)

// StorageSink archives reports as objects keyed by date and event ID.
type StorageSink struct {
	store  storage.Storage
	name   string
	prefix string
}

// NewStorageSink creates a storage sink writing under prefix.
func NewStorageSink(name string, store storage.Storage, prefix string) (*StorageSink, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if store == nil {
		return nil, ErrNilDependency
	}
	return &StorageSink{store: store, name: name, prefix: prefix}, nil
}

func (s *StorageSink) Name() string { return s.name }

func (s *StorageSink) Deliver(ctx context.Context, ev *report.Event, doc Document) error {
	b := doc.Bytes()
	_, err := s.store.Put(ctx, bytes.NewReader(b), int64(len(b)),
		storage.WithPrefix(s.prefix),
		storage.WithName(ev.ID),
		storage.WithTime(ev.Time),
		storage.WithContentType(doc.ContentType()),
	)
	return err
}

// Key returns the object key the report for ev is archived under.
func (s *StorageSink) Key(ev *report.Event) string {
	return storage.Key(s.prefix, ev.ID, ev.Time)
}

// Fetch reads back the archived report for ev.
func (s *StorageSink) Fetch(ctx context.Context, ev *report.Event) ([]byte, error) {
	rc, err := s.store.Get(ctx, s.Key(ev))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return io.ReadAll(rc)
}

// Remove deletes the archived report for ev.
func (s *StorageSink) Remove(ctx context.Context, ev *report.Event) error {
	return s.store.Delete(ctx, s.Key(ev))
}
