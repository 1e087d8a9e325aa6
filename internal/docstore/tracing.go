package docstore

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("docstore")

// StoreWithTracing wraps a Store so every operation records a span.
type StoreWithTracing struct {
	inner Store
}

func NewStoreWithTracing(inner Store) *StoreWithTracing {
	return &StoreWithTracing{inner: inner}
}

func (s *StoreWithTracing) span(ctx context.Context, name, path string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("docstore.path", path))
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *StoreWithTracing) Create(ctx context.Context, path string, fields map[string]any) (string, error) {
	ctx, span := s.span(ctx, "docstore.Create", path)
	defer span.End()

	id, err := s.inner.Create(ctx, path, fields)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	span.SetAttributes(attribute.String("docstore.doc_id", id))
	return id, nil
}

func (s *StoreWithTracing) BatchCreate(ctx context.Context, path string, docs []map[string]any) error {
	ctx, span := s.span(ctx, "docstore.BatchCreate", path,
		attribute.Int("docstore.batch_size", len(docs)))
	defer span.End()

	if err := s.inner.BatchCreate(ctx, path, docs); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func (s *StoreWithTracing) Update(ctx context.Context, path, docID string, fields map[string]any) error {
	ctx, span := s.span(ctx, "docstore.Update", path,
		attribute.String("docstore.doc_id", docID))
	defer span.End()

	if err := s.inner.Update(ctx, path, docID, fields); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func (s *StoreWithTracing) BatchUpdate(ctx context.Context, path string, updates []DocumentUpdate) error {
	ctx, span := s.span(ctx, "docstore.BatchUpdate", path,
		attribute.Int("docstore.batch_size", len(updates)))
	defer span.End()

	if err := s.inner.BatchUpdate(ctx, path, updates); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func (s *StoreWithTracing) Increment(ctx context.Context, path, docID, field string, delta int) error {
	ctx, span := s.span(ctx, "docstore.Increment", path,
		attribute.String("docstore.doc_id", docID),
		attribute.String("docstore.field", field))
	defer span.End()

	if err := s.inner.Increment(ctx, path, docID, field, delta); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func (s *StoreWithTracing) Delete(ctx context.Context, path, docID string) error {
	ctx, span := s.span(ctx, "docstore.Delete", path,
		attribute.String("docstore.doc_id", docID))
	defer span.End()

	if err := s.inner.Delete(ctx, path, docID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func (s *StoreWithTracing) Query(ctx context.Context, path, field, value string) ([]Document, error) {
	ctx, span := s.span(ctx, "docstore.Query", path,
		attribute.String("docstore.field", field))
	defer span.End()

	docs, err := s.inner.Query(ctx, path, field, value)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("docstore.result_count", len(docs)))
	return docs, nil
}

func (s *StoreWithTracing) List(ctx context.Context, path string) ([]Document, error) {
	ctx, span := s.span(ctx, "docstore.List", path)
	defer span.End()

	docs, err := s.inner.List(ctx, path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("docstore.result_count", len(docs)))
	return docs, nil
}
