package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Collection names available under an organization.
const (
	CollectionProducts  = "products"
	CollectionInventory = "inventory"
)

// ErrNotFound is returned when a merge targets a document that does not
// exist in its collection.
var ErrNotFound = errors.New("document not found")

// Document is one record in an organization-scoped collection. Data holds
// the stored fields; ID is assigned by the store on creation.
type Document struct {
	ID   string         `json:"id"`
	Data map[string]any `json:"data"`
}

// Decode unmarshals the document fields into a typed value.
func (d Document) Decode(v any) error {
	raw, err := json.Marshal(d.Data)
	if err != nil {
		return fmt.Errorf("failed to encode document fields: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to decode document %s: %w", d.ID, err)
	}
	return nil
}

// Encode converts a typed value into a field map suitable for storage.
func Encode(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode value: %w", err)
	}
	fields := map[string]any{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("failed to decode value into fields: %w", err)
	}
	return fields, nil
}

// DocumentUpdate is one partial-field merge inside a batch.
type DocumentUpdate struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"data"`
}

// CollectionPath composes the tenancy-scoped path for a collection. This is
// the only place the path scheme lives.
func CollectionPath(orgID, collection string) string {
	return fmt.Sprintf("companies/%s/%s", orgID, collection)
}

// Store is the contract against the backing document store. All writes are
// terminal on failure; nothing here retries.
type Store interface {
	// Create stores one document and returns its assigned id.
	Create(ctx context.Context, path string, fields map[string]any) (string, error)
	// BatchCreate stores all documents or none of them.
	BatchCreate(ctx context.Context, path string, docs []map[string]any) error
	// Update merges fields into one document. Missing document is ErrNotFound.
	Update(ctx context.Context, path, docID string, fields map[string]any) error
	// BatchUpdate applies all merges or none of them.
	BatchUpdate(ctx context.Context, path string, updates []DocumentUpdate) error
	// Delete removes one document. Deleting an absent document is not an error.
	Delete(ctx context.Context, path, docID string) error
	// Increment atomically adds delta to a numeric field. A missing field
	// counts as zero; a missing document is ErrNotFound.
	Increment(ctx context.Context, path, docID, field string, delta int) error
	// Query returns the documents whose stored field equals value exactly.
	Query(ctx context.Context, path, field, value string) ([]Document, error)
	// List returns every document in the collection.
	List(ctx context.Context, path string) ([]Document, error)
}
