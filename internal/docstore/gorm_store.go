package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// documentRecord is the storage row backing one document. Collections map
// to path prefixes rather than tables so the two collections share one
// schema, the way the original document store lays them out.
type documentRecord struct {
	Path      string    `gorm:"primaryKey;size:255"`
	DocID     string    `gorm:"primaryKey;column:doc_id;size:64"`
	Data      []byte    `gorm:"type:jsonb;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (documentRecord) TableName() string {
	return "documents"
}

// GormStore implements Store on PostgreSQL with jsonb documents.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) AutoMigrate() error {
	return s.db.AutoMigrate(&documentRecord{})
}

func (s *GormStore) Create(ctx context.Context, path string, fields map[string]any) (string, error) {
	data, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("failed to encode document: %w", err)
	}

	record := documentRecord{
		Path:  path,
		DocID: uuid.NewString(),
		Data:  data,
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return "", fmt.Errorf("failed to create document: %w", err)
	}
	return record.DocID, nil
}

func (s *GormStore) BatchCreate(ctx context.Context, path string, docs []map[string]any) error {
	if len(docs) == 0 {
		return nil
	}

	records := make([]documentRecord, 0, len(docs))
	for _, fields := range docs {
		data, err := json.Marshal(fields)
		if err != nil {
			return fmt.Errorf("failed to encode document: %w", err)
		}
		records = append(records, documentRecord{
			Path:  path,
			DocID: uuid.NewString(),
			Data:  data,
		})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&records).Error
	})
	if err != nil {
		return fmt.Errorf("failed to batch create %d documents: %w", len(docs), err)
	}
	return nil
}

func (s *GormStore) Update(ctx context.Context, path, docID string, fields map[string]any) error {
	return s.merge(s.db.WithContext(ctx), path, docID, fields)
}

func (s *GormStore) BatchUpdate(ctx context.Context, path string, updates []DocumentUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, update := range updates {
			if err := s.merge(tx, path, update.ID, update.Fields); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to batch update %d documents: %w", len(updates), err)
	}
	return nil
}

// merge applies a shallow field merge via jsonb concatenation so the patch
// and any derived fields it carries land in a single write.
func (s *GormStore) merge(tx *gorm.DB, path, docID string, fields map[string]any) error {
	patch, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode patch: %w", err)
	}

	result := tx.Model(&documentRecord{}).
		Where("path = ? AND doc_id = ?", path, docID).
		Update("data", gorm.Expr("data || ?::jsonb", string(patch)))
	if result.Error != nil {
		return fmt.Errorf("failed to update document %s: %w", docID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("document %s: %w", docID, ErrNotFound)
	}
	return nil
}

// Increment bumps a counter field inside the database so concurrent
// events never lose updates to a read-modify-write race.
func (s *GormStore) Increment(ctx context.Context, path, docID, field string, delta int) error {
	result := s.db.WithContext(ctx).Model(&documentRecord{}).
		Where("path = ? AND doc_id = ?", path, docID).
		Update("data", gorm.Expr(
			"jsonb_set(data, ARRAY[?], (COALESCE((data->>?)::bigint, 0) + ?)::text::jsonb)",
			field, field, delta))
	if result.Error != nil {
		return fmt.Errorf("failed to increment %s on document %s: %w", field, docID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("document %s: %w", docID, ErrNotFound)
	}
	return nil
}

func (s *GormStore) Delete(ctx context.Context, path, docID string) error {
	err := s.db.WithContext(ctx).
		Where("path = ? AND doc_id = ?", path, docID).
		Delete(&documentRecord{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete document %s: %w", docID, err)
	}
	return nil
}

func (s *GormStore) Query(ctx context.Context, path, field, value string) ([]Document, error) {
	var records []documentRecord
	err := s.db.WithContext(ctx).
		Where("path = ? AND data->>? = ?", path, field, value).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query %s by %s: %w", path, field, err)
	}
	return toDocuments(records)
}

func (s *GormStore) List(ctx context.Context, path string) ([]Document, error) {
	var records []documentRecord
	err := s.db.WithContext(ctx).
		Where("path = ?", path).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", path, err)
	}
	return toDocuments(records)
}

func toDocuments(records []documentRecord) ([]Document, error) {
	docs := make([]Document, 0, len(records))
	for _, record := range records {
		fields := map[string]any{}
		if err := json.Unmarshal(record.Data, &fields); err != nil {
			return nil, fmt.Errorf("failed to decode document %s: %w", record.DocID, err)
		}
		docs = append(docs, Document{ID: record.DocID, Data: fields})
	}
	return docs, nil
}
