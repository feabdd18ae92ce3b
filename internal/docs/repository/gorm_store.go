package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	docsdomain "github.com/smallbiznis/tariffdesk/internal/docs/domain"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// docRecord is the persistence model for a registry entry.
type docRecord struct {
	ID        string         `gorm:"primaryKey;type:varchar(255)"`
	Title     string         `gorm:"type:text;not null"`
	URL       string         `gorm:"type:text;not null;default:''"`
	Tags      datatypes.JSON `gorm:"type:json"`
	UpdatedAt time.Time      `gorm:"not null"`
}

func (docRecord) TableName() string { return "doc_entries" }

// GormStore keeps the registry in a relational table.
type GormStore struct {
	db       *gorm.DB
	readOnly bool
	log      *zap.Logger
}

// NewGormStore migrates the table and seeds it when empty and writable.
func NewGormStore(ctx context.Context, db *gorm.DB, readOnly bool, seed []docsdomain.DocEntry, log *zap.Logger) (*GormStore, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s := &GormStore{db: db, readOnly: readOnly, log: log.Named("docs.gorm_store")}
	if readOnly {
		return s, nil
	}

	if err := db.WithContext(ctx).AutoMigrate(&docRecord{}); err != nil {
		return nil, fmt.Errorf("migrate doc_entries: %w", err)
	}

	var count int64
	if err := db.WithContext(ctx).Model(&docRecord{}).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", docsdomain.ErrStoreUnavailable, err)
	}
	if count == 0 && len(seed) > 0 {
		s.log.Info("seeding doc_entries", zap.Int("entries", len(seed)))
		if err := s.Save(ctx, seed); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *GormStore) Writable() bool { return !s.readOnly }

// Load reads the registry. In read-only mode a missing table reads as empty,
// since the table is never created there.
func (s *GormStore) Load(ctx context.Context) ([]docsdomain.DocEntry, error) {
	if s.readOnly && !s.db.WithContext(ctx).Migrator().HasTable(&docRecord{}) {
		return []docsdomain.DocEntry{}, nil
	}

	var records []docRecord
	if err := s.db.WithContext(ctx).Order("title").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", docsdomain.ErrStoreUnavailable, err)
	}

	docs := make([]docsdomain.DocEntry, 0, len(records))
	for _, rec := range records {
		doc := docsdomain.DocEntry{ID: rec.ID, Title: rec.Title, URL: rec.URL}
		if len(rec.Tags) > 0 {
			if err := json.Unmarshal(rec.Tags, &doc.Tags); err != nil {
				return nil, fmt.Errorf("%w: tags for %s: %v", docsdomain.ErrCorruptStore, rec.ID, err)
			}
		}
		docs = append(docs, doc)
	}
	return sortByTitle(docs), nil
}

// Save replaces the table content in a single transaction.
func (s *GormStore) Save(ctx context.Context, docs []docsdomain.DocEntry) error {
	if s.readOnly {
		return nil
	}

	now := time.Now().UTC()
	records := make([]docRecord, 0, len(docs))
	for _, doc := range docs {
		tags, err := json.Marshal(doc.Tags)
		if err != nil {
			return err
		}
		records = append(records, docRecord{
			ID:        doc.ID,
			Title:     doc.Title,
			URL:       doc.URL,
			Tags:      datatypes.JSON(tags),
			UpdatedAt: now,
		})
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&docRecord{}).Error; err != nil {
			return fmt.Errorf("%w: %v", docsdomain.ErrStoreUnavailable, err)
		}
		if len(records) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(records, 100).Error; err != nil {
			return fmt.Errorf("%w: %v", docsdomain.ErrStoreUnavailable, err)
		}
		return nil
	})
}
