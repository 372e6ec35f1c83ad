package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/winwire/hr-onboarding-backend/internal/models"
)

// DocumentRepository handles stored document operations
type DocumentRepository struct {
	db DB
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db DB) *DocumentRepository {
	return &DocumentRepository{
		db: db,
	}
}

// Insert stores an uploaded file for an owner
func (r *DocumentRepository) Insert(ownerType string, ownerID uuid.UUID, doc models.DocumentUpload) error {
	query := `
		INSERT INTO documents (id, owner_type, owner_id, field, filename, content_type, data, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(query, uuid.New(), ownerType, ownerID, doc.Field, doc.Filename, doc.ContentType, doc.Data, time.Now())
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}

	return nil
}

// Get retrieves a single document with its binary data. For multi-file
// fields the most recent upload is returned.
func (r *DocumentRepository) Get(ownerType string, ownerID uuid.UUID, field string) (*models.Document, error) {
	var doc models.Document

	query := `
		SELECT id, owner_type, owner_id, field, filename, content_type, data, uploaded_at
		FROM documents
		WHERE owner_type = $1 AND owner_id = $2 AND field = $3
		ORDER BY uploaded_at DESC
		LIMIT 1
	`

	err := r.db.Get(&doc, query, ownerType, ownerID, field)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	return &doc, nil
}

// GetByID retrieves a document by its ID, scoped to an owner so a leaked
// document ID cannot be used across submissions.
func (r *DocumentRepository) GetByID(ownerType string, ownerID, docID uuid.UUID) (*models.Document, error) {
	var doc models.Document

	query := `
		SELECT id, owner_type, owner_id, field, filename, content_type, data, uploaded_at
		FROM documents
		WHERE id = $1 AND owner_type = $2 AND owner_id = $3
	`

	err := r.db.Get(&doc, query, docID, ownerType, ownerID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get document by ID: %w", err)
	}

	return &doc, nil
}

// ListMeta returns the metadata of all documents for an owner, without data
func (r *DocumentRepository) ListMeta(ownerType string, ownerID uuid.UUID) ([]models.DocumentMeta, error) {
	metas := []models.DocumentMeta{}

	query := `
		SELECT id, field, filename, content_type, uploaded_at
		FROM documents
		WHERE owner_type = $1 AND owner_id = $2
		ORDER BY uploaded_at ASC
	`

	err := r.db.Select(&metas, query, ownerType, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list document metadata: %w", err)
	}

	return metas, nil
}

// HasField reports whether an owner has at least one document stored for field
func (r *DocumentRepository) HasField(ownerType string, ownerID uuid.UUID, field string) (bool, error) {
	var count int

	query := `
		SELECT COUNT(*) FROM documents
		WHERE owner_type = $1 AND owner_id = $2 AND field = $3
	`

	err := r.db.QueryRow(query, ownerType, ownerID, field).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check document field: %w", err)
	}

	return count > 0, nil
}
