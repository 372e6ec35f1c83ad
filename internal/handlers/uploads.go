package handlers

import (
	"fmt"
	"io"
	"mime/multipart"

	"github.com/winwire/hr-onboarding-backend/internal/models"
)

// maxDocumentSize caps a single uploaded file at 10 MB
const maxDocumentSize = 10 << 20

// readUpload loads one multipart file into memory for storage
func readUpload(field string, fh *multipart.FileHeader) (*models.DocumentUpload, error) {
	if fh.Size > maxDocumentSize {
		return nil, fmt.Errorf("file %s exceeds the 10 MB limit", fh.Filename)
	}

	file, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file %s: %w", fh.Filename, err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file %s: %w", fh.Filename, err)
	}
	if len(data) > maxDocumentSize {
		return nil, fmt.Errorf("file %s exceeds the 10 MB limit", fh.Filename)
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return &models.DocumentUpload{
		Field:       field,
		Filename:    fh.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}

// collectUploads reads every file of a multipart form keyed by its field name
func collectUploads(form *multipart.Form) ([]models.DocumentUpload, error) {
	var docs []models.DocumentUpload
	for field, headers := range form.File {
		for _, fh := range headers {
			doc, err := readUpload(field, fh)
			if err != nil {
				return nil, err
			}
			docs = append(docs, *doc)
		}
	}
	return docs, nil
}
