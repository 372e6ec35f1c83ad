package services

import (
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/winwire/hr-onboarding-backend/internal/database"
	"github.com/winwire/hr-onboarding-backend/internal/query"
	"github.com/winwire/hr-onboarding-backend/internal/utils"
)

// AuditService persists the guarded-query audit trail. Writes are best
// effort: an audit insert failure is logged, never surfaced to the query
// that triggered it.
type AuditService struct {
	db     database.DB
	logger *logrus.Logger
}

// NewAuditService creates a new audit service
func NewAuditService(db database.DB, logger *logrus.Logger) *AuditService {
	return &AuditService{
		db:     db,
		logger: logger,
	}
}

// LogQuery records one guarded query invocation in query_audit_logs
func (s *AuditService) LogQuery(actor query.Actor, queryType, collection string, filters map[string]string) {
	payload, err := json.Marshal(filters)
	if err != nil {
		payload = []byte("{}")
	}

	device := utils.ParseUserAgent(actor.UserAgent)

	insertQuery := `
		INSERT INTO query_audit_logs (user_id, operation, collection, filters, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err = s.db.Exec(insertQuery, actor.ID, queryType, collection, payload, actor.IP, actor.UserAgent)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"user_id":    actor.ID,
			"operation":  queryType,
			"collection": collection,
			"error":      err,
		}).Error("Failed to write query audit log")
		return
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":    actor.ID,
		"operation":  queryType,
		"collection": collection,
		"device":     device.DeviceType,
		"browser":    device.Browser,
	}).Debug("Query audit log written")
}

// RecentQueries returns the latest audit entries for review
func (s *AuditService) RecentQueries(limit int) ([]map[string]interface{}, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	selectQuery := `
		SELECT user_id, operation, collection, filters, ip_address, created_at
		FROM query_audit_logs
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := s.db.Queryx(selectQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read audit log: %w", err)
	}
	defer rows.Close()

	entries := []map[string]interface{}{}
	for rows.Next() {
		row := map[string]interface{}{}
		if err := rows.MapScan(row); err != nil {
			return nil, fmt.Errorf("failed to scan audit row: %w", err)
		}
		entries = append(entries, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read audit rows: %w", err)
	}

	return entries, nil
}
