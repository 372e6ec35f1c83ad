package query

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/winwire/hr-onboarding-backend/internal/database"
)

const (
	// MaxFindLimit caps the number of records a find returns. Oversized
	// requests are clamped, never rejected.
	MaxFindLimit = 100

	// MaxFindSkip caps the offset of a find
	MaxFindSkip = 10000

	// DefaultFindLimit applies when the caller gives no limit
	DefaultFindLimit = 10
)

// Filter keys that must never reach a query. Checked against filter keys
// specifically and fails closed: a forbidden key errors the whole call
// rather than being stripped.
var forbiddenFilterFields = []string{
	"password", "passwordHash", "password_hash",
	"bankAccountNumber", "bankName", "bankIfsc", "ifscCode",
	"aadhaarNumber", "panNumber", "passportNumber",
	"salary", "ssn",
	"acceptToken", "passToken",
}

// fieldSpec maps a logical field name to its column
type fieldSpec struct {
	name   string
	column string
}

// collectionSpec is the complete allow-list entry for one logical collection
type collectionSpec struct {
	table       string
	description string
	fields      []fieldSpec
	// filterColumns maps canonical filter keys to columns. A filter key
	// absent from this map is not queryable for the collection.
	filterColumns map[string]string
	// sortColumns are the fields find may order by
	sortColumns map[string]string
}

var collections = map[string]collectionSpec{
	CollectionCandidates: {
		table:       "candidates",
		description: "Candidate information (name, contact, position, offer status)",
		fields: []fieldSpec{
			{"id", "id"},
			{"fullName", "full_name"},
			{"email", "email"},
			{"phone", "phone"},
			{"position", "position"},
			{"department", "department"},
			{"offerStatus", "offer_status"},
			{"createdAt", "created_at"},
		},
		filterColumns: map[string]string{
			FilterOfferStatus: "offer_status",
		},
		sortColumns: map[string]string{
			"fullName":  "full_name",
			"createdAt": "created_at",
		},
	},
	CollectionEmployees: {
		table:       "employees",
		description: "Employee information (name, department, position, status)",
		fields: []fieldSpec{
			{"id", "id"},
			{"employeeId", "employee_id"},
			{"firstName", "first_name"},
			{"lastName", "last_name"},
			{"fullName", "full_name"},
			{"email", "email"},
			{"phone", "phone"},
			{"department", "department"},
			{"position", "position"},
			{"joiningDate", "joining_date"},
			{"isActive", "is_active"},
			{"createdAt", "created_at"},
		},
		filterColumns: map[string]string{
			FilterStatus:     "is_active",
			FilterDepartment: "department",
		},
		sortColumns: map[string]string{
			"fullName":    "full_name",
			"joiningDate": "joining_date",
			"createdAt":   "created_at",
		},
	},
	CollectionUsers: {
		table:       "users",
		description: "User accounts (email, name, role, status only)",
		fields: []fieldSpec{
			{"id", "id"},
			{"email", "email"},
			{"fullName", "full_name"},
			{"role", "role"},
			{"isActive", "is_active"},
			{"createdAt", "created_at"},
		},
		filterColumns: map[string]string{
			FilterStatus: "is_active",
		},
		sortColumns: map[string]string{
			"createdAt": "created_at",
		},
	},
	CollectionSubmissions: {
		table:       "onboarding_submissions",
		description: "Onboarding status (candidate, progress, dates)",
		fields: []fieldSpec{
			{"id", "id"},
			{"candidateId", "candidate_id"},
			{"fullName", "full_name"},
			{"email", "email"},
			{"department", "department"},
			{"status", "status"},
			{"dateOfJoining", "date_of_joining"},
			{"createdAt", "created_at"},
		},
		filterColumns: map[string]string{
			FilterStatus: "status",
		},
		sortColumns: map[string]string{
			"createdAt": "created_at",
		},
	},
}

// FindOptions control a find's paging and ordering
type FindOptions struct {
	Limit int
	Skip  int
	Sort  string
}

// FindResult carries find records projected onto allow-listed fields
type FindResult struct {
	Collection string                   `json:"collection"`
	Count      int                      `json:"count"`
	Data       []map[string]interface{} `json:"data"`
	Filters    map[string]string        `json:"filters"`
}

// StatsResult carries a collection's total plus its group-by breakdowns
type StatsResult struct {
	Collection    string       `json:"collection"`
	Total         int          `json:"total"`
	ByOfferStatus []GroupCount `json:"by_offer_status,omitempty"`
	ByStatus      []GroupCount `json:"by_status,omitempty"`
	ByDepartment  []GroupCount `json:"by_department,omitempty"`
}

// GroupCount is one bucket of a group-by aggregate
type GroupCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// SchemaEntry describes one collection of the allow-list
type SchemaEntry struct {
	Description     string   `json:"description"`
	AvailableFields []string `json:"available_fields"`
}

// Actor identifies the authenticated caller of a guarded query
type Actor struct {
	ID        uuid.UUID
	IP        string
	UserAgent string
}

// AuditLogger records who ran what against the guarded query path
type AuditLogger interface {
	LogQuery(actor Actor, queryType, collection string, filters map[string]string)
}

// Executor runs the allow-listed query operations. Filter values are always
// bound as parameters; user text never reaches a query string.
type Executor struct {
	db     database.DB
	audit  AuditLogger
	logger *logrus.Logger
}

// NewExecutor creates a new query executor
func NewExecutor(db database.DB, audit AuditLogger, logger *logrus.Logger) *Executor {
	return &Executor{
		db:     db,
		audit:  audit,
		logger: logger,
	}
}

// Count returns the number of records matching the filters
func (e *Executor) Count(actor Actor, collection string, filters map[string]string) (int, error) {
	spec, err := lookupCollection(collection)
	if err != nil {
		return 0, err
	}

	where, args, err := buildWhere(spec, filters)
	if err != nil {
		return 0, err
	}

	e.logAccess(actor, OpCount, collection, filters)

	var count int
	query := `SELECT COUNT(*) FROM ` + spec.table + where
	if err := e.db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", collection, err)
	}

	return count, nil
}

// Find returns matching records projected onto the collection's allow-listed
// fields. Limit and skip are clamped to their maxima, never rejected.
func (e *Executor) Find(actor Actor, collection string, filters map[string]string, opts FindOptions) (*FindResult, error) {
	spec, err := lookupCollection(collection)
	if err != nil {
		return nil, err
	}

	where, args, err := buildWhere(spec, filters)
	if err != nil {
		return nil, err
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultFindLimit
	}
	if limit > MaxFindLimit {
		limit = MaxFindLimit
	}
	skip := opts.Skip
	if skip < 0 {
		skip = 0
	}
	if skip > MaxFindSkip {
		skip = MaxFindSkip
	}

	orderBy := "created_at DESC"
	if opts.Sort != "" {
		column, ok := spec.sortColumns[opts.Sort]
		if !ok {
			return nil, fmt.Errorf("cannot sort %s by %q", collection, opts.Sort)
		}
		orderBy = column + " ASC"
	}

	columns := make([]string, len(spec.fields))
	for i, f := range spec.fields {
		columns[i] = f.column
	}

	e.logAccess(actor, OpFind, collection, filters)

	query := fmt.Sprintf(
		`SELECT %s FROM %s%s ORDER BY %s LIMIT %d OFFSET %d`,
		strings.Join(columns, ", "), spec.table, where, orderBy, limit, skip,
	)

	rows, err := e.db.Queryx(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to find %s: %w", collection, err)
	}
	defer rows.Close()

	data := []map[string]interface{}{}
	for rows.Next() {
		row := map[string]interface{}{}
		if err := rows.MapScan(row); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", collection, err)
		}
		data = append(data, projectRow(spec, row))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s rows: %w", collection, err)
	}

	return &FindResult{
		Collection: collection,
		Count:      len(data),
		Data:       data,
		Filters:    filters,
	}, nil
}

// Stats returns the total and the group-by breakdowns defined for the
// collection: offer status for candidates, department for employees, status
// for onboarding submissions.
func (e *Executor) Stats(actor Actor, collection string) (*StatsResult, error) {
	spec, err := lookupCollection(collection)
	if err != nil {
		return nil, err
	}

	e.logAccess(actor, OpStats, collection, nil)

	result := &StatsResult{Collection: collection}

	if err := e.db.QueryRow(`SELECT COUNT(*) FROM ` + spec.table).Scan(&result.Total); err != nil {
		return nil, fmt.Errorf("failed to count %s: %w", collection, err)
	}

	switch collection {
	case CollectionCandidates:
		groups, err := e.groupBy(spec.table, "offer_status")
		if err != nil {
			return nil, err
		}
		result.ByOfferStatus = groups
	case CollectionEmployees:
		groups, err := e.groupBy(spec.table, "department")
		if err != nil {
			return nil, err
		}
		result.ByDepartment = groups
	case CollectionSubmissions:
		groups, err := e.groupBy(spec.table, "status")
		if err != nil {
			return nil, err
		}
		result.ByStatus = groups
	}

	return result, nil
}

// Schema returns the allow-list itself: the collections and fields the
// guarded path can expose.
func (e *Executor) Schema() map[string]SchemaEntry {
	schema := map[string]SchemaEntry{}
	for name, spec := range collections {
		fields := make([]string, len(spec.fields))
		for i, f := range spec.fields {
			fields[i] = f.name
		}
		schema[name] = SchemaEntry{
			Description:     spec.description,
			AvailableFields: fields,
		}
	}
	return schema
}

func (e *Executor) groupBy(table, column string) ([]GroupCount, error) {
	query := fmt.Sprintf(
		`SELECT COALESCE(%s::text, '') AS value, COUNT(*) AS count FROM %s GROUP BY 1 ORDER BY 1`,
		column, table,
	)

	rows, err := e.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate %s by %s: %w", table, column, err)
	}
	defer rows.Close()

	groups := []GroupCount{}
	for rows.Next() {
		var g GroupCount
		if err := rows.Scan(&g.Value, &g.Count); err != nil {
			return nil, fmt.Errorf("failed to scan aggregate row: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read aggregate rows: %w", err)
	}

	return groups, nil
}

func (e *Executor) logAccess(actor Actor, queryType, collection string, filters map[string]string) {
	e.logger.WithFields(logrus.Fields{
		"actor_id":   actor.ID,
		"query_type": queryType,
		"collection": collection,
		"filters":    filters,
	}).Info("Guarded database query")

	if e.audit != nil {
		e.audit.LogQuery(actor, queryType, collection, filters)
	}
}

func lookupCollection(collection string) (collectionSpec, error) {
	spec, ok := collections[collection]
	if !ok {
		names := make([]string, 0, len(collections))
		for name := range collections {
			names = append(names, name)
		}
		return collectionSpec{}, fmt.Errorf("collection %q not found, available: %s", collection, strings.Join(names, ", "))
	}
	return spec, nil
}

// buildWhere turns canonical filters into a parameterized WHERE clause.
// Forbidden keys and keys outside the collection's filter allow-list both
// error out before any query runs.
func buildWhere(spec collectionSpec, filters map[string]string) (string, []interface{}, error) {
	if len(filters) == 0 {
		return "", nil, nil
	}

	for key := range filters {
		for _, forbidden := range forbiddenFilterFields {
			if key == forbidden {
				return "", nil, fmt.Errorf("cannot filter by sensitive field %q", key)
			}
		}
	}

	clauses := []string{}
	args := []interface{}{}

	// Deterministic clause order
	for _, key := range []string{FilterOfferStatus, FilterStatus, FilterDepartment} {
		value, ok := filters[key]
		if !ok {
			continue
		}
		column, allowed := spec.filterColumns[key]
		if !allowed {
			return "", nil, fmt.Errorf("cannot filter %s by %q", spec.table, key)
		}

		arg := filterArgument(column, value)
		args = append(args, arg)

		if column == "is_active" {
			clauses = append(clauses, fmt.Sprintf("%s = $%d", column, len(args)))
		} else {
			clauses = append(clauses, fmt.Sprintf("%s::text ILIKE $%d", column, len(args)))
		}
	}

	for key := range filters {
		if key != FilterOfferStatus && key != FilterStatus && key != FilterDepartment {
			return "", nil, fmt.Errorf("cannot filter %s by %q", spec.table, key)
		}
	}

	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}

// filterArgument adapts a canonical filter value to the column it targets.
// Active/Inactive map onto boolean activity columns; enum statuses are
// matched case-insensitively with spaces folded to underscores.
func filterArgument(column, value string) interface{} {
	if column == "is_active" {
		return strings.EqualFold(value, "Active")
	}
	return strings.ReplaceAll(value, " ", "_")
}

func projectRow(spec collectionSpec, row map[string]interface{}) map[string]interface{} {
	projected := map[string]interface{}{}
	for _, f := range spec.fields {
		if v, ok := row[f.column]; ok {
			if b, isBytes := v.([]byte); isBytes {
				projected[f.name] = string(b)
			} else {
				projected[f.name] = v
			}
		}
	}
	return projected
}
