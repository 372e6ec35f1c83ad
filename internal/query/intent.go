package query

// Operation kinds the guarded query path can execute. Nothing else ever
// reaches the database from chat input.
const (
	OpCount  = "count"
	OpFind   = "find"
	OpStats  = "stats"
	OpSchema = "schema"
)

// Logical collection names exposed to HR through the chatbot
const (
	CollectionCandidates  = "Candidates"
	CollectionEmployees   = "Employees"
	CollectionUsers       = "Users"
	CollectionSubmissions = "OnboardingSubmissions"
)

// Canonical filter keys produced by the translator
const (
	FilterOfferStatus = "offerStatus"
	FilterStatus      = "status"
	FilterDepartment  = "department"
)

// Intent is a recognized data query. User text never appears in it; the
// translator only emits canonical collection names and filter values.
type Intent struct {
	Type       string            `json:"type"`
	Collection string            `json:"collection"`
	Filters    map[string]string `json:"filters"`
}
