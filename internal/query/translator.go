package query

import (
	"strings"
)

// Keyword sets for explicit query verbs. Matching is substring based, not
// grammar based; trailing spaces on short verbs keep "counter" or "totally"
// from triggering.
var (
	countKeywords  = []string{"how many", "count ", "total ", "total number", "number of"}
	findKeywords   = []string{"show ", "show me", "find ", "list ", "get me", "get all", "retrieve", "display"}
	statsKeywords  = []string{"statistics", "stats", "breakdown", "summary"}
	schemaKeywords = []string{"fields", "columns", "available", "schema"}
)

// collectionRule maps alias substrings to a canonical collection. Rules are
// evaluated in declared order and the first alias hit wins.
type collectionRule struct {
	collection string
	aliases    []string
}

var collectionRules = []collectionRule{
	{CollectionCandidates, []string{"candidate", "applicant"}},
	{CollectionEmployees, []string{"employee", "staff", "team member"}},
	{CollectionSubmissions, []string{"onboarding", "new joiner"}},
	{CollectionUsers, []string{"users", "accounts"}},
}

// Status and department terms that, together with a collection alias, make a
// verbless message an implicit find query.
var (
	implicitStatusKeywords = []string{
		"active", "inactive", "accepted", "rejected", "pending", "in progress",
		"completed", "under review", "interview", "offer",
	}
	implicitDepartmentKeywords = []string{
		"engineering", "sales", "hr", "marketing", "finance", "operations",
	}
)

// statusMapping pairs a message term with its canonical filter value. The
// slice order is the precedence rule: longer, more specific phrases are
// declared before the bare words they contain, and the first match wins.
type statusMapping struct {
	term  string
	value string
}

// Candidate offer statuses are stored upper-case.
var candidateStatusMappings = []statusMapping{
	{"accepted offer", "ACCEPTED"},
	{"offer accepted", "ACCEPTED"},
	{"accepted", "ACCEPTED"},
	{"rejected offer", "REJECTED"},
	{"rejected", "REJECTED"},
	{"reject", "REJECTED"},
	{"pending offer", "PENDING"},
	{"pending", "PENDING"},
	{"under review", "UNDER_REVIEW"},
	{"in review", "UNDER_REVIEW"},
}

// Other collections use title-case status strings.
var generalStatusMappings = []statusMapping{
	{"under review", "Under Review"},
	{"in review", "Under Review"},
	{"in progress", "In Progress"},
	{"accepted", "Accepted"},
	{"rejected", "Rejected"},
	{"pending", "Pending"},
	{"completed", "Completed"},
	{"inactive", "Inactive"},
	{"active", "Active"},
}

var departmentMappings = []statusMapping{
	{"engineering", "Engineering"},
	{"engineer", "Engineering"},
	{"human resources", "HR"},
	{"hr", "HR"},
	{"sales", "Sales"},
	{"marketing", "Marketing"},
	{"finance", "Finance"},
	{"operations", "Operations"},
}

// Translator classifies free text into query intents. It holds no state;
// all rule tables are fixed at compile time so precedence is auditable.
type Translator struct{}

// NewTranslator creates a new translator
func NewTranslator() *Translator {
	return &Translator{}
}

// Translate returns the recognized intent, or nil when the message is not a
// data query. A verb without a resolvable collection also returns nil: the
// translator never guesses a collection.
func (t *Translator) Translate(text string) *Intent {
	message := strings.ToLower(strings.TrimSpace(text))
	if message == "" {
		return nil
	}

	isCount := containsAny(message, countKeywords)
	isFind := containsAny(message, findKeywords)
	isStats := containsAny(message, statsKeywords)
	isSchema := containsAny(message, schemaKeywords)

	collection, hasCollection := detectCollection(message)

	hasStatus := containsAny(message, implicitStatusKeywords)
	hasDepartment := containsAny(message, implicitDepartmentKeywords)
	isImplicit := (hasStatus || hasDepartment) && hasCollection

	if !isCount && !isFind && !isStats && !isSchema && !isImplicit {
		return nil
	}

	// Schema needs no collection; it returns the allow-list itself.
	if isSchema {
		return &Intent{Type: OpSchema, Filters: map[string]string{}}
	}

	if !hasCollection {
		return nil
	}

	if isStats {
		return &Intent{Type: OpStats, Collection: collection, Filters: map[string]string{}}
	}

	filters := extractFilters(message, collection)

	// Count outranks find when both trigger sets match.
	if isCount {
		return &Intent{Type: OpCount, Collection: collection, Filters: filters}
	}

	return &Intent{Type: OpFind, Collection: collection, Filters: filters}
}

func detectCollection(message string) (string, bool) {
	for _, rule := range collectionRules {
		for _, alias := range rule.aliases {
			if strings.Contains(message, alias) {
				return rule.collection, true
			}
		}
	}
	return "", false
}

// extractFilters pulls at most one status and one department filter from the
// message. Candidates filter on offerStatus; the department filter only
// applies to Employees.
func extractFilters(message, collection string) map[string]string {
	filters := map[string]string{}

	if collection == CollectionCandidates {
		for _, m := range candidateStatusMappings {
			if strings.Contains(message, m.term) {
				filters[FilterOfferStatus] = m.value
				break
			}
		}
	} else {
		for _, m := range generalStatusMappings {
			if strings.Contains(message, m.term) {
				filters[FilterStatus] = m.value
				break
			}
		}
	}

	if collection == CollectionEmployees {
		for _, m := range departmentMappings {
			if strings.Contains(message, m.term) {
				filters[FilterDepartment] = m.value
				break
			}
		}
	}

	return filters
}

func containsAny(message string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(message, kw) {
			return true
		}
	}
	return false
}
