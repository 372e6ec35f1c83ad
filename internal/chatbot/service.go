package chatbot

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/winwire/hr-onboarding-backend/internal/models"
	"github.com/winwire/hr-onboarding-backend/internal/query"
)

// ErrEmptyMessage indicates a chat request with no content
var ErrEmptyMessage = errors.New("message cannot be empty")

// Reply sources, reported so clients can render database answers differently
const (
	SourceDatabase = "database"
	SourceCompany  = "company"
	SourceFallback = "fallback"
)

const fallbackAnswer = "I can only help with company information such as services, benefits, " +
	"culture, offices and onboarding. For anything else please contact the HR team."

// QueryRunner is the guarded query layer the chatbot hands HR data questions
// to. Only structured intents ever reach the database; the chatbot itself
// never builds queries from free text.
type QueryRunner interface {
	TranslateAndExecute(text string, actor query.Actor) (*query.Result, error)
}

// Reply is one chatbot answer
type Reply struct {
	Answer string        `json:"answer"`
	Source string        `json:"source"`
	Query  *query.Result `json:"query,omitempty"`
}

// Service answers chat messages. HR messages are offered to the query
// translator first; everything else is answered from the injected company
// info document. An optional LLM only ever rephrases an answer already found.
type Service struct {
	queries QueryRunner
	info    *CompanyInfo
	llm     *LLMClient
	logger  *logrus.Logger
}

// NewService creates a new chatbot service
func NewService(queries QueryRunner, info *CompanyInfo, llm *LLMClient, logger *logrus.Logger) *Service {
	return &Service{
		queries: queries,
		info:    info,
		llm:     llm,
		logger:  logger,
	}
}

// Message answers one chat message for the given user role
func (s *Service) Message(text, role string, actor query.Actor) (*Reply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	if role == models.RoleHR {
		result, err := s.queries.TranslateAndExecute(text, actor)
		if err != nil {
			// A recognized query that failed must not leak into the
			// company-info path; tell HR it did not work.
			s.logger.WithFields(logrus.Fields{
				"user_id": actor.ID,
				"error":   err,
			}).Warn("HR data query failed")
			return &Reply{
				Answer: "I could not run that data query. Try one of the query templates instead.",
				Source: SourceDatabase,
			}, nil
		}
		if result != nil {
			return &Reply{
				Answer: formatResult(result),
				Source: SourceDatabase,
				Query:  result,
			}, nil
		}
	}

	answer, matched := s.answerFromInfo(text)
	if !matched {
		return &Reply{Answer: fallbackAnswer, Source: SourceFallback}, nil
	}

	if s.llm != nil && s.llm.Enabled() {
		rephrased, err := s.llm.Rephrase(text, answer)
		if err != nil {
			s.logger.WithField("error", err).Warn("LLM rephrase failed, returning raw answer")
		} else {
			answer = rephrased
		}
	}

	return &Reply{Answer: answer, Source: SourceCompany}, nil
}

// answerFromInfo matches the message against the company info document.
// FAQ entries are scored by word overlap; topical keywords select a section
// summary when no FAQ fits.
func (s *Service) answerFromInfo(text string) (string, bool) {
	lower := strings.ToLower(text)

	if answer, ok := s.bestFAQ(lower); ok {
		return answer, true
	}

	switch {
	case containsAny(lower, "benefit", "insurance", "mediclaim", "leave policy", "perks"):
		return s.benefitsSummary(), true
	case containsAny(lower, "office", "location", "headquarter", "where are you"):
		return s.officesSummary(), true
	case containsAny(lower, "service", "what does", "what do you do", "offerings"):
		return s.servicesSummary(), true
	case containsAny(lower, "department", "team"):
		return s.departmentsSummary(), true
	case containsAny(lower, "culture", "values", "environment", "diversity"):
		return s.cultureSummary(), true
	case containsAny(lower, "onboarding", "induction", "first week", "new joiner"):
		return s.onboardingSummary(), true
	case containsAny(lower, "contact", "email", "reach", "helpdesk"):
		return s.contactsSummary(), true
	case containsAny(lower, "about", "company", "mission", "vision", "who are"):
		return s.companySummary(), true
	}

	return "", false
}

// bestFAQ returns the FAQ answer with the highest word overlap, requiring at
// least two matching words so arbitrary messages do not hit a random FAQ.
func (s *Service) bestFAQ(lower string) (string, bool) {
	words := significantWords(lower)
	if len(words) == 0 {
		return "", false
	}

	bestScore := 0
	bestAnswer := ""
	for _, faq := range s.info.FAQs {
		question := strings.ToLower(faq.Question)
		score := 0
		for word := range words {
			if strings.Contains(question, word) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			bestAnswer = faq.Answer
		}
	}

	if bestScore < 2 {
		return "", false
	}
	return bestAnswer, true
}

func (s *Service) companySummary() string {
	c := s.info.Company
	return fmt.Sprintf("%s - %s. %s Founded in %s, headquartered in %s. Website: %s",
		c.Name, c.Tagline, c.Mission, c.Founded, c.Headquarters, c.Website)
}

func (s *Service) servicesSummary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s offers:\n", s.info.Company.Name)
	for _, svc := range s.info.Services {
		fmt.Fprintf(&b, "- %s: %s\n", svc.Name, svc.Description)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (s *Service) departmentsSummary() string {
	var b strings.Builder
	b.WriteString("Our departments:\n")
	for _, dept := range s.info.Departments {
		fmt.Fprintf(&b, "- %s (%s): %s\n", dept.Name, dept.Headcount, dept.Description)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (s *Service) benefitsSummary() string {
	var b strings.Builder
	b.WriteString("Employee benefits:\n")
	for _, cat := range s.info.Benefits {
		fmt.Fprintf(&b, "- %s: %s\n", cat.Category, strings.Join(cat.Items, "; "))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (s *Service) cultureSummary() string {
	c := s.info.Culture
	return fmt.Sprintf("Our values: %s. %s", strings.Join(c.Values, ", "), c.WorkEnvironment)
}

func (s *Service) onboardingSummary() string {
	o := s.info.Onboarding
	var b strings.Builder
	fmt.Fprintf(&b, "Onboarding runs %s.\n", o.Duration)
	fmt.Fprintf(&b, "First week: %s.\n", strings.Join(o.FirstWeek, "; "))
	fmt.Fprintf(&b, "First month: %s.\n", strings.Join(o.FirstMonth, "; "))
	b.WriteString(o.Completion)
	return b.String()
}

func (s *Service) officesSummary() string {
	var b strings.Builder
	b.WriteString("Our offices:\n")
	for _, office := range s.info.Offices {
		fmt.Fprintf(&b, "- %s: %s\n", office.Location, office.Role)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (s *Service) contactsSummary() string {
	var b strings.Builder
	b.WriteString("You can reach us at:\n")
	for _, contact := range s.info.Contacts {
		fmt.Fprintf(&b, "- %s: %s (%s)\n", contact.Purpose, contact.Email, contact.Message)
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatResult renders a guarded query result as chat text
func formatResult(result *query.Result) string {
	switch result.Type {
	case query.OpCount:
		return fmt.Sprintf("Found %d %s%s.", result.Count,
			strings.ToLower(result.Collection), filterSuffix(result.Filters))
	case query.OpFind:
		return formatFindResult(result)
	case query.OpStats:
		return formatStatsResult(result)
	case query.OpSchema:
		return formatSchemaResult(result)
	default:
		return "Query executed."
	}
}

func formatFindResult(result *query.Result) string {
	find := result.Find
	if find == nil || find.Count == 0 {
		return fmt.Sprintf("No %s found%s.",
			strings.ToLower(result.Collection), filterSuffix(result.Filters))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d %s%s:\n", find.Count,
		strings.ToLower(result.Collection), filterSuffix(result.Filters))
	for i, row := range find.Data {
		fmt.Fprintf(&b, "%d. %s\n", i+1, formatRow(row))
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatStatsResult(result *query.Result) string {
	stats := result.Stats
	if stats == nil {
		return "No statistics available."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Statistics for %s (total %d):\n", result.Collection, stats.Total)
	writeGroups := func(label string, groups []query.GroupCount) {
		if len(groups) == 0 {
			return
		}
		fmt.Fprintf(&b, "%s:\n", label)
		for _, group := range groups {
			fmt.Fprintf(&b, "- %s: %d\n", group.Value, group.Count)
		}
	}
	writeGroups("By offer status", stats.ByOfferStatus)
	writeGroups("By status", stats.ByStatus)
	writeGroups("By department", stats.ByDepartment)
	return strings.TrimRight(b.String(), "\n")
}

func formatSchemaResult(result *query.Result) string {
	var b strings.Builder
	b.WriteString("Available collections:\n")

	names := make([]string, 0, len(result.Schema))
	for name := range result.Schema {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		entry := result.Schema[name]
		fmt.Fprintf(&b, "- %s: %s (fields: %s)\n",
			name, entry.Description, strings.Join(entry.AvailableFields, ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatRow(row map[string]interface{}) string {
	// Prefer the identifying fields in a stable order
	preferred := []string{"fullName", "email", "position", "department", "offerStatus", "status", "employeeId", "role"}

	parts := []string{}
	seen := map[string]bool{}
	for _, key := range preferred {
		if value, ok := row[key]; ok {
			parts = append(parts, fmt.Sprintf("%v", value))
			seen[key] = true
		}
	}

	rest := []string{}
	for key, value := range row {
		if !seen[key] {
			rest = append(rest, fmt.Sprintf("%s=%v", key, value))
		}
	}
	sort.Strings(rest)
	parts = append(parts, rest...)

	return strings.Join(parts, " | ")
}

func filterSuffix(filters map[string]string) string {
	if len(filters) == 0 {
		return ""
	}
	parts := make([]string, 0, len(filters))
	for key, value := range filters {
		parts = append(parts, fmt.Sprintf("%s %s", key, value))
	}
	sort.Strings(parts)
	return " with " + strings.Join(parts, ", ")
}

// significantWords extracts the content-bearing words of a message
func significantWords(lower string) map[string]bool {
	stopwords := map[string]bool{
		"the": true, "a": true, "an": true, "is": true, "are": true, "what": true,
		"how": true, "do": true, "does": true, "i": true, "my": true, "me": true,
		"can": true, "you": true, "at": true, "in": true, "of": true, "for": true,
		"to": true, "and": true, "or": true, "we": true, "our": true, "about": true,
	}

	words := map[string]bool{}
	for _, word := range strings.FieldsFunc(lower, func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	}) {
		if len(word) > 2 && !stopwords[word] {
			words[word] = true
		}
	}
	return words
}

func containsAny(text string, keywords ...string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
