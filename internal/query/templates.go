package query

import (
	"fmt"
)

// ErrTemplateNotFound indicates an unknown template ID
var ErrTemplateNotFound = fmt.Errorf("query template not found")

// Template is a canned prompt mapped 1:1 to a translator input. Driving the
// chat UI from these guarantees recognized input.
type Template struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`

	// query stays unexported: clients see what a template does, never the
	// raw text behind it.
	query string
}

var queryTemplates = []Template{
	{
		ID:          "total_candidates",
		Title:       "Total Candidates",
		Description: "Count all candidates in the system",
		query:       "how many total candidates",
	},
	{
		ID:          "accepted_offers",
		Title:       "Accepted Offers",
		Description: "How many candidates accepted their offers",
		query:       "how many candidates with accepted offers",
	},
	{
		ID:          "pending_offers",
		Title:       "Pending Offers",
		Description: "Candidates with pending offers",
		query:       "how many candidates with pending offers",
	},
	{
		ID:          "rejected_offers",
		Title:       "Rejected Offers",
		Description: "Candidates who rejected offers",
		query:       "how many candidates with rejected offers",
	},
	{
		ID:          "all_candidates",
		Title:       "List All Candidates",
		Description: "Show all candidates with their details",
		query:       "show all candidates",
	},
	{
		ID:          "total_employees",
		Title:       "Total Employees",
		Description: "Count all employees",
		query:       "how many total employees",
	},
	{
		ID:          "all_employees",
		Title:       "List All Employees",
		Description: "Show all employees with departments",
		query:       "list all employees",
	},
	{
		ID:          "total_users",
		Title:       "Total User Accounts",
		Description: "Count all user accounts in the system",
		query:       "how many total users",
	},
	{
		ID:          "onboarding_status",
		Title:       "Onboarding Submissions",
		Description: "Check all onboarding submissions and their status",
		query:       "show all onboarding submissions",
	},
	{
		ID:          "candidate_stats",
		Title:       "Candidate Statistics",
		Description: "Get breakdown of candidates by offer status",
		query:       "candidates statistics",
	},
	{
		ID:          "employee_stats",
		Title:       "Employee Statistics",
		Description: "Get breakdown of employees by department",
		query:       "employees statistics",
	},
}

// Templates lists the available canned prompts without their query text
func Templates() []Template {
	templates := make([]Template, len(queryTemplates))
	copy(templates, queryTemplates)
	return templates
}

// IsValidTemplate reports whether a template ID exists
func IsValidTemplate(id string) bool {
	for _, t := range queryTemplates {
		if t.ID == id {
			return true
		}
	}
	return false
}

// ExecuteTemplate runs the canned query behind a template ID
func (s *Service) ExecuteTemplate(id string, actor Actor) (*Result, error) {
	for _, t := range queryTemplates {
		if t.ID == id {
			return s.TranslateAndExecute(t.query, actor)
		}
	}
	return nil, ErrTemplateNotFound
}
