package chatbot

import (
	"encoding/json"
	"fmt"
	"os"
)

// CompanyInfo is the read-only knowledge base the employee chatbot answers
// from. It is loaded once at construction and never mutated; the chatbot has
// no other information source.
type CompanyInfo struct {
	Company     CompanyProfile    `json:"company"`
	Services    []CompanyService  `json:"services"`
	Departments []Department      `json:"departments"`
	Benefits    []BenefitCategory `json:"benefits"`
	Culture     Culture           `json:"culture"`
	Onboarding  OnboardingProgram `json:"onboarding"`
	FAQs        []FAQ             `json:"faqs"`
	Offices     []Office          `json:"offices"`
	Contacts    []ContactChannel  `json:"contacts"`
}

// CompanyProfile holds the basic company facts
type CompanyProfile struct {
	Name           string   `json:"name"`
	Tagline        string   `json:"tagline"`
	Mission        string   `json:"mission"`
	Vision         string   `json:"vision"`
	Founded        string   `json:"founded"`
	Headquarters   string   `json:"headquarters"`
	GlobalPresence []string `json:"global_presence"`
	Website        string   `json:"website"`
}

// CompanyService is one service line the company offers
type CompanyService struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	Offerings    []string `json:"offerings"`
}

// Department is one organizational unit
type Department struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Teams       []string `json:"teams"`
	Headcount   string   `json:"headcount"`
}

// BenefitCategory groups related employee benefits
type BenefitCategory struct {
	Category string   `json:"category"`
	Items    []string `json:"items"`
}

// Culture describes values and working environment
type Culture struct {
	Values          []string `json:"values"`
	WorkEnvironment string   `json:"work_environment"`
	Diversity       string   `json:"diversity"`
}

// OnboardingProgram describes the structured onboarding phases
type OnboardingProgram struct {
	Duration   string   `json:"duration"`
	FirstWeek  []string `json:"first_week"`
	FirstMonth []string `json:"first_month"`
	Completion string   `json:"completion"`
}

// FAQ is one canned question and answer pair
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Office is one company location
type Office struct {
	Location string   `json:"location"`
	Role     string   `json:"role"`
	Teams    []string `json:"teams"`
}

// ContactChannel is one official contact address
type ContactChannel struct {
	Purpose string `json:"purpose"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// LoadCompanyInfo reads the company info document from a JSON file
func LoadCompanyInfo(path string) (*CompanyInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read company info file: %w", err)
	}

	var info CompanyInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to parse company info file: %w", err)
	}
	if info.Company.Name == "" {
		return nil, fmt.Errorf("company info file is missing the company name")
	}

	return &info, nil
}
