package query

import (
	"fmt"
)

// Result is the outcome of one guarded query, shaped by its type
type Result struct {
	Type       string                 `json:"type"`
	Collection string                 `json:"collection,omitempty"`
	Count      int                    `json:"count,omitempty"`
	Filters    map[string]string      `json:"filters,omitempty"`
	Find       *FindResult            `json:"find,omitempty"`
	Stats      *StatsResult           `json:"stats,omitempty"`
	Schema     map[string]SchemaEntry `json:"schema,omitempty"`
}

// Service glues the translator to the executor
type Service struct {
	translator *Translator
	executor   *Executor
}

// NewService creates a new query service
func NewService(translator *Translator, executor *Executor) *Service {
	return &Service{
		translator: translator,
		executor:   executor,
	}
}

// Translate exposes intent recognition without execution
func (s *Service) Translate(text string) *Intent {
	return s.translator.Translate(text)
}

// TranslateAndExecute recognizes and runs a data query. A nil result with a
// nil error means the text was not a data query and the caller should fall
// back to conversation.
func (s *Service) TranslateAndExecute(text string, actor Actor) (*Result, error) {
	intent := s.translator.Translate(text)
	if intent == nil {
		return nil, nil
	}
	return s.Execute(intent, actor)
}

// Execute dispatches an intent to the executor
func (s *Service) Execute(intent *Intent, actor Actor) (*Result, error) {
	switch intent.Type {
	case OpSchema:
		return &Result{Type: OpSchema, Schema: s.executor.Schema()}, nil

	case OpStats:
		stats, err := s.executor.Stats(actor, intent.Collection)
		if err != nil {
			return nil, err
		}
		return &Result{Type: OpStats, Collection: intent.Collection, Stats: stats}, nil

	case OpCount:
		count, err := s.executor.Count(actor, intent.Collection, intent.Filters)
		if err != nil {
			return nil, err
		}
		return &Result{
			Type:       OpCount,
			Collection: intent.Collection,
			Count:      count,
			Filters:    intent.Filters,
		}, nil

	case OpFind:
		find, err := s.executor.Find(actor, intent.Collection, intent.Filters, FindOptions{})
		if err != nil {
			return nil, err
		}
		return &Result{
			Type:       OpFind,
			Collection: intent.Collection,
			Count:      find.Count,
			Filters:    intent.Filters,
			Find:       find,
		}, nil

	default:
		return nil, fmt.Errorf("unknown query type %q", intent.Type)
	}
}
