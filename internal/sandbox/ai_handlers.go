package sandbox

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/flowboardhq/flowboard/internal/model"
)

// The AI endpoints answer with deterministic suggestions derived from
// the stored cards, so the client surface can be exercised without a
// model behind it.

func (s *Server) registerAIOperations() {
	huma.Register(s.api, huma.Operation{
		OperationID: "aiStatus",
		Method:      http.MethodGet,
		Path:        "/api/ai/status",
		Summary:     "Report whether AI features are enabled",
	}, s.aiStatus)

	huma.Register(s.api, huma.Operation{
		OperationID: "aiCardSuggestions",
		Method:      http.MethodGet,
		Path:        "/api/ai/card/{id}/suggestions",
		Summary:     "Suggest improvements for a card",
		Errors:      []int{http.StatusForbidden, http.StatusNotFound, http.StatusServiceUnavailable},
	}, s.aiCardSuggestions)

	huma.Register(s.api, huma.Operation{
		OperationID: "aiGroomBacklog",
		Method:      http.MethodPost,
		Path:        "/api/ai/backlog/groom",
		Summary:     "Groom a project backlog",
		Errors:      []int{http.StatusBadRequest, http.StatusForbidden, http.StatusServiceUnavailable},
	}, s.aiGroomBacklog)

	huma.Register(s.api, huma.Operation{
		OperationID: "aiSprintGoal",
		Method:      http.MethodPost,
		Path:        "/api/ai/sprint/goal",
		Summary:     "Draft a sprint goal from selected cards",
		Errors:      []int{http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound, http.StatusServiceUnavailable},
	}, s.aiSprintGoal)
}

type aiStatusOutput struct {
	Body struct {
		Enabled bool `json:"enabled"`
	}
}

func (s *Server) aiStatus(_ context.Context, _ *struct{}) (*aiStatusOutput, error) {
	out := &aiStatusOutput{}
	out.Body.Enabled = s.aiEnabled
	return out, nil
}

type cardSuggestions struct {
	ImprovedTitle        string   `json:"improved_title"`
	ImprovedDescription  string   `json:"improved_description"`
	SuggestedStoryPoints int      `json:"suggested_story_points"`
	Subtasks             []string `json:"subtasks"`
	Notes                string   `json:"notes"`
}

type cardSuggestionsOutput struct {
	Body struct {
		Suggestions cardSuggestions `json:"suggestions"`
	}
}

func (s *Server) aiCardSuggestions(ctx context.Context, input *cardPathInput) (*cardSuggestionsOutput, error) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	rec, ok := s.data.cards[input.ID]
	if !ok {
		return nil, errNotFound("Card not found")
	}
	if s.data.cardMembership(rec, userIDFrom(ctx)) == nil {
		return nil, errForbidden()
	}
	if !s.aiEnabled {
		return nil, errUnavailable("AI features not enabled")
	}

	card := rec.card
	suggestions := cardSuggestions{
		ImprovedTitle:        card.Title,
		ImprovedDescription:  card.Description,
		SuggestedStoryPoints: card.StoryPoints,
		Subtasks: []string{
			"Clarify acceptance criteria for " + card.Title,
			"Implement " + card.Title,
			"Verify " + card.Title + " end to end",
		},
	}
	if suggestions.ImprovedDescription == "" {
		suggestions.ImprovedDescription = "Describe the expected outcome, constraints and acceptance criteria for this card."
		suggestions.Notes = "The card has no description; spelling out the goal will make it easier to estimate."
	} else {
		suggestions.Notes = "Consider listing explicit acceptance criteria."
	}
	if suggestions.SuggestedStoryPoints == 0 {
		suggestions.SuggestedStoryPoints = 3
	}

	out := &cardSuggestionsOutput{}
	out.Body.Suggestions = suggestions
	return out, nil
}

type priorityRecommendation struct {
	CardTitle         string `json:"card_title"`
	CurrentPriority   string `json:"current_priority"`
	SuggestedPriority string `json:"suggested_priority"`
	Reason            string `json:"reason"`
}

type splitRecommendation struct {
	CardTitle      string   `json:"card_title"`
	Reason         string   `json:"reason"`
	SuggestedSplit []string `json:"suggested_split"`
}

type combineRecommendation struct {
	Cards  []string `json:"cards"`
	Reason string   `json:"reason"`
}

type backlogGrooming struct {
	PriorityRecommendations []priorityRecommendation `json:"priority_recommendations"`
	SplitRecommendations    []splitRecommendation    `json:"split_recommendations"`
	CombineRecommendations  []combineRecommendation  `json:"combine_recommendations"`
	MissingItems            []string                 `json:"missing_items"`
	HealthScore             int                      `json:"health_score"`
	HealthSummary           string                   `json:"health_summary"`
}

type groomBacklogInput struct {
	Body struct {
		ProjectID string `json:"project_id,omitempty"`
	}
}

type groomBacklogOutput struct {
	Body struct {
		Grooming backlogGrooming `json:"grooming"`
	}
}

func (s *Server) aiGroomBacklog(ctx context.Context, input *groomBacklogInput) (*groomBacklogOutput, error) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	if input.Body.ProjectID == "" {
		return nil, errBadRequest("project_id required")
	}
	if s.data.projectMembership(input.Body.ProjectID, userIDFrom(ctx)) == nil {
		return nil, errForbidden()
	}
	if !s.aiEnabled {
		return nil, errUnavailable("AI features not enabled")
	}

	grooming := backlogGrooming{
		PriorityRecommendations: []priorityRecommendation{},
		SplitRecommendations:    []splitRecommendation{},
		CombineRecommendations:  []combineRecommendation{},
		MissingItems:            []string{},
	}

	issues := 0
	for _, rec := range s.data.projectCards(input.Body.ProjectID) {
		card := rec.card
		if card.Priority == "" {
			grooming.PriorityRecommendations = append(grooming.PriorityRecommendations, priorityRecommendation{
				CardTitle:         card.Title,
				CurrentPriority:   "none",
				SuggestedPriority: string(model.PriorityP2),
				Reason:            "The card has no priority, so it never surfaces in a priority-ordered backlog.",
			})
			issues++
		}
		if card.StoryPoints >= 8 {
			grooming.SplitRecommendations = append(grooming.SplitRecommendations, splitRecommendation{
				CardTitle: card.Title,
				Reason:    fmt.Sprintf("%d story points is too large to finish inside one sprint.", card.StoryPoints),
				SuggestedSplit: []string{
					card.Title + " (part 1)",
					card.Title + " (part 2)",
				},
			})
			issues++
		}
		if card.Description == "" {
			grooming.MissingItems = append(grooming.MissingItems, "Description for "+card.Title)
			issues++
		}
	}

	grooming.HealthScore = 10 - issues
	if grooming.HealthScore < 1 {
		grooming.HealthScore = 1
	}
	switch {
	case issues == 0:
		grooming.HealthSummary = "The backlog is well groomed: priorities, estimates and descriptions are in place."
	case issues <= 3:
		grooming.HealthSummary = "The backlog is in reasonable shape with a few cards needing attention."
	default:
		grooming.HealthSummary = "The backlog needs grooming: several cards lack priorities, descriptions or right-sized estimates."
	}

	out := &groomBacklogOutput{}
	out.Body.Grooming = grooming
	return out, nil
}

type sprintGoalInput struct {
	Body struct {
		CardIDs        []string `json:"card_ids,omitempty"`
		ProjectContext string   `json:"project_context,omitempty"`
	}
}

type sprintGoalOutput struct {
	Body struct {
		Goal string `json:"goal"`
	}
}

func (s *Server) aiSprintGoal(ctx context.Context, input *sprintGoalInput) (*sprintGoalOutput, error) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	if len(input.Body.CardIDs) == 0 {
		return nil, errBadRequest("card_ids required")
	}

	var recs []*cardRec
	for _, id := range input.Body.CardIDs {
		if rec, ok := s.data.cards[id]; ok {
			recs = append(recs, rec)
		}
	}
	if len(recs) == 0 {
		return nil, errNotFound("No valid cards found")
	}
	if s.data.cardMembership(recs[0], userIDFrom(ctx)) == nil {
		return nil, errForbidden()
	}
	if !s.aiEnabled {
		return nil, errUnavailable("AI features not enabled")
	}

	titles := make([]string, 0, 3)
	for _, rec := range recs {
		if len(titles) == 3 {
			break
		}
		titles = append(titles, rec.card.Title)
	}
	goal := fmt.Sprintf("Deliver %d cards this sprint, centered on %s.", len(recs), strings.Join(titles, ", "))

	out := &sprintGoalOutput{}
	out.Body.Goal = goal
	return out, nil
}
