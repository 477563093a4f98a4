package handler

import (
	"net/http"
	"time"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/calc"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// GoalHandler handles savings goal HTTP requests
type GoalHandler struct {
	goalService *service.GoalService
}

// NewGoalHandler creates a new GoalHandler
func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

// CreateGoalRequest represents the create goal request body
type CreateGoalRequest struct {
	Name          string `json:"name"`
	TargetAmount  string `json:"targetAmount"`
	CurrentAmount string `json:"currentAmount,omitempty"`
	Deadline      string `json:"deadline"`
	Category      string `json:"category"`
}

// GoalResponse represents a goal in API responses
type GoalResponse struct {
	ID            int32  `json:"id"`
	Name          string `json:"name"`
	TargetAmount  string `json:"targetAmount"`
	CurrentAmount string `json:"currentAmount"`
	Deadline      string `json:"deadline"`
	Category      string `json:"category"`
	CreatedAt     string `json:"createdAt"`
}

// GoalProgressResponse is a goal with its evaluated progress.
// Progress is unbounded; DisplayProgress is clamped to 100.
type GoalProgressResponse struct {
	Goal            GoalResponse `json:"goal"`
	Progress        string       `json:"progress"`
	DisplayProgress string       `json:"displayProgress"`
	Remaining       string       `json:"remaining"`
	Reached         bool         `json:"reached"`
}

// CreateGoal godoc
// @Summary Create a savings goal
// @Tags goals
// @Accept json
// @Produce json
// @Param request body CreateGoalRequest true "Goal details"
// @Success 201 {object} GoalResponse
// @Failure 400 {object} ProblemDetails
// @Failure 503 {object} ProblemDetails
// @Router /goals [post]
func (h *GoalHandler) CreateGoal(c echo.Context) error {
	var req CreateGoalRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	target, err := calc.ParseAmount(req.TargetAmount)
	if err != nil {
		return fieldError(c, "targetAmount", "Target amount must be a decimal number")
	}

	current := decimal.Zero
	if req.CurrentAmount != "" {
		current, err = calc.ParseAmount(req.CurrentAmount)
		if err != nil {
			return fieldError(c, "currentAmount", "Current amount must be a decimal number")
		}
	}

	var deadline time.Time
	if req.Deadline != "" {
		deadline, err = time.Parse(dateLayout, req.Deadline)
		if err != nil {
			return fieldError(c, "deadline", "Deadline must be in YYYY-MM-DD format")
		}
	}

	goal, err := h.goalService.CreateGoal(c.Request().Context(), service.CreateGoalInput{
		Name:          req.Name,
		TargetAmount:  target,
		CurrentAmount: current,
		Deadline:      deadline,
		Category:      req.Category,
	})
	if err != nil {
		return handleServiceError(c, err, "create goal")
	}

	log.Info().Int32("goal_id", goal.ID).Msg("Goal created")
	return c.JSON(http.StatusCreated, toGoalResponse(goal))
}

// GetGoals godoc
// @Summary List goals
// @Description Goals ordered by deadline
// @Tags goals
// @Produce json
// @Success 200 {array} GoalResponse
// @Failure 503 {object} ProblemDetails
// @Router /goals [get]
func (h *GoalHandler) GetGoals(c echo.Context) error {
	goals, err := h.goalService.GetGoals(c.Request().Context())
	if err != nil {
		return handleServiceError(c, err, "get goals")
	}

	response := make([]GoalResponse, len(goals))
	for i, g := range goals {
		response[i] = toGoalResponse(g)
	}
	return c.JSON(http.StatusOK, response)
}

// DeleteGoal godoc
// @Summary Delete a goal
// @Tags goals
// @Param id path int true "Goal ID"
// @Success 204
// @Failure 400 {object} ProblemDetails
// @Failure 503 {object} ProblemDetails
// @Router /goals/{id} [delete]
func (h *GoalHandler) DeleteGoal(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return NewValidationError(c, "Invalid goal ID", nil)
	}

	if err := h.goalService.DeleteGoal(c.Request().Context(), id); err != nil {
		return handleServiceError(c, err, "delete goal")
	}

	log.Info().Int32("goal_id", id).Msg("Goal deleted")
	return c.NoContent(http.StatusNoContent)
}

// GetGoalProgress godoc
// @Summary Progress of every goal
// @Tags goals
// @Produce json
// @Success 200 {array} GoalProgressResponse
// @Failure 503 {object} ProblemDetails
// @Router /goals/progress [get]
func (h *GoalHandler) GetGoalProgress(c echo.Context) error {
	statuses, err := h.goalService.GetGoalProgress(c.Request().Context())
	if err != nil {
		return handleServiceError(c, err, "get goal progress")
	}

	response := make([]GoalProgressResponse, len(statuses))
	for i, s := range statuses {
		response[i] = GoalProgressResponse{
			Goal:            toGoalResponse(s.Goal),
			Progress:        s.Progress.StringFixed(2),
			DisplayProgress: s.DisplayProgress.StringFixed(2),
			Remaining:       s.Remaining.StringFixed(2),
			Reached:         s.Reached,
		}
	}
	return c.JSON(http.StatusOK, response)
}

func toGoalResponse(goal *domain.Goal) GoalResponse {
	return GoalResponse{
		ID:            goal.ID,
		Name:          goal.Name,
		TargetAmount:  goal.TargetAmount.StringFixed(2),
		CurrentAmount: goal.CurrentAmount.StringFixed(2),
		Deadline:      goal.Deadline.Format(dateLayout),
		Category:      goal.Category,
		CreatedAt:     goal.CreatedAt.Format(time.RFC3339),
	}
}
