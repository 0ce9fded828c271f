package dto

type PlanResponse struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Price        float64  `json:"price"`
	DurationDays int      `json:"duration_days"`
	Features     []string `json:"features,omitempty"`
	IsActive     bool     `json:"is_active"`
}

type CreatePlanRequest struct {
	Name         string   `json:"name" validate:"required,max=100"`
	Price        float64  `json:"price" validate:"gte=0"`
	DurationDays int      `json:"duration_days" validate:"required,gt=0"`
	Features     []string `json:"features"`
}

type UpdatePlanRequest struct {
	Name         *string  `json:"name" validate:"omitempty,min=1,max=100"`
	Price        *float64 `json:"price" validate:"omitempty,gte=0"`
	DurationDays *int     `json:"duration_days" validate:"omitempty,gt=0"`
	Features     []string `json:"features"`
	IsActive     *bool    `json:"is_active"`
}

type PlanMutationResponse struct {
	Message string        `json:"message"`
	Plan    *PlanResponse `json:"plan,omitempty"`
}
