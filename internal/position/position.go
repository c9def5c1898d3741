package position

import (
	"time"

	"github.com/elitehr/elite-time/internal"
	orgDatamodel "github.com/elitehr/elite-time/internal/core/datamodel/organization"
)

type Position struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreatePositionDTO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (d CreatePositionDTO) Validate() error {
	if d.Title == "" {
		return internal.NewValidationError("title is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type UpdatePositionDTO struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

func FromDataModel(p *orgDatamodel.Position) *Position {
	return &Position{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
