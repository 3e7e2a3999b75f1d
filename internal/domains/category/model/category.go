package model

import (
	"time"

	"playbook-pipeline/internal/shared/utils"

	"github.com/google/uuid"
)

// Category groups playbooks. Name is unique and matched case-sensitively;
// categories are created on first reference and never duplicated.
type Category struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Slug      string    `json:"slug" db:"slug"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// NewCategory builds an unsaved category with its slug derived from name.
func NewCategory(name string) *Category {
	now := time.Now().UTC()
	return &Category{
		ID:        uuid.New(),
		Name:      name,
		Slug:      utils.GenerateSlug(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
}
