// Package store persists presentations.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/thywilljoshua/doc-to-slides/internal/slides"
	"github.com/thywilljoshua/doc-to-slides/internal/style"
)

var ErrNotFound = errors.New("presentation not found")

// Presentation is a saved deck owned by one user.
type Presentation struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	Template     style.TemplateID `json:"template"`
	CustomStyles *style.Override  `json:"customStyles,omitempty"`
	Slides       []slides.Slide   `json:"slides"`
	OwnerID      string           `json:"userId"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

// Patch is a partial update. Nil fields are left alone; Slides replaces the
// whole deck.
type Patch struct {
	Title        *string           `json:"title,omitempty"`
	Template     *style.TemplateID `json:"template,omitempty"`
	CustomStyles *style.Override   `json:"customStyles,omitempty"`
	Slides       *[]slides.Slide   `json:"slides,omitempty"`
}

func (p Patch) apply(to *Presentation) {
	if p.Title != nil {
		to.Title = *p.Title
	}
	if p.Template != nil {
		to.Template = style.Parse(string(*p.Template))
	}
	if p.CustomStyles != nil {
		to.CustomStyles = p.CustomStyles
		if p.CustomStyles.IsZero() {
			to.CustomStyles = nil
		}
	}
	if p.Slides != nil {
		to.Slides = append([]slides.Slide{}, *p.Slides...)
	}
}

// Repository is the persistence port. It does not check ownership; callers
// compare OwnerID themselves.
type Repository interface {
	Create(ctx context.Context, p *Presentation) (string, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Presentation, error)
	GetByID(ctx context.Context, id string) (*Presentation, error)
	Update(ctx context.Context, id string, patch Patch) (*Presentation, error)
	Delete(ctx context.Context, id string) error
}
