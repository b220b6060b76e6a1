package dto

import "ratehub/internal/models"

// CreateSlugRequest covers both category and genre creation.
type CreateSlugRequest struct {
	Name string `json:"name" binding:"required,max=256"`
	Slug string `json:"slug" binding:"required,max=50"`
}

type SlugResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func FromSlugged(s models.Slugged) SlugResponse {
	return SlugResponse{Name: s.Name, Slug: s.Slug}
}

// CreateTitleRequest adds a work to the catalog. Genre is a non-empty set of
// genre slugs; category is a single optional category slug.
type CreateTitleRequest struct {
	Name        string   `json:"name" binding:"required,max=256"`
	Year        int      `json:"year" binding:"required"`
	Description *string  `json:"description"`
	Genre       []string `json:"genre" binding:"required,min=1"`
	Category    string   `json:"category"`
}

// UpdateTitleRequest is a PATCH payload; nil fields are left untouched.
type UpdateTitleRequest struct {
	Name        *string   `json:"name" binding:"omitempty,max=256"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Genre       *[]string `json:"genre" binding:"omitempty,min=1"`
	Category    *string   `json:"category"`
}

// TitleResponse carries the derived rating: nil when the title has no
// reviews, never zero.
type TitleResponse struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Year        int            `json:"year"`
	Rating      *float64       `json:"rating"`
	Description *string        `json:"description,omitempty"`
	Category    *SlugResponse  `json:"category"`
	Genre       []SlugResponse `json:"genre"`
}

// FromModelToTitleResponse converts a Title model and its derived rating to a
// TitleResponse DTO.
func FromModelToTitleResponse(title *models.Title, rating *float64) *TitleResponse {
	resp := &TitleResponse{
		ID:          title.ID,
		Name:        title.Name,
		Year:        title.Year,
		Rating:      rating,
		Description: title.Description,
		Genre:       make([]SlugResponse, 0, len(title.Genres)),
	}
	if title.Category != nil {
		category := FromSlugged(title.Category.Slugged)
		resp.Category = &category
	}
	for _, genre := range title.Genres {
		resp.Genre = append(resp.Genre, FromSlugged(genre.Slugged))
	}
	return resp
}
