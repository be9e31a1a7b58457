package model

import (
	"time"

	"github.com/google/uuid"
)

// FeatureImage is a banner image shown on the storefront home page.
type FeatureImage struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Image     string    `json:"image" db:"image"`
	Title     string    `json:"title" db:"title"`
	AltText   string    `json:"altText" db:"alt_text"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// FeatureImageRequest is the payload for adding a feature image.
type FeatureImageRequest struct {
	Image   string `json:"image"`
	Title   string `json:"title"`
	AltText string `json:"altText"`
}

// UploadResult describes an image stored by the media layer.
type UploadResult struct {
	URL string `json:"url"`
	Key string `json:"key"`
}
