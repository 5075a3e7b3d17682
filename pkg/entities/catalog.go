package entities

import (
	"errors"
	"time"
)

type SubscriptionPlan struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Type            string    `json:"type"`
	Price           float64   `json:"price"`
	OriginalPrice   *float64  `json:"originalPrice,omitempty"`
	Duration        int       `json:"duration"`
	Sessions        int       `json:"sessions"`
	Description     string    `json:"description"`
	Features        []string  `json:"features"`
	IsActive        bool      `json:"isActive"`
	IsPopular       bool      `json:"isPopular"`
	DiscountPercent int       `json:"discountPercent"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
	CreatedBy       string    `json:"createdBy"`
}

type Banner struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Bg       string `json:"bg"`
	Icon     string `json:"icon"`
	IsActive bool   `json:"isActive"`
	Order    int    `json:"order"`
}

// ValidationError is a client mistake in a catalog payload
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return "invalid " + e.Field
}

var (
	ErrPlanNotFound   = errors.New("plan not found")
	ErrPlanInactive   = errors.New("plan is not active")
	ErrBannerNotFound = errors.New("banner not found")
	ErrProfileMissing = errors.New("profile not found")
)
