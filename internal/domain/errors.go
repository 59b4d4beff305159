package domain

import "errors"

var (
	// ErrProductNotFound is returned when a barcode is unknown to Open Food Facts
	ErrProductNotFound = errors.New("product not found in Open Food Facts")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrOFFAPIFailure is returned when an Open Food Facts API request fails
	ErrOFFAPIFailure = errors.New("Open Food Facts API request failed")

	// ErrCarbonAPIFailure is returned when the emissions API request fails;
	// callers fall back to the local estimation formula
	ErrCarbonAPIFailure = errors.New("emissions API request failed")

	// ErrAlternativesUnavailable is returned when both the AI generator
	// and the OFF category fallback failed to produce alternatives
	ErrAlternativesUnavailable = errors.New("all alternative sources failed")

	// ErrNotFavourite is returned when a barcode is not in the favourites store
	ErrNotFavourite = errors.New("product not in favourites")
)
