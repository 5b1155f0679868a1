package api

import (
	"errors"
	"strings"
)

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

func (p DirectionPayload) Validate() error {
	if p.Dx == 0 && p.Dy == 0 {
		return errors.New("movement vector cannot be zero")
	}
	if p.Dx < -1 || p.Dx > 1 || p.Dy < -1 || p.Dy > 1 {
		return errors.New("movement step too large")
	}
	return nil
}

func (p KeyPayload) Validate() error {
	if p.Key == "" && p.Code == "" {
		return errors.New("key or code is required")
	}
	return nil
}

func (p SlotPayload) Validate() error {
	if strings.TrimSpace(p.Kind) == "" {
		return errors.New("kind is required")
	}
	return nil
}

func (p CraftPayload) Validate() error {
	if strings.TrimSpace(p.RecipeID) == "" {
		return errors.New("recipeId is required")
	}
	return nil
}
