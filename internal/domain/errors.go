package domain

import "errors"

var (
	// ErrOutOfBounds - координата вне сетки. Из валидного UI не приходит, значит баг вызывающего.
	ErrOutOfBounds = errors.New("out of bounds")

	// ErrInvalidQuantity - попытка добавить/убрать неположительное количество
	ErrInvalidQuantity = errors.New("quantity must be positive")

	// ErrUnknownRecipe - рецепта с таким ID нет в книге
	ErrUnknownRecipe = errors.New("unknown recipe")

	// ErrSessionNotFound - сессия уже закрыта или не существовала
	ErrSessionNotFound = errors.New("session not found")
)
