package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-menu-builder/internal/domains/settings/domain"
)

var (
	// ErrInvalidInput signals the patch violated a settings invariant.
	ErrInvalidInput = errors.New("invalid settings input")
	// ErrForeignOperator is returned for feed rows scoped to another operator.
	ErrForeignOperator = errors.New("settings row belongs to another operator")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyContactNumber) ||
		errors.Is(err, domain.ErrInvalidTemplate) ||
		errors.Is(err, domain.ErrMissingOperator) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
