package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-menu-builder/internal/domains/ordering/domain"
)

var (
	// ErrInvalidInput signals the request violated a cart invariant.
	ErrInvalidInput = errors.New("invalid cart input")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrMissingSession) ||
		errors.Is(err, domain.ErrMissingOperator) ||
		errors.Is(err, domain.ErrMissingItem) ||
		errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrInvalidQuantityDelta) ||
		errors.Is(err, domain.ErrEmptyCart) ||
		errors.Is(err, domain.ErrInvalidDestination) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
