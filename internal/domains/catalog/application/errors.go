package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/domain"
)

var (
	// ErrInvalidInput signals the request violated a catalog invariant.
	ErrInvalidInput = errors.New("invalid catalog input")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrMissingID) ||
		errors.Is(err, domain.ErrInvalidName) ||
		errors.Is(err, domain.ErrNegativePrice) ||
		errors.Is(err, domain.ErrInvalidPosition) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
