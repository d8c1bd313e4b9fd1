package menuserver

import (
	"errors"

	"github.com/gin-gonic/gin"

	catalogapp "github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/application"
	catalogports "github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/ports"
	orderingapp "github.com/Apurer/go-gin-menu-builder/internal/domains/ordering/application"
	orderingdomain "github.com/Apurer/go-gin-menu-builder/internal/domains/ordering/domain"
	orderingports "github.com/Apurer/go-gin-menu-builder/internal/domains/ordering/ports"
	settingsapp "github.com/Apurer/go-gin-menu-builder/internal/domains/settings/application"
	apierrors "github.com/Apurer/go-gin-menu-builder/internal/shared/errors"
)

var problems = NewProblemResponder("")

// SetProblemResponder replaces the responder, e.g. to attach the process logger.
func SetProblemResponder(responder *apierrors.Responder) {
	if responder != nil {
		problems = responder
	}
}

// NewProblemResponder builds a responder that knows every bounded context's errors.
func NewProblemResponder(baseURI string) *apierrors.Responder {
	return apierrors.NewResponder(baseURI, mapCatalogError, mapSettingsError, mapOrderingError)
}

func respondError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	problems.RespondError(c, err)
}

func respondBadRequest(c *gin.Context, err error) {
	problems.BadRequest(c, err)
}

func mapCatalogError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, catalogports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, catalogapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapSettingsError(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, settingsapp.ErrInvalidInput) {
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapOrderingError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, orderingdomain.ErrItemNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, orderingapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, orderingports.ErrIdempotencyConflict):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, orderingdomain.ErrDeliveryFailed):
		return apierrors.ErrUpstream.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}
