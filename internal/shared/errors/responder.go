package errors

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ContentTypeProblemJSON is the media type for problem responses.
const ContentTypeProblemJSON = "application/problem+json"

// ErrorMapper turns a domain or application error into a problem.
type ErrorMapper func(err error) (ProblemDetail, bool)

// Responder writes problems, trying its mappers in order before falling back
// to an internal error.
type Responder struct {
	baseURI string
	mappers []ErrorMapper
	logger  *slog.Logger
}

func NewResponder(baseURI string, mappers ...ErrorMapper) *Responder {
	return &Responder{baseURI: baseURI, mappers: mappers, logger: slog.Default()}
}

// WithLogger sets where server-side failures are logged.
func (r *Responder) WithLogger(logger *slog.Logger) *Responder {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// AddMapper appends a mapper to the chain.
func (r *Responder) AddMapper(mapper ErrorMapper) {
	r.mappers = append(r.mappers, mapper)
}

// Respond sends problem with the problem+json content type.
func (r *Responder) Respond(c *gin.Context, problem ProblemDetail) {
	if r.baseURI != "" && len(problem.Type) > 0 && problem.Type[0] == '/' {
		problem.Type = r.baseURI + problem.Type
	}
	if problem.Instance == "" {
		problem.Instance = c.Request.URL.Path
	}
	if problem.Status >= http.StatusInternalServerError && r.logger != nil {
		r.logger.LogAttrs(c.Request.Context(), slog.LevelError, "request failed",
			slog.String("http.path", c.Request.URL.Path),
			slog.Int("http.status", problem.Status),
			slog.String("error", problem.Error()))
	}
	c.Header("Content-Type", ContentTypeProblemJSON)
	c.JSON(problem.Status, problem)
}

// RespondError maps err through the chain. Errors that already are problems are sent as is.
func (r *Responder) RespondError(c *gin.Context, err error) {
	var problem ProblemDetail
	if errors.As(err, &problem) {
		r.Respond(c, problem)
		return
	}
	for _, mapper := range r.mappers {
		if problem, ok := mapper(err); ok {
			r.Respond(c, problem)
			return
		}
	}
	r.Respond(c, ErrInternal.WithDetail(err.Error()))
}

// BadRequest reports an undecodable request.
func (r *Responder) BadRequest(c *gin.Context, err error) {
	r.Respond(c, ErrBadRequest.WithDetail(err.Error()))
}

// HTTPStatusFromError extracts the status of a problem, defaulting to 500.
func HTTPStatusFromError(err error) int {
	var problem ProblemDetail
	if errors.As(err, &problem) {
		return problem.Status
	}
	return http.StatusInternalServerError
}
