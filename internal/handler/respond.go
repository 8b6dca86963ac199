package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"runtime/debug"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Spectronyx/rent-manager-app-sub000/internal/domain"
	"github.com/Spectronyx/rent-manager-app-sub000/internal/security/auth"
	"github.com/Spectronyx/rent-manager-app-sub000/internal/security/middleware"
)

func init() {
	// money goes over the wire as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

const maxBodyBytes = 1 << 20

var validate = newValidator()

// newValidator reports fields by their JSON names
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

// Responder writes JSON bodies and maps service errors to status codes
type Responder struct {
	logger    *slog.Logger
	showStack bool
}

// NewResponder creates a responder. Stacks of internal errors are only
// exposed outside production.
func NewResponder(logger *slog.Logger, production bool) *Responder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Responder{logger: logger, showStack: !production}
}

func (rs *Responder) json(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		rs.logger.Warn("failed to write response", slog.String("error", err.Error()))
	}
}

// statusOf maps the domain error kinds to HTTP codes
func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrInvalidState):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

func (rs *Responder) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status != http.StatusInternalServerError {
		rs.json(w, status, ErrorResponse{Message: err.Error()})
		return
	}

	rs.logger.Error("request failed",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
	body := ErrorResponse{Message: "internal server error"}
	if rs.showStack {
		body.Message = err.Error()
		body.Stack = string(debug.Stack())
	}
	rs.json(w, status, body)
}

// decode reads a JSON body into dst and runs its validate tags
func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.Validation("request body is required")
		}
		return domain.Validation("invalid request body: %s", err.Error())
	}
	return check(dst)
}

// decodeOptional is decode for endpoints whose body may be empty
func decodeOptional(r *http.Request, dst any) error {
	if r.ContentLength == 0 {
		return check(dst)
	}
	return decode(r, dst)
}

func check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return domain.Validation("%s", err.Error())
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return domain.Validation("%s", strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "email":
		return name + " must be a valid email address"
	case "uuid":
		return name + " must be a valid id"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", name, fe.Param())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", name, fe.Param())
	case "len":
		return fmt.Sprintf("%s must be %s characters long", name, fe.Param())
	}
	return name + " is invalid"
}

// pathID returns a path parameter that must be a UUID
func pathID(r *http.Request, name string) (string, error) {
	v := r.PathValue(name)
	if _, err := uuid.Parse(v); err != nil {
		return "", domain.Validation("invalid %s", name)
	}
	return v, nil
}

// queryInt parses an optional integer query parameter; absent means 0
func queryInt(r *http.Request, name string) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, domain.Validation("%s must be a number", name)
	}
	return n, nil
}

// caller returns the authenticated user of the request
func caller(r *http.Request) (*auth.Claims, error) {
	claims := middleware.GetClaimsFromContext(r.Context())
	if claims == nil {
		return nil, domain.Unauthorized("not authorized, no token")
	}
	return claims, nil
}
