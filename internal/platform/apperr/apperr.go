package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Tipos de error del núcleo. Siempre se devuelven envueltos con detalle
// (fmt.Errorf("%w: ...")) para que el caller distinga el tipo con errors.Is.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrValidation        = errors.New("validation error")
	ErrPermissionDenied  = errors.New("permission denied")
)

func NotFound(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func InvalidTransition(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidTransition, fmt.Sprintf(format, args...))
}

func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func PermissionDenied(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrPermissionDenied, fmt.Sprintf(format, args...))
}

// HTTPStatus traduce un error del núcleo a status HTTP.
// Lo que no es un tipo conocido termina en 500.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrPermissionDenied):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// WriteHTTP escribe el error con el mismo formato que usan los handlers
// (texto plano). Los errores internos no exponen detalle.
func WriteHTTP(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		http.Error(w, "internal error", status)
		return
	}
	http.Error(w, err.Error(), status)
}
