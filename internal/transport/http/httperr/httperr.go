// Package httperr maps service-layer sentinel errors onto HTTP status
// codes, so every handler reports failures the same way.
package httperr

import (
	"errors"
	"net/http"

	"github.com/mediswift/order/internal/dal/interfaces/icatalogrepo"
	"github.com/mediswift/order/internal/dal/interfaces/iorderrepo"
	"github.com/mediswift/order/internal/service/models/order"
	"github.com/mediswift/order/internal/service/services/catalogsvc"
	"github.com/mediswift/order/internal/service/services/ordersvc"
)

// StatusCode picks the HTTP status for an error bubbling out of the
// service layer. Unknown errors stay 500.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ordersvc.ErrValidation), errors.Is(err, order.ErrInvalidStatus):
		return http.StatusBadRequest
	case errors.Is(err, iorderrepo.ErrNotFound), errors.Is(err, icatalogrepo.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ordersvc.ErrInvalidTransition), errors.Is(err, ordersvc.ErrTerminalStatus):
		return http.StatusConflict
	case errors.Is(err, catalogsvc.ErrConnectivity):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
