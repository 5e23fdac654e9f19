package controllers

import (
	"net/http"

	"github.com/joyalure/joyalure-backend/api/responses"
	usersvc "github.com/joyalure/joyalure-backend/internal/users"
	pkgerrors "github.com/joyalure/joyalure-backend/pkg/errors"
	"github.com/joyalure/joyalure-backend/pkg/logger"
)

// AdminListCustomers handles the back office customer listing.
func AdminListCustomers(svc usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "users service unavailable"))
			return
		}

		params, err := paginationParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListCustomers(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}
