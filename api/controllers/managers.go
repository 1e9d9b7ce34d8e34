package controllers

import (
	"net/http"

	"github.com/freshmartlabs/smartsupply-backend/api/responses"
	"github.com/freshmartlabs/smartsupply-backend/api/validators"
	"github.com/freshmartlabs/smartsupply-backend/internal/managers"
	pkgerrors "github.com/freshmartlabs/smartsupply-backend/pkg/errors"
	"github.com/freshmartlabs/smartsupply-backend/pkg/logger"
)

// CreateManager registers a store in the manager directory.
func CreateManager(svc managers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "managers service unavailable"))
			return
		}

		var payload createManagerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		manager, err := svc.CreateManager(r.Context(), managers.CreateManagerInput{
			ManagerID: payload.ManagerID,
			Name:      payload.Name,
			Location:  payload.Location,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, manager)
	}
}

type createManagerRequest struct {
	ManagerID string `json:"manager_id" validate:"required"`
	Name      string `json:"name" validate:"required"`
	Location  string `json:"location" validate:"required"`
}

// ListManagers returns the directory.
func ListManagers(svc managers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "managers service unavailable"))
			return
		}

		rows, err := svc.ListManagers(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rows)
	}
}
