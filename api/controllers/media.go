package controllers

import (
	"mime/multipart"
	"net/http"

	"github.com/google/uuid"

	"github.com/joyalure/joyalure-backend/api/middleware"
	"github.com/joyalure/joyalure-backend/api/responses"
	mediasvc "github.com/joyalure/joyalure-backend/internal/media"
	pkgerrors "github.com/joyalure/joyalure-backend/pkg/errors"
	"github.com/joyalure/joyalure-backend/pkg/logger"
)

// formFile reads a single multipart file field, enforcing the upload cap
// before the body is buffered.
func formFile(r *http.Request, field string, maxBytes int64) (multipart.File, *multipart.FileHeader, error) {
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body")
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file field is required").WithDetails(map[string]any{"field": field})
	}
	return file, header, nil
}

// AdminUploadMedia handles a multipart image upload from the back office.
// The bucket form field picks the target surface, defaulting to product
// images. The object stays pending until it is attached to a record.
func AdminUploadMedia(svc mediasvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		var uploadedBy *uuid.UUID
		if raw := middleware.UserIDFromContext(r.Context()); raw != "" {
			if id, err := uuid.Parse(raw); err == nil {
				uploadedBy = &id
			}
		}

		file, header, err := formFile(r, "file", svc.MaxUploadBytes())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer file.Close()

		surface := r.FormValue("bucket")
		if surface == "" {
			surface = mediasvc.SurfaceProductImages
		}

		uploaded, err := svc.Upload(r.Context(), uploadedBy, surface, header.Header.Get("Content-Type"), header.Size, file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, uploaded)
	}
}

// AdminListMedia handles the back office media library listing.
func AdminListMedia(svc mediasvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		records, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, records)
	}
}

// AdminAttachMedia marks an upload as referenced so the cleanup job
// leaves it alone.
func AdminAttachMedia(svc mediasvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		id, err := uuidParam(r, "mediaID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Attach(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, record)
	}
}

// AdminDeleteMedia removes the object and its record.
func AdminDeleteMedia(svc mediasvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		id, err := uuidParam(r, "mediaID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
