package handler

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"vanity/internal/vanitynumbers/service"
	"vanity/internal/vanitynumbers/validator"
	apperrors "vanity/pkg/errors"
	httputil "vanity/pkg/http"
	"vanity/pkg/logger"
	"vanity/pkg/middleware"
	"vanity/pkg/model"
	"vanity/pkg/vanity"
)

type VanityHandler struct {
	service   service.VanityService
	validator *validator.VanityValidator
	log       *logger.Logger
}

func NewVanityHandler(service service.VanityService, validator *validator.VanityValidator, log *logger.Logger) *VanityHandler {
	return &VanityHandler{
		service:   service,
		validator: validator,
		log:       log,
	}
}

// decodeRequest reads and validates a GenerateRequest. A phone number that
// cannot be normalized is reported as INVALID_PHONE_FORMAT.
func (h *VanityHandler) decodeRequest(r *http.Request) (*model.GenerateRequest, error) {
	var req model.GenerateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		return nil, err
	}

	if err := h.validator.ValidateRequest(&req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			if verrs.PhoneFormatOnly() {
				return nil, apperrors.InvalidPhoneFormat(req.PhoneNumber, vanity.ErrInvalidFormat)
			}
			return nil, apperrors.Validation("Request validation failed", verrs.Details())
		}
		return nil, apperrors.InvalidInput("invalid request body")
	}
	return &req, nil
}

func (h *VanityHandler) Generate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req, err := h.decodeRequest(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Generate", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	ctx := service.WithCorrelationID(r.Context(), middleware.RequestID(r))
	result, err := h.service.Generate(ctx, req.PhoneNumber)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Generate", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "Generate", "operation", "WriteSuccess", "error", err)
	}
}

func (h *VanityHandler) Candidates(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req, err := h.decodeRequest(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Candidates", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	resp, err := h.service.Candidates(r.Context(), req.PhoneNumber)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Candidates", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, resp); err != nil {
		h.log.Error("failed to write success response", "handler", "Candidates", "operation", "WriteSuccess", "error", err)
	}
}

func (h *VanityHandler) GetByPhone(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	phone := ps.ByName("phone")
	if phone == "" {
		if err := httputil.WriteError(w, apperrors.InvalidInput("phone parameter is required")); err != nil {
			h.log.Error("failed to write error response", "handler", "GetByPhone", "operation", "WriteError", "error", err)
		}
		return
	}

	record, err := h.service.GetByPhone(r.Context(), phone)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByPhone", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, record); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByPhone", "operation", "WriteSuccess", "error", err)
	}
}

func (h *VanityHandler) ListRecent(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, err := httputil.ExtractLimit(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListRecent", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	records, err := h.service.ListRecent(r.Context(), limit)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListRecent", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteList(w, records, len(records), limit); err != nil {
		h.log.Error("failed to write list response", "handler", "ListRecent", "operation", "WriteList", "error", err)
	}
}

func (h *VanityHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/vanity-numbers", h.Generate)
	router.GET("/api/v1/vanity-numbers", h.ListRecent)
	router.GET("/api/v1/vanity-numbers/:phone", h.GetByPhone)
	router.POST("/api/v1/candidates", h.Candidates)
}
