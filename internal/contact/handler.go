package contact

import (
	"errors"
	"io"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"vanity/pkg/app"
	apperrors "vanity/pkg/errors"
	httputil "vanity/pkg/http"
	"vanity/pkg/logger"
)

// Path is signed when a contact flow secret is configured.
const Path = app.ContactFlowPath

type Handler struct {
	processor *Processor
	log       *logger.Logger
}

func NewHandler(processor *Processor, log *logger.Logger) *Handler {
	return &Handler{processor: processor, log: log}
}

// ContactFlow always answers 200 with a Response so the contact flow can
// branch on vanityNumberSuccess. Only an oversized body is rejected.
func (h *Handler) ContactFlow(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			if writeErr := httputil.WriteError(w, apperrors.PayloadTooLarge(maxErr.Limit)); writeErr != nil {
				h.log.Error("failed to write error response", "handler", "ContactFlow", "operation", "WriteError", "error", writeErr)
			}
			return
		}
		h.respond(w, Failure())
		return
	}

	event, err := ParseEvent(body)
	if err != nil {
		h.log.Warn("Rejected contact flow event", "error", err)
		h.respond(w, Failure())
		return
	}

	resp, _ := h.processor.Process(r.Context(), event)
	h.respond(w, resp)
}

func (h *Handler) respond(w http.ResponseWriter, resp Response) {
	if err := httputil.WriteJSON(w, http.StatusOK, resp); err != nil {
		h.log.Error("failed to write JSON response", "handler", "ContactFlow", "operation", "WriteJSON", "error", err)
	}
}

func (h *Handler) RegisterRoutes(router *httprouter.Router) {
	router.POST(Path, h.ContactFlow)
}
