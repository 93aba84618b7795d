package http

import (
	"net/http"
	"strconv"

	"github.com/shiftsync/timeclock-backend/internal/handler/http/response"
	"github.com/shiftsync/timeclock-backend/internal/pkg/timewindow"
	"github.com/shiftsync/timeclock-backend/internal/pkg/validator"
)

type TimeHandler interface {
	Readable(w http.ResponseWriter, r *http.Request)
	Epoch(w http.ResponseWriter, r *http.Request)
}

type timeHandlerImpl struct {
	codec *timewindow.Codec
}

func NewTimeHandler(codec *timewindow.Codec) TimeHandler {
	return &timeHandlerImpl{
		codec: codec,
	}
}

type epochResponse struct {
	Input    string              `json:"input"`
	Anchor   timewindow.Anchor   `json:"anchor"`
	EpochMs  int64               `json:"epoch_ms"`
	Readable timewindow.Readable `json:"readable"`
}

// Readable implements TimeHandler.
func (h *timeHandlerImpl) Readable(w http.ResponseWriter, r *http.Request) {
	ms, err := strconv.ParseInt(r.URL.Query().Get("epoch_ms"), 10, 64)
	if err != nil {
		response.HandleError(w, validator.ValidationErrors{{
			Field:   "epoch_ms",
			Message: "epoch_ms must be an integer",
		}})
		return
	}

	response.Success(w, h.codec.ToReadable(ms))
}

// Epoch implements TimeHandler.
func (h *timeHandlerImpl) Epoch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	input := query.Get("input")
	if validator.IsEmpty(input) {
		response.HandleError(w, validator.ValidationErrors{{
			Field:   "input",
			Message: "input is required",
		}})
		return
	}

	anchor := timewindow.Anchor(query.Get("anchor"))
	if anchor == "" {
		anchor = timewindow.AnchorExact
	}

	ms, err := h.codec.ToEpochMillis(input, anchor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, epochResponse{
		Input:    input,
		Anchor:   anchor,
		EpochMs:  ms,
		Readable: h.codec.ToReadable(ms),
	})
}
