package handlers

import (
	"errors"
	"net/http"

	"github.com/Dosada05/bracket-system/services"
)

type StandingHandler struct {
	standingService services.StandingService
}

func NewStandingHandler(ss services.StandingService) *StandingHandler {
	return &StandingHandler{standingService: ss}
}

// List обрабатывает GET /standings?tournament_id=&series_id=
func (h *StandingHandler) List(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := queryID(r, "tournament_id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if tournamentID == nil {
		badRequestResponse(w, r, errors.New("tournament_id query parameter is required"))
		return
	}
	seriesID, err := queryID(r, "series_id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tables, err := h.standingService.ListStandings(r.Context(), *tournamentID, seriesID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": tables}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
