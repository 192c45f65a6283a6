package handlers

import (
	"net/http"

	"github.com/Dosada05/bracket-system/services"
)

type SeriesHandler struct {
	seriesService   services.SeriesService
	bracketService  services.BracketService
	standingService services.StandingService
}

func NewSeriesHandler(ss services.SeriesService, bs services.BracketService, sts services.StandingService) *SeriesHandler {
	return &SeriesHandler{
		seriesService:   ss,
		bracketService:  bs,
		standingService: sts,
	}
}

// List обрабатывает GET /series?tournament_id=
func (h *SeriesHandler) List(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := queryID(r, "tournament_id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	series, err := h.seriesService.ListSeries(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"series": series}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SeriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreateSeriesInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	series, err := h.seriesService.CreateSeries(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"series": series}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SeriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "seriesID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.seriesService.DeleteSeries(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GenerateFixture godoc
// @Summary Сгенерировать матчи группы (каждый с каждым)
// @Tags series
// @Produce json
// @Param seriesID path int true "Series ID"
// @Success 201 {object} map[string]interface{}
// @Failure 409 {object} map[string]string "Матчи уже созданы"
// @Security BearerAuth
// @Router /series/{seriesID}/fixture [post]
func (h *SeriesHandler) GenerateFixture(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "seriesID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.bracketService.GenerateGroupFixture(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SeriesHandler) RebuildStandings(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "seriesID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	table, err := h.standingService.RebuildSeries(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": table}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
