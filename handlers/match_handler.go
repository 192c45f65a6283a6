package handlers

import (
	"net/http"

	"github.com/Dosada05/bracket-system/services"
)

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(ms services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: ms}
}

func (h *MatchHandler) List(w http.ResponseWriter, r *http.Request) {
	var filter services.ListMatchesFilter
	var err error
	if filter.TournamentID, err = queryID(r, "tournament_id"); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if filter.SeriesID, err = queryID(r, "series_id"); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if filter.TeamID, err = queryID(r, "team_id"); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.matchService.ListMatches(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.GetMatchByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Record godoc
// @Summary Записать результат матча
// @Description Создаёт матч с результатом и обновляет таблицу обеих команд в одной транзакции. Ничьи запрещены.
// @Tags matches
// @Accept json
// @Produce json
// @Param input body services.RecordMatchInput true "Teams, series, tournament and result"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Ничья, отрицательный счёт, одинаковые команды"
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "Турнир закрыт"
// @Security BearerAuth
// @Router /matches [post]
func (h *MatchHandler) Record(w http.ResponseWriter, r *http.Request) {
	var input services.RecordMatchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.RecordMatchResult(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Correct обрабатывает PUT /matches/{matchID}: полная замена данных матча с пересчётом таблицы.
func (h *MatchHandler) Correct(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input services.RecordMatchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.CorrectMatchResult(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
