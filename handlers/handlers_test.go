package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Dosada05/bracket-system/middleware"
	"github.com/Dosada05/bracket-system/models"
	"github.com/Dosada05/bracket-system/services"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "handler-secret"

// serve routes a single request through chi so URL params resolve; userID 0 means anonymous.
func serve(method, pattern, target string, body string, userID int, h http.HandlerFunc) *httptest.ResponseRecorder {
	router := chi.NewRouter()
	router.MethodFunc(method, pattern, h)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if userID != 0 {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestMapServiceErrorToHTTP(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{services.ErrDrawNotAllowed, http.StatusBadRequest},
		{fmt.Errorf("%w: extra", services.ErrFieldRequired), http.StatusBadRequest},
		{services.ErrTournamentNotFound, http.StatusNotFound},
		{services.ErrSeriesIncomplete, http.StatusConflict},
		{services.ErrTournamentClosed, http.StatusConflict},
		{services.ErrInvalidCredentials, http.StatusUnauthorized},
		{services.ErrForbiddenOperation, http.StatusForbidden},
		{services.ErrWinnerNotInMatch, http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			mapServiceErrorToHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)
			assert.Equal(t, tt.want, rec.Code)
			assert.Contains(t, rec.Body.String(), "\"error\"")
		})
	}
}

func TestRecordMatch(t *testing.T) {
	h := NewMatchHandler(&stubMatchService{})

	rec := serve(http.MethodPost, "/matches", "/matches",
		`{"team_a_id":1,"team_b_id":2,"series_id":3,"tournament_id":4,"result":{"points_a":21,"points_b":15}}`, 9, h.Record)
	assert.Equal(t, http.StatusCreated, rec.Code)
	match := decodeBody(t, rec)["match"].(map[string]interface{})
	assert.EqualValues(t, 5, match["id"])

	rec = serve(http.MethodPost, "/matches", "/matches", `{"team_a_id":1,"bogus":true}`, 9, h.Record)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown key")

	rec = serve(http.MethodPost, "/matches", "/matches", ``, 9, h.Record)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	draw := NewMatchHandler(&stubMatchService{err: services.ErrDrawNotAllowed})
	rec = serve(http.MethodPost, "/matches", "/matches",
		`{"team_a_id":1,"team_b_id":2,"series_id":3,"tournament_id":4,"result":{"points_a":3,"points_b":3}}`, 9, draw.Record)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "no draws allowed")
}

func TestRecordMatchPartialResult(t *testing.T) {
	svc := &stubMatchService{err: fmt.Errorf("%w: result.points_b", services.ErrFieldRequired)}
	h := NewMatchHandler(svc)

	rec := serve(http.MethodPost, "/matches", "/matches",
		`{"team_a_id":1,"team_b_id":2,"series_id":3,"tournament_id":4,"result":{"points_a":2}}`, 9, h.Record)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "result.points_b")

	require.Len(t, svc.recorded, 1)
	result := svc.recorded[0].Result
	require.NotNil(t, result)
	require.NotNil(t, result.PointsA)
	assert.Equal(t, 2, *result.PointsA)
	assert.Nil(t, result.PointsB)
}

func TestCorrectMatch(t *testing.T) {
	svc := &stubMatchService{}
	h := NewMatchHandler(svc)

	rec := serve(http.MethodPut, "/matches/{matchID}", "/matches/12",
		`{"team_a_id":1,"team_b_id":2,"series_id":3,"tournament_id":4,"result":{"points_a":1,"points_b":0}}`, 9, h.Correct)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, svc.corrected, 12)
	assert.Equal(t, 1, *svc.corrected[12].Result.PointsA)

	rec = serve(http.MethodPut, "/matches/{matchID}", "/matches/abc", `{}`, 9, h.Correct)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFinalizeRequiresOwner(t *testing.T) {
	svc := &stubTournamentService{ownerID: 3}
	h := NewTournamentHandler(svc, &stubBracketService{})

	rec := serve(http.MethodPut, "/tournaments/{tournamentID}/finalize", "/tournaments/8/finalize", "", 4, h.FinalizeHandler)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, svc.finalized)

	rec = serve(http.MethodPut, "/tournaments/{tournamentID}/finalize", "/tournaments/8/finalize", "", 3, h.FinalizeHandler)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int{8}, svc.finalized)

	rec = serve(http.MethodPut, "/tournaments/{tournamentID}/finalize", "/tournaments/8/finalize", "", 0, h.FinalizeHandler)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	svc.finalizeErr = services.ErrTournamentAlreadyClosed
	rec = serve(http.MethodPut, "/tournaments/{tournamentID}/finalize", "/tournaments/8/finalize", "", 3, h.FinalizeHandler)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestListTournamentsIsOwnerScoped(t *testing.T) {
	svc := &stubTournamentService{}
	h := NewTournamentHandler(svc, &stubBracketService{})

	rec := serve(http.MethodGet, "/tournaments", "/tournaments?status=closed&limit=5", "", 11, h.ListHandler)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.lastFilter.OwnerID)
	assert.Equal(t, 11, *svc.lastFilter.OwnerID)
	require.NotNil(t, svc.lastFilter.Status)
	assert.Equal(t, models.StatusClosed, *svc.lastFilter.Status)
	assert.Equal(t, 5, svc.lastFilter.Limit)

	rec = serve(http.MethodGet, "/tournaments", "/tournaments?status=running", "", 11, h.ListHandler)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdvanceHandler(t *testing.T) {
	bracket := &stubBracketService{}
	h := NewTournamentHandler(&stubTournamentService{}, bracket)

	rec := serve(http.MethodPost, "/tournaments/{tournamentID}/advance", "/tournaments/2/advance?category_id=3", "", 1, h.AdvanceHandler)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, bracket.scopes, 1)
	assert.Equal(t, 2, bracket.scopes[0].TournamentID)
	require.NotNil(t, bracket.scopes[0].CategoryID)
	assert.Equal(t, 3, *bracket.scopes[0].CategoryID)

	rec = serve(http.MethodPost, "/tournaments/{tournamentID}/advance", "/tournaments/2/advance?category_id=x", "", 1, h.AdvanceHandler)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	bracket.err = services.ErrSeriesIncomplete
	rec = serve(http.MethodPost, "/tournaments/{tournamentID}/advance", "/tournaments/2/advance", "", 1, h.AdvanceHandler)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestStandingsRequireTournament(t *testing.T) {
	svc := &stubStandingService{}
	h := NewStandingHandler(svc)

	rec := serve(http.MethodGet, "/standings", "/standings", "", 0, h.List)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, svc.calls)

	rec = serve(http.MethodGet, "/standings", "/standings?tournament_id=1&series_id=2", "", 0, h.List)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, svc.calls)
}

func TestLoginIssuesTokenCookie(t *testing.T) {
	auth := &stubAuthService{user: &models.User{ID: 21, Name: "Lucia", Email: "lucia@example.com"}}
	h := NewAuthHandler(auth, testJWTSecret, true)

	rec := serve(http.MethodPost, "/auth/login", "/auth/login", `{"email":"lucia@example.com","password":"secreto1"}`, 0, h.Login)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	token, ok := body["token"].(string)
	require.True(t, ok)
	claims, err := middleware.ParseToken(token, []byte(testJWTSecret))
	require.NoError(t, err)
	assert.EqualValues(t, 21, claims["user_id"])

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.TokenCookieName, cookies[0].Name)
	assert.Equal(t, token, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)

	rec = serve(http.MethodPost, "/auth/logout", "/auth/logout", "", 0, h.Logout)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.Len(t, rec.Result().Cookies(), 1)
	assert.Equal(t, -1, rec.Result().Cookies()[0].MaxAge)

	bad := NewAuthHandler(&stubAuthService{err: services.ErrInvalidCredentials}, testJWTSecret, false)
	rec = serve(http.MethodPost, "/auth/login", "/auth/login", `{"email":"lucia@example.com","password":"nope"}`, 0, bad.Login)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMe(t *testing.T) {
	auth := &stubAuthService{user: &models.User{Name: "Lucia", Email: "lucia@example.com"}}
	h := NewAuthHandler(auth, testJWTSecret, false)

	rec := serve(http.MethodGet, "/auth/me", "/auth/me", "", 21, h.Me)
	require.Equal(t, http.StatusOK, rec.Code)
	user := decodeBody(t, rec)["user"].(map[string]interface{})
	assert.EqualValues(t, 21, user["id"])
	assert.NotContains(t, user, "password_hash")

	rec = serve(http.MethodGet, "/auth/me", "/auth/me", "", 0, h.Me)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestVerify(t *testing.T) {
	auth := &stubAuthService{user: &models.User{ID: 21, Name: "Lucia", Email: "lucia@example.com"}}
	h := NewAuthHandler(auth, testJWTSecret, false)

	login := serve(http.MethodPost, "/auth/login", "/auth/login", `{"email":"lucia@example.com","password":"secreto1"}`, 0, h.Login)
	require.Equal(t, http.StatusOK, login.Code)
	cookies := login.Result().Cookies()
	require.Len(t, cookies, 1)

	req := httptest.NewRequest(http.MethodGet, "/auth/verify", nil)
	req.AddCookie(cookies[0])
	rec := httptest.NewRecorder()
	h.Verify(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["logged_in"])
	assert.EqualValues(t, 21, body["user"].(map[string]interface{})["id"])

	rec = httptest.NewRecorder()
	h.Verify(rec, httptest.NewRequest(http.MethodGet, "/auth/verify", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, false, decodeBody(t, rec)["logged_in"])

	gone := NewAuthHandler(&stubAuthService{err: services.ErrUserNotFound}, testJWTSecret, false)
	req = httptest.NewRequest(http.MethodGet, "/auth/verify", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	gone.Verify(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, false, decodeBody(t, rec)["logged_in"])
}
