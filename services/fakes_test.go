package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Dosada05/bracket-system/models"
	"github.com/Dosada05/bracket-system/repositories"
	"github.com/Dosada05/bracket-system/storage"
)

var errInjected = errors.New("injected failure")

// memDB is an in-memory stand-in for the postgres repositories. Values are
// copied on the way in and out so callers never share state with the store.
type memDB struct {
	mu     sync.Mutex
	nextID int
	clock  time.Time
	failOn string

	categories  map[int]*models.Category
	tournaments map[int]*models.Tournament
	series      map[int]*models.Series
	teams       map[int]*models.Team
	matches     map[int]*models.Match
	standings   map[int]*models.Standing
	users       map[int]*models.User
}

func newMemDB() *memDB {
	return &memDB{
		clock:       time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC),
		categories:  map[int]*models.Category{},
		tournaments: map[int]*models.Tournament{},
		series:      map[int]*models.Series{},
		teams:       map[int]*models.Team{},
		matches:     map[int]*models.Match{},
		standings:   map[int]*models.Standing{},
		users:       map[int]*models.User{},
	}
}

func (db *memDB) id() int {
	db.nextID++
	return db.nextID
}

func (db *memDB) tick() time.Time {
	db.clock = db.clock.Add(time.Second)
	return db.clock
}

func (db *memDB) fail(op string) error {
	if db.failOn == op {
		return errInjected
	}
	return nil
}

func cloneTournament(t *models.Tournament) *models.Tournament {
	c := *t
	return &c
}

func cloneSeries(s *models.Series) *models.Series {
	c := *s
	c.AutoQualified = append([]int{}, s.AutoQualified...)
	return &c
}

func cloneTeam(t *models.Team) *models.Team {
	c := *t
	c.Players = append([]string{}, t.Players...)
	return &c
}

func cloneMatch(m *models.Match) *models.Match {
	c := *m
	if m.Result != nil {
		r := *m.Result
		c.Result = &r
	}
	if m.WinnerID != nil {
		w := *m.WinnerID
		c.WinnerID = &w
	}
	return &c
}

func cloneStanding(s *models.Standing) *models.Standing {
	c := *s
	c.Position = nil
	c.Team = nil
	return &c
}

type memSnapshot struct {
	nextID      int
	categories  map[int]*models.Category
	tournaments map[int]*models.Tournament
	series      map[int]*models.Series
	teams       map[int]*models.Team
	matches     map[int]*models.Match
	standings   map[int]*models.Standing
	users       map[int]*models.User
}

func copyMap[T any](src map[int]*T, clone func(*T) *T) map[int]*T {
	dst := make(map[int]*T, len(src))
	for k, v := range src {
		dst[k] = clone(v)
	}
	return dst
}

func identity[T any](v *T) *T { c := *v; return &c }

func (db *memDB) snapshot() memSnapshot {
	db.mu.Lock()
	defer db.mu.Unlock()
	return memSnapshot{
		nextID:      db.nextID,
		categories:  copyMap(db.categories, identity[models.Category]),
		tournaments: copyMap(db.tournaments, cloneTournament),
		series:      copyMap(db.series, cloneSeries),
		teams:       copyMap(db.teams, cloneTeam),
		matches:     copyMap(db.matches, cloneMatch),
		standings:   copyMap(db.standings, cloneStanding),
		users:       copyMap(db.users, identity[models.User]),
	}
}

func (db *memDB) restore(s memSnapshot) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.nextID = s.nextID
	db.categories = s.categories
	db.tournaments = s.tournaments
	db.series = s.series
	db.teams = s.teams
	db.matches = s.matches
	db.standings = s.standings
	db.users = s.users
}

// memTxManager rolls the store back to its state before fn when fn fails.
type memTxManager struct {
	db      *memDB
	commits int
}

func (m *memTxManager) WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	snap := m.db.snapshot()
	if err := fn(nil); err != nil {
		m.db.restore(snap)
		return err
	}
	m.commits++
	return nil
}

// --- categories ---

type memCategoryRepo struct{ db *memDB }

func (r memCategoryRepo) Create(_ context.Context, _ repositories.SQLExecutor, c *models.Category) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.categories {
		if existing.Name == c.Name {
			return repositories.ErrCategoryNameConflict
		}
	}
	c.ID = r.db.id()
	r.db.categories[c.ID] = identity(c)
	return nil
}

func (r memCategoryRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Category, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.categories[id]
	if !ok {
		return nil, repositories.ErrCategoryNotFound
	}
	return identity(c), nil
}

func (r memCategoryRepo) List(_ context.Context, _ repositories.SQLExecutor) ([]*models.Category, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]*models.Category, 0, len(r.db.categories))
	for _, c := range r.db.categories {
		out = append(out, identity(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// --- tournaments ---

type memTournamentRepo struct{ db *memDB }

func (r memTournamentRepo) Create(_ context.Context, _ repositories.SQLExecutor, t *models.Tournament) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.categories[t.CategoryID]; !ok {
		return repositories.ErrTournamentInvalidCategory
	}
	t.ID = r.db.id()
	t.CreatedAt = r.db.tick()
	if t.Status == "" {
		t.Status = models.StatusOpen
	}
	r.db.tournaments[t.ID] = cloneTournament(t)
	return nil
}

func (r memTournamentRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Tournament, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	t, ok := r.db.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	return cloneTournament(t), nil
}

func (r memTournamentRepo) LockByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, error) {
	if err := r.db.fail("LockTournament"); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, exec, id)
}

func (r memTournamentRepo) List(_ context.Context, _ repositories.SQLExecutor, f repositories.ListTournamentsFilter) ([]*models.Tournament, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]*models.Tournament, 0)
	for _, t := range r.db.tournaments {
		if f.OwnerID != nil && (t.OwnerID == nil || *t.OwnerID != *f.OwnerID) {
			continue
		}
		if f.Status != nil && t.Status != *f.Status {
			continue
		}
		out = append(out, cloneTournament(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r memTournamentRepo) Close(_ context.Context, _ repositories.SQLExecutor, id int, finishedAt time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	t, ok := r.db.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.Status = models.StatusClosed
	t.FinishedAt = &finishedAt
	return nil
}

func (r memTournamentRepo) UpdateChampion(_ context.Context, _ repositories.SQLExecutor, id int, championTeamID *int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.fail("UpdateChampion"); err != nil {
		return err
	}
	t, ok := r.db.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.ChampionTeamID = championTeamID
	return nil
}

// --- series ---

type memSeriesRepo struct{ db *memDB }

func (r memSeriesRepo) Create(_ context.Context, _ repositories.SQLExecutor, s *models.Series) error {
	if err := r.db.fail("CreateSeries"); err != nil {
		return err
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.tournaments[s.TournamentID]; !ok {
		return repositories.ErrSeriesInvalidTournament
	}
	s.ID = r.db.id()
	s.CreatedAt = r.db.tick()
	if s.AutoQualified == nil {
		s.AutoQualified = []int{}
	}
	r.db.series[s.ID] = cloneSeries(s)
	return nil
}

func (r memSeriesRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Series, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.series[id]
	if !ok {
		return nil, repositories.ErrSeriesNotFound
	}
	return cloneSeries(s), nil
}

func (r memSeriesRepo) ListByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID int, categoryID *int) ([]*models.Series, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]*models.Series, 0)
	for _, s := range r.db.series {
		if s.TournamentID != tournamentID || (categoryID != nil && s.CategoryID != *categoryID) {
			continue
		}
		out = append(out, cloneSeries(s))
	}
	sortSeries(out)
	return out, nil
}

func (r memSeriesRepo) List(_ context.Context, _ repositories.SQLExecutor) ([]*models.Series, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]*models.Series, 0, len(r.db.series))
	for _, s := range r.db.series {
		out = append(out, cloneSeries(s))
	}
	sortSeries(out)
	return out, nil
}

func sortSeries(s []*models.Series) {
	sort.Slice(s, func(i, j int) bool {
		if !s[i].CreatedAt.Equal(s[j].CreatedAt) {
			return s[i].CreatedAt.Before(s[j].CreatedAt)
		}
		return s[i].ID < s[j].ID
	})
}

func (r memSeriesRepo) UpdateAutoQualified(_ context.Context, _ repositories.SQLExecutor, id int, teamIDs []int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.series[id]
	if !ok {
		return repositories.ErrSeriesNotFound
	}
	s.AutoQualified = append([]int{}, teamIDs...)
	return nil
}

func (r memSeriesRepo) Delete(_ context.Context, _ repositories.SQLExecutor, id int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.series[id]; !ok {
		return repositories.ErrSeriesNotFound
	}
	delete(r.db.series, id)
	return nil
}

// --- teams ---

type memTeamRepo struct{ db *memDB }

func (r memTeamRepo) Create(_ context.Context, _ repositories.SQLExecutor, t *models.Team) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.series[t.SeriesID]; !ok {
		return repositories.ErrTeamInvalidSeries
	}
	t.ID = r.db.id()
	t.CreatedAt = r.db.tick()
	r.db.teams[t.ID] = cloneTeam(t)
	return nil
}

func (r memTeamRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Team, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	t, ok := r.db.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	return cloneTeam(t), nil
}

func (r memTeamRepo) ListByIDs(_ context.Context, _ repositories.SQLExecutor, ids []int) ([]*models.Team, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]*models.Team, 0, len(ids))
	for _, id := range ids {
		if t, ok := r.db.teams[id]; ok {
			out = append(out, cloneTeam(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memTeamRepo) List(_ context.Context, _ repositories.SQLExecutor, f repositories.ListTeamsFilter) ([]*models.Team, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]*models.Team, 0)
	for _, t := range r.db.teams {
		if f.TournamentID != nil && t.TournamentID != *f.TournamentID {
			continue
		}
		if f.SeriesID != nil && t.SeriesID != *f.SeriesID {
			continue
		}
		out = append(out, cloneTeam(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memTeamRepo) UpdateSeries(_ context.Context, _ repositories.SQLExecutor, teamIDs []int, seriesID int) error {
	if err := r.db.fail("UpdateSeries"); err != nil {
		return err
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, id := range teamIDs {
		t, ok := r.db.teams[id]
		if !ok {
			return repositories.ErrTeamNotFound
		}
		t.SeriesID = seriesID
	}
	return nil
}

func (r memTeamRepo) Delete(_ context.Context, _ repositories.SQLExecutor, id int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.teams[id]; !ok {
		return repositories.ErrTeamNotFound
	}
	delete(r.db.teams, id)
	for sid, st := range r.db.standings {
		if st.TeamID == id {
			delete(r.db.standings, sid)
		}
	}
	return nil
}

// --- matches ---

type memMatchRepo struct{ db *memDB }

func (r memMatchRepo) Create(_ context.Context, _ repositories.SQLExecutor, m *models.Match) error {
	if err := r.db.fail("CreateMatch"); err != nil {
		return err
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	m.ID = r.db.id()
	m.CreatedAt = r.db.tick()
	r.db.matches[m.ID] = cloneMatch(m)
	return nil
}

func (r memMatchRepo) BatchCreate(ctx context.Context, exec repositories.SQLExecutor, matches []*models.Match) error {
	for _, m := range matches {
		if err := r.Create(ctx, exec, m); err != nil {
			return err
		}
	}
	return nil
}

func (r memMatchRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Match, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	m, ok := r.db.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	return cloneMatch(m), nil
}

func (r memMatchRepo) List(_ context.Context, _ repositories.SQLExecutor, f repositories.ListMatchesFilter) ([]*models.Match, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]*models.Match, 0)
	for _, m := range r.db.matches {
		if f.TournamentID != nil && m.TournamentID != *f.TournamentID {
			continue
		}
		if f.SeriesID != nil && m.SeriesID != *f.SeriesID {
			continue
		}
		if f.TeamID != nil && !m.Involves(*f.TeamID) {
			continue
		}
		if f.CompletedOnly && !m.Decided() {
			continue
		}
		out = append(out, cloneMatch(m))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memMatchRepo) Update(_ context.Context, _ repositories.SQLExecutor, m *models.Match) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	existing, ok := r.db.matches[m.ID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	c := cloneMatch(m)
	c.CreatedAt = existing.CreatedAt
	r.db.matches[m.ID] = c
	return nil
}

// --- standings ---

type memStandingRepo struct{ db *memDB }

func (r memStandingRepo) find(teamID, seriesID, tournamentID int) *models.Standing {
	for _, s := range r.db.standings {
		if s.TeamID == teamID && s.SeriesID == seriesID && s.TournamentID == tournamentID {
			return s
		}
	}
	return nil
}

func (r memStandingRepo) insert(teamID, seriesID, tournamentID int) *models.Standing {
	s := &models.Standing{ID: r.db.id(), TeamID: teamID, SeriesID: seriesID, TournamentID: tournamentID, UpdatedAt: r.db.tick()}
	r.db.standings[s.ID] = s
	return s
}

func (r memStandingRepo) GetOrCreate(_ context.Context, _ repositories.SQLExecutor, teamID, seriesID, tournamentID int) (*models.Standing, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s := r.find(teamID, seriesID, tournamentID)
	if s == nil {
		s = r.insert(teamID, seriesID, tournamentID)
	}
	return cloneStanding(s), nil
}

func (r memStandingRepo) Update(_ context.Context, _ repositories.SQLExecutor, s *models.Standing) error {
	if err := r.db.fail("UpdateStanding"); err != nil {
		return err
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.standings[s.ID]; !ok {
		return repositories.ErrStandingNotFound
	}
	r.db.standings[s.ID] = cloneStanding(s)
	return nil
}

func (r memStandingRepo) EnsureSeeded(_ context.Context, _ repositories.SQLExecutor, teamIDs []int, seriesID, tournamentID int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, id := range teamIDs {
		if r.find(id, seriesID, tournamentID) == nil {
			r.insert(id, seriesID, tournamentID)
		}
	}
	return nil
}

func (r memStandingRepo) BatchUpsert(_ context.Context, _ repositories.SQLExecutor, rows []*models.Standing) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, row := range rows {
		existing := r.find(row.TeamID, row.SeriesID, row.TournamentID)
		if existing == nil {
			existing = r.insert(row.TeamID, row.SeriesID, row.TournamentID)
		}
		row.ID = existing.ID
		r.db.standings[row.ID] = cloneStanding(row)
	}
	return nil
}

func (r memStandingRepo) List(_ context.Context, _ repositories.SQLExecutor, f repositories.ListStandingsFilter) ([]*models.Standing, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]*models.Standing, 0)
	for _, s := range r.db.standings {
		if f.TournamentID != nil && s.TournamentID != *f.TournamentID {
			continue
		}
		if f.SeriesID != nil && s.SeriesID != *f.SeriesID {
			continue
		}
		out = append(out, cloneStanding(s))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SeriesID != out[j].SeriesID {
			return out[i].SeriesID < out[j].SeriesID
		}
		return out[i].TeamID < out[j].TeamID
	})
	return out, nil
}

// --- users ---

type memUserRepo struct{ db *memDB }

func (r memUserRepo) Create(_ context.Context, _ repositories.SQLExecutor, u *models.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return repositories.ErrUserEmailConflict
		}
	}
	u.ID = r.db.id()
	u.CreatedAt = r.db.tick()
	r.db.users[u.ID] = identity(u)
	return nil
}

func (r memUserRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return identity(u), nil
}

func (r memUserRepo) GetByEmail(_ context.Context, _ repositories.SQLExecutor, email string) (*models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if strings.EqualFold(u.Email, email) {
			return identity(u), nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

// --- object storage ---

type memUploader struct {
	mu      sync.Mutex
	objects map[string][]byte
	err     error
}

func (u *memUploader) Upload(_ context.Context, key, _ string, reader io.Reader) (*storage.UploadResult, error) {
	if u.err != nil {
		return nil, u.err
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.objects == nil {
		u.objects = map[string][]byte{}
	}
	u.objects[key] = body
	return &storage.UploadResult{Key: key, Location: u.GetPublicURL(key)}, nil
}

func (u *memUploader) Delete(_ context.Context, key string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.objects, key)
	return nil
}

func (u *memUploader) GetPublicURL(key string) string { return "https://files.test/" + key }

// --- wiring ---

type testEnv struct {
	db   *memDB
	tx   *memTxManager
	up   *memUploader
	ctx  context.Context
	seed *models.Category

	categories  CategoryService
	tournaments TournamentService
	series      SeriesService
	teams       TeamService
	matches     MatchService
	standings   StandingService
	bracket     BracketService
	auth        AuthService
}

func newTestEnv() *testEnv {
	db := newMemDB()
	tx := &memTxManager{db: db}
	up := &memUploader{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	categoryRepo := memCategoryRepo{db}
	tournamentRepo := memTournamentRepo{db}
	seriesRepo := memSeriesRepo{db}
	teamRepo := memTeamRepo{db}
	matchRepo := memMatchRepo{db}
	standingRepo := memStandingRepo{db}

	env := &testEnv{
		db:          db,
		tx:          tx,
		up:          up,
		ctx:         context.Background(),
		categories:  NewCategoryService(categoryRepo),
		tournaments: NewTournamentService(tournamentRepo, categoryRepo, seriesRepo, teamRepo, matchRepo, standingRepo, tx, up, logger),
		series:      NewSeriesService(tournamentRepo, categoryRepo, seriesRepo, teamRepo, matchRepo, logger),
		teams:       NewTeamService(tournamentRepo, seriesRepo, teamRepo, matchRepo, standingRepo, tx, logger),
		matches:     NewMatchService(tournamentRepo, seriesRepo, teamRepo, matchRepo, standingRepo, tx, logger),
		standings:   NewStandingService(tournamentRepo, seriesRepo, teamRepo, matchRepo, standingRepo, tx, logger),
		bracket:     NewBracketService(tournamentRepo, seriesRepo, teamRepo, matchRepo, standingRepo, tx, logger),
		auth:        NewAuthService(memUserRepo{db}),
	}
	seed, err := env.categories.CreateCategory(env.ctx, string(models.CategoryMixto))
	if err != nil {
		panic(err)
	}
	env.seed = seed
	return env
}

func (e *testEnv) counts() [4]int {
	e.db.mu.Lock()
	defer e.db.mu.Unlock()
	return [4]int{len(e.db.series), len(e.db.teams), len(e.db.matches), len(e.db.standings)}
}
