package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/nayan91296/TT-scrore-board-sub000/models"
	"github.com/nayan91296/TT-scrore-board-sub000/repositories"
)

// memStore is an in-memory stand-in for the postgres repositories. It
// returns copies from reads so that services observe persisted state,
// not shared pointers.
type memStore struct {
	mu          sync.Mutex
	nextID      int
	tournaments map[int]*models.Tournament
	teams       map[int]*models.Team
	matches     map[int]*models.Match
}

func newMemStore() *memStore {
	return &memStore{
		tournaments: make(map[int]*models.Tournament),
		teams:       make(map[int]*models.Team),
		matches:     make(map[int]*models.Match),
	}
}

func (s *memStore) id() int {
	s.nextID++
	return s.nextID
}

func copyTournament(t *models.Tournament) *models.Tournament {
	c := *t
	return &c
}

func copyTeam(t *models.Team) *models.Team {
	c := *t
	return &c
}

func copyMatch(m *models.Match) *models.Match {
	c := *m
	c.Sets = append([]models.SetScore(nil), m.Sets...)
	return &c
}

type memTournamentRepo struct{ s *memStore }

func (r *memTournamentRepo) Create(_ context.Context, t *models.Tournament) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.tournaments {
		if existing.Name == t.Name {
			return repositories.ErrTournamentNameConflict
		}
	}
	t.ID = r.s.id()
	t.CreatedAt = time.Now()
	r.s.tournaments[t.ID] = copyTournament(t)
	return nil
}

func (r *memTournamentRepo) GetByID(_ context.Context, id int) (*models.Tournament, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	return copyTournament(t), nil
}

func (r *memTournamentRepo) List(_ context.Context) ([]*models.Tournament, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*models.Tournament, 0, len(r.s.tournaments))
	for _, t := range r.s.tournaments {
		out = append(out, copyTournament(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memTournamentRepo) update(id int, fn func(*models.Tournament)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	fn(t)
	return nil
}

func (r *memTournamentRepo) UpdateName(_ context.Context, id int, name string) error {
	return r.update(id, func(t *models.Tournament) { t.Name = name })
}

func (r *memTournamentRepo) UpdateStatus(_ context.Context, id int, status models.TournamentStatus) error {
	return r.update(id, func(t *models.Tournament) { t.Status = status })
}

func (r *memTournamentRepo) SetSemifinals(_ context.Context, id int, semifinal1ID, semifinal2ID int) error {
	return r.update(id, func(t *models.Tournament) {
		s1, s2 := semifinal1ID, semifinal2ID
		t.Semifinal1ID = &s1
		t.Semifinal2ID = &s2
	})
}

func (r *memTournamentRepo) ClearSemifinals(_ context.Context, id int) error {
	return r.update(id, func(t *models.Tournament) {
		t.Semifinal1ID = nil
		t.Semifinal2ID = nil
	})
}

func (r *memTournamentRepo) SetSemifinal1(_ context.Context, id int, matchID *int) error {
	return r.update(id, func(t *models.Tournament) { t.Semifinal1ID = matchID })
}

func (r *memTournamentRepo) SetSemifinal2(_ context.Context, id int, matchID *int) error {
	return r.update(id, func(t *models.Tournament) { t.Semifinal2ID = matchID })
}

func (r *memTournamentRepo) SetFinal(_ context.Context, id int, finalID *int) error {
	return r.update(id, func(t *models.Tournament) { t.FinalID = finalID })
}

func (r *memTournamentRepo) SetWinnerIfUnset(_ context.Context, id int, winnerTeamID int) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tournaments[id]
	if !ok {
		return false, repositories.ErrTournamentNotFound
	}
	if t.WinnerTeamID != nil {
		return false, nil
	}
	winner := winnerTeamID
	t.WinnerTeamID = &winner
	t.Status = models.TournamentStatusCompleted
	return true, nil
}

func (r *memTournamentRepo) ClearWinner(_ context.Context, id int) error {
	return r.update(id, func(t *models.Tournament) {
		t.WinnerTeamID = nil
		t.Status = models.TournamentStatusOngoing
	})
}

func (r *memTournamentRepo) Delete(_ context.Context, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tournaments[id]; !ok {
		return repositories.ErrTournamentNotFound
	}
	delete(r.s.tournaments, id)
	return nil
}

type memTeamRepo struct{ s *memStore }

func (r *memTeamRepo) Create(_ context.Context, team *models.Team) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.teams {
		if existing.TournamentID == team.TournamentID && existing.Name == team.Name {
			return repositories.ErrTeamNameConflict
		}
	}
	team.ID = r.s.id()
	team.CreatedAt = time.Now()
	r.s.teams[team.ID] = copyTeam(team)
	return nil
}

func (r *memTeamRepo) GetByID(_ context.Context, id int) (*models.Team, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	team, ok := r.s.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	return copyTeam(team), nil
}

func (r *memTeamRepo) ListByTournament(_ context.Context, tournamentID int) ([]*models.Team, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*models.Team, 0)
	for _, team := range r.s.teams {
		if team.TournamentID == tournamentID {
			out = append(out, copyTeam(team))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memTeamRepo) UpdateName(_ context.Context, id int, name string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	team, ok := r.s.teams[id]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	team.Name = name
	return nil
}

func (r *memTeamRepo) UpdateLogoKey(_ context.Context, id int, logoKey *string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	team, ok := r.s.teams[id]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	team.LogoKey = logoKey
	return nil
}

func (r *memTeamRepo) ApplyStatDelta(_ context.Context, id int, played, won, lost, points int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	team, ok := r.s.teams[id]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	team.MatchesPlayed = floorZero(team.MatchesPlayed + played)
	team.MatchesWon = floorZero(team.MatchesWon + won)
	team.MatchesLost = floorZero(team.MatchesLost + lost)
	team.Points = floorZero(team.Points + points)
	return nil
}

func floorZero(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

func (r *memTeamRepo) Delete(_ context.Context, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.teams[id]; !ok {
		return repositories.ErrTeamNotFound
	}
	delete(r.s.teams, id)
	return nil
}

type memMatchRepo struct{ s *memStore }

func (r *memMatchRepo) Create(_ context.Context, match *models.Match) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	match.ID = r.s.id()
	match.CreatedAt = time.Now()
	r.s.matches[match.ID] = copyMatch(match)
	return nil
}

func (r *memMatchRepo) GetByID(_ context.Context, id int) (*models.Match, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	match, ok := r.s.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	return copyMatch(match), nil
}

func (r *memMatchRepo) ListByTournament(_ context.Context, tournamentID int, matchType *models.MatchType, status *models.MatchStatus) ([]*models.Match, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*models.Match, 0)
	for _, match := range r.s.matches {
		if match.TournamentID != tournamentID {
			continue
		}
		if matchType != nil && match.Type != *matchType {
			continue
		}
		if status != nil && match.Status != *status {
			continue
		}
		out = append(out, copyMatch(match))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memMatchRepo) UpdateStatus(_ context.Context, id int, status models.MatchStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	match, ok := r.s.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	match.Status = status
	return nil
}

func (r *memMatchRepo) UpdateDate(_ context.Context, id int, date time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	match, ok := r.s.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	match.MatchDate = date
	return nil
}

func (r *memMatchRepo) SetTeam2(_ context.Context, id int, teamID int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	match, ok := r.s.matches[id]
	if !ok || match.Team2ID != nil {
		return repositories.ErrMatchNotFound
	}
	team2 := teamID
	match.Team2ID = &team2
	return nil
}

func (r *memMatchRepo) CompleteMatch(_ context.Context, id int, winnerTeamID int) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	match, ok := r.s.matches[id]
	if !ok {
		return false, repositories.ErrMatchNotFound
	}
	if match.Status == models.MatchStatusCompleted {
		return false, nil
	}
	winner := winnerTeamID
	match.Status = models.MatchStatusCompleted
	match.WinnerTeamID = &winner
	return true, nil
}

func (r *memMatchRepo) UpsertSet(_ context.Context, matchID, setNumber, team1Score, team2Score int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	match, ok := r.s.matches[matchID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	for i, set := range match.Sets {
		if set.SetNumber == setNumber {
			match.Sets[i].Team1Score = team1Score
			match.Sets[i].Team2Score = team2Score
			return nil
		}
	}
	match.Sets = append(match.Sets, models.SetScore{SetNumber: setNumber, Team1Score: team1Score, Team2Score: team2Score})
	match.SortSets()
	return nil
}

func (r *memMatchRepo) CountByTournamentAndType(_ context.Context, tournamentID int, matchType models.MatchType) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	count := 0
	for _, match := range r.s.matches {
		if match.TournamentID == tournamentID && match.Type == matchType {
			count++
		}
	}
	return count, nil
}

func (r *memMatchRepo) DeleteByTournamentAndType(_ context.Context, tournamentID int, matchType models.MatchType) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	deleted := 0
	for id, match := range r.s.matches {
		if match.TournamentID == tournamentID && match.Type == matchType {
			delete(r.s.matches, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *memMatchRepo) Delete(_ context.Context, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.matches[id]; !ok {
		return repositories.ErrMatchNotFound
	}
	delete(r.s.matches, id)
	return nil
}

var (
	_ repositories.TournamentRepository = (*memTournamentRepo)(nil)
	_ repositories.TeamRepository       = (*memTeamRepo)(nil)
	_ repositories.MatchRepository      = (*memMatchRepo)(nil)
)
