package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/nayan91296/TT-scrore-board-sub000/models"
)

var (
	ErrMatchNotFound          = errors.New("match not found")
	ErrMatchTournamentInvalid = errors.New("match references an unknown tournament")
	ErrMatchTeamInvalid       = errors.New("match references an unknown team")
)

type MatchRepository interface {
	Create(ctx context.Context, match *models.Match) error
	// GetByID loads the match with its set scores ordered by set
	// number.
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID int, matchType *models.MatchType, status *models.MatchStatus) ([]*models.Match, error)
	UpdateStatus(ctx context.Context, id int, status models.MatchStatus) error
	UpdateDate(ctx context.Context, id int, date time.Time) error
	SetTeam2(ctx context.Context, id int, teamID int) error
	// CompleteMatch flips the match to completed and records the
	// winner, but only if the match is not completed already. It
	// reports whether this call performed the transition: the caller
	// applies downstream effects exactly when it did.
	CompleteMatch(ctx context.Context, id int, winnerTeamID int) (bool, error)
	UpsertSet(ctx context.Context, matchID, setNumber, team1Score, team2Score int) error
	CountByTournamentAndType(ctx context.Context, tournamentID int, matchType models.MatchType) (int, error)
	DeleteByTournamentAndType(ctx context.Context, tournamentID int, matchType models.MatchType) (int, error)
	Delete(ctx context.Context, id int) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `id, tournament_id, team1_id, team2_id, match_type, status, winner_team_id, match_date, created_at`

func (r *postgresMatchRepository) Create(ctx context.Context, match *models.Match) error {
	query := `
		INSERT INTO matches (tournament_id, team1_id, team2_id, match_type, status, match_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		match.TournamentID,
		match.Team1ID,
		match.Team2ID,
		match.Type,
		match.Status,
		match.MatchDate,
	).Scan(&match.ID, &match.CreatedAt)

	return r.handleMatchError(err)
}

func scanMatch(scanner interface{ Scan(...interface{}) error }, match *models.Match) error {
	return scanner.Scan(
		&match.ID,
		&match.TournamentID,
		&match.Team1ID,
		&match.Team2ID,
		&match.Type,
		&match.Status,
		&match.WinnerTeamID,
		&match.MatchDate,
		&match.CreatedAt,
	)
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	match := &models.Match{}
	err := scanMatch(r.db.QueryRowContext(ctx, query, id), match)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}

	sets, err := r.listSets(ctx, []int{id})
	if err != nil {
		return nil, err
	}
	match.Sets = sets[id]
	return match, nil
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, tournamentID int, matchType *models.MatchType, status *models.MatchStatus) ([]*models.Match, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + matchColumns + ` FROM matches WHERE tournament_id = $1`)

	args := []interface{}{tournamentID}
	placeholderIndex := 2

	if matchType != nil {
		queryBuilder.WriteString(" AND match_type = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *matchType)
		placeholderIndex++
	}
	if status != nil {
		queryBuilder.WriteString(" AND status = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *status)
		placeholderIndex++
	}
	queryBuilder.WriteString(" ORDER BY match_date ASC, id ASC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	ids := make([]int, 0)
	for rows.Next() {
		var match models.Match
		if scanErr := scanMatch(rows, &match); scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, &match)
		ids = append(ids, match.ID)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) > 0 {
		sets, setsErr := r.listSets(ctx, ids)
		if setsErr != nil {
			return nil, setsErr
		}
		for _, match := range matches {
			match.Sets = sets[match.ID]
		}
	}
	return matches, nil
}

// listSets fetches the sets of several matches in one round trip,
// keyed by match id and ordered by set number.
func (r *postgresMatchRepository) listSets(ctx context.Context, matchIDs []int) (map[int][]models.SetScore, error) {
	query := `
		SELECT match_id, set_number, team1_score, team2_score
		FROM match_sets
		WHERE match_id = ANY($1)
		ORDER BY match_id ASC, set_number ASC`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(matchIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sets := make(map[int][]models.SetScore)
	for rows.Next() {
		var matchID int
		var set models.SetScore
		if scanErr := rows.Scan(&matchID, &set.SetNumber, &set.Team1Score, &set.Team2Score); scanErr != nil {
			return nil, scanErr
		}
		sets[matchID] = append(sets[matchID], set)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return sets, nil
}

func (r *postgresMatchRepository) UpdateStatus(ctx context.Context, id int, status models.MatchStatus) error {
	result, err := r.db.ExecContext(ctx, `UPDATE matches SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateDate(ctx context.Context, id int, date time.Time) error {
	result, err := r.db.ExecContext(ctx, `UPDATE matches SET match_date = $1 WHERE id = $2`, date, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) SetTeam2(ctx context.Context, id int, teamID int) error {
	result, err := r.db.ExecContext(ctx, `UPDATE matches SET team2_id = $1 WHERE id = $2 AND team2_id IS NULL`, teamID, id)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) CompleteMatch(ctx context.Context, id int, winnerTeamID int) (bool, error) {
	query := `
		UPDATE matches
		SET status = $1, winner_team_id = $2
		WHERE id = $3 AND status <> $1`

	result, err := r.db.ExecContext(ctx, query, models.MatchStatusCompleted, winnerTeamID, id)
	if err != nil {
		return false, r.handleMatchError(err)
	}
	rowsAffected, err := checkRowsAffected(result)
	if err != nil {
		return false, err
	}
	return rowsAffected == 1, nil
}

func (r *postgresMatchRepository) UpsertSet(ctx context.Context, matchID, setNumber, team1Score, team2Score int) error {
	query := `
		INSERT INTO match_sets (match_id, set_number, team1_score, team2_score)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (match_id, set_number)
		DO UPDATE SET team1_score = EXCLUDED.team1_score, team2_score = EXCLUDED.team2_score`

	_, err := r.db.ExecContext(ctx, query, matchID, setNumber, team1Score, team2Score)
	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) CountByTournamentAndType(ctx context.Context, tournamentID int, matchType models.MatchType) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM matches WHERE tournament_id = $1 AND match_type = $2`
	err := r.db.QueryRowContext(ctx, query, tournamentID, matchType).Scan(&count)
	return count, err
}

func (r *postgresMatchRepository) DeleteByTournamentAndType(ctx context.Context, tournamentID int, matchType models.MatchType) (int, error) {
	query := `DELETE FROM matches WHERE tournament_id = $1 AND match_type = $2`
	result, err := r.db.ExecContext(ctx, query, tournamentID, matchType)
	if err != nil {
		return 0, err
	}
	rowsAffected, err := checkRowsAffected(result)
	return int(rowsAffected), err
}

func (r *postgresMatchRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM matches WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23503" { // foreign_key_violation
		switch pqErr.Constraint {
		case "matches_tournament_id_fkey":
			return ErrMatchTournamentInvalid
		case "matches_team1_id_fkey", "matches_team2_id_fkey", "matches_winner_team_id_fkey":
			return ErrMatchTeamInvalid
		case "match_sets_match_id_fkey":
			return ErrMatchNotFound
		}
	}
	return err
}
