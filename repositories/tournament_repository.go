package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/nayan91296/TT-scrore-board-sub000/models"
)

var (
	ErrTournamentNotFound     = errors.New("tournament not found")
	ErrTournamentNameConflict = errors.New("tournament name already in use")
)

type TournamentRepository interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context) ([]*models.Tournament, error)
	UpdateName(ctx context.Context, id int, name string) error
	UpdateStatus(ctx context.Context, id int, status models.TournamentStatus) error
	SetSemifinals(ctx context.Context, id int, semifinal1ID, semifinal2ID int) error
	ClearSemifinals(ctx context.Context, id int) error
	SetSemifinal1(ctx context.Context, id int, matchID *int) error
	SetSemifinal2(ctx context.Context, id int, matchID *int) error
	SetFinal(ctx context.Context, id int, finalID *int) error
	// SetWinnerIfUnset records the champion and completes the
	// tournament in one conditional write. It reports whether this
	// call performed the transition, which keeps the final-completion
	// cascade idempotent under retries.
	SetWinnerIfUnset(ctx context.Context, id int, winnerTeamID int) (bool, error)
	// ClearWinner undoes a recorded champion and reverts the
	// tournament to ongoing. Used when the deciding final is deleted.
	ClearWinner(ctx context.Context, id int) error
	Delete(ctx context.Context, id int) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

const tournamentColumns = `id, name, status, start_date, semifinal1_id, semifinal2_id, final_id, winner_team_id, created_at`

func (r *postgresTournamentRepository) Create(ctx context.Context, tournament *models.Tournament) error {
	query := `
		INSERT INTO tournaments (name, status, start_date)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		tournament.Name,
		tournament.Status,
		tournament.StartDate,
	).Scan(&tournament.ID, &tournament.CreatedAt)

	return r.handleTournamentError(err)
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE id = $1`

	tournament := &models.Tournament{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&tournament.ID,
		&tournament.Name,
		&tournament.Status,
		&tournament.StartDate,
		&tournament.Semifinal1ID,
		&tournament.Semifinal2ID,
		&tournament.FinalID,
		&tournament.WinnerTeamID,
		&tournament.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return tournament, nil
}

func (r *postgresTournamentRepository) List(ctx context.Context) ([]*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments ORDER BY start_date DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tournaments := make([]*models.Tournament, 0)
	for rows.Next() {
		var tournament models.Tournament
		if scanErr := rows.Scan(
			&tournament.ID,
			&tournament.Name,
			&tournament.Status,
			&tournament.StartDate,
			&tournament.Semifinal1ID,
			&tournament.Semifinal2ID,
			&tournament.FinalID,
			&tournament.WinnerTeamID,
			&tournament.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		tournaments = append(tournaments, &tournament)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return tournaments, nil
}

func (r *postgresTournamentRepository) UpdateName(ctx context.Context, id int, name string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE tournaments SET name = $1 WHERE id = $2`, name, id)
	if err != nil {
		return r.handleTournamentError(err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) UpdateStatus(ctx context.Context, id int, status models.TournamentStatus) error {
	result, err := r.db.ExecContext(ctx, `UPDATE tournaments SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) SetSemifinals(ctx context.Context, id int, semifinal1ID, semifinal2ID int) error {
	query := `UPDATE tournaments SET semifinal1_id = $1, semifinal2_id = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, semifinal1ID, semifinal2ID, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) ClearSemifinals(ctx context.Context, id int) error {
	query := `UPDATE tournaments SET semifinal1_id = NULL, semifinal2_id = NULL WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) SetSemifinal1(ctx context.Context, id int, matchID *int) error {
	result, err := r.db.ExecContext(ctx, `UPDATE tournaments SET semifinal1_id = $1 WHERE id = $2`, matchID, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) SetSemifinal2(ctx context.Context, id int, matchID *int) error {
	result, err := r.db.ExecContext(ctx, `UPDATE tournaments SET semifinal2_id = $1 WHERE id = $2`, matchID, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) SetFinal(ctx context.Context, id int, finalID *int) error {
	result, err := r.db.ExecContext(ctx, `UPDATE tournaments SET final_id = $1 WHERE id = $2`, finalID, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) SetWinnerIfUnset(ctx context.Context, id int, winnerTeamID int) (bool, error) {
	query := `
		UPDATE tournaments
		SET winner_team_id = $1, status = $2
		WHERE id = $3 AND winner_team_id IS NULL`

	result, err := r.db.ExecContext(ctx, query, winnerTeamID, models.TournamentStatusCompleted, id)
	if err != nil {
		return false, err
	}
	rowsAffected, err := checkRowsAffected(result)
	if err != nil {
		return false, err
	}
	return rowsAffected == 1, nil
}

func (r *postgresTournamentRepository) ClearWinner(ctx context.Context, id int) error {
	query := `UPDATE tournaments SET winner_team_id = NULL, status = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, models.TournamentStatusOngoing, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tournaments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) handleTournamentError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation
		if pqErr.Constraint == "tournaments_name_key" {
			return ErrTournamentNameConflict
		}
	}
	return err
}
