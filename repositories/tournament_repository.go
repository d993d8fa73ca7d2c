package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/tournament-sync/models"
	"github.com/Dosada05/tournament-sync/utils"
	"github.com/lib/pq"
)

var (
	ErrTournamentNotFound     = errors.New("tournament not found")
	ErrTournamentNameConflict = errors.New("tournament name conflict for this organizer")
	ErrTournamentInvalidOrg   = errors.New("invalid organizer reference")
)

type TournamentRepository interface {
	Create(ctx context.Context, t models.Tournament) (models.Tournament, error)
	GetByID(ctx context.Context, id string) (*models.Tournament, error)
	ListByOrganizer(ctx context.Context, organizerID int) ([]models.Tournament, error)
	Update(ctx context.Context, t models.Tournament) (models.Tournament, error)
	Delete(ctx context.Context, id string) (int64, error)
	UpdateLogoKey(ctx context.Context, id string, logoKey string) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

const tournamentColumns = `id, organizer_id, name, start_date, end_date, location, logo_key, created_at`

func (r *postgresTournamentRepository) Create(ctx context.Context, t models.Tournament) (models.Tournament, error) {
	t.ID = assignID(t.ID, utils.TagTournament)
	query := `
		INSERT INTO tournaments (id, organizer_id, name, start_date, end_date, location, logo_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		t.ID, t.OrganizerID, t.Name, t.StartDate, t.EndDate, t.Location, t.LogoKey,
	).Scan(&t.CreatedAt)
	if err != nil {
		return models.Tournament{}, r.handleTournamentError(err)
	}
	return t, nil
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id string) (*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE id = $1`

	t, err := scanTournament(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *postgresTournamentRepository) ListByOrganizer(ctx context.Context, organizerID int) ([]models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments
		WHERE organizer_id = $1
		ORDER BY start_date DESC, created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, organizerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		t, scanErr := scanTournament(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan tournament: %w", scanErr)
		}
		tournaments = append(tournaments, *t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return tournaments, nil
}

func (r *postgresTournamentRepository) Update(ctx context.Context, t models.Tournament) (models.Tournament, error) {
	query := `
		UPDATE tournaments SET
			name = $1,
			start_date = $2,
			end_date = $3,
			location = $4,
			logo_key = $5
		WHERE id = $6
		RETURNING organizer_id, created_at`
	// organizer_id не меняется при обновлении

	err := r.db.QueryRowContext(ctx, query,
		t.Name, t.StartDate, t.EndDate, t.Location, t.LogoKey, t.ID,
	).Scan(&t.OrganizerID, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Tournament{}, ErrTournamentNotFound
		}
		return models.Tournament{}, r.handleTournamentError(err)
	}
	return t, nil
}

func (r *postgresTournamentRepository) Delete(ctx context.Context, id string) (int64, error) {
	return execCount(ctx, r.db, `DELETE FROM tournaments WHERE id = $1`, id)
}

func (r *postgresTournamentRepository) UpdateLogoKey(ctx context.Context, id string, logoKey string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE tournaments SET logo_key = $1 WHERE id = $2`, logoKey, id)
	if err != nil {
		return fmt.Errorf("failed to update tournament logo key: %w", err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTournament(row rowScanner) (*models.Tournament, error) {
	var t models.Tournament
	err := row.Scan(&t.ID, &t.OrganizerID, &t.Name, &t.StartDate, &t.EndDate, &t.Location, &t.LogoKey, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *postgresTournamentRepository) handleTournamentError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			if pqErr.Constraint == "tournaments_organizer_id_name_key" {
				return ErrTournamentNameConflict
			}
		case "23503":
			if pqErr.Constraint == "tournaments_organizer_id_fkey" {
				return ErrTournamentInvalidOrg
			}
		}
	}
	return handlePqError(err)
}
