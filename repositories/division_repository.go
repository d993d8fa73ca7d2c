package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/tournament-sync/models"
	"github.com/Dosada05/tournament-sync/utils"
)

var ErrDivisionNotFound = errors.New("division not found")

type DivisionRepository interface {
	Create(ctx context.Context, d models.Division) (models.Division, error)
	Update(ctx context.Context, d models.Division) (models.Division, error)
	Delete(ctx context.Context, id string) (int64, error)
	CreateMany(ctx context.Context, divisions []models.Division) ([]models.Division, error)
	DeleteAllForTournament(ctx context.Context, tournamentID string) (int64, error)
	ListByTournament(ctx context.Context, tournamentID string) ([]models.Division, error)
}

type postgresDivisionRepository struct {
	db *sql.DB
}

func NewPostgresDivisionRepository(db *sql.DB) DivisionRepository {
	return &postgresDivisionRepository{db: db}
}

var divisionColumns = []string{"id", "tournament_id", "name", "hdcp_percent", "hdcp_from", "integer_hdcp", "hdcp_for", "sort_order"}

func divisionValues(d models.Division) []interface{} {
	return []interface{}{d.ID, d.TournamentID, d.Name, d.HdcpPercent, d.HdcpFrom, d.IntegerHdcp, string(d.HdcpFor), d.SortOrder}
}

func (r *postgresDivisionRepository) Create(ctx context.Context, d models.Division) (models.Division, error) {
	d.ID = assignID(d.ID, utils.TagDivision)
	query := `
		INSERT INTO divisions (id, tournament_id, name, hdcp_percent, hdcp_from, integer_hdcp, hdcp_for, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	if _, err := r.db.ExecContext(ctx, query, divisionValues(d)...); err != nil {
		return models.Division{}, fmt.Errorf("failed to create division: %w", handlePqError(err))
	}
	return d, nil
}

func (r *postgresDivisionRepository) Update(ctx context.Context, d models.Division) (models.Division, error) {
	query := `
		UPDATE divisions SET
			tournament_id = $2,
			name = $3,
			hdcp_percent = $4,
			hdcp_from = $5,
			integer_hdcp = $6,
			hdcp_for = $7,
			sort_order = $8
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, divisionValues(d)...)
	if err != nil {
		return models.Division{}, fmt.Errorf("failed to update division %s: %w", d.ID, handlePqError(err))
	}
	if err := checkAffectedRows(result, ErrDivisionNotFound); err != nil {
		return models.Division{}, err
	}
	return d, nil
}

func (r *postgresDivisionRepository) Delete(ctx context.Context, id string) (int64, error) {
	return execCount(ctx, r.db, `DELETE FROM divisions WHERE id = $1`, id)
}

func (r *postgresDivisionRepository) CreateMany(ctx context.Context, divisions []models.Division) ([]models.Division, error) {
	created := make([]models.Division, len(divisions))
	rows := make([][]interface{}, len(divisions))
	for i, d := range divisions {
		d.ID = assignID(d.ID, utils.TagDivision)
		created[i] = d
		rows[i] = divisionValues(d)
	}
	if err := copyIn(ctx, r.db, "divisions", divisionColumns, rows); err != nil {
		return nil, err
	}
	return created, nil
}

func (r *postgresDivisionRepository) DeleteAllForTournament(ctx context.Context, tournamentID string) (int64, error) {
	return execCount(ctx, r.db, `DELETE FROM divisions WHERE tournament_id = $1`, tournamentID)
}

func (r *postgresDivisionRepository) ListByTournament(ctx context.Context, tournamentID string) ([]models.Division, error) {
	query := `
		SELECT id, tournament_id, name, hdcp_percent, hdcp_from, integer_hdcp, hdcp_for, sort_order
		FROM divisions
		WHERE tournament_id = $1
		ORDER BY sort_order, id`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list divisions: %w", err)
	}
	defer rows.Close()

	divisions := make([]models.Division, 0)
	for rows.Next() {
		var d models.Division
		if err := rows.Scan(&d.ID, &d.TournamentID, &d.Name, &d.HdcpPercent, &d.HdcpFrom, &d.IntegerHdcp, &d.HdcpFor, &d.SortOrder); err != nil {
			return nil, fmt.Errorf("failed to scan division: %w", err)
		}
		divisions = append(divisions, d)
	}
	return divisions, rows.Err()
}
