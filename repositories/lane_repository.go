package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/tournament-sync/models"
	"github.com/Dosada05/tournament-sync/utils"
)

var ErrLaneNotFound = errors.New("lane not found")

type LaneRepository interface {
	Create(ctx context.Context, l models.Lane) (models.Lane, error)
	Update(ctx context.Context, l models.Lane) (models.Lane, error)
	Delete(ctx context.Context, id string) (int64, error)
	CreateMany(ctx context.Context, lanes []models.Lane) ([]models.Lane, error)
	DeleteAllForTournament(ctx context.Context, tournamentID string) (int64, error)
	ListByTournament(ctx context.Context, tournamentID string) ([]models.Lane, error)
}

type postgresLaneRepository struct {
	db *sql.DB
}

func NewPostgresLaneRepository(db *sql.DB) LaneRepository {
	return &postgresLaneRepository{db: db}
}

var laneColumns = []string{"id", "squad_id", "lane_number", "in_use"}

func laneValues(l models.Lane) []interface{} {
	return []interface{}{l.ID, l.SquadID, l.LaneNumber, l.InUse}
}

func (r *postgresLaneRepository) Create(ctx context.Context, l models.Lane) (models.Lane, error) {
	l.ID = assignID(l.ID, utils.TagLane)
	query := `INSERT INTO lanes (id, squad_id, lane_number, in_use) VALUES ($1, $2, $3, $4)`

	if _, err := r.db.ExecContext(ctx, query, laneValues(l)...); err != nil {
		return models.Lane{}, fmt.Errorf("failed to create lane: %w", handlePqError(err))
	}
	return l, nil
}

func (r *postgresLaneRepository) Update(ctx context.Context, l models.Lane) (models.Lane, error) {
	query := `UPDATE lanes SET squad_id = $2, lane_number = $3, in_use = $4 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, laneValues(l)...)
	if err != nil {
		return models.Lane{}, fmt.Errorf("failed to update lane %s: %w", l.ID, handlePqError(err))
	}
	if err := checkAffectedRows(result, ErrLaneNotFound); err != nil {
		return models.Lane{}, err
	}
	return l, nil
}

func (r *postgresLaneRepository) Delete(ctx context.Context, id string) (int64, error) {
	return execCount(ctx, r.db, `DELETE FROM lanes WHERE id = $1`, id)
}

func (r *postgresLaneRepository) CreateMany(ctx context.Context, lanes []models.Lane) ([]models.Lane, error) {
	created := make([]models.Lane, len(lanes))
	rows := make([][]interface{}, len(lanes))
	for i, l := range lanes {
		l.ID = assignID(l.ID, utils.TagLane)
		created[i] = l
		rows[i] = laneValues(l)
	}
	if err := copyIn(ctx, r.db, "lanes", laneColumns, rows); err != nil {
		return nil, err
	}
	return created, nil
}

func (r *postgresLaneRepository) DeleteAllForTournament(ctx context.Context, tournamentID string) (int64, error) {
	query := `
		DELETE FROM lanes WHERE squad_id IN (
			SELECT s.id FROM squads s
			JOIN events e ON e.id = s.event_id
			WHERE e.tournament_id = $1
		)`
	return execCount(ctx, r.db, query, tournamentID)
}

func (r *postgresLaneRepository) ListByTournament(ctx context.Context, tournamentID string) ([]models.Lane, error) {
	query := `
		SELECT l.id, l.squad_id, l.lane_number, l.in_use
		FROM lanes l
		JOIN squads s ON s.id = l.squad_id
		JOIN events e ON e.id = s.event_id
		WHERE e.tournament_id = $1
		ORDER BY s.sort_order, l.lane_number`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lanes: %w", err)
	}
	defer rows.Close()

	lanes := make([]models.Lane, 0)
	for rows.Next() {
		var l models.Lane
		if err := rows.Scan(&l.ID, &l.SquadID, &l.LaneNumber, &l.InUse); err != nil {
			return nil, fmt.Errorf("failed to scan lane: %w", err)
		}
		lanes = append(lanes, l)
	}
	return lanes, rows.Err()
}
