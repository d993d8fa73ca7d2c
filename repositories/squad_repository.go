package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/tournament-sync/models"
	"github.com/Dosada05/tournament-sync/utils"
)

var ErrSquadNotFound = errors.New("squad not found")

type SquadRepository interface {
	Create(ctx context.Context, s models.Squad) (models.Squad, error)
	Update(ctx context.Context, s models.Squad) (models.Squad, error)
	Delete(ctx context.Context, id string) (int64, error)
	CreateMany(ctx context.Context, squads []models.Squad) ([]models.Squad, error)
	DeleteAllForTournament(ctx context.Context, tournamentID string) (int64, error)
	ListByTournament(ctx context.Context, tournamentID string) ([]models.Squad, error)
}

type postgresSquadRepository struct {
	db *sql.DB
}

func NewPostgresSquadRepository(db *sql.DB) SquadRepository {
	return &postgresSquadRepository{db: db}
}

var squadColumns = []string{"id", "event_id", "name", "games", "starting_lane", "lane_count", "squad_date", "squad_time", "sort_order"}

// squad_date и squad_time хранятся как DATE/TIME; пустая строка -> NULL.
func squadValues(s models.Squad) []interface{} {
	return []interface{}{s.ID, s.EventID, s.Name, s.Games, s.StartingLane, s.LaneCount, nullIfEmpty(s.SquadDate), nullIfEmpty(s.SquadTime), s.SortOrder}
}

func (r *postgresSquadRepository) Create(ctx context.Context, s models.Squad) (models.Squad, error) {
	s.ID = assignID(s.ID, utils.TagSquad)
	query := `
		INSERT INTO squads (id, event_id, name, games, starting_lane, lane_count, squad_date, squad_time, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	if _, err := r.db.ExecContext(ctx, query, squadValues(s)...); err != nil {
		return models.Squad{}, fmt.Errorf("failed to create squad: %w", handlePqError(err))
	}
	return s, nil
}

func (r *postgresSquadRepository) Update(ctx context.Context, s models.Squad) (models.Squad, error) {
	query := `
		UPDATE squads SET
			event_id = $2,
			name = $3,
			games = $4,
			starting_lane = $5,
			lane_count = $6,
			squad_date = $7,
			squad_time = $8,
			sort_order = $9
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, squadValues(s)...)
	if err != nil {
		return models.Squad{}, fmt.Errorf("failed to update squad %s: %w", s.ID, handlePqError(err))
	}
	if err := checkAffectedRows(result, ErrSquadNotFound); err != nil {
		return models.Squad{}, err
	}
	return s, nil
}

func (r *postgresSquadRepository) Delete(ctx context.Context, id string) (int64, error) {
	return execCount(ctx, r.db, `DELETE FROM squads WHERE id = $1`, id)
}

func (r *postgresSquadRepository) CreateMany(ctx context.Context, squads []models.Squad) ([]models.Squad, error) {
	created := make([]models.Squad, len(squads))
	rows := make([][]interface{}, len(squads))
	for i, s := range squads {
		s.ID = assignID(s.ID, utils.TagSquad)
		created[i] = s
		rows[i] = squadValues(s)
	}
	if err := copyIn(ctx, r.db, "squads", squadColumns, rows); err != nil {
		return nil, err
	}
	return created, nil
}

func (r *postgresSquadRepository) DeleteAllForTournament(ctx context.Context, tournamentID string) (int64, error) {
	query := `DELETE FROM squads WHERE event_id IN (SELECT id FROM events WHERE tournament_id = $1)`
	return execCount(ctx, r.db, query, tournamentID)
}

func (r *postgresSquadRepository) ListByTournament(ctx context.Context, tournamentID string) ([]models.Squad, error) {
	query := `
		SELECT s.id, s.event_id, s.name, s.games, s.starting_lane, s.lane_count,
			COALESCE(to_char(s.squad_date, 'YYYY-MM-DD'), ''),
			COALESCE(to_char(s.squad_time, 'HH24:MI'), ''),
			s.sort_order
		FROM squads s
		JOIN events e ON e.id = s.event_id
		WHERE e.tournament_id = $1
		ORDER BY s.sort_order, s.id`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list squads: %w", err)
	}
	defer rows.Close()

	squads := make([]models.Squad, 0)
	for rows.Next() {
		var s models.Squad
		if err := rows.Scan(&s.ID, &s.EventID, &s.Name, &s.Games, &s.StartingLane, &s.LaneCount, &s.SquadDate, &s.SquadTime, &s.SortOrder); err != nil {
			return nil, fmt.Errorf("failed to scan squad: %w", err)
		}
		squads = append(squads, s)
	}
	return squads, rows.Err()
}
