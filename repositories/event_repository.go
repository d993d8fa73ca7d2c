package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/tournament-sync/models"
	"github.com/Dosada05/tournament-sync/utils"
)

var ErrEventNotFound = errors.New("event not found")

type EventRepository interface {
	Create(ctx context.Context, e models.Event) (models.Event, error)
	Update(ctx context.Context, e models.Event) (models.Event, error)
	Delete(ctx context.Context, id string) (int64, error)
	CreateMany(ctx context.Context, events []models.Event) ([]models.Event, error)
	DeleteAllForTournament(ctx context.Context, tournamentID string) (int64, error)
	ListByTournament(ctx context.Context, tournamentID string) ([]models.Event, error)
}

type postgresEventRepository struct {
	db *sql.DB
}

func NewPostgresEventRepository(db *sql.DB) EventRepository {
	return &postgresEventRepository{db: db}
}

var eventColumns = []string{"id", "tournament_id", "name", "team_size", "games", "entry_fee", "added_money", "sort_order"}

func eventValues(e models.Event) []interface{} {
	return []interface{}{e.ID, e.TournamentID, e.Name, e.TeamSize, e.Games, moneyValue(e.EntryFee), moneyValue(e.AddedMoney), e.SortOrder}
}

func (r *postgresEventRepository) Create(ctx context.Context, e models.Event) (models.Event, error) {
	e.ID = assignID(e.ID, utils.TagEvent)
	query := `
		INSERT INTO events (id, tournament_id, name, team_size, games, entry_fee, added_money, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	if _, err := r.db.ExecContext(ctx, query, eventValues(e)...); err != nil {
		return models.Event{}, fmt.Errorf("failed to create event: %w", handlePqError(err))
	}
	return e, nil
}

func (r *postgresEventRepository) Update(ctx context.Context, e models.Event) (models.Event, error) {
	query := `
		UPDATE events SET
			tournament_id = $2,
			name = $3,
			team_size = $4,
			games = $5,
			entry_fee = $6,
			added_money = $7,
			sort_order = $8
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, eventValues(e)...)
	if err != nil {
		return models.Event{}, fmt.Errorf("failed to update event %s: %w", e.ID, handlePqError(err))
	}
	if err := checkAffectedRows(result, ErrEventNotFound); err != nil {
		return models.Event{}, err
	}
	return e, nil
}

func (r *postgresEventRepository) Delete(ctx context.Context, id string) (int64, error) {
	return execCount(ctx, r.db, `DELETE FROM events WHERE id = $1`, id)
}

func (r *postgresEventRepository) CreateMany(ctx context.Context, events []models.Event) ([]models.Event, error) {
	created := make([]models.Event, len(events))
	rows := make([][]interface{}, len(events))
	for i, e := range events {
		e.ID = assignID(e.ID, utils.TagEvent)
		created[i] = e
		rows[i] = eventValues(e)
	}
	if err := copyIn(ctx, r.db, "events", eventColumns, rows); err != nil {
		return nil, err
	}
	return created, nil
}

func (r *postgresEventRepository) DeleteAllForTournament(ctx context.Context, tournamentID string) (int64, error) {
	return execCount(ctx, r.db, `DELETE FROM events WHERE tournament_id = $1`, tournamentID)
}

func (r *postgresEventRepository) ListByTournament(ctx context.Context, tournamentID string) ([]models.Event, error) {
	query := `
		SELECT id, tournament_id, name, team_size, games, entry_fee, added_money, sort_order
		FROM events
		WHERE tournament_id = $1
		ORDER BY sort_order, id`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	events := make([]models.Event, 0)
	for rows.Next() {
		var e models.Event
		if err := rows.Scan(&e.ID, &e.TournamentID, &e.Name, &e.TeamSize, &e.Games, &e.EntryFee, &e.AddedMoney, &e.SortOrder); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
