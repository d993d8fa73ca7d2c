package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/tournament-sync/models"
	"github.com/Dosada05/tournament-sync/utils"
)

var ErrEliminatorNotFound = errors.New("eliminator not found")

type EliminatorRepository interface {
	Create(ctx context.Context, e models.Eliminator) (models.Eliminator, error)
	Update(ctx context.Context, e models.Eliminator) (models.Eliminator, error)
	Delete(ctx context.Context, id string) (int64, error)
	CreateMany(ctx context.Context, elims []models.Eliminator) ([]models.Eliminator, error)
	DeleteAllForTournament(ctx context.Context, tournamentID string) (int64, error)
	ListByTournament(ctx context.Context, tournamentID string) ([]models.Eliminator, error)
}

type postgresEliminatorRepository struct {
	db *sql.DB
}

func NewPostgresEliminatorRepository(db *sql.DB) EliminatorRepository {
	return &postgresEliminatorRepository{db: db}
}

var elimColumns = []string{"id", "div_id", "squad_id", "fee", "start", "games", "sort_order"}

func elimValues(e models.Eliminator) []interface{} {
	return []interface{}{e.ID, e.DivisionID, e.SquadID, moneyValue(e.Fee), e.StartGame, e.Games, e.SortOrder}
}

func (r *postgresEliminatorRepository) Create(ctx context.Context, e models.Eliminator) (models.Eliminator, error) {
	e.ID = assignID(e.ID, utils.TagEliminator)
	query := `
		INSERT INTO elims (id, div_id, squad_id, fee, start, games, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	if _, err := r.db.ExecContext(ctx, query, elimValues(e)...); err != nil {
		return models.Eliminator{}, fmt.Errorf("failed to create eliminator: %w", handlePqError(err))
	}
	return e, nil
}

func (r *postgresEliminatorRepository) Update(ctx context.Context, e models.Eliminator) (models.Eliminator, error) {
	query := `
		UPDATE elims SET div_id = $2, squad_id = $3, fee = $4, start = $5, games = $6, sort_order = $7
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, elimValues(e)...)
	if err != nil {
		return models.Eliminator{}, fmt.Errorf("failed to update eliminator %s: %w", e.ID, handlePqError(err))
	}
	if err := checkAffectedRows(result, ErrEliminatorNotFound); err != nil {
		return models.Eliminator{}, err
	}
	return e, nil
}

func (r *postgresEliminatorRepository) Delete(ctx context.Context, id string) (int64, error) {
	return execCount(ctx, r.db, `DELETE FROM elims WHERE id = $1`, id)
}

func (r *postgresEliminatorRepository) CreateMany(ctx context.Context, elims []models.Eliminator) ([]models.Eliminator, error) {
	created := make([]models.Eliminator, len(elims))
	rows := make([][]interface{}, len(elims))
	for i, e := range elims {
		e.ID = assignID(e.ID, utils.TagEliminator)
		created[i] = e
		rows[i] = elimValues(e)
	}
	if err := copyIn(ctx, r.db, "elims", elimColumns, rows); err != nil {
		return nil, err
	}
	return created, nil
}

func (r *postgresEliminatorRepository) DeleteAllForTournament(ctx context.Context, tournamentID string) (int64, error) {
	query := `DELETE FROM elims WHERE div_id IN (SELECT id FROM divisions WHERE tournament_id = $1)`
	return execCount(ctx, r.db, query, tournamentID)
}

func (r *postgresEliminatorRepository) ListByTournament(ctx context.Context, tournamentID string) ([]models.Eliminator, error) {
	query := `
		SELECT el.id, el.div_id, el.squad_id, el.fee, el.start, el.games, el.sort_order
		FROM elims el
		JOIN divisions d ON d.id = el.div_id
		WHERE d.tournament_id = $1
		ORDER BY el.sort_order, el.id`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list eliminators: %w", err)
	}
	defer rows.Close()

	elims := make([]models.Eliminator, 0)
	for rows.Next() {
		var e models.Eliminator
		if err := rows.Scan(&e.ID, &e.DivisionID, &e.SquadID, &e.Fee, &e.StartGame, &e.Games, &e.SortOrder); err != nil {
			return nil, fmt.Errorf("failed to scan eliminator: %w", err)
		}
		elims = append(elims, e)
	}
	return elims, rows.Err()
}
