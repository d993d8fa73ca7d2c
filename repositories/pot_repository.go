package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/tournament-sync/models"
	"github.com/Dosada05/tournament-sync/utils"
)

var ErrPotNotFound = errors.New("pot not found")

type PotRepository interface {
	Create(ctx context.Context, p models.Pot) (models.Pot, error)
	Update(ctx context.Context, p models.Pot) (models.Pot, error)
	Delete(ctx context.Context, id string) (int64, error)
	CreateMany(ctx context.Context, pots []models.Pot) ([]models.Pot, error)
	DeleteAllForTournament(ctx context.Context, tournamentID string) (int64, error)
	ListByTournament(ctx context.Context, tournamentID string) ([]models.Pot, error)
}

type postgresPotRepository struct {
	db *sql.DB
}

func NewPostgresPotRepository(db *sql.DB) PotRepository {
	return &postgresPotRepository{db: db}
}

var potColumns = []string{"id", "div_id", "squad_id", "pot_type", "fee", "sort_order"}

func potValues(p models.Pot) []interface{} {
	return []interface{}{p.ID, p.DivisionID, p.SquadID, string(p.PotType), moneyValue(p.Fee), p.SortOrder}
}

func (r *postgresPotRepository) Create(ctx context.Context, p models.Pot) (models.Pot, error) {
	p.ID = assignID(p.ID, utils.TagPot)
	query := `
		INSERT INTO pots (id, div_id, squad_id, pot_type, fee, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6)`

	if _, err := r.db.ExecContext(ctx, query, potValues(p)...); err != nil {
		return models.Pot{}, fmt.Errorf("failed to create pot: %w", handlePqError(err))
	}
	return p, nil
}

func (r *postgresPotRepository) Update(ctx context.Context, p models.Pot) (models.Pot, error) {
	query := `
		UPDATE pots SET div_id = $2, squad_id = $3, pot_type = $4, fee = $5, sort_order = $6
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, potValues(p)...)
	if err != nil {
		return models.Pot{}, fmt.Errorf("failed to update pot %s: %w", p.ID, handlePqError(err))
	}
	if err := checkAffectedRows(result, ErrPotNotFound); err != nil {
		return models.Pot{}, err
	}
	return p, nil
}

func (r *postgresPotRepository) Delete(ctx context.Context, id string) (int64, error) {
	return execCount(ctx, r.db, `DELETE FROM pots WHERE id = $1`, id)
}

func (r *postgresPotRepository) CreateMany(ctx context.Context, pots []models.Pot) ([]models.Pot, error) {
	created := make([]models.Pot, len(pots))
	rows := make([][]interface{}, len(pots))
	for i, p := range pots {
		p.ID = assignID(p.ID, utils.TagPot)
		created[i] = p
		rows[i] = potValues(p)
	}
	if err := copyIn(ctx, r.db, "pots", potColumns, rows); err != nil {
		return nil, err
	}
	return created, nil
}

func (r *postgresPotRepository) DeleteAllForTournament(ctx context.Context, tournamentID string) (int64, error) {
	query := `DELETE FROM pots WHERE div_id IN (SELECT id FROM divisions WHERE tournament_id = $1)`
	return execCount(ctx, r.db, query, tournamentID)
}

func (r *postgresPotRepository) ListByTournament(ctx context.Context, tournamentID string) ([]models.Pot, error) {
	query := `
		SELECT p.id, p.div_id, p.squad_id, p.pot_type, p.fee, p.sort_order
		FROM pots p
		JOIN divisions d ON d.id = p.div_id
		WHERE d.tournament_id = $1
		ORDER BY p.sort_order, p.id`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pots: %w", err)
	}
	defer rows.Close()

	pots := make([]models.Pot, 0)
	for rows.Next() {
		var p models.Pot
		if err := rows.Scan(&p.ID, &p.DivisionID, &p.SquadID, &p.PotType, &p.Fee, &p.SortOrder); err != nil {
			return nil, fmt.Errorf("failed to scan pot: %w", err)
		}
		pots = append(pots, p)
	}
	return pots, rows.Err()
}
