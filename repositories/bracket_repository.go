package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/tournament-sync/models"
	"github.com/Dosada05/tournament-sync/utils"
)

var ErrBracketNotFound = errors.New("bracket not found")

type BracketRepository interface {
	Create(ctx context.Context, b models.Bracket) (models.Bracket, error)
	Update(ctx context.Context, b models.Bracket) (models.Bracket, error)
	Delete(ctx context.Context, id string) (int64, error)
	CreateMany(ctx context.Context, brackets []models.Bracket) ([]models.Bracket, error)
	DeleteAllForTournament(ctx context.Context, tournamentID string) (int64, error)
	ListByTournament(ctx context.Context, tournamentID string) ([]models.Bracket, error)
}

type postgresBracketRepository struct {
	db *sql.DB
}

func NewPostgresBracketRepository(db *sql.DB) BracketRepository {
	return &postgresBracketRepository{db: db}
}

var bracketColumns = []string{
	"id", "div_id", "squad_id", "fee", "first", "second", "admin", "games", "players", "sort_order",
}

func bracketValues(b models.Bracket) []interface{} {
	return []interface{}{
		b.ID, b.DivisionID, b.SquadID, moneyValue(b.Fee), moneyValue(b.FirstPlace), moneyValue(b.SecondPlace), moneyValue(b.Admin),
		b.Games, b.PlayersPerBracket, b.SortOrder,
	}
}

func (r *postgresBracketRepository) Create(ctx context.Context, b models.Bracket) (models.Bracket, error) {
	b.ID = assignID(b.ID, utils.TagBracket)
	query := `
		INSERT INTO brackets (id, div_id, squad_id, fee, first, second, admin, games, players, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	if _, err := r.db.ExecContext(ctx, query, bracketValues(b)...); err != nil {
		return models.Bracket{}, fmt.Errorf("failed to create bracket: %w", handlePqError(err))
	}
	return b, nil
}

func (r *postgresBracketRepository) Update(ctx context.Context, b models.Bracket) (models.Bracket, error) {
	query := `
		UPDATE brackets SET
			div_id = $2,
			squad_id = $3,
			fee = $4,
			first = $5,
			second = $6,
			admin = $7,
			games = $8,
			players = $9,
			sort_order = $10
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, bracketValues(b)...)
	if err != nil {
		return models.Bracket{}, fmt.Errorf("failed to update bracket %s: %w", b.ID, handlePqError(err))
	}
	if err := checkAffectedRows(result, ErrBracketNotFound); err != nil {
		return models.Bracket{}, err
	}
	return b, nil
}

func (r *postgresBracketRepository) Delete(ctx context.Context, id string) (int64, error) {
	return execCount(ctx, r.db, `DELETE FROM brackets WHERE id = $1`, id)
}

func (r *postgresBracketRepository) CreateMany(ctx context.Context, brackets []models.Bracket) ([]models.Bracket, error) {
	created := make([]models.Bracket, len(brackets))
	rows := make([][]interface{}, len(brackets))
	for i, b := range brackets {
		b.ID = assignID(b.ID, utils.TagBracket)
		created[i] = b
		rows[i] = bracketValues(b)
	}
	if err := copyIn(ctx, r.db, "brackets", bracketColumns, rows); err != nil {
		return nil, err
	}
	return created, nil
}

func (r *postgresBracketRepository) DeleteAllForTournament(ctx context.Context, tournamentID string) (int64, error) {
	query := `DELETE FROM brackets WHERE div_id IN (SELECT id FROM divisions WHERE tournament_id = $1)`
	return execCount(ctx, r.db, query, tournamentID)
}

func (r *postgresBracketRepository) ListByTournament(ctx context.Context, tournamentID string) ([]models.Bracket, error) {
	query := `
		SELECT b.id, b.div_id, b.squad_id, b.fee, b.first, b.second, b.admin, b.games, b.players, b.sort_order
		FROM brackets b
		JOIN divisions d ON d.id = b.div_id
		WHERE d.tournament_id = $1
		ORDER BY b.sort_order, b.id`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list brackets: %w", err)
	}
	defer rows.Close()

	brackets := make([]models.Bracket, 0)
	for rows.Next() {
		var b models.Bracket
		err := rows.Scan(&b.ID, &b.DivisionID, &b.SquadID, &b.Fee, &b.FirstPlace, &b.SecondPlace,
			&b.Admin, &b.Games, &b.PlayersPerBracket, &b.SortOrder)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bracket: %w", err)
		}
		brackets = append(brackets, b)
	}
	return brackets, rows.Err()
}
