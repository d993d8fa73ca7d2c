package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/Dosada05/tournament-sync/models"
	"github.com/Dosada05/tournament-sync/repositories"
	"github.com/Dosada05/tournament-sync/utils"
)

// setupTestLogger creates a logger for testing
func setupTestLogger() *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelError, // Only show errors in tests
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// prefixOracle treats any "<tag>_<something>" as persisted, so tests can use
// short ids like "sqd_1".
type prefixOracle struct{}

func (prefixOracle) IsPersistedID(id string, tag utils.IDTag) bool {
	prefix := string(tag) + "_"
	return strings.HasPrefix(id, prefix) && len(id) > len(prefix)
}

// callLog records gateway calls across all fakes, in order.
type callLog struct {
	calls []string
}

func (l *callLog) add(format string, args ...any) {
	l.calls = append(l.calls, fmt.Sprintf(format, args...))
}

func (l *callLog) count(prefix string) int {
	n := 0
	for _, c := range l.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

// fakeGateway is an in-memory EntityGateway that records its calls.
type fakeGateway[T SyncRecord[T]] struct {
	name string
	tag  utils.IDTag
	log  *callLog
	seq  int

	// fail maps an operation name (OpCreate, ...) to the error it returns.
	fail map[string]error
	// deleted maps an id to the row count Delete reports; default 1.
	deleted map[string]int64
	// stored is what ListByTournament returns.
	stored  []T
	listErr error
}

func newFakeGateway[T SyncRecord[T]](name string, tag utils.IDTag, log *callLog) *fakeGateway[T] {
	return &fakeGateway[T]{
		name:    name,
		tag:     tag,
		log:     log,
		fail:    map[string]error{},
		deleted: map[string]int64{},
	}
}

func (g *fakeGateway[T]) nextID() string {
	g.seq++
	return fmt.Sprintf("%s_new%d", g.tag, g.seq)
}

func (g *fakeGateway[T]) Create(_ context.Context, rec T) (T, error) {
	g.log.add("%s.create(%s)", g.name, rec.GetID())
	if err := g.fail[OpCreate]; err != nil {
		var zero T
		return zero, err
	}
	return rec.WithID(g.nextID()), nil
}

func (g *fakeGateway[T]) Update(_ context.Context, rec T) (T, error) {
	g.log.add("%s.update(%s)", g.name, rec.GetID())
	if err := g.fail[OpUpdate]; err != nil {
		var zero T
		return zero, err
	}
	return rec, nil
}

func (g *fakeGateway[T]) Delete(_ context.Context, id string) (int64, error) {
	g.log.add("%s.delete(%s)", g.name, id)
	if err := g.fail[OpDelete]; err != nil {
		return -1, err
	}
	if n, ok := g.deleted[id]; ok {
		return n, nil
	}
	return 1, nil
}

func (g *fakeGateway[T]) CreateMany(_ context.Context, recs []T) ([]T, error) {
	g.log.add("%s.create_many(%d)", g.name, len(recs))
	if err := g.fail[OpCreateMany]; err != nil {
		return nil, err
	}
	out := make([]T, len(recs))
	for i, rec := range recs {
		out[i] = rec.WithID(g.nextID())
	}
	return out, nil
}

func (g *fakeGateway[T]) DeleteAllForTournament(_ context.Context, tournamentID string) (int64, error) {
	g.log.add("%s.delete_all(%s)", g.name, tournamentID)
	if err := g.fail[OpDeleteAll]; err != nil {
		return -1, err
	}
	return 3, nil
}

func (g *fakeGateway[T]) ListByTournament(_ context.Context, tournamentID string) ([]T, error) {
	if g.listErr != nil {
		return nil, g.listErr
	}
	return g.stored, nil
}

// opUpdateLogo is only used by the tournament fake.
const opUpdateLogo = "update_logo"

type fakeTournamentGateway struct {
	log  *callLog
	fail map[string]error
	// byID backs GetByID and ListByOrganizer.
	byID map[string]models.Tournament
}

func (g *fakeTournamentGateway) GetByID(_ context.Context, id string) (*models.Tournament, error) {
	t, ok := g.byID[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	return &t, nil
}

func (g *fakeTournamentGateway) ListByOrganizer(_ context.Context, organizerID int) ([]models.Tournament, error) {
	out := make([]models.Tournament, 0)
	for _, t := range g.byID {
		if t.OrganizerID == organizerID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (g *fakeTournamentGateway) UpdateLogoKey(_ context.Context, id string, logoKey string) error {
	g.log.add("tournament.update_logo(%s)", id)
	if err := g.fail[opUpdateLogo]; err != nil {
		return err
	}
	t, ok := g.byID[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.LogoKey = logoKey
	g.byID[id] = t
	return nil
}

func (g *fakeTournamentGateway) Create(_ context.Context, t models.Tournament) (models.Tournament, error) {
	g.log.add("tournament.create(%s)", t.Name)
	if err := g.fail[OpCreate]; err != nil {
		return models.Tournament{}, err
	}
	t.ID = "tmt_new1"
	return t, nil
}

func (g *fakeTournamentGateway) Update(_ context.Context, t models.Tournament) (models.Tournament, error) {
	g.log.add("tournament.update(%s)", t.ID)
	if err := g.fail[OpUpdate]; err != nil {
		return models.Tournament{}, err
	}
	return t, nil
}

func (g *fakeTournamentGateway) Delete(_ context.Context, id string) (int64, error) {
	g.log.add("tournament.delete(%s)", id)
	if err := g.fail[OpDelete]; err != nil {
		return -1, err
	}
	return 1, nil
}

// fakeStores bundles one fake per level over a shared call log.
type fakeStores struct {
	log         *callLog
	tournaments *fakeTournamentGateway
	events      *fakeGateway[models.Event]
	divisions   *fakeGateway[models.Division]
	squads      *fakeGateway[models.Squad]
	lanes       *fakeGateway[models.Lane]
	pots        *fakeGateway[models.Pot]
	brackets    *fakeGateway[models.Bracket]
	eliminators *fakeGateway[models.Eliminator]
}

func newFakeStores() *fakeStores {
	log := &callLog{}
	return &fakeStores{
		log:         log,
		tournaments: &fakeTournamentGateway{log: log, fail: map[string]error{}, byID: map[string]models.Tournament{}},
		events:      newFakeGateway[models.Event]("events", utils.TagEvent, log),
		divisions:   newFakeGateway[models.Division]("divisions", utils.TagDivision, log),
		squads:      newFakeGateway[models.Squad]("squads", utils.TagSquad, log),
		lanes:       newFakeGateway[models.Lane]("lanes", utils.TagLane, log),
		pots:        newFakeGateway[models.Pot]("pots", utils.TagPot, log),
		brackets:    newFakeGateway[models.Bracket]("brackets", utils.TagBracket, log),
		eliminators: newFakeGateway[models.Eliminator]("eliminators", utils.TagEliminator, log),
	}
}

func (f *fakeStores) gateways() Gateways {
	return Gateways{
		Tournaments: f.tournaments,
		Events:      f.events,
		Divisions:   f.divisions,
		Squads:      f.squads,
		Lanes:       f.lanes,
		Pots:        f.pots,
		Brackets:    f.brackets,
		Eliminators: f.eliminators,
	}
}

func (f *fakeStores) stores() Stores {
	return Stores{
		Tournaments: f.tournaments,
		Events:      f.events,
		Divisions:   f.divisions,
		Squads:      f.squads,
		Lanes:       f.lanes,
		Pots:        f.pots,
		Brackets:    f.brackets,
		Eliminators: f.eliminators,
	}
}

// failAt makes the operation op of the given level fail.
func (f *fakeStores) failAt(level models.SaveLevel, op string, err error) {
	switch level {
	case models.LevelTournament:
		f.tournaments.fail[op] = err
	case models.LevelEvents:
		f.events.fail[op] = err
	case models.LevelDivisions:
		f.divisions.fail[op] = err
	case models.LevelSquads:
		f.squads.fail[op] = err
	case models.LevelLanes:
		f.lanes.fail[op] = err
	case models.LevelPots:
		f.pots.fail[op] = err
	case models.LevelBrackets:
		f.brackets.fail[op] = err
	case models.LevelEliminators:
		f.eliminators.fail[op] = err
	}
}
