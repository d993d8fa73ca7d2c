package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Dosada05/tournament-sync/models"
	"github.com/Dosada05/tournament-sync/utils"
)

// TournamentGateway is the remote store for the root record.
type TournamentGateway interface {
	Create(ctx context.Context, t models.Tournament) (models.Tournament, error)
	Update(ctx context.Context, t models.Tournament) (models.Tournament, error)
	Delete(ctx context.Context, id string) (int64, error)
}

// Gateways groups the stores the saga writes to.
type Gateways struct {
	Tournaments TournamentGateway
	Events      EntityGateway[models.Event]
	Divisions   EntityGateway[models.Division]
	Squads      EntityGateway[models.Squad]
	Lanes       EntityGateway[models.Lane]
	Pots        EntityGateway[models.Pot]
	Brackets    EntityGateway[models.Bracket]
	Eliminators EntityGateway[models.Eliminator]
}

// TournamentSaga saves a full tournament: the root record and then every
// child collection in dependency order, compensating on failure.
type TournamentSaga struct {
	tournaments TournamentGateway
	oracle      IdentityOracle
	logger      *slog.Logger

	events      *EntitySyncer[models.Event]
	divisions   *EntitySyncer[models.Division]
	squads      *EntitySyncer[models.Squad]
	lanes       *EntitySyncer[models.Lane]
	pots        *EntitySyncer[models.Pot]
	brackets    *EntitySyncer[models.Bracket]
	eliminators *EntitySyncer[models.Eliminator]
}

func NewTournamentSaga(gw Gateways, oracle IdentityOracle, logger *slog.Logger) *TournamentSaga {
	return &TournamentSaga{
		tournaments: gw.Tournaments,
		oracle:      oracle,
		logger:      logger,

		events:      NewEntitySyncer(models.LevelEvents, utils.TagEvent, gw.Events, oracle, 1, logger),
		divisions:   NewEntitySyncer(models.LevelDivisions, utils.TagDivision, gw.Divisions, oracle, 1, logger),
		squads:      NewEntitySyncer(models.LevelSquads, utils.TagSquad, gw.Squads, oracle, 1, logger),
		lanes:       NewEntitySyncer(models.LevelLanes, utils.TagLane, gw.Lanes, oracle, 2, logger),
		pots:        NewEntitySyncer(models.LevelPots, utils.TagPot, gw.Pots, oracle, 0, logger),
		brackets:    NewEntitySyncer(models.LevelBrackets, utils.TagBracket, gw.Brackets, oracle, 0, logger),
		eliminators: NewEntitySyncer(models.LevelEliminators, utils.TagEliminator, gw.Eliminators, oracle, 0, logger),
	}
}

// saveState is the per-invocation state shared by the steps.
type saveState struct {
	isNew bool
	ids   LevelIDs
	// gone holds, per level, the persisted ids removed by this save either
	// directly or by the ON DELETE CASCADE of a removed parent.
	gone   map[models.SaveLevel]map[string]struct{}
	result models.TournamentFull
}

func (st *saveState) tournamentID() string { return st.result.Tournament.ID }

func (st *saveState) isGone(level models.SaveLevel, id string) bool {
	_, ok := st.gone[level][id]
	return ok
}

func (st *saveState) markGone(level models.SaveLevel, ids []string) {
	if len(ids) == 0 {
		return
	}
	set, ok := st.gone[level]
	if !ok {
		set = make(map[string]struct{}, len(ids))
		st.gone[level] = set
	}
	for _, id := range ids {
		set[id] = struct{}{}
	}
}

// Save returns the synchronized aggregate, or a *SagaError naming the
// level that failed after the committed levels have been compensated.
// Dangling parent references in current are rejected with
// ErrValidationFailed before anything is written.
func (ts *TournamentSaga) Save(ctx context.Context, original, current models.TournamentFull) (models.TournamentFull, error) {
	if err := ts.checkParents(original, current); err != nil {
		return models.TournamentFull{}, err
	}

	st := &saveState{
		isNew: !ts.oracle.IsPersistedID(original.Tournament.ID, utils.TagTournament),
		ids:   LevelIDs{},
		gone:  map[models.SaveLevel]map[string]struct{}{},
	}
	logger := ts.logger.With(slog.String("tournament_id", original.Tournament.ID), slog.Bool("new", st.isNew))

	saga := NewSaga(logger).
		AddStep(SagaStep{
			Level: models.LevelTournament,
			Commit: func(ctx context.Context) error {
				saved, err := ts.saveTournament(ctx, original.Tournament, current.Tournament)
				if err != nil {
					return err
				}
				st.result.Tournament = saved
				return nil
			},
			Compensate: func(ctx context.Context) error {
				return ts.deleteTournament(ctx, st.tournamentID())
			},
		}).
		AddStep(childStep(ts.events, st, original.Events, current.Events, &st.result.Events,
			func(e models.Event) models.Event {
				e.TournamentID = st.tournamentID()
				return e
			}, nil)).
		AddStep(childStep(ts.divisions, st, original.Divisions, current.Divisions, &st.result.Divisions,
			func(d models.Division) models.Division {
				d.TournamentID = st.tournamentID()
				return d
			}, nil)).
		AddStep(childStep(ts.squads, st, original.Squads, current.Squads, &st.result.Squads,
			func(s models.Squad) models.Squad {
				s.EventID = st.ids.Resolve(models.LevelEvents, s.EventID)
				return s
			},
			func(s models.Squad) bool {
				return st.isGone(models.LevelEvents, s.EventID)
			})).
		AddStep(childStep(ts.lanes, st, original.Lanes, current.Lanes, &st.result.Lanes,
			func(l models.Lane) models.Lane {
				l.SquadID = st.ids.Resolve(models.LevelSquads, l.SquadID)
				return l
			},
			func(l models.Lane) bool {
				return st.isGone(models.LevelSquads, l.SquadID)
			})).
		AddStep(childStep(ts.pots, st, original.Pots, current.Pots, &st.result.Pots,
			func(p models.Pot) models.Pot {
				p.DivisionID = st.ids.Resolve(models.LevelDivisions, p.DivisionID)
				p.SquadID = st.ids.Resolve(models.LevelSquads, p.SquadID)
				return p
			},
			func(p models.Pot) bool {
				return st.isGone(models.LevelDivisions, p.DivisionID) || st.isGone(models.LevelSquads, p.SquadID)
			})).
		AddStep(childStep(ts.brackets, st, original.Brackets, current.Brackets, &st.result.Brackets,
			func(b models.Bracket) models.Bracket {
				b.DivisionID = st.ids.Resolve(models.LevelDivisions, b.DivisionID)
				b.SquadID = st.ids.Resolve(models.LevelSquads, b.SquadID)
				return b
			},
			func(b models.Bracket) bool {
				return st.isGone(models.LevelDivisions, b.DivisionID) || st.isGone(models.LevelSquads, b.SquadID)
			})).
		AddStep(childStep(ts.eliminators, st, original.Eliminators, current.Eliminators, &st.result.Eliminators,
			func(e models.Eliminator) models.Eliminator {
				e.DivisionID = st.ids.Resolve(models.LevelDivisions, e.DivisionID)
				e.SquadID = st.ids.Resolve(models.LevelSquads, e.SquadID)
				return e
			},
			func(e models.Eliminator) bool {
				return st.isGone(models.LevelDivisions, e.DivisionID) || st.isGone(models.LevelSquads, e.SquadID)
			}))

	if err := saga.Run(ctx); err != nil {
		return models.TournamentFull{}, err
	}
	logger.InfoContext(ctx, "tournament saved", slog.String("saved_id", st.tournamentID()))
	return st.result, nil
}

// childStep syncs one collection. Original records whose parent was removed
// earlier in this save are dropped before the diff: the database cascade has
// already deleted them, so deleting them again would report 0 rows.
func childStep[T SyncRecord[T]](
	syncer *EntitySyncer[T],
	st *saveState,
	original, current []T,
	out *[]T,
	link func(T) T,
	orphaned func(T) bool,
) SagaStep {
	level := syncer.Level()
	return SagaStep{
		Level: level,
		Commit: func(ctx context.Context) error {
			var cascaded []string
			live := original
			if orphaned != nil {
				live = make([]T, 0, len(original))
				for _, rec := range original {
					if orphaned(rec) {
						cascaded = append(cascaded, rec.GetID())
						continue
					}
					live = append(live, rec)
				}
			}

			linked := make([]T, len(current))
			for i, rec := range current {
				linked[i] = link(rec)
			}
			removed := syncer.Removed(live, linked)

			synced, err := syncer.Sync(ctx, live, linked, SyncOptions{NewTournament: st.isNew, IDs: st.ids.For(level)})
			if err != nil {
				return err
			}
			st.markGone(level, cascaded)
			st.markGone(level, removed)
			*out = synced
			return nil
		},
		Compensate: func(ctx context.Context) error {
			return syncer.DeleteAllForTournament(ctx, st.tournamentID())
		},
	}
}

// checkParents makes sure every foreign key in current points at a record of
// the same aggregate: a record of current's parent collection that is either
// new in this save or was already part of original.
func (ts *TournamentSaga) checkParents(original, current models.TournamentFull) error {
	events := ts.parentKeys(utils.TagEvent, recordIDs(original.Events), recordIDs(current.Events))
	divisions := ts.parentKeys(utils.TagDivision, recordIDs(original.Divisions), recordIDs(current.Divisions))
	squads := ts.parentKeys(utils.TagSquad, recordIDs(original.Squads), recordIDs(current.Squads))

	check := func(kind, recID, parentKind, parentID string, allowed map[string]struct{}) error {
		if _, ok := allowed[parentID]; ok {
			return nil
		}
		return fmt.Errorf("%w: %s %q references unknown %s %q", ErrValidationFailed, kind, recID, parentKind, parentID)
	}

	for _, s := range current.Squads {
		if err := check("squad", s.ID, "event", s.EventID, events); err != nil {
			return err
		}
	}
	for _, l := range current.Lanes {
		if err := check("lane", l.ID, "squad", l.SquadID, squads); err != nil {
			return err
		}
	}
	for _, p := range current.Pots {
		if err := check("pot", p.ID, "division", p.DivisionID, divisions); err != nil {
			return err
		}
		if err := check("pot", p.ID, "squad", p.SquadID, squads); err != nil {
			return err
		}
	}
	for _, b := range current.Brackets {
		if err := check("bracket", b.ID, "division", b.DivisionID, divisions); err != nil {
			return err
		}
		if err := check("bracket", b.ID, "squad", b.SquadID, squads); err != nil {
			return err
		}
	}
	for _, e := range current.Eliminators {
		if err := check("eliminator", e.ID, "division", e.DivisionID, divisions); err != nil {
			return err
		}
		if err := check("eliminator", e.ID, "squad", e.SquadID, squads); err != nil {
			return err
		}
	}
	return nil
}

// parentKeys returns the keys children may reference: temp keys of new
// records and persisted ids that already belong to original.
func (ts *TournamentSaga) parentKeys(tag utils.IDTag, original, current []string) map[string]struct{} {
	owned := make(map[string]struct{}, len(original))
	for _, id := range original {
		owned[id] = struct{}{}
	}
	keys := make(map[string]struct{}, len(current))
	for _, id := range current {
		if id == "" {
			continue
		}
		if ts.oracle.IsPersistedID(id, tag) {
			if _, ok := owned[id]; !ok {
				continue
			}
		}
		keys[id] = struct{}{}
	}
	return keys
}

func recordIDs[T SyncRecord[T]](recs []T) []string {
	out := make([]string, len(recs))
	for i, rec := range recs {
		out[i] = rec.GetID()
	}
	return out
}

func (ts *TournamentSaga) saveTournament(ctx context.Context, original, current models.Tournament) (models.Tournament, error) {
	if !ts.oracle.IsPersistedID(original.ID, utils.TagTournament) {
		created, err := ts.tournaments.Create(ctx, current)
		if err != nil {
			return models.Tournament{}, fmt.Errorf("create tournament: %w", err)
		}
		return created, nil
	}

	current.ID = original.ID
	if original.Equal(current) {
		return original, nil
	}
	updated, err := ts.tournaments.Update(ctx, current)
	if err != nil {
		return models.Tournament{}, fmt.Errorf("update tournament %s: %w", original.ID, err)
	}
	return updated, nil
}

func (ts *TournamentSaga) deleteTournament(ctx context.Context, id string) error {
	n, err := ts.tournaments.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete tournament %s: %w", id, err)
	}
	if n != 1 {
		return fmt.Errorf("delete tournament %s: %w: %d", id, ErrUnexpectedDeleteCount, n)
	}
	return nil
}
