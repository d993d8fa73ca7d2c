package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/tournament-sync/models"
	"github.com/Dosada05/tournament-sync/utils"
)

func newEventSyncer(t *testing.T) (*EntitySyncer[models.Event], *fakeGateway[models.Event], *callLog) {
	t.Helper()
	log := &callLog{}
	gw := newFakeGateway[models.Event]("events", utils.TagEvent, log)
	return NewEntitySyncer[models.Event](models.LevelEvents, utils.TagEvent, gw, prefixOracle{}, 1, setupTestLogger()), gw, log
}

func newLaneSyncer(t *testing.T) (*EntitySyncer[models.Lane], *callLog) {
	t.Helper()
	log := &callLog{}
	gw := newFakeGateway[models.Lane]("lanes", utils.TagLane, log)
	return NewEntitySyncer[models.Lane](models.LevelLanes, utils.TagLane, gw, prefixOracle{}, 2, setupTestLogger()), log
}

func TestEntitySyncer_Idempotent(t *testing.T) {
	ctx := context.Background()

	t.Run("events", func(t *testing.T) {
		syncer, _, log := newEventSyncer(t)
		events := []models.Event{
			{ID: "evt_1", TournamentID: "tmt_1", Name: "Singles", TeamSize: 1, Games: 6, EntryFee: "80.00"},
			{ID: "evt_2", TournamentID: "tmt_1", Name: "Doubles", TeamSize: 2, Games: 6, EntryFee: "160.00"},
		}

		synced, err := syncer.Sync(ctx, events, events, SyncOptions{})
		require.NoError(t, err)
		assert.Equal(t, events, synced)
		assert.Empty(t, log.calls)
	})

	t.Run("lanes", func(t *testing.T) {
		syncer, log := newLaneSyncer(t)
		lanes := []models.Lane{
			{ID: "lan_1", SquadID: "sqd_1", LaneNumber: 1, InUse: true},
			{ID: "lan_2", SquadID: "sqd_1", LaneNumber: 2, InUse: true},
		}

		synced, err := syncer.Sync(ctx, lanes, lanes, SyncOptions{})
		require.NoError(t, err)
		assert.Equal(t, lanes, synced)
		assert.Empty(t, log.calls)
	})
}

func TestEntitySyncer_Diff(t *testing.T) {
	ctx := context.Background()
	syncer, _, log := newEventSyncer(t)

	kept := models.Event{ID: "evt_1", Name: "Singles", TeamSize: 1, Games: 6}
	edited := models.Event{ID: "evt_2", Name: "Doubles", TeamSize: 2, Games: 6}
	removed := models.Event{ID: "evt_3", Name: "Team", TeamSize: 4, Games: 3}

	editedNow := edited
	editedNow.Games = 3
	added := models.Event{ID: "new-1", Name: "Trios", TeamSize: 3, Games: 3}

	ids := IDMap{}
	synced, err := syncer.Sync(ctx,
		[]models.Event{kept, edited, removed},
		[]models.Event{kept, editedNow, added},
		SyncOptions{IDs: ids},
	)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"events.delete(evt_3)",
		"events.update(evt_2)",
		"events.create(new-1)",
	}, log.calls)

	require.Len(t, synced, 3)
	assert.Equal(t, kept, synced[0])
	assert.Equal(t, editedNow, synced[1])
	assert.Equal(t, "evt_new1", synced[2].ID)
	assert.Equal(t, "evt_new1", ids.Resolve("new-1"))
}

func TestEntitySyncer_BlankOriginalsAreNotDeleted(t *testing.T) {
	syncer, _, log := newEventSyncer(t)

	// Two blank originals do not match the placeholder shape; nothing is
	// persisted so nothing can be deleted.
	synced, err := syncer.Sync(context.Background(),
		[]models.Event{{}, {}},
		[]models.Event{{Name: "Singles"}},
		SyncOptions{},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"events.create()"}, log.calls)
	assert.Len(t, synced, 1)
}

func TestEntitySyncer_BulkNewTrigger(t *testing.T) {
	ctx := context.Background()

	eventTests := []struct {
		name     string
		original []models.Event
		wantBulk bool
	}{
		{name: "single blank placeholder", original: []models.Event{{}}, wantBulk: true},
		{name: "empty original", original: []models.Event{}, wantBulk: false},
		{name: "two blanks", original: []models.Event{{}, {}}, wantBulk: false},
		{name: "single persisted", original: []models.Event{{ID: "evt_1"}}, wantBulk: false},
	}
	for _, tt := range eventTests {
		t.Run("events/"+tt.name, func(t *testing.T) {
			syncer, _, log := newEventSyncer(t)
			current := []models.Event{{Name: "Singles"}, {Name: "Doubles"}}

			_, err := syncer.Sync(ctx, tt.original, current, SyncOptions{})
			require.NoError(t, err)

			if tt.wantBulk {
				assert.Equal(t, []string{"events.create_many(2)"}, log.calls)
			} else {
				assert.Zero(t, log.count("events.create_many"))
			}
		})
	}

	laneTests := []struct {
		name     string
		original []models.Lane
		wantBulk bool
	}{
		{name: "blank pair", original: []models.Lane{{}, {}}, wantBulk: true},
		{name: "single blank", original: []models.Lane{{}}, wantBulk: false},
		{name: "three blanks", original: []models.Lane{{}, {}, {}}, wantBulk: false},
		{name: "half persisted pair", original: []models.Lane{{ID: "lan_1"}, {}}, wantBulk: false},
	}
	for _, tt := range laneTests {
		t.Run("lanes/"+tt.name, func(t *testing.T) {
			syncer, log := newLaneSyncer(t)
			current := []models.Lane{{LaneNumber: 1}, {LaneNumber: 2}}

			_, err := syncer.Sync(ctx, tt.original, current, SyncOptions{})
			require.NoError(t, err)

			if tt.wantBulk {
				assert.Equal(t, []string{"lanes.create_many(2)"}, log.calls)
			} else {
				assert.Zero(t, log.count("lanes.create_many"))
			}
		})
	}
}

func TestEntitySyncer_ScenarioA(t *testing.T) {
	syncer, _, log := newEventSyncer(t)
	e1 := models.Event{ID: "new-e1", Name: "Singles", TeamSize: 1, Games: 6}
	ids := IDMap{}

	synced, err := syncer.Sync(context.Background(), []models.Event{{}}, []models.Event{e1}, SyncOptions{IDs: ids})
	require.NoError(t, err)

	assert.Equal(t, 1, log.count("events.create_many"))
	assert.Zero(t, log.count("events.create("))
	require.Len(t, synced, 1)
	assert.Equal(t, "evt_new1", synced[0].ID)
	assert.Equal(t, "evt_new1", ids.Resolve("new-e1"))
}

func TestEntitySyncer_NewTournamentFlag(t *testing.T) {
	log := &callLog{}
	gw := newFakeGateway[models.Pot]("pots", utils.TagPot, log)
	syncer := NewEntitySyncer[models.Pot](models.LevelPots, utils.TagPot, gw, prefixOracle{}, 0, setupTestLogger())

	synced, err := syncer.Sync(context.Background(), nil,
		[]models.Pot{{PotType: models.PotTypeGame, Fee: "20.00"}},
		SyncOptions{NewTournament: true},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"pots.create_many(1)"}, log.calls)
	assert.Len(t, synced, 1)
}

func TestEntitySyncer_DeleteCountAborts(t *testing.T) {
	syncer, gw, log := newEventSyncer(t)
	gw.deleted["evt_1"] = 0

	_, err := syncer.Sync(context.Background(),
		[]models.Event{{ID: "evt_1"}, {ID: "evt_2"}},
		[]models.Event{{ID: "new-1"}},
		SyncOptions{},
	)
	require.Error(t, err)

	var syncErr *SyncError
	require.True(t, errors.As(err, &syncErr))
	assert.Equal(t, models.LevelEvents, syncErr.Level)
	assert.Equal(t, OpDelete, syncErr.Op)
	assert.Equal(t, "evt_1", syncErr.RecordID)
	assert.ErrorIs(t, err, ErrUnexpectedDeleteCount)

	// Nothing after the failing delete is attempted.
	assert.Equal(t, []string{"events.delete(evt_1)"}, log.calls)
}

func TestEntitySyncer_CreateFailureAborts(t *testing.T) {
	syncer, gw, log := newEventSyncer(t)
	boom := errors.New("connection reset")
	gw.fail[OpCreate] = boom

	_, err := syncer.Sync(context.Background(),
		[]models.Event{},
		[]models.Event{{ID: "new-1"}, {ID: "new-2"}},
		SyncOptions{},
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"events.create(new-1)"}, log.calls)
}

func TestEntitySyncer_UpdateFailureAborts(t *testing.T) {
	syncer, gw, log := newEventSyncer(t)
	gw.fail[OpUpdate] = errors.New("timeout")

	_, err := syncer.Sync(context.Background(),
		[]models.Event{{ID: "evt_1", Games: 3}, {ID: "evt_2", Games: 3}},
		[]models.Event{{ID: "evt_1", Games: 6}, {ID: "evt_2", Games: 6}},
		SyncOptions{},
	)
	require.Error(t, err)

	var syncErr *SyncError
	require.True(t, errors.As(err, &syncErr))
	assert.Equal(t, OpUpdate, syncErr.Op)
	assert.Equal(t, []string{"events.update(evt_1)"}, log.calls)
}

func TestEntitySyncer_UnknownPersistedIDSkipped(t *testing.T) {
	syncer, _, log := newEventSyncer(t)

	synced, err := syncer.Sync(context.Background(),
		[]models.Event{{ID: "evt_1"}},
		[]models.Event{{ID: "evt_1"}, {ID: "evt_9", Name: "Ghost"}},
		SyncOptions{},
	)
	require.NoError(t, err)
	assert.Empty(t, log.calls)
	assert.Equal(t, []models.Event{{ID: "evt_1"}}, synced)
}

func TestEntitySyncer_ShortBatchWrite(t *testing.T) {
	log := &callLog{}
	syncer := NewEntitySyncer[models.Event](models.LevelEvents, utils.TagEvent,
		shortBatchGateway{fakeGateway: newFakeGateway[models.Event]("events", utils.TagEvent, log)},
		prefixOracle{}, 1, setupTestLogger())

	_, err := syncer.Sync(context.Background(), []models.Event{{}}, []models.Event{{}, {}}, SyncOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrShortBatchWrite)
}

// shortBatchGateway drops the last record of every batch.
type shortBatchGateway struct {
	*fakeGateway[models.Event]
}

func (g shortBatchGateway) CreateMany(ctx context.Context, recs []models.Event) ([]models.Event, error) {
	out, err := g.fakeGateway.CreateMany(ctx, recs)
	if err != nil || len(out) == 0 {
		return out, err
	}
	return out[:len(out)-1], nil
}

func TestEntitySyncer_DeleteAllForTournament(t *testing.T) {
	syncer, gw, log := newEventSyncer(t)
	require.NoError(t, syncer.DeleteAllForTournament(context.Background(), "tmt_1"))
	assert.Equal(t, []string{"events.delete_all(tmt_1)"}, log.calls)

	gw.fail[OpDeleteAll] = errors.New("down")
	err := syncer.DeleteAllForTournament(context.Background(), "tmt_1")
	var syncErr *SyncError
	require.True(t, errors.As(err, &syncErr))
	assert.Equal(t, OpDeleteAll, syncErr.Op)
}
