package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Dosada05/tournament-sync/models"
	"github.com/Dosada05/tournament-sync/realtime"
	"github.com/Dosada05/tournament-sync/repositories"
	"github.com/Dosada05/tournament-sync/storage"
	"github.com/Dosada05/tournament-sync/utils"
	"golang.org/x/sync/errgroup"
)

// TournamentStore - хранилище корневых записей (repositories.TournamentRepository).
type TournamentStore interface {
	TournamentGateway
	GetByID(ctx context.Context, id string) (*models.Tournament, error)
	ListByOrganizer(ctx context.Context, organizerID int) ([]models.Tournament, error)
	UpdateLogoKey(ctx context.Context, id string, logoKey string) error
}

// EntityStore - EntityGateway, который ещё и читает записи турнира.
type EntityStore[T any] interface {
	EntityGateway[T]
	ListByTournament(ctx context.Context, tournamentID string) ([]T, error)
}

type Stores struct {
	Tournaments TournamentStore
	Events      EntityStore[models.Event]
	Divisions   EntityStore[models.Division]
	Squads      EntityStore[models.Squad]
	Lanes       EntityStore[models.Lane]
	Pots        EntityStore[models.Pot]
	Brackets    EntityStore[models.Bracket]
	Eliminators EntityStore[models.Eliminator]
}

func (s Stores) Gateways() Gateways {
	return Gateways{
		Tournaments: s.Tournaments,
		Events:      s.Events,
		Divisions:   s.Divisions,
		Squads:      s.Squads,
		Lanes:       s.Lanes,
		Pots:        s.Pots,
		Brackets:    s.Brackets,
		Eliminators: s.Eliminators,
	}
}

type TournamentService interface {
	GetFull(ctx context.Context, id string) (*models.TournamentFull, error)
	List(ctx context.Context, organizerID int) ([]models.Tournament, error)
	SaveFull(ctx context.Context, organizerID int, current models.TournamentFull) (*models.TournamentFull, error)
	Delete(ctx context.Context, organizerID int, id string) error
	UploadLogo(ctx context.Context, organizerID int, id string, contentType string, reader io.Reader) (*models.Tournament, error)
}

type tournamentService struct {
	stores   Stores
	saga     *TournamentSaga
	oracle   IdentityOracle
	uploader storage.FileUploader // nil: загрузка логотипов отключена
	hub      realtime.Broadcaster // nil: без рассылки
	logger   *slog.Logger
}

func NewTournamentService(
	stores Stores,
	oracle IdentityOracle,
	uploader storage.FileUploader,
	hub realtime.Broadcaster,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		stores:   stores,
		saga:     NewTournamentSaga(stores.Gateways(), oracle, logger),
		oracle:   oracle,
		uploader: uploader,
		hub:      hub,
		logger:   logger,
	}
}

func (s *tournamentService) getTournament(ctx context.Context, id string) (*models.Tournament, error) {
	if !s.oracle.IsPersistedID(id, utils.TagTournament) {
		return nil, ErrTournamentNotFound
	}
	t, err := s.stores.Tournaments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %s: %w", id, err)
	}
	return t, nil
}

func (s *tournamentService) getOwned(ctx context.Context, organizerID int, id string) (*models.Tournament, error) {
	t, err := s.getTournament(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.OrganizerID != organizerID {
		return nil, ErrForbiddenOperation
	}
	return t, nil
}

// GetFull загружает турнир и все дочерние коллекции параллельно.
func (s *tournamentService) GetFull(ctx context.Context, id string) (*models.TournamentFull, error) {
	t, err := s.getTournament(ctx, id)
	if err != nil {
		return nil, err
	}
	s.decorate(t)

	full := &models.TournamentFull{Tournament: *t}
	g, gCtx := errgroup.WithContext(ctx)

	load(gCtx, g, "events", s.stores.Events, id, &full.Events)
	load(gCtx, g, "divisions", s.stores.Divisions, id, &full.Divisions)
	load(gCtx, g, "squads", s.stores.Squads, id, &full.Squads)
	load(gCtx, g, "lanes", s.stores.Lanes, id, &full.Lanes)
	load(gCtx, g, "pots", s.stores.Pots, id, &full.Pots)
	load(gCtx, g, "brackets", s.stores.Brackets, id, &full.Brackets)
	load(gCtx, g, "eliminators", s.stores.Eliminators, id, &full.Eliminators)

	if err := g.Wait(); err != nil {
		s.logger.ErrorContext(ctx, "failed to load tournament aggregate", slog.String("tournament_id", id), slog.Any("error", err))
		return nil, err
	}
	return full, nil
}

func load[T any](ctx context.Context, g *errgroup.Group, name string, store EntityStore[T], tournamentID string, dst *[]T) {
	g.Go(func() error {
		recs, err := store.ListByTournament(ctx, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to load %s for tournament %s: %w", name, tournamentID, err)
		}
		if recs == nil {
			recs = []T{}
		}
		*dst = recs
		return nil
	})
}

func (s *tournamentService) List(ctx context.Context, organizerID int) ([]models.Tournament, error) {
	tournaments, err := s.stores.Tournaments.ListByOrganizer(ctx, organizerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	for i := range tournaments {
		s.decorate(&tournaments[i])
	}
	return tournaments, nil
}

// SaveFull сохраняет агрегат целиком. Для нового турнира исходным снимком
// служит пустой агрегат, для существующего - текущее состояние в базе.
func (s *tournamentService) SaveFull(ctx context.Context, organizerID int, current models.TournamentFull) (*models.TournamentFull, error) {
	var original models.TournamentFull
	if s.oracle.IsPersistedID(current.Tournament.ID, utils.TagTournament) {
		stored, err := s.GetFull(ctx, current.Tournament.ID)
		if err != nil {
			return nil, err
		}
		if stored.Tournament.OrganizerID != organizerID {
			return nil, ErrForbiddenOperation
		}
		original = *stored
		// логотип меняется только через UploadLogo
		current.Tournament.LogoKey = original.Tournament.LogoKey
	} else {
		original = models.NewBlankTournamentFull(organizerID)
		current.Tournament.ID = ""
		current.Tournament.LogoKey = ""
	}
	current.Tournament.OrganizerID = organizerID

	if err := validateTournament(&current.Tournament); err != nil {
		return nil, err
	}

	saved, err := s.saga.Save(ctx, original, current)
	if errors.Is(err, ErrValidationFailed) {
		return nil, err
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "tournament save failed",
			slog.String("tournament_id", original.Tournament.ID),
			slog.String("failed_level", FailedLevel(err).String()),
			slog.Any("error", err),
		)
		if errors.Is(err, repositories.ErrTournamentNameConflict) {
			return nil, fmt.Errorf("%w: %w", ErrTournamentNameConflict, err)
		}
		return nil, err
	}

	s.decorate(&saved.Tournament)
	s.broadcast(saved.Tournament.ID, realtime.MessageTournamentSaved, saved)
	return &saved, nil
}

func validateTournament(t *models.Tournament) error {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return ErrTournamentNameRequired
	}
	if t.StartDate.IsZero() || t.EndDate.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", ErrValidationFailed)
	}
	if t.EndDate.Before(t.StartDate) {
		return ErrTournamentInvalidDateRange
	}
	return nil
}

// Delete удаляет дочерние записи в обратном порядке зависимостей, затем сам турнир.
func (s *tournamentService) Delete(ctx context.Context, organizerID int, id string) error {
	t, err := s.getOwned(ctx, organizerID, id)
	if err != nil {
		return err
	}

	children := []struct {
		name  string
		purge func(context.Context, string) (int64, error)
	}{
		{"eliminators", s.stores.Eliminators.DeleteAllForTournament},
		{"brackets", s.stores.Brackets.DeleteAllForTournament},
		{"pots", s.stores.Pots.DeleteAllForTournament},
		{"lanes", s.stores.Lanes.DeleteAllForTournament},
		{"squads", s.stores.Squads.DeleteAllForTournament},
		{"divisions", s.stores.Divisions.DeleteAllForTournament},
		{"events", s.stores.Events.DeleteAllForTournament},
	}
	for _, c := range children {
		if _, err := c.purge(ctx, id); err != nil {
			return fmt.Errorf("failed to delete %s of tournament %s: %w", c.name, id, err)
		}
	}

	n, err := s.stores.Tournaments.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete tournament %s: %w", id, err)
	}
	if n == 0 {
		return ErrTournamentNotFound
	}

	if t.LogoKey != "" && s.uploader != nil {
		if err := s.uploader.Delete(ctx, t.LogoKey); err != nil {
			s.logger.WarnContext(ctx, "failed to delete tournament logo", slog.String("key", t.LogoKey), slog.Any("error", err))
		}
	}

	s.logger.InfoContext(ctx, "tournament deleted", slog.String("tournament_id", id))
	s.broadcast(id, realtime.MessageTournamentDeleted, map[string]string{"id": id})
	return nil
}

func (s *tournamentService) UploadLogo(ctx context.Context, organizerID int, id string, contentType string, reader io.Reader) (*models.Tournament, error) {
	if s.uploader == nil {
		return nil, ErrLogoUploadDisabled
	}
	t, err := s.getOwned(ctx, organizerID, id)
	if err != nil {
		return nil, err
	}

	key, err := storage.LogoKey(id, contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	if _, err := s.uploader.Upload(ctx, key, contentType, reader); err != nil {
		return nil, fmt.Errorf("failed to upload logo: %w", err)
	}

	if err := s.stores.Tournaments.UpdateLogoKey(ctx, id, key); err != nil {
		if delErr := s.uploader.Delete(ctx, key); delErr != nil {
			s.logger.WarnContext(ctx, "failed to remove orphaned logo", slog.String("key", key), slog.Any("error", delErr))
		}
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to save logo key: %w", err)
	}

	if t.LogoKey != "" {
		if err := s.uploader.Delete(ctx, t.LogoKey); err != nil {
			s.logger.WarnContext(ctx, "failed to delete previous logo", slog.String("key", t.LogoKey), slog.Any("error", err))
		}
	}

	t.LogoKey = key
	s.decorate(t)
	return t, nil
}

func (s *tournamentService) decorate(t *models.Tournament) {
	if s.uploader == nil || t.LogoKey == "" {
		t.LogoURL = nil
		return
	}
	if u := s.uploader.GetPublicURL(t.LogoKey); u != "" {
		t.LogoURL = &u
	}
}

func (s *tournamentService) broadcast(tournamentID, msgType string, payload interface{}) {
	if s.hub == nil {
		return
	}
	room := realtime.TournamentRoom(tournamentID)
	s.hub.BroadcastToRoom(room, realtime.Message{Type: msgType, Payload: payload, RoomID: room})
}
