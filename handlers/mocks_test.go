package handlers

import (
	"context"
	"io"
	"sync"

	"github.com/Dosada05/tournament-sync/models"
	"github.com/Dosada05/tournament-sync/services"
)

var _ services.TournamentService = &TournamentServiceMock{}
var _ services.AuthService = &AuthServiceMock{}

type SaveFullCall struct {
	OrganizerID int
	Current     models.TournamentFull
}

// TournamentServiceMock is a moq-style mock of services.TournamentService.
type TournamentServiceMock struct {
	GetFullFunc    func(ctx context.Context, id string) (*models.TournamentFull, error)
	ListFunc       func(ctx context.Context, organizerID int) ([]models.Tournament, error)
	SaveFullFunc   func(ctx context.Context, organizerID int, current models.TournamentFull) (*models.TournamentFull, error)
	DeleteFunc     func(ctx context.Context, organizerID int, id string) error
	UploadLogoFunc func(ctx context.Context, organizerID int, id string, contentType string, reader io.Reader) (*models.Tournament, error)

	mu       sync.Mutex
	saveFull []SaveFullCall
}

func (m *TournamentServiceMock) GetFull(ctx context.Context, id string) (*models.TournamentFull, error) {
	if m.GetFullFunc == nil {
		panic("TournamentServiceMock.GetFullFunc: method is nil but TournamentService.GetFull was just called")
	}
	return m.GetFullFunc(ctx, id)
}

func (m *TournamentServiceMock) List(ctx context.Context, organizerID int) ([]models.Tournament, error) {
	if m.ListFunc == nil {
		panic("TournamentServiceMock.ListFunc: method is nil but TournamentService.List was just called")
	}
	return m.ListFunc(ctx, organizerID)
}

func (m *TournamentServiceMock) SaveFull(ctx context.Context, organizerID int, current models.TournamentFull) (*models.TournamentFull, error) {
	if m.SaveFullFunc == nil {
		panic("TournamentServiceMock.SaveFullFunc: method is nil but TournamentService.SaveFull was just called")
	}
	m.mu.Lock()
	m.saveFull = append(m.saveFull, SaveFullCall{OrganizerID: organizerID, Current: current})
	m.mu.Unlock()
	return m.SaveFullFunc(ctx, organizerID, current)
}

func (m *TournamentServiceMock) SaveFullCalls() []SaveFullCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SaveFullCall(nil), m.saveFull...)
}

func (m *TournamentServiceMock) Delete(ctx context.Context, organizerID int, id string) error {
	if m.DeleteFunc == nil {
		panic("TournamentServiceMock.DeleteFunc: method is nil but TournamentService.Delete was just called")
	}
	return m.DeleteFunc(ctx, organizerID, id)
}

func (m *TournamentServiceMock) UploadLogo(ctx context.Context, organizerID int, id string, contentType string, reader io.Reader) (*models.Tournament, error) {
	if m.UploadLogoFunc == nil {
		panic("TournamentServiceMock.UploadLogoFunc: method is nil but TournamentService.UploadLogo was just called")
	}
	return m.UploadLogoFunc(ctx, organizerID, id, contentType, reader)
}

// AuthServiceMock is a moq-style mock of services.AuthService.
type AuthServiceMock struct {
	RegisterFunc func(ctx context.Context, input services.RegisterInput) (*models.User, error)
	LoginFunc    func(ctx context.Context, input services.LoginInput) (*models.User, error)
}

func (m *AuthServiceMock) Register(ctx context.Context, input services.RegisterInput) (*models.User, error) {
	if m.RegisterFunc == nil {
		panic("AuthServiceMock.RegisterFunc: method is nil but AuthService.Register was just called")
	}
	return m.RegisterFunc(ctx, input)
}

func (m *AuthServiceMock) Login(ctx context.Context, input services.LoginInput) (*models.User, error) {
	if m.LoginFunc == nil {
		panic("AuthServiceMock.LoginFunc: method is nil but AuthService.Login was just called")
	}
	return m.LoginFunc(ctx, input)
}
