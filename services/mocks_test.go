package services

import (
	"context"
	"io"
	"sync"

	"github.com/Dosada05/tournament-sync/models"
	"github.com/Dosada05/tournament-sync/storage"
)

// FileUploaderMock is a storage.FileUploader with pluggable behaviour.
type FileUploaderMock struct {
	UploadFunc       func(ctx context.Context, key string, contentType string, reader io.Reader) (*storage.UploadResult, error)
	DeleteFunc       func(ctx context.Context, key string) error
	GetPublicURLFunc func(key string) string

	mu      sync.Mutex
	uploads []string
	deletes []string
}

func (m *FileUploaderMock) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	m.mu.Lock()
	m.uploads = append(m.uploads, key)
	m.mu.Unlock()
	if m.UploadFunc == nil {
		return &storage.UploadResult{Key: key}, nil
	}
	return m.UploadFunc(ctx, key, contentType, reader)
}

func (m *FileUploaderMock) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	m.deletes = append(m.deletes, key)
	m.mu.Unlock()
	if m.DeleteFunc == nil {
		return nil
	}
	return m.DeleteFunc(ctx, key)
}

func (m *FileUploaderMock) GetPublicURL(key string) string {
	if m.GetPublicURLFunc == nil {
		return "https://cdn.test/" + key
	}
	return m.GetPublicURLFunc(key)
}

func (m *FileUploaderMock) UploadCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.uploads...)
}

func (m *FileUploaderMock) DeleteCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.deletes...)
}

// BroadcasterMock records every broadcast.
type BroadcasterMock struct {
	mu    sync.Mutex
	calls []BroadcastCall
}

type BroadcastCall struct {
	RoomID  string
	Message interface{}
}

func (m *BroadcasterMock) BroadcastToRoom(roomID string, message interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, BroadcastCall{RoomID: roomID, Message: message})
}

func (m *BroadcasterMock) BroadcastToRoomCalls() []BroadcastCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]BroadcastCall(nil), m.calls...)
}

// UserRepositoryMock is a repositories.UserRepository with pluggable behaviour.
type UserRepositoryMock struct {
	CreateFunc     func(ctx context.Context, user *models.User) error
	GetByIDFunc    func(ctx context.Context, id int) (*models.User, error)
	GetByEmailFunc func(ctx context.Context, email string) (*models.User, error)
}

func (m *UserRepositoryMock) Create(ctx context.Context, user *models.User) error {
	return m.CreateFunc(ctx, user)
}

func (m *UserRepositoryMock) GetByID(ctx context.Context, id int) (*models.User, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *UserRepositoryMock) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.GetByEmailFunc(ctx, email)
}
