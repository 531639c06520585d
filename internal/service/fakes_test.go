package service

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/langchou/divegazer/internal/models"
)

var errNotFound = errors.New("dive not found")

type memoryDiveStore struct {
	mu      sync.Mutex
	nextID  int64
	dives      map[int64]models.Dive
	bulkErr    error
	beforeBulk func()
}

func newMemoryDiveStore(dives ...models.Dive) *memoryDiveStore {
	s := &memoryDiveStore{dives: make(map[int64]models.Dive)}
	for i := range dives {
		_ = s.Create(context.Background(), &dives[i])
	}
	return s
}

func (s *memoryDiveStore) Create(_ context.Context, dive *models.Dive) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	dive.ID = s.nextID
	dive.CreatedAt = time.Now().UTC()
	dive.UpdatedAt = dive.CreatedAt
	s.dives[dive.ID] = *dive
	return nil
}

func (s *memoryDiveStore) BulkCreate(ctx context.Context, dives []models.Dive) ([]models.Dive, error) {
	if s.beforeBulk != nil {
		s.beforeBulk()
	}
	if s.bulkErr != nil {
		return nil, s.bulkErr
	}
	created := make([]models.Dive, len(dives))
	for i, d := range dives {
		if err := s.Create(ctx, &d); err != nil {
			return nil, err
		}
		created[i] = d
	}
	return created, nil
}

func (s *memoryDiveStore) Update(_ context.Context, dive *models.Dive) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.dives[dive.ID]; !ok {
		return errNotFound
	}
	s.dives[dive.ID] = *dive
	return nil
}

func (s *memoryDiveStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.dives[id]; !ok {
		return errNotFound
	}
	delete(s.dives, id)
	return nil
}

func (s *memoryDiveStore) GetByID(_ context.Context, id int64) (*models.Dive, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.dives[id]
	if !ok {
		return nil, errNotFound
	}
	return &d, nil
}

func (s *memoryDiveStore) List(_ context.Context) ([]models.Dive, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Dive, 0, len(s.dives))
	for _, d := range s.dives {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].DateTime.After(out[j].DateTime)
	})
	return out, nil
}

type memorySettingsStore struct {
	settings *models.UserSettings
}

func (s *memorySettingsStore) Get(_ context.Context) (*models.UserSettings, error) {
	if s.settings == nil {
		defaults := models.DefaultUserSettings()
		return &defaults, nil
	}
	copied := *s.settings
	return &copied, nil
}

func (s *memorySettingsStore) Save(_ context.Context, settings *models.UserSettings) error {
	settings.UpdatedAt = time.Now().UTC()
	copied := *settings
	s.settings = &copied
	return nil
}

type recordedMessage struct {
	Type string
	Data interface{}
}

type recordingBroadcaster struct {
	mu       sync.Mutex
	messages []recordedMessage
}

func (b *recordingBroadcaster) BroadcastMessage(msgType string, data interface{}) {
	b.mu.Lock()
	b.messages = append(b.messages, recordedMessage{Type: msgType, Data: data})
	b.mu.Unlock()
}

func (b *recordingBroadcaster) types() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.messages))
	for i, m := range b.messages {
		out[i] = m.Type
	}
	return out
}

func (b *recordingBroadcaster) last(msgType string) (recordedMessage, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(b.messages) - 1; i >= 0; i-- {
		if b.messages[i].Type == msgType {
			return b.messages[i], true
		}
	}
	return recordedMessage{}, false
}

// hookReader 第一次 Read 前调用 before
type hookReader struct {
	r      io.Reader
	before func()
	once   sync.Once
}

func (h *hookReader) Read(p []byte) (int, error) {
	h.once.Do(h.before)
	return h.r.Read(p)
}
