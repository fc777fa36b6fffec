package toml

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/bnema/coremind/internal/domain"
	"github.com/bnema/coremind/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	memoryPathKey    = "memory.path"
	memoryFileMode   = 0o600
	memoryDirMode    = 0o700
	memoryConfigDir  = ".coremind"
	memoryConfigFile = "memory.toml"
	tempFilePattern  = ".memory-*.toml.tmp"
)

type Store struct {
	path   string
	clock  ports.Clock
	logger *zap.Logger

	mu     sync.RWMutex
	keys   []domain.EventKey
	events map[domain.EventKey]domain.Payload
}

var _ ports.MemoryStore = (*Store)(nil)

type Option func(*Store)

func WithClock(clock ports.Clock) Option {
	return func(s *Store) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore opens the store at memory.path, defaulting to
// ~/.coremind/memory.toml.
func NewStore(cfg *viper.Viper, opts ...Option) (*Store, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	cfg.SetDefault(memoryPathKey, filepath.Join(homeDir, memoryConfigDir, memoryConfigFile))

	path := cfg.GetString(memoryPathKey)
	if path == "" {
		return nil, errors.New("memory path is empty")
	}

	return Open(path, opts...)
}

// Open loads the store at path. A missing file yields an empty store; an
// unreadable one is moved aside and replaced by an empty store.
func Open(path string, opts ...Option) (*Store, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve memory path: %w", err)
	}

	s := &Store{
		path:   filepath.Clean(absPath),
		clock:  ports.SystemClock{},
		logger: zap.NewNop(),
		events: map[domain.EventKey]domain.Payload{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("memory").With(zap.String("path", s.path))

	file, err := s.readSchema()
	if err != nil {
		s.quarantine(err)
		return s, nil
	}

	events, err := decodeEvents(file)
	if err != nil {
		s.quarantine(err)
		return s, nil
	}

	for key, payload := range events {
		s.events[key] = payload
		s.keys = append(s.keys, key)
	}
	sort.Slice(s.keys, func(i, j int) bool { return s.keys[i] < s.keys[j] })

	s.logger.Info("memory loaded", zap.Int("events", len(s.keys)))
	return s, nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) StoreEvent(ctx context.Context, payload domain.Payload) (domain.EventKey, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	stored, encoded, err := canonicalPayload(payload)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := domain.NextEventKey(s.clock.Now(), s.lastKey())
	if _, exists := s.events[key]; exists {
		return "", fmt.Errorf("%w: %s", domain.ErrEventKeyCollision, key)
	}

	file := s.schemaWith(eventSchema{Key: string(key), Payload: encoded})
	if err := s.writeSchema(file); err != nil {
		return "", err
	}

	s.events[key] = stored
	s.keys = append(s.keys, key)

	s.logger.Debug("event stored", zap.String("key", string(key)))
	return key, nil
}

func (s *Store) LoadAll(ctx context.Context) (map[domain.EventKey]domain.Payload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make(map[domain.EventKey]domain.Payload, len(s.events))
	for key, payload := range s.events {
		all[key] = payload.Clone()
	}

	return all, nil
}

func (s *Store) Recent(ctx context.Context, n int) ([]domain.Payload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if n <= 0 {
		return []domain.Payload{}, nil
	}

	start := len(s.keys) - n
	if start < 0 {
		start = 0
	}

	recent := make([]domain.Payload, 0, len(s.keys)-start)
	for _, key := range s.keys[start:] {
		recent = append(recent, s.events[key].Clone())
	}

	return recent, nil
}

func (s *Store) Get(ctx context.Context, key domain.EventKey) (domain.Payload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	payload, ok := s.events[key]
	if !ok {
		return nil, domain.ErrEventNotFound
	}

	return payload.Clone(), nil
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) lastKey() domain.EventKey {
	if len(s.keys) == 0 {
		return ""
	}

	return s.keys[len(s.keys)-1]
}

func (s *Store) schemaWith(extra eventSchema) fileSchema {
	file := fileSchema{Events: make([]eventSchema, 0, len(s.keys)+1)}
	for _, key := range s.keys {
		encoded, _ := json.Marshal(s.events[key])
		file.Events = append(file.Events, eventSchema{Key: string(key), Payload: string(encoded)})
	}
	file.Events = append(file.Events, extra)
	file.applyDefaults()

	return file
}

func (s *Store) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileSchema{}, nil
		}
		return fileSchema{}, fmt.Errorf("read memory file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode memory file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func (s *Store) quarantine(cause error) {
	aside := fmt.Sprintf("%s.corrupt-%d", s.path, s.clock.Now().Unix())
	if err := os.Rename(s.path, aside); err != nil {
		s.logger.Warn("memory unreadable, starting empty", zap.Error(cause), zap.NamedError("quarantine_error", err))
		return
	}

	s.logger.Warn("memory unreadable, moved aside and starting empty", zap.Error(cause), zap.String("moved_to", aside))
}

func (s *Store) writeSchema(file fileSchema) error {
	if err := os.MkdirAll(filepath.Dir(s.path), memoryDirMode); err != nil {
		return fmt.Errorf("create memory directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode memory file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(s.path), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp memory file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp memory file: %w", err)
	}

	if err := tempFile.Chmod(memoryFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp memory file: %w", err)
	}

	if err := tempFile.Sync(); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("sync temp memory file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp memory file: %w", err)
	}

	if err := os.Rename(tempName, s.path); err != nil {
		return fmt.Errorf("replace memory file: %w", err)
	}

	cleanup = false
	return nil
}

func decodeEvents(file fileSchema) (map[domain.EventKey]domain.Payload, error) {
	events := make(map[domain.EventKey]domain.Payload, len(file.Events))
	for i, entry := range file.Events {
		if entry.Key == "" {
			return nil, fmt.Errorf("event %d has no key", i)
		}
		key := domain.EventKey(entry.Key)
		if _, exists := events[key]; exists {
			return nil, fmt.Errorf("%w: %s", domain.ErrEventKeyCollision, key)
		}

		var payload domain.Payload
		if err := json.Unmarshal([]byte(entry.Payload), &payload); err != nil {
			return nil, fmt.Errorf("decode event %s payload: %w", key, err)
		}
		if payload == nil {
			payload = domain.Payload{}
		}
		events[key] = payload
	}

	return events, nil
}

// canonicalPayload returns the payload as it will read back after a reload,
// along with its JSON encoding.
func canonicalPayload(payload domain.Payload) (domain.Payload, string, error) {
	if payload == nil {
		payload = domain.Payload{}
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, "", fmt.Errorf("encode event payload: %w", err)
	}

	var stored domain.Payload
	if err := json.Unmarshal(encoded, &stored); err != nil {
		return nil, "", fmt.Errorf("decode event payload: %w", err)
	}

	return stored, string(encoded), nil
}
