// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides conversation persistence for chatdeck.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jeranaias/chatdeck/internal/kv"
	"github.com/jeranaias/chatdeck/internal/model"
)

// StorageKey is the reserved key holding the whole conversation collection.
const StorageKey = "ai-chat-conversations"

// ErrNoStorage is recorded when a store was built without a medium.
var ErrNoStorage = errors.New("storage: no key-value medium configured")

// =============================================================================
// OPTIONS
// =============================================================================

// Option configures a ConversationStore.
type Option func(*ConversationStore)

// WithLogger sets the logger failures are reported to.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *ConversationStore) {
		s.logger = logger
	}
}

// WithClock overrides the time source used for new conversations and renames.
func WithClock(now func() time.Time) Option {
	return func(s *ConversationStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides how conversation IDs are minted.
func WithIDGenerator(gen func() string) Option {
	return func(s *ConversationStore) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithKey stores the collection under key instead of StorageKey.
func WithKey(key string) Option {
	return func(s *ConversationStore) {
		if key != "" {
			s.key = key
		}
	}
}

// WithSamples replaces the conversations used for first-run seeding and
// for the corrupt-data fallback.
func WithSamples(samples func(now time.Time) []model.Conversation) Option {
	return func(s *ConversationStore) {
		if samples != nil {
			s.samples = samples
		}
	}
}

// =============================================================================
// CONVERSATION STORE
// =============================================================================

// ConversationStore keeps every conversation as one JSON array under a single
// key of a kv.Storage.
//
// Failures never reach the caller: reads degrade to the sample set and writes
// become no-ops. LastStatus reports which path the last operation took.
type ConversationStore struct {
	kv      kv.Storage
	key     string
	logger  zerolog.Logger
	now     func() time.Time
	newID   func() string
	samples func(now time.Time) []model.Conversation

	// mu serializes read-modify-write cycles within this process.
	mu     sync.Mutex
	status Status
}

// NewConversationStore creates a store over the given medium.
func NewConversationStore(storage kv.Storage, opts ...Option) *ConversationStore {
	s := &ConversationStore{
		kv:      storage,
		key:     StorageKey,
		logger:  zerolog.Nop(),
		now:     time.Now,
		newID:   uuid.NewString,
		samples: Samples,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With().Str("component", "storage").Str("key", s.key).Logger()
	return s
}

// Key returns the key the collection is stored under.
func (s *ConversationStore) Key() string {
	return s.key
}

// LastStatus returns the outcome of the most recent operation.
func (s *ConversationStore) LastStatus() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// =============================================================================
// LOAD
// =============================================================================

// LoadAll returns the full collection in stored order.
//
// An absent key is seeded with the sample conversations, which are then
// returned. Unreadable or corrupt data is logged and the samples are
// returned without touching what is stored.
func (s *ConversationStore) LoadAll() []model.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	convs, outcome, err := s.load()
	s.record(OpLoad, outcome, err)
	return convs
}

// load reads and decodes the collection. The caller holds mu.
func (s *ConversationStore) load() ([]model.Conversation, Outcome, error) {
	if s.kv == nil {
		s.logger.Error().Err(ErrNoStorage).Msg("Error loading conversations")
		return s.samples(s.now()), OutcomeFallback, ErrNoStorage
	}

	raw, ok, err := s.kv.Get(s.key)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error loading conversations")
		return s.samples(s.now()), OutcomeFallback, fmt.Errorf("read %s: %w", s.key, err)
	}

	if !ok || raw == "" {
		samples := s.samples(s.now())
		if err := s.write(samples); err != nil {
			s.logger.Error().Err(err).Msg("Error initializing sample conversations")
			return samples, OutcomeWriteFailed, err
		}
		s.logger.Info().Int("count", len(samples)).Msg("Seeded sample conversations")
		return samples, OutcomeSeeded, nil
	}

	convs, err := decode(raw)
	if err != nil {
		s.logger.Error().Err(err).Int("bytes", len(raw)).Msg("Error loading conversations")
		return s.samples(s.now()), OutcomeFallback, err
	}
	return convs, OutcomeOK, nil
}

// decode parses a stored collection. Time fields come back through
// time.Time's RFC 3339 unmarshalling.
func decode(raw string) ([]model.Conversation, error) {
	var convs []model.Conversation
	if err := json.Unmarshal([]byte(raw), &convs); err != nil {
		return nil, fmt.Errorf("decode conversations: %w", err)
	}
	if convs == nil {
		// "null" is valid JSON but not a collection.
		return nil, fmt.Errorf("decode conversations: %w", errNotArray)
	}
	for i := range convs {
		if convs[i].Messages == nil {
			convs[i].Messages = make([]model.Message, 0)
		}
	}
	return convs, nil
}

var errNotArray = errors.New("stored value is not an array")

// write encodes and stores the whole collection. The caller holds mu.
func (s *ConversationStore) write(convs []model.Conversation) error {
	if s.kv == nil {
		return ErrNoStorage
	}
	if convs == nil {
		convs = make([]model.Conversation, 0)
	}
	data, err := json.Marshal(convs)
	if err != nil {
		return fmt.Errorf("encode conversations: %w", err)
	}
	if err := s.kv.Set(s.key, string(data)); err != nil {
		return fmt.Errorf("write %s: %w", s.key, err)
	}
	return nil
}

// =============================================================================
// MUTATIONS
// =============================================================================

// Save upserts conv. An existing entry is replaced in place; a new one is
// inserted at the front of the collection.
func (s *ConversationStore) Save(conv model.Conversation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.save(conv)
}

func (s *ConversationStore) save(conv model.Conversation) {
	convs, loadOutcome, loadErr := s.load()

	replaced := false
	for i := range convs {
		if convs[i].ID == conv.ID {
			convs[i] = conv
			replaced = true
			break
		}
	}
	if !replaced {
		convs = append([]model.Conversation{conv}, convs...)
	}

	if err := s.write(convs); err != nil {
		s.logger.Error().Err(err).Str("conversation", conv.ID).Msg("Error saving conversation")
		s.record(OpSave, OutcomeWriteFailed, err)
		return
	}

	s.logger.Debug().Str("conversation", conv.ID).Bool("replaced", replaced).Msg("Saved conversation")
	s.record(OpSave, worse(OutcomeOK, loadOutcome), loadErr)
}

// Delete removes the conversation with the given ID. Deleting an unknown ID
// leaves the collection unchanged.
func (s *ConversationStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	convs, loadOutcome, loadErr := s.load()

	filtered := make([]model.Conversation, 0, len(convs))
	for _, c := range convs {
		if c.ID != id {
			filtered = append(filtered, c)
		}
	}

	if err := s.write(filtered); err != nil {
		s.logger.Error().Err(err).Str("conversation", id).Msg("Error deleting conversation")
		s.record(OpDelete, OutcomeWriteFailed, err)
		return
	}

	outcome := worse(OutcomeOK, loadOutcome)
	if len(filtered) == len(convs) && outcome == OutcomeOK {
		outcome = OutcomeNotFound
	}
	s.record(OpDelete, outcome, loadErr)
}

// CreateNew builds an empty conversation titled from firstMessage.
// It is not persisted until passed to Save.
func (s *ConversationStore) CreateNew(firstMessage string) model.Conversation {
	conv := model.NewConversation(firstMessage, s.now())
	conv.ID = s.newID()
	return conv
}

// UpdateTitle renames a stored conversation and refreshes its UpdatedAt.
// Unknown IDs are ignored.
func (s *ConversationStore) UpdateTitle(id, title string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	convs, loadOutcome, loadErr := s.load()
	for _, c := range convs {
		if c.ID != id {
			continue
		}
		c.SetTitle(title, s.now())
		s.save(c)
		s.record(OpUpdateTitle, s.status.Outcome, s.status.Err)
		return
	}

	s.logger.Debug().Str("conversation", id).Msg("Rename skipped, conversation not found")
	s.record(OpUpdateTitle, worse(OutcomeNotFound, loadOutcome), loadErr)
}

// Get returns the stored conversation with the given ID.
func (s *ConversationStore) Get(id string) (model.Conversation, bool) {
	for _, c := range s.LoadAll() {
		if c.ID == id {
			return c, true
		}
	}
	return model.Conversation{}, false
}

// record stores the outcome of op. The caller holds mu.
func (s *ConversationStore) record(op Op, outcome Outcome, err error) {
	s.status = Status{Op: op, Outcome: outcome, Err: err, At: s.now()}
}
