package services

import (
	"time"

	"go.uber.org/zap"

	"legal-scribe/internal/api/v1/dto"
	"legal-scribe/internal/app/session"
)

// DefaultSessionService implements SessionService on the in-memory store.
type DefaultSessionService struct {
	store  *session.Store
	ttl    time.Duration
	logger *zap.Logger
}

// NewSessionService creates a session service.
func NewSessionService(store *session.Store, ttl time.Duration, logger *zap.Logger) *DefaultSessionService {
	if ttl <= 0 {
		ttl = session.DefaultTTL
	}
	return &DefaultSessionService{
		store:  store,
		ttl:    ttl,
		logger: logger,
	}
}

// Create opens a session holding the credential. An empty credential means
// demo mode. Only the session id is logged, never the key.
func (s *DefaultSessionService) Create(apiKey string) dto.SessionResponse {
	sess := s.store.Create(apiKey)

	s.logger.Info("session created",
		zap.String("session_id", sess.ID()),
		zap.Bool("demo_mode", apiKey == ""),
	)

	return dto.SessionResponse{
		SessionID:        sess.ID(),
		DemoMode:         apiKey == "",
		CreatedAt:        sess.CreatedAt(),
		ExpiresInSeconds: int64(s.ttl.Seconds()),
	}
}

// Get looks up a live session.
func (s *DefaultSessionService) Get(id string) (*session.Session, error) {
	return s.store.Get(id)
}

// Info describes a live session without exposing its credential.
func (s *DefaultSessionService) Info(id string) (dto.SessionInfoResponse, error) {
	sess, err := s.store.Get(id)
	if err != nil {
		return dto.SessionInfoResponse{}, err
	}
	return dto.SessionInfoResponse{
		SessionID:          sess.ID(),
		DemoMode:           sess.Credential() == "",
		CreatedAt:          sess.CreatedAt(),
		TranscriptionCount: sess.ResultCount(),
		ExpiresInSeconds:   int64(s.ttl.Seconds()),
	}, nil
}

// Delete ends a session, discarding its credential and results.
func (s *DefaultSessionService) Delete(id string) error {
	if err := s.store.Delete(id); err != nil {
		return err
	}
	s.logger.Info("session deleted", zap.String("session_id", id))
	return nil
}
