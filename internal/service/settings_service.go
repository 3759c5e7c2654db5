package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/calllog-service/internal/domain"
	"github.com/spec-kit/calllog-service/internal/events"
	"github.com/spec-kit/calllog-service/internal/repository"
)

// SettingsService reads and writes general settings.
type SettingsService struct {
	publisher
	store repository.Store
}

// NewSettingsService builds the service.
func NewSettingsService(store repository.Store, dispatcher events.Dispatcher, logger *zap.Logger) *SettingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{
		publisher: publisher{dispatcher: dispatcher, logger: logger},
		store:     store,
	}
}

// LoginMessage returns the login banner, or the default when unset.
func (s *SettingsService) LoginMessage(ctx context.Context) (string, error) {
	setting, err := s.store.GetSetting(ctx, domain.SettingLoginMessage)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.DefaultLoginMessage, nil
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(setting.Value) == "" {
		return domain.DefaultLoginMessage, nil
	}
	return setting.Value, nil
}

// UpdateLoginMessage stores a new banner. A blank message resets it to the
// default. The stored value is returned.
func (s *SettingsService) UpdateLoginMessage(ctx context.Context, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		message = domain.DefaultLoginMessage
	}
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		return tx.UpsertSetting(ctx, domain.SettingLoginMessage, message)
	})
	if err != nil {
		return "", err
	}
	s.publishEvent(ctx, events.Event{
		Type:    events.EventSettingUpdated,
		Actor:   events.Actor{Role: domain.RoleAdmin},
		Payload: events.SettingUpdatedPayload{Key: domain.SettingLoginMessage},
	})
	return message, nil
}
