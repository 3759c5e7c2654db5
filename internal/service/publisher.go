package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/calllog-service/internal/auth"
	"github.com/spec-kit/calllog-service/internal/domain"
	"github.com/spec-kit/calllog-service/internal/events"
	"github.com/spec-kit/calllog-service/internal/repository"
	apperrors "github.com/spec-kit/calllog-service/pkg/util/errorutil"
)

// publisher stamps and dispatches events on behalf of the services.
type publisher struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

func (p publisher) publishEvent(ctx context.Context, event events.Event) {
	if p.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		if p.now != nil {
			event.Timestamp = p.now()
		} else {
			event.Timestamp = time.Now()
		}
	}
	if err := p.dispatcher.Publish(ctx, event); err != nil && p.logger != nil {
		p.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func viewerActor(viewer auth.ViewerState) events.Actor {
	switch viewer.Kind {
	case auth.ViewerAdmin, auth.ViewerAdminImpersonating:
		return events.Actor{Role: domain.RoleAdmin}
	case auth.ViewerEmployee:
		id := viewer.EmployeeID
		return events.Actor{Role: domain.RoleEmployee, EmployeeID: &id}
	default:
		return events.Actor{}
	}
}

func sessionActor(s *auth.Session) events.Actor {
	return viewerActor(auth.ResolveViewer(s))
}

func employeeNotFound(err error, id int64) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound("employee", map[string]any{"id": id})
	}
	return err
}

func int64Ptr(v int64) *int64 {
	return &v
}
