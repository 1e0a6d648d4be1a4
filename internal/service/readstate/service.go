package readstate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"markread_demo/internal/domain"
	"markread_demo/internal/metrics"
	"markread_demo/internal/model"
	"markread_demo/internal/repository"
	"markread_demo/internal/sse"
)

var errNotOwner = errors.New("requester does not own notification")

type Service struct {
	store   repository.NotificationRepository
	hub     *sse.Hub
	outbox  *Outbox
	metrics *metrics.Metrics
	log     *zap.Logger
	now     func() time.Time
}

func NewService(store repository.NotificationRepository, hub *sse.Hub, outbox *Outbox, m *metrics.Metrics, logger *zap.Logger) *Service {
	return &Service{
		store:   store,
		hub:     hub,
		outbox:  outbox,
		metrics: m,
		log:     logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Reject records an outcome decided before any store lookup and returns it.
func (s *Service) Reject(outcome domain.Outcome) domain.Outcome {
	s.metrics.ObserveOutcome(outcome)
	return outcome
}

// MarkAsRead sets the read flag of notificationID on behalf of userID.
//
// A missing record and a record owned by another user both yield
// OutcomeNotFoundOrDenied with domain.ErrNotFoundOrDenied. Marking an already
// read notification is OutcomeUpdated with no write. The returned error is nil
// only for OutcomeUpdated; for OutcomeInternalError it carries the cause and is
// meant for server logs only.
func (s *Service) MarkAsRead(ctx context.Context, notificationID string, userID int64) (outcome domain.Outcome, err error) {
	ctx, span := otel.Tracer("readstate").Start(ctx, "readstate.mark_as_read")
	span.SetAttributes(
		attribute.String("notification.id", notificationID),
		attribute.Int64("user.id", userID),
	)
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("mark read panicked",
				zap.String("notification_id", notificationID),
				zap.Any("panic", r),
				zap.Stack("stack"),
			)
			outcome, err = domain.OutcomeInternalError, fmt.Errorf("mark read %q: panic: %v", notificationID, r)
		}
		span.SetAttributes(attribute.String("outcome", string(outcome)))
		if outcome == domain.OutcomeInternalError {
			span.RecordError(err)
			span.SetStatus(codes.Error, "mark read failed")
		}
		span.End()
		s.metrics.ObserveOutcome(outcome)
	}()

	if notificationID == "" {
		return domain.OutcomeInvalidRequest, domain.ErrNotificationIDMissing
	}

	transitioned := false
	_, err = s.store.UpdateNotification(ctx, notificationID, func(n *model.Notification) error {
		if !domain.CanRead(*n, userID) {
			return errNotOwner
		}
		transitioned = domain.MarkRead(n)
		return nil
	})
	switch {
	case errors.Is(err, repository.ErrNotificationNotFound), errors.Is(err, errNotOwner):
		s.log.Debug("mark read rejected",
			zap.String("notification_id", notificationID),
			zap.Int64("user_id", userID),
			zap.NamedError("reason", err),
		)
		return domain.OutcomeNotFoundOrDenied, domain.ErrNotFoundOrDenied
	case err != nil:
		s.log.Error("store update notification failed",
			zap.String("notification_id", notificationID),
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return domain.OutcomeInternalError, fmt.Errorf("update notification %q: %w", notificationID, err)
	}

	if !transitioned {
		s.log.Info("notification already read", zap.String("notification_id", notificationID))
		return domain.OutcomeUpdated, nil
	}

	s.log.Info("notification marked read",
		zap.String("notification_id", notificationID),
		zap.Int64("user_id", userID),
	)
	s.metrics.ObserveTransition()
	s.emit(model.ReadEvent{
		NotificationID: notificationID,
		OwnerID:        userID,
		ReadAt:         s.now(),
	})
	return domain.OutcomeUpdated, nil
}

// emit hands the event to live subscribers and the broker outbox. Neither
// blocks; a full queue drops the event after the state change is committed.
func (s *Service) emit(event model.ReadEvent) {
	if !s.hub.Broadcast(event) {
		s.log.Warn("read event dropped, hub queue full", zap.String("notification_id", event.NotificationID))
	}
	if !s.outbox.Enqueue(event) {
		s.log.Warn("read event dropped, outbox full", zap.String("notification_id", event.NotificationID))
	}
}
