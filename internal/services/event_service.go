package services

import (
	"context"
	"fmt"
	"time"

	"github.com/buildsign/buildsign-api/internal/jobs"
	"github.com/buildsign/buildsign-api/internal/models"
	"github.com/buildsign/buildsign-api/internal/repository"
	"github.com/buildsign/buildsign-api/pkg/logger"
	"github.com/getsentry/sentry-go"
)

// EventService records standalone audit events, the ones that do not ride
// inside a status transition (repeat views, downloads). Recording never
// fails the caller's operation: on error the write is logged, reported and
// retried in the background.
type EventService struct {
	repo   repository.EventRepository
	worker *jobs.Worker
}

// NewEventService creates a new event service
func NewEventService(repo repository.EventRepository, worker *jobs.Worker) *EventService {
	return &EventService{repo: repo, worker: worker}
}

// Record appends an event, falling back to background retry on failure.
func (s *EventService) Record(ctx context.Context, contractID uint, eventType string, data any, ip, userAgent string) {
	event, err := models.NewEvent(contractID, eventType, data, ip, userAgent)
	if err != nil {
		logger.Error(fmt.Sprintf("[Events] Failed to build %s event for contract %d: %v", eventType, contractID, err))
		sentry.CaptureException(err)
		return
	}

	if err := s.repo.Append(ctx, event); err != nil {
		logger.Error(fmt.Sprintf("[Events] Failed to append %s event for contract %d, retrying: %v", eventType, contractID, err))
		sentry.CaptureException(err)
		s.worker.EnqueueWithRetry(func(jobCtx context.Context) error {
			return s.repo.Append(jobCtx, event)
		}, 3, 2*time.Second)
	}
}

// ListForContract returns the most recent events for a contract, newest first.
func (s *EventService) ListForContract(ctx context.Context, contractID uint, limit int) ([]models.ContractEvent, error) {
	return s.repo.ListForContract(ctx, contractID, limit)
}
