package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dpetrovs/marksync/internal/client/client"
	"github.com/dpetrovs/marksync/internal/client/models"
	"github.com/dpetrovs/marksync/internal/client/scheduler"
	"github.com/dpetrovs/marksync/internal/common"
	"github.com/dpetrovs/marksync/internal/logging"
	"github.com/google/uuid"
)

// ScheduleService covers local scheduled action mutations. Platform
// triggers are installed best-effort through the scheduler port.
type ScheduleService interface {
	Add(ctx context.Context, action models.ScheduledAction) (*models.ScheduledAction, error)
	List(ctx context.Context) ([]models.ScheduledAction, error)
	Delete(ctx context.Context, id string) error
}

type scheduleService struct {
	repos  *client.Repositories
	sched  scheduler.Port
	logger logging.Logger
	now    func() time.Time
}

func NewScheduleService(repos *client.Repositories, sched scheduler.Port, logger logging.Logger) ScheduleService {
	return &scheduleService{repos: repos, sched: sched, logger: logger, now: time.Now}
}

func (s *scheduleService) Add(ctx context.Context, action models.ScheduledAction) (*models.ScheduledAction, error) {
	if action.Name == "" {
		return nil, fmt.Errorf("scheduled action name is required")
	}
	if err := action.Destination.Validate(); err != nil {
		return nil, err
	}

	action.Id = uuid.NewString()
	action.CreatedAt = s.now().UTC()

	existing, err := s.repos.Schedules.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read scheduled actions: %w", err)
	}
	if err := s.repos.Schedules.ReplaceAll(ctx, append(existing, action)); err != nil {
		return nil, fmt.Errorf("failed to save scheduled action: %w", err)
	}

	if action.Enabled {
		if err := s.sched.Schedule(ctx, action.Id, action.Name, action.TriggerAt, action.Recurrence); err != nil {
			s.logger.Warn(ctx, "trigger installation failed", "entity_id", action.Id, "error", err)
		}
	}
	return &action, nil
}

func (s *scheduleService) List(ctx context.Context) ([]models.ScheduledAction, error) {
	return s.repos.Schedules.GetAll(ctx)
}

func (s *scheduleService) Delete(ctx context.Context, id string) error {
	existing, err := s.repos.Schedules.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to read scheduled actions: %w", err)
	}

	keep := existing[:0:0]
	found := false
	for _, item := range existing {
		if item.Id == id {
			found = true
			continue
		}
		keep = append(keep, item)
	}
	if !found {
		return common.ErrNotFound
	}

	if err := s.repos.Schedules.ReplaceAll(ctx, keep); err != nil {
		return fmt.Errorf("failed to remove scheduled action: %w", err)
	}
	if err := s.sched.Cancel(ctx, id); err != nil {
		s.logger.Warn(ctx, "trigger cancellation failed", "entity_id", id, "error", err)
	}
	return s.repos.Tombstones.Record(ctx, models.EntityTypeSchedule, id)
}
