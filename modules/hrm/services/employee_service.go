package services

import (
	"context"

	"github.com/nordwind/backoffice/modules/hrm/domain/aggregates/employee"
	"github.com/nordwind/backoffice/pkg/composables"
	"github.com/nordwind/backoffice/pkg/eventbus"
)

type EmployeeService struct {
	repo      employee.Repository
	publisher eventbus.EventBus
}

func NewEmployeeService(repo employee.Repository, publisher eventbus.EventBus) *EmployeeService {
	return &EmployeeService{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *EmployeeService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *EmployeeService) GetAll(ctx context.Context) ([]employee.Employee, error) {
	return s.repo.GetAll(ctx)
}

func (s *EmployeeService) GetByID(ctx context.Context, id uint) (employee.Employee, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *EmployeeService) GetPaginated(ctx context.Context, params *employee.FindParams) ([]employee.Employee, error) {
	return s.repo.GetPaginated(ctx, params)
}

func (s *EmployeeService) Create(ctx context.Context, data *employee.CreateDTO) error {
	return composables.InTx(ctx, func(txCtx context.Context) error {
		entity, err := data.ToEntity()
		if err != nil {
			return err
		}
		createdEntity, err := s.repo.Create(txCtx, entity)
		if err != nil {
			return err
		}
		s.publisher.Publish(employee.NewCreatedEvent(createdEntity))
		return nil
	})
}

func (s *EmployeeService) Update(ctx context.Context, id uint, patch employee.Patch) error {
	return composables.InTx(ctx, func(txCtx context.Context) error {
		entity, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		updated := entity.Apply(patch)
		if err := s.repo.Update(txCtx, updated); err != nil {
			return err
		}
		s.publisher.Publish(employee.NewUpdatedEvent(updated))
		return nil
	})
}

func (s *EmployeeService) Delete(ctx context.Context, id uint) (employee.Employee, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) (employee.Employee, error) {
		entity, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return employee.Employee{}, err
		}
		if err := s.repo.Delete(txCtx, id); err != nil {
			return employee.Employee{}, err
		}
		s.publisher.Publish(employee.NewDeletedEvent(entity))
		return entity, nil
	})
}
