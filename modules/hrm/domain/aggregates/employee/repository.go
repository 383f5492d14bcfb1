package employee

import (
	"context"

	gerrors "github.com/go-faster/errors"
)

var (
	ErrNotFound  = gerrors.New("employee not found")
	ErrDuplicate = gerrors.New("employee identifier already exists")
)

type FindParams struct {
	Q      string
	Limit  int
	Offset int
	SortBy []string
}

type Repository interface {
	Count(ctx context.Context) (int64, error)
	GetAll(ctx context.Context) ([]Employee, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]Employee, error)
	GetByID(ctx context.Context, id uint) (Employee, error)
	GetByCode(ctx context.Context, code string) (Employee, error)
	GetByEmail(ctx context.Context, email string) (Employee, error)
	GetByPhone(ctx context.Context, phone string) (Employee, error)
	Create(ctx context.Context, data Employee) (Employee, error)
	Update(ctx context.Context, data Employee) error
	Delete(ctx context.Context, id uint) error
}
