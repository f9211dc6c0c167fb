package repository

import (
	"context"

	"inventory/internal/domain/model"
)

type LocationRepository interface {
	List(ctx context.Context) ([]model.Location, error)
	FindByID(ctx context.Context, id int64) (model.Location, error)
	Create(ctx context.Context, l model.Location) (model.Location, error)
	Update(ctx context.Context, l model.Location) error
	Delete(ctx context.Context, id int64) error
	CountItems(ctx context.Context, id int64) (int64, error)
}
