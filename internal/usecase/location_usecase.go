package usecase

import (
	"context"
	"errors"
	"strings"

	"inventory/internal/domain/model"
	repo "inventory/internal/repository"

	"go.uber.org/zap"
)

type LocationUsecase struct {
	locations repo.LocationRepository
	log       *zap.Logger
}

func NewLocationUsecase(locations repo.LocationRepository, log *zap.Logger) *LocationUsecase {
	return &LocationUsecase{locations: locations, log: log}
}

type LocationInput struct {
	Warehouse string
	Aisle     string
	Shelf     string
	Bin       string
}

func (u *LocationUsecase) List(ctx context.Context) ([]model.Location, error) {
	ls, err := u.locations.List(ctx)
	if err != nil {
		return nil, mapRepoError(u.log, "list locations", err)
	}
	return ls, nil
}

func (u *LocationUsecase) Get(ctx context.Context, id int64) (model.Location, error) {
	if id <= 0 {
		return model.Location{}, validation("invalid location id")
	}
	l, err := u.locations.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Location{}, notFound("Location")
	}
	if err != nil {
		return model.Location{}, mapRepoError(u.log, "find location", err)
	}
	return l, nil
}

func validateLocation(in LocationInput) (LocationInput, error) {
	in.Warehouse = strings.TrimSpace(in.Warehouse)
	in.Aisle = strings.TrimSpace(in.Aisle)
	in.Shelf = strings.TrimSpace(in.Shelf)
	in.Bin = strings.TrimSpace(in.Bin)

	if in.Warehouse == "" {
		return in, validation("warehouse required")
	}
	if len(in.Warehouse) > 50 {
		return in, validation("warehouse too long")
	}
	if len(in.Aisle) > 20 || len(in.Shelf) > 20 || len(in.Bin) > 20 {
		return in, validation("aisle, shelf and bin must be at most 20 characters")
	}
	return in, nil
}

func (u *LocationUsecase) Create(ctx context.Context, in LocationInput) (model.Location, error) {
	in, err := validateLocation(in)
	if err != nil {
		return model.Location{}, err
	}
	l, err := u.locations.Create(ctx, model.Location{
		Warehouse: in.Warehouse,
		Aisle:     in.Aisle,
		Shelf:     in.Shelf,
		Bin:       in.Bin,
	})
	if err != nil {
		return model.Location{}, mapRepoError(u.log, "create location", err)
	}
	return l, nil
}

func (u *LocationUsecase) Update(ctx context.Context, id int64, in LocationInput) (model.Location, error) {
	l, err := u.Get(ctx, id)
	if err != nil {
		return model.Location{}, err
	}
	in, err = validateLocation(in)
	if err != nil {
		return model.Location{}, err
	}

	l.Warehouse, l.Aisle, l.Shelf, l.Bin = in.Warehouse, in.Aisle, in.Shelf, in.Bin
	if err := u.locations.Update(ctx, l); err != nil {
		return model.Location{}, mapRepoError(u.log, "update location", err)
	}
	return l, nil
}

func (u *LocationUsecase) Delete(ctx context.Context, id int64) error {
	l, err := u.Get(ctx, id)
	if err != nil {
		return err
	}

	n, err := u.locations.CountItems(ctx, id)
	if err != nil {
		return mapRepoError(u.log, "delete location", err)
	}
	if n > 0 {
		return conflict("Cannot delete location %s: %d item(s) stored there", l.Label(), n)
	}

	if err := u.locations.Delete(ctx, id); err != nil {
		return mapRepoError(u.log, "delete location", err)
	}
	return nil
}
