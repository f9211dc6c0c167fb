package usecase

import (
	"context"
	"errors"
	"strings"

	"inventory/internal/domain/model"
	repo "inventory/internal/repository"

	"go.uber.org/zap"
)

type CategoryUsecase struct {
	categories repo.CategoryRepository
	log        *zap.Logger
}

func NewCategoryUsecase(categories repo.CategoryRepository, log *zap.Logger) *CategoryUsecase {
	return &CategoryUsecase{categories: categories, log: log}
}

type CategoryInput struct {
	Name        string
	Description string
}

func (u *CategoryUsecase) List(ctx context.Context) ([]model.Category, error) {
	cs, err := u.categories.List(ctx)
	if err != nil {
		return nil, mapRepoError(u.log, "list categories", err)
	}
	return cs, nil
}

func (u *CategoryUsecase) Get(ctx context.Context, id int64) (model.Category, error) {
	if id <= 0 {
		return model.Category{}, validation("invalid category id")
	}
	c, err := u.categories.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Category{}, notFound("Category")
	}
	if err != nil {
		return model.Category{}, mapRepoError(u.log, "find category", err)
	}
	return c, nil
}

func validateCategory(in CategoryInput) (CategoryInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if in.Name == "" {
		return in, validation("category name required")
	}
	if len(in.Name) > 100 {
		return in, validation("category name too long")
	}
	return in, nil
}

func (u *CategoryUsecase) checkNameUnique(ctx context.Context, name string, selfID int64) error {
	existing, err := u.categories.FindByName(ctx, name)
	if errors.Is(err, repo.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != selfID {
		return validation("Category %s already exists", name)
	}
	return nil
}

func (u *CategoryUsecase) Create(ctx context.Context, in CategoryInput) (model.Category, error) {
	in, err := validateCategory(in)
	if err != nil {
		return model.Category{}, err
	}
	if err := u.checkNameUnique(ctx, in.Name, 0); err != nil {
		return model.Category{}, mapRepoError(u.log, "create category", err)
	}

	c, err := u.categories.Create(ctx, model.Category{Name: in.Name, Description: in.Description})
	if err != nil {
		return model.Category{}, mapRepoError(u.log, "create category", err)
	}
	return c, nil
}

func (u *CategoryUsecase) Update(ctx context.Context, id int64, in CategoryInput) (model.Category, error) {
	c, err := u.Get(ctx, id)
	if err != nil {
		return model.Category{}, err
	}
	in, err = validateCategory(in)
	if err != nil {
		return model.Category{}, err
	}
	if err := u.checkNameUnique(ctx, in.Name, id); err != nil {
		return model.Category{}, mapRepoError(u.log, "update category", err)
	}

	c.Name = in.Name
	c.Description = in.Description
	if err := u.categories.Update(ctx, c); err != nil {
		return model.Category{}, mapRepoError(u.log, "update category", err)
	}
	return c, nil
}

// 品目が1件でも参照していれば削除できない
func (u *CategoryUsecase) Delete(ctx context.Context, id int64) error {
	c, err := u.Get(ctx, id)
	if err != nil {
		return err
	}

	n, err := u.categories.CountItems(ctx, id)
	if err != nil {
		return mapRepoError(u.log, "delete category", err)
	}
	if n > 0 {
		return conflict("Cannot delete category %s: %d item(s) still use it", c.Name, n)
	}

	if err := u.categories.Delete(ctx, id); err != nil {
		return mapRepoError(u.log, "delete category", err)
	}
	return nil
}
