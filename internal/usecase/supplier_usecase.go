package usecase

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"inventory/internal/domain/model"
	repo "inventory/internal/repository"

	"go.uber.org/zap"
)

type SupplierUsecase struct {
	suppliers repo.SupplierRepository
	log       *zap.Logger
}

func NewSupplierUsecase(suppliers repo.SupplierRepository, log *zap.Logger) *SupplierUsecase {
	return &SupplierUsecase{suppliers: suppliers, log: log}
}

type SupplierInput struct {
	Name          string
	ContactPerson string
	Email         string
	Phone         string
	Address       string
}

func (u *SupplierUsecase) List(ctx context.Context) ([]model.Supplier, error) {
	ss, err := u.suppliers.List(ctx)
	if err != nil {
		return nil, mapRepoError(u.log, "list suppliers", err)
	}
	return ss, nil
}

func (u *SupplierUsecase) Get(ctx context.Context, id int64) (model.Supplier, error) {
	if id <= 0 {
		return model.Supplier{}, validation("invalid supplier id")
	}
	s, err := u.suppliers.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Supplier{}, notFound("Supplier")
	}
	if err != nil {
		return model.Supplier{}, mapRepoError(u.log, "find supplier", err)
	}
	return s, nil
}

func validateSupplier(in SupplierInput) (SupplierInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.ContactPerson = strings.TrimSpace(in.ContactPerson)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)

	if in.Name == "" {
		return in, validation("supplier name required")
	}
	if len(in.Name) > 200 {
		return in, validation("supplier name too long")
	}
	if len(in.ContactPerson) > 100 {
		return in, validation("contact person too long")
	}
	if in.Email != "" {
		if len(in.Email) > 100 {
			return in, validation("email too long")
		}
		//"Name <a@b>" 形式は受け付けない
		addr, err := mail.ParseAddress(in.Email)
		if err != nil || addr.Address != in.Email {
			return in, validation("invalid email format")
		}
	}
	if len(in.Phone) > 20 {
		return in, validation("phone too long")
	}
	return in, nil
}

func (u *SupplierUsecase) checkNameUnique(ctx context.Context, name string, selfID int64) error {
	existing, err := u.suppliers.FindByName(ctx, name)
	if errors.Is(err, repo.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != selfID {
		return validation("Supplier %s already exists", name)
	}
	return nil
}

func (u *SupplierUsecase) Create(ctx context.Context, in SupplierInput) (model.Supplier, error) {
	in, err := validateSupplier(in)
	if err != nil {
		return model.Supplier{}, err
	}
	if err := u.checkNameUnique(ctx, in.Name, 0); err != nil {
		return model.Supplier{}, mapRepoError(u.log, "create supplier", err)
	}

	s, err := u.suppliers.Create(ctx, model.Supplier{
		Name:          in.Name,
		ContactPerson: in.ContactPerson,
		Email:         in.Email,
		Phone:         in.Phone,
		Address:       in.Address,
	})
	if err != nil {
		return model.Supplier{}, mapRepoError(u.log, "create supplier", err)
	}
	return s, nil
}

func (u *SupplierUsecase) Update(ctx context.Context, id int64, in SupplierInput) (model.Supplier, error) {
	s, err := u.Get(ctx, id)
	if err != nil {
		return model.Supplier{}, err
	}
	in, err = validateSupplier(in)
	if err != nil {
		return model.Supplier{}, err
	}
	if err := u.checkNameUnique(ctx, in.Name, id); err != nil {
		return model.Supplier{}, mapRepoError(u.log, "update supplier", err)
	}

	s.Name = in.Name
	s.ContactPerson = in.ContactPerson
	s.Email = in.Email
	s.Phone = in.Phone
	s.Address = in.Address
	if err := u.suppliers.Update(ctx, s); err != nil {
		return model.Supplier{}, mapRepoError(u.log, "update supplier", err)
	}
	return s, nil
}

// 品目・取引のどちらかが参照していれば削除できない
func (u *SupplierUsecase) Delete(ctx context.Context, id int64) error {
	s, err := u.Get(ctx, id)
	if err != nil {
		return err
	}

	items, err := u.suppliers.CountItems(ctx, id)
	if err != nil {
		return mapRepoError(u.log, "delete supplier", err)
	}
	txns, err := u.suppliers.CountTransactions(ctx, id)
	if err != nil {
		return mapRepoError(u.log, "delete supplier", err)
	}
	if items > 0 || txns > 0 {
		return conflict("Cannot delete supplier %s: referenced by %d item(s) and %d transaction(s)", s.Name, items, txns)
	}

	if err := u.suppliers.Delete(ctx, id); err != nil {
		return mapRepoError(u.log, "delete supplier", err)
	}
	return nil
}
