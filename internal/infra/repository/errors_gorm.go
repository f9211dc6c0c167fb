package repository

import (
	"errors"

	repo "inventory/internal/repository"

	"gorm.io/gorm"
)

// gormのエラーをrepositoryのエラーにそろえる。
// TranslateError: true で開いたDBが前提。
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repo.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return repo.ErrDuplicate
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return repo.ErrReferenced
	default:
		return err
	}
}

// ページ番号からoffsetを出す
func offsetOf(page, limit int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit
}
