package usecase

import (
	"errors"
	"fmt"
	"net/http"

	repo "inventory/internal/repository"

	"go.uber.org/zap"
)

var (
	//404 対象なし
	ErrNotFound = errors.New("not found")
	//400 入力不正
	ErrValidation = errors.New("validation error")
	//400 在庫不足
	ErrInsufficientStock = errors.New("insufficient stock")
	//409 参照・重複
	ErrIntegrityConflict = errors.New("integrity conflict")
	//401 認証失敗
	ErrUnauthorized = errors.New("unauthorized")
	//500
	ErrInternal = errors.New("internal error")
)

// handlerがそのままステータスとメッセージに使うエラー
type HTTPError struct {
	Status  int
	Message string
	Err     error // 種類（errors.Isで判定する）
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
		Err:     kindOf(status),
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

func notFound(what string) error {
	return NewHTTPError(http.StatusNotFound, what+" not found")
}

func validation(format string, args ...any) error {
	return NewHTTPError(http.StatusBadRequest, fmt.Sprintf(format, args...))
}

func conflict(format string, args ...any) error {
	return NewHTTPError(http.StatusConflict, fmt.Sprintf(format, args...))
}

func insufficientStock(available, requested int64) error {
	return &HTTPError{
		Status:  http.StatusBadRequest,
		Message: fmt.Sprintf("Insufficient stock. Available: %d, requested: %d", available, requested),
		Err:     ErrInsufficientStock,
	}
}

func dbError() error {
	return NewHTTPError(http.StatusInternalServerError, "db error")
}

// ステータスから種類を決める（400は入力不正扱い）
func kindOf(status int) error {
	switch status {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadRequest:
		return ErrValidation
	case http.StatusConflict:
		return ErrIntegrityConflict
	case http.StatusUnauthorized:
		return ErrUnauthorized
	default:
		return ErrInternal
	}
}

// HTTPErrorはそのまま、repositoryのエラーは種類に合わせて変換する。
// それ以外はログに出して500にする。
func mapRepoError(log *zap.Logger, op string, err error) error {
	if he, ok := AsHTTPError(err); ok {
		return he
	}
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return NewHTTPError(http.StatusNotFound, "not found")
	case errors.Is(err, repo.ErrDuplicate):
		return validation("already exists")
	case errors.Is(err, repo.ErrReferenced):
		return conflict("still referenced by other records")
	}
	log.Error(op, zap.Error(err))
	return dbError()
}
