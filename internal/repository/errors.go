package repository

import "errors"

// 対象が存在しない
var ErrNotFound = errors.New("not found")

// 一意制約違反（コード・名称の重複）
var ErrDuplicate = errors.New("duplicate")

// 他のレコードから参照されている（外部キー違反）
var ErrReferenced = errors.New("referenced")
