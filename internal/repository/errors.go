package repository

import "errors"

// 見つからない（他人の所有物も含む）
var ErrNotFound = errors.New("not found")

// 一意制約違反
var ErrConflict = errors.New("conflict")
