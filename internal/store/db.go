package store

import (
	"errors"

	"github.com/dgraph-io/badger/v3"
)

var errNilStore = errors.New("nil audit store")

// Store 基于 Badger 保存诊断审计链。
type Store struct {
	db *badger.DB
}

func NewStore(db *badger.DB) *Store {
	return &Store{
		db: db,
	}
}

// Open 打开数据目录；dir 为空时使用内存模式。
func Open(dir string) (*badger.DB, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	return badger.Open(opts)
}

// OpenReadOnly 以只读方式打开已有数据目录，供离线校验使用。
func OpenReadOnly(dir string) (*badger.DB, error) {
	if dir == "" {
		return nil, errors.New("data dir required for read-only open")
	}
	return badger.Open(badger.DefaultOptions(dir).WithLogger(nil).WithReadOnly(true))
}

func (s *Store) ok() error {
	if s == nil || s.db == nil {
		return errNilStore
	}
	return nil
}
