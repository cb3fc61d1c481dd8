package store

import (
	"encoding/binary"
	"errors"
	"fmt"

	"agricultura_dapp/internal/types"
	"agricultura_dapp/pkg/audit"

	badger "github.com/dgraph-io/badger/v3"
)

var (
	keyLastIndex = []byte("audit:lastIndex")
	keyLastHash  = []byte("audit:lastHash")
	keyEntryPref = []byte("audit:entry:")
)

var ErrEntryNotFound = errors.New("audit entry not found")

// 大端序保证按 key 迭代时有序
func entryKey(index uint64) []byte {
	k := make([]byte, len(keyEntryPref)+8)
	copy(k, keyEntryPref)
	binary.BigEndian.PutUint64(k[len(keyEntryPref):], index)
	return k
}

// Append 在链尾追加一条记录
func (s *Store) Append(payload []byte) (*types.Entry, error) {
	if err := s.ok(); err != nil {
		return nil, err
	}
	p := append([]byte(nil), payload...)

	var appended *types.Entry
	err := s.db.Update(func(txn *badger.Txn) error {
		lastIndex, lastHash, err := loadLast(txn)
		if err != nil {
			return err
		}

		e := &types.Entry{Index: lastIndex + 1, PrevHash: lastHash, Payload: p}
		e.EntryHash = audit.AuditHash(e.Index, e.PrevHash, e.Payload)

		enc, err := audit.EncodeEntry(e)
		if err != nil {
			return err
		}
		if err := txn.Set(entryKey(e.Index), enc); err != nil {
			return err
		}
		var idx [8]byte
		binary.BigEndian.PutUint64(idx[:], e.Index)
		if err := txn.Set(keyLastIndex, idx[:]); err != nil {
			return err
		}
		if err := txn.Set(keyLastHash, e.EntryHash[:]); err != nil {
			return err
		}
		appended = e
		return nil
	})
	return appended, err
}

func (s *Store) GetEntry(index uint64) (*types.Entry, error) {
	if err := s.ok(); err != nil {
		return nil, err
	}
	var e *types.Entry
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		e, err = readEntry(txn, index)
		return err
	})
	return e, err
}

// VerifyChain 从创世开始逐条校验哈希链
func (s *Store) VerifyChain() error {
	if err := s.ok(); err != nil {
		return err
	}
	return s.db.View(func(txn *badger.Txn) error {
		lastIndex, lastHash, err := loadLast(txn)
		if err != nil {
			return err
		}
		var prev [32]byte
		for i := uint64(1); i <= lastIndex; i++ {
			e, err := readEntry(txn, i)
			if err != nil {
				return fmt.Errorf("read audit entry %d: %w", i, err)
			}
			if err := audit.Verify(e, i, prev); err != nil {
				return err
			}
			prev = e.EntryHash
		}
		if prev != lastHash {
			return errors.New("audit chain broken: lastHash does not match tail entry")
		}
		return nil
	})
}

func (s *Store) ListEntries() ([]*types.Entry, error) {
	if err := s.ok(); err != nil {
		return nil, err
	}
	var entries []*types.Entry
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = keyEntryPref
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				e, err := audit.DecodeEntry(val)
				if err != nil {
					return err
				}
				entries = append(entries, e)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return entries, err
}

func readEntry(txn *badger.Txn, index uint64) (*types.Entry, error) {
	item, err := txn.Get(entryKey(index))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %d", ErrEntryNotFound, index)
	}
	if err != nil {
		return nil, err
	}
	var e *types.Entry
	err = item.Value(func(val []byte) error {
		var derr error
		e, derr = audit.DecodeEntry(val)
		return derr
	})
	return e, err
}

// 读取 lastIndex 与 lastHash，空链返回零值
func loadLast(txn *badger.Txn) (uint64, [32]byte, error) {
	var lastIndex uint64
	var lastHash [32]byte

	err := readFixed(txn, keyLastIndex, 8, func(v []byte) {
		lastIndex = binary.BigEndian.Uint64(v)
	})
	if err != nil {
		return 0, lastHash, err
	}
	err = readFixed(txn, keyLastHash, 32, func(v []byte) {
		copy(lastHash[:], v)
	})
	if err != nil {
		return 0, [32]byte{}, err
	}
	return lastIndex, lastHash, nil
}

func readFixed(txn *badger.Txn, key []byte, size int, fn func([]byte)) error {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return item.Value(func(v []byte) error {
		if len(v) != size {
			return fmt.Errorf("invalid %s length %d", key, len(v))
		}
		fn(v)
		return nil
	})
}
