package audit

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"

	"agricultura_dapp/internal/types"
)

// 编码格式：version(1) | index(8) | prevHash(32) | entryHash(32) | len(4) | payload
const (
	entryVersion = 1
	headerLen    = 1 + 8 + 32 + 32 + 4
	maxPayload   = 1 << 20
)

var hashDomain = []byte("agrodapp/audit/v1")

var (
	ErrShortEntry  = errors.New("invalid entry bytes: too short")
	ErrEntryLength = errors.New("invalid entry bytes: length mismatch")
)

func EncodeEntry(e *types.Entry) ([]byte, error) {
	if e == nil {
		return nil, errors.New("nil entry")
	}
	if len(e.Payload) > maxPayload {
		return nil, fmt.Errorf("payload too large: %d bytes", len(e.Payload))
	}

	out := make([]byte, headerLen, headerLen+len(e.Payload))
	out[0] = entryVersion
	binary.BigEndian.PutUint64(out[1:9], e.Index)
	copy(out[9:41], e.PrevHash[:])
	copy(out[41:73], e.EntryHash[:])
	binary.BigEndian.PutUint32(out[73:77], uint32(len(e.Payload)))
	return append(out, e.Payload...), nil
}

func DecodeEntry(b []byte) (*types.Entry, error) {
	if len(b) < headerLen {
		return nil, ErrShortEntry
	}
	if b[0] != entryVersion {
		return nil, fmt.Errorf("unsupported entry version %d", b[0])
	}

	e := &types.Entry{Index: binary.BigEndian.Uint64(b[1:9])}
	copy(e.PrevHash[:], b[9:41])
	copy(e.EntryHash[:], b[41:73])

	n := binary.BigEndian.Uint32(b[73:77])
	if len(b) != headerLen+int(n) {
		return nil, ErrEntryLength
	}
	if n > 0 {
		e.Payload = append([]byte(nil), b[headerLen:]...)
	}
	return e, nil
}

// AuditHash = sha256(domain | index | prevHash | sha256(payload))
func AuditHash(index uint64, prev [32]byte, payload []byte) [32]byte {
	h := sha256.New()
	h.Write(hashDomain)

	var idx [8]byte
	binary.BigEndian.PutUint64(idx[:], index)
	h.Write(idx[:])
	h.Write(prev[:])

	sum := sha256.Sum256(payload)
	h.Write(sum[:])

	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Verify 校验条目自身哈希以及与前一条的链接
func Verify(e *types.Entry, wantIndex uint64, prev [32]byte) error {
	if e.Index != wantIndex {
		return fmt.Errorf("audit entry index mismatch: want %d got %d", wantIndex, e.Index)
	}
	if e.PrevHash != prev {
		return fmt.Errorf("audit chain broken at %d: prevHash mismatch", wantIndex)
	}
	if AuditHash(e.Index, e.PrevHash, e.Payload) != e.EntryHash {
		return fmt.Errorf("audit chain broken at %d: entryHash mismatch", wantIndex)
	}
	return nil
}
