package types

// 审计记录，Payload 为检查事件的 JSON
type Entry struct {
	Index     uint64   `json:"index"`
	PrevHash  [32]byte `json:"prev_hash"`
	Payload   []byte   `json:"payload"`
	EntryHash [32]byte `json:"entry_hash"`
}
