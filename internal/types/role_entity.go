package types

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// 单次角色检查结果，不缓存
type RoleCheck struct {
	Role      string         `json:"role"`
	RoleID    common.Hash    `json:"role_id"`
	Address   common.Address `json:"address"`
	HasRole   bool           `json:"has_role"`
	CheckedAt time.Time      `json:"checked_at"`
}

// 写入审计链的检查事件
type RoleCheckEvent struct {
	Role      string    `json:"role"`
	Address   string    `json:"address,omitempty"`
	Outcome   string    `json:"outcome"`
	ErrorKind string    `json:"error_kind,omitempty"`
	Error     string    `json:"error,omitempty"`
	At        time.Time `json:"at"`
}

const (
	OutcomeGranted      = "granted"
	OutcomeDenied       = "denied"
	OutcomeNotConnected = "not_connected"
	OutcomeFailed       = "failed"
)
