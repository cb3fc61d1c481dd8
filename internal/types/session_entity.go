package types

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// 钱包会话，由调用方显式传入需要访问链的函数
type Session struct {
	Token       string         `json:"token"`
	Address     common.Address `json:"address"`
	ChainID     int64          `json:"chain_id"`
	ConnectedAt time.Time      `json:"connected_at"`
	ExpiresAt   time.Time      `json:"expires_at"`
}

func (s *Session) Connected(now time.Time) bool {
	return s != nil && now.Before(s.ExpiresAt)
}
