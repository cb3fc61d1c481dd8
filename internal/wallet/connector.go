package wallet

import (
	"errors"
	"sync"
	"time"

	"agricultura_dapp/internal/sigVerify"
	"agricultura_dapp/internal/types"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
)

const challengeTTL = 5 * time.Minute

var (
	ErrNoChallenge  = errors.New("no pending challenge for address")
	ErrBadSignature = errors.New("signature verification failed")
)

type challenge struct {
	message   string
	expiresAt time.Time
}

// Connector 负责钱包登录与会话管理，仅保存在内存中。
type Connector struct {
	appName    string
	chainID    int64
	sessionTTL time.Duration
	now        func() time.Time

	mu         sync.Mutex
	challenges map[common.Address]challenge
	sessions   map[string]*types.Session
}

func NewConnector(appName string, chainID int64, sessionTTL time.Duration) *Connector {
	return &Connector{
		appName:    appName,
		chainID:    chainID,
		sessionTTL: sessionTTL,
		now:        time.Now,
		challenges: make(map[common.Address]challenge),
		sessions:   make(map[string]*types.Session),
	}
}

// Challenge 为地址生成一次性待签名消息，覆盖之前未使用的挑战。
func (c *Connector) Challenge(addr common.Address) string {
	msg := sigVerify.ChallengeMessage(c.appName, addr, uuid.NewString())
	c.mu.Lock()
	defer c.mu.Unlock()
	c.challenges[addr] = challenge{message: msg, expiresAt: c.now().Add(challengeTTL)}
	return msg
}

// Connect 校验挑战签名并建立会话；挑战无论成败都只能使用一次。
func (c *Connector) Connect(addr common.Address, signature string) (*types.Session, error) {
	c.mu.Lock()
	ch, ok := c.challenges[addr]
	delete(c.challenges, addr)
	c.mu.Unlock()

	now := c.now()
	if !ok || now.After(ch.expiresAt) {
		return nil, ErrNoChallenge
	}
	if err := sigVerify.VerifyPersonalSignature(addr, ch.message, signature); err != nil {
		return nil, errors.Join(ErrBadSignature, err)
	}

	sess := &types.Session{
		Token:       uuid.NewString(),
		Address:     addr,
		ChainID:     c.chainID,
		ConnectedAt: now,
		ExpiresAt:   now.Add(c.sessionTTL),
	}
	c.mu.Lock()
	c.sessions[sess.Token] = sess
	c.mu.Unlock()
	return sess, nil
}

// Lookup 返回有效会话，未连接或已过期返回 nil。
func (c *Connector) Lookup(token string) *types.Session {
	if token == "" {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	sess, ok := c.sessions[token]
	if !ok {
		return nil
	}
	if !sess.Connected(c.now()) {
		delete(c.sessions, token)
		return nil
	}
	return sess
}

func (c *Connector) Disconnect(token string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.sessions[token]
	delete(c.sessions, token)
	return ok
}
