package service

import (
	"context"
	"errors"
	"time"

	"agricultura_dapp/internal/chain"
	"agricultura_dapp/internal/metrics"
	"agricultura_dapp/internal/types"
	"agricultura_dapp/pkg/crypto"

	"go.uber.org/zap"
)

// 展示给用户的提示
const (
	MsgConnectFirst = "Por favor, conecta tu wallet primero"
	MsgIsAdmin      = "Eres administrador"
	MsgNotAdmin     = "No tienes permisos de administrador"
)

var (
	ErrNotConnected = errors.New("wallet not connected")
	ErrEmptyRole    = errors.New("role name required")
	ErrRoleTooLong  = errors.New("role name too long")
)

const maxRoleNameLen = 64

// RoleService 查询连接账户在合约上的角色，结果不缓存。
type RoleService struct {
	reader  chain.RoleReader
	audit   *AuditService
	metrics *metrics.Metrics
	log     *zap.Logger
	now     func() time.Time
}

func NewRoleService(reader chain.RoleReader, audit *AuditService, m *metrics.Metrics, log *zap.Logger) *RoleService {
	if log == nil {
		log = zap.NewNop()
	}
	return &RoleService{
		reader:  reader,
		audit:   audit,
		metrics: m,
		log:     log,
		now:     time.Now,
	}
}

// CheckRole 未连接时直接返回 ErrNotConnected，不发起链上调用。
// 调用失败时返回 *chain.CallError。
func (svc *RoleService) CheckRole(ctx context.Context, sess *types.Session, role string) (*types.RoleCheck, error) {
	if role == "" {
		return nil, ErrEmptyRole
	}
	if len(role) > maxRoleNameLen {
		return nil, ErrRoleTooLong
	}
	// 未连接的请求只计数，不写审计链
	if !sess.Connected(svc.now()) {
		svc.metrics.ObserveCheck(role, types.OutcomeNotConnected, 0)
		return nil, ErrNotConnected
	}

	roleID := crypto.RoleID(role)
	start := svc.now()
	ok, err := svc.reader.HasRole(ctx, roleID, sess.Address)
	elapsed := svc.now().Sub(start)
	if err != nil {
		svc.log.Error("role check failed",
			zap.String("role", role),
			zap.Stringer("address", sess.Address),
			zap.String("kind", string(chain.KindOf(err))),
			zap.Error(err))
		svc.record(types.RoleCheckEvent{
			Role:      role,
			Address:   sess.Address.Hex(),
			Outcome:   types.OutcomeFailed,
			ErrorKind: string(chain.KindOf(err)),
			Error:     err.Error(),
		}, elapsed)
		return nil, err
	}

	outcome := types.OutcomeDenied
	if ok {
		outcome = types.OutcomeGranted
	}
	svc.log.Debug("role checked",
		zap.String("role", role),
		zap.Stringer("address", sess.Address),
		zap.Bool("has_role", ok))
	svc.record(types.RoleCheckEvent{Role: role, Address: sess.Address.Hex(), Outcome: outcome}, elapsed)

	return &types.RoleCheck{
		Role:      role,
		RoleID:    roleID,
		Address:   sess.Address,
		HasRole:   ok,
		CheckedAt: start,
	}, nil
}

// CheckAdmin 对应管理面板按钮，返回要提示给用户的消息。
// 调用失败时消息为空，错误已记录日志并返回给调用方。
func (svc *RoleService) CheckAdmin(ctx context.Context, sess *types.Session) (string, error) {
	check, err := svc.CheckRole(ctx, sess, crypto.RoleDefaultAdmin)
	if errors.Is(err, ErrNotConnected) {
		return MsgConnectFirst, nil
	}
	if err != nil {
		return "", err
	}
	if check.HasRole {
		return MsgIsAdmin, nil
	}
	return MsgNotAdmin, nil
}

// 审计失败只记日志，不影响检查结果
func (svc *RoleService) record(ev types.RoleCheckEvent, elapsed time.Duration) {
	ev.At = svc.now().UTC()
	svc.metrics.ObserveCheck(ev.Role, ev.Outcome, elapsed)
	if svc.audit == nil {
		return
	}
	if _, err := svc.audit.AppendCheck(ev); err != nil {
		svc.log.Warn("append audit entry failed", zap.String("role", ev.Role), zap.Error(err))
	}
}
