package service

import (
	"encoding/json"

	"agricultura_dapp/internal/store"
	"agricultura_dapp/internal/types"
)

// 封装诊断审计链读写操作。
type AuditService struct {
	store *store.Store
}

func NewAuditService(s *store.Store) *AuditService {
	return &AuditService{store: s}
}

// 将检查事件序列化并写入审计链。
func (svc *AuditService) AppendCheck(ev types.RoleCheckEvent) (*types.Entry, error) {
	if svc == nil || svc.store == nil {
		return nil, nil
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}
	return svc.store.Append(payload)
}

func (svc *AuditService) GetEntry(index uint64) (*types.Entry, error) {
	if svc == nil || svc.store == nil {
		return nil, store.ErrEntryNotFound
	}
	return svc.store.GetEntry(index)
}

// 按索引读取并解出检查事件。
func (svc *AuditService) GetEvent(index uint64) (*types.Entry, *types.RoleCheckEvent, error) {
	e, err := svc.GetEntry(index)
	if err != nil {
		return nil, nil, err
	}
	var ev types.RoleCheckEvent
	if err := json.Unmarshal(e.Payload, &ev); err != nil {
		return e, nil, err
	}
	return e, &ev, nil
}

func (svc *AuditService) VerifyChain() error {
	if svc == nil || svc.store == nil {
		return nil
	}
	return svc.store.VerifyChain()
}

func (svc *AuditService) ListEntries() ([]*types.Entry, error) {
	if svc == nil || svc.store == nil {
		return nil, nil
	}
	return svc.store.ListEntries()
}
