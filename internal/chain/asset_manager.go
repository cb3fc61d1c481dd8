package chain

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

//go:embed abis/AssetManager.json
var assetManagerABI string

// RoleReader 是角色检查所需的最小合约接口
type RoleReader interface {
	HasRole(ctx context.Context, role common.Hash, account common.Address) (bool, error)
}

// AssetManager 通过固定 ABI 对 AssetManager 合约发起只读调用。
type AssetManager struct {
	address common.Address
	abi     abi.ABI
	caller  bind.ContractCaller
}

// NewAssetManager 不校验地址格式，占位地址也会被直接使用。
func NewAssetManager(address string, caller bind.ContractCaller) (*AssetManager, error) {
	if caller == nil {
		return nil, errors.New("nil contract caller")
	}
	parsed, err := abi.JSON(strings.NewReader(assetManagerABI))
	if err != nil {
		return nil, fmt.Errorf("parse AssetManager abi: %w", err)
	}
	return &AssetManager{
		address: common.HexToAddress(address),
		abi:     parsed,
		caller:  caller,
	}, nil
}

func (m *AssetManager) Address() common.Address {
	return m.address
}

// HasRole 调用 hasRole(bytes32,address)，每次调用都是一次独立的 eth_call。
func (m *AssetManager) HasRole(ctx context.Context, role common.Hash, account common.Address) (bool, error) {
	const method = "hasRole"
	out, err := m.call(ctx, method, [32]byte(role), account)
	if err != nil {
		return false, err
	}
	res, err := m.abi.Unpack(method, out)
	if err != nil {
		return false, &CallError{Kind: KindDecode, Method: method, Err: err}
	}
	if len(res) != 1 {
		return false, &CallError{Kind: KindDecode, Method: method, Err: fmt.Errorf("expected 1 output, got %d", len(res))}
	}
	ok, isBool := res[0].(bool)
	if !isBool {
		return false, &CallError{Kind: KindDecode, Method: method, Err: fmt.Errorf("unexpected output type %T", res[0])}
	}
	return ok, nil
}

func (m *AssetManager) call(ctx context.Context, method string, args ...interface{}) ([]byte, error) {
	input, err := m.abi.Pack(method, args...)
	if err != nil {
		return nil, &CallError{Kind: KindDecode, Method: method, Err: err}
	}
	msg := ethereum.CallMsg{To: &m.address, Data: input}
	out, err := m.caller.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, classify(method, err)
	}
	if len(out) > 0 {
		return out, nil
	}
	// 空返回：地址上没有合约代码，或节点返回了空数据
	code, err := m.caller.CodeAt(ctx, m.address, nil)
	if err != nil {
		return nil, classify(method, err)
	}
	if len(code) == 0 {
		return nil, &CallError{Kind: KindContract, Method: method, Err: bind.ErrNoCode}
	}
	return nil, &CallError{Kind: KindDecode, Method: method, Err: errors.New("empty output")}
}
