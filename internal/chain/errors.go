package chain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/rpc"
)

// Kind 区分合约调用失败的来源
type Kind string

const (
	KindConnection Kind = "connection"
	KindContract   Kind = "contract"
	KindDecode     Kind = "decode"
)

// EIP-1474 中 execution reverted 的错误码
const revertErrorCode = 3

type CallError struct {
	Kind   Kind
	Method string
	Err    error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("%s: %s error: %v", e.Method, e.Kind, e.Err)
}

func (e *CallError) Unwrap() error {
	return e.Err
}

// KindOf 返回 err 链上 CallError 的类别，非 CallError 返回空串
func KindOf(err error) Kind {
	var ce *CallError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ""
}

// 把 eth_call 的原始错误归类为连接错误或合约错误。
// 节点返回的 JSON-RPC 错误都带 ErrorData，只有 revert 才算合约错误。
func classify(method string, err error) *CallError {
	kind := KindConnection
	var rpcErr rpc.Error
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		kind = KindConnection
	case errors.As(err, &rpcErr) && rpcErr.ErrorCode() == revertErrorCode:
		kind = KindContract
	case strings.Contains(err.Error(), "execution reverted"):
		kind = KindContract
	}
	return &CallError{Kind: kind, Method: method, Err: err}
}
