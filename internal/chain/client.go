package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/ethclient"
)

// Dial 连接区块链节点；http 端点在首次调用时才真正建立连接。
func Dial(ctx context.Context, rpcURL string) (*ethclient.Client, error) {
	c, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, &CallError{Kind: KindConnection, Method: "dial", Err: fmt.Errorf("%s: %w", rpcURL, err)}
	}
	return c, nil
}

// ChainIDReader 由 ethclient.Client 实现
type ChainIDReader interface {
	ChainID(ctx context.Context) (*big.Int, error)
}

// CheckChainID 比较节点报告的链 ID 与配置，want 为 0 时跳过。
func CheckChainID(ctx context.Context, r ChainIDReader, want int64) error {
	if want == 0 {
		return nil
	}
	got, err := r.ChainID(ctx)
	if err != nil {
		return classify("eth_chainId", err)
	}
	if got.Int64() != want {
		return fmt.Errorf("chain id mismatch: node reports %s, configured %d", got, want)
	}
	return nil
}
