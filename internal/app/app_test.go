package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"agricultura_dapp/config"
	"agricultura_dapp/internal/chain"
	"agricultura_dapp/internal/types"
)

type rpcRequest struct {
	ID     json.RawMessage `json:"id"`
	Method string          `json:"method"`
}

// 最小 JSON-RPC 节点：eth_chainId / eth_call / eth_getCode
func fakeNode(t *testing.T, call func() map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
		switch req.Method {
		case "eth_chainId":
			resp["result"] = "0x89"
		case "eth_call":
			for k, v := range call() {
				resp[k] = v
			}
		case "eth_getCode":
			resp["result"] = "0x6080"
		default:
			resp["error"] = map[string]any{"code": -32601, "message": "method not found"}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newApp(t *testing.T, rpcURL string) *App {
	t.Helper()
	cfg := &config.Config{
		AppName:             "Agricultura DApp",
		RPCURL:              rpcURL,
		ChainID:             137,
		AssetManagerAddress: "0x00000000000000000000000000000000000000c0",
		HTTPPort:            0,
		SessionTTL:          time.Hour,
	}
	a, err := New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func session() *types.Session {
	return &types.Session{Address: common.HexToAddress("0xa11ce"), ExpiresAt: time.Now().Add(time.Hour)}
}

func TestApp_CheckAdminAgainstNode(t *testing.T) {
	result := "0x0000000000000000000000000000000000000000000000000000000000000001"
	node := fakeNode(t, func() map[string]any { return map[string]any{"result": result} })
	a := newApp(t, node.URL)

	msg, err := a.Roles.CheckAdmin(context.Background(), session())
	require.NoError(t, err)
	assert.Equal(t, "Eres administrador", msg)

	result = "0x0000000000000000000000000000000000000000000000000000000000000000"
	msg, err = a.Roles.CheckAdmin(context.Background(), session())
	require.NoError(t, err)
	assert.Equal(t, "No tienes permisos de administrador", msg)

	entries, err := a.Audit.ListEntries()
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestApp_Revert(t *testing.T) {
	node := fakeNode(t, func() map[string]any {
		return map[string]any{"error": map[string]any{"code": 3, "message": "execution reverted", "data": "0x"}}
	})
	a := newApp(t, node.URL)

	msg, err := a.Roles.CheckAdmin(context.Background(), session())
	assert.Empty(t, msg)
	assert.Equal(t, chain.KindContract, chain.KindOf(err))
}

func TestApp_NodeErrorIsConnection(t *testing.T) {
	for _, code := range []int{-32000, -32005, -32601} {
		node := fakeNode(t, func() map[string]any {
			return map[string]any{"error": map[string]any{"code": code, "message": "header not found"}}
		})
		a := newApp(t, node.URL)

		msg, err := a.Roles.CheckAdmin(context.Background(), session())
		assert.Empty(t, msg)
		assert.Equal(t, chain.KindConnection, chain.KindOf(err), "code %d", code)
	}
}

func TestApp_NodeUnreachable(t *testing.T) {
	node := httptest.NewServer(http.NotFoundHandler())
	url := node.URL
	node.Close()

	a := newApp(t, url)
	msg, err := a.Roles.CheckAdmin(context.Background(), session())
	assert.Empty(t, msg)
	assert.Equal(t, chain.KindConnection, chain.KindOf(err))
}

func TestApp_StartStops(t *testing.T) {
	node := fakeNode(t, func() map[string]any { return map[string]any{"result": "0x"} })
	a := newApp(t, node.URL)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Start(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
}
