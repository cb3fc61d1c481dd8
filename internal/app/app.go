package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"agricultura_dapp/config"
	"agricultura_dapp/internal/api"
	"agricultura_dapp/internal/chain"
	"agricultura_dapp/internal/metrics"
	"agricultura_dapp/internal/service"
	"agricultura_dapp/internal/store"
	"agricultura_dapp/internal/wallet"

	"github.com/dgraph-io/badger/v3"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
)

const chainIDTimeout = 5 * time.Second

// App 组装审计存储、链上客户端、业务服务与 HTTP 接口。
type App struct {
	cfg    *config.Config
	log    *zap.Logger
	db     *badger.DB
	client *ethclient.Client
	http   *http.Server

	Roles *service.RoleService
	Audit *service.AuditService
}

// New 打开 Badger、校验审计链并连接节点。
// 节点不可达不会导致启动失败，调用时再归类为连接错误。
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	db, err := store.Open(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	a := &App{cfg: cfg, log: log, db: db}

	auditSvc := service.NewAuditService(store.NewStore(db))
	if err := auditSvc.VerifyChain(); err != nil {
		a.Close()
		return nil, fmt.Errorf("audit chain verification failed: %w", err)
	}

	client, err := chain.Dial(ctx, cfg.RPCURL)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.client = client
	checkCtx, cancel := context.WithTimeout(ctx, chainIDTimeout)
	defer cancel()
	if err := chain.CheckChainID(checkCtx, client, cfg.ChainID); err != nil {
		log.Warn("chain id check failed", zap.String("rpc_url", cfg.RPCURL), zap.Error(err))
	}

	assetManager, err := chain.NewAssetManager(cfg.AssetManagerAddress, client)
	if err != nil {
		a.Close()
		return nil, err
	}

	m := metrics.New()
	a.Audit = auditSvc
	a.Roles = service.NewRoleService(assetManager, auditSvc, m, log.Named("roles"))
	connector := wallet.NewConnector(cfg.AppName, cfg.ChainID, cfg.SessionTTL)
	server := api.NewServer(connector, a.Roles, auditSvc, m, log.Named("http"))
	a.http = server.NewHTTPServer(fmt.Sprintf(":%d", cfg.HTTPPort))
	return a, nil
}

// Start 阻塞直到 ctx 取消或服务出错。
func (a *App) Start(ctx context.Context) error {
	a.log.Info("agrodapp listening",
		zap.String("addr", a.http.Addr),
		zap.String("rpc_url", a.cfg.RPCURL),
		zap.String("asset_manager", a.cfg.AssetManagerAddress),
		zap.String("data_dir", a.cfg.DataDir))

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		return a.http.Shutdown(context.Background())
	}
}

// Close 关闭节点连接和 Badger。
func (a *App) Close() error {
	if a.client != nil {
		a.client.Close()
	}
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
