package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"agricultura_dapp/config"
	"agricultura_dapp/internal/app"
	"agricultura_dapp/internal/chain"
	"agricultura_dapp/internal/service"
	"agricultura_dapp/internal/store"
	"agricultura_dapp/internal/types"
	"agricultura_dapp/pkg/crypto"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newRootCmd() *cobra.Command {
	var configPath string
	root := &cobra.Command{
		Use:           "agrodapp",
		Short:         "Agricultura DApp backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", filepath.Join("config", "config.yml"), "config file")

	root.AddCommand(
		newServeCmd(&configPath),
		newRoleIDCmd(),
		newCheckRoleCmd(&configPath),
		newKeygenCmd(),
		newSignCmd(),
		newAuditCmd(&configPath),
	)
	return root
}

func loadConfig(path string) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log_level %q: %w", level, err)
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	return zc.Build()
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			defer log.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := app.New(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.Start(ctx)
		},
	}
}

func newRoleIDCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "role-id <name>",
		Short: "Print the keccak256 identifier of a role name",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), crypto.RoleID(args[0]).Hex())
		},
	}
}

// 只读检查，地址直接作为会话使用，不需要签名
func newCheckRoleCmd(configPath *string) *cobra.Command {
	var address, role string
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "check-role",
		Short: "Check whether an address holds a role on the AssetManager contract",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			defer log.Sync()

			var sess *types.Session
			if address != "" {
				addr, err := crypto.ParseAddress(address)
				if err != nil {
					return err
				}
				sess = &types.Session{Address: addr, ChainID: cfg.ChainID, ConnectedAt: time.Now(), ExpiresAt: time.Now().Add(timeout)}
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			// 不打开数据目录，可与 serve 同时运行
			client, err := chain.Dial(ctx, cfg.RPCURL)
			if err != nil {
				return err
			}
			defer client.Close()
			assetManager, err := chain.NewAssetManager(cfg.AssetManagerAddress, client)
			if err != nil {
				return err
			}
			roles := service.NewRoleService(assetManager, nil, nil, log)

			if role == crypto.RoleDefaultAdmin {
				msg, err := roles.CheckAdmin(ctx, sess)
				if err != nil {
					return fmt.Errorf("%s error: %w", chain.KindOf(err), err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), msg)
				return nil
			}
			check, err := roles.CheckRole(ctx, sess, role)
			if errors.Is(err, service.ErrNotConnected) {
				fmt.Fprintln(cmd.OutOrStdout(), service.MsgConnectFirst)
				return nil
			}
			if err != nil {
				return fmt.Errorf("%s error: %w", chain.KindOf(err), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s has_role=%v\n", check.Address.Hex(), check.Role, check.HasRole)
			return nil
		},
	}
	cmd.Flags().StringVar(&address, "address", "", "account address")
	cmd.Flags().StringVar(&role, "role", crypto.RoleDefaultAdmin, "role name")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "overall timeout")
	return cmd
}

func newKeygenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Generate a development key pair",
		RunE: func(cmd *cobra.Command, _ []string) error {
			priv, addr, err := crypto.GenerateKeyPair()
			if err != nil {
				return err
			}
			privHex, err := crypto.PrivateKeyToHex(priv)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "address:     %s\nprivate_key: %s\n", addr.Hex(), privHex)
			return nil
		},
	}
}

func newSignCmd() *cobra.Command {
	var key, message string
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign a wallet challenge message with a development key",
		RunE: func(cmd *cobra.Command, _ []string) error {
			priv, err := crypto.HexToPrivateKey(key)
			if err != nil {
				return fmt.Errorf("invalid key: %w", err)
			}
			sig, err := crypto.SignText(priv, message)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), sig)
			return nil
		},
	}
	cmd.Flags().StringVar(&key, "key", "", "hex private key")
	cmd.Flags().StringVar(&message, "message", "", "challenge message")
	_ = cmd.MarkFlagRequired("key")
	_ = cmd.MarkFlagRequired("message")
	return cmd
}

func newAuditCmd(configPath *string) *cobra.Command {
	auditCmd := &cobra.Command{Use: "audit", Short: "Inspect the role check audit chain"}
	auditCmd.AddCommand(&cobra.Command{
		Use:   "verify",
		Short: "Verify the audit hash chain",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			defer log.Sync()
			db, err := store.OpenReadOnly(cfg.DataDir)
			if err != nil {
				return fmt.Errorf("open %s read-only: %w", cfg.DataDir, err)
			}
			defer db.Close()

			audit := service.NewAuditService(store.NewStore(db))
			if err := audit.VerifyChain(); err != nil {
				return err
			}
			entries, err := audit.ListEntries()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "audit chain ok: %d entries\n", len(entries))
			return nil
		},
	})
	return auditCmd
}
