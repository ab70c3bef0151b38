package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/bwmarrin/snowflake"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	grpc_adapter "github.com/JoeShih716/go-bank-ledger/internal/app/core/adapter/in/grpc"
	"github.com/JoeShih716/go-bank-ledger/internal/app/core/adapter/out/alert"
	"github.com/JoeShih716/go-bank-ledger/internal/app/core/domain"
	memory_adapter "github.com/JoeShih716/go-bank-ledger/internal/app/core/adapter/out/memory"
	rdb_adapter "github.com/JoeShih716/go-bank-ledger/internal/app/core/adapter/out/rdb"
	"github.com/JoeShih716/go-bank-ledger/internal/app/core/usecase"
	"github.com/JoeShih716/go-bank-ledger/internal/config"
	"github.com/JoeShih716/go-bank-ledger/pkg/ledgerpb"
	"github.com/JoeShih716/go-bank-ledger/pkg/logger"
	"github.com/JoeShih716/go-bank-ledger/pkg/mysql"
	"github.com/JoeShih716/go-bank-ledger/pkg/sqlite"
	"github.com/JoeShih716/go-bank-ledger/pkg/wal"
)

// backend 選定的儲存後端
type backend struct {
	accounts  usecase.AccountStore
	entries   usecase.LedgerEntryStore
	customers usecase.CustomerDirectory
	closers   []func() error
}

func (b *backend) close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			slog.Error("close backend", slog.String("error", err.Error()))
		}
	}
}

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the YAML config file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, *configPath)
	stop()
	if err != nil {
		slog.Error("ledger server failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// run 啟動服務直到 ctx 取消，回傳前會跑完所有 defer 清理
func run(ctx context.Context, configPath string) error {
	// 1. 載入設定
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	lg := logger.Setup(cfg.Log)

	// 2. 初始化儲存後端
	store, err := openBackend(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s storage: %w", cfg.Storage.Driver, err)
	}
	defer store.close()
	lg.Info("storage ready", slog.String("driver", cfg.Storage.Driver), slog.Bool("check_customers", store.customers != nil))

	// 3. 補償佇列，先恢復上次未完成的項目
	journal, err := wal.NewWAL(filepath.Join(cfg.WAL.Dir, "reconcile.wal"))
	if err != nil {
		return fmt.Errorf("open reconcile journal: %w", err)
	}
	defer journal.Close()

	reconcileOpts := []usecase.ReconcilerOption{
		usecase.WithJournal(journal),
		usecase.WithReconcileInterval(cfg.Reconcile.Interval),
		usecase.WithReconcilerLogger(lg),
		usecase.WithAlertSink(alert.NewLogSink(lg)),
	}
	if cfg.Discord.Enabled() {
		sink, err := alert.NewDiscordSink(cfg.Discord.Token, cfg.Discord.ChannelID)
		if err != nil {
			return fmt.Errorf("init discord alerts: %w", err)
		}
		reconcileOpts = append(reconcileOpts, usecase.WithAlertSink(sink))
	}
	reconciler := usecase.NewReconciler(store.accounts, store.entries, reconcileOpts...)
	if err := reconciler.Recover(); err != nil {
		return fmt.Errorf("recover reconcile journal: %w", err)
	}
	if n := len(reconciler.Pending()); n > 0 {
		lg.Warn("recovered pending reconcile items", slog.Int("pending", n))
	}

	// 4. 初始化 UseCase
	engine := usecase.NewTransferEngine(store.accounts, store.entries,
		usecase.WithReconcileQueue(reconciler),
		usecase.WithLogger(lg),
		usecase.WithCommitTimeout(cfg.Transfer.CommitTimeout))
	serviceOpts := []usecase.ServiceOption{usecase.WithServiceLogger(lg)}
	if store.customers != nil {
		serviceOpts = append(serviceOpts, usecase.WithCustomerDirectory(store.customers))
	}
	coreUseCase := usecase.NewCoreUseCase(engine, usecase.NewAccountService(store.accounts, store.entries, serviceOpts...))

	// 5. 啟動 gRPC Server
	lis, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Server.Addr, err)
	}

	reconcileCtx, stopReconcile := context.WithCancel(context.Background())
	reconciler.Start(reconcileCtx)
	defer func() {
		stopReconcile()
		reconciler.Wait()
	}()

	s := grpc.NewServer()
	ledgerpb.RegisterLedgerServiceServer(s, grpc_adapter.NewGrpcServer(coreUseCase, lg))
	// 註冊反射服務 (方便 grpcurl 調試)
	reflection.Register(s)

	serveErr := make(chan error, 1)
	go func() {
		lg.Info("starting gRPC server", slog.String("addr", cfg.Server.Addr))
		serveErr <- s.Serve(lis)
	}()

	// Graceful Shutdown
	var runErr error
	select {
	case <-ctx.Done():
		lg.Info("shutting down server")
	case err := <-serveErr:
		runErr = fmt.Errorf("grpc server stopped: %w", err)
	}
	stopped := make(chan struct{})
	go func() {
		s.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(cfg.Server.ShutdownTimeout):
		lg.Warn("graceful stop timed out, forcing")
		s.Stop()
	}
	lg.Info("server exited")
	return runErr
}

// openBackend 依 storage.driver 建立 store
func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		return openMemory(cfg)
	case config.DriverMySQL:
		client, err := mysql.NewClient(cfg.MySQL)
		if err != nil {
			return nil, err
		}
		return openRDB(ctx, cfg, rdb_adapter.NewLedger(client.DB()), client.Close)
	case config.DriverSQLite:
		client, err := sqlite.NewClient(cfg.SQLite)
		if err != nil {
			return nil, err
		}
		return openRDB(ctx, cfg, rdb_adapter.NewLedger(client.DB()), client.Close)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func openRDB(ctx context.Context, cfg *config.Config, ledger *rdb_adapter.Ledger, closeFn func() error) (*backend, error) {
	if err := ledger.AutoMigrate(ctx); err != nil {
		_ = closeFn()
		return nil, err
	}
	for _, c := range seedCustomers(cfg) {
		if err := ledger.RegisterCustomer(ctx, c); err != nil {
			_ = closeFn()
			return nil, fmt.Errorf("seed customer %d: %w", c.ID, err)
		}
	}
	b := &backend{accounts: ledger, entries: ledger, closers: []func() error{closeFn}}
	if cfg.Storage.CheckCustomers {
		b.customers = ledger
	}
	return b, nil
}

// openMemory 帳戶與紀錄各自一個 WAL，啟動時重播
func openMemory(cfg *config.Config) (*backend, error) {
	node, err := snowflake.NewNode(cfg.WAL.NodeID)
	if err != nil {
		return nil, fmt.Errorf("snowflake node: %w", err)
	}
	b := &backend{}

	accountsWAL, err := wal.NewWAL(filepath.Join(cfg.WAL.Dir, "accounts.wal"))
	if err != nil {
		return nil, err
	}
	b.closers = append(b.closers, accountsWAL.Close)
	if b.accounts, err = memory_adapter.NewAccountStore(node, accountsWAL); err != nil {
		b.close()
		return nil, err
	}

	entriesWAL, err := wal.NewWAL(filepath.Join(cfg.WAL.Dir, "entries.wal"))
	if err != nil {
		b.close()
		return nil, err
	}
	b.closers = append(b.closers, entriesWAL.Close)
	if b.entries, err = memory_adapter.NewEntryStore(entriesWAL); err != nil {
		b.close()
		return nil, err
	}
	if cfg.Storage.CheckCustomers {
		b.customers = memory_adapter.NewCustomerDirectory(seedCustomers(cfg)...)
	}
	return b, nil
}

// seedCustomers 設定檔中的客戶
func seedCustomers(cfg *config.Config) []domain.Customer {
	out := make([]domain.Customer, 0, len(cfg.Storage.Customers))
	for _, c := range cfg.Storage.Customers {
		out = append(out, domain.Customer{ID: c.ID, Name: c.Name, Email: c.Email, Phone: c.Phone})
	}
	return out
}
