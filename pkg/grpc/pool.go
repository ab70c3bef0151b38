package grpc

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/status"
)

// Pool 管理通往多個目標的 gRPC 客戶端連線，每個目標地址只維護一個連線實例
type Pool struct {
	conns        sync.Map // map[string]*grpc.ClientConn
	mu           sync.Mutex
	interceptors []grpc.UnaryClientInterceptor
	dialOpts     []grpc.DialOption
}

// PoolOption 定義了 Pool 的配置選項函數
type PoolOption func(*Pool)

// WithInterceptor 新增全局的 UnaryClientInterceptor (依加入順序串接)
func WithInterceptor(interceptor grpc.UnaryClientInterceptor) PoolOption {
	return func(p *Pool) {
		p.interceptors = append(p.interceptors, interceptor)
	}
}

// WithDialOptions 每條連線都會加上的選項 (例如預設 CallOption)
func WithDialOptions(opts ...grpc.DialOption) PoolOption {
	return func(p *Pool) {
		p.dialOpts = append(p.dialOpts, opts...)
	}
}

// NewPool 建立並回傳一個新的 gRPC 連線池
func NewPool(opts ...PoolOption) *Pool {
	p := &Pool{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GetConnection 獲取現有的連線，或為指定目標建立新連線
//
// 參數:
//
//	target: string - 目標伺服器地址 (e.g., "localhost:50051")
//	opts: ...grpc.DialOption - 只在建立新連線時使用的額外選項
//
// 回傳值:
//
//	*grpc.ClientConn: gRPC 客戶端連線物件
//	error: 若建立連線失敗則回傳錯誤
func (p *Pool) GetConnection(target string, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	// 1. 嘗試讀取現有連線 (Fast path)
	if conn, ok := p.load(target); ok {
		return conn, nil
	}

	// 2. 加鎖後再檢查一次 (Double-check locking)
	p.mu.Lock()
	defer p.mu.Unlock()
	if conn, ok := p.load(target); ok {
		return conn, nil
	}

	// 3. 建立新連線
	finalOpts := []grpc.DialOption{
		// 內部服務通訊，不使用 TLS
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithKeepaliveParams(keepalive.ClientParameters{
			Time:                10 * time.Second, // 若無活動，每 10 秒發送一次 Ping
			Timeout:             time.Second,      // 等待 Ping 回應的超時時間為 1 秒
			PermitWithoutStream: true,
		}),
	}
	if len(p.interceptors) > 0 {
		finalOpts = append(finalOpts, grpc.WithChainUnaryInterceptor(p.interceptors...))
	}
	finalOpts = append(finalOpts, p.dialOpts...)
	finalOpts = append(finalOpts, opts...)

	// grpc.NewClient 不會立即連線，第一次呼叫時才建立 (Lazy connection)
	conn, err := grpc.NewClient(target, finalOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create grpc client for target %s: %w", target, err)
	}
	p.conns.Store(target, conn)
	return conn, nil
}

// load 取得未關閉的連線，已關閉的會從 map 移除
func (p *Pool) load(target string) (*grpc.ClientConn, bool) {
	v, ok := p.conns.Load(target)
	if !ok {
		return nil, false
	}
	conn := v.(*grpc.ClientConn)
	if conn.GetState() == connectivity.Shutdown {
		p.conns.Delete(target)
		return nil, false
	}
	return conn, true
}

// Close 關閉連線池中的所有連線
func (p *Pool) Close() error {
	var firstErr error
	p.conns.Range(func(key, value any) bool {
		conn := value.(*grpc.ClientConn)
		if err := conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		p.conns.Delete(key)
		return true
	})
	return firstErr
}

// LoggingInterceptor 以 slog 記錄失敗或超過 slow 的呼叫
func LoggingInterceptor(logger *slog.Logger, slow time.Duration) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		start := time.Now()
		err := invoker(ctx, method, req, reply, cc, opts...)
		elapsed := time.Since(start)
		switch {
		case err != nil:
			logger.Warn("grpc call failed",
				slog.String("method", method),
				slog.String("code", status.Code(err).String()),
				slog.Duration("elapsed", elapsed),
				slog.String("error", err.Error()))
		case slow > 0 && elapsed > slow:
			logger.Info("slow grpc call", slog.String("method", method), slog.Duration("elapsed", elapsed))
		}
		return err
	}
}
