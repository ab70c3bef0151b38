package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/domain"
	grpcpool "github.com/JoeShih716/go-bank-ledger/pkg/grpc"
	pb "github.com/JoeShih716/go-bank-ledger/pkg/ledgerpb"
)

const initialDeposit = "1000000"

func main() {
	addr := flag.String("addr", "localhost:50051", "ledger server address")
	total := flag.Int("n", 100000, "number of transfers")
	concurrency := flag.Int("c", 200, "concurrent requests")
	sizeOnly := flag.Bool("size", false, "print the encoded size of one ledger entry and exit")
	flag.Parse()

	if *sizeOnly {
		fmt.Printf("Single entry wire size: %d bytes\n", measureEntrySize())
		return
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	pool := grpcpool.NewPool(
		grpcpool.WithInterceptor(grpcpool.LoggingInterceptor(logger, time.Second)),
		// server 剛啟動時先等連線就緒，不要直接失敗
		grpcpool.WithDialOptions(grpc.WithDefaultCallOptions(grpc.WaitForReady(true))),
	)
	defer pool.Close()
	conn, err := pool.GetConnection(*addr)
	if err != nil {
		log.Fatalf("did not connect: %v", err)
	}
	c := pb.NewLedgerServiceClient(conn)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	// 1. 建立兩個帳戶
	suffix := uuid.NewString()[:8]
	a, err := c.CreateAccount(ctx, &pb.CreateAccountRequest{CustomerId: 1, AccountNumber: "LOAD-A-" + suffix, InitialDeposit: initialDeposit})
	if err != nil {
		log.Fatalf("create account A: %v", err)
	}
	b, err := c.CreateAccount(ctx, &pb.CreateAccountRequest{CustomerId: 1, AccountNumber: "LOAD-B-" + suffix, InitialDeposit: initialDeposit})
	if err != nil {
		log.Fatalf("create account B: %v", err)
	}

	// 2. 雙向並發轉帳
	var results [pb.Result_FATAL + 1]atomic.Int64
	var rpcErrors atomic.Int64
	var wg sync.WaitGroup
	sem := make(chan struct{}, *concurrency)
	start := time.Now()
	for i := 0; i < *total; i++ {
		sem <- struct{}{}
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()
			src, dst := a.Id, b.Id
			if idx%2 == 1 {
				src, dst = dst, src
			}
			resp, err := c.Transfer(ctx, &pb.TransferRequest{
				RefId:           uuid.NewString(),
				SourceAccountId: src,
				TargetAccountId: dst,
				Amount:          fmt.Sprintf("%d.%04d", 1+idx%50, idx%10000),
			})
			if err != nil {
				rpcErrors.Add(1)
				return
			}
			if resp.Result >= 0 && int(resp.Result) < len(results) {
				results[resp.Result].Add(1)
			}
		}(i)
	}
	wg.Wait()
	elapsed := time.Since(start)

	fmt.Printf("Completed %d requests in %v\n", *total, elapsed)
	fmt.Printf("TPS: %.2f\n", float64(*total)/elapsed.Seconds())
	for r := range results {
		if n := results[r].Load(); n > 0 {
			fmt.Printf("  %-20s %d\n", pb.Result(r), n)
		}
	}
	if n := rpcErrors.Load(); n > 0 {
		fmt.Printf("  %-20s %d\n", "RPC_ERROR", n)
	}

	// 3. 驗證總額不變與紀錄筆數
	if err := verify(ctx, c, a.Id, b.Id, results[pb.Result_OK].Load()+results[pb.Result_DEGRADED].Load()); err != nil {
		log.Fatalf("verification failed: %v", err)
	}
	fmt.Println("conservation check passed")
}

func verify(ctx context.Context, c pb.LedgerServiceClient, aID, bID int64, committed int64) error {
	sum := decimal.Zero
	for _, id := range []int64{aID, bID} {
		acc, err := c.GetAccount(ctx, &pb.GetAccountRequest{AccountId: id})
		if err != nil {
			return err
		}
		bal, err := decimal.NewFromString(acc.Balance)
		if err != nil {
			return err
		}
		fmt.Printf("account %d balance %s\n", id, acc.Balance)
		sum = sum.Add(bal)
	}
	want := decimal.RequireFromString(initialDeposit).Mul(decimal.NewFromInt(2))
	if !sum.Equal(want) {
		return fmt.Errorf("sum of balances %s, want %s", sum.StringFixed(4), want.StringFixed(4))
	}

	stream, err := c.GetHistory(ctx, &pb.GetHistoryRequest{AccountId: aID})
	if err != nil {
		return err
	}
	var entries int64
	for {
		_, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		entries++
	}
	fmt.Printf("ledger entries %d, committed transfers %d\n", entries, committed)
	// Degraded 的紀錄可能還在補寫
	if entries > committed {
		return fmt.Errorf("more ledger entries (%d) than committed transfers (%d)", entries, committed)
	}
	return nil
}

// measureEntrySize 量測單筆紀錄的編碼大小
func measureEntrySize() int {
	e := &pb.Entry{
		Id:                  uuid.NewString(),
		RefId:               uuid.NewString(),
		Sequence:            1 << 40,
		SourceAccountId:     1234567890123456789,
		TargetAccountId:     1234567890123456789,
		Amount:              domain.MustParseAmount("123456.7890").String(),
		CreatedAtUnixNano:   time.Now().UnixNano(),
		SourceAccountNumber: "ACC-0000000001",
		TargetAccountNumber: "ACC-0000000002",
	}
	return proto.Size(e)
}
