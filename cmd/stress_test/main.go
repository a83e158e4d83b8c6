package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rl1809/product-catalog/internal/adapter/client"
	"github.com/rl1809/product-catalog/internal/adapter/handler/pb"
	"github.com/rl1809/product-catalog/internal/config"
	"github.com/rl1809/product-catalog/internal/obs"
)

func main() {
	addr := flag.String("addr", "", "Server address (defaults to client config)")
	totalRequests := flag.Int("n", 50, "Concurrent create requests")
	flag.Parse()

	cfg, err := config.LoadClient("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *addr != "" {
		cfg.ServerAddress = *addr
	}

	c, err := client.NewProductClient(cfg, obs.NewLogger(os.Stderr, "text", slog.LevelWarn))
	if err != nil {
		log.Fatalf("failed to create client: %v", err)
	}
	defer c.Close()

	ctx := context.Background()
	before, err := c.ListProducts(ctx, 1, 1, "")
	if err != nil {
		log.Fatalf("failed to list products: %v", err)
	}

	// Counters
	var successCount atomic.Int32
	var failCount atomic.Int32
	var mu sync.Mutex
	ids := make(map[int64]int)

	// Spawn concurrent requests
	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < *totalRequests; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()

			resp, err := c.CreateProduct(ctx, &pb.CreateProductRequest{
				Name:     fmt.Sprintf("Stress Product %d", n),
				Price:    int64(1000 + n),
				Category: "Stress",
				Stock:    1,
			})
			if err != nil || !resp.Success {
				failCount.Add(1)
				return
			}
			successCount.Add(1)
			mu.Lock()
			ids[resp.Product.Id]++
			mu.Unlock()
		}(i)
	}

	wg.Wait()
	elapsed := time.Since(start)

	after, err := c.ListProducts(ctx, 1, 1, "")
	if err != nil {
		log.Fatalf("failed to list products: %v", err)
	}

	// Results
	success := successCount.Load()
	fail := failCount.Load()

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Total Requests:   %d\n", *totalRequests)
	fmt.Printf("Successful:       %d\n", success)
	fmt.Printf("Failed:           %d\n", fail)
	fmt.Printf("Distinct IDs:     %d\n", len(ids))
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("==========================================")

	// Assertions
	if int(success) == *totalRequests && len(ids) == *totalRequests {
		fmt.Printf("PASS: %d creates, every id distinct\n", success)
	} else {
		fmt.Printf("FAIL: expected %d creates with distinct ids, got %d creates and %d ids\n",
			*totalRequests, success, len(ids))
	}

	grown := after.TotalCount - before.TotalCount
	if int(grown) == *totalRequests {
		fmt.Printf("PASS: catalog grew by %d\n", grown)
	} else {
		fmt.Printf("FAIL: expected catalog to grow by %d, got %d\n", *totalRequests, grown)
	}
}
