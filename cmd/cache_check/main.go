package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"hallbook/internal/shared/config"
	"hallbook/internal/shared/constants"
	"hallbook/pkg/cache"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

// CheckResult is one request against a cached public endpoint.
type CheckResult struct {
	Name         string        `json:"name"`
	Endpoint     string        `json:"endpoint"`
	CacheKey     string        `json:"cache_key"`
	Status       int           `json:"status"`
	ResponseTime time.Duration `json:"response_time"`
	DataSize     int           `json:"data_size"`
	KeyBefore    bool          `json:"key_before"`
	KeyAfter     bool          `json:"key_after"`
	Error        string        `json:"error,omitempty"`
}

type CacheCheck struct {
	BaseURL string
	Redis   *redis.Client
	Cache   cache.Service
	HTTP    *http.Client
	Results []CheckResult
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ownerID := flag.String("owner", "", "hall owner id to check")
	baseURL := flag.String("base", fmt.Sprintf("http://localhost:%s%s", cfg.Port, cfg.GetAPIBasePath()), "API base URL")
	output := flag.String("out", "", "write the JSON report to this file")
	flag.Parse()
	if *ownerID == "" {
		log.Fatal("-owner is required")
	}

	check := &CacheCheck{
		BaseURL: *baseURL,
		Redis: redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}),
		HTTP: &http.Client{Timeout: 30 * time.Second},
	}
	defer check.Redis.Close()
	check.Cache = cache.NewService(check.Redis)

	ctx := context.Background()
	if err := check.Cache.Ping(ctx); err != nil {
		log.Fatalf("❌ Redis connection failed: %v", err)
	}
	fmt.Println("✅ Redis connection: OK")

	cases := []struct {
		name     string
		endpoint string
		key      string
	}{
		{"Public resources", "/resources/public/" + *ownerID, constants.CACHE_KEY_RESOURCES_PUBLIC + *ownerID},
		{"Public pricing", "/pricing/public/" + *ownerID, constants.CACHE_KEY_PRICING_PUBLIC + *ownerID},
		{"Unavailable dates", "/bookings/unavailable-dates/" + *ownerID, constants.BuildUnavailableDatesKey(*ownerID, "", "", "")},
	}

	for _, tc := range cases {
		fmt.Printf("\n🔍 %s\n", tc.name)

		// start cold so the first request has to fill the entry
		if err := check.Cache.Delete(ctx, tc.key); err != nil {
			log.Printf("   failed to clear %s: %v", tc.key, err)
		}
		first := check.fetch(ctx, tc.name, tc.endpoint, tc.key)
		// the cache write is asynchronous
		time.Sleep(200 * time.Millisecond)
		second := check.fetch(ctx, tc.name, tc.endpoint, tc.key)

		if first.Error == "" && second.Error == "" && first.ResponseTime > 0 {
			improvement := float64(first.ResponseTime-second.ResponseTime) / float64(first.ResponseTime) * 100
			fmt.Printf("   📈 %v -> %v (%.1f%%)\n", first.ResponseTime, second.ResponseTime, improvement)
		}
	}

	failed := check.report()
	if *output != "" {
		data, _ := json.MarshalIndent(check.Results, "", "  ")
		if err := os.WriteFile(*output, data, 0o644); err != nil {
			log.Printf("failed to write report: %v", err)
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func (c *CacheCheck) fetch(ctx context.Context, name, endpoint, key string) CheckResult {
	result := CheckResult{Name: name, Endpoint: endpoint, CacheKey: key}
	result.KeyBefore = c.exists(ctx, key)

	start := time.Now()
	resp, err := c.HTTP.Get(c.BaseURL + endpoint)
	result.ResponseTime = time.Since(start)
	if err != nil {
		result.Error = err.Error()
		c.record(result)
		return result
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	result.Status = resp.StatusCode
	result.DataSize = len(body)
	if resp.StatusCode >= 400 {
		result.Error = fmt.Sprintf("HTTP %d", resp.StatusCode)
	}

	time.Sleep(50 * time.Millisecond)
	result.KeyAfter = c.exists(ctx, key)
	c.record(result)
	return result
}

func (c *CacheCheck) exists(ctx context.Context, key string) bool {
	n, err := c.Redis.Exists(ctx, key).Result()
	return err == nil && n > 0
}

func (c *CacheCheck) record(r CheckResult) {
	c.Results = append(c.Results, r)

	icon := "✅"
	if r.Error != "" {
		icon = "❌"
	}
	state := "MISS"
	if r.KeyBefore {
		state = "HIT"
	}
	fmt.Printf("   %s [%s] %v (%d bytes) cached after: %t\n", icon, state, r.ResponseTime, r.DataSize, r.KeyAfter)
}

// report prints the summary and returns the number of endpoints whose
// response never reached the cache.
func (c *CacheCheck) report() int {
	fmt.Println("\n📊 CACHE REPORT")
	fmt.Println("===============")

	var hits, misses, failed int
	var hitTime, missTime time.Duration
	for i, r := range c.Results {
		if r.KeyBefore {
			hits++
			hitTime += r.ResponseTime
		} else {
			misses++
			missTime += r.ResponseTime
		}
		// results come in (cold, warm) pairs
		if i%2 == 1 && (r.Error != "" || !r.KeyBefore) {
			failed++
			fmt.Printf("❌ %s was not served from cache\n", r.Name)
		}
	}

	fmt.Printf("Requests: %d\n", len(c.Results))
	fmt.Printf("Cache hits: %d, misses: %d\n", hits, misses)
	if hits > 0 {
		fmt.Printf("Average hit time: %v\n", hitTime/time.Duration(hits))
	}
	if misses > 0 {
		fmt.Printf("Average miss time: %v\n", missTime/time.Duration(misses))
	}
	return failed
}
