// README: Smoke cases for the pricing API: environment, estimate scenarios, frozen trip pricing, audit stream and load.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"compass/internal/modules/distance"
	"compass/internal/modules/pricing"
	"compass/internal/types"
)

const (
	StatusPass    = "PASS"
	StatusFail    = "FAIL"
	StatusPending = "PENDING"
	StatusSkip    = "SKIP"
)

const quoteStreamKey = "pricing:quotes"

type Runner struct {
	cfg   Config
	httpc *http.Client
	db    *pgxpool.Pool
	redis *redis.Client
}

type Result struct {
	Name    string
	Status  string
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name string
	Run  func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 15 * time.Second},
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.DSN != "" {
		if db, err := pgxpool.New(ctx, r.cfg.DSN); err == nil {
			r.db = db
		}
	}
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
	}

	tests := r.cases()
	results := make([]Result, 0, len(tests))

	for _, tc := range tests {
		res := tc.Run(ctx, r)
		res.Name = tc.Name
		results = append(results, res)
		fmt.Printf("%-7s %s", res.Status, tc.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency)
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}

	if r.db != nil {
		r.db.Close()
	}
	if r.redis != nil {
		_ = r.redis.Close()
	}

	return results
}

func (r *Runner) cases() []TestCase {
	return []TestCase{
		{Name: "Env: Postgres connect", Run: checkPostgres},
		{Name: "Env: Redis connect", Run: checkRedis},
		{Name: "Migration: apply (optional)", Run: applyMigration},
		{Name: "Migration: tables exist", Run: checkTables},
		{Name: "API: health", Run: checkHealth},

		// Weekday 10:00 in Franklin County: base + 10mi at the in-zone rate.
		estimateCase("Estimate: A standard one-way", map[string]any{
			"distance":           10,
			"pickupDateTime":     "2026-03-10T10:00:00-04:00",
			"clientWeight":       150,
			"pickupAddress":      "123 Main St, Columbus, OH",
			"destinationAddress": "Riverside Hospital, Columbus, OH",
		}, expectTotal(80)),
		estimateCase("Estimate: B bariatric round trip", map[string]any{
			"isRoundTrip":        true,
			"distance":           10,
			"pickupDateTime":     "2026-03-10T14:00:00-04:00",
			"clientWeight":       320,
			"pickupAddress":      "Dublin, OH",
			"destinationAddress": "Columbus, OH",
		}, expectTotal(360)),
		estimateCase("Estimate: C Saturday evening", map[string]any{
			"distance":           10,
			"pickupDateTime":     "2026-10-17T19:00:00-04:00",
			"pickupAddress":      "Dublin, OH",
			"destinationAddress": "Columbus, OH",
		}, expectTotal(120)),
		estimateCase("Estimate: D Lancaster out of zone", map[string]any{
			"distance":           10,
			"pickupDateTime":     "2026-03-10T10:00:00-04:00",
			"pickupAddress":      "100 Main St, Lancaster, OH 43130",
			"destinationAddress": "Columbus, OH",
		}, expectOutOfZone),
		estimateCase("Estimate: E Christmas round trip", map[string]any{
			"isRoundTrip":        true,
			"distance":           10,
			"pickupDateTime":     "2026-12-25T10:00:00-05:00",
			"pickupAddress":      "Dublin, OH",
			"destinationAddress": "Columbus, OH",
		}, expectTotal(260)),
		estimateCase("Estimate: negative distance -> success=false", map[string]any{
			"distance": -1,
		}, expectFailure),
		httpStatusCase("Estimate: malformed json -> 400", http.MethodPost, "/api/pricing/estimate", "{", []int{400}, nil),

		httpStatusCase("Routes: fastest leg", http.MethodGet,
			"/api/routes/leg?origin=Lancaster,+OH&destination=Columbus,+OH", "", []int{200}, []int{503}),
		httpStatusCase("Routes: missing destination -> 400", http.MethodGet, "/api/routes/leg?origin=Dublin", "", []int{400}, nil),

		{Name: "Trips: freeze and read back pricing", Run: checkTripPricing},
		{Name: "Audit: quotes appended to stream", Run: checkAuditStream},

		{Name: "Perf: estimate throughput", Run: perfEstimate},
	}
}

func checkPostgres(ctx context.Context, r *Runner) Result {
	if r.db == nil {
		return Result{Status: StatusSkip, Note: "db not configured"}
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := r.db.Ping(ctx); err != nil {
		return Result{Status: StatusFail, Note: err.Error()}
	}
	return Result{Status: StatusPass}
}

func checkRedis(ctx context.Context, r *Runner) Result {
	if r.redis == nil {
		return Result{Status: StatusSkip, Note: "redis not configured"}
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := r.redis.Ping(ctx).Err(); err != nil {
		return Result{Status: StatusFail, Note: err.Error()}
	}
	return Result{Status: StatusPass}
}

func applyMigration(ctx context.Context, r *Runner) Result {
	if !r.cfg.ApplyMigration {
		return Result{Status: StatusSkip, Note: "apply-migration=false"}
	}
	if r.db == nil {
		return Result{Status: StatusFail, Note: "db not configured"}
	}
	sql, err := os.ReadFile(r.cfg.MigrationPath)
	if err != nil {
		return Result{Status: StatusFail, Note: err.Error()}
	}
	for _, s := range splitSQL(string(sql)) {
		if _, err := r.db.Exec(ctx, s); err != nil {
			return Result{Status: StatusFail, Note: err.Error()}
		}
	}
	return Result{Status: StatusPass}
}

func checkTables(ctx context.Context, r *Runner) Result {
	if r.db == nil {
		return Result{Status: StatusSkip, Note: "db not configured"}
	}
	tables, err := extractTables(r.cfg.MigrationPath)
	if err != nil {
		return Result{Status: StatusFail, Note: err.Error()}
	}
	for _, t := range tables {
		var exists bool
		err := r.db.QueryRow(ctx,
			"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name=$1)",
			t,
		).Scan(&exists)
		if err != nil {
			return Result{Status: StatusFail, Note: err.Error()}
		}
		if !exists {
			return Result{Status: StatusFail, Note: "missing table: " + t}
		}
	}
	return Result{Status: StatusPass}
}

func checkHealth(ctx context.Context, r *Runner) Result {
	status, _, latency, err := r.do(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return Result{Status: StatusFail, Note: err.Error()}
	}
	if status != http.StatusOK {
		return Result{Status: StatusFail, Latency: latency, Note: fmt.Sprintf("status=%d", status)}
	}
	return Result{Status: StatusPass, Latency: latency}
}

func checkTripPricing(ctx context.Context, r *Runner) Result {
	if r.db == nil {
		return Result{Status: StatusSkip, Note: "db not configured"}
	}
	tripID := "bench-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	if _, err := r.db.Exec(ctx, `INSERT INTO trips (id, pickup_address, destination_address) VALUES ($1, $2, $3)`,
		tripID, "Dublin, OH", "Columbus, OH"); err != nil {
		return Result{Status: StatusFail, Note: err.Error()}
	}
	defer func() { _, _ = r.db.Exec(context.Background(), `DELETE FROM trips WHERE id = $1`, tripID) }()

	want := pricing.Breakdown{BaseFare: 50, DistanceCharge: 30, Total: 80}
	status, _, latency, err := r.do(ctx, http.MethodPut, "/api/trips/"+tripID+"/pricing", want)
	if err != nil || status != http.StatusOK {
		return Result{Status: StatusFail, Latency: latency, Note: fmt.Sprintf("save status=%d err=%v", status, err)}
	}

	status, body, latency, err := r.do(ctx, http.MethodGet, "/api/trips/"+tripID+"/pricing", nil)
	if err != nil || status != http.StatusOK {
		return Result{Status: StatusFail, Latency: latency, Note: fmt.Sprintf("get status=%d err=%v", status, err)}
	}
	var got struct {
		Pricing pricing.Breakdown `json:"pricing"`
	}
	if err := json.Unmarshal(body, &got); err != nil {
		return Result{Status: StatusFail, Note: err.Error()}
	}
	if got.Pricing != want {
		return Result{Status: StatusFail, Note: fmt.Sprintf("read back %+v", got.Pricing)}
	}
	return Result{Status: StatusPass, Latency: latency}
}

func checkAuditStream(ctx context.Context, r *Runner) Result {
	if r.redis == nil {
		return Result{Status: StatusSkip, Note: "redis not configured"}
	}
	before, err := r.redis.XLen(ctx, quoteStreamKey).Result()
	if err != nil {
		return Result{Status: StatusFail, Note: err.Error()}
	}
	if _, _, _, err := r.do(ctx, http.MethodPost, "/api/pricing/estimate", map[string]any{"distance": 1}); err != nil {
		return Result{Status: StatusFail, Note: err.Error()}
	}
	after, err := r.redis.XLen(ctx, quoteStreamKey).Result()
	if err != nil {
		return Result{Status: StatusFail, Note: err.Error()}
	}
	if after <= before {
		return Result{Status: StatusPending, Note: "stream did not grow; is the API configured with redis?"}
	}
	return Result{Status: StatusPass, Note: fmt.Sprintf("len=%d", after)}
}

type estimateCheck func(res pricing.Result) (string, string)

func expectTotal(total types.Money) estimateCheck {
	return func(res pricing.Result) (string, string) {
		if !res.Success || res.Pricing == nil {
			return StatusFail, "quote failed: " + res.Error
		}
		if res.Pricing.Total != total {
			return StatusFail, fmt.Sprintf("total=%s want %s", res.Pricing.Total, total)
		}
		return StatusPass, "total=" + total.String()
	}
}

// expectOutOfZone accepts both a resolved and an unavailable routing service;
// only the former carries a dead-mileage charge.
func expectOutOfZone(res pricing.Result) (string, string) {
	if !res.Success || res.Pricing == nil || res.Jurisdiction == nil || res.DeadMileage == nil {
		return StatusFail, "quote failed: " + res.Error
	}
	p := res.Pricing
	if res.Jurisdiction.ZonesCrossed != 2 || p.ZoneSurcharge != 50 || p.DistanceCharge != 40 {
		return StatusFail, fmt.Sprintf("zones=%d zone=%s distance=%s", res.Jurisdiction.ZonesCrossed, p.ZoneSurcharge, p.DistanceCharge)
	}
	if res.DeadMileage.Status != distance.StatusResolved {
		if p.Total != 140 {
			return StatusFail, "total=" + p.Total.String()
		}
		return StatusPending, "routing unavailable: " + res.DeadMileage.Reason
	}
	return StatusPass, fmt.Sprintf("dead=%.2fmi total=%s", res.DeadMileage.Miles, p.Total)
}

func expectFailure(res pricing.Result) (string, string) {
	if res.Success || res.Pricing != nil || res.QuoteID == "" {
		return StatusFail, "expected a failed quote"
	}
	return StatusPass, res.Error
}

func estimateCase(name string, body map[string]any, check estimateCheck) TestCase {
	return TestCase{
		Name: name,
		Run: func(ctx context.Context, r *Runner) Result {
			status, raw, latency, err := r.do(ctx, http.MethodPost, "/api/pricing/estimate", body)
			if err != nil {
				return Result{Status: StatusFail, Note: err.Error()}
			}
			if status != http.StatusOK {
				return Result{Status: StatusFail, Latency: latency, Note: fmt.Sprintf("status=%d", status)}
			}
			var res pricing.Result
			if err := json.Unmarshal(raw, &res); err != nil {
				return Result{Status: StatusFail, Latency: latency, Note: err.Error()}
			}
			verdict, note := check(res)
			return Result{Status: verdict, Latency: latency, Note: note}
		},
	}
}

func httpStatusCase(name, method, path, rawBody string, okStatuses, pendingStatuses []int) TestCase {
	return TestCase{
		Name: name,
		Run: func(ctx context.Context, r *Runner) Result {
			var reader io.Reader
			if rawBody != "" {
				reader = strings.NewReader(rawBody)
			}
			req, err := http.NewRequestWithContext(ctx, method, r.cfg.BaseURL+path, reader)
			if err != nil {
				return Result{Status: StatusFail, Note: err.Error()}
			}
			req.Header.Set("Content-Type", "application/json")
			start := time.Now()
			resp, err := r.httpc.Do(req)
			if err != nil {
				return Result{Status: StatusFail, Note: err.Error()}
			}
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			latency := time.Since(start)

			note := fmt.Sprintf("status=%d", resp.StatusCode)
			if contains(okStatuses, resp.StatusCode) {
				return Result{Status: StatusPass, Latency: latency, Note: note}
			}
			if contains(pendingStatuses, resp.StatusCode) {
				return Result{Status: StatusPending, Latency: latency, Note: note}
			}
			return Result{Status: StatusFail, Latency: latency, Note: note}
		},
	}
}

func (r *Runner) do(ctx context.Context, method, path string, body any) (int, []byte, time.Duration, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, nil, 0, err
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, r.cfg.BaseURL+path, reader)
	if err != nil {
		return 0, nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	start := time.Now()
	resp, err := r.httpc.Do(req)
	if err != nil {
		return 0, nil, 0, err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	return resp.StatusCode, raw, time.Since(start), err
}

func perfEstimate(ctx context.Context, r *Runner) Result {
	b, _ := json.Marshal(map[string]any{
		"isRoundTrip":        true,
		"distance":           12.74,
		"pickupDateTime":     "2026-03-10T14:00:00-04:00",
		"pickupAddress":      "Dublin, OH",
		"destinationAddress": "Columbus, OH",
	})
	url := r.cfg.BaseURL + "/api/pricing/estimate"
	end := time.Now().Add(r.cfg.Duration)
	var count, errCount int64
	var wg sync.WaitGroup

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) && ctx.Err() == nil {
				req, _ := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
				req.Header.Set("Content-Type", "application/json")
				resp, err := r.httpc.Do(req)
				if err != nil {
					atomic.AddInt64(&errCount, 1)
					continue
				}
				_, _ = io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
				if resp.StatusCode != http.StatusOK {
					atomic.AddInt64(&errCount, 1)
					continue
				}
				atomic.AddInt64(&count, 1)
			}
		}()
	}
	wg.Wait()

	if count == 0 {
		return Result{Status: StatusFail, Note: "no requests completed"}
	}
	rps := float64(count) / r.cfg.Duration.Seconds()
	return Result{Status: StatusPass, Note: fmt.Sprintf("rps=%.1f errors=%d", rps, errCount)}
}

func contains(list []int, v int) bool {
	for _, i := range list {
		if i == v {
			return true
		}
	}
	return false
}

var createTableRe = regexp.MustCompile(`(?i)create\s+table\s+if\s+not\s+exists\s+([a-zA-Z0-9_]+)`)

func extractTables(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	matches := createTableRe.FindAllStringSubmatch(string(b), -1)
	tables := make([]string, 0, len(matches))
	for _, m := range matches {
		tables = append(tables, m[1])
	}
	return tables, nil
}

func splitSQL(sql string) []string {
	lines := strings.Split(sql, "\n")
	filtered := make([]string, 0, len(lines))
	for _, line := range lines {
		l := strings.TrimSpace(line)
		if strings.HasPrefix(l, "--") || l == "" {
			continue
		}
		filtered = append(filtered, line)
	}
	parts := strings.Split(strings.Join(filtered, "\n"), ";")
	stmts := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			stmts = append(stmts, s)
		}
	}
	return stmts
}
