//go:build integration

// Package dbtest поднимает пул к тестовой базе для интеграционных тестов.
// База задаётся POOLSCREEN_TEST_DSN; без неё тесты пропускаются.
package dbtest

import (
	"context"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Spok95/poolscreen/internal/infra/db"
)

const EnvDSN = "POOLSCREEN_TEST_DSN"

var seq atomic.Int64

// Pool применяет миграции и возвращает пул, закрываемый в t.Cleanup.
func Pool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv(EnvDSN)
	if dsn == "" {
		t.Skipf("%s is not set", EnvDSN)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Migrate(ctx, dsn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	pool, err := db.Connect(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

// ChatID уникальный id чата, чтобы параллельные прогоны не пересекались.
func ChatID() int64 {
	return -(time.Now().UnixNano()/1000 + seq.Add(1))
}
