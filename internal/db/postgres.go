package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"rental-backend/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens the pgx pool and verifies the database is reachable
// before the server starts taking requests. A bad DSN or an unreachable
// host is fatal; there is nothing to serve without the database.
func Connect(cfg *config.Config) *pgxpool.Pool {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		cfg.Database.User, cfg.Database.Password,
		cfg.Database.Host, cfg.Database.Port, cfg.Database.Name)

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		log.Fatalf("[Postgres] invalid pool config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("[Postgres] connection failed: %v", err)
	}
	log.Printf("[Postgres] connected to %s:%d/%s", cfg.Database.Host, cfg.Database.Port, cfg.Database.Name)

	return pool
}
