package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/jayeshpatil25/Gate-Pass-Management-System/internal/config"
	"github.com/jayeshpatil25/Gate-Pass-Management-System/internal/db"
	internalhttp "github.com/jayeshpatil25/Gate-Pass-Management-System/internal/http"
	"github.com/jayeshpatil25/Gate-Pass-Management-System/internal/store"
	"github.com/jayeshpatil25/Gate-Pass-Management-System/internal/store/memory"
	"github.com/jayeshpatil25/Gate-Pass-Management-System/internal/store/postgres"
	"github.com/jayeshpatil25/Gate-Pass-Management-System/internal/workflow"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		students store.IdentityStore
		guards   store.IdentityStore
		passes   store.GatePassStore
	)
	if cfg.DatabaseURL != "" {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("db connection failed: %v", err)
		}
		defer pool.Close()
		students = postgres.NewStudentStore(pool)
		guards = postgres.NewGuardStore(pool)
		passes = postgres.NewGatePassStore(pool)
	} else {
		log.Printf("DATABASE_URL not set, using in-memory stores")
		students = memory.NewIdentityStore()
		guards = memory.NewIdentityStore()
		passes = memory.NewGatePassStore()
	}

	server := internalhttp.NewServer(cfg, students, guards, workflow.NewService(passes))

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("gatepass listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server error: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
