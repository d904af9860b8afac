package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"tillpos/config"
	"tillpos/internal/database"
	"tillpos/internal/mirror"
	"tillpos/internal/report"
	"tillpos/internal/server"
	"tillpos/internal/snapshot"
	"tillpos/internal/till"
)

func main() {
	cfg := config.LoadConfig()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	opts := []till.Option{
		till.WithReporter(&report.FileGenerator{Dir: cfg.ReportDir, ShopName: cfg.ShopName}),
	}

	var engine *mirror.Engine
	if cfg.Redis.Host != "" {
		rdb := config.NewRedisClient(cfg.Redis)
		engine = mirror.NewEngine(mirror.NewRedisStore(rdb, cfg.ShopID))
		opts = append(opts, till.WithMirror(engine))
	} else {
		log.Println("REDIS_HOST not set; remote mirror disabled")
	}

	t := till.New(opts...)

	if engine != nil {
		engine.Bind(t.AttachRemoteID, t.ReplaceOrders)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.SnapshotDSN != "" {
		db, err := database.NewConnection(cfg.SnapshotDSN)
		if err != nil {
			log.Fatalf("Failed to connect to snapshot database: %v", err)
		}
		store, err := snapshot.NewStore(db)
		if err != nil {
			log.Fatalf("Failed to prepare snapshot store: %v", err)
		}
		if state, ok, err := store.Load(); err != nil {
			log.Printf("Snapshot load failed, starting fresh: %v", err)
		} else if ok {
			t.RestoreState(state)
			log.Println("State restored from local snapshot")
		}
		go store.AutoSave(ctx, cfg.SnapshotTick, t.PackState)
	} else {
		log.Println("SNAPSHOT_DSN not set; state is not persisted locally")
	}

	srv := server.New(t, engine, cfg)

	go func() {
		log.Printf("Starting server on %s", cfg.HTTPAddr)
		if err := srv.Router().Run(cfg.HTTPAddr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down")
	if engine != nil {
		engine.Close()
	}
}
