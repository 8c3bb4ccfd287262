package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"practicum/internal/attendance"
	"practicum/internal/config"
	"practicum/internal/queue"
	"practicum/internal/store"
)

// Worker consumes clock-action events and writes audit log rows, keeping
// the audit trail out of the request path.
func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received")
		cancel()
	}()

	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer db.Close()

	redisClient := store.NewRedis(cfg.RedisAddr)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "practicum:attendance")
	}

	repo := attendance.NewRepository(db.Client)

	events, err := q.Consume(ctx)
	if err != nil {
		log.Fatalf("queue consume init failed: %v", err)
	}

	log.Println("audit worker started, waiting for events...")
	for evt := range events {
		if evt.Action != "clock_in" && evt.Action != "clock_out" {
			continue
		}

		// The record is fetched to confirm the event refers to a real row
		// before the audit entry lands.
		rec, err := repo.GetRecord(ctx, evt.RecordID)
		if err != nil {
			log.Printf("fetch record %s failed: %v", evt.RecordID, err)
			continue
		}

		if err := repo.InsertAuditLog(ctx, rec.ID, evt.Action+":"+evt.Session, evt.At); err != nil {
			log.Printf("audit insert for %s failed: %v", rec.ID, err)
			continue
		}
		log.Printf("audited %s %s for record %s (student %s)", evt.Action, evt.Session, rec.ID, rec.StudentID)
	}

	log.Println("audit worker stopped")
}
