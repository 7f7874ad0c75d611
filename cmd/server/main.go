package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"hangul-ai/internal/api"
	"hangul-ai/internal/config"
	"hangul-ai/internal/db"
	"hangul-ai/internal/generator"
	"hangul-ai/internal/progress"
	"hangul-ai/internal/srs"
	"hangul-ai/internal/store"
)

func main() {
	cfg := config.Load()

	conn, err := db.Open(cfg.Database)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer conn.Close()

	if snap, err := progress.LoadSnapshot(cfg.Snapshot); err != nil {
		log.Printf("progress snapshot unavailable, starting from defaults: %v", err)
	} else {
		log.Printf("progress snapshot: %d xp, %d quizzes, %d assignments",
			snap.XP, snap.QuizzesTaken, snap.AssignmentsDone)
	}

	st := store.New(conn)
	sched := srs.New(cfg.ReviewUnit)
	gen := generator.New(cfg.OpenAIKey, cfg.OpenAIModel, cfg.OpenAIEndpoint)
	if cfg.OpenAIKey == "" {
		log.Printf("OPENAI_API_KEY not set; serving fallback content only")
	}

	server := api.NewServer(st, sched, gen, cfg.ExportDir, cfg.Snapshot)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("listening on :%s", port)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      server.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server failed: %v", err)
	}
}
