package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"strike-server/api"
	"strike-server/config"
	"strike-server/game"
)

func main() {
	// Optional .env for local development; environment wins when both set.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded .env")
	}
	cfg := config.LoadConfig()

	mapDef, err := game.LoadMap(cfg.MapPath)
	if err != nil {
		log.Fatalf("map load error: %v", err)
	}

	room := game.NewRoom("room-1", mapDef, "strike-room-1")
	room.SetVerbose(cfg.Verbose)
	if cfg.RecordPath != "" {
		rec, err := game.NewRecorder(cfg.RecordPath)
		if err != nil {
			log.Printf("recorder disabled: %v", err)
		} else {
			room.SetRecorder(rec)
			log.Printf("Recording match events to %s", cfg.RecordPath)
		}
	}
	go room.Run()

	r := chi.NewRouter()
	r.Mount("/api", api.NewAPIRouter(room))
	r.HandleFunc("/ws", room.HandleConnections)

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	log.Printf("Server started on %s", cfg.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("ListenAndServe:", err)
	}
}
