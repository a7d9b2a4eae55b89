package main

import (
	"log"
	"net/http"
	"os"

	"github.com/Igor-TCA/kanban-calender-app/internal/config"
	"github.com/Igor-TCA/kanban-calender-app/internal/serverapp"
)

func main() {
	cfgPath := os.Getenv("PLANNER_CONFIG")
	if cfgPath == "" {
		cfgPath = "planner.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	srv, err := serverapp.New(serverapp.Options{
		Config: cfg,
		Logger: log.Default(),
	})
	if err != nil {
		log.Fatalf("build server: %v", err)
	}
	defer srv.Close()

	log.Printf("listening on http://localhost%s", cfg.Server.Addr)
	log.Fatal(http.ListenAndServe(cfg.Server.Addr, srv.Handler))
}
