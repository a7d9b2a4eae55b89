// Dev server: in-memory storage plus a seeded sample grid, so the API is
// explorable without a database file. Use cmd/server for the real thing.
package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/Igor-TCA/kanban-calender-app/internal/config"
	"github.com/Igor-TCA/kanban-calender-app/internal/grid"
	"github.com/Igor-TCA/kanban-calender-app/internal/model"
	"github.com/Igor-TCA/kanban-calender-app/internal/serverapp"
)

const PORT = "42069"

func main() {
	cfg := &config.Config{}
	cfg.ApplyDefaults()
	cfg.Server.Addr = ":" + PORT
	cfg.Storage.Driver = "memory"
	cfg.Sync.OnStartup = true

	srv, err := serverapp.New(serverapp.Options{Config: cfg, Logger: log.Default()})
	if err != nil {
		log.Fatal(err)
	}
	defer srv.Close()

	if err := seedSampleGrid(srv.Grid); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("planner listening on %s\n", cfg.Server.Addr)
	log.Fatal(http.ListenAndServe(cfg.Server.Addr, srv.Handler))
}

// seedSampleGrid fills a few cells so a fresh dev server has activities to
// synchronize.
func seedSampleGrid(g *grid.Service) error {
	today := time.Now().Format(model.DateLayout)

	seed := []struct {
		label  string
		column int
		text   string
	}{
		{"08:00", 0, "[P1][diaria] Checar e-mails"},
		{"09:00", 2, "[semanal][" + today + "] Reunião de planejamento"},
		{"14:00", 4, "[P0][quinzenal][" + today + "] Fechamento da quinzena"},
		{"16:00", 1, "Revisar propostas"},
	}
	for _, c := range seed {
		if err := g.SaveActivity(c.label, c.column, c.text); err != nil {
			return fmt.Errorf("seed cell %s/%d: %w", c.label, c.column, err)
		}
	}
	return nil
}
