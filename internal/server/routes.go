package server

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, logger *slog.Logger, app App) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Gruppenspiel API", "/openapi.json", "/docs"))
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/ws/state", handleWSState(logger, app.Broker, app.Host))

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", handleState(app.Host))
		r.Post("/actions", handleDispatch(app.Host))
		r.Get("/events", handleEvents(app.Broker, app.Host))
		r.Get("/scoreboard", handleScoreboard(app.Host))

		r.Post("/game", handleSetup(app.Host))
		r.Delete("/game", handleReset(app.Host, app.Saver))
		r.Post("/game/start", handleStart(app.Host))
		r.Post("/game/end", handleEnd(app.Host))

		r.Post("/turn/roll", handleRoll(app.Host))
		r.Post("/turn/undo", handleUndo(app.Host))
		r.Post("/minigame/select", handleSelectMinigame(app.Host))
		r.Post("/minigame/finish", handleFinishMinigame(app.Host))

		r.Get("/maps", handleListMaps(app.Catalog))
		r.Get("/maps/{id}", handleGetMap(app.Catalog))
		r.Get("/minigames", handleListMinigames(app.Catalog))
		r.Get("/minigames/{id}", handleGetMinigame(app.Catalog))

		r.Get("/display/beamer", handleGetBeamer(app.Saver))
		r.Put("/display/beamer", handlePutBeamer(app.Saver))
	})

	if app.SPADir != "" {
		if info, err := os.Stat(app.SPADir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", app.SPADir)
			r.NotFound(handleSPA(app.SPADir))
		}
	}
}
