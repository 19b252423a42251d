package server

import (
	"net/http"
	"time"

	"github.com/alabanza/alabanza/live"
	"github.com/alabanza/alabanza/logging"
	"github.com/alabanza/alabanza/repertoire"
	"github.com/alabanza/alabanza/transpose"
	"github.com/alabanza/alabanza/transpose/config"
)

// API serves the repertoire, transposition and live-session endpoints
type API struct {
	engineConfig config.EngineConfig
	engine       transpose.Transposer
	service      *repertoire.Service
	hub          *live.Hub
	ws           *live.WSHandler
	logger       logging.Logger
}

// NewAPI wires the handlers; pingEvery is the live websocket keepalive
func NewAPI(engineConfig *config.EngineConfig, engine transpose.Transposer, service *repertoire.Service, hub *live.Hub, pingEvery time.Duration) *API {
	if engineConfig == nil {
		engineConfig = config.DefaultEngineConfig()
	}
	if engine == nil {
		engine = transpose.NewEngine(engineConfig)
	}
	if hub == nil {
		hub = live.NewHub()
	}
	return &API{
		engineConfig: engineConfig.WithDefaults(),
		engine:       engine,
		service:      service,
		hub:          hub,
		ws:           live.NewWSHandler(hub, pingEvery),
		logger: logging.WithFields(logging.Fields{
			"component": "http_api",
		}),
	}
}

// NewMux registers every route and wraps the mux with CORS
func NewMux(api *API) http.Handler {
	mux := http.NewServeMux()

	// Transposition
	mux.HandleFunc("POST /api/transpose", api.handleTranspose)
	mux.HandleFunc("GET /api/keys", api.handleKeys)
	mux.HandleFunc("GET /api/keys/distance", api.handleKeyDistance)

	// Songs
	mux.HandleFunc("GET /api/songs", api.handleListSongs)
	mux.HandleFunc("POST /api/songs", api.handleCreateSong)
	mux.HandleFunc("GET /api/songs/{id}", api.handleGetSong)
	mux.HandleFunc("PUT /api/songs/{id}", api.handleUpdateSong)
	mux.HandleFunc("DELETE /api/songs/{id}", api.handleDeleteSong)
	mux.HandleFunc("GET /api/songs/{id}/transpose", api.handleTransposeSong)

	// Mixes
	mux.HandleFunc("GET /api/mixes", api.handleListMixes)
	mux.HandleFunc("POST /api/mixes", api.handleCreateMix)
	mux.HandleFunc("GET /api/mixes/{id}", api.handleGetMix)
	mux.HandleFunc("PUT /api/mixes/{id}", api.handleUpdateMix)
	mux.HandleFunc("DELETE /api/mixes/{id}", api.handleDeleteMix)
	mux.HandleFunc("GET /api/mixes/{id}/transpose", api.handleTransposeMix)

	// Live session
	mux.HandleFunc("GET /api/live", api.handleLiveState)
	mux.HandleFunc("POST /api/live", api.handleLiveCommand)
	mux.HandleFunc("GET /api/live/signals", api.handleLiveSignals)
	mux.Handle("GET /api/live/ws", api.ws)

	return CORS(mux)
}
