package deps

import (
	"context"
	"log"

	"github.com/bwise1/placemark/config"
	"github.com/bwise1/placemark/internal/bookmark"
	"github.com/bwise1/placemark/internal/db"
	"github.com/bwise1/placemark/internal/mapkit"
	"github.com/bwise1/placemark/internal/mapstate"
	"github.com/bwise1/placemark/internal/routing"
	"github.com/bwise1/placemark/internal/session"
	"github.com/bwise1/placemark/util/websockets"
)

type Dependencies struct {
	DB         *db.DB // nil when running without a DSN
	MapKit     *mapkit.Client
	Bookmarks  *bookmark.Repository
	Distances  *routing.Calculator
	WebSocket  *websockets.WebSocketManager
	MapOptions []mapstate.Option
}

func New(cfg *config.Config) *Dependencies {
	var (
		database *db.DB
		store    bookmark.Store
		cache    routing.CacheStore
	)

	if cfg.Dsn != "" {
		var err error
		database, err = db.New(cfg.Dsn)
		if err != nil {
			log.Panicln("failed to connect to database", "error", err)
		}
		if err := database.Migrate(context.Background()); err != nil {
			log.Panicln("failed to migrate database", "error", err)
		}
		store = bookmark.NewPgStore(database.Pool())
		cache = routing.NewPgCacheStore(database.Pool(), cfg.RouteCacheTTL)
	} else {
		log.Println("DSN is empty, bookmarks are kept in memory")
		store = bookmark.NewMemoryStore()
		cache = routing.NewMemoryCacheStore(cfg.RouteCacheTTL)
	}

	client := mapkit.New(mapkit.Options{
		StadiaAPIKey:    cfg.StadiaAPIKey,
		StadiaBaseURL:   cfg.StadiaBaseURL,
		MapboxAPIKey:    cfg.MapboxAPIKey,
		MapboxBaseURL:   cfg.MapboxBaseURL,
		RoutingProvider: cfg.RoutingProvider,
		ValhallaBaseURL: cfg.ValhallaBaseURL,
		Timeout:         cfg.ProviderTimeout,
	})

	deps := Dependencies{
		DB:        database,
		MapKit:    client,
		Bookmarks: bookmark.NewRepository(store),
		Distances: routing.NewCalculator(client,
			routing.WithCache(cache),
			routing.WithRouteCount(cfg.RouteAlternatives),
		),
		WebSocket: websockets.NewWebSocketManager(),
		MapOptions: []mapstate.Option{
			mapstate.WithDistanceScale(cfg.DistanceScale),
			mapstate.WithEventBuffer(cfg.EventBuffer),
		},
	}
	return &deps
}

// SessionDependencies is what every new session is built from.
func (d *Dependencies) SessionDependencies() session.Dependencies {
	return session.Dependencies{
		Geocoder:   d.MapKit,
		Searcher:   d.MapKit,
		Distances:  d.Distances,
		Repository: d.Bookmarks,
		Publisher:  d.WebSocket,
		MapOptions: d.MapOptions,
	}
}

func (d *Dependencies) Close() {
	d.WebSocket.Stop()
	d.MapKit.Close()
	if d.DB != nil {
		d.DB.Close()
	}
}
