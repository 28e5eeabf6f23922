package app

import (
	"github.com/gorilla/sessions"

	"github.com/yoursneaker/storefront/pkg/cache"
	"github.com/yoursneaker/storefront/pkg/config"
	"github.com/yoursneaker/storefront/pkg/database"
	"github.com/yoursneaker/storefront/pkg/events"
	"github.com/yoursneaker/storefront/pkg/logger"
	"github.com/yoursneaker/storefront/pkg/workflows"
)

// Application holds the shared infrastructure handed to every bounded
// context when its routes or workers are registered.
//
// Logger is trace-aware; prefer the *Context methods inside requests and
// message handlers so trace_id, span_id and request_id are attached:
//
//	app.Logger.InfoContext(ctx, "item added", "cart_id", id)
type Application struct {
	Config         *config.Config
	Db             *database.Database
	Logger         logger.Logger
	EventBus       *events.Bus
	Redis          *cache.RedisClient
	TemporalClient *workflows.TemporalClient
	SessionStore   sessions.Store // nil in the worker process
}
