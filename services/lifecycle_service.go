package services

import (
	"tattoopro-backend/lifecycle"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

var engine *lifecycle.Engine

// InitLifecycle wires the engine to the database-backed store. Called once from
// main before the router starts taking requests.
func InitLifecycle(db *gorm.DB, logger zerolog.Logger) {
	engine = lifecycle.NewEngine(NewGormStore(db), lifecycle.DefaultRegistry(), logger)
}

// Lifecycle returns the process-wide engine.
func Lifecycle() *lifecycle.Engine {
	return engine
}
