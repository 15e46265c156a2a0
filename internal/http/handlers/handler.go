package handlers

import (
	"dinehall-order-service/internal/catalog"
	"dinehall-order-service/internal/config"
	"dinehall-order-service/internal/engine"

	"go.uber.org/zap"
)

type Handler struct {
	Engine  *engine.Engine
	Catalog catalog.Catalog
	Logger  *zap.Logger
	Config  config.Config
}
