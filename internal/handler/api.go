package handler

import (
	"github.com/carbonlog/internal/logger"
	"github.com/carbonlog/internal/service"
	"github.com/microcosm-cc/bluemonday"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	footprints footprintProvider
	auth       authProvider
	log        *logger.Logger
	sanitizer  *bluemonday.Policy
}

// NewAPI constructs a handler set with shared services.
func NewAPI(footprints *service.FootprintService, auth *service.AuthService, log *logger.Logger) *API {
	return newAPI(footprints, auth, log)
}

func newAPI(footprints footprintProvider, auth authProvider, log *logger.Logger) *API {
	if log == nil {
		log = logger.Nop()
	}
	return &API{
		footprints: footprints,
		auth:       auth,
		log:        log.With("component", "http"),
		sanitizer:  bluemonday.StrictPolicy(),
	}
}
