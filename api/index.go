package handler

import (
	"net/http"
	"poolbook/config"
	"poolbook/di"
	"poolbook/shared/logger"
	"poolbook/transport/http/response"
	"sync"

	"github.com/rs/zerolog/log"
)

var (
	once    sync.Once
	handler http.Handler
	initErr error
)

// Handler serves the API from a serverless function. Dependencies are built
// on the first invocation and reused by warm instances.
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		cfg := config.Get()

		logger.InitLogger(cfg)
		logger.SetLogLevel(cfg)

		server, err := di.InitializeService()
		if err != nil {
			log.Error().Err(err).Msg("Failed to initialize service")

			initErr = err

			return
		}

		handler = server.Handler()
	})

	if initErr != nil {
		response.WithUnhealthy(w)

		return
	}

	r.RequestURI = r.URL.String()

	handler.ServeHTTP(w, r)
}
