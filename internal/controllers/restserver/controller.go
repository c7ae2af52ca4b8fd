// Package restserver exposes chart computation over HTTP.
package restserver

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/Dime2015/lifekline/internal/log"
	"github.com/Dime2015/lifekline/internal/storage"
	"github.com/Dime2015/lifekline/pkg/config"
	"github.com/Dime2015/lifekline/pkg/lunisolar"
)

// Controller represents the REST server controller
type Controller struct {
	ctx           context.Context
	wg            *sync.WaitGroup
	serviceConfig config.ServiceData
	Server        http.Server
	provider      lunisolar.Provider
	storage       *storage.Manager
	logger        *zap.SugaredLogger
	handlers      *Handlers
}

// NewController creates a new REST server controller
func NewController(ctx context.Context, wg *sync.WaitGroup, cfg *config.ConfigData, provider lunisolar.Provider, store *storage.Manager, logger *zap.SugaredLogger) (*Controller, error) {
	if provider == nil {
		return nil, fmt.Errorf("no lunisolar provider configured")
	}

	ctrl := &Controller{
		ctx:           ctx,
		wg:            wg,
		serviceConfig: cfg.Service,
		provider:      provider,
		storage:       store,
		logger:        logger,
	}

	ctrl.handlers = NewHandlers(ctrl)

	router := ctrl.setupRouter()
	ctrl.Server.Addr = fmt.Sprintf("%v:%v", cfg.Service.ListenAddr, cfg.Service.HTTPPort)
	ctrl.Server.Handler = router

	return ctrl, nil
}

// StartController starts the REST server
func (c *Controller) StartController() error {
	log.Info("Starting REST server controller...")
	c.wg.Add(1)

	go func() {
		defer c.wg.Done()

		if c.serviceConfig.TLSCertPath != "" && c.serviceConfig.TLSKeyPath != "" {
			if err := c.Server.ListenAndServeTLS(c.serviceConfig.TLSCertPath, c.serviceConfig.TLSKeyPath); err != http.ErrServerClosed {
				log.Errorf("REST server error: %v", err)
			}
		} else {
			if err := c.Server.ListenAndServe(); err != http.ErrServerClosed {
				log.Errorf("REST server error: %v", err)
			}
		}
	}()

	go func() {
		<-c.ctx.Done()
		log.Info("Shutting down the REST server...")
		c.Server.Shutdown(context.Background())
	}()

	return nil
}

// setupRouter configures the HTTP router with all endpoints
func (c *Controller) setupRouter() *mux.Router {
	router := mux.NewRouter()

	router.Use(c.requestIDMiddleware)
	router.Use(c.loggingMiddleware)

	router.HandleFunc("/chart", c.handlers.GetChart).Methods(http.MethodGet)
	router.HandleFunc("/jieqi/{year:[0-9]{4}}", c.handlers.GetJieYear).Methods(http.MethodGet)
	router.HandleFunc("/health", c.handlers.GetHealth).Methods(http.MethodGet)

	return router
}
