package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/foodgram/foodgram-server/internal/api"
	"github.com/foodgram/foodgram-server/internal/config"
	"github.com/foodgram/foodgram-server/internal/logger"
	"github.com/foodgram/foodgram-server/internal/media/images"
	"github.com/foodgram/foodgram-server/internal/service"
)

// Version is reported in the OpenAPI document. Overridden at build time.
var Version = "dev"

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
	handler *api.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := h.Server.Shutdown(ctx)
	h.handler.Close()
	return err
}

// ProvideMetrics provides the Prometheus metrics registry.
func ProvideMetrics(i do.Injector) (*api.Metrics, error) {
	return api.NewMetrics(), nil
}

// ProvideHTTPServer provides the HTTP server and starts listening.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	media := do.MustInvoke[*images.Manager](i)
	metrics := do.MustInvoke[*api.Metrics](i)
	log := do.MustInvoke[*logger.Logger](i)

	services := &api.Services{
		Auth:         do.MustInvoke[*service.AuthService](i),
		User:         do.MustInvoke[*service.UserService](i),
		Tag:          do.MustInvoke[*service.TagService](i),
		Ingredient:   do.MustInvoke[*service.IngredientService](i),
		Recipe:       do.MustInvoke[*service.RecipeService](i),
		Membership:   do.MustInvoke[*service.MembershipService](i),
		ShoppingList: do.MustInvoke[*service.ShoppingListService](i),
		ShortLink:    do.MustInvoke[*service.ShortLinkService](i),
		Search:       do.MustInvoke[*service.SearchService](i),
	}

	opts := api.Options{
		PublicURL:      cfg.Server.PublicURL,
		CORSOrigins:    cfg.Server.CORSOrigins,
		LoginRateLimit: cfg.Auth.LoginRateLimit,
		LoginBurst:     cfg.Auth.LoginBurst,
		Version:        Version,
	}
	if cfg.Media.Backend != config.MediaBackendS3 {
		opts.MediaRoot = cfg.MediaPath()
	}

	handler := api.NewServer(storeHandle.Store, services, media, metrics, opts, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("http server starting", "addr", srv.Addr, "public_url", cfg.Server.PublicURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv, handler: handler}, nil
}
