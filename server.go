package egret

import (
	"net/http"

	"github.com/avocet-dev/egret/config"
)

// WithServerConfig applies a config.Server's Scheme to the Engine, the one
// setting among the server's typed config that the Engine itself needs
// (for absolute URL reconstruction). The timeouts and address belong to
// the *http.Server that hosts the Engine — see ListenAndServe.
// TrustedProxies is read by neither.
func WithServerConfig(cfg config.Server) Option {
	return func(e *Engine) {
		if cfg.Scheme != "" {
			e.scheme = cfg.Scheme
		}
	}
}

// ListenAndServe starts a *http.Server for e using the timeouts and address
// in cfg, the ambient "server runtime" concern spec.md §1 deliberately
// leaves to "a generic HTTP server runtime" rather than modeling itself.
func ListenAndServe(cfg config.Server, e *Engine) error {
	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      e,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return srv.ListenAndServe()
}
