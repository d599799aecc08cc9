// backend/cmd/storefront/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"boutique/internal/adapters/in/http/middleware"
	"boutique/internal/infra/config"
	"boutique/internal/platform/di"
)

// atomicHandler allows swapping the underlying handler at runtime safely.
type atomicHandler struct {
	v atomic.Value // stores http.Handler
}

func newAtomicHandler(initial http.Handler) *atomicHandler {
	ah := &atomicHandler{}
	if initial == nil {
		initial = http.NotFoundHandler()
	}
	ah.v.Store(initial)
	return ah
}

func (h *atomicHandler) Store(next http.Handler) {
	if next == nil {
		return
	}
	h.v.Store(next)
}

func (h *atomicHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cur := h.v.Load()
	if cur == nil {
		http.NotFound(w, r)
		return
	}
	cur.(http.Handler).ServeHTTP(w, r)
}

func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func main() {
	ctx := context.Background()
	cfg := config.Load()

	cors := middleware.CORS(cfg.AllowedOrigin)

	// ─────────────────────────────────────────────────────────────
	// Start listening ASAP with lightweight mux (healthz only)
	// ─────────────────────────────────────────────────────────────
	healthMux := http.NewServeMux()
	healthMux.HandleFunc("/healthz", healthz)

	switcher := newAtomicHandler(cors(healthMux))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      switcher,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var contHolder atomic.Value // stores *di.Container (or nil)
	contHolder.Store((*di.Container)(nil))

	shuttingDown := make(chan struct{})

	// ─────────────────────────────────────────────────────────────
	// Graceful shutdown
	// ─────────────────────────────────────────────────────────────
	idleConnsClosed := make(chan struct{})
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		sig := <-c

		close(shuttingDown)
		log.Printf("[boot] received signal: %v; shutting down...", sig)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[boot] server shutdown error: %v", err)
		}

		if v := contHolder.Load(); v != nil {
			if cont, ok := v.(*di.Container); ok && cont != nil {
				log.Printf("[boot] closing container resources...")
				if err := cont.Close(); err != nil {
					log.Printf("[boot] container close error: %v", err)
				}
				contHolder.Store((*di.Container)(nil))
			}
		}

		close(idleConnsClosed)
	}()

	// Start server NOW (Cloud Run startup requirement)
	go func() {
		log.Printf("[boot] listening on :%s (storefront)", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[boot] server error: %v", err)
		}
	}()

	// ─────────────────────────────────────────────────────────────
	// Heavy DI init in background; then swap handler to full app mux
	// ─────────────────────────────────────────────────────────────
	go func() {
		initCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
		defer cancel()

		cont, _, err := di.Build(initCtx, cfg)
		if err != nil {
			log.Printf("[boot] WARN: di init failed: %v (serving /healthz only)", err)
			return
		}
		contHolder.Store(cont)

		select {
		case <-shuttingDown:
			_ = cont.Close()
			return
		default:
		}

		fullMux := http.NewServeMux()
		fullMux.HandleFunc("/healthz", healthz)
		di.Register(fullMux, cont)
		log.Printf("[boot] storefront routes registered")

		// chain: recover (innermost response guard) → session → optional
		// auth → routes; CORS wraps the whole thing
		var h http.Handler = fullMux
		if cont.Auth != nil {
			h = cont.Auth.Handler(h)
		}
		h = middleware.Session(h)
		h = middleware.Recover(h)
		h = cors(h)

		switcher.Store(h)
		log.Printf("[boot] handler switched to storefront router")
	}()

	<-idleConnsClosed
	log.Printf("[boot] server stopped")
}
