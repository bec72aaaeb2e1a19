package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"bingwall/internal/wallpaper"

	"github.com/go-chi/chi"
	"github.com/go-faster/errors"
	rscors "github.com/rs/cors"
	"go.uber.org/zap"
)

// maxCount caps the number of wallpapers a single request may fetch; the
// archive itself serves at most 8 per page.
const maxCount = 8

// Wallpaperer fetches normalized wallpapers.
type Wallpaperer interface {
	GetWallpaper(ctx context.Context, q wallpaper.Query) ([]wallpaper.Image, error)
}

var _ Wallpaperer = (*wallpaper.Client)(nil)

func New(port string, client Wallpaperer, logger *zap.Logger) Server {
	s := Server{
		client:  client,
		logger:  logger,
		metrics: newMetrics(),
		port:    port,
	}

	cors := rscors.New(rscors.Options{
		AllowedOrigins:   []string{"*"},
		AllowCredentials: false,
		Debug:            false,
	})

	r := chi.NewRouter()
	r.Use(cors.Handler)
	r.Group(func(r chi.Router) {
		r.Use(s.instrument)
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(""))
		})
		r.Get("/wallpapers", s.ListWallpapersHandler)
	})
	r.Handle("/metrics", s.metrics.handler())
	s.Handler = r
	return s
}

type Server struct {
	http.Handler
	client  Wallpaperer
	logger  *zap.Logger
	metrics *metrics
	port    string
}

func (s *Server) ListenAndServe() error {
	return http.ListenAndServe(":"+s.port, s.Handler)
}

func (s *Server) ListWallpapersHandler(w http.ResponseWriter, r *http.Request) {
	q := wallpaper.Query{Count: 1}

	if v := r.URL.Query().Get("n"); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i > 0 && i <= maxCount {
			q.Count = i
		}
	}

	if v := r.URL.Query().Get("idx"); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i >= 0 {
			q.Index = i
		}
	}

	q.Market = r.URL.Query().Get("mkt")

	ws, hs := r.URL.Query().Get("w"), r.URL.Query().Get("h")
	if ws != "" || hs != "" {
		width, werr := strconv.Atoi(ws)
		height, herr := strconv.Atoi(hs)
		if werr != nil || herr != nil {
			http.Error(w, wallpaper.ErrInvalidResolution.Error(), http.StatusBadRequest)
			return
		}

		res, err := wallpaper.NewResolution(width, height)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		q.Resolution = &res
	}

	images, err := s.client.GetWallpaper(r.Context(), q)
	if err != nil {
		s.logger.Error("get wallpaper", zap.Error(err))
		switch {
		case errors.Is(err, wallpaper.ErrInvalidResolution), errors.Is(err, wallpaper.ErrNoMatchingResolution):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, wallpaper.ErrInvalidDate):
			http.Error(w, err.Error(), http.StatusInternalServerError)
		default:
			http.Error(w, err.Error(), http.StatusBadGateway)
		}
		return
	}

	b, _ := json.Marshal(ListResponse{Data: images})
	_, _ = w.Write(b)
}
