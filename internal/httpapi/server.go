package httpapi

import (
	"context"
	"encoding/json"
	"image"
	"image/png"
	"net/http"
	"strings"
	"time"

	_ "image/jpeg" // register the jpeg decoder for image.Decode

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"stylizerd/internal/engine"
	"stylizerd/internal/imgutil"
	"stylizerd/internal/manager"
	"stylizerd/pkg/stylizer"
	"stylizerd/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	ListModels() []types.Model
	Status() types.StatusResponse
	StylizeImage(ctx context.Context, modelID string, img *stylizer.Image) (*stylizer.Result, error)
	Ready() bool
}

// NewMux builds the chi router serving the stylizer API.
func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(MetricsMiddleware)
	r.Use(requestLogger)
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
		}))
	}
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	r.Get("/models", handleModels(svc))
	r.Get("/status", handleStatus(svc))
	r.Post("/stylize", handleStylize(svc))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("loading"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	return r
}

// handleModels godoc
// @Summary List model bundles
// @Produce json
// @Success 200 {object} types.ModelsResponse
// @Router /models [get]
func handleModels(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(types.ModelsResponse{Models: svc.ListModels()}); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
		}
	}
}

// handleStatus godoc
// @Summary Manager status
// @Produce json
// @Success 200 {object} types.StatusResponse
// @Router /status [get]
func handleStatus(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(svc.Status()); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
		}
	}
}

// handleStylize godoc
// @Summary Stylize the most prominent face in an image
// @Accept png
// @Accept jpeg
// @Produce png
// @Param model query string false "Model bundle id (default model when omitted)"
// @Param orientation query string false "Image orientation: up|down|left|right|upMirrored|downMirrored|leftMirrored|rightMirrored"
// @Success 200 {file} binary "Stylized face as PNG"
// @Success 204 "No face detected"
// @Failure 400 {object} types.ErrorResponse
// @Failure 404 {object} types.ErrorResponse
// @Failure 415 {object} types.ErrorResponse
// @Failure 503 {object} types.ErrorResponse
// @Router /stylize [post]
func handleStylize(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ct := strings.ToLower(r.Header.Get("Content-Type"))
		if !strings.HasPrefix(ct, "image/png") && !strings.HasPrefix(ct, "image/jpeg") {
			writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be image/png or image/jpeg")
			return
		}
		orientation, err := stylizer.ParseOrientation(r.URL.Query().Get("orientation"))
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		decoded, _, err := image.Decode(r.Body)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid image body")
			return
		}

		img := stylizer.NewBitmapImage(imgutil.ToRGBA(decoded), orientation)

		// Join server base context with request context so shutdown cancels
		// in-flight work too.
		ctx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		start := time.Now()
		res, err := svc.StylizeImage(ctx, r.URL.Query().Get("model"), img)
		if err != nil {
			if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
				return
			}
			writeJSONError(w, statusForError(err), err.Error())
			return
		}
		if res.StylizedImage == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("X-Stylize-Duration", time.Since(start).String())
		if err := png.Encode(w, res.StylizedImage.Image()); err != nil && zlog != nil {
			zlog.Error().Err(err).Msg("encode stylized frame")
		}
	}
}

// statusForError maps well-known service errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case manager.IsModelNotFound(err):
		return http.StatusNotFound
	case manager.IsManagerClosed(err), engine.IsRuntimeUnavailable(err):
		return http.StatusServiceUnavailable
	case stylizer.IsUnsupportedFormat(err):
		return http.StatusUnsupportedMediaType
	case stylizer.IsConfigError(err):
		// Lazy instance load hit a broken bundle.
		return http.StatusInternalServerError
	}
	if he, ok := err.(HTTPError); ok {
		return he.StatusCode()
	}
	return http.StatusInternalServerError
}
