package assets

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/kelseyhightower/envconfig"

	"hexcarta/internal/logx"
)

// ServerConfig configures the asset dev server from the environment.
type ServerConfig struct {
	Port     int    `envconfig:"PORT" default:"8423"`
	Dir      string `envconfig:"DIR" default:"assets"`
	MaxBytes int64  `envconfig:"MAX_BYTES" default:"10485760"`
}

// LoadServerConfig reads HEXCARTA_* environment variables.
func LoadServerConfig() (ServerConfig, error) {
	var cfg ServerConfig
	if err := envconfig.Process("HEXCARTA", &cfg); err != nil {
		return ServerConfig{}, err
	}
	return cfg, nil
}

// UploadResponse is returned from the upload endpoint. Ref is the value a
// map document stores for backgrounds and stickers.
type UploadResponse struct {
	Ref    string `json:"ref"`
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Name   string `json:"name"`
}

// Server accepts image uploads and serves them back by ref.
type Server struct {
	cfg ServerConfig
	log logx.Logger
}

// NewServer builds the server and ensures the asset directory exists.
func NewServer(cfg ServerConfig, log logx.Logger) (*Server, error) {
	if log == nil {
		log = logx.Nop()
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create asset dir %s: %w", cfg.Dir, err)
	}
	return &Server{cfg: cfg, log: log}, nil
}

// Router returns the HTTP routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")
	r.HandleFunc("/assets/upload", s.upload).Methods("POST")
	r.PathPrefix("/assets/").Handler(s.serveFiles()).Methods("GET")
	return r
}

// upload handles a multipart form with a "file" field holding a PNG or
// JPEG. Everything is re-encoded to PNG under a fresh ref, so stored
// assets are immutable and uniformly decodable.
func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxBytes); err != nil {
		http.Error(w, "file too large", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		http.Error(w, "invalid image: "+err.Error(), http.StatusBadRequest)
		return
	}
	if format != "png" && format != "jpeg" {
		http.Error(w, "only PNG and JPEG images are supported", http.StatusBadRequest)
		return
	}

	ref := uuid.NewString() + ".png"
	path := filepath.Join(s.cfg.Dir, ref)
	out, err := os.Create(path)
	if err != nil {
		s.log.Errorf("create asset file: %v", err)
		http.Error(w, "failed to save file", http.StatusInternalServerError)
		return
	}
	defer out.Close()

	if err := png.Encode(out, img); err != nil {
		s.log.Errorf("encode png: %v", err)
		os.Remove(path)
		http.Error(w, "failed to encode image", http.StatusInternalServerError)
		return
	}

	bounds := img.Bounds()
	resp := UploadResponse{
		Ref:    ref,
		URL:    "/assets/" + ref,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Name:   header.Filename,
	}
	s.log.Infof("asset uploaded: %s (%dx%d) from %q", ref, resp.Width, resp.Height, header.Filename)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// serveFiles serves stored assets. Refs are unique, so responses are
// cacheable forever.
func (s *Server) serveFiles() http.Handler {
	fs := http.FileServer(http.Dir(s.cfg.Dir))
	return http.StripPrefix("/assets/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		fs.ServeHTTP(w, r)
	}))
}

// Serve runs the HTTP server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.log.Infof("asset server listening on %s, dir=%s", srv.Addr, s.cfg.Dir)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
