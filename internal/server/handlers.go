package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"time"

	"trmnl/internal/carousel"
	"trmnl/internal/logging"
)

const maxLogBody = 64 << 10

type setupResponse struct {
	Status     int    `json:"status"`
	APIKey     string `json:"api_key"`
	FriendlyID string `json:"friendly_id"`
	ImageURL   string `json:"image_url"`
	Filename   string `json:"filename"`
}

type displayResponse struct {
	Status         int     `json:"status"`
	ImageURL       string  `json:"image_url"`
	Filename       string  `json:"filename"`
	UpdateFirmware bool    `json:"update_firmware"`
	FirmwareURL    *string `json:"firmware_url"`
	RefreshRate    int     `json:"refresh_rate"`
	ResetFirmware  bool    `json:"reset_firmware"`
}

// StatusResponse is the operator-facing summary served at /api/status.
type StatusResponse struct {
	Running       bool   `json:"running"`
	Engine        string `json:"engine,omitempty"`
	CurrentImage  string `json:"current_image,omitempty"`
	CurrentURL    string `json:"current_url,omitempty"`
	RefreshRate   int    `json:"refresh_rate"`
	StartedAt     string `json:"started_at"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

func (s *Server) handleSetup(w http.ResponseWriter, r *http.Request) {
	logger := s.log(r.Context())
	logger.Info("device setup request")

	resp := setupResponse{
		Status:     http.StatusOK,
		APIKey:     setupAPIKey,
		FriendlyID: setupFriendlyID,
		ImageURL:   s.baseURL(r) + "/api/image/" + setupFilename + ".bmp",
		Filename:   setupFilename,
	}
	if current, err := s.slot.Current(r.Context()); err == nil {
		resp.ImageURL = current.URL(s.baseURL(r))
		resp.Filename = current.Name
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDisplay(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := s.log(ctx)
	logger.Info("device display request", logging.Bool("access_token_present", r.Header.Get("Access-Token") != ""))

	image, err := s.slot.Advance(ctx)
	if err != nil {
		logging.WarnWithContext(logger, "advance failed; serving current image", "carousel_advance",
			logging.Error(err),
			logging.String(logging.FieldImpact, "display keeps the previous image"),
		)
		image, err = s.slot.Current(ctx)
		if err != nil {
			logging.ErrorWithContext(logger, "no image available for display", "carousel_empty",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check the content engine configuration and logs"),
			)
			s.writeError(w, http.StatusServiceUnavailable, "no image available")
			return
		}
	}

	logger.Info("display image selected", logging.String(logging.FieldImage, image.Name))
	s.writeJSON(w, http.StatusOK, displayResponse{
		Status:      0,
		ImageURL:    image.URL(s.baseURL(r)),
		Filename:    image.Name,
		RefreshRate: s.opts.RefreshInterval,
	})
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := s.log(ctx)
	requested := r.PathValue("filename")

	current, err := s.slot.Current(ctx)
	if err != nil {
		if errors.Is(err, carousel.ErrNoActiveImage) {
			s.writeError(w, http.StatusNotFound, "no active image")
			return
		}
		logger.Error("read current image failed", logging.Error(err))
		s.writeError(w, http.StatusInternalServerError, "carousel unavailable")
		return
	}
	if requested != current.Filename() {
		logger.Warn("requested image is not current",
			logging.String("requested", requested),
			logging.String(logging.FieldImage, current.Filename()),
		)
		s.writeError(w, http.StatusNotFound, "image not found")
		return
	}

	file, err := os.Open(current.Path)
	if err != nil {
		// Replaced by a concurrent advance between Current and Open.
		s.writeError(w, http.StatusNotFound, "image not found")
		return
	}
	defer file.Close()
	info, err := file.Stat()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "stat image")
		return
	}

	logger.Info("serving image", logging.String(logging.FieldImage, current.Name), logging.Int64("bytes", info.Size()))
	w.Header().Set("Content-Type", "image/bmp")
	http.ServeContent(w, r, current.Filename(), info.ModTime(), file)
}

func (s *Server) handleLog(w http.ResponseWriter, r *http.Request) {
	logger := s.log(r.Context())
	body, err := io.ReadAll(io.LimitReader(r.Body, maxLogBody))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "read body")
		return
	}
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		logger.Warn("device log is not JSON", logging.String("body", string(body)))
		s.writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	logger.Info("device log", logging.Any("payload", payload))
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	resp := StatusResponse{
		Running:       true,
		Engine:        s.opts.Engine,
		RefreshRate:   s.opts.RefreshInterval,
		StartedAt:     s.started.UTC().Format(time.RFC3339),
		UptimeSeconds: int64(now.Sub(s.started) / time.Second),
	}
	if current, err := s.slot.Current(r.Context()); err == nil {
		resp.CurrentImage = current.Filename()
		resp.CurrentURL = current.URL(s.baseURL(r))
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCatchAll(w http.ResponseWriter, r *http.Request) {
	s.log(r.Context()).Info("unhandled request",
		logging.String("method", r.Method),
		logging.String("path", r.URL.Path),
	)
	s.writeJSON(w, http.StatusNotFound, map[string]string{"caught": r.URL.Path})
}
