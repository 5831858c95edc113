package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/matzehuels/poimap/pkg/errors"
	"github.com/matzehuels/poimap/pkg/overlay"
	"github.com/matzehuels/poimap/pkg/poi"
	"github.com/matzehuels/poimap/pkg/render/sink"
	"github.com/matzehuels/poimap/pkg/source"
)

// Kind is the JSON form of one dispatch table row.
type Kind struct {
	Code        string   `json:"code"`
	Layout      string   `json:"layout"`
	Anchored    bool     `json:"anchored"`
	Doggo       bool     `json:"doggo"`
	Labels      []string `json:"labels"`
	Description string   `json:"description"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code      errors.Code `json:"code"`
	Message   string      `json:"message"`
	Fields    []string    `json:"fields,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleKinds(w http.ResponseWriter, r *http.Request) {
	variants := overlay.Variants()
	kinds := make([]Kind, len(variants))
	for i, v := range variants {
		kinds[i] = Kind{
			Code:        string(v.Kind),
			Layout:      string(v.Layout),
			Anchored:    v.Anchored,
			Doggo:       v.Doggo,
			Labels:      v.Labels(),
			Description: v.Description,
		}
	}
	writeJSON(w, http.StatusOK, kinds)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = sink.FormatPNG
	}
	if err := sink.ValidateFormats([]string{format}); err != nil {
		s.writeError(w, r, err)
		return
	}

	pois, err := source.Decode(http.MaxBytesReader(w, r.Body, MaxBodyBytes), source.FormatJSON)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}
	if pois == nil {
		pois = []poi.POI{}
	}

	opts := s.base
	opts.POIs = pois
	opts.Formats = []string{format}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	cacheState := "miss"
	if result.CacheInfo.RenderHit {
		cacheState = "hit"
	}
	w.Header().Set("Content-Type", sink.ContentType(format))
	w.Header().Set("X-Cache", cacheState)
	w.Header().Set("X-POI-Count", strconv.Itoa(result.Stats.POICount))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Artifacts[format]); err != nil {
		s.logger.Debug("write response", "request_id", RequestID(r.Context()), "err", err)
	}
}

// statusFor maps an error code to an HTTP status.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidPOI, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidConfig, errors.ErrCodeUnknownKind:
		return http.StatusBadRequest
	case errors.ErrCodeIconNotFound:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := statusFor(code)
	id := RequestID(r.Context())

	resp := ErrorResponse{Code: code, Message: errors.UserMessage(err), RequestID: id}
	for _, f := range errors.Fields(err) {
		resp.Fields = append(resp.Fields, f.String())
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("render failed", "request_id", id, "err", err)
		resp.Message = "internal error"
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
