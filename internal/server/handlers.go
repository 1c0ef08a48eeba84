package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/DavidBetteridge/TaskVisualiser/pkg/buildinfo"
	"github.com/DavidBetteridge/TaskVisualiser/pkg/errors"
	"github.com/DavidBetteridge/TaskVisualiser/pkg/interval"
	pkgio "github.com/DavidBetteridge/TaskVisualiser/pkg/io"
	"github.com/DavidBetteridge/TaskVisualiser/pkg/pipeline"
	"github.com/DavidBetteridge/TaskVisualiser/pkg/timeline/sink"
)

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: buildinfo.Version})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	chart, err := chartParams(r.URL.Query(), s.chart)
	if err != nil {
		s.writeError(w, err)
		return
	}
	records, err := readRecords(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	l, err := s.runner.Layout(r.Context(), records, chart)
	if err != nil {
		s.writeError(w, err)
		return
	}
	data, err := sink.RenderJSON(l)
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", pipeline.ContentTypes[pipeline.FormatJSON])
	w.Write(data)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, err := renderParams(r.URL.Query(), s.chart)
	if err != nil {
		s.writeError(w, err)
		return
	}
	records, err := readRecords(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	opts.Logger = s.logger
	result, err := s.runner.ExecuteRecords(r.Context(), records, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	format := opts.Formats[0]
	cacheStatus := "miss"
	if result.CacheInfo.RenderHit() {
		cacheStatus = "hit"
	}
	w.Header().Set(HeaderRenderID, result.ID.String())
	w.Header().Set("Content-Type", pipeline.ContentTypes[format])
	w.Header().Set("X-Cache", cacheStatus)
	w.Header().Set("X-Lane-Overlaps", strconv.Itoa(result.Stats.Overlaps))
	w.Write(result.Artifacts[format])
}

func readRecords(r *http.Request) ([]interval.Record, error) {
	records, err := pkgio.ReadCSV(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return nil, errTooLarge{limit: tooLarge.Limit}
		}
		return nil, err
	}
	return records, nil
}

type errTooLarge struct{ limit int64 }

func (e errTooLarge) Error() string {
	return "request body exceeds " + strconv.FormatInt(e.limit, 10) + " bytes"
}

// statusFor maps an error code to an HTTP status. Malformed requests are
// 400, well-formed data that cannot be charted is 422.
func statusFor(err error) int {
	var tooLarge errTooLarge
	if stderrors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	switch code := errors.GetCode(err); code {
	case errors.ErrCodeInvalidCSV, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidInput:
		return http.StatusBadRequest
	default:
		if code.IsInput() {
			return http.StatusUnprocessableEntity
		}
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
		if status == http.StatusRequestEntityTooLarge {
			code = errors.ErrCodeInvalidInput
		}
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "id", w.Header().Get(HeaderRenderID), "error", err)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: errors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
