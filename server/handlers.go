package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/alabanza/alabanza/algorithms/tonal"
	"github.com/alabanza/alabanza/live"
	"github.com/alabanza/alabanza/logging"
	"github.com/alabanza/alabanza/repertoire"
	"github.com/alabanza/alabanza/transpose"
	"github.com/alabanza/alabanza/transpose/config"
)

const maxBodyBytes = 1 << 20

var errNoRepertoire = errors.New("repertoire store is not configured")

type errorResponse struct {
	Error string `json:"error"`
}

// TransposeRequest is the body of POST /api/transpose. When To is set the
// shift is derived from Key and To and Semitones is ignored.
type TransposeRequest struct {
	Content   string `json:"content"`
	Semitones int    `json:"semitones"`
	Key       string `json:"key"`
	To        string `json:"to,omitempty"`
	Mode      string `json:"mode,omitempty"`
}

// KeysResponse lists the keys offered to users
type KeysResponse struct {
	Major []string `json:"major"`
	Minor []string `json:"minor"`
}

// DistanceResponse reports the raw and shortest shift between two keys
type DistanceResponse struct {
	From       string `json:"from"`
	To         string `json:"to"`
	Semitones  int    `json:"semitones"`
	Normalized int    `json:"normalized"`
	Fifths     int    `json:"fifths"`
}

// MixTransposition is the body of GET /api/mixes/{id}/transpose
type MixTransposition struct {
	Mix   repertoire.Mix             `json:"mix"`
	Songs []repertoire.Transposition `json:"songs"`
}

func (a *API) handleTranspose(w http.ResponseWriter, r *http.Request) {
	var req TransposeRequest
	if !a.decode(w, r, &req) {
		return
	}

	engine, err := a.engineFor(req.Mode)
	if err != nil {
		a.writeError(w, err)
		return
	}

	var result transpose.Result
	if strings.TrimSpace(req.To) != "" {
		if _, err := tonal.ParseKeyStrict(req.To); err != nil {
			a.writeError(w, err)
			return
		}
		result = engine.TransposeTo(req.Content, req.Key, req.To)
	} else {
		result = engine.Transpose(req.Content, req.Semitones, req.Key)
	}
	writeJSON(w, http.StatusOK, result)
}

// engineFor returns the shared engine, or a one-off engine when the request
// overrides the scanning mode
func (a *API) engineFor(mode string) (transpose.Transposer, error) {
	if strings.TrimSpace(mode) == "" {
		return a.engine, nil
	}
	m, err := config.ParseMode(mode)
	if err != nil {
		return nil, err
	}
	if m == a.engineConfig.Mode {
		return a.engine, nil
	}
	cfg := a.engineConfig
	cfg.Mode = m
	return transpose.NewEngine(&cfg), nil
}

func (a *API) handleKeys(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, KeysResponse{Major: tonal.MajorKeys, Minor: tonal.MinorKeys})
}

func (a *API) handleKeyDistance(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	fromKey, err := tonal.ParseKeyStrict(from)
	if err != nil {
		a.writeError(w, err)
		return
	}
	toKey, err := tonal.ParseKeyStrict(to)
	if err != nil {
		a.writeError(w, err)
		return
	}

	d := tonal.Distance(from, to)
	writeJSON(w, http.StatusOK, DistanceResponse{
		From:       fromKey.Name(),
		To:         toKey.Name(),
		Semitones:  d,
		Normalized: tonal.NormalizeDistance(d),
		Fifths:     tonal.FifthsDistance(fromKey, toKey),
	})
}

func (a *API) handleListSongs(w http.ResponseWriter, r *http.Request) {
	if !a.requireService(w) {
		return
	}
	songs, err := a.service.Store().ListSongs(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, songs)
}

func (a *API) handleCreateSong(w http.ResponseWriter, r *http.Request) {
	if !a.requireService(w) {
		return
	}
	var song repertoire.Song
	if !a.decode(w, r, &song) {
		return
	}
	created, err := a.service.CreateSong(r.Context(), song)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (a *API) handleGetSong(w http.ResponseWriter, r *http.Request) {
	if !a.requireService(w) {
		return
	}
	song, err := a.service.Store().GetSong(r.Context(), r.PathValue("id"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, song)
}

func (a *API) handleUpdateSong(w http.ResponseWriter, r *http.Request) {
	if !a.requireService(w) {
		return
	}
	var song repertoire.Song
	if !a.decode(w, r, &song) {
		return
	}
	song.ID = r.PathValue("id")
	updated, err := a.service.UpdateSong(r.Context(), song)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (a *API) handleDeleteSong(w http.ResponseWriter, r *http.Request) {
	if !a.requireService(w) {
		return
	}
	if err := a.service.Store().DeleteSong(r.Context(), r.PathValue("id")); err != nil {
		a.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleTransposeSong(w http.ResponseWriter, r *http.Request) {
	if !a.requireService(w) {
		return
	}
	id := r.PathValue("id")
	query := r.URL.Query()

	if to := strings.TrimSpace(query.Get("to")); to != "" {
		t, err := a.service.TransposeSongToKey(r.Context(), id, to)
		if err != nil {
			a.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, t)
		return
	}

	semitones := 0
	if raw := query.Get("semitones"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			a.writeError(w, fmt.Errorf("%w: semitones must be an integer", repertoire.ErrInvalid))
			return
		}
		semitones = n
	}
	t, err := a.service.TransposeSong(r.Context(), id, semitones)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (a *API) handleListMixes(w http.ResponseWriter, r *http.Request) {
	if !a.requireService(w) {
		return
	}
	mixes, err := a.service.Store().ListMixes(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mixes)
}

func (a *API) handleCreateMix(w http.ResponseWriter, r *http.Request) {
	if !a.requireService(w) {
		return
	}
	var mix repertoire.Mix
	if !a.decode(w, r, &mix) {
		return
	}
	created, err := a.service.Store().CreateMix(r.Context(), mix)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (a *API) handleGetMix(w http.ResponseWriter, r *http.Request) {
	if !a.requireService(w) {
		return
	}
	mix, err := a.service.Store().GetMix(r.Context(), r.PathValue("id"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mix)
}

func (a *API) handleUpdateMix(w http.ResponseWriter, r *http.Request) {
	if !a.requireService(w) {
		return
	}
	var mix repertoire.Mix
	if !a.decode(w, r, &mix) {
		return
	}
	mix.ID = r.PathValue("id")
	updated, err := a.service.Store().UpdateMix(r.Context(), mix)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (a *API) handleDeleteMix(w http.ResponseWriter, r *http.Request) {
	if !a.requireService(w) {
		return
	}
	if err := a.service.Store().DeleteMix(r.Context(), r.PathValue("id")); err != nil {
		a.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleTransposeMix accepts repeated shift=<songID>:<semitones> parameters
func (a *API) handleTransposeMix(w http.ResponseWriter, r *http.Request) {
	if !a.requireService(w) {
		return
	}
	shifts, err := parseShifts(r.URL.Query()["shift"])
	if err != nil {
		a.writeError(w, err)
		return
	}
	mix, songs, err := a.service.TransposeMix(r.Context(), r.PathValue("id"), shifts)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MixTransposition{Mix: mix, Songs: songs})
}

func parseShifts(values []string) (map[string]int, error) {
	shifts := make(map[string]int, len(values))
	for _, v := range values {
		id, raw, ok := strings.Cut(v, ":")
		if !ok || strings.TrimSpace(id) == "" {
			return nil, fmt.Errorf("%w: shift %q must be <song id>:<semitones>", repertoire.ErrInvalid, v)
		}
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: shift %q must be <song id>:<semitones>", repertoire.ErrInvalid, v)
		}
		shifts[strings.TrimSpace(id)] = n
	}
	return shifts, nil
}

func (a *API) handleLiveState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, a.hub.Current())
}

func (a *API) handleLiveCommand(w http.ResponseWriter, r *http.Request) {
	var cmd live.Inbound
	if !a.decode(w, r, &cmd) {
		return
	}
	st, err := a.hub.Apply(cmd)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (a *API) handleLiveSignals(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, live.Signals)
}

func (a *API) requireService(w http.ResponseWriter) bool {
	if a.service == nil {
		a.writeError(w, errNoRepertoire)
		return false
	}
	return true
}

func (a *API) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return false
	}
	return true
}

func (a *API) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		a.logger.Error(err, "Request failed", logging.Fields{"status": status})
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, repertoire.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, repertoire.ErrInvalid),
		errors.Is(err, tonal.ErrUnknownKey),
		errors.Is(err, config.ErrInvalidMode),
		errors.Is(err, live.ErrEmptySignal),
		errors.Is(err, live.ErrUnknownCommand):
		return http.StatusBadRequest
	case errors.Is(err, errNoRepertoire):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
