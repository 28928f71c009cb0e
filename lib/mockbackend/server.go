// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package mockbackend

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/bureau-foundation/servopanel/lib/schema"
	"github.com/bureau-foundation/servopanel/lib/servo"
)

// maxRequestBody bounds the JSON bodies the backend reads.
const maxRequestBody = 64 * 1024

// requestIDHeader is the header the panel client tags requests with.
const requestIDHeader = "X-Request-Id"

func (b *Backend) routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)

	router.Route("/api", func(r chi.Router) {
		r.Get("/events", b.handleEvents)

		r.Group(func(r chi.Router) {
			r.Use(b.record)

			r.Get("/config", b.guard(OpConfig, b.handleConfig))
			r.Get("/status", b.guard(OpStatus, b.handleStatus))
			r.Get("/scenes", b.guard(OpScenes, b.handleScenes))

			r.Post("/servo/{id}/position", b.guard(OpSetPosition, b.handleSetPosition))
			r.Post("/servo/{id}/nudge", b.guard(OpNudge, b.handleNudge))
			r.Post("/all-off", b.guard(OpAllOff, b.handleAllOff))

			r.Post("/scenes/{id}/save", b.guard(OpSaveScene, b.handleSaveScene))
			r.Post("/scenes/{id}/update", b.guard(OpUpdateScene, b.handleUpdateScene))
			r.Post("/scenes/{id}/recall", b.guard(OpRecallScene, b.handleRecallScene))
		})
	})
	return router
}

// record stores each request, body included, before it is handled.
func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
		if err != nil {
			writeFailure(w, http.StatusBadRequest, fmt.Sprintf("reading body: %v", err))
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		b.mu.Lock()
		b.requests = append(b.requests, Request{
			Method:    r.Method,
			Path:      r.URL.Path,
			RequestID: r.Header.Get(requestIDHeader),
			Body:      string(body),
		})
		b.mu.Unlock()

		b.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "request_id", r.Header.Get(requestIDHeader))
		next.ServeHTTP(w, r)
	})
}

// guard answers with the injected failure of operation, if any.
func (b *Backend) guard(operation string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if injected, ok := b.failureFor(operation); ok {
			writeFailure(w, injected.status, injected.message)
			return
		}
		handler(w, r)
	}
}

func (b *Backend) handleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, schema.ConfigResponse{
		Response: schema.Response{Success: true},
		Config:   b.config,
	})
}

func (b *Backend) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, schema.StatusResponse{
		Response:  schema.Response{Success: true},
		Positions: b.Positions(),
	})
}

func (b *Backend) handleScenes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, schema.ScenesResponse{
		Response: schema.Response{Success: true},
		Scenes:   b.Scenes(),
	})
}

// positionResponse is the answer to a move: the position the servo
// actually took.
type positionResponse struct {
	schema.Response
	Position int `json:"position"`
}

func (b *Backend) handleSetPosition(w http.ResponseWriter, r *http.Request) {
	servoID, ok := b.servoParam(w, r)
	if !ok {
		return
	}
	var request struct {
		Position *int `json:"position"`
	}
	if err := decodeBody(r, &request); err != nil || request.Position == nil {
		writeFailure(w, http.StatusBadRequest, "body must be {\"position\": <int>}")
		return
	}
	position := b.setPosition(servoID, *request.Position)
	writeJSON(w, http.StatusOK, positionResponse{Response: schema.Response{Success: true}, Position: position})
}

func (b *Backend) handleNudge(w http.ResponseWriter, r *http.Request) {
	servoID, ok := b.servoParam(w, r)
	if !ok {
		return
	}
	var request struct {
		Direction string `json:"direction"`
	}
	if err := decodeBody(r, &request); err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}
	direction, err := servo.ParseDirection(request.Direction)
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "Direction must be 'plus' or 'minus'")
		return
	}
	position := b.nudge(servoID, direction)
	writeJSON(w, http.StatusOK, positionResponse{Response: schema.Response{Success: true}, Position: position})
}

func (b *Backend) handleAllOff(w http.ResponseWriter, r *http.Request) {
	b.allOff()
	writeJSON(w, http.StatusOK, schema.Response{Success: true})
}

func (b *Backend) handleSaveScene(w http.ResponseWriter, r *http.Request) {
	slot, ok := b.slotParam(w, r)
	if !ok {
		return
	}
	var request schema.SaveSceneRequest
	if err := decodeBody(r, &request); err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}
	b.saveScene(slot, request)
	writeJSON(w, http.StatusOK, schema.Response{Success: true, Message: fmt.Sprintf("Scene %d saved", slot)})
}

func (b *Backend) handleUpdateScene(w http.ResponseWriter, r *http.Request) {
	slot, ok := b.slotParam(w, r)
	if !ok {
		return
	}
	var request schema.UpdateSceneRequest
	if err := decodeBody(r, &request); err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}
	if !b.updateScene(slot, request) {
		writeFailure(w, http.StatusNotFound, fmt.Sprintf("Scene %d not found", slot))
		return
	}
	writeJSON(w, http.StatusOK, schema.Response{Success: true, Message: fmt.Sprintf("Scene %d updated", slot)})
}

// recallResponse carries the positions after a recall.
type recallResponse struct {
	schema.Response
	Positions schema.Positions `json:"positions"`
}

func (b *Backend) handleRecallScene(w http.ResponseWriter, r *http.Request) {
	slot, ok := b.slotParam(w, r)
	if !ok {
		return
	}
	positions, found := b.recallScene(slot)
	if !found {
		writeFailure(w, http.StatusNotFound, fmt.Sprintf("Scene %d not found", slot))
		return
	}
	writeJSON(w, http.StatusOK, recallResponse{Response: schema.Response{Success: true}, Positions: positions})
}

func (b *Backend) servoParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	servoID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, http.StatusNotFound, fmt.Sprintf("invalid servo id %q", chi.URLParam(r, "id")))
		return 0, false
	}
	if problem := b.servoProblem(servoID); problem != "" {
		writeFailure(w, http.StatusBadRequest, problem)
		return 0, false
	}
	return servoID, true
}

func (b *Backend) slotParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	slot, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, http.StatusNotFound, fmt.Sprintf("invalid scene id %q", chi.URLParam(r, "id")))
		return 0, false
	}
	if problem := b.slotProblem(slot); problem != "" {
		writeFailure(w, http.StatusBadRequest, problem)
		return 0, false
	}
	return slot, true
}

// decodeBody decodes a JSON body into v. An empty body leaves v
// unchanged.
func decodeBody(r *http.Request, v any) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody)).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, schema.Response{Success: false, Error: message})
}
