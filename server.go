// MIT License
//
// Copyright (c) 2023 Lack
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package bpmnkit serves the diagram translator over HTTP.
package bpmnkit

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	json "github.com/json-iterator/go"
	log "github.com/vine-io/vine/lib/logger"

	"github.com/vine-io/bpmnkit/api"
	"github.com/vine-io/bpmnkit/bpmn"
	"github.com/vine-io/bpmnkit/graph"
)

// RequestIDHeader carries the id of every request and response.
const RequestIDHeader = "X-Request-Id"

type Server struct {
	opts    *Options
	metrics *Metrics
	router  chi.Router
	// counter follows the last imported diagram.
	counter *graph.SharedCounter
}

func NewServer(opts ...Option) *Server {
	options := NewOptions(opts...)
	s := &Server{
		opts:    options,
		metrics: NewMetrics(options.Registry),
		counter: graph.NewSharedCounter(graph.NewCounter()),
	}

	r := chi.NewRouter()
	r.Use(requestID, s.logRequest, middleware.Recoverer)
	r.Get("/healthz", s.healthz)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/export", s.export)
		r.Post("/import", s.importXML)
		r.Post("/validate", s.validate)
		r.Post("/ids", s.mint)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, api.NotFound("no route for %s", r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, api.MethodNotAllowed("%s not allowed on %s", r.Method, r.URL.Path))
	})
	s.router = r

	return s
}

func (s *Server) Options() *Options {
	return s.opts
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	hs := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ech := make(chan error, 1)
	go func() {
		log.Infof("%s listening on %s", s.opts.Name, addr)
		ech <- hs.ListenAndServe()
	}()

	select {
	case err := <-ech:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Infof("%s shutting down", s.opts.Name)
	sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return hs.Shutdown(sctx)
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "name": s.opts.Name})
}

func (s *Server) export(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	req := &api.ExportRequest{}
	if err := s.decode(w, r, req); err != nil {
		s.fail(w, api.Operation_OP_EXPORT, start, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.fail(w, api.Operation_OP_EXPORT, start, api.BadRequest("%v", err))
		return
	}
	if err := req.ValidateGraph(); err != nil {
		s.fail(w, api.Operation_OP_EXPORT, start, api.UnprocessableEntity("%v", err))
		return
	}

	warnings := make([]bpmn.Warning, 0)
	opts := []bpmn.Option{
		bpmn.WithIndent(s.opts.Indent),
		bpmn.WithLabelHeuristics(s.opts.Heuristics),
		bpmn.WithReporter(bpmn.ReporterFunc(func(w bpmn.Warning) {
			warnings = append(warnings, w)
		})),
	}
	out, err := bpmn.Export(req.Graph(), append(opts, req.Options()...)...)
	if err != nil {
		s.fail(w, api.Operation_OP_EXPORT, start, api.InternalServerError("%v", err))
		return
	}

	s.metrics.Observe(api.Operation_OP_EXPORT, start, nil)
	s.metrics.Warnings(warnings)
	writeJSON(w, http.StatusOK, &api.ExportResponse{XML: out, Warnings: warnings})
}

func (s *Server) importXML(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	req := &api.ImportRequest{}
	if err := s.decode(w, r, req); err != nil {
		s.fail(w, api.Operation_OP_IMPORT, start, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.fail(w, api.Operation_OP_IMPORT, start, api.BadRequest("%v", err))
		return
	}

	result, err := bpmn.Import(req.XML, req.Options()...)
	if err != nil {
		if errors.Is(err, bpmn.ErrMalformedInput) {
			s.fail(w, api.Operation_OP_IMPORT, start, api.BadRequest("%v", err))
		} else {
			s.fail(w, api.Operation_OP_IMPORT, start, api.InternalServerError("%v", err))
		}
		return
	}

	s.counter.Reset(result.Counter)
	s.metrics.Observe(api.Operation_OP_IMPORT, start, nil)
	s.metrics.Warnings(result.Warnings)
	writeJSON(w, http.StatusOK, api.NewImportResponse(result))
}

// mint hands out the next id of the last imported diagram.
func (s *Server) mint(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, &api.MintResponse{ID: s.counter.Mint()})
}

func (s *Server) validate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	req := &api.ValidateRequest{}
	if err := s.decode(w, r, req); err != nil {
		s.fail(w, api.Operation_OP_VALIDATE, start, err)
		return
	}

	rsp := api.NewValidateResponse(req.Graph().Validate())
	s.metrics.Observe(api.Operation_OP_VALIDATE, start, nil)
	writeJSON(w, http.StatusOK, rsp)
}

// decode reads a JSON body of at most MaxBodyBytes into v.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) *api.Error {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil || mt != "application/json" {
			return api.UnsupportedMediaType("content type %q is not supported", ct)
		}
	}
	body := http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)
	data, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return api.RequestEntityTooLarge("body exceeds %d bytes", s.opts.MaxBodyBytes)
		}
		return api.BadRequest("read body: %v", err)
	}
	if err = json.Unmarshal(data, v); err != nil {
		return api.BadRequest("decode body: %v", err)
	}
	return nil
}

func (s *Server) fail(w http.ResponseWriter, op api.Operation, start time.Time, e *api.Error) {
	s.metrics.Observe(op, start, e)
	log.Warnf("%s %s: %s", s.opts.Name, op.Readably(), e.Detail)
	writeError(w, e)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Errorf("encode response: %v", err)
		status = http.StatusInternalServerError
		data, _ = json.Marshal(api.InternalServerError("%v", err))
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, e *api.Error) {
	writeJSON(w, e.HTTPStatus(), e)
}

// requestID keeps the id sent by the caller or assigns a new one.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
			r.Header.Set(RequestIDHeader, id)
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Debugf("%s %s %d %s [%s]", r.Method, r.URL.Path, ww.Status(), time.Since(start), r.Header.Get(RequestIDHeader))
	})
}
