package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/deepnoodle-ai/sbm"
	"github.com/deepnoodle-ai/sbm/dis"
	"github.com/deepnoodle-ai/sbm/errz"
	"github.com/deepnoodle-ai/sbm/vm"
)

// RunRequest is the body of POST /v1/run and POST /v1/dis.
type RunRequest struct {
	Source   string `json:"source"`
	Filename string `json:"filename,omitempty"`
	// MaxSteps lowers the server's step limit for this run. It cannot raise
	// it.
	MaxSteps int `json:"max_steps,omitempty"`
}

// RunResponse carries the final machine state, an error, or both when a run
// fails part way.
type RunResponse struct {
	State *vm.State `json:"state,omitempty"`
	Error *Error    `json:"error,omitempty"`
}

// DisResponse is the body returned by POST /v1/dis.
type DisResponse struct {
	Instructions []dis.Instruction `json:"instructions,omitempty"`
	Error        *Error            `json:"error,omitempty"`
}

// Error describes a failed request.
type Error struct {
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
	PC      int    `json:"pc,omitempty"`
	Label   string `json:"label,omitempty"`
	Hint    string `json:"hint,omitempty"`
}

// Error kinds that are not errz kinds.
const (
	KindRequest = "bad request"
	KindHalted  = "halted"
	KindTimeout = "timeout"
	KindEncode  = "encoding"
)

func newError(err error) *Error {
	var structured *errz.StructuredError
	switch {
	case errors.As(err, &structured):
		return &Error{
			Kind:    structured.Kind.String(),
			Message: structured.Message,
			Line:    structured.Location.Line,
			PC:      structured.PC,
			Label:   structured.Label,
			Hint:    structured.Hint,
		}
	case errors.Is(err, vm.ErrHalted):
		return &Error{Kind: KindHalted, Message: "step limit reached"}
	case errors.Is(err, context.DeadlineExceeded):
		return &Error{Kind: KindTimeout, Message: "run timed out"}
	default:
		return &Error{Message: err.Error()}
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDocs(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, sbm.Docs())
}

func (s *Server) handleDoc(w http.ResponseWriter, r *http.Request) {
	mnemonic := chi.URLParam(r, "mnemonic")
	doc, ok := sbm.DocFor(mnemonic)
	if !ok {
		s.writeJSON(w, http.StatusNotFound, RunResponse{Error: &Error{
			Kind:    KindRequest,
			Message: fmt.Sprintf("unknown instruction: %s", mnemonic),
		}})
		return
	}
	s.writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	program, err := sbm.Load(ctx, req.Source, sbm.WithFilename(req.Filename))
	if err != nil {
		s.writeJSON(w, http.StatusUnprocessableEntity, RunResponse{Error: newError(err)})
		return
	}
	maxSteps := s.maxSteps
	if req.MaxSteps > 0 && req.MaxSteps < maxSteps {
		maxSteps = req.MaxSteps
	}
	state, err := sbm.Run(ctx, program,
		sbm.WithLogger(s.logger),
		sbm.WithMaxSteps(maxSteps))
	if err != nil {
		s.writeJSON(w, http.StatusUnprocessableEntity, RunResponse{State: &state, Error: newError(err)})
		return
	}
	s.writeJSON(w, http.StatusOK, RunResponse{State: &state})
}

func (s *Server) handleDis(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}
	program, err := sbm.Load(r.Context(), req.Source, sbm.WithFilename(req.Filename))
	if err != nil {
		s.writeJSON(w, http.StatusUnprocessableEntity, DisResponse{Error: newError(err)})
		return
	}
	s.writeJSON(w, http.StatusOK, DisResponse{Instructions: dis.Disassemble(program)})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request) (RunRequest, bool) {
	var req RunRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, RunResponse{Error: &Error{
			Kind:    KindRequest,
			Message: fmt.Sprintf("invalid request body: %v", err),
		}})
		return req, false
	}
	return req, true
}

// writeJSON encodes v with the given status. States holding Infinity or NaN
// cannot be encoded; those are reported as an encoding error instead.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		status = http.StatusUnprocessableEntity
		data, _ = json.Marshal(RunResponse{Error: &Error{
			Kind:    KindEncode,
			Message: fmt.Sprintf("result is not representable as JSON: %v", err),
		}})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(data, '\n')); err != nil {
		s.logger.Warn().Err(err).Msg("write response")
	}
}
