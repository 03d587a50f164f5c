package rest

import (
	"encoding/json"
	"net/http"

	"github.com/budstack/stepflow/logger"
	"github.com/budstack/stepflow/model"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

func (s *Server) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	var createReq model.SessionCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&createReq); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid session create payload")
		return
	}
	defer r.Body.Close()
	execution, err := s.sessionService.CreateSession(createReq.Wizard, createReq.Input)
	if err != nil {
		logger.Error("error creating session", zap.String("wizard", createReq.Wizard), zap.Error(err))
		respondWithError(w, statusForError(err), err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, execution)
}

func (s *Server) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	wizard, sessionId, ok := sessionVars(w, r)
	if !ok {
		return
	}
	execution, err := s.sessionService.GetSession(wizard, sessionId)
	if err != nil {
		logger.Error("error getting session", zap.String("wizard", wizard), zap.String("sessionId", sessionId), zap.Error(err))
		respondWithError(w, statusForError(err), err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, execution)
}

func (s *Server) HandleUpdateField(w http.ResponseWriter, r *http.Request) {
	wizard, sessionId, ok := sessionVars(w, r)
	if !ok {
		return
	}
	var updateReq model.FieldUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&updateReq); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid field update payload")
		return
	}
	defer r.Body.Close()
	if len(updateReq.Name) == 0 {
		respondWithError(w, http.StatusBadRequest, "field name can not be empty")
		return
	}
	if err := s.sessionService.UpdateField(wizard, sessionId, updateReq.Name, updateReq.Value); err != nil {
		logger.Error("error updating field", zap.String("wizard", wizard), zap.String("sessionId", sessionId), zap.Error(err))
		respondWithError(w, statusForError(err), err.Error())
		return
	}
	respondOKWithoutBody(w)
}

func (s *Server) HandleAdvance(w http.ResponseWriter, r *http.Request) {
	wizard, sessionId, ok := sessionVars(w, r)
	if !ok {
		return
	}
	outcome, err := s.sessionService.Advance(r.Context(), wizard, sessionId)
	if err != nil {
		logger.Error("error advancing session", zap.String("wizard", wizard), zap.String("sessionId", sessionId), zap.Error(err))
		respondWithError(w, statusForError(err), err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, outcome)
}

func (s *Server) HandleBack(w http.ResponseWriter, r *http.Request) {
	wizard, sessionId, ok := sessionVars(w, r)
	if !ok {
		return
	}
	step, err := s.sessionService.Back(wizard, sessionId)
	if err != nil {
		logger.Error("error navigating back", zap.String("wizard", wizard), zap.String("sessionId", sessionId), zap.Error(err))
		respondWithError(w, statusForError(err), err.Error())
		return
	}
	respondOK(w, map[string]any{"step": step})
}

func (s *Server) HandleJump(w http.ResponseWriter, r *http.Request) {
	wizard, sessionId, ok := sessionVars(w, r)
	if !ok {
		return
	}
	var jumpReq model.JumpRequest
	if err := json.NewDecoder(r.Body).Decode(&jumpReq); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid jump payload")
		return
	}
	defer r.Body.Close()
	step, err := s.sessionService.JumpTo(wizard, sessionId, jumpReq.Step)
	if err != nil {
		logger.Error("error jumping to step", zap.String("wizard", wizard), zap.String("sessionId", sessionId),
			zap.String("step", jumpReq.Step), zap.Error(err))
		respondWithError(w, statusForError(err), err.Error())
		return
	}
	respondOK(w, map[string]any{"step": step})
}

func (s *Server) HandleCloseSession(w http.ResponseWriter, r *http.Request) {
	wizard, sessionId, ok := sessionVars(w, r)
	if !ok {
		return
	}
	if err := s.sessionService.CloseSession(wizard, sessionId); err != nil {
		logger.Error("error closing session", zap.String("wizard", wizard), zap.String("sessionId", sessionId), zap.Error(err))
		respondWithError(w, statusForError(err), err.Error())
		return
	}
	respondOKWithoutBody(w)
}

func sessionVars(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	vars := mux.Vars(r)
	wizard, ok := vars["wizard"]
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		return "", "", false
	}
	sessionId, ok := vars["id"]
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		return "", "", false
	}
	return wizard, sessionId, true
}
