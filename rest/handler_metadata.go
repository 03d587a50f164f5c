package rest

import (
	"encoding/json"
	"net/http"

	"github.com/budstack/stepflow/logger"
	"github.com/budstack/stepflow/model"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

func (s *Server) HandleSaveWizard(w http.ResponseWriter, r *http.Request) {
	var saveReq model.WizardSaveRequest
	if err := json.NewDecoder(r.Body).Decode(&saveReq); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid wizard definition payload")
		return
	}
	defer r.Body.Close()
	if err := s.registry.SaveWizard(saveReq.Wizard); err != nil {
		logger.Error("error saving wizard definition", zap.String("wizard", saveReq.Name), zap.Error(err))
		respondWithError(w, statusForError(err), err.Error())
		return
	}
	respondOKWithoutBody(w)
}

func (s *Server) HandleGetWizard(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	name, ok := vars["name"]
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	wz, err := s.registry.GetWizard(name)
	if err != nil {
		logger.Error("error getting wizard definition", zap.String("wizard", name), zap.Error(err))
		respondWithError(w, statusForError(err), err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, wz)
}

func (s *Server) HandleDeleteWizard(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	name, ok := vars["name"]
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if err := s.registry.DeleteWizard(name); err != nil {
		logger.Error("error deleting wizard definition", zap.String("wizard", name), zap.Error(err))
		respondWithError(w, statusForError(err), err.Error())
		return
	}
	respondOKWithoutBody(w)
}

func (s *Server) HandleListWizards(w http.ResponseWriter, r *http.Request) {
	names, err := s.registry.ListWizards()
	if err != nil {
		logger.Error("error listing wizard definitions", zap.Error(err))
		respondWithError(w, statusForError(err), err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"wizards": names})
}
