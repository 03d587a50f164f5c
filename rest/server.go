package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/budstack/stepflow/flow"
	"github.com/budstack/stepflow/logger"
	"github.com/budstack/stepflow/persistence"
	"github.com/budstack/stepflow/registry"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type Server struct {
	http.Server
	Port           int
	registry       registry.Registry
	sessionService *flow.SessionService
}

func NewServer(httpPort int, reg registry.Registry, sessionService *flow.SessionService) (*Server, error) {
	s := &Server{
		Server: http.Server{
			Addr:        fmt.Sprintf(":%d", httpPort),
			IdleTimeout: 2 * time.Second,
		},
		registry:       reg,
		sessionService: sessionService,
		Port:           httpPort,
	}

	router := mux.NewRouter()
	router.HandleFunc("/metadata/wizard", s.HandleSaveWizard).Methods(http.MethodPost)
	router.HandleFunc("/metadata/wizard", s.HandleListWizards).Methods(http.MethodGet)
	router.HandleFunc("/metadata/wizard/{name}", s.HandleGetWizard).Methods(http.MethodGet)
	router.HandleFunc("/metadata/wizard/{name}", s.HandleDeleteWizard).Methods(http.MethodDelete)

	router.HandleFunc("/session", s.HandleCreateSession).Methods(http.MethodPost)
	router.HandleFunc("/session/{wizard}/{id}", s.HandleGetSession).Methods(http.MethodGet)
	router.HandleFunc("/session/{wizard}/{id}", s.HandleCloseSession).Methods(http.MethodDelete)
	router.HandleFunc("/session/{wizard}/{id}/field", s.HandleUpdateField).Methods(http.MethodPost)
	router.HandleFunc("/session/{wizard}/{id}/advance", s.HandleAdvance).Methods(http.MethodPost)
	router.HandleFunc("/session/{wizard}/{id}/back", s.HandleBack).Methods(http.MethodPost)
	router.HandleFunc("/session/{wizard}/{id}/jump", s.HandleJump).Methods(http.MethodPost)

	router.Use(loggingMiddleware)
	s.Handler = router
	return s, nil
}

func (s *Server) Start() error {
	logger.Info("starting http server on", zap.Int("port", s.Port))
	if err := s.ListenAndServe(); err != nil {
		return err
	}
	return nil
}

func (s *Server) Stop() error {
	logger.Info("stopping http server")
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := s.Shutdown(ctx)
	if err != nil {
		logger.Error("error shutting down http server")
	}
	return nil
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Info(r.RequestURI)
		next.ServeHTTP(w, r)
	})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondOK(w http.ResponseWriter, message map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(200)
	res, _ := json.Marshal(message)
	w.Write(res)
}

func respondOKWithoutBody(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(200)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func statusForError(err error) int {
	var notFound persistence.NotFoundError
	if errors.As(err, &notFound) {
		return http.StatusNotFound
	}
	var definition registry.DefinitionError
	if errors.As(err, &definition) {
		return http.StatusBadRequest
	}
	var unknownStep registry.UnknownStepError
	if errors.As(err, &unknownStep) {
		return http.StatusNotFound
	}
	var precondition flow.PreconditionError
	if errors.As(err, &precondition) {
		return http.StatusConflict
	}
	if errors.Is(err, flow.ErrSubmissionInFlight) || errors.Is(err, flow.ErrSessionDiscarded) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
