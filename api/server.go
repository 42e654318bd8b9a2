package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"code.cryptopower.dev/group/govdash/libwallet"
	"code.cryptopower.dev/group/govdash/libwallet/utils"
	"decred.org/dcrwallet/v2/errors"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

const APIVersionV1 = "v1"

// API Endpoint patterns
const (
	GetViewHandlerPattern        = "/view"
	GetInfoHandlerPattern        = "/info"
	PostRefreshHandlerPattern    = "/refresh"
	PostVoteHandlerPattern       = "/vote"
	PostDelegateHandlerPattern   = "/delegate"
	PostDismissHandlerPattern    = "/notice/dismiss"
	GetStreamHandlerPattern      = "/stream"
	MetricsHandlerPattern        = "/metrics"
	defaultReadHeaderTimeout     = 10 * time.Second
	defaultShutdownTimeout       = 5 * time.Second
	maxRequestBodyBytes    int64 = 1 << 12
)

// Governance is the controller surface served over HTTP.
type Governance interface {
	ViewModel() *libwallet.ViewModel
	Refresh(ctx context.Context) error
	CastVote(ctx context.Context, choice libwallet.VoteChoice) error
	Delegate(ctx context.Context) error
	DismissNotice()
	AddNotificationListener(l libwallet.ProposalNotificationListener, uniqueIdentifier string) error
	RemoveNotificationListener(uniqueIdentifier string)
}

type Config struct {
	// Listen is the host:port to serve on.
	Listen         string
	AllowedOrigins []string
	// Gatherer backs the /metrics endpoint. The endpoint is not registered
	// when nil.
	Gatherer prometheus.Gatherer

	NetType  utils.NetworkType
	Governor string
}

// Server exposes the governance view model and actions as a JSON API for a
// browser renderer, plus a websocket stream of view-model updates.
type Server struct {
	gov      Governance
	cfg      *Config
	router   *mux.Router
	srv      *http.Server
	upgrader websocket.Upgrader

	// ctx bounds write transactions; they outlive the request that started
	// them.
	ctx      context.Context
	cancel   context.CancelFunc
	streamID atomic.Uint64
}

func New(gov Governance, cfg *Config) *Server {
	s := &Server{
		gov:    gov,
		cfg:    cfg,
		router: mux.NewRouter(),
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     s.checkOrigin,
	}

	s.router.HandleFunc(s.HandlerURLPattern(GetViewHandlerPattern), s.GetViewHandler).Methods(http.MethodGet)
	s.router.HandleFunc(s.HandlerURLPattern(GetInfoHandlerPattern), s.GetInfoHandler).Methods(http.MethodGet)
	s.router.HandleFunc(s.HandlerURLPattern(PostRefreshHandlerPattern), s.PostRefreshHandler).Methods(http.MethodPost)
	s.router.HandleFunc(s.HandlerURLPattern(PostVoteHandlerPattern), s.PostVoteHandler).Methods(http.MethodPost)
	s.router.HandleFunc(s.HandlerURLPattern(PostDelegateHandlerPattern), s.PostDelegateHandler).Methods(http.MethodPost)
	s.router.HandleFunc(s.HandlerURLPattern(PostDismissHandlerPattern), s.PostDismissHandler).Methods(http.MethodPost)
	s.router.HandleFunc(s.HandlerURLPattern(GetStreamHandlerPattern), s.StreamHandler).Methods(http.MethodGet)
	if cfg.Gatherer != nil {
		s.router.Handle(MetricsHandlerPattern, promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	s.srv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: defaultReadHeaderTimeout,
	}
	return s
}

func (s *Server) HandlerURLPattern(pattern string) string {
	return fmt.Sprintf("/api/%s%s", APIVersionV1, pattern)
}

// Handler returns the router wrapped with the CORS policy.
func (s *Server) Handler() http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(s.router)
}

// Run serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.Listen)
	if err != nil {
		return errors.E(errors.IO, err)
	}
	log.Infof("API server listening on %s (allowed origins: %s)", listener.Addr(), strings.Join(s.cfg.AllowedOrigins, ","))

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.srv.Serve(listener)
	}()

	select {
	case err := <-errCh:
		s.cancel()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()
	err = s.srv.Shutdown(shutdownCtx)
	s.cancel()
	if err != nil {
		return err
	}
	if err := <-errCh; err != http.ErrServerClosed {
		return err
	}
	log.Info("API server stopped")
	return nil
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range s.cfg.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}

type infoResponse struct {
	Network     string `json:"network"`
	Governor    string `json:"governor"`
	ExplorerURL string `json:"explorerUrl,omitempty"`
}

func (s *Server) GetViewHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.gov.ViewModel())
}

func (s *Server) GetInfoHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, &infoResponse{
		Network:     s.cfg.NetType.Display(),
		Governor:    s.cfg.Governor,
		ExplorerURL: utils.ExplorerAddressURL(s.cfg.NetType, s.cfg.Governor),
	})
}

func (s *Server) PostRefreshHandler(w http.ResponseWriter, r *http.Request) {
	// A failed listing is part of the view model.
	if err := s.gov.Refresh(r.Context()); err != nil {
		log.Debugf("Refresh requested over API failed: %v", err)
	}
	writeJSON(w, http.StatusOK, s.gov.ViewModel())
}

type voteRequest struct {
	Choice string `json:"choice"`
}

func (s *Server) PostVoteHandler(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req voteRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, utils.ErrInvalid, err.Error())
		return
	}

	choice, err := libwallet.ParseVoteChoice(req.Choice)
	if err != nil {
		s.writeActionError(w, err)
		return
	}

	if err := s.gov.CastVote(s.ctx, choice); err != nil {
		s.writeActionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.gov.ViewModel())
}

func (s *Server) PostDelegateHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.gov.Delegate(s.ctx); err != nil {
		s.writeActionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.gov.ViewModel())
}

func (s *Server) PostDismissHandler(w http.ResponseWriter, r *http.Request) {
	s.gov.DismissNotice()
	writeJSON(w, http.StatusOK, s.gov.ViewModel())
}

// writeActionError maps precondition codes to client errors. Anything else is
// a failed transaction whose reason is already on the view model's notice.
func (s *Server) writeActionError(w http.ResponseWriter, err error) {
	code := utils.TranslateError(err).Error()
	switch code {
	case utils.ErrInvalid, utils.ErrInvalidVoteChoice:
		writeJSONError(w, http.StatusBadRequest, code, "")
	case utils.ErrNotConnected, utils.ErrWalletIsWatchOnly:
		writeJSONError(w, http.StatusForbidden, code, "")
	case utils.ErrNoActiveProposal, utils.ErrAlreadyVoted, utils.ErrVoteInProgress,
		utils.ErrTxInProgress, utils.ErrAlreadyDelegated, utils.ErrNoVotingPower,
		utils.ErrTokenUnknown:
		writeJSONError(w, http.StatusConflict, code, "")
	default:
		message := s.gov.ViewModel().Notice.Message
		if message == "" {
			message = libwallet.ErrGenericTxFailure
		}
		writeJSONError(w, http.StatusBadGateway, "tx_failed", message)
	}
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, &errorResponse{Error: code, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Errorf("Error writing response: %v", err)
	}
}
