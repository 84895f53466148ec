package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/arcana-network/frostsigner/common"
	"github.com/arcana-network/frostsigner/config"
	"github.com/arcana-network/frostsigner/dkg"
	"github.com/arcana-network/frostsigner/server/rpc"
	"github.com/arcana-network/frostsigner/signing"
	"github.com/arcana-network/frostsigner/telemetry"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
)

// ServerService exposes the signer over JSON-RPC on a TCP port or a unix
// socket.
type ServerService struct {
	manager *dkg.Manager
	signer  *signing.Signer

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
}

func New(manager *dkg.Manager, signer *signing.Signer) *ServerService {
	return &ServerService{
		manager: manager,
		signer:  signer,
	}
}

func (s *ServerService) ID() string {
	return common.SERVER_SERVICE_NAME
}

func (s *ServerService) Start() error {
	listener, err := listen(config.GlobalConfig)
	if err != nil {
		return err
	}
	router, err := setUpRouter(s.manager, s.signer)
	if err != nil {
		_ = listener.Close()
		return err
	}

	s.mu.Lock()
	s.listener = listener
	s.server = &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	server := s.server
	s.mu.Unlock()

	log.WithField("addr", listener.Addr().String()).Info("Starting JSON-RPC server")
	go startServer(server, listener)
	return nil
}

func startServer(server *http.Server, listener net.Listener) {
	err := server.Serve(listener)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Fatal()
	}
}

func listen(conf *config.Config) (net.Listener, error) {
	if conf.UnixSocket != "" {
		if err := os.Remove(conf.UnixSocket); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("removing stale socket: %w", err)
		}
		return net.Listen("unix", conf.UnixSocket)
	}
	return net.Listen("tcp", fmt.Sprintf(":%s", conf.HttpServerPort))
}

func (s *ServerService) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := s.server.Shutdown(ctx)
	s.server = nil
	return err
}

func (s *ServerService) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.server != nil
}

func (s *ServerService) Call(method string, args ...interface{}) (interface{}, error) {
	switch method {
	case "addr":
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.listener == nil {
			return nil, errors.New("server not started")
		}
		return s.listener.Addr().String(), nil
	}
	return nil, fmt.Errorf("server service method %v not found", method)
}

func setUpRouter(manager *dkg.Manager, signer *signing.Signer) (http.Handler, error) {
	mr, err := rpc.SetUpJRPCHandler(manager, signer)
	if err != nil {
		return nil, err
	}

	router := mux.NewRouter().StrictSlash(true)

	router.Handle("/rpc", mr)
	router.Handle("/metrics", telemetry.Handler())

	router.Use(parseBodyMiddleware)
	router.Use(augmentRequestMiddleware)
	router.Use(loggingMiddleware)

	handler := cors.Default().Handler(router)
	return handler, nil
}
