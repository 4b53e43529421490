package main

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/contract-tests/items-contract-tests/config"
	"github.com/contract-tests/items-contract-tests/framework"
	"github.com/contract-tests/items-contract-tests/mockservice"

	"github.com/google/uuid"
)

const selfCheckUsername = "self-check@example.com"

// selfCheckService is the reference implementation of the service, running in this process so
// that the test suite itself can be checked.
type selfCheckService struct {
	server   *http.Server
	listener net.Listener
}

// startSelfCheckService starts the reference service on a local port and points the
// configuration at it. Credentials that are not configured are made up.
func startSelfCheckService(cfg *config.Config, logger framework.Logger) (*selfCheckService, error) {
	if cfg.Credentials.Username == "" {
		cfg.Credentials.Username = selfCheckUsername
	}
	if cfg.Credentials.Password == "" {
		cfg.Credentials.Password = uuid.NewString()
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	service := mockservice.New(mockservice.Options{
		Username: cfg.Credentials.Username,
		Password: cfg.Credentials.Password,
		Paths:    cfg.Paths,
		Logger:   framework.LoggerWithPrefix(logger, "[reference service] "),
	})
	s := &selfCheckService{
		server:   &http.Server{Handler: service, ReadHeaderTimeout: 10 * time.Second},
		listener: listener,
	}
	go func() {
		_ = s.server.Serve(listener)
	}()
	cfg.BaseURL = s.BaseURL()
	return s, nil
}

func (s *selfCheckService) BaseURL() string {
	return "http://" + s.listener.Addr().String()
}

func (s *selfCheckService) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = s.server.Shutdown(ctx)
}
