// Package embeddeddb runs an in-process MySQL-compatible server backed by
// go-mysql-server's memory engine. It lets the API run and be tested without
// an external MySQL instance. Data does not survive the process.
package embeddeddb

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	sqle "github.com/dolthub/go-mysql-server"
	"github.com/dolthub/go-mysql-server/memory"
	"github.com/dolthub/go-mysql-server/server"
	"github.com/dolthub/go-mysql-server/sql"

	"videoportalapi/pkg/logger"
)

// Server is a running embedded database server.
type Server struct {
	Port   int
	DBName string

	srv       *server.Server
	cancel    context.CancelFunc
	closeOnce sync.Once
	closeErr  error
}

// Start creates an empty database named dbName and serves it on a free localhost port.
// It returns once the port accepts connections, or fails after five seconds.
func Start(ctx context.Context, dbName string) (*Server, error) {
	port, err := freePort()
	if err != nil {
		return nil, fmt.Errorf("failed to get free port: %w", err)
	}

	db := memory.NewDatabase(dbName)
	provider := memory.NewDBProvider(db)
	engine := sqle.NewDefault(provider)

	cfg := server.Config{
		Protocol: "tcp",
		Address:  fmt.Sprintf("localhost:%d", port),
	}

	s, err := server.NewServer(cfg, engine, sql.NewContext, memory.NewSessionBuilder(provider), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create server: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	es := &Server{Port: port, DBName: dbName, srv: s, cancel: cancel}

	go func() {
		if err := s.Start(); err != nil {
			logger.Errorf("Embedded database server on port %d stopped: %v", port, err)
		}
	}()

	go func() {
		<-serverCtx.Done()
		es.Close()
	}()

	readyCtx, readyCancel := context.WithTimeout(ctx, 5*time.Second)
	defer readyCancel()

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-readyCtx.Done():
			cancel()
			return nil, fmt.Errorf("embedded database failed to start within timeout: %w", readyCtx.Err())
		case <-ticker.C:
			conn, err := net.DialTimeout("tcp", cfg.Address, 100*time.Millisecond)
			if err == nil {
				conn.Close()
				logger.Infof("Started embedded database %q on port %d", dbName, port)
				return es, nil
			}
		}
	}
}

// DSN returns a go-sql-driver/mysql data source name for the embedded database.
// The server has no user accounts configured, so any user name is accepted.
func (s *Server) DSN() string {
	return fmt.Sprintf("root:@tcp(127.0.0.1:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local&clientFoundRows=true", s.Port, s.DBName)
}

// Close stops the server. Safe to call more than once.
func (s *Server) Close() error {
	s.closeOnce.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
		if err := s.srv.Close(); err != nil {
			s.closeErr = fmt.Errorf("failed to close embedded database: %w", err)
			return
		}
		logger.Infof("Closed embedded database on port %d", s.Port)
	})
	return s.closeErr
}

func freePort() (int, error) {
	addr, err := net.ResolveTCPAddr("tcp", "localhost:0")
	if err != nil {
		return 0, err
	}

	l, err := net.ListenTCP("tcp", addr)
	if err != nil {
		return 0, err
	}
	defer l.Close()

	return l.Addr().(*net.TCPAddr).Port, nil
}
