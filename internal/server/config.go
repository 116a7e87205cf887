package server

import (
	"net"
	"strconv"
	"time"

	"github.com/dealsync/dealsync/pkg/constants"
)

// Config holds the HTTP server settings.
type Config struct {
	Host string
	Port int

	CORSEnabled bool
	CORSOrigins []string

	// WriteTimeout must cover a full sync run because POST /api/sync
	// executes the run within the request.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultConfig returns the server defaults; CORS is open until origins
// are narrowed.
func DefaultConfig() Config {
	return Config{
		Host:         constants.DefaultServerHost,
		Port:         constants.DefaultServerPort,
		CORSEnabled:  true,
		CORSOrigins:  []string{},
		ReadTimeout:  constants.ServerReadTimeout,
		WriteTimeout: constants.ServerWriteTimeout,
		IdleTimeout:  constants.ServerIdleTimeout,
	}
}

// Addr returns the bind address in host:port form.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
