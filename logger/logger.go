package logger

import (
	"net"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// ForRequest returns an entry carrying the request's origin and target. The
// ip field is the connection's peer address, the one the gate decides on.
func ForRequest(r *http.Request) *log.Entry {
	fields := log.Fields{
		"ip":     getRemoteIP(r),
		"host":   r.Host,
		"path":   r.URL.Path,
		"method": r.Method,
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		fields["forwardedFor"] = xff
	}
	return log.WithContext(r.Context()).WithFields(fields)
}

func getRemoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// SetLevel applies one of FATAL, ERROR, WARN, INFO or DEBUG to the standard
// logger.
func SetLevel(level string) error {
	switch strings.ToUpper(level) {
	case "FATAL":
		log.SetLevel(log.FatalLevel)
	case "ERROR":
		log.SetLevel(log.ErrorLevel)
	case "WARN":
		log.SetLevel(log.WarnLevel)
	case "INFO":
		log.SetLevel(log.InfoLevel)
	case "DEBUG":
		log.SetLevel(log.DebugLevel)
	default:
		return errors.Errorf("unsupported log level %q", level)
	}
	return nil
}
