package echoutil

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	xe "github.com/opst/photoshare/pkg/errors"
)

// statusOf tells the status code which err will be responded with.
func statusOf(c echo.Context, err error) int {
	if err == nil {
		return c.Response().Status
	}
	var herr *echo.HTTPError
	if errors.As(err, &herr) {
		return herr.Code
	}
	return http.StatusInternalServerError
}

// LogHandlerFunc logs a line per request, with status and latency.
//
// Errors responded as 5xx are logged with locations they passed through.
func LogHandlerFunc(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		begin := time.Now()

		err := next(c)

		status := statusOf(c, err)
		fields := log.JSON{
			"method":  req.Method,
			"uri":     req.RequestURI,
			"status":  status,
			"latency": time.Since(begin).String(),
		}
		switch {
		case status < 500:
			if err != nil {
				fields["error"] = err.Error()
			}
			c.Logger().Infoj(fields)
		default:
			if err != nil {
				fields["error"] = err.Error()
				trace := []string{}
				for _, f := range xe.Trace(err) {
					trace = append(trace, f.String())
				}
				if len(trace) != 0 {
					fields["trace"] = trace
				}
			}
			c.Logger().Errorj(fields)
		}
		return err
	}
}

// ParseLevel reads a log level name: debug, info, warn, error or off.
//
// Unknown names are warn, and ok is false.
func ParseLevel(loglevel string) (lvl log.Lvl, ok bool) {
	switch strings.ToLower(loglevel) {
	case "debug":
		return log.DEBUG, true
	case "info":
		return log.INFO, true
	case "warn", "":
		return log.WARN, true
	case "error":
		return log.ERROR, true
	case "off":
		return log.OFF, true
	default:
		return log.WARN, false
	}
}

func SetLevel(e *echo.Echo, loglevel string) {
	lvl, ok := ParseLevel(loglevel)
	e.Logger.SetLevel(lvl)
	if !ok {
		e.Logger.Warnf("unknown loglevel: %s . fall-backed to warn", loglevel)
	}
}
