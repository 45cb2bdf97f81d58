package log

import (
	"io"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// SetOutput redirects the event log, e.g. to a MultiWriter with a file sink.
func SetOutput(w io.Writer) {
	logger = zerolog.New(w).With().Timestamp().Logger()
}

func write(lvl zerolog.Level, c *fiber.Ctx, action string, err error, fields map[string]any) {
	e := logger.WithLevel(lvl).Str("action", action)
	if c != nil {
		e = e.Str("ip", c.IP()).Str("method", c.Method()).Str("path", c.Path())
		if code := c.Response().StatusCode(); code != 0 {
			e = e.Int("status", code)
		}
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			e = e.Str("req_id", rid)
		}
	}
	if err != nil {
		e = e.Err(err)
	}
	if len(fields) > 0 {
		e = e.Fields(fields)
	}
	e.Send()
}

func Info(c *fiber.Ctx, action string, fields map[string]any) {
	write(zerolog.InfoLevel, c, action, nil, fields)
}

// Audit records business-significant events (orders placed, logins).
func Audit(c *fiber.Ctx, action string, fields map[string]any) {
	if fields == nil {
		fields = map[string]any{}
	}
	fields["audit"] = true
	write(zerolog.InfoLevel, c, action, nil, fields)
}

// Security records rejected or suspicious requests.
func Security(c *fiber.Ctx, action string, fields map[string]any) {
	write(zerolog.WarnLevel, c, action, nil, fields)
}

func Error(c *fiber.Ctx, action string, err error, fields map[string]any) {
	write(zerolog.ErrorLevel, c, action, err, fields)
}
