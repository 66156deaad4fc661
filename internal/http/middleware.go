package httpx

import (
	"cmp"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"slices"
	"strings"
	"time"

	domainauth "github.com/agbarbie/Rural-Connect-sub000/internal/domain/auth"
	"github.com/agbarbie/Rural-Connect-sub000/internal/ports"
)

// Middleware decorates an http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain applies mws so that the first one listed is the outermost.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for _, mw := range slices.Backward(mws) {
		h = mw(h)
	}
	return h
}

// statusRecorder remembers the status and size of a response.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusRecorder) WriteHeader(status int) {
	if w.status == 0 {
		w.status = status
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusRecorder) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

func (w *statusRecorder) Unwrap() http.ResponseWriter { return w.ResponseWriter }

// Logging writes one access log line per request. Server errors log at warn.
func Logging(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			status := cmp.Or(rec.status, http.StatusOK)
			level := slog.LevelInfo
			if status >= http.StatusInternalServerError {
				level = slog.LevelWarn
			}
			logger.LogAttrs(r.Context(), level, "http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Int("bytes", rec.bytes),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

// Recover turns a handler panic into a 500 response. http.ErrAbortHandler is
// re-raised so the server can abort the connection.
func Recover(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if err, ok := v.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(v)
				}
				logger.ErrorContext(r.Context(), "handler panic",
					"panic", v,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()))
				WriteError(w, ErrorParams{
					Code:    http.StatusInternalServerError,
					ErrCode: "internal",
					Err:     errors.New("internal server error"),
				})
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// LimitBody caps request bodies at maxBytes.
func LimitBody(maxBytes int64) Middleware {
	return func(next http.Handler) http.Handler {
		if maxBytes <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth returns a middleware that resolves the bearer token to a
// principal. Missing or rejected tokens get a 401 Unauthorized response.
func RequireAuth(verifier ports.TokenVerifier, logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				writeUnauthorized(w, "authentication required")
				return
			}

			p, err := verifier.Verify(r.Context(), token)
			if err != nil {
				if errors.Is(err, ports.ErrInvalidToken) {
					writeUnauthorized(w, ports.ErrInvalidToken.Error())
					return
				}
				WriteServiceError(w, r, logger, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(SetPrincipalInContext(r.Context(), p)))
		})
	}
}

// RequireRole returns a middleware that admits only the given roles. It must
// run after RequireAuth.
func RequireRole(roles ...domainauth.Role) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				writeUnauthorized(w, "authentication required")
				return
			}
			if len(roles) > 0 && !slices.Contains(roles, p.Role) {
				WriteError(w, ErrorParams{
					Code:    http.StatusForbidden,
					ErrCode: "forbidden",
					Err:     errors.New("insufficient permissions"),
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	const prefix = "bearer "
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(h[len(prefix):])
	return token, token != ""
}

func writeUnauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
	WriteError(w, ErrorParams{
		Code:    http.StatusUnauthorized,
		ErrCode: "unauthorized",
		Err:     errors.New(msg),
	})
}
