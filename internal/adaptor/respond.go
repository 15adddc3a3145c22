package adaptor

import (
	"net/http"
	"strings"

	"account-service/pkg/apperr"
	"account-service/pkg/utils"

	"go.uber.org/zap"
)

// respondError is the single place where service errors become HTTP
// responses. The error kind decides the status, internal causes never reach
// the client.
func respondError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	status := apperr.Status(err)
	message := apperr.Message(err)

	if status >= http.StatusInternalServerError {
		log.Error("Failed to "+operation, zap.Error(err))
	} else {
		log.Warn(operation+" rejected", zap.Error(err), zap.Int("status", status))
	}

	utils.ResponseJSON(w, status, false, message, nil, nil)
}

// clientIP extracts the caller address, preferring the first proxy-forwarded
// hop.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}

	addr := r.RemoteAddr
	if i := strings.LastIndex(addr, ":"); i > 0 && !strings.HasSuffix(addr, "]") {
		addr = addr[:i]
	}
	return strings.Trim(addr, "[]")
}

// bearerToken pulls the token out of an Authorization header, empty when the
// header is absent or malformed.
func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
