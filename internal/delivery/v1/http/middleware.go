package http

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const sessionHeader = "X-Session-ID"

type sessionCtxKey struct{}

// SessionMiddleware привязывает запрос к покупательской сессии.
// Если клиент не прислал X-Session-ID или прислал невалидный,
// генерируется новый UUID и возвращается в заголовке ответа.
func SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.Header.Get(sessionHeader)
		if _, err := uuid.Parse(sessionID); err != nil {
			sessionID = uuid.NewString()
		}

		w.Header().Set(sessionHeader, sessionID)

		ctx := context.WithValue(r.Context(), sessionCtxKey{}, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionID возвращает ID сессии, установленный SessionMiddleware.
func SessionID(r *http.Request) string {
	if id, ok := r.Context().Value(sessionCtxKey{}).(string); ok {
		return id
	}

	return ""
}
