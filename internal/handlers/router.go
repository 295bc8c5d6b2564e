package handlers

import (
	"net/http"

	"github.com/lexa-ai/lexa-backend/internal/handlers/middleware"
	"github.com/lexa-ai/lexa-backend/internal/logger"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

func NewRouter(authService AuthService, chatService ChatService, l logger.Logger) http.Handler {
	authHandler := NewAuth(authService)
	chatHandler := NewChat(chatService)
	withAuth := middleware.Auth(authService)

	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/register", authHandler.register)
	mux.HandleFunc("POST /api/auth/login", authHandler.login)
	mux.HandleFunc("POST /api/auth/refresh", authHandler.refresh)
	mux.HandleFunc("POST /api/auth/logout", authHandler.logout)
	mux.Handle("GET /api/auth/profile", withAuth(http.HandlerFunc(authHandler.profile)))

	mux.Handle("POST /api/chats", withAuth(http.HandlerFunc(chatHandler.create)))
	mux.Handle("GET /api/chats", withAuth(http.HandlerFunc(chatHandler.list)))
	mux.Handle("DELETE /api/chats", withAuth(http.HandlerFunc(chatHandler.clear)))

	return chain(mux,
		middleware.Logger(l),
	)
}
