package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"

	"portfolio-backend-go/internal/services"
)

type MetricsHistoryResponse struct {
	Items []services.MetricSample `json:"items"`
}

func (s *Server) MetricsHistory(w http.ResponseWriter, r *http.Request) {
	limit := parseInt(r.URL.Query().Get("limit"), 120)
	if limit > 500 {
		limit = 500
	}
	WriteJSON(w, http.StatusOK, MetricsHistoryResponse{Items: s.History.Latest(limit)})
}

// MetricsSocket streams samples to an administrator. Browsers cannot set
// headers on a websocket upgrade, so the token may come as ?token=.
func (s *Server) MetricsSocket(w http.ResponseWriter, r *http.Request) {
	session, ok := CurrentSession(r)
	if query := r.URL.Query().Get("token"); query != "" {
		parsed, err := s.Tokens.ParseAccessToken(query)
		session, ok = parsed, err == nil
	}
	if !ok {
		writeServiceError(w, services.ErrUnauthorized(msgUnauthorized))
		return
	}
	if !session.IsAdmin {
		writeServiceError(w, services.ErrForbidden(msgForbidden))
		return
	}
	upgrader := websocket.Upgrader{
		CheckOrigin: s.allowOrigin,
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.MetricsHub.Add(conn)
	defer func() {
		s.MetricsHub.Remove(conn)
		_ = conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// allowOrigin accepts same-host upgrades and the configured CORS origins.
func (s *Server) allowOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(s.Config.CorsOrigins) == 0 {
		return true
	}
	for _, allowed := range s.Config.CorsOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return origin == "http://"+r.Host || origin == "https://"+r.Host
}

func parseInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	if value < 1 {
		return fallback
	}
	return value
}
