package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/googollee/go-socket.io/engineio"
	"github.com/googollee/go-socket.io/engineio/transport"
	"github.com/googollee/go-socket.io/engineio/transport/polling"
	"github.com/googollee/go-socket.io/engineio/transport/websocket"
	"github.com/nneonya/Travel-app/internal/config"
	"github.com/nneonya/Travel-app/internal/models"
	"github.com/nneonya/Travel-app/pkg/logger"
	"github.com/nneonya/Travel-app/pkg/utils"
	"gorm.io/gorm"
)

const (
	socketEventJoinChat  = "joinChat"
	socketEventLeaveChat = "leaveChat"
)

// ChatMembership decides whether a socket user may listen to a chat room.
type ChatMembership func(chatID, userID uint) (bool, error)

// DBChatMembership checks membership against the chats table.
func DBChatMembership(db *gorm.DB) ChatMembership {
	return func(chatID, userID uint) (bool, error) {
		var n int64
		err := db.Model(&models.Chat{}).
			Where("id = ? AND (creator_id = ? OR companion_id = ?)", chatID, userID, userID).
			Count(&n).Error
		return n > 0, err
	}
}

// InitSocketServer builds the Socket.IO server. A valid ?token= puts the
// socket in its user room; anonymous sockets may connect but cannot join
// chats.
func InitSocketServer(cfg config.Config, isMember ChatMembership) *socketio.Server {
	checkOrigin := func(r *http.Request) bool {
		if !cfg.IsProduction() {
			return true
		}
		origin := r.Header.Get("Origin")
		return origin == "" || origin == cfg.ClientURL
	}

	server := socketio.NewServer(&engineio.Options{
		Transports: []transport.Transport{
			&websocket.Transport{CheckOrigin: checkOrigin},
			&polling.Transport{CheckOrigin: checkOrigin},
		},
	})

	server.OnConnect("/", func(s socketio.Conn) error {
		s.SetContext(uint(0))

		token := socketToken(s)
		if token == "" {
			logger.Debug().Str("socket_id", s.ID()).Msg("Anonymous socket connected")
			return nil
		}

		claims, err := utils.ValidateToken(cfg.SecretKey, token)
		if err != nil {
			logger.Debug().Str("socket_id", s.ID()).Err(err).Msg("Socket token rejected, continuing anonymously")
			return nil
		}

		s.SetContext(claims.UserID)
		s.Join(models.UserRoom(claims.UserID))
		logger.Debug().Str("socket_id", s.ID()).Uint("user_id", claims.UserID).Msg("Socket authenticated")
		return nil
	})

	server.OnEvent("/", socketEventJoinChat, func(s socketio.Conn, raw interface{}) {
		userID, _ := s.Context().(uint)
		chatID, ok := parseSocketID(raw)
		if !ok {
			return
		}
		if userID == 0 {
			logger.Warn().Str("socket_id", s.ID()).Uint("chat_id", chatID).
				Msg("joinChat from anonymous socket ignored; connect with ?token=<jwt> or an Authorization header")
			return
		}

		member, err := isMember(chatID, userID)
		if err != nil {
			logger.Error().Err(err).Uint("chat_id", chatID).Msg("Chat membership check failed")
			return
		}
		if !member {
			logger.Warn().Uint("chat_id", chatID).Uint("user_id", userID).Msg("Socket tried to join foreign chat")
			return
		}

		s.Join(models.ChatRoom(chatID))
		logger.Debug().Uint("chat_id", chatID).Uint("user_id", userID).Msg("Socket joined chat")
	})

	server.OnEvent("/", socketEventLeaveChat, func(s socketio.Conn, raw interface{}) {
		if chatID, ok := parseSocketID(raw); ok {
			s.Leave(models.ChatRoom(chatID))
		}
	})

	server.OnError("/", func(s socketio.Conn, e error) {
		logger.Warn().Err(e).Msg("Socket error")
	})

	server.OnDisconnect("/", func(s socketio.Conn, reason string) {
		logger.Debug().Str("socket_id", s.ID()).Str("reason", reason).Msg("Socket disconnected")
	})

	return server
}

// socketToken reads the JWT from the handshake: ?token=, then
// ?auth_token=, then an Authorization: Bearer header.
func socketToken(s socketio.Conn) string {
	u := s.URL()
	q := u.Query()
	if token := q.Get("token"); token != "" {
		return token
	}
	if token := q.Get("auth_token"); token != "" {
		return token
	}
	if fields := strings.Fields(s.RemoteHeader().Get("Authorization")); len(fields) == 2 && strings.EqualFold(fields[0], "Bearer") {
		return fields[1]
	}
	return ""
}

// parseSocketID accepts a chat id sent as a JSON number or string.
func parseSocketID(raw interface{}) (uint, bool) {
	var s string
	switch v := raw.(type) {
	case float64:
		if v <= 0 || v != float64(uint(v)) {
			return 0, false
		}
		return uint(v), true
	case string:
		s = v
	default:
		s = fmt.Sprint(v)
	}
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// SocketHandler mounts the Socket.IO server on gin.
func SocketHandler(server *socketio.Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		server.ServeHTTP(c.Writer, c.Request)
	}
}
