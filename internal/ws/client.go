package ws

import (
	"encoding/json"
	"net/http"
	"time"

	"chatserver/internal/auth"
	"chatserver/internal/chat"
	"chatserver/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Client 把一条 websocket 链接对接到协调器：readPump 解析客户端命令并
// 逐条交给协调器执行，writePump 把协调器投递的事件写回网络。
type Client struct {
	sock  *websocket.Conn
	conn  *chat.Conn
	coord *chat.Coordinator
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Command 是客户端入站命令的统一载体，按 type 分发。
type Command struct {
	Type     string `json:"type"`
	RoomID   string `json:"room_id"`
	Content  string `json:"content"`
	IsTyping bool   `json:"is_typing"`
}

// Serve 在升级连接之前完成 token 校验，升级后把连接注册到协调器并
// 绑定身份，之后所有房间命令都走 readPump。
func Serve(coord *chat.Coordinator, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Token via Authorization header or token query param for WS
		authz := c.GetHeader("Authorization")
		token := c.Query("token")
		if token == "" && len(authz) > 7 && (authz[:7] == "Bearer " || authz[:7] == "bearer ") {
			token = authz[7:]
		}
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		claims, err := auth.ParseAccessToken(token, cfg.JWTSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		sock, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		conn, err := coord.Connect()
		if err != nil {
			log.Error().Err(err).Msg("ws connect")
			_ = sock.Close()
			return
		}
		if err := coord.Identify(conn, claims.UserID); err != nil {
			coord.Reject(conn, err)
			coord.Disconnect(conn)
			_ = sock.Close()
			return
		}

		client := &Client{sock: sock, conn: conn, coord: coord}
		go client.writePump()
		client.readPump()
	}
}

func (c *Client) readPump() {
	defer func() {
		c.coord.Disconnect(c.conn)
		_ = c.sock.Close()
	}()
	c.sock.SetReadLimit(1 << 20) // 1MB
	c.sock.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.sock.SetPongHandler(func(string) error {
		c.sock.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})
	for {
		_, data, err := c.sock.ReadMessage()
		if err != nil {
			break
		}
		var cmd Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			continue
		}
		if !c.dispatch(cmd) {
			break
		}
	}
}

// dispatch 执行一条命令。返回 false 表示会话状态已损坏，连接必须关闭。
func (c *Client) dispatch(cmd Command) bool {
	var err error
	switch cmd.Type {
	case "join_room":
		err = c.coord.JoinRoom(c.conn, cmd.RoomID)
	case "send_message":
		err = c.coord.SendMessage(c.conn, cmd.Content)
	case "typing":
		err = c.coord.Typing(c.conn, cmd.IsTyping)
	case "leave_room":
		err = c.coord.LeaveRoom(c.conn)
	default:
		return true
	}
	if err == nil {
		return true
	}
	if chat.Fatal(err) {
		log.Error().Err(err).Str("conn_id", c.conn.ID()).Msg("session state corrupted")
		return false
	}
	c.coord.Reject(c.conn, err)
	return true
}

func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		_ = c.sock.Close()
	}()
	for {
		select {
		case message, ok := <-c.conn.Events():
			c.sock.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				_ = c.sock.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			w, err := c.sock.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			_, _ = w.Write(message)
			_ = w.Close()
		case <-ticker.C:
			c.sock.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.sock.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
