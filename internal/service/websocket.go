package service

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"pong_web/internal/game"
)

// Client 代表一個 WebSocket 客戶端連接
type Client struct {
	Conn     *websocket.Conn // WebSocket 連接
	UserID   uint            // 用戶 ID
	RoomID   string          // 觀看或參與的比賽房間 ID
	SendChan chan []byte     // 消息發送通道，用於異步傳送消息
}

// clientMessage 是客戶端送進來的指令，目前只有球拍方向一種
type clientMessage struct {
	Type      string `json:"type"`
	Direction int8   `json:"direction"`
}

// serverMessage 是廣播給客戶端的事件外層
type serverMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// WebSocketManager 管理所有的 WebSocket 連接，把引擎的事件
// 廣播給房間內的客戶端，並把客戶端的球拍指令交回服務層
type WebSocketManager struct {
	clients    map[string]map[*Client]bool // 兩層 map: roomID -> client -> bool
	clientsMux sync.RWMutex                // 用於保護 clients map 的讀寫鎖

	// 由服務層在初始化時掛上的回調
	OnPaddle     func(roomID string, userID uint, direction game.PaddleDirective)
	OnDisconnect func(roomID string, userID uint)
}

// NewWebSocketManager 創建並初始化新的 WebSocket 管理器
func NewWebSocketManager() *WebSocketManager {
	return &WebSocketManager{
		clients: make(map[string]map[*Client]bool),
	}
}

// HandleConnection 處理新的 WebSocket 連接請求，阻塞直到連接關閉
func (m *WebSocketManager) HandleConnection(conn *websocket.Conn, roomID string, userID uint) {
	client := &Client{
		Conn:     conn,
		UserID:   userID,
		RoomID:   roomID,
		SendChan: make(chan []byte, 256), // 設置緩衝大小為 256 的消息通道
	}

	m.addClient(client)

	// 確保連接關閉時清理資源。SendChan 由 removeClient 負責關閉
	defer func() {
		m.removeClient(client)
		conn.Close()
		if m.OnDisconnect != nil {
			m.OnDisconnect(roomID, userID)
		}
	}()

	// 啟動讀寫處理
	go m.writePump(client)
	m.readPump(client)
}

// readPump 持續監聽客戶端傳來的球拍指令
func (m *WebSocketManager) readPump(client *Client) {
	client.Conn.SetReadLimit(512) // 球拍指令很小，限制消息大小
	client.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	client.Conn.SetPongHandler(func(string) error {
		client.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("websocket unexpected close error: %v", err)
			}
			break
		}

		var msg clientMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Printf("message parse error: %v", err)
			continue
		}

		if msg.Type == "paddle" && m.OnPaddle != nil {
			m.OnPaddle(client.RoomID, client.UserID, game.PaddleDirective(msg.Direction))
		}
	}
}

// writePump 處理向客戶端發送消息的邏輯
func (m *WebSocketManager) writePump(client *Client) {
	// 設置心跳檢查計時器
	ticker := time.NewTicker(54 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-client.SendChan:
			// 設置寫入超時
			client.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			// 發送心跳包
			client.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// BroadcastEvent 把一則引擎事件廣播給房間內的所有客戶端
func (m *WebSocketManager) BroadcastEvent(roomID string, eventType string, payload interface{}) {
	b, err := json.Marshal(serverMessage{Type: eventType, Data: payload})
	if err != nil {
		log.Printf("event encoding error: %v", err)
		return
	}

	// 持有讀鎖期間進行遍歷與發送：關閉 SendChan 需要寫鎖，
	// 因此不會發送到已關閉的隊列
	var full []*Client
	m.clientsMux.RLock()
	for client := range m.clients[roomID] {
		select {
		case client.SendChan <- b:
			// 消息成功加入發送隊列
		default:
			// 客戶端消息隊列已滿，稍後移除
			full = append(full, client)
		}
	}
	m.clientsMux.RUnlock()

	// 移除需要寫鎖，必須在釋放讀鎖之後進行
	for _, client := range full {
		m.removeClient(client)
		client.Conn.Close()
	}
}

// addClient 安全地添加新的客戶端連接
func (m *WebSocketManager) addClient(client *Client) {
	m.clientsMux.Lock()
	defer m.clientsMux.Unlock()

	if m.clients[client.RoomID] == nil {
		m.clients[client.RoomID] = make(map[*Client]bool)
	}
	m.clients[client.RoomID][client] = true
}

// removeClient 安全地移除客戶端連接，並關閉它的發送隊列通知 writePump 結束。
// SendChan 只會在這裡關閉一次：關閉持有寫鎖，與廣播的讀鎖互斥
func (m *WebSocketManager) removeClient(client *Client) {
	m.clientsMux.Lock()
	defer m.clientsMux.Unlock()

	clients, ok := m.clients[client.RoomID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		// 已被移除過，避免重複關閉
		return
	}
	delete(clients, client)
	close(client.SendChan)
	// 如果房間空了，刪除房間
	if len(clients) == 0 {
		delete(m.clients, client.RoomID)
	}
}

// GetRoomClients 獲取指定房間的在線客戶端數量
func (m *WebSocketManager) GetRoomClients(roomID string) int {
	m.clientsMux.RLock()
	defer m.clientsMux.RUnlock()

	return len(m.clients[roomID])
}
