package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"stockk_backend/config"
	"stockk_backend/schemas"
)

const (
	maxBoardClients   = 100
	boardWriteTimeout = 10 * time.Second
	boardPongTimeout  = 60 * time.Second
	boardPingInterval = 30 * time.Second
)

// boardGroups are the SSI group slugs polled on every sync
var boardGroups = []string{"hose", "hnx", "upcom"}

// ssiBoardRow is one row of the SSI group price feed
type ssiBoardRow struct {
	SS   string  `json:"ss"`   // symbol
	ST   string  `json:"st"`   // exchange slug
	RP   float64 `json:"rp"`   // reference price
	CP   float64 `json:"cp"`   // ceiling price
	FP   float64 `json:"fp"`   // floor price
	OP   float64 `json:"op"`   // open price
	HP   float64 `json:"hp"`   // highest price
	LP   float64 `json:"lp"`   // lowest price
	MP   float64 `json:"mp"`   // match price
	CG   float64 `json:"cg"`   // change
	PCT  float64 `json:"pct"`  // percent change
	TVOL float64 `json:"tvol"` // total volume
	TVAL float64 `json:"tval"` // total value
}

type ssiBoardResponse struct {
	Data []ssiBoardRow `json:"data"`
}

// boardClient is one connected WebSocket subscriber
type boardClient struct {
	conn       *websocket.Conn
	send       chan []byte
	subscribed map[string]bool
	mu         sync.RWMutex
}

// PriceBoardService polls the SSI price board and streams snapshots to
// WebSocket subscribers. HTTP callers read the latest cached snapshot.
type PriceBoardService struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	upgrader   websocket.Upgrader

	clients    map[*boardClient]bool
	register   chan *boardClient
	unregister chan *boardClient
	broadcast  chan []byte
	shutdown   chan struct{}
	mu         sync.RWMutex

	snapshot   *schemas.BoardSnapshot
	snapshotMu sync.RWMutex
}

// NewPriceBoardService creates the price-board streamer and starts its hub
func NewPriceBoardService(cfg *config.Config, logger *zap.Logger) *PriceBoardService {
	s := &PriceBoardService{
		baseURL:    cfg.SSIPriceBoardURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients:    make(map[*boardClient]bool),
		register:   make(chan *boardClient),
		unregister: make(chan *boardClient),
		broadcast:  make(chan []byte, 256),
		shutdown:   make(chan struct{}),
	}
	go s.run()
	return s
}

// Shutdown closes all subscriber connections and stops the hub
func (s *PriceBoardService) Shutdown() {
	close(s.shutdown)

	s.mu.Lock()
	for client := range s.clients {
		close(client.send)
		client.conn.Close()
	}
	s.clients = make(map[*boardClient]bool)
	s.mu.Unlock()
}

// run is the hub loop. All client map mutation happens here.
func (s *PriceBoardService) run() {
	for {
		select {
		case <-s.shutdown:
			return

		case client := <-s.register:
			s.mu.Lock()
			if len(s.clients) >= maxBoardClients {
				s.mu.Unlock()
				client.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "server at capacity"))
				client.conn.Close()
				s.logger.Warn("price board client rejected, max clients reached",
					zap.Int("max", maxBoardClients))
				continue
			}
			s.clients[client] = true
			count := len(s.clients)
			s.mu.Unlock()
			s.logger.Debug("price board client connected", zap.Int("clients", count))

		case client := <-s.unregister:
			s.mu.Lock()
			if _, ok := s.clients[client]; ok {
				delete(s.clients, client)
				close(client.send)
			}
			count := len(s.clients)
			s.mu.Unlock()
			s.logger.Debug("price board client disconnected", zap.Int("clients", count))

		case data := <-s.broadcast:
			s.mu.Lock()
			var dead []*boardClient
			for client := range s.clients {
				select {
				case client.send <- data:
				default:
					// buffer full, drop the client
					dead = append(dead, client)
				}
			}
			for _, client := range dead {
				delete(s.clients, client)
				close(client.send)
			}
			s.mu.Unlock()
		}
	}
}

// fetchGroup pulls one exchange group from the SSI price board
func (s *PriceBoardService) fetchGroup(ctx context.Context, group string) ([]ssiBoardRow, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+group, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create price board request: %w", err)
	}
	browserHeaders(req)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch price board group %s: %w", group, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Message: string(body)}
	}

	var board ssiBoardResponse
	if err := json.NewDecoder(resp.Body).Decode(&board); err != nil {
		return nil, fmt.Errorf("failed to parse price board group %s: %w", group, err)
	}
	return board.Data, nil
}

// Sync refreshes the cached snapshot from all exchange groups and pushes
// the result to connected subscribers. A failed group is logged and the
// remaining groups still sync.
func (s *PriceBoardService) Sync(ctx context.Context) error {
	var prices []schemas.BoardPrice
	var lastErr error
	for _, group := range boardGroups {
		rows, err := s.fetchGroup(ctx, group)
		if err != nil {
			s.logger.Warn("price board group sync failed",
				zap.String("group", group), zap.Error(err))
			lastErr = err
			continue
		}
		for _, row := range rows {
			prices = append(prices, schemas.BoardPrice{
				Ticker:        row.SS,
				Exchange:      strings.ToUpper(row.ST),
				RefPrice:      decimal.NewFromFloat(row.RP),
				CeilingPrice:  decimal.NewFromFloat(row.CP),
				FloorPrice:    decimal.NewFromFloat(row.FP),
				OpenPrice:     decimal.NewFromFloat(row.OP),
				HighestPrice:  decimal.NewFromFloat(row.HP),
				LowestPrice:   decimal.NewFromFloat(row.LP),
				MatchPrice:    decimal.NewFromFloat(row.MP),
				Change:        decimal.NewFromFloat(row.CG),
				ChangePercent: decimal.NewFromFloat(row.PCT),
				TotalVolume:   decimal.NewFromFloat(row.TVOL),
				TotalValue:    decimal.NewFromFloat(row.TVAL),
			})
		}
	}
	if len(prices) == 0 && lastErr != nil {
		return lastErr
	}

	snapshot := &schemas.BoardSnapshot{SyncedAt: time.Now(), Prices: prices}
	s.snapshotMu.Lock()
	s.snapshot = snapshot
	s.snapshotMu.Unlock()

	if data, err := json.Marshal(snapshot); err == nil {
		select {
		case s.broadcast <- data:
		default:
			s.logger.Warn("price board broadcast channel full, snapshot dropped")
		}
	}

	s.logger.Debug("price board synced", zap.Int("rows", len(prices)))
	return nil
}

// Snapshot returns the latest cached board, optionally filtered to a
// symbol set. Returns nil before the first successful sync.
func (s *PriceBoardService) Snapshot(symbols []string) *schemas.BoardSnapshot {
	s.snapshotMu.RLock()
	snapshot := s.snapshot
	s.snapshotMu.RUnlock()
	if snapshot == nil || len(symbols) == 0 {
		return snapshot
	}

	wanted := make(map[string]struct{}, len(symbols))
	for _, symbol := range symbols {
		wanted[strings.ToUpper(strings.TrimSpace(symbol))] = struct{}{}
	}
	filtered := &schemas.BoardSnapshot{SyncedAt: snapshot.SyncedAt}
	for _, price := range snapshot.Prices {
		if _, ok := wanted[price.Ticker]; ok {
			filtered.Prices = append(filtered.Prices, price)
		}
	}
	return filtered
}

// HandleWS upgrades the request and attaches the client to the hub
func (s *PriceBoardService) HandleWS(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	atCapacity := len(s.clients) >= maxBoardClients
	s.mu.RUnlock()
	if atCapacity {
		http.Error(w, "server at capacity", http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &boardClient{
		conn:       conn,
		send:       make(chan []byte, 256),
		subscribed: make(map[string]bool),
	}
	s.register <- client

	// Send the current snapshot immediately so new subscribers do not
	// wait for the next sync tick.
	if snapshot := s.Snapshot(nil); snapshot != nil {
		if data, err := json.Marshal(snapshot); err == nil {
			client.send <- data
		}
	}

	go client.writePump()
	go client.readPump(s)
}

func (c *boardClient) writePump() {
	ticker := time.NewTicker(boardPingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(boardWriteTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(boardWriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *boardClient) readPump(s *PriceBoardService) {
	defer func() {
		s.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(boardPongTimeout))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(boardPongTimeout))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.logger.Debug("websocket read error", zap.Error(err))
			}
			break
		}

		var cmd struct {
			Action  string   `json:"action"`
			Symbols []string `json:"symbols"`
		}
		if err := json.Unmarshal(message, &cmd); err != nil {
			continue
		}

		c.mu.Lock()
		switch cmd.Action {
		case "subscribe":
			for _, symbol := range cmd.Symbols {
				c.subscribed[strings.ToUpper(symbol)] = true
			}
		case "unsubscribe":
			for _, symbol := range cmd.Symbols {
				delete(c.subscribed, strings.ToUpper(symbol))
			}
		}
		c.mu.Unlock()
	}
}
