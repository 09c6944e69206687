// Brainbox
//
// Three single-player mini-games (memory matching, spelling, arithmetic)
// sharing one scoreboard and a persisted high-score record. The browser
// only draws; every rule lives server-side in a games.Session.
//
// Features:
// - One session per player cookie, shared by every tab that player opens
// - WebSocket at /ws carries player actions in and state/feedback out
// - Memory pairs resolve server-side after a configurable reveal delay
// - Inbound messages are validated before they reach the game rules
// - Sessions auto-reaped after a configurable idle timeout
// - In-browser QR button to open the suite on another device, backed by go-qrcode

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"

	"github.com/Seednode/brainbox/games"
)

// Messages coming from clients
type ClientMessage struct {
	Type       string `json:"type" validate:"required,max=32"`                                  // "select", "difficulty", "flip", "spelling_answer", "math_answer", "speak"
	Game       string `json:"game,omitempty" validate:"omitempty,oneof=memory spelling math"`   // select / difficulty
	Difficulty string `json:"difficulty,omitempty" validate:"omitempty,oneof=easy medium hard"` // difficulty
	Index      *int   `json:"index,omitempty" validate:"omitempty,min=0,max=99"`                // flip
	Answer     string `json:"answer,omitempty" validate:"max=64"`                               // spelling_answer / math_answer
}

// SessionInfoMessage is sent immediately on connect so the client knows
// how long to keep feedback and flipped pairs on screen.
type SessionInfoMessage struct {
	Type          string `json:"type"` // "session_info"
	Version       string `json:"version"`
	FeedbackMS    int64  `json:"feedback_ms"`
	RevealMS      int64  `json:"reveal_ms"`
	IsReconnect   bool   `json:"is_reconnect"`
	ActiveClients int    `json:"active_clients"`
}

// StateMessage carries the full session state after every change.
type StateMessage struct {
	Type  string         `json:"type"` // "state"
	State games.Snapshot `json:"state"`
}

// FeedbackMessage asks the client to show a banner, cleared after ClearAfterMS.
type FeedbackMessage struct {
	Type string `json:"type"` // "feedback"
	games.Feedback
	ClearAfterMS int64 `json:"clear_after_ms"`
}

// SpeakMessage hands the spelling word to the requesting client for speech playback.
type SpeakMessage struct {
	Type string `json:"type"` // "speak"
	Word string `json:"word"`
}

// SimpleMessage is for generic notifications ("error")
type SimpleMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s is %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}

type Client struct {
	conn     *websocket.Conn
	send     chan any
	playerID string
}

type clientAction struct {
	client *Client
	msg    ClientMessage
}

// Hub owns one player's session and fans its changes out to every
// connected client of that player. It is the session's renderer.
type Hub struct {
	id      string
	session *games.Session
	clients map[*Client]bool

	register chan *Client
	unreg    chan *Client
	actions  chan clientAction
	quit     chan struct{}
	once     sync.Once

	mu sync.Mutex

	lastActive       time.Time
	connects         int
	feedbackDuration time.Duration
	revealDelay      time.Duration
	logger           *slog.Logger
}

func newHub(cfg *Config, playerID string, high *games.HighScores) *Hub {
	now := time.Now()
	h := &Hub{
		id:               playerID,
		clients:          make(map[*Client]bool),
		register:         make(chan *Client),
		unreg:            make(chan *Client),
		actions:          make(chan clientAction),
		quit:             make(chan struct{}),
		lastActive:       now,
		feedbackDuration: cfg.feedbackDuration,
		revealDelay:      cfg.revealDelay,
		logger:           logger(cfg).With(slog.String("player", playerID)),
	}

	h.session = games.NewSession(high,
		games.WithRevealDelay(cfg.revealDelay),
		games.WithLogger(h.logger),
		games.WithRenderer(h),
	)

	return h
}

func (h *Hub) run(cfg *Config) {
	for {
		select {
		case c := <-h.register:
			// Snapshot before taking h.mu; the session renders while
			// holding its own lock and then takes h.mu.
			snap := h.session.Snapshot()

			h.mu.Lock()
			h.lastActive = time.Now()
			h.connects++
			h.clients[c] = true

			c.send <- SessionInfoMessage{
				Type:          "session_info",
				Version:       releaseVersion,
				FeedbackMS:    h.feedbackDuration.Milliseconds(),
				RevealMS:      h.revealDelay.Milliseconds(),
				IsReconnect:   h.connects > 1,
				ActiveClients: len(h.clients),
			}
			c.send <- StateMessage{
				Type:  "state",
				State: snap,
			}
			h.mu.Unlock()

			logf(cfg, "GAMES: Player %s connected", h.id)

		case c := <-h.unreg:
			h.mu.Lock()
			h.lastActive = time.Now()

			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()

		case a := <-h.actions:
			h.touch()
			h.handleAction(cfg, a)

		case <-h.quit:
			return
		}
	}
}

func (h *Hub) touch() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastActive = time.Now()
}

// handleAction applies one validated client message to the session.
func (h *Hub) handleAction(cfg *Config, a clientAction) {
	msg := a.msg

	if err := validate.Struct(msg); err != nil {
		h.reply(a.client, SimpleMessage{Type: "error", Message: validationMessage(err)})
		return
	}

	switch msg.Type {
	case "select":
		g, err := games.ParseGame(msg.Game)
		if err != nil {
			h.reply(a.client, SimpleMessage{Type: "error", Message: err.Error()})
			return
		}
		_ = h.session.Select(g)

	case "difficulty":
		g, err := games.ParseGame(msg.Game)
		if err != nil {
			h.reply(a.client, SimpleMessage{Type: "error", Message: err.Error()})
			return
		}
		d, err := games.ParseDifficulty(msg.Difficulty)
		if err != nil {
			h.reply(a.client, SimpleMessage{Type: "error", Message: err.Error()})
			return
		}
		_ = h.session.SetDifficulty(g, d)
		logf(cfg, "GAMES: Player %s set %s to %s", h.id, g, d)

	case "flip":
		if msg.Index == nil {
			h.reply(a.client, SimpleMessage{Type: "error", Message: "index is required"})
			return
		}
		err := h.session.Flip(*msg.Index)
		switch {
		case errors.Is(err, games.ErrCardOutOfRange):
			h.reply(a.client, SimpleMessage{Type: "error", Message: err.Error()})
		case err != nil:
			h.logger.Debug("flip rejected", slog.Int("index", *msg.Index), slog.Any("error", err))
		}

	case "spelling_answer":
		out := h.session.CheckSpelling(msg.Answer)
		logf(cfg, "GAMES: Player %s answered spelling (correct: %t, score: %d)", h.id, out.Correct, out.Score)

	case "math_answer":
		out := h.session.CheckMath(msg.Answer)
		logf(cfg, "GAMES: Player %s answered math (correct: %t, score: %d)", h.id, out.Correct, out.Score)

	case "speak":
		h.reply(a.client, SpeakMessage{
			Type: "speak",
			Word: h.session.SpellingTarget(),
		})
	}
}

// Render implements games.Renderer.
func (h *Hub) Render(snap games.Snapshot) {
	h.broadcast(StateMessage{
		Type:  "state",
		State: snap,
	})
}

// Feedback implements games.Renderer.
func (h *Hub) Feedback(f games.Feedback) {
	h.broadcast(FeedbackMessage{
		Type:         "feedback",
		Feedback:     f,
		ClearAfterMS: h.feedbackDuration.Milliseconds(),
	})
}

func (h *Hub) broadcast(msg any) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		select {
		case client.send <- msg:
		default:
			delete(h.clients, client)
			close(client.send)
		}
	}
}

// reply sends msg to a single client only.
func (h *Hub) reply(c *Client, msg any) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; !ok {
		return
	}

	select {
	case c.send <- msg:
	default:
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) submit(a clientAction) bool {
	select {
	case h.actions <- a:
		return true
	case <-h.quit:
		return false
	}
}

// closeAll ends the session and disconnects all clients of this hub (used by reaper).
func (h *Hub) closeAll() {
	h.once.Do(func() {
		close(h.quit)
		h.session.Close()

		h.mu.Lock()
		defer h.mu.Unlock()

		for c := range h.clients {
			close(c.send)
			_ = c.conn.Close()
			delete(h.clients, c)
		}
	})
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

const playerCookieName = "brainbox_id"

func newPlayerCookie() *http.Cookie {
	return &http.Cookie{
		Name:     playerCookieName,
		Value:    uuid.NewString(),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
	}
}

func playerIDFromRequest(r *http.Request) string {
	c, err := r.Cookie(playerCookieName)
	if err != nil {
		return ""
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return ""
	}
	return c.Value
}

func getOrSetPlayerID(w http.ResponseWriter, r *http.Request) string {
	if id := playerIDFromRequest(r); id != "" {
		return id
	}

	cookie := newPlayerCookie()
	http.SetCookie(w, cookie)

	return cookie.Value
}

// SessionManager holds a hub per player ID, so each browser keeps its own
// scores while sharing the server's high-score record.
type SessionManager struct {
	mu          sync.Mutex
	hubs        map[string]*Hub
	high        *games.HighScores
	idleTimeout time.Duration
	done        chan struct{}
	once        sync.Once
}

func newSessionManager(high *games.HighScores, idleTimeout time.Duration) *SessionManager {
	sm := &SessionManager{
		hubs:        make(map[string]*Hub),
		high:        high,
		idleTimeout: idleTimeout,
		done:        make(chan struct{}),
	}
	if idleTimeout > 0 {
		go sm.reaperLoop()
	}
	return sm
}

func (sm *SessionManager) getHub(cfg *Config, playerID string) *Hub {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if hub, ok := sm.hubs[playerID]; ok {
		return hub
	}

	hub := newHub(cfg, playerID, sm.high)
	sm.hubs[playerID] = hub
	go hub.run(cfg)

	logf(cfg, "GAMES: Created session for player %s", playerID)

	return hub
}

func (sm *SessionManager) count() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	return len(sm.hubs)
}

// reap removes hubs that have been idle since before cutoff.
func (sm *SessionManager) reap(cutoff time.Time) int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	reaped := 0
	for id, hub := range sm.hubs {
		hub.mu.Lock()
		last := hub.lastActive
		hub.mu.Unlock()

		if last.Before(cutoff) {
			delete(sm.hubs, id)
			go hub.closeAll()
			reaped++
		}
	}
	return reaped
}

// reaperLoop periodically removes hubs that have been idle longer than idleTimeout.
func (sm *SessionManager) reaperLoop() {
	ticker := time.NewTicker(sm.idleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			sm.reap(time.Now().Add(-sm.idleTimeout))
		case <-sm.done:
			return
		}
	}
}

// Close stops the reaper and ends every session.
func (sm *SessionManager) Close() {
	sm.once.Do(func() {
		close(sm.done)

		sm.mu.Lock()
		defer sm.mu.Unlock()

		for id, hub := range sm.hubs {
			delete(sm.hubs, id)
			hub.closeAll()
		}
	})
}

// WebSocket handler that picks the hub based on the player cookie
func serveWS(cfg *Config, sm *SessionManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		header := http.Header{}

		playerID := playerIDFromRequest(r)
		if playerID == "" {
			cookie := newPlayerCookie()
			header.Add("Set-Cookie", cookie.String())
			playerID = cookie.Value
		}

		hub := sm.getHub(cfg, playerID)

		conn, err := upgrader.Upgrade(w, r, header)
		if err != nil {
			logf(cfg, "ERROR: websocket upgrade from %s: %v", realIP(r), err)
			return
		}

		client := &Client{
			conn:     conn,
			send:     make(chan any, 16),
			playerID: playerID,
		}

		select {
		case hub.register <- client:
		case <-hub.quit:
			_ = conn.Close()
			return
		}

		go client.writePump()
		client.readPump(hub)
	}
}

func (c *Client) readPump(h *Hub) {
	defer func() {
		select {
		case h.unreg <- c:
		case <-h.quit:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(4096)

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Type {
		case "select", "difficulty", "flip", "spelling_answer", "math_answer", "speak":
			if !h.submit(clientAction{client: c, msg: msg}) {
				return
			}
		default:
			// ignore unknown types
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// QR handler: generates a PNG QR code for the suite's URL using go-qrcode.
func qrHandler(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		// Derive scheme (respecting TLS and X-Forwarded-Proto if present).
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}

		url := scheme + "://" + r.Host + cfg.prefix + "/"

		const qrSize = 320 // mobile-friendly size
		png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "qr generation failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-cache")
		securityHeaders(cfg, w)
		_, _ = w.Write(png)
	}
}

// registerBrainbox sets up routes so that:
//   - $prefix/                     → HTML client
//   - $prefix/assets/brainbox/:file → CSS and JS
//   - $prefix/ws                   → WebSocket for the player's session
//   - $prefix/qr                   → PNG QR code for the suite URL
func registerBrainbox(cfg *Config, high *games.HighScores, mux *httprouter.Router, errs chan<- error) *SessionManager {
	sm := newSessionManager(high, cfg.sessionTimeout)

	mux.GET(cfg.prefix+"/", serveHomePage(cfg, errs))

	mux.GET(cfg.prefix+"/assets/brainbox/:file", serveAssets(cfg, errs))

	mux.GET(cfg.prefix+"/ws", serveWS(cfg, sm))

	mux.GET(cfg.prefix+"/qr", qrHandler(cfg))

	return sm
}
