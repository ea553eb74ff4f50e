package network

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/cbodonnell/pong/pkg/log"
	"github.com/cbodonnell/pong/pkg/messages"
	"github.com/cbodonnell/pong/pkg/state"
	"github.com/cbodonnell/pong/pkg/version"
	"github.com/gorilla/mux"
	"nhooyr.io/websocket"
)

// ConnectHandler registers an accepted connection.
type ConnectHandler func(ctx context.Context, conn *websocket.Conn, codec messages.Codec) (*Client, error)

// DisconnectHandler is called once when a registered connection ends.
type DisconnectHandler func(client *Client)

// MessageHandler is called for every decoded message, in arrival order.
type MessageHandler func(ctx context.Context, client *Client, message *messages.Message)

// WSServer represents a WebSocket server.
type WSServer struct {
	port              int
	tls               *TLSConfig
	router            *mux.Router
	originPatterns    []string
	stateManager      state.StateManager
	connectHandler    ConnectHandler
	disconnectHandler DisconnectHandler
	messageHandler    MessageHandler
}

type TLSConfig struct {
	CertFile string
	KeyFile  string
}

type NewWSServerOptions struct {
	Port int
	TLS  *TLSConfig
	// StaticDir is served at / when set
	StaticDir string
	// OriginPatterns are the cross origin hosts allowed to connect
	OriginPatterns []string
	// StateManager is served at /status when set
	StateManager      state.StateManager
	ConnectHandler    ConnectHandler
	DisconnectHandler DisconnectHandler
	MessageHandler    MessageHandler
}

// NewWSServer creates a new WebSocket server.
func NewWSServer(opts NewWSServerOptions) *WSServer {
	s := &WSServer{
		port:              opts.Port,
		tls:               opts.TLS,
		originPatterns:    opts.OriginPatterns,
		stateManager:      opts.StateManager,
		connectHandler:    opts.ConnectHandler,
		disconnectHandler: opts.DisconnectHandler,
		messageHandler:    opts.MessageHandler,
	}

	router := mux.NewRouter()
	router.HandleFunc("/ws", s.handleWS).Methods(http.MethodGet)
	router.HandleFunc("/healthz", handleHealthz).Methods(http.MethodGet)
	if opts.StateManager != nil {
		router.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	}
	if opts.StaticDir != "" {
		router.PathPrefix("/").Handler(http.FileServer(http.Dir(opts.StaticDir)))
	}
	s.router = router

	return s
}

// Handler returns the HTTP handler serving every route.
func (s *WSServer) Handler() http.Handler {
	return s.router
}

// Start starts the WebSocket server and blocks until ctx is done or the
// listener fails. Connections are closed when ctx is done.
func (s *WSServer) Start(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	server := &http.Server{
		Addr:    addr,
		Handler: s.router,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		<-ctx.Done()
		server.Shutdown(context.Background())
	}()

	var listenAndServe func() error
	if s.tls != nil {
		log.Info("WebSocket server listening on %s with TLS", addr)
		listenAndServe = func() error {
			return server.ListenAndServeTLS(s.tls.CertFile, s.tls.KeyFile)
		}
	} else {
		log.Info("WebSocket server listening on %s", addr)
		listenAndServe = server.ListenAndServe
	}
	if err := listenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			log.Info("WebSocket server closed")
			return nil
		}
		return fmt.Errorf("WebSocket server error: %v", err)
	}
	return nil
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"version": version.Get(),
	}); err != nil {
		log.Error("Failed to encode health response: %v", err)
	}
}

func (s *WSServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.stateManager.Get(r.Context())
	if err != nil {
		log.Error("Failed to get match status: %v", err)
		http.Error(w, "failed to get match status", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(status); err != nil {
		log.Error("Failed to encode match status: %v", err)
	}
}

// handleWS upgrades the request and runs the read loop for the connection
// until it closes.
func (s *WSServer) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		Subprotocols:   messages.Subprotocols(),
		OriginPatterns: s.originPatterns,
	})
	if err != nil {
		log.Error("Failed to upgrade to WebSocket: %v", err)
		return
	}
	conn.SetReadLimit(messages.MessageBufferSize)
	log.Debug("New WebSocket connection from %s using %q", r.RemoteAddr, conn.Subprotocol())

	codec, err := messages.CodecForSubprotocol(conn.Subprotocol())
	if err != nil {
		log.Error("Failed to select codec: %v", err)
		conn.Close(websocket.StatusProtocolError, "unsupported subprotocol")
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	client, err := s.connectHandler(ctx, conn, codec)
	if err != nil {
		log.Error("Failed to connect client from %s: %v", r.RemoteAddr, err)
		conn.Close(websocket.StatusTryAgainLater, "server busy")
		return
	}
	defer func() {
		s.disconnectHandler(client)
		conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		_, b, err := conn.Read(ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway, websocket.StatusTryAgainLater:
				log.Debug("Client %s closed the connection", client.ID)
			default:
				if ctx.Err() == nil {
					log.Debug("Connection closed for client %s: %v", client.ID, err)
				}
			}
			return
		}

		message, err := client.Codec.Decode(b)
		if err != nil {
			log.Warn("Dropping undecodable frame from client %s: %v", client.ID, err)
			continue
		}

		s.messageHandler(ctx, client, message)
	}
}
