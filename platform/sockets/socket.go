package socket

import (
	"context"
	"errors"
	"net/http"

	"github.com/DedS3t/monopoly-server/platform/config"
	"github.com/DedS3t/monopoly-server/platform/rooms"
	socketio "github.com/googollee/go-socket.io"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
)

// NewServer builds a socket.io server with every game event registered.
func NewServer(cfg config.Config, manager *rooms.Manager) (*socketio.Server, error) {
	server, err := socketio.NewServer(nil)
	if err != nil {
		return nil, err
	}
	h := NewHandler(manager, server, HandlerConfig{
		Secret:           cfg.JWTSecret,
		TokenTTL:         cfg.TokenTTL,
		ActionsPerSecond: cfg.ActionsPerSecond,
		ActionBurst:      cfg.ActionBurst,
	})

	server.OnConnect(namespace, func(s socketio.Conn) error { return h.Connect(s) })

	server.OnEvent(namespace, "create-room", func(s socketio.Conn, msg string) { h.CreateRoom(s, msg) })
	server.OnEvent(namespace, "join-room", func(s socketio.Conn, msg string) { h.JoinRoom(s, msg) })
	server.OnEvent(namespace, "reconnect", func(s socketio.Conn, msg string) { h.Reconnect(s, msg) })
	server.OnEvent(namespace, "start-game", func(s socketio.Conn) { h.StartGame(s) })
	server.OnEvent(namespace, "finish-game", func(s socketio.Conn) { h.FinishGame(s) })
	server.OnEvent(namespace, "roll-dice", func(s socketio.Conn) { h.RollDice(s) })
	server.OnEvent(namespace, "buy-property", func(s socketio.Conn, msg string) { h.BuyProperty(s, msg) })
	server.OnEvent(namespace, "pass-purchase", func(s socketio.Conn) { h.PassPurchase(s) })
	server.OnEvent(namespace, "upgrade-property", func(s socketio.Conn, msg string) { h.UpgradeProperty(s, msg) })
	server.OnEvent(namespace, "end-turn", func(s socketio.Conn) { h.EndTurn(s) })
	server.OnEvent(namespace, "pay-bail", func(s socketio.Conn) { h.PayBail(s) })

	server.OnError(namespace, func(s socketio.Conn, e error) { h.Error(s, e) })
	server.OnDisconnect(namespace, func(s socketio.Conn, reason string) { h.Disconnect(s, reason) })

	return server, nil
}

// CreateSocketIOServer serves the game events on cfg.SocketAddr until ctx is done.
func CreateSocketIOServer(ctx context.Context, cfg config.Config, manager *rooms.Manager) error {
	server, err := NewServer(cfg, manager)
	if err != nil {
		return err
	}
	go func() {
		if err := server.Serve(); err != nil {
			log.WithError(err).Error("socket.io server stopped")
		}
	}()
	defer server.Close()

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
	})
	mux := http.NewServeMux()
	mux.Handle("/socket.io/", server)

	srv := &http.Server{Addr: cfg.SocketAddr, Handler: c.Handler(mux)}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	log.WithField("addr", cfg.SocketAddr).Info("socket.io listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
