package socket

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/DedS3t/monopoly-server/app/engine"
	"github.com/DedS3t/monopoly-server/app/models"
	"github.com/DedS3t/monopoly-server/pkg"
	"github.com/DedS3t/monopoly-server/platform/logging"
	"github.com/DedS3t/monopoly-server/platform/rooms"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const namespace = "/"

var (
	errNotSeated   = errors.New("join or create a room first")
	errSlowDown    = errors.New("too many actions, slow down")
	errBadPayload  = errors.New("malformed request")
	errSeatInvalid = errors.New("this seat does not belong to you")
)

// Conn is the part of a socket.io connection the handler talks to.
type Conn interface {
	ID() string
	Emit(event string, v ...interface{})
	Join(room string)
	Leave(room string)
	Context() interface{}
	SetContext(v interface{})
}

type Broadcaster interface {
	BroadcastToRoom(namespace string, room, event string, args ...interface{}) bool
}

type HandlerConfig struct {
	Secret           string
	TokenTTL         time.Duration
	ActionsPerSecond float64
	ActionBurst      int
}

// session is stored in the connection context.
type session struct {
	roomId   string
	playerId string
	limiter  *rate.Limiter
}

// Handler maps socket events onto room actions and fans the results out.
type Handler struct {
	rooms *rooms.Manager
	out   Broadcaster
	cfg   HandlerConfig
}

func NewHandler(manager *rooms.Manager, out Broadcaster, cfg HandlerConfig) *Handler {
	return &Handler{rooms: manager, out: out, cfg: cfg}
}

type createRoomDto struct {
	Name     string                 `json:"name"`
	Settings map[string]interface{} `json:"settings"`
}

type joinRoomDto struct {
	RoomId string `json:"room_id"`
	Name   string `json:"name"`
}

type reconnectDto struct {
	RoomId   string `json:"room_id"`
	PlayerId string `json:"player_id"`
	Token    string `json:"token"`
}

type propertyDto struct {
	PropertyId string `json:"property_id"`
}

type joinedDto struct {
	RoomId   string `json:"room_id"`
	PlayerId string `json:"player_id"`
	Token    string `json:"token"`
}

func (h *Handler) Connect(s Conn) error {
	s.SetContext(&session{
		limiter: rate.NewLimiter(rate.Limit(h.cfg.ActionsPerSecond), h.cfg.ActionBurst),
	})
	log.WithField("conn", s.ID()).Debug("socket connected")
	return nil
}

func (h *Handler) Disconnect(s Conn, reason string) {
	sess := sessionOf(s)
	log.WithFields(log.Fields{"conn": s.ID(), "reason": reason}).Debug("socket disconnected")
	h.leave(s, sess)
}

func (h *Handler) CreateRoom(s Conn, msg string) {
	sess, ok := h.admit(s, "create-room")
	if !ok {
		return
	}
	var dto createRoomDto
	if err := decode(msg, &dto); err != nil {
		h.fail(s, "create-room", err)
		return
	}
	room, host, err := h.rooms.Create(dto.Name, dto.Settings)
	if err != nil {
		h.fail(s, "create-room", err)
		return
	}
	h.seat(s, sess, room, host.Id)
}

func (h *Handler) JoinRoom(s Conn, msg string) {
	sess, ok := h.admit(s, "join-room")
	if !ok {
		return
	}
	var dto joinRoomDto
	if err := decode(msg, &dto); err != nil {
		h.fail(s, "join-room", err)
		return
	}
	room, err := h.rooms.Get(dto.RoomId)
	if err != nil {
		h.fail(s, "join-room", err)
		return
	}
	var player models.Player
	u, err := room.Do(func(g *engine.Game) (err error) {
		player, err = g.AddPlayer(dto.Name)
		return err
	})
	if err != nil {
		h.fail(s, "join-room", err)
		return
	}
	h.broadcast(room.Id(), u)
	h.seat(s, sess, room, player.Id)
}

func (h *Handler) Reconnect(s Conn, msg string) {
	sess, ok := h.admit(s, "reconnect")
	if !ok {
		return
	}
	var dto reconnectDto
	if err := decode(msg, &dto); err != nil {
		h.fail(s, "reconnect", err)
		return
	}
	claims, err := pkg.ParsePlayerToken(h.cfg.Secret, dto.Token)
	if err != nil || claims.RoomId != dto.RoomId || claims.PlayerId != dto.PlayerId {
		h.fail(s, "reconnect", errSeatInvalid)
		return
	}
	room, err := h.rooms.Get(dto.RoomId)
	if err != nil {
		h.fail(s, "reconnect", err)
		return
	}
	h.seat(s, sess, room, dto.PlayerId)
}

func (h *Handler) StartGame(s Conn) {
	h.act(s, "start-game", func(g *engine.Game, playerId string) error {
		return g.Start(playerId)
	})
}

func (h *Handler) FinishGame(s Conn) {
	h.act(s, "finish-game", func(g *engine.Game, playerId string) error {
		return g.FinishByNetWorth(playerId)
	})
}

func (h *Handler) RollDice(s Conn) {
	var roll models.DiceRoll
	h.act(s, "roll-dice", func(g *engine.Game, playerId string) (err error) {
		roll, err = g.RollDice(playerId)
		return err
	}, func(roomId string) {
		h.emitRoom(roomId, "dice-rolled", roll)
	})
}

func (h *Handler) BuyProperty(s Conn, msg string) {
	sess, ok := h.admit(s, "buy-property")
	if !ok {
		return
	}
	var dto propertyDto
	if err := decode(msg, &dto); err != nil {
		h.fail(s, "buy-property", err)
		return
	}
	h.apply(s, sess, "buy-property", func(g *engine.Game, playerId string) error {
		return g.BuyProperty(playerId, dto.PropertyId)
	})
}

func (h *Handler) PassPurchase(s Conn) {
	h.act(s, "pass-purchase", func(g *engine.Game, playerId string) error {
		return g.PassPurchase(playerId)
	})
}

func (h *Handler) UpgradeProperty(s Conn, msg string) {
	sess, ok := h.admit(s, "upgrade-property")
	if !ok {
		return
	}
	var dto propertyDto
	if err := decode(msg, &dto); err != nil {
		h.fail(s, "upgrade-property", err)
		return
	}
	h.apply(s, sess, "upgrade-property", func(g *engine.Game, playerId string) error {
		return g.UpgradeProperty(playerId, dto.PropertyId)
	})
}

func (h *Handler) EndTurn(s Conn) {
	h.act(s, "end-turn", func(g *engine.Game, playerId string) error {
		return g.EndTurn(playerId)
	})
}

func (h *Handler) PayBail(s Conn) {
	h.act(s, "pay-bail", func(g *engine.Game, playerId string) error {
		return g.PayBail(playerId)
	})
}

func (h *Handler) Error(s Conn, err error) {
	entry := log.WithError(err)
	if s != nil {
		entry = entry.WithField("conn", s.ID())
	}
	entry.Warn("socket error")
}

// act runs one seated player's action. before hooks fire ahead of the state broadcast.
func (h *Handler) act(s Conn, event string, fn func(g *engine.Game, playerId string) error, before ...func(roomId string)) {
	sess, ok := h.admit(s, event)
	if !ok {
		return
	}
	h.apply(s, sess, event, fn, before...)
}

// apply is act for callers that already passed admit.
func (h *Handler) apply(s Conn, sess *session, event string, fn func(g *engine.Game, playerId string) error, before ...func(roomId string)) {
	if sess.roomId == "" {
		h.fail(s, event, errNotSeated)
		return
	}
	room, err := h.rooms.Get(sess.roomId)
	if err != nil {
		h.fail(s, event, err)
		return
	}
	u, err := room.Do(func(g *engine.Game) error { return fn(g, sess.playerId) })
	if err != nil {
		h.fail(s, event, err)
		return
	}
	for _, hook := range before {
		hook(room.Id())
	}
	h.broadcast(room.Id(), u)
}

func (h *Handler) admit(s Conn, event string) (*session, bool) {
	sess := sessionOf(s)
	if !sess.limiter.Allow() {
		h.fail(s, event, errSlowDown)
		return nil, false
	}
	return sess, true
}

func (h *Handler) seat(s Conn, sess *session, room *rooms.Room, playerId string) {
	if sess.roomId == room.Id() && sess.playerId == playerId {
		h.fail(s, "seat", fmt.Errorf("%w: already seated", engine.ErrInvalidTarget))
		return
	}
	u, err := room.Attach(playerId)
	if err != nil {
		h.fail(s, "seat", err)
		return
	}
	h.leave(s, sess)

	token, err := pkg.IssuePlayerToken(h.cfg.Secret, h.cfg.TokenTTL, room.Id(), playerId)
	if err != nil {
		logging.Room(room.Id()).WithError(err).Error("failed to sign player token")
	}
	sess.roomId, sess.playerId = room.Id(), playerId
	s.Join(room.Id())
	s.Emit("joined", encode(joinedDto{RoomId: room.Id(), PlayerId: playerId, Token: token}))
	h.broadcast(room.Id(), u)

	logging.Room(room.Id()).WithFields(log.Fields{"player": playerId, "conn": s.ID()}).Info("player seated")
}

func (h *Handler) leave(s Conn, sess *session) {
	if sess.roomId == "" {
		return
	}
	roomId, playerId := sess.roomId, sess.playerId
	sess.roomId, sess.playerId = "", ""
	s.Leave(roomId)

	room, err := h.rooms.Get(roomId)
	if err != nil {
		return
	}
	u, err := room.Detach(playerId)
	if err != nil {
		logging.Room(roomId).WithError(err).WithField("player", playerId).Warn("failed to detach player")
		return
	}
	h.broadcast(roomId, u)
}

func (h *Handler) broadcast(roomId string, u rooms.Update) {
	if len(u.Log) > 0 {
		h.emitRoom(roomId, "log", u.Log)
	}
	h.emitRoom(roomId, "state", u.Snapshot)
}

func (h *Handler) emitRoom(roomId, event string, v interface{}) {
	h.out.BroadcastToRoom(namespace, roomId, event, encode(v))
}

func (h *Handler) fail(s Conn, event string, err error) {
	sess := sessionOf(s)
	logging.Room(sess.roomId).WithFields(log.Fields{
		"player": sess.playerId,
		"event":  event,
	}).WithError(err).Debug("action rejected")
	s.Emit("error-message", err.Error())
}

func sessionOf(s Conn) *session {
	if sess, ok := s.Context().(*session); ok {
		return sess
	}
	sess := &session{limiter: rate.NewLimiter(rate.Inf, 0)}
	s.SetContext(sess)
	return sess
}

func decode(msg string, v interface{}) error {
	if msg == "" {
		return errBadPayload
	}
	if err := json.Unmarshal([]byte(msg), v); err != nil {
		return errBadPayload
	}
	return nil
}

func encode(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		log.WithError(err).Error("failed to encode socket payload")
		return "{}"
	}
	return string(data)
}
