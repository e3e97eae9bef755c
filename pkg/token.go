package pkg

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/form3tech-oss/jwt-go"
)

var ErrInvalidToken = errors.New("invalid player token")

// PlayerClaims identify one seat in one room.
type PlayerClaims struct {
	RoomId   string
	PlayerId string
}

// IssuePlayerToken signs a seat token the client presents when it reconnects.
func IssuePlayerToken(secret string, ttl time.Duration, roomId, playerId string) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)
	claims["room_id"] = roomId
	claims["player_id"] = playerId
	claims["exp"] = time.Now().Add(ttl).Unix()
	return token.SignedString([]byte(secret))
}

func ParsePlayerToken(secret, raw string) (PlayerClaims, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return PlayerClaims{}, ErrInvalidToken
	}
	return ClaimsFromToken(token)
}

// ClaimsFromToken reads the seat out of an already verified token.
func ClaimsFromToken(token *jwt.Token) (PlayerClaims, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return PlayerClaims{}, ErrInvalidToken
	}
	roomId, _ := claims["room_id"].(string)
	playerId, _ := claims["player_id"].(string)
	if roomId == "" || playerId == "" {
		return PlayerClaims{}, ErrInvalidToken
	}
	return PlayerClaims{RoomId: roomId, PlayerId: playerId}, nil
}
