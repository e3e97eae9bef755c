package models

import (
	"encoding/json"
	"fmt"
	"time"
)

type Status string

const (
	StatusLobby    Status = "lobby"
	StatusActive   Status = "active"
	StatusFinished Status = "finished"
)

type DiceRoll struct {
	Die1    int       `json:"die1"`
	Die2    int       `json:"die2"`
	Total   int       `json:"total"`
	Doubles bool      `json:"doubles"`
	At      time.Time `json:"at"`
}

type DecisionKind int

const (
	DecisionNone DecisionKind = iota
	DecisionPurchase
	DecisionUpgrade
)

func (k DecisionKind) String() string {
	switch k {
	case DecisionPurchase:
		return "purchase"
	case DecisionUpgrade:
		return "upgrade"
	default:
		return "none"
	}
}

// Decision is the single pending choice of a turn. The zero value means nothing is pending.
type Decision struct {
	kind   DecisionKind
	tileId string
}

func AwaitPurchase(tileId string) Decision {
	return Decision{kind: DecisionPurchase, tileId: tileId}
}

func AwaitUpgrade(tileId string) Decision {
	return Decision{kind: DecisionUpgrade, tileId: tileId}
}

func (d Decision) Kind() DecisionKind { return d.kind }

func (d Decision) TileId() string { return d.tileId }

// Purchase reports the tile awaiting a buy/pass decision.
func (d Decision) Purchase() (string, bool) {
	return d.TileId(), d.Kind() == DecisionPurchase
}

// Upgrade reports the tile with an outstanding upgrade offer.
func (d Decision) Upgrade() (string, bool) {
	return d.TileId(), d.Kind() == DecisionUpgrade
}

func (d Decision) String() string {
	if d.kind == DecisionNone {
		return "none"
	}
	return fmt.Sprintf("%s(%s)", d.kind, d.tileId)
}

type decisionJSON struct {
	Kind   string `json:"kind"`
	TileId string `json:"tileId,omitempty"`
}

func (d Decision) MarshalJSON() ([]byte, error) {
	return json.Marshal(decisionJSON{Kind: d.Kind().String(), TileId: d.TileId()})
}

func (d *Decision) UnmarshalJSON(b []byte) error {
	var raw decisionJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch raw.Kind {
	case "purchase":
		*d = AwaitPurchase(raw.TileId)
	case "upgrade":
		*d = AwaitUpgrade(raw.TileId)
	case "none", "":
		*d = Decision{}
	default:
		return fmt.Errorf("unknown decision kind %q", raw.Kind)
	}
	return nil
}

type TurnState struct {
	CurrentPlayerId string    `json:"currentPlayerId"`
	Rolled          bool      `json:"rolled"`
	LastRoll        *DiceRoll `json:"lastRoll,omitempty"`
	Pending         Decision  `json:"pending"`
	StartedAt       time.Time `json:"startedAt"`
	Number          int       `json:"number"`
}

type LogEntry struct {
	Seq     int       `json:"seq"`
	At      time.Time `json:"at"`
	Message string    `json:"message"`
}

// Snapshot is the full game state pushed to clients after every mutating action.
type Snapshot struct {
	RoomId        string     `json:"roomId"`
	HostId        string     `json:"hostId"`
	Status        Status     `json:"status"`
	Settings      Settings   `json:"settings"`
	Players       []Player   `json:"players"`
	Tiles         []Tile     `json:"tiles"`
	Turn          TurnState  `json:"turn"`
	Log           []LogEntry `json:"log"`
	DeckRemaining int        `json:"deckRemaining"`
	WinnerId      string     `json:"winnerId,omitempty"`
}

// GameResult is the row stored for every finished game.
type GameResult struct {
	tableName struct{} `pg:"game_results"`

	Id           string    `pg:",pk" json:"id"`
	WinnerId     string    `json:"winnerId"`
	WinnerName   string    `json:"winnerName"`
	WinCondition string    `json:"winCondition"`
	Players      int       `pg:",use_zero" json:"players"`
	Turns        int       `pg:",use_zero" json:"turns"`
	FinishedAt   time.Time `json:"finishedAt"`
}

// RoomSummary is one entry of the public room listing.
type RoomSummary struct {
	Id             string   `json:"id"`
	Status         Status   `json:"status"`
	HostName       string   `json:"hostName"`
	Players        []string `json:"players"`
	ConnectedCount int      `json:"connectedCount"`
}

type GameCreateDto struct {
	Name     string                 `json:"name"`
	Settings map[string]interface{} `json:"settings"`
}

type VerifyGameDto struct {
	Code string `query:"code"`
}
