package models

import (
	"math"
	"strconv"
	"strings"
)

type WinCondition string

const (
	WinLastStanding     WinCondition = "last-standing"
	WinHighestNetWorth  WinCondition = "highest-net-worth"
	DefaultBoardName                 = "classic"
	DefaultStartingCash              = 1500
	DefaultPassStart                 = 200
	DefaultMaxPlayers                = 6
)

type Settings struct {
	StartingCash   int          `json:"startingCash"`
	PassStartBonus int          `json:"passStartBonus"`
	MaxPlayers     int          `json:"maxPlayers"`
	BoardName      string       `json:"boardName"`
	WinCondition   WinCondition `json:"winCondition"`
	TurnLimit      int          `json:"turnLimit"`
}

func DefaultSettings() Settings {
	return Settings{
		StartingCash:   DefaultStartingCash,
		PassStartBonus: DefaultPassStart,
		MaxPlayers:     DefaultMaxPlayers,
		BoardName:      DefaultBoardName,
		WinCondition:   WinLastStanding,
	}
}

// NormalizeSettings builds settings from client overrides. Missing or malformed values
// fall back to defaults, numbers are then clamped to their allowed range.
// knownBoard reports whether a board name exists; nil accepts any non-empty name.
func NormalizeSettings(raw map[string]interface{}, knownBoard func(string) bool) Settings {
	s := DefaultSettings()
	s.StartingCash = clamp(intOr(raw["startingCash"], s.StartingCash), 500, 4000)
	s.PassStartBonus = clamp(intOr(raw["passStartBonus"], s.PassStartBonus), 100, 500)
	s.MaxPlayers = clamp(intOr(raw["maxPlayers"], s.MaxPlayers), 2, 12)
	s.TurnLimit = clamp(intOr(raw["turnLimit"], 0), 0, 500)

	if name, ok := raw["boardName"].(string); ok {
		name = strings.TrimSpace(strings.ToLower(name))
		if name != "" && (knownBoard == nil || knownBoard(name)) {
			s.BoardName = name
		}
	}
	if wc, ok := raw["winCondition"].(string); ok {
		switch WinCondition(wc) {
		case WinLastStanding, WinHighestNetWorth:
			s.WinCondition = WinCondition(wc)
		}
	}
	return s
}

func intOr(v interface{}, def int) int {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.Abs(n) > 1e9 {
			return def
		}
		return int(n)
	case int:
		return n
	case string:
		if parsed, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return parsed
		}
	}
	return def
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
