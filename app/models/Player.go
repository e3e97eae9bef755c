package models

type Player struct {
	Id           string `json:"id"`
	Name         string `json:"name"`
	Money        int    `json:"money"`
	Position     int    `json:"position"`
	InJailTurns  int    `json:"inJailTurns"`
	Bankrupt     bool   `json:"bankrupt"`
	Disconnected bool   `json:"disconnected"`
}

func (p *Player) InJail() bool {
	return p.InJailTurns > 0
}

// PlayerDto is what a player token resolves to.
type PlayerDto struct {
	Id        string `json:"id"`
	Name      string `json:"name"`
	Money     int    `json:"money"`
	Bankrupt  bool   `json:"bankrupt"`
	Connected bool   `json:"connected"`
}
