package entity

const (
	StatusWaiting  = "waiting"
	StatusOngoing  = "ongoing"
	StatusFinished = "finished"

	MaxPlayers = 2
)

// Room pairs at most two players with one game. Game is nil until the room is full.
type Room struct {
	ID      string    `json:"id"`
	Players []*Player `json:"players"`
	Game    *Game     `json:"game,omitempty"`
	Status  string    `json:"status"`

	// RematchRequestedBy holds the connection id of a pending rematch request.
	RematchRequestedBy string `json:"-"`
}

func NewRoom(id string) *Room {
	return &Room{
		ID:      id,
		Players: make([]*Player, 0, MaxPlayers),
		Status:  StatusWaiting,
	}
}

func (that *Room) IsFull() bool {
	return len(that.Players) >= MaxPlayers
}

func (that *Room) IsEmpty() bool {
	return len(that.Players) == 0
}

func (that *Room) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Room) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Room) PlayerByConn(connID string) *Player {
	for _, player := range that.Players {
		if player.ConnID == connID {
			return player
		}
	}

	return nil
}

func (that *Room) PlayerByToken(token string) *Player {
	if token == EmptyCell {
		return nil
	}

	for _, player := range that.Players {
		if player.Token == token {
			return player
		}
	}

	return nil
}

// Opponent returns the other seated player, or nil when connID sits alone.
func (that *Room) Opponent(connID string) *Player {
	for _, player := range that.Players {
		if player.ConnID != connID {
			return player
		}
	}

	return nil
}

// AssignTokens hands out both marks in random order. The room must be full.
func (that *Room) AssignTokens() {
	first, second := GetRandomMarks()
	that.Players[0].Token = first
	that.Players[1].Token = second
}

func (that *Room) ClearTokens() {
	for _, player := range that.Players {
		player.Token = ""
	}
}

// Start resets or creates the game and opens the room for play.
func (that *Room) Start() {
	if that.Game == nil {
		that.Game = NewGame()
	} else {
		that.Game.Reset()
	}

	that.AssignTokens()
	that.Status = StatusOngoing
	that.RematchRequestedBy = ""
}

// Suspend drops the game and puts the room back into waiting for a second player.
func (that *Room) Suspend() {
	that.Game = nil
	that.ClearTokens()
	that.Status = StatusWaiting
	that.RematchRequestedBy = ""
}
