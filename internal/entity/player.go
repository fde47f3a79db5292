package entity

// Player is a room-scoped seat bound to one websocket connection.
// UserID, Name and Wins come from the identity handed in at join time.
type Player struct {
	ConnID string `json:"-"`
	UserID string `json:"userId,omitempty"`
	Name   string `json:"name"`
	Wins   int    `json:"wins"`
	Token  string `json:"token,omitempty"`
}

// WinRecord is what gets reported to the external score store once a match is won.
type WinRecord struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	RoomID string `json:"roomId"`
}
