package usecase

import "github.com/rocketscienceinc/tictactoe-rooms/internal/entity"

type JoinRequest struct {
	RoomID string `json:"roomId"`
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Wins   int    `json:"wins"`
}

type MoveRequest struct {
	RoomID   string `json:"roomId"`
	Token    string `json:"token"`
	Position int    `json:"position"`
}

type RematchRequest struct {
	RoomID string `json:"roomId"`
	Name   string `json:"name"`
}

type PlayerView struct {
	UserID string `json:"userId,omitempty"`
	Name   string `json:"name"`
	Wins   int    `json:"wins"`
	Token  string `json:"token,omitempty"`
}

type TokenPayload struct {
	Token string `json:"token"`
}

type StartingPayload struct {
	Board     [entity.BoardSize]string `json:"board"`
	FirstTurn string                   `json:"firstTurn"`
	Players   []PlayerView             `json:"players"`
}

type BoardPayload struct {
	Board     [entity.BoardSize]string `json:"board"`
	NextTurn  string                   `json:"nextTurn"`
	MovesLeft int                      `json:"movesLeft"`
	Players   []PlayerView             `json:"players"`
}

type WinnerPayload struct {
	Board       [entity.BoardSize]string `json:"board"`
	WinnerToken string                   `json:"winnerToken"`
	Players     []PlayerView             `json:"players"`
}

type DrawPayload struct {
	Board     [entity.BoardSize]string `json:"board"`
	MovesLeft int                      `json:"movesLeft"`
}

type RematchConfirmedPayload struct {
	RoomID string `json:"roomId"`
	Name   string `json:"name"`
}

type RestartPayload struct {
	Board     [entity.BoardSize]string `json:"board"`
	FirstTurn string                   `json:"firstTurn"`
	MovesLeft int                      `json:"movesLeft"`
	Players   []PlayerView             `json:"players"`
}

type ErrorPayload struct {
	Event   string `json:"event"`
	Message string `json:"message"`
}

// playerViews snapshots the seated players so later mutations never leak into queued payloads.
func playerViews(room *entity.Room) []PlayerView {
	views := make([]PlayerView, 0, len(room.Players))
	for _, player := range room.Players {
		views = append(views, PlayerView{
			UserID: player.UserID,
			Name:   player.Name,
			Wins:   player.Wins,
			Token:  player.Token,
		})
	}

	return views
}
