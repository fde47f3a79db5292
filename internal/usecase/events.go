package usecase

// Inbound events.
const (
	EventCreateGame          = "createGame"
	EventJoinGame            = "joinGame"
	EventNewRoomJoin         = "newRoomJoin"
	EventPlayerMove          = "playerMove"
	EventRematchRequest      = "rematchRequest"
	EventRematchDecline      = "rematchDecline"
	EventRematchConfirm      = "rematchConfirm"
	EventRematchAcknowledged = "rematchAcknowledged"
	EventRoomLeave           = "roomLeave"
	EventDisconnect          = "disconnect"
)

// Outbound events.
const (
	EventRoomCreated                = "roomCreated"
	EventJoinConfirmed              = "joinConfirmed"
	EventJoinError                  = "joinError"
	EventWaiting                    = "waiting"
	EventTokenAssignment            = "tokenAssignment"
	EventStarting                   = "starting"
	EventUpdateBoard                = "updateBoard"
	EventWinner                     = "winner"
	EventDraw                       = "draw"
	EventRematchRequestFromOpponent = "rematchRequestFromOpponent"
	EventRematchRequestDeclined     = "rematchRequestDeclined"
	EventRematchConfirmed           = "rematchConfirmed"
	EventRestartGame                = "restartGame"
	EventGameError                  = "gameError"
)
