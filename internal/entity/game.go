package entity

import "math/rand"

const (
	PlayerX = "X"
	PlayerO = "O"

	EmptyCell = ""

	BoardSize = 9

	// StartingMark always opens a fresh or reset board.
	StartingMark = PlayerX
)

var WinCombos = [][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Game is the state machine of a single match. It knows nothing about rooms or players.
// MovesLeft plus the number of occupied cells is always BoardSize.
type Game struct {
	Board     [BoardSize]string `json:"board"`
	Turn      string            `json:"turn"`
	MovesLeft int               `json:"movesLeft"`
}

func NewGame() *Game {
	game := &Game{}
	game.Reset()

	return game
}

// ApplyMove occupies cell with mark and reports whether the board changed.
// It does not switch turns; the caller checks for a winner first.
func (that *Game) ApplyMove(cell int, mark string) bool {
	if !IsMark(mark) || !that.IsValidCell(cell) {
		return false
	}

	if that.EvaluateWinner() != EmptyCell || that.MovesLeft == 0 || that.Board[cell] != EmptyCell {
		return false
	}

	that.Board[cell] = mark
	that.MovesLeft--

	return true
}

// EvaluateWinner returns the mark that owns a full line, or EmptyCell.
func (that *Game) EvaluateWinner() string {
	for _, combo := range WinCombos {
		a, b, c := that.Board[combo[0]], that.Board[combo[1]], that.Board[combo[2]]
		if a != EmptyCell && a == b && b == c {
			return a
		}
	}

	return EmptyCell
}

func (that *Game) SwitchTurn() {
	that.Turn = OppositeMark(that.Turn)
}

func (that *Game) Reset() {
	for i := range that.Board {
		that.Board[i] = EmptyCell
	}

	that.Turn = StartingMark
	that.MovesLeft = BoardSize
}

func (that *Game) IsDraw() bool {
	return that.MovesLeft == 0 && that.EvaluateWinner() == EmptyCell
}

// IsOver reports whether the board has a winner or no moves left.
func (that *Game) IsOver() bool {
	return that.MovesLeft == 0 || that.EvaluateWinner() != EmptyCell
}

func (that *Game) IsValidCell(cell int) bool {
	return cell >= 0 && cell < BoardSize
}

func (that *Game) IsCellFree(cell int) bool {
	return that.IsValidCell(cell) && that.Board[cell] == EmptyCell
}

func (that *Game) OccupiedCells() int {
	occupied := 0
	for _, cell := range that.Board {
		if cell != EmptyCell {
			occupied++
		}
	}

	return occupied
}

func IsMark(mark string) bool {
	return mark == PlayerX || mark == PlayerO
}

func OppositeMark(mark string) string {
	if mark == PlayerX {
		return PlayerO
	}

	return PlayerX
}

// GetRandomMarks returns both marks in random order.
func GetRandomMarks() (string, string) {
	if rand.Intn(2) == 0 { //nolint: gosec // it's ok
		return PlayerX, PlayerO
	}
	return PlayerO, PlayerX
}
