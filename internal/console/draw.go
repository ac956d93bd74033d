package console

import (
	"fmt"

	"github.com/mattn/go-runewidth"

	"github.com/rocketscienceinc/tictactoe-bot/internal/entity"
)

const (
	padLeft      = 2
	padTop       = 2
	positionsPad = 20
	boardHeight  = 2*entity.BoardSize - 1
)

const title = "Tic-Tac-Toe against the Minimax AI"

func (that *Console) draw() {
	that.screen.Clear()

	that.print(padLeft, 0, title)

	switch that.state {
	case stateMenu:
		that.drawMenu()
	default:
		that.drawGame()
	}

	that.screen.Show()
}

func (that *Console) drawMenu() {
	that.print(padLeft, padTop, "1. Play a Game!")
	that.print(padLeft, padTop+1, "2. Clear Terminal")
	that.print(padLeft, padTop+2, "3. Exit")

	that.drawTally(padTop + 4)
	that.print(padLeft, padTop+6, that.message)
}

func (that *Console) drawGame() {
	if that.game != nil {
		that.drawGrid(padLeft, padTop, func(row, col int) string {
			mark := that.game.Board[row][col].String()
			if mark == "" {
				return " "
			}

			return mark
		})
	}

	that.drawGrid(padLeft+positionsPad, padTop, func(row, col int) string {
		return fmt.Sprint(row*entity.BoardSize + col + 1)
	})

	that.drawTally(padTop + boardHeight + 1)

	switch that.state {
	case stateHumanTurn:
		that.print(padLeft, padTop+boardHeight+2, "<1-9> place  <h> hint  <q> menu")
	case stateGameOver:
		that.print(padLeft, padTop+boardHeight+2, msgPressAnyKey)
	}

	that.print(padLeft, padTop+boardHeight+4, that.message)
}

// drawGrid renders a 3x3 grid with cell text supplied by label.
func (that *Console) drawGrid(x, y int, label func(row, col int) string) {
	for row := 0; row < entity.BoardSize; row++ {
		line := fmt.Sprintf(" %s | %s | %s ", label(row, 0), label(row, 1), label(row, 2))
		that.print(x, y+2*row, line)

		if row < entity.BoardSize-1 {
			that.print(x, y+2*row+1, "---+---+---")
		}
	}
}

func (that *Console) drawTally(y int) {
	that.print(padLeft, y, fmt.Sprintf("You: %d  AI: %d  Draws: %d", that.tally.Player, that.tally.Bot, that.tally.Draws))
}

func (that *Console) print(x, y int, str string) {
	for _, c := range str {
		var comb []rune
		w := runewidth.RuneWidth(c)
		if w == 0 {
			comb = []rune{c}
			c = ' '
			w = 1
		}
		that.screen.SetContent(x, y, c, comb, that.style)
		x += w
	}
}
