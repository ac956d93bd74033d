// Package console is the terminal front end: a menu, the board and a bot
// that answers every move with the minimax choice.
package console

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-bot/internal/entity"
	"github.com/rocketscienceinc/tictactoe-bot/internal/tictactoe"
)

type state uint8

const (
	stateMenu state = iota
	stateChooseFirst
	stateHumanTurn
	stateGameOver
)

const (
	msgInvalidChoice = "Invalid choice. Please try again."
	msgGoFirst       = "Do you want to go first? (y/n)"
	msgYourMove      = "Enter your move (1-9)."
	msgInvalidMove   = "Invalid move. Try again."
	msgThinking      = "AI is making a move..."
	msgPlayerWins    = "Congratulations! You win!"
	msgBotWins       = "AI wins! Better luck next time."
	msgDraw          = "It's a draw!"
	msgPressAnyKey   = "Press any key to return to the menu."
)

// Tally counts finished games for the lifetime of the console.
type Tally struct {
	Player int
	Bot    int
	Draws  int
}

type Console struct {
	logger     *slog.Logger
	screen     tcell.Screen
	style      tcell.Style
	thinkDelay time.Duration

	state   state
	game    *entity.Game
	tally   Tally
	message string
}

// New wraps an initialized screen. The caller owns screen.Fini.
func New(logger *slog.Logger, screen tcell.Screen, thinkDelay time.Duration) *Console {
	style := tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)

	return &Console{
		logger:     logger.With("component", "console"),
		screen:     screen,
		style:      style,
		thinkDelay: thinkDelay,
		state:      stateMenu,
	}
}

// Run draws the menu and handles terminal events until the user exits or ctx is done.
func (that *Console) Run(ctx context.Context) error {
	stop := make(chan struct{})
	defer close(stop)

	go func() {
		select {
		case <-ctx.Done():
			_ = that.screen.PostEvent(tcell.NewEventInterrupt(nil))
		case <-stop:
		}
	}()

	that.draw()

	for {
		switch ev := that.screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventInterrupt:
			return ctx.Err()
		case *tcell.EventResize:
			that.screen.Sync()
			that.draw()
		case *tcell.EventKey:
			if !that.HandleKey(ev) {
				return nil
			}
		}
	}
}

// Tally returns the score of the games finished so far.
func (that *Console) Tally() Tally {
	return that.tally
}

// HandleKey applies one key press and redraws. It returns false when the user exits.
func (that *Console) HandleKey(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyCtrlC {
		return false
	}

	switch that.state {
	case stateMenu:
		if !that.handleMenu(ev) {
			return false
		}
	case stateChooseFirst:
		that.handleChooseFirst(ev)
	case stateHumanTurn:
		that.handleHumanTurn(ev)
	case stateGameOver:
		that.state = stateMenu
		that.message = ""
	}

	that.draw()

	return true
}

func (that *Console) handleMenu(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyEscape {
		return false
	}

	switch ev.Rune() {
	case '1':
		that.state = stateChooseFirst
		that.message = msgGoFirst
	case '2':
		that.screen.Clear()
		that.message = ""
	case '3', 'q':
		return false
	default:
		that.message = msgInvalidChoice
	}

	return true
}

func (that *Console) handleChooseFirst(ev *tcell.EventKey) {
	switch ev.Rune() {
	case 'y', 'Y':
		that.startGame(entity.PlayerX)
	case 'n', 'N':
		that.startGame(entity.PlayerO)
		that.botTurn()
	default:
		that.screen.Beep()
	}
}

func (that *Console) handleHumanTurn(ev *tcell.EventKey) {
	if ev.Key() == tcell.KeyEscape || ev.Rune() == 'q' {
		that.logger.Info("game abandoned", "gameID", that.game.ID)
		that.game = nil
		that.state = stateMenu
		that.message = ""
		return
	}

	if ev.Rune() == 'h' {
		that.showHint()
		return
	}

	if ev.Rune() < '1' || ev.Rune() > '9' {
		that.rejectMove()
		return
	}

	move, err := entity.MoveFromCell(int(ev.Rune() - '1'))
	if err != nil {
		that.rejectMove()
		return
	}

	if err = tictactoe.MakeTurn(that.game, entity.PlayerX, move); err != nil {
		that.logger.Debug("move rejected", "move", move.String(), "error", err)
		that.rejectMove()
		return
	}

	if that.game.IsFinished() {
		that.finishGame()
		return
	}

	that.botTurn()
}

func (that *Console) startGame(firstTurn entity.Mark) {
	that.game = entity.NewGame(uuid.NewString(), firstTurn)
	that.state = stateHumanTurn
	that.message = msgYourMove

	that.logger.Info("game started", "gameID", that.game.ID, "firstTurn", firstTurn.String())
}

// botTurn shows the thinking message for thinkDelay, then plays the best move.
func (that *Console) botTurn() {
	that.message = msgThinking
	that.draw()

	if that.thinkDelay > 0 {
		time.Sleep(that.thinkDelay)
	}

	board := that.game.Board

	move, err := tictactoe.SelectBestMove(&board)
	if err != nil {
		that.logger.Error("bot failed to select move", "error", err)
		that.finishGame()
		return
	}

	if err = tictactoe.MakeTurn(that.game, entity.PlayerO, move); err != nil {
		that.logger.Error("bot failed to make turn", "move", move.String(), "error", err)
		that.finishGame()
		return
	}

	if that.game.IsFinished() {
		that.finishGame()
		return
	}

	that.message = msgYourMove
}

func (that *Console) showHint() {
	board := that.game.Board.Swapped()

	scored, err := tictactoe.ScoreMoves(&board)
	if err != nil {
		that.rejectMove()
		return
	}

	best := tictactoe.BestOf(scored)
	that.message = fmt.Sprintf("Hint: try %d.", best.Cell()+1)
}

func (that *Console) rejectMove() {
	that.screen.Beep()
	that.message = msgInvalidMove
}

func (that *Console) finishGame() {
	that.state = stateGameOver

	switch that.game.Result {
	case entity.ResultPlayerWins:
		that.tally.Player++
		that.message = msgPlayerWins
	case entity.ResultOpponentWins:
		that.tally.Bot++
		that.message = msgBotWins
	default:
		that.tally.Draws++
		that.message = msgDraw
	}

	that.logger.Info("game finished", "gameID", that.game.ID, "result", that.game.Result.String())
}
