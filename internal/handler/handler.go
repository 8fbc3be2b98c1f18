package handler

import (
	"fmt"
	"io"

	"picturecards/internal/middleware"
	"picturecards/internal/service"
	"picturecards/internal/telegram"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// FileDownloader fetches uploaded files, implemented by *tele.Bot
type FileDownloader interface {
	File(file *tele.File) (io.ReadCloser, error)
}

// Handler manages all bot interactions
type Handler struct {
	bot           *tele.Bot
	files         FileDownloader
	authService   *service.AuthService
	gameService   *service.GameService
	speechService *service.SpeechService
	logger        *zap.Logger
}

// NewHandler creates a new handler instance
func NewHandler(
	bot *tele.Bot,
	authService *service.AuthService,
	gameService *service.GameService,
	speechService *service.SpeechService,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		bot:           bot,
		files:         bot,
		authService:   authService,
		gameService:   gameService,
		speechService: speechService,
		logger:        logger,
	}
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	// Open to everyone: /start greets, plain text carries the password
	h.bot.Handle("/start", h.handleStart)
	h.bot.Handle(tele.OnText, h.handleText)

	// Everything else needs an authorized player
	g := h.bot.Group()
	g.Use(middleware.AuthMiddleware(h.authService, h.logger))

	g.Handle("/restart", h.handleRestart)
	g.Handle("/status", h.handleStatus)
	g.Handle(tele.OnVoice, h.handleVoice)

	// Callback queries (inline buttons)
	g.Handle(&btnRestart, h.handleRestartButton)
	g.Handle(&btnMenu, h.handleStart)

	// Generic callback handler for dynamic data
	g.Handle(tele.OnCallback, h.handleCallback)
}

// Inline keyboard buttons
var (
	btnRestart = telegram.BtnRestart
	btnMenu    = tele.Btn{
		Unique: "menu",
		Text:   "🏠 Меню",
	}
)

// menuMarkup offers one button per cycle size
func menuMarkup(sizes []int) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}

	var row tele.Row
	for _, n := range sizes {
		row = append(row, menu.Data(fmt.Sprintf("%d 🃏", n), fmt.Sprintf("size_%d", n)))
	}

	rows := []tele.Row{}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	menu.Inline(rows...)
	return menu
}

func menuText(catalogSize int) string {
	return fmt.Sprintf(
		"🖼 Карточки с картинками\n\nНазови по-русски то, что видишь на картинке. В каталоге карточек: %d.\n\nВыбери длину цикла:",
		catalogSize,
	)
}
