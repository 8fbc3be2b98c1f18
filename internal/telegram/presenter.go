// Package telegram renders a chat's game as Telegram messages.
package telegram

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"picturecards/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Sender is the part of *tele.Bot the presenter needs
type Sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// BtnRestart starts a new cycle from the summary message
var BtnRestart = tele.Btn{
	Unique: "restart",
	Text:   "🔄 Ещё раз",
}

// Options configures how cards are delivered
type Options struct {
	// ImageDir resolves relative image refs
	ImageDir string
	// ImageFallbackURL is a printf pattern taking the item id. Empty
	// disables the fallback.
	ImageFallbackURL string
}

// Presenter shows one chat's cards, feedback and summary
type Presenter struct {
	sender Sender
	chat   tele.Recipient
	opts   Options
	tones  *Tones
	logger *zap.Logger

	mu       sync.Mutex
	progress *domain.Progress
}

// NewPresenter creates a presenter for a chat. tones may be nil to keep
// the game silent.
func NewPresenter(sender Sender, chatID int64, opts Options, tones *Tones, logger *zap.Logger) *Presenter {
	return &Presenter{
		sender: sender,
		chat:   tele.ChatID(chatID),
		opts:   opts,
		tones:  tones,
		logger: logger.With(zap.Int64("chat_id", chatID)),
	}
}

// ShowCard sends the item's picture with the progress line as caption.
// When the picture cannot be delivered the fallback image is tried, then
// a plain text card with the alt text.
func (p *Presenter) ShowCard(item domain.VocabItem) {
	caption := "❓ Что на картинке?"
	if line := p.progressLine(); line != "" {
		caption += "\n\n" + line
	}

	photo := &tele.Photo{File: p.imageFile(item.ImageRef), Caption: caption}
	_, err := p.sender.Send(p.chat, photo)
	if err == nil {
		return
	}

	p.logger.Warn("Failed to send card image",
		zap.String("item_id", item.ID),
		zap.String("image", item.ImageRef),
		zap.Error(err),
	)

	if p.opts.ImageFallbackURL != "" {
		url := fmt.Sprintf(p.opts.ImageFallbackURL, item.ID)
		photo = &tele.Photo{File: tele.FromURL(url), Caption: caption}
		if _, err = p.sender.Send(p.chat, photo); err == nil {
			return
		}
		p.logger.Warn("Failed to send fallback image",
			zap.String("item_id", item.ID),
			zap.String("url", url),
			zap.Error(err),
		)
	}

	p.send(fmt.Sprintf("🖼 %s\n\n%s", item.AltText, caption))
}

// ShowFeedback reports whether the answer was accepted
func (p *Presenter) ShowFeedback(fb domain.Feedback) {
	p.send(feedbackText(fb))
}

// ShowProgress remembers the counters for the next card or summary
func (p *Presenter) ShowProgress(progress domain.Progress) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.progress = &progress
}

// ShowSummary sends the result of the cycle with a restart button
func (p *Presenter) ShowSummary(s domain.Summary) {
	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(BtnRestart))

	p.send(summaryText(s), markup)
}

// Clear forgets the previous cycle's counters
func (p *Presenter) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.progress = nil
}

func (p *Presenter) PlayPositive() {
	if p.tones != nil {
		p.tones.Play(p.sender, p.chat, true)
	}
}

func (p *Presenter) PlayNegative() {
	if p.tones != nil {
		p.tones.Play(p.sender, p.chat, false)
	}
}

func (p *Presenter) send(what interface{}, opts ...interface{}) {
	if _, err := p.sender.Send(p.chat, what, opts...); err != nil {
		p.logger.Error("Failed to send message", zap.Error(err))
	}
}

func (p *Presenter) progressLine() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.progress == nil {
		return ""
	}
	return progressText(*p.progress)
}

func (p *Presenter) imageFile(ref string) tele.File {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return tele.FromURL(ref)
	}
	if p.opts.ImageDir != "" && !filepath.IsAbs(ref) {
		ref = filepath.Join(p.opts.ImageDir, ref)
	}
	return tele.FromDisk(ref)
}

func progressText(p domain.Progress) string {
	return fmt.Sprintf("Осталось: %d • Верно: %d • Повтор: %d • Неверно: %d",
		p.Remaining, p.Correct, p.Review, p.Wrong)
}

func feedbackText(fb domain.Feedback) string {
	if fb.OK {
		return "✅ Верно!"
	}
	text := fmt.Sprintf("❌ Неверно. Правильно: %s", fb.Expected)
	if fb.NearMiss {
		text += "\nПочти! Проверь написание."
	}
	return text
}

func summaryText(s domain.Summary) string {
	text := fmt.Sprintf(
		"🏁 Цикл завершён!\n\nТочность: %d%% %s\nВерно с первого раза: %d из %d\nНа повторе: %d",
		s.Accuracy, strings.Repeat("⭐", s.Rating.Stars()), s.Correct, s.Total, s.Review,
	)
	if history := HistoryText(s.History); history != "" {
		text += "\n\n" + history
	}
	return text + "\n\nНажми «Ещё раз», чтобы начать заново."
}

// HistoryText lists the cards of each outcome by name, skipping empty ones
func HistoryText(h domain.History) string {
	var lines []string
	for _, l := range []struct {
		label string
		names []string
	}{
		{"✅ Угаданы", h.Correct},
		{"🔁 Повторить", h.Review},
		{"❌ Ошибки", h.Wrong},
	} {
		if len(l.names) > 0 {
			lines = append(lines, l.label+": "+strings.Join(l.names, ", "))
		}
	}
	return strings.Join(lines, "\n")
}
