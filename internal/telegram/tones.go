package telegram

import (
	"bytes"
	"sync"

	"picturecards/internal/tone"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

type clip struct {
	name   string
	wav    []byte
	fileID string
}

// Tones uploads the feedback sounds once and then reuses Telegram's file
// ids for every chat
type Tones struct {
	logger *zap.Logger

	mu       sync.Mutex
	positive clip
	negative clip
}

// NewTones renders both feedback sounds
func NewTones(sampleRate int, logger *zap.Logger) *Tones {
	return &Tones{
		logger:   logger,
		positive: clip{name: "correct.wav", wav: tone.Positive().WAV(sampleRate)},
		negative: clip{name: "wrong.wav", wav: tone.Negative().WAV(sampleRate)},
	}
}

// Play sends the positive or negative sound to the chat
func (t *Tones) Play(sender Sender, to tele.Recipient, positive bool) {
	t.mu.Lock()
	c := &t.negative
	if positive {
		c = &t.positive
	}
	audio := &tele.Audio{FileName: c.name, MIME: "audio/wav"}
	if c.fileID != "" {
		audio.File = tele.File{FileID: c.fileID}
	} else {
		audio.File = tele.FromReader(bytes.NewReader(c.wav))
	}
	t.mu.Unlock()

	msg, err := sender.Send(to, audio, tele.Silent)
	if err != nil {
		t.logger.Warn("Failed to send tone",
			zap.String("tone", c.name),
			zap.Error(err),
		)
		return
	}

	if msg != nil && msg.Audio != nil && msg.Audio.FileID != "" {
		t.mu.Lock()
		c.fileID = msg.Audio.FileID
		t.mu.Unlock()
	}
}
