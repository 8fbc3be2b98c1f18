package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
)

// ErrSpeechUnavailable is returned when no speech backend is configured
var ErrSpeechUnavailable = errors.New("speech recognition is not available")

// Transcriber converts recorded speech to text
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error)
}

// SpeechService turns voice answers into text answers
type SpeechService struct {
	transcriber Transcriber
	logger      *zap.Logger
}

// NewSpeechService creates a speech service. A nil transcriber disables
// voice answers.
func NewSpeechService(transcriber Transcriber, logger *zap.Logger) *SpeechService {
	return &SpeechService{
		transcriber: transcriber,
		logger:      logger,
	}
}

// Available reports whether voice answers can be transcribed
func (s *SpeechService) Available() bool {
	return s.transcriber != nil
}

// Transcribe returns the spoken answer. An empty transcript is not an
// error; it is evaluated like any other blank answer.
func (s *SpeechService) Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error) {
	if s.transcriber == nil {
		return "", ErrSpeechUnavailable
	}

	text, err := s.transcriber.Transcribe(ctx, audio, filename)
	if err != nil {
		s.logger.Warn("Transcription failed", zap.String("file", filename), zap.Error(err))
		return "", fmt.Errorf("transcribe %s: %w", filename, err)
	}

	text = strings.TrimSpace(text)
	s.logger.Debug("Voice answer transcribed", zap.String("text", text))
	return text, nil
}
