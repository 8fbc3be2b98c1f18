package openai

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)
}

func TestTranscriber_Transcribe(t *testing.T) {
	var (
		gotPath     string
		gotModel    string
		gotLanguage string
		gotFile     string
		gotAudio    string
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		gotModel = r.FormValue("model")
		gotLanguage = r.FormValue("language")

		f, hdr, err := r.FormFile("file")
		if err == nil {
			gotFile = hdr.Filename
			b, _ := io.ReadAll(f)
			gotAudio = string(b)
			f.Close()
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"собака"}`))
	}))
	defer srv.Close()

	tr, err := New("test-key",
		WithBaseURL(srv.URL),
		WithLanguage("ru"),
		WithTimeout(5*time.Second),
	)
	require.NoError(t, err)

	text, err := tr.Transcribe(context.Background(), strings.NewReader("OggS-data"), "voice.ogg")

	require.NoError(t, err)
	assert.Equal(t, "собака", text)
	assert.True(t, strings.HasSuffix(gotPath, "/audio/transcriptions"), gotPath)
	assert.Equal(t, "whisper-1", gotModel)
	assert.Equal(t, "ru", gotLanguage)
	assert.Equal(t, "voice.ogg", gotFile)
	assert.Equal(t, "OggS-data", gotAudio)
}

func TestTranscriber_TranscribeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"bad audio","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	tr, err := New("test-key", WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = tr.Transcribe(context.Background(), strings.NewReader("x"), "voice.ogg")
	assert.Error(t, err)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "audio/ogg", contentType("voice"))
	assert.Equal(t, "application/json", contentType("answer.json"))
}
