package openaitts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/mmresearcher/llm"
	"github.com/smallnest/mmresearcher/log"
)

type speechCall struct {
	Model          string `json:"model"`
	Input          string `json:"input"`
	Voice          string `json:"voice"`
	ResponseFormat string `json:"response_format"`
}

func newServer(t *testing.T, status int) (*httptest.Server, *[]speechCall) {
	t.Helper()
	var (
		mu    sync.Mutex
		calls []speechCall
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/speech" {
			http.NotFound(w, r)
			return
		}
		var c speechCall
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			t.Errorf("decode request: %v", err)
		}
		mu.Lock()
		calls = append(calls, c)
		mu.Unlock()

		if status != http.StatusOK {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"message":"rejected","type":"invalid_request_error"}}`))
			return
		}
		w.Header().Set("Content-Type", "audio/pcm")
		// two bytes per line, first byte identifies the voice
		_, _ = w.Write([]byte{c.Voice[0], byte(len(c.Input))})
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestSynthesizeSpeech_PerLine(t *testing.T) {
	srv, calls := newServer(t, http.StatusOK)
	s := New("test-token", srv.URL+"/v1", &log.NoOpLogger{})

	pcm, err := s.SynthesizeSpeech(context.Background(), llm.SpeechRequest{
		Script: "Mike: Hi\n\n**Sarah:** Hello there\nMike: Bye",
		Voices: map[string]string{"Mike": "alloy", "Sarah": "nova"},
	})
	require.NoError(t, err)

	assert.Equal(t, []byte{'a', 2, 'n', 11, 'a', 3}, pcm)
	require.Len(t, *calls, 3)
	assert.Equal(t, "Hello there", (*calls)[1].Input)
	assert.Equal(t, "nova", (*calls)[1].Voice)
	assert.Equal(t, "pcm", (*calls)[0].ResponseFormat)
	assert.Equal(t, string(DefaultModel), (*calls)[0].Model)
}

func TestSynthesizeSpeech_UnknownSpeaker(t *testing.T) {
	srv, calls := newServer(t, http.StatusOK)
	s := New("test-token", srv.URL+"/v1", &log.NoOpLogger{})

	_, err := s.SynthesizeSpeech(context.Background(), llm.SpeechRequest{
		Script: "Mike: Hi\nNarrator: meanwhile",
		Voices: map[string]string{"Mike": "alloy"},
	})
	assert.ErrorIs(t, err, llm.ErrSpeechSynthesis)
	assert.Empty(t, *calls)
}

func TestSynthesizeSpeech_ServiceErrors(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusBadRequest, llm.ErrSpeechSynthesis},
		{http.StatusInternalServerError, llm.ErrUpstreamService},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv, _ := newServer(t, tt.status)
			s := New("test-token", srv.URL+"/v1", &log.NoOpLogger{})

			_, err := s.SynthesizeSpeech(context.Background(), llm.SpeechRequest{
				Script: "Mike: Hi",
				Voices: map[string]string{"Mike": "alloy"},
				Model:  "tts-1",
			})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
