package piper

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"net"
	"testing"

	"github.com/nadzzz/aigateway/internal/config"
	"github.com/nadzzz/aigateway/internal/tts"
)

// fakePiper accepts one connection, records the synthesize event and replies
// with the given events.
func fakePiper(t *testing.T, reply func(conn net.Conn)) (addr string, got chan *wyomingEvent) {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { _ = lis.Close() })

	got = make(chan *wyomingEvent, 1)
	go func() {
		conn, err := lis.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		evt, _, err := readEvent(bufio.NewReader(conn))
		if err != nil {
			return
		}
		got <- evt
		reply(conn)
	}()
	return lis.Addr().String(), got
}

func TestSynthesize(t *testing.T) {
	pcm := []byte{1, 0, 2, 0, 3, 0, 4, 0}
	addr, got := fakePiper(t, func(conn net.Conn) {
		_ = writeEvent(conn, wyomingEvent{Type: "audio-start", Data: map[string]any{"rate": 16000, "width": 2, "channels": 1}}, nil)
		_ = writeEvent(conn, wyomingEvent{Type: "audio-chunk"}, pcm[:4])
		_ = writeEvent(conn, wyomingEvent{Type: "audio-chunk"}, pcm[4:])
		_ = writeEvent(conn, wyomingEvent{Type: "audio-stop"}, nil)
	})

	s := New(config.PiperConfig{Endpoint: "tcp://" + addr, Voices: map[string]string{"fr": "fr_custom"}})
	res, err := s.Synthesize(context.Background(), "bonjour", tts.SynthesizeOpts{Format: tts.FormatWAV, Language: "fr-FR"})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	evt := <-got
	if evt.Type != "synthesize" || evt.Data["text"] != "bonjour" {
		t.Errorf("synthesize event = %+v", evt)
	}
	if voice, _ := evt.Data["voice"].(map[string]any); voice["name"] != "fr_custom" {
		t.Errorf("voice = %v, want fr_custom", evt.Data["voice"])
	}

	if res.ContentType != "audio/wav" {
		t.Errorf("content type = %q", res.ContentType)
	}
	if len(res.Audio) != 44+len(pcm) || !bytes.Equal(res.Audio[44:], pcm) {
		t.Fatalf("wav body mismatch: %v", res.Audio)
	}
	if rate := binary.LittleEndian.Uint32(res.Audio[24:28]); rate != 16000 {
		t.Errorf("sample rate = %d, want 16000", rate)
	}
}

func TestSynthesizeErrorEvent(t *testing.T) {
	addr, _ := fakePiper(t, func(conn net.Conn) {
		_ = writeEvent(conn, wyomingEvent{Type: "error", Data: map[string]any{"text": "voice not found"}}, nil)
	})

	s := New(config.PiperConfig{Endpoint: addr})
	_, err := s.Synthesize(context.Background(), "hi", tts.SynthesizeOpts{Format: tts.FormatWAV})
	if err == nil || err.Error() != "piper error: voice not found" {
		t.Fatalf("err = %v", err)
	}
}

func TestSynthesizeRejectsNonWAV(t *testing.T) {
	s := New(config.PiperConfig{Endpoint: "127.0.0.1:1"})
	if _, err := s.Synthesize(context.Background(), "hi", tts.SynthesizeOpts{Format: tts.FormatMP3}); err == nil {
		t.Fatal("expected error for mp3")
	}
}

func TestEventRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := writeEvent(&buf, wyomingEvent{Type: "audio-chunk", Data: map[string]any{"rate": 22050}}, []byte("abc")); err != nil {
		t.Fatalf("writeEvent: %v", err)
	}
	evt, payload, err := readEvent(&buf)
	if err != nil {
		t.Fatalf("readEvent: %v", err)
	}
	if evt.Type != "audio-chunk" || string(payload) != "abc" {
		t.Errorf("got %+v %q", evt, payload)
	}
}

func TestPrimaryLanguage(t *testing.T) {
	for in, want := range map[string]string{"en-US": "en", "pt_BR": "pt", "DE": "de", "": ""} {
		if got := primaryLanguage(in); got != want {
			t.Errorf("primaryLanguage(%q) = %q, want %q", in, got, want)
		}
	}
}
