package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/nadzzz/aigateway/internal/language"
	"github.com/nadzzz/aigateway/internal/media"
	"github.com/nadzzz/aigateway/internal/tts"
)

// --- fakes ---

type fakeChat struct {
	calls int
	last  string
	reply string
	err   error
	panic bool
}

func (f *fakeChat) Name() string { return "fake" }
func (f *fakeChat) Close() error { return nil }
func (f *fakeChat) Respond(_ context.Context, message string) (string, error) {
	f.calls++
	f.last = message
	if f.panic {
		panic("responder exploded")
	}
	return f.reply, f.err
}

type fakeLabeler struct {
	calls  int
	labels []string
}

func (f *fakeLabeler) Close() error { return nil }
func (f *fakeLabeler) Labels(_ context.Context, image []byte) ([]string, error) {
	f.calls++
	return f.labels, nil
}

type fakeCaptioner struct {
	calls int
	image []byte
	url   string
}

func (f *fakeCaptioner) Close() error { return nil }
func (f *fakeCaptioner) Captions(_ context.Context, image []byte, imageURL string) ([]string, error) {
	f.calls++
	f.image, f.url = image, imageURL
	return []string{"a dog on a beach"}, nil
}

type fakeLanguage struct {
	calls     int
	entities  []language.Entity
	sentiment string
}

func (f *fakeLanguage) Entities(_ context.Context, text string) ([]language.Entity, error) {
	f.calls++
	return f.entities, nil
}

func (f *fakeLanguage) Sentiment(_ context.Context, text string) (string, error) {
	f.calls++
	return f.sentiment, nil
}

type fakeSynth struct {
	calls int
	opts  tts.SynthesizeOpts
}

func (f *fakeSynth) Name() string { return "fake" }
func (f *fakeSynth) Close() error { return nil }
func (f *fakeSynth) Synthesize(_ context.Context, text string, opts tts.SynthesizeOpts) (*tts.SynthesizeResult, error) {
	f.calls++
	f.opts = opts
	return &tts.SynthesizeResult{Audio: []byte("ID3-audio"), ContentType: opts.Format.ContentType()}, nil
}

type fakeMedia struct {
	convertCalls int
	convertArgs  []string
	convertErr   error

	frameCalls int
	frameData  []byte
	frames     int
}

func (f *fakeMedia) Convert(_ context.Context, in, out, format string) error {
	f.convertCalls++
	f.convertArgs = []string{in, out, format}
	return f.convertErr
}

func (f *fakeMedia) CountFrames(_ context.Context, path string) (int, error) {
	f.frameCalls++
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	f.frameData = data
	return f.frames, nil
}

type fakeTranscriber struct {
	calls       int
	contentType string
	text        string
}

func (f *fakeTranscriber) Name() string { return "fake" }
func (f *fakeTranscriber) Close() error { return nil }
func (f *fakeTranscriber) Transcribe(_ context.Context, audio []byte, contentType string) (string, error) {
	f.calls++
	f.contentType = contentType
	return f.text, nil
}

type fakeGenerator struct {
	calls  int
	prompt string
}

func (f *fakeGenerator) ImageToImage(_ context.Context, image []byte, prompt string) ([]byte, error) {
	f.calls++
	f.prompt = prompt
	return []byte("png-out"), nil
}

type fakeStore struct {
	puts map[string][]byte
}

func (f *fakeStore) Put(_ context.Context, key, contentType string, data []byte) (string, error) {
	if f.puts == nil {
		f.puts = map[string][]byte{}
	}
	f.puts[key] = data
	return "mem://" + key, nil
}

// --- helpers ---

type filePart struct {
	field       string
	filename    string
	contentType string
	data        []byte
}

func multipartBody(t *testing.T, fields map[string]string, files ...filePart) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("writing field: %v", err)
		}
	}
	for _, f := range files {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.field, f.filename))
		if f.contentType != "" {
			h.Set("Content-Type", f.contentType)
		}
		part, err := mw.CreatePart(h)
		if err != nil {
			t.Fatalf("creating part: %v", err)
		}
		_, _ = part.Write(f.data)
	}
	mw.Close()
	return body, mw.FormDataContentType()
}

func serve(t *testing.T, deps Dependencies, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	New(0, deps).Handler().ServeHTTP(rec, req)
	return rec
}

func postJSON(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func postForm(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func postMultipart(t *testing.T, path string, fields map[string]string, files ...filePart) *http.Request {
	t.Helper()
	body, ct := multipartBody(t, fields, files...)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", ct)
	return req
}

func blankPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1, 1))); err != nil {
		t.Fatalf("encoding png: %v", err)
	}
	return buf.Bytes()
}

// --- chat ---

func TestChatbot(t *testing.T) {
	chat := &fakeChat{reply: "The capital of France is Paris."}
	rec := serve(t, Dependencies{Chat: chat}, postJSON("/chatbot", `{"message":"What is the capital of France?"}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var resp ChatbotResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if resp.Response != "The capital of France is Paris." {
		t.Errorf("response = %q", resp.Response)
	}
	if chat.last != "What is the capital of France?" {
		t.Errorf("message passed = %q", chat.last)
	}
}

func TestChatbotBadRequests(t *testing.T) {
	for _, body := range []string{`{}`, `{"message":"   "}`, `not json`, `{"msg":"hi"}`} {
		chat := &fakeChat{}
		rec := serve(t, Dependencies{Chat: chat}, postJSON("/chatbot", body))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, rec.Code)
		}
		if chat.calls != 0 {
			t.Errorf("body %q: responder called %d times", body, chat.calls)
		}
	}
}

func TestChatbotBackendError(t *testing.T) {
	chat := &fakeChat{err: errors.New("openai: status 429: quota exceeded")}
	rec := serve(t, Dependencies{Chat: chat}, postJSON("/chatbot", `{"message":"hi"}`))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "quota exceeded") {
		t.Errorf("body = %q", rec.Body)
	}
}

func TestChatbotNotCached(t *testing.T) {
	chat := &fakeChat{reply: "ok"}
	h := New(0, Dependencies{Chat: chat}).Handler()
	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, postJSON("/chatbot", `{"message":"same"}`))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
	}
	if chat.calls != 2 {
		t.Errorf("calls = %d, want 2", chat.calls)
	}
}

func TestGetResponseAlias(t *testing.T) {
	chat := &fakeChat{reply: "hello there"}
	rec := serve(t, Dependencies{Chat: chat}, postForm("/get-response", url.Values{"user_input": {"hi"}}))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"chatbot_response":"hello there"}` {
		t.Errorf("body = %s", got)
	}

	chat.calls = 0
	rec = serve(t, Dependencies{Chat: chat}, postForm("/get-response", url.Values{}))
	if rec.Code != http.StatusBadRequest || chat.calls != 0 {
		t.Errorf("missing user_input: status = %d, calls = %d", rec.Code, chat.calls)
	}
}

func TestHandlerPanicRecovered(t *testing.T) {
	rec := serve(t, Dependencies{Chat: &fakeChat{panic: true}}, postJSON("/chatbot", `{"message":"hi"}`))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

// --- vision ---

func TestImageRecognitionBlankImage(t *testing.T) {
	labeler := &fakeLabeler{}
	req := postMultipart(t, "/image_recognition", nil, filePart{field: "image", filename: "blank.png", data: blankPNG(t)})
	rec := serve(t, Dependencies{Labeler: labeler}, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"labels":[]}` {
		t.Errorf("body = %s", got)
	}
	if labeler.calls != 1 {
		t.Errorf("calls = %d", labeler.calls)
	}
}

func TestImageRecognitionMissingImage(t *testing.T) {
	labeler := &fakeLabeler{}
	deps := Dependencies{Labeler: labeler}

	cases := map[string]*http.Request{
		"no file":       postMultipart(t, "/image_recognition", map[string]string{"other": "x"}),
		"wrong field":   postMultipart(t, "/image_recognition", nil, filePart{field: "picture", filename: "a.png", data: []byte("x")}),
		"empty file":    postMultipart(t, "/image_recognition", nil, filePart{field: "image", filename: "a.png"}),
		"not multipart": postJSON("/image_recognition", `{"image":"x"}`),
	}
	for name, req := range cases {
		if rec := serve(t, deps, req); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", name, rec.Code)
		}
	}
	if labeler.calls != 0 {
		t.Errorf("labeler called %d times", labeler.calls)
	}
}

func TestUploadTooLarge(t *testing.T) {
	labeler := &fakeLabeler{}
	req := postMultipart(t, "/image_recognition", nil, filePart{field: "image", filename: "big.png", data: bytes.Repeat([]byte("x"), 4096)})
	rec := serve(t, Dependencies{Labeler: labeler, MaxUploadBytes: 512}, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", rec.Code)
	}
	if labeler.calls != 0 {
		t.Errorf("labeler called %d times", labeler.calls)
	}
}

func TestImageCaptioning(t *testing.T) {
	captioner := &fakeCaptioner{}
	deps := Dependencies{Captioner: captioner}

	rec := serve(t, deps, postJSON("/image_captioning", `{"url":"https://example.com/dog.jpg"}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("json: status = %d, body = %s", rec.Code, rec.Body)
	}
	if captioner.url != "https://example.com/dog.jpg" || captioner.image != nil {
		t.Errorf("json: url = %q, image = %v", captioner.url, captioner.image)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"captions":["a dog on a beach"]}` {
		t.Errorf("body = %s", got)
	}

	rec = serve(t, deps, postMultipart(t, "/image_captioning", nil, filePart{field: "image", filename: "dog.jpg", data: []byte("jpeg")}))
	if rec.Code != http.StatusOK {
		t.Fatalf("multipart: status = %d", rec.Code)
	}
	if string(captioner.image) != "jpeg" || captioner.url != "" {
		t.Errorf("multipart: url = %q, image = %q", captioner.url, captioner.image)
	}

	calls := captioner.calls
	if rec := serve(t, deps, postJSON("/image_captioning", `{}`)); rec.Code != http.StatusBadRequest {
		t.Errorf("missing url: status = %d", rec.Code)
	}
	if captioner.calls != calls {
		t.Error("captioner called for missing url")
	}
}

// --- language ---

func TestNamedEntityRecognition(t *testing.T) {
	lang := &fakeLanguage{entities: []language.Entity{{Text: "Paris", Category: "LOCATION"}}}
	rec := serve(t, Dependencies{Entities: lang}, postJSON("/named_entity_recognition", `{"text":"Paris is nice"}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"entities":[["Paris","LOCATION"]]}` {
		t.Errorf("body = %s", got)
	}
}

func TestNamedEntityRecognitionNoEntities(t *testing.T) {
	rec := serve(t, Dependencies{Entities: &fakeLanguage{}}, postJSON("/named_entity_recognition", `{"text":"hello"}`))
	if got := strings.TrimSpace(rec.Body.String()); got != `{"entities":[]}` {
		t.Errorf("body = %s", got)
	}
}

func TestNamedEntityRecognitionMissingText(t *testing.T) {
	lang := &fakeLanguage{}
	rec := serve(t, Dependencies{Entities: lang}, postJSON("/named_entity_recognition", `{"txt":"Paris"}`))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if lang.calls != 0 {
		t.Errorf("calls = %d", lang.calls)
	}
}

func TestSentimentAnalysis(t *testing.T) {
	lang := &fakeLanguage{sentiment: "POSITIVE"}
	rec := serve(t, Dependencies{Sentiment: lang}, postJSON("/sentiment_analysis", `{"text":"I love it"}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"sentiment":"POSITIVE"}` {
		t.Errorf("body = %s", got)
	}
}

// --- speech ---

func TestTextToSpeech(t *testing.T) {
	synth := &fakeSynth{}
	deps := Dependencies{Synthesizer: synth, TTSLanguage: "en-US", TTSVoice: "en-US-Standard-C"}
	rec := serve(t, deps, postForm("/text-to-speech", url.Values{"text": {"hello"}, "output_format": {"mp3"}}))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "audio/mpeg" {
		t.Errorf("content type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "speech.mp3") {
		t.Errorf("content disposition = %q", cd)
	}
	if rec.Body.String() != "ID3-audio" {
		t.Errorf("body = %q", rec.Body)
	}
	if synth.opts.Format != tts.FormatMP3 || synth.opts.Language != "en-US" || synth.opts.Voice != "en-US-Standard-C" {
		t.Errorf("opts = %+v", synth.opts)
	}
}

func TestTextToSpeechBadRequests(t *testing.T) {
	synth := &fakeSynth{}
	deps := Dependencies{Synthesizer: synth}

	for name, values := range map[string]url.Values{
		"missing text":   {"output_format": {"mp3"}},
		"missing format": {"text": {"hello"}},
		"unknown format": {"text": {"hello"}, "output_format": {"flac"}},
	} {
		if rec := serve(t, deps, postForm("/text-to-speech", values)); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", name, rec.Code)
		}
	}
	if synth.calls != 0 {
		t.Errorf("synthesizer called %d times", synth.calls)
	}
}

func TestSpeechToText(t *testing.T) {
	stt := &fakeTranscriber{text: "turn on the lights"}
	req := postMultipart(t, "/speech-to-text", nil, filePart{field: "audio_file", filename: "a.wav", contentType: "audio/wav", data: []byte("RIFF")})
	rec := serve(t, Dependencies{Transcriber: stt}, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"transcription":"turn on the lights"}` {
		t.Errorf("body = %s", got)
	}
	if stt.contentType != "audio/wav" {
		t.Errorf("content type = %q", stt.contentType)
	}
}

// --- media ---

func TestAudioConversion(t *testing.T) {
	m := &fakeMedia{}
	values := url.Values{"input_file": {"in.wav"}, "output_file": {"out.mp3"}, "output_format": {"mp3"}}
	rec := serve(t, Dependencies{Converter: m}, postForm("/audio-conversion", values))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"message":"Audio conversion successful!"}` {
		t.Errorf("body = %s", got)
	}
	if strings.Join(m.convertArgs, ",") != "in.wav,out.mp3,mp3" {
		t.Errorf("args = %v", m.convertArgs)
	}
}

func TestAudioConversionErrors(t *testing.T) {
	values := url.Values{"input_file": {"in.wav"}, "output_file": {"out.xyz"}, "output_format": {"xyz"}}

	m := &fakeMedia{convertErr: errors.New("ffmpeg: exit status 1: Unknown format 'xyz'")}
	rec := serve(t, Dependencies{Converter: m}, postForm("/audio-conversion", values))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("tool error: status = %d, want 500", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Unknown format") {
		t.Errorf("tool error: body = %q", rec.Body)
	}

	m = &fakeMedia{convertErr: fmt.Errorf("resolving %q: %w", "../x", media.ErrOutsideRoot)}
	rec = serve(t, Dependencies{Converter: m}, postForm("/audio-conversion", values))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("outside root: status = %d, want 400", rec.Code)
	}

	m = &fakeMedia{}
	rec = serve(t, Dependencies{Converter: m}, postForm("/audio-conversion", url.Values{"input_file": {"in.wav"}}))
	if rec.Code != http.StatusBadRequest || m.convertCalls != 0 {
		t.Errorf("missing fields: status = %d, calls = %d", rec.Code, m.convertCalls)
	}
}

func TestVideoAnimation(t *testing.T) {
	m := &fakeMedia{frames: 240}
	req := postMultipart(t, "/video-animation", nil, filePart{field: "video_file", filename: "clip.mp4", data: []byte("mp4-bytes")})
	rec := serve(t, Dependencies{Frames: m}, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"message":"Video animation successful!","frames":240}` {
		t.Errorf("body = %s", got)
	}
	if string(m.frameData) != "mp4-bytes" {
		t.Errorf("staged file = %q", m.frameData)
	}
}

// --- diffusion ---

func TestStableDiffusion(t *testing.T) {
	gen := &fakeGenerator{}
	store := &fakeStore{}
	deps := Dependencies{Diffusion: gen, Artifacts: store, DefaultPrompt: "a painting"}

	req := postMultipart(t, "/stable-diffusion", nil,
		filePart{field: "input_image", filename: "in.png", data: []byte("png-in")},
		filePart{field: "output_image", filename: "../result.png"},
	)
	rec := serve(t, deps, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var resp MessageResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if resp.Message != "Stable diffusion successful!" || resp.Location != "mem://result.png" {
		t.Errorf("response = %+v", resp)
	}
	if string(store.puts["result.png"]) != "png-out" {
		t.Errorf("stored = %q", store.puts["result.png"])
	}
	if gen.prompt != "a painting" {
		t.Errorf("prompt = %q", gen.prompt)
	}
}

func TestStableDiffusionMissingOutput(t *testing.T) {
	gen := &fakeGenerator{}
	req := postMultipart(t, "/stable-diffusion", nil, filePart{field: "input_image", filename: "in.png", data: []byte("png-in")})
	rec := serve(t, Dependencies{Diffusion: gen, Artifacts: &fakeStore{}}, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if gen.calls != 0 {
		t.Errorf("generator called %d times", gen.calls)
	}
}

// --- routing and middleware ---

func TestUnconfiguredCapabilityNotFound(t *testing.T) {
	rec := serve(t, Dependencies{}, postJSON("/chatbot", `{"message":"hi"}`))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestIndexAndMetrics(t *testing.T) {
	rec := serve(t, Dependencies{}, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "aigateway") {
		t.Errorf("index: status = %d, body = %q", rec.Code, rec.Body)
	}

	rec = serve(t, Dependencies{}, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "aigateway_http_requests_total") {
		t.Errorf("metrics: status = %d", rec.Code)
	}
}

func TestRequestID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	rec := serve(t, Dependencies{}, req)
	if got := rec.Header().Get(RequestIDHeader); got != "req-123" {
		t.Errorf("echoed id = %q", got)
	}

	rec = serve(t, Dependencies{}, httptest.NewRequest(http.MethodGet, "/", nil))
	if got := rec.Header().Get(RequestIDHeader); len(got) != 36 {
		t.Errorf("generated id = %q, want a UUID", got)
	}
}
