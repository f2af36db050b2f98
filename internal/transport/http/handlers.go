package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nadzzz/aigateway/internal/language"
	"github.com/nadzzz/aigateway/internal/media"
	"github.com/nadzzz/aigateway/internal/storage"
	"github.com/nadzzz/aigateway/internal/tts"
)

// multipartMemory is how much of a multipart body is held in memory before
// spilling file parts to disk.
const multipartMemory = 8 << 20

// handleIndex answers GET / with a plain-text banner.
//
// @Summary  Service banner
// @Tags     meta
// @Produce  plain
// @Success  200  {string}  string  "Banner text"
// @Router   / [get]
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "Welcome to aigateway!\n")
}

// handleChatbot processes a POST /chatbot request.
//
// @Summary     Chat completion
// @Description Sends a single user message to the configured chat backend and returns the assistant reply.
// @Tags        chat
// @Accept      json
// @Produce     json
// @Param       request  body      ChatbotRequest   true  "User message"
// @Success     200      {object}  ChatbotResponse  "Assistant reply"
// @Failure     400      {string}  string           "Missing or invalid message"
// @Failure     500      {string}  string           "Backend error"
// @Router      /chatbot [post]
func (s *Server) handleChatbot(w http.ResponseWriter, r *http.Request) {
	var req ChatbotRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		http.Error(w, "missing field: message", http.StatusBadRequest)
		return
	}

	reply, ok := s.respond(w, r, req.Message)
	if !ok {
		return
	}
	writeJSON(w, ChatbotResponse{Response: reply})
}

// handleGetResponse is the form-encoded alias of /chatbot.
//
// @Summary     Chat completion (form)
// @Description Same as /chatbot but takes the message from the user_input form field.
// @Tags        chat
// @Accept      x-www-form-urlencoded
// @Accept      mpfd
// @Produce     json
// @Param       user_input  formData  string               true  "User message"
// @Success     200         {object}  GetResponseResponse  "Assistant reply"
// @Failure     400         {string}  string               "Missing user_input"
// @Failure     500         {string}  string               "Backend error"
// @Router      /get-response [post]
func (s *Server) handleGetResponse(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	input := r.PostForm.Get("user_input")
	if strings.TrimSpace(input) == "" {
		http.Error(w, "missing field: user_input", http.StatusBadRequest)
		return
	}

	reply, ok := s.respond(w, r, input)
	if !ok {
		return
	}
	writeJSON(w, GetResponseResponse{ChatbotResponse: reply})
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, message string) (string, bool) {
	start := time.Now()
	reply, err := s.deps.Chat.Respond(r.Context(), message)
	s.observe(r.Context(), "chat", start, err)
	if err != nil {
		http.Error(w, "chat error: "+err.Error(), http.StatusInternalServerError)
		return "", false
	}
	return reply, true
}

// handleImageRecognition processes a POST /image_recognition request.
//
// @Summary     Image label detection
// @Description Detects labels describing the uploaded image. Labels are lower-cased, best match first.
// @Tags        vision
// @Accept      mpfd
// @Produce     json
// @Param       image  formData  file            true  "Image to analyze"
// @Success     200    {object}  LabelsResponse  "Detected labels (possibly empty)"
// @Failure     400    {string}  string          "Missing image"
// @Failure     413    {string}  string          "Upload too large"
// @Failure     500    {string}  string          "Backend error"
// @Router      /image_recognition [post]
func (s *Server) handleImageRecognition(w http.ResponseWriter, r *http.Request) {
	image, _, ok := formFile(w, r, "image")
	if !ok {
		return
	}

	start := time.Now()
	labels, err := s.deps.Labeler.Labels(r.Context(), image)
	s.observe(r.Context(), "vision.labels", start, err)
	if err != nil {
		http.Error(w, "image recognition error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if labels == nil {
		labels = []string{}
	}
	writeJSON(w, LabelsResponse{Labels: labels})
}

// handleImageCaptioning processes a POST /image_captioning request.
//
// @Summary     Image captioning
// @Description Describes an image given either as a multipart upload or as a JSON body carrying a public URL.
// @Tags        vision
// @Accept      mpfd
// @Accept      json
// @Produce     json
// @Param       image    formData  file              false  "Image to describe"
// @Param       request  body      CaptionRequest    false  "Image URL"
// @Success     200      {object}  CaptionsResponse  "Generated captions"
// @Failure     400      {string}  string            "Missing image or url"
// @Failure     500      {string}  string            "Backend error"
// @Router      /image_captioning [post]
func (s *Server) handleImageCaptioning(w http.ResponseWriter, r *http.Request) {
	var (
		image []byte
		url   string
	)
	if isMultipart(r) {
		var ok bool
		if image, _, ok = formFile(w, r, "image"); !ok {
			return
		}
	} else {
		var req CaptionRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		url = strings.TrimSpace(req.URL)
		if url == "" {
			http.Error(w, "missing field: url", http.StatusBadRequest)
			return
		}
	}

	start := time.Now()
	captions, err := s.deps.Captioner.Captions(r.Context(), image, url)
	s.observe(r.Context(), "vision.captions", start, err)
	if err != nil {
		http.Error(w, "image captioning error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if captions == nil {
		captions = []string{}
	}
	writeJSON(w, CaptionsResponse{Captions: captions})
}

// handleNamedEntityRecognition processes a POST /named_entity_recognition request.
//
// @Summary     Named entity recognition
// @Description Returns the named entities found in text as [text, category] pairs.
// @Tags        language
// @Accept      json
// @Produce     json
// @Param       request  body      TextRequest       true  "Text to analyze"
// @Success     200      {object}  EntitiesResponse  "Entities (possibly empty)"
// @Failure     400      {string}  string            "Missing or invalid text"
// @Failure     500      {string}  string            "Backend error"
// @Router      /named_entity_recognition [post]
func (s *Server) handleNamedEntityRecognition(w http.ResponseWriter, r *http.Request) {
	text, ok := decodeText(w, r)
	if !ok {
		return
	}

	start := time.Now()
	entities, err := s.deps.Entities.Entities(r.Context(), text)
	s.observe(r.Context(), "language.entities", start, err)
	if err != nil {
		http.Error(w, "entity recognition error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if entities == nil {
		entities = []language.Entity{}
	}
	writeJSON(w, EntitiesResponse{Entities: entities})
}

// handleSentimentAnalysis processes a POST /sentiment_analysis request.
//
// @Summary     Sentiment analysis
// @Description Classifies the overall sentiment of text as POSITIVE, NEGATIVE, NEUTRAL or MIXED.
// @Tags        language
// @Accept      json
// @Produce     json
// @Param       request  body      TextRequest        true  "Text to analyze"
// @Success     200      {object}  SentimentResponse  "Dominant sentiment"
// @Failure     400      {string}  string             "Missing or invalid text"
// @Failure     500      {string}  string             "Backend error"
// @Router      /sentiment_analysis [post]
func (s *Server) handleSentimentAnalysis(w http.ResponseWriter, r *http.Request) {
	text, ok := decodeText(w, r)
	if !ok {
		return
	}

	start := time.Now()
	sentiment, err := s.deps.Sentiment.Sentiment(r.Context(), text)
	s.observe(r.Context(), "language.sentiment", start, err)
	if err != nil {
		http.Error(w, "sentiment analysis error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, SentimentResponse{Sentiment: sentiment})
}

// handleTextToSpeech processes a POST /text-to-speech request.
//
// @Summary     Text to speech
// @Description Synthesizes text and streams the audio back in the requested format.
// @Tags        speech
// @Accept      x-www-form-urlencoded
// @Accept      mpfd
// @Produce     audio/wav
// @Produce     audio/mpeg
// @Produce     audio/ogg
// @Param       text           formData  string  true  "Text to speak"
// @Param       output_format  formData  string  true  "wav, mp3, ogg, mulaw or alaw"
// @Success     200            {file}    binary  "Synthesized audio"
// @Failure     400            {string}  string  "Missing field or unknown format"
// @Failure     500            {string}  string  "Backend error"
// @Router      /text-to-speech [post]
func (s *Server) handleTextToSpeech(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	text := r.PostForm.Get("text")
	if strings.TrimSpace(text) == "" {
		http.Error(w, "missing field: text", http.StatusBadRequest)
		return
	}
	rawFormat := r.PostForm.Get("output_format")
	if rawFormat == "" {
		http.Error(w, "missing field: output_format", http.StatusBadRequest)
		return
	}
	format, err := tts.ParseFormat(rawFormat)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	start := time.Now()
	result, err := s.deps.Synthesizer.Synthesize(r.Context(), text, tts.SynthesizeOpts{
		Format:   format,
		Language: s.deps.TTSLanguage,
		Voice:    s.deps.TTSVoice,
	})
	s.observe(r.Context(), "tts", start, err)
	if err != nil {
		http.Error(w, "text-to-speech error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	contentType := result.ContentType
	if contentType == "" {
		contentType = format.ContentType()
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", "speech."+string(format)))
	_, _ = w.Write(result.Audio)
}

// handleAudioConversion processes a POST /audio-conversion request.
//
// @Summary     Audio conversion
// @Description Transcodes a file under the server's media root into another format with ffmpeg.
// @Tags        media
// @Accept      x-www-form-urlencoded
// @Accept      mpfd
// @Produce     json
// @Param       input_file     formData  string           true  "Input path relative to the media root"
// @Param       output_file    formData  string           true  "Output path relative to the media root"
// @Param       output_format  formData  string           true  "ffmpeg output format (e.g. mp3)"
// @Success     200            {object}  MessageResponse  "Conversion finished"
// @Failure     400            {string}  string           "Missing field or path outside media root"
// @Failure     500            {string}  string           "ffmpeg error"
// @Router      /audio-conversion [post]
func (s *Server) handleAudioConversion(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	fields, ok := requireFields(w, r, "input_file", "output_file", "output_format")
	if !ok {
		return
	}

	start := time.Now()
	err := s.deps.Converter.Convert(r.Context(), fields[0], fields[1], fields[2])
	s.observe(r.Context(), "media.convert", start, err)
	switch {
	case errors.Is(err, media.ErrOutsideRoot):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		http.Error(w, "audio conversion error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, MessageResponse{Message: "Audio conversion successful!"})
}

// handleSpeechToText processes a POST /speech-to-text request.
//
// @Summary     Speech to text
// @Description Transcribes an uploaded audio file and returns the most likely transcript.
// @Tags        speech
// @Accept      mpfd
// @Produce     json
// @Param       audio_file  formData  file                   true  "Audio to transcribe"
// @Success     200         {object}  TranscriptionResponse  "Transcript"
// @Failure     400         {string}  string                 "Missing audio_file"
// @Failure     413         {string}  string                 "Upload too large"
// @Failure     500         {string}  string                 "Backend error or no speech recognized"
// @Router      /speech-to-text [post]
func (s *Server) handleSpeechToText(w http.ResponseWriter, r *http.Request) {
	audio, header, ok := formFile(w, r, "audio_file")
	if !ok {
		return
	}

	start := time.Now()
	text, err := s.deps.Transcriber.Transcribe(r.Context(), audio, header.Header.Get("Content-Type"))
	s.observe(r.Context(), "stt", start, err)
	if err != nil {
		http.Error(w, "speech-to-text error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, TranscriptionResponse{Transcription: text})
}

// handleStableDiffusion processes a POST /stable-diffusion request.
//
// @Summary     Image-to-image generation
// @Description Transforms input_image guided by prompt and stores the result under the output_image filename.
// @Tags        diffusion
// @Accept      mpfd
// @Produce     json
// @Param       input_image   formData  file             true   "Init image"
// @Param       output_image  formData  file             true   "Placeholder whose filename names the result"
// @Param       prompt        formData  string           false  "Text prompt"
// @Success     200           {object}  MessageResponse  "Generation finished; location of the stored image"
// @Failure     400           {string}  string           "Missing file"
// @Failure     500           {string}  string           "Backend or storage error"
// @Router      /stable-diffusion [post]
func (s *Server) handleStableDiffusion(w http.ResponseWriter, r *http.Request) {
	input, _, ok := formFile(w, r, "input_image")
	if !ok {
		return
	}
	_, outHeader, err := r.FormFile("output_image")
	if err != nil {
		http.Error(w, "missing file: output_image", http.StatusBadRequest)
		return
	}
	key, err := storage.CleanKey(outHeader.Filename)
	if err != nil {
		http.Error(w, "invalid output_image filename: "+err.Error(), http.StatusBadRequest)
		return
	}
	prompt := strings.TrimSpace(r.PostForm.Get("prompt"))
	if prompt == "" {
		prompt = s.deps.DefaultPrompt
	}

	start := time.Now()
	png, err := s.deps.Diffusion.ImageToImage(r.Context(), input, prompt)
	s.observe(r.Context(), "diffusion", start, err)
	if err != nil {
		http.Error(w, "stable diffusion error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	start = time.Now()
	location, err := s.deps.Artifacts.Put(r.Context(), key, "image/png", png)
	s.observe(r.Context(), "storage", start, err)
	if err != nil {
		http.Error(w, "storing image: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, MessageResponse{Message: "Stable diffusion successful!", Location: location})
}

// handleVideoAnimation processes a POST /video-animation request.
//
// @Summary     Video frame iteration
// @Description Decodes every frame of the uploaded video and reports how many were read.
// @Tags        media
// @Accept      mpfd
// @Produce     json
// @Param       video_file  formData  file             true  "Video to iterate"
// @Success     200         {object}  MessageResponse  "Frame count"
// @Failure     400         {string}  string           "Missing video_file"
// @Failure     500         {string}  string           "ffprobe error"
// @Router      /video-animation [post]
func (s *Server) handleVideoAnimation(w http.ResponseWriter, r *http.Request) {
	video, header, ok := formFile(w, r, "video_file")
	if !ok {
		return
	}

	tmp, err := os.CreateTemp("", "aigateway-video-*"+filepath.Ext(header.Filename))
	if err != nil {
		http.Error(w, "staging video: "+err.Error(), http.StatusInternalServerError)
		return
	}
	defer os.Remove(tmp.Name())
	_, err = tmp.Write(video)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		http.Error(w, "staging video: "+err.Error(), http.StatusInternalServerError)
		return
	}

	start := time.Now()
	frames, err := s.deps.Frames.CountFrames(r.Context(), tmp.Name())
	s.observe(r.Context(), "media.frames", start, err)
	if err != nil {
		http.Error(w, "video animation error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, MessageResponse{Message: "Video animation successful!", Frames: &frames})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// requestError reports a failure to read the request body.
func requestError(w http.ResponseWriter, msg string, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		http.Error(w, fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit), http.StatusRequestEntityTooLarge)
		return
	}
	http.Error(w, msg+": "+err.Error(), http.StatusBadRequest)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		requestError(w, "invalid json", err)
		return false
	}
	return true
}

func decodeText(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req TextRequest
	if !decodeJSON(w, r, &req) {
		return "", false
	}
	if strings.TrimSpace(req.Text) == "" {
		http.Error(w, "missing field: text", http.StatusBadRequest)
		return "", false
	}
	return req.Text, true
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// parseForm populates r.PostForm from either a urlencoded or multipart body.
func parseForm(w http.ResponseWriter, r *http.Request) bool {
	var err error
	if isMultipart(r) {
		err = r.ParseMultipartForm(multipartMemory)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		requestError(w, "invalid form", err)
		return false
	}
	return true
}

// requireFields returns the named form values in order, or writes a 400
// naming the first one that is missing.
func requireFields(w http.ResponseWriter, r *http.Request, names ...string) ([]string, bool) {
	values := make([]string, len(names))
	for i, name := range names {
		values[i] = strings.TrimSpace(r.PostForm.Get(name))
		if values[i] == "" {
			http.Error(w, "missing field: "+name, http.StatusBadRequest)
			return nil, false
		}
	}
	return values, true
}

// formFile reads a non-empty uploaded file from a multipart body.
func formFile(w http.ResponseWriter, r *http.Request, field string) ([]byte, *multipart.FileHeader, bool) {
	if r.MultipartForm == nil {
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			requestError(w, "invalid multipart body", err)
			return nil, nil, false
		}
	}
	f, header, err := r.FormFile(field)
	if err != nil {
		http.Error(w, "missing file: "+field, http.StatusBadRequest)
		return nil, nil, false
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		requestError(w, "reading "+field, err)
		return nil, nil, false
	}
	if len(data) == 0 {
		http.Error(w, "empty file: "+field, http.StatusBadRequest)
		return nil, nil, false
	}
	return data, header, true
}
