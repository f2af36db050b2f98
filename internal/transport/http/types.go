package http

import "github.com/nadzzz/aigateway/internal/language"

// ChatbotRequest is the body of POST /chatbot.
type ChatbotRequest struct {
	Message string `json:"message" example:"What is the capital of France?"`
}

// ChatbotResponse wraps the assistant reply.
type ChatbotResponse struct {
	Response string `json:"response"`
}

// GetResponseResponse is the reply shape of the form-based chat alias.
type GetResponseResponse struct {
	ChatbotResponse string `json:"chatbot_response"`
}

// TextRequest is the body of the text analysis routes.
type TextRequest struct {
	Text string `json:"text" example:"Paris is nice"`
}

// EntitiesResponse lists entities as [text, category] pairs.
type EntitiesResponse struct {
	Entities []language.Entity `json:"entities" swaggertype:"array,string"`
}

// SentimentResponse carries the dominant sentiment.
type SentimentResponse struct {
	Sentiment string `json:"sentiment" example:"POSITIVE"`
}

// LabelsResponse lists detected image labels.
type LabelsResponse struct {
	Labels []string `json:"labels"`
}

// CaptionRequest is the JSON form of POST /image_captioning.
type CaptionRequest struct {
	URL string `json:"url" example:"https://example.com/dog.jpg"`
}

// CaptionsResponse lists generated captions.
type CaptionsResponse struct {
	Captions []string `json:"captions"`
}

// TranscriptionResponse carries the speech-to-text result.
type TranscriptionResponse struct {
	Transcription string `json:"transcription"`
}

// MessageResponse is returned by the side-effecting routes.
type MessageResponse struct {
	Message  string `json:"message"`
	Location string `json:"location,omitempty"`
	Frames   *int   `json:"frames,omitempty"`
}
