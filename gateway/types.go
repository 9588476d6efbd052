package gateway

import "mime/multipart"

// DefaultModelName is reported when a request omits the model field. The
// field is accepted for client compatibility; the loaded model is fixed.
const DefaultModelName = "whisper-1"

// TranscriptionForm is the multipart body of POST /v1/audio/transcriptions.
type TranscriptionForm struct {
	File     *multipart.FileHeader `form:"file" binding:"required"`
	Model    string                `form:"model" binding:"omitempty,printascii,max=256"`
	Language string                `form:"language" binding:"omitempty,printascii,max=32"`
}

// TranscriptionResponse is the OpenAI "json" response format.
type TranscriptionResponse struct {
	Text string `json:"text"`
}
