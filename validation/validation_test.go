package validation

import (
	"strings"
	"testing"

	"github.com/kbukum/whisperd/errors"
)

func TestValidatorRequired(t *testing.T) {
	if New().Required("name", "base").HasErrors() {
		t.Error("expected no errors for valid input")
	}
	if !New().Required("name", "").HasErrors() {
		t.Error("expected error for empty required field")
	}
	if !New().Required("name", "   ").HasErrors() {
		t.Error("expected error for whitespace-only required field")
	}
}

func TestValidatorMaxLength(t *testing.T) {
	if New().MaxLength("language", "en", 32).HasErrors() {
		t.Error("expected no error for string within max length")
	}
	if !New().MaxLength("language", strings.Repeat("x", 33), 32).HasErrors() {
		t.Error("expected error for string exceeding max length")
	}
}

func TestValidatorRange(t *testing.T) {
	if New().Range("server.port", 8000, 1, 65535).HasErrors() {
		t.Error("expected no error for value in range")
	}
	if !New().Range("server.port", 0, 1, 65535).HasErrors() {
		t.Error("expected error for value below range")
	}
	if !New().Range("server.port", 70000, 1, 65535).HasErrors() {
		t.Error("expected error for value above range")
	}
}

func TestValidatorMin(t *testing.T) {
	if !New().Min("inference.max_concurrent", 0, 1).HasErrors() {
		t.Error("expected error below minimum")
	}
}

func TestValidatorOneOf(t *testing.T) {
	allowed := []string{"cpu", "cuda", "auto"}
	if New().OneOf("device", "cuda", allowed).HasErrors() {
		t.Error("expected no error for allowed value")
	}
	if New().OneOf("device", "", allowed).HasErrors() {
		t.Error("empty value should be skipped")
	}
	v := New().OneOf("device", "tpu", allowed)
	if !v.HasErrors() {
		t.Fatal("expected error for disallowed value")
	}
	if !strings.Contains(v.Errors()[0].Message, "cpu, cuda, auto") {
		t.Errorf("expected allowed values in message, got %q", v.Errors()[0].Message)
	}
}

func TestValidatorCustom(t *testing.T) {
	if !New().Custom(false, "binary", "not found").HasErrors() {
		t.Error("expected error when condition is false")
	}
}

func TestValidatorErr(t *testing.T) {
	if err := New().Err(); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}

	err := New().Required("a", "").OneOf("b", "x", []string{"y"}).Err()
	if err == nil {
		t.Fatal("expected error")
	}
	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != errors.ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", appErr.Code)
	}
	if !strings.Contains(appErr.Message, "a: is required; b: must be one of: y") {
		t.Errorf("unexpected message %q", appErr.Message)
	}
}

type inferenceConfig struct {
	MaxConcurrent int `mapstructure:"max_concurrent" validate:"gte=1"`
}

type sampleConfig struct {
	Host      string          `mapstructure:"host" validate:"required"`
	Model     string          `form:"model" validate:"omitempty,printascii,max=8"`
	Inference inferenceConfig `mapstructure:"inference"`
}

func TestValidateStruct(t *testing.T) {
	valid := sampleConfig{Host: "0.0.0.0", Model: "whisper", Inference: inferenceConfig{MaxConcurrent: 2}}
	if err := Validate(valid); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := Validate(sampleConfig{Model: "whisper-1-large", Inference: inferenceConfig{}})
	if err == nil {
		t.Fatal("expected validation error")
	}
	msg := err.Error()
	for _, want := range []string{"host: is required", "model: must be at most 8", "inference.max_concurrent: must be 1 or more"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %q in %q", want, msg)
		}
	}
}

func TestValidatePrintASCII(t *testing.T) {
	err := Validate(sampleConfig{Host: "h", Model: "wh\x01", Inference: inferenceConfig{MaxConcurrent: 1}})
	if err == nil || !strings.Contains(err.Error(), "printable ASCII") {
		t.Errorf("expected printascii failure, got %v", err)
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"ComputeType": "compute_type",
		"Model":       "model",
		"beamSize":    "beam_size",
	}
	for in, want := range tests {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
