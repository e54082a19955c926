package notifications

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"

	"contract-portal/contract-portal-backend/internal/generation"
)

type fakeSES struct {
	inputs []*sesv2.SendEmailInput
	err    error
}

func (f *fakeSES) SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.inputs = append(f.inputs, params)
	return &sesv2.SendEmailOutput{}, nil
}

func TestEmailChannelSend(t *testing.T) {
	ses := &fakeSES{}
	channel := NewEmailChannel(ses, "noreply@contracts.example.com")

	err := channel.Send(context.Background(), "jane@example.com", "Document ready", "Your contract is ready.")
	assert.NoError(t, err)
	assert.Len(t, ses.inputs, 1)

	input := ses.inputs[0]
	assert.Equal(t, "noreply@contracts.example.com", *input.FromEmailAddress)
	assert.Equal(t, []string{"jane@example.com"}, input.Destination.ToAddresses)
	assert.Equal(t, "Document ready", *input.Content.Simple.Subject.Data)
}

func TestWebhookChannelSend(t *testing.T) {
	var received map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	channel := NewWebhookChannel(server.URL)
	err := channel.Send(context.Background(), map[string]string{"contract_number": "CN-1"})
	assert.NoError(t, err)
	assert.Equal(t, "CN-1", received["contract_number"])
}

func TestWebhookChannelRejectsErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	channel := NewWebhookChannel(server.URL)
	err := channel.Send(context.Background(), map[string]string{})
	assert.ErrorContains(t, err, "502")
}

func TestDescribeGenerationEvent(t *testing.T) {
	subject, body, eventType := describe(generation.Event{
		ContractNumber: "CN-2026-001",
		Backend:        "raw_pdf",
		PDFURL:         "https://store.example.com/contract.pdf",
	})
	assert.Equal(t, TypeGenerationCompleted, eventType)
	assert.Contains(t, subject, "CN-2026-001")
	assert.Contains(t, body, "raw_pdf")
	assert.Contains(t, body, "https://store.example.com/contract.pdf")

	subject, body, eventType = describe(generation.Event{
		ContractNumber: "CN-2026-002",
		Backend:        "google_docs",
		Error:          "quota exceeded",
	})
	assert.Equal(t, TypeGenerationFailed, eventType)
	assert.Contains(t, subject, "failed")
	assert.Contains(t, body, "quota exceeded")
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, StatusSent, statusFor(nil))
	assert.Equal(t, StatusFailed, statusFor(assert.AnError))
}
