package generator

import (
	"context"
	"errors"

	"contract-portal/contract-portal-backend/internal/contracts"
)

// Kind identifies one generation backend.
type Kind string

const (
	KindGoogleDocs Kind = "google_docs"
	KindHTMLPDF    Kind = "html_pdf"
	KindRawPDF     Kind = "raw_pdf"
)

// ErrUnknownKind is returned when a caller requests a backend that is not
// registered.
var ErrUnknownKind = errors.New("unknown generator kind")

// Result is the uniform output of every backend. Fields are populated per
// kind: Google Docs fills DocumentID/DocumentURL/PDFURL, the HTML backend
// fills HTML/PDF/DocumentURL/PDFURL and the raw backend fills PDF/PDFURL.
type Result struct {
	Kind        Kind   `json:"kind"`
	DocumentID  string `json:"document_id,omitempty"`
	DocumentURL string `json:"document_url,omitempty"`
	PDFURL      string `json:"pdf_url,omitempty"`
	HTML        string `json:"-"`
	PDF         []byte `json:"-"`
}

// Generator produces one contract artifact from a ContractData record.
// Implementations are pure functions of their input apart from network and
// storage side effects, and are safe for concurrent use.
type Generator interface {
	Kind() Kind
	Generate(ctx context.Context, data contracts.ContractData) (*Result, error)
}

// ArtifactStore persists a generated artifact and returns a resolvable URL.
// The storage medium (S3, filesystem) is a wiring concern of the caller.
type ArtifactStore interface {
	SaveArtifact(ctx context.Context, name, contentType string, data []byte) (string, error)
}
