package googledocs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"
	"unicode/utf16"

	docs "google.golang.org/api/docs/v1"
	"go.uber.org/zap"

	"contract-portal/contract-portal-backend/internal/contracts"
	"contract-portal/contract-portal-backend/internal/generator"
)

// ErrTemplateCopy marks a template copy that failed or returned no file ID.
// It is fatal for the call; the caller decides whether to retry.
var ErrTemplateCopy = errors.New("template copy failed")

const (
	exportMIMEType = "application/pdf"

	// Inline identity-document images are rendered at a fixed display size.
	imageWidthPt  = 200
	imageHeightPt = 300
)

// Config carries the construction-time settings for the Google Docs backend.
type Config struct {
	TemplateID        string `json:"template_id"`
	ServiceAccountKey string `json:"service_account_key"`
	OutputFolderID    string `json:"output_folder_id,omitempty"`
}

// OrphanRecorder is notified when a partial Drive copy could not be deleted
// during failure compensation, so a maintenance job can remove it later.
type OrphanRecorder interface {
	RecordOrphan(ctx context.Context, fileID, reason string) error
}

// Generator populates a copy of a Google Docs template and exports it to PDF.
// Authentication happens once in New; the generator is immutable afterwards
// and safe for concurrent use.
type Generator struct {
	cfg     Config
	docs    DocsClient
	drive   DriveClient
	orphans OrphanRecorder
	http    *http.Client
	logger  *zap.Logger
	now     func() time.Time
}

// New authenticates the service account and returns a ready generator.
// Credential problems surface here, not on the first Generate call.
func New(ctx context.Context, cfg Config, orphans OrphanRecorder, logger *zap.Logger) (*Generator, error) {
	if cfg.TemplateID == "" {
		return nil, fmt.Errorf("template id is required")
	}
	if cfg.ServiceAccountKey == "" {
		return nil, fmt.Errorf("service account key is required")
	}

	docsClient, driveClient, err := newAPIClients(ctx, []byte(cfg.ServiceAccountKey))
	if err != nil {
		return nil, err
	}

	return NewWithClients(cfg, docsClient, driveClient, orphans, logger), nil
}

// NewWithClients builds a generator around pre-authenticated API clients.
func NewWithClients(cfg Config, docsClient DocsClient, driveClient DriveClient, orphans OrphanRecorder, logger *zap.Logger) *Generator {
	return &Generator{
		cfg:     cfg,
		docs:    docsClient,
		drive:   driveClient,
		orphans: orphans,
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  logger,
		now:     time.Now,
	}
}

func (g *Generator) Kind() generator.Kind {
	return generator.KindGoogleDocs
}

// Generate copies the template, applies the text substitutions in one batch,
// inserts the identity-document images best-effort, exports the result to PDF
// and publishes it with link-read access.
//
// Generation is deliberately not idempotent: every call produces a new,
// uniquely named Drive copy. Any failure after the copy deletes the partial
// copy before the error is returned.
func (g *Generator) Generate(ctx context.Context, data contracts.ContractData) (*generator.Result, error) {
	name := fmt.Sprintf("Contract_%s_%s", data.ContractNumber, g.now().Format("20060102_150405.000"))

	var parents []string
	if g.cfg.OutputFolderID != "" {
		parents = []string{g.cfg.OutputFolderID}
	}

	copied, err := g.drive.Copy(ctx, g.cfg.TemplateID, name, parents)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateCopy, err)
	}
	if copied == nil || copied.Id == "" {
		return nil, fmt.Errorf("%w: copy returned no file id", ErrTemplateCopy)
	}
	documentID := copied.Id

	result, err := g.populate(ctx, documentID, name, data)
	if err != nil {
		g.compensate(ctx, documentID, err)
		return nil, err
	}
	return result, nil
}

func (g *Generator) populate(ctx context.Context, documentID, name string, data contracts.ContractData) (*generator.Result, error) {
	// The full text pass commits as a single batch before any image work, so
	// a later image failure can never corrupt applied substitutions.
	if err := g.docs.BatchUpdate(ctx, documentID, textRequests(data)); err != nil {
		return nil, fmt.Errorf("apply text substitutions: %w", err)
	}

	for _, token := range contracts.ImageTokens() {
		if err := g.insertImage(ctx, documentID, token, data); err != nil {
			// Image substitution is best-effort: log and keep going.
			g.logger.Warn("skipping image placeholder",
				zap.String("document_id", documentID),
				zap.String("token", token),
				zap.Error(err))
		}
	}

	pdfBytes, err := g.drive.Export(ctx, documentID, exportMIMEType)
	if err != nil {
		return nil, fmt.Errorf("export pdf: %w", err)
	}

	pdfFile, err := g.drive.Upload(ctx, name+".pdf", exportMIMEType, parentsOf(g.cfg), pdfBytes)
	if err != nil {
		return nil, fmt.Errorf("upload pdf: %w", err)
	}
	if err := g.drive.AllowLinkRead(ctx, pdfFile.Id); err != nil {
		return nil, fmt.Errorf("publish pdf: %w", err)
	}

	pdfURL := pdfFile.WebViewLink
	if pdfURL == "" {
		pdfURL = fmt.Sprintf("https://drive.google.com/file/d/%s/view", pdfFile.Id)
	}

	return &generator.Result{
		Kind:        generator.KindGoogleDocs,
		DocumentID:  documentID,
		DocumentURL: fmt.Sprintf("https://docs.google.com/document/d/%s/edit", documentID),
		PDFURL:      pdfURL,
	}, nil
}

// compensate deletes the partial template copy left behind by a failed
// generation. When deletion itself fails the file ID is recorded for the
// maintenance worker instead of being leaked silently.
func (g *Generator) compensate(ctx context.Context, documentID string, cause error) {
	if err := g.drive.Delete(ctx, documentID); err != nil {
		g.logger.Error("failed to delete partial document copy",
			zap.String("document_id", documentID),
			zap.Error(err))
		if g.orphans != nil {
			if recErr := g.orphans.RecordOrphan(ctx, documentID, cause.Error()); recErr != nil {
				g.logger.Error("failed to record orphaned copy", zap.Error(recErr))
			}
		}
		return
	}
	g.logger.Info("deleted partial document copy after failure",
		zap.String("document_id", documentID),
		zap.Error(cause))
}

// textRequests builds one ReplaceAllText request per placeholder token, in
// deterministic order.
func textRequests(data contracts.ContractData) []*docs.Request {
	replacements := contracts.Replacements(data)
	tokens := make([]string, 0, len(replacements))
	for token := range replacements {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)

	requests := make([]*docs.Request, 0, len(tokens))
	for _, token := range tokens {
		requests = append(requests, &docs.Request{
			ReplaceAllText: &docs.ReplaceAllTextRequest{
				ContainsText: &docs.SubstringMatchCriteria{
					Text:      token,
					MatchCase: true,
				},
				ReplaceText: replacements[token],
			},
		})
	}
	return requests
}

// insertImage locates token in the document, uploads the referenced identity
// document to Drive and replaces the token with an inline image. A token or
// URL that is absent is a skip, not an error worth failing the generation.
func (g *Generator) insertImage(ctx context.Context, documentID, token string, data contracts.ContractData) error {
	sourceURL := contracts.ImageURL(data, token)
	if sourceURL == "" {
		g.logger.Debug("no image url for token",
			zap.String("document_id", documentID),
			zap.String("token", token))
		return nil
	}

	// Re-fetch per token: a previous insertion shifts every later index.
	doc, err := g.docs.Get(ctx, documentID)
	if err != nil {
		return fmt.Errorf("fetch document: %w", err)
	}
	start, found := findToken(doc, token)
	if !found {
		g.logger.Debug("image placeholder not present in template",
			zap.String("document_id", documentID),
			zap.String("token", token))
		return nil
	}

	imageBytes, err := g.fetchImage(ctx, sourceURL)
	if err != nil {
		return fmt.Errorf("download image: %w", err)
	}

	imageFile, err := g.drive.Upload(ctx, fmt.Sprintf("%s_%s.img", documentID, strings.Trim(token, "{}")),
		http.DetectContentType(imageBytes), parentsOf(g.cfg), imageBytes)
	if err != nil {
		return fmt.Errorf("upload image: %w", err)
	}
	if err := g.drive.AllowLinkRead(ctx, imageFile.Id); err != nil {
		return fmt.Errorf("publish image: %w", err)
	}

	imageURI := imageFile.WebContentLink
	if imageURI == "" {
		imageURI = fmt.Sprintf("https://drive.google.com/uc?id=%s", imageFile.Id)
	}

	requests := []*docs.Request{
		{
			DeleteContentRange: &docs.DeleteContentRangeRequest{
				Range: &docs.Range{
					StartIndex: start,
					EndIndex:   start + int64(len(token)),
				},
			},
		},
		{
			InsertInlineImage: &docs.InsertInlineImageRequest{
				Location: &docs.Location{Index: start},
				Uri:      imageURI,
				ObjectSize: &docs.Size{
					Width:  &docs.Dimension{Magnitude: imageWidthPt, Unit: "PT"},
					Height: &docs.Dimension{Magnitude: imageHeightPt, Unit: "PT"},
				},
			},
		},
	}
	if err := g.docs.BatchUpdate(ctx, documentID, requests); err != nil {
		return fmt.Errorf("insert inline image: %w", err)
	}
	return nil
}

func (g *Generator) fetchImage(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := g.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, url)
	}
	return io.ReadAll(resp.Body)
}

// findToken scans the document body for the first text run containing token
// and returns the token's absolute start index. Docs API indices count UTF-16
// code units, so the byte offset inside the run has to be converted before it
// is added to the run's StartIndex; the templates carry Arabic text, where
// the two differ.
func findToken(doc *docs.Document, token string) (int64, bool) {
	if doc == nil || doc.Body == nil {
		return 0, false
	}
	for _, se := range doc.Body.Content {
		if se.Paragraph == nil {
			continue
		}
		for _, el := range se.Paragraph.Elements {
			if el.TextRun == nil {
				continue
			}
			if idx := strings.Index(el.TextRun.Content, token); idx >= 0 {
				offset := len(utf16.Encode([]rune(el.TextRun.Content[:idx])))
				return el.StartIndex + int64(offset), true
			}
		}
	}
	return 0, false
}

func parentsOf(cfg Config) []string {
	if cfg.OutputFolderID == "" {
		return nil
	}
	return []string{cfg.OutputFolderID}
}
