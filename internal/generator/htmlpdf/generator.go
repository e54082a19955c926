package htmlpdf

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"contract-portal/contract-portal-backend/internal/contracts"
	"contract-portal/contract-portal-backend/internal/generator"
)

// Generator renders the bilingual HTML contract and prints it to PDF with a
// headless browser. HTML construction is total; rendering and storage
// failures propagate unchanged to the caller.
type Generator struct {
	renderer PDFRenderer
	store    generator.ArtifactStore
	logger   *zap.Logger
	now      func() time.Time
}

func New(renderer PDFRenderer, store generator.ArtifactStore, logger *zap.Logger) *Generator {
	return &Generator{
		renderer: renderer,
		store:    store,
		logger:   logger,
		now:      time.Now,
	}
}

func (g *Generator) Kind() generator.Kind {
	return generator.KindHTMLPDF
}

func (g *Generator) Generate(ctx context.Context, data contracts.ContractData) (*generator.Result, error) {
	htmlContent := BuildHTML(data)

	pdfBytes, err := g.renderer.RenderPDF(ctx, htmlContent)
	if err != nil {
		return nil, fmt.Errorf("render contract %s: %w", data.ContractNumber, err)
	}

	result := &generator.Result{
		Kind: generator.KindHTMLPDF,
		HTML: htmlContent,
		PDF:  pdfBytes,
	}

	if g.store != nil {
		stamp := g.now().UnixNano()
		htmlName := fmt.Sprintf("contract_%s_%d.html", data.ContractNumber, stamp)
		pdfName := fmt.Sprintf("contract_%s_%d.pdf", data.ContractNumber, stamp)

		htmlURL, err := g.store.SaveArtifact(ctx, htmlName, "text/html; charset=utf-8", []byte(htmlContent))
		if err != nil {
			return nil, fmt.Errorf("save html artifact: %w", err)
		}
		pdfURL, err := g.store.SaveArtifact(ctx, pdfName, "application/pdf", pdfBytes)
		if err != nil {
			return nil, fmt.Errorf("save pdf artifact: %w", err)
		}

		result.DocumentURL = htmlURL
		result.PDFURL = pdfURL
	}

	g.logger.Info("generated html contract",
		zap.String("contract_number", data.ContractNumber),
		zap.Int("pdf_bytes", len(pdfBytes)))

	return result, nil
}
