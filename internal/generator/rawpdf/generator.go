package rawpdf

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"

	"contract-portal/contract-portal-backend/internal/contracts"
	"contract-portal/contract-portal-backend/internal/generator"
)

// Options configures the raw PDF layout.
type Options struct {
	FontFamily string  `json:"font_family"`
	FontSize   float64 `json:"font_size"`
	LineHeight float64 `json:"line_height"`
	MarginLeft float64 `json:"margin_left"`
	MarginTop  float64 `json:"margin_top"`
}

func DefaultOptions() Options {
	return Options{
		FontFamily: "Helvetica",
		FontSize:   11,
		LineHeight: 18,
		MarginLeft: 56,
		MarginTop:  64,
	}
}

// Generator is the last-resort backend: a single fixed-size page with every
// contract field on its own baseline. It has no network dependency and never
// fails for validated input. Content past the bottom margin is not drawn; the
// page does not paginate.
type Generator struct {
	opts   Options
	store  generator.ArtifactStore
	logger *zap.Logger
	now    func() time.Time
}

func New(opts Options, store generator.ArtifactStore, logger *zap.Logger) *Generator {
	return &Generator{
		opts:   opts,
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

func (g *Generator) Kind() generator.Kind {
	return generator.KindRawPDF
}

func (g *Generator) Generate(ctx context.Context, data contracts.ContractData) (*generator.Result, error) {
	pdfBytes, err := g.Render(data)
	if err != nil {
		return nil, err
	}

	result := &generator.Result{
		Kind: generator.KindRawPDF,
		PDF:  pdfBytes,
	}

	if g.store != nil {
		name := fmt.Sprintf("contract_%s_%d.pdf", data.ContractNumber, g.now().UnixNano())
		url, err := g.store.SaveArtifact(ctx, name, "application/pdf", pdfBytes)
		if err != nil {
			return nil, fmt.Errorf("save raw pdf artifact: %w", err)
		}
		result.PDFURL = url
		result.DocumentURL = url
	}

	return result, nil
}

// Render builds the PDF bytes. Compression is disabled so the content stream
// stays a plain sequence of Tj text operators.
func (g *Generator) Render(data contracts.ContractData) ([]byte, error) {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetCompression(false)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(fmt.Sprintf("Contract %s", data.ContractNumber), true)
	pdf.AddPage()

	_, pageHeight := pdf.GetPageSize()
	limit := pageHeight - g.opts.MarginTop
	y := g.opts.MarginTop

	writeLine := func(style string, size float64, text string) {
		if y > limit {
			// Single-page backend: overflow is silently truncated.
			return
		}
		pdf.SetFont(g.opts.FontFamily, style, size)
		pdf.Text(g.opts.MarginLeft, y, text)
		y += g.opts.LineHeight
	}

	writeLine("B", g.opts.FontSize+4, "EMPLOYMENT CONTRACT")
	y += g.opts.LineHeight / 2

	for _, line := range contractLines(data) {
		writeLine("", g.opts.FontSize, line)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("emit pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// contractLines flattens the contract fields into display lines. Optional
// fields that are empty produce no line at all.
func contractLines(data contracts.ContractData) []string {
	lines := []string{
		fmt.Sprintf("Contract Number: %s", data.ContractNumber),
		fmt.Sprintf("Contract Date: %s", data.ContractDate),
		fmt.Sprintf("Contract Type: %s", data.ContractType),
		"",
		fmt.Sprintf("Name: %s", data.PromoterNameEN),
		fmt.Sprintf("Name (Arabic): %s", data.PromoterNameAR),
		fmt.Sprintf("Email: %s", data.PromoterEmail),
		fmt.Sprintf("Mobile: %s", data.PromoterMobileNumber),
		fmt.Sprintf("ID Card Number: %s", data.PromoterIDCardNumber),
	}
	if data.PromoterPassportNumber != "" {
		lines = append(lines, fmt.Sprintf("Passport Number: %s", data.PromoterPassportNumber))
	}
	lines = append(lines,
		"",
		fmt.Sprintf("First Party: %s", data.FirstPartyNameEN),
		fmt.Sprintf("First Party CRN: %s", data.FirstPartyCRN),
		fmt.Sprintf("First Party Email: %s", data.FirstPartyEmail),
		fmt.Sprintf("First Party Phone: %s", data.FirstPartyPhone),
		"",
		fmt.Sprintf("Second Party: %s", data.SecondPartyNameEN),
		fmt.Sprintf("Second Party CRN: %s", data.SecondPartyCRN),
		fmt.Sprintf("Second Party Email: %s", data.SecondPartyEmail),
		fmt.Sprintf("Second Party Phone: %s", data.SecondPartyPhone),
		"",
		fmt.Sprintf("Job Title: %s", data.JobTitle),
		fmt.Sprintf("Department: %s", data.Department),
		fmt.Sprintf("Work Location: %s", data.WorkLocation),
		fmt.Sprintf("Basic Salary: %s %s", data.FormattedSalary(), data.Currency),
		fmt.Sprintf("Start Date: %s", data.ContractStartDate),
		fmt.Sprintf("End Date: %s", data.ContractEndDate),
	)
	if data.SpecialTerms != "" {
		lines = append(lines, "", fmt.Sprintf("Special Terms: %s", data.SpecialTerms))
	}
	return lines
}
