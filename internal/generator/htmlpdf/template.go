package htmlpdf

import (
	"fmt"
	"html"
	"strings"

	"contract-portal/contract-portal-backend/internal/contracts"
)

// BuildHTML renders the self-contained bilingual contract document. It is
// total: any well-formed ContractData produces valid HTML. Optional fields
// degrade to omitted sections or placeholder boxes instead of broken markup.
func BuildHTML(data contracts.ContractData) string {
	var b strings.Builder

	b.WriteString(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<style>
  body { font-family: 'Segoe UI', Tahoma, sans-serif; margin: 40px; color: #1a1a1a; }
  h1 { text-align: center; font-size: 22px; border-bottom: 2px solid #2c5777; padding-bottom: 12px; }
  h2 { font-size: 15px; color: #2c5777; border-bottom: 1px solid #d0d7de; padding-bottom: 4px; margin-top: 28px; }
  table.fields { width: 100%; border-collapse: collapse; }
  table.fields td { padding: 6px 8px; border-bottom: 1px solid #eef1f4; vertical-align: top; }
  td.label { width: 38%; color: #555; }
  .arabic { direction: rtl; font-size: 0.95em; color: #666; }
  .doc-images { display: flex; gap: 24px; margin-top: 12px; }
  .doc-box { width: 220px; min-height: 140px; border: 1px dashed #b0b8c0; padding: 8px; text-align: center; }
  .doc-box img { max-width: 200px; max-height: 300px; }
  .doc-missing { color: #999; font-size: 0.85em; padding-top: 48px; }
  .terms { white-space: pre-wrap; background: #f8f9fa; padding: 12px; border-left: 3px solid #2c5777; }
  .signatures { display: flex; justify-content: space-between; margin-top: 64px; }
  .sig-block { width: 40%; border-top: 1px solid #333; padding-top: 6px; font-size: 0.9em; text-align: center; }
</style>
</head>
<body>
`)

	b.WriteString("<h1>Employment Contract &mdash; عقد عمل</h1>\n")

	b.WriteString("<h2>Contract Details / تفاصيل العقد</h2>\n")
	writeFieldTable(&b, [][2]string{
		{"Contract Number", data.ContractNumber},
		{"Contract Date", data.ContractDate},
		{"Contract Type", data.ContractType},
	})

	b.WriteString("<h2>Promoter / المروج</h2>\n")
	writeFieldTable(&b, [][2]string{
		{"Name (English)", data.PromoterNameEN},
		{"Name (Arabic)", data.PromoterNameAR},
		{"Email", data.PromoterEmail},
		{"Mobile Number", data.PromoterMobileNumber},
		{"ID Card Number", data.PromoterIDCardNumber},
		{"Passport Number", data.PromoterPassportNumber},
	})
	b.WriteString(`<div class="doc-images">` + "\n")
	writeDocumentBox(&b, "ID Card", data.PromoterIDCardURL)
	writeDocumentBox(&b, "Passport", data.PromoterPassportURL)
	b.WriteString("</div>\n")

	b.WriteString("<h2>First Party / الطرف الأول</h2>\n")
	writeFieldTable(&b, [][2]string{
		{"Name (English)", data.FirstPartyNameEN},
		{"Name (Arabic)", data.FirstPartyNameAR},
		{"Commercial Registration No.", data.FirstPartyCRN},
		{"Email", data.FirstPartyEmail},
		{"Phone", data.FirstPartyPhone},
	})

	b.WriteString("<h2>Second Party / الطرف الثاني</h2>\n")
	writeFieldTable(&b, [][2]string{
		{"Name (English)", data.SecondPartyNameEN},
		{"Name (Arabic)", data.SecondPartyNameAR},
		{"Commercial Registration No.", data.SecondPartyCRN},
		{"Email", data.SecondPartyEmail},
		{"Phone", data.SecondPartyPhone},
	})

	b.WriteString("<h2>Employment Terms / شروط العمل</h2>\n")
	writeFieldTable(&b, [][2]string{
		{"Job Title", data.JobTitle},
		{"Department", data.Department},
		{"Work Location", data.WorkLocation},
		{"Basic Salary", data.FormattedSalary() + " " + html.EscapeString(data.Currency)},
		{"Start Date", data.ContractStartDate},
		{"End Date", data.ContractEndDate},
	})

	if data.SpecialTerms != "" {
		b.WriteString("<h2>Special Terms / شروط خاصة</h2>\n")
		fmt.Fprintf(&b, `<div class="terms">%s</div>`+"\n", html.EscapeString(data.SpecialTerms))
	}

	b.WriteString("<div class=\"signatures\">\n")
	b.WriteString("  <div class=\"sig-block\">First Party Signature / توقيع الطرف الأول</div>\n")
	b.WriteString("  <div class=\"sig-block\">Second Party Signature / توقيع الطرف الثاني</div>\n")
	b.WriteString("</div>\n</body>\n</html>\n")

	return b.String()
}

func writeFieldTable(b *strings.Builder, rows [][2]string) {
	b.WriteString(`<table class="fields">` + "\n")
	for _, row := range rows {
		label, value := row[0], row[1]
		if label == "Basic Salary" {
			// Salary value is pre-escaped with its currency suffix.
			fmt.Fprintf(b, `  <tr><td class="label">%s</td><td>%s</td></tr>`+"\n", label, value)
			continue
		}
		fmt.Fprintf(b, `  <tr><td class="label">%s</td><td>%s</td></tr>`+"\n", label, html.EscapeString(value))
	}
	b.WriteString("</table>\n")
}

// writeDocumentBox renders an identity document image, or an explanatory
// placeholder when the contract data carries no URL for it.
func writeDocumentBox(b *strings.Builder, title, url string) {
	b.WriteString(`<div class="doc-box">` + "\n")
	fmt.Fprintf(b, "  <div>%s</div>\n", title)
	if url != "" {
		fmt.Fprintf(b, `  <img src="%s" alt="%s">`+"\n", html.EscapeString(url), title)
	} else {
		fmt.Fprintf(b, `  <div class="doc-missing">No %s document on file</div>`+"\n", strings.ToLower(title))
	}
	b.WriteString("</div>\n")
}
