package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"boilerfunnel/internal/app/policies"
	"boilerfunnel/internal/domain/shared/money"
	"boilerfunnel/internal/domain/submissions"
)

const SubmissionsSheet = "submissions"

var submissionColumns = []string{
	"ID", "Submitted", "First name", "Last name", "Email", "Phone", "Postcode", "Address",
	"Fuel", "Boiler type", "Property", "Bedrooms", "Bathtubs", "Showers", "Flue exit", "Timing",
	"Product", "Product price", "Deposit %", "Deposit", "Months", "APR", "Monthly payment", "Total payable",
	"Install date", "Surcharge", "Payment status", "Payment amount", "Paid at",
}

// Renderer produces the admin spreadsheet and customer quote documents.
type Renderer struct{}

func (Renderer) SubmissionsWorkbook(items []*submissions.Submission) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", SubmissionsSheet); err != nil {
		return nil, err
	}
	header := make([]any, len(submissionColumns))
	for i, c := range submissionColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(SubmissionsSheet, "A1", &header); err != nil {
		return nil, err
	}
	for i, s := range items {
		row := submissionRow(s)
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(SubmissionsSheet, cell, &row); err != nil {
			return nil, err
		}
	}
	if err := f.SetPanes(SubmissionsSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func submissionRow(s *submissions.Submission) []any {
	q, c := s.Qualification, s.Contact
	row := []any{
		string(s.ID), s.SubmittedAt.UTC().Format(time.RFC3339), c.FirstName, c.LastName, c.Email, c.Phone, q.Postcode, q.Address,
		string(q.FuelType), string(q.BoilerType), string(q.PropertyType), string(q.BedroomCount),
		string(q.BathtubCount), string(q.ShowerCubicleCount), string(q.FlueExitType), string(q.ReplacementTiming),
	}
	if p := s.Product; p != nil {
		row = append(row, p.Brand+" "+p.Name, p.Price)
	} else {
		row = append(row, "", "")
	}
	if f := s.Finance; f != nil {
		row = append(row, number(f.DepositPercentage), number(f.DepositAmount), f.Months, number(f.APR), number(f.MonthlyPayment), number(f.TotalPayable))
	} else {
		row = append(row, "", "", "", "", "", "")
	}
	if in := s.Install; in != nil {
		row = append(row, in.Date, number(in.Surcharge))
	} else {
		row = append(row, "", "")
	}
	row = append(row, string(s.Payment.Status))
	if s.Payment.Status == submissions.PaymentCompleted {
		row = append(row, number(s.Payment.Amount))
	} else {
		row = append(row, "")
	}
	if s.Payment.PaidAt != nil {
		row = append(row, s.Payment.PaidAt.UTC().Format(time.RFC3339))
	} else {
		row = append(row, "")
	}
	return row
}

func number(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func (Renderer) QuotePDF(sheet policies.QuoteSheet) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Boiler installation quote "+sheet.Reference, true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Your boiler installation quote")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 10)
	line := func(label, value string) {
		if value == "" {
			return
		}
		pdf.CellFormat(50, 6, tr(label), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, tr(value), "", 1, "L", false, 0, "")
	}
	line("Reference", sheet.Reference)
	line("Issued", sheet.IssuedAt.UTC().Format("2 January 2006"))
	line("Customer", sheet.CustomerName)
	line("Email", sheet.Email)
	line("Phone", sheet.Phone)
	line("Address", sheet.Address)
	line("Postcode", sheet.Postcode)
	pdf.Ln(4)

	table := func(label, value string) {
		pdf.CellFormat(110, 7, tr(label), "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 7, tr(value), "1", 1, "R", false, 0, "")
	}
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(170, 8, tr(fmt.Sprintf("%s %s", sheet.ProductBrand, sheet.ProductName)), "1", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	table("Fixed price (inc. VAT)", money.FormatGBP(sheet.CashPrice))
	if sheet.InstallDate != "" {
		table("Installation date", sheet.InstallDate)
	}
	if sheet.Surcharge.IsPositive() {
		table("Date surcharge", money.FormatGBP(sheet.Surcharge))
	}
	pdf.SetFont("Arial", "B", 10)
	table("Total", money.FormatGBP(sheet.Total()))

	if q := sheet.Finance; q != nil {
		pdf.Ln(6)
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(170, 8, "Finance", "1", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		table("Deposit", fmt.Sprintf("%s (%s%%)", money.FormatGBP(q.DepositAmount), q.DepositPercent.String()))
		table("Amount of credit", money.FormatGBP(q.LoanAmount))
		table("Term", fmt.Sprintf("%d months", q.TermMonths))
		table("Representative APR", q.APR.StringFixed(1)+"%")
		table("Monthly payment", "£"+q.MonthlyPayment.StringFixed(2))
		table("Total payable", money.FormatGBP(q.TotalPayable))
		table("Interest payable", money.FormatGBP(q.InterestPayable))
	}

	pdf.Ln(8)
	pdf.SetFont("Arial", "I", 8)
	pdf.MultiCell(0, 4, tr("The prices shown are fixed and include VAT. Finance is subject to status."), "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var _ policies.DocumentRenderer = Renderer{}
