package report

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/credit-risk-cli/internal/model"
)

var xlsxHeader = []string{
	"Ticker", "Company", "Company Type", "Model", "Z-Score", "Zone",
	"DD", "PD %", "Final Decision", "Basis", "Warnings", "Error",
}

// WriteXLSX writes the batch results to an XLSX workbook at path, one row
// per ticker in input order. Failed tickers get an error row.
func WriteXLSX(path string, items []model.BatchItem) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Assessments")
	if err != nil {
		return eris.Wrap(err, "xlsx: add sheet")
	}

	header := sheet.AddRow()
	for _, title := range xlsxHeader {
		header.AddCell().SetString(title)
	}

	for _, item := range items {
		row := sheet.AddRow()

		if item.Failed() {
			row.AddCell().SetString(item.Ticker)
			for i := 0; i < len(xlsxHeader)-2; i++ {
				row.AddCell()
			}
			row.AddCell().SetString(item.Error)
			continue
		}

		res := item.Result
		row.AddCell().SetString(res.Ticker)
		row.AddCell().SetString(res.CompanyName)
		row.AddCell().SetString(string(res.Profile.CompanyType))
		row.AddCell().SetString(string(res.Profile.ModelVersion))
		row.AddCell().SetFloatWithFormat(res.ZScore.Score, "0.0000")
		row.AddCell().SetString(string(res.ZDecision.Zone))

		if res.Merton != nil {
			row.AddCell().SetFloatWithFormat(res.Merton.Result.DD, "0.0000")
			row.AddCell().SetFloatWithFormat(res.Merton.Result.PDPct, "0.0000")
		} else {
			row.AddCell()
			row.AddCell()
		}

		row.AddCell().SetString(string(res.Final.Decision))
		row.AddCell().SetString(res.Final.Basis)
		row.AddCell().SetString(joinWarnings(res.Warnings))
		row.AddCell()
	}

	return eris.Wrap(f.Save(path), "xlsx: save")
}

func joinWarnings(warnings []string) string {
	out := ""
	for i, w := range warnings {
		if i > 0 {
			out += "; "
		}
		out += w
	}
	return out
}
