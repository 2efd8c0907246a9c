// Package report renders analysis results for humans: a detailed console
// view per company, a comparative batch summary, and an XLSX export.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/credit-risk-cli/internal/model"
)

// Renderer writes human-readable reports. Large currency figures are
// printed with thousands separators.
type Renderer struct {
	w io.Writer
	p *message.Printer
}

// NewRenderer creates a Renderer writing to w.
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{
		w: w,
		p: message.NewPrinter(language.English),
	}
}

// Detail writes the full single-company report.
func (r *Renderer) Detail(res *model.AnalysisResult) {
	rule := strings.Repeat("=", 70)

	fmt.Fprintln(r.w, rule)
	fmt.Fprintf(r.w, "CREDIT RISK ASSESSMENT: %s (%s)\n", res.CompanyName, res.Ticker)
	fmt.Fprintln(r.w, rule)
	fmt.Fprintf(r.w, "Industry:       %s\n", res.Profile.Industry)
	fmt.Fprintf(r.w, "Classification: %s (model %s)\n", res.Profile.CompanyType, res.Profile.ModelVersion)
	fmt.Fprintf(r.w, "Analyzed:       %s\n", res.AnalyzedAt.Format("2006-01-02 15:04 MST"))
	fmt.Fprintln(r.w)

	fmt.Fprintln(r.w, scoreLabel(res.Profile.ModelVersion))
	fmt.Fprintf(r.w, "  X1 (working capital / assets):   %8.4f\n", res.ZScore.X1)
	fmt.Fprintf(r.w, "  X2 (retained earnings / assets): %8.4f\n", res.ZScore.X2)
	fmt.Fprintf(r.w, "  X3 (EBIT / assets):              %8.4f\n", res.ZScore.X3)
	fmt.Fprintf(r.w, "  X4 (equity / liabilities):       %8.4f\n", res.ZScore.X4)
	if res.Profile.ModelVersion == model.ModelVersionZ {
		fmt.Fprintf(r.w, "  X5 (sales / assets):             %8.4f\n", res.ZScore.X5)
	}
	fmt.Fprintf(r.w, "  Score: %.4f\n", res.ZScore.Score)
	fmt.Fprintf(r.w, "  %s\n", res.ZDecision.Reasoning)
	fmt.Fprintln(r.w)

	if res.Merton != nil {
		m := res.Merton
		fmt.Fprintln(r.w, "Merton structural model")
		r.p.Fprintf(r.w, "  Asset value (V_A): %.2f\n", m.Result.AssetValue)
		r.p.Fprintf(r.w, "  Debt (D):          %.2f\n", m.Result.Debt)
		fmt.Fprintf(r.w, "  Drift (mu):        %.4f\n", m.Result.Drift)
		fmt.Fprintf(r.w, "  Volatility:        %.4f\n", m.Result.Volatility)
		fmt.Fprintf(r.w, "  Distance to default: %.4f\n", m.Result.DD)
		fmt.Fprintf(r.w, "  Probability of default: %.4f%%\n", m.Result.PDPct)
		fmt.Fprintf(r.w, "  %s\n", m.Decision.Reasoning)
	} else {
		fmt.Fprintln(r.w, "Merton structural model: not applicable")
	}
	fmt.Fprintln(r.w)

	for _, warning := range res.Warnings {
		fmt.Fprintf(r.w, "WARNING: %s\n", warning)
	}
	if len(res.Warnings) > 0 {
		fmt.Fprintln(r.w)
	}

	fmt.Fprintln(r.w, rule)
	fmt.Fprintf(r.w, "FINAL DECISION: %s\n", res.Final.Decision)
	fmt.Fprintf(r.w, "Basis: %s\n", res.Final.Basis)
	fmt.Fprintln(r.w, rule)
}

// Summary writes the comparative batch table, one row per ticker in input
// order, including failed tickers.
func (r *Renderer) Summary(items []model.BatchItem) {
	tw := tabwriter.NewWriter(r.w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "TICKER\tCOMPANY\tMODEL\tSCORE\tPD%\tDECISION")
	for _, item := range items {
		if item.Failed() {
			fmt.Fprintf(tw, "%s\t-\t-\t-\t-\tERROR: %s\n", item.Ticker, firstLine(item.Error))
			continue
		}
		res := item.Result
		pd := "-"
		if res.Merton != nil {
			pd = fmt.Sprintf("%.4f", res.Merton.Result.PDPct)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.4f\t%s\t%s\n",
			res.Ticker, res.CompanyName, res.Profile.ModelVersion, res.ZScore.Score, pd, res.Final.Decision)
	}
	tw.Flush()
}

func scoreLabel(version model.ModelVersion) string {
	if version == model.ModelVersionZDoublePrime {
		return "Altman Z''-Score"
	}
	return "Altman Z-Score"
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
