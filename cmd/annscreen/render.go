package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/shopspring/decimal"

	"github.com/bobmcallan/annscreen/internal/models"
)

// renderRun prints the ranked screen result. Columns adapt to the rule set:
// one positive-years column per count rule, a growth column when the rule set
// has a growth clause.
func renderRun(w io.Writer, run *models.ScreenRun, showRejected bool) {
	fmt.Fprintf(w, "Rule set %q: %d evaluated, %d excluded (incomplete window), %d candidates\n\n",
		run.RuleSet.Name, run.Evaluated, run.Excluded, len(run.Candidates))

	renderVerdicts(w, &run.RuleSet, run.Candidates)

	if showRejected && len(run.Rejected) > 0 {
		fmt.Fprintf(w, "\nRejected (%d):\n", len(run.Rejected))
		renderVerdicts(w, &run.RuleSet, run.Rejected)
	}
}

func renderVerdicts(w io.Writer, rules *models.RuleSet, verdicts []models.ScreenVerdict) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)

	header := table.Row{"#", "TICKER", "NAME", "ANCHOR"}
	if rules.Growth != nil {
		header = append(header, strings.ToUpper(rules.Growth.Metric)+" GROWTH")
	}
	for _, rule := range rules.Positive {
		header = append(header, "POS "+strings.ToUpper(rule.Metric))
	}
	for _, rule := range rules.Improvement {
		header = append(header, "IMP "+strings.ToUpper(rule.Metric))
	}
	header = append(header, "STATUS")
	tw.AppendHeader(header)

	for i, v := range verdicts {
		row := table.Row{i + 1, v.Ticker, v.Name, v.AnchorYear}
		if rules.Growth != nil {
			row = append(row, growthCell(&v))
		}
		for _, rule := range rules.Positive {
			row = append(row, statsCell(&v, rule.Metric))
		}
		for _, rule := range rules.Improvement {
			row = append(row, v.ImprovementYears[rule.Metric])
		}
		row = append(row, string(v.Status))
		tw.AppendRow(row)
	}

	tw.Render()
}

// renderSeries prints one company's canonical annual periods, one row per
// fiscal year.
func renderSeries(w io.Writer, series *models.EntitySeries, info models.EntityDisplayInfo) {
	fmt.Fprintf(w, "Entity %d (%s, %s): %d annual periods\n\n",
		series.EntityID, info.Ticker, info.Name, len(series.Periods))

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"YEAR", "FORM", "FILED", "REVENUE", "NET INCOME", "EBITDA", "CFO", "CAPEX", "FCF", "DIVIDENDS"})

	for _, p := range series.Periods {
		tw.AppendRow(table.Row{
			p.FiscalYear,
			p.Form,
			p.Filed.Format("2006-01-02"),
			decimalCell(p.Revenue),
			decimalCell(p.NetIncome),
			decimalCell(p.EBITDA),
			decimalCell(p.OperatingCashFlow),
			decimalCell(p.CapitalExpenditure),
			decimalCell(p.FreeCashFlow),
			decimalCell(p.DividendsPaid),
		})
	}

	tw.Render()
}

func renderRunList(w io.Writer, runs []*models.ScreenRun) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"ID", "RULE SET", "GENERATED", "EVALUATED", "EXCLUDED", "CANDIDATES"})

	for _, run := range runs {
		tw.AppendRow(table.Row{
			run.ID,
			run.RuleSet.Name,
			run.GeneratedAt.Format("2006-01-02 15:04:05"),
			run.Evaluated,
			run.Excluded,
			len(run.Candidates),
		})
	}

	tw.Render()
}

// exportRunCSV writes the candidates to a CSV file for spreadsheet use.
func exportRunCSV(path string, run *models.ScreenRun) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create csv file: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	header := []string{"entity_id", "ticker", "name", "anchor_year", "status", "growth"}
	for _, rule := range run.RuleSet.Positive {
		header = append(header, "positive_years_"+rule.Metric)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, v := range run.Candidates {
		record := []string{
			fmt.Sprintf("%d", v.EntityID),
			v.Ticker,
			v.Name,
			fmt.Sprintf("%d", v.AnchorYear),
			string(v.Status),
			growthCell(&v),
		}
		for _, rule := range run.RuleSet.Positive {
			record = append(record, fmt.Sprintf("%d", positiveYears(&v, rule.Metric)))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	return nil
}

func growthCell(v *models.ScreenVerdict) string {
	if v.Growth == nil {
		return models.UnknownDisplay
	}
	return v.Growth.String()
}

func statsCell(v *models.ScreenVerdict, metric string) string {
	return fmt.Sprintf("%d", positiveYears(v, metric))
}

func positiveYears(v *models.ScreenVerdict, metric string) int {
	if s, ok := v.Stats[metric]; ok {
		return s.PositiveYears
	}
	return 0
}

func decimalCell(d *decimal.Decimal) string {
	if d == nil {
		return models.UnknownDisplay
	}
	return d.String()
}
