package main

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/JaimeStill/verdict/internal/analyst"
)

const valueWidth = 72

func renderReport(out *analyst.Outcome) string {
	r := out.Result
	var b strings.Builder

	section(&b, "Decision", [][2]string{
		{"Decision", string(r.Decision.Decision)},
		{"Reason", r.Decision.Reason},
		{"Model", out.Provider + " / " + out.Model},
	})

	section(&b, "Qualitative", [][2]string{
		{"Summary", r.Qualitative.Summary},
		{"Tone", string(r.Qualitative.Tone)},
		{"Target audience", r.Qualitative.TargetAudience},
		{"Message clarity", r.Qualitative.MessageClarity},
		{"Brand voice", r.Qualitative.BrandVoice},
	})

	section(&b, "Brand safety", [][2]string{
		{"Brand tone mismatch", string(r.BrandSafety.BrandToneMismatch)},
		{"Misunderstanding risk", string(r.BrandSafety.MisunderstandingRisk)},
		{"Platform context mismatch", string(r.BrandSafety.PlatformContextMismatch)},
		{"KPI tradeoff", string(r.BrandSafety.KPITradeoff)},
		{"Overall caution", r.BrandSafety.OverallCaution},
	})

	if rr := r.RejectionReasons; rr != nil {
		section(&b, "Rejection reasons", [][2]string{
			{"For management", rr.ForManagement},
			{"For brand", rr.ForBrand},
			{"For creator", rr.ForCreator},
		})
	}

	if p := r.PostProposal; p != nil {
		rows := make([][2]string, 0, len(p.TextProposals)+3)
		for _, tp := range p.TextProposals {
			rows = append(rows, [2]string{"Text", tp})
		}
		rows = append(rows,
			[2]string{"Creative type", string(p.CreativeProposal.Type)},
			[2]string{"Creative", p.CreativeProposal.Description},
		)
		if p.CreativeProposal.Type == analyst.CreativeVideo {
			rows = append(rows, [2]string{"Structure", p.CreativeProposal.VideoStructure})
		} else {
			rows = append(rows, [2]string{"Image prompt", p.CreativeProposal.ImagePrompt})
		}
		section(&b, "Proposal", rows)
	}

	section(&b, "Next action", [][2]string{
		{"Action", r.NextAction.Action},
		{"Success KPIs", strings.Join(r.NextAction.SuccessKPIs, ", ")},
		{"Review", r.NextAction.ReviewTiming},
	})

	b.WriteString(attemptsTable(out.Attempts))
	b.WriteString("\n")
	return b.String()
}

func section(b *strings.Builder, title string, rows [][2]string) {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.SetTitle(title)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: valueWidth, WidthMaxEnforcer: text.WrapSoft},
	})

	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		t.AppendRow(table.Row{row[0], row[1]})
	}

	b.WriteString(t.Render())
	b.WriteString("\n")
}

func attemptsTable(attempts []analyst.Attempt) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.SetTitle("Attempts")
	t.AppendHeader(table.Row{"#", "Model", "Instruction", "Outcome"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, WidthMax: valueWidth, WidthMaxEnforcer: text.WrapSoft},
	})

	for i, a := range attempts {
		outcome := "ok"
		if !a.Succeeded {
			outcome = string(a.Reason)
			if a.Message != "" {
				outcome += ": " + a.Message
			}
		}
		t.AppendRow(table.Row{i + 1, a.Model, string(a.Mode), outcome})
	}

	return t.Render()
}
