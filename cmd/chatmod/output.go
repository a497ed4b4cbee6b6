package main

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"

	"github.com/datar-psa/chatmod"
	"github.com/datar-psa/chatmod/api"
	"github.com/datar-psa/chatmod/chat"
)

func formatVerdict(m chat.ModeratedMessage) string {
	label := color.FgGreen.Render("OK   ")
	if m.Verdict.IsToxic {
		label = color.New(color.FgRed, color.OpBold).Render("TOXIC")
	}
	line := fmt.Sprintf("%s %.2f %-16s %s", label, m.Verdict.Confidence, m.Verdict.Method, m.Display)
	if len(m.Verdict.Categories) > 0 {
		line += color.FgGray.Render(" [" + strings.Join(m.Verdict.Categories, ", ") + "]")
	}
	if m.Verdict.Reason != "" {
		line += color.FgGray.Render(" (" + m.Verdict.Reason + ")")
	}
	return line
}

func printStats(out io.Writer, stats chatmod.Stats) {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Tier", "Verdicts", "Calls in window", "Cooling until"})
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)

	for _, method := range api.Methods {
		table.Append([]string{string(method), strconv.FormatInt(stats.Verdicts[method], 10), "", ""})
	}
	providers := lo.Keys(stats.Providers)
	slices.Sort(providers)
	for _, provider := range providers {
		state := stats.Providers[provider]
		until := "-"
		if state.QuotaExceededUntil != nil {
			until = state.QuotaExceededUntil.Format(time.RFC3339)
		}
		table.Append([]string{provider, "", strconv.Itoa(state.CallCount), until})
	}
	table.SetFooter([]string{"cache", strconv.FormatInt(stats.CacheHits, 10) + " hits", strconv.Itoa(stats.CacheSize) + " entries", ""})
	table.Render()
}
