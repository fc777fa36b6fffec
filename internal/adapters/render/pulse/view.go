package pulse

import (
	"fmt"
	"strings"
	"time"

	"github.com/bnema/coremind/internal/application"
	"github.com/bnema/coremind/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const allocationBarWidth = 12

type RenderOptions struct {
	Now    time.Time
	Actors int
}

func renderView(results []application.PulseResult, opts RenderOptions, s styles) string {
	header := fmt.Sprintf("pulses: %d", len(results))
	if opts.Actors > 0 {
		header += fmt.Sprintf("  actors: %d", opts.Actors)
	}

	lines := []string{
		s.title.Render("Mind Pulses"),
		s.header.Render(header),
	}

	if len(results) == 0 {
		lines = append(lines, s.empty.Render("No pulses have run."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for i, result := range results {
		lines = append(lines, s.section.Render(renderPulse(i+1, result, opts, s)))
	}

	if len(results) > 1 {
		lines = append(lines, s.section.Render(renderTally(results, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderPulse(n int, result application.PulseResult, opts RenderOptions, s styles) string {
	parts := []string{
		s.pulse.Render(pulseTitle(n, result, opts.Now)),
		lipgloss.JoinHorizontal(lipgloss.Top,
			s.detail.Render("decision: "),
			actionStyle(result.Decision.Action, s).Render(string(result.Decision.Action)),
			" ",
			allocationBar(result.Decision.ResourceAllocation, s),
			" ",
			s.detail.Render(string(result.Decision.ResourceAllocation)),
		),
		s.advisory.Render(fmt.Sprintf("advisory: %s", result.Revised)),
	}

	if result.EventKey != "" {
		parts = append(parts, s.detail.Render(fmt.Sprintf("memory: %s", result.EventKey)))
	} else {
		parts = append(parts, s.empty.Render("memory: not written"))
	}

	if result.Degraded() {
		parts = append(parts, s.warning.Render(fmt.Sprintf("[degraded: %s]", fallbackList(result.Fallbacks))))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func pulseTitle(n int, result application.PulseResult, now time.Time) string {
	title := fmt.Sprintf("#%d %s", n, shortID(result.ID))
	if result.StartedAt.IsZero() {
		return title
	}
	if now.IsZero() {
		return title + " at " + result.StartedAt.UTC().Format(time.RFC3339)
	}

	return title + " " + formatAgo(result.StartedAt, now)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatAgo(at, now time.Time) string {
	elapsed := now.Sub(at)
	switch {
	case elapsed < time.Second:
		return "just now"
	case elapsed < time.Minute:
		return fmt.Sprintf("%ds ago", int(elapsed.Seconds()))
	case elapsed < time.Hour:
		return fmt.Sprintf("%dm ago", int(elapsed.Minutes()))
	default:
		return at.UTC().Format("15:04 on 02 Jan")
	}
}

func actionStyle(action domain.Action, s styles) lipgloss.Style {
	switch action {
	case domain.ActionExpand:
		return s.expand
	case domain.ActionContract:
		return s.contract
	default:
		return s.maintain
	}
}

func allocationLevel(allocation domain.Allocation) int {
	switch allocation {
	case domain.AllocationHigh:
		return 3
	case domain.AllocationMedium:
		return 2
	case domain.AllocationLow:
		return 1
	default:
		return 0
	}
}

func allocationBar(allocation domain.Allocation, s styles) string {
	filled := allocationBarWidth * allocationLevel(allocation) / 3

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", allocationBarWidth-filled)),
		s.barBracket.Render("]"),
	)
}

func fallbackList(fallbacks []application.Fallback) string {
	names := make([]string, 0, len(fallbacks))
	for _, fallback := range fallbacks {
		names = append(names, string(fallback))
	}
	return strings.Join(names, ", ")
}

func renderTally(results []application.PulseResult, s styles) string {
	counts := map[domain.Action]int{}
	degraded := 0
	for _, result := range results {
		counts[result.Decision.Action]++
		if result.Degraded() {
			degraded++
		}
	}

	line := fmt.Sprintf("expand: %d  contract: %d  maintain: %d",
		counts[domain.ActionExpand], counts[domain.ActionContract], counts[domain.ActionMaintain])
	if degraded > 0 {
		line += " " + s.warning.Render(fmt.Sprintf("[%d degraded]", degraded))
	}

	return lipgloss.JoinVertical(lipgloss.Left, s.title.Render("Summary"), s.detail.Render(line))
}
