package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rpggio/karte/internal/domain/dashboard"
	"github.com/rpggio/karte/internal/domain/entity"
	"github.com/rpggio/karte/internal/search"
)

var (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorMuted   = lipgloss.Color("#6B7280")
	colorWarning = lipgloss.Color("#F59E0B")
	colorError   = lipgloss.Color("#EF4444")
	colorSuccess = lipgloss.Color("#10B981")
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	titleStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	overdueStyle = lipgloss.NewStyle().Bold(true).Foreground(colorError)
	soonStyle    = lipgloss.NewStyle().Foreground(colorWarning)
	activeStyle  = lipgloss.NewStyle().Foreground(colorSuccess)
)

var kindLabels = map[entity.Kind]string{
	entity.KindProject:  "案件",
	entity.KindNote:     "メモ",
	entity.KindResource: "資料",
	entity.KindIdea:     "アイデア",
}

func renderHits(w io.Writer, hits []search.Hit) {
	if len(hits) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("該当なし"))
		return
	}
	for _, hit := range hits {
		fmt.Fprintf(w, "%s %s %s\n",
			headerStyle.Render("["+kindLabels[hit.Kind]+"]"),
			titleStyle.Render(hit.Title),
			mutedStyle.Render(hit.ID))
		if hit.Project != nil && hit.Project.DueDate != nil {
			fmt.Fprintf(w, "    期日 %s  %s\n", hit.Project.DueDate, hit.Project.Status.Label())
		}
		if snippet := strings.TrimSpace(hit.Snippet); snippet != "" && snippet != hit.Title {
			fmt.Fprintf(w, "    %s\n", mutedStyle.Render(snippet))
		}
	}
	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("%d 件", len(hits))))
}

func renderDashboard(w io.Writer, view *dashboard.View) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("ダッシュボード %s (%d日以内)", view.Today, view.Horizon)))
	renderBucket(w, "期限切れ", overdueStyle, view.Overdue)
	renderBucket(w, "期限間近", soonStyle, view.DueSoon)
	renderBucket(w, "進行中", activeStyle, view.InProgress)

	if len(view.RecentActivity) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, titleStyle.Render("最近の更新"))
		for _, entry := range view.RecentActivity {
			fmt.Fprintf(w, "  %s %s %s\n",
				mutedStyle.Render(entry.CreatedAt.Format("01/02 15:04")),
				kindLabels[entry.EntityKind],
				entry.Summary)
		}
	}
}

func renderBucket(w io.Writer, name string, style lipgloss.Style, items []dashboard.Item) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, style.Render(fmt.Sprintf("%s (%d)", name, len(items))))
	for _, item := range items {
		line := "  " + titleStyle.Render(item.Title)
		if item.Client != "" {
			line += " " + mutedStyle.Render(item.Client)
		}
		if item.DueDate != nil {
			line += fmt.Sprintf("  %s %s", item.DueDate, daysLeft(item.DaysLeft))
		}
		fmt.Fprintln(w, line)
	}
}

func daysLeft(days *int) string {
	switch {
	case days == nil:
		return ""
	case *days < 0:
		return fmt.Sprintf("%d日超過", -*days)
	case *days == 0:
		return "今日"
	default:
		return fmt.Sprintf("あと%d日", *days)
	}
}
