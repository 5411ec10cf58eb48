package ui

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"tatsugo/pkg/tatsu"
)

func newTable() table.Writer {
	t := table.NewWriter()
	if noColor {
		t.SetStyle(table.StyleLight)
	} else {
		style := table.StyleRounded
		style.Color.Header = text.Colors{text.FgHiCyan, text.Bold}
		t.SetStyle(style)
	}
	return t
}

// RenderLeaderboard renders leaderboard rows as a table
func RenderLeaderboard(guildID string, period string, rows []tatsu.Ranking) string {
	t := newTable()
	t.SetTitle(fmt.Sprintf("Guild %s — %s rankings", guildID, period))
	t.AppendHeader(table.Row{"Rank", "User ID", "Score"})
	for _, row := range rows {
		t.AppendRow(table.Row{row.Rank, row.UserID.String(), row.Score})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Rank", Align: text.AlignRight},
		{Name: "Score", Align: text.AlignRight},
	})
	return t.Render()
}

// RenderProfile renders a user profile as a key/value table
func RenderProfile(p *tatsu.UserProfile) string {
	t := newTable()
	t.SetTitle(fmt.Sprintf("Profile — %s", p.Username))
	t.AppendRow(table.Row{"ID", p.ID.String()})
	t.AppendRow(table.Row{"Username", p.Username})
	if p.Title != "" {
		t.AppendRow(table.Row{"Title", p.Title})
	}
	t.AppendRow(table.Row{"Credits", p.Credits})
	if p.Tokens != 0 {
		t.AppendRow(table.Row{"Tokens", p.Tokens})
	}
	t.AppendRow(table.Row{"Reputation", p.Reputation})
	if p.XP != 0 {
		t.AppendRow(table.Row{"XP", p.XP})
	}
	if p.SubscriptionType != tatsu.SubscriptionNone {
		t.AppendRow(table.Row{"Subscription", p.SubscriptionType.String()})
		if p.SubscriptionRenewal != nil {
			t.AppendRow(table.Row{"Renews", p.SubscriptionRenewal.Format("2006-01-02")})
		}
	}
	if p.InfoBox != "" {
		t.AppendRow(table.Row{"Info", p.InfoBox})
	}
	return t.Render()
}

// RenderStoreListing renders a store listing as a key/value table
func RenderStoreListing(l *tatsu.StoreListing) string {
	t := newTable()
	t.SetTitle(fmt.Sprintf("Store — %s", l.Name))
	t.AppendRow(table.Row{"ID", l.ID})
	t.AppendRow(table.Row{"Name", l.Name})
	if l.Summary != "" {
		t.AppendRow(table.Row{"Summary", l.Summary})
	}
	if l.Description != "" {
		t.AppendRow(table.Row{"Description", l.Description})
	}
	if l.New {
		t.AppendRow(table.Row{"New", "yes"})
	}
	for _, price := range l.Prices {
		t.AppendRow(table.Row{"Price", fmt.Sprintf("%.0f %s", price.Amount, price.Currency)})
	}
	if len(l.Categories) > 0 {
		t.AppendRow(table.Row{"Categories", strings.Join(l.Categories, ", ")})
	}
	if len(l.Tags) > 0 {
		t.AppendRow(table.Row{"Tags", strings.Join(l.Tags, ", ")})
	}
	return t.Render()
}

// RenderMemberRanking renders a single member's standing
func RenderMemberRanking(r *tatsu.GuildMemberRanking, period string) string {
	t := newTable()
	t.SetTitle(fmt.Sprintf("Ranking — %s", period))
	t.AppendRow(table.Row{"User ID", r.UserID.String()})
	t.AppendRow(table.Row{"Rank", r.Rank})
	t.AppendRow(table.Row{"Score", r.Score})
	return t.Render()
}
