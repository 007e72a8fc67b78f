package bot

import (
	"fmt"

	"github.com/ShinaSIT/Helix-Telebot/internal/constants"
	"github.com/ShinaSIT/Helix-Telebot/internal/domain"
	tele "gopkg.in/telebot.v3"
)

const (
	menuRouting    = "🗺 Routing"
	menuDashboard  = "📊 HP Dashboard"
	menuMyHP       = "❤️ My HP"
	menuGM         = "🎮 GM Interface"
	menuCacheStats = "📈 Cache Stats"
)

// replyMenu is the persistent keyboard; admins get the extra GM and cache
// rows.
func (b *Bot) replyMenu(role string) *tele.ReplyMarkup {
	rows := [][]tele.ReplyButton{
		{{Text: menuRouting}, {Text: menuDashboard}},
		{{Text: menuMyHP}},
	}
	if b.cfg.IsAdminRole(role) {
		rows = append(rows, []tele.ReplyButton{{Text: menuGM}, {Text: menuCacheStats}})
	}
	return &tele.ReplyMarkup{ReplyKeyboard: rows, ResizeKeyboard: true}
}

func roleKeyboard(roles []string) *tele.ReplyMarkup {
	var rows [][]tele.InlineButton
	var adminRow []tele.InlineButton
	for _, role := range roles {
		switch role {
		case "GM":
			adminRow = append(adminRow, tele.InlineButton{Text: "👑 GM", Data: "role_GM"})
		case "EXCO":
			adminRow = append(adminRow, tele.InlineButton{Text: "🏛️ EXCO", Data: "role_EXCO"})
		default:
			rows = append(rows, []tele.InlineButton{{Text: "⚔️ " + role, Data: "role_" + role}})
		}
	}
	if len(adminRow) > 0 {
		rows = append(rows, adminRow)
	}
	return &tele.ReplyMarkup{InlineKeyboard: rows}
}

// allianceKeyboard lists the four alliances with a shared callback prefix.
func allianceKeyboard(prefix string, back bool) *tele.ReplyMarkup {
	var rows [][]tele.InlineButton
	for _, alliance := range constants.Alliances {
		rows = append(rows, []tele.InlineButton{
			{Text: "🏛️ " + alliance, Data: prefix + "_" + alliance},
		})
	}
	if back {
		rows = append(rows, backRow())
	}
	return &tele.ReplyMarkup{InlineKeyboard: rows}
}

// suballianceKeyboard lays groups out three per row, optionally with an
// all-groups summary entry on top.
func suballianceKeyboard(groups []string, alliance, prefix string, includeAll bool) *tele.ReplyMarkup {
	var rows [][]tele.InlineButton
	if includeAll {
		rows = append(rows, []tele.InlineButton{
			{Text: "📊 ALL Groups Summary", Data: prefix + "_" + alliance + "_ALL"},
		})
	}
	for i := 0; i < len(groups); i += 3 {
		var row []tele.InlineButton
		for _, g := range groups[i:min(i+3, len(groups))] {
			row = append(row, tele.InlineButton{Text: "👥 " + g, Data: prefix + "_" + alliance + "_" + g})
		}
		rows = append(rows, row)
	}
	rows = append(rows, backRow())
	return &tele.ReplyMarkup{InlineKeyboard: rows}
}

// dayKeyboard offers the four event days for a selected group.
func dayKeyboard(prefix, alliance, group string) *tele.ReplyMarkup {
	days := []struct {
		key   string
		label string
	}{
		{"day1_dry", "☀️ Day 1: Dry Game"},
		{"day1_night", "🌙 Day 1: Night Game"},
		{"day2_treasure", "🗺 Day 2: Treasure Hunt"},
		{"day3_wet", "💦 Day 3: Wet Game"},
	}

	var rows [][]tele.InlineButton
	for _, d := range days {
		rows = append(rows, []tele.InlineButton{
			{Text: d.label, Data: prefix + "_" + d.key + "_" + alliance + "_" + group},
		})
	}
	rows = append(rows, backRow())
	return &tele.ReplyMarkup{InlineKeyboard: rows}
}

// gameKeyboard lists games from the ledger-backed picker.
func gameKeyboard(games []domain.GameInfo, alliance, group string) *tele.ReplyMarkup {
	var rows [][]tele.InlineButton
	for _, g := range games {
		rows = append(rows, []tele.InlineButton{{
			Text: fmt.Sprintf("🎯 %s (HP %d)", g.Game, g.CurrentHP),
			Data: "gm_game_" + alliance + "_" + group + "_" + g.Game,
		}})
	}
	rows = append(rows, backRow())
	return &tele.ReplyMarkup{InlineKeyboard: rows}
}

// resultKeyboard offers the closed set of award outcomes.
func resultKeyboard(alliance, group, game string) *tele.ReplyMarkup {
	base := "gm_award_" + alliance + "_" + group + "_" + game + "_"
	return &tele.ReplyMarkup{InlineKeyboard: [][]tele.InlineButton{
		{
			{Text: "🏆 Win (5)", Data: base + "5"},
			{Text: "🤝 Draw (3)", Data: base + "3"},
			{Text: "❌ Loss (0)", Data: base + "0"},
		},
		{{Text: "🚦 Update Status", Data: "gm_status_" + alliance + "_" + group + "_" + game}},
		backRow(),
	}}
}

// statusKeyboard offers the status transitions for one scheduled game.
func (b *Bot) statusKeyboard(alliance, group, game string) *tele.ReplyMarkup {
	var rows [][]tele.InlineButton
	for _, status := range []string{"Default", "In Progress", "Next Station", "Completed"} {
		label := b.cfg.StatusLabels[status]
		rows = append(rows, []tele.InlineButton{{
			Text: label,
			Data: "status_" + alliance + "_" + group + "_" + game + "_" + status,
		}})
	}
	rows = append(rows, backRow())
	return &tele.ReplyMarkup{InlineKeyboard: rows}
}

func cacheKeyboard() *tele.ReplyMarkup {
	return &tele.ReplyMarkup{InlineKeyboard: [][]tele.InlineButton{
		{
			{Text: "🔄 Refresh Stats", Data: "cache_refresh"},
			{Text: "🗑 Clear Cache", Data: "cache_clear"},
		},
		{{Text: "📡 Test Connection", Data: "cache_test"}},
	}}
}

func backRow() []tele.InlineButton {
	return []tele.InlineButton{{Text: "🔙 Back", Data: "show_routing"}}
}
