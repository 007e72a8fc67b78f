package bot

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ShinaSIT/Helix-Telebot/internal/constants"
	"github.com/ShinaSIT/Helix-Telebot/internal/domain"
	tele "gopkg.in/telebot.v3"
)

func (b *Bot) handleStart(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()

	if user, err := b.users.Get(ctx, sender.ID); err == nil {
		return c.Send(
			fmt.Sprintf("Welcome back, %s! 👋", user.Name),
			b.replyMenu(user.Role),
		)
	}

	prompt := b.users.BeginRegistration(sender.ID, sender.Username)
	return c.Send(prompt)
}

func (b *Bot) handleHelp(c tele.Context) error {
	return c.Send(
		"Use the menu buttons below:\n" +
			"🗺 Routing — your schedule per day\n" +
			"📊 HP Dashboard — all group scores\n" +
			"❤️ My HP — your group's score\n" +
			"GMs additionally get result entry and cache tools.")
}

// handleText routes reply-menu presses and registration name input.
func (b *Bot) handleText(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	text := strings.TrimSpace(c.Text())

	if b.users.AwaitingName(sender.ID) {
		reply, err := b.users.SubmitName(sender.ID, text)
		if err != nil {
			return c.Send("⚠️ " + err.Error())
		}
		return c.Send(reply, roleKeyboard(b.cfg.ValidRoles))
	}

	user, err := b.users.Get(ctx, sender.ID)
	if err != nil {
		return c.Send("Please register first with /start")
	}

	switch text {
	case menuRouting:
		return b.sendRoutingMenu(c, user)
	case menuDashboard:
		return c.Send(b.dashboardText(ctx, user.Role), tele.ModeMarkdown)
	case menuMyHP:
		return c.Send(b.myHPText(ctx, user), tele.ModeMarkdown)
	case menuGM:
		if !b.cfg.IsAdminRole(user.Role) {
			return c.Send("🚫 GM interface is restricted.")
		}
		return c.Send("🎮 *GM Interface*\nPick an alliance:", allianceKeyboard("gm_alliance", false), tele.ModeMarkdown)
	case menuCacheStats:
		if !b.cfg.IsAdminRole(user.Role) {
			return c.Send("🚫 Cache stats are restricted.")
		}
		return c.Send(b.cacheStatsText(), cacheKeyboard(), tele.ModeMarkdown)
	}

	return b.handleHelp(c)
}

func (b *Bot) sendRoutingMenu(c tele.Context, user *domain.User) error {
	ctx := context.Background()

	// Alliance members jump straight to their own alliance's groups.
	if !b.cfg.IsAdminRole(user.Role) && user.Alliance != "" {
		groups := b.scores.Suballiances(ctx, user.Alliance)
		if len(groups) == 0 {
			return c.Send("No groups found for " + user.Alliance + " yet.")
		}
		return c.Send(
			fmt.Sprintf("🗺 *%s Routing*\nPick your group:", user.Alliance),
			suballianceKeyboard(groups, user.Alliance, "routing_sub", true),
			tele.ModeMarkdown,
		)
	}

	return c.Send("🗺 *Routing*\nPick an alliance:", allianceKeyboard("routing_all", false), tele.ModeMarkdown)
}

// dashboardText renders the all-groups HP dashboard. Alliance roles see
// their own alliance; admins see every alliance plus totals.
func (b *Bot) dashboardText(ctx context.Context, role string) string {
	allHP := b.scores.AllSuballianceHP(ctx)

	var sb strings.Builder
	sb.WriteString("📊 *HP Dashboard*\n\n")

	alliances := constants.Alliances
	if !b.cfg.IsAdminRole(role) {
		alliances = []string{role}
	}

	for _, alliance := range alliances {
		groups := allHP[alliance]
		sb.WriteString("🏛️ *" + alliance + "*\n")
		if len(groups) == 0 {
			sb.WriteString("  no groups yet\n\n")
			continue
		}

		names := make([]string, 0, len(groups))
		for name := range groups {
			names = append(names, name)
		}
		sort.Slice(names, func(i, j int) bool { return domain.NaturalLess(names[i], names[j]) })

		total := 0
		for _, name := range names {
			hp := groups[name]
			total += hp
			fmt.Fprintf(&sb, "  %s %s: %d HP\n", domain.HeartFor(hp), name, hp)
		}
		fmt.Fprintf(&sb, "  Σ %d HP\n\n", total)
	}
	return sb.String()
}

func (b *Bot) myHPText(ctx context.Context, user *domain.User) string {
	if user.Alliance == "" {
		return "Your role has no alliance attached. Ask a GM if that looks wrong."
	}

	if user.Group != "" {
		hp := b.scores.SuballianceHP(ctx, user.Alliance, user.Group)
		return fmt.Sprintf("❤️ *%s / %s*\n%s %d HP", user.Alliance, user.Group, domain.HeartFor(hp), hp)
	}

	// No group assignment: show the whole alliance.
	var sb strings.Builder
	fmt.Fprintf(&sb, "❤️ *%s*\n", user.Alliance)
	for _, group := range b.scores.Suballiances(ctx, user.Alliance) {
		hp := b.scores.SuballianceHP(ctx, user.Alliance, group)
		fmt.Fprintf(&sb, "%s %s: %d HP\n", domain.HeartFor(hp), group, hp)
	}
	return sb.String()
}

func (b *Bot) cacheStatsText() string {
	stats := b.store.Stats()
	usage := b.client.Usage()

	var sb strings.Builder
	sb.WriteString("📈 *Cache Stats*\n\n")
	if stats.LedgerCached {
		fmt.Fprintf(&sb, "Ledger: cached (%.0fs old)\n", stats.LedgerAge)
	} else {
		sb.WriteString("Ledger: not cached\n")
	}
	fmt.Fprintf(&sb, "Day sheets: %d cached\n", stats.DaySheets)
	for _, name := range stats.DaySheetNames {
		sb.WriteString("  • " + name + "\n")
	}
	fmt.Fprintf(&sb, "TTL: %s\n", stats.TTL)
	fmt.Fprintf(&sb, "Hits %d / Misses %d / Stale served %d\n", stats.Hits, stats.Misses, stats.StaleServed)
	fmt.Fprintf(&sb, "API reads %d / writes %d\n", usage.Reads, usage.Writes)
	return sb.String()
}

// scheduleText renders one group's day schedule.
func (b *Bot) scheduleText(alliance, group, dayKey string, entries []domain.ScheduleEntry) string {
	if len(entries) == 0 {
		return fmt.Sprintf("No schedule found for %s / %s on this day.", alliance, group)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🗺 *%s / %s*\n\n", alliance, group)
	for _, e := range entries {
		label := b.cfg.StatusLabels[e.Status]
		if label == "" {
			label = e.Status
		}
		fmt.Fprintf(&sb, "🎯 *%s*\n", e.Game)
		fmt.Fprintf(&sb, "  📍 %s\n", e.Location)
		fmt.Fprintf(&sb, "  🕐 %s – %s\n", e.StartTime, e.EndTime)
		fmt.Fprintf(&sb, "  %s %d HP · %s\n\n", domain.HeartFor(e.HP), e.HP, label)
	}
	return sb.String()
}

// summaryText renders the slot-grouped alliance summary.
func (b *Bot) summaryText(alliance string, slots []domain.SummarySlot) string {
	if len(slots) == 0 {
		return fmt.Sprintf("No summary available for %s on this day.", alliance)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 *%s — All Groups*\n\n", alliance)
	for _, slot := range slots {
		fmt.Fprintf(&sb, "🕐 *%s*\n", slot.Slot)
		for _, e := range slot.Entries {
			label := b.cfg.StatusLabels[e.Status]
			if label == "" {
				label = e.Status
			}
			fmt.Fprintf(&sb, "  👥 %s — %s @ %s (%s)\n", e.Group, e.Game, e.Location, label)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
