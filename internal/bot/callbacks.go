package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ShinaSIT/Helix-Telebot/internal/service"
	tele "gopkg.in/telebot.v3"
)

// handleCallback routes inline keyboard presses by their data prefix, the
// same string convention the keyboards encode. Unknown data is acknowledged
// and dropped.
func (b *Bot) handleCallback(c tele.Context) error {
	ctx := context.Background()
	data := strings.TrimPrefix(strings.TrimSpace(c.Callback().Data), "\f")
	sender := c.Sender()

	b.logger.Debug().Int64("telegram_id", sender.ID).Str("data", data).Msg("callback received")

	switch {
	case strings.HasPrefix(data, "role_"):
		return b.onRoleSelected(c, strings.TrimPrefix(data, "role_"))

	case data == "show_routing":
		user, err := b.users.Get(ctx, sender.ID)
		if err != nil {
			return c.Respond(&tele.CallbackResponse{Text: "Please register first with /start"})
		}
		_ = c.Respond(&tele.CallbackResponse{})
		return b.sendRoutingMenu(c, user)

	case strings.HasPrefix(data, "routing_all_"):
		return b.onRoutingAlliance(c, strings.TrimPrefix(data, "routing_all_"))

	case strings.HasPrefix(data, "routing_sub_"):
		return b.onRoutingSuballiance(c, strings.TrimPrefix(data, "routing_sub_"))

	case strings.HasPrefix(data, "day_"):
		return b.onDaySelected(c, strings.TrimPrefix(data, "day_"))

	case strings.HasPrefix(data, "gm_"):
		if !b.users.IsAdmin(ctx, sender.ID) {
			return c.Respond(&tele.CallbackResponse{Text: "🚫 Not authorized"})
		}
		return b.onGMCallback(c, data)

	case strings.HasPrefix(data, "status_"):
		if !b.users.IsAdmin(ctx, sender.ID) {
			return c.Respond(&tele.CallbackResponse{Text: "🚫 Not authorized"})
		}
		return b.onStatusUpdate(c, strings.TrimPrefix(data, "status_"))

	case strings.HasPrefix(data, "cache_"):
		if !b.users.IsAdmin(ctx, sender.ID) {
			return c.Respond(&tele.CallbackResponse{Text: "🚫 Not authorized"})
		}
		return b.onCacheCallback(c, data)
	}

	b.logger.Warn().Str("data", data).Msg("unhandled callback data")
	return c.Respond(&tele.CallbackResponse{})
}

func (b *Bot) onRoleSelected(c tele.Context, role string) error {
	user, err := b.users.CompleteRegistration(context.Background(), c.Sender().ID, role)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "⚠️ " + err.Error()})
	}

	_ = c.Respond(&tele.CallbackResponse{Text: "Registered as " + role})
	return c.Send(
		fmt.Sprintf("🎉 You're all set, %s! Role: %s", user.Name, user.Role),
		b.replyMenu(user.Role),
	)
}

func (b *Bot) onRoutingAlliance(c tele.Context, alliance string) error {
	groups := b.scores.Suballiances(context.Background(), alliance)
	if len(groups) == 0 {
		return c.Respond(&tele.CallbackResponse{Text: "No groups found for " + alliance})
	}

	_ = c.Respond(&tele.CallbackResponse{})
	return c.Edit(
		fmt.Sprintf("🗺 *%s*\nPick a group:", alliance),
		suballianceKeyboard(groups, alliance, "routing_sub", true),
		tele.ModeMarkdown,
	)
}

// onRoutingSuballiance handles "routing_sub_<alliance>_<group>"; "ALL"
// selects the summary path at day selection.
func (b *Bot) onRoutingSuballiance(c tele.Context, rest string) error {
	alliance, group, ok := strings.Cut(rest, "_")
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: "Malformed selection"})
	}

	_ = c.Respond(&tele.CallbackResponse{})
	return c.Edit(
		fmt.Sprintf("📅 *%s / %s*\nPick a day:", alliance, group),
		dayKeyboard("day", alliance, group),
		tele.ModeMarkdown,
	)
}

// onDaySelected handles "day_<dayKey>_<alliance>_<group>".
func (b *Bot) onDaySelected(c tele.Context, rest string) error {
	// Day keys themselves contain one underscore (day1_dry), so the key is
	// the first two fields.
	fields := strings.Split(rest, "_")
	if len(fields) < 4 {
		return c.Respond(&tele.CallbackResponse{Text: "Malformed selection"})
	}
	dayKey := fields[0] + "_" + fields[1]
	alliance := fields[2]
	group := strings.Join(fields[3:], "_")

	ctx := context.Background()
	_ = c.Respond(&tele.CallbackResponse{})

	if group == "ALL" {
		slots := b.schedules.AllianceSummary(ctx, alliance, dayKey)
		return c.Edit(b.summaryText(alliance, slots), tele.ModeMarkdown)
	}

	entries := b.schedules.ScheduleFor(ctx, alliance, group, dayKey)
	return c.Edit(b.scheduleText(alliance, group, dayKey, entries), tele.ModeMarkdown)
}

// onGMCallback drills gm_alliance -> gm_sub -> gm_day -> gm_game -> gm_award.
func (b *Bot) onGMCallback(c tele.Context, data string) error {
	ctx := context.Background()

	switch {
	case strings.HasPrefix(data, "gm_alliance_"):
		alliance := strings.TrimPrefix(data, "gm_alliance_")
		groups := b.scores.Suballiances(ctx, alliance)
		if len(groups) == 0 {
			return c.Respond(&tele.CallbackResponse{Text: "No groups found"})
		}
		_ = c.Respond(&tele.CallbackResponse{})
		return c.Edit(
			fmt.Sprintf("🎮 *GM — %s*\nPick a group:", alliance),
			suballianceKeyboard(groups, alliance, "gm_sub", false),
			tele.ModeMarkdown,
		)

	case strings.HasPrefix(data, "gm_sub_"):
		alliance, group, ok := strings.Cut(strings.TrimPrefix(data, "gm_sub_"), "_")
		if !ok {
			return c.Respond(&tele.CallbackResponse{Text: "Malformed selection"})
		}
		_ = c.Respond(&tele.CallbackResponse{})
		return c.Edit(
			fmt.Sprintf("📅 *GM — %s / %s*\nPick a day:", alliance, group),
			dayKeyboard("gm_day", alliance, group),
			tele.ModeMarkdown,
		)

	case strings.HasPrefix(data, "gm_day_"):
		fields := strings.Split(strings.TrimPrefix(data, "gm_day_"), "_")
		if len(fields) < 4 {
			return c.Respond(&tele.CallbackResponse{Text: "Malformed selection"})
		}
		dayKey := fields[0] + "_" + fields[1]
		alliance := fields[2]
		group := strings.Join(fields[3:], "_")

		games := b.schedules.GamesForDay(ctx, alliance, group, dayKey)
		if len(games) == 0 {
			return c.Respond(&tele.CallbackResponse{Text: "No games found for that day"})
		}
		_ = c.Respond(&tele.CallbackResponse{})
		return c.Edit(
			fmt.Sprintf("🎯 *GM — %s / %s*\nPick a game:", alliance, group),
			gameKeyboard(games, alliance, group),
			tele.ModeMarkdown,
		)

	case strings.HasPrefix(data, "gm_game_"):
		fields := strings.SplitN(strings.TrimPrefix(data, "gm_game_"), "_", 3)
		if len(fields) != 3 {
			return c.Respond(&tele.CallbackResponse{Text: "Malformed selection"})
		}
		alliance, group, game := fields[0], fields[1], fields[2]
		_ = c.Respond(&tele.CallbackResponse{})
		return c.Edit(
			fmt.Sprintf("🏅 *%s*\n%s / %s\n\nRecord the result:", game, alliance, group),
			resultKeyboard(alliance, group, game),
			tele.ModeMarkdown,
		)

	case strings.HasPrefix(data, "gm_status_"):
		fields := strings.SplitN(strings.TrimPrefix(data, "gm_status_"), "_", 3)
		if len(fields) != 3 {
			return c.Respond(&tele.CallbackResponse{Text: "Malformed selection"})
		}
		alliance, group, game := fields[0], fields[1], fields[2]
		_ = c.Respond(&tele.CallbackResponse{})
		return c.Edit(
			fmt.Sprintf("🚦 *%s*\n%s / %s\n\nSet the status:", game, alliance, group),
			b.statusKeyboard(alliance, group, game),
			tele.ModeMarkdown,
		)

	case strings.HasPrefix(data, "gm_award_"):
		return b.onAward(c, strings.TrimPrefix(data, "gm_award_"))
	}

	return c.Respond(&tele.CallbackResponse{})
}

// onAward handles "gm_award_<alliance>_<group>_<game>_<points>". The game
// name may itself contain no underscores by sheet convention; points is the
// final field.
func (b *Bot) onAward(c tele.Context, rest string) error {
	ctx := context.Background()

	lastSep := strings.LastIndex(rest, "_")
	if lastSep < 0 {
		return c.Respond(&tele.CallbackResponse{Text: "Malformed award"})
	}
	points := 0
	if _, err := fmt.Sscanf(rest[lastSep+1:], "%d", &points); err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Malformed award"})
	}

	fields := strings.SplitN(rest[:lastSep], "_", 3)
	if len(fields) != 3 {
		return c.Respond(&tele.CallbackResponse{Text: "Malformed award"})
	}
	alliance, group, game := fields[0], fields[1], fields[2]

	err := b.mutations.AwardPoints(ctx, alliance, group, game, points)
	switch {
	case errors.Is(err, service.ErrInvalidPoints):
		return c.Respond(&tele.CallbackResponse{Text: "⚠️ Invalid points value"})
	case errors.Is(err, service.ErrRowNotFound):
		return c.Respond(&tele.CallbackResponse{Text: "⚠️ Game not found in Results"})
	case err != nil:
		b.logger.Error().Err(err).Msg("award failed")
		return c.Respond(&tele.CallbackResponse{Text: "⚠️ Award failed, try again"})
	}

	newHP := b.scores.SuballianceHP(ctx, alliance, group)
	_ = c.Respond(&tele.CallbackResponse{Text: "✅ Points recorded"})
	return c.Edit(
		fmt.Sprintf("✅ *%s* — %d points for %s / %s\nGroup HP is now *%d*.",
			game, points, alliance, group, newHP),
		tele.ModeMarkdown,
	)
}

// onStatusUpdate handles "status_<alliance>_<group>_<game>_<status>".
func (b *Bot) onStatusUpdate(c tele.Context, rest string) error {
	ctx := context.Background()

	fields := strings.SplitN(rest, "_", 4)
	if len(fields) != 4 {
		return c.Respond(&tele.CallbackResponse{Text: "Malformed status update"})
	}
	alliance, group, game, status := fields[0], fields[1], fields[2], fields[3]

	err := b.mutations.UpdateStatus(ctx, alliance, group, game, status)
	switch {
	case errors.Is(err, service.ErrRowNotFound):
		return c.Respond(&tele.CallbackResponse{Text: "⚠️ Game not found in any day sheet"})
	case err != nil:
		b.logger.Error().Err(err).Msg("status update failed")
		return c.Respond(&tele.CallbackResponse{Text: "⚠️ Update failed, try again"})
	}

	label := b.cfg.StatusLabels[status]
	if label == "" {
		label = status
	}
	_ = c.Respond(&tele.CallbackResponse{Text: "✅ Status updated"})
	return c.Edit(
		fmt.Sprintf("✅ *%s* (%s / %s) is now *%s*.", game, alliance, group, label),
		tele.ModeMarkdown,
	)
}

func (b *Bot) onCacheCallback(c tele.Context, data string) error {
	ctx := context.Background()

	switch data {
	case "cache_refresh":
		_ = c.Respond(&tele.CallbackResponse{Text: "Refreshed"})
		return c.Edit(b.cacheStatsText(), cacheKeyboard(), tele.ModeMarkdown)

	case "cache_clear":
		b.store.InvalidateAll()
		_ = c.Respond(&tele.CallbackResponse{Text: "Cache cleared"})
		return c.Edit(b.cacheStatsText(), cacheKeyboard(), tele.ModeMarkdown)

	case "cache_test":
		titles, err := b.client.Worksheets(ctx)
		if err != nil {
			return c.Respond(&tele.CallbackResponse{Text: "❌ Connection failed"})
		}
		_ = c.Respond(&tele.CallbackResponse{})
		return c.Edit(
			fmt.Sprintf("✅ Connected. %d worksheets:\n%s", len(titles), strings.Join(titles, "\n")),
		)
	}

	return c.Respond(&tele.CallbackResponse{})
}
