package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/HeXi037/cross-sport-tracker-sub002/internal/club"
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/match"
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/metrics"
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/notifier"
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/sport"
	"github.com/charmbracelet/log"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

// Implement the Notifier interface
func (s *Notifier) SendResultNotification(m *match.Match, dryRun bool) error {
	msg := s.formatResultNotification(m)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Notifier) SendLeaderboard(sp sport.Sport, stats []club.PlayerStats, dryRun bool) error {
	msg := s.formatLeaderboard(sp, stats)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Notifier) SendPlayerStats(stats *club.PlayerStats, query string, dryRun bool) error {
	msg := s.formatPlayerStats(stats, query)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Notifier) SendPlayerNotFound(query string, dryRun bool) error {
	msg := s.formatPlayerNotFound(query)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// FormatLeaderboardResponse formats a leaderboard message for a slash command response.
func (s *Notifier) FormatLeaderboardResponse(sp sport.Sport, stats []club.PlayerStats) (any, error) {
	return s.formatLeaderboard(sp, stats), nil
}

// FormatPlayerStatsResponse formats a player stats message for a slash command response.
func (s *Notifier) FormatPlayerStatsResponse(stats *club.PlayerStats, query string) (any, error) {
	return s.formatPlayerStats(stats, query), nil
}

// FormatPlayerNotFoundResponse formats a player not found message for a slash command response.
func (s *Notifier) FormatPlayerNotFoundResponse(query string) (any, error) {
	return s.formatPlayerNotFound(query), nil
}

// sportLabel renders a sport id as display text, e.g. "table_tennis" becomes "Table Tennis".
func sportLabel(sp sport.Sport) string {
	words := strings.Split(string(sp), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// formatResultNotification creates the Slack message for a finished match using Block Kit.
func (s *Notifier) formatResultNotification(m *match.Match) slack.Message {
	blocks := make([]slack.Block, 0)

	// Header
	headerText := slack.NewTextBlockObject("plain_text", fmt.Sprintf("🏅 %s match finished! 🏅", sportLabel(m.Sport)), true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	// Details
	loc, err := time.LoadLocation("Europe/Copenhagen")
	var timeStr string
	if err == nil {
		timeStr = time.Unix(m.PlayedAt, 0).In(loc).Format("Monday 02 Jan, 15:04")
	} else {
		timeStr = time.Unix(m.PlayedAt, 0).Format("Monday 02 Jan, 15:04")
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", fmt.Sprintf("Played %s", timeStr), false, false), nil, nil))

	switch {
	case m.Result.Series != nil:
		blocks = append(blocks, s.seriesResultBlocks(m)...)
	case len(m.Result.Scorecards) > 0:
		blocks = append(blocks, s.bowlingResultBlocks(m)...)
	case m.Result.StrokePlay != nil:
		blocks = append(blocks, s.strokePlayResultBlocks(m)...)
	default:
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "Result: No scores reported.", true, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}

func (s *Notifier) seriesResultBlocks(m *match.Match) []slack.Block {
	sideName := func(side int) string {
		var names []string
		for _, p := range m.Side(side) {
			names = append(names, p.Name)
		}
		return strings.Join(names, " & ")
	}
	sideA := sideName(1)
	sideB := sideName(2)

	var resultsFields []*slack.TextBlockObject
	for i, set := range m.Result.Series.Sets {
		setText := fmt.Sprintf("Game %d\n• %s: %d\n• %s: %d", i+1, sideA, set[0], sideB, set[1])
		resultsFields = append(resultsFields, slack.NewTextBlockObject("plain_text", setText, true, false))
	}

	winner := sideA
	if m.WinnerSide() == 2 {
		winner = sideB
	}
	resultHeaderText := fmt.Sprintf("Result: %s won %d-%d! 🏆", winner, m.Result.Series.WinsA, m.Result.Series.WinsB)
	if m.WinnerSide() == 2 {
		resultHeaderText = fmt.Sprintf("Result: %s won %d-%d! 🏆", winner, m.Result.Series.WinsB, m.Result.Series.WinsA)
	}

	return []slack.Block{
		slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", resultHeaderText, true, false), resultsFields, nil),
	}
}

func (s *Notifier) bowlingResultBlocks(m *match.Match) []slack.Block {
	var lines []string
	for _, card := range m.Result.Scorecards {
		lines = append(lines, fmt.Sprintf("• %s: %d", card.Name, card.Total))
	}

	winners := m.WinnerNames()
	resultHeaderText := "Result:"
	if len(winners) == 1 {
		resultHeaderText = fmt.Sprintf("Result: %s won! 🏆", winners[0])
	} else if len(winners) > 1 {
		resultHeaderText = fmt.Sprintf("Result: %s tied for the win! 🏆", strings.Join(winners, " & "))
	}

	return []slack.Block{
		slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", resultHeaderText, true, false), nil, nil),
		slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "Scores:\n"+strings.Join(lines, "\n"), true, false), nil, nil),
	}
}

func (s *Notifier) strokePlayResultBlocks(m *match.Match) []slack.Block {
	var lines []string
	for _, t := range m.Result.StrokePlay.Totals {
		lines = append(lines, fmt.Sprintf("• %s: %d throws", t.Player, t.Strokes))
	}

	winners := m.Result.StrokePlay.Winners
	resultHeaderText := "Result:"
	if len(winners) == 1 {
		resultHeaderText = fmt.Sprintf("Result: %s won! 🏆", winners[0])
	} else if len(winners) > 1 {
		resultHeaderText = fmt.Sprintf("Result: %s tied for the win! 🏆", strings.Join(winners, " & "))
	}

	return []slack.Block{
		slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", resultHeaderText, true, false), nil, nil),
		slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "Rounds:\n"+strings.Join(lines, "\n"), true, false), nil, nil),
	}
}

// formatLeaderboard creates a Slack message to display the player leaderboard for one sport.
func (s *Notifier) formatLeaderboard(sp sport.Sport, stats []club.PlayerStats) slack.Message {
	blocks := make([]slack.Block, 0)

	// Header
	headerText := slack.NewTextBlockObject("plain_text", fmt.Sprintf("🏆 %s Leaderboard 🏆", sportLabel(sp)), true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(stats) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No stats available yet. Go play some matches!", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	// Player Ranks
	for i, stat := range stats {
		rank := i + 1
		var medal string
		switch rank {
		case 1:
			medal = "🥇"
		case 2:
			medal = "🥈"
		case 3:
			medal = "🥉"
		}

		playerText := fmt.Sprintf("%d. %s %s\n> Match Win %%: %.2f%% (%d/%d) | Sets Won: %d | Points Won: %d",
			rank,
			medal,
			stat.PlayerName,
			stat.WinPercentage,
			stat.MatchesWon,
			stat.MatchesPlayed,
			stat.SetsWon,
			stat.PointsWon,
		)
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", playerText, true, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatPlayerStats creates a Slack message to display a single player's stats.
func (s *Notifier) formatPlayerStats(stat *club.PlayerStats, query string) slack.Message {
	blocks := make([]slack.Block, 0)

	// Header
	headerText := fmt.Sprintf("🏆 %s stats for %s 🏆", sportLabel(sport.Sport(stat.Sport)), stat.PlayerName)
	blocks = append(blocks, slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", headerText, true, false)))

	playerText := fmt.Sprintf("> *Match Win %%*: %.2f%% (%d/%d)\n> *Sets Won*: %d\n> *Points Won*: %d",
		stat.WinPercentage,
		stat.MatchesWon,
		stat.MatchesPlayed,
		stat.SetsWon,
		stat.PointsWon,
	)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", playerText, false, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}

// formatPlayerNotFound creates a Slack message for when a player's stats are not found.
func (s *Notifier) formatPlayerNotFound(query string) slack.Message {
	text := fmt.Sprintf("Sorry, I couldn't find a player matching *%s*. Try a different name.", query)
	return slack.NewBlockMessage(
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil),
	)
}
