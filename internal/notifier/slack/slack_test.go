package slack

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/HeXi037/cross-sport-tracker-sub002/internal/club"
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/match"
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/metrics"
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/scoring/bowling"
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/scoring/series"
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/scoring/strokeplay"
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/sport"
	slackapi "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bowlingResult(total int) bowling.Result {
	return bowling.Result{Total: total}
}

// mockSlackAPI is a mock implementation of the parts of the slack.Client that we use.
type mockSlackAPI struct {
	postMessageContextFunc func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

func (m *mockSlackAPI) PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	if m.postMessageContextFunc != nil {
		return m.postMessageContextFunc(ctx, channelID, options...)
	}
	return "C12345", "123456789.12345", nil
}

func TestSendMessage_DryRun(t *testing.T) {
	metrics := metrics.NewMock()
	// Pass nil for the api, as it shouldn't be called in dry-run mode.
	notifier := NewNotifierWithAPI(nil, "C123", metrics)

	message := slackapi.NewBlockMessage()
	_, _, err := notifier.sendMessage(message, true)
	require.NoError(t, err)
}

func TestSendMessage_Success(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			assert.Equal(t, "C123", channelID)
			return "C123", "ts123", nil
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	message := slackapi.NewBlockMessage(slackapi.NewSectionBlock(slackapi.NewTextBlockObject("plain_text", "hello", false, false), nil, nil))
	_, _, err := notifier.sendMessage(message, false)

	require.NoError(t, err)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called")
	assert.Equal(t, 1, metrics.SlackNotifSent())
	assert.Equal(t, 0, metrics.SlackNotifFailed())
}

func TestSendMessage_Failure(t *testing.T) {
	postMessageCalled := false
	expectedErr := errors.New("slack API is down")
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			return "", "", expectedErr
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	message := slackapi.NewBlockMessage()
	_, _, err := notifier.sendMessage(message, false)

	require.Error(t, err)
	assert.ErrorIs(t, err, expectedErr)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called")
	assert.Equal(t, 0, metrics.SlackNotifSent())
	assert.Equal(t, 1, metrics.SlackNotifFailed())
}

// Test one of the public methods to ensure it calls the private sender.
func TestSendResultNotification_CallsSender(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			return "C123", "ts123", nil
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	m := &match.Match{
		Sport:    sport.Padel,
		PlayedAt: time.Now().Unix(),
	}

	err := notifier.SendResultNotification(m, false)
	require.NoError(t, err)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called via SendResultNotification")
}

func TestFormatResultNotification_Series(t *testing.T) {
	m := &match.Match{
		Sport:    sport.Padel,
		PlayedAt: time.Date(2025, 7, 9, 20, 0, 0, 0, time.Local).Unix(),
		Participants: []match.Participant{
			{Name: "Player A", Side: 1},
			{Name: "Player B", Side: 1},
			{Name: "Player C", Side: 2},
			{Name: "Player D", Side: 2},
		},
		Result: match.ResultPayload{
			Series: &series.Normalized{
				Sets:       [][2]int{{6, 2}, {7, 5}},
				WinsA:      2,
				WinsB:      0,
				TargetWins: 2,
			},
		},
	}
	client := &Notifier{channelID: "C123"}
	msg := client.formatResultNotification(m)

	require.Len(t, msg.Blocks.BlockSet, 3, "Expected 3 blocks")

	// Check header and details
	header, ok := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
	require.True(t, ok)
	assert.Equal(t, "🏅 Padel match finished! 🏅", header.Text.Text)

	details, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Contains(t, details.Text.Text, "Played")

	// Check results section
	resultsSection, ok := msg.Blocks.BlockSet[2].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Equal(t, "Result: Player A & Player B won 2-0! 🏆", resultsSection.Text.Text)
	require.Len(t, resultsSection.Fields, 2)

	expectedSet1 := "Game 1\n• Player A & Player B: 6\n• Player C & Player D: 2"
	expectedSet2 := "Game 2\n• Player A & Player B: 7\n• Player C & Player D: 5"
	assert.Equal(t, expectedSet1, resultsSection.Fields[0].Text)
	assert.Equal(t, expectedSet2, resultsSection.Fields[1].Text)
}

func TestFormatResultNotification_Bowling(t *testing.T) {
	m := &match.Match{
		Sport:    sport.Bowling,
		PlayedAt: time.Date(2025, 7, 9, 20, 0, 0, 0, time.Local).Unix(),
		Participants: []match.Participant{
			{Name: "Player A"},
			{Name: "Player B"},
		},
		Result: match.ResultPayload{
			Scorecards: []match.Scorecard{
				{Name: "Player A", Result: bowlingResult(182)},
				{Name: "Player B", Result: bowlingResult(147)},
			},
		},
	}
	client := &Notifier{channelID: "C123"}
	msg := client.formatResultNotification(m)

	require.Len(t, msg.Blocks.BlockSet, 4, "Expected 4 blocks")

	header, ok := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
	require.True(t, ok)
	assert.Equal(t, "🏅 Bowling match finished! 🏅", header.Text.Text)

	resultsSection, ok := msg.Blocks.BlockSet[2].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Equal(t, "Result: Player A won! 🏆", resultsSection.Text.Text)

	scores, ok := msg.Blocks.BlockSet[3].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Contains(t, scores.Text.Text, "• Player A: 182")
	assert.Contains(t, scores.Text.Text, "• Player B: 147")
}

func TestFormatResultNotification_StrokePlay(t *testing.T) {
	m := &match.Match{
		Sport:    sport.DiscGolf,
		PlayedAt: time.Date(2025, 7, 9, 20, 0, 0, 0, time.Local).Unix(),
		Result: match.ResultPayload{
			StrokePlay: &strokeplay.Result{
				Totals: []strokeplay.PlayerTotal{
					{Player: "Player A", Strokes: 54},
					{Player: "Player B", Strokes: 54},
				},
				Winners: []string{"Player A", "Player B"},
			},
		},
	}
	client := &Notifier{channelID: "C123"}
	msg := client.formatResultNotification(m)

	require.Len(t, msg.Blocks.BlockSet, 4)

	header, ok := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
	require.True(t, ok)
	assert.Equal(t, "🏅 Disc Golf match finished! 🏅", header.Text.Text)

	resultsSection, ok := msg.Blocks.BlockSet[2].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Equal(t, "Result: Player A & Player B tied for the win! 🏆", resultsSection.Text.Text)
}

func TestFormatLeaderboard(t *testing.T) {
	t.Run("displays leaderboard with stats", func(t *testing.T) {
		stats := []club.PlayerStats{
			{PlayerName: "Player A", MatchesPlayed: 10, MatchesWon: 8, WinPercentage: 80.0, SetsWon: 16, PointsWon: 96},
			{PlayerName: "Player B", MatchesPlayed: 10, MatchesWon: 6, WinPercentage: 60.0, SetsWon: 12, PointsWon: 80},
			{PlayerName: "Player C", MatchesPlayed: 10, MatchesWon: 4, WinPercentage: 40.0, SetsWon: 8, PointsWon: 64},
		}

		client := &Notifier{channelID: "C123"}
		msg := client.formatLeaderboard(sport.Padel, stats)

		require.Len(t, msg.Blocks.BlockSet, 4, "Expected 4 blocks (header + 3 players)")

		// Check header
		header, ok := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
		require.True(t, ok)
		assert.Equal(t, "🏆 Padel Leaderboard 🏆", header.Text.Text)

		// Check first player
		player1, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
		require.True(t, ok)
		assert.Contains(t, player1.Text.Text, "1. 🥇 Player A")
		assert.Contains(t, player1.Text.Text, "> Match Win %: 80.00% (8/10)")

		// Check second player
		player2, ok := msg.Blocks.BlockSet[2].(*slackapi.SectionBlock)
		require.True(t, ok)
		assert.Contains(t, player2.Text.Text, "2. 🥈 Player B")

		// Check third player
		player3, ok := msg.Blocks.BlockSet[3].(*slackapi.SectionBlock)
		require.True(t, ok)
		assert.Contains(t, player3.Text.Text, "3. 🥉 Player C")
	})

	t.Run("displays message when no stats are available", func(t *testing.T) {
		stats := []club.PlayerStats{}

		client := &Notifier{channelID: "C123"}
		msg := client.formatLeaderboard(sport.TableTennis, stats)

		require.Len(t, msg.Blocks.BlockSet, 2, "Expected 2 blocks (header + message)")

		header, ok := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
		require.True(t, ok)
		assert.Equal(t, "🏆 Table Tennis Leaderboard 🏆", header.Text.Text)

		// Check message
		message, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
		require.True(t, ok)
		assert.Equal(t, "No stats available yet. Go play some matches!", message.Text.Text)
	})
}

func TestFormatPlayerStats(t *testing.T) {
	client := &Notifier{channelID: "C123"}

	t.Run("formats stats for a found player", func(t *testing.T) {
		stat := &club.PlayerStats{
			PlayerName:    "Morten Voss",
			Sport:         "padel",
			MatchesPlayed: 10,
			MatchesWon:    8,
			WinPercentage: 80.0,
			SetsWon:       16,
			PointsWon:     96,
		}

		msg := client.formatPlayerStats(stat, "Morten")
		require.Len(t, msg.Blocks.BlockSet, 2)

		header, ok := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
		require.True(t, ok)
		assert.Equal(t, "🏆 Padel stats for Morten Voss 🏆", header.Text.Text)

		section, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
		require.True(t, ok)
		assert.Contains(t, section.Text.Text, "> *Match Win %*: 80.00% (8/10)")
		assert.Contains(t, section.Text.Text, "> *Sets Won*: 16")
		assert.Contains(t, section.Text.Text, "> *Points Won*: 96")
	})

	t.Run("formats message for a player not found", func(t *testing.T) {
		msg := client.formatPlayerNotFound("Unknown Player")
		require.Len(t, msg.Blocks.BlockSet, 1)

		section, ok := msg.Blocks.BlockSet[0].(*slackapi.SectionBlock)
		require.True(t, ok)
		assert.Equal(t, "Sorry, I couldn't find a player matching *Unknown Player*. Try a different name.", section.Text.Text)
	})
}
