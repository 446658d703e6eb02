package main

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"

	"github.com/spf13/cobra"
)

var (
	leaderboardSport string
	statsSport       string
	processDryRun    bool
)

func init() {
	leaderboardCmd.Flags().StringVar(&leaderboardSport, "sport", "padel", "The sport to rank players in")
	playerStatsCmd.Flags().StringVar(&statsSport, "sport", "padel", "The sport to show stats for")
	processCmd.Flags().BoolVar(&processDryRun, "dry-run", false, "Log the processing steps without writing anything")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(playerStatsCmd)
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List the registered players",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/players")
	},
}

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "List the recorded matches",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/matches")
	},
}

var recordCmd = &cobra.Command{
	Use:   "record <file>",
	Short: "Record a match from a JSON submission file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/matches", args[0])
	},
}

var previewCmd = &cobra.Command{
	Use:   "preview <file>",
	Short: "Preview running totals for a bowling scorecard in a JSON file",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/matches/preview/bowling", args[0])
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the leaderboard for a sport",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/leaderboard?sport=" + url.QueryEscape(leaderboardSport))
	},
}

var playerStatsCmd = &cobra.Command{
	Use:   "player-stats <name>",
	Short: "Show the stats for a single player",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		q := url.Values{}
		q.Set("name", args[0])
		q.Set("sport", statsSport)
		return performGetRequest("/player-stats?" + q.Encode())
	},
}

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Run the match processing pipeline",
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := "/process"
		if processDryRun {
			endpoint += "?dry_run=true"
		}
		return performGetRequest(endpoint)
	},
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import finished matches from Playtomic",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/import/playtomic")
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

func performGetRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func performPostRequest(endpoint, file string) error {
	payload, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", file, err)
	}

	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
