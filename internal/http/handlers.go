package http

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/HeXi037/cross-sport-tracker-sub002/internal/match"
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/recorder"
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/scoring/bowling"
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/sport"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/slack-go/slack"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) ClearStoreHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID := r.URL.Query().Get("matchID")
		if matchID != "" {
			log.Info("Received request to clear a specific match", "matchID", matchID)
			s.Store.ClearMatch(matchID)
			w.WriteHeader(http.StatusOK)
			fmt.Fprintf(w, "Cleared match %s from store!", matchID)
			log.Info("Successfully cleared match from store", "matchID", matchID)
		} else {
			log.Info("Received request to clear entire store")
			s.Store.Clear()
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, "Store cleared!")
			log.Info("Store cleared successfully")
		}
	}
}

// PlayersHandler lists players on GET and registers a new player on POST.
func (s *Server) PlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			var body struct {
				Name string `json:"name"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				http.Error(w, "Invalid JSON", http.StatusBadRequest)
				return
			}
			if body.Name == "" {
				http.Error(w, "Player name is required.", http.StatusBadRequest)
				return
			}
			existing, err := s.Store.GetPlayerByName(body.Name)
			if err != nil {
				http.Error(w, "Failed to look up player", http.StatusInternalServerError)
				log.Error("Failed to look up player", "error", err)
				return
			}
			if existing != nil {
				http.Error(w, "Player already exists", http.StatusConflict)
				return
			}
			playerID := uuid.NewString()
			s.Store.AddPlayer(playerID, body.Name)
			log.Info("Added player", "playerID", playerID, "name", body.Name)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]string{"id": playerID, "name": body.Name})
		default:
			players, err := s.Store.GetAllPlayers()
			if err != nil {
				http.Error(w, "Failed to get players", http.StatusInternalServerError)
				log.Error("Failed to get players from store", "error", err)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			if err := json.NewEncoder(w).Encode(players); err != nil {
				log.Error("Failed to write response", "error", err)
			}
		}
	}
}

// MatchesHandler lists matches on GET and records a new match on POST.
func (s *Server) MatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			var sub recorder.Submission
			if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
				http.Error(w, "Invalid JSON", http.StatusBadRequest)
				return
			}
			recorded, err := s.Recorder.Record(sub)
			if err != nil {
				var storageErr *recorder.StorageError
				if errors.As(err, &storageErr) {
					http.Error(w, "Failed to save match", http.StatusInternalServerError)
					log.Error("Failed to save match", "error", err)
					return
				}
				// Validation problems carry the engine's message verbatim.
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			if err := json.NewEncoder(w).Encode(recorded); err != nil {
				log.Error("Failed to encode match to JSON", "error", err)
			}
		default:
			matches, err := s.Store.GetAllMatches()
			if err != nil {
				http.Error(w, "Failed to get matches", http.StatusInternalServerError)
				log.Error("Failed to get matches from store", "error", err)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			if err := json.NewEncoder(w).Encode(matches); err != nil {
				log.Error("Failed to encode matches to JSON", "error", err)
			}
		}
	}
}

// PreviewBowlingHandler scores a possibly incomplete bowling card. Incomplete
// or locally invalid frames come back as nulls so the score form can render a
// running total while rolls are still being entered.
func (s *Server) PreviewBowlingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Frames [][]string `json:"frames"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		preview := bowling.PreviewTotals(body.Frames)
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(preview); err != nil {
			log.Error("Failed to encode preview to JSON", "error", err)
		}
	}
}

// LeaderboardHandler returns a handler that serves one sport's leaderboard.
func (s *Server) LeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sp, ok := sport.Parse(r.URL.Query().Get("sport"))
		if !ok {
			http.Error(w, "Unknown or missing sport parameter", http.StatusBadRequest)
			return
		}
		stats, err := s.Store.GetLeaderboard(sp)
		if err != nil {
			http.Error(w, "Failed to get player stats", http.StatusInternalServerError)
			log.Error("Failed to get player stats from store", "error", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(stats); err != nil {
			log.Error("Failed to encode player stats to JSON", "error", err)
		}
	}
}

// PlayerStatsHandler serves one player's stats for one sport.
func (s *Server) PlayerStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("name")
		if name == "" {
			http.Error(w, "Player name is required.", http.StatusBadRequest)
			return
		}
		sp, ok := sport.Parse(r.URL.Query().Get("sport"))
		if !ok {
			http.Error(w, "Unknown or missing sport parameter", http.StatusBadRequest)
			return
		}
		stats, err := s.Store.GetPlayerStatsByName(name, sp)
		if err != nil {
			http.Error(w, "Failed to get player stats", http.StatusInternalServerError)
			log.Error("Failed to get player stats from store", "error", err)
			return
		}
		if stats == nil {
			http.Error(w, "Player not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(stats); err != nil {
			log.Error("Failed to encode player stats to JSON", "error", err)
		}
	}
}

func (s *Server) ProcessMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info("Starting match processing...")
		isDryRun := isDryRunFromContext(r)

		s.Processor.ProcessMatches(isDryRun)

		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "Match processing completed.")
		log.Info("Match processing finished.")
	}
}

// ImportPlaytomicHandler pulls finished padel matches from Playtomic and
// records them through the normal submission path.
func (s *Server) ImportPlaytomicHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recorded, err := s.Importer.Import()
		if err != nil {
			http.Error(w, "Failed to import matches", http.StatusInternalServerError)
			log.Error("Playtomic import failed", "error", err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]int{"recorded": recorded})
	}
}

// UpdatePlayerStatsHandler is the Pub/Sub push endpoint for the
// update-player-stats topic.
func (s *Server) UpdatePlayerStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		log.Debug("Received update player stats message", "body", string(bodyBytes))
		// Define a small struct to decode the incoming JSON's `data` field
		var pubsubMsg struct {
			Subscription string `json:"subscription"`
			Message      struct {
				Data string `json:"data"` // base64-encoded message payload
			} `json:"message"`
		}

		// Parse the outer JSON to get `data`
		if err := json.Unmarshal(bodyBytes, &pubsubMsg); err != nil {
			log.Error("Failed to unmarshal wrapper JSON", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		// Decode base64 to raw MessagePack bytes
		rawData, err := base64.StdEncoding.DecodeString(pubsubMsg.Message.Data)
		if err != nil {
			log.Error("Failed to decode base64 data", "error", err)
			http.Error(w, "Invalid base64 data", http.StatusBadRequest)
			return
		}
		m := match.Match{}
		if err := s.pubsub.ProcessMessage(rawData, &m); err != nil {
			http.Error(w, "Invalid message payload", http.StatusBadRequest)
			return
		}
		s.Processor.UpdatePlayerStats(&m)
		w.Write([]byte("OK"))
	}
}

// respondWithSlackMsg is a helper to format and write a Slack message as an HTTP response.
func respondWithSlackMsg(w http.ResponseWriter, msg slack.Message) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(msg); err != nil {
		log.Error("Failed to encode slack message to JSON", "error", err)
	}
}

// LeaderboardCommandHandler returns a handler for the /leaderboard Slack command.
func (s *Server) LeaderboardCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		sp, ok := sport.Parse(r.FormValue("text"))
		if !ok {
			// The command defaults to padel when no sport is given.
			sp = sport.Padel
		}
		stats, err := s.Store.GetLeaderboard(sp)
		if err != nil {
			http.Error(w, "Failed to get player stats", http.StatusInternalServerError)
			log.Error("Failed to get player stats from store", "error", err)
			return
		}

		msg, err := s.Notifier.FormatLeaderboardResponse(sp, stats)
		if err != nil {
			http.Error(w, "Failed to format leaderboard", http.StatusInternalServerError)
			log.Error("Failed to format leaderboard", "error", err)
			return
		}

		slackMsg, ok := msg.(slack.Message)
		if !ok {
			http.Error(w, "Invalid message format for Slack", http.StatusInternalServerError)
			log.Error("Failed to cast message to slack.Message")
			return
		}

		respondWithSlackMsg(w, slackMsg)
	}
}

// PlayerStatsCommandHandler returns a handler for the /player-stats Slack command.
func (s *Server) PlayerStatsCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		playerName := r.FormValue("text")
		if playerName == "" {
			http.Error(w, "Player name is required.", http.StatusBadRequest)
			return
		}

		log.Info("Received player stats command", "player", playerName)

		stats, err := s.Store.GetPlayerStatsByName(playerName, sport.Padel)
		var msg any
		if err != nil || stats == nil {
			log.Warn("Could not find player stats", "player", playerName, "error", err)
			msg, err = s.Notifier.FormatPlayerNotFoundResponse(playerName)
		} else {
			msg, err = s.Notifier.FormatPlayerStatsResponse(stats, playerName)
		}

		if err != nil {
			http.Error(w, "Failed to format player stats", http.StatusInternalServerError)
			log.Error("Failed to format player stats", "error", err)
			return
		}

		slackMsg, ok := msg.(slack.Message)
		if !ok {
			http.Error(w, "Invalid message format for Slack", http.StatusInternalServerError)
			log.Error("Failed to cast message to slack.Message")
			return
		}
		respondWithSlackMsg(w, slackMsg)
	}
}
