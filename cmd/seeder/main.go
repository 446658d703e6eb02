package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/HeXi037/cross-sport-tracker-sub002/internal/match"
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/scoring/series"
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/sport"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := make(map[string]string)
	required := []string{"TURSO_PRIMARY_URL", "TURSO_AUTH_TOKEN"}

	for _, key := range required {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		} else {
			log.Fatalf("Error: Required environment variable %s is not set.", key)
		}
	}
	return config
}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()

	// Connect directly to the primary database
	dbURL := fmt.Sprintf("%s?authToken=%s", cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"])
	db, err := sql.Open("libsql", dbURL)
	if err != nil {
		log.Fatalf("Failed to open primary database: %s", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to primary database: %s", err)
	}

	log.Info("Successfully connected to the primary database.")

	// Create 4 dummy players to use in matches
	dummyPlayers := []match.Participant{
		{PlayerID: "player-1", Name: "Seeder Player A"},
		{PlayerID: "player-2", Name: "Seeder Player B"},
		{PlayerID: "player-3", Name: "Seeder Player C"},
		{PlayerID: "player-4", Name: "Seeder Player D"},
	}

	for _, p := range dummyPlayers {
		_, err := db.Exec("INSERT OR IGNORE INTO players (id, name, created_at) VALUES (?, ?, ?)", p.PlayerID, p.Name, time.Now().Unix())
		if err != nil {
			log.Fatalf("Failed to insert dummy player %s: %s", p.Name, err)
		}
	}
	log.Info("Ensured dummy players exist.")

	const batchSize = 100 // Insert 100 matches at a time
	const numMatches = 10000

	log.Info("Preparing to insert dummy matches...", "total", numMatches, "batch_size", batchSize)
	startTime := time.Now()

	tx, err := db.Begin()
	if err != nil {
		log.Fatalf("Failed to begin transaction: %s", err)
	}

	valueStrings := make([]string, 0, batchSize)
	valueArgs := make([]interface{}, 0, batchSize*8) // 8 columns per match

	for i := 0; i < numMatches; i++ {
		matchTime := time.Now().Add(-time.Duration(rand.Intn(365*24)) * time.Hour)
		participants := []match.Participant{
			{PlayerID: dummyPlayers[0].PlayerID, Name: dummyPlayers[0].Name, Side: 1},
			{PlayerID: dummyPlayers[1].PlayerID, Name: dummyPlayers[1].Name, Side: 1},
			{PlayerID: dummyPlayers[2].PlayerID, Name: dummyPlayers[2].Name, Side: 2},
			{PlayerID: dummyPlayers[3].PlayerID, Name: dummyPlayers[3].Name, Side: 2},
		}
		participantsBlob, _ := json.Marshal(participants)
		resultBlob, _ := json.Marshal(match.ResultPayload{
			Series: &series.Normalized{
				Sets:       [][2]int{{6, rand.Intn(5)}, {6, rand.Intn(5)}},
				WinsA:      2,
				WinsB:      0,
				TargetWins: 2,
			},
		})

		valueStrings = append(valueStrings, "(?, ?, ?, ?, ?, ?, ?, ?)")
		valueArgs = append(valueArgs,
			uuid.NewString(),
			string(sport.Padel),
			matchTime.Unix(),
			matchTime.Unix(),
			string(match.StatusCompleted),
			participantsBlob,
			resultBlob,
			nil, // result_notified_ts
		)

		if (i+1)%batchSize == 0 || (i+1) == numMatches {
			stmt := fmt.Sprintf(`
				INSERT INTO matches (id, sport, played_at, created_at, processing_status,
					participants_json, result_json, result_notified_ts)
				VALUES %s;`, strings.Join(valueStrings, ","))

			_, err := tx.Exec(stmt, valueArgs...)
			if err != nil {
				tx.Rollback()
				log.Fatalf("Failed to execute batch insert: %s", err)
			}

			// Reset for the next batch
			valueStrings = make([]string, 0, batchSize)
			valueArgs = make([]interface{}, 0, batchSize*8)
			log.Info("Inserted batch", "completed", i+1, "total", numMatches)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Fatalf("Failed to commit transaction: %s", err)
	}

	duration := time.Since(startTime)
	log.Info("Successfully inserted all dummy matches.", "duration", duration)
}
