package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Seeds a running server with demo players and scores so the
// leaderboards have something to show during local development.

type userPayload struct {
	Username string `json:"username"`
}

type scorePayload struct {
	UserID       int64  `json:"userId"`
	GameName     string `json:"gameName"`
	Score        int64  `json:"score"`
	SubmissionID string `json:"submissionId"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

var games = []string{"memory-cards", "whack-a-mole", "puzzle", "guess-number"}

var players = []string{"alice", "bob", "carol", "dave", "erin", "frank"}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "base URL of the API server")
	perPlayer := flag.Int("scores", 5, "score submissions per player per game")
	flag.Parse()

	client := &http.Client{Timeout: 5 * time.Second}

	for _, name := range players {
		user, err := createUser(client, *baseURL, name)
		if err != nil {
			log.Fatalf("Failed to create user %q: %v", name, err)
		}
		fmt.Printf("User %s -> id %d\n", user.Username, user.ID)

		for _, game := range games {
			for i := 0; i < *perPlayer; i++ {
				score := scorePayload{
					UserID:       user.ID,
					GameName:     game,
					Score:        int64(rand.Intn(1000)),
					SubmissionID: uuid.NewString(),
				}
				if err := submitScore(client, *baseURL, score); err != nil {
					log.Fatalf("Failed to submit score for %s/%s: %v", name, game, err)
				}
			}
		}
	}

	fmt.Println("Seeding complete.")
}

func createUser(client *http.Client, baseURL, username string) (*userResponse, error) {
	body, err := postJSON(client, baseURL+"/api/users", userPayload{Username: username})
	if err != nil {
		return nil, err
	}
	var user userResponse
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("decode user response: %w", err)
	}
	return &user, nil
}

func submitScore(client *http.Client, baseURL string, score scorePayload) error {
	_, err := postJSON(client, baseURL+"/api/scores", score)
	return err
}

func postJSON(client *http.Client, url string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	resp, err := client.Post(url, "application/json", bytes.NewBuffer(data))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s: %s: %s", url, resp.Status, string(body))
	}
	return body, nil
}
