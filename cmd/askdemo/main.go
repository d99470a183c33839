package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"time"
)

// askdemo drives a running rmdesk-api with a stream of scripted customer
// queries and reports the outcome mix.

type scripted struct {
	customerID string
	query      string
}

var script = []scripted{
	{"CUST001", "What is my account balance?"},
	{"CUST001", "Where is my remittance REF123456?"},
	{"CUST001", "Show me my recent transactions"},
	{"CUST002", "What is the status of transfer REF789012?"},
	{"CUST002", "How much money do I have?"},
	{"CUST003", "Track my remittance please"},
	{"CUST003", "What are the branch working hours?"},
	{"CUST004", "Give me a statement of past payments"},
	{"CUST004", "What is the weather like today?"},
	{"CUST001", "Tell me a joke"},
}

func main() {
	var (
		baseURL    = flag.String("base-url", "http://localhost:8080", "API base URL")
		workers    = flag.Int("workers", 4, "Concurrent worker count")
		duration   = flag.Duration("duration", 30*time.Second, "Duration of the run")
		credential = flag.String("credential", "password123", "Demo credential")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Printf("Launching desk demo: base=%s workers=%d duration=%s", *baseURL, *workers, *duration)

	client := &http.Client{Timeout: 30 * time.Second}

	tokens := make(map[string]string)
	for _, id := range []string{"CUST001", "CUST002", "CUST003", "CUST004"} {
		token, err := login(ctx, client, *baseURL, id, *credential)
		if err != nil {
			log.Fatalf("login %s: %v", id, err)
		}
		tokens[id] = token
	}

	var (
		total       int64
		supported   int64
		deflected   int64
		denied      int64
		failures    int64
		rateLimited int64
	)

	var wg sync.WaitGroup
	deadline := time.Now().Add(*duration)

	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			rnd := rand.New(rand.NewSource(time.Now().UnixNano() + int64(id*9973)))
			for time.Now().Before(deadline) {
				select {
				case <-ctx.Done():
					return
				default:
				}
				item := script[rnd.Intn(len(script))]
				entry, status, err := ask(ctx, client, *baseURL, tokens[item.customerID], item.query)
				if err != nil {
					atomic.AddInt64(&failures, 1)
					log.Printf("worker %d ask: %v", id, err)
					time.Sleep(200 * time.Millisecond)
					continue
				}
				if status == http.StatusTooManyRequests {
					atomic.AddInt64(&rateLimited, 1)
					time.Sleep(250 * time.Millisecond)
					continue
				}
				if status != http.StatusOK {
					atomic.AddInt64(&failures, 1)
					continue
				}
				atomic.AddInt64(&total, 1)
				switch {
				case entry.Error == "permission_denied":
					atomic.AddInt64(&denied, 1)
				case entry.Supported:
					atomic.AddInt64(&supported, 1)
				default:
					atomic.AddInt64(&deflected, 1)
				}
				time.Sleep(time.Duration(50+rnd.Intn(120)) * time.Millisecond)
			}
		}(i)
	}

	wg.Wait()

	log.Printf("Run complete: %d processed (supported=%d, deflected=%d, denied=%d), failures=%d, rate_limited=%d",
		total, supported, deflected, denied, failures, rateLimited)

	stats, err := fetchStats(ctx, client, *baseURL)
	if err != nil {
		log.Printf("fetch stats: %v", err)
		return
	}
	log.Printf("Desk stats: %s", stats)
}

type queryEntry struct {
	Intent    string `json:"intent"`
	Supported bool   `json:"supported"`
	Error     string `json:"error"`
}

func login(ctx context.Context, client *http.Client, baseURL, customerID, credential string) (string, error) {
	body, _ := json.Marshal(map[string]string{
		"customer_id": customerID,
		"credential":  credential,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/v1/auth/login", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login status %s", resp.Status)
	}
	var payload struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}
	return payload.Token, nil
}

func ask(ctx context.Context, client *http.Client, baseURL, token, query string) (queryEntry, int, error) {
	body, _ := json.Marshal(map[string]string{"query": query})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/v1/query", bytes.NewReader(body))
	if err != nil {
		return queryEntry{}, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		return queryEntry{}, 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return queryEntry{}, resp.StatusCode, nil
	}
	var entry queryEntry
	if err := json.NewDecoder(resp.Body).Decode(&entry); err != nil {
		return queryEntry{}, resp.StatusCode, err
	}
	return entry, resp.StatusCode, nil
}

func fetchStats(ctx context.Context, client *http.Client, baseURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/v1/history/stats", nil)
	if err != nil {
		return "", err
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return "", err
	}
	return string(raw), nil
}
