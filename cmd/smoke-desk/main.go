package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"rmdesk.org/internal/agent"
	"rmdesk.org/internal/auth"
	"rmdesk.org/internal/customer"
	"rmdesk.org/internal/fulfill"
	"rmdesk.org/internal/intent"
	"rmdesk.org/internal/remittance"
)

// smoke-desk exercises the full query pipeline in-process: login, a
// supported query, a permission denial, logout, and a stale-session check.

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	hash, err := auth.HashCredential("password123")
	if err != nil {
		log.Fatalf("hash credential: %v", err)
	}
	dir := customer.NewMemory()
	now := time.Now().UTC()
	for _, rec := range customer.DemoBook(hash, now) {
		if err := dir.Create(ctx, rec); err != nil {
			log.Fatalf("seed customer: %v", err)
		}
	}

	sessions, err := auth.NewSessionRegistry(dir, "smoke-secret")
	if err != nil {
		log.Fatalf("session registry: %v", err)
	}
	verifier, err := auth.NewVerifier(dir, sessions)
	if err != nil {
		log.Fatalf("verifier: %v", err)
	}
	remittances := remittance.NewInMemory(remittance.DemoSet(now)...)
	desk, err := agent.New(verifier, intent.RuleResolver{}, fulfill.NewToolFulfiller(remittances))
	if err != nil {
		log.Fatalf("assemble desk: %v", err)
	}

	out := desk.Authenticate(ctx, "CUST001", "password123")
	if !out.Authenticated {
		log.Fatalf("login CUST001: %v", out.Err)
	}
	token := out.SessionToken

	entry := desk.ProcessQuery(ctx, agent.Request{
		Query:        "Where is my remittance REF123456?",
		SessionToken: token,
	})
	if entry.Intent != intent.RemittanceStatus || !entry.Supported || entry.Classification != auth.ClassNone {
		log.Fatalf("remittance query: %+v", entry)
	}

	denied := desk.ProcessQuery(ctx, agent.Request{
		Query:      "Track my remittance please",
		CustomerID: "CUST003",
		Credential: "password123",
	})
	if denied.Classification != auth.ClassPermissionDenied {
		log.Fatalf("expected permission denial, got %+v", denied)
	}

	if !desk.Logout(ctx, token) {
		log.Fatal("logout did not revoke the session")
	}
	stale := desk.ProcessQuery(ctx, agent.Request{
		Query:        "What is my balance?",
		SessionToken: token,
	})
	if stale.Classification != auth.ClassSessionInvalid {
		log.Fatalf("expected stale session rejection, got %+v", stale)
	}

	stats := desk.Stats()
	if stats.Total != 2 || stats.Supported != 2 {
		log.Fatalf("stats mismatch: %+v", stats)
	}

	fmt.Println("desk smoke test passed")
}
