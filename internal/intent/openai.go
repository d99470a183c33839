package intent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const classificationPrompt = `You are an expert intent classifier for banking customer service queries.
Classify the following customer query into one of these categories:

1. REMITTANCE_STATUS - Query about remittance status, transfer status, or payment tracking
2. ACCOUNT_BALANCE - Query about account balance or funds
3. TRANSACTION_HISTORY - Query about past transactions
4. INVESTMENT_QUERY - Query about investments, portfolios, or financial products
5. LOAN_INQUIRY - Query about loans, credit, or borrowing
6. CARD_SERVICES - Query about debit/credit cards
7. GENERAL_BANKING - General banking questions
8. OUT_OF_SCOPE - Query is not related to banking services or is too complex

Customer Query: %s

Respond with only the category name (e.g., REMITTANCE_STATUS).`

// OpenAIResolver delegates classification to the OpenAI chat-completions API.
// Any transport or API failure is reported as an error; callers are expected
// to degrade to OutOfScope.
type OpenAIResolver struct {
	Model   string
	APIKey  string
	BaseURL string
	Client  *http.Client
}

var _ Resolver = (*OpenAIResolver)(nil)

// NewOpenAIResolver constructs a resolver with a bounded HTTP client.
func NewOpenAIResolver(model, apiKey string) *OpenAIResolver {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIResolver{
		Model:  model,
		APIKey: apiKey,
		Client: &http.Client{Timeout: 15 * time.Second},
	}
}

func (r *OpenAIResolver) Classify(ctx context.Context, text string) (Label, error) {
	if r.APIKey == "" {
		return OutOfScope, errors.New("missing API key")
	}
	payload := map[string]any{
		"model": r.Model,
		"messages": []map[string]string{
			{"role": "user", "content": fmt.Sprintf(classificationPrompt, text)},
		},
		"temperature": 0.1,
	}
	buf, _ := json.Marshal(payload)
	base := r.BaseURL
	if base == "" {
		base = "https://api.openai.com"
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/v1/chat/completions", bytes.NewReader(buf))
	if err != nil {
		return OutOfScope, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+r.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return OutOfScope, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return OutOfScope, fmt.Errorf("openai error: %s", resp.Status)
	}
	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return OutOfScope, err
	}
	if len(out.Choices) == 0 {
		return OutOfScope, errors.New("no choices returned")
	}
	// Parse never leaves the vocabulary, so a chatty model answer still maps
	// to OutOfScope instead of leaking free text upward.
	return Parse(out.Choices[0].Message.Content), nil
}
