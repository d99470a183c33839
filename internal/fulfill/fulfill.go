// Package fulfill turns a classified customer query into an answer.
//
// Each supported intent maps to one tool. The remittance tool is backed by
// the remittance service; the remaining tools return fixture data shaped like
// the upstream banking APIs they stand in for.
package fulfill

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"rmdesk.org/internal/intent"
	"rmdesk.org/internal/remittance"
)

// Request is one fulfillment call.
type Request struct {
	Query      string
	Intent     intent.Label
	CustomerID string
}

// Fulfiller produces the response text for a classified query.
type Fulfiller interface {
	Fulfill(ctx context.Context, req Request) (string, error)
}

// ToolFulfiller dispatches each intent to its tool.
type ToolFulfiller struct {
	Remittances remittance.Service
	Now         func() time.Time
}

var _ Fulfiller = (*ToolFulfiller)(nil)

// NewToolFulfiller wires the tool set over a remittance service.
func NewToolFulfiller(remittances remittance.Service) *ToolFulfiller {
	return &ToolFulfiller{Remittances: remittances, Now: time.Now}
}

func (f *ToolFulfiller) now() time.Time {
	if f.Now != nil {
		return f.Now()
	}
	return time.Now()
}

func (f *ToolFulfiller) Fulfill(ctx context.Context, req Request) (string, error) {
	switch req.Intent {
	case intent.RemittanceStatus:
		return f.remittanceStatus(ctx, req)
	case intent.AccountBalance:
		return f.accountBalance(req)
	case intent.TransactionHistory:
		return f.transactionHistory(req)
	case intent.GeneralBanking:
		return f.generalBanking(req)
	default:
		return "", fmt.Errorf("fulfill: no tool for intent %s", req.Intent)
	}
}

// referencePattern matches transfer references like REF123456 in query text.
var referencePattern = regexp.MustCompile(`(?i)\bREF[0-9]{4,}\b`)

// ExtractReference pulls the first remittance reference out of free text,
// uppercased. Empty when the query names none.
func ExtractReference(query string) string {
	return strings.ToUpper(referencePattern.FindString(query))
}

func (f *ToolFulfiller) remittanceStatus(ctx context.Context, req Request) (string, error) {
	if f.Remittances == nil {
		return "", fmt.Errorf("fulfill: remittance service not configured")
	}
	if ref := ExtractReference(req.Query); ref != "" {
		d, err := f.Remittances.ByReference(ctx, ref, req.CustomerID)
		if err != nil {
			if errors.Is(err, remittance.ErrNotFound) {
				return fmt.Sprintf("Remittance with reference ID %s not found for customer %s", ref, req.CustomerID), nil
			}
			return "", err
		}
		return marshalAnswer(remittanceDetail(d))
	}

	list, err := f.Remittances.ForCustomer(ctx, req.CustomerID, 5)
	if err != nil {
		return "", err
	}
	if len(list) == 0 {
		return fmt.Sprintf("No remittance transactions found for customer %s", req.CustomerID), nil
	}
	sum, err := f.Remittances.Summary(ctx, req.CustomerID, f.now())
	if err != nil {
		return "", err
	}
	rows := make([]map[string]any, 0, len(list))
	for _, d := range list {
		rows = append(rows, map[string]any{
			"reference_id":      d.Reference,
			"amount":            formatMoney(d.AmountMinor, d.Currency),
			"status":            titleCase(string(d.Status)),
			"transaction_type":  titleCase(strings.ReplaceAll(string(d.Type), "_", " ")),
			"recipient":         d.Recipient,
			"recipient_country": d.RecipientCountry,
			"initiated_date":    d.InitiatedAt.Format("2006-01-02 15:04:05"),
			"completed_date":    formatOptionalTime(d.CompletedAt),
		})
	}
	return marshalAnswer(map[string]any{
		"customer_id":        req.CustomerID,
		"total_transactions": len(rows),
		"transactions":       rows,
		"status_summary":     summaryAnswer(sum, list[0].Currency),
	})
}

func summaryAnswer(sum remittance.StatusSummary, currency string) map[string]any {
	byStatus := make(map[string]any, len(sum.ByStatus))
	for status, bucket := range sum.ByStatus {
		byStatus[string(status)] = map[string]any{
			"count":  bucket.Count,
			"amount": formatMoney(bucket.AmountMinor, currency),
		}
	}
	return map[string]any{
		"by_status":    byStatus,
		"total_amount": formatMoney(sum.TotalAmountMinor, currency),
		"last_30_days": sum.RecentCount,
	}
}

func remittanceDetail(d remittance.Details) map[string]any {
	out := map[string]any{
		"reference_id":      d.Reference,
		"amount":            formatMoney(d.AmountMinor, d.Currency),
		"status":            titleCase(string(d.Status)),
		"transaction_type":  titleCase(strings.ReplaceAll(string(d.Type), "_", " ")),
		"recipient":         d.Recipient,
		"recipient_bank":    d.RecipientBank,
		"recipient_country": d.RecipientCountry,
		"purpose":           d.Purpose,
		"fees":              formatMoney(d.FeesMinor, d.Currency),
		"initiated_date":    d.InitiatedAt.Format("2006-01-02 15:04:05"),
		"processed_date":    formatOptionalTime(d.ProcessedAt),
		"completed_date":    formatOptionalTime(d.CompletedAt),
	}
	if d.FailureReason != "" {
		out["failure_reason"] = d.FailureReason
	}
	return out
}

func (f *ToolFulfiller) accountBalance(req Request) (string, error) {
	return marshalAnswer(map[string]any{
		"customer_id":       req.CustomerID,
		"account_type":      "Savings",
		"balance":           "$125,000.00",
		"available_balance": "$120,000.00",
		"currency":          "USD",
		"last_updated":      f.now().UTC().Format("2006-01-02 15:04:05"),
	})
}

func (f *ToolFulfiller) transactionHistory(req Request) (string, error) {
	return marshalAnswer(map[string]any{
		"customer_id": req.CustomerID,
		"transactions": []map[string]string{
			{
				"transaction_id": "TXN001",
				"date":           f.now().UTC().AddDate(0, 0, -1).Format("2006-01-02"),
				"description":    "Salary Deposit",
				"amount":         "+$5,000.00",
				"balance":        "$125,000.00",
			},
			{
				"transaction_id": "TXN002",
				"date":           f.now().UTC().AddDate(0, 0, -2).Format("2006-01-02"),
				"description":    "ATM Withdrawal",
				"amount":         "-$200.00",
				"balance":        "$120,000.00",
			},
			{
				"transaction_id": "TXN003",
				"date":           f.now().UTC().AddDate(0, 0, -3).Format("2006-01-02"),
				"description":    "Online Transfer",
				"amount":         "-$1,500.00",
				"balance":        "$120,200.00",
			},
		},
	})
}

func (f *ToolFulfiller) generalBanking(req Request) (string, error) {
	return marshalAnswer(map[string]any{
		"query":    req.Query,
		"response": "This is a general banking inquiry response. For specific account information, please use the appropriate tools.",
		"available_services": []string{
			"Account Balance Check",
			"Transaction History",
			"Remittance Status",
			"General Banking Information",
		},
		"contact_info": "For additional assistance, please contact our customer service at 1-800-BANK-HELP",
	})
}

func marshalAnswer(v any) (string, error) {
	buf, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("fulfill: encode answer: %w", err)
	}
	return string(buf), nil
}

func formatOptionalTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format("2006-01-02 15:04:05")
}

// formatMoney renders a minor-unit amount as "$1,234.56 USD".
func formatMoney(minor int64, currency string) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	whole := minor / 100
	cents := minor % 100
	return fmt.Sprintf("%s$%s.%02d %s", sign, groupThousands(whole), cents, currency)
}

func groupThousands(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
