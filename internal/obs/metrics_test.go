package obs

import "testing"

func TestCanonicalPath(t *testing.T) {
	cases := map[string]string{
		"":                              "/",
		"/metrics":                      "/metrics",
		"/v1/query":                     "/v1/query",
		"/v1/remittances/REF20240115":   "/v1/remittances/:ref",
		"/v1/remittances/abc?limit=5":   "/v1/remittances/:ref",
		"/v1/customers/CUST001":         "/v1/customers/:id",
		"/v1/customers/CUST001/profile": "/v1/customers/:id/profile",
		"/v1/customers/CUST001/extra":   "/v1/customers/CUST001/extra",
		"/v1/history?customer_id=C1":    "/v1/history",
	}
	for input, expected := range cases {
		if got := CanonicalPath(input); got != expected {
			t.Fatalf("CanonicalPath(%q)=%q, want %q", input, got, expected)
		}
	}
}
