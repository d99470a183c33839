package customer

import "time"

// DemoBook returns the fixture roster used for local development and
// smoke runs. All records share the given credential hash.
func DemoBook(credentialHash string, now time.Time) []Record {
	book := []Record{
		{ID: "CUST001", Name: "John Doe", Email: "john.doe@example.com", Phone: "+91-98765-43210", Tier: TierHighNetWorth, Status: StatusActive},
		{ID: "CUST002", Name: "Jane Smith", Email: "jane.smith@example.com", Phone: "+65-8123-4567", Tier: TierPremium, Status: StatusActive},
		{ID: "CUST003", Name: "Bob Johnson", Email: "bob.johnson@example.com", Phone: "+1-415-555-0132", Tier: TierRegular, Status: StatusActive},
		{ID: "CUST004", Name: "Alice Brown", Email: "alice.brown@example.com", Phone: "+44-7700-900123", Tier: TierVeryImportant, Status: StatusActive},
		{ID: "CUST005", Name: "Charlie Wilson", Email: "charlie.wilson@example.com", Phone: "+61-412-345-678", Tier: TierRegular, Status: StatusSuspended},
	}
	for i := range book {
		book[i].CredentialHash = credentialHash
		book[i].CreatedAt = now
		book[i].UpdatedAt = now
	}
	return book
}
