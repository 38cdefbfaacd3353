package reports

import "testing"

func TestAccountTypeLabel(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"10", "Credit Card"},
		{"51", "Home Loan"},
		{"52", "Personal Loan"},
		{"53", "Auto Loan"},
		{"71", "Business Loan"},
		{"999", "Other Credit Facility"},
		{"", "Other Credit Facility"},
		{"garbage", "Other Credit Facility"},
	}
	for _, tt := range tests {
		if got := accountTypeLabel(tt.code); got != tt.want {
			t.Fatalf("accountTypeLabel(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestAccountStatusLabel(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"11", "active"},
		{"13", "closed"},
		{"53", "default"},
		{"71", "delinquent"},
		{"999", "unknown"},
		{"", "unknown"},
	}
	for _, tt := range tests {
		if got := accountStatusLabel(tt.code); got != tt.want {
			t.Fatalf("accountStatusLabel(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

// Every label from the embedded table must be non-empty; the fallbacks make
// the mapping total.
func TestCodeTablesLoaded(t *testing.T) {
	if len(codes.AccountTypes) == 0 || len(codes.AccountStatuses) == 0 {
		t.Fatalf("embedded code tables failed to load: %+v", codes)
	}
	for code, label := range codes.AccountTypes {
		if label == "" {
			t.Fatalf("empty label for account type %q", code)
		}
	}
	for code, label := range codes.AccountStatuses {
		if label == "" {
			t.Fatalf("empty label for account status %q", code)
		}
	}
}
