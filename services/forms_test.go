package services

import "testing"

func TestValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"seller@idlikadai.com", true},
		{"a@b.co", true},
		{"no-at-sign", false},
		{"spaces in@mail.com", false},
		{"missing@tld", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidEmail(tt.email); got != tt.want {
			t.Errorf("ValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
		}
	}
}

func TestValidateAccountForm(t *testing.T) {
	tests := []struct {
		name     string
		username string
		email    string
		password string
		want     int
	}{
		{"valid", "anand", "anand@mail.com", "secret1", 0},
		{"short username", "ab", "anand@mail.com", "secret1", 1},
		{"bad email", "anand", "not-an-email", "secret1", 1},
		{"short password", "anand", "anand@mail.com", "12345", 1},
		{"everything wrong", "a", "x", "1", 3},
		// "аб" is 4 bytes but only 2 characters
		{"multibyte username too short", "аб", "anand@mail.com", "secret1", 1},
		{"multibyte username valid", "або", "anand@mail.com", "secret1", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateAccountForm(tt.username, tt.email, tt.password)
			if len(got) != tt.want {
				t.Errorf("ValidateAccountForm() = %d problems %v, want %d", len(got), got, tt.want)
			}
		})
	}
}

func TestMenuFieldValidators(t *testing.T) {
	if err := ValidateMenuName("Idli"); err != nil {
		t.Errorf("ValidateMenuName(Idli) = %v", err)
	}
	if err := ValidateMenuName("I"); err == nil {
		t.Error("one-character name should fail")
	}
	if err := ValidateMenuDescription("Soft steamed rice cakes"); err != nil {
		t.Errorf("ValidateMenuDescription() = %v", err)
	}
	if err := ValidateMenuDescription("too short"); err == nil {
		t.Error("nine-character description should fail")
	}
	if err := ValidateMenuDescription("картофель"); err == nil {
		t.Error("nine-character multibyte description should fail even at eighteen bytes")
	}
	if err := ValidateMenuCategory("Idli"); err != nil {
		t.Errorf("ValidateMenuCategory() = %v", err)
	}
	if err := ValidateMenuCategory(" x "); err == nil {
		t.Error("category shorter than the minimum after trimming should fail")
	}
}

func TestParseMenuPrice(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"30", 30, false},
		{" 45.50 ", 45.5, false},
		{"0", 0, false},
		{"-1", 0, true},
		{"thirty", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseMenuPrice(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMenuPrice(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseMenuPrice(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
