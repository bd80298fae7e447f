package utils

import "testing"

func TestValidatePhoneNumber(t *testing.T) {
	valid := []string{
		"01012345678",
		"01112345678",
		"01212345678",
		"01512345678",
		"+201012345678",
		"010 1234 5678",
		"1012345678",
	}
	for _, p := range valid {
		if !ValidatePhoneNumber(p) {
			t.Errorf("expected %q to be valid", p)
		}
	}

	invalid := []string{
		"",
		"0101234567",    // too short
		"010123456789",  // too long
		"01312345678",   // 013 is not a carrier prefix
		"02012345678",   // landline code
		"not-a-number",
	}
	for _, p := range invalid {
		if ValidatePhoneNumber(p) {
			t.Errorf("expected %q to be invalid", p)
		}
	}
}

func TestFormatPhoneNumber(t *testing.T) {
	if got := FormatPhoneNumber("01012345678"); got != "010-123-45678" {
		t.Errorf("got %q", got)
	}
	// unknown shapes pass through untouched
	if got := FormatPhoneNumber("----"); got != "----" {
		t.Errorf("got %q", got)
	}
}

func TestFormatDuration(t *testing.T) {
	cases := map[int64]string{
		0:     "00:00:00",
		59:    "00:00:59",
		60:    "00:01:00",
		3599:  "00:59:59",
		3600:  "01:00:00",
		5430:  "01:30:30",
		-5:    "00:00:00",
		86399: "23:59:59",
	}
	for in, want := range cases {
		if got := FormatDuration(in); got != want {
			t.Errorf("FormatDuration(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestGenerateRandomDigitString(t *testing.T) {
	s := GenerateRandomDigitString(16)
	if len(s) != 16 {
		t.Fatalf("length = %d, want 16", len(s))
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			t.Fatalf("non-digit %q in %q", r, s)
		}
	}
}
