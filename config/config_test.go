package config

import "testing"

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		val  string
		def  bool
		want bool
	}{
		{"", true, true},
		{"", false, false},
		{"true", false, true},
		{"TRUE", false, true},
		{"1", false, true},
		{"false", true, false},
		{"FALSE", true, false},
		{"0", true, false},
		// Unrecognized values fall back to the default, never silently enable
		{"off", true, true},
		{"off", false, false},
		{"disabled", true, true},
		{"yes", false, false},
	}
	for _, tt := range tests {
		t.Setenv("TEAMHQ_TEST_BOOL", tt.val)
		if got := getEnvBool("TEAMHQ_TEST_BOOL", tt.def); got != tt.want {
			t.Errorf("getEnvBool(%q, %v) = %v, want %v", tt.val, tt.def, got, tt.want)
		}
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("TEAMHQ_TEST_INT", "42")
	if got := getEnvInt("TEAMHQ_TEST_INT", 7); got != 42 {
		t.Errorf("getEnvInt = %d, want 42", got)
	}
	t.Setenv("TEAMHQ_TEST_INT", "not-a-number")
	if got := getEnvInt("TEAMHQ_TEST_INT", 7); got != 7 {
		t.Errorf("getEnvInt on garbage = %d, want default 7", got)
	}
}
