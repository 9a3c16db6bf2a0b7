package config

import "testing"

func TestTablePrefix(t *testing.T) {
	tests := []struct {
		name     string
		env      string
		override string
		want     string
	}{
		{name: "dev default", env: "dev", want: "dev_"},
		{name: "test environment", env: "test", want: "test_"},
		{name: "prod environment", env: "prod", want: "prod_"},
		{name: "unknown environment falls back to dev", env: "staging", want: "dev_"},
		{name: "explicit override wins", env: "dev", override: "ci_", want: "ci_"},
		{name: "override wins in prod too", env: "prod", override: "smoke_", want: "smoke_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ENVIRONMENT", tt.env)
			t.Setenv("TABLE_PREFIX", tt.override)

			cfg := Load()
			if cfg.TablePrefix != tt.want {
				t.Errorf("TablePrefix = %q, want %q", cfg.TablePrefix, tt.want)
			}
		})
	}
}
