package flagx

import (
	"os"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		want         []string
	}{
		{
			name:         "project flag with separate value",
			args:         []string{"-p", "divelog-prod", "-config", "divelog.json"},
			allowedFlags: []string{"-p", "-d", "-t"},
			want:         []string{"-p", "divelog-prod"},
		},
		{
			name:         "flag with equals",
			args:         []string{"-d=cache.db", "-config", "divelog.json"},
			allowedFlags: []string{"-p", "-d", "-t"},
			want:         []string{"-d=cache.db"},
		},
		{
			name:         "multiple allowed flags, order preserved",
			args:         []string{"-t", "30", "-p", "divelog-prod", "-x", "1"},
			allowedFlags: []string{"-p", "-d", "-t"},
			want:         []string{"-t", "30", "-p", "divelog-prod"},
		},
		{
			name:         "foreign flags filtered out",
			args:         []string{"-config", "divelog.json", "-c", "alt.json", "positional"},
			allowedFlags: []string{"-p", "-d", "-t"},
			want:         []string{},
		},
		{
			name:         "config flags for the json layer",
			args:         []string{"-p", "divelog-prod", "-config=divelog.json"},
			allowedFlags: []string{"-c", "-config"},
			want:         []string{"-config=divelog.json"},
		},
		{
			name:         "flag without value at end is kept as-is",
			args:         []string{"-d"},
			allowedFlags: []string{"-p", "-d", "-t"},
			want:         []string{"-d"},
		},
		{
			name:         "flag followed by another flag has no value",
			args:         []string{"-d", "-t", "30"},
			allowedFlags: []string{"-d", "-t"},
			want:         []string{"-d", "-t", "30"},
		},
		{
			name:         "dash-starting value survives in equals form",
			args:         []string{"-d=-weird.db"},
			allowedFlags: []string{"-d"},
			want:         []string{"-d=-weird.db"},
		},
		{
			name:         "empty args",
			args:         []string{},
			allowedFlags: []string{"-p", "-d", "-t"},
			want:         []string{},
		},
		{
			name:         "path value stays a single argument",
			args:         []string{"-d", "/home/diver/divelog-cache.db"},
			allowedFlags: []string{"-d"},
			want:         []string{"-d", "/home/diver/divelog-cache.db"},
		},
		{
			name:         "repeated flag preserved in order",
			args:         []string{"-p", "divelog-dev", "-p", "divelog-prod"},
			allowedFlags: []string{"-p"},
			want:         []string{"-p", "divelog-dev", "-p", "divelog-prod"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got := FilterArgs(tt.args, tt.allowedFlags)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("FilterArgs() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func Test_jsonConfigFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("short -c with value", func(t *testing.T) {
		os.Args = []string{"divelog", "-c", "/etc/divelog/short.json"}
		assert.Equal(t, "/etc/divelog/short.json", JsonConfigFlags())
	})

	t.Run("long -config with value", func(t *testing.T) {
		os.Args = []string{"divelog", "-config", "/etc/divelog/long.json"}
		assert.Equal(t, "/etc/divelog/long.json", JsonConfigFlags())
	})

	t.Run("cli layer flags are ignored", func(t *testing.T) {
		os.Args = []string{"divelog", "-p", "divelog-prod", "-t", "30"}
		assert.Empty(t, JsonConfigFlags())
	})

	t.Run("multiple flags, last wins", func(t *testing.T) {
		os.Args = []string{"divelog", "-c", "/etc/divelog/1.json", "-config", "/etc/divelog/2.json"}
		assert.Equal(t, "/etc/divelog/2.json", JsonConfigFlags())
	})
}
