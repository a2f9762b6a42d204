package bot

import (
	"reflect"
	"testing"
)

func TestMatchCommand(t *testing.T) {
	tests := []struct {
		text string
		cmd  string
		want bool
	}{
		{text: "/start", cmd: "start", want: true},
		{text: "@MyBot /start", cmd: "start", want: true},
		{text: "@mybot /START", cmd: "start", want: true},
		{text: "  /start  ", cmd: "start", want: true},
		{text: "/starting", cmd: "start", want: false},
		{text: "@MyBot /starting", cmd: "start", want: false},
		{text: "@OtherBot /start", cmd: "start", want: false},
		{text: "start", cmd: "start", want: false},
		{text: "", cmd: "start", want: false},
		{text: "/ban 12345", cmd: "ban", want: true},
		{text: "@MyBot /ban 12345", cmd: "ban", want: true},
		{text: "/banhammer", cmd: "ban", want: false},
	}

	for _, tt := range tests {
		if got := matchCommand(tt.text, "MyBot", tt.cmd); got != tt.want {
			t.Fatalf("matchCommand(%q, %q) = %v, want %v", tt.text, tt.cmd, got, tt.want)
		}
	}
}

func TestCommandArgs(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{text: "/ban 12345", want: []string{"12345"}},
		{text: "@MyBot /ban 12345 now", want: []string{"12345", "now"}},
		{text: "/ban", want: nil},
		{text: "", want: nil},
	}

	for _, tt := range tests {
		got := commandArgs(tt.text, "MyBot")
		if len(got) == 0 && len(tt.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("commandArgs(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}
