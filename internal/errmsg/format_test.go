package errmsg

import (
	"errors"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		op   Op
		err  error
		want string
	}{
		{
			name: "nil error returns empty",
			op:   OpSongDelete,
			err:  nil,
			want: "",
		},
		{
			name: "formats op and error",
			op:   OpSongDelete,
			err:  errors.New("disk full"),
			want: "Failed to delete song: disk full",
		},
		{
			name: "playlist op",
			op:   OpPlaylistCreate,
			err:  errors.New("store closed"),
			want: "Failed to create playlist: store closed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Format(tt.op, tt.err)
			if got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatWith(t *testing.T) {
	err := errors.New("not found")

	got := FormatWith(OpPlaylistDelete, "Road Trip", err)
	want := "Failed to delete playlist 'Road Trip': not found"
	if got != want {
		t.Errorf("FormatWith() = %q, want %q", got, want)
	}

	// Empty context falls back to Format
	got = FormatWith(OpPlaylistDelete, "", err)
	want = "Failed to delete playlist: not found"
	if got != want {
		t.Errorf("FormatWith() with empty context = %q, want %q", got, want)
	}

	if FormatWith(OpPlaylistDelete, "x", nil) != "" {
		t.Error("FormatWith() with nil error should be empty")
	}
}
