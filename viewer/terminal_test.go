package viewer

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"fortio.org/terminal"
)

func TestLoopExit(t *testing.T) {
	ioErr := errors.New("broken pipe")
	tests := []struct {
		name    string
		err     error
		wantErr bool
	}{
		{"quit key", nil, false},
		{"ctrl-c", terminal.ErrUserInterrupt, false},
		{"signal", terminal.ErrSignal, false},
		{"context done", terminal.NewErrInterruptedWithErr("context done", context.Canceled), false},
		{"wrapped interrupt", fmt.Errorf("tick: %w", terminal.ErrUserInterrupt), false},
		{"read failure", ioErr, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := loopExit(tt.err)
			if (err != nil) != tt.wantErr {
				t.Fatalf("loopExit(%v) = %v", tt.err, err)
			}
			if tt.wantErr && !errors.Is(err, ioErr) {
				t.Errorf("error %v does not wrap the cause", err)
			}
		})
	}
}
