// SPDX-License-Identifier: MPL-2.0

package proc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCaptureMode_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mode    CaptureMode
		wantErr bool
	}{
		{name: "none", mode: CaptureNone, wantErr: false},
		{name: "stdout", mode: CaptureStdout, wantErr: false},
		{name: "stderr", mode: CaptureStderr, wantErr: false},
		{name: "combined", mode: CaptureCombined, wantErr: false},
		{name: "unknown", mode: CaptureMode("both"), wantErr: true},
		{name: "mixed case", mode: CaptureMode("Stdout"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.mode.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCaptureMode)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCaptureMode_Capturing(t *testing.T) {
	t.Parallel()

	assert.False(t, CaptureNone.Capturing())
	assert.True(t, CaptureStdout.Capturing())
	assert.True(t, CaptureStderr.Capturing())
	assert.True(t, CaptureCombined.Capturing())
}

func TestCaptureMode_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "none", CaptureNone.String())
	assert.Equal(t, "stdout", CaptureStdout.String())
	assert.Equal(t, "combined", CaptureCombined.String())
}
