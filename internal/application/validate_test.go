package application_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bbpr/internal/application"
	"bbpr/internal/domain/model"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{raw: "42", want: 42},
		{raw: " 7 ", want: 7},
		{raw: "0", wantErr: true},
		{raw: "-5", wantErr: true},
		{raw: "abc", wantErr: true},
		{raw: "", wantErr: true},
		{raw: "1.5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := application.ParseID("PR", tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, application.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePRState(t *testing.T) {
	state, err := application.ParsePRState("merged")
	require.NoError(t, err)
	assert.Equal(t, model.PRStateMerged, state)

	state, err = application.ParsePRState(" OPEN ")
	require.NoError(t, err)
	assert.Equal(t, model.PRStateOpen, state)

	_, err = application.ParsePRState("closed")
	require.ErrorIs(t, err, application.ErrInvalidInput)
}
