package cmd

import (
	"testing"

	"inventory-manager/core/variant"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSelection(t *testing.T) {
	tests := []struct {
		name    string
		pairs   []string
		want    []variant.Choice
		wantErr bool
	}{
		{name: "Empty", want: []variant.Choice{}},
		{name: "Two Pairs", pairs: []string{"1=12", " 2 = 22 "}, want: []variant.Choice{{TypeID: 1, ValueID: 12}, {TypeID: 2, ValueID: 22}}},
		{name: "Missing Separator", pairs: []string{"1:12"}, wantErr: true},
		{name: "Bad Type", pairs: []string{"size=12"}, wantErr: true},
		{name: "Zero Value", pairs: []string{"1=0"}, wantErr: true},
		{name: "Name Only Keys", pairs: []string{"-1=-2"}, want: []variant.Choice{{TypeID: -1, ValueID: -2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSelection(tt.pairs)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCommandsRegistered(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range RootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"start", "schema", "resolve", "aggregate", "integrity", "snapshot"} {
		assert.True(t, names[want], want)
	}
}
