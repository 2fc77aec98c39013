package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_Subcommands(t *testing.T) {
	root := newRootCommand()

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	assert.Subset(t, names, []string{"serve", "migrate", "report", "listen"})
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
}

func TestReportCommand_RejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown kind", []string{"report", "revenue"}},
		{"missing kind", []string{"report"}},
		{"bad start date", []string{"report", "patients", "--start", "01/02/2024"}},
		{"bad end date", []string{"report", "pharmacy", "--end", "yesterday"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := newRootCommand()
			var out bytes.Buffer
			root.SetOut(&out)
			root.SetErr(&out)
			root.SetArgs(tt.args)

			err := root.ExecuteContext(context.Background())
			require.Error(t, err)
			assert.Empty(t, out.String())
		})
	}
}
