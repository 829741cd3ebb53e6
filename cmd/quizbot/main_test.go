package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDelimiter(t *testing.T) {
	tests := []struct {
		in   string
		want rune
	}{
		{"", ','},
		{",", ','},
		{";", ';'},
		{`\t`, '\t'},
		{"tab", '\t'},
		{"\t", '\t'},
		{"、", '、'},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseDelimiter(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := parseDelimiter(";;")
	assert.Error(t, err)
}

func TestCommandTree(t *testing.T) {
	root := newRootCmd()

	for _, path := range [][]string{{"serve"}, {"telegram"}, {"migrate"}, {"import", "csv"}, {"import", "json"}} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}

	imp, _, err := root.Find([]string{"import", "csv"})
	require.NoError(t, err)
	assert.NotNil(t, imp.InheritedFlags().Lookup("writerate"))
	assert.NotNil(t, imp.InheritedFlags().Lookup("driver"))
}

func TestMigrateMemoryStore(t *testing.T) {
	t.Chdir(t.TempDir())
	root := newRootCmd()
	root.SetArgs([]string{"migrate", "--driver", "memory"})

	require.NoError(t, root.Execute())
}
