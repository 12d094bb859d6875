package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [query]", searchCmd.Use)
}

func TestSearchCmd_RequiresExactlyOneArg(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"search"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestSearchCmd_HasTopKFlag(t *testing.T) {
	flag := searchCmd.Flags().Lookup("top-k")
	require.NotNil(t, flag, "top-k flag should exist")
	assert.Equal(t, "n", flag.Shorthand)
	assert.Equal(t, "5", flag.DefValue)
}

func TestSearchCmd_ExecutesWithQuery(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "tronox revenue"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Results:")
	assert.Contains(t, buf.String(), "Tronox")
}

func TestSearchCmd_ForwardsFilters(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	retriever := retrieverService.(*mockRetriever)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "--company", "Tronox", "--table", "cap_table", "-n", "3", "debt"})
	defer func() {
		rootCmd.SetArgs(nil)
		searchCompany = ""
		searchTable = ""
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Equal(t, "Tronox", retriever.lastOpts.Company)
	assert.Equal(t, "cap_table", retriever.lastOpts.Table)
	assert.Equal(t, 3, retriever.lastOpts.K)
}

func TestSearchCmd_JSONOutput(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "--json", "tronox revenue"})
	defer func() {
		rootCmd.SetArgs(nil)
		searchJSON = false
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "\"doc_id\"")
	assert.Contains(t, buf.String(), "\"company_name\"")
}
