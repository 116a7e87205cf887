package sheets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigConfigured(t *testing.T) {
	assert.False(t, Config{}.Configured())
	assert.False(t, Config{SpreadsheetID: "sheet-id"}.Configured())
	assert.False(t, Config{CredentialsFile: "credentials.json"}.Configured())
	assert.True(t, Config{SpreadsheetID: "sheet-id", CredentialsFile: "credentials.json"}.Configured())
}

func TestRangeForQuotesSheetName(t *testing.T) {
	c := New(Config{SheetName: "Master Data"})
	assert.Equal(t, "'Master Data'!A:Z", c.rangeFor("A:Z"))
	assert.Equal(t, "'Master Data'!A1", c.rangeFor("A1"))
}

func TestNewDefaultsSheetName(t *testing.T) {
	c := New(Config{SpreadsheetID: "sheet-id"})
	assert.Equal(t, "'Master Data'!A:A", c.rangeFor("A:A"))
}
