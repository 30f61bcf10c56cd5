package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMicropostValidate(t *testing.T) {
	m := &Micropost{Content: "hello", UserID: 1}
	assert.NoError(t, m.Validate())

	m.Content = ""
	assert.ErrorIs(t, m.Validate(), ErrContentRequired)

	m.Content = strings.Repeat("a", 141)
	assert.ErrorIs(t, m.Validate(), ErrContentTooLong)

	m.Content = strings.Repeat("a", 140)
	assert.NoError(t, m.Validate())

	// the 140 limit is characters, not bytes
	m.Content = strings.Repeat("あ", 140)
	assert.NoError(t, m.Validate())

	m.Content = strings.Repeat("あ", 141)
	assert.ErrorIs(t, m.Validate(), ErrContentTooLong)
}
