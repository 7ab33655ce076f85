package email

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeWelcomeUsesTrialDays(t *testing.T) {
	_, html, text := ComposeWelcome("Luna Spa", "Olivia", 30)

	assert.Contains(t, html, "Your 30-day trial starts today")
	assert.Contains(t, text, "Your 30-day trial starts today")
	assert.NotContains(t, html, "14-day")
}

func TestComposeWelcomeEscapesNamesInHTML(t *testing.T) {
	owner := `<script>alert(1)</script>`
	business := `Bar & "Grill"`

	_, html, text := ComposeWelcome(business, owner, 14)

	require.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, html, "Bar &amp; &#34;Grill&#34;")

	// La versión texto plano va tal cual
	assert.True(t, strings.Contains(text, owner))
}
