package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseStyle_KnownKeys(t *testing.T) {
	require.Equal(t, StyleStandard, ParseStyle("default"))
	require.Equal(t, StyleStandard, ParseStyle("standard"))
	require.Equal(t, StyleBulletPoint, ParseStyle("bullets"))
	require.Equal(t, StyleBulletPoint, ParseStyle("bullet_point"))
	require.Equal(t, StyleInsight, ParseStyle("insights"))
	require.Equal(t, StyleDetailed, ParseStyle("detailed"))
}

func TestParseStyle_UnknownFallsBackToStandard(t *testing.T) {
	for _, key := range []string{"", "haiku", "DEFAULTS", "bullet-point", "???"} {
		require.Equal(t, StyleStandard, ParseStyle(key), "key=%q", key)
	}
}

func TestSelect_SharedSystemDirective(t *testing.T) {
	for _, style := range []Style{StyleStandard, StyleBulletPoint, StyleInsight, StyleDetailed} {
		system, instruction := Select(style)
		require.Equal(t, SystemDirective, system)
		require.NotEmpty(t, instruction)
	}
	require.Contains(t, SystemDirective, RefusalLine)
	require.Contains(t, SystemDirective, "Markdown")
}

func TestSelect_TemplatesAreDistinct(t *testing.T) {
	seen := map[string]Style{}
	for _, style := range []Style{StyleStandard, StyleBulletPoint, StyleInsight, StyleDetailed} {
		_, instruction := Select(style)
		prev, dup := seen[instruction]
		require.False(t, dup, "%s and %s share a template", prev, style)
		seen[instruction] = style
	}

	_, bullets := Select(StyleBulletPoint)
	require.Contains(t, bullets, "Bullet Point Summary")
	_, insight := Select(StyleInsight)
	require.Contains(t, insight, "Core Themes")
	_, detailed := Select(StyleDetailed)
	require.Contains(t, detailed, "Comprehensive Detailed Summary")
}

func TestBuildUserMessage_DelimitsDocumentText(t *testing.T) {
	_, instruction := Select(StyleStandard)
	msg := BuildUserMessage(instruction, "body text")
	require.True(t, strings.HasPrefix(msg, instruction))
	require.Contains(t, msg, "**DOCUMENT TEXT:**\nbody text")
}
