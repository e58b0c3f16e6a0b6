package middleware

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateBrief(t *testing.T) {
	assert.NoError(t, ValidateBrief("how is revenue doing"))
	assert.Error(t, ValidateBrief(""))
	assert.Error(t, ValidateBrief("   "))
	assert.Error(t, ValidateBrief(strings.Repeat("x", maxBriefLen+1)))
}

func TestValidateQuestion(t *testing.T) {
	assert.NoError(t, ValidateQuestion("what drove churn?"))
	assert.NoError(t, ValidateQuestion(""))
	assert.Error(t, ValidateQuestion(strings.Repeat("x", maxQuestionLen+1)))
}

func TestValidateInputDir(t *testing.T) {
	assert.NoError(t, ValidateInputDir("data/inputs"))
	assert.Error(t, ValidateInputDir(""))
	assert.Error(t, ValidateInputDir("../../../etc/passwd"))
	assert.Error(t, ValidateInputDir("/etc/ssl"))
	assert.Error(t, ValidateInputDir("/proc/self"))
	assert.Error(t, ValidateInputDir("data; rm -rf /"))
	assert.Error(t, ValidateInputDir("data/$(whoami)"))
}

func TestValidateTenantID(t *testing.T) {
	assert.NoError(t, ValidateTenantID("acme-corp_01"))
	assert.Error(t, ValidateTenantID(""))
	assert.Error(t, ValidateTenantID("acme corp"))
	assert.Error(t, ValidateTenantID(strings.Repeat("a", 65)))
}

func TestValidateRunID(t *testing.T) {
	assert.NoError(t, ValidateRunID("6ba7b810-9dad-11d1-80b4-00c04fd430c8"))
	assert.Error(t, ValidateRunID(""))
	assert.Error(t, ValidateRunID("not-a-uuid"))
	assert.Error(t, ValidateRunID("6BA7B810-9DAD-11D1-80B4-00C04FD430C8"))
}

func TestValidateLimit(t *testing.T) {
	assert.Equal(t, 20, ValidateLimit(0))
	assert.Equal(t, 20, ValidateLimit(-5))
	assert.Equal(t, 50, ValidateLimit(50))
	assert.Equal(t, 100, ValidateLimit(9999))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "hello", SanitizeString("  hello\x00  "))
	assert.Equal(t, "a\tb", SanitizeString("a\tb\x01\x02"))
}
