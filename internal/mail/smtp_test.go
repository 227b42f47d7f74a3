package mail

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessage(t *testing.T) {
	msg := buildMessage("shop@smartbuy.dev", "eva@example.com", "Your Smartbuy password", "hello")

	headers, body, found := strings.Cut(msg, "\r\n\r\n")
	require.True(t, found, "headers and body must be separated by a blank line")

	assert.Contains(t, headers, "From: shop@smartbuy.dev\r\n")
	assert.Contains(t, headers, "To: eva@example.com\r\n")
	assert.Contains(t, headers, "Subject: Your Smartbuy password\r\n")
	assert.Contains(t, headers, "Content-Type: text/plain; charset=UTF-8")
	assert.Equal(t, "hello\r\n", body)
}

func TestNewSMTPMailerDefaultsFromToUser(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{Host: "smtp.example.com", Port: 587, User: "relay@example.com"})
	sm, ok := m.(*smtpMailer)
	require.True(t, ok)
	assert.Equal(t, "relay@example.com", sm.cfg.From)
}
