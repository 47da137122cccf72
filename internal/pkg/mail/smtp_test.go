package mail

import (
	"context"
	"net/smtp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMTP_Send(t *testing.T) {
	s, err := NewSMTP(SMTPConfig{Host: "localhost", Port: 2525, From: "no-reply@mediflow.local"})
	require.NoError(t, err)

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	s.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	err = s.Send(context.Background(), Message{
		To:       []string{"asha@example.com"},
		Subject:  "Your Mediflow code",
		TextBody: "Your code is 123456",
	})
	require.NoError(t, err)

	assert.Equal(t, "localhost:2525", gotAddr)
	assert.Equal(t, "no-reply@mediflow.local", gotFrom)
	assert.Equal(t, []string{"asha@example.com"}, gotTo)
	raw := string(gotMsg)
	assert.Contains(t, raw, "To: asha@example.com\r\n")
	assert.Contains(t, raw, "Content-Type: text/plain; charset=UTF-8\r\n\r\nYour code is 123456")
}

func TestSMTP_Multipart(t *testing.T) {
	raw := string(Message{To: []string{"a@b.co"}, TextBody: "plain", HTMLBody: "<b>html</b>"}.render("x@y.z"))

	assert.Contains(t, raw, "multipart/alternative; boundary=mediflow-")
	assert.Equal(t, 2, strings.Count(raw, "charset=UTF-8"))
	assert.True(t, strings.HasSuffix(raw, "--\r\n"))
}

func TestSMTP_Errors(t *testing.T) {
	_, err := NewSMTP(SMTPConfig{Host: "localhost"})
	assert.ErrorIs(t, err, ErrSMTPHostPortRequired)

	s, err := NewSMTP(SMTPConfig{Host: "localhost", Port: 25})
	require.NoError(t, err)

	assert.ErrorIs(t, s.Send(context.Background(), Message{}), ErrSMTPNoRecipients)
	assert.ErrorIs(t, s.Send(context.Background(), Message{To: []string{"a@b.co"}}), ErrSMTPNoSender)
}
