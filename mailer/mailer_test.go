package mailer

import (
	"net/smtp"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockanalyze/config"
)

func testConfig() config.SMTPConfig {
	return config.SMTPConfig{
		Server:   "smtp.example.com",
		Port:     587,
		Sender:   "reports@example.com",
		Password: "hunter2",
	}
}

type capturedMail struct {
	addr string
	from string
	to   []string
	msg  string
}

func newCapturingMailer(t *testing.T) (*Mailer, *capturedMail) {
	t.Helper()
	m, err := New(testConfig())
	require.NoError(t, err)

	got := &capturedMail{}
	m.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		got.addr, got.from, got.to, got.msg = addr, from, to, string(msg)
		return nil
	}
	return m, got
}

func TestNewRequiresCredentials(t *testing.T) {
	cfg := testConfig()
	cfg.Password = ""
	_, err := New(cfg)
	assert.Error(t, err)
}

func TestReadEmailList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "email_list.txt")
	require.NoError(t, os.WriteFile(path, []byte(
		"alice@example.com, bob@example.com\ncarol@example.com\n"), 0o644))

	to, bcc, err := ReadEmailList(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice@example.com", "bob@example.com"}, to)
	assert.Equal(t, []string{"carol@example.com"}, bcc)
}

func TestReadEmailListNoBCC(t *testing.T) {
	path := filepath.Join(t.TempDir(), "email_list.txt")
	require.NoError(t, os.WriteFile(path, []byte("alice@example.com\n"), 0o644))

	to, bcc, err := ReadEmailList(path)
	require.NoError(t, err)
	assert.Len(t, to, 1)
	assert.Empty(t, bcc)
}

func TestSendBuildsMessage(t *testing.T) {
	m, got := newCapturingMailer(t)

	err := m.SendReport([]string{"alice@example.com"}, []string{"carol@example.com"},
		"2024-03-22", "<html><body>hi</body></html>")
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com:587", got.addr)
	assert.Equal(t, "reports@example.com", got.from)
	// BCC rides the envelope but stays out of the headers.
	assert.Equal(t, []string{"alice@example.com", "carol@example.com"}, got.to)
	assert.Contains(t, got.msg, "Subject: Market Analysis Report (2024-03-22)")
	assert.Contains(t, got.msg, "To: alice@example.com")
	assert.NotContains(t, got.msg, "carol@example.com\r\n")
	assert.Contains(t, got.msg, "Content-Type: text/html")
}

func TestSendNoRecipients(t *testing.T) {
	m, _ := newCapturingMailer(t)
	assert.Error(t, m.Send(nil, nil, "s", "b"))
}

func TestSendErrorAlert(t *testing.T) {
	m, got := newCapturingMailer(t)
	require.NoError(t, m.SendErrorAlert([]string{"ops@example.com"}, assert.AnError))
	assert.Contains(t, got.msg, "Subject: Market analysis report FAILED")
	assert.Contains(t, got.msg, assert.AnError.Error())
}
