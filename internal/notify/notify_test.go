package notify

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestArgs(t *testing.T) {
	args := Args(Notification{
		Title:   "Title",
		Body:    "Body",
		Urgency: UrgencyCritical,
		Timeout: 1500 * time.Millisecond,
		Icon:    "alarm-symbolic",
	})
	assert.Equal(t, []string{
		"-u", "critical", "-t", "1500", "-i", "alarm-symbolic",
		"-a", "temporizador", "Title", "Body",
	}, args)

	assert.Equal(t, []string{"-u", "normal", "-a", "temporizador", "Only"}, Args(Notification{Title: "Only"}))
}

func TestSendTimerComplete(t *testing.T) {
	var gotName string
	var gotArgs []string
	n := NewNotifier()
	n.run = func(name string, args ...string) error {
		gotName, gotArgs = name, args
		return nil
	}

	assert.NoError(t, n.SendTimerComplete("00:05:00"))
	assert.Equal(t, "notify-send", gotName)
	assert.Equal(t, "O tempo acabou.", gotArgs[len(gotArgs)-2])
	assert.Equal(t, "Contagem concluída (00:05:00)", gotArgs[len(gotArgs)-1])
}

func TestDisabledNotifierSendsNothing(t *testing.T) {
	n := NewNotifier()
	n.run = func(string, ...string) error { return errors.New("should not run") }
	n.SetEnabled(false)

	assert.False(t, n.IsEnabled())
	assert.NoError(t, n.SendSimple("a", "b"))
}
