package mail

import "log"

type logMailer struct{}

// NewLogMailer writes outgoing mail to the process log. Used in dev
// when no SMTP host is configured, so signup passwords stay visible.
func NewLogMailer() Mailer {
	return logMailer{}
}

func (logMailer) Send(to, subject, body string) error {
	log.Printf("MAIL\tto=%s subject=%q\n%s", to, subject, body)
	return nil
}
