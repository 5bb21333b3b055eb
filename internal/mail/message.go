// Package mail builds outgoing messages, queues them on a Redis stream and
// delivers them over SMTP.
package mail

import (
	"bytes"
	"fmt"
	"html/template"
)

type Message struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

var layout = template.Must(template.New("email").Parse(`<div class="email" style="
  border: 1px solid black;
  padding: 20px;
  font-family: sans-serif;
  line-height: 2;
  font-size: 20px;
">
  <h2>Hello There!</h2>
  <p>{{.Intro}}</p>
  <p><a href="{{.Link}}">{{.LinkText}}</a></p>
  <p>The shop team</p>
</div>`))

type layoutData struct {
	Intro    string
	Link     string
	LinkText string
}

// PasswordReset renders the reset email for the given link.
func PasswordReset(from, to, resetURL string) (Message, error) {
	var buf bytes.Buffer
	if err := layout.Execute(&buf, layoutData{
		Intro:    "Your password reset token is here!",
		Link:     resetURL,
		LinkText: "Click here to reset",
	}); err != nil {
		return Message{}, fmt.Errorf("render reset email: %w", err)
	}

	return Message{
		From:    from,
		To:      to,
		Subject: "Your password reset token",
		HTML:    buf.String(),
	}, nil
}
