package notifier

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/pfrederiksen/showlist-watch/internal/mailgun"
	"github.com/pfrederiksen/showlist-watch/internal/show"
)

var htmlBody = template.Must(template.New("shows").Parse(`<html>
<body>
<h2>{{.Heading}}</h2>
<ul>
{{- range .Shows}}
<li><strong>{{.DisplayDate}}</strong> - {{if .Link}}<a href="{{.Link}}">{{.Title}}</a>{{else}}{{.Title}}{{end}}{{if .Venue}} @ {{.Venue}}{{end}}</li>
{{- end}}
</ul>
</body>
</html>
`))

// FormatSubject returns the email subject for count new shows
func FormatSubject(count int) string {
	return fmt.Sprintf("%d new show%s listed", count, pluralize(count))
}

// FormatHTML renders the HTML body. All show text is escaped.
func FormatHTML(shows []show.Show) (string, error) {
	var b strings.Builder
	data := struct {
		Heading string
		Shows   []show.Show
	}{
		Heading: FormatSubject(len(shows)),
		Shows:   shows,
	}
	if err := htmlBody.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

// FormatText renders the plain-text alternative
func FormatText(shows []show.Show) string {
	var msg strings.Builder

	msg.WriteString(FormatSubject(len(shows)))
	msg.WriteString("\n\n")

	for _, s := range shows {
		msg.WriteString(s.CanonicalLine())
		msg.WriteString("\n")
		if s.Link != "" {
			msg.WriteString(fmt.Sprintf("  %s\n", s.Link))
		}
	}

	return msg.String()
}

// BuildMessage assembles the email for shows
func BuildMessage(from string, to []string, shows []show.Show) (mailgun.Message, error) {
	body, err := FormatHTML(shows)
	if err != nil {
		return mailgun.Message{}, err
	}
	return mailgun.Message{
		From:    from,
		To:      to,
		Subject: FormatSubject(len(shows)),
		HTML:    body,
		Text:    FormatText(shows),
	}, nil
}

func pluralize(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}
