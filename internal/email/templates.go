package email

import (
	"fmt"
	"html"
	"time"

	"teamup/internal/config"
	"teamup/internal/models"
	"teamup/internal/wordfilter"
)

// Templates provides email template generation.
type Templates struct {
	cfg *config.Config
}

// NewTemplates creates a new templates instance.
func NewTemplates(cfg *config.Config) *Templates {
	return &Templates{cfg: cfg}
}

const timeLayout = "Mon, 02 Jan 2006 15:04 MST"

func formatTime(t time.Time) string {
	return t.Format(timeLayout)
}

// baseHTML wraps content in a consistent HTML email template.
func (t *Templates) baseHTML(title, content string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #0f766e; color: white; padding: 20px; text-align: center; border-radius: 8px 8px 0 0; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { background: #f9fafb; padding: 20px; border: 1px solid #e5e7eb; }
        .footer { background: #f3f4f6; padding: 15px; text-align: center; font-size: 12px; color: #6b7280; border-radius: 0 0 8px 8px; border: 1px solid #e5e7eb; border-top: none; }
        .button { display: inline-block; background: #0f766e; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; margin: 10px 0; }
        .info-box { background: white; border: 1px solid #e5e7eb; border-radius: 6px; padding: 15px; margin: 15px 0; }
        .label { font-weight: 600; color: #374151; }
        .success { color: #059669; }
        .warning { color: #d97706; }
        .error { color: #dc2626; }
    </style>
</head>
<body>
    <div class="header">
        <h1>%s</h1>
    </div>
    <div class="content">
        %s
    </div>
    <div class="footer">
        <p>This email was sent by %s</p>
        <p><a href="%s">%s</a></p>
    </div>
</body>
</html>`, html.EscapeString(title), html.EscapeString(t.cfg.SiteTitle), content, html.EscapeString(t.cfg.SiteTitle), t.cfg.BaseURL, t.cfg.BaseURL)
}

func (t *Templates) signature() string {
	return fmt.Sprintf("\n\n--\n%s\n%s", t.cfg.SiteTitle, t.cfg.BaseURL)
}

// EventSubmittedForReview generates email for moderators when the content
// filter queued an event.
func (t *Templates) EventSubmittedForReview(event *models.Event, author *models.User, verdict wordfilter.Verdict) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("[%s] Event pending review: %s", t.cfg.SiteTitle, event.Name)

	content := fmt.Sprintf(`
        <p>A new event contains words that need a moderator's look before it goes live.</p>

        <div class="info-box">
            <p><span class="label">Name:</span> %s</p>
            <p><span class="label">When:</span> %s</p>
            <p><span class="label">Where:</span> %s</p>
            <p><span class="label">Description:</span> %s</p>
            <p><span class="label">Flagged:</span> <span class="warning">%s</span> in %s</p>
            <p><span class="label">Submitted by:</span> %s (%s)</p>
        </div>

        <p style="text-align: center;">
            <a href="%s/moderation" class="button">Review in Dashboard</a>
        </p>
    `,
		html.EscapeString(event.Name),
		formatTime(event.Time),
		html.EscapeString(event.Place),
		html.EscapeString(event.Description),
		html.EscapeString(verdict.Word),
		verdict.Field,
		html.EscapeString(author.Name),
		html.EscapeString(author.Email),
		t.cfg.BaseURL,
	)

	htmlBody = t.baseHTML(subject, content)

	textBody = fmt.Sprintf(`Event pending review

Name: %s
When: %s
Where: %s
Description: %s
Flagged: %q in %s
Submitted by: %s (%s)

Review at: %s/moderation`,
		event.Name,
		formatTime(event.Time),
		event.Place,
		event.Description,
		verdict.Word,
		verdict.Field,
		author.Name,
		author.Email,
		t.cfg.BaseURL,
	) + t.signature()

	return
}

// EventApproved generates email for the author when a moderator publishes
// their event.
func (t *Templates) EventApproved(event *models.Event, moderator *models.User) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("[%s] Your event '%s' is published", t.cfg.SiteTitle, event.Name)
	link := fmt.Sprintf("%s/events/%s", t.cfg.BaseURL, event.ID)

	content := fmt.Sprintf(`
        <p>Good news! Your event passed review and is now visible to everyone.</p>

        <div class="info-box">
            <p><span class="label">Name:</span> %s</p>
            <p><span class="label">When:</span> %s</p>
            <p><span class="label">Status:</span> <span class="success">Published</span></p>
            <p><span class="label">Approved by:</span> %s</p>
        </div>

        <p style="text-align: center;">
            <a href="%s" class="button">Open event</a>
        </p>
    `,
		html.EscapeString(event.Name),
		formatTime(event.Time),
		html.EscapeString(moderator.Name),
		link,
	)

	htmlBody = t.baseHTML(subject, content)

	textBody = fmt.Sprintf(`Your event is published

Name: %s
When: %s
Status: Published
Approved by: %s

Open it at: %s`,
		event.Name,
		formatTime(event.Time),
		moderator.Name,
		link,
	) + t.signature()

	return
}

// EventRejected generates email for the author when a moderator rejects
// their event.
func (t *Templates) EventRejected(event *models.Event, moderator *models.User, reason string) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("[%s] Your event '%s' was not approved", t.cfg.SiteTitle, event.Name)

	reasonHTML := ""
	reasonText := ""
	if reason != "" {
		reasonHTML = fmt.Sprintf(`<p><span class="label">Reason:</span> %s</p>`, html.EscapeString(reason))
		reasonText = fmt.Sprintf("\nReason: %s", reason)
	}

	content := fmt.Sprintf(`
        <p>Unfortunately, your event was not approved.</p>

        <div class="info-box">
            <p><span class="label">Name:</span> %s</p>
            <p><span class="label">Status:</span> <span class="error">Rejected</span></p>
            <p><span class="label">Reviewed by:</span> %s</p>
            %s
        </div>

        <p>You can edit the event and submit it again.</p>
    `,
		html.EscapeString(event.Name),
		html.EscapeString(moderator.Name),
		reasonHTML,
	)

	htmlBody = t.baseHTML(subject, content)

	textBody = fmt.Sprintf(`Your event was not approved

Name: %s
Status: Rejected
Reviewed by: %s%s

You can edit the event and submit it again.`,
		event.Name,
		moderator.Name,
		reasonText,
	) + t.signature()

	return
}
