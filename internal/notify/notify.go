package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/multierr"

	"github.com/wdp365/siteapi/internal/domain"
)

// Notifier tells the site owner about a new contact submission.
type Notifier interface {
	Notify(ctx context.Context, c *domain.ContactSubmission) error
}

// Multi fans out to every non-nil notifier and returns all failures combined.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, c *domain.ContactSubmission) error {
	var err error
	for _, n := range m {
		if n == nil {
			continue
		}
		err = multierr.Append(err, n.Notify(ctx, c))
	}
	return err
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

// Summary renders a submission as plain text lines.
func Summary(c *domain.ContactSubmission) (title, text string) {
	title = "New contact form submission from " + c.Name
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\nEmail: %s\n", c.Name, c.Email)
	fmt.Fprintf(&b, "Company: %s\nPhone: %s\n", orDash(c.Company), orDash(c.Phone))
	fmt.Fprintf(&b, "Service: %s\nBudget: %s\nTimeline: %s\n", orDash(c.Service), orDash(c.Budget), orDash(c.Timeline))
	fmt.Fprintf(&b, "IP: %s\nAt: %s\n\n%s", c.IPAddress, c.Timestamp.Format(time.RFC3339), c.Message)
	return title, b.String()
}
