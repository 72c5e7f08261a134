package services

import (
	"context"
	"fmt"
	"html"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yeuxouverts/shop/app/forms"
	"github.com/yeuxouverts/shop/pkg/logger"
	"github.com/yeuxouverts/shop/pkg/mail"
	"github.com/yeuxouverts/shop/pkg/metrics"
)

// ContactSubject is the fixed subject of every contact email.
const ContactSubject = "Nuevo Mensaje de yeux-ouverts.com 👁️"

const maxStripPasses = 8

// ContactService forwards contact-form submissions to the shop's inbox.
type ContactService struct {
	mailer mail.Mailer
	inbox  string
	policy *bluemonday.Policy
}

func NewContactService(mailer mail.Mailer, inbox string) *ContactService {
	return &ContactService{
		mailer: mailer,
		inbox:  inbox,
		policy: bluemonday.StrictPolicy(),
	}
}

// Body formats a submission as the plain-text email body with all markup
// stripped.
func (s *ContactService) Body(f *forms.ContactForm) string {
	raw := fmt.Sprintf("Nombre: %s\nEmail: %s\nTeléfono: %s\nMensaje: %s\n",
		f.Name, f.Email, f.Phone, f.Message)
	return s.stripText(raw)
}

// stripText removes markup and decodes entities until nothing changes, so
// entity-encoded tags typed by the visitor are stripped as well.
func (s *ContactService) stripText(text string) string {
	for i := 0; i < maxStripPasses; i++ {
		// StrictPolicy escapes what it keeps; the body is text, not HTML.
		next := html.UnescapeString(s.policy.Sanitize(text))
		if next == text {
			return text
		}
		text = next
	}
	// Still changing: keep whatever markup is left escaped.
	return s.policy.Sanitize(text)
}

// Send emails the submission once. Failures are returned, never retried.
func (s *ContactService) Send(ctx context.Context, f *forms.ContactForm) error {
	msg := mail.To(s.inbox).Subject(ContactSubject).Text(s.Body(f))

	err := s.mailer.Send(ctx, msg)
	metrics.RecordMail(err)
	if err != nil {
		return fmt.Errorf("contact: send: %w", err)
	}

	logger.WithCtx(ctx).Info("contact message sent", "from", f.Email)
	return nil
}
