package contact

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wdp365/siteapi/internal/apperr"
	"github.com/wdp365/siteapi/internal/domain"
	"github.com/wdp365/siteapi/internal/notify"
	"github.com/wdp365/siteapi/internal/ratelimit"
	"github.com/wdp365/siteapi/internal/repo"
)

const (
	MaxMessageLength = 5000
	NotifyTimeout    = 10 * time.Second

	Acknowledgement = "Thank you! Your message has been sent. We'll get back to you within 24-48 hours."

	msgRateLimited       = "Too many requests. Please try again in 15 minutes."
	msgMissingFields     = "Name, email, and message are required."
	msgBadEmail          = "Invalid email address format."
	msgTooLong           = "Message is too long (maximum 5000 characters)."
	msgRecaptchaRequired = "reCAPTCHA verification required."
	msgRecaptchaFailed   = "Spam detection triggered. Please ensure you are human and try again."
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s]+$`)

type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type Service struct {
	Logger   *zap.Logger
	Store    repo.ContactStore
	Limiter  ratelimit.Limiter
	Verifier Verifier        // nil disables reCAPTCHA
	Notifier notify.Notifier // nil disables notifications
	Now      func() time.Time

	pending sync.WaitGroup
}

func NewService(l *zap.Logger, store repo.ContactStore, lim ratelimit.Limiter) *Service {
	return &Service{Logger: l, Store: store, Limiter: lim, Now: time.Now}
}

// Admit consumes one slot of clientIP's quota. The HTTP layer calls it
// directly for bodies that cannot be decoded, so they are counted too.
func (s *Service) Admit(ctx context.Context, clientIP string) error {
	if !s.Limiter.Allow(ctx, clientIP) {
		s.Logger.Warn("contact_rate_limited", zap.String("ip", clientIP))
		return apperr.RateLimited(msgRateLimited)
	}
	return nil
}

// Submit runs the intake pipeline for one form post. Checks run in a fixed
// order: rate limit, honeypot, field validation, reCAPTCHA, then persistence.
func (s *Service) Submit(ctx context.Context, form domain.ContactForm, clientIP string) (Result, error) {
	if err := s.Admit(ctx, clientIP); err != nil {
		return Result{}, err
	}

	// Bots get the normal acknowledgement so the trap stays invisible.
	if form.Honeypot != "" || form.WebsiteURL != "" {
		s.Logger.Warn("contact_honeypot", zap.String("ip", clientIP))
		return Result{Success: true, Message: Acknowledgement}, nil
	}

	form = normalize(form)
	if form.Name == "" || form.Email == "" || form.Message == "" {
		return Result{}, apperr.Invalid(msgMissingFields)
	}
	if !ValidEmail(form.Email) {
		return Result{}, apperr.Invalid(msgBadEmail)
	}
	if utf8.RuneCountInString(form.Message) > MaxMessageLength {
		return Result{}, apperr.Invalid(msgTooLong)
	}

	if s.Verifier != nil {
		if form.RecaptchaToken == "" {
			return Result{}, apperr.Invalid(msgRecaptchaRequired)
		}
		v, err := s.Verifier.Verify(ctx, form.RecaptchaToken, clientIP)
		if err != nil {
			s.Logger.Warn("contact_recaptcha_error", zap.String("ip", clientIP), zap.Error(err))
			return Result{}, apperr.Invalid(msgRecaptchaFailed)
		}
		if !v.Success {
			s.Logger.Warn("contact_recaptcha_rejected",
				zap.String("ip", clientIP),
				zap.Float64("score", v.Score),
				zap.Strings("codes", v.Codes),
			)
			return Result{}, apperr.Invalid(msgRecaptchaFailed)
		}
	}

	sub := &domain.ContactSubmission{
		ID:        uuid.NewString(),
		Name:      form.Name,
		Email:     form.Email,
		Company:   form.Company,
		Phone:     form.Phone,
		Service:   form.Service,
		Budget:    form.Budget,
		Timeline:  form.Timeline,
		Message:   form.Message,
		Timestamp: s.Now().UTC(),
		IPAddress: clientIP,
	}
	if err := s.Store.InsertContact(ctx, sub); err != nil {
		if apperr.KindOf(err) == apperr.Unknown {
			err = apperr.StorageFailure("could not save your message", err)
		}
		return Result{}, err
	}
	s.Logger.Info("contact_saved", zap.String("id", sub.ID), zap.String("ip", clientIP))

	if s.Notifier != nil {
		s.notify(ctx, sub)
	}

	return Result{Success: true, Message: Acknowledgement}, nil
}

// notify runs in the background on a context detached from the request and
// bounded by NotifyTimeout.
func (s *Service) notify(ctx context.Context, sub *domain.ContactSubmission) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), NotifyTimeout)
		defer cancel()
		if err := s.Notifier.Notify(nctx, sub); err != nil {
			s.Logger.Warn("contact_notify_error", zap.String("id", sub.ID), zap.Error(err))
		}
	}()
}

// Wait blocks until background notifications have finished.
func (s *Service) Wait() { s.pending.Wait() }

// List returns every stored submission in store order.
func (s *Service) List(ctx context.Context) ([]domain.ContactSubmission, error) {
	return s.Store.ListContacts(ctx)
}

func ValidEmail(email string) bool { return emailRe.MatchString(email) }

func normalize(f domain.ContactForm) domain.ContactForm {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Message = strings.TrimSpace(f.Message)
	f.Company = optional(f.Company)
	f.Phone = optional(f.Phone)
	f.Service = optional(f.Service)
	f.Budget = optional(f.Budget)
	f.Timeline = optional(f.Timeline)
	f.RecaptchaToken = strings.TrimSpace(f.RecaptchaToken)
	return f
}

func optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
