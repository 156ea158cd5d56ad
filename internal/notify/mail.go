package notify

import (
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"log/slog"
	"strings"
	"time"

	"github.com/wneessen/go-mail"

	"flat_watch/internal/model"
)

//go:embed summary.gohtml
var summaryHTML string

var summaryTmpl = template.Must(template.New("summary").Parse(summaryHTML))

// EmailConfig holds SMTP settings for the summary email.
type EmailConfig struct {
	Host     string
	Port     int
	From     string
	Password string
	To       string
}

// Configured reports whether credentials are present. Without them the
// mailer logs the summary instead of sending, so a run on a machine
// without secrets still works.
func (c EmailConfig) Configured() bool {
	return c.From != "" && c.Password != ""
}

// Mailer sends the HTML summary email over SMTP.
type Mailer struct {
	cfg EmailConfig
	log *slog.Logger
}

// NewMailer creates a Mailer.
func NewMailer(cfg EmailConfig, log *slog.Logger) *Mailer {
	return &Mailer{cfg: cfg, log: log}
}

// SendSummary renders and sends the summary email.
func (m *Mailer) SendSummary(ctx context.Context, listings []model.Listing) error {
	if !m.cfg.Configured() {
		m.log.Info("email credentials not configured, logging summary instead")
		for _, l := range listings {
			m.log.Info("new listing", "source", l.Source, "title", l.Title, "url", l.URL)
		}
		return nil
	}

	body, err := RenderSummary(listings, time.Now())
	if err != nil {
		return fmt.Errorf("render summary: %w", err)
	}

	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return fmt.Errorf("set from address: %w", err)
	}
	if err := msg.To(m.cfg.To); err != nil {
		return fmt.Errorf("set to address: %w", err)
	}
	msg.Subject(fmt.Sprintf("flat_watch: %d new apartments in Wrocław", len(listings)))
	msg.SetBodyString(mail.TypeTextHTML, body)

	client, err := mail.NewClient(m.cfg.Host,
		mail.WithPort(m.cfg.Port),
		mail.WithSSL(),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.From),
		mail.WithPassword(m.cfg.Password),
	)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	m.log.Info("summary email sent", "to", m.cfg.To, "listings", len(listings))
	return nil
}

type summaryData struct {
	Count    int
	Date     string
	Listings []listingView
}

type listingView struct {
	Title      string
	URL        string
	Location   string
	Price      string
	Area       string
	Rooms      string
	PricePerM2 string
	Floor      string
	Elevator   string
	Balcony    string
}

// RenderSummary renders the HTML body for a set of listings.
func RenderSummary(listings []model.Listing, now time.Time) (string, error) {
	data := summaryData{
		Count: len(listings),
		Date:  now.Format("2006-01-02 15:04"),
	}
	for _, l := range listings {
		data.Listings = append(data.Listings, listingView{
			Title:      l.Title,
			URL:        l.URL,
			Location:   l.Location,
			Price:      formatPrice(l.Price),
			Area:       formatArea(l.Area),
			Rooms:      formatRooms(l.Rooms),
			PricePerM2: formatPricePerM2(l.PricePerM2),
			Floor:      formatFloor(l.Floor),
			Elevator:   amenityMark(l, model.AmenityElevator),
			Balcony:    amenityMark(l, model.AmenityBalcony),
		})
	}

	var b strings.Builder
	if err := summaryTmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}
	return b.String(), nil
}
