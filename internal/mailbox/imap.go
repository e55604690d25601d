package mailbox

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
)

// Session is an open, authenticated mailbox with INBOX selected.
type Session interface {
	// SearchUnread returns the UIDs of messages without the \Seen flag.
	SearchUnread(ctx context.Context) ([]uint32, error)
	// Fetch returns the raw message without marking it read.
	Fetch(ctx context.Context, uid uint32) ([]byte, error)
	MarkRead(ctx context.Context, uid uint32) error
	Close() error
}

// Dialer opens mailbox sessions.
type Dialer interface {
	Dial(ctx context.Context) (Session, error)
}

// IMAPConfig holds inbound mailbox settings.
type IMAPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Timeout  time.Duration
}

// IMAPDialer connects over implicit TLS.
type IMAPDialer struct {
	cfg IMAPConfig
}

// NewIMAPDialer creates a new IMAP dialer.
func NewIMAPDialer(cfg IMAPConfig) *IMAPDialer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &IMAPDialer{cfg: cfg}
}

// Dial connects, logs in and selects INBOX read-write.
func (d *IMAPDialer) Dial(ctx context.Context) (Session, error) {
	addr := net.JoinHostPort(d.cfg.Host, strconv.Itoa(d.cfg.Port))

	netDialer := &net.Dialer{Timeout: d.cfg.Timeout}
	if deadline, ok := ctx.Deadline(); ok {
		netDialer.Deadline = deadline
	}

	c, err := client.DialWithDialerTLS(netDialer, addr, &tls.Config{ServerName: d.cfg.Host})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	c.Timeout = d.cfg.Timeout

	if err := c.Login(d.cfg.Username, d.cfg.Password); err != nil {
		_ = c.Logout()
		return nil, fmt.Errorf("failed to log in as %s: %w", d.cfg.Username, err)
	}
	if _, err := c.Select("INBOX", false); err != nil {
		_ = c.Logout()
		return nil, fmt.Errorf("failed to select INBOX: %w", err)
	}

	return &imapSession{c: c}, nil
}

type imapSession struct {
	c *client.Client
}

func (s *imapSession) SearchUnread(ctx context.Context) ([]uint32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	criteria := imap.NewSearchCriteria()
	criteria.WithoutFlags = []string{imap.SeenFlag}
	return s.c.UidSearch(criteria)
}

func (s *imapSession) Fetch(ctx context.Context, uid uint32) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(uid)
	section := &imap.BodySectionName{Peek: true}

	messages := make(chan *imap.Message, 1)
	done := make(chan error, 1)
	go func() {
		done <- s.c.UidFetch(seqset, []imap.FetchItem{section.FetchItem()}, messages)
	}()

	var raw []byte
	var readErr error
	for msg := range messages {
		body := msg.GetBody(section)
		if body == nil || raw != nil {
			continue
		}
		raw, readErr = io.ReadAll(body)
	}
	if err := <-done; err != nil {
		return nil, err
	}
	if readErr != nil {
		return nil, readErr
	}
	if raw == nil {
		return nil, fmt.Errorf("message %d has no body", uid)
	}
	return raw, nil
}

func (s *imapSession) MarkRead(ctx context.Context, uid uint32) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	seqset := new(imap.SeqSet)
	seqset.AddNum(uid)
	flags := []interface{}{imap.SeenFlag}
	return s.c.UidStore(seqset, imap.FormatFlagsOp(imap.AddFlags, true), flags, nil)
}

func (s *imapSession) Close() error {
	return s.c.Logout()
}
