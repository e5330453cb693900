package email

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Domenick1991/airport/internal/kafka"
)

// Sender writes order confirmations to an output stream in place of a mail relay.
type Sender struct {
	out io.Writer
}

func NewSender() *Sender {
	return &Sender{out: os.Stdout}
}

func NewSenderTo(out io.Writer) *Sender {
	return &Sender{out: out}
}

func (s *Sender) Send(ctx context.Context, event kafka.OrderEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	seats := make([]string, 0, len(event.Tickets))
	for _, t := range event.Tickets {
		seats = append(seats, fmt.Sprintf("flight %d row %d seat %d", t.FlightID, t.Row, t.Seat))
	}
	_, err := fmt.Fprintf(s.out, "send email to user %s about %s for order %d: %s\n",
		event.UserID, event.Type, event.OrderID, strings.Join(seats, "; "))
	return err
}
