package agents

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/swaralabs/swara/internal/agent"
	"github.com/swaralabs/swara/internal/logging"
)

var (
	// "pay 500 to alice", "send money to jay", "transfer 20 dollars to john"
	paymentAmountPattern    = regexp.MustCompile(`(?i)\b(\d+(?:\.\d{1,2})?)\b`)
	paymentRecipientPattern = regexp.MustCompile(`(?i)\bto\s+(\w+)`)
)

// paymentApps maps app keywords in the command to a handler label.
var paymentApps = []string{"paypal", "googlepay", "paytm", "phonepe"}

// PaymentAgent builds payment deep links (PayPal.me and UPI).
type PaymentAgent struct {
	opener URLOpener
	log    zerolog.Logger
}

// NewPayment creates the payment agent. opener may be nil.
func NewPayment(opener URLOpener) *PaymentAgent {
	return &PaymentAgent{opener: opener, log: logging.Component("payment")}
}

// Name implements agent.Agent.
func (p *PaymentAgent) Name() string { return "payment" }

// Process extracts recipient and amount and builds a link for the requested
// payment app, defaulting to PayPal.
func (p *PaymentAgent) Process(_ context.Context, command string) *agent.Result {
	m := paymentRecipientPattern.FindStringSubmatch(command)
	if m == nil {
		return agent.Fail("could not find a payment recipient; try 'pay [amount] to [name]'")
	}
	recipient := m[1]

	amount := ""
	if am := paymentAmountPattern.FindStringSubmatch(command); am != nil {
		amount = am[1]
	}
	if amount == "" {
		return agent.Fail("could not find a payment amount; try 'pay [amount] to [name]'")
	}

	app := "paypal"
	lower := strings.ToLower(command)
	for _, candidate := range paymentApps {
		if strings.Contains(lower, candidate) {
			app = candidate
			break
		}
	}

	var payURL string
	switch app {
	case "paytm", "phonepe":
		payURL = UPIPayURL(recipient, amount)
	case "googlepay":
		payURL = "https://pay.google.com/send/home"
	default:
		payURL = PayPalMeURL(recipient, amount)
	}

	if err := open(p.opener, payURL); err != nil {
		return agent.Fail(fmt.Sprintf("could not open payment app: %v", err))
	}
	p.log.Info().Str("app", app).Str("recipient", recipient).Str("amount", amount).Msg("payment link ready")

	return agent.OK(fmt.Sprintf("Payment of %s to %s is ready in %s", amount, recipient, app)).
		With("payment_url", payURL).
		With("app", app).
		With("recipient", recipient).
		With("amount", amount)
}

// PayPalMeURL builds a PayPal.me payment link.
func PayPalMeURL(recipient, amount string) string {
	return fmt.Sprintf("https://www.paypal.me/%s/%sUSD", url.PathEscape(recipient), amount)
}

// UPIPayURL builds a upi:// deep link. Bare names get a default UPI handle.
func UPIPayURL(recipient, amount string) string {
	upiID := recipient
	if !strings.Contains(recipient, "@") {
		upiID = recipient + "@paytm"
	}
	return fmt.Sprintf("upi://pay?pa=%s&am=%s", url.QueryEscape(upiID), amount)
}
