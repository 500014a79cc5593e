package utils

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// EmailConfig holds email configuration
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func emailConfigFromEnv() EmailConfig {
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil || port == 0 {
		port = 587
	}
	return EmailConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     port,
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("SMTP_FROM"),
	}
}

// SendPaymentConfirmedEmail notifies the merchant inbox that an operator
// confirmed a payment. Best effort: returns an error the caller may log,
// and does nothing when no notification address is configured.
func SendPaymentConfirmedEmail(orderNumber, amount, utr string) error {
	to := os.Getenv("MERCHANT_NOTIFY_EMAIL")
	if to == "" {
		return nil
	}

	config := emailConfigFromEnv()

	m := gomail.NewMessage()
	m.SetHeader("From", config.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Payment confirmed for order #%s", orderNumber))

	body := fmt.Sprintf(`
		<h2>Payment Confirmed</h2>
		<p>Order <strong>#%s</strong> has been marked as completed.</p>
		<p>Amount: %s</p>
		<p>UTR: %s</p>
	`, orderNumber, amount, utr)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}

	return nil
}
