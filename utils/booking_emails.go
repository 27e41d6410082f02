package utils

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"
)

// BookingEmailData carries everything the notification templates need.
type BookingEmailData struct {
	GuestName    string
	BookingRef   string
	RoomNumber   string
	RoomType     string
	CheckInDate  string
	CheckOutDate string
	TotalPrice   float64
	RefundAmount float64
	Penalty      float64
}

func smtpConfig() (host, port, user, pass, fromName string, ok bool) {
	host = os.Getenv("SMTP_HOST")
	port = os.Getenv("SMTP_PORT")
	user = os.Getenv("SMTP_USERNAME")
	pass = os.Getenv("SMTP_PASSWORD")
	fromName = os.Getenv("SMTP_FROM_NAME")
	ok = host != "" && port != "" && user != "" && pass != ""
	return
}

func sanitizeHeader(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "\r\n", " ")
}

func sendMail(recipient, subject, plainBody, htmlBody string) error {
	host, port, user, pass, fromName, ok := smtpConfig()

	// DEV fallback -> mock send (log) when SMTP not configured
	if !ok {
		log.Printf("[MOCK EMAIL] to:%s subject:%s", recipient, subject)
		return nil
	}

	from := fmt.Sprintf("%s <%s>", fromName, user)
	auth := smtp.PlainAuth("", user, pass, host)
	addr := fmt.Sprintf("%s:%s", host, port)
	boundary := "----=_HORIZON_EMAIL_BOUNDARY"

	msg := strings.Builder{}
	msg.WriteString(fmt.Sprintf("From: %s\r\n", from))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", recipient))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", sanitizeHeader(subject)))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=\"%s\"\r\n\r\n", boundary))

	msg.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	msg.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
	msg.WriteString(plainBody)
	msg.WriteString("\r\n")

	msg.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	msg.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n\r\n")
	msg.WriteString(htmlBody)
	msg.WriteString("\r\n")

	msg.WriteString(fmt.Sprintf("--%s--\r\n", boundary))

	return smtp.SendMail(addr, auth, user, []string{recipient}, []byte(msg.String()))
}

// SendBookingConfirmationEmail notifies the guest that payment went
// through and the stay is confirmed. Best-effort: callers log failures
// and move on, the booking state never depends on delivery.
func SendBookingConfirmationEmail(recipient string, data BookingEmailData) error {
	subject := fmt.Sprintf("Booking Confirmed — %s", data.BookingRef)

	plainBody := fmt.Sprintf(
		"Dear %s,\n\n"+
			"Your booking is confirmed. Here are your details:\n\n"+
			"Booking Reference: %s\n"+
			"Room: %s (%s)\n"+
			"Check-In: %s\n"+
			"Check-Out: %s\n"+
			"Total: %.2f\n\n"+
			"We look forward to welcoming you.\n\n"+
			"Best regards,\nHorizon Hotel",
		data.GuestName, data.BookingRef, data.RoomNumber, data.RoomType,
		data.CheckInDate, data.CheckOutDate, data.TotalPrice,
	)

	htmlBody := fmt.Sprintf(`<!doctype html>
<html>
<head><meta charset="utf-8"><title>Booking Confirmed</title></head>
<body style="background:#f5f7fb; font-family:Arial, Helvetica, sans-serif; color:#222;">
<div style="max-width:640px; margin:20px auto; background:#fff; border:1px solid #e6eef6; padding:24px; border-radius:8px;">
<h2>Booking Confirmed</h2>
<p>Dear %s,</p>
<p>Your booking <strong>%s</strong> is confirmed.</p>
<table cellpadding="4">
<tr><td>Room</td><td>%s (%s)</td></tr>
<tr><td>Check-In</td><td>%s</td></tr>
<tr><td>Check-Out</td><td>%s</td></tr>
<tr><td>Total</td><td>%.2f</td></tr>
</table>
<p>We look forward to welcoming you.</p>
</div>
</body>
</html>`,
		data.GuestName, data.BookingRef, data.RoomNumber, data.RoomType,
		data.CheckInDate, data.CheckOutDate, data.TotalPrice,
	)

	return sendMail(recipient, subject, plainBody, htmlBody)
}

// SendCancellationEmail notifies the guest of a completed cancellation
// with the penalty/refund breakdown.
func SendCancellationEmail(recipient string, data BookingEmailData) error {
	subject := fmt.Sprintf("Booking Cancelled — %s", data.BookingRef)

	plainBody := fmt.Sprintf(
		"Dear %s,\n\n"+
			"Your booking %s has been cancelled.\n\n"+
			"Cancellation fee: %.2f\n"+
			"Refund amount: %.2f\n\n"+
			"The refund will appear on your original payment method within a few business days.\n\n"+
			"Best regards,\nHorizon Hotel",
		data.GuestName, data.BookingRef, data.Penalty, data.RefundAmount,
	)

	htmlBody := fmt.Sprintf(`<!doctype html>
<html>
<head><meta charset="utf-8"><title>Booking Cancelled</title></head>
<body style="background:#f5f7fb; font-family:Arial, Helvetica, sans-serif; color:#222;">
<div style="max-width:640px; margin:20px auto; background:#fff; border:1px solid #e6eef6; padding:24px; border-radius:8px;">
<h2>Booking Cancelled</h2>
<p>Dear %s,</p>
<p>Your booking <strong>%s</strong> has been cancelled.</p>
<table cellpadding="4">
<tr><td>Cancellation fee</td><td>%.2f</td></tr>
<tr><td>Refund amount</td><td>%.2f</td></tr>
</table>
<p>The refund will appear on your original payment method within a few business days.</p>
</div>
</body>
</html>`,
		data.GuestName, data.BookingRef, data.Penalty, data.RefundAmount,
	)

	return sendMail(recipient, subject, plainBody, htmlBody)
}
