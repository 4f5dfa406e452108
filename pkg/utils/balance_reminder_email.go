package utils

import "fmt"

func SendBalanceReminderEmail(to, memberName, amountOwed, tripName string) error {
	subject := fmt.Sprintf("Outstanding balance in \"%s\"", tripName)

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: auto;">
			<h2>Hi %s,</h2>
			<p>You currently owe <strong>%s</strong> in the trip <strong>%s</strong>.</p>
			<p>Please settle up with the members who fronted the money when you get a chance.</p>
			<p style="color: #888;">This is an automated reminder from the trip ledger.</p>
		</div>
	`, memberName, amountOwed, tripName)

	return SendEmail(to, subject, body)
}
