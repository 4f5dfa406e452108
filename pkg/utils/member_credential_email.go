package utils

import "fmt"

func SendMemberCredentialEmail(to, memberName, tripName, password string) error {
	subject := fmt.Sprintf("You were added to the trip \"%s\"", tripName)

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: auto;">
			<h2>Welcome aboard, %s!</h2>
			<p>An admin added you to the trip <strong>%s</strong>.</p>
			<p>Use this credential to sign in and record your expenses:</p>
			<p style="font-size: 20px; letter-spacing: 2px; background: #f4f4f4; padding: 10px; display: inline-block;">
				<strong>%s</strong>
			</p>
			<p>Keep it to yourself; anyone with it can record expenses under your name.</p>
		</div>
	`, memberName, tripName, password)

	return SendEmail(to, subject, body)
}
