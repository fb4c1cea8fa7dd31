package mail

import "fmt"

func WelcomeEmail(from, fullName, email, password string) *EmailInfo {
	return &EmailInfo{
		From:    from,
		To:      []string{email},
		Subject: "Welcome to HRM platform",
		Text: fmt.Sprintf(`Dear %s,

Welcome to the HRM Platform! We are excited to have you on board.

Here are your login details:
Username: %s
System Generated Password: %s
Please log in and change your password as soon as possible.

Best regards,
The HRM Platform`, fullName, email, password),
	}
}

func LoginNoticeEmail(from, email string) *EmailInfo {
	return &EmailInfo{
		From:    from,
		To:      []string{email},
		Subject: "Login Successful to HRM Platform",
		Text: `Dear Employee,

We are pleased to inform you that your login to the HRM Platform was successful.

If this login was not performed by you, please reset your password immediately or contact support.

Best regards,
The HRM Platform`,
	}
}
