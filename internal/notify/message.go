package notify

import "fmt"

const emailSubject = "Your Reserved Product is Now Available!"

type Notification struct {
	ID      string
	Channel Channel
	To      string
	Subject string
	Body    string
}

func render(c Channel, productName string) (subject, body string) {
	switch c {
	case ChannelEmail:
		return emailSubject,
			fmt.Sprintf("Great news! The product '%s' you were waiting for is now available.", productName)
	case ChannelPhone:
		return "", fmt.Sprintf("Your reserved product '%s' is now available!", productName)
	}
	return "", ""
}
