package notify

import "net/url"

// Studio defaults for the outbound chat link.
const (
	DefaultChatPhone    = "233242650165"
	DefaultChatGreeting = "Hello Cognisance Fashion!"
)

// ChatLink builds the WhatsApp deep link the client redirects to for the
// "chat with us" action. The redirect itself is a client-side side effect;
// the server only supplies the URL.
func ChatLink(phone, greeting string) string {
	if phone == "" {
		phone = DefaultChatPhone
	}
	if greeting == "" {
		greeting = DefaultChatGreeting
	}
	return "https://wa.me/" + phone + "?text=" + url.PathEscape(greeting)
}
