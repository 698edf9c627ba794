package command

import (
	"fmt"
	"strings"
)

// markdownSpecial is the MarkdownV2 character set the transport requires
// escaped inside text content.
const markdownSpecial = "\\_*[]()~`>#+-=|{}.!"

// escapeMarkdown prefixes every MarkdownV2 special character with a
// backslash so user-controlled identity/service text cannot corrupt the
// reply's rich-text structure.
func escapeMarkdown(text string) string {
	var b strings.Builder
	b.Grow(len(text) * 2)
	for _, r := range text {
		if strings.ContainsRune(markdownSpecial, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

const escrowStillLine = "WE STILL RECOMMEND USING ESCROW: Scrizon / Cupid"
const escrowHighlyLine = "WE HIGHLY RECOMMEND USING ESCROW: Scrizon / Cupid"

// renderVerified builds the /check reply for a verified identity. The
// service name renders uppercased; see DESIGN.md for the case policy.
func renderVerified(username, service string) Reply {
	service = strings.ToUpper(service)
	return Reply{
		Text: fmt.Sprintf("*🟢 %s IS VERIFIED FOR:*\n\n>`%s`\n\n*%s*",
			escapeMarkdown(username), escapeMarkdown(service), escrowStillLine),
		Plain: fmt.Sprintf("🟢 %s IS VERIFIED FOR:\n\n%s\n\n%s",
			username, service, escrowStillLine),
		Markdown: true,
	}
}

// renderNotVerified builds the /check reply for an unverified identity.
func renderNotVerified(username string) Reply {
	return Reply{
		Text: fmt.Sprintf("*🔴 %s IS NOT VERIFIED*\n\n*%s*",
			escapeMarkdown(username), escrowHighlyLine),
		Plain: fmt.Sprintf("🔴 %s IS NOT VERIFIED\n\n%s",
			username, escrowHighlyLine),
		Markdown: true,
	}
}
