package routing

import (
	"fmt"
	"strings"
	"time"

	"github.com/pensionworks/support-bot/internal/ticket"
)

func agentSelectionPrompt(ticketID string) string {
	return fmt.Sprintf(`👥 *Connect with an Agent*

I'm here to connect you with the right specialist for your needs.

Please select the type of assistance you need:

1️⃣ **Account Issues** - Balance, payments, access problems
2️⃣ **Complaints** - Service issues, dissatisfaction, problems
3️⃣ **Technical Support** - App issues, login problems, errors
4️⃣ **Pension Planning** - Retirement advice, investment options
5️⃣ **Contributions** - Payment setup, increases, employer matching
6️⃣ **General Inquiry** - Other questions or information needed

🎫 Your ticket ID: *%s*

Please reply with a number (1-6) or describe your specific need.`, ticketID)
}

func connectedText(department, agentName, ticketID string) string {
	return fmt.Sprintf(`✅ *Connected to %s*

👤 **Agent:** %s
🎫 **Ticket ID:** %s
⏱️ **Status:** Connected
📞 **Response Time:** Immediate

Your agent is ready to help! Please describe your issue in detail, and %s will assist you right away.

🔄 Type "end" to close this conversation
📋 Type "summary" for ticket details`, department, agentName, ticketID, agentName)
}

func queuedText(department, ticketID string, priority ticket.Priority, position int, wait string) string {
	return fmt.Sprintf(`⏳ *Queued for %s*

🎫 **Ticket ID:** %s
📊 **Priority:** %s
👥 **Queue Position:** %d
⏰ **Estimated Wait:** %s

You'll be connected to the next available agent. We'll notify you immediately when an agent becomes available.

In the meantime, you can:
• Provide more details about your issue
• Upload relevant documents (if needed)
• Type "urgent" if this requires immediate attention

💡 Type "callback" to request a phone call instead`, department, ticketID, strings.ToUpper(string(priority)), position, wait)
}

func queuedAckText(position int, wait string) string {
	return fmt.Sprintf(`📝 Thank you, I've added that to your ticket.

👥 **Queue Position:** %d
⏰ **Estimated Wait:** %s

You'll be connected as soon as an agent becomes available. Type "end" to close or "summary" for details.`, position, wait)
}

func agentRelayText(agentName, agentReply string) string {
	return fmt.Sprintf(`👤 **%s:** %s

---
🔄 Type "end" to close | 📋 "summary" for details`, agentName, agentReply)
}

func sessionEndedText(ticketID, agentName, duration string) string {
	return fmt.Sprintf(`✅ *Session Ended*

🎫 **Ticket ID:** %s
👤 **Agent:** %s
⏰ **Duration:** %s
📋 **Status:** Resolved

**Quick Feedback** (Optional):
How was your experience today?

1️⃣ Excellent - Issue resolved quickly
2️⃣ Good - Helpful but took some time
3️⃣ Average - Got some help
4️⃣ Poor - Issue not fully resolved
5️⃣ Very Poor - Unsatisfactory service

Reply with a number or type "skip" to return to main menu.

Thank you for contacting us today! 😊`, ticketID, agentName, duration)
}

const feedbackThanksText = `🙏 Thank you for your feedback! We value your input and will use it to improve our services.

Type "menu" anytime for main options.`

const complaintStep1Text = `😔 *Complaint Registration*

I'm sorry to hear you're experiencing issues. We take all complaints seriously and will resolve this promptly.

**Step 1 of 4:** Please describe the nature of your complaint:

1️⃣ Service quality issues
2️⃣ Account/payment problems
3️⃣ Staff behavior concerns
4️⃣ System/technical issues
5️⃣ Policy disagreements
6️⃣ Other

Please select a number or describe your complaint in detail.`

const complaintStep2Text = `📅 **Step 2 of 4:** When did this issue occur?

Please provide:
• Date of incident (DD/MM/YYYY)
• Approximate time (if relevant)
• How long has this been ongoing?

Example: "15/07/2025, around 2 PM, been ongoing for 2 weeks"`

const complaintStep3Text = `📝 **Step 3 of 4:** Please provide detailed information:

• What exactly happened?
• Who was involved (if staff members)?
• What outcome are you seeking?
• Any reference numbers or previous case IDs?

The more details you provide, the better we can resolve this for you.`

func complaintConfirmationText(complaintID string) string {
	return fmt.Sprintf(`✅ **Complaint Registered Successfully**

🎫 **Complaint ID:** %s
📋 **Status:** Under Investigation
👥 **Assigned to:** Customer Relations Manager
⏰ **Response Time:** Within 48 hours
📞 **Follow-up:** We'll contact you within 2 business days

**Step 4 of 4:** How would you like us to contact you with updates?

1️⃣ WhatsApp messages (this number)
2️⃣ Phone call
3️⃣ Email
4️⃣ SMS updates

**What happens next:**
✓ Investigation begins immediately
✓ Manager review within 24 hours
✓ Resolution plan within 48 hours
✓ Follow-up until resolved

Thank you for bringing this to our attention. We're committed to resolving this satisfactorily.`, complaintID)
}

const complaintDoneText = `Thank you for your complaint. Type "menu" to return to main options.`

// cannedAgentReplies simulates per-category agent answers while no live
// agent desk is connected. Categories without a dedicated set fall back to
// the account pool, matching the illustrative nature of the relay.
var cannedAgentReplies = map[ticket.Category][]string{
	ticket.CategoryAccountIssues: {
		"I can see you're having account issues. Let me check your account details right away.",
		"I understand your concern about your account. I'm pulling up your information now.",
		"Thank you for explaining the issue. I can help resolve this account problem for you.",
	},
	ticket.CategoryComplaints: {
		"I sincerely apologize for this experience. Let me escalate this to ensure it's resolved promptly.",
		"I understand your frustration, and I'm here to make this right. Let me review the details.",
		"Thank you for bringing this to our attention. I'm going to personally ensure this gets resolved.",
	},
	ticket.CategoryTechnical: {
		"I can help with that technical issue. Let me guide you through some troubleshooting steps.",
		"I see you're experiencing technical difficulties. Let me check our system status first.",
		"That's a common technical issue I can definitely help resolve for you.",
	},
}

func formatDuration(createdAt, closedAt time.Time) string {
	if closedAt.IsZero() {
		return "Ongoing"
	}
	minutes := int(closedAt.Sub(createdAt).Minutes())
	return fmt.Sprintf("%d minutes", minutes)
}
