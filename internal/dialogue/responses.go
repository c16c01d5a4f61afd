package dialogue

import "fmt"

// Customer-facing copy. Formatting (numbered emoji, asterisk emphasis)
// follows WhatsApp text conventions.

const menuHint = "\n\n💡 Type \"menu\" anytime to see all options."

const mainMenuOptions = `1️⃣ General pension information
2️⃣ Check account balance
3️⃣ Schedule a consultation
4️⃣ Contribution inquiries
5️⃣ Speak with an agent`

func welcomeText(name, company string) string {
	return fmt.Sprintf(`Hello %s! 👋 Welcome to %s Pension Services.

I can help you with:
%s

Please reply with a number (1-5) or describe what you need help with.`, name, company, mainMenuOptions)
}

func mainMenuFallbackText() string {
	return fmt.Sprintf(`I'd be happy to help! Could you please choose from the options below or be more specific?

%s

Just reply with a number or tell me what you need help with.`, mainMenuOptions)
}

func recoveryMenuText() string {
	return fmt.Sprintf(`Let me help you with your pension needs. Please choose:

%s`, mainMenuOptions)
}

const pensionInfoText = `📋 *Pension Information*

Our pension plans offer:
• Competitive returns on your investments
• Flexible contribution options
• Professional fund management
• Tax benefits and advantages
• Secure retirement planning

Would you like to know more about:
A) Contribution rates
B) Investment options
C) Retirement benefits
D) Tax advantages

Reply with A, B, C, or D, or type "menu" to return to main options.`

const pensionInfoRepromptText = `Please choose one of the options:
A) Contribution rates
B) Investment options
C) Retirement benefits
D) Tax advantages

Or type "menu" to return to main options.`

const infoRatesText = `💵 *Contribution Rates*

Our flexible contribution options:
• Minimum: 5% of monthly salary
• Recommended: 10-15% for optimal growth
• Maximum: 25% (with tax advantages)
• Employer matching: Up to 6% (if applicable)

Current rates are competitive with market standards. Would you like to discuss a personalized contribution plan?

Reply "yes" to schedule a call, or "menu" for main options.`

const infoInvestmentText = `📈 *Investment Options*

We offer diversified portfolios:
• Conservative (bonds, stable income)
• Balanced (mixed bonds and equities)
• Growth (equity-focused for long-term)
• Aggressive (maximum growth potential)

All funds are professionally managed with regular performance reviews.

Would you like details on any specific option? Or type "menu" to return.`

const infoRetirementText = `🏖️ *Retirement Benefits*

When you retire, you can:
• Receive monthly pension payments
• Take a partial lump sum (up to 25% tax-free)
• Transfer to another provider
• Leave benefits to beneficiaries

Benefit amounts depend on contributions and investment performance over time.

Need help calculating your potential benefits? Type "calculate" or "menu".`

const infoTaxText = `💸 *Tax Advantages*

Pension contributions offer significant tax benefits:
• Income tax relief on contributions
• Tax-free growth on investments
• Flexible withdrawal options
• Inheritance tax advantages
• Annual allowance optimization

These benefits can significantly boost your retirement savings!

Want to know your specific tax savings? Type "calculate" or "menu".`

const balancePromptText = `🔐 *Account Balance Inquiry*

To check your account balance, I'll need to verify your identity.

Please provide:
1. Your pension ID number
2. Date of birth (DD/MM/YYYY)
3. Last 4 digits of your registered phone number

*Note: This information is kept secure and used only for verification.*`

const balanceRecordedText = `🔍 Thank you for providing your details.

*For security reasons, account balance checks require manual verification by our team.*

I've recorded your request and someone will contact you within 2 business hours with your current balance and recent transactions.

Is there anything else I can help you with today?

Type "menu" for main options.`

const consultationPromptText = `📅 *Schedule a Consultation*

I'd be happy to help you schedule a meeting with one of our pension advisors.

Please tell me:
1. Your preferred date (DD/MM/YYYY)
2. Preferred time (morning/afternoon/evening)
3. Type of consultation needed:
   - New pension plan
   - Existing account review
   - Retirement planning
   - General advice

What works best for you?`

func consultationRecordedText(preferences string) string {
	return fmt.Sprintf(`✅ Perfect! I've noted your consultation preferences:

"%s"

Our team will contact you within 24 hours to confirm your appointment slot. We'll send you:
• Confirmed date and time
• Meeting location or video call link
• Preparation checklist
• Advisor contact details

You'll receive a confirmation SMS and email shortly.

Anything else I can help with? Type "menu" for main options.`, preferences)
}

const contributionPromptText = `💰 *Contribution Inquiries*

I can help with:
• Current contribution rates
• Payment schedules
• Increasing contributions
• Payment methods
• Contribution history

What specific information do you need about contributions?`

const contribRatesText = `💰 *Current Contribution Information*

Standard rates:
• Employee minimum: 5% of salary
• Employee recommended: 10-15%
• Employer contribution: Varies by company
• Self-employed: Flexible amounts

The more you contribute now, the better your retirement income will be!

Need help calculating your ideal contribution? Type "calculate".
Want to increase contributions? Type "increase".
Type "menu" for main options.`

const contribIncreaseText = `📈 *Increase Your Contributions*

Great decision! Increasing contributions can significantly boost your retirement fund.

To increase your contributions:
1. We'll review your current rate
2. Discuss your budget and goals
3. Set up the new contribution level
4. Provide updated projections

I'll arrange for an advisor to call you within 24 hours to discuss this.

Type "menu" for other options.`

const contribHistoryText = `📊 *Contribution History*

For detailed contribution history, our team will need to access your secure account.

We can provide:
• Monthly contribution summaries
• Annual statements
• Growth tracking
• Tax relief applied

An advisor will contact you within 2 business hours with your complete contribution history.

Type "menu" for other options.`

const contributionFallbackText = `I can help with various contribution topics:

• Current rates and recommendations
• Increasing your contributions
• Payment methods and schedules
• Contribution history
• Tax benefits

What specific aspect would you like to know about?`
