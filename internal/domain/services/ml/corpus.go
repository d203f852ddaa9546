package ml

// Sample is one labeled training document
type Sample struct {
	Text string
	Scam bool
}

// SeedCorpus is the fixed hand-labeled corpus the model is trained on at startup
var SeedCorpus = []Sample{
	{Text: "URGENT: Your account will be suspended in 24 hours. Click here to verify immediately!", Scam: true},
	{Text: "Congratulations! You've won $1,000,000 in our lottery. Claim your prize now!", Scam: true},
	{Text: "IRS Notice: You owe back taxes. Pay immediately to avoid arrest.", Scam: true},
	{Text: "Your bank account has been compromised. Verify your details: bit.ly/secure123", Scam: true},
	{Text: "Final notice: Your subscription expires today. Renew now or lose access forever!", Scam: true},
	{Text: "You've inherited $2.5 million from a distant relative. Contact us to claim.", Scam: true},
	{Text: "ALERT: Suspicious activity detected. Enter your PIN to secure your account.", Scam: true},
	{Text: "Limited time offer: Bitcoin investment returns 500% guaranteed!", Scam: true},
	{Text: "Police warrant issued. Call this number immediately to resolve: 555-SCAM", Scam: true},
	{Text: "Your computer is infected! Download our antivirus software now!", Scam: true},

	{Text: "Hi, this is a reminder about your appointment tomorrow at 2 PM.", Scam: false},
	{Text: "Your order has been shipped and will arrive in 2-3 business days.", Scam: false},
	{Text: "Thank you for your purchase. Your receipt is attached.", Scam: false},
	{Text: "Meeting rescheduled to Friday 10 AM. Please confirm attendance.", Scam: false},
	{Text: "Your subscription renews next month. No action needed.", Scam: false},
	{Text: "Weather alert: Rain expected this afternoon. Drive safely!", Scam: false},
	{Text: "Happy birthday! Hope you have a wonderful day.", Scam: false},
	{Text: "Your package was delivered to your front door.", Scam: false},
	{Text: "Reminder: Library books are due next week.", Scam: false},
	{Text: "New menu items available at your favorite restaurant!", Scam: false},
}
