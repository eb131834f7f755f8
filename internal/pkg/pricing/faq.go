package pricing

// FAQEntry is one question of the public pricing page.
type FAQEntry struct {
	Question string
	Answer   string
}

var faq = []FAQEntry{
	{
		Question: "What's the difference between saving and investing?",
		Answer:   "Saving typically involves putting money aside in a low-risk account for short-term goals or emergencies. Investing means putting money into assets like stocks or bonds with the aim of growing wealth over a longer period, but it comes with more risk.",
	},
	{
		Question: "How much should I save each month?",
		Answer:   "A common rule of thumb is to save 20% of your income, but this can vary based on your financial goals and situation. Start with what you can afford and gradually increase your savings rate.",
	},
	{
		Question: "What's the best way to start investing with little money?",
		Answer:   "You can start with low-cost index funds or ETFs, which offer diversification at a low entry point. Many platforms also offer fractional shares, allowing you to invest in expensive stocks with small amounts.",
	},
	{
		Question: "How do I create a diversified investment portfolio?",
		Answer:   "A diversified portfolio typically includes a mix of stocks, bonds, and other assets across various sectors and geographical regions. The exact mix depends on your risk tolerance and investment goals.",
	},
	{
		Question: "What are the tax implications of saving and investing?",
		Answer:   "Interest from savings accounts is typically taxable as income. For investments, you may owe capital gains tax on profits. However, certain accounts like 401(k)s or IRAs offer tax advantages for retirement savings.",
	},
	{
		Question: "How often should I review my investments?",
		Answer:   "It's good to review your investments at least annually or when there are significant life changes. However, avoid making frequent changes based on short-term market fluctuations.",
	},
	{
		Question: "What's the difference between active and passive investing?",
		Answer:   "Active investing involves trying to beat the market through frequent trading and in-depth analysis. Passive investing aims to match market performance, typically through index funds, and usually involves less frequent trading and lower fees.",
	},
}

// FAQ returns the FAQ entries in display order.
func FAQ() []FAQEntry {
	return append([]FAQEntry(nil), faq...)
}
