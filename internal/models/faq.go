package models

type FAQ struct {
	ID       int    `json:"id" yaml:"id"`
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
}

// DefaultFAQs is served when the config file defines none.
func DefaultFAQs() []FAQ {
	return []FAQ{
		{
			ID:       1,
			Question: "How do I book a unit?",
			Answer:   "To book a unit, navigate to the 'All Bookings' tab, select your desired unit, fill out the booking form with your details including your Facebook account link, choose a meeting date and time, then submit.",
		},
		{
			ID:       2,
			Question: "What information do I need to provide?",
			Answer:   "You need to provide your name, email, contact number, Facebook account link, and your preferred meeting date and time.",
		},
		{
			ID:       3,
			Question: "How long does it take for my booking to be approved?",
			Answer:   "Bookings are typically reviewed within 24-48 hours. You will receive a notification once your booking is approved or if any changes are needed.",
		},
		{
			ID:       4,
			Question: "Can I reschedule my booking?",
			Answer:   "Yes, you can request a reschedule by contacting the admin through the messaging system. The admin will work with you to find a suitable time.",
		},
		{
			ID:       5,
			Question: "What happens after my booking is approved?",
			Answer:   "Once approved, you will receive confirmation and can proceed with the next steps as communicated by the admin.",
		},
		{
			ID:       6,
			Question: "Why do I need to provide my Facebook account?",
			Answer:   "Your Facebook account helps us verify your identity and provides an additional channel for communication regarding your booking.",
		},
	}
}
