package scheduler

var personalMotivation = []string{
	"Keep going, you've got this!",
	"Small reps add up. Get today's done.",
	"Future you will thank you for the work you put in tonight.",
	"One set at a time. Start now and the rest follows.",
}

var congrats = []string{
	"Nice work, goal hit for today. Keep that streak alive!",
	"Done and dusted. That's how consistency is built.",
	"Target smashed. Rest up and go again tomorrow.",
}

var teamMotivation = []string{
	"Together we're stronger! Every person who shows up today makes our team better.",
	"This team doesn't quit! We're all in this together, so let's make today count.",
	"When one of us wins, we all win. Support each other and crush these goals together!",
	"Great teams are built one rep at a time. Show up for yourself, show up for the team.",
	"Accountability plus support is unstoppable. Let's prove it today, challengers!",
	"We're not just individuals working out. We're a squad pushing limits together.",
}

var footers = []string{
	"Every rep counts! Keep pushing!",
	"Consistency beats perfection!",
	"The only bad workout is the one you didn't do!",
	"Small daily improvements = big results!",
}
