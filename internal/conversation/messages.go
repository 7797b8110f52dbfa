package conversation

import (
	"fmt"
	"strings"
)

const notUnderstoodMessage = "I didn't understand that. Could you please try again?"

// повторные запросы при невалидном вводе
var repromptMessages = map[Stage]string{
	StageCollectName:       "Please provide your full name (at least 2 characters).",
	StageCollectEmail:      "Please provide a valid email address (e.g., john@example.com).",
	StageCollectPhone:      "Please provide a valid phone number (e.g., +1234567890 or 123-456-7890).",
	StageCollectExperience: "Please provide your years of experience (e.g., '3 years' or '0-1 year').",
	StageCollectPosition:   "Please specify the position(s) you're interested in.",
	StageCollectLocation:   "Please provide your current location.",
	StageCollectTechStack:  "Please provide your tech stack (programming languages, frameworks, tools, etc.).",
}

// подсказки, которые интерфейс показывает рядом с полем ввода
var stagePrompts = map[Stage]string{
	StageCollectName:       "Please provide your **full name**:",
	StageCollectEmail:      "Please provide your **email address**:",
	StageCollectPhone:      "Please provide your **phone number**:",
	StageCollectExperience: "How many **years of experience** do you have?",
	StageCollectPosition:   "What **position(s)** are you interested in?",
	StageCollectLocation:   "What is your **current location**?",
	StageCollectTechStack:  "Please list your **tech stack** (programming languages, frameworks, tools):",
}

func (d *Driver) greeting() string {
	return fmt.Sprintf(`🤖 **Hello! Welcome to %[1]s's AI Hiring Assistant!**

I'm here to help streamline your application process. I'll be gathering some basic information about you and then asking a few technical questions based on your expertise.

This conversation will take about 5-10 minutes and will help us better understand your background and skills.

Ready to get started? Please tell me your **full name**.

*(You can type 'exit' or 'bye' at any time to end our conversation)*`, d.companyName)
}

func (d *Driver) goodbye() string {
	return fmt.Sprintf(`👋 **Thank you for using %s's AI Hiring Assistant!**

We appreciate your time. If you'd like to complete the screening process later, please feel free to start a new session.

Have a great day! 🌟`, d.companyName)
}

func (d *Driver) completionSummary(s *Session) string {
	c := s.Candidate
	return fmt.Sprintf(`🎉 **Congratulations, %[1]s!**

You've successfully completed the initial screening process with %[2]s's AI Hiring Assistant.

**Here's a summary of what we collected:**
- **Name:** %[1]s
- **Email:** %[3]s
- **Phone:** %[4]s
- **Experience:** %[5]s
- **Desired Position(s):** %[6]s
- **Location:** %[7]s
- **Tech Stack:** %[8]s
- **Technical Questions Answered:** %[9]d

**Next Steps:**
1. Our recruitment team will review your responses within 2-3 business days
2. If your profile matches our current openings, we'll reach out via email or phone
3. You may be invited for a detailed technical interview or assessment

Thank you for your time and interest in %[2]s! We appreciate your effort in completing this screening process.`,
		d.escape(c.FullName), d.companyName, d.escape(c.Email), d.escape(c.Phone),
		d.escape(c.ExperienceYears), d.escape(c.DesiredPositions), d.escape(c.CurrentLocation),
		d.escape(c.TechStack), len(s.State.Questions))
}

func nameAcceptedMessage(name string) string {
	return fmt.Sprintf("Nice to meet you, %s! 👋\n\nNow, could you please provide your **email address**?", name)
}

const (
	emailAcceptedMessage      = "Thank you! Now, please provide your **phone number**."
	phoneAcceptedMessage      = "Great! How many **years of experience** do you have in your field?"
	experienceAcceptedMessage = "What **position(s)** are you interested in? (e.g., 'Software Developer', 'Data Scientist', 'Full Stack Developer')"
	positionAcceptedMessage   = "What is your **current location**? (City, State/Country)"
	locationAcceptedMessage   = `Perfect! Now for the technical part.

Please list your **tech stack** - the programming languages, frameworks, databases, and tools you're proficient in.

*For example: "Python, Django, PostgreSQL, React, AWS, Docker"*`
)

func questionsIntroMessage(techStack string, total int, first string) string {
	return fmt.Sprintf(`Excellent! Based on your tech stack: **%s**

I'll now ask you %d technical questions to assess your proficiency. Don't worry - just answer to the best of your ability!

**Question 1 of %d:**
%s`, techStack, total, total, first)
}

func nextQuestionMessage(index, total int, question string) string {
	return fmt.Sprintf("Thank you for your answer!\n\n**Question %d of %d:**\n%s",
		index+1, total, question)
}

// CurrentPrompt возвращает подсказку для текущего этапа
func (d *Driver) CurrentPrompt(s *Session) string {
	if s.State.Stage == StageAskQuestions {
		q, ok := s.CurrentQuestion()
		if !ok {
			return "Technical Questions:"
		}
		var b strings.Builder
		b.WriteString(fmt.Sprintf("**Question %d of %d:**\n", s.State.QuestionIndex+1, len(s.State.Questions)))
		b.WriteString(fmt.Sprintf("**%s**", d.escape(q)))
		return b.String()
	}
	return stagePrompts[s.State.Stage]
}
