package assist

import "fmt"

const systemChat = "You are Seeker, a local coding assistant. Answer questions about " +
	"code precisely and keep responses focused on the task at hand."

const systemGenerate = `You are an expert software engineer. Generate clean, efficient, and well-documented code.
Focus on best practices, proper error handling, and maintainable solutions.`

const systemExplain = `You are an expert code reviewer. Explain code clearly and concisely.
Focus on what the code does, how it works, and any important patterns or considerations.`

const systemReview = `You are an expert code reviewer. Analyze code for:
- Bugs and potential issues
- Performance problems
- Security vulnerabilities
- Code style and best practices
- Maintainability concerns
Provide specific, actionable feedback.`

func generatePrompt(language string) string {
	if language == "" {
		return systemGenerate
	}
	return fmt.Sprintf("%s The code should be in %s.", systemGenerate, language)
}

func generateUserPrompt(prompt, context string) string {
	if context == "" {
		return prompt
	}
	return fmt.Sprintf("Context:\n%s\n\nTask:\n%s", context, prompt)
}

func explainUserPrompt(code, language string) string {
	return fmt.Sprintf("Explain this code:\n\n```%s\n%s\n```", language, code)
}

func reviewUserPrompt(code, language string) string {
	return fmt.Sprintf("Review this code:\n\n```%s\n%s\n```", language, code)
}
