// Package feedback renders the candidate-facing analysis summary and sends it
// by email.
package feedback

import (
	"fmt"
	"strings"

	"hirelens/internal/models"
)

// Generate renders the deterministic feedback email for a completed analysis.
// Platform sections appear exactly when the job enabled that analyzer; a zero
// score on an enabled platform still shows, a disabled platform never does.
func Generate(cv *models.StructuredCV, analysis *models.Analysis, job *models.JobPosting) string {
	candidateName := "Candidate"
	if cv != nil && strings.TrimSpace(cv.CandidateName) != "" {
		candidateName = cv.CandidateName
	}

	companyName := job.CompanyName
	if companyName == "" {
		companyName = "our company"
	}
	jobTitle := job.Title
	if jobTitle == "" {
		jobTitle = "the role"
	}
	hrTeamName := job.CompanyName
	if hrTeamName == "" {
		hrTeamName = "The HR"
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, "Dear %s,\n\n", candidateName)
	fmt.Fprintf(&sb, "Thank you for your interest in the %s position at %s.\n\n", jobTitle, companyName)
	sb.WriteString("As part of our commitment to a transparent hiring process, we provide all candidates with a detailed, AI-generated analysis of their application. You can use these insights for your professional development.\n\n")

	fmt.Fprintf(&sb, "**Overall Profile Score:** %g / %g\n\n", analysis.OverallScore, analysis.TotalPossibleScore)
	sb.WriteString("**Score Breakdown:**\n")
	fmt.Fprintf(&sb, "- **Career Readiness Score (from CV):** %g / 100\n", analysis.CareerScore)
	fmt.Fprintf(&sb, "- **JD Match Score (CV vs. Job):** %g / 100\n", analysis.JDMatchScore)

	if job.AnalyzeGitHub {
		fmt.Fprintf(&sb, "- **GitHub Profile Score:** %g / 100\n", analysis.GitHubScore)
	}
	if job.AnalyzeLeetCode {
		fmt.Fprintf(&sb, "- **LeetCode Profile Score:** %g / 100\n", analysis.LeetCodeScore)
	}
	if job.AnalyzeLinkedIn {
		fmt.Fprintf(&sb, "- **LinkedIn Profile Score:** %g / 50\n", analysis.LinkedInScore)
	}

	fmt.Fprintf(&sb, "- **Trust Index Score (Verification):** %g / 50\n\n", analysis.TrustScore)

	sb.WriteString("**AI-Powered Insights:**\n")

	if analysis.TrustScore > 35 {
		sb.WriteString("- **Excellent Verification**: Your CV, GitHub, and LinkedIn profiles are well-aligned. This high Trust Index is a great indicator of reliability.\n")
	} else if analysis.TrustScore < 15 {
		sb.WriteString("- **Trust Index Suggestion**: To improve your profile's credibility, ensure your name, email, and technical skills are consistent across your CV, GitHub, and LinkedIn profiles.\n")
	}

	if job.AnalyzeGitHub {
		if analysis.GitHubScore < 40 {
			sb.WriteString("- **GitHub Activity Suggestion**: We recommend increasing your activity on GitHub. A more active profile with well-documented projects is a powerful way to showcase your passion and practical coding skills.\n")
		} else if analysis.GitHubScore >= 60 {
			sb.WriteString("- **Good GitHub Presence**: Your GitHub profile shows consistent activity and demonstrates your practical coding skills.\n")
		}
	}

	if job.AnalyzeLeetCode {
		if analysis.LeetCodeScore < 30 {
			sb.WriteString("- **Problem-Solving Suggestion**: Consider dedicating regular time to problem-solving on platforms like LeetCode. Focusing on Medium-difficulty problems can significantly boost your score.\n")
		} else if analysis.LeetCodeScore >= 60 {
			sb.WriteString("- **Strong Problem-Solving**: Your LeetCode activity indicates strong problem-solving and algorithmic thinking abilities, which are highly valued.\n")
		}
	}

	if job.AnalyzeLinkedIn && analysis.LinkedInScore > 25 {
		sb.WriteString("- **Strong LinkedIn Profile**: Your LinkedIn profile is well-detailed, helping us get a comprehensive view of your experience and skills.\n")
	}

	sb.WriteString(cvDetails(cv, analysis))

	sb.WriteString("\nOur HR team will review this analysis and be in touch with the next steps regarding your application shortly.\n\n")
	fmt.Fprintf(&sb, "Sincerely,\nThe %s Team", hrTeamName)

	return sb.String()
}

func cvDetails(cv *models.StructuredCV, analysis *models.Analysis) string {
	if cv == nil {
		return ""
	}

	var strengths, improvements []string

	if analysis.CareerScore >= 70 {
		strengths = append(strengths, "Your overall CV shows a strong alignment with industry expectations and best practices.")
	}
	if len(cv.TechnicalSkills) >= 5 {
		strengths = append(strengths, "You have demonstrated a diverse and in-demand technical skill set.")
	}

	if analysis.CareerScore < 50 {
		improvements = append(improvements, "Consider gaining more hands-on experience through internships, personal projects, or contributions to open-source to bolster practical skills.")
	}
	if len(cv.Certifications) == 0 {
		improvements = append(improvements, "Pursuing industry-recognized certifications (e.g., from AWS, Google Cloud, Azure, etc.) can formally validate your expertise in key areas.")
	}

	var sb strings.Builder
	if len(strengths) > 0 {
		sb.WriteString("\n**Strengths Highlighted from your CV:**\n")
		for _, s := range strengths {
			fmt.Fprintf(&sb, "- %s\n", s)
		}
	}
	if len(improvements) > 0 {
		sb.WriteString("\n**Potential Areas for Improvement based on your CV:**\n")
		for _, i := range improvements {
			fmt.Fprintf(&sb, "- %s\n", i)
		}
	}
	return sb.String()
}
